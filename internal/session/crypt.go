package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const sealedPrefix = "enc:v1:"

var errMalformedToken = errors.New("session: malformed sealed token")

// 저장 시 토큰 암호화 (secretbox, HKDF-SHA256 키)
type sealer struct {
	key [32]byte
}

func newSealer(secret string) *sealer {
	s := &sealer{}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("rentcheck-session-token"))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		panic(err)
	}
	return s
}

func (s *sealer) seal(plain string) (string, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(box), nil
}

// 접두사가 없으면 평문으로 저장된 이전 값으로 본다.
func (s *sealer) open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil || len(raw) < 24+secretbox.Overhead {
		return "", errMalformedToken
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &s.key)
	if !ok {
		return "", errMalformedToken
	}
	return string(plain), nil
}
