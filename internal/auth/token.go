/* 릴레이 페어링 토큰 발급/검증, 백엔드 JWT 만료 확인 */

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const pairingIssuer = "rentcheck-relay"

// Claims 는 페어링 토큰 페이로드. Subject 는 측정 세션 ID.
type Claims struct {
	Tools []string `json:"tools,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	key []byte
	ttl time.Duration
}

// NewTokenManager 는 secret 이 비어 있으면 프로세스마다 임의 키를 만든다.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	key := []byte(secret)
	if len(key) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			panic(err)
		}
		key = []byte(hex.EncodeToString(buf))
		log.Println("Warning: RELAY_JWT_SECRET is not set. Using a random per-process key.")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TokenManager{key: key, ttl: ttl}
}

// GenerateToken 은 측정 세션에 묶인 짧은 수명의 토큰을 만든다.
func (m *TokenManager) GenerateToken(sessionID string, tools []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Tools: tools,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    pairingIssuer,
			Subject:   sessionID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Issuer != pairingIssuer {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

var ErrNoExpiry = errors.New("token has no exp claim")

// TokenExpiry 는 백엔드 JWT 의 exp 를 서명 검증 없이 읽는다.
// 서명 키는 백엔드만 가지므로 클라이언트는 만료 시점 확인에만 쓴다.
func TokenExpiry(tokenString string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// Expired 는 exp 가 지났으면 true. exp 를 읽을 수 없으면 서버 판단에 맡긴다(false).
func Expired(tokenString string, now time.Time) bool {
	exp, err := TokenExpiry(tokenString)
	if err != nil {
		return false
	}
	return !now.Before(exp)
}
