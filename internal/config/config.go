/**
* Name: 			config.go
* Description: 		환경 변수 기반 런타임 설정
* Workflow: 		.env 로드(선택), 기본값 적용, 최소 검증
 */
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	KakaoAPIKey string

	SessionDBPath string
	SessionSecret string

	RelayAddr      string
	RelayJWTSecret string
	RelayPublicURL string

	SpeedPingURL       string
	SpeedDownloadURL   string
	SpeedUploadURL     string
	SpeedDownloadBytes int
	SpeedUploadBytes   int

	NoiseDuration  time.Duration
	LevelDuration  time.Duration
	RealtimePerSec float64
	RequestTimeout time.Duration
}

// Load 는 .env 파일이 있으면 먼저 읽고, 환경 변수에서 설정을 구성한다.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] config.Load(): failed to read .env: %v", err)
	}
	return FromEnv()
}

// FromEnv 는 .env 없이 현재 프로세스 환경만으로 설정을 만든다.
func FromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL:  strings.TrimRight(first("NEXT_PUBLIC_API_BASE_URL", "API_BASE_URL", "http://localhost:8080"), "/"),
		KakaoAPIKey: first("NEXT_PUBLIC_KAKAO_API_KEY", "KAKAO_API_KEY", ""),

		SessionDBPath: fallback(os.Getenv("SESSION_DB_PATH"), "./rentcheck_session.db"),
		SessionSecret: strings.TrimSpace(os.Getenv("SESSION_SECRET")),

		RelayAddr:      fallback(os.Getenv("RELAY_ADDR"), ":8090"),
		RelayJWTSecret: strings.TrimSpace(os.Getenv("RELAY_JWT_SECRET")),
		RelayPublicURL: strings.TrimRight(strings.TrimSpace(os.Getenv("RELAY_PUBLIC_URL")), "/"),

		SpeedPingURL:     fallback(os.Getenv("SPEED_PING_URL"), "https://speed.cloudflare.com/__down?bytes=0"),
		SpeedDownloadURL: fallback(os.Getenv("SPEED_DOWNLOAD_URL"), "https://speed.cloudflare.com/__down"),
		SpeedUploadURL:   fallback(os.Getenv("SPEED_UPLOAD_URL"), "https://speed.cloudflare.com/__up"),
	}

	var err error
	if cfg.SpeedDownloadBytes, err = positiveInt("SPEED_DOWNLOAD_BYTES", 1_000_000); err != nil {
		return Config{}, err
	}
	if cfg.SpeedUploadBytes, err = positiveInt("SPEED_UPLOAD_BYTES", 500_000); err != nil {
		return Config{}, err
	}

	noiseSec, err := positiveInt("NOISE_DURATION_SEC", 15)
	if err != nil {
		return Config{}, err
	}
	levelSec, err := positiveInt("LEVEL_DURATION_SEC", 3)
	if err != nil {
		return Config{}, err
	}
	timeoutSec, err := positiveInt("REQUEST_TIMEOUT_SEC", 30)
	if err != nil {
		return Config{}, err
	}
	cfg.NoiseDuration = time.Duration(noiseSec) * time.Second
	cfg.LevelDuration = time.Duration(levelSec) * time.Second
	cfg.RequestTimeout = time.Duration(timeoutSec) * time.Second

	cfg.RealtimePerSec = 2
	if raw := strings.TrimSpace(os.Getenv("REALTIME_PER_SEC")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return Config{}, fmt.Errorf("REALTIME_PER_SEC must be a positive number, got %q", raw)
		}
		cfg.RealtimePerSec = v
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("API base URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}

	return cfg, nil
}

func first(primary, secondary, def string) string {
	if v := strings.TrimSpace(os.Getenv(primary)); v != "" {
		return v
	}
	return fallback(os.Getenv(secondary), def)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}
