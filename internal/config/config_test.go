package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("NOISE_DURATION_SEC", "")
	t.Setenv("REALTIME_PER_SEC", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.NoiseDuration)
	assert.Equal(t, 3*time.Second, cfg.LevelDuration)
	assert.Equal(t, 1_000_000, cfg.SpeedDownloadBytes)
	assert.Equal(t, 2.0, cfg.RealtimePerSec)
}

func TestFromEnv_PublicVariablesWin(t *testing.T) {
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_BASE_URL", "https://other.example.com")
	t.Setenv("NEXT_PUBLIC_KAKAO_API_KEY", "kakao-key")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	assert.Equal(t, "kakao-key", cfg.KakaoAPIKey)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Run("relative base url", func(t *testing.T) {
		t.Setenv("NEXT_PUBLIC_API_BASE_URL", "localhost:8080")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		t.Setenv("NEXT_PUBLIC_API_BASE_URL", "")
		t.Setenv("NOISE_DURATION_SEC", "0")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("bad realtime rate", func(t *testing.T) {
		t.Setenv("NEXT_PUBLIC_API_BASE_URL", "")
		t.Setenv("NOISE_DURATION_SEC", "")
		t.Setenv("REALTIME_PER_SEC", "fast")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
