package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"RentalNegotiator/internal/config"
	"RentalNegotiator/internal/forms"
	"RentalNegotiator/internal/measure"
	"RentalNegotiator/internal/models"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers(map[string]int{"1": 3, "12": 5})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 3, 12: 5}, got)

	_, err = parseAnswers(map[string]int{"q1": 3})
	assert.Error(t, err)
}

func TestMergeProfileOnlyChangedFlags(t *testing.T) {
	profileInput = forms.ProfileInput{}
	cmd := &cobra.Command{Use: "edit"}
	profileFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--rent", "70", "--dong", ""}))

	current := forms.ProfileInput{Dong: "역삼동", Building: "A", Rent: "65", SecurityDeposit: "1000"}
	merged := mergeProfile(current, profileInput, cmd)
	assert.Equal(t, "70", merged.Rent)
	assert.Equal(t, "", merged.Dong)
	assert.Equal(t, "A", merged.Building)
	assert.Equal(t, "1000", merged.SecurityDeposit)
}

func TestNeedsPhone(t *testing.T) {
	assert.False(t, needsPhone([]models.MeasurementKind{models.KindInternet}))
	assert.True(t, needsPhone([]models.MeasurementKind{models.KindInternet, models.KindLevel}))
}

func TestPublicURL(t *testing.T) {
	cfg = config.Config{RelayAddr: "127.0.0.1:8090"}
	assert.Equal(t, "http://127.0.0.1:8090", publicURL())

	cfg = config.Config{RelayAddr: ":8090", RelayPublicURL: "https://relay.example.com"}
	assert.Equal(t, "https://relay.example.com", publicURL())
}

func TestPrintEventAnnouncesEachTool(t *testing.T) {
	var buf bytes.Buffer
	out = &buf
	lastState = measure.StateIdle

	printEvent(measure.Event{State: measure.StateNoise, Kind: models.KindNoise})
	printEvent(measure.Event{State: measure.StateNoise, Kind: models.KindNoise, Value: 41})
	printEvent(measure.Event{State: measure.StateInternet, Kind: models.KindInternet})
	printEvent(measure.Event{State: measure.StateInternet, Kind: models.KindInternet, Message: "download"})
	printEvent(measure.Event{State: measure.StateDone})

	s := buf.String()
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("소음 측정")))
	assert.Contains(t, s, "인터넷 속도 측정")
	assert.Contains(t, s, "  download")
	assert.Contains(t, s, "측정이 끝났습니다.")
}

func TestFormatRecord(t *testing.T) {
	assert.Equal(t, "평균 45.2 dB (30.0~60.0)", formatRecord(models.MeasurementRecord{Kind: models.KindNoise, Average: 45.2, Min: 30, Max: 60}))
	assert.Equal(t, "다운로드 12.5 Mbps x", formatRecord(models.MeasurementRecord{Kind: models.KindInternet, Average: 12_500_000, Detail: "x"}))
	assert.Equal(t, "abcdef12", shortID("abcdef1234567890"))
}

func runWithoutStorage(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	out = &buf
	t.Setenv("SESSION_DB_PATH", filepath.Join(t.TempDir(), "missing", "session.db"))
	t.Setenv("API_BASE_URL", "http://127.0.0.1:1")
	t.Cleanup(func() {
		out = os.Stdout
		dbPath = ""
		statusPage = ""
	})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestStatusWithoutStorageStartsAtLogin(t *testing.T) {
	got, err := runWithoutStorage(t, "status", "--page", "/report")
	require.NoError(t, err)
	assert.Contains(t, got, "로그인: 안 됨")
	assert.Contains(t, got, "(/auth/login)")
	assert.Contains(t, got, "/report: 접근 불가, /auth/login 로 이동")
}

func TestHistoryWithoutStorageFails(t *testing.T) {
	_, err := runWithoutStorage(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "저장소를 열 수 없어")
}
