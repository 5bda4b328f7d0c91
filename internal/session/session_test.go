package session

import (
	"path/filepath"
	"strings"
	"testing"

	"RentalNegotiator/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDB(t *testing.T) {
	t.Helper()
	require.NoError(t, storage.InitDB(filepath.Join(t.TempDir(), "session.db")))
	t.Cleanup(func() { storage.CloseDB() })
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withDB(t)
	m := NewManager("")

	in := Session{
		Token:               "tok-123",
		LoggedIn:            true,
		Email:               "a@b.com",
		Nickname:            "세입자",
		UserID:              "42",
		OnboardingCompleted: true,
		Profile: CachedProfile{
			Dong:            "역삼동",
			Building:        "  래미안 101동 ",
			BuildingType:    "아파트",
			ContractType:    "월세",
			SecurityDeposit: "01000",
			Rent:            "55",
			MaintenanceFee:  "",
		},
	}
	require.NoError(t, m.Save(in))

	out := NewManager("").Load()
	assert.Equal(t, in, out)
}

func TestUpdateAndClear(t *testing.T) {
	withDB(t)
	m := NewManager("")

	_, err := m.Update(func(s *Session) {
		s.Token = "t"
		s.LoggedIn = true
	})
	require.NoError(t, err)

	s, err := m.Update(func(s *Session) { s.DiagnosisCompleted = true })
	require.NoError(t, err)
	assert.Equal(t, "t", s.Token)
	assert.True(t, s.DiagnosisCompleted)

	require.NoError(t, m.Clear())
	assert.Equal(t, Session{}, m.Load())
	assert.Empty(t, m.Token())
}

func TestTokenSealedAtRest(t *testing.T) {
	withDB(t)
	m := NewManager("local-secret")
	require.NoError(t, m.Save(Session{Token: "plain-token", LoggedIn: true}))

	raw, ok, err := storage.GetValue(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, sealedPrefix))
	assert.NotContains(t, raw, "plain-token")

	assert.Equal(t, "plain-token", NewManager("local-secret").Token())
	// 다른 키로는 복호화 불가 -> 빈 토큰
	assert.Empty(t, NewManager("other-secret").Token())
}

func TestMemoryFallbackWithoutStorage(t *testing.T) {
	require.NoError(t, storage.CloseDB())
	m := NewManager("")

	assert.Equal(t, Session{}, m.Load())
	require.NoError(t, m.Save(Session{Email: "x@y.z"}))
	assert.Equal(t, "x@y.z", m.Load().Email)
	require.NoError(t, m.Clear())
	assert.Empty(t, m.Load().Email)
}

func TestOneShotFlags(t *testing.T) {
	withDB(t)
	m := NewManager("")
	require.NoError(t, m.Save(Session{Token: "t", JustLoggedIn: true, ShowDiagnosisPrompt: true}))

	assert.True(t, m.TakeJustLoggedIn())
	assert.False(t, m.TakeJustLoggedIn())
	_, ok, err := storage.GetValue(KeyJustLoggedIn)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, m.TakeDiagnosisPrompt())
	assert.False(t, m.Load().ShowDiagnosisPrompt)
	assert.Equal(t, "t", m.Token())
}

func TestOneShotFlagsInMemory(t *testing.T) {
	require.NoError(t, storage.CloseDB())
	m := NewManager("")
	require.NoError(t, m.Save(Session{JustLoggedIn: true}))

	assert.True(t, m.TakeJustLoggedIn())
	assert.False(t, m.TakeJustLoggedIn())
}
