package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"RentalNegotiator/internal/models"
	"RentalNegotiator/internal/notice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	token   string
	cleared int
}

func (f *fakeSession) Token() string { return f.token }
func (f *fakeSession) Clear() error {
	f.cleared++
	f.token = ""
	return nil
}

func newTestClient(t *testing.T, h http.HandlerFunc, sess *fakeSession) (*Client, *notice.Recorder, *[]string) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	rec := &notice.Recorder{}
	var redirects []string
	c := New(srv.URL, sess,
		WithNotifier(rec),
		WithRedirect(func(p string) { redirects = append(redirects, p) }),
	)
	return c, rec, &redirects
}

func TestBearerTokenAndAllowList(t *testing.T) {
	seen := map[string]string{}
	h := func(w http.ResponseWriter, r *http.Request) {
		seen[r.URL.Path] = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/member/doLogin":
			json.NewEncoder(w).Encode(models.LoginResponse{ID: 7, Token: "new-token"})
		default:
			w.Write([]byte(`{}`))
		}
	}
	c, _, _ := newTestClient(t, h, &fakeSession{token: "stored"})
	ctx := context.Background()

	_, err := c.Login(ctx, models.LoginRequest{Email: "a@b.c", Password: "password1"})
	require.NoError(t, err)
	_, err = c.PreviewAddress(ctx, models.Coordinate{Latitude: 37.5, Longitude: 127.0})
	require.NoError(t, err)
	require.NoError(t, c.Signup(ctx, models.SignupRequest{Email: "a@b.c"}))
	_, err = c.Profile(ctx)
	require.NoError(t, err)

	assert.Empty(t, seen["/member/doLogin"])
	assert.Empty(t, seen["/api/location/preview"])
	assert.Empty(t, seen["/member/create"])
	assert.Equal(t, "Bearer stored", seen["/member/profile"])
}

func TestNoTokenNoHeader(t *testing.T) {
	var header string
	h := func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}
	c, _, _ := newTestClient(t, h, &fakeSession{})
	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Empty(t, header)
}

func TestUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}
	sess := &fakeSession{token: "stale"}
	c, rec, redirects := newTestClient(t, h, sess)

	_, err := c.DiagnosisResult(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, sess.cleared)
	assert.Empty(t, sess.token)
	assert.Equal(t, []string{LoginPath}, *redirects)
	require.Len(t, rec.Entries(), 1)
	assert.Equal(t, notice.MsgSessionExpired, rec.Entries()[0].Message)
	assert.Equal(t, "token expired", UserMessage(err))
}

func TestServerErrorNotice(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}
	sess := &fakeSession{token: "t"}
	c, rec, redirects := newTestClient(t, h, sess)

	err := c.SubmitAnswers(context.Background(), []models.Answer{{QuestionID: 1, Score: 3}})
	assert.ErrorIs(t, err, ErrServer)
	assert.Zero(t, sess.cleared)
	assert.Empty(t, *redirects)
	require.Len(t, rec.Entries(), 1)
	assert.Equal(t, notice.MsgServerError, rec.Entries()[0].Message)
}

func TestBadRequestCarriesMessage(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"이미 가입된 이메일입니다"}`))
	}
	c, rec, _ := newTestClient(t, h, &fakeSession{})

	err := c.Signup(context.Background(), models.SignupRequest{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, "이미 가입된 이메일입니다", UserMessage(err))
	assert.Empty(t, rec.Entries())
}

func TestNetworkErrorNotice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &notice.Recorder{}
	c := New(url, &fakeSession{}, WithNotifier(rec))
	_, err := c.CurrentMission(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	require.Len(t, rec.Entries(), 1)
	assert.Equal(t, notice.MsgNetworkError, rec.Entries()[0].Message)
}

func TestCanceledContextIsNotANetworkNotice(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{}`)) }
	c, rec, _ := newTestClient(t, h, &fakeSession{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Profile(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.Entries())
}

func TestLoginWithoutToken(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 3}`))
	}
	c, _, _ := newTestClient(t, h, &fakeSession{})
	_, err := c.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "password1"})
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestDecodeFailure(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalScore": "high"}`))
	}
	c, _, _ := newTestClient(t, h, &fakeSession{token: "t"})
	_, err := c.DiagnosisResult(context.Background())
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEnvelopeUnwrap(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"nickname":"세입자","onboardingCompleted":true}}`))
	}
	c, _, _ := newTestClient(t, h, &fakeSession{token: "t"})
	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "세입자", p.Nickname)
	assert.True(t, p.OnboardingCompleted)
}

func TestQuestionsShapes(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		h := func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"questionId":1,"questionText":"소음"},{"questionId":2}]`))
		}
		c, _, _ := newTestClient(t, h, &fakeSession{token: "t"})
		qs, err := c.Questions(context.Background())
		require.NoError(t, err)
		require.Len(t, qs, 2)
		assert.Equal(t, "소음", qs[0].Text)
	})

	t.Run("wrapped", func(t *testing.T) {
		h := func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"questions":[{"questionId":9}]}`))
		}
		c, _, _ := newTestClient(t, h, &fakeSession{token: "t"})
		qs, err := c.Questions(context.Background())
		require.NoError(t, err)
		require.Len(t, qs, 1)
		assert.EqualValues(t, 9, qs[0].QuestionID)
	})
}

func TestMarketDataCacheKeyedByRequest(t *testing.T) {
	var calls atomic.Int32
	h := func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(models.MarketData{Dong: r.URL.Query().Get("dong")})
	}
	c, _, _ := newTestClient(t, h, &fakeSession{token: "t"})
	ctx := context.Background()

	m, err := c.MarketData(ctx, "역삼동", "원룸")
	require.NoError(t, err)
	assert.Equal(t, "역삼동", m.Dong)

	_, err = c.MarketData(ctx, "역삼동", "원룸")
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	m, err = c.MarketData(ctx, "삼성동", "원룸")
	require.NoError(t, err)
	assert.Equal(t, "삼성동", m.Dong)
	assert.EqualValues(t, 2, calls.Load())
}

func TestPathsForParameterisedEndpoints(t *testing.T) {
	var paths []string
	h := func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{}`))
	}
	c, _, _ := newTestClient(t, h, &fakeSession{token: "t"})
	ctx := context.Background()

	_, _ = c.Report(ctx, 11)
	_, _ = c.PremiumReport(ctx, 11)
	_ = c.ParticipateMission(ctx, 5, nil)
	_, _ = c.MissionResult(ctx, 5)
	_, _ = c.StartSmart(ctx, models.KindNoise)
	_ = c.RealtimeSmart(ctx, models.KindLevel, models.SmartRealtime{})
	_ = c.CompleteSmart(ctx, models.KindInternet, models.SmartComplete{})

	assert.Equal(t, []string{
		"GET /public/report/11",
		"GET /public/report/premium/11",
		"POST /mission/weekly/5/participate",
		"GET /mission/weekly/5/result",
		"POST /smart-diagnosis/noise/start",
		"POST /smart-diagnosis/level/realtime",
		"POST /smart-diagnosis/internet/complete",
	}, paths)
}
