/**
* Name: 			controller.go
* Description: 		페이지 단위 흐름 (로그인, 온보딩, 진단, 리포트, 주간 미션)
* Workflow: 		입력 검증 -> 백엔드 호출 -> 세션 갱신 -> 다음 단계 반환
 */
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"RentalNegotiator/internal/apiclient"
	"RentalNegotiator/internal/auth"
	"RentalNegotiator/internal/flow"
	"RentalNegotiator/internal/forms"
	"RentalNegotiator/internal/geo"
	"RentalNegotiator/internal/models"
	"RentalNegotiator/internal/session"
)

var (
	ErrNotLoggedIn         = errors.New("로그인이 필요합니다.")
	ErrDiagnosisIncomplete = errors.New("모든 문항에 응답해야 합니다.")
	ErrAlreadyParticipated = errors.New("이미 참여한 미션입니다.")
)

type Controller struct {
	API     *apiclient.Client
	Session *session.Manager
	// Geo 는 백엔드 주소 미리보기가 실패했을 때만 쓴다. nil 이면 건너뛴다.
	Geo *geo.KakaoClient
	Now func() time.Time
}

func New(api *apiclient.Client, sess *session.Manager, kakao *geo.KakaoClient) *Controller {
	return &Controller{API: api, Session: sess, Geo: kakao, Now: time.Now}
}

func (c *Controller) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Register 는 형식 검증을 통과한 경우에만 가입 요청을 보낸다.
func (c *Controller) Register(ctx context.Context, r forms.Registration) error {
	if err := forms.ValidateRegistration(r); err != nil {
		return err
	}
	return c.API.Signup(ctx, models.SignupRequest{
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Nickname: strings.TrimSpace(r.Nickname),
	})
}

// Login 은 토큰을 받은 경우에만 세션을 쓴다. 다음 단계는 항상 위치 인증이다.
func (c *Controller) Login(ctx context.Context, email, password string) (flow.Step, error) {
	if err := forms.ValidateLogin(email, password); err != nil {
		return flow.StepLogin, err
	}
	email = strings.TrimSpace(email)
	resp, err := c.API.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return flow.StepLogin, err
	}

	_, err = c.Session.Update(func(s *session.Session) {
		s.Token = resp.Token
		s.LoggedIn = true
		s.Email = email
		s.UserID = strconv.FormatInt(resp.ID, 10)
		s.JustLoggedIn = true
	})
	if err != nil {
		return flow.StepLogin, fmt.Errorf("failed to store session: %w", err)
	}
	log.Printf("Login(): user %d logged in", resp.ID)
	return flow.StepOnboardingLocation, nil
}

func (c *Controller) Logout() error {
	return c.Session.Clear()
}

// DropExpired 는 저장된 토큰의 exp 가 지났으면 세션을 비우고 true 를 돌려준다.
func (c *Controller) DropExpired() (bool, error) {
	token := c.Session.Token()
	if token == "" || !auth.Expired(token, c.now()) {
		return false, nil
	}
	log.Printf("[WARN] DropExpired(): stored token expired, clearing session")
	return true, c.Session.Clear()
}

// RedirectError 는 page 진입이 거부되어 To 단계로 보내야 할 때 돌려준다.
type RedirectError struct {
	Page flow.Step
	To   flow.Step
}

func (e *RedirectError) Error() string {
	if e.To == flow.StepLogin {
		return ErrNotLoggedIn.Error()
	}
	return fmt.Sprintf("%s 페이지를 열 수 없습니다. 먼저 %s 단계를 완료하세요.", e.Page.Path(), e.To.Path())
}

func (e *RedirectError) Unwrap() error {
	if e.To == flow.StepLogin {
		return ErrNotLoggedIn
	}
	return nil
}

// guard 는 모든 페이지 동작 앞에서 Resolve 판정을 적용한다.
func (c *Controller) guard(ctx context.Context, page flow.Step) error {
	d := c.Resolve(ctx, page)
	if d.Allow {
		return nil
	}
	log.Printf("guard(): %s denied, redirect to %s", page, d.Redirect)
	return &RedirectError{Page: page, To: d.Redirect}
}

// Resolve 는 백엔드 프로필로 page 진입 여부를 판단한다.
// 프로필 조회에 실패하면 로컬 플래그로 판단한다.
func (c *Controller) Resolve(ctx context.Context, page flow.Step) flow.Decision {
	var server *flow.ServerState
	if c.Session.Load().HasToken() {
		profile, err := c.API.Profile(ctx)
		if err != nil {
			log.Printf("[WARN] Resolve(): profile unavailable, using local flags: %v", err)
		} else {
			server = &flow.ServerState{
				OnboardingCompleted: profile.OnboardingCompleted,
				GPSVerified:         profile.GPSVerified,
				DiagnosisCompleted:  profile.DiagnosisCompleted,
			}
			c.syncFlags(profile)
		}
	}
	// 401 이면 위 호출에서 세션이 비워졌으므로 다시 읽는다.
	return flow.Guard(page, server, c.localFallback())
}

func (c *Controller) localFallback() flow.LocalFallback {
	s := c.Session.Load()
	return flow.LocalFallback{
		HasToken:            s.HasToken(),
		OnboardingCompleted: s.OnboardingCompleted,
		GPSVerified:         s.GPSVerified,
		DiagnosisCompleted:  s.DiagnosisCompleted,
		Known:               true,
	}
}

func (c *Controller) syncFlags(p models.Profile) {
	_, err := c.Session.Update(func(s *session.Session) {
		s.OnboardingCompleted = p.OnboardingCompleted
		s.GPSVerified = p.GPSVerified
		s.DiagnosisCompleted = p.DiagnosisCompleted
		if p.Nickname != "" {
			s.Nickname = p.Nickname
		}
	})
	if err != nil {
		log.Printf("[WARN] syncFlags(): %v", err)
	}
}
