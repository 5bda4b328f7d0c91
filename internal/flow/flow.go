/**
* Name: 			flow.go
* Description: 		사용자 여정 상태 머신 (로그인 -> 온보딩 -> 진단 -> 결과 -> 리포트)
* Workflow: 		서버 상태 우선, 서버 불가 시 로컬 플래그, 둘 다 없으면 통과
 */
package flow

type Step int

const (
	StepLogin Step = iota
	StepOnboardingLocation
	StepOnboardingProfile
	StepDiagnosis
	StepDiagnosisResults
	// 결과 이후 페이지. 진행 단계가 아니라 목적지다.
	StepReport
	StepWeeklyMission
	StepProfile
)

var stepNames = map[Step]string{
	StepLogin:              "unauthenticated",
	StepOnboardingLocation: "onboarding:location",
	StepOnboardingProfile:  "onboarding:profile",
	StepDiagnosis:          "diagnosis",
	StepDiagnosisResults:   "diagnosis:results",
	StepReport:             "report",
	StepWeeklyMission:      "weekly-mission",
	StepProfile:            "profile",
}

var stepPaths = map[Step]string{
	StepLogin:              "/auth/login",
	StepOnboardingLocation: "/onboarding/location",
	StepOnboardingProfile:  "/onboarding/profile",
	StepDiagnosis:          "/diagnosis",
	StepDiagnosisResults:   "/diagnosis/result",
	StepReport:             "/report",
	StepWeeklyMission:      "/weekly-mission",
	StepProfile:            "/profile",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "unknown"
}

// Path 는 단계에 해당하는 라우트 경로.
func (s Step) Path() string {
	return stepPaths[s]
}

// StepForPath 는 라우트 경로로 단계를 찾는다.
func StepForPath(path string) (Step, bool) {
	for s, p := range stepPaths {
		if p == path {
			return s, true
		}
	}
	return 0, false
}

// 백엔드 프로필이 알려준 상태. 요청 실패 시 nil 로 넘긴다.
type ServerState struct {
	OnboardingCompleted bool
	GPSVerified         bool
	DiagnosisCompleted  bool
}

// 로컬 세션에서 읽은 대체 플래그.
type LocalFallback struct {
	HasToken            bool
	OnboardingCompleted bool
	GPSVerified         bool
	DiagnosisCompleted  bool
	// Known 이 false 면 로컬 저장소를 읽지 못한 상태다.
	Known bool
}

// NextStep 은 사용자가 있어야 할 가장 이른 미완료 단계를 돌려준다.
func NextStep(server *ServerState, local LocalFallback) Step {
	if local.Known && !local.HasToken {
		return StepLogin
	}

	if server != nil {
		switch {
		case !server.GPSVerified:
			return StepOnboardingLocation
		case !server.OnboardingCompleted:
			return StepOnboardingProfile
		case !server.DiagnosisCompleted:
			return StepDiagnosis
		default:
			return StepDiagnosisResults
		}
	}

	if !local.Known {
		return StepDiagnosisResults
	}
	switch {
	case !local.OnboardingCompleted && !local.GPSVerified:
		return StepOnboardingLocation
	case !local.OnboardingCompleted:
		return StepOnboardingProfile
	case !local.DiagnosisCompleted:
		return StepDiagnosis
	default:
		return StepDiagnosisResults
	}
}

type Decision struct {
	Allow    bool
	Redirect Step
	Next     Step
}

// Guard 는 모든 페이지가 같은 방식으로 쓰는 진입 판정이다.
// 로그인 페이지는 항상 열리고, 그 외 페이지는 NextStep 보다 앞서거나 같은 단계만 허용한다.
// 결과 이후 페이지(리포트, 주간 미션, 프로필)는 결과 단계에 도달해야 열린다.
func Guard(page Step, server *ServerState, local LocalFallback) Decision {
	next := NextStep(server, local)
	if page == StepLogin {
		return Decision{Allow: true, Next: next}
	}
	if next == StepLogin {
		return Decision{Allow: false, Redirect: StepLogin, Next: next}
	}
	if rank(page) <= rank(next) {
		return Decision{Allow: true, Next: next}
	}
	return Decision{Allow: false, Redirect: next, Next: next}
}

func rank(s Step) Step {
	if s >= StepReport {
		return StepDiagnosisResults
	}
	return s
}
