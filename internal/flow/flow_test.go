package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func loggedIn() LocalFallback {
	return LocalFallback{HasToken: true, Known: true}
}

func TestNextStepServerState(t *testing.T) {
	cases := []struct {
		name   string
		server ServerState
		want   Step
	}{
		{"fresh user", ServerState{}, StepOnboardingLocation},
		{"gps verified", ServerState{GPSVerified: true}, StepOnboardingProfile},
		{"onboarded", ServerState{GPSVerified: true, OnboardingCompleted: true}, StepDiagnosis},
		{"done", ServerState{GPSVerified: true, OnboardingCompleted: true, DiagnosisCompleted: true}, StepDiagnosisResults},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.server
			assert.Equal(t, tc.want, NextStep(&s, loggedIn()))
		})
	}
}

func TestNextStepServerWinsOverLocal(t *testing.T) {
	local := loggedIn()
	local.OnboardingCompleted = true
	local.DiagnosisCompleted = true

	assert.Equal(t, StepOnboardingLocation, NextStep(&ServerState{}, local))
}

func TestNextStepLocalFallback(t *testing.T) {
	local := loggedIn()
	assert.Equal(t, StepOnboardingLocation, NextStep(nil, local))

	local.GPSVerified = true
	assert.Equal(t, StepOnboardingProfile, NextStep(nil, local))

	local.OnboardingCompleted = true
	assert.Equal(t, StepDiagnosis, NextStep(nil, local))

	local.DiagnosisCompleted = true
	assert.Equal(t, StepDiagnosisResults, NextStep(nil, local))
}

func TestNextStepWithoutToken(t *testing.T) {
	assert.Equal(t, StepLogin, NextStep(&ServerState{GPSVerified: true}, LocalFallback{Known: true}))
}

func TestGuard(t *testing.T) {
	server := &ServerState{GPSVerified: true, OnboardingCompleted: true}

	d := Guard(StepDiagnosis, server, loggedIn())
	assert.True(t, d.Allow)

	d = Guard(StepOnboardingLocation, server, loggedIn())
	assert.True(t, d.Allow, "earlier steps stay reachable for editing")

	d = Guard(StepReport, server, loggedIn())
	assert.False(t, d.Allow)
	assert.Equal(t, StepDiagnosis, d.Redirect)
	assert.Equal(t, "/diagnosis", d.Redirect.Path())

	server.DiagnosisCompleted = true
	for _, p := range []Step{StepReport, StepWeeklyMission, StepProfile, StepDiagnosisResults} {
		assert.True(t, Guard(p, server, loggedIn()).Allow, p.String())
	}

	d = Guard(StepDiagnosis, server, LocalFallback{Known: true})
	assert.False(t, d.Allow)
	assert.Equal(t, StepLogin, d.Redirect)

	assert.True(t, Guard(StepLogin, nil, LocalFallback{Known: true}).Allow)
}

func TestGuardFailsOpenWhenNothingKnown(t *testing.T) {
	d := Guard(StepReport, nil, LocalFallback{})
	assert.True(t, d.Allow)
}

func TestPaths(t *testing.T) {
	s, ok := StepForPath("/onboarding/profile")
	assert.True(t, ok)
	assert.Equal(t, StepOnboardingProfile, s)
	assert.Equal(t, "onboarding:profile", s.String())

	_, ok = StepForPath("/nowhere")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Step(99).String())
}
