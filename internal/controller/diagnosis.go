package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"RentalNegotiator/internal/flow"
	"RentalNegotiator/internal/forms"
	"RentalNegotiator/internal/models"
	"RentalNegotiator/internal/session"
)

func (c *Controller) Questions(ctx context.Context) ([]models.Question, error) {
	if err := c.guard(ctx, flow.StepDiagnosis); err != nil {
		return nil, err
	}
	return c.API.Questions(ctx)
}

// SubmitDiagnosis 는 모든 문항이 1~5 로 응답된 경우에만 일괄 제출한다.
func (c *Controller) SubmitDiagnosis(ctx context.Context, questions []models.Question, answers map[int64]int) (forms.Progress, flow.Step, error) {
	progress := forms.DiagnosisProgress(questions, answers)
	if !progress.CanSubmit {
		return progress, flow.StepDiagnosis, fmt.Errorf("%w (%s)", ErrDiagnosisIncomplete, progress.Label())
	}
	if err := c.guard(ctx, flow.StepDiagnosis); err != nil {
		return progress, redirectStep(err, flow.StepDiagnosis), err
	}
	if err := c.API.SubmitAnswers(ctx, forms.Answers(questions, answers)); err != nil {
		return progress, flow.StepDiagnosis, err
	}
	_, err := c.Session.Update(func(s *session.Session) {
		s.DiagnosisCompleted = true
		s.ShowDiagnosisPrompt = false
	})
	if err != nil {
		return progress, flow.StepDiagnosis, err
	}
	return progress, flow.StepDiagnosisResults, nil
}

func (c *Controller) Results(ctx context.Context) (models.DiagnosisResult, error) {
	if err := c.guard(ctx, flow.StepDiagnosisResults); err != nil {
		return models.DiagnosisResult{}, err
	}
	return c.API.DiagnosisResult(ctx)
}

// Market 은 세션에 캐시된 동/건물 유형으로 시세를 조회한다.
func (c *Controller) Market(ctx context.Context) (models.MarketData, error) {
	if err := c.guard(ctx, flow.StepDiagnosisResults); err != nil {
		return models.MarketData{}, err
	}
	s := c.Session.Load()
	if strings.TrimSpace(s.Profile.Dong) == "" {
		return models.MarketData{}, fmt.Errorf("프로필에 동 정보가 없습니다")
	}
	return c.API.MarketData(ctx, s.Profile.Dong, s.Profile.BuildingType)
}

// CreateReport 는 리포트를 만들고 곧바로 내용을 읽어 온다.
func (c *Controller) CreateReport(ctx context.Context, req models.ReportRequest) (models.Report, error) {
	if err := c.guard(ctx, flow.StepReport); err != nil {
		return models.Report{}, err
	}
	if req.ReportType == "" {
		req.ReportType = "free"
	}
	created, err := c.API.CreateReport(ctx, req)
	if err != nil {
		return models.Report{}, err
	}
	return c.fetchReport(ctx, created.ReportID, req.ReportType == "premium")
}

func (c *Controller) Report(ctx context.Context, id int64, premium bool) (models.Report, error) {
	if err := c.guard(ctx, flow.StepReport); err != nil {
		return models.Report{}, err
	}
	return c.fetchReport(ctx, id, premium)
}

func (c *Controller) fetchReport(ctx context.Context, id int64, premium bool) (models.Report, error) {
	if premium {
		return c.API.PremiumReport(ctx, id)
	}
	return c.API.Report(ctx, id)
}

type MissionView struct {
	Mission models.WeeklyMission
	Result  *models.MissionResult
}

// WeeklyMission 은 이번 주 미션과, 참여했다면 결과까지 돌려준다.
func (c *Controller) WeeklyMission(ctx context.Context) (MissionView, error) {
	if err := c.guard(ctx, flow.StepWeeklyMission); err != nil {
		return MissionView{}, err
	}
	mission, err := c.API.CurrentMission(ctx)
	if err != nil {
		return MissionView{}, err
	}
	view := MissionView{Mission: mission}
	if mission.Participated {
		res, err := c.API.MissionResult(ctx, mission.MissionID)
		if err != nil {
			return view, err
		}
		view.Result = &res
	}
	return view, nil
}

// ParticipateMission 은 모든 미션 문항 응답을 제출하고 결과를 읽어 온다.
func (c *Controller) ParticipateMission(ctx context.Context, mission models.WeeklyMission, answers map[int64]int) (models.MissionResult, error) {
	if mission.Participated {
		return models.MissionResult{}, ErrAlreadyParticipated
	}
	questions := make([]models.Question, 0, len(mission.Questions))
	for _, q := range mission.Questions {
		questions = append(questions, models.Question{QuestionID: q.QuestionID, Text: q.Text})
	}
	progress := forms.DiagnosisProgress(questions, answers)
	if !progress.CanSubmit {
		return models.MissionResult{}, fmt.Errorf("%w (%s)", ErrDiagnosisIncomplete, progress.Label())
	}
	if err := c.guard(ctx, flow.StepWeeklyMission); err != nil {
		return models.MissionResult{}, err
	}
	if err := c.API.ParticipateMission(ctx, mission.MissionID, forms.Answers(questions, answers)); err != nil {
		return models.MissionResult{}, err
	}
	return c.API.MissionResult(ctx, mission.MissionID)
}

// redirectStep 은 거부된 경우 이동할 단계, 그 외에는 fallback 을 돌려준다.
func redirectStep(err error, fallback flow.Step) flow.Step {
	var re *RedirectError
	if errors.As(err, &re) {
		return re.To
	}
	return fallback
}
