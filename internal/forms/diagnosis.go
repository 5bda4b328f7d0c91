package forms

import (
	"fmt"

	"RentalNegotiator/internal/models"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Progress 는 진단 문항 응답 현황이다.
type Progress struct {
	Total     int
	Answered  int
	Remaining int
	CanSubmit bool
	Invalid   []int64
}

// Label 은 제출 버튼에 붙는 문구다.
func (p Progress) Label() string {
	if p.CanSubmit {
		return "진단 결과 보기"
	}
	return fmt.Sprintf("%d개 문항이 남았습니다", p.Remaining)
}

// DiagnosisProgress 는 모든 문항에 1~5 범위 응답이 있을 때만 제출 가능으로 본다.
func DiagnosisProgress(questions []models.Question, answers map[int64]int) Progress {
	p := Progress{Total: len(questions)}
	for _, q := range questions {
		score, ok := answers[q.QuestionID]
		if !ok {
			continue
		}
		if score < MinScore || score > MaxScore {
			p.Invalid = append(p.Invalid, q.QuestionID)
			continue
		}
		p.Answered++
	}
	p.Remaining = p.Total - p.Answered
	p.CanSubmit = p.Total > 0 && p.Remaining == 0
	return p
}

// Answers 는 문항 순서대로 제출 페이로드를 만든다.
func Answers(questions []models.Question, answers map[int64]int) []models.Answer {
	out := make([]models.Answer, 0, len(questions))
	for _, q := range questions {
		if score, ok := answers[q.QuestionID]; ok {
			out = append(out, models.Answer{QuestionID: q.QuestionID, Score: score})
		}
	}
	return out
}

// GroupByCategory 는 화면에 카테고리별로 보여주기 위해 순서를 유지하며 묶는다.
func GroupByCategory(questions []models.Question) [][]models.Question {
	index := map[int64]int{}
	var groups [][]models.Question
	for _, q := range questions {
		i, ok := index[q.CategoryID]
		if !ok {
			i = len(groups)
			index[q.CategoryID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], q)
	}
	return groups
}
