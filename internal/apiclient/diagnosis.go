package apiclient

import (
	"bytes"
	"context"
	"encoding/json"

	"RentalNegotiator/internal/models"
)

// Questions 는 배열 응답과 {"questions": [...]} 응답을 모두 받는다.
func (c *Client) Questions(ctx context.Context) ([]models.Question, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/v1/diagnosis/questions", nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []models.Question
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, &APIError{Kind: ErrDecode, Method: "GET", Path: "/api/v1/diagnosis/questions", Err: err}
		}
		return list, nil
	}
	var wrapped models.QuestionList
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, &APIError{Kind: ErrDecode, Method: "GET", Path: "/api/v1/diagnosis/questions", Err: err}
	}
	return wrapped.Questions, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, a models.Answer) error {
	return c.post(ctx, "/api/v1/diagnosis/responses", a, nil)
}

func (c *Client) SubmitAnswers(ctx context.Context, answers []models.Answer) error {
	return c.post(ctx, "/api/v1/diagnosis/responses/bulk", models.BulkAnswers{Responses: answers}, nil)
}

func (c *Client) DiagnosisResult(ctx context.Context) (models.DiagnosisResult, error) {
	var r models.DiagnosisResult
	err := c.get(ctx, "/api/v1/diagnosis/result", nil, &r)
	return r, err
}
