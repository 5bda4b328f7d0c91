package apiclient

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest   = errors.New("request rejected")
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("unexpected response body")
	ErrMissingToken = errors.New("login response has no token")
)

// APIError 는 실패한 호출의 분류와 상세 정보를 담는다.
type APIError struct {
	Kind    error
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage 는 화면에 그대로 보여줄 서버 메시지를 꺼낸다.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
