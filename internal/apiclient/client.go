/**
* Name: 			client.go
* Description: 		백엔드 REST API 호출 공통 래퍼
* Workflow: 		토큰 첨부 -> 요청 -> 상태 코드별 처리(401/5xx/네트워크) -> 응답 파싱
 */
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"RentalNegotiator/internal/notice"

	"github.com/patrickmn/go-cache"
)

const LoginPath = "/auth/login"

// 토큰 없이 호출하는 엔드포인트
var publicPaths = map[string]bool{
	"/member/create":        true,
	"/member/doLogin":       true,
	"/api/location/preview": true,
}

// SessionStore 는 토큰을 제공하고 401 시 세션을 비운다.
type SessionStore interface {
	Token() string
	Clear() error
}

type Client struct {
	baseURL  string
	http     *http.Client
	session  SessionStore
	notifier notice.Notifier
	redirect func(path string)
	market   *cache.Cache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithNotifier(n notice.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithRedirect 는 401 처리 후 이동할 경로를 받는 콜백을 지정한다.
func WithRedirect(fn func(path string)) Option {
	return func(c *Client) { c.redirect = fn }
}

func New(baseURL string, session SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		session:  session,
		notifier: notice.Discard{},
		redirect: func(string) {},
		market:   cache.New(marketCacheTTL, 2*marketCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !isPublic(path) && c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		log.Printf("[ERROR] apiclient: %s %s transport failure: %v", method, path, err)
		c.notifier.Error(notice.MsgNetworkError)
		return &APIError{Kind: ErrNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.notifier.Error(notice.MsgNetworkError)
		return &APIError{Kind: ErrNetwork, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	log.Printf("apiclient: %s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.handleUnauthorized()
		return &APIError{Kind: ErrUnauthorized, Method: method, Path: path, Status: resp.StatusCode, Message: serverMessage(raw)}
	case resp.StatusCode >= 500:
		c.notifier.Error(notice.MsgServerError)
		return &APIError{Kind: ErrServer, Method: method, Path: path, Status: resp.StatusCode, Message: serverMessage(raw)}
	case resp.StatusCode >= 400:
		return &APIError{Kind: ErrBadRequest, Method: method, Path: path, Status: resp.StatusCode, Message: serverMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrapEnvelope(raw), out); err != nil {
		return &APIError{Kind: ErrDecode, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// 401: 세션 전체 삭제, 알림, 로그인 페이지로 이동. 재시도 없음.
func (c *Client) handleUnauthorized() {
	if c.session != nil {
		if err := c.session.Clear(); err != nil {
			log.Printf("[ERROR] apiclient: failed to clear session on 401: %v", err)
		}
	}
	c.notifier.Error(notice.MsgSessionExpired)
	c.redirect(LoginPath)
}

func isPublic(path string) bool {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return publicPaths[path]
}

// {"success":..,"data":{..}} 형태면 data 만 꺼낸다.
func unwrapEnvelope(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return raw
	}
	data, hasData := env["data"]
	if !hasData {
		return raw
	}
	_, hasSuccess := env["success"]
	_, hasCode := env["code"]
	_, hasStatus := env["status"]
	if !hasSuccess && !hasCode && !hasStatus {
		return raw
	}
	return data
}

func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
