package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SpeedProbe 는 지연, 다운로드, 업로드를 순서대로 측정한다.
// 실패한 항목은 값을 지어내지 않고 실패로 남긴다.
type SpeedProbe struct {
	HTTP          *http.Client
	PingURL       string
	DownloadURL   string
	UploadURL     string
	DownloadBytes int
	UploadBytes   int
}

type SpeedResult struct {
	LatencyMS   float64 `json:"latencyMs"`
	DownloadBPS float64 `json:"downloadBps"`
	UploadBPS   float64 `json:"uploadBps"`

	LatencyErr  error `json:"-"`
	DownloadErr error `json:"-"`
	UploadErr   error `json:"-"`
}

// Err 는 실패한 항목들을 합친다. 모두 성공이면 nil.
func (r SpeedResult) Err() error {
	return errors.Join(r.LatencyErr, r.DownloadErr, r.UploadErr)
}

// Failed 는 세 항목이 모두 실패했는지 알려준다.
func (r SpeedResult) Failed() bool {
	return r.LatencyErr != nil && r.DownloadErr != nil && r.UploadErr != nil
}

func (r SpeedResult) Grade() string {
	if r.DownloadErr != nil {
		return "측정 실패"
	}
	return SpeedGrade(r.DownloadBPS)
}

func (p SpeedProbe) Run(ctx context.Context, onStep func(step string)) (SpeedResult, error) {
	var r SpeedResult
	notify := func(s string) {
		if onStep != nil {
			onStep(s)
		}
	}

	notify("latency")
	r.LatencyMS, r.LatencyErr = p.latency(ctx)
	if ctx.Err() != nil {
		return r, ctx.Err()
	}

	notify("download")
	r.DownloadBPS, r.DownloadErr = p.download(ctx)
	if ctx.Err() != nil {
		return r, ctx.Err()
	}

	notify("upload")
	r.UploadBPS, r.UploadErr = p.upload(ctx)
	if ctx.Err() != nil {
		return r, ctx.Err()
	}
	return r, nil
}

func (p SpeedProbe) client() *http.Client {
	if p.HTTP != nil {
		return p.HTTP
	}
	return http.DefaultClient
}

func (p SpeedProbe) latency(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, cacheBusted(p.PingURL), nil)
	if err != nil {
		return 0, fmt.Errorf("latency: %v: %w", err, ErrMeasurementFailed)
	}
	start := time.Now()
	resp, err := p.client().Do(req)
	if err != nil {
		return 0, fmt.Errorf("latency: %v: %w", err, ErrMeasurementFailed)
	}
	resp.Body.Close()
	elapsed := time.Since(start)
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("latency: status %d: %w", resp.StatusCode, ErrMeasurementFailed)
	}
	return float64(elapsed.Microseconds()) / 1000, nil
}

func (p SpeedProbe) download(ctx context.Context) (float64, error) {
	target := withBytes(p.DownloadURL, p.DownloadBytes)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("download: %v: %w", err, ErrMeasurementFailed)
	}
	start := time.Now()
	resp, err := p.client().Do(req)
	if err != nil {
		return 0, fmt.Errorf("download: %v: %w", err, ErrMeasurementFailed)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("download: status %d: %w", resp.StatusCode, ErrMeasurementFailed)
	}
	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("download: %v: %w", err, ErrMeasurementFailed)
	}
	return throughput(n, time.Since(start))
}

func (p SpeedProbe) upload(ctx context.Context) (float64, error) {
	size := p.UploadBytes
	payload := make([]byte, size)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cacheBusted(p.UploadURL), bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("upload: %v: %w", err, ErrMeasurementFailed)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	start := time.Now()
	resp, err := p.client().Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload: %v: %w", err, ErrMeasurementFailed)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	elapsed := time.Since(start)
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("upload: status %d: %w", resp.StatusCode, ErrMeasurementFailed)
	}
	return throughput(int64(size), elapsed)
}

func throughput(n int64, elapsed time.Duration) (float64, error) {
	if n <= 0 || elapsed <= 0 {
		return 0, fmt.Errorf("no data transferred: %w", ErrMeasurementFailed)
	}
	return float64(n*8) / elapsed.Seconds(), nil
}

func withBytes(raw string, n int) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("bytes") == "" && n > 0 {
		q.Set("bytes", strconv.Itoa(n))
	}
	q.Set("t", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func cacheBusted(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func SpeedGrade(bps float64) string {
	mbps := bps / 1_000_000
	switch {
	case mbps >= 100:
		return "매우 빠름"
	case mbps >= 50:
		return "빠름"
	case mbps >= 20:
		return "보통"
	default:
		return "느림"
	}
}

// Mbps 는 표시용 값이다.
func Mbps(bps float64) float64 {
	return bps / 1_000_000
}
