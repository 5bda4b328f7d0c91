// Package probe 는 스마트 진단 측정(소음, 수평, 인터넷 속도)을 수행한다.
// 원본 샘플은 보관하지 않고 요약 통계만 돌려준다.
package probe

import (
	"context"
	"errors"
	"math"
)

var (
	ErrPermissionDenied  = errors.New("sensor permission denied")
	ErrUnsupported       = errors.New("sensor not supported on this device")
	ErrMeasurementFailed = errors.New("measurement failed")
	// ErrSourceClosed 는 소스가 더 이상 샘플을 주지 않을 때 쓴다.
	ErrSourceClosed = errors.New("sample source closed")
)

type Summary struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`
}

func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1), Samples: len(values)}
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Average = sum / float64(len(values))
	return s
}

// Sample 은 측정 중 실시간으로 전달되는 값이다.
type Sample func(value float64)

// windowDone 은 측정 창이 끝났는지(정상 종료) 부모 컨텍스트가 취소됐는지 구분한다.
func windowDone(parent context.Context, err error) (finished bool, outErr error) {
	if parent.Err() != nil {
		return false, parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrSourceClosed) {
		return true, nil
	}
	return false, err
}
