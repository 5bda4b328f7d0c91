package probe

import (
	"context"
	"fmt"
	"math"
	"time"
)

// SpectrumSource 는 마이크 입력의 주파수 크기(0~255) 프레임을 준다.
type SpectrumSource interface {
	NextSpectrum(ctx context.Context) ([]uint8, error)
	Close() error
}

// Decibels 는 주파수 크기의 RMS 를 데시벨 유사 척도로 바꾼다.
// 20*log10(rms/255)+100, 보정되지 않은 기기 의존 값이다. 무음(-Inf)과 음수는 0.
func Decibels(bins []uint8) float64 {
	if len(bins) == 0 {
		return 0
	}
	var sumSquares float64
	for _, b := range bins {
		v := float64(b)
		sumSquares += v * v
	}
	rms := math.Sqrt(sumSquares / float64(len(bins)))
	db := 20*math.Log10(rms/255) + 100
	if math.IsInf(db, 0) || math.IsNaN(db) || db < 0 {
		return 0
	}
	return db
}

type NoiseProbe struct {
	Duration time.Duration
}

type NoiseResult struct {
	Summary
	Grade string `json:"grade"`
}

// Run 은 Duration 동안 프레임마다 데시벨을 계산한다. 끝나면 소스를 닫는다.
func (p NoiseProbe) Run(ctx context.Context, src SpectrumSource, onSample Sample) (NoiseResult, error) {
	defer src.Close()

	window, cancel := context.WithTimeout(ctx, p.Duration)
	defer cancel()

	var values []float64
	for {
		bins, err := src.NextSpectrum(window)
		if err != nil {
			finished, err := windowDone(ctx, err)
			if !finished {
				return NoiseResult{}, err
			}
			break
		}
		db := Decibels(bins)
		values = append(values, db)
		if onSample != nil {
			onSample(db)
		}
	}

	if len(values) == 0 {
		return NoiseResult{}, fmt.Errorf("noise: no samples within %s: %w", p.Duration, ErrMeasurementFailed)
	}
	s := summarize(values)
	return NoiseResult{Summary: s, Grade: NoiseGrade(s.Average)}, nil
}

func NoiseGrade(db float64) string {
	switch {
	case db < 40:
		return "조용함"
	case db < 55:
		return "보통"
	case db < 70:
		return "시끄러움"
	default:
		return "매우 시끄러움"
	}
}
