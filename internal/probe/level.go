package probe

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Orientation 은 DeviceOrientationEvent 의 세 축 각도(도)다.
type Orientation struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

type OrientationSource interface {
	NextOrientation(ctx context.Context) (Orientation, error)
	Close() error
}

type LevelProbe struct {
	Duration time.Duration
}

type LevelResult struct {
	Average Orientation `json:"average"`
	Tilt    float64     `json:"tilt"`
	Samples int         `json:"samples"`
	Grade   string      `json:"grade"`
}

// Run 은 Duration 동안 각 축을 평균하고, 평균 축들의 유클리드 노름을 기울기로 쓴다.
func (p LevelProbe) Run(ctx context.Context, src OrientationSource, onSample Sample) (LevelResult, error) {
	defer src.Close()

	window, cancel := context.WithTimeout(ctx, p.Duration)
	defer cancel()

	var sum Orientation
	n := 0
	for {
		o, err := src.NextOrientation(window)
		if err != nil {
			finished, err := windowDone(ctx, err)
			if !finished {
				return LevelResult{}, err
			}
			break
		}
		sum.Alpha += o.Alpha
		sum.Beta += o.Beta
		sum.Gamma += o.Gamma
		n++
		if onSample != nil {
			onSample(Tilt(o))
		}
	}

	if n == 0 {
		return LevelResult{}, fmt.Errorf("level: no orientation events within %s: %w", p.Duration, ErrMeasurementFailed)
	}
	avg := Orientation{
		Alpha: sum.Alpha / float64(n),
		Beta:  sum.Beta / float64(n),
		Gamma: sum.Gamma / float64(n),
	}
	tilt := Tilt(avg)
	return LevelResult{Average: avg, Tilt: tilt, Samples: n, Grade: LevelGrade(tilt)}, nil
}

func Tilt(o Orientation) float64 {
	return math.Sqrt(o.Beta*o.Beta + o.Gamma*o.Gamma + o.Alpha*o.Alpha)
}

func LevelGrade(tilt float64) string {
	switch {
	case tilt < 1:
		return "수평"
	case tilt < 3:
		return "약간 기울어짐"
	default:
		return "기울어짐"
	}
}
