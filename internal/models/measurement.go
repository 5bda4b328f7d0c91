package models

import "time"

// 측정 도구 종류
type MeasurementKind string

const (
	KindNoise    MeasurementKind = "noise"
	KindLevel    MeasurementKind = "level"
	KindInternet MeasurementKind = "internet"
)

// 로컬에 보관하는 측정 요약 (원본 샘플은 저장하지 않음)
type MeasurementRecord struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"session_id"`
	Kind      MeasurementKind `json:"kind"`
	Average   float64         `json:"average"`
	Min       float64         `json:"min"`
	Max       float64         `json:"max"`
	Detail    string          `json:"detail"`
	CreatedAt time.Time       `json:"created_at"`
}

// /smart-diagnosis/{tool}/start 응답
type SmartSession struct {
	SessionID string `json:"sessionId"`
}

// /smart-diagnosis/{tool}/realtime 요청
type SmartRealtime struct {
	SessionID string  `json:"sessionId"`
	Value     float64 `json:"value"`
	Elapsed   int64   `json:"elapsedMs"`
}

// /smart-diagnosis/{tool}/complete 요청
type SmartComplete struct {
	SessionID string  `json:"sessionId"`
	Average   float64 `json:"average"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Samples   int     `json:"sampleCount"`
	Failed    bool    `json:"failed,omitempty"`
	// 실패한 세부 항목 (latency, download, upload). 실패 항목은 Extra 에 넣지 않는다.
	FailedMetrics []string           `json:"failedMetrics,omitempty"`
	Extra         map[string]float64 `json:"extra,omitempty"`
}
