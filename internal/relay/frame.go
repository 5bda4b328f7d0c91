package relay

import (
	"encoding/json"
	"fmt"

	"RentalNegotiator/internal/probe"
)

// Frame 은 기기 -> 릴레이 텍스트 메시지.
//
//	{"type":"spectrum","bins":[0..255,...]}
//	{"type":"orientation","alpha":0,"beta":1.5,"gamma":-0.3}
//	{"type":"error","tool":"noise","code":"permission_denied"}
type Frame struct {
	Type  string   `json:"type"`
	Bins  []int    `json:"bins,omitempty"`
	Alpha *float64 `json:"alpha,omitempty"`
	Beta  *float64 `json:"beta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty"`
	Tool  string   `json:"tool,omitempty"`
	Code  string   `json:"code,omitempty"`
}

func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, err
	}
	switch f.Type {
	case "spectrum", "orientation", "error":
		return f, nil
	default:
		return Frame{}, fmt.Errorf("unknown frame type %q", f.Type)
	}
}

// Deliver 는 프레임을 활성 도구의 소스로 보낸다. 받아들였으면 true.
func (h *Hub) Deliver(f Frame) bool {
	switch f.Type {
	case "spectrum":
		bins := make([]uint8, len(f.Bins))
		for i, v := range f.Bins {
			bins[i] = clampByte(v)
		}
		return h.PushSpectrum(bins)
	case "orientation":
		// 센서가 값을 주지 않으면(null) 미지원 기기다.
		if f.Alpha == nil && f.Beta == nil && f.Gamma == nil {
			h.PushFailure(ToolLevel, probe.ErrUnsupported)
			return true
		}
		return h.PushOrientation(probe.Orientation{Alpha: deref(f.Alpha), Beta: deref(f.Beta), Gamma: deref(f.Gamma)})
	case "error":
		h.PushFailure(f.Tool, failureError(f.Code))
		return true
	}
	return false
}

func failureError(code string) error {
	switch code {
	case "permission_denied":
		return probe.ErrPermissionDenied
	case "unsupported":
		return probe.ErrUnsupported
	default:
		return fmt.Errorf("device reported %q: %w", code, probe.ErrMeasurementFailed)
	}
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
