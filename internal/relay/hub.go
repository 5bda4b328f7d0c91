/**
* Name: 			hub.go
* Description: 		휴대폰 센서 스트림과 측정 probe 사이의 중계
* Workflow: 		페어링된 기기 연결 -> 도구 시작 제어 전송 -> 프레임 수신 -> 소스로 전달 -> 도구 종료 제어 전송
 */
package relay

import (
	"context"
	"errors"
	"log"
	"sync"

	"RentalNegotiator/internal/probe"
)

const (
	ToolNoise = "noise"
	ToolLevel = "level"

	frameBuffer = 64
)

var ErrPeerAttached = errors.New("a sensor device is already connected")

// Control 은 릴레이 -> 기기 제어 메시지.
type Control struct {
	Type string `json:"type"`
	Tool string `json:"tool"`
}

// Hub 는 하나의 측정 세션에 연결된 기기 하나를 관리한다.
type Hub struct {
	sessionID string

	mu       sync.Mutex
	control  chan Control
	attached chan struct{}
	gone     chan struct{}
	active   string

	spectrum    chan []uint8
	orientation chan probe.Orientation
	// 도구별 실패 큐
	failures    map[string]chan error
}

func NewHub(sessionID string) *Hub {
	return &Hub{
		sessionID:   sessionID,
		attached:    make(chan struct{}),
		spectrum:    make(chan []uint8, frameBuffer),
		orientation: make(chan probe.Orientation, frameBuffer),
		failures: map[string]chan error{
			ToolNoise: make(chan error, 2),
			ToolLevel: make(chan error, 2),
		},
	}
}

func (h *Hub) SessionID() string {
	return h.sessionID
}

// Attach 는 기기 연결을 등록하고 제어 채널과 해제 함수를 돌려준다.
func (h *Hub) Attach() (<-chan Control, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.control != nil {
		return nil, nil, ErrPeerAttached
	}
	control := make(chan Control, 4)
	gone := make(chan struct{})
	h.control = control
	h.gone = gone
	close(h.attached)

	if h.active != "" {
		control <- Control{Type: "start", Tool: h.active}
	}
	log.Printf("Hub.Attach(): sensor device attached to session %s", h.sessionID)

	detach := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.control != control {
			return
		}
		h.control = nil
		h.attached = make(chan struct{})
		close(gone)
		log.Printf("Hub.Attach(): sensor device detached from session %s", h.sessionID)
	}
	return control, detach, nil
}

func (h *Hub) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.control != nil
}

// WaitPeer 는 기기가 연결될 때까지 기다린다.
func (h *Hub) WaitPeer(ctx context.Context) error {
	h.mu.Lock()
	attached := h.attached
	h.mu.Unlock()
	select {
	case <-attached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) PushSpectrum(bins []uint8) bool {
	if h.activeTool() != ToolNoise {
		return false
	}
	select {
	case h.spectrum <- bins:
		return true
	default:
		return false
	}
}

func (h *Hub) PushOrientation(o probe.Orientation) bool {
	if h.activeTool() != ToolLevel {
		return false
	}
	select {
	case h.orientation <- o:
		return true
	default:
		return false
	}
}

// PushFailure 는 기기 측 권한 거부/미지원을 활성 도구에 전달한다.
func (h *Hub) PushFailure(tool string, err error) {
	if tool == "" {
		tool = h.activeTool()
	}
	ch, ok := h.failures[tool]
	if !ok {
		log.Printf("[WARN] Hub.PushFailure(): no tool for failure %q: %v", tool, err)
		return
	}
	select {
	case ch <- err:
	default:
	}
}

func (h *Hub) Spectrum(ctx context.Context) (probe.SpectrumSource, error) {
	if err := h.begin(ctx, ToolNoise); err != nil {
		return nil, err
	}
	return &spectrumSource{hub: h}, nil
}

func (h *Hub) Orientation(ctx context.Context) (probe.OrientationSource, error) {
	if err := h.begin(ctx, ToolLevel); err != nil {
		return nil, err
	}
	return &orientationSource{hub: h}, nil
}

func (h *Hub) begin(ctx context.Context, tool string) error {
	if err := h.WaitPeer(ctx); err != nil {
		return err
	}
	h.drain()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = tool
	h.send(Control{Type: "start", Tool: tool})
	return nil
}

func (h *Hub) end(tool string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active != tool {
		return
	}
	h.active = ""
	h.send(Control{Type: "stop", Tool: tool})
}

// send 는 mu 를 잡은 상태에서 호출한다.
func (h *Hub) send(c Control) {
	if h.control == nil {
		return
	}
	select {
	case h.control <- c:
	default:
		log.Printf("[WARN] Hub.send(): control queue full, dropping %s/%s", c.Type, c.Tool)
	}
}

func (h *Hub) activeTool() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *Hub) goneChan() chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gone
}

// drain 은 이전 도구의 남은 프레임을 비운다. 실패는 해당 도구가 읽을 때까지 남긴다.
func (h *Hub) drain() {
	for {
		select {
		case <-h.spectrum:
		case <-h.orientation:
		default:
			return
		}
	}
}
