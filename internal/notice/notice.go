// Package notice 는 사용자에게 보여줄 짧은 알림(토스트)을 다룬다.
package notice

import (
	"fmt"
	"io"
	"sync"
)

const (
	MsgSessionExpired    = "로그인이 만료되었습니다. 다시 로그인해주세요."
	MsgServerError       = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	MsgNetworkError      = "네트워크 연결을 확인해주세요."
	MsgMicDenied         = "마이크 권한이 거부되었습니다. 브라우저 설정에서 허용해주세요."
	MsgOrientDenied      = "기기 방향 센서 권한이 거부되었습니다."
	MsgOrientUnsupported = "이 기기는 방향 센서를 지원하지 않습니다."
	MsgSpeedFailed       = "인터넷 속도 측정에 실패했습니다."
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Console 은 알림을 writer 에 한 줄씩 출력한다.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Info(msg string)  { c.write("ℹ", msg) }
func (c *Console) Error(msg string) { c.write("✖", msg) }

func (c *Console) write(mark, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n", mark, msg)
}

type Entry struct {
	Level   Level
	Message string
}

// Recorder 는 받은 알림을 순서대로 보관한다.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Info(msg string)  { r.add(LevelInfo, msg) }
func (r *Recorder) Error(msg string) { r.add(LevelError, msg) }

func (r *Recorder) add(l Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: l, Message: msg})
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Discard 는 모든 알림을 버린다.
type Discard struct{}

func (Discard) Info(string)  {}
func (Discard) Error(string) {}
