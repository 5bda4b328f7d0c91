package notice

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Info("저장되었습니다.")
	c.Error(MsgNetworkError)
	assert.Equal(t, "ℹ 저장되었습니다.\n✖ "+MsgNetworkError+"\n", buf.String())
}

func TestRecorderKeepsOrder(t *testing.T) {
	r := &Recorder{}
	var n Notifier = r
	n.Error(MsgServerError)
	n.Info("ok")

	entries := r.Entries()
	assert.Equal(t, []Entry{{Level: LevelError, Message: MsgServerError}, {Level: LevelInfo, Message: "ok"}}, entries)

	entries[0].Message = "changed"
	assert.Equal(t, MsgServerError, r.Entries()[0].Message)
}
