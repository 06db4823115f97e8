package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

func note(level domain.NotifyLevel, msg string) domain.Notification {
	return domain.Notification{Time: time.Unix(0, 0), Level: level, Message: msg}
}

func TestConsole_Notify(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Notify(note(domain.NotifySuccess, "Exported 3 tasks"))
	n := note(domain.NotifyError, "sync failed")
	n.TaskID = "task_1"
	c.Notify(n)

	out := buf.String()
	assert.Contains(t, out, "[success]")
	assert.Contains(t, out, "Exported 3 tasks")
	assert.Contains(t, out, "sync failed")
	assert.Contains(t, out, "task_1")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestRing_KeepsMostRecent(t *testing.T) {
	r := NewRing(2)

	r.Notify(note(domain.NotifyInfo, "one"))
	r.Notify(note(domain.NotifyInfo, "two"))
	r.Notify(note(domain.NotifyWarn, "three"))

	recent := r.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "two", recent[0].Message)
	assert.Equal(t, "three", recent[1].Message)
}

func TestMulti_FansOut(t *testing.T) {
	a, b := NewRing(4), NewRing(4)

	Multi{a, b}.Notify(note(domain.NotifyInfo, "hello"))

	assert.Len(t, a.Recent(), 1)
	assert.Len(t, b.Recent(), 1)
}
