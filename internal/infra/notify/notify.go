// Package notify delivers user-visible status notifications.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// levelStyles colors the level tag of a console line.
var levelStyles = map[domain.NotifyLevel]lipgloss.Style{
	domain.NotifySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#00B894")).Bold(true),
	domain.NotifyInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#74B9FF")),
	domain.NotifyWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FDCB6E")).Bold(true),
	domain.NotifyError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#D63031")).Bold(true),
}

var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#636E72"))

// Console writes one styled line per notification.
type Console struct {
	w  io.Writer
	mu sync.Mutex
}

// Ensure Console implements domain.Notifier interface.
var _ domain.Notifier = (*Console)(nil)

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify writes n.
func (c *Console) Notify(n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tag := levelStyles[n.Level].Render(fmt.Sprintf("[%s]", n.Level))
	if n.TaskID != "" {
		_, _ = fmt.Fprintf(c.w, "%s %s %s\n", tag, n.Message, mutedStyle.Render("("+n.TaskID+")"))
		return
	}
	_, _ = fmt.Fprintf(c.w, "%s %s\n", tag, n.Message)
}

// Ring keeps the most recent notifications in memory.
type Ring struct {
	items []domain.Notification
	size  int
	mu    sync.Mutex
}

// Ensure Ring implements domain.Notifier interface.
var _ domain.Notifier = (*Ring)(nil)

// NewRing creates a Ring holding at most size notifications.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{size: size}
}

// Notify records n, dropping the oldest entry when full.
func (r *Ring) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == r.size {
		copy(r.items, r.items[1:])
		r.items = r.items[:len(r.items)-1]
	}
	r.items = append(r.items, n)
}

// Recent returns the recorded notifications, oldest first.
func (r *Ring) Recent() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Multi fans a notification out to several notifiers.
type Multi []domain.Notifier

// Ensure Multi implements domain.Notifier interface.
var _ domain.Notifier = Multi(nil)

// Notify delivers n to every notifier.
func (m Multi) Notify(n domain.Notification) {
	for _, x := range m {
		x.Notify(n)
	}
}
