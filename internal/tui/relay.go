package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/careerlens/internal/model"
)

// Ensure NoticeRelay implements model.Notifier.
var _ model.Notifier = (*NoticeRelay)(nil)

// NoticeRelay forwards notices to the running session program. Notices that
// arrive while no program is attached are dropped.
type NoticeRelay struct {
	mu sync.Mutex
	p  *tea.Program
}

// NewNoticeRelay returns a detached relay.
func NewNoticeRelay() *NoticeRelay {
	return &NoticeRelay{}
}

func (r *NoticeRelay) attach(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

// Notify implements model.Notifier.
func (r *NoticeRelay) Notify(n model.Notice) error {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(noticeMsg(n))
	}
	return nil
}
