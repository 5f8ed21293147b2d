package screen

import (
	"sync"
	"time"

	"github.com/mesh-intelligence/taskdesk/internal/observable"
)

// Notice is the banner state.
type Notice int

const (
	NoticeNone Notice = iota
	NoticeSuccess
	NoticeError
)

func (n Notice) String() string {
	switch n {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "none"
	}
}

// DefaultNoticeDelay is how long a success banner stays up.
const DefaultNoticeDelay = 3 * time.Second

// Notification is the tri-state banner. Success clears itself after the
// delay; Error stays until the next operation changes it.
type Notification struct {
	delay time.Duration
	value *observable.Value[Notice]

	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64 // bumped by every transition; a timer only clears its own
	closed bool
}

// NewNotification returns a Notification in NoticeNone. A non-positive delay
// selects DefaultNoticeDelay.
func NewNotification(delay time.Duration) *Notification {
	if delay <= 0 {
		delay = DefaultNoticeDelay
	}
	return &Notification{delay: delay, value: observable.New(NoticeNone)}
}

// State returns the current banner state.
func (n *Notification) State() Notice {
	return n.value.Get()
}

// Subscribe calls fn after every state change.
func (n *Notification) Subscribe(fn func(Notice)) (cancel func()) {
	return n.value.Subscribe(fn)
}

// ReportSuccess shows the success banner and schedules it to clear after the
// delay. Any earlier pending clear is superseded.
func (n *Notification) ReportSuccess() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	seq := n.transitionLocked(NoticeSuccess)
	n.timer = time.AfterFunc(n.delay, func() { n.expire(seq) })
}

// ReportError shows the error banner. It does not clear by itself.
func (n *Notification) ReportError() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.transitionLocked(NoticeError)
}

// Clear hides any banner and cancels a pending clear.
func (n *Notification) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.transitionLocked(NoticeNone)
}

// Dismiss hides a sticky error banner and leaves a success banner with its
// pending clear alone.
func (n *Notification) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || n.value.Get() != NoticeError {
		return
	}
	n.transitionLocked(NoticeNone)
}

// Close cancels the pending clear. Later reports are ignored and no
// callback fires after Close returns.
func (n *Notification) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimerLocked()
	n.seq++
	n.closed = true
}

// transitionLocked cancels the pending clear, bumps the sequence, and stores
// to. The caller must hold n.mu.
func (n *Notification) transitionLocked(to Notice) uint64 {
	n.stopTimerLocked()
	n.seq++
	n.value.Update(func(cur Notice) (Notice, bool) { return to, cur != to })
	return n.seq
}

func (n *Notification) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// expire is the timer callback of the report numbered seq.
func (n *Notification) expire(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || n.seq != seq {
		return
	}
	n.timer = nil
	n.seq++
	n.value.Update(func(cur Notice) (Notice, bool) { return NoticeNone, cur == NoticeSuccess })
}

// Banner texts shown to users.
const (
	SuccessMessage = "Operation completed successfully"
	ErrorMessage   = "An error occurred, check your input."
)

// Message returns the banner text for n, empty for NoticeNone.
func (n Notice) Message() string {
	switch n {
	case NoticeSuccess:
		return SuccessMessage
	case NoticeError:
		return ErrorMessage
	default:
		return ""
	}
}
