package screen

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simp-lee/hrdash/internal/listctl"
)

// SessionCookie names the cookie that ties a browser to its controllers.
const SessionCookie = "hrdash_session"

const sessionIDKey = "screen.session_id"

type sessionRef struct {
	id    string
	known bool
}

// SessionID returns the caller's session id, issuing a new cookie on first
// contact. known reports whether the browser sent a valid cookie. The id is
// cached on the gin context for the rest of the request.
func SessionID(c *gin.Context, ttl time.Duration) (id string, known bool) {
	if v, ok := c.Get(sessionIDKey); ok {
		if ref, ok := v.(sessionRef); ok {
			return ref.id, ref.known
		}
	}

	id, err := c.Cookie(SessionCookie)
	known = err == nil && uuid.Validate(id) == nil
	if !known {
		id = uuid.NewString()
	}
	// Refresh the cookie on every request so its lifetime tracks activity.
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", false, true)
	c.Set(sessionIDKey, sessionRef{id: id, known: known})
	return id, known
}

// Message is one queued notification.
type Message struct {
	Kind listctl.Kind
	Text string
}

// Flash queues notifications for a session until the next response drains
// them.
type Flash struct {
	mu    sync.Mutex
	items []Message
}

var _ listctl.Notifier = (*Flash)(nil)

// Notify queues a message.
func (f *Flash) Notify(kind listctl.Kind, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, Message{Kind: kind, Text: text})
}

// Drain returns and clears the queued messages.
func (f *Flash) Drain() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	return out
}

type session[T, D any] struct {
	ctrl  *listctl.Controller[T, D]
	flash *Flash
	seen  time.Time
}

// Store keeps one controller per session for a screen.
type Store[T, D any] struct {
	mu       sync.Mutex
	sessions map[string]*session[T, D]
	build    func(listctl.Notifier) *listctl.Controller[T, D]
	now      func() time.Time
}

// NewStore creates a Store whose controllers come from build, which receives
// the session's notification sink.
func NewStore[T, D any](build func(listctl.Notifier) *listctl.Controller[T, D]) *Store[T, D] {
	return &Store[T, D]{
		sessions: make(map[string]*session[T, D]),
		build:    build,
		now:      time.Now,
	}
}

// Get returns the controller and flash queue of session id, creating them on
// first use.
func (s *Store[T, D]) Get(id string) (*listctl.Controller[T, D], *Flash) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		flash := &Flash{}
		sess = &session[T, D]{ctrl: s.build(flash), flash: flash}
		s.sessions[id] = sess
	}
	sess.seen = s.now()
	return sess.ctrl, sess.flash
}

// Transient returns a controller and flash queue that the store does not
// keep.
func (s *Store[T, D]) Transient() (*listctl.Controller[T, D], *Flash) {
	flash := &Flash{}
	return s.build(flash), flash
}

// Len returns the number of live sessions.
func (s *Store[T, D]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle since before cutoff and returns how many.
func (s *Store[T, D]) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.seen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Sweeper is anything that can drop idle sessions.
type Sweeper interface {
	Sweep(cutoff time.Time) int
}

// Janitor periodically sweeps idle sessions from every registered store.
type Janitor struct {
	mu     sync.Mutex
	stores []Sweeper
	ttl    time.Duration
}

// NewJanitor creates a Janitor that expires sessions idle for ttl.
func NewJanitor(ttl time.Duration) *Janitor {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Janitor{ttl: ttl}
}

// TTL returns the idle lifetime of a session.
func (j *Janitor) TTL() time.Duration { return j.ttl }

// Add registers a store.
func (j *Janitor) Add(s Sweeper) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stores = append(j.stores, s)
}

// SweepNow sweeps every store once and returns the number of sessions dropped.
func (j *Janitor) SweepNow(now time.Time) int {
	j.mu.Lock()
	stores := append([]Sweeper(nil), j.stores...)
	j.mu.Unlock()

	cutoff := now.Add(-j.ttl)
	n := 0
	for _, s := range stores {
		n += s.Sweep(cutoff)
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := j.SweepNow(now); n > 0 {
				slog.Debug("expired dashboard sessions", "count", n)
			}
		}
	}
}
