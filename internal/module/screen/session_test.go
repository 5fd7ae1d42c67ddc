package screen

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hrdash/internal/listctl"
)

func TestSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		cookie string
		keep   bool
	}{
		{name: "no cookie", cookie: "", keep: false},
		{name: "valid cookie", cookie: "9b2f6a0e-6a5c-4f0e-9d55-0d1f6a3c2b11", keep: true},
		{name: "tampered cookie", cookie: "../../etc/passwd", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				c.Request.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}

			id, known := SessionID(c, time.Hour)
			if known != tt.keep {
				t.Errorf("known = %v, want %v", known, tt.keep)
			}
			if tt.keep && id != tt.cookie {
				t.Errorf("expected cookie id to be kept, got %q", id)
			}
			if !tt.keep && (id == "" || id == tt.cookie) {
				t.Errorf("expected a fresh id, got %q", id)
			}
			if again, _ := SessionID(c, time.Hour); again != id {
				t.Errorf("id should be stable within a request: %q vs %q", again, id)
			}

			var found *http.Cookie
			for _, ck := range w.Result().Cookies() {
				if ck.Name == SessionCookie {
					found = ck
				}
			}
			if found == nil || found.Value != id {
				t.Fatalf("expected cookie with id %q, got %+v", id, found)
			}
			if found.SameSite != http.SameSiteStrictMode {
				t.Errorf("expected SameSite=Strict, got %v", found.SameSite)
			}
		})
	}
}

func TestFlash_Drain(t *testing.T) {
	var f Flash
	f.Notify(listctl.KindSuccess, "saved")
	f.Notify(listctl.KindError, "failed")

	got := f.Drain()
	if len(got) != 2 || got[0].Text != "saved" || got[1].Kind != listctl.KindError {
		t.Fatalf("unexpected messages %+v", got)
	}
	if again := f.Drain(); len(again) != 0 {
		t.Errorf("expected empty queue after drain, got %+v", again)
	}
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestStore(clock *fakeClock) (*Store[person, personDraft], *int) {
	built := 0
	s := NewStore(func(n listctl.Notifier) *listctl.Controller[person, personDraft] {
		built++
		return listctl.New(listctl.Config[person, personDraft]{
			Name:     "people",
			Source:   newMemBackend(),
			Notifier: n,
		})
	})
	s.now = clock.Now
	return s, &built
}

func TestStore_GetReusesSessions(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	s, built := newTestStore(clock)

	a1, fa := s.Get("a")
	a2, fa2 := s.Get("a")
	b, _ := s.Get("b")

	if a1 != a2 || fa != fa2 {
		t.Error("same session should return the same controller and flash")
	}
	if a1 == b {
		t.Error("different sessions must not share a controller")
	}
	if *built != 2 || s.Len() != 2 {
		t.Errorf("expected 2 controllers, built=%d len=%d", *built, s.Len())
	}
}

func TestStore_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	s, _ := newTestStore(clock)

	s.Get("old")
	clock.now = clock.now.Add(20 * time.Minute)
	s.Get("fresh")

	if n := s.Sweep(clock.now.Add(-10 * time.Minute)); n != 1 {
		t.Errorf("expected 1 swept session, got %d", n)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 remaining session, got %d", s.Len())
	}
}

func TestStore_TransientIsNotKept(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	s, built := newTestStore(clock)

	a, fa := s.Transient()
	b, fb := s.Transient()
	if a == b || fa == fb {
		t.Error("each transient call should build a fresh controller")
	}
	if *built != 2 || s.Len() != 0 {
		t.Errorf("expected 2 builds and an empty store, built=%d len=%d", *built, s.Len())
	}
}

type countingSweeper struct{ cutoffs []time.Time }

func (c *countingSweeper) Sweep(cutoff time.Time) int {
	c.cutoffs = append(c.cutoffs, cutoff)
	return 2
}

func TestJanitor_SweepNow(t *testing.T) {
	j := NewJanitor(time.Hour)
	a, b := &countingSweeper{}, &countingSweeper{}
	j.Add(a)
	j.Add(b)

	now := time.Unix(1_700_000_000, 0)
	if n := j.SweepNow(now); n != 4 {
		t.Errorf("expected 4 dropped sessions, got %d", n)
	}
	want := now.Add(-time.Hour)
	if len(a.cutoffs) != 1 || !a.cutoffs[0].Equal(want) || len(b.cutoffs) != 1 {
		t.Errorf("unexpected cutoffs a=%v b=%v", a.cutoffs, b.cutoffs)
	}
}

func TestNewJanitor_DefaultTTL(t *testing.T) {
	if got := NewJanitor(0).TTL(); got != 30*time.Minute {
		t.Errorf("expected 30m default, got %v", got)
	}
}
