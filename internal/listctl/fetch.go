package listctl

import (
	"context"
	"sync"
)

// Status is the state of the listing round-trip.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchState is a snapshot of a FetchCycle. Envelope holds the last
// successful page and survives a later failure, so the table keeps showing
// data while Err explains what went wrong.
type FetchState[T any] struct {
	Status   Status
	Query    ListQuery
	Envelope PageEnvelope[T]
	HasData  bool
	Err      error
}

// Ticket identifies one listing request. Only the ticket from the latest
// Begin may complete the cycle.
type Ticket struct {
	gen   uint64
	query ListQuery
}

// Query is the query the ticket was issued for.
func (t Ticket) Query() ListQuery { return t.query }

// FetchCycle tracks Idle → Loading → Ready | Failed for a stream of listing
// requests. A response is applied only if no newer request has begun since
// its ticket was issued.
type FetchCycle[T any] struct {
	mu    sync.Mutex
	gen   uint64
	state FetchState[T]
}

// Begin enters Loading for q and supersedes every outstanding ticket.
func (f *FetchCycle[T]) Begin(q ListQuery) Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gen++
	f.state.Status = StatusLoading
	f.state.Query = q
	return Ticket{gen: f.gen, query: q}
}

// Complete applies the outcome of the request behind t. It returns false, and
// changes nothing, when t has been superseded.
func (f *FetchCycle[T]) Complete(t Ticket, env PageEnvelope[T], err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.gen != f.gen {
		return false
	}
	if err != nil {
		f.state.Status = StatusFailed
		f.state.Err = err
		return true
	}

	f.state.Status = StatusReady
	f.state.Err = nil
	f.state.Envelope = normalize(env, t.query)
	f.state.HasData = true
	return true
}

// Load runs one full round-trip against l. The lister is called without any
// lock held. The returned ticket tells the caller which query was fetched and
// applied reports whether the outcome was kept.
func (f *FetchCycle[T]) Load(ctx context.Context, l Lister[T], q ListQuery) (t Ticket, applied bool) {
	t = f.Begin(q)
	env, err := l.List(ctx, q)
	return t, f.Complete(t, env, err)
}

// State returns a snapshot.
func (f *FetchCycle[T]) State() FetchState[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Current reports whether t is still the latest ticket.
func (f *FetchCycle[T]) Current(t Ticket) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return t.gen == f.gen
}

// normalize fills in what the server left out: page 1, the requested size,
// an empty item list and a non-negative total.
func normalize[T any](env PageEnvelope[T], q ListQuery) PageEnvelope[T] {
	if env.Page < 1 {
		env.Page = 1
	}
	if env.PageSize < 1 {
		env.PageSize = q.PageSize
	}
	if env.Items == nil {
		env.Items = []T{}
	}
	if env.TotalCount < 0 {
		env.TotalCount = 0
	}
	return env
}
