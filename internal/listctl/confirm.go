package listctl

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNothingPending is returned by Confirm when no action awaits confirmation.
	ErrNothingPending = errors.New("no action awaiting confirmation")
	// ErrUnknownAction is returned by Request for an action with no handler.
	ErrUnknownAction = errors.New("unknown action")
)

// Pending is the action awaiting confirmation.
type Pending struct {
	ID     uint
	Action Action
}

// ActionFunc performs a confirmed action on record id.
type ActionFunc func(ctx context.Context, id uint) error

// ConfirmGate holds at most one destructive action until the user confirms or
// cancels it. A new request replaces whatever was pending.
type ConfirmGate struct {
	mu      sync.Mutex
	pending *Pending
	actions map[Action]ActionFunc
}

// NewConfirmGate registers the handlers Confirm may dispatch to.
func NewConfirmGate(actions map[Action]ActionFunc) *ConfirmGate {
	m := make(map[Action]ActionFunc, len(actions))
	for k, v := range actions {
		m[k] = v
	}
	return &ConfirmGate{actions: m}
}

// Request arms the gate for action on id.
func (g *ConfirmGate) Request(id uint, action Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.actions[action]; !ok {
		return ErrUnknownAction
	}
	g.pending = &Pending{ID: id, Action: action}
	return nil
}

// RequestDelete arms the gate for deleting id.
func (g *ConfirmGate) RequestDelete(id uint) error {
	return g.Request(id, ActionDelete)
}

// Pending returns the armed action, if any.
func (g *ConfirmGate) Pending() (Pending, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return Pending{}, false
	}
	return *g.pending, true
}

// Cancel disarms the gate. It reports whether anything was pending.
func (g *ConfirmGate) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	had := g.pending != nil
	g.pending = nil
	return had
}

// Confirm disarms the gate and then runs the pending action, so the gate is
// already Idle whether or not the action succeeds.
func (g *ConfirmGate) Confirm(ctx context.Context) (Pending, error) {
	g.mu.Lock()
	if g.pending == nil {
		g.mu.Unlock()
		return Pending{}, ErrNothingPending
	}
	p := *g.pending
	g.pending = nil
	fn := g.actions[p.Action]
	g.mu.Unlock()

	return p, fn(ctx, p.ID)
}
