package listctl

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/hrdash/internal/domain"
)

// Action names a mutation. Create, update and delete are built in; screens
// may register more (for example "pay").
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// createKey is the busy-guard key shared by all creates; records are keyed by
// their id, which is never zero.
const createKey uint = 0

// NewValidator returns a validator that reports fields by their form (or json)
// tag name so messages match the inputs on screen.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"form", "json"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// MutationWorkflow validates drafts and submits them to a Mutator. At most one
// request per record id (and one create) is in flight at a time; a second
// request for the same key fails fast with domain.ErrBusy.
type MutationWorkflow[D any] struct {
	mu       sync.Mutex
	inflight map[uint]Action
	validate *validator.Validate
	target   Mutator[D]
}

// NewMutationWorkflow wraps target. A nil v uses NewValidator.
func NewMutationWorkflow[D any](target Mutator[D], v *validator.Validate) *MutationWorkflow[D] {
	if v == nil {
		v = NewValidator()
	}
	return &MutationWorkflow[D]{
		inflight: make(map[uint]Action),
		validate: v,
		target:   target,
	}
}

// Validate checks draft against its validate tags. See ValidateDraft.
func (m *MutationWorkflow[D]) Validate(draft D) error {
	return ValidateDraft(m.validate, draft)
}

// ValidateDraft checks draft against its validate tags and returns the first
// failing field as a *domain.ValidationError. Drafts that are not structs
// pass unchecked.
func ValidateDraft(v *validator.Validate, draft any) error {
	err := v.Struct(draft)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return &domain.ValidationError{Field: ve[0].Field(), Tag: ve[0].Tag()}
	}
	return err
}

// Busy reports whether a request for id is in flight. Use id 0 for creates.
func (m *MutationWorkflow[D]) Busy(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.inflight[id]
	return ok
}

// Create validates draft and submits it.
func (m *MutationWorkflow[D]) Create(ctx context.Context, draft D) (Result, error) {
	if err := m.Validate(draft); err != nil {
		return Result{}, err
	}
	return m.Run(ctx, createKey, ActionCreate, func(ctx context.Context) (Result, error) {
		return m.target.Create(ctx, draft)
	})
}

// Update validates draft and submits it for record id.
func (m *MutationWorkflow[D]) Update(ctx context.Context, id uint, draft D) (Result, error) {
	if err := m.Validate(draft); err != nil {
		return Result{}, err
	}
	return m.Run(ctx, id, ActionUpdate, func(ctx context.Context) (Result, error) {
		return m.target.Update(ctx, id, draft)
	})
}

// Remove deletes record id.
func (m *MutationWorkflow[D]) Remove(ctx context.Context, id uint) (Result, error) {
	return m.Run(ctx, id, ActionDelete, func(ctx context.Context) (Result, error) {
		return m.target.Delete(ctx, id)
	})
}

// Run executes fn under the busy guard for key.
func (m *MutationWorkflow[D]) Run(ctx context.Context, key uint, action Action, fn func(context.Context) (Result, error)) (Result, error) {
	m.mu.Lock()
	if _, busy := m.inflight[key]; busy {
		m.mu.Unlock()
		return Result{}, domain.ErrBusy
	}
	m.inflight[key] = action
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.inflight, key)
		m.mu.Unlock()
	}()

	return fn(ctx)
}
