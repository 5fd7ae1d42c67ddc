package listctl

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/simp-lee/hrdash/internal/domain"
)

type noteDraft struct {
	Title string `form:"title" validate:"required"`
	Email string `form:"email" validate:"omitempty,email"`
}

// blockingMutator counts calls and, when gate is set, parks each call until
// the gate is closed.
type blockingMutator struct {
	calls   atomic.Int32
	entered chan struct{}
	gate    chan struct{}
	err     error
}

func (m *blockingMutator) wait() {
	m.calls.Add(1)
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}
}

func (m *blockingMutator) Create(context.Context, noteDraft) (Result, error) {
	m.wait()
	return Result{Message: "Note created successfully"}, m.err
}

func (m *blockingMutator) Update(context.Context, uint, noteDraft) (Result, error) {
	m.wait()
	return Result{Message: "Note updated successfully"}, m.err
}

func (m *blockingMutator) Delete(context.Context, uint) (Result, error) {
	m.wait()
	return Result{Message: "Note deleted successfully"}, m.err
}

func TestMutationWorkflow_ValidationSkipsNetwork(t *testing.T) {
	m := &blockingMutator{}
	w := NewMutationWorkflow[noteDraft](m, nil)

	tests := []struct {
		name  string
		draft noteDraft
		field string
		tag   string
	}{
		{"missing title", noteDraft{}, "title", "required"},
		{"bad email", noteDraft{Title: "x", Email: "nope"}, "email", "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Create(context.Background(), tt.draft)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *domain.ValidationError, got %v", err)
			}
			if ve.Field != tt.field || ve.Tag != tt.tag {
				t.Errorf("got field=%q tag=%q, want %q %q", ve.Field, ve.Tag, tt.field, tt.tag)
			}
		})
	}

	if _, err := w.Update(context.Background(), 3, noteDraft{}); !domain.IsValidation(err) {
		t.Errorf("expected validation error on update, got %v", err)
	}
	if n := m.calls.Load(); n != 0 {
		t.Errorf("invalid drafts reached the mutator %d times", n)
	}
}

func TestMutationWorkflow_ValidationMessage(t *testing.T) {
	w := NewMutationWorkflow[noteDraft](&blockingMutator{}, nil)
	err := w.Validate(noteDraft{})
	if err == nil || err.Error() != "title is required" {
		t.Errorf("expected 'title is required', got %v", err)
	}
}

func TestMutationWorkflow_NonStructDraftPasses(t *testing.T) {
	w := NewMutationWorkflow[map[string]string](nil, nil)
	if err := w.Validate(map[string]string{}); err != nil {
		t.Errorf("non-struct drafts should pass validation, got %v", err)
	}
}

func TestMutationWorkflow_BusyGuard(t *testing.T) {
	gate := make(chan struct{})
	m := &blockingMutator{entered: make(chan struct{}, 2), gate: gate}
	w := NewMutationWorkflow[noteDraft](m, nil)
	ctx := context.Background()

	done := make(chan error, 2)
	go func() {
		_, err := w.Update(ctx, 5, noteDraft{Title: "a"})
		done <- err
	}()
	<-m.entered

	if !w.Busy(5) {
		t.Error("record 5 should be busy")
	}
	if _, err := w.Update(ctx, 5, noteDraft{Title: "b"}); !domain.IsBusy(err) {
		t.Errorf("expected busy for second update of 5, got %v", err)
	}
	if _, err := w.Remove(ctx, 5); !domain.IsBusy(err) {
		t.Errorf("expected busy for delete of 5, got %v", err)
	}

	// Other records are not blocked.
	go func() {
		_, err := w.Remove(ctx, 6)
		done <- err
	}()
	<-m.entered
	if !w.Busy(6) {
		t.Error("record 6 should be in flight")
	}

	close(gate)
	for range 2 {
		if err := <-done; err != nil {
			t.Fatalf("request failed: %v", err)
		}
	}
	if w.Busy(5) || w.Busy(6) {
		t.Error("records should be free after completion")
	}
	if n := m.calls.Load(); n != 2 {
		t.Errorf("expected 2 mutator calls, got %d", n)
	}
}

func TestMutationWorkflow_CreatesShareOneGuard(t *testing.T) {
	gate := make(chan struct{})
	m := &blockingMutator{entered: make(chan struct{}, 1), gate: gate}
	w := NewMutationWorkflow[noteDraft](m, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := w.Create(ctx, noteDraft{Title: "first"})
		done <- err
	}()
	<-m.entered

	if _, err := w.Create(ctx, noteDraft{Title: "second"}); !domain.IsBusy(err) {
		t.Errorf("expected busy for concurrent create, got %v", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if n := m.calls.Load(); n != 1 {
		t.Errorf("expected exactly one create call, got %d", n)
	}
}

func TestMutationWorkflow_ErrorReleasesGuard(t *testing.T) {
	m := &blockingMutator{err: domain.NewServerError(409, "Email already exists")}
	w := NewMutationWorkflow[noteDraft](m, nil)

	_, err := w.Create(context.Background(), noteDraft{Title: "x"})
	if !domain.IsServerError(err) {
		t.Fatalf("expected server error, got %v", err)
	}
	if w.Busy(createKey) {
		t.Error("guard must be released after failure")
	}
}
