package crud

import (
	"context"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/listctl"
)

// LocalSource serves a Service to dashboard controllers in-process, with the
// same messages and errors the REST API would produce.
type LocalSource[T, D any] struct {
	svc  *Service[T, D]
	sort string
}

var _ listctl.Source[struct{}, struct{}] = (*LocalSource[struct{}, struct{}])(nil)

// NewLocalSource wraps svc. Listings are ordered newest first.
func NewLocalSource[T, D any](svc *Service[T, D]) *LocalSource[T, D] {
	return &LocalSource[T, D]{svc: svc, sort: "id:desc"}
}

// List returns one page.
func (s *LocalSource[T, D]) List(ctx context.Context, q listctl.ListQuery) (listctl.PageEnvelope[T], error) {
	res, err := s.svc.List(ctx, domain.PageRequest{
		Page:     max(q.Page, 1),
		PageSize: q.PageSize,
		Sort:     s.sort,
		Search:   q.Search,
	})
	if err != nil {
		return listctl.PageEnvelope[T]{}, err
	}
	return listctl.PageEnvelope[T]{
		Items:      res.Items,
		TotalCount: int(res.Total),
		Page:       res.Page,
		PageSize:   res.PageSize,
	}, nil
}

// Create adds a record.
func (s *LocalSource[T, D]) Create(ctx context.Context, draft D) (listctl.Result, error) {
	if _, err := s.svc.Create(ctx, draft); err != nil {
		return listctl.Result{}, err
	}
	return listctl.Result{Message: s.svc.res.message("created")}, nil
}

// Update replaces record id.
func (s *LocalSource[T, D]) Update(ctx context.Context, id uint, draft D) (listctl.Result, error) {
	if _, err := s.svc.Update(ctx, id, draft); err != nil {
		return listctl.Result{}, err
	}
	return listctl.Result{Message: s.svc.res.message("updated")}, nil
}

// Delete removes record id.
func (s *LocalSource[T, D]) Delete(ctx context.Context, id uint) (listctl.Result, error) {
	if err := s.svc.Delete(ctx, id); err != nil {
		return listctl.Result{}, err
	}
	return listctl.Result{Message: s.svc.res.message("deleted")}, nil
}

// Get returns record id.
func (s *LocalSource[T, D]) Get(ctx context.Context, id uint) (T, error) {
	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return *rec, nil
}

// All returns every record.
func (s *LocalSource[T, D]) All(ctx context.Context) ([]T, error) {
	return s.svc.All(ctx)
}

// Action runs a declared record action.
func (s *LocalSource[T, D]) Action(ctx context.Context, id uint, name string) (listctl.Result, error) {
	_, msg, err := s.svc.Do(ctx, id, name)
	if err != nil {
		return listctl.Result{}, err
	}
	return listctl.Result{Message: msg}, nil
}
