package crud

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/listctl"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// Service validates drafts and applies them to records of one Resource.
type Service[T, D any] struct {
	res      Resource[T, D]
	repo     *Repository[T]
	validate *validator.Validate
}

// NewService creates a Service. A nil v uses listctl.NewValidator so the API
// reports the same field names as the dashboard forms.
func NewService[T, D any](res Resource[T, D], repo *Repository[T], v *validator.Validate) *Service[T, D] {
	if v == nil {
		v = listctl.NewValidator()
	}
	return &Service[T, D]{res: res, repo: repo, validate: v}
}

// Resource returns the resource definition.
func (s *Service[T, D]) Resource() Resource[T, D] { return s.res }

// Create validates draft, builds a record and persists it.
func (s *Service[T, D]) Create(ctx context.Context, draft D) (*T, error) {
	if err := s.check(draft); err != nil {
		return nil, err
	}
	rec, err := s.res.Build(ctx, draft)
	if err != nil {
		return nil, s.wrap(err)
	}
	if err := s.enrich(ctx, s.repo.db, rec); err != nil {
		return nil, s.wrap(err)
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, s.wrap(err)
	}
	return rec, nil
}

// Get retrieves a record by ID.
func (s *Service[T, D]) Get(ctx context.Context, id uint) (*T, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrap(err)
	}
	return rec, nil
}

// List returns one page of records.
func (s *Service[T, D]) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[T], error) {
	return s.repo.List(ctx, req)
}

// All returns every record.
func (s *Service[T, D]) All(ctx context.Context) ([]T, error) {
	return s.repo.All(ctx)
}

// Update loads record id, applies draft and saves it in one transaction.
func (s *Service[T, D]) Update(ctx context.Context, id uint, draft D) (*T, error) {
	if err := s.check(draft); err != nil {
		return nil, err
	}
	var out *T
	err := pkg.WithTx(ctx, s.repo.db, func(tx *gorm.DB) error {
		repo := s.repo.WithDB(tx)
		rec, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.res.Apply(ctx, rec, draft); err != nil {
			return err
		}
		if err := s.enrich(ctx, tx, rec); err != nil {
			return err
		}
		if err := repo.Update(ctx, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, s.wrap(err)
	}
	return out, nil
}

// Delete removes a record by ID.
func (s *Service[T, D]) Delete(ctx context.Context, id uint) error {
	return s.wrap(s.repo.Delete(ctx, id))
}

// Do runs the named action on record id and returns its message.
func (s *Service[T, D]) Do(ctx context.Context, id uint, name string) (*T, string, error) {
	action, ok := s.res.Actions[name]
	if !ok {
		return nil, "", domain.NewAppError(domain.CodeNotFound, "unknown action "+name, nil)
	}
	var out *T
	err := pkg.WithTx(ctx, s.repo.db, func(tx *gorm.DB) error {
		repo := s.repo.WithDB(tx)
		rec, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := action.Apply(ctx, rec); err != nil {
			return err
		}
		if err := repo.Update(ctx, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, "", s.wrap(err)
	}
	return out, action.Message, nil
}

func (s *Service[T, D]) enrich(ctx context.Context, db *gorm.DB, rec *T) error {
	if s.res.Enrich == nil {
		return nil
	}
	return s.res.Enrich(ctx, db.WithContext(ctx), rec)
}

// check validates draft and turns the first failure into a validation AppError.
func (s *Service[T, D]) check(draft D) error {
	err := listctl.ValidateDraft(s.validate, draft)
	if err == nil {
		return nil
	}
	return domain.NewAppError(domain.CodeValidation, err.Error(), err)
}

// wrap names the resource in generic not-found and conflict messages.
func (s *Service[T, D]) wrap(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		return err
	}
	switch {
	case appErr.Code == domain.CodeNotFound && appErr.Message == domain.ErrNotFound.Message:
		return domain.NewAppError(domain.CodeNotFound, s.res.Name+" not found", err)
	case appErr.Code == domain.CodeAlreadyExists && appErr.Message == "already exists":
		return domain.NewAppError(domain.CodeAlreadyExists, s.res.Name+" already exists", err)
	}
	return err
}

// lowerName returns the resource name in lower case, for log keys.
func (s *Service[T, D]) lowerName() string {
	return strings.ToLower(s.res.Name)
}
