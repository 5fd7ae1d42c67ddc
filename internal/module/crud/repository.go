package crud

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// Repository stores T records with GORM. T is a model struct such as
// domain.Employee; the repository works on *T.
type Repository[T any] struct {
	db           *gorm.DB
	scope        func(*gorm.DB) *gorm.DB
	sortFields   []string
	filterFields []string
	searchFields []string
}

// NewRepository creates a Repository for the fields declared by res.
func NewRepository[T, D any](db *gorm.DB, res Resource[T, D]) *Repository[T] {
	return &Repository[T]{
		db:           db,
		scope:        res.Scope,
		sortFields:   res.SortFields,
		filterFields: res.FilterFields,
		searchFields: res.SearchFields,
	}
}

// DB returns a session bound to ctx, for use with pkg.WithTx.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// WithDB returns a copy of the repository using db, typically a transaction.
func (r *Repository[T]) WithDB(db *gorm.DB) *Repository[T] {
	cp := *r
	cp.db = db
	return &cp
}

func (r *Repository[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx).Model(new(T))
	if r.scope != nil {
		q = q.Scopes(r.scope)
	}
	return q
}

// Create inserts rec.
func (r *Repository[T]) Create(ctx context.Context, rec *T) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a record by its primary key.
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	rec := new(T)
	if err := r.query(ctx).First(rec, id).Error; err != nil {
		return nil, mapError(err)
	}
	return rec, nil
}

// List returns a paginated, searched, sorted and filtered page of records.
func (r *Repository[T]) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[T], error) {
	var total int64
	base := r.query(ctx).Scopes(
		pkg.Filter(req, r.filterFields),
		pkg.Search(req, r.searchFields),
	)

	if err := base.Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var items []T
	if err := base.Scopes(
		pkg.Paginate(req),
		pkg.Sort(req, r.sortFields),
	).Find(&items).Error; err != nil {
		return nil, mapError(err)
	}

	return pkg.NewPageResult(items, total, req), nil
}

// All returns every record in id order, for lookup lists.
func (r *Repository[T]) All(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.query(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, mapError(err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Update saves changes to an existing record.
func (r *Repository[T]) Update(ctx context.Context, rec *T) error {
	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// Delete removes a record by ID.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	result := r.query(ctx).Delete(new(T), id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
		return domain.NewAppError(domain.CodeAlreadyExists, "already exists", err)
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}

// isDuplicateKeyError detects unique constraint violations by examining the
// error message. Not all GORM dialectors translate driver-level errors to
// gorm.ErrDuplicatedKey (e.g. the pure-Go SQLite driver).
func isDuplicateKeyError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
