// Package crud serves the HR REST API generically over any record type.
//
// Each entity module describes its collection with a Resource and gets a
// gorm-backed Repository, a validating Service, a gin Handler and a
// LocalSource that lets dashboard screens use the Service in-process.
package crud

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/pkg"
)

// Resource describes one REST collection of T records, created and updated
// from drafts of type D.
type Resource[T any, D any] struct {
	// Name is the singular display name, e.g. "Employee".
	Name string
	// Path is the collection path under /api/v1, e.g. "employees".
	Path string
	// Keys names the list response keys; zero means pkg.DefaultListKeys.
	Keys pkg.ListKeys

	SortFields   []string
	FilterFields []string
	SearchFields []string

	// Scope narrows every query, e.g. to paid records only.
	Scope func(db *gorm.DB) *gorm.DB

	// Build makes a new record from a validated draft.
	Build func(ctx context.Context, draft D) (*T, error)
	// Apply copies a validated draft onto an existing record.
	Apply func(ctx context.Context, rec *T, draft D) error
	// Enrich fills derived columns, such as denormalized employee names, before
	// a record is saved. db is the transaction when there is one.
	Enrich func(ctx context.Context, db *gorm.DB, rec *T) error

	// Actions are record-level commands served at POST /<path>/:id/<name>.
	Actions map[string]Action[T]
}

// Action changes one loaded record before it is saved again.
type Action[T any] struct {
	// Message is returned on success.
	Message string
	Apply   func(ctx context.Context, rec *T) error
}

func (r Resource[T, D]) listKeys() pkg.ListKeys {
	keys := r.Keys
	if keys.Items == "" {
		keys.Items = pkg.DefaultListKeys.Items
	}
	if keys.Pagination == "" {
		keys.Pagination = pkg.DefaultListKeys.Pagination
	}
	return keys
}

func (r Resource[T, D]) message(verb string) string {
	return r.Name + " " + verb + " successfully"
}
