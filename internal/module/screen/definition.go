// Package screen renders dashboard pages backed by listctl controllers, one
// controller per browser session and screen.
package screen

import (
	"context"

	"github.com/simp-lee/hrdash/internal/listctl"
)

// Backend is everything a screen needs from its collection. Both the remote
// HR API client and the in-process crud source implement it.
type Backend[T, D any] interface {
	listctl.Source[T, D]
	Get(ctx context.Context, id uint) (T, error)
	All(ctx context.Context) ([]T, error)
	Action(ctx context.Context, id uint, name string) (listctl.Result, error)
}

// Column is one table column.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Field types understood by the form template.
const (
	FieldText     = "text"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldNumber   = "number"
	FieldDate     = "date"
	FieldMonth    = "month"
	FieldSelect   = "select"
	FieldCheckbox = "checkbox"
	FieldRichText = "richtext"
)

// Field is one input of the add/edit form. Name must match the draft's form
// tag. Select fields take Options, or the named Lookup when set.
type Field struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Options  []Option
	Lookup   string
	// CreateOnly fields are hidden when editing, e.g. passwords.
	CreateOnly bool
}

// RowAction is a confirm-gated command offered on each row, such as "pay".
type RowAction[T any] struct {
	Name   string
	Label  string
	Prompt string
	// Show reports whether the action applies to the row; nil means always.
	Show func(T) bool
}

// Definition describes one dashboard screen.
type Definition[T, D any] struct {
	// Name is the URL segment and the screen name in logs and metrics.
	Name string
	// Title heads the page.
	Title string
	// Entity is the singular display name used in messages.
	Entity  string
	Backend Backend[T, D]
	ID      func(T) uint
	Columns []Column[T]
	Fields  []Field
	// ToDraft seeds the edit form from a record.
	ToDraft func(T) D
	Actions []RowAction[T]
	// ReadOnly screens list records and offer no mutations.
	ReadOnly bool
}

func (d Definition[T, D]) base() string { return "/" + d.Name }

func (d Definition[T, D]) lookupNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, f := range d.Fields {
		if f.Lookup != "" && !seen[f.Lookup] {
			seen[f.Lookup] = true
			names = append(names, f.Lookup)
		}
	}
	return names
}

func (d Definition[T, D]) action(name string) (RowAction[T], bool) {
	for _, a := range d.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return RowAction[T]{}, false
}
