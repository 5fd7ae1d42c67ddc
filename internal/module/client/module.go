// Package client manages external client accounts.
package client

import (
	"context"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/module/crud"
	"github.com/simp-lee/hrdash/internal/module/entity"
	"github.com/simp-lee/hrdash/internal/module/screen"
)

// Resource describes the clients collection.
func Resource() crud.Resource[domain.Client, Draft] {
	return crud.Resource[domain.Client, Draft]{
		Name:         "Client",
		Path:         "clients",
		SortFields:   []string{"id", "full_name", "username"},
		FilterFields: []string{"country", "is_active"},
		SearchFields: []string{"full_name", "username", "email", "country"},
		Build: func(_ context.Context, d Draft) (*domain.Client, error) {
			if d.Password == "" {
				return nil, domain.NewAppError(domain.CodeValidation, "password is required", nil)
			}
			var c domain.Client
			if err := d.apply(&c); err != nil {
				return nil, err
			}
			return &c, nil
		},
		Apply: func(_ context.Context, c *domain.Client, d Draft) error {
			return d.apply(c)
		},
	}
}

// Definition describes the clients screen over b.
func Definition(b screen.Backend[domain.Client, Draft]) screen.Definition[domain.Client, Draft] {
	return screen.Definition[domain.Client, Draft]{
		Name:    "clients",
		Title:   "Clients",
		Entity:  "Client",
		Backend: b,
		ID:      func(c domain.Client) uint { return c.ID },
		Columns: []screen.Column[domain.Client]{
			{Header: "Name", Value: func(c domain.Client) string { return c.FullName }},
			{Header: "Username", Value: func(c domain.Client) string { return c.Username }},
			{Header: "Email", Value: func(c domain.Client) string { return c.Email }},
			{Header: "Contact", Value: func(c domain.Client) string { return c.ContactNumber }},
			{Header: "Country", Value: func(c domain.Client) string { return c.Country }},
			{Header: "Status", Value: func(c domain.Client) string {
				if c.IsActive {
					return "Active"
				}
				return "Inactive"
			}},
		},
		Fields: []screen.Field{
			{Name: "first_name", Label: "First Name", Type: screen.FieldText, Required: true},
			{Name: "last_name", Label: "Last Name", Type: screen.FieldText, Required: true},
			{Name: "username", Label: "Username", Type: screen.FieldText, Required: true},
			{Name: "email", Label: "Email", Type: screen.FieldEmail, Required: true},
			{Name: "contact_number", Label: "Contact Number", Type: screen.FieldText},
			{Name: "country", Label: "Country", Type: screen.FieldText},
			{Name: "password", Label: "Password", Type: screen.FieldPassword, Required: true, CreateOnly: true},
			{Name: "is_active", Label: "Active", Type: screen.FieldCheckbox},
		},
		ToDraft: ToDraft,
	}
}

// NewModule builds the clients module.
func NewModule(deps entity.Deps) *entity.Module[domain.Client, Draft] {
	return entity.New(deps, Resource(), Definition)
}
