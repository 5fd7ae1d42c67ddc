// Package employee is the staff directory: the employees API and screen, and
// the employee picker used by other screens.
package employee

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/module/crud"
	"github.com/simp-lee/hrdash/internal/module/entity"
	"github.com/simp-lee/hrdash/internal/module/screen"
)

// LookupName is the select-option lookup listing every employee.
const LookupName = "employees"

// Resource describes the employees collection.
func Resource() crud.Resource[domain.Employee, Draft] {
	return crud.Resource[domain.Employee, Draft]{
		Name:         "Employee",
		Path:         "employees",
		SortFields:   []string{"id", "first_name", "last_name", "joining_date"},
		FilterFields: []string{"department", "position", "is_active"},
		SearchFields: []string{"first_name", "last_name", "email", "position", "department"},
		Build: func(_ context.Context, d Draft) (*domain.Employee, error) {
			var e domain.Employee
			d.apply(&e)
			return &e, nil
		},
		Apply: func(_ context.Context, e *domain.Employee, d Draft) error {
			d.apply(e)
			return nil
		},
	}
}

// Definition describes the employees screen over b.
func Definition(b screen.Backend[domain.Employee, Draft]) screen.Definition[domain.Employee, Draft] {
	return screen.Definition[domain.Employee, Draft]{
		Name:    "employees",
		Title:   "Employees",
		Entity:  "Employee",
		Backend: b,
		ID:      func(e domain.Employee) uint { return e.ID },
		Columns: []screen.Column[domain.Employee]{
			{Header: "Name", Value: domain.Employee.FullName},
			{Header: "Email", Value: func(e domain.Employee) string { return e.Email }},
			{Header: "Contact", Value: func(e domain.Employee) string { return e.ContactNumber }},
			{Header: "Position", Value: func(e domain.Employee) string { return e.Position }},
			{Header: "Department", Value: func(e domain.Employee) string { return e.Department }},
			{Header: "Joined", Value: func(e domain.Employee) string { return e.JoiningDate }},
			{Header: "Status", Value: func(e domain.Employee) string {
				if e.IsActive {
					return "Active"
				}
				return "Inactive"
			}},
		},
		Fields: []screen.Field{
			{Name: "first_name", Label: "First Name", Type: screen.FieldText, Required: true},
			{Name: "last_name", Label: "Last Name", Type: screen.FieldText, Required: true},
			{Name: "email", Label: "Email", Type: screen.FieldEmail, Required: true},
			{Name: "contact_number", Label: "Contact Number", Type: screen.FieldText},
			{Name: "position", Label: "Position", Type: screen.FieldText},
			{Name: "department", Label: "Department", Type: screen.FieldText},
			{Name: "joining_date", Label: "Joining Date", Type: screen.FieldDate},
			{Name: "is_active", Label: "Active", Type: screen.FieldCheckbox},
		},
		ToDraft: ToDraft,
	}
}

// NewModule builds the employees module and publishes the employee lookup.
func NewModule(deps entity.Deps) *entity.Module[domain.Employee, Draft] {
	m := entity.New(deps, Resource(), Definition)
	m.ProvideLookup(LookupName,
		func(e domain.Employee) uint { return e.ID },
		domain.Employee.FullName)
	return m
}

// Name returns the full name of employee id, for records that keep a copy of
// it. An unknown id is a validation error on field.
func Name(ctx context.Context, db *gorm.DB, field string, id uint) (string, error) {
	var e domain.Employee
	err := db.WithContext(ctx).Select("id", "first_name", "last_name").First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.NewAppError(domain.CodeValidation, field+" does not match an employee", nil)
	}
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to load employee", err)
	}
	return e.FullName(), nil
}
