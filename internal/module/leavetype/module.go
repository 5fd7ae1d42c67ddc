// Package leavetype manages the kinds of leave employees can request and
// publishes them as the leave form's type picker.
package leavetype

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/module/crud"
	"github.com/simp-lee/hrdash/internal/module/entity"
	"github.com/simp-lee/hrdash/internal/module/screen"
)

// LookupName is the select-option lookup listing every leave type by name.
const LookupName = "leave_types"

// Resource describes the leave_request_types collection.
func Resource() crud.Resource[domain.LeaveRequestType, Draft] {
	return crud.Resource[domain.LeaveRequestType, Draft]{
		Name:         "Leave type",
		Path:         "leave_request_types",
		SortFields:   []string{"id", "name", "days_allowed"},
		SearchFields: []string{"name", "description"},
		Build: func(_ context.Context, d Draft) (*domain.LeaveRequestType, error) {
			var t domain.LeaveRequestType
			d.apply(&t)
			return &t, nil
		},
		Apply: func(_ context.Context, t *domain.LeaveRequestType, d Draft) error {
			d.apply(t)
			return nil
		},
	}
}

// Definition describes the leave types screen over b.
func Definition(b screen.Backend[domain.LeaveRequestType, Draft]) screen.Definition[domain.LeaveRequestType, Draft] {
	return screen.Definition[domain.LeaveRequestType, Draft]{
		Name:    "leave-types",
		Title:   "Leave Types",
		Entity:  "Leave type",
		Backend: b,
		ID:      func(t domain.LeaveRequestType) uint { return t.ID },
		Columns: []screen.Column[domain.LeaveRequestType]{
			{Header: "Name", Value: func(t domain.LeaveRequestType) string { return t.Name }},
			{Header: "Days Allowed", Value: func(t domain.LeaveRequestType) string {
				if t.DaysAllowed == 0 {
					return "Unlimited"
				}
				return strconv.Itoa(t.DaysAllowed)
			}},
			{Header: "Description", Value: func(t domain.LeaveRequestType) string { return t.Description }},
		},
		Fields: []screen.Field{
			{Name: "name", Label: "Name", Type: screen.FieldText, Required: true},
			{Name: "days_allowed", Label: "Days Allowed", Type: screen.FieldNumber},
			{Name: "description", Label: "Description", Type: screen.FieldText},
		},
		ToDraft: ToDraft,
	}
}

// NewModule builds the leave types module and publishes the leave type lookup.
func NewModule(deps entity.Deps) *entity.Module[domain.LeaveRequestType, Draft] {
	m := entity.New(deps, Resource(), Definition)
	m.ProvideOptions(LookupName,
		func(t domain.LeaveRequestType) string { return t.Name },
		func(t domain.LeaveRequestType) string { return t.Name })
	return m
}

// Check reports a validation error on field when no leave type is called
// name.
func Check(ctx context.Context, db *gorm.DB, field, name string) error {
	var t domain.LeaveRequestType
	err := db.WithContext(ctx).Select("id").Where("name = ?", name).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewAppError(domain.CodeValidation, field+" does not match a leave type", nil)
	}
	if err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to load leave type", err)
	}
	return nil
}
