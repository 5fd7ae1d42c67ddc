// Package leave handles employees' time-off requests and their approval.
package leave

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/module/crud"
	"github.com/simp-lee/hrdash/internal/module/employee"
	"github.com/simp-lee/hrdash/internal/module/entity"
	"github.com/simp-lee/hrdash/internal/module/leavetype"
	"github.com/simp-lee/hrdash/internal/module/screen"
)

// Record actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

func decide(status string) func(context.Context, *domain.LeaveRequest) error {
	return func(_ context.Context, r *domain.LeaveRequest) error {
		if r.Status != domain.LeavePending {
			return domain.NewAppError(domain.CodeValidation, "leave request is already "+r.Status, nil)
		}
		r.Status = status
		return nil
	}
}

// Resource describes the leave_requests collection.
func Resource() crud.Resource[domain.LeaveRequest, Draft] {
	return crud.Resource[domain.LeaveRequest, Draft]{
		Name:         "Leave request",
		Path:         "leave_requests",
		SortFields:   []string{"id", "start_date", "status"},
		FilterFields: []string{"employee_id", "leave_type", "status"},
		SearchFields: []string{"employee_name", "leave_type", "status", "reason"},
		Build: func(_ context.Context, d Draft) (*domain.LeaveRequest, error) {
			r := domain.LeaveRequest{Status: domain.LeavePending}
			if err := d.apply(&r); err != nil {
				return nil, err
			}
			return &r, nil
		},
		Apply: func(_ context.Context, r *domain.LeaveRequest, d Draft) error {
			if r.Status != domain.LeavePending {
				return domain.NewAppError(domain.CodeValidation, "only pending requests can be changed", nil)
			}
			return d.apply(r)
		},
		Enrich: func(ctx context.Context, db *gorm.DB, r *domain.LeaveRequest) error {
			if err := leavetype.Check(ctx, db, "leave_type", r.LeaveType); err != nil {
				return err
			}
			name, err := employee.Name(ctx, db, "employee_id", r.EmployeeID)
			if err != nil {
				return err
			}
			r.EmployeeName = name
			return nil
		},
		Actions: map[string]crud.Action[domain.LeaveRequest]{
			ActionApprove: {Message: "Leave request approved", Apply: decide(domain.LeaveApproved)},
			ActionReject:  {Message: "Leave request rejected", Apply: decide(domain.LeaveRejected)},
		},
	}
}

func pending(r domain.LeaveRequest) bool { return r.Status == domain.LeavePending }

// Definition describes the leave screen over b.
func Definition(b screen.Backend[domain.LeaveRequest, Draft]) screen.Definition[domain.LeaveRequest, Draft] {
	return screen.Definition[domain.LeaveRequest, Draft]{
		Name:    "leave",
		Title:   "Leave Requests",
		Entity:  "Leave request",
		Backend: b,
		ID:      func(r domain.LeaveRequest) uint { return r.ID },
		Columns: []screen.Column[domain.LeaveRequest]{
			{Header: "Employee", Value: func(r domain.LeaveRequest) string { return r.EmployeeName }},
			{Header: "Type", Value: func(r domain.LeaveRequest) string { return r.LeaveType }},
			{Header: "From", Value: func(r domain.LeaveRequest) string { return r.StartDate }},
			{Header: "To", Value: func(r domain.LeaveRequest) string { return r.EndDate }},
			{Header: "Reason", Value: func(r domain.LeaveRequest) string { return r.Reason }},
			{Header: "Status", Value: func(r domain.LeaveRequest) string {
				if r.Status == "" {
					return ""
				}
				return strings.ToUpper(r.Status[:1]) + r.Status[1:]
			}},
		},
		Fields: []screen.Field{
			{Name: "employee_id", Label: "Employee", Type: screen.FieldSelect, Required: true, Lookup: employee.LookupName},
			{Name: "leave_type", Label: "Leave Type", Type: screen.FieldSelect, Required: true, Lookup: leavetype.LookupName},
			{Name: "start_date", Label: "Start Date", Type: screen.FieldDate, Required: true},
			{Name: "end_date", Label: "End Date", Type: screen.FieldDate, Required: true},
			{Name: "reason", Label: "Reason", Type: screen.FieldText},
		},
		ToDraft: ToDraft,
		Actions: []screen.RowAction[domain.LeaveRequest]{
			{Name: ActionApprove, Label: "Approve", Prompt: "Approve this leave request?", Show: pending},
			{Name: ActionReject, Label: "Reject", Prompt: "Reject this leave request?", Show: pending},
		},
	}
}

// NewModule builds the leave module.
func NewModule(deps entity.Deps) *entity.Module[domain.LeaveRequest, Draft] {
	return entity.New(deps, Resource(), Definition)
}
