// Package loan serves the payroll requests employees raise against future
// pay: loans repaid in installments and advances on a month's salary.
package loan

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/module/crud"
	"github.com/simp-lee/hrdash/internal/module/employee"
	"github.com/simp-lee/hrdash/internal/module/entity"
	"github.com/simp-lee/hrdash/internal/module/screen"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// Record actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

func positiveAmount(s string) (decimal.Decimal, error) {
	amount, err := pkg.ParseAmount("amount", s)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, domain.NewAppError(domain.CodeValidation, "amount must be greater than zero", nil)
	}
	return amount, nil
}

// decide moves a pending request to status. status points into the record so
// one helper serves both request types.
func decide[T any](status func(*T) *string, to string) func(context.Context, *T) error {
	return func(_ context.Context, rec *T) error {
		s := status(rec)
		if *s != domain.ApprovalPending {
			return domain.NewAppError(domain.CodeValidation, "request is already "+*s, nil)
		}
		*s = to
		return nil
	}
}

func locked(status string) error {
	if status != domain.ApprovalPending {
		return domain.NewAppError(domain.CodeValidation, "only pending requests can be changed", nil)
	}
	return nil
}

func statusLabel(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func loanStatus(l *domain.RequestLoan) *string { return &l.Status }
func advanceStatus(a *domain.AdvanceSalary) *string { return &a.Status }

// Resource describes the request_loans collection.
func Resource() crud.Resource[domain.RequestLoan, Draft] {
	return crud.Resource[domain.RequestLoan, Draft]{
		Name:         "Loan request",
		Path:         "request_loans",
		SortFields:   []string{"id", "amount", "status"},
		FilterFields: []string{"employee_id", "status"},
		SearchFields: []string{"employee_name", "reason", "status"},
		Build: func(_ context.Context, d Draft) (*domain.RequestLoan, error) {
			l := domain.RequestLoan{Status: domain.ApprovalPending}
			if err := d.apply(&l); err != nil {
				return nil, err
			}
			return &l, nil
		},
		Apply: func(_ context.Context, l *domain.RequestLoan, d Draft) error {
			if err := locked(l.Status); err != nil {
				return err
			}
			return d.apply(l)
		},
		Enrich: func(ctx context.Context, db *gorm.DB, l *domain.RequestLoan) error {
			name, err := employee.Name(ctx, db, "employee_id", l.EmployeeID)
			if err != nil {
				return err
			}
			l.EmployeeName = name
			return nil
		},
		Actions: map[string]crud.Action[domain.RequestLoan]{
			ActionApprove: {Message: "Loan request approved", Apply: decide(loanStatus, domain.ApprovalApproved)},
			ActionReject:  {Message: "Loan request rejected", Apply: decide(loanStatus, domain.ApprovalRejected)},
		},
	}
}

// AdvanceResource describes the advance_salaries collection. An advance may
// not exceed the basic salary of its month's payroll record, when one exists.
func AdvanceResource() crud.Resource[domain.AdvanceSalary, AdvanceDraft] {
	return crud.Resource[domain.AdvanceSalary, AdvanceDraft]{
		Name:         "Salary advance",
		Path:         "advance_salaries",
		SortFields:   []string{"id", "month", "amount", "status"},
		FilterFields: []string{"employee_id", "month", "status"},
		SearchFields: []string{"employee_name", "month", "reason", "status"},
		Build: func(_ context.Context, d AdvanceDraft) (*domain.AdvanceSalary, error) {
			a := domain.AdvanceSalary{Status: domain.ApprovalPending}
			if err := d.apply(&a); err != nil {
				return nil, err
			}
			return &a, nil
		},
		Apply: func(_ context.Context, a *domain.AdvanceSalary, d AdvanceDraft) error {
			if err := locked(a.Status); err != nil {
				return err
			}
			return d.apply(a)
		},
		Enrich: func(ctx context.Context, db *gorm.DB, a *domain.AdvanceSalary) error {
			name, err := employee.Name(ctx, db, "employee_id", a.EmployeeID)
			if err != nil {
				return err
			}
			a.EmployeeName = name
			return checkSalary(ctx, db, a)
		},
		Actions: map[string]crud.Action[domain.AdvanceSalary]{
			ActionApprove: {Message: "Salary advance approved", Apply: decide(advanceStatus, domain.ApprovalApproved)},
			ActionReject:  {Message: "Salary advance rejected", Apply: decide(advanceStatus, domain.ApprovalRejected)},
		},
	}
}

func checkSalary(ctx context.Context, db *gorm.DB, a *domain.AdvanceSalary) error {
	var p domain.PayrollRecord
	err := db.WithContext(ctx).
		Where("employee_id = ? AND month = ?", a.EmployeeID, a.Month).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return domain.NewAppError(domain.CodeInternal, "failed to load payroll", err)
	}
	if p.PaidStatus {
		return domain.NewAppError(domain.CodeValidation, "payroll for "+a.Month+" is already paid", nil)
	}
	if a.Amount.GreaterThan(p.BasicSalary) {
		return domain.NewAppError(domain.CodeValidation,
			"amount must not exceed the basic salary of "+pkg.FormatAmount(p.BasicSalary), nil)
	}
	return nil
}

func pendingLoan(l domain.RequestLoan) bool { return l.Status == domain.ApprovalPending }
func pendingAdvance(a domain.AdvanceSalary) bool { return a.Status == domain.ApprovalPending }

// Definition describes the Request Loan screen over b.
func Definition(b screen.Backend[domain.RequestLoan, Draft]) screen.Definition[domain.RequestLoan, Draft] {
	return screen.Definition[domain.RequestLoan, Draft]{
		Name:    "request-loans",
		Title:   "Request Loan",
		Entity:  "Loan request",
		Backend: b,
		ID:      func(l domain.RequestLoan) uint { return l.ID },
		Columns: []screen.Column[domain.RequestLoan]{
			{Header: "Employee", Value: func(l domain.RequestLoan) string { return l.EmployeeName }},
			{Header: "Amount", Value: func(l domain.RequestLoan) string { return pkg.FormatAmount(l.Amount) }},
			{Header: "Installments", Value: func(l domain.RequestLoan) string { return strconv.Itoa(l.Installments) }},
			{Header: "Monthly", Value: func(l domain.RequestLoan) string { return pkg.FormatAmount(MonthlyInstallment(l)) }},
			{Header: "Reason", Value: func(l domain.RequestLoan) string { return l.Reason }},
			{Header: "Status", Value: func(l domain.RequestLoan) string { return statusLabel(l.Status) }},
		},
		Fields: []screen.Field{
			{Name: "employee_id", Label: "Employee", Type: screen.FieldSelect, Required: true, Lookup: employee.LookupName},
			{Name: "amount", Label: "Amount", Type: screen.FieldNumber, Required: true},
			{Name: "installments", Label: "Installments (months)", Type: screen.FieldNumber, Required: true},
			{Name: "reason", Label: "Reason", Type: screen.FieldText},
		},
		ToDraft: ToDraft,
		Actions: []screen.RowAction[domain.RequestLoan]{
			{Name: ActionApprove, Label: "Approve", Prompt: "Approve this loan request?", Show: pendingLoan},
			{Name: ActionReject, Label: "Reject", Prompt: "Reject this loan request?", Show: pendingLoan},
		},
	}
}

// AdvanceDefinition describes the Advance Salary screen over b.
func AdvanceDefinition(b screen.Backend[domain.AdvanceSalary, AdvanceDraft]) screen.Definition[domain.AdvanceSalary, AdvanceDraft] {
	return screen.Definition[domain.AdvanceSalary, AdvanceDraft]{
		Name:    "advance-salaries",
		Title:   "Advance Salary",
		Entity:  "Salary advance",
		Backend: b,
		ID:      func(a domain.AdvanceSalary) uint { return a.ID },
		Columns: []screen.Column[domain.AdvanceSalary]{
			{Header: "Employee", Value: func(a domain.AdvanceSalary) string { return a.EmployeeName }},
			{Header: "Month", Value: func(a domain.AdvanceSalary) string { return a.Month }},
			{Header: "Amount", Value: func(a domain.AdvanceSalary) string { return pkg.FormatAmount(a.Amount) }},
			{Header: "Reason", Value: func(a domain.AdvanceSalary) string { return a.Reason }},
			{Header: "Status", Value: func(a domain.AdvanceSalary) string { return statusLabel(a.Status) }},
		},
		Fields: []screen.Field{
			{Name: "employee_id", Label: "Employee", Type: screen.FieldSelect, Required: true, Lookup: employee.LookupName},
			{Name: "month", Label: "Month", Type: screen.FieldMonth, Required: true},
			{Name: "amount", Label: "Amount", Type: screen.FieldNumber, Required: true},
			{Name: "reason", Label: "Reason", Type: screen.FieldText},
		},
		ToDraft: ToAdvanceDraft,
		Actions: []screen.RowAction[domain.AdvanceSalary]{
			{Name: ActionApprove, Label: "Approve", Prompt: "Approve this salary advance?", Show: pendingAdvance},
			{Name: ActionReject, Label: "Reject", Prompt: "Reject this salary advance?", Show: pendingAdvance},
		},
	}
}

// MonthlyInstallment is the amount repaid each month, rounded to cents.
func MonthlyInstallment(l domain.RequestLoan) decimal.Decimal {
	if l.Installments <= 0 {
		return l.Amount
	}
	return l.Amount.Div(decimal.NewFromInt(int64(l.Installments))).Round(2)
}

// NewModule builds the loan request module.
func NewModule(deps entity.Deps) *entity.Module[domain.RequestLoan, Draft] {
	return entity.New(deps, Resource(), Definition)
}

// NewAdvanceModule builds the salary advance module.
func NewAdvanceModule(deps entity.Deps) *entity.Module[domain.AdvanceSalary, AdvanceDraft] {
	return entity.New(deps, AdvanceResource(), AdvanceDefinition)
}
