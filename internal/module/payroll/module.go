// Package payroll serves monthly pay records, the "make payment" action and
// the payslip history of paid records.
package payroll

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/module/crud"
	"github.com/simp-lee/hrdash/internal/module/employee"
	"github.com/simp-lee/hrdash/internal/module/entity"
	"github.com/simp-lee/hrdash/internal/module/screen"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// ActionPay marks a record paid.
const ActionPay = "pay"

// Payroll listings keep the response keys of the original API.
var (
	ListKeys    = pkg.ListKeys{Items: "PayrollInfo", Pagination: "Pagination"}
	HistoryKeys = pkg.ListKeys{Items: "payroll_info_list", Pagination: "pagination"}
)

var payrollSearch = []string{"full_name", "month", "payslip_type"}

// Resource describes the payrolls collection.
func Resource() crud.Resource[domain.PayrollRecord, Draft] {
	return crud.Resource[domain.PayrollRecord, Draft]{
		Name:         "Payroll",
		Path:         "payrolls",
		Keys:         ListKeys,
		SortFields:   []string{"id", "month", "full_name"},
		FilterFields: []string{"employee_id", "month", "payslip_type", "paid_status"},
		SearchFields: payrollSearch,
		Build: func(_ context.Context, d Draft) (*domain.PayrollRecord, error) {
			var p domain.PayrollRecord
			if err := d.apply(&p); err != nil {
				return nil, err
			}
			return &p, nil
		},
		Apply: func(_ context.Context, p *domain.PayrollRecord, d Draft) error {
			if p.PaidStatus {
				return domain.NewAppError(domain.CodeValidation, "paid payrolls cannot be changed", nil)
			}
			return d.apply(p)
		},
		Enrich: func(ctx context.Context, db *gorm.DB, p *domain.PayrollRecord) error {
			name, err := employee.Name(ctx, db, "employee_id", p.EmployeeID)
			if err != nil {
				return err
			}
			p.FullName = name
			return nil
		},
		Actions: map[string]crud.Action[domain.PayrollRecord]{
			ActionPay: {
				Message: "Payment made successfully",
				Apply: func(_ context.Context, p *domain.PayrollRecord) error {
					if p.PaidStatus {
						return domain.NewAppError(domain.CodeValidation, "payroll is already paid", nil)
					}
					p.PaidStatus = true
					return nil
				},
			},
		},
	}
}

// HistoryResource describes the read-only payslip history: paid records only.
func HistoryResource() crud.Resource[domain.PayrollRecord, Draft] {
	return crud.Resource[domain.PayrollRecord, Draft]{
		Name:         "Payslip",
		Path:         "payrolls/history",
		Keys:         HistoryKeys,
		SortFields:   []string{"id", "month", "full_name"},
		FilterFields: []string{"employee_id", "month"},
		SearchFields: payrollSearch,
		Scope: func(db *gorm.DB) *gorm.DB {
			return db.Where("paid_status = ?", true)
		},
	}
}

var payrollColumns = []screen.Column[domain.PayrollRecord]{
	{Header: "Employee", Value: func(p domain.PayrollRecord) string { return p.FullName }},
	{Header: "Month", Value: func(p domain.PayrollRecord) string { return p.Month }},
	{Header: "Payslip Type", Value: func(p domain.PayrollRecord) string { return p.PayslipType }},
	{Header: "Basic Salary", Value: func(p domain.PayrollRecord) string { return pkg.FormatAmount(p.BasicSalary) }},
	{Header: "Hourly Rate", Value: func(p domain.PayrollRecord) string { return pkg.FormatAmount(p.HourlyRate) }},
	{Header: "Status", Value: status},
}

func status(p domain.PayrollRecord) string {
	if p.PaidStatus {
		return "Paid"
	}
	return "Unpaid"
}

// Definition describes the payroll screen over b.
func Definition(b screen.Backend[domain.PayrollRecord, Draft]) screen.Definition[domain.PayrollRecord, Draft] {
	return screen.Definition[domain.PayrollRecord, Draft]{
		Name:    "payroll",
		Title:   "Payroll",
		Entity:  "Payroll",
		Backend: b,
		ID:      func(p domain.PayrollRecord) uint { return p.ID },
		Columns: payrollColumns,
		Fields: []screen.Field{
			{Name: "employee_id", Label: "Employee", Type: screen.FieldSelect, Required: true, Lookup: employee.LookupName},
			{Name: "month", Label: "Month", Type: screen.FieldMonth, Required: true},
			{Name: "payslip_type", Label: "Payslip Type", Type: screen.FieldSelect, Required: true, Options: []screen.Option{
				{Value: domain.PayslipMonthly, Label: "Monthly"},
				{Value: domain.PayslipHourly, Label: "Hourly"},
			}},
			{Name: "basic_salary", Label: "Basic Salary", Type: screen.FieldNumber, Required: true},
			{Name: "hourly_rate", Label: "Hourly Rate", Type: screen.FieldNumber},
		},
		ToDraft: ToDraft,
		Actions: []screen.RowAction[domain.PayrollRecord]{{
			Name:   ActionPay,
			Label:  "Make Payment",
			Prompt: "Mark this payroll as paid?",
			Show:   func(p domain.PayrollRecord) bool { return !p.PaidStatus },
		}},
	}
}

// HistoryDefinition describes the payslip history screen over b.
func HistoryDefinition(b screen.Backend[domain.PayrollRecord, Draft]) screen.Definition[domain.PayrollRecord, Draft] {
	return screen.Definition[domain.PayrollRecord, Draft]{
		Name:     "payslips",
		Title:    "Payslip History",
		Entity:   "Payslip",
		Backend:  b,
		ID:       func(p domain.PayrollRecord) uint { return p.ID },
		Columns:  payrollColumns,
		ReadOnly: true,
	}
}

// NewModule builds the payroll module.
func NewModule(deps entity.Deps) *entity.Module[domain.PayrollRecord, Draft] {
	return entity.New(deps, Resource(), Definition)
}

// NewHistoryModule builds the payslip history module.
func NewHistoryModule(deps entity.Deps) *entity.Module[domain.PayrollRecord, Draft] {
	return entity.New(deps, HistoryResource(), HistoryDefinition)
}
