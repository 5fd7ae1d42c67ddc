package payroll

import (
	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// Draft is the add/edit form of a payroll record. Amounts travel as text and
// are parsed to decimals when the record is built.
type Draft struct {
	EmployeeID  uint   `json:"employee_id" form:"employee_id,omitempty" validate:"required"`
	Month       string `json:"month" form:"month" validate:"required,datetime=2006-01"`
	PayslipType string `json:"payslip_type" form:"payslip_type" validate:"required,oneof=monthly hourly"`
	BasicSalary string `json:"basic_salary" form:"basic_salary" validate:"required,numeric"`
	HourlyRate  string `json:"hourly_rate" form:"hourly_rate" validate:"omitempty,numeric"`
}

// ToDraft seeds the edit form from p.
func ToDraft(p domain.PayrollRecord) Draft {
	d := Draft{
		EmployeeID:  p.EmployeeID,
		Month:       p.Month,
		PayslipType: p.PayslipType,
		BasicSalary: pkg.FormatAmount(p.BasicSalary),
	}
	if !p.HourlyRate.IsZero() {
		d.HourlyRate = pkg.FormatAmount(p.HourlyRate)
	}
	return d
}

func (d Draft) apply(p *domain.PayrollRecord) error {
	salary, err := pkg.ParseAmount("basic_salary", d.BasicSalary)
	if err != nil {
		return err
	}
	rate, err := pkg.ParseAmount("hourly_rate", d.HourlyRate)
	if err != nil {
		return err
	}
	if d.PayslipType == domain.PayslipHourly && rate.IsZero() {
		return domain.NewAppError(domain.CodeValidation, "hourly_rate is required for hourly payslips", nil)
	}
	p.EmployeeID = d.EmployeeID
	p.Month = d.Month
	p.PayslipType = d.PayslipType
	p.BasicSalary = salary
	p.HourlyRate = rate
	return nil
}
