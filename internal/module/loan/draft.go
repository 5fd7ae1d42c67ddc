package loan

import (
	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// Draft is the add/edit form of a loan request.
type Draft struct {
	EmployeeID   uint   `json:"employee_id" form:"employee_id,omitempty" validate:"required"`
	Amount       string `json:"amount" form:"amount" validate:"required,numeric"`
	Installments int    `json:"installments" form:"installments,omitempty" validate:"required,gte=1,lte=60"`
	Reason       string `json:"reason" form:"reason" validate:"omitempty,max=500"`
}

// ToDraft seeds the edit form from l.
func ToDraft(l domain.RequestLoan) Draft {
	return Draft{
		EmployeeID:   l.EmployeeID,
		Amount:       pkg.FormatAmount(l.Amount),
		Installments: l.Installments,
		Reason:       l.Reason,
	}
}

func (d Draft) apply(l *domain.RequestLoan) error {
	amount, err := positiveAmount(d.Amount)
	if err != nil {
		return err
	}
	l.EmployeeID = d.EmployeeID
	l.Amount = amount
	l.Installments = d.Installments
	l.Reason = d.Reason
	return nil
}

// AdvanceDraft is the add/edit form of a salary advance.
type AdvanceDraft struct {
	EmployeeID uint   `json:"employee_id" form:"employee_id,omitempty" validate:"required"`
	Month      string `json:"month" form:"month" validate:"required,datetime=2006-01"`
	Amount     string `json:"amount" form:"amount" validate:"required,numeric"`
	Reason     string `json:"reason" form:"reason" validate:"omitempty,max=500"`
}

// ToAdvanceDraft seeds the edit form from a.
func ToAdvanceDraft(a domain.AdvanceSalary) AdvanceDraft {
	return AdvanceDraft{
		EmployeeID: a.EmployeeID,
		Month:      a.Month,
		Amount:     pkg.FormatAmount(a.Amount),
		Reason:     a.Reason,
	}
}

func (d AdvanceDraft) apply(a *domain.AdvanceSalary) error {
	amount, err := positiveAmount(d.Amount)
	if err != nil {
		return err
	}
	a.EmployeeID = d.EmployeeID
	a.Month = d.Month
	a.Amount = amount
	a.Reason = d.Reason
	return nil
}
