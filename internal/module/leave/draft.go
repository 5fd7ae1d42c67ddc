package leave

import (
	"time"

	"github.com/simp-lee/hrdash/internal/domain"
)

// Draft is the add/edit form of a leave request.
type Draft struct {
	EmployeeID uint   `json:"employee_id" form:"employee_id,omitempty" validate:"required"`
	LeaveType  string `json:"leave_type" form:"leave_type" validate:"required,max=50"`
	StartDate  string `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" form:"end_date" validate:"required,datetime=2006-01-02"`
	Reason     string `json:"reason" form:"reason" validate:"omitempty,max=500"`
}

// ToDraft seeds the edit form from r.
func ToDraft(r domain.LeaveRequest) Draft {
	return Draft{
		EmployeeID: r.EmployeeID,
		LeaveType:  r.LeaveType,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Reason:     r.Reason,
	}
}

func (d Draft) apply(r *domain.LeaveRequest) error {
	start, _ := time.Parse(time.DateOnly, d.StartDate)
	end, _ := time.Parse(time.DateOnly, d.EndDate)
	if end.Before(start) {
		return domain.NewAppError(domain.CodeValidation, "end_date must not be before start_date", nil)
	}
	r.EmployeeID = d.EmployeeID
	r.LeaveType = d.LeaveType
	r.StartDate = d.StartDate
	r.EndDate = d.EndDate
	r.Reason = d.Reason
	return nil
}
