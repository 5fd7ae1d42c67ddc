package leavetype

import "github.com/simp-lee/hrdash/internal/domain"

// Draft is the add/edit form of a leave type.
type Draft struct {
	Name        string `json:"name" form:"name" validate:"required,max=50"`
	DaysAllowed int    `json:"days_allowed" form:"days_allowed,omitempty" validate:"gte=0,lte=365"`
	Description string `json:"description" form:"description" validate:"omitempty,max=255"`
}

// ToDraft seeds the edit form from t.
func ToDraft(t domain.LeaveRequestType) Draft {
	return Draft{Name: t.Name, DaysAllowed: t.DaysAllowed, Description: t.Description}
}

func (d Draft) apply(t *domain.LeaveRequestType) {
	t.Name = d.Name
	t.DaysAllowed = d.DaysAllowed
	t.Description = d.Description
}
