package employee

import "github.com/simp-lee/hrdash/internal/domain"

// Draft is the add/edit form of an employee, also the API request body.
type Draft struct {
	FirstName     string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName      string `json:"last_name" form:"last_name" validate:"required,max=100"`
	Email         string `json:"email" form:"email" validate:"required,email,max=255"`
	ContactNumber string `json:"contact_number" form:"contact_number" validate:"omitempty,max=50"`
	Position      string `json:"position" form:"position" validate:"omitempty,max=100"`
	Department    string `json:"department" form:"department" validate:"omitempty,max=100"`
	JoiningDate   string `json:"joining_date" form:"joining_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive      bool   `json:"is_active" form:"is_active"`
}

// ToDraft seeds the edit form from e.
func ToDraft(e domain.Employee) Draft {
	return Draft{
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		ContactNumber: e.ContactNumber,
		Position:      e.Position,
		Department:    e.Department,
		JoiningDate:   e.JoiningDate,
		IsActive:      e.IsActive,
	}
}

func (d Draft) apply(e *domain.Employee) {
	e.FirstName = d.FirstName
	e.LastName = d.LastName
	e.Email = d.Email
	e.ContactNumber = d.ContactNumber
	e.Position = d.Position
	e.Department = d.Department
	e.JoiningDate = d.JoiningDate
	e.IsActive = d.IsActive
}
