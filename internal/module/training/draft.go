package training

import (
	"time"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/pkg"
)

// Draft is the add/edit form of a training session. Description holds the
// rich-text editor's markup as-is.
type Draft struct {
	TrainerID   uint   `json:"trainer_id" form:"trainer_id,omitempty" validate:"required"`
	EmployeeID  uint   `json:"employee_id" form:"employee_id,omitempty" validate:"required"`
	Skill       string `json:"training_skill" form:"training_skill" validate:"required,max=100"`
	Cost        string `json:"training_cost" form:"training_cost" validate:"omitempty,numeric"`
	StartDate   string `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" form:"end_date" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status" form:"status" validate:"omitempty,oneof=pending started completed"`
	Description string `json:"description" form:"description"`
}

// ToDraft seeds the edit form from s.
func ToDraft(s domain.TrainingSession) Draft {
	d := Draft{
		TrainerID:   s.TrainerID,
		EmployeeID:  s.EmployeeID,
		Skill:       s.Skill,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Status:      s.Status,
		Description: s.Description,
	}
	if !s.Cost.IsZero() {
		d.Cost = pkg.FormatAmount(s.Cost)
	}
	return d
}

func (d Draft) apply(s *domain.TrainingSession) error {
	cost, err := pkg.ParseAmount("training_cost", d.Cost)
	if err != nil {
		return err
	}
	// Both dates passed the datetime check already.
	start, _ := time.Parse(time.DateOnly, d.StartDate)
	end, _ := time.Parse(time.DateOnly, d.EndDate)
	if end.Before(start) {
		return domain.NewAppError(domain.CodeValidation, "end_date must not be before start_date", nil)
	}

	s.TrainerID = d.TrainerID
	s.EmployeeID = d.EmployeeID
	s.Skill = d.Skill
	s.Cost = cost
	s.StartDate = d.StartDate
	s.EndDate = d.EndDate
	s.Status = d.Status
	if s.Status == "" {
		s.Status = domain.TrainingPending
	}
	s.Description = d.Description
	return nil
}
