// Package training schedules training sessions between a trainer and a
// trainee, both picked from the staff directory.
package training

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

// Resource describes the training_sessions collection.
func Resource() crud.Resource[domain.TrainingSession, Draft] {
	return crud.Resource[domain.TrainingSession, Draft]{
		Name:         "Training session",
		Path:         "training_sessions",
		SortFields:   []string{"id", "start_date", "skill"},
		FilterFields: []string{"trainer_id", "employee_id", "status"},
		SearchFields: []string{"skill", "trainer_name", "employee_name", "status"},
		Build: func(_ context.Context, d Draft) (*domain.TrainingSession, error) {
			var s domain.TrainingSession
			if err := d.apply(&s); err != nil {
				return nil, err
			}
			return &s, nil
		},
		Apply: func(_ context.Context, s *domain.TrainingSession, d Draft) error {
			return d.apply(s)
		},
		Enrich: func(ctx context.Context, db *gorm.DB, s *domain.TrainingSession) error {
			trainer, err := employee.Name(ctx, db, "trainer_id", s.TrainerID)
			if err != nil {
				return err
			}
			trainee, err := employee.Name(ctx, db, "employee_id", s.EmployeeID)
			if err != nil {
				return err
			}
			s.TrainerName, s.EmployeeName = trainer, trainee
			return nil
		},
	}
}

// Definition describes the training screen over b.
func Definition(b screen.Backend[domain.TrainingSession, Draft]) screen.Definition[domain.TrainingSession, Draft] {
	return screen.Definition[domain.TrainingSession, Draft]{
		Name:    "training",
		Title:   "Training Sessions",
		Entity:  "Training session",
		Backend: b,
		ID:      func(s domain.TrainingSession) uint { return s.ID },
		Columns: []screen.Column[domain.TrainingSession]{
			{Header: "Skill", Value: func(s domain.TrainingSession) string { return s.Skill }},
			{Header: "Trainer", Value: func(s domain.TrainingSession) string { return s.TrainerName }},
			{Header: "Employee", Value: func(s domain.TrainingSession) string { return s.EmployeeName }},
			{Header: "Cost", Value: func(s domain.TrainingSession) string { return pkg.FormatAmount(s.Cost) }},
			{Header: "Start", Value: func(s domain.TrainingSession) string { return s.StartDate }},
			{Header: "End", Value: func(s domain.TrainingSession) string { return s.EndDate }},
			{Header: "Status", Value: func(s domain.TrainingSession) string { return s.Status }},
		},
		Fields: []screen.Field{
			{Name: "trainer_id", Label: "Trainer", Type: screen.FieldSelect, Required: true, Lookup: employee.LookupName},
			{Name: "employee_id", Label: "Employee", Type: screen.FieldSelect, Required: true, Lookup: employee.LookupName},
			{Name: "training_skill", Label: "Skill", Type: screen.FieldText, Required: true},
			{Name: "training_cost", Label: "Cost", Type: screen.FieldNumber},
			{Name: "start_date", Label: "Start Date", Type: screen.FieldDate, Required: true},
			{Name: "end_date", Label: "End Date", Type: screen.FieldDate, Required: true},
			{Name: "status", Label: "Status", Type: screen.FieldSelect, Options: []screen.Option{
				{Value: domain.TrainingPending, Label: "Pending"},
				{Value: domain.TrainingStarted, Label: "Started"},
				{Value: domain.TrainingCompleted, Label: "Completed"},
			}},
			{Name: "description", Label: "Description", Type: screen.FieldRichText},
		},
		ToDraft: ToDraft,
	}
}

// NewModule builds the training module.
func NewModule(deps entity.Deps) *entity.Module[domain.TrainingSession, Draft] {
	return entity.New(deps, Resource(), Definition)
}
