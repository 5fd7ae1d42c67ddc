package crud

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
)

type employeeDraft struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required"`
	LastName  string `json:"last_name" form:"last_name" validate:"required"`
	Email     string `json:"email" form:"email" validate:"required,email"`
}

func employeeResource() Resource[domain.Employee, employeeDraft] {
	return Resource[domain.Employee, employeeDraft]{
		Name:         "Employee",
		Path:         "employees",
		SortFields:   []string{"id", "first_name"},
		FilterFields: []string{"department"},
		SearchFields: []string{"first_name", "last_name", "email"},
		Build: func(_ context.Context, d employeeDraft) (*domain.Employee, error) {
			return &domain.Employee{FirstName: d.FirstName, LastName: d.LastName, Email: d.Email, IsActive: true}, nil
		},
		Apply: func(_ context.Context, e *domain.Employee, d employeeDraft) error {
			e.FirstName, e.LastName, e.Email = d.FirstName, d.LastName, d.Email
			return nil
		},
		Actions: map[string]Action[domain.Employee]{
			"deactivate": {
				Message: "Employee deactivated",
				Apply: func(_ context.Context, e *domain.Employee) error {
					e.IsActive = false
					return nil
				},
			},
		},
	}
}

// setupTestDB creates an in-memory SQLite database with the Employee table.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.Employee{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service[domain.Employee, employeeDraft], *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	res := employeeResource()
	return NewService(res, NewRepository(db, res), nil), db
}

func seedEmployees(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()
	for _, n := range names {
		e := domain.Employee{FirstName: n, LastName: "Test", Email: n + "@example.com", IsActive: true}
		if err := db.Create(&e).Error; err != nil {
			t.Fatalf("seed %s: %v", n, err)
		}
	}
}
