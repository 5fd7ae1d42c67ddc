package employee

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/module/entity"
	"github.com/simp-lee/hrdash/internal/module/screen"
)

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
	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func validDraft() Draft {
	return Draft{
		FirstName:   "Grace",
		LastName:    "Hopper",
		Email:       "grace@example.com",
		Position:    "Engineer",
		Department:  "R&D",
		JoiningDate: "2024-03-01",
		IsActive:    true,
	}
}

func TestService_CreateAndUpdate(t *testing.T) {
	m := NewModule(entity.Deps{DB: setupTestDB(t)})
	ctx := context.Background()

	e, err := m.Service().Create(ctx, validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.FullName() != "Grace Hopper" || e.Department != "R&D" {
		t.Errorf("unexpected employee %+v", e)
	}

	d := ToDraft(*e)
	d.Position = "Rear Admiral"
	d.IsActive = false
	updated, err := m.Service().Update(ctx, e.ID, d)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Position != "Rear Admiral" || updated.IsActive {
		t.Errorf("unexpected update %+v", updated)
	}
}

func TestService_Validation(t *testing.T) {
	m := NewModule(entity.Deps{DB: setupTestDB(t)})

	tests := []struct {
		name   string
		mutate func(*Draft)
	}{
		{name: "missing first name", mutate: func(d *Draft) { d.FirstName = "" }},
		{name: "bad email", mutate: func(d *Draft) { d.Email = "grace" }},
		{name: "bad joining date", mutate: func(d *Draft) { d.JoiningDate = "03/01/2024" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			if _, err := m.Service().Create(context.Background(), d); !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_DuplicateEmail(t *testing.T) {
	m := NewModule(entity.Deps{DB: setupTestDB(t)})
	ctx := context.Background()
	if _, err := m.Service().Create(ctx, validDraft()); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Service().Create(ctx, validDraft()); !domain.IsAlreadyExists(err) {
		t.Errorf("expected already exists, got %v", err)
	}
}

func TestName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	e := domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	if err := db.Create(&e).Error; err != nil {
		t.Fatal(err)
	}

	name, err := Name(ctx, db, "employee_id", e.ID)
	if err != nil || name != "Ada Lovelace" {
		t.Errorf("got %q, %v", name, err)
	}

	_, err = Name(ctx, db, "trainer_id", 99)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msg := domain.UserMessage(err, ""); msg != "trainer_id does not match an employee" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestNewModule_ProvidesLookup(t *testing.T) {
	lookups := screen.NewLookups()
	m := NewModule(entity.Deps{DB: setupTestDB(t), Screens: screen.Options{Lookups: lookups}})
	if _, err := m.Service().Create(context.Background(), validDraft()); err != nil {
		t.Fatal(err)
	}

	opts, err := lookups.Load(context.Background(), LookupName)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 1 || opts[0].Label != "Grace Hopper" || opts[0].Value != "1" {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestDefinition(t *testing.T) {
	def := Definition(nil)
	if def.Name != "employees" || def.ReadOnly {
		t.Errorf("unexpected definition %+v", def)
	}
	e := domain.Employee{FirstName: "Ada", LastName: "Lovelace", IsActive: false}
	cells := map[string]string{}
	for _, c := range def.Columns {
		cells[c.Header] = c.Value(e)
	}
	if cells["Name"] != "Ada Lovelace" || cells["Status"] != "Inactive" {
		t.Errorf("unexpected cells %v", cells)
	}
	if got := def.ToDraft(e); got.FirstName != "Ada" {
		t.Errorf("unexpected draft %+v", got)
	}
}
