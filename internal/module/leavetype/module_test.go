package leavetype

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

func TestService_CreateAndDuplicate(t *testing.T) {
	db := setupTestDB(t)
	m := NewModule(entity.Deps{DB: db})
	ctx := context.Background()

	lt, err := m.Service().Create(ctx, Draft{Name: "Annual", DaysAllowed: 20})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lt.Name != "Annual" || lt.DaysAllowed != 20 {
		t.Errorf("unexpected leave type %+v", lt)
	}

	if _, err := m.Service().Create(ctx, Draft{Name: "Annual"}); !domain.IsAlreadyExists(err) {
		t.Errorf("expected duplicate name to be rejected, got %v", err)
	}
	if _, err := m.Service().Create(ctx, Draft{Name: "Long", DaysAllowed: 400}); !domain.IsValidation(err) {
		t.Errorf("expected days_allowed limit, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Create(&domain.LeaveRequestType{Name: "Sick"}).Error; err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := Check(ctx, db, "leave_type", "Sick"); err != nil {
		t.Errorf("known type: %v", err)
	}
	err := Check(ctx, db, "leave_type", "Sabbatical")
	if !domain.IsValidation(err) || err.Error() != "leave_type does not match a leave type" {
		t.Errorf("unknown type: got %v", err)
	}
}

func TestNewModule_ProvidesLookupByName(t *testing.T) {
	db := setupTestDB(t)
	lookups := screen.NewLookups()
	m := NewModule(entity.Deps{DB: db, Screens: screen.Options{Lookups: lookups}})
	ctx := context.Background()
	for _, name := range []string{"Annual", "Unpaid"} {
		if _, err := m.Service().Create(ctx, Draft{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	opts, err := lookups.Load(ctx, LookupName)
	if err != nil {
		t.Fatalf("load lookup: %v", err)
	}
	if len(opts) != 2 || opts[0] != (screen.Option{Value: "Annual", Label: "Annual"}) {
		t.Errorf("unexpected options %+v", opts)
	}
}
