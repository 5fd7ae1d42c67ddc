package loan

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/module/entity"
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

func seedEmployee(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	e := domain.Employee{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}
	if err := db.Create(&e).Error; err != nil {
		t.Fatal(err)
	}
	return e.ID
}

func TestService_CreateLoan(t *testing.T) {
	db := setupTestDB(t)
	m := NewModule(entity.Deps{DB: db})

	l, err := m.Service().Create(context.Background(), Draft{
		EmployeeID: seedEmployee(t, db), Amount: "1200", Installments: 12, Reason: "Car repair",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Status != domain.ApprovalPending || l.EmployeeName != "Grace Hopper" {
		t.Errorf("unexpected loan %+v", l)
	}
	if got := MonthlyInstallment(*l).StringFixed(2); got != "100.00" {
		t.Errorf("monthly installment = %s, want 100.00", got)
	}
}

func TestService_LoanValidation(t *testing.T) {
	db := setupTestDB(t)
	m := NewModule(entity.Deps{DB: db})
	id := seedEmployee(t, db)

	tests := []struct {
		name  string
		draft Draft
		want  string
	}{
		{name: "zero amount", draft: Draft{EmployeeID: id, Amount: "0", Installments: 3}, want: "amount must be greater than zero"},
		{name: "no installments", draft: Draft{EmployeeID: id, Amount: "100"}, want: "installments is required"},
		{name: "too many installments", draft: Draft{EmployeeID: id, Amount: "100", Installments: 61}, want: "installments"},
		{name: "unknown employee", draft: Draft{EmployeeID: 99, Amount: "100", Installments: 1}, want: "employee_id does not match an employee"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Service().Create(context.Background(), tt.draft)
			if !domain.IsValidation(err) || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected validation error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoanActions(t *testing.T) {
	tests := []struct {
		action string
		want   string
		msg    string
	}{
		{action: ActionApprove, want: domain.ApprovalApproved, msg: "Loan request approved"},
		{action: ActionReject, want: domain.ApprovalRejected, msg: "Loan request rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			db := setupTestDB(t)
			m := NewModule(entity.Deps{DB: db})
			ctx := context.Background()
			l, err := m.Service().Create(ctx, Draft{EmployeeID: seedEmployee(t, db), Amount: "500", Installments: 5})
			if err != nil {
				t.Fatal(err)
			}

			got, msg, err := m.Service().Do(ctx, l.ID, tt.action)
			if err != nil {
				t.Fatal(err)
			}
			if got.Status != tt.want || msg != tt.msg {
				t.Errorf("got %q %q", got.Status, msg)
			}

			// Decided requests are final.
			if _, _, err := m.Service().Do(ctx, l.ID, ActionApprove); !domain.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
			if _, err := m.Service().Update(ctx, l.ID, ToDraft(*got)); !domain.IsValidation(err) {
				t.Errorf("expected decided request to be locked, got %v", err)
			}
		})
	}
}

func TestService_AdvanceLimitedBySalary(t *testing.T) {
	db := setupTestDB(t)
	m := NewAdvanceModule(entity.Deps{DB: db})
	ctx := context.Background()
	id := seedEmployee(t, db)

	pay := domain.PayrollRecord{EmployeeID: id, Month: "2025-04", PayslipType: domain.PayslipMonthly, BasicSalary: decimal.NewFromInt(3000)}
	if err := db.Create(&pay).Error; err != nil {
		t.Fatal(err)
	}

	_, err := m.Service().Create(ctx, AdvanceDraft{EmployeeID: id, Month: "2025-04", Amount: "3000.01"})
	if !domain.IsValidation(err) || !strings.Contains(err.Error(), "basic salary of 3000.00") {
		t.Errorf("expected salary limit, got %v", err)
	}

	a, err := m.Service().Create(ctx, AdvanceDraft{EmployeeID: id, Month: "2025-04", Amount: "1000", Reason: "Rent"})
	if err != nil {
		t.Fatalf("create within limit: %v", err)
	}
	if a.EmployeeName != "Grace Hopper" || a.Status != domain.ApprovalPending || a.Amount.StringFixed(2) != "1000.00" {
		t.Errorf("unexpected advance %+v", a)
	}

	// Months without a payroll record are not limited.
	if _, err := m.Service().Create(ctx, AdvanceDraft{EmployeeID: id, Month: "2025-05", Amount: "9000"}); err != nil {
		t.Errorf("create for month without payroll: %v", err)
	}

	if err := db.Model(&pay).Update("paid_status", true).Error; err != nil {
		t.Fatal(err)
	}
	_, err = m.Service().Create(ctx, AdvanceDraft{EmployeeID: id, Month: "2025-04", Amount: "10"})
	if !domain.IsValidation(err) || !strings.Contains(err.Error(), "already paid") {
		t.Errorf("expected paid month to be rejected, got %v", err)
	}
}

func TestDefinitions_ActionsOnlyWhilePending(t *testing.T) {
	for _, a := range Definition(nil).Actions {
		if !a.Show(domain.RequestLoan{Status: domain.ApprovalPending}) || a.Show(domain.RequestLoan{Status: domain.ApprovalApproved}) {
			t.Errorf("loan action %s should apply only to pending requests", a.Name)
		}
	}
	for _, a := range AdvanceDefinition(nil).Actions {
		if !a.Show(domain.AdvanceSalary{Status: domain.ApprovalPending}) || a.Show(domain.AdvanceSalary{Status: domain.ApprovalRejected}) {
			t.Errorf("advance action %s should apply only to pending requests", a.Name)
		}
	}
}

func TestToDraft_RoundTripsAmounts(t *testing.T) {
	l := domain.RequestLoan{EmployeeID: 3, Amount: decimal.RequireFromString("250.5"), Installments: 2, Reason: "x"}
	if d := ToDraft(l); d.Amount != "250.50" || d.Installments != 2 || d.EmployeeID != 3 {
		t.Errorf("unexpected draft %+v", d)
	}
	a := domain.AdvanceSalary{EmployeeID: 4, Month: "2025-06", Amount: decimal.NewFromInt(75)}
	if d := ToAdvanceDraft(a); d.Amount != "75.00" || d.Month != "2025-06" {
		t.Errorf("unexpected advance draft %+v", d)
	}
}
