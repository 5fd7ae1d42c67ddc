package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/simp-lee/hrdash/internal/config"
	"github.com/simp-lee/hrdash/internal/domain"
	"github.com/simp-lee/hrdash/internal/pkg"
)

var (
	seedFirstNames  = []string{"Ada", "Grace", "Alan", "Katherine", "Linus", "Margaret", "Dennis", "Barbara"}
	seedLastNames   = []string{"Lovelace", "Hopper", "Turing", "Johnson", "Torvalds", "Hamilton", "Ritchie", "Liskov"}
	seedDepartments = []string{"Engineering", "Finance", "People", "Sales"}
	seedLeaveTypes  = []domain.LeaveRequestType{
		{Name: "Annual", DaysAllowed: 20, Description: "Paid yearly holiday"},
		{Name: "Sick", DaysAllowed: 10},
		{Name: "Unpaid"},
	}
)

func newSeedCmd(configPath *string) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert leave types and sample employees, payroll records and leave requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, log, cleanup, err := openDatabase(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := config.Migrate(cmd.Context(), db, log); err != nil {
				return err
			}
			n, err := seed(cmd.Context(), db, count, time.Now())
			if err != nil {
				return err
			}
			log.Info("seed completed", slog.Int("employees", n))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d employees\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 25, "number of employees to create")
	return cmd
}

// seed ensures the standard leave types exist, then inserts count employees,
// each with an unpaid payroll record for the month of now and every third one
// with a pending leave request. Emails are suffixed with the existing row
// count so repeated runs do not collide.
func seed(ctx context.Context, db *gorm.DB, count int, now time.Time) (int, error) {
	if count <= 0 {
		return 0, errors.New("count must be positive")
	}
	month := now.Format("2006-01")
	start := now.AddDate(0, 0, 7).Format(time.DateOnly)
	end := now.AddDate(0, 0, 9).Format(time.DateOnly)

	err := pkg.WithTx(ctx, db, func(tx *gorm.DB) error {
		for _, lt := range seedLeaveTypes {
			t := lt
			if err := tx.Where(domain.LeaveRequestType{Name: lt.Name}).FirstOrCreate(&t).Error; err != nil {
				return fmt.Errorf("create leave type: %w", err)
			}
		}

		var existing int64
		if err := tx.Model(&domain.Employee{}).Count(&existing).Error; err != nil {
			return err
		}
		for i := range count {
			n := int(existing) + i
			first := seedFirstNames[n%len(seedFirstNames)]
			last := seedLastNames[(n/len(seedFirstNames))%len(seedLastNames)]
			emp := domain.Employee{
				FirstName:   first,
				LastName:    last,
				Email:       fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), n+1),
				Position:    "Associate",
				Department:  seedDepartments[n%len(seedDepartments)],
				JoiningDate: now.AddDate(0, -n, 0).Format(time.DateOnly),
				IsActive:    true,
			}
			if err := tx.Create(&emp).Error; err != nil {
				return fmt.Errorf("create employee: %w", err)
			}

			pay := domain.PayrollRecord{
				EmployeeID:  emp.ID,
				FullName:    emp.FullName(),
				Month:       month,
				PayslipType: domain.PayslipMonthly,
				BasicSalary: decimal.NewFromInt(int64(3000 + 250*(n%8))),
			}
			if err := tx.Create(&pay).Error; err != nil {
				return fmt.Errorf("create payroll record: %w", err)
			}

			if n%3 == 0 {
				leave := domain.LeaveRequest{
					EmployeeID:   emp.ID,
					EmployeeName: emp.FullName(),
					LeaveType:    seedLeaveTypes[n%len(seedLeaveTypes)].Name,
					StartDate:    start,
					EndDate:      end,
					Status:       domain.LeavePending,
				}
				if err := tx.Create(&leave).Error; err != nil {
					return fmt.Errorf("create leave request: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
