package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Employee is a member of staff.
type Employee struct {
	BaseModel
	FirstName     string `gorm:"size:100;not null" json:"first_name"`
	LastName      string `gorm:"size:100;not null" json:"last_name"`
	Email         string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	ContactNumber string `gorm:"size:50" json:"contact_number"`
	Position      string `gorm:"size:100" json:"position"`
	Department    string `gorm:"size:100" json:"department"`
	JoiningDate   string `gorm:"size:10" json:"joining_date"`
	IsActive      bool   `gorm:"not null;default:true" json:"is_active"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Payslip types.
const (
	PayslipMonthly = "monthly"
	PayslipHourly  = "hourly"
)

// PayrollRecord is one employee's pay entry for a month.
type PayrollRecord struct {
	BaseModel
	EmployeeID  uint            `gorm:"index;not null" json:"employee_id"`
	FullName    string          `gorm:"size:200" json:"full_name"`
	Month       string          `gorm:"size:7;index;not null" json:"month"`
	PayslipType string          `gorm:"size:20;not null" json:"payslip_type"`
	BasicSalary decimal.Decimal `gorm:"type:decimal(12,2)" json:"basic_salary"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(12,2)" json:"hourly_rate"`
	PaidStatus  bool            `gorm:"not null;default:false" json:"paid_status"`
}

// Training statuses.
const (
	TrainingPending   = "pending"
	TrainingStarted   = "started"
	TrainingCompleted = "completed"
)

// TrainingSession is a scheduled training for one employee.
type TrainingSession struct {
	BaseModel
	TrainerID    uint            `gorm:"index" json:"trainer_id"`
	TrainerName  string          `gorm:"size:200" json:"trainer_name"`
	EmployeeID   uint            `gorm:"index" json:"employee_id"`
	EmployeeName string          `gorm:"size:200" json:"employee_name"`
	Skill        string          `gorm:"size:100;not null" json:"training_skill"`
	Cost         decimal.Decimal `gorm:"type:decimal(12,2)" json:"training_cost"`
	StartDate    string          `gorm:"size:10" json:"start_date"`
	EndDate      string          `gorm:"size:10" json:"end_date"`
	Status       string          `gorm:"size:20" json:"status"`
	Description  string          `gorm:"type:text" json:"description"`
}

// Leave request statuses.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// LeaveRequest is an employee's request for time off.
type LeaveRequest struct {
	BaseModel
	EmployeeID   uint   `gorm:"index;not null" json:"employee_id"`
	EmployeeName string `gorm:"size:200" json:"employee_name"`
	LeaveType    string `gorm:"size:50;not null" json:"leave_type"`
	StartDate    string `gorm:"size:10;not null" json:"start_date"`
	EndDate      string `gorm:"size:10;not null" json:"end_date"`
	Reason       string `gorm:"size:500" json:"reason"`
	Status       string `gorm:"size:20;not null;default:pending" json:"status"`
}

// LeaveRequestType is a kind of leave employees can request, such as
// "Annual" or "Sick". Leave requests refer to it by name.
type LeaveRequestType struct {
	BaseModel
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	DaysAllowed int    `gorm:"not null;default:0" json:"days_allowed"`
	Description string `gorm:"size:255" json:"description"`
}

// Approval statuses of loan and salary advance requests.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// RequestLoan is an employee's request for a loan repaid in monthly
// installments.
type RequestLoan struct {
	BaseModel
	EmployeeID   uint            `gorm:"index;not null" json:"employee_id"`
	EmployeeName string          `gorm:"size:200" json:"employee_name"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Installments int             `gorm:"not null;default:1" json:"installments"`
	Reason       string          `gorm:"size:500" json:"reason"`
	Status       string          `gorm:"size:20;not null;default:pending" json:"status"`
}

// AdvanceSalary is an employee's request to draw part of a month's salary
// early.
type AdvanceSalary struct {
	BaseModel
	EmployeeID   uint            `gorm:"index;not null" json:"employee_id"`
	EmployeeName string          `gorm:"size:200" json:"employee_name"`
	Month        string          `gorm:"size:7;index;not null" json:"month"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Reason       string          `gorm:"size:500" json:"reason"`
	Status       string          `gorm:"size:20;not null;default:pending" json:"status"`
}

// Client is an external customer account.
type Client struct {
	BaseModel
	FirstName     string `gorm:"size:100;not null" json:"first_name"`
	LastName      string `gorm:"size:100;not null" json:"last_name"`
	FullName      string `gorm:"size:200" json:"full_name"`
	Username      string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email         string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	ContactNumber string `gorm:"size:50" json:"contact_number"`
	Country       string `gorm:"size:100" json:"country"`
	PasswordHash  string `gorm:"size:255" json:"-"`
	IsActive      bool   `gorm:"not null;default:true" json:"is_active"`
}

// AllModels lists every model for migrations.
func AllModels() []any {
	return []any{
		&Employee{},
		&PayrollRecord{},
		&TrainingSession{},
		&LeaveRequestType{},
		&LeaveRequest{},
		&RequestLoan{},
		&AdvanceSalary{},
		&Client{},
	}
}
