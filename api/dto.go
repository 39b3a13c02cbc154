/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Parsing and validation happen in handlers; the engine validates again.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	JoiningDate string `json:"joining_date"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	Manager     string `json:"manager,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	Code        string `json:"code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email"`
	Category    string `json:"category"`
	JoiningDate string `json:"joining_date"` // YYYY-MM-DD
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	Manager     string `json:"manager,omitempty"`

	// Exactly one of these must be set, matching the category.
	AnnualCTC      string `json:"annual_ctc,omitempty"`
	MonthlyStipend string `json:"monthly_stipend,omitempty"`
	HourlyRate     string `json:"hourly_rate,omitempty"`

	NoticePeriodDays int `json:"notice_period_days,omitempty"`
	ProbationMonths  int `json:"probation_months,omitempty"`
}

// RecordTaskRequest sets or clears one checklist flag.
type RecordTaskRequest struct {
	Task string `json:"task"`
	Done bool   `json:"done"`

	// Full-time experience letter only.
	DuesSettledOverride bool `json:"dues_settled_override,omitempty"`
}

// InitiateExitRequest starts offboarding.
type InitiateExitRequest struct {
	ExitType        string `json:"exit_type"`
	Reason          string `json:"reason,omitempty"`
	ResignationDate string `json:"resignation_date"` // YYYY-MM-DD
	LastWorkingDay  string `json:"last_working_day"` // YYYY-MM-DD
}

// SettlementRequestDTO carries caller-supplied settlement figures.
type SettlementRequestDTO struct {
	LastSalaryDate   string `json:"last_salary_date,omitempty"` // YYYY-MM-DD
	LeaveBalanceDays string `json:"leave_balance_days,omitempty"`
	NoticeRecovery   string `json:"notice_recovery,omitempty"`
	OtherDeductions  string `json:"other_deductions,omitempty"`
}

// SettlementDTO is the line-by-line settlement statement.
type SettlementDTO struct {
	PendingSalary   string `json:"pending_salary"`
	LeaveEncashment string `json:"leave_encashment"`
	Gratuity        string `json:"gratuity"`
	TotalEarnings   string `json:"total_earnings"`
	NoticeRecovery  string `json:"notice_period_recovery"`
	OtherDeductions string `json:"other_deductions"`
	TotalDeductions string `json:"total_deductions"`
	NetAmount       string `json:"net_amount"`
}

// NoticeRequest asks for a notice evaluation of a proposed exit window.
type NoticeRequest struct {
	ResignationDate string `json:"resignation_date"` // YYYY-MM-DD
	LastWorkingDay  string `json:"last_working_day"` // YYYY-MM-DD
}

// DocumentRequest records one submitted document.
type DocumentRequest struct {
	Name string `json:"name"`
}

// AssetRequest issues one asset.
type AssetRequest struct {
	Name string `json:"name"`
}

// AccessRequest targets one platform row.
type AccessRequest struct {
	Platform string `json:"platform"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e *lifecycle.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:          string(e.ID),
		Code:        e.Code,
		Name:        e.FullName(),
		Email:       e.Email,
		Category:    string(e.Category),
		Status:      string(e.Status),
		JoiningDate: e.JoiningDate.Format("2006-01-02"),
		Department:  e.Department,
		Designation: e.Designation,
		Manager:     e.Manager,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func toSettlementDTO(s *lifecycle.Settlement) SettlementDTO {
	return SettlementDTO{
		PendingSalary:   s.PendingSalary.String(),
		LeaveEncashment: s.LeaveEncashment.String(),
		Gratuity:        s.Gratuity.String(),
		TotalEarnings:   s.TotalEarnings.String(),
		NoticeRecovery:  s.NoticeRecovery.String(),
		OtherDeductions: s.OtherDeductions.String(),
		TotalDeductions: s.TotalDeductions.String(),
		NetAmount:       s.NetAmount.String(),
	}
}
