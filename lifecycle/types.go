/*
Package lifecycle implements the employee lifecycle engine.

PURPOSE:
  This package contains the business-rules core for employee onboarding and
  offboarding: the lifecycle state machine, the gated checklist engines, the
  notice-period evaluator, the full-and-final settlement calculator, and the
  document completeness tracker.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: The record owned by the engine (identity, category, status,
    compensation)
  - Category: full_time | intern | contractor - drives checklist rules,
    notice periods and required documents
  - Status: onboarding -> active -> offboarding -> exited (linear, no cycle)
  - Compensation: exactly one field-set populated, matching category

DESIGN PRINCIPLES:
  1. Explicit transitions: Status only changes through Engine operations
  2. Precision: Uses decimal.Decimal for all money math
  3. Normalized enums: Category/Status/ExitType are tagged types parsed at
     the boundary; unknown values are rejected with ValidationError
  4. No hard deletes: Exited employees and their checklists stay as history

SEE ALSO:
  - engine.go: State machine and operation surface
  - onboarding.go / offboarding.go: Checklist engines
  - settlement.go: Full-and-final calculator
*/
package lifecycle

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EmployeeID is the engine's internal identifier for an employee.
// The external employee code (e.g. "RI0042") lives on Employee.Code.
type EmployeeID string

// =============================================================================
// CATEGORY - Employment category
// =============================================================================

type Category string

const (
	CategoryFullTime   Category = "full_time"
	CategoryIntern     Category = "intern"
	CategoryContractor Category = "contractor"
)

// Categories lists all known categories in a stable order.
func Categories() []Category {
	return []Category{CategoryFullTime, CategoryIntern, CategoryContractor}
}

// ParseCategory normalizes and validates a category string.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryFullTime:
		return CategoryFullTime, nil
	case CategoryIntern:
		return CategoryIntern, nil
	case CategoryContractor:
		return CategoryContractor, nil
	default:
		return "", &ValidationError{Field: "category", Reason: "unknown category: " + s}
	}
}

// =============================================================================
// STATUS - Lifecycle phase
// =============================================================================

type Status string

const (
	StatusOnboarding  Status = "onboarding"
	StatusActive      Status = "active"
	StatusOffboarding Status = "offboarding"
	StatusExited      Status = "exited"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusOnboarding:
		return StatusOnboarding, nil
	case StatusActive:
		return StatusActive, nil
	case StatusOffboarding:
		return StatusOffboarding, nil
	case StatusExited:
		return StatusExited, nil
	default:
		return "", &ValidationError{Field: "status", Reason: "unknown status: " + s}
	}
}

// =============================================================================
// EXIT TYPE
// =============================================================================

type ExitType string

const (
	ExitResignation   ExitType = "resignation"
	ExitTermination   ExitType = "termination"
	ExitEndOfContract ExitType = "end_of_contract"
	ExitRetirement    ExitType = "retirement"
	ExitAbsconding    ExitType = "absconding"
)

// ParseExitType validates an exit type string.
func ParseExitType(s string) (ExitType, error) {
	switch ExitType(strings.ToLower(strings.TrimSpace(s))) {
	case ExitResignation:
		return ExitResignation, nil
	case ExitTermination:
		return ExitTermination, nil
	case ExitEndOfContract:
		return ExitEndOfContract, nil
	case ExitRetirement:
		return ExitRetirement, nil
	case ExitAbsconding:
		return ExitAbsconding, nil
	default:
		return "", &ValidationError{Field: "exit_type", Reason: "unknown exit type: " + s}
	}
}

// =============================================================================
// COMPENSATION - One field-set per category
// =============================================================================

// CompensationKind names which compensation field a category uses.
type CompensationKind string

const (
	CompSalary  CompensationKind = "salary"  // annual CTC (full_time)
	CompStipend CompensationKind = "stipend" // monthly stipend (intern)
	CompHourly  CompensationKind = "hourly"  // hourly rate (contractor)
)

// Compensation carries the category-specific pay fields. Exactly one of the
// three must be positive, and it must match the employee's category.
type Compensation struct {
	AnnualCTC      decimal.Decimal `json:"annual_ctc"`
	MonthlyStipend decimal.Decimal `json:"monthly_stipend"`
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
}

// Kind returns which field-set is populated, or "" if none or several are.
func (c Compensation) Kind() CompensationKind {
	var kind CompensationKind
	populated := 0
	if c.AnnualCTC.IsPositive() {
		kind, populated = CompSalary, populated+1
	}
	if c.MonthlyStipend.IsPositive() {
		kind, populated = CompStipend, populated+1
	}
	if c.HourlyRate.IsPositive() {
		kind, populated = CompHourly, populated+1
	}
	if populated != 1 {
		return ""
	}
	return kind
}

// Amount returns the populated value regardless of kind.
func (c Compensation) Amount() decimal.Decimal {
	switch c.Kind() {
	case CompSalary:
		return c.AnnualCTC
	case CompStipend:
		return c.MonthlyStipend
	case CompHourly:
		return c.HourlyRate
	}
	return decimal.Zero
}

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID        EmployeeID
	Code      string // external employee code
	FirstName string
	LastName  string // may be empty
	Email     string

	Category Category
	Status   Status

	JoiningDate time.Time
	Department  string
	Designation string
	Manager     string

	Compensation    Compensation
	NoticePeriod    int // days; 0 means "use category default"
	ProbationMonths int // 0 means "use category default"

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name, tolerating an empty last name.
func (e *Employee) FullName() string {
	if last := strings.TrimSpace(e.LastName); last != "" {
		return strings.TrimSpace(e.FirstName) + " " + last
	}
	return strings.TrimSpace(e.FirstName)
}

// TenureMonths returns whole-ish months of service as of the given date,
// using the 30-day month convention the settlement math also uses.
func (e *Employee) TenureMonths(asOf time.Time) float64 {
	if e.JoiningDate.IsZero() || asOf.Before(e.JoiningDate) {
		return 0
	}
	return float64(daysBetween(e.JoiningDate, asOf)) / 30
}

// daysBetween counts calendar days from a to b, ignoring time of day.
// Negative when b is before a.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
