/*
config.go - Category profiles and the configuration port

PURPOSE:
  Everything that varies per employment category - notice periods, probation,
  required documents, system platforms, the compensation field-set - is
  supplied by a ConfigProvider, never hard-coded in the engine. The factory
  package ships the built-in defaults and can load overrides from a file.

SEE ALSO:
  - factory/profile.go: Defaults and file loading
  - notice.go: Uses the notice-period table
  - documents.go: Uses the required-document lists
*/
package lifecycle

import "github.com/shopspring/decimal"

// =============================================================================
// CATEGORY PROFILE
// =============================================================================

// CategoryProfile is the complete per-category rule set.
type CategoryProfile struct {
	Category    Category
	DisplayName string

	// Notice and probation
	ProbationMonths     int
	NoticeProbationDays int // required notice while on probation
	NoticeConfirmedDays int // required notice once confirmed

	// Onboarding
	BGVRequired       bool
	RequiredDocuments []string // ordered; completeness counts against len()
	Platforms         []string // access rows seeded at creation

	// Benefits
	LeaveBenefits bool // leave encashment applies at settlement
	Gratuity      bool

	// Compensation
	CompensationKind CompensationKind
	MinCompensation  decimal.Decimal
	MaxCompensation  decimal.Decimal // zero means unbounded

	// Tenure bounds in months (interns); zero means unbounded
	MinTenureMonths int
	MaxTenureMonths int
}

// ValidateCompensation checks that the populated field-set matches the
// profile's kind and falls inside the configured bounds.
func (p CategoryProfile) ValidateCompensation(c Compensation) error {
	kind := c.Kind()
	if kind == "" {
		return &ValidationError{Field: "compensation", Reason: "exactly one compensation field must be set"}
	}
	if kind != p.CompensationKind {
		return &ValidationError{
			Field:  "compensation",
			Reason: "category " + string(p.Category) + " requires " + string(p.CompensationKind) + " compensation",
		}
	}
	amount := c.Amount()
	if amount.LessThan(p.MinCompensation) {
		return &ValidationError{
			Field:  string(kind),
			Reason: "must be at least " + p.MinCompensation.String(),
		}
	}
	if p.MaxCompensation.IsPositive() && amount.GreaterThan(p.MaxCompensation) {
		return &ValidationError{
			Field:  string(kind),
			Reason: "cannot exceed " + p.MaxCompensation.String(),
		}
	}
	return nil
}

// =============================================================================
// CONFIGURATION PORT
// =============================================================================

// ConfigProvider resolves category profiles. Unknown categories are a
// ValidationError so bad values are rejected at the boundary.
type ConfigProvider interface {
	Profile(c Category) (CategoryProfile, error)
}
