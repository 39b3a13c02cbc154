/*
errors.go - Centralized error types for the lifecycle engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is/errors.As; the API layer maps these
  to HTTP statuses.

ERROR CATEGORIES:
  1. Validation errors - malformed input, bad date ordering, wrong category
  2. Conflict errors   - duplicates, re-entrant transitions, wrong state
  3. Dependency errors - checklist gate violated
  4. Not-found errors  - unknown employee or checklist

USAGE:
  if errors.Is(err, lifecycle.ErrDependencyNotMet) { ... }

  var dep *lifecycle.DependencyNotMetError
  if errors.As(err, &dep) { log.Println(dep.Missing) }
*/
package lifecycle

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of all input validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmployee is returned when an onboarding/active record with
	// the same code or email already exists.
	ErrDuplicateEmployee = errors.New("duplicate employee")

	// ErrStateConflict is returned on re-entrant or duplicate transition
	// attempts (e.g. a second InitiateExit while a checklist exists).
	ErrStateConflict = errors.New("state conflict")

	// ErrInvalidTransition is returned when an operation is attempted from
	// a lifecycle state other than its documented precondition.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrDependencyNotMet is returned when a checklist gate is violated.
	ErrDependencyNotMet = errors.New("dependency not met")

	// ErrNotFound is returned for unknown employees or checklists.
	ErrNotFound = errors.New("not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a field-level input problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DuplicateEmployeeError identifies which record collided.
type DuplicateEmployeeError struct {
	Code  string
	Email string
}

func (e *DuplicateEmployeeError) Error() string {
	return fmt.Sprintf("employee already exists (code=%s, email=%s)", e.Code, e.Email)
}

func (e *DuplicateEmployeeError) Unwrap() error { return ErrDuplicateEmployee }

// StateConflictError reports a re-entrant transition attempt.
type StateConflictError struct {
	EmployeeID EmployeeID
	Reason     string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("state conflict for %s: %s", e.EmployeeID, e.Reason)
}

func (e *StateConflictError) Unwrap() error { return ErrStateConflict }

// InvalidStateTransitionError carries the current and requested states.
type InvalidStateTransitionError struct {
	Current   Status
	Requested Status
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.Current, e.Requested)
}

func (e *InvalidStateTransitionError) Unwrap() error { return ErrInvalidTransition }

// DependencyNotMetError names the checklist task and its missing precondition.
type DependencyNotMetError struct {
	Task    string
	Missing string
}

func (e *DependencyNotMetError) Error() string {
	return fmt.Sprintf("cannot record %s: requires %s", e.Task, e.Missing)
}

func (e *DependencyNotMetError) Unwrap() error { return ErrDependencyNotMet }

// NotFoundError identifies what was looked up.
type NotFoundError struct {
	Kind string // "employee", "onboarding checklist", ...
	ID   EmployeeID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDependencyNotMet)
}

// IsConflict returns true for duplicate or wrong-state errors.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateEmployee) ||
		errors.Is(err, ErrStateConflict) ||
		errors.Is(err, ErrInvalidTransition)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
