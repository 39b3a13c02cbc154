/*
store.go - Persistence interfaces for the lifecycle engine

PURPOSE:
  Defines the interface between the engine and the database. Repositories
  are grouped behind a UnitOfWork so every engine operation runs inside a
  single transactional scope - the engine is the single writer per employee.

KEY INTERFACES:
  EmployeeRepository:   Employee records (no hard deletes; exited stays)
  ChecklistRepository:  Onboarding/offboarding checklists and task marks
  DocumentRepository:   Submitted-document names per employee
  AssetRepository:      Issued/returned asset roll-up
  AccessRepository:     Per-platform grant/revoke flags
  EventLog:             Append-only record of dispatched events
  UnitOfWork:           WithTx transactional scope over all of the above

NOT-FOUND CONVENTION:
  Get on EmployeeRepository returns NotFoundError. Checklist/document
  getters return (nil, nil) when absent - absence is a normal state there
  (an active employee has no offboarding checklist yet).

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - lifecycle/store/memory.go: In-memory for testing

SEE ALSO:
  - engine.go: The only caller of these interfaces
*/
package lifecycle

import (
	"context"
	"time"
)

// =============================================================================
// REPOSITORIES
// =============================================================================

// EmployeeRepository persists employee records.
type EmployeeRepository interface {
	// Create inserts a new employee. Code and email must be unique.
	Create(ctx context.Context, e *Employee) error

	// Get returns the employee or a NotFoundError.
	Get(ctx context.Context, id EmployeeID) (*Employee, error)

	// FindConflict returns an existing employee sharing the code or email,
	// or (nil, nil) when there is no conflict.
	FindConflict(ctx context.Context, code, email string) (*Employee, error)

	// Update persists status and field changes.
	Update(ctx context.Context, e *Employee) error

	// List returns all employees, optionally filtered by status.
	List(ctx context.Context, status *Status) ([]*Employee, error)
}

// ChecklistRepository persists both checklist kinds.
// Get* return (nil, nil) when the checklist does not exist yet.
type ChecklistRepository interface {
	SaveOnboarding(ctx context.Context, c *OnboardingChecklist) error
	GetOnboarding(ctx context.Context, id EmployeeID) (*OnboardingChecklist, error)

	SaveOffboarding(ctx context.Context, c *OffboardingChecklist) error
	GetOffboarding(ctx context.Context, id EmployeeID) (*OffboardingChecklist, error)
}

// DocumentRepository persists the submitted-document record.
// Get returns (nil, nil) when nothing has been submitted yet.
type DocumentRepository interface {
	Save(ctx context.Context, d *DocumentRecord) error
	Get(ctx context.Context, id EmployeeID) (*DocumentRecord, error)
}

// =============================================================================
// ASSET AND ACCESS ROLL-UPS
// =============================================================================

// Asset is a single item issued to an employee.
type Asset struct {
	ID         string
	EmployeeID EmployeeID
	Name       string // "MacBook Pro", "Access Card"
	IssuedAt   time.Time
	ReturnedAt *time.Time
}

// AssetSummary is the per-employee roll-up the offboarding caller consults
// before recording assets_returned.
type AssetSummary struct {
	Issued   int      `json:"issued"`
	Returned int      `json:"returned"`
	Pending  []string `json:"pending,omitempty"`
}

// AssetRepository persists issued assets.
type AssetRepository interface {
	Issue(ctx context.Context, a *Asset) error
	MarkReturned(ctx context.Context, id EmployeeID, assetID string, at time.Time) error
	ListByEmployee(ctx context.Context, id EmployeeID) ([]*Asset, error)
}

// PlatformAccess is one platform grant row. Rows are seeded at creation from
// the category profile and flipped as access is granted and revoked.
type PlatformAccess struct {
	EmployeeID EmployeeID
	Platform   string // "Gmail", "Slack", ...
	Granted    bool
	Revoked    bool
	UpdatedAt  time.Time
}

// AccessSummary is the per-employee roll-up.
type AccessSummary struct {
	Platforms  []PlatformAccess `json:"platforms"`
	AllRevoked bool             `json:"all_revoked"`
}

// AccessRepository persists platform access rows.
type AccessRepository interface {
	// Seed inserts one ungranted row per platform. Idempotent per employee.
	Seed(ctx context.Context, id EmployeeID, platforms []string, at time.Time) error
	SetGranted(ctx context.Context, id EmployeeID, platform string, at time.Time) error
	SetRevoked(ctx context.Context, id EmployeeID, platform string, at time.Time) error
	ListByEmployee(ctx context.Context, id EmployeeID) ([]PlatformAccess, error)
}

// =============================================================================
// EVENT LOG - Append-only record of dispatched events
// =============================================================================

// EventLog records every event the engine emitted, so external delivery can
// be retried without re-running the operation. Append-only.
type EventLog interface {
	Append(ctx context.Context, events []Event) error
	ListByEmployee(ctx context.Context, id EmployeeID) ([]Event, error)
}

// =============================================================================
// UNIT OF WORK
// =============================================================================

// Repositories groups everything an engine operation touches in one scope.
type Repositories struct {
	Employees  EmployeeRepository
	Checklists ChecklistRepository
	Documents  DocumentRepository
	Assets     AssetRepository
	Access     AccessRepository
	Events     EventLog
}

// UnitOfWork executes a function within a transaction. If fn returns an
// error the transaction is rolled back, otherwise committed. Read-only
// operations use the same scope for a consistent snapshot.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(Repositories) error) error
}
