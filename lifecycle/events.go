/*
events.go - Domain events and the notification port

PURPOSE:
  The engine never performs I/O. Every state-changing operation returns the
  list of domain events it produced; the caller hands them to a
  NotificationPort implementation (email, chat, ticketing) AFTER the
  transaction has committed. A notification failure can therefore never roll
  back a state change - the explicit partial-failure mode is "state changed,
  notification pending retry".

SEE ALSO:
  - notify/: NotificationPort implementations (outside the core)
  - engine.go: Where events are produced
*/
package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// EVENT MODEL
// =============================================================================

type EventType string

const (
	EventEmployeeCreated         EventType = "employee_created"
	EventOnboardingTaskRecorded  EventType = "onboarding_task_recorded"
	EventEmployeeOnboarded       EventType = "employee_onboarded"
	EventExitInitiated           EventType = "exit_initiated"
	EventOffboardingTaskRecorded EventType = "offboarding_task_recorded"
	EventAccessRevoked           EventType = "access_revoked"
	EventSettlementComputed      EventType = "settlement_computed"
	EventEmployeeExited          EventType = "employee_exited"
	EventDocumentsComplete       EventType = "documents_complete"
	EventReminderDue             EventType = "reminder_due"
)

// Event is an immutable record of something the engine did.
type Event struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	EmployeeID EmployeeID     `json:"employee_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// NewEvent builds an event with a fresh id.
func NewEvent(t EventType, id EmployeeID, at time.Time, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		EmployeeID: id,
		OccurredAt: at,
		Payload:    payload,
	}
}

// =============================================================================
// NOTIFICATION PORT
// =============================================================================

// NotificationPort consumes domain events. Implementations live outside the
// core and are free to fan out to email, chat or ticketing systems.
type NotificationPort interface {
	Dispatch(ctx context.Context, events []Event) error
}
