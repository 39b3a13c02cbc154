/*
onboarding.go - Onboarding checklist engine

PURPOSE:
  Tracks the gated boolean tasks an employee must clear between creation and
  activation. Each task is a flag with a timestamp; completion is the AND of
  the flags required for the employee's category.

GATING:
  Recording validates soft dependencies at write time - a letter cannot be
  signed before it was sent, verification cannot precede collection. The
  source system only hid buttons in the UI; this engine rejects the write
  itself with DependencyNotMetError.

CATEGORY RULES:
  full_time requires all nine flags including bgv_completed.
  intern and contractor require the same set minus bgv_completed, which is
  treated as vacuously true for them.

SEE ALSO:
  - engine.go: RecordOnboardingTask / CompleteOnboarding
  - offboarding.go: The exit-side counterpart
*/
package lifecycle

import (
	"strings"
	"time"
)

// =============================================================================
// TASKS
// =============================================================================

type OnboardingTask string

const (
	TaskDocumentsCollected      OnboardingTask = "documents_collected"
	TaskDocumentsVerified       OnboardingTask = "documents_verified"
	TaskOfferLetterSent         OnboardingTask = "offer_letter_sent"
	TaskOfferLetterSigned       OnboardingTask = "offer_letter_signed"
	TaskSystemsAccessGranted    OnboardingTask = "systems_access_granted"
	TaskAppointmentLetterSent   OnboardingTask = "appointment_letter_sent"
	TaskAppointmentLetterSigned OnboardingTask = "appointment_letter_signed"
	TaskBGVInitiated            OnboardingTask = "bgv_initiated"
	TaskBGVCompleted            OnboardingTask = "bgv_completed"
)

// OnboardingTasks lists all tasks in recording order.
func OnboardingTasks() []OnboardingTask {
	return []OnboardingTask{
		TaskDocumentsCollected,
		TaskDocumentsVerified,
		TaskOfferLetterSent,
		TaskOfferLetterSigned,
		TaskSystemsAccessGranted,
		TaskAppointmentLetterSent,
		TaskAppointmentLetterSigned,
		TaskBGVInitiated,
		TaskBGVCompleted,
	}
}

// ParseOnboardingTask validates a task name.
func ParseOnboardingTask(s string) (OnboardingTask, error) {
	t := OnboardingTask(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range OnboardingTasks() {
		if t == known {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "task", Reason: "unknown onboarding task: " + s}
}

// Soft dependencies enforced at recording time.
var onboardingDeps = map[OnboardingTask]OnboardingTask{
	TaskDocumentsVerified:       TaskDocumentsCollected,
	TaskOfferLetterSigned:       TaskOfferLetterSent,
	TaskAppointmentLetterSigned: TaskAppointmentLetterSent,
	TaskBGVCompleted:            TaskBGVInitiated,
}

// RequiredOnboardingTasks returns the task set a category must clear.
// bgv_completed is dropped when the profile does not require BGV.
func RequiredOnboardingTasks(p CategoryProfile) []OnboardingTask {
	all := OnboardingTasks()
	if p.BGVRequired {
		return all
	}
	required := make([]OnboardingTask, 0, len(all)-1)
	for _, t := range all {
		if t == TaskBGVCompleted {
			continue
		}
		required = append(required, t)
	}
	return required
}

// =============================================================================
// CHECKLIST
// =============================================================================

// OnboardingChecklist is one-to-one with an employee while onboarding.
// Once frozen (Completed set), it is immutable history.
type OnboardingChecklist struct {
	EmployeeID EmployeeID

	// Marks holds the timestamp each task was recorded true.
	// Absence means the flag is false.
	Marks map[OnboardingTask]time.Time

	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

func NewOnboardingChecklist(id EmployeeID, at time.Time) *OnboardingChecklist {
	return &OnboardingChecklist{
		EmployeeID: id,
		Marks:      make(map[OnboardingTask]time.Time),
		CreatedAt:  at,
	}
}

// IsDone reports whether a task has been recorded true.
func (c *OnboardingChecklist) IsDone(t OnboardingTask) bool {
	_, ok := c.Marks[t]
	return ok
}

// Record sets or clears a task flag, enforcing soft dependencies both ways:
// a task cannot be set before its prerequisite, and a prerequisite cannot be
// cleared while a task recorded on top of it stands.
func (c *OnboardingChecklist) Record(task OnboardingTask, done bool, at time.Time) error {
	if c.Completed {
		return &StateConflictError{EmployeeID: c.EmployeeID, Reason: "onboarding checklist is frozen"}
	}

	if done {
		if dep, ok := onboardingDeps[task]; ok && !c.IsDone(dep) {
			return &DependencyNotMetError{Task: string(task), Missing: string(dep)}
		}
		c.Marks[task] = at
		return nil
	}

	for dependent, dep := range onboardingDeps {
		if dep == task && c.IsDone(dependent) {
			return &DependencyNotMetError{Task: string(dependent), Missing: string(task)}
		}
	}
	delete(c.Marks, task)
	return nil
}

// MissingFor returns the required tasks not yet recorded, in order.
func (c *OnboardingChecklist) MissingFor(p CategoryProfile) []OnboardingTask {
	var missing []OnboardingTask
	for _, t := range RequiredOnboardingTasks(p) {
		if !c.IsDone(t) {
			missing = append(missing, t)
		}
	}
	return missing
}

// CompletedFor reports whether every required flag for the category is set.
func (c *OnboardingChecklist) CompletedFor(p CategoryProfile) bool {
	return len(c.MissingFor(p)) == 0
}

// Progress returns completed/required as a percentage. Reporting only; it
// never gates a transition.
func (c *OnboardingChecklist) Progress(p CategoryProfile) float64 {
	required := RequiredOnboardingTasks(p)
	if len(required) == 0 {
		return 100
	}
	done := 0
	for _, t := range required {
		if c.IsDone(t) {
			done++
		}
	}
	return float64(done) / float64(len(required)) * 100
}

// Freeze marks the checklist complete. It becomes immutable history.
func (c *OnboardingChecklist) Freeze(at time.Time) {
	c.Completed = true
	c.CompletedAt = &at
}
