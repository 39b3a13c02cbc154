/*
offboarding.go - Offboarding checklist engine

PURPOSE:
  Tracks the exit-side checklist created by InitiateExit: manager approval,
  knowledge transfer, asset return, access revocation, settlement and the
  experience letter, plus the exit metadata (dates, type, reason) and the
  notice evaluation captured at initiation.

HARD GATES (enforced at recording time):
  access_revoked            requires manager_approval AND knowledge_transfer
  fnf_processed             requires knowledge_transfer AND assets_returned
  experience_letter_issued  full_time: requires fnf_processed (or an explicit
                            dues-settled override from the caller)
                            intern/contractor: requires knowledge_transfer
                            (certificates are not gated on settlement)

SEE ALSO:
  - engine.go: InitiateExit / RecordOffboardingTask / CompleteOffboarding
  - settlement.go: Computes the fnf_amount recorded here
*/
package lifecycle

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TASKS
// =============================================================================

type OffboardingTask string

const (
	TaskManagerApproval        OffboardingTask = "manager_approval"
	TaskKnowledgeTransfer      OffboardingTask = "knowledge_transfer"
	TaskAssetsReturned         OffboardingTask = "assets_returned"
	TaskAccessRevoked          OffboardingTask = "access_revoked"
	TaskFnFProcessed           OffboardingTask = "fnf_processed"
	TaskExperienceLetterIssued OffboardingTask = "experience_letter_issued"
)

// OffboardingTasks lists all tasks in recording order.
func OffboardingTasks() []OffboardingTask {
	return []OffboardingTask{
		TaskManagerApproval,
		TaskKnowledgeTransfer,
		TaskAssetsReturned,
		TaskAccessRevoked,
		TaskFnFProcessed,
		TaskExperienceLetterIssued,
	}
}

// ParseOffboardingTask validates a task name.
func ParseOffboardingTask(s string) (OffboardingTask, error) {
	t := OffboardingTask(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range OffboardingTasks() {
		if t == known {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "task", Reason: "unknown offboarding task: " + s}
}

// RecordOptions carries caller-supplied overrides for gate evaluation.
type RecordOptions struct {
	// DuesSettledOverride lets a full-time experience letter be issued
	// before fnf_processed, when HR has settled dues out of band.
	DuesSettledOverride bool
}

// dependenciesFor returns the tasks that must already be done before `task`
// can be recorded true for the given category.
func dependenciesFor(task OffboardingTask, category Category, opts RecordOptions) []OffboardingTask {
	switch task {
	case TaskAccessRevoked:
		return []OffboardingTask{TaskManagerApproval, TaskKnowledgeTransfer}
	case TaskFnFProcessed:
		return []OffboardingTask{TaskKnowledgeTransfer, TaskAssetsReturned}
	case TaskExperienceLetterIssued:
		if category == CategoryFullTime {
			if opts.DuesSettledOverride {
				return nil
			}
			return []OffboardingTask{TaskFnFProcessed}
		}
		return []OffboardingTask{TaskKnowledgeTransfer}
	}
	return nil
}

// =============================================================================
// CHECKLIST
// =============================================================================

// OffboardingChecklist is one-to-one with an employee while offboarding.
// Invariant: LastWorkingDay >= ResignationDate.
type OffboardingChecklist struct {
	EmployeeID EmployeeID

	ResignationDate time.Time
	LastWorkingDay  time.Time
	ExitType        ExitType
	ExitReason      string

	// Notice evaluation captured at initiation. Informational only;
	// short notice never blocks the transition.
	ActualNoticeDays   int
	RequiredNoticeDays int
	ShortNotice        bool

	Marks     map[OffboardingTask]time.Time
	FnFAmount *decimal.Decimal

	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
}

func NewOffboardingChecklist(id EmployeeID, resignation, lastWorkingDay time.Time, exitType ExitType, reason string, notice NoticeEvaluation, at time.Time) *OffboardingChecklist {
	return &OffboardingChecklist{
		EmployeeID:         id,
		ResignationDate:    resignation,
		LastWorkingDay:     lastWorkingDay,
		ExitType:           exitType,
		ExitReason:         reason,
		ActualNoticeDays:   notice.ActualDays,
		RequiredNoticeDays: notice.RequiredDays,
		ShortNotice:        notice.ShortNotice,
		Marks:              make(map[OffboardingTask]time.Time),
		CreatedAt:          at,
	}
}

// IsDone reports whether a task has been recorded true.
func (c *OffboardingChecklist) IsDone(t OffboardingTask) bool {
	_, ok := c.Marks[t]
	return ok
}

// Record sets or clears a task flag, enforcing the hard gates. Clearing a
// flag that a recorded task depends on is rejected the same way.
func (c *OffboardingChecklist) Record(task OffboardingTask, done bool, category Category, opts RecordOptions, at time.Time) error {
	if c.Completed {
		return &StateConflictError{EmployeeID: c.EmployeeID, Reason: "offboarding checklist is frozen"}
	}

	if done {
		var missing []string
		for _, dep := range dependenciesFor(task, category, opts) {
			if !c.IsDone(dep) {
				missing = append(missing, string(dep))
			}
		}
		if len(missing) > 0 {
			return &DependencyNotMetError{Task: string(task), Missing: strings.Join(missing, " and ")}
		}
		c.Marks[task] = at
		return nil
	}

	// Reverse guard: keep recorded tasks consistent with their gates.
	// Overrides do not apply here; clearing is always strict.
	for _, dependent := range OffboardingTasks() {
		if !c.IsDone(dependent) {
			continue
		}
		for _, dep := range dependenciesFor(dependent, category, RecordOptions{}) {
			if dep == task {
				return &DependencyNotMetError{Task: string(dependent), Missing: string(task)}
			}
		}
	}
	delete(c.Marks, task)
	return nil
}

// Missing returns the tasks not yet recorded, in order.
func (c *OffboardingChecklist) Missing() []OffboardingTask {
	var missing []OffboardingTask
	for _, t := range OffboardingTasks() {
		if !c.IsDone(t) {
			missing = append(missing, t)
		}
	}
	return missing
}

// CompletedAll reports whether all six flags are set.
func (c *OffboardingChecklist) CompletedAll() bool {
	return len(c.Missing()) == 0
}

// Progress returns completed/total as a percentage, for reporting.
func (c *OffboardingChecklist) Progress() float64 {
	all := OffboardingTasks()
	done := 0
	for _, t := range all {
		if c.IsDone(t) {
			done++
		}
	}
	return float64(done) / float64(len(all)) * 100
}

// Freeze marks the checklist complete. It becomes immutable history.
func (c *OffboardingChecklist) Freeze(at time.Time) {
	c.Completed = true
	c.CompletedAt = &at
}
