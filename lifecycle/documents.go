/*
documents.go - Document completeness tracker

PURPOSE:
  Tracks how many of the category's required documents an employee has
  submitted and derives a pending/completed status plus a completion ratio.
  The required-document lists come from the category profile; the engine
  never stores document bytes, only counts and names.

SEE ALSO:
  - config.go: CategoryProfile.RequiredDocuments
  - engine.go: RecordDocumentSubmission
*/
package lifecycle

import "time"

// DocumentStatus is the derived collection state.
type DocumentStatus string

const (
	DocumentsPending   DocumentStatus = "pending"
	DocumentsCompleted DocumentStatus = "completed"
)

// DocumentRecord tracks submitted documents against the category requirement.
type DocumentRecord struct {
	EmployeeID EmployeeID

	// Submitted document names, deduplicated, in submission order.
	Submitted []string

	// CollectedOverride marks the set complete regardless of counts
	// (the documents_collected onboarding flag sets it).
	CollectedOverride bool

	UpdatedAt time.Time
}

func NewDocumentRecord(id EmployeeID) *DocumentRecord {
	return &DocumentRecord{EmployeeID: id}
}

// Add records a submitted document name. Duplicate names are ignored so the
// ratio can never be inflated by re-submitting the same document.
func (d *DocumentRecord) Add(name string, at time.Time) bool {
	for _, have := range d.Submitted {
		if have == name {
			return false
		}
	}
	d.Submitted = append(d.Submitted, name)
	d.UpdatedAt = at
	return true
}

// DocumentEvaluation is the derived completeness view.
type DocumentEvaluation struct {
	Required       int            `json:"required"`
	SubmittedCount int            `json:"submitted"`
	Missing        []string       `json:"missing,omitempty"`
	Ratio          float64        `json:"completion_ratio"`
	Status         DocumentStatus `json:"status"`
}

// EvaluateDocuments compares the record against the category requirement.
// The ratio is capped at 1.0: extra documents never count above complete.
func EvaluateDocuments(p CategoryProfile, d *DocumentRecord) DocumentEvaluation {
	required := len(p.RequiredDocuments)
	submitted := 0
	var missing []string
	for _, name := range p.RequiredDocuments {
		found := false
		for _, have := range d.Submitted {
			if have == name {
				found = true
				break
			}
		}
		if found {
			submitted++
		} else {
			missing = append(missing, name)
		}
	}

	ev := DocumentEvaluation{
		Required:       required,
		SubmittedCount: submitted,
		Missing:        missing,
		Status:         DocumentsPending,
	}
	if required == 0 {
		ev.Ratio = 1
		ev.Status = DocumentsCompleted
		return ev
	}
	counted := submitted
	if counted > required {
		counted = required
	}
	ev.Ratio = float64(counted) / float64(required)
	if d.CollectedOverride || submitted >= required {
		ev.Status = DocumentsCompleted
	}
	return ev
}
