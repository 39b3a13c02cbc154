/*
notice.go - Notice period evaluator

PURPOSE:
  Computes the notice an exiting employee owes versus what they actually
  served. Full-time employees owe the confirmed notice once past probation
  and the shorter probation notice before that; interns and contractors owe
  a fixed value. All values come from the category profile, never constants.

  Short notice is a flag for recovery decisions, not a hard stop: it is
  attached to the ExitInitiated event and never blocks the transition.
*/
package lifecycle

import "time"

// NoticeEvaluation is the result of comparing served against required notice.
type NoticeEvaluation struct {
	ActualDays   int  `json:"actual_days"`
	RequiredDays int  `json:"required_days"`
	ShortNotice  bool `json:"short_notice"`
}

// NoticeEvaluator resolves required notice from category profiles.
type NoticeEvaluator struct {
	Config ConfigProvider
}

// RequiredDays returns the notice owed by an employee of the given category.
// probationMonths overrides the profile default when positive (the employee
// record may carry a negotiated probation period).
func (ne NoticeEvaluator) RequiredDays(category Category, tenureMonths float64, probationMonths int) (int, error) {
	p, err := ne.Config.Profile(category)
	if err != nil {
		return 0, err
	}

	if category != CategoryFullTime {
		return p.NoticeProbationDays, nil
	}

	probation := p.ProbationMonths
	if probationMonths > 0 {
		probation = probationMonths
	}
	if tenureMonths > float64(probation) {
		return p.NoticeConfirmedDays, nil
	}
	return p.NoticeProbationDays, nil
}

// EvaluateNotice compares the served notice window against the requirement.
func EvaluateNotice(resignationDate, lastWorkingDay time.Time, required int) NoticeEvaluation {
	actual := daysBetween(resignationDate, lastWorkingDay)
	if actual < 0 {
		actual = 0
	}
	return NoticeEvaluation{
		ActualDays:   actual,
		RequiredDays: required,
		ShortNotice:  actual < required,
	}
}
