/*
engine.go - Lifecycle state machine and operation surface

PURPOSE:
  The Engine is the single entry point for every lifecycle operation. Each
  mutation runs inside one UnitOfWork transaction (single writer per
  employee), persists its changes, appends the produced events to the event
  log, and returns those events to the caller for dispatch AFTER commit.

STATE MACHINE:
  onboarding --CompleteOnboarding--> active --InitiateExit--> offboarding
  offboarding --CompleteOffboarding--> exited
  No other transition exists. Exited is terminal; records are never deleted.

TRANSITION GUARDS:
  CompleteOnboarding   requires every category-required onboarding flag
  InitiateExit         requires active status; re-entry is a StateConflict
  CompleteOffboarding  requires all six offboarding flags

SEE ALSO:
  - onboarding.go / offboarding.go: The checklist engines driven from here
  - settlement.go: ComputeSettlement's calculator
  - store.go: The persistence contract
*/
package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Hours in a standard working year, for annualizing hourly contractors
// in settlement math (40 h/week * 52 weeks).
var annualWorkingHours = decimal.NewFromInt(2080)

// Engine orchestrates the lifecycle state machine over a UnitOfWork.
type Engine struct {
	uow    UnitOfWork
	config ConfigProvider

	// Clock is overridable in tests.
	Clock func() time.Time
}

func NewEngine(uow UnitOfWork, config ConfigProvider) *Engine {
	return &Engine{
		uow:    uow,
		config: config,
		Clock:  time.Now,
	}
}

// =============================================================================
// INPUTS
// =============================================================================

// NewEmployeeInput carries everything CreateEmployee needs. Category has
// already been parsed at the boundary.
type NewEmployeeInput struct {
	Code        string
	FirstName   string
	LastName    string
	Email       string
	Category    Category
	JoiningDate time.Time
	Department  string
	Designation string
	Manager     string

	Compensation Compensation

	// Overrides; zero means "use the category default".
	NoticePeriodDays int
	ProbationMonths  int
}

// InitiateExitInput carries the exit metadata captured at initiation.
type InitiateExitInput struct {
	EmployeeID      EmployeeID
	ExitType        ExitType
	Reason          string
	ResignationDate time.Time
	LastWorkingDay  time.Time
}

// SettlementRequest carries the caller-supplied settlement figures.
type SettlementRequest struct {
	// LastSalaryDate defaults to the first of the last-working-day month.
	LastSalaryDate   *time.Time
	LeaveBalanceDays decimal.Decimal
	NoticeRecovery   decimal.Decimal
	OtherDeductions  decimal.Decimal
}

// =============================================================================
// CREATE EMPLOYEE
// =============================================================================

func (in NewEmployeeInput) validate() error {
	switch {
	case strings.TrimSpace(in.Code) == "":
		return &ValidationError{Field: "code", Reason: "employee code is required"}
	case strings.TrimSpace(in.FirstName) == "":
		return &ValidationError{Field: "first_name", Reason: "first name is required"}
	case strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@"):
		return &ValidationError{Field: "email", Reason: "a valid email is required"}
	case in.JoiningDate.IsZero():
		return &ValidationError{Field: "joining_date", Reason: "joining date is required"}
	case in.NoticePeriodDays < 0:
		return &ValidationError{Field: "notice_period", Reason: "cannot be negative"}
	case in.ProbationMonths < 0:
		return &ValidationError{Field: "probation_months", Reason: "cannot be negative"}
	}
	return nil
}

// CreateEmployee registers a new employee in onboarding status, opens the
// onboarding checklist and document record, and seeds the per-platform
// access rows from the category profile.
func (e *Engine) CreateEmployee(ctx context.Context, in NewEmployeeInput) (*Employee, []Event, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}
	profile, err := e.config.Profile(in.Category)
	if err != nil {
		return nil, nil, err
	}
	if err := profile.ValidateCompensation(in.Compensation); err != nil {
		return nil, nil, err
	}

	now := e.Clock()
	emp := &Employee{
		ID:              EmployeeID(uuid.NewString()),
		Code:            strings.TrimSpace(in.Code),
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		Category:        in.Category,
		Status:          StatusOnboarding,
		JoiningDate:     in.JoiningDate,
		Department:      in.Department,
		Designation:     in.Designation,
		Manager:         in.Manager,
		Compensation:    in.Compensation,
		NoticePeriod:    in.NoticePeriodDays,
		ProbationMonths: in.ProbationMonths,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	events := []Event{NewEvent(EventEmployeeCreated, emp.ID, now, map[string]any{
		"code":     emp.Code,
		"category": string(emp.Category),
	})}

	err = e.uow.WithTx(ctx, func(r Repositories) error {
		conflict, err := r.Employees.FindConflict(ctx, emp.Code, emp.Email)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &DuplicateEmployeeError{Code: emp.Code, Email: emp.Email}
		}
		if err := r.Employees.Create(ctx, emp); err != nil {
			return err
		}
		if err := r.Checklists.SaveOnboarding(ctx, NewOnboardingChecklist(emp.ID, now)); err != nil {
			return err
		}
		if err := r.Documents.Save(ctx, NewDocumentRecord(emp.ID)); err != nil {
			return err
		}
		if err := r.Access.Seed(ctx, emp.ID, profile.Platforms, now); err != nil {
			return err
		}
		return r.Events.Append(ctx, events)
	})
	if err != nil {
		return nil, nil, err
	}
	return emp, events, nil
}

// =============================================================================
// ONBOARDING
// =============================================================================

// RecordOnboardingTask sets or clears one onboarding flag.
func (e *Engine) RecordOnboardingTask(ctx context.Context, id EmployeeID, task OnboardingTask, done bool) ([]Event, error) {
	now := e.Clock()
	var events []Event

	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, err := r.Employees.Get(ctx, id)
		if err != nil {
			return err
		}
		if emp.Status != StatusOnboarding {
			return &StateConflictError{EmployeeID: id, Reason: "employee is not onboarding (status " + string(emp.Status) + ")"}
		}
		checklist, err := r.Checklists.GetOnboarding(ctx, id)
		if err != nil {
			return err
		}
		if checklist == nil {
			return &NotFoundError{Kind: "onboarding checklist", ID: id}
		}
		if err := checklist.Record(task, done, now); err != nil {
			return err
		}
		if err := r.Checklists.SaveOnboarding(ctx, checklist); err != nil {
			return err
		}

		events = append(events, NewEvent(EventOnboardingTaskRecorded, id, now, map[string]any{
			"task": string(task),
			"done": done,
		}))

		// documents_collected doubles as the completeness override.
		if task == TaskDocumentsCollected {
			doc, err := r.Documents.Get(ctx, id)
			if err != nil {
				return err
			}
			if doc == nil {
				doc = NewDocumentRecord(id)
			}
			wasComplete := doc.CollectedOverride
			doc.CollectedOverride = done
			doc.UpdatedAt = now
			if err := r.Documents.Save(ctx, doc); err != nil {
				return err
			}
			if done && !wasComplete {
				events = append(events, NewEvent(EventDocumentsComplete, id, now, nil))
			}
		}
		return r.Events.Append(ctx, events)
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CompleteOnboarding transitions onboarding -> active once every flag the
// category requires is set. The checklist freezes and becomes history.
func (e *Engine) CompleteOnboarding(ctx context.Context, id EmployeeID) ([]Event, error) {
	now := e.Clock()
	var events []Event

	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, err := r.Employees.Get(ctx, id)
		if err != nil {
			return err
		}
		if emp.Status != StatusOnboarding {
			return &InvalidStateTransitionError{Current: emp.Status, Requested: StatusActive}
		}
		profile, err := e.config.Profile(emp.Category)
		if err != nil {
			return err
		}
		checklist, err := r.Checklists.GetOnboarding(ctx, id)
		if err != nil {
			return err
		}
		if checklist == nil {
			return &NotFoundError{Kind: "onboarding checklist", ID: id}
		}
		if missing := checklist.MissingFor(profile); len(missing) > 0 {
			return &DependencyNotMetError{Task: "onboarding completion", Missing: joinTasks(missing)}
		}

		checklist.Freeze(now)
		if err := r.Checklists.SaveOnboarding(ctx, checklist); err != nil {
			return err
		}
		emp.Status = StatusActive
		emp.UpdatedAt = now
		if err := r.Employees.Update(ctx, emp); err != nil {
			return err
		}

		events = append(events, NewEvent(EventEmployeeOnboarded, id, now, map[string]any{
			"category": string(emp.Category),
		}))
		return r.Events.Append(ctx, events)
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// =============================================================================
// EXIT INITIATION
// =============================================================================

// InitiateExit transitions active -> offboarding, evaluates the notice
// period, and opens the offboarding checklist. A second call for the same
// employee is a StateConflict: the first checklist stands untouched.
func (e *Engine) InitiateExit(ctx context.Context, in InitiateExitInput) ([]Event, error) {
	switch {
	case in.ResignationDate.IsZero() || in.LastWorkingDay.IsZero():
		return nil, &ValidationError{Field: "dates", Reason: "resignation date and last working day are required"}
	case in.LastWorkingDay.Before(in.ResignationDate):
		return nil, &ValidationError{Field: "last_working_day", Reason: "cannot precede resignation date"}
	}

	now := e.Clock()
	var events []Event

	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, err := r.Employees.Get(ctx, in.EmployeeID)
		if err != nil {
			return err
		}
		if emp.Status != StatusActive {
			if emp.Status == StatusOffboarding || emp.Status == StatusExited {
				return &StateConflictError{EmployeeID: emp.ID, Reason: "exit already initiated"}
			}
			return &InvalidStateTransitionError{Current: emp.Status, Requested: StatusOffboarding}
		}
		if existing, err := r.Checklists.GetOffboarding(ctx, emp.ID); err != nil {
			return err
		} else if existing != nil {
			return &StateConflictError{EmployeeID: emp.ID, Reason: "exit already initiated"}
		}

		evaluator := NoticeEvaluator{Config: e.config}
		required := emp.NoticePeriod
		if required == 0 {
			required, err = evaluator.RequiredDays(emp.Category, emp.TenureMonths(in.ResignationDate), emp.ProbationMonths)
			if err != nil {
				return err
			}
		}
		notice := EvaluateNotice(in.ResignationDate, in.LastWorkingDay, required)

		checklist := NewOffboardingChecklist(emp.ID, in.ResignationDate, in.LastWorkingDay, in.ExitType, in.Reason, notice, now)
		if err := r.Checklists.SaveOffboarding(ctx, checklist); err != nil {
			return err
		}
		emp.Status = StatusOffboarding
		emp.UpdatedAt = now
		if err := r.Employees.Update(ctx, emp); err != nil {
			return err
		}

		events = append(events, NewEvent(EventExitInitiated, emp.ID, now, map[string]any{
			"exit_type":     string(in.ExitType),
			"short_notice":  notice.ShortNotice,
			"actual_days":   notice.ActualDays,
			"required_days": notice.RequiredDays,
		}))
		return r.Events.Append(ctx, events)
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// =============================================================================
// OFFBOARDING
// =============================================================================

// RecordOffboardingTask sets or clears one offboarding flag, enforcing the
// hard gates for the employee's category.
func (e *Engine) RecordOffboardingTask(ctx context.Context, id EmployeeID, task OffboardingTask, done bool, opts RecordOptions) ([]Event, error) {
	now := e.Clock()
	var events []Event

	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, checklist, err := loadOffboarding(ctx, r, id)
		if err != nil {
			return err
		}
		if err := checklist.Record(task, done, emp.Category, opts, now); err != nil {
			return err
		}
		if err := r.Checklists.SaveOffboarding(ctx, checklist); err != nil {
			return err
		}

		events = append(events, NewEvent(EventOffboardingTaskRecorded, id, now, map[string]any{
			"task": string(task),
			"done": done,
		}))
		if task == TaskAccessRevoked && done {
			events = append(events, NewEvent(EventAccessRevoked, id, now, nil))
		}
		return r.Events.Append(ctx, events)
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ComputeSettlement runs the full-and-final calculation, stores the net
// amount on the checklist, and emits SettlementComputed. It never flips the
// fnf_processed flag - recording payment stays a separate, gated write.
func (e *Engine) ComputeSettlement(ctx context.Context, id EmployeeID, req SettlementRequest) (*Settlement, []Event, error) {
	now := e.Clock()
	var (
		result *Settlement
		events []Event
	)

	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, checklist, err := loadOffboarding(ctx, r, id)
		if err != nil {
			return err
		}
		var missing []string
		for _, dep := range []OffboardingTask{TaskKnowledgeTransfer, TaskAssetsReturned} {
			if !checklist.IsDone(dep) {
				missing = append(missing, string(dep))
			}
		}
		if len(missing) > 0 {
			return &DependencyNotMetError{Task: "settlement", Missing: strings.Join(missing, " and ")}
		}

		profile, err := e.config.Profile(emp.Category)
		if err != nil {
			return err
		}

		lastSalary := firstOfMonth(checklist.LastWorkingDay)
		if req.LastSalaryDate != nil {
			lastSalary = *req.LastSalaryDate
		}
		years := decimal.NewFromInt(int64(daysBetween(emp.JoiningDate, checklist.LastWorkingDay))).
			Div(decimal.NewFromInt(365))

		settlement, err := ComputeFnF(profile, SettlementInput{
			AnnualCTC:        annualPay(emp.Compensation),
			LastSalaryDate:   lastSalary,
			LastWorkingDay:   checklist.LastWorkingDay,
			LeaveBalanceDays: req.LeaveBalanceDays,
			YearsOfService:   years,
			NoticeRecovery:   req.NoticeRecovery,
			OtherDeductions:  req.OtherDeductions,
		})
		if err != nil {
			return err
		}

		net := settlement.NetAmount
		checklist.FnFAmount = &net
		if err := r.Checklists.SaveOffboarding(ctx, checklist); err != nil {
			return err
		}

		result = &settlement
		events = append(events, NewEvent(EventSettlementComputed, id, now, map[string]any{
			"net_amount": net.String(),
		}))
		return r.Events.Append(ctx, events)
	})
	if err != nil {
		return nil, nil, err
	}
	return result, events, nil
}

// CompleteOffboarding transitions offboarding -> exited once all six flags
// are set. The checklist freezes; the employee record stays as history.
func (e *Engine) CompleteOffboarding(ctx context.Context, id EmployeeID) ([]Event, error) {
	now := e.Clock()
	var events []Event

	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, checklist, err := loadOffboarding(ctx, r, id)
		if err != nil {
			return err
		}
		if missing := checklist.Missing(); len(missing) > 0 {
			parts := make([]string, len(missing))
			for i, t := range missing {
				parts[i] = string(t)
			}
			return &DependencyNotMetError{Task: "offboarding completion", Missing: strings.Join(parts, ", ")}
		}

		checklist.Freeze(now)
		if err := r.Checklists.SaveOffboarding(ctx, checklist); err != nil {
			return err
		}
		emp.Status = StatusExited
		emp.UpdatedAt = now
		if err := r.Employees.Update(ctx, emp); err != nil {
			return err
		}

		events = append(events, NewEvent(EventEmployeeExited, id, now, map[string]any{
			"exit_type": string(checklist.ExitType),
		}))
		return r.Events.Append(ctx, events)
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// RecordDocumentSubmission adds one submitted document name. Emits
// DocumentsComplete the first time the record covers the category list.
func (e *Engine) RecordDocumentSubmission(ctx context.Context, id EmployeeID, name string) ([]Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "document", Reason: "document name is required"}
	}

	now := e.Clock()
	var events []Event

	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, err := r.Employees.Get(ctx, id)
		if err != nil {
			return err
		}
		profile, err := e.config.Profile(emp.Category)
		if err != nil {
			return err
		}
		doc, err := r.Documents.Get(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			doc = NewDocumentRecord(id)
		}

		before := EvaluateDocuments(profile, doc)
		doc.Add(name, now)
		if err := r.Documents.Save(ctx, doc); err != nil {
			return err
		}
		after := EvaluateDocuments(profile, doc)

		if before.Status != DocumentsCompleted && after.Status == DocumentsCompleted {
			events = append(events, NewEvent(EventDocumentsComplete, id, now, map[string]any{
				"submitted": after.SubmittedCount,
				"required":  after.Required,
			}))
			return r.Events.Append(ctx, events)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// =============================================================================
// ASSETS AND ACCESS
// =============================================================================

// IssueAsset records an asset handed to the employee.
func (e *Engine) IssueAsset(ctx context.Context, id EmployeeID, name string) (*Asset, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "asset", Reason: "asset name is required"}
	}
	now := e.Clock()
	asset := &Asset{
		ID:         uuid.NewString(),
		EmployeeID: id,
		Name:       strings.TrimSpace(name),
		IssuedAt:   now,
	}
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, err := r.Employees.Get(ctx, id)
		if err != nil {
			return err
		}
		if emp.Status == StatusExited {
			return &StateConflictError{EmployeeID: id, Reason: "cannot issue assets to an exited employee"}
		}
		return r.Assets.Issue(ctx, asset)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// ReturnAsset marks an issued asset as returned.
func (e *Engine) ReturnAsset(ctx context.Context, id EmployeeID, assetID string) error {
	now := e.Clock()
	return e.uow.WithTx(ctx, func(r Repositories) error {
		if _, err := r.Employees.Get(ctx, id); err != nil {
			return err
		}
		return r.Assets.MarkReturned(ctx, id, assetID, now)
	})
}

// GrantAccess flips one seeded platform row to granted.
func (e *Engine) GrantAccess(ctx context.Context, id EmployeeID, platform string) error {
	now := e.Clock()
	return e.uow.WithTx(ctx, func(r Repositories) error {
		if _, err := r.Employees.Get(ctx, id); err != nil {
			return err
		}
		return r.Access.SetGranted(ctx, id, platform, now)
	})
}

// RevokeAccess flips one seeded platform row to revoked.
func (e *Engine) RevokeAccess(ctx context.Context, id EmployeeID, platform string) error {
	now := e.Clock()
	return e.uow.WithTx(ctx, func(r Repositories) error {
		if _, err := r.Employees.Get(ctx, id); err != nil {
			return err
		}
		return r.Access.SetRevoked(ctx, id, platform, now)
	})
}

// GetAssetSummary returns the issued/returned roll-up the offboarding caller
// consults before recording assets_returned.
func (e *Engine) GetAssetSummary(ctx context.Context, id EmployeeID) (*AssetSummary, error) {
	var summary AssetSummary
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		if _, err := r.Employees.Get(ctx, id); err != nil {
			return err
		}
		assets, err := r.Assets.ListByEmployee(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range assets {
			summary.Issued++
			if a.ReturnedAt != nil {
				summary.Returned++
			} else {
				summary.Pending = append(summary.Pending, a.Name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetAccessSummary returns the per-platform grant/revoke roll-up.
func (e *Engine) GetAccessSummary(ctx context.Context, id EmployeeID) (*AccessSummary, error) {
	var summary AccessSummary
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		if _, err := r.Employees.Get(ctx, id); err != nil {
			return err
		}
		rows, err := r.Access.ListByEmployee(ctx, id)
		if err != nil {
			return err
		}
		summary.Platforms = rows
		summary.AllRevoked = len(rows) > 0
		for _, row := range rows {
			if !row.Revoked {
				summary.AllRevoked = false
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// =============================================================================
// READ-ONLY QUERIES
// =============================================================================

// OnboardingProgress is the reporting view over the onboarding checklist.
type OnboardingProgress struct {
	EmployeeID EmployeeID       `json:"employee_id"`
	Percent    float64          `json:"percent"`
	Missing    []OnboardingTask `json:"missing,omitempty"`
	Completed  bool             `json:"completed"`
}

// OffboardingProgress is the reporting view over the offboarding checklist.
type OffboardingProgress struct {
	EmployeeID         EmployeeID        `json:"employee_id"`
	ExitType           ExitType          `json:"exit_type"`
	ResignationDate    time.Time         `json:"resignation_date"`
	LastWorkingDay     time.Time         `json:"last_working_day"`
	ActualNoticeDays   int               `json:"actual_notice_days"`
	RequiredNoticeDays int               `json:"required_notice_days"`
	ShortNotice        bool              `json:"short_notice"`
	Percent            float64           `json:"percent"`
	Missing            []OffboardingTask `json:"missing,omitempty"`
	FnFAmount          *decimal.Decimal  `json:"fnf_amount,omitempty"`
	Completed          bool              `json:"completed"`
}

// LifecycleStatus is the one-call overview of where an employee stands.
type LifecycleStatus struct {
	EmployeeID         EmployeeID     `json:"employee_id"`
	Code               string         `json:"code"`
	Name               string         `json:"name"`
	Category           Category       `json:"category"`
	Status             Status         `json:"status"`
	OnboardingPercent  *float64       `json:"onboarding_percent,omitempty"`
	OffboardingPercent *float64       `json:"offboarding_percent,omitempty"`
	DocumentsStatus    DocumentStatus `json:"documents_status"`
	DocumentsRatio     float64        `json:"documents_ratio"`
}

// GetOnboardingProgress reports checklist completion for the category.
func (e *Engine) GetOnboardingProgress(ctx context.Context, id EmployeeID) (*OnboardingProgress, error) {
	var progress *OnboardingProgress
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, err := r.Employees.Get(ctx, id)
		if err != nil {
			return err
		}
		profile, err := e.config.Profile(emp.Category)
		if err != nil {
			return err
		}
		checklist, err := r.Checklists.GetOnboarding(ctx, id)
		if err != nil {
			return err
		}
		if checklist == nil {
			return &NotFoundError{Kind: "onboarding checklist", ID: id}
		}
		progress = &OnboardingProgress{
			EmployeeID: id,
			Percent:    checklist.Progress(profile),
			Missing:    checklist.MissingFor(profile),
			Completed:  checklist.Completed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// GetOffboardingProgress reports exit checklist completion and metadata.
func (e *Engine) GetOffboardingProgress(ctx context.Context, id EmployeeID) (*OffboardingProgress, error) {
	var progress *OffboardingProgress
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		_, checklist, err := loadOffboardingAnyStatus(ctx, r, id)
		if err != nil {
			return err
		}
		progress = &OffboardingProgress{
			EmployeeID:         id,
			ExitType:           checklist.ExitType,
			ResignationDate:    checklist.ResignationDate,
			LastWorkingDay:     checklist.LastWorkingDay,
			ActualNoticeDays:   checklist.ActualNoticeDays,
			RequiredNoticeDays: checklist.RequiredNoticeDays,
			ShortNotice:        checklist.ShortNotice,
			Percent:            checklist.Progress(),
			Missing:            checklist.Missing(),
			FnFAmount:          checklist.FnFAmount,
			Completed:          checklist.Completed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// GetDocumentCompleteness reports the document evaluation for the category.
func (e *Engine) GetDocumentCompleteness(ctx context.Context, id EmployeeID) (*DocumentEvaluation, error) {
	var evaluation *DocumentEvaluation
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, err := r.Employees.Get(ctx, id)
		if err != nil {
			return err
		}
		profile, err := e.config.Profile(emp.Category)
		if err != nil {
			return err
		}
		doc, err := r.Documents.Get(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			doc = NewDocumentRecord(id)
		}
		ev := EvaluateDocuments(profile, doc)
		evaluation = &ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return evaluation, nil
}

// GetLifecycleStatus returns the one-call overview.
func (e *Engine) GetLifecycleStatus(ctx context.Context, id EmployeeID) (*LifecycleStatus, error) {
	var status *LifecycleStatus
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, err := r.Employees.Get(ctx, id)
		if err != nil {
			return err
		}
		profile, err := e.config.Profile(emp.Category)
		if err != nil {
			return err
		}
		status = &LifecycleStatus{
			EmployeeID: emp.ID,
			Code:       emp.Code,
			Name:       emp.FullName(),
			Category:   emp.Category,
			Status:     emp.Status,
		}
		if onb, err := r.Checklists.GetOnboarding(ctx, id); err != nil {
			return err
		} else if onb != nil {
			p := onb.Progress(profile)
			status.OnboardingPercent = &p
		}
		if off, err := r.Checklists.GetOffboarding(ctx, id); err != nil {
			return err
		} else if off != nil {
			p := off.Progress()
			status.OffboardingPercent = &p
		}
		doc, err := r.Documents.Get(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			doc = NewDocumentRecord(id)
		}
		ev := EvaluateDocuments(profile, doc)
		status.DocumentsStatus = ev.Status
		status.DocumentsRatio = ev.Ratio
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// GetEmployee loads a single employee record.
func (e *Engine) GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error) {
	var emp *Employee
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		var err error
		emp, err = r.Employees.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// ListEmployees returns all employees, optionally filtered by status.
func (e *Engine) ListEmployees(ctx context.Context, status *Status) ([]*Employee, error) {
	var out []*Employee
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		var err error
		out, err = r.Employees.List(ctx, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListEvents returns the logged events for one employee, oldest first.
func (e *Engine) ListEvents(ctx context.Context, id EmployeeID) ([]Event, error) {
	var out []Event
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		if _, err := r.Employees.Get(ctx, id); err != nil {
			return err
		}
		var err error
		out, err = r.Events.ListByEmployee(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ComputeNoticePeriod evaluates notice for a proposed exit window without
// changing any state.
func (e *Engine) ComputeNoticePeriod(ctx context.Context, id EmployeeID, resignationDate, lastWorkingDay time.Time) (*NoticeEvaluation, error) {
	if resignationDate.IsZero() || lastWorkingDay.IsZero() {
		return nil, &ValidationError{Field: "dates", Reason: "resignation date and last working day are required"}
	}
	var evaluation *NoticeEvaluation
	err := e.uow.WithTx(ctx, func(r Repositories) error {
		emp, err := r.Employees.Get(ctx, id)
		if err != nil {
			return err
		}
		required := emp.NoticePeriod
		if required == 0 {
			evaluator := NoticeEvaluator{Config: e.config}
			required, err = evaluator.RequiredDays(emp.Category, emp.TenureMonths(resignationDate), emp.ProbationMonths)
			if err != nil {
				return err
			}
		}
		ev := EvaluateNotice(resignationDate, lastWorkingDay, required)
		evaluation = &ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return evaluation, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func loadOffboarding(ctx context.Context, r Repositories, id EmployeeID) (*Employee, *OffboardingChecklist, error) {
	emp, err := r.Employees.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if emp.Status != StatusOffboarding {
		return nil, nil, &StateConflictError{EmployeeID: id, Reason: "employee is not offboarding (status " + string(emp.Status) + ")"}
	}
	checklist, err := r.Checklists.GetOffboarding(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if checklist == nil {
		return nil, nil, &NotFoundError{Kind: "offboarding checklist", ID: id}
	}
	return emp, checklist, nil
}

func loadOffboardingAnyStatus(ctx context.Context, r Repositories, id EmployeeID) (*Employee, *OffboardingChecklist, error) {
	emp, err := r.Employees.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	checklist, err := r.Checklists.GetOffboarding(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if checklist == nil {
		return nil, nil, &NotFoundError{Kind: "offboarding checklist", ID: id}
	}
	return emp, checklist, nil
}

func joinTasks(tasks []OnboardingTask) string {
	parts := make([]string, len(tasks))
	for i, t := range tasks {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

// annualPay normalizes compensation to an annual figure for settlement math:
// salary is already annual; hourly contractors are annualized over a
// 40-hour week. Interns never reach this path.
func annualPay(c Compensation) decimal.Decimal {
	switch c.Kind() {
	case CompSalary:
		return c.AnnualCTC
	case CompHourly:
		return c.HourlyRate.Mul(annualWorkingHours)
	}
	return decimal.Zero
}

// firstOfMonth is the default last-salary-date: salary is assumed paid
// through the end of the previous month.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
