/*
handlers.go - HTTP API handlers for the lifecycle engine

PURPOSE:
  Exposes the lifecycle engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine. Events returned by engine
  mutations are dispatched through the notification port AFTER the engine
  has committed, so delivery failures never roll back state.

ENDPOINTS:
  Employees:
    GET    /api/employees                       List (optional ?status=)
    POST   /api/employees                       Create employee
    GET    /api/employees/{id}                  Get employee
    GET    /api/employees/{id}/status           Lifecycle overview
    GET    /api/employees/{id}/events           Event history

  Onboarding:
    POST   /api/employees/{id}/onboarding/tasks     Record a task flag
    POST   /api/employees/{id}/onboarding/complete  Transition to active
    GET    /api/employees/{id}/onboarding           Progress view

  Offboarding:
    POST   /api/employees/{id}/exit                 Initiate exit
    POST   /api/employees/{id}/offboarding/tasks    Record a task flag
    POST   /api/employees/{id}/offboarding/complete Transition to exited
    POST   /api/employees/{id}/settlement           Compute FnF
    POST   /api/employees/{id}/notice               Evaluate a notice window
    GET    /api/employees/{id}/offboarding          Progress view

  Documents / assets / access:
    POST   /api/employees/{id}/documents        Record a submission
    GET    /api/employees/{id}/documents        Completeness view
    POST   /api/employees/{id}/assets           Issue an asset
    POST   /api/employees/{id}/assets/{assetID}/return
    GET    /api/employees/{id}/assets           Asset roll-up
    POST   /api/employees/{id}/access/grant     Grant one platform
    POST   /api/employees/{id}/access/revoke    Revoke one platform
    GET    /api/employees/{id}/access           Access roll-up

ERROR HANDLING:
  Engine errors map to HTTP statuses via the error predicates:
  - 400: not-parseable request bodies and dates
  - 404: unknown employee / checklist
  - 409: duplicates, re-entrant transitions, wrong lifecycle state
  - 422: validation and checklist-gate violations
  - 500: everything else

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine   *lifecycle.Engine
	Notifier lifecycle.NotificationPort
}

// NewHandler creates a new handler.
func NewHandler(engine *lifecycle.Engine, notifier lifecycle.NotificationPort) *Handler {
	return &Handler{Engine: engine, Notifier: notifier}
}

// dispatch hands events to the notification port. Delivery failures are
// logged, not surfaced: the state change has already committed and the
// event log holds the record for retries.
func (h *Handler) dispatch(ctx context.Context, events []lifecycle.Event) {
	if h.Notifier == nil || len(events) == 0 {
		return
	}
	if err := h.Notifier.Dispatch(ctx, events); err != nil {
		log.Printf("[API] notification dispatch failed: %v", err)
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees, optionally filtered by ?status=.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	var status *lifecycle.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := lifecycle.ParseStatus(raw)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		status = &parsed
	}

	employees, err := h.Engine.ListEmployees(r.Context(), status)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Engine.GetEmployee(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee registers a new employee in onboarding.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category, err := lifecycle.ParseCategory(req.Category)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	joining, err := parseDate(req.JoiningDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid joining_date format (use YYYY-MM-DD)", err)
		return
	}
	comp, err := parseCompensation(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	emp, events, err := h.Engine.CreateEmployee(r.Context(), lifecycle.NewEmployeeInput{
		Code:             req.Code,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Category:         category,
		JoiningDate:      joining,
		Department:       req.Department,
		Designation:      req.Designation,
		Manager:          req.Manager,
		Compensation:     comp,
		NoticePeriodDays: req.NoticePeriodDays,
		ProbationMonths:  req.ProbationMonths,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.dispatch(r.Context(), events)

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetLifecycleStatus returns the one-call overview.
func (h *Handler) GetLifecycleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Engine.GetLifecycleStatus(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ListEvents returns the employee's event history.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Engine.ListEvents(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if events == nil {
		events = []lifecycle.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// =============================================================================
// ONBOARDING HANDLERS
// =============================================================================

// RecordOnboardingTask sets or clears one onboarding flag.
func (h *Handler) RecordOnboardingTask(w http.ResponseWriter, r *http.Request) {
	var req RecordTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	task, err := lifecycle.ParseOnboardingTask(req.Task)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	events, err := h.Engine.RecordOnboardingTask(r.Context(), employeeID(r), task, req.Done)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.dispatch(r.Context(), events)

	h.writeOnboardingProgress(w, r)
}

// CompleteOnboarding transitions onboarding -> active.
func (h *Handler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	events, err := h.Engine.CompleteOnboarding(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.dispatch(r.Context(), events)

	emp, err := h.Engine.GetEmployee(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// GetOnboardingProgress returns the checklist progress view.
func (h *Handler) GetOnboardingProgress(w http.ResponseWriter, r *http.Request) {
	h.writeOnboardingProgress(w, r)
}

func (h *Handler) writeOnboardingProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.Engine.GetOnboardingProgress(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// =============================================================================
// OFFBOARDING HANDLERS
// =============================================================================

// InitiateExit starts offboarding.
func (h *Handler) InitiateExit(w http.ResponseWriter, r *http.Request) {
	var req InitiateExitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	exitType, err := lifecycle.ParseExitType(req.ExitType)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	resignation, err := parseDate(req.ResignationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid resignation_date format (use YYYY-MM-DD)", err)
		return
	}
	lwd, err := parseDate(req.LastWorkingDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid last_working_day format (use YYYY-MM-DD)", err)
		return
	}

	events, err := h.Engine.InitiateExit(r.Context(), lifecycle.InitiateExitInput{
		EmployeeID:      employeeID(r),
		ExitType:        exitType,
		Reason:          req.Reason,
		ResignationDate: resignation,
		LastWorkingDay:  lwd,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.dispatch(r.Context(), events)

	h.writeOffboardingProgress(w, r)
}

// RecordOffboardingTask sets or clears one offboarding flag.
func (h *Handler) RecordOffboardingTask(w http.ResponseWriter, r *http.Request) {
	var req RecordTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	task, err := lifecycle.ParseOffboardingTask(req.Task)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	events, err := h.Engine.RecordOffboardingTask(r.Context(), employeeID(r), task, req.Done,
		lifecycle.RecordOptions{DuesSettledOverride: req.DuesSettledOverride})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.dispatch(r.Context(), events)

	h.writeOffboardingProgress(w, r)
}

// CompleteOffboarding transitions offboarding -> exited.
func (h *Handler) CompleteOffboarding(w http.ResponseWriter, r *http.Request) {
	events, err := h.Engine.CompleteOffboarding(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.dispatch(r.Context(), events)

	emp, err := h.Engine.GetEmployee(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// ComputeSettlement runs the full-and-final calculation.
func (h *Handler) ComputeSettlement(w http.ResponseWriter, r *http.Request) {
	var req SettlementRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var settlementReq lifecycle.SettlementRequest
	if req.LastSalaryDate != "" {
		t, err := parseDate(req.LastSalaryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid last_salary_date format (use YYYY-MM-DD)", err)
			return
		}
		settlementReq.LastSalaryDate = &t
	}
	var err error
	if settlementReq.LeaveBalanceDays, err = parseDecimal(req.LeaveBalanceDays); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave_balance_days", err)
		return
	}
	if settlementReq.NoticeRecovery, err = parseDecimal(req.NoticeRecovery); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notice_recovery", err)
		return
	}
	if settlementReq.OtherDeductions, err = parseDecimal(req.OtherDeductions); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid other_deductions", err)
		return
	}

	settlement, events, err := h.Engine.ComputeSettlement(r.Context(), employeeID(r), settlementReq)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.dispatch(r.Context(), events)

	writeJSON(w, http.StatusOK, toSettlementDTO(settlement))
}

// ComputeNotice evaluates a proposed exit window without changing state.
func (h *Handler) ComputeNotice(w http.ResponseWriter, r *http.Request) {
	var req NoticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	resignation, err := parseDate(req.ResignationDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid resignation_date format (use YYYY-MM-DD)", err)
		return
	}
	lwd, err := parseDate(req.LastWorkingDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid last_working_day format (use YYYY-MM-DD)", err)
		return
	}

	evaluation, err := h.Engine.ComputeNoticePeriod(r.Context(), employeeID(r), resignation, lwd)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}

// GetOffboardingProgress returns the exit checklist progress view.
func (h *Handler) GetOffboardingProgress(w http.ResponseWriter, r *http.Request) {
	h.writeOffboardingProgress(w, r)
}

func (h *Handler) writeOffboardingProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.Engine.GetOffboardingProgress(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// =============================================================================
// DOCUMENT HANDLERS
// =============================================================================

// RecordDocument records one submitted document name.
func (h *Handler) RecordDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	events, err := h.Engine.RecordDocumentSubmission(r.Context(), employeeID(r), req.Name)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	h.dispatch(r.Context(), events)

	h.writeDocumentCompleteness(w, r)
}

// GetDocumentCompleteness returns the completeness evaluation.
func (h *Handler) GetDocumentCompleteness(w http.ResponseWriter, r *http.Request) {
	h.writeDocumentCompleteness(w, r)
}

func (h *Handler) writeDocumentCompleteness(w http.ResponseWriter, r *http.Request) {
	evaluation, err := h.Engine.GetDocumentCompleteness(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}

// =============================================================================
// ASSET AND ACCESS HANDLERS
// =============================================================================

// IssueAsset records an asset handed to the employee.
func (h *Handler) IssueAsset(w http.ResponseWriter, r *http.Request) {
	var req AssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	asset, err := h.Engine.IssueAsset(r.Context(), employeeID(r), req.Name)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// ReturnAsset marks an issued asset as returned.
func (h *Handler) ReturnAsset(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")
	if err := h.Engine.ReturnAsset(r.Context(), employeeID(r), assetID); err != nil {
		writeEngineError(w, err)
		return
	}
	h.writeAssetSummary(w, r)
}

// GetAssetSummary returns the issued/returned roll-up.
func (h *Handler) GetAssetSummary(w http.ResponseWriter, r *http.Request) {
	h.writeAssetSummary(w, r)
}

func (h *Handler) writeAssetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Engine.GetAssetSummary(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GrantAccess flips one platform row to granted.
func (h *Handler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	h.setAccess(w, r, h.Engine.GrantAccess)
}

// RevokeAccess flips one platform row to revoked.
func (h *Handler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	h.setAccess(w, r, h.Engine.RevokeAccess)
}

func (h *Handler) setAccess(w http.ResponseWriter, r *http.Request, op func(context.Context, lifecycle.EmployeeID, string) error) {
	var req AccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := op(r.Context(), employeeID(r), req.Platform); err != nil {
		writeEngineError(w, err)
		return
	}
	h.writeAccessSummary(w, r)
}

// GetAccessSummary returns the per-platform roll-up.
func (h *Handler) GetAccessSummary(w http.ResponseWriter, r *http.Request) {
	h.writeAccessSummary(w, r)
}

func (h *Handler) writeAccessSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Engine.GetAccessSummary(r.Context(), employeeID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeID(r *http.Request) lifecycle.EmployeeID {
	return lifecycle.EmployeeID(chi.URLParam(r, "id"))
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseCompensation(req CreateEmployeeRequest) (lifecycle.Compensation, error) {
	var comp lifecycle.Compensation
	var err error
	if comp.AnnualCTC, err = parseDecimal(req.AnnualCTC); err != nil {
		return comp, &lifecycle.ValidationError{Field: "annual_ctc", Reason: "not a number"}
	}
	if comp.MonthlyStipend, err = parseDecimal(req.MonthlyStipend); err != nil {
		return comp, &lifecycle.ValidationError{Field: "monthly_stipend", Reason: "not a number"}
	}
	if comp.HourlyRate, err = parseDecimal(req.HourlyRate); err != nil {
		return comp, &lifecycle.ValidationError{Field: "hourly_rate", Reason: "not a number"}
	}
	return comp, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeEngineError maps engine error categories to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case lifecycle.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case lifecycle.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case lifecycle.IsClientError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
