/*
handlers_test.go - HTTP-level tests for the lifecycle API

Runs requests through the real chi router against the in-memory store:
status-code mapping, JSON shapes, and the post-commit notification path.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidhr/lifecycle-engine/factory"
	"github.com/rapidhr/lifecycle-engine/lifecycle"
	memstore "github.com/rapidhr/lifecycle-engine/lifecycle/store"
	"github.com/rapidhr/lifecycle-engine/notify"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testAPI struct {
	router   http.Handler
	engine   *lifecycle.Engine
	recorder *notify.Recorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	engine := lifecycle.NewEngine(memstore.NewMemory(), factory.Defaults())
	engine.Clock = func() time.Time {
		return time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	}
	recorder := notify.NewRecorder()
	return &testAPI{
		router:   NewRouter(NewHandler(engine, recorder)),
		engine:   engine,
		recorder: recorder,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func (a *testAPI) createEmployee(t *testing.T, code string) EmployeeDTO {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/employees", CreateEmployeeRequest{
		Code:        code,
		FirstName:   "Asha",
		LastName:    "Menon",
		Email:       code + "@rapidhr.test",
		Category:    "full_time",
		JoiningDate: "2020-01-06",
		AnnualCTC:   "1200000",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	return decodeBody[EmployeeDTO](t, w)
}

func (a *testAPI) recordAllOnboarding(t *testing.T, id string) {
	t.Helper()
	profile, err := factory.Defaults().Profile(lifecycle.CategoryFullTime)
	require.NoError(t, err)
	for _, task := range lifecycle.RequiredOnboardingTasks(profile) {
		w := a.do(t, http.MethodPost, "/api/employees/"+id+"/onboarding/tasks",
			RecordTaskRequest{Task: string(task), Done: true})
		require.Equal(t, http.StatusOK, w.Code, "task %s: %s", task, w.Body.String())
	}
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

func TestAPI_CreateEmployee(t *testing.T) {
	// GIVEN: A valid create request
	// WHEN: POSTing to /api/employees
	// THEN: 201 with the employee DTO, and the created event is dispatched

	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")

	assert.NotEmpty(t, emp.ID)
	assert.Equal(t, "Asha Menon", emp.Name)
	assert.Equal(t, "onboarding", emp.Status)
	assert.Equal(t, "2020-01-06", emp.JoiningDate)

	created := api.recorder.OfType(lifecycle.EventEmployeeCreated)
	require.Len(t, created, 1)
	assert.Equal(t, lifecycle.EmployeeID(emp.ID), created[0].EmployeeID)
}

func TestAPI_CreateEmployee_ErrorMapping(t *testing.T) {
	api := newTestAPI(t)
	api.createEmployee(t, "RI0001")

	// 409 on duplicate code.
	w := api.do(t, http.MethodPost, "/api/employees", CreateEmployeeRequest{
		Code: "RI0001", FirstName: "Dup", Email: "dup@rapidhr.test",
		Category: "full_time", JoiningDate: "2024-01-01", AnnualCTC: "500000",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 422 on unknown category.
	w = api.do(t, http.MethodPost, "/api/employees", CreateEmployeeRequest{
		Code: "RI0002", FirstName: "X", Email: "x@rapidhr.test",
		Category: "gig_worker", JoiningDate: "2024-01-01", AnnualCTC: "500000",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// 400 on unparseable date.
	w = api.do(t, http.MethodPost, "/api/employees", CreateEmployeeRequest{
		Code: "RI0003", FirstName: "X", Email: "x2@rapidhr.test",
		Category: "full_time", JoiningDate: "06-01-2020", AnnualCTC: "500000",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 400 on malformed body.
	req := httptest.NewRequest(http.MethodPost, "/api/employees", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GetEmployee_NotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/employees/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeBody[ErrorResponse](t, w)
	assert.Contains(t, resp.Error, "not found")
}

func TestAPI_ListEmployees_StatusFilter(t *testing.T) {
	api := newTestAPI(t)
	api.createEmployee(t, "RI0001")
	api.createEmployee(t, "RI0002")

	w := api.do(t, http.MethodGet, "/api/employees?status=onboarding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]EmployeeDTO](t, w), 2)

	w = api.do(t, http.MethodGet, "/api/employees?status=active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[[]EmployeeDTO](t, w))

	w = api.do(t, http.MethodGet, "/api/employees?status=retired", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// =============================================================================
// ONBOARDING ENDPOINTS
// =============================================================================

func TestAPI_OnboardingFlow(t *testing.T) {
	// GIVEN: A new employee
	// WHEN: Recording a gated task out of order, then in order, then completing
	// THEN: 422 for the gate violation, 200s afterwards, final status active

	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")
	base := "/api/employees/" + emp.ID

	w := api.do(t, http.MethodPost, base+"/onboarding/tasks",
		RecordTaskRequest{Task: "documents_verified", Done: true})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Completing early names the missing work.
	w = api.do(t, http.MethodPost, base+"/onboarding/complete", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	api.recordAllOnboarding(t, emp.ID)

	w = api.do(t, http.MethodPost, base+"/onboarding/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", decodeBody[EmployeeDTO](t, w).Status)

	// Progress view reflects the frozen checklist.
	w = api.do(t, http.MethodGet, base+"/onboarding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := decodeBody[lifecycle.OnboardingProgress](t, w)
	assert.Equal(t, 100.0, progress.Percent)
	assert.True(t, progress.Completed)
}

func TestAPI_OnboardingTask_UnknownName(t *testing.T) {
	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")

	w := api.do(t, http.MethodPost, "/api/employees/"+emp.ID+"/onboarding/tasks",
		RecordTaskRequest{Task: "coffee_with_team", Done: true})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// =============================================================================
// OFFBOARDING ENDPOINTS
// =============================================================================

func exitRequest() InitiateExitRequest {
	return InitiateExitRequest{
		ExitType:        "resignation",
		Reason:          "new role",
		ResignationDate: "2026-06-01",
		LastWorkingDay:  "2026-07-01",
	}
}

func TestAPI_ExitFlow(t *testing.T) {
	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")
	base := "/api/employees/" + emp.ID
	api.recordAllOnboarding(t, emp.ID)
	require.Equal(t, http.StatusOK, api.do(t, http.MethodPost, base+"/onboarding/complete", nil).Code)

	// Initiating the exit returns the offboarding progress view.
	w := api.do(t, http.MethodPost, base+"/exit", exitRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	progress := decodeBody[lifecycle.OffboardingProgress](t, w)
	assert.Equal(t, 30, progress.RequiredNoticeDays)
	assert.False(t, progress.ShortNotice)
	assert.Len(t, progress.Missing, 6)

	// Re-initiating is a conflict.
	w = api.do(t, http.MethodPost, base+"/exit", exitRequest())
	assert.Equal(t, http.StatusConflict, w.Code)

	// Settlement before its gates is 422.
	w = api.do(t, http.MethodPost, base+"/settlement", SettlementRequestDTO{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	for _, task := range []string{"knowledge_transfer", "assets_returned"} {
		w = api.do(t, http.MethodPost, base+"/offboarding/tasks", RecordTaskRequest{Task: task, Done: true})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = api.do(t, http.MethodPost, base+"/settlement", SettlementRequestDTO{
		LastSalaryDate:   "2026-06-01",
		LeaveBalanceDays: "10",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	settlement := decodeBody[SettlementDTO](t, w)
	assert.Equal(t, "100000", settlement.PendingSalary, "one 30-day month of CTC 1,200,000")
	assert.NotEmpty(t, settlement.NetAmount)

	// Finish the checklist and exit.
	for _, task := range []string{"manager_approval", "access_revoked", "fnf_processed", "experience_letter_issued"} {
		w = api.do(t, http.MethodPost, base+"/offboarding/tasks", RecordTaskRequest{Task: task, Done: true})
		require.Equal(t, http.StatusOK, w.Code, "task %s: %s", task, w.Body.String())
	}
	w = api.do(t, http.MethodPost, base+"/offboarding/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "exited", decodeBody[EmployeeDTO](t, w).Status)

	exited := api.recorder.OfType(lifecycle.EventEmployeeExited)
	assert.Len(t, exited, 1)
}

func TestAPI_Exit_FromOnboarding_Conflict(t *testing.T) {
	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")

	w := api.do(t, http.MethodPost, "/api/employees/"+emp.ID+"/exit", exitRequest())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAPI_Notice(t *testing.T) {
	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")

	w := api.do(t, http.MethodPost, "/api/employees/"+emp.ID+"/notice", NoticeRequest{
		ResignationDate: "2026-06-01",
		LastWorkingDay:  "2026-06-16",
	})
	require.Equal(t, http.StatusOK, w.Code)
	ev := decodeBody[lifecycle.NoticeEvaluation](t, w)
	assert.Equal(t, 15, ev.ActualDays)
	assert.Equal(t, 30, ev.RequiredDays, "6+ years of tenure means confirmed notice")
	assert.True(t, ev.ShortNotice)
}

// =============================================================================
// DOCUMENTS, ASSETS, ACCESS
// =============================================================================

func TestAPI_Documents(t *testing.T) {
	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")
	base := "/api/employees/" + emp.ID + "/documents"

	w := api.do(t, http.MethodPost, base, DocumentRequest{Name: "PAN Card"})
	require.Equal(t, http.StatusOK, w.Code)
	ev := decodeBody[lifecycle.DocumentEvaluation](t, w)
	assert.Equal(t, 1, ev.SubmittedCount)
	assert.Equal(t, "pending", string(ev.Status))

	// Empty names are a validation failure.
	w = api.do(t, http.MethodPost, base, DocumentRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAPI_AssetsAndAccess(t *testing.T) {
	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")
	base := "/api/employees/" + emp.ID

	w := api.do(t, http.MethodPost, base+"/assets", AssetRequest{Name: "MacBook Pro"})
	require.Equal(t, http.StatusCreated, w.Code)
	asset := decodeBody[lifecycle.Asset](t, w)

	w = api.do(t, http.MethodPost, fmt.Sprintf("%s/assets/%s/return", base, asset.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decodeBody[lifecycle.AssetSummary](t, w)
	assert.Equal(t, 1, summary.Returned)

	w = api.do(t, http.MethodPost, base+"/access/grant", AccessRequest{Platform: "Gmail"})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, base+"/access/revoke", AccessRequest{Platform: "Gmail"})
	require.Equal(t, http.StatusOK, w.Code)

	// Unknown platform rows are 404s.
	w = api.do(t, http.MethodPost, base+"/access/grant", AccessRequest{Platform: "Netflix"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// =============================================================================
// STATUS AND EVENTS
// =============================================================================

func TestAPI_LifecycleStatusAndEvents(t *testing.T) {
	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")
	base := "/api/employees/" + emp.ID

	w := api.do(t, http.MethodGet, base+"/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decodeBody[lifecycle.LifecycleStatus](t, w)
	assert.Equal(t, lifecycle.StatusOnboarding, status.Status)
	require.NotNil(t, status.OnboardingPercent)
	assert.Equal(t, 0.0, *status.OnboardingPercent)
	assert.Nil(t, status.OffboardingPercent)

	w = api.do(t, http.MethodGet, base+"/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := decodeBody[[]lifecycle.Event](t, w)
	require.Len(t, events, 1)
	assert.Equal(t, lifecycle.EventEmployeeCreated, events[0].Type)
}

func TestAPI_Health(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// =============================================================================
// SCHEDULER
// =============================================================================

func TestScheduler_RemindsStalledChecklists(t *testing.T) {
	// GIVEN: One onboarding employee with missing tasks
	// WHEN: The scheduler scans
	// THEN: A reminder_due event reaches the notifier (and only the notifier -
	//       reminders are not written to the event log)

	api := newTestAPI(t)
	emp := api.createEmployee(t, "RI0001")

	scheduler := NewReminderScheduler(api.engine, api.recorder)
	scheduler.RunNow()

	reminders := api.recorder.OfType(lifecycle.EventReminderDue)
	require.NotEmpty(t, reminders)
	assert.Equal(t, lifecycle.EmployeeID(emp.ID), reminders[0].EmployeeID)
	assert.Equal(t, "onboarding", reminders[0].Payload["phase"])

	events, err := api.engine.ListEvents(context.Background(), lifecycle.EmployeeID(emp.ID))
	require.NoError(t, err)
	for _, ev := range events {
		assert.NotEqual(t, lifecycle.EventReminderDue, ev.Type, "reminders never hit the event log")
	}
}
