/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements lifecycle.UnitOfWork and all repository interfaces using SQLite.
  In production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  employees:               Lifecycle records (never hard-deleted)
  onboarding_checklists:   One row per employee in/through onboarding
  onboarding_tasks:        One row per recorded onboarding flag
  offboarding_checklists:  One row per initiated exit
  offboarding_tasks:       One row per recorded offboarding flag
  documents:               Submitted-document record (names as JSON)
  assets:                  Issued items with optional return timestamp
  system_access:           One row per employee+platform grant
  event_log:               Append-only record of emitted events

TRANSACTIONS:
  Every engine operation runs inside WithTx: a single BEGIN..COMMIT with
  rollback on error. Combined with the mutex this gives the single-writer
  guarantee SQLite needs anyway.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/lifecycle.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := lifecycle.NewEngine(store, factory.Defaults())

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - lifecycle/store.go: Interface definitions
  - lifecycle/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// Store implements lifecycle.UnitOfWork backed by SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT,
		email TEXT NOT NULL,
		category TEXT NOT NULL,
		status TEXT NOT NULL,
		joining_date TEXT NOT NULL,
		department TEXT,
		designation TEXT,
		manager TEXT,
		annual_ctc TEXT NOT NULL DEFAULT '0',
		monthly_stipend TEXT NOT NULL DEFAULT '0',
		hourly_rate TEXT NOT NULL DEFAULT '0',
		notice_period INTEGER NOT NULL DEFAULT 0,
		probation_months INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_status ON employees(status);
	CREATE INDEX IF NOT EXISTS idx_employees_category ON employees(category);

	-- Code and email are unique among live records only. Exited employees
	-- keep their rows but release both identifiers, so a rehire can reuse them.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_live_code
		ON employees(code) WHERE status != 'exited';
	CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_live_email
		ON employees(email) WHERE status != 'exited';

	CREATE TABLE IF NOT EXISTS onboarding_checklists (
		employee_id TEXT PRIMARY KEY REFERENCES employees(id),
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS onboarding_tasks (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		task TEXT NOT NULL,
		marked_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, task)
	);

	CREATE TABLE IF NOT EXISTS offboarding_checklists (
		employee_id TEXT PRIMARY KEY REFERENCES employees(id),
		resignation_date TEXT NOT NULL,
		last_working_day TEXT NOT NULL,
		exit_type TEXT NOT NULL,
		exit_reason TEXT,
		actual_notice_days INTEGER NOT NULL,
		required_notice_days INTEGER NOT NULL,
		short_notice BOOLEAN NOT NULL,
		fnf_amount TEXT,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS offboarding_tasks (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		task TEXT NOT NULL,
		marked_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, task)
	);

	CREATE TABLE IF NOT EXISTS documents (
		employee_id TEXT PRIMARY KEY REFERENCES employees(id),
		submitted_json TEXT NOT NULL DEFAULT '[]',
		collected_override BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		name TEXT NOT NULL,
		issued_at TEXT NOT NULL,
		returned_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_assets_employee ON assets(employee_id);

	CREATE TABLE IF NOT EXISTS system_access (
		employee_id TEXT NOT NULL REFERENCES employees(id),
		platform TEXT NOT NULL,
		granted BOOLEAN NOT NULL DEFAULT FALSE,
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, platform)
	);

	-- Append-only record of emitted events, for external delivery retry.
	CREATE TABLE IF NOT EXISTS event_log (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		type TEXT NOT NULL,
		occurred_at TEXT NOT NULL,
		payload_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_event_log_employee ON event_log(employee_id, occurred_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// UNIT OF WORK
// =============================================================================

// WithTx executes fn within one database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(lifecycle.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	repos := lifecycle.Repositories{
		Employees:  &employeeRepo{tx: sqlTx},
		Checklists: &checklistRepo{tx: sqlTx},
		Documents:  &documentRepo{tx: sqlTx},
		Assets:     &assetRepo{tx: sqlTx},
		Access:     &accessRepo{tx: sqlTx},
		Events:     &eventLog{tx: sqlTx},
	}
	if err := fn(repos); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// =============================================================================
// EMPLOYEE REPOSITORY
// =============================================================================

type employeeRepo struct {
	tx *sql.Tx
}

const employeeColumns = `id, code, first_name, last_name, email, category, status,
	joining_date, department, designation, manager,
	annual_ctc, monthly_stipend, hourly_rate,
	notice_period, probation_months, created_at, updated_at`

func (r *employeeRepo) Create(ctx context.Context, e *lifecycle.Employee) error {
	query := `
		INSERT INTO employees (` + employeeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.tx.ExecContext(ctx, query,
		string(e.ID), e.Code, e.FirstName, e.LastName, e.Email,
		string(e.Category), string(e.Status),
		e.JoiningDate.Format(time.RFC3339),
		e.Department, e.Designation, e.Manager,
		e.Compensation.AnnualCTC.String(),
		e.Compensation.MonthlyStipend.String(),
		e.Compensation.HourlyRate.String(),
		e.NoticePeriod, e.ProbationMonths,
		e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return &lifecycle.DuplicateEmployeeError{Code: e.Code, Email: e.Email}
	}
	return err
}

func (r *employeeRepo) Get(ctx context.Context, id lifecycle.EmployeeID) (*lifecycle.Employee, error) {
	row := r.tx.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = ?", string(id))
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, &lifecycle.NotFoundError{Kind: "employee", ID: id}
	}
	return e, err
}

// FindConflict matches live records only, mirroring the partial unique
// indexes: an exited employee never blocks a rehire.
func (r *employeeRepo) FindConflict(ctx context.Context, code, email string) (*lifecycle.Employee, error) {
	row := r.tx.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE (code = ? OR email = ?) AND status != ? LIMIT 1",
		code, email, string(lifecycle.StatusExited))
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *employeeRepo) Update(ctx context.Context, e *lifecycle.Employee) error {
	query := `
		UPDATE employees SET
			first_name = ?, last_name = ?, email = ?, category = ?, status = ?,
			joining_date = ?, department = ?, designation = ?, manager = ?,
			annual_ctc = ?, monthly_stipend = ?, hourly_rate = ?,
			notice_period = ?, probation_months = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := r.tx.ExecContext(ctx, query,
		e.FirstName, e.LastName, e.Email, string(e.Category), string(e.Status),
		e.JoiningDate.Format(time.RFC3339),
		e.Department, e.Designation, e.Manager,
		e.Compensation.AnnualCTC.String(),
		e.Compensation.MonthlyStipend.String(),
		e.Compensation.HourlyRate.String(),
		e.NoticePeriod, e.ProbationMonths,
		e.UpdatedAt.Format(time.RFC3339),
		string(e.ID),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &lifecycle.NotFoundError{Kind: "employee", ID: e.ID}
	}
	return nil
}

func (r *employeeRepo) List(ctx context.Context, status *lifecycle.Status) ([]*lifecycle.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees"
	var args []any
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY code"

	rows, err := r.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*lifecycle.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*lifecycle.Employee, error) {
	var (
		e                          lifecycle.Employee
		id, category, status       string
		joining, created, updated  string
		lastName, dept, desig, mgr sql.NullString
		ctc, stipend, hourly       string
	)
	err := row.Scan(
		&id, &e.Code, &e.FirstName, &lastName, &e.Email, &category, &status,
		&joining, &dept, &desig, &mgr,
		&ctc, &stipend, &hourly,
		&e.NoticePeriod, &e.ProbationMonths, &created, &updated,
	)
	if err != nil {
		return nil, err
	}

	e.ID = lifecycle.EmployeeID(id)
	e.LastName = lastName.String
	e.Category = lifecycle.Category(category)
	e.Status = lifecycle.Status(status)
	e.Department = dept.String
	e.Designation = desig.String
	e.Manager = mgr.String
	e.JoiningDate, _ = time.Parse(time.RFC3339, joining)
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	e.Compensation = lifecycle.Compensation{
		AnnualCTC:      mustDecimal(ctc),
		MonthlyStipend: mustDecimal(stipend),
		HourlyRate:     mustDecimal(hourly),
	}
	return &e, nil
}

// =============================================================================
// CHECKLIST REPOSITORY
// =============================================================================

type checklistRepo struct {
	tx *sql.Tx
}

func (r *checklistRepo) SaveOnboarding(ctx context.Context, c *lifecycle.OnboardingChecklist) error {
	query := `
		INSERT INTO onboarding_checklists (employee_id, completed, completed_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			completed = excluded.completed,
			completed_at = excluded.completed_at
	`
	_, err := r.tx.ExecContext(ctx, query,
		string(c.EmployeeID), c.Completed, nullTime(c.CompletedAt),
		c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}
	return r.saveMarks(ctx, "onboarding_tasks", string(c.EmployeeID), onboardingMarks(c))
}

func (r *checklistRepo) GetOnboarding(ctx context.Context, id lifecycle.EmployeeID) (*lifecycle.OnboardingChecklist, error) {
	var (
		c           lifecycle.OnboardingChecklist
		completedAt sql.NullString
		createdAt   string
	)
	err := r.tx.QueryRowContext(ctx,
		"SELECT completed, completed_at, created_at FROM onboarding_checklists WHERE employee_id = ?",
		string(id),
	).Scan(&c.Completed, &completedAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.EmployeeID = id
	c.CompletedAt = parseNullTime(completedAt)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.Marks = make(map[lifecycle.OnboardingTask]time.Time)

	marks, err := r.loadMarks(ctx, "onboarding_tasks", string(id))
	if err != nil {
		return nil, err
	}
	for task, at := range marks {
		c.Marks[lifecycle.OnboardingTask(task)] = at
	}
	return &c, nil
}

func (r *checklistRepo) SaveOffboarding(ctx context.Context, c *lifecycle.OffboardingChecklist) error {
	var fnf *string
	if c.FnFAmount != nil {
		v := c.FnFAmount.String()
		fnf = &v
	}
	query := `
		INSERT INTO offboarding_checklists
		(employee_id, resignation_date, last_working_day, exit_type, exit_reason,
		 actual_notice_days, required_notice_days, short_notice, fnf_amount,
		 completed, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			fnf_amount = excluded.fnf_amount,
			completed = excluded.completed,
			completed_at = excluded.completed_at
	`
	_, err := r.tx.ExecContext(ctx, query,
		string(c.EmployeeID),
		c.ResignationDate.Format(time.RFC3339),
		c.LastWorkingDay.Format(time.RFC3339),
		string(c.ExitType), c.ExitReason,
		c.ActualNoticeDays, c.RequiredNoticeDays, c.ShortNotice,
		fnf, c.Completed, nullTime(c.CompletedAt),
		c.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	return r.saveMarks(ctx, "offboarding_tasks", string(c.EmployeeID), offboardingMarks(c))
}

func (r *checklistRepo) GetOffboarding(ctx context.Context, id lifecycle.EmployeeID) (*lifecycle.OffboardingChecklist, error) {
	var (
		c                lifecycle.OffboardingChecklist
		resignation, lwd string
		exitType         string
		exitReason       sql.NullString
		fnf, completedAt sql.NullString
		createdAt        string
	)
	err := r.tx.QueryRowContext(ctx, `
		SELECT resignation_date, last_working_day, exit_type, exit_reason,
		       actual_notice_days, required_notice_days, short_notice,
		       fnf_amount, completed, completed_at, created_at
		FROM offboarding_checklists WHERE employee_id = ?`,
		string(id),
	).Scan(&resignation, &lwd, &exitType, &exitReason,
		&c.ActualNoticeDays, &c.RequiredNoticeDays, &c.ShortNotice,
		&fnf, &c.Completed, &completedAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.EmployeeID = id
	c.ResignationDate, _ = time.Parse(time.RFC3339, resignation)
	c.LastWorkingDay, _ = time.Parse(time.RFC3339, lwd)
	c.ExitType = lifecycle.ExitType(exitType)
	c.ExitReason = exitReason.String
	c.CompletedAt = parseNullTime(completedAt)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if fnf.Valid {
		amount := mustDecimal(fnf.String)
		c.FnFAmount = &amount
	}
	c.Marks = make(map[lifecycle.OffboardingTask]time.Time)

	marks, err := r.loadMarks(ctx, "offboarding_tasks", string(id))
	if err != nil {
		return nil, err
	}
	for task, at := range marks {
		c.Marks[lifecycle.OffboardingTask(task)] = at
	}
	return &c, nil
}

// saveMarks replaces the task rows for one employee. Delete-and-insert keeps
// the rows exactly in sync with the checklist's mark map.
func (r *checklistRepo) saveMarks(ctx context.Context, table, employeeID string, marks map[string]time.Time) error {
	if _, err := r.tx.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE employee_id = ?", employeeID); err != nil {
		return err
	}
	for task, at := range marks {
		if _, err := r.tx.ExecContext(ctx,
			"INSERT INTO "+table+" (employee_id, task, marked_at) VALUES (?, ?, ?)",
			employeeID, task, at.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}

func (r *checklistRepo) loadMarks(ctx context.Context, table, employeeID string) (map[string]time.Time, error) {
	rows, err := r.tx.QueryContext(ctx,
		"SELECT task, marked_at FROM "+table+" WHERE employee_id = ?", employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	marks := make(map[string]time.Time)
	for rows.Next() {
		var task, markedAt string
		if err := rows.Scan(&task, &markedAt); err != nil {
			return nil, err
		}
		at, _ := time.Parse(time.RFC3339, markedAt)
		marks[task] = at
	}
	return marks, rows.Err()
}

func onboardingMarks(c *lifecycle.OnboardingChecklist) map[string]time.Time {
	out := make(map[string]time.Time, len(c.Marks))
	for task, at := range c.Marks {
		out[string(task)] = at
	}
	return out
}

func offboardingMarks(c *lifecycle.OffboardingChecklist) map[string]time.Time {
	out := make(map[string]time.Time, len(c.Marks))
	for task, at := range c.Marks {
		out[string(task)] = at
	}
	return out
}

// =============================================================================
// DOCUMENT REPOSITORY
// =============================================================================

type documentRepo struct {
	tx *sql.Tx
}

func (r *documentRepo) Save(ctx context.Context, d *lifecycle.DocumentRecord) error {
	submitted, _ := json.Marshal(d.Submitted)
	query := `
		INSERT INTO documents (employee_id, submitted_json, collected_override, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			submitted_json = excluded.submitted_json,
			collected_override = excluded.collected_override,
			updated_at = excluded.updated_at
	`
	var updatedAt *string
	if !d.UpdatedAt.IsZero() {
		v := d.UpdatedAt.Format(time.RFC3339)
		updatedAt = &v
	}
	_, err := r.tx.ExecContext(ctx, query,
		string(d.EmployeeID), string(submitted), d.CollectedOverride, updatedAt)
	return err
}

func (r *documentRepo) Get(ctx context.Context, id lifecycle.EmployeeID) (*lifecycle.DocumentRecord, error) {
	var (
		d             lifecycle.DocumentRecord
		submittedJSON string
		updatedAt     sql.NullString
	)
	err := r.tx.QueryRowContext(ctx,
		"SELECT submitted_json, collected_override, updated_at FROM documents WHERE employee_id = ?",
		string(id),
	).Scan(&submittedJSON, &d.CollectedOverride, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	d.EmployeeID = id
	json.Unmarshal([]byte(submittedJSON), &d.Submitted)
	if t := parseNullTime(updatedAt); t != nil {
		d.UpdatedAt = *t
	}
	return &d, nil
}

// =============================================================================
// ASSET REPOSITORY
// =============================================================================

type assetRepo struct {
	tx *sql.Tx
}

func (r *assetRepo) Issue(ctx context.Context, a *lifecycle.Asset) error {
	_, err := r.tx.ExecContext(ctx,
		"INSERT INTO assets (id, employee_id, name, issued_at, returned_at) VALUES (?, ?, ?, ?, ?)",
		a.ID, string(a.EmployeeID), a.Name,
		a.IssuedAt.Format(time.RFC3339), nullTime(a.ReturnedAt))
	return err
}

func (r *assetRepo) MarkReturned(ctx context.Context, id lifecycle.EmployeeID, assetID string, at time.Time) error {
	res, err := r.tx.ExecContext(ctx,
		"UPDATE assets SET returned_at = ? WHERE id = ? AND employee_id = ?",
		at.Format(time.RFC3339), assetID, string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &lifecycle.NotFoundError{Kind: "asset", ID: id}
	}
	return nil
}

func (r *assetRepo) ListByEmployee(ctx context.Context, id lifecycle.EmployeeID) ([]*lifecycle.Asset, error) {
	rows, err := r.tx.QueryContext(ctx,
		"SELECT id, name, issued_at, returned_at FROM assets WHERE employee_id = ? ORDER BY issued_at",
		string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*lifecycle.Asset
	for rows.Next() {
		var (
			a          lifecycle.Asset
			issuedAt   string
			returnedAt sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Name, &issuedAt, &returnedAt); err != nil {
			return nil, err
		}
		a.EmployeeID = id
		a.IssuedAt, _ = time.Parse(time.RFC3339, issuedAt)
		a.ReturnedAt = parseNullTime(returnedAt)
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

// =============================================================================
// ACCESS REPOSITORY
// =============================================================================

type accessRepo struct {
	tx *sql.Tx
}

func (r *accessRepo) Seed(ctx context.Context, id lifecycle.EmployeeID, platforms []string, at time.Time) error {
	for _, p := range platforms {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO system_access (employee_id, platform, granted, revoked, updated_at)
			VALUES (?, ?, FALSE, FALSE, ?)
			ON CONFLICT(employee_id, platform) DO NOTHING`,
			string(id), p, at.Format(time.RFC3339))
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *accessRepo) SetGranted(ctx context.Context, id lifecycle.EmployeeID, platform string, at time.Time) error {
	return r.set(ctx, id, platform, "granted", at)
}

func (r *accessRepo) SetRevoked(ctx context.Context, id lifecycle.EmployeeID, platform string, at time.Time) error {
	return r.set(ctx, id, platform, "revoked", at)
}

func (r *accessRepo) set(ctx context.Context, id lifecycle.EmployeeID, platform, column string, at time.Time) error {
	res, err := r.tx.ExecContext(ctx,
		"UPDATE system_access SET "+column+" = TRUE, updated_at = ? WHERE employee_id = ? AND platform = ?",
		at.Format(time.RFC3339), string(id), platform)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &lifecycle.NotFoundError{Kind: "platform access", ID: id}
	}
	return nil
}

func (r *accessRepo) ListByEmployee(ctx context.Context, id lifecycle.EmployeeID) ([]lifecycle.PlatformAccess, error) {
	rows, err := r.tx.QueryContext(ctx,
		"SELECT platform, granted, revoked, updated_at FROM system_access WHERE employee_id = ? ORDER BY platform",
		string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lifecycle.PlatformAccess
	for rows.Next() {
		var (
			pa        lifecycle.PlatformAccess
			updatedAt string
		)
		if err := rows.Scan(&pa.Platform, &pa.Granted, &pa.Revoked, &updatedAt); err != nil {
			return nil, err
		}
		pa.EmployeeID = id
		pa.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, pa)
	}
	return out, rows.Err()
}

// =============================================================================
// EVENT LOG
// =============================================================================

type eventLog struct {
	tx *sql.Tx
}

func (r *eventLog) Append(ctx context.Context, events []lifecycle.Event) error {
	for _, ev := range events {
		payload, _ := json.Marshal(ev.Payload)
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO event_log (id, employee_id, type, occurred_at, payload_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ev.ID, string(ev.EmployeeID), string(ev.Type),
			ev.OccurredAt.Format(time.RFC3339), string(payload),
			time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *eventLog) ListByEmployee(ctx context.Context, id lifecycle.EmployeeID) ([]lifecycle.Event, error) {
	rows, err := r.tx.QueryContext(ctx, `
		SELECT id, type, occurred_at, payload_json FROM event_log
		WHERE employee_id = ? ORDER BY occurred_at ASC, created_at ASC`,
		string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []lifecycle.Event
	for rows.Next() {
		var (
			ev          lifecycle.Event
			evType      string
			occurredAt  string
			payloadJSON sql.NullString
		)
		if err := rows.Scan(&ev.ID, &evType, &occurredAt, &payloadJSON); err != nil {
			return nil, err
		}
		ev.EmployeeID = id
		ev.Type = lifecycle.EventType(evType)
		ev.OccurredAt, _ = time.Parse(time.RFC3339, occurredAt)
		if payloadJSON.Valid && payloadJSON.String != "" && payloadJSON.String != "null" {
			json.Unmarshal([]byte(payloadJSON.String), &ev.Payload)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
