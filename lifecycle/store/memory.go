// Package store provides an in-memory UnitOfWork implementation
// for testing and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory holds all engine state in maps. It implements lifecycle.UnitOfWork;
// transactions are simulated with a snapshot + rollback on error. Every read
// and write copies, so state mutated inside a rolled-back scope never leaks.
type Memory struct {
	mu sync.Mutex

	employees   map[lifecycle.EmployeeID]*lifecycle.Employee
	onboarding  map[lifecycle.EmployeeID]*lifecycle.OnboardingChecklist
	offboarding map[lifecycle.EmployeeID]*lifecycle.OffboardingChecklist
	documents   map[lifecycle.EmployeeID]*lifecycle.DocumentRecord
	assets      map[lifecycle.EmployeeID][]*lifecycle.Asset
	access      map[lifecycle.EmployeeID][]lifecycle.PlatformAccess
	events      map[lifecycle.EmployeeID][]lifecycle.Event
}

func NewMemory() *Memory {
	return &Memory{
		employees:   make(map[lifecycle.EmployeeID]*lifecycle.Employee),
		onboarding:  make(map[lifecycle.EmployeeID]*lifecycle.OnboardingChecklist),
		offboarding: make(map[lifecycle.EmployeeID]*lifecycle.OffboardingChecklist),
		documents:   make(map[lifecycle.EmployeeID]*lifecycle.DocumentRecord),
		assets:      make(map[lifecycle.EmployeeID][]*lifecycle.Asset),
		access:      make(map[lifecycle.EmployeeID][]lifecycle.PlatformAccess),
		events:      make(map[lifecycle.EmployeeID][]lifecycle.Event),
	}
}

// WithTx executes fn within a simulated transaction: the whole store is
// snapshotted up front and restored if fn errors. The mutex also gives the
// single-writer-per-employee guarantee (single writer overall, which is a
// superset; fine for tests and dev).
func (m *Memory) WithTx(_ context.Context, fn func(lifecycle.Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()

	repos := lifecycle.Repositories{
		Employees:  &employeeRepo{m},
		Checklists: &checklistRepo{m},
		Documents:  &documentRepo{m},
		Assets:     &assetRepo{m},
		Access:     &accessRepo{m},
		Events:     &eventLog{m},
	}
	if err := fn(repos); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *Memory) snapshot() *Memory {
	s := NewMemory()
	for k, v := range m.employees {
		s.employees[k] = copyEmployee(v)
	}
	for k, v := range m.onboarding {
		s.onboarding[k] = copyOnboarding(v)
	}
	for k, v := range m.offboarding {
		s.offboarding[k] = copyOffboarding(v)
	}
	for k, v := range m.documents {
		s.documents[k] = copyDocuments(v)
	}
	for k, v := range m.assets {
		list := make([]*lifecycle.Asset, len(v))
		for i, a := range v {
			list[i] = copyAsset(a)
		}
		s.assets[k] = list
	}
	for k, v := range m.access {
		s.access[k] = append([]lifecycle.PlatformAccess{}, v...)
	}
	for k, v := range m.events {
		s.events[k] = append([]lifecycle.Event{}, v...)
	}
	return s
}

func (m *Memory) restore(s *Memory) {
	m.employees = s.employees
	m.onboarding = s.onboarding
	m.offboarding = s.offboarding
	m.documents = s.documents
	m.assets = s.assets
	m.access = s.access
	m.events = s.events
}

// =============================================================================
// COPY HELPERS - No aliasing between caller state and stored state
// =============================================================================

func copyEmployee(e *lifecycle.Employee) *lifecycle.Employee {
	c := *e
	return &c
}

func copyOnboarding(c *lifecycle.OnboardingChecklist) *lifecycle.OnboardingChecklist {
	out := *c
	out.Marks = make(map[lifecycle.OnboardingTask]time.Time, len(c.Marks))
	for k, v := range c.Marks {
		out.Marks[k] = v
	}
	if c.CompletedAt != nil {
		at := *c.CompletedAt
		out.CompletedAt = &at
	}
	return &out
}

func copyOffboarding(c *lifecycle.OffboardingChecklist) *lifecycle.OffboardingChecklist {
	out := *c
	out.Marks = make(map[lifecycle.OffboardingTask]time.Time, len(c.Marks))
	for k, v := range c.Marks {
		out.Marks[k] = v
	}
	if c.CompletedAt != nil {
		at := *c.CompletedAt
		out.CompletedAt = &at
	}
	if c.FnFAmount != nil {
		amount := *c.FnFAmount
		out.FnFAmount = &amount
	}
	return &out
}

func copyDocuments(d *lifecycle.DocumentRecord) *lifecycle.DocumentRecord {
	out := *d
	out.Submitted = append([]string{}, d.Submitted...)
	return &out
}

func copyAsset(a *lifecycle.Asset) *lifecycle.Asset {
	out := *a
	if a.ReturnedAt != nil {
		at := *a.ReturnedAt
		out.ReturnedAt = &at
	}
	return &out
}

// =============================================================================
// REPOSITORIES - Operate under the WithTx lock
// =============================================================================

type employeeRepo struct{ m *Memory }

func (r *employeeRepo) Create(_ context.Context, e *lifecycle.Employee) error {
	r.m.employees[e.ID] = copyEmployee(e)
	return nil
}

func (r *employeeRepo) Get(_ context.Context, id lifecycle.EmployeeID) (*lifecycle.Employee, error) {
	e, ok := r.m.employees[id]
	if !ok {
		return nil, &lifecycle.NotFoundError{Kind: "employee", ID: id}
	}
	return copyEmployee(e), nil
}

// FindConflict matches live records only. An exited employee no longer holds
// their code or email, so a later rehire with the same identifiers succeeds.
func (r *employeeRepo) FindConflict(_ context.Context, code, email string) (*lifecycle.Employee, error) {
	for _, e := range r.m.employees {
		if e.Status == lifecycle.StatusExited {
			continue
		}
		if e.Code == code || e.Email == email {
			return copyEmployee(e), nil
		}
	}
	return nil, nil
}

func (r *employeeRepo) Update(_ context.Context, e *lifecycle.Employee) error {
	if _, ok := r.m.employees[e.ID]; !ok {
		return &lifecycle.NotFoundError{Kind: "employee", ID: e.ID}
	}
	r.m.employees[e.ID] = copyEmployee(e)
	return nil
}

func (r *employeeRepo) List(_ context.Context, status *lifecycle.Status) ([]*lifecycle.Employee, error) {
	var out []*lifecycle.Employee
	for _, e := range r.m.employees {
		if status != nil && e.Status != *status {
			continue
		}
		out = append(out, copyEmployee(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type checklistRepo struct{ m *Memory }

func (r *checklistRepo) SaveOnboarding(_ context.Context, c *lifecycle.OnboardingChecklist) error {
	r.m.onboarding[c.EmployeeID] = copyOnboarding(c)
	return nil
}

func (r *checklistRepo) GetOnboarding(_ context.Context, id lifecycle.EmployeeID) (*lifecycle.OnboardingChecklist, error) {
	c, ok := r.m.onboarding[id]
	if !ok {
		return nil, nil
	}
	return copyOnboarding(c), nil
}

func (r *checklistRepo) SaveOffboarding(_ context.Context, c *lifecycle.OffboardingChecklist) error {
	r.m.offboarding[c.EmployeeID] = copyOffboarding(c)
	return nil
}

func (r *checklistRepo) GetOffboarding(_ context.Context, id lifecycle.EmployeeID) (*lifecycle.OffboardingChecklist, error) {
	c, ok := r.m.offboarding[id]
	if !ok {
		return nil, nil
	}
	return copyOffboarding(c), nil
}

type documentRepo struct{ m *Memory }

func (r *documentRepo) Save(_ context.Context, d *lifecycle.DocumentRecord) error {
	r.m.documents[d.EmployeeID] = copyDocuments(d)
	return nil
}

func (r *documentRepo) Get(_ context.Context, id lifecycle.EmployeeID) (*lifecycle.DocumentRecord, error) {
	d, ok := r.m.documents[id]
	if !ok {
		return nil, nil
	}
	return copyDocuments(d), nil
}

type assetRepo struct{ m *Memory }

func (r *assetRepo) Issue(_ context.Context, a *lifecycle.Asset) error {
	r.m.assets[a.EmployeeID] = append(r.m.assets[a.EmployeeID], copyAsset(a))
	return nil
}

func (r *assetRepo) MarkReturned(_ context.Context, id lifecycle.EmployeeID, assetID string, at time.Time) error {
	for _, a := range r.m.assets[id] {
		if a.ID == assetID {
			returned := at
			a.ReturnedAt = &returned
			return nil
		}
	}
	return &lifecycle.NotFoundError{Kind: "asset", ID: id}
}

func (r *assetRepo) ListByEmployee(_ context.Context, id lifecycle.EmployeeID) ([]*lifecycle.Asset, error) {
	list := r.m.assets[id]
	out := make([]*lifecycle.Asset, len(list))
	for i, a := range list {
		out[i] = copyAsset(a)
	}
	return out, nil
}

type accessRepo struct{ m *Memory }

func (r *accessRepo) Seed(_ context.Context, id lifecycle.EmployeeID, platforms []string, at time.Time) error {
	if len(r.m.access[id]) > 0 {
		return nil
	}
	rows := make([]lifecycle.PlatformAccess, 0, len(platforms))
	for _, p := range platforms {
		rows = append(rows, lifecycle.PlatformAccess{
			EmployeeID: id,
			Platform:   p,
			UpdatedAt:  at,
		})
	}
	r.m.access[id] = rows
	return nil
}

func (r *accessRepo) SetGranted(_ context.Context, id lifecycle.EmployeeID, platform string, at time.Time) error {
	return r.set(id, platform, func(row *lifecycle.PlatformAccess) {
		row.Granted = true
		row.UpdatedAt = at
	})
}

func (r *accessRepo) SetRevoked(_ context.Context, id lifecycle.EmployeeID, platform string, at time.Time) error {
	return r.set(id, platform, func(row *lifecycle.PlatformAccess) {
		row.Revoked = true
		row.UpdatedAt = at
	})
}

func (r *accessRepo) set(id lifecycle.EmployeeID, platform string, apply func(*lifecycle.PlatformAccess)) error {
	rows := r.m.access[id]
	for i := range rows {
		if rows[i].Platform == platform {
			apply(&rows[i])
			return nil
		}
	}
	return &lifecycle.NotFoundError{Kind: "platform access", ID: id}
}

func (r *accessRepo) ListByEmployee(_ context.Context, id lifecycle.EmployeeID) ([]lifecycle.PlatformAccess, error) {
	return append([]lifecycle.PlatformAccess{}, r.m.access[id]...), nil
}

type eventLog struct{ m *Memory }

func (r *eventLog) Append(_ context.Context, events []lifecycle.Event) error {
	for _, ev := range events {
		r.m.events[ev.EmployeeID] = append(r.m.events[ev.EmployeeID], ev)
	}
	return nil
}

func (r *eventLog) ListByEmployee(_ context.Context, id lifecycle.EmployeeID) ([]lifecycle.Event, error) {
	return append([]lifecycle.Event{}, r.m.events[id]...), nil
}
