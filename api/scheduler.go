/*
scheduler.go - Background reminder scheduler

PURPOSE:
  Periodically scans employees that are stuck mid-checklist and emits
  ReminderDue events through the notification port. Read-only: the
  scheduler never mutates lifecycle state.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Onboarding employees with missing tasks get one reminder per scan
  - Offboarding employees with pending tasks likewise
  - Reminders are dispatched directly, not written to the event log:
    they record nothing about the employee, only nudge the operator

CONFIGURATION:
  - CheckInterval: How often to check (default: 24 hours)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReminderScheduler(engine, notifier)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - lifecycle/engine.go: The progress queries the scan uses
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// ReminderScheduler emits periodic reminders for incomplete checklists.
type ReminderScheduler struct {
	Engine        *lifecycle.Engine
	Notifier      lifecycle.NotificationPort
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewReminderScheduler creates a new scheduler.
func NewReminderScheduler(engine *lifecycle.Engine, notifier lifecycle.NotificationPort) *ReminderScheduler {
	return &ReminderScheduler{
		Engine:        engine,
		Notifier:      notifier,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *ReminderScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)

	go rs.run()

	log.Printf("[Scheduler] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler.
func (rs *ReminderScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (rs *ReminderScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndRemind()

	for {
		select {
		case <-rs.ticker.C:
			rs.checkAndRemind()
		case <-rs.stop:
			return
		}
	}
}

func (rs *ReminderScheduler) checkAndRemind() {
	ctx := context.Background()
	now := time.Now()

	log.Printf("[Scheduler] Scanning for pending checklists at %v", now)

	reminders := rs.collectReminders(ctx, now)
	if len(reminders) == 0 {
		return
	}

	if err := rs.Notifier.Dispatch(ctx, reminders); err != nil {
		log.Printf("[Scheduler] Error dispatching reminders: %v", err)
		return
	}
	log.Printf("[Scheduler] Dispatched %d reminders", len(reminders))
}

func (rs *ReminderScheduler) collectReminders(ctx context.Context, now time.Time) []lifecycle.Event {
	var reminders []lifecycle.Event

	onboarding := lifecycle.StatusOnboarding
	employees, err := rs.Engine.ListEmployees(ctx, &onboarding)
	if err != nil {
		log.Printf("[Scheduler] Error listing onboarding employees: %v", err)
	}
	for _, emp := range employees {
		progress, err := rs.Engine.GetOnboardingProgress(ctx, emp.ID)
		if err != nil || len(progress.Missing) == 0 {
			continue
		}
		reminders = append(reminders, lifecycle.NewEvent(
			lifecycle.EventReminderDue, emp.ID, now, map[string]any{
				"phase":   "onboarding",
				"missing": taskNames(progress.Missing),
			}))
	}

	offboarding := lifecycle.StatusOffboarding
	employees, err = rs.Engine.ListEmployees(ctx, &offboarding)
	if err != nil {
		log.Printf("[Scheduler] Error listing offboarding employees: %v", err)
	}
	for _, emp := range employees {
		progress, err := rs.Engine.GetOffboardingProgress(ctx, emp.ID)
		if err != nil || len(progress.Missing) == 0 {
			continue
		}
		payload := map[string]any{
			"phase":            "offboarding",
			"missing":          offboardingTaskNames(progress.Missing),
			"last_working_day": progress.LastWorkingDay.Format("2006-01-02"),
		}
		reminders = append(reminders, lifecycle.NewEvent(
			lifecycle.EventReminderDue, emp.ID, now, payload))
	}

	return reminders
}

// RunNow triggers an immediate scan (for testing/admin).
func (rs *ReminderScheduler) RunNow() {
	rs.checkAndRemind()
}

func taskNames(tasks []lifecycle.OnboardingTask) []string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = string(t)
	}
	return names
}

func offboardingTaskNames(tasks []lifecycle.OffboardingTask) []string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = string(t)
	}
	return names
}
