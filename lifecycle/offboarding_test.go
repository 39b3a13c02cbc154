package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newExitChecklist() *lifecycle.OffboardingChecklist {
	resignation := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	lwd := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	notice := lifecycle.EvaluateNotice(resignation, lwd, 30)
	return lifecycle.NewOffboardingChecklist("emp-1", resignation, lwd,
		lifecycle.ExitResignation, "new role", notice, resignation)
}

func record(t *testing.T, c *lifecycle.OffboardingChecklist, task lifecycle.OffboardingTask, category lifecycle.Category) {
	t.Helper()
	require.NoError(t, c.Record(task, true, category, lifecycle.RecordOptions{}, testClock))
}

// =============================================================================
// HARD GATES
// =============================================================================

func TestOffboarding_AccessRevoked_RequiresApprovalAndKT(t *testing.T) {
	// GIVEN: A fresh exit checklist
	// WHEN: Recording access_revoked with neither prerequisite done
	// THEN: Rejected, naming both missing tasks

	c := newExitChecklist()
	err := c.Record(lifecycle.TaskAccessRevoked, true, lifecycle.CategoryFullTime, lifecycle.RecordOptions{}, testClock)

	var dep *lifecycle.DependencyNotMetError
	require.ErrorAs(t, err, &dep)
	assert.Equal(t, "access_revoked", dep.Task)
	assert.Equal(t, "manager_approval and knowledge_transfer", dep.Missing)

	// One prerequisite is not enough.
	record(t, c, lifecycle.TaskManagerApproval, lifecycle.CategoryFullTime)
	err = c.Record(lifecycle.TaskAccessRevoked, true, lifecycle.CategoryFullTime, lifecycle.RecordOptions{}, testClock)
	require.ErrorAs(t, err, &dep)
	assert.Equal(t, "knowledge_transfer", dep.Missing)

	// Both prerequisites clear the gate.
	record(t, c, lifecycle.TaskKnowledgeTransfer, lifecycle.CategoryFullTime)
	record(t, c, lifecycle.TaskAccessRevoked, lifecycle.CategoryFullTime)
}

func TestOffboarding_FnF_RequiresKTAndAssets(t *testing.T) {
	c := newExitChecklist()
	record(t, c, lifecycle.TaskKnowledgeTransfer, lifecycle.CategoryFullTime)

	err := c.Record(lifecycle.TaskFnFProcessed, true, lifecycle.CategoryFullTime, lifecycle.RecordOptions{}, testClock)
	var dep *lifecycle.DependencyNotMetError
	require.ErrorAs(t, err, &dep)
	assert.Equal(t, "assets_returned", dep.Missing)

	record(t, c, lifecycle.TaskAssetsReturned, lifecycle.CategoryFullTime)
	record(t, c, lifecycle.TaskFnFProcessed, lifecycle.CategoryFullTime)
}

func TestOffboarding_ExperienceLetter_FullTime_GatedOnFnF(t *testing.T) {
	// GIVEN: A full-time exit with knowledge transfer done but FnF pending
	// WHEN: Issuing the experience letter
	// THEN: Rejected until fnf_processed, unless HR overrides dues-settled

	c := newExitChecklist()
	record(t, c, lifecycle.TaskKnowledgeTransfer, lifecycle.CategoryFullTime)

	err := c.Record(lifecycle.TaskExperienceLetterIssued, true, lifecycle.CategoryFullTime, lifecycle.RecordOptions{}, testClock)
	assert.ErrorIs(t, err, lifecycle.ErrDependencyNotMet)

	// The override lets HR issue the letter when dues were settled out of band.
	err = c.Record(lifecycle.TaskExperienceLetterIssued, true, lifecycle.CategoryFullTime,
		lifecycle.RecordOptions{DuesSettledOverride: true}, testClock)
	assert.NoError(t, err)
}

func TestOffboarding_ExperienceLetter_Intern_GatedOnKTOnly(t *testing.T) {
	// Interns and contractors get certificates without waiting for settlement.
	for _, cat := range []lifecycle.Category{lifecycle.CategoryIntern, lifecycle.CategoryContractor} {
		c := newExitChecklist()

		err := c.Record(lifecycle.TaskExperienceLetterIssued, true, cat, lifecycle.RecordOptions{}, testClock)
		assert.ErrorIs(t, err, lifecycle.ErrDependencyNotMet, "category %s", cat)

		record(t, c, lifecycle.TaskKnowledgeTransfer, cat)
		err = c.Record(lifecycle.TaskExperienceLetterIssued, true, cat, lifecycle.RecordOptions{}, testClock)
		assert.NoError(t, err, "category %s", cat)
	}
}

func TestOffboarding_ClearGatedPrerequisite_Rejected(t *testing.T) {
	// GIVEN: access_revoked recorded on top of its prerequisites
	// WHEN: Clearing knowledge_transfer
	// THEN: Rejected while access_revoked stands

	c := newExitChecklist()
	record(t, c, lifecycle.TaskManagerApproval, lifecycle.CategoryFullTime)
	record(t, c, lifecycle.TaskKnowledgeTransfer, lifecycle.CategoryFullTime)
	record(t, c, lifecycle.TaskAccessRevoked, lifecycle.CategoryFullTime)

	err := c.Record(lifecycle.TaskKnowledgeTransfer, false, lifecycle.CategoryFullTime, lifecycle.RecordOptions{}, testClock)
	assert.ErrorIs(t, err, lifecycle.ErrDependencyNotMet)

	require.NoError(t, c.Record(lifecycle.TaskAccessRevoked, false, lifecycle.CategoryFullTime, lifecycle.RecordOptions{}, testClock))
	require.NoError(t, c.Record(lifecycle.TaskKnowledgeTransfer, false, lifecycle.CategoryFullTime, lifecycle.RecordOptions{}, testClock))
}

func TestOffboarding_Frozen_RejectsWrites(t *testing.T) {
	c := newExitChecklist()
	c.Freeze(testClock)

	err := c.Record(lifecycle.TaskManagerApproval, true, lifecycle.CategoryFullTime, lifecycle.RecordOptions{}, testClock)
	assert.ErrorIs(t, err, lifecycle.ErrStateConflict)
}

// =============================================================================
// PROGRESS AND COMPLETION
// =============================================================================

func TestOffboarding_MissingAndProgress(t *testing.T) {
	c := newExitChecklist()
	assert.Len(t, c.Missing(), 6)
	assert.Equal(t, 0.0, c.Progress())
	assert.False(t, c.CompletedAll())

	record(t, c, lifecycle.TaskManagerApproval, lifecycle.CategoryFullTime)
	record(t, c, lifecycle.TaskKnowledgeTransfer, lifecycle.CategoryFullTime)
	record(t, c, lifecycle.TaskAssetsReturned, lifecycle.CategoryFullTime)
	assert.Equal(t, 50.0, c.Progress())

	record(t, c, lifecycle.TaskAccessRevoked, lifecycle.CategoryFullTime)
	record(t, c, lifecycle.TaskFnFProcessed, lifecycle.CategoryFullTime)
	record(t, c, lifecycle.TaskExperienceLetterIssued, lifecycle.CategoryFullTime)

	assert.True(t, c.CompletedAll())
	assert.Empty(t, c.Missing())
	assert.Equal(t, 100.0, c.Progress())
}

func TestOffboarding_NoticeCapturedAtInitiation(t *testing.T) {
	// The checklist carries the notice evaluation made when the exit opened.
	c := newExitChecklist()
	assert.Equal(t, 30, c.ActualNoticeDays)
	assert.Equal(t, 30, c.RequiredNoticeDays)
	assert.False(t, c.ShortNotice)
}
