package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// =============================================================================
// DOCUMENT COMPLETENESS
// =============================================================================

func TestDocuments_PartialSubmission_Pending(t *testing.T) {
	// GIVEN: The intern profile requires 7 documents
	// WHEN: 5 of them are submitted
	// THEN: Status is pending with ratio 5/7 and the 2 missing names listed

	intern := profileFor(t, lifecycle.CategoryIntern)
	require.Len(t, intern.RequiredDocuments, 7)

	d := lifecycle.NewDocumentRecord("emp-1")
	for _, name := range intern.RequiredDocuments[:5] {
		assert.True(t, d.Add(name, testClock))
	}

	ev := lifecycle.EvaluateDocuments(intern, d)
	assert.Equal(t, 7, ev.Required)
	assert.Equal(t, 5, ev.SubmittedCount)
	assert.InDelta(t, 5.0/7.0, ev.Ratio, 1e-9)
	assert.Equal(t, lifecycle.DocumentsPending, ev.Status)
	assert.ElementsMatch(t, intern.RequiredDocuments[5:], ev.Missing)
}

func TestDocuments_FullSubmission_Completed(t *testing.T) {
	intern := profileFor(t, lifecycle.CategoryIntern)

	d := lifecycle.NewDocumentRecord("emp-1")
	for _, name := range intern.RequiredDocuments {
		d.Add(name, testClock)
	}

	ev := lifecycle.EvaluateDocuments(intern, d)
	assert.Equal(t, 1.0, ev.Ratio)
	assert.Equal(t, lifecycle.DocumentsCompleted, ev.Status)
	assert.Empty(t, ev.Missing)
}

func TestDocuments_DuplicateSubmission_Ignored(t *testing.T) {
	// Re-submitting the same document never inflates the count.
	intern := profileFor(t, lifecycle.CategoryIntern)

	d := lifecycle.NewDocumentRecord("emp-1")
	assert.True(t, d.Add("Aadhaar Card", testClock))
	assert.False(t, d.Add("Aadhaar Card", testClock))

	ev := lifecycle.EvaluateDocuments(intern, d)
	assert.Equal(t, 1, ev.SubmittedCount)
}

func TestDocuments_UnknownNames_NotCounted(t *testing.T) {
	// Documents outside the category's required list do not move the ratio.
	intern := profileFor(t, lifecycle.CategoryIntern)

	d := lifecycle.NewDocumentRecord("emp-1")
	d.Add("Gym Membership", testClock)
	d.Add("Parking Pass", testClock)

	ev := lifecycle.EvaluateDocuments(intern, d)
	assert.Equal(t, 0, ev.SubmittedCount)
	assert.Equal(t, 0.0, ev.Ratio)
	assert.Equal(t, lifecycle.DocumentsPending, ev.Status)
}

func TestDocuments_CollectedOverride_Completes(t *testing.T) {
	// GIVEN: Nothing submitted but HR flagged documents_collected
	// THEN: Status is completed; the ratio still reports the true count

	intern := profileFor(t, lifecycle.CategoryIntern)

	d := lifecycle.NewDocumentRecord("emp-1")
	d.CollectedOverride = true

	ev := lifecycle.EvaluateDocuments(intern, d)
	assert.Equal(t, lifecycle.DocumentsCompleted, ev.Status)
	assert.Equal(t, 0.0, ev.Ratio)
}

func TestDocuments_EmptyRequirement_Complete(t *testing.T) {
	// A profile with no required documents is vacuously complete.
	profile := lifecycle.CategoryProfile{Category: lifecycle.CategoryContractor}

	ev := lifecycle.EvaluateDocuments(profile, lifecycle.NewDocumentRecord("emp-1"))
	assert.Equal(t, 1.0, ev.Ratio)
	assert.Equal(t, lifecycle.DocumentsCompleted, ev.Status)
}
