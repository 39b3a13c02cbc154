package lifecycle_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s %v", expected, actual, msgAndArgs)
}

// =============================================================================
// FULL-AND-FINAL
// =============================================================================

func TestComputeFnF_FullTime_AllComponents(t *testing.T) {
	// GIVEN: A full-time employee, CTC 1,080,000 (monthly 90,000, daily 3,000),
	//        15 unpaid days, 10 days leave balance, 5 years of service
	// WHEN: Computing the settlement with 50,000 notice recovery
	// THEN: Every line matches the fixed-point arithmetic

	settlement, err := lifecycle.ComputeFnF(profileFor(t, lifecycle.CategoryFullTime), lifecycle.SettlementInput{
		AnnualCTC:        dec("1080000"),
		LastSalaryDate:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		LastWorkingDay:   time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
		LeaveBalanceDays: dec("10"),
		YearsOfService:   dec("5"),
		NoticeRecovery:   dec("50000"),
		OtherDeductions:  dec("846.15"),
	})
	require.NoError(t, err)

	assertDecimal(t, "45000", settlement.PendingSalary, "3000/day * 15 days")
	assertDecimal(t, "30000", settlement.LeaveEncashment, "3000/day * 10 days")
	// basic monthly = 1080000 * 0.40 / 12 = 36000; 36000 * 15 * 5 / 26
	assertDecimal(t, "103846.15", settlement.Gratuity)
	assertDecimal(t, "178846.15", settlement.TotalEarnings)
	assertDecimal(t, "50846.15", settlement.TotalDeductions)
	assertDecimal(t, "128000", settlement.NetAmount)
}

func TestComputeFnF_NegativeNet_NotClamped(t *testing.T) {
	// GIVEN: One pending day (3,000) and a 10,000 notice recovery
	// THEN: The net is the recovery owed by the employee, surfaced as-is

	settlement, err := lifecycle.ComputeFnF(profileFor(t, lifecycle.CategoryFullTime), lifecycle.SettlementInput{
		AnnualCTC:      dec("1080000"),
		LastSalaryDate: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		LastWorkingDay: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		YearsOfService: dec("1"),
		NoticeRecovery: dec("10000"),
	})
	require.NoError(t, err)

	assertDecimal(t, "3000", settlement.PendingSalary)
	assertDecimal(t, "-7000", settlement.NetAmount)
	assert.True(t, settlement.NetAmount.IsNegative())
}

func TestComputeFnF_Gratuity_FiveYearThreshold(t *testing.T) {
	// Gratuity vests at exactly five years of service, not before.
	input := lifecycle.SettlementInput{
		AnnualCTC:      dec("1080000"),
		LastSalaryDate: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		LastWorkingDay: time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
	}

	input.YearsOfService = dec("4.99")
	below, err := lifecycle.ComputeFnF(profileFor(t, lifecycle.CategoryFullTime), input)
	require.NoError(t, err)
	assert.True(t, below.Gratuity.IsZero(), "no gratuity below five years")

	input.YearsOfService = dec("5")
	at, err := lifecycle.ComputeFnF(profileFor(t, lifecycle.CategoryFullTime), input)
	require.NoError(t, err)
	assert.True(t, at.Gratuity.IsPositive(), "gratuity vests at five years")
}

func TestComputeFnF_Contractor_PendingSalaryOnly(t *testing.T) {
	// GIVEN: A contractor profile (no leave benefits, no gratuity)
	// WHEN: Computing with a leave balance and long service
	// THEN: Only pending salary is paid out

	settlement, err := lifecycle.ComputeFnF(profileFor(t, lifecycle.CategoryContractor), lifecycle.SettlementInput{
		AnnualCTC:        dec("1080000"),
		LastSalaryDate:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		LastWorkingDay:   time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
		LeaveBalanceDays: dec("10"),
		YearsOfService:   dec("6"),
	})
	require.NoError(t, err)

	assertDecimal(t, "45000", settlement.PendingSalary)
	assert.True(t, settlement.LeaveEncashment.IsZero())
	assert.True(t, settlement.Gratuity.IsZero())
	assertDecimal(t, "45000", settlement.NetAmount)
}

func TestComputeFnF_Intern_Rejected(t *testing.T) {
	// Interns follow the certificate-only path; there is no FnF for them.
	_, err := lifecycle.ComputeFnF(profileFor(t, lifecycle.CategoryIntern), lifecycle.SettlementInput{
		AnnualCTC:      dec("120000"),
		LastSalaryDate: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		LastWorkingDay: time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, lifecycle.ErrValidation)
	var verr *lifecycle.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
}

func TestComputeFnF_DateValidation(t *testing.T) {
	profile := profileFor(t, lifecycle.CategoryFullTime)

	// Missing dates.
	_, err := lifecycle.ComputeFnF(profile, lifecycle.SettlementInput{AnnualCTC: dec("1080000")})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	// Last working day before last salary date.
	_, err = lifecycle.ComputeFnF(profile, lifecycle.SettlementInput{
		AnnualCTC:      dec("1080000"),
		LastSalaryDate: time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
		LastWorkingDay: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)
}
