/*
settlement.go - Full-and-Final settlement calculator

PURPOSE:
  Computes the FnF payable amount for an exiting employee. Fixed-point
  currency throughout (decimal.Decimal), rounded to 2 decimals at each
  derived line.

ALGORITHM:
  monthlySalary   = ctc / 12
  dailySalary     = monthlySalary / 30
  pendingSalary   = dailySalary * days(lastSalaryDate .. lastWorkingDay)
  leaveEncash     = dailySalary * leaveBalanceDays   (leave-benefit categories only)
  basicMonthly    = ctc * 0.40 / 12
  gratuity        = years >= 5 ? basicMonthly * 15 * years / 26 : 0
  totalEarnings   = pendingSalary + leaveEncash + gratuity
  totalDeductions = noticeRecovery + otherDeductions
  netAmount       = totalEarnings - totalDeductions

  netAmount may be negative when deductions exceed earnings: that is a
  recovery owed by the employee and is surfaced as-is, never clamped.

  Not applicable to interns - they follow the certificate-only path.
*/
package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	twelve     = decimal.NewFromInt(12)
	thirty     = decimal.NewFromInt(30)
	basicShare = decimal.RequireFromString("0.40")
	fifteen    = decimal.NewFromInt(15)
	twentySix  = decimal.NewFromInt(26)
	fiveYears  = decimal.NewFromInt(5)
)

// SettlementInput carries everything the calculator needs.
type SettlementInput struct {
	AnnualCTC        decimal.Decimal
	LastSalaryDate   time.Time
	LastWorkingDay   time.Time
	LeaveBalanceDays decimal.Decimal
	YearsOfService   decimal.Decimal
	NoticeRecovery   decimal.Decimal
	OtherDeductions  decimal.Decimal
}

// Settlement is the line-by-line FnF statement.
type Settlement struct {
	PendingSalary   decimal.Decimal `json:"pending_salary"`
	LeaveEncashment decimal.Decimal `json:"leave_encashment"`
	Gratuity        decimal.Decimal `json:"gratuity"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	NoticeRecovery  decimal.Decimal `json:"notice_period_recovery"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetAmount       decimal.Decimal `json:"net_amount"`
}

// ComputeFnF runs the settlement algorithm for the given category profile.
func ComputeFnF(p CategoryProfile, in SettlementInput) (Settlement, error) {
	if p.Category == CategoryIntern {
		return Settlement{}, &ValidationError{
			Field:  "category",
			Reason: "settlement is not applicable to interns",
		}
	}
	if in.LastSalaryDate.IsZero() || in.LastWorkingDay.IsZero() {
		return Settlement{}, &ValidationError{Field: "dates", Reason: "last salary date and last working day are required"}
	}
	if in.LastWorkingDay.Before(in.LastSalaryDate) {
		return Settlement{}, &ValidationError{
			Field:  "last_salary_date",
			Reason: "last working day precedes last salary date",
		}
	}

	monthly := in.AnnualCTC.Div(twelve)
	daily := monthly.Div(thirty)

	pendingDays := decimal.NewFromInt(int64(daysBetween(in.LastSalaryDate, in.LastWorkingDay)))
	pending := daily.Mul(pendingDays).Round(2)

	encash := decimal.Zero
	if p.LeaveBenefits && in.LeaveBalanceDays.IsPositive() {
		encash = daily.Mul(in.LeaveBalanceDays).Round(2)
	}

	gratuity := decimal.Zero
	if p.Gratuity && in.YearsOfService.GreaterThanOrEqual(fiveYears) {
		basicMonthly := in.AnnualCTC.Mul(basicShare).Div(twelve)
		gratuity = basicMonthly.Mul(fifteen).Mul(in.YearsOfService).Div(twentySix).Round(2)
	}

	earnings := pending.Add(encash).Add(gratuity).Round(2)
	deductions := in.NoticeRecovery.Add(in.OtherDeductions).Round(2)

	return Settlement{
		PendingSalary:   pending,
		LeaveEncashment: encash,
		Gratuity:        gratuity,
		TotalEarnings:   earnings,
		NoticeRecovery:  in.NoticeRecovery.Round(2),
		OtherDeductions: in.OtherDeductions.Round(2),
		TotalDeductions: deductions,
		NetAmount:       earnings.Sub(deductions).Round(2),
	}, nil
}
