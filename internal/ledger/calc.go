package ledger

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// StageStatusOf derives a stage status. Any payment starts a stage and
// paying the full amount, or more, completes it.
func StageStatusOf(paid, amount int64) StageStatus {
	switch {
	case paid == 0:
		return StagePending
	case paid >= amount:
		return StageCompleted
	default:
		return StageInProgress
	}
}

// ExpenseStatusOf derives an expense status. Expenses are either settled or not.
func ExpenseStatusOf(paid, amount int64) ExpenseStatus {
	if paid >= amount {
		return ExpensePaid
	}

	return ExpensePending
}

// Balance returns what is still owed, floored at zero.
func Balance(amount, paid int64) int64 {
	return max(0, amount-paid)
}

// StageAmount prices a stage at percentage of totalCost, rounding half away from zero.
func StageAmount(totalCost int64, percentage int) int64 {
	return decimal.NewFromInt(totalCost).
		Mul(decimal.NewFromInt(int64(percentage))).
		Div(hundred).
		Round(0).
		IntPart()
}

// Percent returns part as a rounded percentage of total, or 0 when total is 0.
func Percent(part, total int64) int {
	if total == 0 {
		return 0
	}

	return int(decimal.NewFromInt(part).
		Mul(hundred).
		Div(decimal.NewFromInt(total)).
		Round(0).
		IntPart())
}

// FormatRupees renders whole rupees in INR display form, e.g. ₹206,250.00.
func FormatRupees(amount int64) string {
	return money.New(amount*100, money.INR).Display()
}

// roundDiv divides a by b rounding half away from zero. b must not be 0.
func roundDiv(a, b int64) int64 {
	return decimal.NewFromInt(a).Div(decimal.NewFromInt(b)).Round(0).IntPart()
}
