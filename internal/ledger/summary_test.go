package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

func TestStore_StageStats(t *testing.T) {
	s, _ := newPGKStore(t)

	assert.Equal(t, ledger.StageStats{
		Total:                9,
		Completed:            1,
		InProgress:           1,
		Pending:              7,
		TotalCost:            1031248,
		TotalPaid:            256250,
		TotalBalance:         774998,
		OverallProgress:      20,
		CurrentStage:         "Basement",
		CompletionPercentage: 11,
		FinancialProgress:    25,
	}, s.StageStats())
}

func TestStore_StageStats_CurrentStage(t *testing.T) {
	ctx := context.Background()

	s, _ := newPGKStore(t)
	_, err := s.CompleteStage(ctx, "basement")
	require.NoError(t, err)
	assert.Equal(t, "Advance", s.StageStats().CurrentStage, "falls back to the first completed stage")

	empty := openStore(t, newCountingBackend(), ledger.Seed{})
	assert.Equal(t, "Not Started", empty.StageStats().CurrentStage)
	assert.Zero(t, empty.StageStats().CompletionPercentage)
}

func TestStore_ExpenseStats(t *testing.T) {
	s, _ := newPGKStore(t)

	got := s.ExpenseStats()

	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Paid)
	assert.Equal(t, 1, got.Pending)
	assert.Equal(t, int64(90000), got.TotalAmount)
	assert.Equal(t, int64(65000), got.TotalPaid)
	assert.Equal(t, int64(25000), got.TotalBalance)
	assert.Equal(t, 67, got.CompletionPercentage)
	assert.Equal(t, 72, got.FinancialProgress)

	assert.Equal(t, []ledger.Breakdown{
		{Key: "borewell", Count: 1, Total: 50000, Paid: 50000},
		{Key: "sump", Count: 1, Total: 15000, Paid: 15000},
		{Key: "septic-tank", Count: 1, Total: 25000, Balance: 25000},
	}, got.ByCategory)

	assert.Equal(t, []ledger.Breakdown{
		{Key: "2023-09", Count: 2, Total: 65000, Paid: 65000},
		{Key: "2023-10", Count: 1, Total: 25000, Balance: 25000},
	}, got.ByMonth)
}

func TestSummarizePayments(t *testing.T) {
	payments := []ledger.Payment{
		{Amount: 50000, Type: ledger.PaymentConstruction, Date: day(2024, 1, 10)},
		{Amount: 25000, Type: ledger.PaymentExpense, Date: day(2024, 1, 20)},
		{Amount: 1000, Type: ledger.PaymentOther, Date: day(2024, 2, 1)},
		{Amount: 4, Type: ledger.PaymentConstruction, Date: day(2023, 12, 31)},
	}

	got := ledger.SummarizePayments(payments)

	assert.Equal(t, int64(50004), got.Construction)
	assert.Equal(t, int64(25000), got.Expense)
	assert.Equal(t, int64(1000), got.Other)
	assert.Equal(t, int64(76004), got.Total)
	assert.Equal(t, 4, got.Count)
	assert.Equal(t, int64(19001), got.Average)
	assert.Equal(t, []ledger.MonthlyPayments{
		{Month: "2023-12", Construction: 4, Total: 4},
		{Month: "2024-01", Construction: 50000, Expense: 25000, Total: 75000},
		{Month: "2024-02", Other: 1000, Total: 1000},
	}, got.ByMonth)

	empty := ledger.SummarizePayments(nil)
	assert.Zero(t, empty.Average)
	assert.Empty(t, empty.ByMonth)
}

func TestStore_PaymentStats(t *testing.T) {
	s, _ := newPGKStore(t)

	_, err := s.UpdateStage(context.Background(), "basement", ledger.StagePatch{Paid: new(int64(70000))})
	require.NoError(t, err)

	got := s.PaymentStats()
	assert.Equal(t, int64(20000), got.Construction)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "2024-03", got.ByMonth[0].Month)
}
