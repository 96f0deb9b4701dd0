package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

func TestStore_AddStage(t *testing.T) {
	tests := []struct {
		name       string
		in         ledger.NewStage
		wantAmount int64
		wantErr    error
	}{
		{
			name:       "PricedFromTotalCost",
			in:         ledger.NewStage{Name: "Compound Wall", Percentage: 15},
			wantAmount: 154688,
		},
		{
			name:    "ZeroPercentage",
			in:      ledger.NewStage{Name: "Compound Wall", Percentage: 0},
			wantErr: ledger.ErrInvalidArgument,
		},
		{
			name:    "OverHundred",
			in:      ledger.NewStage{Name: "Compound Wall", Percentage: 101},
			wantErr: ledger.ErrInvalidArgument,
		},
		{
			name:    "BlankName",
			in:      ledger.NewStage{Name: "  ", Percentage: 10},
			wantErr: ledger.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend := newPGKStore(t)

			got, err := s.AddStage(context.Background(), tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, s.Stages(), 9)
				assert.Zero(t, backend.writeCount(ledger.KeyStages))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.wantAmount, got.Amount)
			assert.Zero(t, got.Paid)
			assert.Equal(t, ledger.StagePending, got.Status)
			assert.Len(t, s.Stages(), 10)
			assert.Empty(t, s.Payments())
			assert.Equal(t, 1, backend.writeCount(ledger.KeyStages))
		})
	}
}

func TestStore_UpdateStage_Paid(t *testing.T) {
	tests := []struct {
		name        string
		paid        int64
		wantStatus  ledger.StageStatus
		wantPayment *ledger.Payment
	}{
		{
			name:       "IncreaseRecordsPayment",
			paid:       100000,
			wantStatus: ledger.StageInProgress,
			wantPayment: &ledger.Payment{
				Amount:    50000,
				TotalPaid: 100000,
				Balance:   54687,
			},
		},
		{
			name:       "PayInFull",
			paid:       154687,
			wantStatus: ledger.StageCompleted,
			wantPayment: &ledger.Payment{
				Amount:    104687,
				TotalPaid: 154687,
				Balance:   0,
			},
		},
		{
			name:       "OverpaymentIsKept",
			paid:       200000,
			wantStatus: ledger.StageCompleted,
			wantPayment: &ledger.Payment{
				Amount:    150000,
				TotalPaid: 200000,
				Balance:   0,
			},
		},
		{
			name:       "DecreaseRecordsNothing",
			paid:       20000,
			wantStatus: ledger.StageInProgress,
		},
		{
			name:       "BackToZero",
			paid:       0,
			wantStatus: ledger.StagePending,
		},
		{
			name:       "Unchanged",
			paid:       50000,
			wantStatus: ledger.StageInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newPGKStore(t)

			got, err := s.UpdateStage(context.Background(), "basement", ledger.StagePatch{Paid: new(tt.paid)})
			require.NoError(t, err)
			assert.Equal(t, tt.paid, got.Paid)
			assert.Equal(t, tt.wantStatus, got.Status)

			payments := s.Payments()
			if tt.wantPayment == nil {
				assert.Empty(t, payments)
				return
			}

			require.Len(t, payments, 1)

			p := payments[0]
			require.NotNil(t, p.ItemID)
			assert.Equal(t, ledger.ID("basement"), *p.ItemID)
			assert.Equal(t, "Basement", p.ItemName)
			assert.Equal(t, ledger.PaymentConstruction, p.Type)
			assert.Equal(t, day(2024, 3, 10), p.Date)
			assert.Equal(t, tt.wantPayment.Amount, p.Amount)
			assert.Equal(t, tt.wantPayment.TotalPaid, p.TotalPaid)
			assert.Equal(t, tt.wantPayment.Balance, p.Balance)
		})
	}
}

func TestStore_UpdateStage_Fields(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	got, err := s.UpdateStage(ctx, "basement", ledger.StagePatch{
		Name:       new("Basement & Plinth"),
		Percentage: new(18),
		Notes:      new("Plinth beam poured"),
		Date:       new(time.Date(2023, 9, 16, 18, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	assert.Equal(t, "Basement & Plinth", got.Name)
	assert.Equal(t, 18, got.Percentage)
	assert.Equal(t, int64(154687), got.Amount, "percentage edits do not reprice")
	assert.Equal(t, "Plinth beam poured", got.Notes)
	assert.Equal(t, day(2023, 9, 16), got.Date)

	got, err = s.UpdateStage(ctx, "basement", ledger.StagePatch{Amount: new(int64(50000))})
	require.NoError(t, err)
	assert.Equal(t, ledger.StageCompleted, got.Status, "lowering the amount to what is paid completes the stage")
	assert.Empty(t, s.Payments())
}

func TestStore_UpdateStage_NameAndPaidTogether(t *testing.T) {
	s, _ := newPGKStore(t)

	_, err := s.UpdateStage(context.Background(), "lintel", ledger.StagePatch{
		Name:   new("Lintel Beam"),
		Amount: new(int64(100000)),
		Paid:   new(int64(40000)),
	})
	require.NoError(t, err)

	payments := s.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, "Lintel", payments[0].ItemName)
	assert.Equal(t, int64(60000), payments[0].Balance)
}

func TestStore_UpdateStage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		id      ledger.ID
		patch   ledger.StagePatch
		wantErr error
	}{
		{name: "UnknownID", id: "nope", patch: ledger.StagePatch{Paid: new(int64(10))}, wantErr: ledger.ErrNotFound},
		{name: "NegativePaid", id: "basement", patch: ledger.StagePatch{Paid: new(int64(-1))}, wantErr: ledger.ErrInvalidArgument},
		{name: "ZeroPercentage", id: "basement", patch: ledger.StagePatch{Percentage: new(0)}, wantErr: ledger.ErrInvalidArgument},
		{name: "ZeroAmount", id: "basement", patch: ledger.StagePatch{Amount: new(int64(0))}, wantErr: ledger.ErrInvalidArgument},
		{name: "BlankName", id: "basement", patch: ledger.StagePatch{Name: new("")}, wantErr: ledger.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend := newPGKStore(t)

			_, err := s.UpdateStage(context.Background(), tt.id, tt.patch)
			require.ErrorIs(t, err, tt.wantErr)

			st, err := s.Stage("basement")
			require.NoError(t, err)
			assert.Equal(t, int64(50000), st.Paid)
			assert.Zero(t, backend.writeCount(ledger.KeyStages))
		})
	}
}

func TestStore_CompleteStage(t *testing.T) {
	s, _ := newPGKStore(t)

	got, err := s.CompleteStage(context.Background(), "basement")
	require.NoError(t, err)
	assert.Equal(t, int64(154687), got.Paid)
	assert.Equal(t, ledger.StageCompleted, got.Status)

	payments := s.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, int64(104687), payments[0].Amount)

	_, err = s.CompleteStage(context.Background(), "advance")
	require.NoError(t, err)
	assert.Len(t, s.Payments(), 1, "completing a paid stage records nothing")

	_, err = s.CompleteStage(context.Background(), "missing")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_DeleteStage_OrphansPayments(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	_, err := s.UpdateStage(ctx, "basement", ledger.StagePatch{Paid: new(int64(100000))})
	require.NoError(t, err)

	require.NoError(t, s.DeleteStage(ctx, "basement"))

	_, err = s.Stage("basement")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	payments := s.Payments()
	require.Len(t, payments, 1)
	assert.Equal(t, ledger.ID("basement"), *payments[0].ItemID)

	sum := s.Summary()
	assert.Equal(t, int64(206250), sum.PaidConstruction, "deleted stage no longer counts")

	assert.ErrorIs(t, s.DeleteStage(ctx, "basement"), ledger.ErrNotFound)
}

func TestStore_AddExpense(t *testing.T) {
	tests := []struct {
		name         string
		in           ledger.NewExpense
		wantCategory ledger.Category
		wantErr      error
	}{
		{
			name:         "Valid",
			in:           ledger.NewExpense{Name: "Cement", Amount: 42000, Category: ledger.CategoryMaterial, Vendor: "Ramco"},
			wantCategory: ledger.CategoryMaterial,
		},
		{
			name:         "DefaultCategory",
			in:           ledger.NewExpense{Name: "Tea for crew", Amount: 300},
			wantCategory: ledger.CategoryOther,
		},
		{
			name:    "ZeroAmount",
			in:      ledger.NewExpense{Name: "Cement", Amount: 0},
			wantErr: ledger.ErrInvalidArgument,
		},
		{
			name:    "NegativeAmount",
			in:      ledger.NewExpense{Name: "Cement", Amount: -5},
			wantErr: ledger.ErrInvalidArgument,
		},
		{
			name:    "UnknownCategory",
			in:      ledger.NewExpense{Name: "Cement", Amount: 10, Category: "luxury"},
			wantErr: ledger.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newPGKStore(t)

			got, err := s.AddExpense(context.Background(), tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, s.Expenses(), 3)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, ledger.ExpensePending, got.Status)
			assert.Zero(t, got.Paid)
			assert.Len(t, s.Expenses(), 4)
			assert.Empty(t, s.Payments())
		})
	}
}

func TestStore_UpdateExpense(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	got, err := s.UpdateExpense(ctx, "3", ledger.ExpensePatch{Paid: new(int64(10000))})
	require.NoError(t, err)
	assert.Equal(t, ledger.ExpensePending, got.Status)

	got, err = s.UpdateExpense(ctx, "3", ledger.ExpensePatch{Paid: new(int64(25000)), Vendor: new("Sanitation Experts Ltd")})
	require.NoError(t, err)
	assert.Equal(t, ledger.ExpensePaid, got.Status)
	assert.Equal(t, "Sanitation Experts Ltd", got.Vendor)

	payments := s.Payments()
	require.Len(t, payments, 2)

	for _, p := range payments {
		assert.Equal(t, ledger.PaymentExpense, p.Type)
		assert.Equal(t, "Septic Tank", p.ItemName)
	}

	assert.Equal(t, int64(10000), payments[0].Amount)
	assert.Equal(t, int64(15000), payments[1].Amount)
	assert.Equal(t, int64(0), payments[1].Balance)

	_, err = s.UpdateExpense(ctx, "3", ledger.ExpensePatch{Category: new(ledger.Category("spa"))})
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)

	_, err = s.UpdateExpense(ctx, "99", ledger.ExpensePatch{Notes: new("x")})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestStore_MarkExpensePaid(t *testing.T) {
	s, _ := newPGKStore(t)

	got, err := s.MarkExpensePaid(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, ledger.ExpensePaid, got.Status)
	assert.Equal(t, int64(25000), got.Paid)
	assert.Equal(t, int64(25000), s.TotalPaidForItem("3"))
}

func TestStore_DeleteExpense(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteExpense(ctx, "1"))
	assert.Len(t, s.Expenses(), 2)
	assert.ErrorIs(t, s.DeleteExpense(ctx, "1"), ledger.ErrNotFound)
}

func TestStore_AddManualPayment(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()
	before := s.Summary()

	p, err := s.AddManualPayment(ctx, ledger.NewPayment{ItemName: "Site watchman", Amount: 4000, Notes: "March"})
	require.NoError(t, err)
	assert.Nil(t, p.ItemID)
	assert.Equal(t, ledger.PaymentOther, p.Type)
	assert.Equal(t, day(2024, 3, 10), p.Date)
	assert.Equal(t, before, s.Summary(), "manual payments touch no stage or expense")

	p, err = s.AddManualPayment(ctx, ledger.NewPayment{ItemName: "Permit fee", Amount: 1500, Date: day(2024, 1, 5)})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 5), p.Date)

	_, err = s.AddManualPayment(ctx, ledger.NewPayment{ItemName: "Nothing", Amount: 0})
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)

	_, err = s.AddManualPayment(ctx, ledger.NewPayment{Amount: 10})
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
}

func TestStore_PaymentLifecycle(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	_, err := s.UpdateStage(ctx, "basement", ledger.StagePatch{Paid: new(int64(100000))})
	require.NoError(t, err)

	payments := s.Payments()
	require.Len(t, payments, 1)
	id := payments[0].ID

	p, err := s.UpdatePayment(ctx, id, ledger.PaymentPatch{Amount: new(int64(30000))})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), p.Amount)
	assert.Equal(t, int64(100000), p.TotalPaid, "snapshots are not recomputed")

	st, err := s.Stage("basement")
	require.NoError(t, err)
	assert.Equal(t, int64(80000), st.Paid)
	assert.Equal(t, ledger.StageInProgress, st.Status)

	assert.True(t, s.DeletePayment(ctx, id))

	st, err = s.Stage("basement")
	require.NoError(t, err)
	assert.Equal(t, int64(50000), st.Paid)
	assert.Empty(t, s.Payments())
}

func TestStore_UpdatePayment_RaisesLinkedExpense(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	_, err := s.UpdateExpense(ctx, "3", ledger.ExpensePatch{Paid: new(int64(20000))})
	require.NoError(t, err)

	id := s.Payments()[0].ID

	_, err = s.UpdatePayment(ctx, id, ledger.PaymentPatch{Amount: new(int64(25000)), Notes: new("final bill")})
	require.NoError(t, err)

	e, err := s.Expense("3")
	require.NoError(t, err)
	assert.Equal(t, int64(25000), e.Paid)
	assert.Equal(t, ledger.ExpensePaid, e.Status)
	assert.Len(t, s.Payments(), 1, "editing a payment never synthesizes another")
}

func TestStore_DeletePayment_FloorsAtZero(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	_, err := s.UpdateStage(ctx, "lintel", ledger.StagePatch{Paid: new(int64(60000))})
	require.NoError(t, err)

	_, err = s.UpdateStage(ctx, "lintel", ledger.StagePatch{Paid: new(int64(10000))})
	require.NoError(t, err)

	id := s.Payments()[0].ID
	assert.True(t, s.DeletePayment(ctx, id))

	st, err := s.Stage("lintel")
	require.NoError(t, err)
	assert.Zero(t, st.Paid)
	assert.Equal(t, ledger.StagePending, st.Status)
}

func TestStore_OrphanedPayment(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	_, err := s.UpdateExpense(ctx, "3", ledger.ExpensePatch{Paid: new(int64(5000))})
	require.NoError(t, err)

	id := s.Payments()[0].ID
	require.NoError(t, s.DeleteExpense(ctx, "3"))

	p, err := s.UpdatePayment(ctx, id, ledger.PaymentPatch{Amount: new(int64(7000))})
	require.NoError(t, err)
	assert.Equal(t, int64(7000), p.Amount)

	assert.True(t, s.DeletePayment(ctx, id))
	assert.Len(t, s.Expenses(), 2)
}

func TestStore_UpdatePayment_Errors(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	_, err := s.UpdatePayment(ctx, "missing", ledger.PaymentPatch{Notes: new("x")})
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	p, err := s.AddManualPayment(ctx, ledger.NewPayment{ItemName: "Misc", Amount: 100})
	require.NoError(t, err)

	_, err = s.UpdatePayment(ctx, p.ID, ledger.PaymentPatch{Amount: new(int64(0))})
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
}

func TestStore_DeletePayment_Unknown(t *testing.T) {
	s, backend := newPGKStore(t)

	assert.False(t, s.DeletePayment(context.Background(), "missing"))
	assert.Zero(t, backend.writeCount(ledger.KeyPayments))
	assert.Zero(t, backend.writeCount(ledger.KeyStages))
}

func TestStore_Payments_Order(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	for _, in := range []ledger.NewPayment{
		{ItemName: "a", Amount: 1, Date: day(2024, 1, 1)},
		{ItemName: "b", Amount: 1, Date: day(2024, 2, 1)},
		{ItemName: "c", Amount: 1, Date: day(2024, 1, 1)},
		{ItemName: "d", Amount: 1, Date: day(2024, 3, 1)},
		{ItemName: "e", Amount: 1, Date: day(2024, 2, 1)},
	} {
		_, err := s.AddManualPayment(ctx, in)
		require.NoError(t, err)
	}

	var names []string
	for _, p := range s.Payments() {
		names = append(names, p.ItemName)
	}

	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, names)
}

func TestStore_PaymentsForItem(t *testing.T) {
	s, _ := newPGKStore(t)
	ctx := context.Background()

	_, err := s.UpdateStage(ctx, "basement", ledger.StagePatch{Paid: new(int64(60000))})
	require.NoError(t, err)
	_, err = s.UpdateStage(ctx, "lintel", ledger.StagePatch{Paid: new(int64(1000))})
	require.NoError(t, err)
	_, err = s.UpdateStage(ctx, "basement", ledger.StagePatch{Paid: new(int64(90000))})
	require.NoError(t, err)

	got := s.PaymentsForItem("basement")
	require.Len(t, got, 2)
	assert.Equal(t, int64(40000), s.TotalPaidForItem("basement"))
	assert.Empty(t, s.PaymentsForItem("whitewash"))
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s, _ := newPGKStore(t)

	stages := s.Stages()
	stages[0].Paid = 1

	_, err := s.UpdateStage(context.Background(), "lintel", ledger.StagePatch{Paid: new(int64(10))})
	require.NoError(t, err)

	p := s.Payments()[0]
	*p.ItemID = "tampered"

	st, err := s.Stage("advance")
	require.NoError(t, err)
	assert.Equal(t, int64(206250), st.Paid)
	assert.Equal(t, ledger.ID("lintel"), *s.Payments()[0].ItemID)
}

func TestStore_Summary(t *testing.T) {
	s, _ := newPGKStore(t)

	assert.Equal(t, ledger.Summary{
		TotalConstructionCost: 1031250,
		PaidConstruction:      256250,
		BalanceConstruction:   775000,
		ConstructionProgress:  20,
		TotalExpenses:         90000,
		PaidExpenses:          65000,
		BalanceExpenses:       25000,
		TotalProjectCost:      1121250,
		TotalPaid:             321250,
		TotalBalance:          800000,
		OverallProgress:       29,
	}, s.Summary())
}

func TestStore_Summary_IgnoresPaymentLog(t *testing.T) {
	s, _ := newPGKStore(t)

	_, err := s.AddManualPayment(context.Background(), ledger.NewPayment{ItemName: "Gift", Amount: 999999})
	require.NoError(t, err)

	assert.Equal(t, int64(321250), s.Summary().TotalPaid)
}

func TestStore_SearchStages(t *testing.T) {
	s, _ := newPGKStore(t)

	got := s.SearchStages("PLASTER")
	require.Len(t, got, 2)
	assert.Equal(t, ledger.ID("inner-plastering"), got[0].ID)

	assert.Len(t, s.SearchStages(""), 9)
	assert.Empty(t, s.SearchStages("garage"))
}

func TestStore_FindExpenses(t *testing.T) {
	s, _ := newPGKStore(t)

	tests := []struct {
		name   string
		filter ledger.ExpenseFilter
		want   []ledger.ID
	}{
		{name: "All", filter: ledger.ExpenseFilter{}, want: []ledger.ID{"1", "2", "3"}},
		{name: "ByCategory", filter: ledger.ExpenseFilter{Category: ledger.CategorySump}, want: []ledger.ID{"2"}},
		{name: "ByStatus", filter: ledger.ExpenseFilter{Status: ledger.ExpensePending}, want: []ledger.ID{"3"}},
		{name: "ByVendor", filter: ledger.ExpenseFilter{Query: "plumbing"}, want: []ledger.ID{"2"}},
		{name: "ByCategoryText", filter: ledger.ExpenseFilter{Query: "septic"}, want: []ledger.ID{"3"}},
		{name: "NoMatch", filter: ledger.ExpenseFilter{Query: "solar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []ledger.ID
			for _, e := range s.FindExpenses(tt.filter) {
				got = append(got, e.ID)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_Open_NilBackend(t *testing.T) {
	_, err := ledger.Open(context.Background(), nil, pgkSeed())
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
}
