package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// NewPayment is a payment not tied to any stage or expense.
type NewPayment struct {
	ItemName string
	Amount   int64
	Date     time.Time // zero means today
	Notes    string
}

// PaymentPatch holds the fields to change on a payment. Nil fields are left alone.
type PaymentPatch struct {
	ItemName *string
	Amount   *int64
	Date     *time.Time
	Notes    *string
}

func (p PaymentPatch) validate() error {
	if p.ItemName != nil && strings.TrimSpace(*p.ItemName) == "" {
		return fmt.Errorf("payment item name is empty: %w", ErrInvalidArgument)
	}

	if p.Amount != nil && *p.Amount <= 0 {
		return fmt.Errorf("payment amount must be positive: %w", ErrInvalidArgument)
	}

	return nil
}

func (p PaymentPatch) apply(pay *Payment) {
	if p.ItemName != nil {
		pay.ItemName = strings.TrimSpace(*p.ItemName)
	}

	if p.Amount != nil {
		pay.Amount = *p.Amount
	}

	if p.Date != nil {
		pay.Date = Day(*p.Date)
	}

	if p.Notes != nil {
		pay.Notes = *p.Notes
	}
}

// AddManualPayment records a payment of type other. No stage or expense changes.
func (s *Store) AddManualPayment(ctx context.Context, in NewPayment) (Payment, error) {
	name := strings.TrimSpace(in.ItemName)
	if name == "" {
		return Payment{}, fmt.Errorf("payment item name is empty: %w", ErrInvalidArgument)
	}

	if in.Amount <= 0 {
		return Payment{}, fmt.Errorf("payment amount must be positive: %w", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	date := Day(in.Date)
	if date.IsZero() {
		date = s.today()
	}

	p := Payment{
		ID:        s.newID(),
		ItemName:  name,
		Amount:    in.Amount,
		Type:      PaymentOther,
		Date:      date,
		Notes:     in.Notes,
		TotalPaid: in.Amount,
		CreatedAt: s.now().UTC(),
	}

	s.payments = append(s.payments, p)
	s.persist(ctx, KeyPayments)

	return p, nil
}

// UpdatePayment applies patch to a payment. A changed amount is carried over
// to the linked stage or expense, if it still exists. The payment's
// TotalPaid and Balance snapshots are left as recorded.
func (s *Store) UpdatePayment(ctx context.Context, id ID, patch PaymentPatch) (Payment, error) {
	if err := patch.validate(); err != nil {
		return Payment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.paymentIndex(id)
	if i < 0 {
		return Payment{}, fmt.Errorf("payment %s: %w", id, ErrNotFound)
	}

	p := &s.payments[i]
	keys := []string{KeyPayments}

	if patch.Amount != nil && *patch.Amount != p.Amount && p.ItemID != nil {
		if key := s.adjustPaid(p.Type, *p.ItemID, *patch.Amount-p.Amount); key != "" {
			keys = append(keys, key)
		}
	}

	patch.apply(p)
	s.persist(ctx, keys...)

	return clonePayment(*p), nil
}

// DeletePayment removes a payment and takes its amount back off the linked
// stage or expense. It reports whether anything was removed.
func (s *Store) DeletePayment(ctx context.Context, id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.paymentIndex(id)
	if i < 0 {
		return false
	}

	p := s.payments[i]
	keys := []string{KeyPayments}

	if p.ItemID != nil {
		if key := s.adjustPaid(p.Type, *p.ItemID, -p.Amount); key != "" {
			keys = append(keys, key)
		}
	}

	s.payments = slices.Delete(s.payments, i, i+1)
	s.persist(ctx, keys...)

	return true
}

// Payments returns every payment, newest date first. Payments on the same
// date keep the order they were recorded in.
func (s *Store) Payments() []Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sortedPayments(func(Payment) bool { return true })
}

// PaymentsForItem returns the payments recorded against one stage or expense.
func (s *Store) PaymentsForItem(itemID ID) []Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sortedPayments(func(p Payment) bool {
		return p.ItemID != nil && *p.ItemID == itemID
	})
}

// TotalPaidForItem sums the payments recorded against one stage or expense.
func (s *Store) TotalPaidForItem(itemID ID) int64 {
	var total int64

	for _, p := range s.PaymentsForItem(itemID) {
		total += p.Amount
	}

	return total
}

func (s *Store) Payment(id ID) (Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.paymentIndex(id)
	if i < 0 {
		return Payment{}, fmt.Errorf("payment %s: %w", id, ErrNotFound)
	}

	return clonePayment(s.payments[i]), nil
}

func (s *Store) sortedPayments(keep func(Payment) bool) []Payment {
	out := make([]Payment, 0, len(s.payments))

	for _, p := range s.payments {
		if keep(p) {
			out = append(out, clonePayment(p))
		}
	}

	slices.SortStableFunc(out, func(a, b Payment) int {
		return b.Date.Compare(a.Date)
	})

	return out
}
