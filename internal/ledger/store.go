package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Seed is the data a Store starts from when a collection has never been saved.
type Seed struct {
	Project  Project
	Stages   []Stage
	Expenses []Expense
	Payments []Payment
}

// Store owns the stages, expenses and payments of one project and keeps
// them consistent. Every method runs to completion before the next starts.
type Store struct {
	mu sync.Mutex

	backend Backend
	seed    Seed
	project Project

	stages   []Stage
	expenses []Expense
	payments []Payment

	newID func() ID
	now   func() time.Time
	log   *slog.Logger
}

type Option func(*Store)

// WithClock replaces time.Now, which dates synthesized payments.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 generator. Generated ids must be unique.
func WithIDGenerator(gen func() ID) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func newUUID() ID {
	return ID(uuid.Must(uuid.NewV7()).String())
}

// Open loads every collection from backend, using seed for any collection
// that is missing or unreadable.
func Open(ctx context.Context, backend Backend, seed Seed, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("opening store: nil backend: %w", ErrInvalidArgument)
	}

	s := &Store{
		backend: backend,
		seed:    seed,
		project: seed.Project,
		newID:   newUUID,
		now:     time.Now,
		log:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stages = load(ctx, backend, KeyStages, seed.Stages, s.log)
	s.expenses = load(ctx, backend, KeyExpenses, seed.Expenses, s.log)
	s.payments = load(ctx, backend, KeyPayments, seed.Payments, s.log)
	s.normalize()

	s.log.Debug("ledger opened",
		"stages", len(s.stages),
		"expenses", len(s.expenses),
		"payments", len(s.payments),
	)

	return s, nil
}

// Close flushes backends that buffer writes.
func (s *Store) Close(ctx context.Context) error {
	f, ok := s.backend.(interface {
		Flush(ctx context.Context) error
	})
	if !ok {
		return nil
	}

	if err := f.Flush(ctx); err != nil {
		return fmt.Errorf("flushing backend: %w", err)
	}

	return nil
}

// normalize re-derives statuses, which are never trusted from storage.
func (s *Store) normalize() {
	for i := range s.stages {
		st := &s.stages[i]
		st.Paid = max(0, st.Paid)
		st.Date = Day(st.Date)
		st.Status = StageStatusOf(st.Paid, st.Amount)
	}

	for i := range s.expenses {
		e := &s.expenses[i]
		e.Paid = max(0, e.Paid)
		e.Date = Day(e.Date)
		e.Status = ExpenseStatusOf(e.Paid, e.Amount)
	}

	for i := range s.payments {
		s.payments[i].Date = Day(s.payments[i].Date)
	}
}

func (s *Store) today() time.Time {
	return Day(s.now())
}

func (s *Store) Project() Project {
	return s.project
}

func (s *Store) stageIndex(id ID) int {
	return slices.IndexFunc(s.stages, func(st Stage) bool { return st.ID == id })
}

func (s *Store) expenseIndex(id ID) int {
	return slices.IndexFunc(s.expenses, func(e Expense) bool { return e.ID == id })
}

func (s *Store) paymentIndex(id ID) int {
	return slices.IndexFunc(s.payments, func(p Payment) bool { return p.ID == id })
}

// adjustPaid moves the paid amount of the entity a payment points at by
// delta, floored at zero. It returns the key of the collection it changed,
// or "" when the payment is unlinked or its target is gone.
func (s *Store) adjustPaid(typ PaymentType, itemID ID, delta int64) string {
	switch typ {
	case PaymentConstruction:
		i := s.stageIndex(itemID)
		if i < 0 {
			return ""
		}

		st := &s.stages[i]
		st.Paid = max(0, st.Paid+delta)
		st.Status = StageStatusOf(st.Paid, st.Amount)

		return KeyStages
	case PaymentExpense:
		i := s.expenseIndex(itemID)
		if i < 0 {
			return ""
		}

		e := &s.expenses[i]
		e.Paid = max(0, e.Paid+delta)
		e.Status = ExpenseStatusOf(e.Paid, e.Amount)

		return KeyExpenses
	default:
		return ""
	}
}

// recordPayment appends a payment synthesized from a paid increase.
func (s *Store) recordPayment(typ PaymentType, itemID ID, itemName string, amount, totalPaid, balance int64) {
	p := Payment{
		ID:        s.newID(),
		ItemID:    &itemID,
		ItemName:  itemName,
		Amount:    amount,
		Type:      typ,
		Date:      s.today(),
		TotalPaid: totalPaid,
		Balance:   balance,
		CreatedAt: s.now().UTC(),
	}

	s.payments = append(s.payments, p)
	s.log.Debug("payment recorded", "payment", p.ID, "type", typ, "item", itemID, "amount", amount)
}

func clonePayment(p Payment) Payment {
	if p.ItemID != nil {
		id := *p.ItemID
		p.ItemID = &id
	}

	return p
}
