package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

type NewExpense struct {
	Name     string
	Amount   int64
	Date     time.Time
	Category Category
	Notes    string
	Vendor   string
}

// ExpensePatch holds the fields to change on an expense. Nil fields are left alone.
type ExpensePatch struct {
	Name     *string
	Amount   *int64
	Paid     *int64
	Category *Category
	Date     *time.Time
	Notes    *string
	Vendor   *string
}

func (p ExpensePatch) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("expense name is empty: %w", ErrInvalidArgument)
	}

	if p.Amount != nil && *p.Amount <= 0 {
		return fmt.Errorf("expense amount must be positive: %w", ErrInvalidArgument)
	}

	if p.Paid != nil && *p.Paid < 0 {
		return fmt.Errorf("expense paid must not be negative: %w", ErrInvalidArgument)
	}

	if p.Category != nil && !p.Category.Valid() {
		return fmt.Errorf("unknown expense category %q: %w", *p.Category, ErrInvalidArgument)
	}

	return nil
}

func (p ExpensePatch) apply(e *Expense) {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}

	if p.Amount != nil {
		e.Amount = *p.Amount
	}

	if p.Paid != nil {
		e.Paid = *p.Paid
	}

	if p.Category != nil {
		e.Category = *p.Category
	}

	if p.Date != nil {
		e.Date = Day(*p.Date)
	}

	if p.Notes != nil {
		e.Notes = *p.Notes
	}

	if p.Vendor != nil {
		e.Vendor = *p.Vendor
	}
}

// AddExpense appends an unpaid expense. An empty category files it under other.
func (s *Store) AddExpense(ctx context.Context, in NewExpense) (Expense, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Expense{}, fmt.Errorf("expense name is empty: %w", ErrInvalidArgument)
	}

	if in.Amount <= 0 {
		return Expense{}, fmt.Errorf("expense amount must be positive: %w", ErrInvalidArgument)
	}

	category := in.Category
	if category == "" {
		category = CategoryOther
	}

	if !category.Valid() {
		return Expense{}, fmt.Errorf("unknown expense category %q: %w", category, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := Expense{
		ID:       s.newID(),
		Name:     name,
		Amount:   in.Amount,
		Status:   ExpenseStatusOf(0, in.Amount),
		Category: category,
		Date:     Day(in.Date),
		Notes:    in.Notes,
		Vendor:   in.Vendor,
	}

	s.expenses = append(s.expenses, e)
	s.persist(ctx, KeyExpenses)

	return e, nil
}

// UpdateExpense applies patch to an expense. Raising Paid records an expense
// payment for the difference; lowering it records nothing.
func (s *Store) UpdateExpense(ctx context.Context, id ID, patch ExpensePatch) (Expense, error) {
	if err := patch.validate(); err != nil {
		return Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateExpense(ctx, id, patch)
}

// MarkExpensePaid settles whatever is left on an expense.
func (s *Store) MarkExpensePaid(ctx context.Context, id ID) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.expenseIndex(id)
	if i < 0 {
		return Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}

	e := s.expenses[i]

	return s.updateExpense(ctx, id, ExpensePatch{Paid: new(max(e.Paid, e.Amount))})
}

func (s *Store) updateExpense(ctx context.Context, id ID, patch ExpensePatch) (Expense, error) {
	i := s.expenseIndex(id)
	if i < 0 {
		return Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}

	e := &s.expenses[i]
	name, paid := e.Name, e.Paid

	patch.apply(e)
	e.Status = ExpenseStatusOf(e.Paid, e.Amount)

	if delta := e.Paid - paid; delta > 0 {
		s.recordPayment(PaymentExpense, id, name, delta, e.Paid, e.Balance())
		s.persist(ctx, KeyExpenses, KeyPayments)
	} else {
		s.persist(ctx, KeyExpenses)
	}

	return *e, nil
}

// DeleteExpense removes an expense. Payments made against it are kept.
func (s *Store) DeleteExpense(ctx context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.expenseIndex(id)
	if i < 0 {
		return fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}

	s.expenses = slices.Delete(s.expenses, i, i+1)
	s.persist(ctx, KeyExpenses)

	return nil
}

func (s *Store) Expenses() []Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.expenses)
}

func (s *Store) Expense(id ID) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.expenseIndex(id)
	if i < 0 {
		return Expense{}, fmt.Errorf("expense %s: %w", id, ErrNotFound)
	}

	return s.expenses[i], nil
}

// ExpenseFilter narrows Expenses. Zero fields match everything.
type ExpenseFilter struct {
	Category Category
	Status   ExpenseStatus
	Query    string
}

// FindExpenses returns the expenses matching f in stored order. Query is
// matched case-insensitively against name, notes, vendor and category.
func (s *Store) FindExpenses(f ExpenseFilter) []Expense {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Expense

	for _, e := range s.expenses {
		if f.Category != "" && e.Category != f.Category {
			continue
		}

		if f.Status != "" && e.Status != f.Status {
			continue
		}

		if q != "" &&
			!strings.Contains(strings.ToLower(e.Name), q) &&
			!strings.Contains(strings.ToLower(e.Notes), q) &&
			!strings.Contains(strings.ToLower(e.Vendor), q) &&
			!strings.Contains(string(e.Category), q) {
			continue
		}

		out = append(out, e)
	}

	return out
}
