package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

type NewStage struct {
	Name       string
	Percentage int
	Date       time.Time
	Notes      string
}

// StagePatch holds the fields to change on a stage. Nil fields are left alone.
// Status is always derived and cannot be patched.
type StagePatch struct {
	Name       *string
	Percentage *int
	Amount     *int64
	Paid       *int64
	Date       *time.Time
	Notes      *string
}

func validPercentage(p int) bool {
	return p >= 1 && p <= 100
}

func (p StagePatch) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("stage name is empty: %w", ErrInvalidArgument)
	}

	if p.Percentage != nil && !validPercentage(*p.Percentage) {
		return fmt.Errorf("stage percentage %d outside 1-100: %w", *p.Percentage, ErrInvalidArgument)
	}

	if p.Amount != nil && *p.Amount <= 0 {
		return fmt.Errorf("stage amount must be positive: %w", ErrInvalidArgument)
	}

	if p.Paid != nil && *p.Paid < 0 {
		return fmt.Errorf("stage paid must not be negative: %w", ErrInvalidArgument)
	}

	return nil
}

func (p StagePatch) apply(st *Stage) {
	if p.Name != nil {
		st.Name = strings.TrimSpace(*p.Name)
	}

	if p.Percentage != nil {
		st.Percentage = *p.Percentage
	}

	if p.Amount != nil {
		st.Amount = *p.Amount
	}

	if p.Paid != nil {
		st.Paid = *p.Paid
	}

	if p.Date != nil {
		st.Date = Day(*p.Date)
	}

	if p.Notes != nil {
		st.Notes = *p.Notes
	}
}

// AddStage appends a stage priced from the project's total cost.
func (s *Store) AddStage(ctx context.Context, in NewStage) (Stage, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Stage{}, fmt.Errorf("stage name is empty: %w", ErrInvalidArgument)
	}

	if !validPercentage(in.Percentage) {
		return Stage{}, fmt.Errorf("stage percentage %d outside 1-100: %w", in.Percentage, ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	amount := StageAmount(s.project.TotalCost, in.Percentage)
	st := Stage{
		ID:         s.newID(),
		Name:       name,
		Percentage: in.Percentage,
		Amount:     amount,
		Status:     StageStatusOf(0, amount),
		Date:       Day(in.Date),
		Notes:      in.Notes,
	}

	s.stages = append(s.stages, st)
	s.persist(ctx, KeyStages)

	return st, nil
}

// UpdateStage applies patch to a stage. Raising Paid records a construction
// payment for the difference; lowering it records nothing.
func (s *Store) UpdateStage(ctx context.Context, id ID, patch StagePatch) (Stage, error) {
	if err := patch.validate(); err != nil {
		return Stage{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateStage(ctx, id, patch)
}

// CompleteStage pays off whatever is left on a stage.
func (s *Store) CompleteStage(ctx context.Context, id ID) (Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.stageIndex(id)
	if i < 0 {
		return Stage{}, fmt.Errorf("stage %s: %w", id, ErrNotFound)
	}

	st := s.stages[i]

	return s.updateStage(ctx, id, StagePatch{Paid: new(max(st.Paid, st.Amount))})
}

func (s *Store) updateStage(ctx context.Context, id ID, patch StagePatch) (Stage, error) {
	i := s.stageIndex(id)
	if i < 0 {
		return Stage{}, fmt.Errorf("stage %s: %w", id, ErrNotFound)
	}

	st := &s.stages[i]
	name, paid := st.Name, st.Paid

	patch.apply(st)
	st.Status = StageStatusOf(st.Paid, st.Amount)

	if delta := st.Paid - paid; delta > 0 {
		s.recordPayment(PaymentConstruction, id, name, delta, st.Paid, st.Balance())
		s.persist(ctx, KeyStages, KeyPayments)
	} else {
		s.persist(ctx, KeyStages)
	}

	return *st, nil
}

// DeleteStage removes a stage. Payments made against it are kept.
func (s *Store) DeleteStage(ctx context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.stageIndex(id)
	if i < 0 {
		return fmt.Errorf("stage %s: %w", id, ErrNotFound)
	}

	s.stages = slices.Delete(s.stages, i, i+1)
	s.persist(ctx, KeyStages)

	return nil
}

func (s *Store) Stages() []Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.stages)
}

func (s *Store) Stage(id ID) (Stage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.stageIndex(id)
	if i < 0 {
		return Stage{}, fmt.Errorf("stage %s: %w", id, ErrNotFound)
	}

	return s.stages[i], nil
}

// SearchStages matches query against stage names and notes, ignoring case.
// An empty query matches everything.
func (s *Store) SearchStages(query string) []Stage {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Stage

	for _, st := range s.stages {
		if q == "" ||
			strings.Contains(strings.ToLower(st.Name), q) ||
			strings.Contains(strings.ToLower(st.Notes), q) {
			out = append(out, st)
		}
	}

	return out
}
