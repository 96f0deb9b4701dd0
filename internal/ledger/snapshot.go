package ledger

import (
	"context"
	"fmt"
	"slices"
	"time"
)

const SnapshotVersion = "1.0"

// Snapshot is a full backup of a Store.
type Snapshot struct {
	Project  Project      `json:"project"`
	Stages   []Stage      `json:"stages"`
	Expenses []Expense    `json:"expenses"`
	Payments []Payment    `json:"payments"`
	Metadata SnapshotMeta `json:"metadata"`
}

type SnapshotMeta struct {
	ExportDate time.Time `json:"exportDate"`
	Version    string    `json:"version"`
}

func (s *Store) Export() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Project:  s.project,
		Stages:   slices.Clone(s.stages),
		Expenses: slices.Clone(s.expenses),
		Payments: make([]Payment, len(s.payments)),
		Metadata: SnapshotMeta{
			ExportDate: s.now().UTC(),
			Version:    SnapshotVersion,
		},
	}

	for i, p := range s.payments {
		snap.Payments[i] = clonePayment(p)
	}

	return snap
}

// Import replaces the collections present in snap. A nil collection is
// left untouched and the project is never replaced. Statuses are re-derived.
func (s *Store) Import(ctx context.Context, snap Snapshot) error {
	if v := snap.Metadata.Version; v != "" && v != SnapshotVersion {
		return fmt.Errorf("snapshot version %q: %w", v, ErrInvalidArgument)
	}

	if err := checkIDs(snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string

	if snap.Stages != nil {
		s.stages = slices.Clone(snap.Stages)
		keys = append(keys, KeyStages)
	}

	if snap.Expenses != nil {
		s.expenses = slices.Clone(snap.Expenses)
		keys = append(keys, KeyExpenses)
	}

	if snap.Payments != nil {
		s.payments = make([]Payment, len(snap.Payments))
		for i, p := range snap.Payments {
			s.payments[i] = clonePayment(p)
		}

		keys = append(keys, KeyPayments)
	}

	s.normalize()
	s.persist(ctx, keys...)
	s.log.Info("snapshot imported", "collections", keys)

	return nil
}

func checkIDs(snap Snapshot) error {
	if err := uniqueIDs("stage", snap.Stages, func(st Stage) ID { return st.ID }); err != nil {
		return err
	}

	if err := uniqueIDs("expense", snap.Expenses, func(e Expense) ID { return e.ID }); err != nil {
		return err
	}

	return uniqueIDs("payment", snap.Payments, func(p Payment) ID { return p.ID })
}

func uniqueIDs[T any](kind string, items []T, idOf func(T) ID) error {
	seen := make(map[ID]bool, len(items))

	for _, item := range items {
		id := idOf(item)
		if id == "" {
			return fmt.Errorf("%s without id: %w", kind, ErrInvalidArgument)
		}

		if seen[id] {
			return fmt.Errorf("duplicate %s id %s: %w", kind, id, ErrInvalidArgument)
		}

		seen[id] = true
	}

	return nil
}

// Reset discards every change and restores the seed collections.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stages = slices.Clone(s.seed.Stages)
	s.expenses = slices.Clone(s.seed.Expenses)
	s.payments = make([]Payment, len(s.seed.Payments))

	for i, p := range s.seed.Payments {
		s.payments[i] = clonePayment(p)
	}

	s.normalize()
	s.persist(ctx, KeyStages, KeyExpenses, KeyPayments)
	s.log.Info("ledger reset to seed")
}
