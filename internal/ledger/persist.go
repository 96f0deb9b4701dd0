package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Backend keys, one JSON array per collection.
const (
	KeyStages   = "construction-stages"
	KeyExpenses = "construction-expenses"
	KeyPayments = "construction-payments"
)

// load reads one collection. Anything short of a clean decode falls back to
// a copy of seed; the store must always open.
func load[T any](ctx context.Context, backend Backend, key string, seed []T, log *slog.Logger) []T {
	data, err := backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Warn("failed to read collection, using seed", "key", key, "error", err)
		}

		return append([]T(nil), seed...)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn("corrupt collection, using seed", "key", key, "error", err)
		return append([]T(nil), seed...)
	}

	return items
}

// save writes one collection. Failures are logged and swallowed so the
// in-memory state stays authoritative for the session.
func save[T any](ctx context.Context, backend Backend, key string, items []T, log *slog.Logger) {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		log.Error("failed to encode collection", "key", key, "error", err)
		return
	}

	if err := backend.Put(ctx, key, data); err != nil {
		log.Error("failed to save collection", "key", key, "error", err)
	}
}

// persist writes the named collections. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, keys ...string) {
	for _, key := range keys {
		switch key {
		case KeyStages:
			save(ctx, s.backend, key, s.stages, s.log)
		case KeyExpenses:
			save(ctx, s.backend, key, s.expenses, s.log)
		case KeyPayments:
			save(ctx, s.backend, key, s.payments, s.log)
		}
	}
}
