package ledger_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/storage"
)

var today = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func pgkSeed() ledger.Seed {
	stage := func(id, name string, pct int, amount, paid int64) ledger.Stage {
		return ledger.Stage{ID: ledger.ID(id), Name: name, Percentage: pct, Amount: amount, Paid: paid}
	}

	stages := []ledger.Stage{
		stage("advance", "Advance", 20, 206250, 206250),
		stage("basement", "Basement", 15, 154687, 50000),
		stage("lintel", "Lintel", 15, 154687, 0),
		stage("roof-level", "Roof Level", 15, 154687, 0),
		stage("inner-plastering", "Inner Plastering", 10, 103125, 0),
		stage("outer-plastering", "Outer Plastering", 10, 103125, 0),
		stage("tiles", "Tiles", 8, 82500, 0),
		stage("electrical", "Electrical", 5, 51562, 0),
		stage("whitewash", "Whitewash", 2, 20625, 0),
	}
	stages[0].Date = day(2023, 9, 1)
	stages[1].Date = day(2023, 9, 15)

	return ledger.Seed{
		Project: ledger.Project{
			Name:        "PGK Construction",
			Engineer:    "Er. P. Govindaraj",
			Location:    "Chennai",
			PerSqftRate: 1650,
			TotalSqft:   625,
			TotalCost:   1031250,
			StartDate:   day(2023, 9, 1),
		},
		Stages: stages,
		Expenses: []ledger.Expense{
			{ID: "1", Name: "Borewell", Amount: 50000, Paid: 50000, Category: ledger.CategoryBorewell, Date: day(2023, 9, 10), Vendor: "Water Solutions Inc."},
			{ID: "2", Name: "Sump", Amount: 15000, Paid: 15000, Category: ledger.CategorySump, Date: day(2023, 9, 20), Vendor: "Plumbing Masters"},
			{ID: "3", Name: "Septic Tank", Amount: 25000, Category: ledger.CategorySepticTank, Date: day(2023, 10, 5), Vendor: "Sanitation Experts"},
		},
	}
}

// countingBackend wraps storage.Memory and counts writes per key.
type countingBackend struct {
	*storage.Memory

	mu     sync.Mutex
	writes map[string]int
}

func newCountingBackend() *countingBackend {
	return &countingBackend{Memory: storage.NewMemory(), writes: map[string]int{}}
}

func (c *countingBackend) Put(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.writes[key]++
	c.mu.Unlock()

	return c.Memory.Put(ctx, key, value)
}

func (c *countingBackend) writeCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.writes[key]
}

func sequentialIDs() func() ledger.ID {
	n := 0

	return func() ledger.ID {
		n++
		return ledger.ID(fmt.Sprintf("id-%d", n))
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T, backend ledger.Backend, seed ledger.Seed) *ledger.Store {
	t.Helper()

	s, err := ledger.Open(context.Background(), backend, seed,
		ledger.WithClock(func() time.Time { return today }),
		ledger.WithIDGenerator(sequentialIDs()),
		ledger.WithLogger(quietLogger()),
	)
	require.NoError(t, err)

	return s
}

func newPGKStore(t *testing.T) (*ledger.Store, *countingBackend) {
	t.Helper()

	backend := newCountingBackend()

	return openStore(t, backend, pgkSeed()), backend
}
