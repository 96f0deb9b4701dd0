package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/storage"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()

	_, err := m.Get(ctx, ledger.KeyStages)
	assert.ErrorIs(t, err, ledger.ErrKeyNotFound)

	value := []byte(`[{"id":"a"}]`)
	require.NoError(t, m.Put(ctx, ledger.KeyStages, value))

	value[0] = 'X'

	got, err := m.Get(ctx, ledger.KeyStages)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got), "stored values are copies")
}

func TestMemory_BacksLedger(t *testing.T) {
	ctx := context.Background()
	m := storage.NewMemory()

	s, err := ledger.Open(ctx, m, ledger.Seed{Project: ledger.Project{TotalCost: 1000}})
	require.NoError(t, err)

	st, err := s.AddStage(ctx, ledger.NewStage{Name: "Footing", Percentage: 10})
	require.NoError(t, err)

	reopened, err := ledger.Open(ctx, m, ledger.Seed{})
	require.NoError(t, err)

	got, err := reopened.Stage(st.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Amount)
}
