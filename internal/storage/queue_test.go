package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
	"github.com/MrJamesThe3rd/sitebook/internal/storage"
)

type write struct {
	key   string
	value string
}

// recorder is a backend that logs every Put and can hold writes until released.
type recorder struct {
	*storage.Memory

	mu     sync.Mutex
	writes []write
	gate   chan struct{}
	fail   error
}

func newRecorder() *recorder {
	return &recorder{Memory: storage.NewMemory()}
}

func (r *recorder) Put(ctx context.Context, key string, value []byte) error {
	if r.gate != nil {
		<-r.gate
	}

	r.mu.Lock()
	r.writes = append(r.writes, write{key: key, value: string(value)})
	r.mu.Unlock()

	if r.fail != nil {
		return r.fail
	}

	return r.Memory.Put(ctx, key, value)
}

func (r *recorder) recorded() []write {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]write(nil), r.writes...)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestQueue_WritesInOrder(t *testing.T) {
	ctx := context.Background()
	backend := newRecorder()
	q := storage.NewQueue(backend, discard())

	require.NoError(t, q.Put(ctx, "a", []byte("1")))
	require.NoError(t, q.Put(ctx, "b", []byte("1")))
	require.NoError(t, q.Flush(ctx))
	require.NoError(t, q.Put(ctx, "a", []byte("2")))
	require.NoError(t, q.Close())

	assert.Equal(t, []write{{"a", "1"}, {"b", "1"}, {"a", "2"}}, backend.recorded())

	got, err := backend.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", string(got))
}

func TestQueue_ReadsSeeQueuedValues(t *testing.T) {
	ctx := context.Background()
	backend := newRecorder()
	backend.gate = make(chan struct{})
	q := storage.NewQueue(backend, discard())

	require.NoError(t, q.Put(ctx, "a", []byte("1")))

	got, err := q.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))

	_, err = q.Get(ctx, "other")
	assert.ErrorIs(t, err, ledger.ErrKeyNotFound)

	require.NoError(t, q.Put(ctx, "a", []byte("2")))
	require.NoError(t, q.Put(ctx, "a", []byte("3")))

	got, err = q.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "3", string(got))

	close(backend.gate)
	require.NoError(t, q.Close())

	writes := backend.recorded()
	require.NotEmpty(t, writes)
	assert.Equal(t, write{"a", "3"}, writes[len(writes)-1], "the newest value lands last")
	assert.LessOrEqual(t, len(writes), 2, "superseded values are coalesced")
}

func TestQueue_FlushHonoursContext(t *testing.T) {
	backend := newRecorder()
	backend.gate = make(chan struct{})
	q := storage.NewQueue(backend, discard())

	require.NoError(t, q.Put(context.Background(), "a", []byte("1")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, q.Flush(ctx), context.DeadlineExceeded)

	close(backend.gate)
	require.NoError(t, q.Close())
}

func TestQueue_Close(t *testing.T) {
	ctx := context.Background()
	q := storage.NewQueue(newRecorder(), discard())

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Put(ctx, "a", []byte("1")), storage.ErrClosed)
}

func TestQueue_WriteFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	backend := newRecorder()
	backend.fail = errors.New("throttled")
	q := storage.NewQueue(backend, discard())

	require.NoError(t, q.Put(ctx, "a", []byte("1")))
	require.NoError(t, q.Flush(ctx))
	require.NoError(t, q.Close())

	assert.Len(t, backend.recorded(), 1)
}

func TestQueue_BacksLedger(t *testing.T) {
	ctx := context.Background()
	backend := newRecorder()
	q := storage.NewQueue(backend, discard())

	s, err := ledger.Open(ctx, q, ledger.Seed{
		Stages: []ledger.Stage{{ID: "s1", Name: "Footing", Percentage: 10, Amount: 1000}},
	}, ledger.WithLogger(discard()))
	require.NoError(t, err)

	_, err = s.UpdateStage(ctx, "s1", ledger.StagePatch{Paid: new(int64(400))})
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	keys := map[string]bool{}
	for _, w := range backend.recorded() {
		keys[w.key] = true
	}

	assert.True(t, keys[ledger.KeyStages])
	assert.True(t, keys[ledger.KeyPayments])
	require.NoError(t, q.Close())
}
