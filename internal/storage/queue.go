package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/sitebook/internal/ledger"
)

// ErrClosed is returned by Put after Close.
var ErrClosed = errors.New("queue closed")

const defaultWriteTimeout = 10 * time.Second

// Queue makes any backend's writes asynchronous. Keys are written in the
// order they were first queued and only the newest value of a key is
// written. Reads see queued values before they reach the backend.
type Queue struct {
	backend ledger.Backend
	log     *slog.Logger
	timeout time.Duration

	mu       sync.Mutex
	cond     *sync.Cond
	order    []string
	queued   map[string][]byte
	inflight map[string][]byte
	closed   bool
	done     chan struct{}
}

// NewQueue starts the writer goroutine. Call Close to drain and stop it.
func NewQueue(backend ledger.Backend, log *slog.Logger) *Queue {
	q := &Queue{
		backend:  backend,
		log:      log,
		timeout:  defaultWriteTimeout,
		queued:   make(map[string][]byte),
		inflight: make(map[string][]byte),
		done:     make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)

	go q.run()

	return q
}

func (q *Queue) Get(ctx context.Context, key string) ([]byte, error) {
	q.mu.Lock()

	if v, ok := q.queued[key]; ok {
		q.mu.Unlock()
		return bytes.Clone(v), nil
	}

	if v, ok := q.inflight[key]; ok {
		q.mu.Unlock()
		return bytes.Clone(v), nil
	}

	q.mu.Unlock()

	return q.backend.Get(ctx, key)
}

// Put queues value and returns immediately. Write failures are logged.
func (q *Queue) Put(_ context.Context, key string, value []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	if _, ok := q.queued[key]; !ok {
		q.order = append(q.order, key)
	}

	q.queued[key] = bytes.Clone(value)
	q.cond.Broadcast()

	return nil
}

// Flush blocks until every queued write has been attempted or ctx is done.
func (q *Queue) Flush(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		defer q.mu.Unlock()

		q.cond.Broadcast()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.order) > 0 || len(q.inflight) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		q.cond.Wait()
	}

	return nil
}

// Close writes whatever is still queued and stops the writer.
func (q *Queue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Broadcast()
	}
	q.mu.Unlock()

	<-q.done

	return nil
}

func (q *Queue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()

		for len(q.order) == 0 && !q.closed {
			q.cond.Wait()
		}

		if len(q.order) == 0 {
			q.mu.Unlock()
			return
		}

		key := q.order[0]
		q.order = q.order[1:]
		value := q.queued[key]
		delete(q.queued, key)
		q.inflight[key] = value

		q.mu.Unlock()

		q.write(key, value)

		q.mu.Lock()
		delete(q.inflight, key)
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

func (q *Queue) write(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	if err := q.backend.Put(ctx, key, value); err != nil {
		q.log.Error("queued write failed", "key", key, "error", err)
	}
}
