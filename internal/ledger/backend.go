package ledger

import "context"

// Backend is a durable key-value store holding one JSON document per collection.
//
//go:generate mockgen -source=backend.go -destination=backend_mock.go -package=ledger
type Backend interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
