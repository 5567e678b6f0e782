// Package memory implements storage.Storage in process memory. Data does not
// survive a restart. Transactions take the store's write lock for their whole
// lifetime and work on a copy that replaces the live data on Commit.
package memory

import (
	"context"
	"fmt"
	"maps"
	"storefront/pkg/domain"
	"storefront/pkg/storage"
	"sync"
	"time"
)

// Memory is an in-memory product store. The zero value is not usable; call New.
type Memory struct {
	mu       sync.RWMutex
	products map[domain.ProductID]domain.Product
	now      func() time.Time

	// parent is set on transactional handles and points at the store whose write
	// lock the transaction holds.
	parent *Memory
	done   bool
}

// Option customizes a Memory store.
type Option func(*Memory)

// WithClock overrides the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// New creates an empty in-memory store.
func New(opts ...Option) *Memory {
	m := &Memory{
		products: map[domain.ProductID]domain.Product{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

var _ storage.Storage = (*Memory)(nil)

// Close drops all stored data.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products = map[domain.ProductID]domain.Product{}

	return nil
}

// Begin starts a transaction. It blocks until every other transaction and
// in-flight operation on the store finished.
func (m *Memory) Begin(ctx context.Context) (storage.TxStorage, error) {
	if m.parent != nil {
		return nil, storage.ErrAlreadyInTx
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("could not begin tx: %w", err)
	}

	m.mu.Lock()

	return &Memory{
		products: maps.Clone(m.products),
		now:      m.now,
		parent:   m,
	}, nil
}

// Commit publishes the transaction's changes and releases the store.
func (m *Memory) Commit() error {
	if m.parent == nil || m.done {
		return storage.ErrNotInTx
	}
	m.done = true
	m.parent.products = m.products
	m.parent.mu.Unlock()

	return nil
}

// Rollback discards the transaction's changes and releases the store.
func (m *Memory) Rollback() error {
	if m.parent == nil || m.done {
		return storage.ErrNotInTx
	}
	m.done = true
	m.parent.mu.Unlock()

	return nil
}

// WithTx runs cb inside a transaction, committing when it returns nil. A panic in
// cb rolls back, releasing the store, before it propagates.
func (m *Memory) WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := cb(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	return tx.Commit()
}

// read and write guard the data. Transactional handles are owned by a single
// caller and already hold the parent's lock, so they skip locking.
func (m *Memory) read() func() {
	if m.parent != nil {
		return func() {}
	}
	m.mu.RLock()

	return m.mu.RUnlock
}

func (m *Memory) write() func() {
	if m.parent != nil {
		return func() {}
	}
	m.mu.Lock()

	return m.mu.Unlock
}
