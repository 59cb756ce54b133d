package listing

import (
	"context"
	"sync"
)

// Loader fetches one entity by id.
type Loader[T any] func(ctx context.Context, id string) (*T, error)

// Detail holds one entity. Loading another id cancels the previous request;
// its result is dropped.
type Detail[T any] struct {
	load Loader[T]

	mu     sync.Mutex
	id     string
	value  *T
	token  uint64
	cancel context.CancelFunc
}

// NewDetail creates an empty detail view.
func NewDetail[T any](load Loader[T]) *Detail[T] {
	return &Detail[T]{load: load}
}

// Load fetches id, superseding any in-flight load.
func (d *Detail[T]) Load(ctx context.Context, id string) (*T, error) {
	d.mu.Lock()
	d.token++
	token := d.token
	if d.cancel != nil {
		d.cancel()
	}
	if d.id != id {
		d.value = nil
	}
	d.id = id
	fetchCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	value, err := d.load(fetchCtx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if token != d.token {
		return nil, ErrSuperseded
	}
	cancel()
	d.cancel = nil
	if err != nil {
		return nil, err
	}
	d.value = value
	return value, nil
}

// Reload re-fetches the current id.
func (d *Detail[T]) Reload(ctx context.Context) (*T, error) {
	d.mu.Lock()
	id := d.id
	d.mu.Unlock()
	return d.Load(ctx, id)
}

// Set replaces the held value with a server-returned representation.
func (d *Detail[T]) Set(value *T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value = value
}

// Value returns the last successfully loaded entity.
func (d *Detail[T]) Value() *T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Close cancels any in-flight load and drops its result.
func (d *Detail[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.token++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
