package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

// ErrExecutorClosed is returned for work submitted after Close.
var ErrExecutorClosed = errors.New("storage executor closed")

type job struct {
	fn     func() error
	result chan error
}

// Executor runs storage operations one at a time on a dedicated goroutine.
type Executor struct {
	jobs chan job
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// NewExecutor starts an executor.
func NewExecutor() *Executor {
	e := &Executor{
		jobs: make(chan job),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go e.loop()
	return e
}

func (e *Executor) loop() {
	defer close(e.done)
	for {
		select {
		case <-e.quit:
			return
		case j := <-e.jobs:
			j.result <- j.fn()
		}
	}
}

// Do runs fn on the executor goroutine and waits for it. ctx only bounds the wait for a free slot:
// once fn has started it always runs to completion. fn must not call Do on the same executor.
func (e *Executor) Do(ctx context.Context, fn func() error) error {
	j := job{fn: fn, result: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.quit:
		return ErrExecutorClosed
	case e.jobs <- j:
	}
	return <-j.result
}

// Close stops the executor after the running job, if any, finishes.
func (e *Executor) Close() {
	e.once.Do(func() {
		close(e.quit)
	})
	<-e.done
}

// Confined routes every call of a store through an executor.
type Confined struct {
	store Store
	exec  *Executor
}

// NewConfined wraps store so that its operations never interleave with other work on exec.
func NewConfined(store Store, exec *Executor) *Confined {
	return &Confined{store: store, exec: exec}
}

func (c *Confined) LatestHeight(ctx context.Context) (h model.BlockHeight, ok bool, err error) {
	err = c.exec.Do(ctx, func() error {
		var opErr error
		h, ok, opErr = c.store.LatestHeight(ctx)
		return opErr
	})
	return h, ok, err
}

func (c *Confined) Find(ctx context.Context, height model.BlockHeight) (b model.CachedBlock, ok bool, err error) {
	err = c.exec.Do(ctx, func() error {
		var opErr error
		b, ok, opErr = c.store.Find(ctx, height)
		return opErr
	})
	return b, ok, err
}

func (c *Confined) Write(ctx context.Context, blocks []model.CachedBlock) error {
	return c.exec.Do(ctx, func() error {
		return c.store.Write(ctx, blocks)
	})
}

func (c *Confined) RewindTo(ctx context.Context, height model.BlockHeight) error {
	return c.exec.Do(ctx, func() error {
		return c.store.RewindTo(ctx, height)
	})
}

func (c *Confined) Close() error {
	return c.exec.Do(context.Background(), c.store.Close)
}
