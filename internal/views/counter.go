// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package views implements the asynchronous question view counter. Read
// paths hand it a question ID and move on; a small worker pool applies the
// increments through the store's atomic primitive.
package views

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cpp41419/fns50322-answers/internal/metrics"
)

// Defaults used when Options fields are zero.
const (
	DefaultWorkers   = 4
	DefaultQueueSize = 1024
	DefaultTimeout   = 2 * time.Second
)

// Incrementer applies a single atomic "views = views + 1" for a question.
type Incrementer interface {
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// Options tunes the worker pool.
type Options struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration // per increment
}

// Counter is a fire-and-forget view counter. Record never blocks and never
// reports failure; failed or dropped increments are logged and counted.
type Counter struct {
	inc     Incrementer
	timeout time.Duration
	queue   chan uuid.UUID

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New starts a Counter with its workers running.
func New(inc Incrementer, opts Options) *Counter {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	c := &Counter{
		inc:     inc,
		timeout: opts.Timeout,
		queue:   make(chan uuid.UUID, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		c.wg.Add(1)
		go c.work()
	}
	return c
}

// Record queues one view for the question. If the queue is full or the
// counter is closed the view is dropped.
func (c *Counter) Record(id uuid.UUID) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		metrics.ViewIncrements.WithLabelValues("dropped").Inc()
		slog.Debug("view dropped, counter closed", "question_id", id)
		return
	}

	select {
	case c.queue <- id:
		metrics.ViewQueueDepth.Inc()
	default:
		metrics.ViewIncrements.WithLabelValues("dropped").Inc()
		slog.Warn("view dropped, queue full", "question_id", id)
	}
}

// work drains the queue until it is closed. Each increment runs on its own
// context so it is independent of the request that recorded it.
func (c *Counter) work() {
	defer c.wg.Done()
	for id := range c.queue {
		metrics.ViewQueueDepth.Dec()
		c.apply(id)
	}
}

func (c *Counter) apply(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.inc.IncrementViews(ctx, id); err != nil {
		metrics.ViewIncrements.WithLabelValues("error").Inc()
		slog.Warn("view increment failed", "question_id", id, "error", err)
		return
	}
	metrics.ViewIncrements.WithLabelValues("ok").Inc()
}

// ErrCloseTimeout is returned by Close when pending increments did not
// finish before the context ended.
var ErrCloseTimeout = errors.New("views: pending increments not drained")

// Close stops accepting views and waits for queued increments to be applied
// or for ctx to end. It is safe to call more than once.
func (c *Counter) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrCloseTimeout
	}
}
