// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package workpool provides a fixed-size pool of goroutines that run
// context-aware tasks.
//
// Goroutines have no identity that user code can query, so a pool marks the
// context it passes to each task instead. Contains reports whether a context
// was handed out by the pool, which lets callers detect that they are already
// running on one of its workers and avoid blocking on work the pool cannot
// make progress on.
package workpool // import "github.com/smoothscale/smoothscale/workpool"

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Task is a unit of work. The context passed to a task is derived from the
// one given to Submit and is recognized by the pool's Contains method.
type Task func(ctx context.Context)

// Pool is a pool of worker goroutines sharing one task queue.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queue   chan job
	done    chan struct{} // closed when Close starts
	stop    chan struct{} // closed once no sender is left
	wg      sync.WaitGroup
	running atomic.Bool

	// closeMu orders the running check in enter against Close. It is never
	// held while a send on queue blocks.
	closeMu    sync.RWMutex
	submitters sync.WaitGroup
}

type job struct {
	ctx  context.Context
	task Task
}

// workerKey marks contexts handed to tasks by a particular pool.
type workerKey struct{ p *Pool }

// New creates a pool with the given number of workers. If workers is 0 or
// negative, GOMAXPROCS is used. The workers start immediately.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}
	p := &Pool{
		workers: workers,
		queue:   make(chan job, queueSize),
		done:    make(chan struct{}),
		stop:    make(chan struct{}),
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

var defaultPool = sync.OnceValue(func() *Pool { return New(0) })

// Default returns the process-wide pool, creating it on first use. It is
// sized by GOMAXPROCS at creation time and is never closed.
func Default() *Pool {
	return defaultPool()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case j := <-p.queue:
			p.run(j)
		case <-p.stop:
			// The queue is no longer fed once stop is closed.
			for {
				select {
				case j := <-p.queue:
					p.run(j)
				default:
					return
				}
			}
		}
	}
}

func (p *Pool) run(j job) {
	j.task(context.WithValue(j.ctx, workerKey{p}, true))
}

// Submit queues task to run on a worker. It blocks while the queue is full,
// except when called from one of p's own tasks, in which case a task that
// does not fit runs synchronously instead. If the pool has been closed, or is
// closed while Submit waits, the task runs synchronously on the calling
// goroutine, so every submitted task runs exactly once.
func (p *Pool) Submit(ctx context.Context, task Task) {
	if task == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !p.enter() {
		task(ctx)
		return
	}
	if !p.send(ctx, job{ctx, task}) {
		task(ctx)
	}
}

// send queues j on behalf of a registered sender. It reports false when j
// should run on the caller's goroutine instead.
func (p *Pool) send(ctx context.Context, j job) bool {
	defer p.submitters.Done()
	select {
	case p.queue <- j:
		return true
	default:
	}
	if p.Contains(ctx) {
		// Every worker may be blocked here; waiting could never end.
		return false
	}
	select {
	case p.queue <- j:
		return true
	case <-p.done:
		return false
	}
}

// TrySubmit queues task if a slot is free and reports whether it did. It
// never blocks and never runs task itself; it returns false once the pool is
// closed.
func (p *Pool) TrySubmit(ctx context.Context, task Task) bool {
	if task == nil {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if !p.enter() {
		return false
	}
	defer p.submitters.Done()
	select {
	case p.queue <- job{ctx, task}:
		return true
	default:
		return false
	}
}

// enter registers a sender with Close. It reports false if the pool is no
// longer running.
func (p *Pool) enter() bool {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if !p.running.Load() {
		return false
	}
	p.submitters.Add(1)
	return true
}

// Contains reports whether ctx was passed to a task by this pool, meaning the
// caller is running on one of p's workers.
func (p *Pool) Contains(ctx context.Context) bool {
	if p == nil || ctx == nil {
		return false
	}
	v, _ := ctx.Value(workerKey{p}).(bool)
	return v
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still hands tasks to its workers.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Close stops the workers after the queued tasks have run. Tasks submitted
// after Close run on the submitting goroutine. Close is safe to call more
// than once. It must not be called from one of p's tasks, since it waits
// for the workers to exit.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.closeMu.Unlock()
		return
	}
	close(p.done)
	p.closeMu.Unlock()
	// Senders blocked on a full queue give up once done is closed.
	p.submitters.Wait()
	close(p.stop)
	p.wg.Wait()
}
