// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package workpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewDefaultsToGOMAXPROCS(t *testing.T) {
	p := New(0)
	defer p.Close()
	if p.Workers() <= 0 {
		t.Fatalf("Workers: got %d, want > 0", p.Workers())
	}
	if !p.IsRunning() {
		t.Fatal("IsRunning: got false, want true")
	}
}

func TestSubmitRunsEveryTask(t *testing.T) {
	p := New(3)
	defer p.Close()

	const n = 200
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		p.Submit(context.Background(), func(context.Context) {
			defer wg.Done()
			count.Add(1)
		})
	}
	wg.Wait()
	if got := count.Load(); got != n {
		t.Errorf("count: got %d, want %d", got, n)
	}
}

func TestContains(t *testing.T) {
	p := New(2)
	defer p.Close()
	other := New(1)
	defer other.Close()

	ctx := context.Background()
	if p.Contains(ctx) {
		t.Error("Contains(background): got true, want false")
	}

	var inP, inOther bool
	var wg sync.WaitGroup
	wg.Add(1)
	p.Submit(ctx, func(ctx context.Context) {
		defer wg.Done()
		inP = p.Contains(ctx)
		inOther = other.Contains(ctx)
	})
	wg.Wait()
	if !inP {
		t.Error("Contains(task ctx): got false, want true")
	}
	if inOther {
		t.Error("other.Contains(task ctx): got true, want false")
	}

	var nilPool *Pool
	if nilPool.Contains(ctx) {
		t.Error("nil pool Contains: got true, want false")
	}
}

func TestContainsKeepsParentValues(t *testing.T) {
	p := New(1)
	defer p.Close()

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	got := make(chan any, 1)
	p.Submit(ctx, func(ctx context.Context) { got <- ctx.Value(key{}) })
	if v := <-got; v != "v" {
		t.Errorf("value: got %v, want %q", v, "v")
	}
}

func TestSubmitAfterCloseRunsInline(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close()
	if p.IsRunning() {
		t.Fatal("IsRunning after Close: got true, want false")
	}

	ran := false
	var inPool bool
	p.Submit(context.Background(), func(ctx context.Context) {
		ran = true
		inPool = p.Contains(ctx)
	})
	if !ran {
		t.Error("task submitted after Close did not run")
	}
	if inPool {
		t.Error("inline task reported as running on the pool")
	}
}

func TestCloseDrainsQueue(t *testing.T) {
	p := New(1)
	const n = 32
	var count atomic.Int64
	for range n {
		p.Submit(context.Background(), func(context.Context) { count.Add(1) })
	}
	p.Close()
	if got := count.Load(); got != n {
		t.Errorf("count after Close: got %d, want %d", got, n)
	}
}

func TestSubmitFromTaskOnFullQueue(t *testing.T) {
	p := New(1)
	defer p.Close()

	const n = 64
	var count atomic.Int64
	done := make(chan struct{})
	p.Submit(context.Background(), func(ctx context.Context) {
		defer close(done)
		for range n {
			p.Submit(ctx, func(context.Context) { count.Add(1) })
		}
	})
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("task submitting to its own pool did not finish")
	}
	p.Close()
	if got := count.Load(); got != n {
		t.Errorf("count: got %d, want %d", got, n)
	}
}

func TestSubmitDuringClose(t *testing.T) {
	p := New(1)

	const n = 64
	var count atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	// The worker is parked so that the queue fills and the goroutine below
	// blocks in Submit while Close runs.
	p.Submit(context.Background(), func(context.Context) {
		close(started)
		<-release
	})
	<-started
	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		for range n {
			p.Submit(context.Background(), func(context.Context) { count.Add(1) })
		}
	}()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		p.Close()
	}()
	deadline := time.Now().Add(10 * time.Second)
	for p.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("Close did not stop the pool while Submit was blocked")
		}
		time.Sleep(time.Millisecond)
	}
	close(release)

	for _, c := range []chan struct{}{submitted, closed} {
		select {
		case <-c:
		case <-time.After(10 * time.Second):
			t.Fatal("Close and a blocked Submit did not both return")
		}
	}
	if got := count.Load(); got != n {
		t.Errorf("count: got %d, want %d", got, n)
	}
}

func TestTrySubmit(t *testing.T) {
	p := New(1)

	started := make(chan struct{})
	release := make(chan struct{})
	if !p.TrySubmit(context.Background(), func(context.Context) {
		close(started)
		<-release
	}) {
		t.Fatal("TrySubmit on an idle pool: got false, want true")
	}
	<-started

	var queued int
	for p.TrySubmit(context.Background(), func(context.Context) {}) {
		queued++
		if queued > 1000 {
			t.Fatal("TrySubmit never reported a full queue")
		}
	}
	if queued != cap(p.queue) {
		t.Errorf("queued: got %d, want %d", queued, cap(p.queue))
	}
	if p.TrySubmit(context.Background(), nil) {
		t.Error("TrySubmit(nil): got true, want false")
	}
	close(release)
	p.Close()
	if p.TrySubmit(context.Background(), func(context.Context) { t.Error("task ran after Close") }) {
		t.Error("TrySubmit after Close: got true, want false")
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default returned different pools")
	}
}

func BenchmarkSubmit(b *testing.B) {
	p := New(0)
	defer p.Close()
	ctx := context.Background()
	var wg sync.WaitGroup
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		wg.Add(1)
		p.Submit(ctx, func(context.Context) { wg.Done() })
	}
	wg.Wait()
}
