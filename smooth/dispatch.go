// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smooth

import (
	"context"
	"sync/atomic"

	"github.com/smoothscale/smoothscale/workpool"
)

// segmentPixels is the number of source pixels that justifies one extra
// parallel segment.
const segmentPixels = 1 << 16

// segmentCount returns how many row bands a rows-row destination of the
// source described by isi is split into.
func segmentCount(isi *ScaleInfo, rows int) int {
	return min(isi.SrcW*isi.SrcH/segmentPixels, rows)
}

// runTiled calls fn over the half-open row ranges that partition [0, rows).
// With a pool, more than one segment, and a caller that is not itself one of
// the pool's workers, the ranges are shared between the calling goroutine
// and whichever pool workers pick up a helper task. Otherwise fn(0, rows)
// runs on the calling goroutine.
//
// The caller only waits for ranges some goroutine has already started, so
// runTiled returns even when no worker is free, whatever ctx it is given.
func runTiled(ctx context.Context, pool *workpool.Pool, isi *ScaleInfo, rows int, fn func(y0, y1 int)) {
	if rows <= 0 {
		return
	}
	segments := segmentCount(isi, rows)
	switch {
	case segments <= 1:
		fn(0, rows)
		return
	case pool == nil:
		Logger().Debug("smooth: serial scale", "reason", "no pool", "rows", rows)
		fn(0, rows)
		return
	case pool.Contains(ctx):
		Logger().Debug("smooth: serial scale", "reason", "nested", "rows", rows)
		fn(0, rows)
		return
	}

	bands := make([]int, segments+1)
	for i := range segments {
		bands[i+1] = bands[i] + (rows-bands[i])/(segments-i)
	}

	var next, remaining atomic.Int32
	remaining.Store(int32(segments))
	done := make(chan struct{})
	work := func() {
		for {
			i := int(next.Add(1)) - 1
			if i >= segments {
				return
			}
			fn(bands[i], bands[i+1])
			if remaining.Add(-1) == 0 {
				close(done)
			}
		}
	}

	helpers := 0
	for range min(segments-1, pool.Workers()) {
		if !pool.TrySubmit(ctx, func(context.Context) { work() }) {
			break
		}
		helpers++
	}
	Logger().Debug("smooth: parallel scale", "segments", segments, "helpers", helpers, "rows", rows)
	work()
	<-done
}
