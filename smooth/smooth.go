// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package smooth implements smooth (area-sampling) image scaling.
//
// Every destination pixel is the weighted average of the source pixels its
// footprint covers when an axis is scaled down, and a blend of the two
// nearest source pixels when an axis is scaled up. Weights are fixed-point,
// so 8-bit and 16-bit results do not depend on the floating-point unit.
//
// Large images are split into bands of rows that are scaled concurrently on
// a shared worker pool. The result is bit-identical to a serial run.
package smooth // import "github.com/smoothscale/smoothscale/smooth"

import (
	"context"
	"image"
	"reflect"

	"golang.org/x/image/draw"

	"github.com/smoothscale/smoothscale/workpool"
)

// Options are optional parameters to ScaleWith. A nil *Options means the
// zero value.
type Options struct {
	// FlipH and FlipV mirror the result horizontally and vertically.
	FlipH, FlipV bool

	// Nearest disables area sampling: each destination pixel copies the
	// first source pixel of its footprint.
	Nearest bool

	// Serial scales on the calling goroutine only.
	Serial bool

	// Pool is the pool that row bands are scheduled on. If nil, the
	// process-wide workpool.Default() pool is used.
	Pool *workpool.Pool
}

func (o *Options) pool() *workpool.Pool {
	switch {
	case o.Serial:
		return nil
	case o.Pool != nil:
		return o.Pool
	}
	return workpool.Default()
}

// Scale returns src scaled to dw×dh with area sampling. It is shorthand for
// ScaleWith(context.Background(), src, dw, dh, nil).
func Scale(src image.Image, dw, dh int) image.Image {
	return ScaleWith(context.Background(), src, dw, dh, nil)
}

// ScaleWith returns src scaled to dw×dh. The result's bounds are
// image.Rect(0, 0, dw, dh) and its type follows the source:
//
//   - *image.RGBA, *image.NRGBA, *image.RGBA64 and *image.NRGBA64 sources
//     give a result of the same type.
//   - *RGBA128F sources give an *RGBA128F.
//   - Other sources with more than 8 bits per channel give an *image.RGBA64.
//   - Everything else gives an *image.RGBA.
//
// ScaleWith returns nil if src is nil or empty, if dw or dh is not positive,
// or if the result would be too large to allocate.
//
// The ctx identifies the caller to the worker pool. A call made from a task
// running on the pool, with the context that task received, scales on the
// calling goroutine instead of waiting on the pool.
func ScaleWith(ctx context.Context, src image.Image, dw, dh int, opts *Options) image.Image {
	if isNil(src) || dw <= 0 || dh <= 0 {
		return nil
	}
	r := src.Bounds()
	if r.Empty() {
		return nil
	}
	if opts == nil {
		opts = &Options{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	sdw, sdh := dw, dh
	if opts.FlipH {
		sdw = -sdw
	}
	if opts.FlipV {
		sdh = -sdh
	}
	isi, err := NewScaleInfo(r.Dx(), r.Dy(), sdw, sdh, !opts.Nearest)
	if err != nil {
		return nil
	}
	s := &scaler{ctx: ctx, pool: opts.pool(), isi: isi, dw: dw, dh: dh}

	switch m := src.(type) {
	case *image.RGBA:
		if out := s.rgba(m, m.Opaque()); out != nil {
			return out
		}
		return nil
	case *image.NRGBA:
		out := s.rgba(toRGBA(m), m.Opaque())
		if out == nil {
			return nil
		}
		n := newNRGBA(dw, dh)
		if n == nil {
			return nil
		}
		draw.Draw(n, n.Bounds(), out, image.Point{}, draw.Src)
		return n
	case *image.RGBA64:
		if out := s.rgba64(m); out != nil {
			return out
		}
		return nil
	case *image.NRGBA64:
		out := s.rgba64(toRGBA64(m))
		if out == nil {
			return nil
		}
		n := newNRGBA64(dw, dh)
		if n == nil {
			return nil
		}
		draw.Draw(n, n.Bounds(), out, image.Point{}, draw.Src)
		return n
	case *RGBA128F:
		if out := s.rgba128F(m); out != nil {
			return out
		}
		return nil
	}

	if deep(src) {
		if out := s.rgba64(toRGBA64(src)); out != nil {
			return out
		}
		return nil
	}
	if out := s.rgba(toRGBA(src), opaque(src)); out != nil {
		return out
	}
	return nil
}

// isNil reports whether m is nil or a nil pointer.
func isNil(m image.Image) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// scaler carries one resize through allocation and dispatch.
type scaler struct {
	ctx    context.Context
	pool   *workpool.Pool
	isi    *ScaleInfo
	dw, dh int
}

// rgba scales an 8-bit source. A nil src, as returned by a refused
// conversion, gives a nil result.
func (s *scaler) rgba(src *image.RGBA, opaque bool) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := newRGBA(s.dw, s.dh)
	if dst == nil {
		return nil
	}
	k := &rgba8Kernel{isi: s.isi, dst: viewRGBA(dst), src: viewRGBA(src)}
	runTiled(s.ctx, s.pool, s.isi, s.dh, k.section(opaque))
	return dst
}

func (s *scaler) rgba64(src *image.RGBA64) *image.RGBA64 {
	if src == nil {
		return nil
	}
	dst := newRGBA64(s.dw, s.dh)
	if dst == nil {
		return nil
	}
	k := &rgba64Kernel{isi: s.isi, dst: viewRGBA64(dst), src: viewRGBA64(src)}
	runTiled(s.ctx, s.pool, s.isi, s.dh, k.section())
	return dst
}

func (s *scaler) rgba128F(src *RGBA128F) *RGBA128F {
	dst := newRGBA128F(s.dw, s.dh)
	if dst == nil {
		return nil
	}
	k := &fpKernel{isi: s.isi, dst: viewRGBA128F(dst), src: viewRGBA128F(src)}
	runTiled(s.ctx, s.pool, s.isi, s.dh, k.section())
	return dst
}
