// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smooth

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// maxImagePixels caps destination and intermediate allocations.
const maxImagePixels = 1<<29 - 1

// view is a byte raster addressed relative to its top-left pixel.
type view struct {
	pix    []uint8
	stride int
}

// row returns the offset of row y.
func (v view) row(y int) int { return y * v.stride }

// fview is the float32 counterpart of view. Its stride counts float32s.
type fview struct {
	pix    []float32
	stride int
}

func (v fview) row(y int) int { return y * v.stride }

// canAlloc reports whether a w×h raster of bpp bytes per pixel is within the
// allocation limits.
func canAlloc(w, h, bpp int) bool {
	if w <= 0 || h <= 0 || w > maxImagePixels/h {
		return false
	}
	return w*h <= math.MaxInt/bpp
}

func outOfMemory(w, h int) {
	Logger().Warn("smooth: out of memory, returning nil", "width", w, "height", h)
}

func newRGBA(w, h int) *image.RGBA {
	if !canAlloc(w, h, 4) {
		outOfMemory(w, h)
		return nil
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func newRGBA64(w, h int) *image.RGBA64 {
	if !canAlloc(w, h, 8) {
		outOfMemory(w, h)
		return nil
	}
	return image.NewRGBA64(image.Rect(0, 0, w, h))
}

func newNRGBA(w, h int) *image.NRGBA {
	if !canAlloc(w, h, 4) {
		outOfMemory(w, h)
		return nil
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

func newNRGBA64(w, h int) *image.NRGBA64 {
	if !canAlloc(w, h, 8) {
		outOfMemory(w, h)
		return nil
	}
	return image.NewNRGBA64(image.Rect(0, 0, w, h))
}

func newRGBA128F(w, h int) *RGBA128F {
	if !canAlloc(w, h, 16) {
		outOfMemory(w, h)
		return nil
	}
	return NewRGBA128F(image.Rect(0, 0, w, h))
}

// viewRGBA returns the view of m's bounds.
func viewRGBA(m *image.RGBA) view {
	r := m.Bounds()
	return view{m.Pix[m.PixOffset(r.Min.X, r.Min.Y):], m.Stride}
}

func viewRGBA64(m *image.RGBA64) view {
	r := m.Bounds()
	return view{m.Pix[m.PixOffset(r.Min.X, r.Min.Y):], m.Stride}
}

func viewRGBA128F(m *RGBA128F) fview {
	r := m.Bounds()
	return fview{m.Pix[m.PixOffset(r.Min.X, r.Min.Y):], m.Stride}
}

// toRGBA converts src to a premultiplied 8-bit raster at the origin.
func toRGBA(src image.Image) *image.RGBA {
	r := src.Bounds()
	dst := newRGBA(r.Dx(), r.Dy())
	if dst == nil {
		return nil
	}
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

// toRGBA64 converts src to a premultiplied 16-bit raster at the origin.
func toRGBA64(src image.Image) *image.RGBA64 {
	r := src.Bounds()
	dst := newRGBA64(r.Dx(), r.Dy())
	if dst == nil {
		return nil
	}
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

// deep reports whether m carries more than 8 bits per channel.
func deep(m image.Image) bool {
	switch m.ColorModel() {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model:
		return true
	}
	return false
}

// opaque reports whether every pixel of m is fully opaque.
func opaque(m image.Image) bool {
	if o, ok := m.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// nearest copies one source pixel of bpp bytes per destination pixel,
// without area sampling.
func nearest(isi *ScaleInfo, dst, src view, bpp, y0, y1 int) {
	for y := y0; y < y1; y++ {
		srow := src.row(isi.YPoints[y])
		d := dst.pix[dst.row(y):]
		for x, xp := range isi.XPoints {
			s := srow + xp*bpp
			copy(d[x*bpp:x*bpp+bpp], src.pix[s:s+bpp])
		}
	}
}
