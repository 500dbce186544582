// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smooth

import (
	"image"
	"image/color"
)

// Color128F is an alpha-premultiplied color with float32 channels. The
// nominal range of each channel is [0, 1], but values outside it are kept.
type Color128F struct {
	R, G, B, A float32
}

// toU16 converts a nominal [0, 1] sample to 16 bits, clamping to [0, limit].
func toU16(s float32, limit uint32) uint32 {
	if s <= 0 {
		return 0
	}
	if s >= 1 {
		return limit
	}
	return min(uint32(s*0xffff+0.5), limit)
}

func (c Color128F) RGBA() (r, g, b, a uint32) {
	a = toU16(c.A, 0xffff)
	r = toU16(c.R, a)
	g = toU16(c.G, a)
	b = toU16(c.B, a)
	return r, g, b, a
}

// Color128FModel converts any color to a Color128F.
var Color128FModel color.Model = color.ModelFunc(color128FModel)

func color128FModel(c color.Color) color.Color {
	if c, ok := c.(Color128F); ok {
		return c
	}
	r, g, b, a := c.RGBA()
	return Color128F{
		R: float32(r) / 0xffff,
		G: float32(g) / 0xffff,
		B: float32(b) / 0xffff,
		A: float32(a) / 0xffff,
	}
}

// RGBA128F is an in-memory image whose At method returns Color128F values.
// It is the floating-point pixel family of the scaler.
type RGBA128F struct {
	// Pix holds the image's pixels, in R, G, B, A order. The pixel at
	// (x, y) starts at Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*4].
	Pix []float32
	// Stride is the Pix stride, in float32s, between vertically adjacent
	// pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

// NewRGBA128F returns a new RGBA128F image with the given bounds.
func NewRGBA128F(r image.Rectangle) *RGBA128F {
	w, h := r.Dx(), r.Dy()
	return &RGBA128F{
		Pix:    make([]float32, 4*w*h),
		Stride: 4 * w,
		Rect:   r,
	}
}

func (p *RGBA128F) ColorModel() color.Model { return Color128FModel }

func (p *RGBA128F) Bounds() image.Rectangle { return p.Rect }

func (p *RGBA128F) At(x, y int) color.Color {
	return p.Color128FAt(x, y)
}

func (p *RGBA128F) RGBA64At(x, y int) color.RGBA64 {
	r, g, b, a := p.Color128FAt(x, y).RGBA()
	return color.RGBA64{uint16(r), uint16(g), uint16(b), uint16(a)}
}

func (p *RGBA128F) Color128FAt(x, y int) Color128F {
	if !(image.Point{x, y}.In(p.Rect)) {
		return Color128F{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+4 : i+4]
	return Color128F{s[0], s[1], s[2], s[3]}
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *RGBA128F) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

func (p *RGBA128F) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	p.SetColor128F(x, y, color128FModel(c).(Color128F))
}

func (p *RGBA128F) SetColor128F(x, y int, c Color128F) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = c.R, c.G, c.B, c.A
}

// SubImage returns an image representing the portion of the image p visible
// through r. The returned value shares pixels with the original image.
func (p *RGBA128F) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &RGBA128F{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &RGBA128F{
		Pix:    p.Pix[i:],
		Stride: p.Stride,
		Rect:   r,
	}
}

// Opaque scans the entire image and reports whether it is fully opaque.
func (p *RGBA128F) Opaque() bool {
	if p.Rect.Empty() {
		return true
	}
	i0, i1 := 3, p.Rect.Dx()*4
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		for i := i0; i < i1; i += 4 {
			if p.Pix[i] < 1 {
				return false
			}
		}
		i0 += p.Stride
		i1 += p.Stride
	}
	return true
}
