// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smooth

import (
	"context"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var _ draw.Scaler = (*Scaler)(nil)

// Scaler is a draw.Scaler that scales with ScaleWith and composites the
// result onto the destination. As with the x/image/draw scalers, a DstMask
// blends the Src result with the existing destination pixels.
//
// The SrcMask field of draw.Options is not supported and is ignored.
type Scaler struct {
	Options
}

// Scale implements the draw.Scaler interface. sr maps onto dr as a whole;
// where sr reaches outside the source bounds the corresponding part of dr
// receives transparent pixels, as if the source were padded with them.
func (z *Scaler) Scale(dst draw.Image, dr image.Rectangle, src image.Image, sr image.Rectangle, op draw.Op, opts *draw.Options) {
	if isNil(src) || dr.Empty() || sr.Empty() {
		return
	}
	sub, sdr := crop(src, sr, dr)
	if op == draw.Src && sdr != dr {
		composite(dst, dr, image.Transparent, op, opts)
	}
	if sub == nil || sdr.Empty() {
		return
	}
	o := z.Options
	out := ScaleWith(context.Background(), sub, sdr.Dx(), sdr.Dy(), &o)
	if out == nil {
		return
	}
	composite(dst, sdr, out, op, opts)
}

// composite draws src, anchored at the origin, onto dst inside r.
func composite(dst draw.Image, r image.Rectangle, src image.Image, op draw.Op, opts *draw.Options) {
	if opts == nil || opts.DstMask == nil {
		draw.Draw(dst, r, src, image.Point{}, op)
		return
	}
	mp := r.Min.Add(opts.DstMaskP)
	if op == draw.Over {
		draw.DrawMask(dst, r, src, image.Point{}, opts.DstMask, mp, op)
		return
	}
	drawSrcMask(dst, r, src, opts.DstMask, mp)
}

// drawSrcMask replaces the pixels of dst inside dr by those of src, which is
// anchored at the origin, blending with the old values by the mask's alpha.
// The mask pixel at mp corresponds to dr.Min.
func drawSrcMask(dst draw.Image, dr image.Rectangle, src, mask image.Image, mp image.Point) {
	r := dr.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sx, sy := x-dr.Min.X, y-dr.Min.Y
			_, _, _, ma := mask.At(mp.X+sx, mp.Y+sy).RGBA()
			pr, pg, pb, pa := src.At(sx, sy).RGBA()
			qr, qg, qb, qa := dst.At(x, y).RGBA()
			m1 := 0xffff - ma
			dst.Set(x, y, color.RGBA64{
				R: uint16((pr*ma + qr*m1) / 0xffff),
				G: uint16((pg*ma + qg*m1) / 0xffff),
				B: uint16((pb*ma + qb*m1) / 0xffff),
				A: uint16((pa*ma + qa*m1) / 0xffff),
			})
		}
	}
}

// crop returns the part of src inside sr together with the part of dr it
// maps to when sr is stretched over dr. The image is nil if that part is
// empty.
func crop(src image.Image, sr, dr image.Rectangle) (image.Image, image.Rectangle) {
	cr := sr.Intersect(src.Bounds())
	if cr.Empty() {
		return nil, image.Rectangle{}
	}
	sdr := image.Rectangle{
		Min: image.Pt(mapCoord(cr.Min.X, sr.Min.X, sr.Dx(), dr.Min.X, dr.Dx()),
			mapCoord(cr.Min.Y, sr.Min.Y, sr.Dy(), dr.Min.Y, dr.Dy())),
		Max: image.Pt(mapCoord(cr.Max.X, sr.Min.X, sr.Dx(), dr.Min.X, dr.Dx()),
			mapCoord(cr.Max.Y, sr.Min.Y, sr.Dy(), dr.Min.Y, dr.Dy())),
	}
	if cr == src.Bounds() {
		return src, sdr
	}
	if s, ok := src.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return s.SubImage(cr), sdr
	}
	dst := newRGBA64(cr.Dx(), cr.Dy())
	if dst == nil {
		return nil, sdr
	}
	draw.Draw(dst, dst.Bounds(), src, cr.Min, draw.Src)
	return dst, sdr
}

// mapCoord maps the source coordinate v of an axis that starts at s0 and is
// sn samples long onto the destination axis starting at d0 with dn samples.
func mapCoord(v, s0, sn, d0, dn int) int {
	return d0 + int(int64(v-s0)*int64(dn)/int64(sn))
}
