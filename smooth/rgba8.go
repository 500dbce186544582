// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smooth

// rgba8Kernel scales 4-byte premultiplied RGBA pixels, as stored by
// image.RGBA. The opaque variants ignore the source alpha and write 0xff.
type rgba8Kernel struct {
	isi      *ScaleInfo
	dst, src view
}

// section returns the row-range function for the kernel's scaling regime.
func (k *rgba8Kernel) section(opaque bool) func(y0, y1 int) {
	switch {
	case k.isi.XAPoints == nil:
		return func(y0, y1 int) { nearest(k.isi, k.dst, k.src, 4, y0, y1) }
	case k.isi.Up == UpX|UpY:
		return k.upXY
	case k.isi.Up == UpX && opaque:
		return k.upXDownYRGB
	case k.isi.Up == UpX:
		return k.upXDownY
	case k.isi.Up == UpY && opaque:
		return k.downXUpYRGB
	case k.isi.Up == UpY:
		return k.downXUpY
	case opaque:
		return k.downXYRGB
	}
	return k.downXY
}

func lerp8(a, b uint8, w int32) uint8 {
	return uint8((uint32(a)*uint32(256-w) + uint32(b)*uint32(w)) >> 8)
}

// upXY blends at most the 2×2 source neighbourhood of each destination pixel.
// It serves both the RGB and RGBA variants: an opaque source stays opaque.
func (k *rgba8Kernel) upXY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		srow := k.src.row(isi.YPoints[y])
		d := k.dst.pix[k.dst.row(y):]
		yap := isi.YAPoints[y]
		for x, xp := range isi.XPoints {
			s := srow + xp*4
			di := x * 4
			xap := isi.XAPoints[x]
			switch {
			case yap > 0 && xap > 0:
				for c := range 4 {
					top := lerp8(sp[s+c], sp[s+4+c], xap)
					bot := lerp8(sp[s+stride+c], sp[s+stride+4+c], xap)
					d[di+c] = lerp8(top, bot, yap)
				}
			case yap > 0:
				for c := range 4 {
					d[di+c] = lerp8(sp[s+c], sp[s+stride+c], yap)
				}
			case xap > 0:
				for c := range 4 {
					d[di+c] = lerp8(sp[s+c], sp[s+4+c], xap)
				}
			default:
				copy(d[di:di+4], sp[s:s+4])
			}
		}
	}
}

// sumRGBA8 accumulates a run of samples starting at offset off and advancing
// by step. The first sample is weighted ap, the following ones c, and the last
// one the remainder of the unit. At most room steps are taken; the edge
// sample is reused beyond that.
func sumRGBA8(p []uint8, off, step, room int, ap, c int32) (r, g, b, a uint32) {
	w := uint32(ap)
	r = uint32(p[off+0]) * w
	g = uint32(p[off+1]) * w
	b = uint32(p[off+2]) * w
	a = uint32(p[off+3]) * w
	j := unit - ap
	w = uint32(c)
	for ; j > c; j -= c {
		if room > 0 {
			off += step
			room--
		}
		r += uint32(p[off+0]) * w
		g += uint32(p[off+1]) * w
		b += uint32(p[off+2]) * w
		a += uint32(p[off+3]) * w
	}
	if room > 0 {
		off += step
	}
	w = uint32(j)
	r += uint32(p[off+0]) * w
	g += uint32(p[off+1]) * w
	b += uint32(p[off+2]) * w
	a += uint32(p[off+3]) * w
	return r, g, b, a
}

func sumRGB8(p []uint8, off, step, room int, ap, c int32) (r, g, b uint32) {
	w := uint32(ap)
	r = uint32(p[off+0]) * w
	g = uint32(p[off+1]) * w
	b = uint32(p[off+2]) * w
	j := unit - ap
	w = uint32(c)
	for ; j > c; j -= c {
		if room > 0 {
			off += step
			room--
		}
		r += uint32(p[off+0]) * w
		g += uint32(p[off+1]) * w
		b += uint32(p[off+2]) * w
	}
	if room > 0 {
		off += step
	}
	w = uint32(j)
	r += uint32(p[off+0]) * w
	g += uint32(p[off+1]) * w
	b += uint32(p[off+2]) * w
	return r, g, b
}

// upXDownY averages a vertical run of rows and blends two columns.
func (k *rgba8Kernel) upXDownY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		yap, cy := run(isi.YAPoints[y])
		yp := isi.YPoints[y]
		srow, room := k.src.row(yp), isi.SrcH-1-yp
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			s := srow + xp*4
			r, g, b, a := sumRGBA8(sp, s, stride, room, yap, cy)
			if xap := isi.XAPoints[x]; xap > 0 {
				rr, gg, bb, aa := sumRGBA8(sp, s+4, stride, room, yap, cy)
				w, iw := uint32(xap), uint32(256-xap)
				r = (r*iw + rr*w) >> 8
				g = (g*iw + gg*w) >> 8
				b = (b*iw + bb*w) >> 8
				a = (a*iw + aa*w) >> 8
			}
			di := x * 4
			d[di+0] = uint8(r >> 14)
			d[di+1] = uint8(g >> 14)
			d[di+2] = uint8(b >> 14)
			d[di+3] = uint8(a >> 14)
		}
	}
}

func (k *rgba8Kernel) upXDownYRGB(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		yap, cy := run(isi.YAPoints[y])
		yp := isi.YPoints[y]
		srow, room := k.src.row(yp), isi.SrcH-1-yp
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			s := srow + xp*4
			r, g, b := sumRGB8(sp, s, stride, room, yap, cy)
			if xap := isi.XAPoints[x]; xap > 0 {
				rr, gg, bb := sumRGB8(sp, s+4, stride, room, yap, cy)
				w, iw := uint32(xap), uint32(256-xap)
				r = (r*iw + rr*w) >> 8
				g = (g*iw + gg*w) >> 8
				b = (b*iw + bb*w) >> 8
			}
			di := x * 4
			d[di+0] = uint8(r >> 14)
			d[di+1] = uint8(g >> 14)
			d[di+2] = uint8(b >> 14)
			d[di+3] = 0xff
		}
	}
}

// downXUpY averages a horizontal run of columns and blends two rows.
func (k *rgba8Kernel) downXUpY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		srow := k.src.row(isi.YPoints[y])
		yap := isi.YAPoints[y]
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			xap, cx := run(isi.XAPoints[x])
			s, room := srow+xp*4, isi.SrcW-1-xp
			r, g, b, a := sumRGBA8(sp, s, 4, room, xap, cx)
			if yap > 0 {
				rr, gg, bb, aa := sumRGBA8(sp, s+stride, 4, room, xap, cx)
				w, iw := uint32(yap), uint32(256-yap)
				r = (r*iw + rr*w) >> 8
				g = (g*iw + gg*w) >> 8
				b = (b*iw + bb*w) >> 8
				a = (a*iw + aa*w) >> 8
			}
			di := x * 4
			d[di+0] = uint8(r >> 14)
			d[di+1] = uint8(g >> 14)
			d[di+2] = uint8(b >> 14)
			d[di+3] = uint8(a >> 14)
		}
	}
}

func (k *rgba8Kernel) downXUpYRGB(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		srow := k.src.row(isi.YPoints[y])
		yap := isi.YAPoints[y]
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			xap, cx := run(isi.XAPoints[x])
			s, room := srow+xp*4, isi.SrcW-1-xp
			r, g, b := sumRGB8(sp, s, 4, room, xap, cx)
			if yap > 0 {
				rr, gg, bb := sumRGB8(sp, s+stride, 4, room, xap, cx)
				w, iw := uint32(yap), uint32(256-yap)
				r = (r*iw + rr*w) >> 8
				g = (g*iw + gg*w) >> 8
				b = (b*iw + bb*w) >> 8
			}
			di := x * 4
			d[di+0] = uint8(r >> 14)
			d[di+1] = uint8(g >> 14)
			d[di+2] = uint8(b >> 14)
			d[di+3] = 0xff
		}
	}
}

// downXY averages a run of rows, each of which is itself a run of columns.
// The row sums are reduced by 4 bits before the outer accumulation so the
// total stays within 32 bits.
func (k *rgba8Kernel) downXY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		yap, cy := run(isi.YAPoints[y])
		yp := isi.YPoints[y]
		srow, roomY := k.src.row(yp), isi.SrcH-1-yp
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			xap, cx := run(isi.XAPoints[x])
			s, roomX := srow+xp*4, isi.SrcW-1-xp

			rx, gx, bx, ax := sumRGBA8(sp, s, 4, roomX, xap, cx)
			w := uint32(yap)
			r, g, b, a := (rx>>4)*w, (gx>>4)*w, (bx>>4)*w, (ax>>4)*w

			room := roomY
			j := unit - yap
			w = uint32(cy)
			for ; j > cy; j -= cy {
				if room > 0 {
					s += stride
					room--
				}
				rx, gx, bx, ax = sumRGBA8(sp, s, 4, roomX, xap, cx)
				r += (rx >> 4) * w
				g += (gx >> 4) * w
				b += (bx >> 4) * w
				a += (ax >> 4) * w
			}
			if room > 0 {
				s += stride
			}
			rx, gx, bx, ax = sumRGBA8(sp, s, 4, roomX, xap, cx)
			w = uint32(j)
			r += (rx >> 4) * w
			g += (gx >> 4) * w
			b += (bx >> 4) * w
			a += (ax >> 4) * w

			di := x * 4
			d[di+0] = uint8(r >> 24)
			d[di+1] = uint8(g >> 24)
			d[di+2] = uint8(b >> 24)
			d[di+3] = uint8(a >> 24)
		}
	}
}

func (k *rgba8Kernel) downXYRGB(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		yap, cy := run(isi.YAPoints[y])
		yp := isi.YPoints[y]
		srow, roomY := k.src.row(yp), isi.SrcH-1-yp
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			xap, cx := run(isi.XAPoints[x])
			s, roomX := srow+xp*4, isi.SrcW-1-xp

			rx, gx, bx := sumRGB8(sp, s, 4, roomX, xap, cx)
			w := uint32(yap)
			r, g, b := (rx>>4)*w, (gx>>4)*w, (bx>>4)*w

			room := roomY
			j := unit - yap
			w = uint32(cy)
			for ; j > cy; j -= cy {
				if room > 0 {
					s += stride
					room--
				}
				rx, gx, bx = sumRGB8(sp, s, 4, roomX, xap, cx)
				r += (rx >> 4) * w
				g += (gx >> 4) * w
				b += (bx >> 4) * w
			}
			if room > 0 {
				s += stride
			}
			rx, gx, bx = sumRGB8(sp, s, 4, roomX, xap, cx)
			w = uint32(j)
			r += (rx >> 4) * w
			g += (gx >> 4) * w
			b += (bx >> 4) * w

			di := x * 4
			d[di+0] = uint8(r >> 24)
			d[di+1] = uint8(g >> 24)
			d[di+2] = uint8(b >> 24)
			d[di+3] = 0xff
		}
	}
}
