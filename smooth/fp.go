// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smooth

// fpKernel scales RGBA128F pixels. Fixed-point weights are normalized to
// float32 fractions of the unit.
type fpKernel struct {
	isi      *ScaleInfo
	dst, src fview
}

const (
	invUnit = 1 / float32(unit)
	inv256  = 1 / float32(256)
)

func (k *fpKernel) section() func(y0, y1 int) {
	switch {
	case k.isi.XAPoints == nil:
		return k.nearest
	case k.isi.Up == UpX|UpY:
		return k.upXY
	case k.isi.Up == UpX:
		return k.upXDownY
	case k.isi.Up == UpY:
		return k.downXUpY
	}
	return k.downXY
}

func lerpF(a, b float32, w int32) float32 {
	f := float32(w) * inv256
	return a*(1-f) + b*f
}

func (k *fpKernel) nearest(y0, y1 int) {
	isi := k.isi
	for y := y0; y < y1; y++ {
		srow := k.src.row(isi.YPoints[y])
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			s := srow + xp*4
			copy(d[x*4:x*4+4], k.src.pix[s:s+4])
		}
	}
}

func (k *fpKernel) upXY(y0, y1 int) {
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
					top := lerpF(sp[s+c], sp[s+4+c], xap)
					bot := lerpF(sp[s+stride+c], sp[s+stride+4+c], xap)
					d[di+c] = lerpF(top, bot, yap)
				}
			case yap > 0:
				for c := range 4 {
					d[di+c] = lerpF(sp[s+c], sp[s+stride+c], yap)
				}
			case xap > 0:
				for c := range 4 {
					d[di+c] = lerpF(sp[s+c], sp[s+4+c], xap)
				}
			default:
				copy(d[di:di+4], sp[s:s+4])
			}
		}
	}
}

// sumF is the float32 counterpart of sumRGBA8. The channels are returned
// already normalized by the unit.
func sumF(p []float32, off, step, room int, ap, c int32) (r, g, b, a float32) {
	w := float32(ap) * invUnit
	r, g, b, a = p[off]*w, p[off+1]*w, p[off+2]*w, p[off+3]*w
	j := unit - ap
	w = float32(c) * invUnit
	for ; j > c; j -= c {
		if room > 0 {
			off += step
			room--
		}
		r += p[off+0] * w
		g += p[off+1] * w
		b += p[off+2] * w
		a += p[off+3] * w
	}
	if room > 0 {
		off += step
	}
	w = float32(j) * invUnit
	r += p[off+0] * w
	g += p[off+1] * w
	b += p[off+2] * w
	a += p[off+3] * w
	return r, g, b, a
}

func (k *fpKernel) upXDownY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		yap, cy := run(isi.YAPoints[y])
		yp := isi.YPoints[y]
		srow, room := k.src.row(yp), isi.SrcH-1-yp
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			s := srow + xp*4
			r, g, b, a := sumF(sp, s, stride, room, yap, cy)
			if xap := isi.XAPoints[x]; xap > 0 {
				rr, gg, bb, aa := sumF(sp, s+4, stride, room, yap, cy)
				f := float32(xap) * inv256
				r = r*(1-f) + rr*f
				g = g*(1-f) + gg*f
				b = b*(1-f) + bb*f
				a = a*(1-f) + aa*f
			}
			di := x * 4
			d[di+0], d[di+1], d[di+2], d[di+3] = r, g, b, a
		}
	}
}

func (k *fpKernel) downXUpY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		srow := k.src.row(isi.YPoints[y])
		yap := isi.YAPoints[y]
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			xap, cx := run(isi.XAPoints[x])
			s, room := srow+xp*4, isi.SrcW-1-xp
			r, g, b, a := sumF(sp, s, 4, room, xap, cx)
			if yap > 0 {
				rr, gg, bb, aa := sumF(sp, s+stride, 4, room, xap, cx)
				f := float32(yap) * inv256
				r = r*(1-f) + rr*f
				g = g*(1-f) + gg*f
				b = b*(1-f) + bb*f
				a = a*(1-f) + aa*f
			}
			di := x * 4
			d[di+0], d[di+1], d[di+2], d[di+3] = r, g, b, a
		}
	}
}

func (k *fpKernel) downXY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		yap, cy := run(isi.YAPoints[y])
		yp := isi.YPoints[y]
		srow, roomY := k.src.row(yp), isi.SrcH-1-yp
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			xap, cx := run(isi.XAPoints[x])
			s, roomX := srow+xp*4, isi.SrcW-1-xp

			rx, gx, bx, ax := sumF(sp, s, 4, roomX, xap, cx)
			w := float32(yap) * invUnit
			r, g, b, a := rx*w, gx*w, bx*w, ax*w

			room := roomY
			j := unit - yap
			w = float32(cy) * invUnit
			for ; j > cy; j -= cy {
				if room > 0 {
					s += stride
					room--
				}
				rx, gx, bx, ax = sumF(sp, s, 4, roomX, xap, cx)
				r += rx * w
				g += gx * w
				b += bx * w
				a += ax * w
			}
			if room > 0 {
				s += stride
			}
			rx, gx, bx, ax = sumF(sp, s, 4, roomX, xap, cx)
			w = float32(j) * invUnit
			r += rx * w
			g += gx * w
			b += bx * w
			a += ax * w

			di := x * 4
			d[di+0], d[di+1], d[di+2], d[di+3] = r, g, b, a
		}
	}
}
