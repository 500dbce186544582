// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smooth

// rgba64Kernel scales 8-byte premultiplied RGBA pixels with big-endian 16-bit
// channels, as stored by image.RGBA64.
type rgba64Kernel struct {
	isi      *ScaleInfo
	dst, src view
}

func (k *rgba64Kernel) section() func(y0, y1 int) {
	switch {
	case k.isi.XAPoints == nil:
		return func(y0, y1 int) { nearest(k.isi, k.dst, k.src, 8, y0, y1) }
	case k.isi.Up == UpX|UpY:
		return k.upXY
	case k.isi.Up == UpX:
		return k.upXDownY
	case k.isi.Up == UpY:
		return k.downXUpY
	}
	return k.downXY
}

func get16(p []uint8, i int) uint64 {
	return uint64(p[i])<<8 | uint64(p[i+1])
}

func put16(p []uint8, i int, v uint64) {
	p[i] = uint8(v >> 8)
	p[i+1] = uint8(v)
}

func lerp16(a, b uint64, w int32) uint64 {
	return (a*uint64(256-w) + b*uint64(w)) >> 8
}

func (k *rgba64Kernel) upXY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		srow := k.src.row(isi.YPoints[y])
		d := k.dst.pix[k.dst.row(y):]
		yap := isi.YAPoints[y]
		for x, xp := range isi.XPoints {
			s := srow + xp*8
			di := x * 8
			xap := isi.XAPoints[x]
			switch {
			case yap > 0 && xap > 0:
				for c := 0; c < 8; c += 2 {
					top := lerp16(get16(sp, s+c), get16(sp, s+8+c), xap)
					bot := lerp16(get16(sp, s+stride+c), get16(sp, s+stride+8+c), xap)
					put16(d, di+c, lerp16(top, bot, yap))
				}
			case yap > 0:
				for c := 0; c < 8; c += 2 {
					put16(d, di+c, lerp16(get16(sp, s+c), get16(sp, s+stride+c), yap))
				}
			case xap > 0:
				for c := 0; c < 8; c += 2 {
					put16(d, di+c, lerp16(get16(sp, s+c), get16(sp, s+8+c), xap))
				}
			default:
				copy(d[di:di+8], sp[s:s+8])
			}
		}
	}
}

// sumRGBA16 is the 16-bit counterpart of sumRGBA8.
func sumRGBA16(p []uint8, off, step, room int, ap, c int32) (r, g, b, a uint64) {
	w := uint64(ap)
	r = get16(p, off+0) * w
	g = get16(p, off+2) * w
	b = get16(p, off+4) * w
	a = get16(p, off+6) * w
	j := unit - ap
	w = uint64(c)
	for ; j > c; j -= c {
		if room > 0 {
			off += step
			room--
		}
		r += get16(p, off+0) * w
		g += get16(p, off+2) * w
		b += get16(p, off+4) * w
		a += get16(p, off+6) * w
	}
	if room > 0 {
		off += step
	}
	w = uint64(j)
	r += get16(p, off+0) * w
	g += get16(p, off+2) * w
	b += get16(p, off+4) * w
	a += get16(p, off+6) * w
	return r, g, b, a
}

func (k *rgba64Kernel) upXDownY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		yap, cy := run(isi.YAPoints[y])
		yp := isi.YPoints[y]
		srow, room := k.src.row(yp), isi.SrcH-1-yp
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			s := srow + xp*8
			r, g, b, a := sumRGBA16(sp, s, stride, room, yap, cy)
			if xap := isi.XAPoints[x]; xap > 0 {
				rr, gg, bb, aa := sumRGBA16(sp, s+8, stride, room, yap, cy)
				w, iw := uint64(xap), uint64(256-xap)
				r = (r*iw + rr*w) >> 8
				g = (g*iw + gg*w) >> 8
				b = (b*iw + bb*w) >> 8
				a = (a*iw + aa*w) >> 8
			}
			di := x * 8
			put16(d, di+0, r>>14)
			put16(d, di+2, g>>14)
			put16(d, di+4, b>>14)
			put16(d, di+6, a>>14)
		}
	}
}

func (k *rgba64Kernel) downXUpY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		srow := k.src.row(isi.YPoints[y])
		yap := isi.YAPoints[y]
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			xap, cx := run(isi.XAPoints[x])
			s, room := srow+xp*8, isi.SrcW-1-xp
			r, g, b, a := sumRGBA16(sp, s, 8, room, xap, cx)
			if yap > 0 {
				rr, gg, bb, aa := sumRGBA16(sp, s+stride, 8, room, xap, cx)
				w, iw := uint64(yap), uint64(256-yap)
				r = (r*iw + rr*w) >> 8
				g = (g*iw + gg*w) >> 8
				b = (b*iw + bb*w) >> 8
				a = (a*iw + aa*w) >> 8
			}
			di := x * 8
			put16(d, di+0, r>>14)
			put16(d, di+2, g>>14)
			put16(d, di+4, b>>14)
			put16(d, di+6, a>>14)
		}
	}
}

// downXY needs no intermediate reduction: 64-bit sums hold 16+14+14 bits.
func (k *rgba64Kernel) downXY(y0, y1 int) {
	isi, sp, stride := k.isi, k.src.pix, k.src.stride
	for y := y0; y < y1; y++ {
		yap, cy := run(isi.YAPoints[y])
		yp := isi.YPoints[y]
		srow, roomY := k.src.row(yp), isi.SrcH-1-yp
		d := k.dst.pix[k.dst.row(y):]
		for x, xp := range isi.XPoints {
			xap, cx := run(isi.XAPoints[x])
			s, roomX := srow+xp*8, isi.SrcW-1-xp

			rx, gx, bx, ax := sumRGBA16(sp, s, 8, roomX, xap, cx)
			w := uint64(yap)
			r, g, b, a := rx*w, gx*w, bx*w, ax*w

			room := roomY
			j := unit - yap
			w = uint64(cy)
			for ; j > cy; j -= cy {
				if room > 0 {
					s += stride
					room--
				}
				rx, gx, bx, ax = sumRGBA16(sp, s, 8, roomX, xap, cx)
				r += rx * w
				g += gx * w
				b += bx * w
				a += ax * w
			}
			if room > 0 {
				s += stride
			}
			rx, gx, bx, ax = sumRGBA16(sp, s, 8, roomX, xap, cx)
			w = uint64(j)
			r += rx * w
			g += gx * w
			b += bx * w
			a += ax * w

			di := x * 8
			put16(d, di+0, r>>28)
			put16(d, di+2, g>>28)
			put16(d, di+4, b>>28)
			put16(d, di+6, a>>28)
		}
	}
}
