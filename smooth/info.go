// Copyright 2026 The Smoothscale Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smooth

import (
	"errors"
)

// ErrInvalidExtent is returned by NewScaleInfo when a source extent is not
// positive or a destination extent is zero.
var ErrInvalidExtent = errors.New("smooth: invalid extent")

// unit is the fixed-point unit of the area weights. The weights covering one
// destination sample always add up to exactly unit.
const unit = 1 << 14

// Direction records which axes are scaled up (or kept at the same size).
type Direction uint8

const (
	// UpX is set when the destination is at least as wide as the source.
	UpX Direction = 1 << iota
	// UpY is set when the destination is at least as tall as the source.
	UpY
)

// ScaleInfo is the precomputed sampling plan for one resize. It is read-only
// once built and may be shared by any number of goroutines.
type ScaleInfo struct {
	SrcW, SrcH int

	// XPoints[x] is the first source column sampled for destination column x
	// and YPoints[y] the first source row sampled for destination row y.
	XPoints, YPoints []int

	// XAPoints and YAPoints are the area weights, nil when area sampling is
	// off. See AreaWeights for the encoding.
	XAPoints, YAPoints []int32

	Up Direction
}

// NewScaleInfo builds the plan for resampling a sw×sh source to dw×dh. A
// negative dw or dh mirrors that axis. When antialias is false no area
// weights are computed and each destination pixel takes a single source
// sample.
func NewScaleInfo(sw, sh, dw, dh int, antialias bool) (*ScaleInfo, error) {
	if sw <= 0 || sh <= 0 || dw == 0 || dh == 0 {
		return nil, ErrInvalidExtent
	}
	isi := &ScaleInfo{
		SrcW:    sw,
		SrcH:    sh,
		XPoints: IndexTable(sw, dw),
		YPoints: IndexTable(sh, dh),
	}
	if abs(dw) >= sw {
		isi.Up |= UpX
	}
	if abs(dh) >= sh {
		isi.Up |= UpY
	}
	if antialias {
		isi.XAPoints = AreaWeights(sw, dw, isi.Up&UpX != 0)
		isi.YAPoints = AreaWeights(sh, dh, isi.Up&UpY != 0)
	}
	return isi, nil
}

// IndexTable returns, for each of the |d| destination samples along an axis
// of s source samples, the index of the first source sample it reads. The
// result is non-decreasing for d > 0 and reversed for d < 0. Indices are
// clamped to [0, s-1].
//
// s must be positive and d non-zero; NewScaleInfo checks both.
func IndexTable(s, d int) []int {
	mirror := d < 0
	if mirror {
		d = -d
	}
	p := make([]int, d)
	s64, d64 := int64(s), int64(d)
	var val int64
	if d >= s {
		val = 0x8000*s64/d64 - 0x8000
	}
	inc := (s64 << 16) / d64
	last := s - 1
	for i := range p {
		k := int(val >> 16)
		if k < 0 {
			k = 0
		} else if k > last {
			k = last
		}
		p[i] = k
		val += inc
	}
	if mirror {
		reverse(p)
	}
	return p
}

// AreaWeights returns the fixed-point area weights for |d| destination
// samples along an axis of s source samples.
//
// When up is true each weight is an 8-bit blend fraction in [0, 256) between
// source samples IndexTable[i] and IndexTable[i]+1; zero means the first
// sample is used as is, which is also the case at both edges.
//
// When up is false each weight packs two 14-bit quantities: the low 16 bits
// hold the weight of the first, partially covered source sample of the run
// and the high bits hold the weight c of every following whole sample. The
// last sample of the run receives whatever remains of the unit, so the run
// always sums to 1<<14.
//
// A negative d reverses the result, matching IndexTable.
func AreaWeights(s, d int, up bool) []int32 {
	mirror := d < 0
	if mirror {
		d = -d
	}
	p := make([]int32, d)
	s64, d64 := int64(s), int64(d)
	inc := (s64 << 16) / d64
	if up {
		val := 0x8000*s64/d64 - 0x8000
		for i := range p {
			pos := val >> 16
			if pos >= 0 && pos < s64-1 {
				p[i] = int32((val >> 8) & 0xff)
			}
			val += inc
		}
	} else {
		c := ((d64 << 14) + s64 - 1) / s64
		var val int64
		for i := range p {
			ap := ((0x10000 - (val & 0xffff)) * c) >> 16
			p[i] = int32(ap | c<<16)
			val += inc
		}
	}
	if mirror {
		reverse(p)
	}
	return p
}

// run splits a packed down-scaling weight into the first-sample weight and
// the whole-sample weight.
func run(w int32) (ap, c int32) {
	return w & 0xffff, w >> 16
}

func reverse[T any](p []T) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
