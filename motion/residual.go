/*
NAME
  residual.go

DESCRIPTION
  residual.go computes the per-channel signed residual (current minus
  motion-compensated reference) once a motion vector field has been
  chosen on luma, scaling motion vectors to each subsampled chroma
  plane's resolution.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package motion

import (
	"fmt"

	"github.com/ausocean/mcvenc/ycbcr"
)

// Residual holds the signed, unmapped residual samples (each in
// [-255,255]) for one frame's three channels, in the same plane
// dimensions as the source Frame.
type Residual struct {
	YW, YH   int
	CW, CH   int
	Y, Cb, Cr []int
}

// Compute derives the residual of cur against ref under field, which
// must have been produced by EstimateY on cur and ref's luma planes
// with the same Params.BlockSize.
func Compute(cur, ref *ycbcr.Frame, field *Field, p Params) (*Residual, error) {
	if cur.SubsampleRatio != ref.SubsampleRatio {
		return nil, fmt.Errorf("%w: current frame mode %v does not match reference mode %v", ErrGeometry, cur.SubsampleRatio, ref.SubsampleRatio)
	}
	hdiv, vdiv, err := ycbcr.Divisors(cur.SubsampleRatio)
	if err != nil {
		return nil, err
	}
	if p.BlockSize%hdiv != 0 || p.BlockSize%vdiv != 0 {
		return nil, fmt.Errorf("%w: macroblock size %d does not divide evenly for chroma mode %v", ErrGeometry, p.BlockSize, cur.SubsampleRatio)
	}

	yw, yh := cur.PlaneDims(0)
	cw, ch := cur.PlaneDims(1)

	res := &Residual{YW: yw, YH: yh, CW: cw, CH: ch}
	res.Y = residualPlane(cur.Y, ref.Y, cur.YStride, field, p.BlockSize, p.BlockSize, 1, 1, yw, yh)
	res.Cb = residualPlane(cur.Cb, ref.Cb, cur.CStride, field, p.BlockSize/hdiv, p.BlockSize/vdiv, hdiv, vdiv, cw, ch)
	res.Cr = residualPlane(cur.Cr, ref.Cr, cur.CStride, field, p.BlockSize/hdiv, p.BlockSize/vdiv, hdiv, vdiv, cw, ch)
	return res, nil
}

// residualPlane computes current-minus-motion-compensated-reference
// for one plane. blockW/blockH are this plane's macroblock cell size;
// hdiv/vdiv scale each luma-pixel motion vector down to this plane's
// resolution (Go's integer division already truncates toward zero, as
// required).
func residualPlane(cur, ref []byte, stride int, field *Field, blockW, blockH, hdiv, vdiv, planeW, planeH int) []int {
	out := make([]int, planeW*planeH)
	for by := 0; by < field.BlocksH; by++ {
		for bx := 0; bx < field.BlocksW; bx++ {
			mv := field.At(bx, by)
			dx, dy := mv.DX/hdiv, mv.DY/vdiv
			ox, oy := bx*blockW, by*blockH
			for y := 0; y < blockH; y++ {
				cy := oy + y
				ry := clip(cy+dy, planeH)
				crow, rrow := cy*stride, ry*stride
				for x := 0; x < blockW; x++ {
					cx := ox + x
					rx := clip(cx+dx, planeW)
					out[cy*planeW+cx] = int(cur[crow+cx]) - int(ref[rrow+rx])
				}
			}
		}
	}
	return out
}

func clip(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return limit - 1
	}
	return v
}
