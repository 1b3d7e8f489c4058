/*
NAME
  reconstruct.go

DESCRIPTION
  reconstruct.go implements the inverse of residual.go: given a
  reference frame, a motion vector field and a (already
  dequantised/reverse-mapped) residual, it rebuilds the frame each
  block's motion-compensated reference plus residual predicts.

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

// Reconstruct rebuilds a frame from ref, field and residual, all of
// which must agree on chroma mode and macroblock geometry with the
// Params field was computed under.
func Reconstruct(ref *ycbcr.Frame, field *Field, residual *Residual, p Params) (*ycbcr.Frame, error) {
	hdiv, vdiv, err := ycbcr.Divisors(ref.SubsampleRatio)
	if err != nil {
		return nil, err
	}
	if p.BlockSize%hdiv != 0 || p.BlockSize%vdiv != 0 {
		return nil, fmt.Errorf("%w: macroblock size %d does not divide evenly for chroma mode %v", ErrGeometry, p.BlockSize, ref.SubsampleRatio)
	}

	img := ycbcr.NewFrame(ref.Bounds(), ref.SubsampleRatio, ref.OrigW, ref.OrigH)

	reconstructPlane(ref.Y, img.Y, ref.YStride, field, residual.Y, p.BlockSize, p.BlockSize, 1, 1, residual.YW, residual.YH)
	reconstructPlane(ref.Cb, img.Cb, ref.CStride, field, residual.Cb, p.BlockSize/hdiv, p.BlockSize/vdiv, hdiv, vdiv, residual.CW, residual.CH)
	reconstructPlane(ref.Cr, img.Cr, ref.CStride, field, residual.Cr, p.BlockSize/hdiv, p.BlockSize/vdiv, hdiv, vdiv, residual.CW, residual.CH)

	return img, nil
}

// reconstructPlane fills out with, for every pixel, the reference
// plane's motion-compensated sample plus the residual, clamped to
// [0,255].
func reconstructPlane(ref, out []byte, stride int, field *Field, residual []int, blockW, blockH, hdiv, vdiv, planeW, planeH int) {
	for by := 0; by < field.BlocksH; by++ {
		for bx := 0; bx < field.BlocksW; bx++ {
			mv := field.At(bx, by)
			dx, dy := mv.DX/hdiv, mv.DY/vdiv
			ox, oy := bx*blockW, by*blockH
			for y := 0; y < blockH; y++ {
				cy := oy + y
				ry := clip(cy+dy, planeH)
				rrow, orow := ry*stride, cy*stride
				for x := 0; x < blockW; x++ {
					cx := ox + x
					rx := clip(cx+dx, planeW)
					v := int(ref[rrow+rx]) + residual[cy*planeW+cx]
					out[orow+cx] = byte(clampByte(v))
				}
			}
		}
	}
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
