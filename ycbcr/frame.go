/*
NAME
  frame.go

DESCRIPTION
  frame.go converts between packed 8-bit YCbCr frames and the
  chroma-subsampled plane representation the block transform operates
  on. It builds directly on the standard library's image.YCbCr, whose
  six image.YCbCrSubsampleRatio values already correspond exactly to the
  six chroma sampling modes of T.81 Annex A.1.1.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ycbcr provides the chroma-subsampled Frame representation
// shared by the JPEG still encoder and the motion-compensated video
// encoder, plus conversion to and from packed 8-bit YCbCr frames.
package ycbcr

import (
	"fmt"
	"image"
)

// Frame is an 8x8-block-aligned, chroma-subsampled YCbCr frame. It wraps
// image.YCbCr, padding each plane by edge replication so that its
// dimensions are always a multiple of 8, and remembers the true
// (unpadded) frame size so Pack can trim the padding back off.
type Frame struct {
	*image.YCbCr
	OrigW, OrigH int
}

// NewFrame allocates a blank, block-aligned Frame with the given padded
// bounds, chroma mode, and true (unpadded) dimensions. It is used
// wherever a Frame of the same geometry as an existing one must be
// built up plane by plane, such as motion-compensated reconstruction.
func NewFrame(bounds image.Rectangle, mode image.YCbCrSubsampleRatio, origW, origH int) *Frame {
	return &Frame{YCbCr: image.NewYCbCr(bounds, mode), OrigW: origW, OrigH: origH}
}

// Divisors returns the horizontal and vertical chroma sampling divisors
// for a mode: luma plane dimensions divided by these give the chroma
// plane dimensions. These correspond to T.81 Annex A.1.1 sampling
// factors Hy/Hc and Vy/Vc.
func Divisors(mode image.YCbCrSubsampleRatio) (hdiv, vdiv int, err error) {
	switch mode {
	case image.YCbCrSubsampleRatio444:
		return 1, 1, nil
	case image.YCbCrSubsampleRatio440:
		return 1, 2, nil
	case image.YCbCrSubsampleRatio422:
		return 2, 1, nil
	case image.YCbCrSubsampleRatio420:
		return 2, 2, nil
	case image.YCbCrSubsampleRatio411:
		return 4, 1, nil
	case image.YCbCrSubsampleRatio410:
		return 4, 2, nil
	default:
		return 0, 0, fmt.Errorf("ycbcr: unsupported chroma mode %v", mode)
	}
}

// ceilMult rounds n up to the nearest multiple of m.
func ceilMult(n, m int) int {
	if n%m == 0 {
		return n
	}
	return n + (m - n%m)
}

// ToSubsampled converts a packed 8-bit YCbCr frame (w*h*3 bytes, pixel
// order Y,Cb,Cr, row-major) into a chroma-subsampled, block-aligned
// Frame under the given mode. Chroma planes are produced by
// block-averaging the source samples falling in each chroma cell, and
// every plane is padded by edge replication so its dimensions are a
// multiple of 8.
func ToSubsampled(packed []byte, w, h int, mode image.YCbCrSubsampleRatio) (*Frame, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("ycbcr: invalid dimensions %dx%d", w, h)
	}
	if len(packed) < w*h*3 {
		return nil, fmt.Errorf("ycbcr: packed buffer too short: have %d, need %d", len(packed), w*h*3)
	}
	hdiv, vdiv, err := Divisors(mode)
	if err != nil {
		return nil, err
	}

	paddedW := ceilMult(w, 8*hdiv)
	paddedH := ceilMult(h, 8*vdiv)

	img := image.NewYCbCr(image.Rect(0, 0, paddedW, paddedH), mode)

	// Fill the luma plane, edge-replicating into the padding region.
	for y := 0; y < paddedH; y++ {
		sy := clip(y, h)
		for x := 0; x < paddedW; x++ {
			sx := clip(x, w)
			img.Y[img.YOffset(x, y)] = packed[(sy*w+sx)*3]
		}
	}

	// Fill chroma planes by averaging the hdiv*vdiv block of source
	// samples each chroma cell covers, clipped to the true frame extent.
	// Offsets are computed via img.COffset in luma coordinate space so
	// they agree with image.YCbCr's own chroma-plane addressing.
	for y := 0; y < paddedH; y += vdiv {
		for x := 0; x < paddedW; x += hdiv {
			var sumCb, sumCr, n int
			for dy := 0; dy < vdiv; dy++ {
				sy := clip(y+dy, h)
				for dx := 0; dx < hdiv; dx++ {
					sx := clip(x+dx, w)
					off := (sy*w + sx) * 3
					sumCb += int(packed[off+1])
					sumCr += int(packed[off+2])
					n++
				}
			}
			off := img.COffset(x, y)
			img.Cb[off] = byte((sumCb + n/2) / n)
			img.Cr[off] = byte((sumCr + n/2) / n)
		}
	}

	return &Frame{YCbCr: img, OrigW: w, OrigH: h}, nil
}

// clip clamps v to [0,limit-1], implementing edge replication.
func clip(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return limit - 1
	}
	return v
}

// Pack upsamples the chroma planes to luma resolution by nearest
// neighbour and trims the block padding back off, returning a packed
// w*h*3 byte buffer of the true (unpadded) frame.
func (f *Frame) Pack() []byte {
	hdiv, vdiv, err := Divisors(f.SubsampleRatio)
	if err != nil {
		// Frame was constructed by ToSubsampled, so this cannot happen
		// in practice; treat as 4:4:4 rather than panicking.
		hdiv, vdiv = 1, 1
	}
	out := make([]byte, f.OrigW*f.OrigH*3)
	for y := 0; y < f.OrigH; y++ {
		cy := y / vdiv
		for x := 0; x < f.OrigW; x++ {
			cx := x / hdiv
			off := (y*f.OrigW + x) * 3
			out[off] = f.Y[f.YOffset(x, y)]
			coff := f.COffset(cx*hdiv, cy*vdiv)
			out[off+1] = f.Cb[coff]
			out[off+2] = f.Cr[coff]
		}
	}
	return out
}

// PlaneDims returns the padded (block-aligned) width and height of the
// named plane: 0=Y, 1=Cb, 2=Cr.
func (f *Frame) PlaneDims(channel int) (w, h int) {
	r := f.Bounds()
	if channel == 0 {
		return r.Dx(), r.Dy()
	}
	hdiv, vdiv, _ := Divisors(f.SubsampleRatio)
	return r.Dx() / hdiv, r.Dy() / vdiv
}
