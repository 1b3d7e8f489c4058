/*
NAME
  dct.go

DESCRIPTION
  dct.go implements the level shift and the forward/inverse 8x8 type-II
  DCT used by the JPEG baseline block transform, with the conventional
  1/4 normalisation T.81 assumes. The transform is separable: it is
  applied as a 1-D DCT along rows, then along columns (or the reverse
  for the inverse), using a precomputed cosine table.

  This is implemented directly rather than via a general-purpose
  transform library so the exact rounding behaviour stays under our
  control; see DESIGN.md for why gonum's dsp/fourier DCT was not used
  here, although other gonum packages are used elsewhere in this module.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transform

import "math"

// Block is a spatial 8x8 pixel or level-shifted sample block.
type Block [8][8]int

// Coeffs is an 8x8 block of real-valued DCT coefficients.
type Coeffs [8][8]float64

const blockSize = 8

var cosTable [blockSize][blockSize]float64 // cosTable[x][u] = cos((2x+1)u*pi/16)

const invSqrt2 = 0.70710678118654752440

func init() {
	for x := 0; x < blockSize; x++ {
		for u := 0; u < blockSize; u++ {
			cosTable[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
}

// LevelShift subtracts 128 from each sample, producing signed values in
// [-128,127] suitable for the DCT.
func LevelShift(b Block) Block {
	var out Block
	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			out[y][x] = b[y][x] - 128
		}
	}
	return out
}

// InverseLevelShift adds 128 back and clamps to [0,255].
func InverseLevelShift(b Block) [8][8]byte {
	var out [8][8]byte
	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			v := b[y][x] + 128
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			out[y][x] = byte(v)
		}
	}
	return out
}

// dct1D computes the 8-point DCT-II of in, with the 1/2*C(u) scaling
// that, applied once along rows and once along columns, yields the
// conventional 1/4-normalised 2-D DCT.
func dct1D(in [8]float64) (out [8]float64) {
	for u := 0; u < blockSize; u++ {
		var sum float64
		for x := 0; x < blockSize; x++ {
			sum += in[x] * cosTable[x][u]
		}
		cu := 1.0
		if u == 0 {
			cu = invSqrt2
		}
		out[u] = 0.5 * cu * sum
	}
	return out
}

// idct1D computes the corresponding inverse of dct1D.
func idct1D(in [8]float64) (out [8]float64) {
	for x := 0; x < blockSize; x++ {
		var sum float64
		for u := 0; u < blockSize; u++ {
			cu := 1.0
			if u == 0 {
				cu = invSqrt2
			}
			sum += cu * in[u] * cosTable[x][u]
		}
		out[x] = 0.5 * sum
	}
	return out
}

// Forward computes the forward 8x8 type-II DCT of a level-shifted block.
func Forward(b Block) Coeffs {
	var tmp, out Coeffs

	// DCT along rows.
	for y := 0; y < blockSize; y++ {
		var row [8]float64
		for x := 0; x < blockSize; x++ {
			row[x] = float64(b[y][x])
		}
		tmp[y] = dct1D(row)
	}

	// DCT along columns of the row-transformed intermediate.
	for x := 0; x < blockSize; x++ {
		var col [8]float64
		for y := 0; y < blockSize; y++ {
			col[y] = tmp[y][x]
		}
		res := dct1D(col)
		for y := 0; y < blockSize; y++ {
			out[y][x] = res[y]
		}
	}
	return out
}

// Inverse computes the inverse 8x8 DCT, returning a level-shifted block
// (i.e. still centred on 0; callers apply InverseLevelShift separately).
func Inverse(c Coeffs) Block {
	var tmp Coeffs

	for x := 0; x < blockSize; x++ {
		var col [8]float64
		for y := 0; y < blockSize; y++ {
			col[y] = c[y][x]
		}
		res := idct1D(col)
		for y := 0; y < blockSize; y++ {
			tmp[y][x] = res[y]
		}
	}

	var out Block
	for y := 0; y < blockSize; y++ {
		res := idct1D(tmp[y])
		for x := 0; x < blockSize; x++ {
			out[y][x] = round(res[x])
		}
	}
	return out
}

// round performs half-away-from-zero rounding of a float64 to int.
func round(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}
