/*
NAME
  zigzag.go

DESCRIPTION
  zigzag.go provides the canonical T.81 zig-zag permutation of the 64
  coefficients of an 8x8 block, and the flattening/unflattening between
  a Block/Coeffs and its zig-zag-ordered coefficient sequence.

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

// ZigZagOrder[i] is the natural row-major index (y*8+x) of the
// coefficient that sits at zig-zag position i. ZigZagOrder[0] is always
// the DC coefficient.
var ZigZagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// ZigZag reorders a quantised block's 64 coefficients into the canonical
// zig-zag sequence, index 0 being DC.
func ZigZag(b Block) [64]int {
	var out [64]int
	for i, idx := range ZigZagOrder {
		out[i] = b[idx/8][idx%8]
	}
	return out
}

// UnZigZag is the inverse of ZigZag: it places a zig-zag-ordered
// coefficient sequence back into an 8x8 block in natural order.
func UnZigZag(seq [64]int) Block {
	var out Block
	for i, idx := range ZigZagOrder {
		out[idx/8][idx%8] = seq[i]
	}
	return out
}
