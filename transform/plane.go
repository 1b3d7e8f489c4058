/*
NAME
  plane.go

DESCRIPTION
  plane.go extracts and places 8x8 pixel blocks from/into a strided
  byte plane, in the raster block order the rest of the pipeline
  assumes.

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

// ExtractBlock reads the 8x8 pixel block at block coordinates (bx,by)
// (i.e. pixel origin (bx*8,by*8)) from a plane with the given row
// stride.
func ExtractBlock(pix []byte, stride, bx, by int) Block {
	var b Block
	ox, oy := bx*8, by*8
	for y := 0; y < 8; y++ {
		row := (oy + y) * stride
		for x := 0; x < 8; x++ {
			b[y][x] = int(pix[row+ox+x])
		}
	}
	return b
}

// PlaceBlock writes an 8x8 byte block back into a plane at block
// coordinates (bx,by).
func PlaceBlock(pix []byte, stride, bx, by int, b [8][8]byte) {
	ox, oy := bx*8, by*8
	for y := 0; y < 8; y++ {
		row := (oy + y) * stride
		for x := 0; x < 8; x++ {
			pix[row+ox+x] = b[y][x]
		}
	}
}
