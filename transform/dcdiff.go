/*
NAME
  dcdiff.go

DESCRIPTION
  dcdiff.go computes and inverts the differential DC coding T.81 uses:
  within a scan, each block's DC term is coded as the difference from
  the previous block's DC term in raster order, with the running
  predictor reset to 0 at the start of the scan.

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

// DiffDC returns the differential-coded sequence of a channel's
// per-block DC coefficients, in raster block order, with the predictor
// reset to 0 at the start (DiffDC(dc)[0] == dc[0]).
func DiffDC(dc []int) []int {
	out := make([]int, len(dc))
	prev := 0
	for i, v := range dc {
		out[i] = v - prev
		prev = v
	}
	return out
}

// UndiffDC inverts DiffDC.
func UndiffDC(diff []int) []int {
	out := make([]int, len(diff))
	prev := 0
	for i, d := range diff {
		prev += d
		out[i] = prev
	}
	return out
}
