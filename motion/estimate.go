/*
NAME
  estimate.go

DESCRIPTION
  estimate.go implements block-matching motion estimation on the luma
  plane: exhaustive full search (FSA) and iterative large/small diamond
  search (DSA), both sharing the same candidate cost function and
  tie-breaking rule.

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

import "math"

// largeDiamond is the 9-point large diamond search pattern (LDSP),
// offsets relative to the current search centre.
var largeDiamond = []MV{
	{0, 0},
	{2, 0}, {-2, 0}, {0, 2}, {0, -2},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// smallDiamond is the 5-point small diamond search pattern (SDSP).
var smallDiamond = []MV{
	{0, 0},
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// EstimateY runs block-matching motion estimation over the luma plane
// of a current and reference frame of identical dimensions, returning
// one motion vector per BxB macroblock in raster order.
func EstimateY(curY, refY []byte, stride, w, h int, p Params) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if w%p.BlockSize != 0 || h%p.BlockSize != 0 {
		return nil, ErrGeometry
	}
	bw, bh := w/p.BlockSize, h/p.BlockSize
	field := NewField(bw, bh)

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			ox, oy := bx*p.BlockSize, by*p.BlockSize
			var mv MV
			switch p.Algorithm {
			case DSA:
				mv = searchDSA(curY, refY, stride, w, h, ox, oy, p)
			default:
				mv = searchFSA(curY, refY, stride, w, h, ox, oy, p)
			}
			field.Set(bx, by, mv)
		}
	}
	return field, nil
}

// searchFSA exhaustively tests every candidate in [-S,S]x[-S,S].
func searchFSA(cur, ref []byte, stride, refW, refH, ox, oy int, p Params) MV {
	var best MV
	bestCost := math.MaxInt64
	haveBest := false
	s := p.SearchDistance
	for dy := -s; dy <= s; dy++ {
		for dx := -s; dx <= s; dx++ {
			cost, ok := blockCost(cur, ref, stride, refW, refH, ox, oy, dx, dy, p.BlockSize, p.Metric)
			if !ok {
				continue
			}
			if betterCandidate(cost, dx, dy, bestCost, best, haveBest) {
				bestCost, best, haveBest = cost, MV{dx, dy}, true
			}
		}
	}
	return best
}

// searchDSA runs the large/small diamond search: repeatedly test the
// large diamond around the current centre; if the centre itself wins,
// contract to the small diamond and return its winner; otherwise move
// the centre to the large diamond's winner and repeat, bounded by the
// search distance cap.
func searchDSA(cur, ref []byte, stride, refW, refH, ox, oy int, p Params) MV {
	s := p.SearchDistance
	center := MV{}
	// A bound on iterations: the search space has (2s+1)^2 positions,
	// and each move goes to a candidate that beats the centre under
	// betterCandidate's strict order (cost, then L1 norm, then dx, then
	// dy), so no centre is visited twice.
	maxIter := (2*s + 1) * (2*s + 1)

	for iter := 0; iter < maxIter; iter++ {
		next, ok := bestInPattern(cur, ref, stride, refW, refH, ox, oy, p, center, largeDiamond, s)
		if !ok {
			return center
		}
		if next == center {
			if small, ok := bestInPattern(cur, ref, stride, refW, refH, ox, oy, p, center, smallDiamond, s); ok {
				return small
			}
			return center
		}
		center = next
	}
	return center
}

// bestInPattern evaluates pattern offsets relative to centre, bounded
// to the [-s,s] cap, and returns the winner by cost then the shared
// tie-break rule. ok is false if every offset was out of range or read
// outside the reference frame.
func bestInPattern(cur, ref []byte, stride, refW, refH, ox, oy int, p Params, center MV, pattern []MV, s int) (MV, bool) {
	var best MV
	bestCost := math.MaxInt64
	haveBest := false
	for _, off := range pattern {
		dx, dy := center.DX+off.DX, center.DY+off.DY
		if dx < -s || dx > s || dy < -s || dy > s {
			continue
		}
		cost, ok := blockCost(cur, ref, stride, refW, refH, ox, oy, dx, dy, p.BlockSize, p.Metric)
		if !ok {
			continue
		}
		if betterCandidate(cost, dx, dy, bestCost, best, haveBest) {
			bestCost, best, haveBest = cost, MV{dx, dy}, true
		}
	}
	return best, haveBest
}

// betterCandidate reports whether (cost,dx,dy) should replace the
// current best: strictly lower cost wins; on a cost tie, the candidate
// with smaller L1 norm wins, then smaller dx, then smaller dy.
func betterCandidate(cost, dx, dy, bestCost int, best MV, haveBest bool) bool {
	if !haveBest {
		return true
	}
	if cost != bestCost {
		return cost < bestCost
	}
	l1, bestL1 := abs(dx)+abs(dy), abs(best.DX)+abs(best.DY)
	if l1 != bestL1 {
		return l1 < bestL1
	}
	if dx != best.DX {
		return dx < best.DX
	}
	return dy < best.DY
}

// blockCost computes the distortion between the current frame's BxB
// block at (ox,oy) and the reference frame's block at (ox+dx,oy+dy).
// ok is false if the reference block would read outside [0,refW)x
// [0,refH).
func blockCost(cur, ref []byte, stride, refW, refH, ox, oy, dx, dy, blockSize int, metric Metric) (cost int, ok bool) {
	rx, ry := ox+dx, oy+dy
	if rx < 0 || ry < 0 || rx+blockSize > refW || ry+blockSize > refH {
		return 0, false
	}
	sum := 0
	for y := 0; y < blockSize; y++ {
		crow := (oy + y) * stride
		rrow := (ry + y) * stride
		for x := 0; x < blockSize; x++ {
			d := int(cur[crow+ox+x]) - int(ref[rrow+rx+x])
			if d < 0 {
				d = -d
			}
			sum += d
		}
	}
	if metric == MAD {
		n := blockSize * blockSize
		return (sum + n/2) / n, true
	}
	return sum, true
}
