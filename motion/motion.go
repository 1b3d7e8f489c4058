/*
NAME
  motion.go

DESCRIPTION
  motion.go defines the parameters and motion-vector field type shared
  by block-matching estimation and motion-compensated reconstruction.

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

// Package motion implements block-matching motion estimation between a
// current and reference YCbCr frame, and motion-compensated
// reconstruction of a frame from a reference plus motion vectors and a
// residual.
package motion

import "fmt"

// Algorithm selects the block-matching search strategy.
type Algorithm int

const (
	// FSA is exhaustive full-search over every candidate in
	// [-S,S]x[-S,S].
	FSA Algorithm = iota
	// DSA is iterative large/small diamond search.
	DSA
)

func (a Algorithm) String() string {
	switch a {
	case FSA:
		return "FSA"
	case DSA:
		return "DSA"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// Metric selects the block distortion measure.
type Metric int

const (
	// SAD is sum of absolute differences.
	SAD Metric = iota
	// MAD is mean absolute difference (SAD divided by block area).
	MAD
)

func (m Metric) String() string {
	switch m {
	case SAD:
		return "SAD"
	case MAD:
		return "MAD"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// Params configures a motion search.
type Params struct {
	BlockSize      int // Macroblock size B, luma pixels; must be a multiple of 8.
	SearchDistance int // Maximum |dx|,|dy|, S.
	Algorithm      Algorithm
	Metric         Metric
}

// DefaultParams returns the default full-search parameters: B=16, S=8,
// FSA, SAD.
func DefaultParams() Params {
	return Params{BlockSize: 16, SearchDistance: 8, Algorithm: FSA, Metric: SAD}
}

// Validate checks p's fields are within the documented ranges.
func (p Params) Validate() error {
	if p.BlockSize <= 0 || p.BlockSize%8 != 0 {
		return fmt.Errorf("%w: macroblock size %d must be a positive multiple of 8", ErrInvalidParameter, p.BlockSize)
	}
	if p.SearchDistance <= 0 {
		return fmt.Errorf("%w: search distance %d must be positive", ErrInvalidParameter, p.SearchDistance)
	}
	if p.Algorithm != FSA && p.Algorithm != DSA {
		return fmt.Errorf("%w: unknown block-matching algorithm %v", ErrInvalidParameter, p.Algorithm)
	}
	if p.Metric != SAD && p.Metric != MAD {
		return fmt.Errorf("%w: unknown distortion metric %v", ErrInvalidParameter, p.Metric)
	}
	return nil
}

// MV is a signed macroblock displacement, in luma pixels.
type MV struct {
	DX, DY int
}

// Field is a motion vector field indexed by macroblock coordinates in
// raster order.
type Field struct {
	BlocksW, BlocksH int
	MVs              []MV
}

// NewField allocates a zeroed Field for a blocksW x blocksH grid.
func NewField(blocksW, blocksH int) *Field {
	return &Field{BlocksW: blocksW, BlocksH: blocksH, MVs: make([]MV, blocksW*blocksH)}
}

// At returns the motion vector for macroblock (bx,by).
func (f *Field) At(bx, by int) MV { return f.MVs[by*f.BlocksW+bx] }

// Set stores the motion vector for macroblock (bx,by).
func (f *Field) Set(bx, by int, mv MV) { f.MVs[by*f.BlocksW+bx] = mv }

// WithinBounds reports whether every vector in f satisfies
// |dx|,|dy| <= s.
func (f *Field) WithinBounds(s int) bool {
	for _, mv := range f.MVs {
		if abs(mv.DX) > s || abs(mv.DY) > s {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
