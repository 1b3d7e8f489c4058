/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel error kinds this package's callers
  (the video encoder in particular) need to distinguish: input that was
  simply invalid, a parameter outside a documented range, a
  block-geometry mismatch, or a violation of an invariant this package
  is supposed to guarantee internally.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "errors"

var (
	// ErrInvalidInput indicates malformed or undersized caller-supplied
	// data, such as a packed buffer shorter than width*height*3.
	ErrInvalidInput = errors.New("jpeg: invalid input")

	// ErrInvalidParameter indicates a parameter outside its documented
	// range, such as a quality factor outside [1,100] or an unsupported
	// chroma mode.
	ErrInvalidParameter = errors.New("jpeg: invalid parameter")

	// ErrGeometry indicates a block-count or dimension mismatch between
	// related inputs, such as DC and AC slices of different lengths.
	ErrGeometry = errors.New("jpeg: geometry mismatch")

	// ErrInternalInvariantViolated indicates this package's own output
	// failed a check it is supposed to guarantee, such as a trained
	// Huffman table containing a code longer than 16 bits.
	ErrInternalInvariantViolated = errors.New("jpeg: internal invariant violated")
)
