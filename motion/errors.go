/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel error kinds this package's motion
  search and reconstruction operations can return.

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

import "errors"

var (
	// ErrInvalidParameter indicates a Params field outside its
	// documented range.
	ErrInvalidParameter = errors.New("motion: invalid parameter")

	// ErrGeometry indicates frame or plane dimensions incompatible with
	// the configured macroblock size or chroma mode.
	ErrGeometry = errors.New("motion: geometry mismatch")
)
