/*
NAME
  errors.go

DESCRIPTION
  errors.go defines the sentinel error kinds the video encoder and its
  source selector parser can return.

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

package video

import "errors"

var (
	// ErrInvalidInput indicates a malformed source selector or an empty
	// frame list.
	ErrInvalidInput = errors.New("video: invalid input")

	// ErrInvalidParameter indicates a Config field outside its
	// documented range that Validate did not catch (e.g. passed
	// directly to a function bypassing Config.Validate).
	ErrInvalidParameter = errors.New("video: invalid parameter")

	// ErrGeometry indicates coded data too large for a fixed-size field
	// of the container, such as a motion-vector segment longer than its
	// one-byte length allows.
	ErrGeometry = errors.New("video: geometry mismatch")
)
