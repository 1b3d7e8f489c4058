/*
NAME
  source.go

DESCRIPTION
  source.go parses the colon-separated source selector string (§6.3)
  naming a video encode's input: an image sequence, an AVI file or
  frame range, or (via FramesSource) frames already held in memory.
  Selector parsing only; opening files and demuxing AVI are the job of
  whatever external collaborator feeds a Source to Encode, which this
  module does not implement (outside the encoder's core).

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

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceKind identifies which variant a parsed Source selects.
type SourceKind int

const (
	// SourceImageSequence names an ordered run of still-image files.
	SourceImageSequence SourceKind = iota
	// SourceAVI names an AVI file, optionally restricted to a frame range.
	SourceAVI
	// SourceFrames wraps frames already materialised in memory.
	SourceFrames
)

// unboundedEnd marks an AVI range with no declared end (decode to EOF).
const unboundedEnd = -1

// Source describes a video encode's input, as selected by a §6.3
// selector string or supplied directly via FramesSource.
type Source struct {
	Kind SourceKind

	// Paths holds the resolved file names of an image sequence.
	Paths []string

	// Path, Start and End describe an AVI selection. End is
	// unboundedEnd when the selector did not bound the range.
	Path       string
	Start, End int

	// Frames holds packed frame buffers supplied directly.
	Frames [][]byte
}

// FramesSource wraps frames already held in memory as a Source,
// bypassing selector parsing entirely.
func FramesSource(frames [][]byte) Source {
	return Source{Kind: SourceFrames, Frames: frames}
}

// ParseSelector parses a §6.3 source selector string into a Source.
func ParseSelector(selector string) (Source, error) {
	parts := strings.Split(selector, ":")
	switch len(parts) {
	case 1:
		return Source{Kind: SourceAVI, Path: parts[0], Start: 0, End: unboundedEnd}, nil
	case 2:
		start, err := strconv.Atoi(parts[1])
		if err != nil {
			return Source{}, fmt.Errorf("%w: invalid AVI start frame %q", ErrInvalidInput, parts[1])
		}
		return Source{Kind: SourceAVI, Path: parts[0], Start: start, End: unboundedEnd}, nil
	case 3:
		start, err1 := strconv.Atoi(parts[1])
		end, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			return Source{}, fmt.Errorf("%w: invalid AVI frame range %q:%q", ErrInvalidInput, parts[1], parts[2])
		}
		if start > end {
			return Source{}, fmt.Errorf("%w: AVI range start %d exceeds end %d", ErrInvalidInput, start, end)
		}
		return Source{Kind: SourceAVI, Path: parts[0], Start: start, End: end}, nil
	case 4:
		return parseImageSequence(parts[0], parts[1], parts[2], parts[3])
	default:
		return Source{}, fmt.Errorf("%w: selector %q has too many colon-separated fields", ErrInvalidInput, selector)
	}
}

// parseImageSequence builds the zero-padded file list for a four-part
// prefix:start:end:suffix selector, zero-padding the index to the
// width of the end field as §6.3 specifies.
func parseImageSequence(prefix, startStr, endStr, suffix string) (Source, error) {
	start, err1 := strconv.Atoi(startStr)
	end, err2 := strconv.Atoi(endStr)
	if err1 != nil || err2 != nil {
		return Source{}, fmt.Errorf("%w: invalid image sequence range %q:%q", ErrInvalidInput, startStr, endStr)
	}
	if start > end {
		return Source{}, fmt.Errorf("%w: image sequence start %d exceeds end %d", ErrInvalidInput, start, end)
	}
	width := len(endStr)
	paths := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		paths = append(paths, fmt.Sprintf("%s%0*d%s", prefix, width, i, suffix))
	}
	return Source{Kind: SourceImageSequence, Paths: paths}, nil
}
