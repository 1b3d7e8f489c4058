/*
NAME
  rle.go

DESCRIPTION
  rle.go implements zero run-length coding of the 63 AC coefficients of
  a zig-zag-ordered block, producing (RRRR,SSSS,value) symbols plus the
  terminating EOB, and its inverse.

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

import "github.com/ausocean/mcvenc/bitio"

// ACSymbol is one run-length-coded AC symbol: RunLength zeros (RRRR)
// precede a coefficient of Size bits (SSSS) and signed Value. EOB and
// ZRL are represented by the sentinel constructors below; for those,
// Value is unused.
type ACSymbol struct {
	RunLength int
	Size      int
	Value     int
}

// Byte returns the (RRRR_SSSS) byte T.81 uses to select the AC Huffman
// code for this symbol.
func (s ACSymbol) Byte() byte { return byte(s.RunLength<<4 | s.Size) }

// IsEOB reports whether s is the end-of-block symbol.
func (s ACSymbol) IsEOB() bool { return s.RunLength == 0 && s.Size == 0 }

// IsZRL reports whether s is the 16-zero-run symbol.
func (s ACSymbol) IsZRL() bool { return s.RunLength == 15 && s.Size == 0 }

// EOB returns the end-of-block symbol (RRRR=0,SSSS=0).
func EOB() ACSymbol { return ACSymbol{} }

// ZRL returns the zero-run-length-16 symbol (RRRR=15,SSSS=0).
func ZRL() ACSymbol { return ACSymbol{RunLength: 15} }

// EncodeAC run-length codes the 63 AC coefficients (indices 1..63) of a
// zig-zag-ordered block, in the manner of T.81 F.1.2.2: ZRL tokens for
// every full run of 16 zeros preceding a non-zero coefficient, then a
// (run mod 16, value) token, terminated by a single EOB. An all-zero
// block produces exactly one symbol, EOB.
func EncodeAC(seq [64]int) []ACSymbol {
	var out []ACSymbol
	zeros := 0
	for i := 1; i < 64; i++ {
		v := seq[i]
		if v == 0 {
			zeros++
			continue
		}
		for zeros >= 16 {
			out = append(out, ZRL())
			zeros -= 16
		}
		cat := bitio.Category(v)
		out = append(out, ACSymbol{RunLength: zeros, Size: cat, Value: v})
		zeros = 0
	}
	out = append(out, EOB())
	return out
}

// DecodeAC inverts EncodeAC, reconstructing the AC half (indices 1..63)
// of a zig-zag-ordered block. It relies on each symbol's Value field
// rather than re-deriving magnitudes from entropy-coded bits, so it
// round-trips EncodeAC's own output but is not a general bitstream
// decoder.
func DecodeAC(symbols []ACSymbol) [64]int {
	var out [64]int
	pos := 1
	for _, s := range symbols {
		if s.IsEOB() {
			break
		}
		if s.IsZRL() {
			pos += 16
			continue
		}
		pos += s.RunLength
		if pos < 64 {
			out[pos] = s.Value
		}
		pos++
	}
	return out
}
