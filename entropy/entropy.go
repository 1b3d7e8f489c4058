/*
NAME
  entropy.go

DESCRIPTION
  entropy.go entropy-codes the DC and AC symbols of a block using
  supplied Huffman code tables, writing Huffman codes followed by
  category-width magnitude bits to a bit Writer.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package entropy entropy-codes JPEG DC and AC block symbols into a bit
// stream using caller-supplied canonical Huffman tables.
package entropy

import (
	"fmt"

	"github.com/ausocean/mcvenc/bitio"
	"github.com/ausocean/mcvenc/huffman"
	"github.com/ausocean/mcvenc/transform"
)

// EncodeDC writes the Huffman code for diff's category followed by its
// magnitude bits.
func EncodeDC(w *bitio.Writer, diff int, table map[byte]huffman.Code) error {
	cat, bits := bitio.MagnitudeBits(diff)
	if cat > bitio.MaxCategory {
		return fmt.Errorf("entropy: DC category %d exceeds the %d-bit baseline maximum", cat, bitio.MaxCategory)
	}
	code, ok := table[byte(cat)]
	if !ok {
		return fmt.Errorf("entropy: no DC Huffman code for category %d", cat)
	}
	w.WriteBits(uint32(code.Bits), code.Len)
	if cat > 0 {
		w.WriteBits(bits, cat)
	}
	return nil
}

// EncodeAC writes the run-length-coded AC symbols of one block: for each
// symbol, the Huffman code for its (RRRR_SSSS) byte, followed by
// magnitude bits for non-EOB/ZRL symbols.
func EncodeAC(w *bitio.Writer, symbols []transform.ACSymbol, table map[byte]huffman.Code) error {
	for _, s := range symbols {
		code, ok := table[s.Byte()]
		if !ok {
			return fmt.Errorf("entropy: no AC Huffman code for symbol %#x", s.Byte())
		}
		w.WriteBits(uint32(code.Bits), code.Len)
		if s.IsEOB() || s.IsZRL() {
			continue
		}
		bitio.AppendMagnitude(w, s.Value)
	}
	return nil
}
