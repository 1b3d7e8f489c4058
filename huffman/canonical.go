/*
NAME
  canonical.go

DESCRIPTION
  canonical.go builds canonical Huffman codes from a BITS/HUFFVAL table,
  following the procedure of T.81 Annex C (Figures C.1-C.3): derive
  HUFFSIZE (flat code-length list), HUFFCODE (canonical code values),
  then index both by symbol value to get (EHUFCO,EHUFSI).

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package huffman builds canonical JPEG Huffman code tables, both from
// an explicit BITS/HUFFVAL table (T.81 Annex C) and from a stream of
// source symbols via the length-limited training procedure of Annex K.
package huffman

import (
	"fmt"
	"sort"
)

// Table is a JPEG Huffman table in the wire format: BITS[i] counts the
// codes of length i+1, and Vals lists the symbol values in code-length
// order (ties broken by increasing symbol value).
type Table struct {
	Bits [16]int
	Vals []byte
}

// NumCodes returns the total number of codes described by the table.
func (t Table) NumCodes() int {
	n := 0
	for _, b := range t.Bits {
		n += b
	}
	return n
}

// Code is a canonical Huffman code: the low Len bits of Bits hold the
// codeword, MSB first.
type Code struct {
	Bits uint16
	Len  int
}

// BuildCodes derives the canonical code for every symbol in t, following
// T.81 Annex C. It returns an error (InternalInvariantViolated in the
// caller's terms) if a code length would exceed 16 bits, which can only
// happen if t.Bits was not produced by the Annex K length-limiting
// procedure.
func BuildCodes(t Table) (map[byte]Code, error) {
	if t.NumCodes() != len(t.Vals) {
		return nil, fmt.Errorf("huffman: BITS total %d does not match %d HUFFVAL entries", t.NumCodes(), len(t.Vals))
	}

	// Figure C.1: generate HUFFSIZE, a flat list of code lengths, one per
	// value in code-length order.
	var huffsize []int
	for length := 1; length <= 16; length++ {
		for i := 0; i < t.Bits[length-1]; i++ {
			huffsize = append(huffsize, length)
		}
	}

	// Figure C.2: generate HUFFCODE, the canonical code value for each
	// entry of HUFFSIZE.
	huffcode := make([]uint16, len(huffsize))
	code := uint16(0)
	si := 0
	if len(huffsize) > 0 {
		si = huffsize[0]
	}
	k := 0
	for k < len(huffsize) {
		for k < len(huffsize) && huffsize[k] == si {
			huffcode[k] = code
			code++
			k++
		}
		code <<= 1
		si++
	}

	// Figure C.3: index by symbol value.
	out := make(map[byte]Code, len(t.Vals))
	for i, v := range t.Vals {
		length := huffsize[i]
		if length > 16 {
			return nil, fmt.Errorf("huffman: code length %d for symbol %#x exceeds 16 bits", length, v)
		}
		out[v] = Code{Bits: huffcode[i], Len: length}
	}
	return out, nil
}

// Validate checks the canonical properties required of any emitted
// table: no two symbols share a code, no code is a prefix of another,
// and no code is the all-ones codeword of its length.
func Validate(codes map[byte]Code) error {
	type entry struct {
		sym  byte
		code Code
	}
	var entries []entry
	for s, c := range codes {
		entries = append(entries, entry{s, c})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].code.Len < entries[j].code.Len })

	for i, e := range entries {
		if e.code.Bits == (1<<uint(e.code.Len))-1 {
			return fmt.Errorf("huffman: symbol %#x has the all-ones code of length %d", e.sym, e.code.Len)
		}
		for j := i + 1; j < len(entries); j++ {
			o := entries[j]
			if o.code.Len < e.code.Len {
				continue
			}
			if e.code.Bits == o.code.Bits>>uint(o.code.Len-e.code.Len) {
				return fmt.Errorf("huffman: code for symbol %#x is a prefix of code for symbol %#x", e.sym, o.sym)
			}
		}
	}
	return nil
}
