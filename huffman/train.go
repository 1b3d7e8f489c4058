/*
NAME
  train.go

DESCRIPTION
  train.go derives a length-limited canonical Huffman table from a
  stream of source symbol values, following the T.81 Annex K.2
  procedure: a greedy pairwise-merge code-size assignment (Figure K.1),
  then a length-limiting rebalance to a maximum of 16 bits (Figure
  K.3), with a reserved pseudo-symbol inserted up front so the all-ones
  codeword is never assigned to a real value.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package huffman

import "sort"

// reservedSymbol is a pseudo-symbol value outside the real alphabet
// (symbol values here are always single bytes, so 256 cannot collide).
const reservedSymbol = 256

// Train builds a BITS/HUFFVAL table from a stream of source symbol
// values (DC categories, AC (run,size) bytes, or MV categories all use
// this same byte alphabet).
func Train(symbols []byte) Table {
	if len(symbols) == 0 {
		return Table{}
	}

	var freq [257]int
	for _, s := range symbols {
		freq[s]++
	}
	freq[reservedSymbol] = 1 // Reserve a slot so the all-ones code stays unused.

	codesize := assignCodeSizes(freq)

	var bits [33]int
	for _, cs := range codesize {
		if cs > 0 {
			bits[cs]++
		}
	}
	bits = limitLength(bits)

	vals := orderedValues(codesize)

	var t Table
	for i := 1; i <= 16; i++ {
		t.Bits[i-1] = bits[i]
	}
	t.Vals = vals
	return t
}

// assignCodeSizes implements T.81 Annex K.2 Figure K.1: repeatedly merge
// the two least-frequent remaining symbols, chaining their code-length
// increments through "others" so every symbol previously merged into
// one of the pair also grows by one bit.
func assignCodeSizes(freq [257]int) [257]int {
	var codesize [257]int
	var others [257]int
	for i := range others {
		others[i] = -1
	}

	for {
		v1 := leastFrequent(freq, -1)
		if v1 == -1 {
			break
		}
		v2 := leastFrequent(freq, v1)
		if v2 == -1 {
			break
		}

		freq[v1] += freq[v2]
		freq[v2] = 0

		codesize[v1]++
		for others[v1] != -1 {
			v1 = others[v1]
			codesize[v1]++
		}
		others[v1] = v2

		codesize[v2]++
		for others[v2] != -1 {
			v2 = others[v2]
			codesize[v2]++
		}
	}
	return codesize
}

// leastFrequent returns the index with the smallest non-zero frequency,
// excluding exclude. Ties favour the smaller index.
func leastFrequent(freq [257]int, exclude int) int {
	best := -1
	for i, f := range freq {
		if f <= 0 || i == exclude {
			continue
		}
		if best == -1 || f < freq[best] {
			best = i
		}
	}
	return best
}

// limitLength implements Annex K.2 Figure K.3: rebalance the code-length
// histogram so no length exceeds 16, then remove the one code point
// consumed by the reserved pseudo-symbol from the longest length in use.
func limitLength(bits [33]int) [33]int {
	for i := 32; i > 16; i-- {
		for bits[i] > 0 {
			j := i - 2
			for bits[j] == 0 {
				j--
			}
			bits[i] -= 2
			bits[i-1]++
			bits[j+1] += 2
			bits[j]--
		}
	}
	i := 16
	for bits[i] == 0 {
		i--
	}
	bits[i]--
	return bits
}

// orderedValues lists the real symbols (0..255) in order of their
// originally assigned code length, ties broken by increasing symbol
// value, exactly as libjpeg's jpeg_gen_optimal_table does: the
// length-limiting rebalance conserves the Kraft sum over this same
// ordering even though individual per-symbol lengths shift.
func orderedValues(codesize [257]int) []byte {
	type entry struct {
		sym byte
		len int
	}
	var entries []entry
	for sym := 0; sym < 256; sym++ {
		if codesize[sym] > 0 {
			entries = append(entries, entry{byte(sym), codesize[sym]})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].len != entries[j].len {
			return entries[i].len < entries[j].len
		}
		return entries[i].sym < entries[j].sym
	})
	vals := make([]byte, len(entries))
	for i, e := range entries {
		vals[i] = e.sym
	}
	return vals
}
