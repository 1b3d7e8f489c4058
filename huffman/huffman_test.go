/*
NAME
  huffman_test.go

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

import (
	"math/rand"
	"testing"
)

func checkCanonical(t *testing.T, tbl Table) map[byte]Code {
	t.Helper()
	codes, err := BuildCodes(tbl)
	if err != nil {
		t.Fatalf("BuildCodes: %v", err)
	}
	if err := Validate(codes); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return codes
}

func TestDefaultTablesAreCanonical(t *testing.T) {
	for name, tbl := range map[string]Table{
		"dc-luma":   DefaultDCLuma,
		"dc-chroma": DefaultDCChroma,
		"ac-luma":   DefaultACLuma,
		"ac-chroma": DefaultACChroma,
	} {
		t.Run(name, func(t *testing.T) { checkCanonical(t, tbl) })
	}
}

func TestTrainProducesCanonicalTable(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	symbols := make([]byte, 5000)
	for i := range symbols {
		// A skewed distribution, the kind that tends to blow past 16
		// bits without length limiting.
		switch {
		case r.Intn(100) < 70:
			symbols[i] = 0
		case r.Intn(100) < 90:
			symbols[i] = byte(r.Intn(3))
		default:
			symbols[i] = byte(r.Intn(256))
		}
	}
	tbl := Train(symbols)
	codes := checkCanonical(t, tbl)
	if len(codes) == 0 {
		t.Fatal("expected at least one code")
	}
	for _, c := range codes {
		if c.Len > 16 {
			t.Fatalf("code length %d exceeds 16", c.Len)
		}
	}
}

func TestTrainSingleSymbol(t *testing.T) {
	symbols := make([]byte, 100)
	tbl := Train(symbols) // all zero.
	codes := checkCanonical(t, tbl)
	if c, ok := codes[0]; !ok || c.Len != 1 {
		t.Fatalf("expected single symbol to get a 1-bit code, got %+v", codes)
	}
}

func TestTrainManyDistinctSymbols(t *testing.T) {
	symbols := make([]byte, 0, 256*10)
	for i := 0; i < 256; i++ {
		for j := 0; j < 10; j++ {
			symbols = append(symbols, byte(i))
		}
	}
	tbl := Train(symbols)
	checkCanonical(t, tbl)
	if got := len(tbl.Vals); got != 256 {
		t.Fatalf("expected all 256 symbols represented, got %d", got)
	}
}

func TestBuildCodesRejectsMismatchedCounts(t *testing.T) {
	bad := Table{Bits: [16]int{1}, Vals: []byte{0, 1}}
	if _, err := BuildCodes(bad); err == nil {
		t.Fatal("expected error for mismatched BITS/HUFFVAL counts")
	}
}
