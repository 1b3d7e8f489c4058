/*
NAME
  transform_test.go

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

import (
	"math"
	"testing"
)

func TestLevelShiftRoundTrip(t *testing.T) {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b[y][x] = (y*8 + x) % 256
		}
	}
	shifted := LevelShift(b)
	back := InverseLevelShift(shifted)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if int(back[y][x]) != b[y][x] {
				t.Fatalf("round trip mismatch at (%d,%d): got %d, want %d", x, y, back[y][x], b[y][x])
			}
		}
	}
}

func TestDCTRoundTrip(t *testing.T) {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b[y][x] = (x*x + y*3) % 97 - 48
		}
	}
	coeffs := Forward(b)
	back := Inverse(coeffs)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if diff := back[y][x] - b[y][x]; diff < -1 || diff > 1 {
				t.Fatalf("DCT round trip mismatch at (%d,%d): got %d, want %d", x, y, back[y][x], b[y][x])
			}
		}
	}
}

func TestDCTConstantBlockIsAllDC(t *testing.T) {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b[y][x] = 0 // already level-shifted "grey".
		}
	}
	coeffs := Forward(b)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if y == 0 && x == 0 {
				continue
			}
			if math.Abs(coeffs[y][x]) > 1e-9 {
				t.Fatalf("expected AC coefficient at (%d,%d) to be ~0, got %v", x, y, coeffs[y][x])
			}
		}
	}
}

func TestHorizontalRampDominantAC(t *testing.T) {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b[y][x] = x // unit amplitude horizontal ramp.
		}
	}
	coeffs := Forward(b)
	seq := ZigZag(Quantise(coeffs, mustLuma(t, 100)))
	// Dominant AC should be at natural index (u=0,v=1) -> zig-zag index 1.
	if seq[1] == 0 {
		t.Fatalf("expected non-zero coefficient at zig-zag index 1, got sequence %v", seq)
	}
}

func mustLuma(t *testing.T, q int) Table {
	tb, err := LumaTable(q)
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

func TestQuantiseQuality1AllZeroAC(t *testing.T) {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b[y][x] = 0
		}
	}
	coeffs := Forward(b)
	tb := mustLuma(t, 1)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if tb[y][x] != 255 {
				t.Fatalf("expected quality 1 table entries clamped to 255, got %d at (%d,%d)", tb[y][x], x, y)
			}
		}
	}
	q := Quantise(coeffs, tb)
	seq := ZigZag(q)
	for i := 1; i < 64; i++ {
		if seq[i] != 0 {
			t.Fatalf("expected all-zero AC at quality 1, got %d at index %d", seq[i], i)
		}
	}
}

func TestZigZagBijective(t *testing.T) {
	seen := map[int]bool{}
	for _, idx := range ZigZagOrder {
		if idx < 0 || idx > 63 {
			t.Fatalf("index %d out of range", idx)
		}
		if seen[idx] {
			t.Fatalf("index %d repeated", idx)
		}
		seen[idx] = true
	}
	if len(seen) != 64 {
		t.Fatalf("expected 64 distinct indices, got %d", len(seen))
	}
}

func TestZigZagRoundTrip(t *testing.T) {
	var b Block
	n := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b[y][x] = n
			n++
		}
	}
	seq := ZigZag(b)
	back := UnZigZag(seq)
	if back != b {
		t.Fatalf("UnZigZag(ZigZag(b)) != b")
	}
}

func TestEncodeDecodeACAllZero(t *testing.T) {
	var seq [64]int
	syms := EncodeAC(seq)
	if len(syms) != 1 || !syms[0].IsEOB() {
		t.Fatalf("expected single EOB, got %v", syms)
	}
	back := DecodeAC(syms)
	if back != seq {
		t.Fatalf("decode mismatch: got %v", back)
	}
}

func TestEncodeDecodeACWithLongRun(t *testing.T) {
	var seq [64]int
	seq[1] = 5
	seq[40] = -3 // preceded by 38 zeros -> two ZRLs + one token.
	syms := EncodeAC(seq)
	nZRL := 0
	for _, s := range syms {
		if s.IsZRL() {
			nZRL++
		}
	}
	if nZRL != 2 {
		t.Fatalf("expected 2 ZRL symbols, got %d (%v)", nZRL, syms)
	}
	if last := syms[len(syms)-1]; !last.IsEOB() {
		t.Fatalf("expected terminating EOB, got %v", last)
	}
	back := DecodeAC(syms)
	if back != seq {
		t.Fatalf("decode mismatch: got %v, want %v", back, seq)
	}
}

func TestDiffDC(t *testing.T) {
	dc := []int{10, 12, 9, 9, 20}
	diff := DiffDC(dc)
	want := []int{10, 2, -3, 0, 11}
	for i := range want {
		if diff[i] != want[i] {
			t.Fatalf("index %d: got %d, want %d", i, diff[i], want[i])
		}
	}
	back := UndiffDC(diff)
	for i := range dc {
		if back[i] != dc[i] {
			t.Fatalf("round trip index %d: got %d, want %d", i, back[i], dc[i])
		}
	}
}

func TestScaleFactorQuality50(t *testing.T) {
	if s := scaleFactor(50); s != 100 {
		t.Fatalf("scaleFactor(50) = %d, want 100", s)
	}
}
