/*
NAME
  quant.go

DESCRIPTION
  quant.go derives quality-scaled quantisation tables from the T.81
  Annex K recommended tables using the canonical IJG scaling formula,
  and quantises/dequantises coefficient blocks.

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

import "fmt"

// Table is a 64-entry quantisation table in natural (row-major) 8x8
// order.
type Table [8][8]int

// lumaBase and chromaBase are the T.81 Annex K recommended quantisation
// tables, in natural order, for quality 50.
var lumaBase = Table{
	{16, 11, 10, 16, 24, 40, 51, 61},
	{12, 12, 14, 19, 26, 58, 60, 55},
	{14, 13, 16, 24, 40, 57, 69, 56},
	{14, 17, 22, 29, 51, 87, 80, 62},
	{18, 22, 37, 56, 68, 109, 103, 77},
	{24, 35, 55, 64, 81, 104, 113, 92},
	{49, 64, 78, 87, 103, 121, 120, 101},
	{72, 92, 95, 98, 112, 100, 103, 99},
}

var chromaBase = Table{
	{17, 18, 24, 47, 99, 99, 99, 99},
	{18, 21, 26, 66, 99, 99, 99, 99},
	{24, 26, 56, 99, 99, 99, 99, 99},
	{47, 66, 99, 99, 99, 99, 99, 99},
	{99, 99, 99, 99, 99, 99, 99, 99},
	{99, 99, 99, 99, 99, 99, 99, 99},
	{99, 99, 99, 99, 99, 99, 99, 99},
	{99, 99, 99, 99, 99, 99, 99, 99},
}

// ValidateQuality reports an error if q is outside [1,100].
func ValidateQuality(q int) error {
	if q < 1 || q > 100 {
		return fmt.Errorf("transform: quality %d out of range [1,100]", q)
	}
	return nil
}

// scaleFactor is the canonical IJG quality-to-scale mapping.
func scaleFactor(q int) int {
	if q < 50 {
		return 5000 / q
	}
	return 200 - 2*q
}

// scale derives a quality-scaled table from a base table using the IJG
// formula: entry' = clamp((entry*S+50)/100, 1, 255).
func scale(base Table, q int) Table {
	s := scaleFactor(q)
	var out Table
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := (base[y][x]*s + 50) / 100
			if v < 1 {
				v = 1
			} else if v > 255 {
				v = 255
			}
			out[y][x] = v
		}
	}
	return out
}

// LumaTable returns the luminance quantisation table for quality q.
func LumaTable(q int) (Table, error) {
	if err := ValidateQuality(q); err != nil {
		return Table{}, err
	}
	return scale(lumaBase, q), nil
}

// ChromaTable returns the chrominance quantisation table for quality q.
func ChromaTable(q int) (Table, error) {
	if err := ValidateQuality(q); err != nil {
		return Table{}, err
	}
	return scale(chromaBase, q), nil
}

// Quantise divides each coefficient by the corresponding table entry,
// rounding half away from zero.
func Quantise(c Coeffs, t Table) Block {
	var out Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			out[y][x] = round(c[y][x] / float64(t[y][x]))
		}
	}
	return out
}

// Dequantise multiplies each quantised coefficient by its table entry.
func Dequantise(b Block, t Table) Coeffs {
	var out Coeffs
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			out[y][x] = float64(b[y][x] * t[y][x])
		}
	}
	return out
}

// Bytes returns the table flattened in zig-zag order, as written to a
// DQT segment.
func (t Table) Bytes() [64]byte {
	var out [64]byte
	for i, idx := range ZigZagOrder {
		y, x := idx/8, idx%8
		out[i] = byte(t[y][x])
	}
	return out
}
