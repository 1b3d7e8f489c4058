/*
NAME
  encoder_test.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"bytes"
	"image"
	stdjpeg "image/jpeg"
	"testing"

	"github.com/ausocean/mcvenc/ycbcr"
)

func greyFrame(t *testing.T, w, h int, value byte, mode image.YCbCrSubsampleRatio) *ycbcr.Frame {
	t.Helper()
	packed := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		packed[i*3] = value
		packed[i*3+1] = 128
		packed[i*3+2] = 128
	}
	f, err := ycbcr.ToSubsampled(packed, w, h, mode)
	if err != nil {
		t.Fatalf("ToSubsampled: %v", err)
	}
	return f
}

// TestUniformBlockAllDCQuality50 exercises a 16x16 flat-grey frame at
// quality 50, 4:4:4: every block's DC should quantise to the same
// value and every AC coefficient should be zero, so each block's
// run-length coding is exactly one EOB symbol.
func TestUniformBlockAllDCQuality50(t *testing.T) {
	frame := greyFrame(t, 16, 16, 100, image.YCbCrSubsampleRatio444)
	p, err := NewPipeline(DefaultOptions(50, image.YCbCrSubsampleRatio444))
	if err != nil {
		t.Fatal(err)
	}
	cf, err := p.Code(frame)
	if err != nil {
		t.Fatal(err)
	}
	y := cf.Channels[0]
	if len(y.DC) != 4 {
		t.Fatalf("expected 4 luma blocks for a 16x16 frame, got %d", len(y.DC))
	}
	for i, dc := range y.DC {
		if dc != y.DC[0] {
			t.Errorf("block %d DC = %d, want uniform %d", i, dc, y.DC[0])
		}
	}
	for i, ac := range y.AC {
		if len(ac) != 1 || !ac[0].IsEOB() {
			t.Errorf("block %d AC symbols = %v, want a single EOB", i, ac)
		}
	}
}

// TestEmitProducesDecodableJPEG checks that at high quality and 4:4:4
// sampling, the bitstream Emit writes is valid baseline JPEG that the
// standard library can decode, and that every pixel is within 1 of the
// source (DCT/quantisation rounding tolerance per the package's
// round-trip fidelity requirement).
func TestEmitProducesDecodableJPEG(t *testing.T) {
	const w, h = 32, 16
	packed := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 3
			packed[off] = byte((x * 7) % 256)
			packed[off+1] = 128
			packed[off+2] = 128
		}
	}
	frame, err := ycbcr.ToSubsampled(packed, w, h, image.YCbCrSubsampleRatio444)
	if err != nil {
		t.Fatal(err)
	}

	p, err := NewPipeline(DefaultOptions(100, image.YCbCrSubsampleRatio444))
	if err != nil {
		t.Fatal(err)
	}
	cf, err := p.Code(frame)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := p.Emit(cf, &buf); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	img, err := stdjpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("stdlib failed to decode emitted bitstream: %v", err)
	}
	ycc, ok := img.(*image.YCbCr)
	if !ok {
		t.Fatalf("decoded image is %T, want *image.YCbCr", img)
	}
	if ycc.Bounds().Dx() != w || ycc.Bounds().Dy() != h {
		t.Fatalf("decoded dims %dx%d, want %dx%d", ycc.Bounds().Dx(), ycc.Bounds().Dy(), w, h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := int(packed[(y*w+x)*3])
			got := int(ycc.Y[ycc.YOffset(x, y)])
			diff := got - want
			if diff < 0 {
				diff = -diff
			}
			if diff > 1 {
				t.Fatalf("pixel (%d,%d): got Y=%d, want %d (diff %d)", x, y, got, want, diff)
			}
		}
	}
}

// TestDisablingReorderingSkipsRunLengthCoding verifies the §6.4 stage
// toggles: with reordering disabled, AC run-length symbols are never
// produced even though reconstruction still runs.
func TestDisablingReorderingSkipsRunLengthCoding(t *testing.T) {
	opts := DefaultOptions(75, image.YCbCrSubsampleRatio420)
	opts.DoReordering = false
	p, err := NewPipeline(opts)
	if err != nil {
		t.Fatal(err)
	}
	frame := greyFrame(t, 16, 16, 50, image.YCbCrSubsampleRatio420)
	cf, err := p.Code(frame)
	if err != nil {
		t.Fatal(err)
	}
	if cf.Channels[0].AC != nil {
		t.Errorf("expected nil AC symbols with reordering disabled, got %v", cf.Channels[0].AC)
	}
	if cf.Recon == nil {
		t.Errorf("expected reconstruction to still run")
	}
}

// TestEmitNoOpWhenBitstreamDisabled checks that Emit writes nothing
// when the pipeline was configured without bitstream emission.
func TestEmitNoOpWhenBitstreamDisabled(t *testing.T) {
	opts := DefaultOptions(50, image.YCbCrSubsampleRatio444)
	opts.DoBitstream = false
	p, err := NewPipeline(opts)
	if err != nil {
		t.Fatal(err)
	}
	frame := greyFrame(t, 8, 8, 10, image.YCbCrSubsampleRatio444)
	cf, err := p.Code(frame)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := p.Emit(cf, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %d bytes", buf.Len())
	}
}

// TestCustomHuffmanTrainsFromFrame checks that enabling custom Huffman
// tables on a skewed, non-uniform frame yields non-empty trained luma
// tables, and that Emit can encode the frame with the trained tables.
func TestCustomHuffmanTrainsFromFrame(t *testing.T) {
	const w, h = 32, 32
	packed := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 3
			packed[off] = byte((x*13 + y*29) % 256)
			packed[off+1] = byte((x * 5) % 256)
			packed[off+2] = byte((y * 3) % 256)
		}
	}
	frame, err := ycbcr.ToSubsampled(packed, w, h, image.YCbCrSubsampleRatio444)
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions(80, image.YCbCrSubsampleRatio444)
	opts.CustomHuffman = true
	p, err := NewPipeline(opts)
	if err != nil {
		t.Fatal(err)
	}
	cf, err := p.Code(frame)
	if err != nil {
		t.Fatal(err)
	}
	dcLuma, acLuma, _, _ := SelectTables(cf)
	if dcLuma.NumCodes() == 0 || acLuma.NumCodes() == 0 {
		t.Fatalf("trained tables have no codes")
	}

	var buf bytes.Buffer
	if err := p.Emit(cf, &buf); err != nil {
		t.Fatalf("Emit with custom Huffman tables: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty bitstream")
	}
}
