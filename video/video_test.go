/*
NAME
  video_test.go

DESCRIPTION
  video_test.go tests GOP partitioning, the container bitstream's
  overall framing, encode determinism, and the testable properties of
  §8 that apply at the video-encoder level (GOP partitioning, motion
  vectors of zero for identical frames).

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
	"bytes"
	"image"
	"testing"

	"github.com/ausocean/mcvenc/video/config"
	"github.com/ausocean/mcvenc/ycbcr"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func grey(w, h int, y byte) *ycbcr.Frame {
	packed := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		packed[i*3] = y
		packed[i*3+1] = 128
		packed[i*3+2] = 128
	}
	f, err := ycbcr.ToSubsampled(packed, w, h, image.YCbCrSubsampleRatio444)
	if err != nil {
		panic(err)
	}
	return f
}

func dummyFrames(n int) []*ycbcr.Frame {
	out := make([]*ycbcr.Frame, n)
	for i := range out {
		out[i] = grey(16, 16, 128)
	}
	return out
}

func TestPlanGOPs(t *testing.T) {
	frames := dummyFrames(10)
	gops := planGOPs(frames, "ipppp")
	if len(gops) != 2 {
		t.Fatalf("got %d GOPs, want 2", len(gops))
	}
	if len(gops[0].frames) != 5 || len(gops[1].frames) != 5 {
		t.Errorf("GOP lengths = %d,%d, want 5,5", len(gops[0].frames), len(gops[1].frames))
	}
	for i, g := range gops {
		if g.structure[0] != 'i' {
			t.Errorf("GOP %d does not start with 'i': %q", i, g.structure)
		}
	}
}

func TestPlanGOPsShortFinalGOP(t *testing.T) {
	// N=10 frames, GOP length L=4 -> ceil(10/4)=3 GOPs, last of length
	// ((10-1) mod 4)+1 = 2.
	frames := dummyFrames(10)
	gops := planGOPs(frames, "ippp")
	if len(gops) != 3 {
		t.Fatalf("got %d GOPs, want ceil(10/4)=3", len(gops))
	}
	last := gops[len(gops)-1]
	wantLast := ((10 - 1) % 4) + 1
	if len(last.frames) != wantLast {
		t.Errorf("last GOP length = %d, want %d", len(last.frames), wantLast)
	}
}

func TestResidualMapRoundTrips(t *testing.T) {
	// 511 residual values share 256 bytes: mapResidual's halving drops
	// the low bit, so odd residuals round-trip exactly and even ones
	// come back one lower.
	for r := -255; r <= 255; r++ {
		v := mapResidual(r)
		got := unmapResidual(int(v))
		want := r
		if r%2 == 0 {
			want = r - 1
		}
		if got != want {
			t.Errorf("residual %d: mapResidual/unmapResidual round-trip gave %d, want %d", r, got, want)
		}
	}
}

func TestEncodeIdenticalFramesZeroMotion(t *testing.T) {
	frames := []*ycbcr.Frame{grey(16, 16, 130), grey(16, 16, 130)}
	cfg := defaultTestConfig()
	cfg.GOP = "ip"

	var buf bytes.Buffer
	stats, err := Encode(cfg, frames, &buf)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(stats.Frames) != 2 {
		t.Fatalf("got %d frame stats, want 2", len(stats.Frames))
	}
	if stats.Frames[1].Type != FrameP {
		t.Errorf("second frame type = %v, want P", stats.Frames[1].Type)
	}
	// Zero motion: the 4 macroblocks' 8 MV components are all category
	// 0, coded with a single 1-bit code and no magnitude bits, so the MV
	// segment is marker(2) + length(1) + one payload byte = 32 bits.
	if stats.Frames[1].MVBits != 32 {
		t.Errorf("MV bits for identical frames = %d, want 32 (all-zero motion vectors)", stats.Frames[1].MVBits)
	}
	// Two identical frames: the P frame's reconstruction should match
	// the input almost exactly (the residual map turns a zero residual
	// into -1, so luma comes back one lower), giving a high PSNR.
	if stats.Frames[1].PSNR < 30 {
		t.Errorf("PSNR for identical frames = %f, want > 30 dB", stats.Frames[1].PSNR)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	frames := []*ycbcr.Frame{grey(16, 16, 90), grey(16, 16, 140), grey(16, 16, 110)}
	cfg := defaultTestConfig()
	cfg.GOP = "ipp"

	var buf1, buf2 bytes.Buffer
	if _, err := Encode(cfg, frames, &buf1); err != nil {
		t.Fatalf("Encode (run 1): %v", err)
	}
	cfg2 := defaultTestConfig()
	cfg2.GOP = "ipp"
	if _, err := Encode(cfg2, frames, &buf2); err != nil {
		t.Fatalf("Encode (run 2): %v", err)
	}
	if !bytes.Equal(buf1.Bytes(), buf2.Bytes()) {
		t.Error("two encodes of the same input produced different bitstreams")
	}
}

func TestEncodeBitstreamFraming(t *testing.T) {
	frames := []*ycbcr.Frame{grey(16, 16, 100), grey(16, 16, 120)}
	cfg := defaultTestConfig()
	cfg.GOP = "ip"

	var buf bytes.Buffer
	if _, err := Encode(cfg, frames, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := buf.Bytes()
	if len(b) < 4 {
		t.Fatalf("bitstream too short: %d bytes", len(b))
	}
	if b[0] != 0xff || b[1] != markerStartOfVideo {
		t.Errorf("bitstream does not start with start-of-video marker, got % x", b[:2])
	}
	if b[len(b)-2] != 0xff || b[len(b)-1] != markerEndOfVideo {
		t.Errorf("bitstream does not end with end-of-video marker, got % x", b[len(b)-2:])
	}
}

func TestEncodeRejectsEmptyFrames(t *testing.T) {
	cfg := defaultTestConfig()
	var buf bytes.Buffer
	if _, err := Encode(cfg, nil, &buf); err == nil {
		t.Error("expected an error encoding zero frames")
	}
}

func defaultTestConfig() *config.Config {
	c := config.Defaults(&dumbLogger{})
	c.Subsampling = image.YCbCrSubsampleRatio444
	c.MacroblockSize = 8
	c.BlockMatchingSearchDistance = 4
	return c
}
