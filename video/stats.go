/*
NAME
  stats.go

DESCRIPTION
  stats.go records per-frame encode statistics (§4.8 step 3) and
  aggregates them into summary figures and an optional diagnostic
  chart, the role the teacher's turbidity probe fills with
  gonum.org/v1/gonum/stat for its own sharpness/contrast scores.

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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// FrameType identifies a coded frame's role.
type FrameType byte

const (
	FrameI FrameType = 'i'
	FrameP FrameType = 'p'
)

func (t FrameType) String() string {
	if t == FrameP {
		return "P"
	}
	return "I"
}

// FrameStats records the statistics of a single coded frame.
type FrameStats struct {
	Type      FrameType
	TotalBits int // Cumulative bitstream size through this frame.
	FrameBits int // This frame's own payload size, including MV segment.
	MVBits    int // Bits spent on motion vectors; 0 for I frames.
	PSNR      float64
}

// Stats aggregates FrameStats across a whole encode.
type Stats struct {
	Frames []FrameStats
}

// Add appends one frame's statistics.
func (s *Stats) Add(fs FrameStats) { s.Frames = append(s.Frames, fs) }

// MeanPSNR returns the unweighted mean PSNR across every recorded
// frame, or +Inf if no frames were recorded.
func (s *Stats) MeanPSNR() float64 {
	if len(s.Frames) == 0 {
		return math.Inf(1)
	}
	vals := make([]float64, len(s.Frames))
	for i, f := range s.Frames {
		vals[i] = f.PSNR
	}
	return stat.Mean(vals, nil)
}

// TotalBits returns the cumulative bitstream size in bits through the
// last recorded frame; the end-of-video marker written after it is not
// included.
func (s *Stats) TotalBits() int {
	if len(s.Frames) == 0 {
		return 0
	}
	return s.Frames[len(s.Frames)-1].TotalBits
}

// MeanMVBits returns the mean number of motion-vector bits per P
// frame, or 0 if the encode had none.
func (s *Stats) MeanMVBits() float64 {
	var vals []float64
	for _, f := range s.Frames {
		if f.Type == FrameP {
			vals = append(vals, float64(f.MVBits))
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return floats.Sum(vals) / float64(len(vals))
}

// psnr computes the peak signal-to-noise ratio in dB of recon against
// want, two equal-length byte planes of 8-bit luma samples.
func psnr(want, recon []byte) float64 {
	if len(want) != len(recon) {
		return math.NaN()
	}
	if len(want) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range want {
		d := float64(want[i]) - float64(recon[i])
		sum += d * d
	}
	mse := sum / float64(len(want))
	if mse == 0 {
		return math.Inf(1)
	}
	const peak = 255.0
	return 10 * math.Log10(peak*peak/mse)
}

// Plot renders a PNG chart of per-frame bits and PSNR across the encode,
// drawn as two lines on one set of axes, to path, the diagnostic role gonum.org/v1/plot fills here
// in place of the turbidity probe's score-over-time use elsewhere in
// the pack.
func (s *Stats) Plot(path string) error {
	p := plot.New()
	p.Title.Text = "frame bits and PSNR"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "bits"

	bits := make(plotter.XYs, len(s.Frames))
	psnrPts := make(plotter.XYs, len(s.Frames))
	for i, f := range s.Frames {
		bits[i].X = float64(i)
		bits[i].Y = float64(f.FrameBits)
		psnrPts[i].X = float64(i)
		psnrPts[i].Y = f.PSNR
	}

	bitsLine, err := plotter.NewLine(bits)
	if err != nil {
		return fmt.Errorf("video: bits line: %w", err)
	}
	p.Add(bitsLine)
	p.Legend.Add("bits/frame", bitsLine)

	psnrLine, err := plotter.NewLine(psnrPts)
	if err != nil {
		return fmt.Errorf("video: psnr line: %w", err)
	}
	p.Add(psnrLine)
	p.Legend.Add("PSNR (dB)", psnrLine)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
