/*
NAME
  encoder.go

DESCRIPTION
  encoder.go orchestrates the JPEG baseline still-frame pipeline (§4.6):
  subsampled planes in, level-shifted 8x8 DCT, quantisation, optional
  closed-loop reconstruction, zig-zag reordering, AC run-length coding
  and DC differential coding, then Huffman table selection and
  bitstream emission.

  Pipeline is the reusable "block-pipeline" object the video encoder
  composes rather than subclassing: Code does the transform-and-code
  half, Emit does the bitstream half, and the video container calls
  them separately so it can interleave its own GOP/motion-vector
  framing between the two.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jpeg implements the ITU-T T.81 baseline DCT still-image coder
// this module's video encoder reuses for I frames and P residuals.
package jpeg

import (
	"fmt"
	"image"
	"io"

	"github.com/ausocean/mcvenc/bitio"
	"github.com/ausocean/mcvenc/huffman"
	"github.com/ausocean/mcvenc/transform"
	"github.com/ausocean/mcvenc/ycbcr"
)

// Options configures a Pipeline. The Do* fields mirror the
// video/config.Config toggles of the same name; when any stage a later
// one depends on is disabled, the dependent stage is silently skipped
// rather than erroring, per §6.4.
type Options struct {
	Quality       int
	Mode          image.YCbCrSubsampleRatio
	CustomHuffman bool

	DoReconstruction  bool
	DoReordering      bool
	DoRunLengthCoding bool
	DoDCDifferentials bool
	DoEntropyCoding   bool
	DoBitstream       bool
}

// DefaultOptions returns an Options value with every stage enabled and
// the given quality/mode, the configuration the still encoder runs
// under when called directly rather than via the video encoder.
func DefaultOptions(quality int, mode image.YCbCrSubsampleRatio) Options {
	return Options{
		Quality:           quality,
		Mode:              mode,
		DoReconstruction:  true,
		DoReordering:      true,
		DoRunLengthCoding: true,
		DoDCDifferentials: true,
		DoEntropyCoding:   true,
		DoBitstream:       true,
	}
}

// ChannelCoded holds one channel's per-block coding state in raster
// block order.
type ChannelCoded struct {
	BlocksW, BlocksH int
	DC               []int                  // Quantised DC, one per block.
	DCDiff           []int                  // Differential-coded DC; nil if disabled.
	AC               [][]transform.ACSymbol // Run-length-coded AC; nil if disabled.
}

// CodedFrame is the output of Pipeline.Code: the coefficients needed to
// emit a bitstream, and (if requested) the closed-loop reconstruction.
type CodedFrame struct {
	Opts           Options
	OrigW, OrigH   int
	QLuma, QChroma transform.Table
	Channels       [3]ChannelCoded // Y, Cb, Cr.
	Recon          *ycbcr.Frame
}

// Pipeline is a reusable JPEG block coder: construct once per
// quality/mode and call Code per frame.
type Pipeline struct {
	opts Options
}

// NewPipeline validates opts and returns a Pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if err := transform.ValidateQuality(opts.Quality); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	if _, _, err := ycbcr.Divisors(opts.Mode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return &Pipeline{opts: opts}, nil
}

// planeData returns the pixel bytes, row stride and block-aligned
// dimensions of channel (0=Y,1=Cb,2=Cr) of frame.
func planeData(frame *ycbcr.Frame, channel int) (pix []byte, stride, w, h int) {
	w, h = frame.PlaneDims(channel)
	switch channel {
	case 0:
		return frame.Y, frame.YStride, w, h
	case 1:
		return frame.Cb, frame.CStride, w, h
	default:
		return frame.Cr, frame.CStride, w, h
	}
}

// Code runs the transform-and-code half of the pipeline over every
// block of every channel of frame: level shift, DCT, quantisation,
// zig-zag, AC run-length coding, DC differential coding, and (if
// enabled) inverse-path reconstruction.
func (p *Pipeline) Code(frame *ycbcr.Frame) (*CodedFrame, error) {
	if frame.SubsampleRatio != p.opts.Mode {
		return nil, fmt.Errorf("%w: frame chroma mode %v does not match pipeline mode %v", ErrGeometry, frame.SubsampleRatio, p.opts.Mode)
	}

	qLuma, err := transform.LumaTable(p.opts.Quality)
	if err != nil {
		return nil, err
	}
	qChroma, err := transform.ChromaTable(p.opts.Quality)
	if err != nil {
		return nil, err
	}

	cf := &CodedFrame{
		Opts:    p.opts,
		OrigW:   frame.OrigW,
		OrigH:   frame.OrigH,
		QLuma:   qLuma,
		QChroma: qChroma,
	}

	var recon *ycbcr.Frame
	if p.opts.DoReconstruction {
		recon = ycbcr.NewFrame(frame.Bounds(), frame.SubsampleRatio, frame.OrigW, frame.OrigH)
	}

	for ch := 0; ch < 3; ch++ {
		table := qLuma
		if ch != 0 {
			table = qChroma
		}
		pix, stride, w, h := planeData(frame, ch)
		bw, bh := w/8, h/8

		var reconPix []byte
		if p.opts.DoReconstruction {
			reconPix, _, _, _ = planeData(recon, ch)
		}

		cc := ChannelCoded{BlocksW: bw, BlocksH: bh, DC: make([]int, 0, bw*bh)}
		if p.opts.DoReordering && p.opts.DoRunLengthCoding {
			cc.AC = make([][]transform.ACSymbol, 0, bw*bh)
		}

		for by := 0; by < bh; by++ {
			for bx := 0; bx < bw; bx++ {
				block := transform.ExtractBlock(pix, stride, bx, by)
				shifted := transform.LevelShift(block)
				coeffs := transform.Forward(shifted)
				q := transform.Quantise(coeffs, table)
				cc.DC = append(cc.DC, q[0][0])

				if p.opts.DoReordering && p.opts.DoRunLengthCoding {
					seq := transform.ZigZag(q)
					cc.AC = append(cc.AC, transform.EncodeAC(seq))
				}

				if p.opts.DoReconstruction {
					deq := transform.Dequantise(q, table)
					back := transform.Inverse(deq)
					px := transform.InverseLevelShift(back)
					transform.PlaceBlock(reconPix, stride, bx, by, px)
				}
			}
		}

		if p.opts.DoReordering && p.opts.DoDCDifferentials {
			cc.DCDiff = transform.DiffDC(cc.DC)
		}
		cf.Channels[ch] = cc
	}

	if p.opts.DoReconstruction {
		cf.Recon = recon
	}
	return cf, nil
}

// SelectTables returns the four Huffman tables (DC-Y, AC-Y, DC-C, AC-C)
// to encode cf with: the Annex K defaults, or tables trained on cf's own
// symbols when cf.Opts.CustomHuffman is set.
func SelectTables(cf *CodedFrame) (dcLuma, acLuma, dcChroma, acChroma huffman.Table) {
	if !cf.Opts.CustomHuffman {
		return huffman.DefaultDCLuma, huffman.DefaultACLuma, huffman.DefaultDCChroma, huffman.DefaultACChroma
	}
	dcLumaSyms := DCCategorySymbols(cf.Channels[0].DCDiff)
	acLumaSyms := ACByteSymbols(cf.Channels[0].AC)
	dcChromaSyms := append(DCCategorySymbols(cf.Channels[1].DCDiff), DCCategorySymbols(cf.Channels[2].DCDiff)...)
	acChromaSyms := append(ACByteSymbols(cf.Channels[1].AC), ACByteSymbols(cf.Channels[2].AC)...)
	return huffman.Train(dcLumaSyms), huffman.Train(acLumaSyms), huffman.Train(dcChromaSyms), huffman.Train(acChromaSyms)
}

// DCCategorySymbols maps a channel's DC differentials to the category
// symbol stream a DC Huffman table is trained on.
func DCCategorySymbols(diffs []int) []byte {
	out := make([]byte, len(diffs))
	for i, d := range diffs {
		out[i] = byte(bitio.Category(d))
	}
	return out
}

// ACByteSymbols flattens a channel's per-block AC symbols into the
// (RRRR_SSSS) byte stream an AC Huffman table is trained on.
func ACByteSymbols(ac [][]transform.ACSymbol) []byte {
	var out []byte
	for _, block := range ac {
		for _, s := range block {
			out = append(out, s.Byte())
		}
	}
	return out
}

// Emit writes the full T.81 baseline bitstream for cf: SOI, DQT, DHT,
// SOF0, one non-interleaved SOS+ECS per channel in order Y, Cb, Cr, and
// EOI. If any stage upstream of entropy coding or bitstream emission
// itself was disabled on the Pipeline that produced cf, Emit writes
// nothing and returns nil.
func (p *Pipeline) Emit(cf *CodedFrame, w io.Writer) error {
	if !canEmit(cf.Opts) {
		return nil
	}

	dcLuma, acLuma, dcChroma, acChroma := SelectTables(cf)

	if err := WriteSOI(w); err != nil {
		return err
	}
	if err := WriteDQT(w, cf.QLuma, cf.QChroma); err != nil {
		return err
	}
	if err := WriteDHT(w, dcLuma, acLuma, dcChroma, acChroma); err != nil {
		return err
	}
	if err := WriteSOF0(w, cf.OrigW, cf.OrigH, cf.Opts.Mode); err != nil {
		return err
	}

	channels := []struct {
		id      byte
		tableID int
		dc      huffman.Table
		ac      huffman.Table
	}{
		{ChannelY, qTableLuma, dcLuma, acLuma},
		{ChannelCb, qTableChroma, dcChroma, acChroma},
		{ChannelCr, qTableChroma, dcChroma, acChroma},
	}
	for i, ch := range channels {
		cc := cf.Channels[i]
		if err := WriteScan(w, ch.id, ch.tableID, cc.DCDiff, cc.AC, ch.dc, ch.ac); err != nil {
			return err
		}
	}
	return WriteEOI(w)
}

// canEmit reports whether enough pipeline stages ran to produce a
// bitstream at all.
func canEmit(o Options) bool {
	return o.DoBitstream && o.DoEntropyCoding && o.DoReordering && o.DoRunLengthCoding && o.DoDCDifferentials
}
