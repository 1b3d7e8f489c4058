/*
NAME
  encoder.go

DESCRIPTION
  encoder.go drives the motion-compensated video encode (§4.8): it
  partitions frames into GOPs, codes each frame's I or P path through
  the JPEG still pipeline, maintains the closed-loop reference buffer,
  trains per-GOP Huffman tables for both residual symbols and motion
  vectors, and writes the §6.2 container bitstream.

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

// Package video implements the motion-compensated encoder built on top
// of the baseline JPEG still coder: GOP partitioning, block-matching
// motion estimation, closed-loop reconstruction, and the non-standard
// container bitstream that wraps it all.
package video

import (
	"fmt"
	"image"
	"io"

	"github.com/ausocean/mcvenc/huffman"
	"github.com/ausocean/mcvenc/jpeg"
	"github.com/ausocean/mcvenc/motion"
	"github.com/ausocean/mcvenc/transform"
	"github.com/ausocean/mcvenc/video/config"
	"github.com/ausocean/mcvenc/ycbcr"
)

// gop is one partition of the input stream: a run of frames and the
// corresponding prefix of the GOP structure string.
type gop struct {
	frames    []*ycbcr.Frame
	structure string
}

// planGOPs partitions frames into GOPs of structure's length, the last
// one possibly shorter, per the §8 GOP-partitioning property: for N
// frames and GOP length L, ⌈N/L⌉ GOPs, the last of length
// ((N-1) mod L)+1.
func planGOPs(frames []*ycbcr.Frame, structure string) []gop {
	l := len(structure)
	var gops []gop
	for i := 0; i < len(frames); i += l {
		end := i + l
		if end > len(frames) {
			end = len(frames)
		}
		gops = append(gops, gop{frames: frames[i:end], structure: structure[:end-i]})
	}
	return gops
}

// mapResidual applies the §4.8 affine range map r' = (r+255)/2, clamped
// to [0,255] as a defensive measure against the impossible case of r
// outside [-255,255].
func mapResidual(r int) byte {
	v := (r + 255) / 2
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// unmapResidual maps a byte back to a signed residual with the
// symmetric inverse r = 2*r' - 255. mapResidual's halving drops the low
// bit, so an odd residual comes back exactly and an even one comes back
// one lower (0 becomes -1).
func unmapResidual(v int) int { return 2*int(v) - 255 }

// residualFrame packages a computed Residual as a ycbcr.Frame of mapped
// byte samples, so it can be run through the same still-image pipeline
// an I frame uses.
func residualFrame(res *motion.Residual, mode image.YCbCrSubsampleRatio, origW, origH int) *ycbcr.Frame {
	f := ycbcr.NewFrame(image.Rect(0, 0, res.YW, res.YH), mode, origW, origH)
	for i, r := range res.Y {
		f.Y[i] = mapResidual(r)
	}
	for i, r := range res.Cb {
		f.Cb[i] = mapResidual(r)
	}
	for i, r := range res.Cr {
		f.Cr[i] = mapResidual(r)
	}
	return f
}

// unmapResidualFrame inverts residualFrame's mapping on a reconstructed
// (quantised-and-dequantised) residual frame, producing the signed
// Residual motion.Reconstruct expects.
func unmapResidualFrame(recon *ycbcr.Frame, yw, yh, cw, ch int) *motion.Residual {
	r := &motion.Residual{YW: yw, YH: yh, CW: cw, CH: ch}
	r.Y = make([]int, len(recon.Y))
	for i, v := range recon.Y {
		r.Y[i] = unmapResidual(int(v))
	}
	r.Cb = make([]int, len(recon.Cb))
	for i, v := range recon.Cb {
		r.Cb[i] = unmapResidual(int(v))
	}
	r.Cr = make([]int, len(recon.Cr))
	for i, v := range recon.Cr {
		r.Cr[i] = unmapResidual(int(v))
	}
	return r
}

// jpegOptions builds the still-pipeline Options a video encode runs
// every frame (I or residual) through. Reconstruction is always
// enabled here: the closed-loop reference buffer this encoder
// maintains is an architectural requirement of the video path, and
// Encode writes nothing at all when cfg.DoReconstruction is false.
func jpegOptions(cfg *config.Config) jpeg.Options {
	o := jpeg.DefaultOptions(cfg.Quality, cfg.Subsampling)
	o.DoReconstruction = true
	o.DoReordering = cfg.DoReordering
	o.DoRunLengthCoding = cfg.DoRunLengthCoding
	o.DoDCDifferentials = cfg.DoDCDifferentials
	o.DoEntropyCoding = cfg.DoEntropyCoding
	o.DoBitstream = cfg.DoBitstream
	return o
}

// motionParams derives motion.Params from cfg, having already been
// range-checked by Config.Validate.
func motionParams(cfg *config.Config) (motion.Params, error) {
	var alg motion.Algorithm
	switch cfg.BlockMatching {
	case "FSA":
		alg = motion.FSA
	case "DSA":
		alg = motion.DSA
	default:
		return motion.Params{}, fmt.Errorf("%w: unknown block-matching algorithm %q", ErrInvalidParameter, cfg.BlockMatching)
	}
	var metric motion.Metric
	switch cfg.BlockMatchingDifferenceCalculation {
	case "SAD":
		metric = motion.SAD
	case "MAD":
		metric = motion.MAD
	default:
		return motion.Params{}, fmt.Errorf("%w: unknown distortion metric %q", ErrInvalidParameter, cfg.BlockMatchingDifferenceCalculation)
	}
	p := motion.Params{
		BlockSize:      cfg.MacroblockSize,
		SearchDistance: cfg.BlockMatchingSearchDistance,
		Algorithm:      alg,
		Metric:         metric,
	}
	if err := p.Validate(); err != nil {
		return motion.Params{}, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return p, nil
}

// countingWriter wraps an io.Writer, tallying bytes written so Encode
// can derive per-frame and cumulative bit counts without buffering the
// whole bitstream in memory.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// codedGOPFrame holds one coded frame's state carried from the GOP's
// coding pass into its emission pass.
type codedGOPFrame struct {
	typ   FrameType
	cf    *jpeg.CodedFrame
	field *motion.Field     // nil for I frames.
	recon *ycbcr.Frame      // The frame this encode reconstructs to.
}

// Encode runs the full video encode over frames, already converted to
// YCbCr, and writes the §6.2 container bitstream to w.
func Encode(cfg *config.Config, frames []*ycbcr.Frame, w io.Writer) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames to encode", ErrInvalidInput)
	}
	// With any pipeline stage disabled, nothing is coded or written.
	if !(cfg.DoEntropyCoding && cfg.DoBitstream && cfg.DoReconstruction &&
		cfg.DoRunLengthCoding && cfg.DoReordering && cfg.DoDCDifferentials) {
		return &Stats{}, nil
	}

	mp, err := motionParams(cfg)
	if err != nil {
		return nil, err
	}
	pipeline, err := jpeg.NewPipeline(jpegOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	qLuma, err := transform.LumaTable(cfg.Quality)
	if err != nil {
		return nil, err
	}
	qChroma, err := transform.ChromaTable(cfg.Quality)
	if err != nil {
		return nil, err
	}

	cw := &countingWriter{w: w}
	stats := &Stats{}

	pCount := 0
	for _, c := range cfg.GOP {
		if c == 'p' {
			pCount++
		}
	}
	if err := WriteStartOfVideo(cw, uint16(pCount), byte(cfg.FrameRate)); err != nil {
		return nil, err
	}
	if err := jpeg.WriteDQT(cw, qLuma, qChroma); err != nil {
		return nil, err
	}

	var reference *ycbcr.Frame
	for _, g := range planGOPs(frames, cfg.GOP) {
		if err := encodeGOP(cw, pipeline, mp, cfg, g, &reference, stats); err != nil {
			return nil, err
		}
	}

	if err := WriteEndOfVideo(cw); err != nil {
		return nil, err
	}
	return stats, nil
}

// encodeGOP codes and emits one GOP: an I-frame-coding-then-P pass
// building every frame's CodedFrame against the shared reference
// buffer, then one emission pass writing the GOP's shared headers and
// every frame's payload, per the state machine of §4.8.
func encodeGOP(cw *countingWriter, pipeline *jpeg.Pipeline, mp motion.Params, cfg *config.Config, g gop, reference **ycbcr.Frame, stats *Stats) error {
	coded := make([]codedGOPFrame, 0, len(g.frames))
	var fields []*motion.Field

	for i, frame := range g.frames {
		typ := FrameI
		if i < len(g.structure) && g.structure[i] == 'p' {
			typ = FrameP
		}

		if typ == FrameI {
			cf, err := pipeline.Code(frame)
			if err != nil {
				return err
			}
			*reference = cf.Recon
			coded = append(coded, codedGOPFrame{typ: FrameI, cf: cf, recon: cf.Recon})
			continue
		}

		if *reference == nil {
			return fmt.Errorf("%w: P frame has no preceding I frame in its GOP", ErrInvalidInput)
		}
		ref := *reference
		field, err := motion.EstimateY(frame.Y, ref.Y, frame.YStride, frame.Bounds().Dx(), frame.Bounds().Dy(), mp)
		if err != nil {
			return err
		}
		res, err := motion.Compute(frame, ref, field, mp)
		if err != nil {
			return err
		}
		cf, err := pipeline.Code(residualFrame(res, cfg.Subsampling, frame.OrigW, frame.OrigH))
		if err != nil {
			return err
		}
		invRes := unmapResidualFrame(cf.Recon, res.YW, res.YH, res.CW, res.CH)
		newRef, err := motion.Reconstruct(ref, field, invRes, mp)
		if err != nil {
			return err
		}
		*reference = newRef
		coded = append(coded, codedGOPFrame{typ: FrameP, cf: cf, field: field, recon: newRef})
		fields = append(fields, field)
	}

	dcLuma, acLuma, dcChroma, acChroma := gopTables(cfg, coded)
	mvTable := huffman.Train(mvTrainSymbols(fields))
	mvCodes, err := huffman.BuildCodes(mvTable)
	if err != nil {
		return err
	}

	first := g.frames[0]
	if err := jpeg.WriteSOF0(cw, first.OrigW, first.OrigH, cfg.Subsampling); err != nil {
		return err
	}
	if err := WriteMVTable(cw, mvTable); err != nil {
		return err
	}
	if err := jpeg.WriteDHT(cw, dcLuma, acLuma, dcChroma, acChroma); err != nil {
		return err
	}
	if err := WriteStartOfGOP(cw); err != nil {
		return err
	}

	for i, c := range coded {
		before := cw.n
		if err := WriteFrameMarker(cw, c.typ); err != nil {
			return err
		}
		if err := WriteScans(cw, c.cf, dcLuma, acLuma, dcChroma, acChroma); err != nil {
			return err
		}
		mvBits := 0
		if c.typ == FrameP {
			mvBefore := cw.n
			if err := WriteMVSegment(cw, c.field, mvCodes); err != nil {
				return err
			}
			mvBits = (cw.n - mvBefore) * 8
		}
		stats.Add(FrameStats{
			Type:      c.typ,
			TotalBits: cw.n * 8,
			FrameBits: (cw.n - before) * 8,
			MVBits:    mvBits,
			PSNR:      psnrY(g.frames[i], c.recon),
		})
	}
	return nil
}

// gopTables chooses the one set of four Huffman tables §6.2 writes per
// GOP. When custom tables are disabled, the Annex K defaults are used
// uniformly, matching the I-frame wording of §4.8 step 3. When enabled,
// one table per (class, luma/chroma) is trained on the pooled DC/AC
// symbols of every frame in the GOP: the container format has room for
// only one DHT per GOP, so "trained on this P frame's symbols" is read
// here as the GOP-wide pool, the same granularity the MV table already
// trains at.
func gopTables(cfg *config.Config, coded []codedGOPFrame) (dcLuma, acLuma, dcChroma, acChroma huffman.Table) {
	if !cfg.DoCustomHuffmanTables {
		return huffman.DefaultDCLuma, huffman.DefaultACLuma, huffman.DefaultDCChroma, huffman.DefaultACChroma
	}
	var dcLumaSyms, acLumaSyms, dcChromaSyms, acChromaSyms []byte
	for _, c := range coded {
		dcLumaSyms = append(dcLumaSyms, jpeg.DCCategorySymbols(c.cf.Channels[0].DCDiff)...)
		acLumaSyms = append(acLumaSyms, jpeg.ACByteSymbols(c.cf.Channels[0].AC)...)
		dcChromaSyms = append(dcChromaSyms, jpeg.DCCategorySymbols(c.cf.Channels[1].DCDiff)...)
		dcChromaSyms = append(dcChromaSyms, jpeg.DCCategorySymbols(c.cf.Channels[2].DCDiff)...)
		acChromaSyms = append(acChromaSyms, jpeg.ACByteSymbols(c.cf.Channels[1].AC)...)
		acChromaSyms = append(acChromaSyms, jpeg.ACByteSymbols(c.cf.Channels[2].AC)...)
	}
	return huffman.Train(dcLumaSyms), huffman.Train(acLumaSyms), huffman.Train(dcChromaSyms), huffman.Train(acChromaSyms)
}

// psnrY computes the PSNR of recon's luma plane against want's, over
// the true (unpadded) frame extent.
func psnrY(want, recon *ycbcr.Frame) float64 {
	w, h := want.OrigW, want.OrigH
	a := make([]byte, w*h)
	b := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a[y*w+x] = want.Y[want.YOffset(x, y)]
			b[y*w+x] = recon.Y[recon.YOffset(x, y)]
		}
	}
	return psnr(a, b)
}
