/*
NAME
  encvid

DESCRIPTION
  encvid is a thin command-line wrapper around the video encoder core:
  it reads a raw packed-YCbCr frame file (width*height*3 bytes per
  frame, concatenated), builds a video/config.Config from flags, and
  writes the §6.2 container bitstream to an output file. Frame-file
  format and on-disk layout are the CLI's own convention, not part of
  the encoder core; the encoder itself only ever sees already-decoded
  ycbcr.Frame values.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main provides encvid, a command-line driver for the
// motion-compensated video encoder core.
package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/mcvenc/video"
	"github.com/ausocean/mcvenc/video/config"
	"github.com/ausocean/mcvenc/ycbcr"
)

// Logging configuration, matching the rotating-file pattern used by
// this module's teacher's own cmd binaries.
const (
	logPath      = "encvid.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	in := flag.String("in", "", "path to a raw packed-YCbCr frame file (width*height*3 bytes per frame, concatenated)")
	out := flag.String("out", "out.mcv", "path to write the encoded container bitstream")
	width := flag.Int("width", 0, "frame width in pixels")
	height := flag.Int("height", 0, "frame height in pixels")
	quality := flag.Int("quality", 75, "JPEG quantisation quality factor, 1-100")
	subsampling := flag.String("subsampling", "420", "chroma subsampling mode: 444, 440, 422, 420, 411, or 410")
	gop := flag.String("gop", "ippp", "GOP structure string, e.g. ippp")
	framerate := flag.Int("framerate", 25, "declared frame rate, 1-255")
	blockMatching := flag.String("blockmatching", "FSA", "block-matching algorithm: FSA or DSA")
	searchDistance := flag.Int("searchdistance", 8, "maximum motion search distance, in pixels")
	macroblockSize := flag.Int("macroblocksize", 16, "macroblock size, a multiple of 8")
	metric := flag.String("metric", "SAD", "block distortion metric: SAD or MAD")
	customHuffman := flag.Bool("customhuffman", false, "train per-GOP Huffman tables instead of using the Annex K defaults")
	plot := flag.String("plot", "", "optional path to write a PNG chart of per-frame bits and PSNR")
	flag.Parse()

	if *in == "" || *width <= 0 || *height <= 0 {
		fmt.Fprintln(os.Stderr, "encvid: -in, -width and -height are required")
		os.Exit(2)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	cfg := config.Defaults(l)
	cfg.Update(map[string]string{
		config.KeyQuality:                            fmt.Sprint(*quality),
		config.KeySubsampling:                        *subsampling,
		config.KeyGOP:                                *gop,
		config.KeyFrameRate:                           fmt.Sprint(*framerate),
		config.KeyBlockMatching:                       *blockMatching,
		config.KeyBlockMatchingSearchDistance:         fmt.Sprint(*searchDistance),
		config.KeyMacroblockSize:                      fmt.Sprint(*macroblockSize),
		config.KeyBlockMatchingDifferenceCalculation:  *metric,
		config.KeyDoCustomHuffmanTables:               fmt.Sprint(*customHuffman),
	})
	if err := cfg.Validate(); err != nil {
		l.Fatal("invalid configuration", "error", err)
	}

	frames, err := readFrames(*in, *width, *height, cfg.Subsampling)
	if err != nil {
		l.Fatal("could not read input frames", "error", err)
	}
	l.Info("loaded frames", "count", len(frames), "width", *width, "height", *height)

	w, err := os.Create(*out)
	if err != nil {
		l.Fatal("could not create output file", "error", err)
	}
	defer w.Close()

	stats, err := video.Encode(cfg, frames, w)
	if err != nil {
		l.Fatal("encode failed", "error", err)
	}
	l.Info("encode complete", "frames", len(stats.Frames), "bits", stats.TotalBits(), "meanPSNR", stats.MeanPSNR())

	if *plot != "" {
		if err := stats.Plot(*plot); err != nil {
			l.Error("could not write stats plot", "error", err)
		}
	}
}

// readFrames reads a raw file of concatenated width*height*3 packed
// YCbCr frames and converts each to a chroma-subsampled Frame.
func readFrames(path string, width, height int, mode image.YCbCrSubsampleRatio) ([]*ycbcr.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frameSize := width * height * 3
	buf := make([]byte, frameSize)
	var frames []*ycbcr.Frame
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}
		frame, err := ycbcr.ToSubsampled(buf, width, height, mode)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}
