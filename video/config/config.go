/*
NAME
  config.go

DESCRIPTION
  config.go defines the Config struct controlling a video encode: the
  §6.4 options governing quality, chroma subsampling, GOP structure,
  block matching, and the pipeline stage toggles, plus the Update/
  Validate machinery that applies a map of string values to it.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved. 

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the configuration for a motion-compensated
// video encode, mirroring the Config/Variables/Update pattern this
// module's encoders are built around.
package config

import (
	"image"

	"github.com/ausocean/utils/logging"
)

// Config provides the parameters a video Encoder runs under. A zero
// Config is not ready to use; call Defaults to obtain one with every
// field set to its documented default.
type Config struct {
	// Quality is the JPEG quantisation quality factor, 1..100.
	Quality int

	// Subsampling is the chroma sampling mode applied to every frame.
	Subsampling image.YCbCrSubsampleRatio

	// GOP is the group-of-pictures structure string, e.g. "ippp".
	GOP string

	// FrameRate is the declared frame rate, 1..255, written to the
	// container header.
	FrameRate uint

	// BlockMatching selects the motion search algorithm: "FSA" or "DSA".
	BlockMatching string

	// BlockMatchingSearchDistance is the maximum |dx|,|dy|, S.
	BlockMatchingSearchDistance int

	// MacroblockSize is the block size B, a multiple of 8.
	MacroblockSize int

	// BlockMatchingDifferenceCalculation selects the block distortion
	// metric: "SAD" or "MAD".
	BlockMatchingDifferenceCalculation string

	// DoCustomHuffmanTables replaces the Annex K default Huffman tables
	// with tables trained once per GOP on the pooled DC/AC symbols of
	// every frame (I and P) in that GOP. Tables are not trained per
	// frame: the container carries one DHT per GOP.
	DoCustomHuffmanTables bool

	// The following toggles short-circuit the pipeline: when false,
	// every stage downstream of it is skipped and the returned
	// bitstream is empty.
	DoEntropyCoding   bool
	DoBitstream       bool
	DoReconstruction  bool
	DoRunLengthCoding bool
	DoReordering      bool
	DoDCDifferentials bool

	// Logger receives diagnostic and default-substitution messages.
	Logger logging.Logger
}

// Defaults returns a Config with every field set to its documented
// default and every pipeline stage enabled. Callers typically follow
// this with Update to apply any caller-supplied overrides, then
// Validate to range-check them.
func Defaults(logger logging.Logger) *Config {
	return &Config{
		Quality:                            defaultQuality,
		Subsampling:                        defaultSubsampling,
		GOP:                                defaultGOP,
		FrameRate:                          defaultFrameRate,
		BlockMatching:                      defaultBlockMatching,
		BlockMatchingSearchDistance:        defaultSearchDistance,
		MacroblockSize:                     defaultMacroblockSize,
		BlockMatchingDifferenceCalculation: defaultMetric,
		DoEntropyCoding:                    true,
		DoBitstream:                        true,
		DoReconstruction:                   true,
		DoRunLengthCoding:                  true,
		DoReordering:                       true,
		DoDCDifferentials:                  true,
		Logger:                             logger,
	}
}

// Validate runs every Variable's Validate function over c, substituting
// documented defaults (and logging via c.Logger) for any field left
// invalid.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update applies a map of configuration variable names to string values,
// parsing and setting the corresponding Config field for every name it
// recognises.
func (c *Config) Update(vars map[string]string) {
	for _, v := range Variables {
		if s, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(c, s)
		}
	}
}

// LogInvalidField logs that a field was bad or unset and a default is
// being substituted.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
