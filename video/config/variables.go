/*
NAME
  variables.go

DESCRIPTION
  variables.go lists, for every Config field a caller may set by name,
  a Name, an Update function parsing a string into the field, and a
  Validate function range-checking it and substituting the documented
  default when it is out of range.

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

package config

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Config map keys.
const (
	KeyQuality                            = "Quality"
	KeySubsampling                        = "Subsampling"
	KeyGOP                                = "GOP"
	KeyFrameRate                          = "FrameRate"
	KeyBlockMatching                      = "BlockMatching"
	KeyBlockMatchingSearchDistance        = "BlockMatchingSearchDistance"
	KeyMacroblockSize                     = "MacroblockSize"
	KeyBlockMatchingDifferenceCalculation = "BlockMatchingDifferenceCalculation"
	KeyDoCustomHuffmanTables              = "DoCustomHuffmanTables"
	KeyDoEntropyCoding                    = "DoEntropyCoding"
	KeyDoBitstream                        = "DoBitstream"
	KeyDoReconstruction                   = "DoReconstruction"
	KeyDoRunLengthCoding                  = "DoRunLengthCoding"
	KeyDoReordering                       = "DoReordering"
	KeyDoDCDifferentials                  = "DoDCDifferentials"
)

// Default variable values.
const (
	defaultQuality        = 75
	defaultSubsampling    = image.YCbCrSubsampleRatio420
	defaultGOP            = "ippp"
	defaultFrameRate      = 25
	defaultBlockMatching  = "FSA"
	defaultSearchDistance = 8
	defaultMacroblockSize = 16
	defaultMetric         = "SAD"
)

// Variables describes every caller-settable Config field: its name, a
// function updating the field from a string, and an optional function
// validating (and defaulting) the field's current value.
var Variables = []struct {
	Name     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyQuality,
		Update: func(c *Config, v string) { c.Quality = parseInt(KeyQuality, v, c) },
		Validate: func(c *Config) {
			if c.Quality < 1 || c.Quality > 100 {
				c.LogInvalidField(KeyQuality, defaultQuality)
				c.Quality = defaultQuality
			}
		},
	},
	{
		Name: KeySubsampling,
		Update: func(c *Config, v string) {
			mode, err := parseSubsampling(v)
			if err != nil {
				c.Logger.Warning(err.Error(), "value", v)
				return
			}
			c.Subsampling = mode
		},
	},
	{
		Name: KeyGOP,
		Update: func(c *Config, v string) { c.GOP = strings.ToLower(v) },
		Validate: func(c *Config) {
			if !validGOPString(c.GOP) {
				c.LogInvalidField(KeyGOP, defaultGOP)
				c.GOP = defaultGOP
			}
		},
	},
	{
		Name:   KeyFrameRate,
		Update: func(c *Config, v string) { c.FrameRate = parseUint(KeyFrameRate, v, c) },
		Validate: func(c *Config) {
			if c.FrameRate < 1 || c.FrameRate > 255 {
				c.LogInvalidField(KeyFrameRate, uint(defaultFrameRate))
				c.FrameRate = defaultFrameRate
			}
		},
	},
	{
		Name:   KeyBlockMatching,
		Update: func(c *Config, v string) { c.BlockMatching = strings.ToUpper(v) },
		Validate: func(c *Config) {
			if c.BlockMatching != "FSA" && c.BlockMatching != "DSA" {
				c.LogInvalidField(KeyBlockMatching, defaultBlockMatching)
				c.BlockMatching = defaultBlockMatching
			}
		},
	},
	{
		Name:   KeyBlockMatchingSearchDistance,
		Update: func(c *Config, v string) { c.BlockMatchingSearchDistance = parseInt(KeyBlockMatchingSearchDistance, v, c) },
		Validate: func(c *Config) {
			if c.BlockMatchingSearchDistance <= 0 {
				c.LogInvalidField(KeyBlockMatchingSearchDistance, defaultSearchDistance)
				c.BlockMatchingSearchDistance = defaultSearchDistance
			}
		},
	},
	{
		Name:   KeyMacroblockSize,
		Update: func(c *Config, v string) { c.MacroblockSize = parseInt(KeyMacroblockSize, v, c) },
		Validate: func(c *Config) {
			if c.MacroblockSize < 8 || c.MacroblockSize%8 != 0 {
				c.LogInvalidField(KeyMacroblockSize, defaultMacroblockSize)
				c.MacroblockSize = defaultMacroblockSize
			}
		},
	},
	{
		Name:   KeyBlockMatchingDifferenceCalculation,
		Update: func(c *Config, v string) { c.BlockMatchingDifferenceCalculation = strings.ToUpper(v) },
		Validate: func(c *Config) {
			if c.BlockMatchingDifferenceCalculation != "SAD" && c.BlockMatchingDifferenceCalculation != "MAD" {
				c.LogInvalidField(KeyBlockMatchingDifferenceCalculation, defaultMetric)
				c.BlockMatchingDifferenceCalculation = defaultMetric
			}
		},
	},
	{
		Name:   KeyDoCustomHuffmanTables,
		Update: func(c *Config, v string) { c.DoCustomHuffmanTables = parseBool(KeyDoCustomHuffmanTables, v, c) },
	},
	{
		Name:   KeyDoEntropyCoding,
		Update: func(c *Config, v string) { c.DoEntropyCoding = parseBool(KeyDoEntropyCoding, v, c) },
	},
	{
		Name:   KeyDoBitstream,
		Update: func(c *Config, v string) { c.DoBitstream = parseBool(KeyDoBitstream, v, c) },
	},
	{
		Name:   KeyDoReconstruction,
		Update: func(c *Config, v string) { c.DoReconstruction = parseBool(KeyDoReconstruction, v, c) },
	},
	{
		Name:   KeyDoRunLengthCoding,
		Update: func(c *Config, v string) { c.DoRunLengthCoding = parseBool(KeyDoRunLengthCoding, v, c) },
	},
	{
		Name:   KeyDoReordering,
		Update: func(c *Config, v string) { c.DoReordering = parseBool(KeyDoReordering, v, c) },
	},
	{
		Name:   KeyDoDCDifferentials,
		Update: func(c *Config, v string) { c.DoDCDifferentials = parseBool(KeyDoDCDifferentials, v, c) },
	},
}

// validGOPString reports whether s is non-empty and contains only 'i'
// and 'p' characters, with its first character 'i' (the first frame of
// every GOP, and therefore of the whole string, must be I).
func validGOPString(s string) bool {
	if s == "" || s[0] != 'i' {
		return false
	}
	for _, r := range s {
		if r != 'i' && r != 'p' {
			return false
		}
	}
	return true
}

// parseSubsampling maps a chroma mode name to its image.YCbCrSubsampleRatio.
func parseSubsampling(v string) (image.YCbCrSubsampleRatio, error) {
	switch strings.ReplaceAll(strings.ToLower(v), ":", "") {
	case "444":
		return image.YCbCrSubsampleRatio444, nil
	case "440":
		return image.YCbCrSubsampleRatio440, nil
	case "422":
		return image.YCbCrSubsampleRatio422, nil
	case "420":
		return image.YCbCrSubsampleRatio420, nil
	case "411":
		return image.YCbCrSubsampleRatio411, nil
	case "410":
		return image.YCbCrSubsampleRatio410, nil
	default:
		return 0, fmt.Errorf("config: unknown chroma subsampling mode %q", v)
	}
}

func parseInt(n, v string, c *Config) int {
	_v, err := strconv.Atoi(v)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected integer for param %s", n), "value", v)
	}
	return _v
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expected bool for param %s", n), "value", v)
	}
	return
}
