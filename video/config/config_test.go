/*
NAME
  config_test.go

DESCRIPTION
  config_test.go tests Config's Validate defaulting behaviour and
  Update's string-to-field parsing, in the style of
  revid/config/config_test.go.

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
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestDefaults(t *testing.T) {
	dl := &dumbLogger{}
	want := &Config{
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
		Logger:                             dl,
	}
	got := Defaults(dl)
	if !cmp.Equal(got, want) {
		t.Errorf("Defaults() = %+v, want %+v", got, want)
	}
}

func TestValidateSubstitutesDefaults(t *testing.T) {
	dl := &dumbLogger{}
	c := Defaults(dl)
	c.Quality = 0
	c.GOP = "pppp" // Invalid: must start with 'i'.
	c.BlockMatching = "XSA"
	c.MacroblockSize = 7
	c.BlockMatchingSearchDistance = -1
	c.BlockMatchingDifferenceCalculation = "RMS"
	c.FrameRate = 0

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}

	if c.Quality != defaultQuality {
		t.Errorf("Quality = %d, want default %d", c.Quality, defaultQuality)
	}
	if c.GOP != defaultGOP {
		t.Errorf("GOP = %q, want default %q", c.GOP, defaultGOP)
	}
	if c.BlockMatching != defaultBlockMatching {
		t.Errorf("BlockMatching = %q, want default %q", c.BlockMatching, defaultBlockMatching)
	}
	if c.MacroblockSize != defaultMacroblockSize {
		t.Errorf("MacroblockSize = %d, want default %d", c.MacroblockSize, defaultMacroblockSize)
	}
	if c.BlockMatchingSearchDistance != defaultSearchDistance {
		t.Errorf("BlockMatchingSearchDistance = %d, want default %d", c.BlockMatchingSearchDistance, defaultSearchDistance)
	}
	if c.BlockMatchingDifferenceCalculation != defaultMetric {
		t.Errorf("BlockMatchingDifferenceCalculation = %q, want default %q", c.BlockMatchingDifferenceCalculation, defaultMetric)
	}
	if c.FrameRate != defaultFrameRate {
		t.Errorf("FrameRate = %d, want default %d", c.FrameRate, defaultFrameRate)
	}
}

func TestValidateAcceptsValidFields(t *testing.T) {
	dl := &dumbLogger{}
	c := Defaults(dl)
	c.Quality = 90
	c.GOP = "ipppipp"
	c.BlockMatching = "DSA"
	c.MacroblockSize = 32
	c.BlockMatchingSearchDistance = 16
	c.BlockMatchingDifferenceCalculation = "MAD"
	c.FrameRate = 60

	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if c.Quality != 90 || c.GOP != "ipppipp" || c.BlockMatching != "DSA" ||
		c.MacroblockSize != 32 || c.BlockMatchingSearchDistance != 16 ||
		c.BlockMatchingDifferenceCalculation != "MAD" || c.FrameRate != 60 {
		t.Errorf("Validate() altered valid fields: %+v", c)
	}
}

func TestUpdate(t *testing.T) {
	dl := &dumbLogger{}
	c := Defaults(dl)
	c.Update(map[string]string{
		KeyQuality:                            "42",
		KeySubsampling:                        "4:2:2",
		KeyGOP:                                "IPPP",
		KeyFrameRate:                          "30",
		KeyBlockMatching:                      "dsa",
		KeyBlockMatchingSearchDistance:        "12",
		KeyMacroblockSize:                     "8",
		KeyBlockMatchingDifferenceCalculation: "mad",
		KeyDoCustomHuffmanTables:              "true",
		KeyDoReconstruction:                   "false",
	})

	if c.Quality != 42 {
		t.Errorf("Quality = %d, want 42", c.Quality)
	}
	if c.Subsampling != image.YCbCrSubsampleRatio422 {
		t.Errorf("Subsampling = %v, want 4:2:2", c.Subsampling)
	}
	if c.GOP != "ippp" {
		t.Errorf("GOP = %q, want lower-cased %q", c.GOP, "ippp")
	}
	if c.FrameRate != 30 {
		t.Errorf("FrameRate = %d, want 30", c.FrameRate)
	}
	if c.BlockMatching != "DSA" {
		t.Errorf("BlockMatching = %q, want upper-cased %q", c.BlockMatching, "DSA")
	}
	if c.BlockMatchingSearchDistance != 12 {
		t.Errorf("BlockMatchingSearchDistance = %d, want 12", c.BlockMatchingSearchDistance)
	}
	if c.MacroblockSize != 8 {
		t.Errorf("MacroblockSize = %d, want 8", c.MacroblockSize)
	}
	if c.BlockMatchingDifferenceCalculation != "MAD" {
		t.Errorf("BlockMatchingDifferenceCalculation = %q, want upper-cased %q", c.BlockMatchingDifferenceCalculation, "MAD")
	}
	if !c.DoCustomHuffmanTables {
		t.Error("DoCustomHuffmanTables = false, want true")
	}
	if c.DoReconstruction {
		t.Error("DoReconstruction = true, want false")
	}
}
