/*
NAME
  markers.go

DESCRIPTION
  markers.go defines the T.81 marker codes this package emits, and the
  channel/table identifiers used to select sampling factors and
  Huffman/quantisation tables for a scan.

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

// Marker codes, T.81 baseline subset.
const (
	markerSOI  = 0xd8
	markerEOI  = 0xd9
	markerDQT  = 0xdb
	markerDHT  = 0xc4
	markerSOF0 = 0xc0
	markerSOS  = 0xda
)

// Component (channel) identifiers, as written in SOF0/SOS.
const (
	ChannelY  = 1
	ChannelCb = 2
	ChannelCr = 3
)

// Quantisation table selectors (Tqi).
const (
	qTableLuma   = 0
	qTableChroma = 1
)

// Huffman table class nibble (Tc) values.
const (
	huffClassDC = 0
	huffClassAC = 1
)
