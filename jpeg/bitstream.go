/*
NAME
  bitstream.go

DESCRIPTION
  bitstream.go emits the T.81 baseline marker segments (SOI, DQT, DHT,
  SOF0, SOS+ECS, EOI) this package and the video container both build
  their bitstreams from.

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
	"fmt"
	"image"
	"io"

	"github.com/ausocean/mcvenc/bitio"
	"github.com/ausocean/mcvenc/entropy"
	"github.com/ausocean/mcvenc/huffman"
	"github.com/ausocean/mcvenc/transform"
	"github.com/ausocean/mcvenc/ycbcr"
	"github.com/pkg/errors"
)

// WriteMarker writes a two-byte marker, 0xFF followed by code.
func WriteMarker(w io.Writer, code byte) error {
	_, err := w.Write([]byte{0xff, code})
	return err
}

// WriteSOI writes the start-of-image marker.
func WriteSOI(w io.Writer) error { return WriteMarker(w, markerSOI) }

// WriteEOI writes the end-of-image marker.
func WriteEOI(w io.Writer) error { return WriteMarker(w, markerEOI) }

// WriteDQT writes a DQT segment defining the luminance (Tq=0) and
// chrominance (Tq=1) quantisation tables, each as 64 zig-zag-ordered
// bytes.
func WriteDQT(w io.Writer, qLuma, qChroma transform.Table) error {
	if err := WriteMarker(w, markerDQT); err != nil {
		return err
	}
	lumaZZ := qLuma.Bytes()
	chromaZZ := qChroma.Bytes()
	length := uint16(2 + 2*(1+64))
	buf := bitio.PutShort(nil, length)
	buf = append(buf, qTableLuma)
	buf = append(buf, lumaZZ[:]...)
	buf = append(buf, qTableChroma)
	buf = append(buf, chromaZZ[:]...)
	_, err := w.Write(buf)
	return err
}

// WriteDHT writes a DHT segment defining all four baseline Huffman
// tables: DC-Y, AC-Y, DC-C, AC-C.
func WriteDHT(w io.Writer, dcLuma, acLuma, dcChroma, acChroma huffman.Table) error {
	if err := WriteMarker(w, markerDHT); err != nil {
		return err
	}
	var buf []byte
	buf = appendHuffTable(buf, huffClassDC, qTableLuma, dcLuma)
	buf = appendHuffTable(buf, huffClassAC, qTableLuma, acLuma)
	buf = appendHuffTable(buf, huffClassDC, qTableChroma, dcChroma)
	buf = appendHuffTable(buf, huffClassAC, qTableChroma, acChroma)

	out := bitio.PutShort(nil, uint16(2+len(buf)))
	out = append(out, buf...)
	_, err := w.Write(out)
	return err
}

func appendHuffTable(buf []byte, class, id int, t huffman.Table) []byte {
	buf = append(buf, byte(class<<4|id))
	for _, b := range t.Bits {
		buf = append(buf, byte(b))
	}
	buf = append(buf, t.Vals...)
	return buf
}

// WriteSOF0 writes a baseline start-of-frame header for a 3-component
// (Y,Cb,Cr) image of the given dimensions and chroma mode.
func WriteSOF0(w io.Writer, width, height int, mode image.YCbCrSubsampleRatio) error {
	if err := WriteMarker(w, markerSOF0); err != nil {
		return err
	}
	hdiv, vdiv, err := ycbcr.Divisors(mode)
	if err != nil {
		return errors.Wrap(err, "jpeg: WriteSOF0")
	}
	const precision = 8
	const numComponents = 3
	length := uint16(8 + 3*numComponents)

	buf := bitio.PutShort(nil, length)
	buf = append(buf, precision)
	buf = bitio.PutShort(buf, uint16(height))
	buf = bitio.PutShort(buf, uint16(width))
	buf = append(buf, numComponents)
	buf = append(buf, ChannelY, byte(hdiv<<4|vdiv), qTableLuma)
	buf = append(buf, ChannelCb, byte(1<<4|1), qTableChroma)
	buf = append(buf, ChannelCr, byte(1<<4|1), qTableChroma)
	_, err = w.Write(buf)
	return err
}

// WriteScan writes one non-interleaved SOS segment and its
// entropy-coded segment for a single channel: DC differentials and
// run-length-coded AC symbols for every block in raster order,
// byte-stuffed and padded to a byte boundary with 1-bits.
func WriteScan(w io.Writer, channel byte, tableID int, dcDiffs []int, ac [][]transform.ACSymbol, dcTable, acTable huffman.Table) error {
	if len(dcDiffs) != len(ac) {
		return fmt.Errorf("%w: %d DC values but %d AC blocks", ErrGeometry, len(dcDiffs), len(ac))
	}

	dcCodes, err := huffman.BuildCodes(dcTable)
	if err != nil {
		return errors.Wrap(err, "jpeg: DC table")
	}
	acCodes, err := huffman.BuildCodes(acTable)
	if err != nil {
		return errors.Wrap(err, "jpeg: AC table")
	}

	if err := WriteMarker(w, markerSOS); err != nil {
		return err
	}
	const ns = 1
	length := uint16(6 + 2*ns)
	buf := bitio.PutShort(nil, length)
	buf = append(buf, ns, channel, byte(tableID<<4|tableID))
	buf = append(buf, 0, 63, 0) // Ss, Se, Ah:Al.
	if _, err := w.Write(buf); err != nil {
		return err
	}

	bw := bitio.NewWriter()
	for i, diff := range dcDiffs {
		if err := entropy.EncodeDC(bw, diff, dcCodes); err != nil {
			return err
		}
		if err := entropy.EncodeAC(bw, ac[i], acCodes); err != nil {
			return err
		}
	}
	bw.PadToByte()
	_, err = w.Write(bitio.StuffBytes(bw.Bytes()))
	return err
}
