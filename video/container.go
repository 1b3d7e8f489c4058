/*
NAME
  container.go

DESCRIPTION
  container.go emits the non-standard §6.2 video container bitstream:
  a start-of-video header, one DQT global to the whole video, then per
  GOP a SOF0/MV-table/DHT header followed by each frame's entropy-coded
  scans and (for P frames) its motion-vector segment, closing with an
  end-of-video marker. It reuses the JPEG still bitstream's marker and
  scan writers (§6.1) for everything this format does not add itself.

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
	"io"

	"github.com/ausocean/mcvenc/bitio"
	"github.com/ausocean/mcvenc/entropy"
	"github.com/ausocean/mcvenc/huffman"
	"github.com/ausocean/mcvenc/jpeg"
	"github.com/ausocean/mcvenc/motion"
)

// Markers reusing the JPEG reserved FFB0-FFBF application-specific
// range (T.81 permits these for private extensions).
const (
	markerStartOfVideo = 0xb0
	markerStartOfGOP   = 0xb1
	markerIFrame       = 0xb2
	markerPFrame       = 0xb3
	markerMVSegment    = 0xb4
	markerEndOfVideo   = 0xbf
)

// WriteStartOfVideo writes the FFB0 header: the number of P frames per
// GOP (the count of 'p' characters in the GOP string) and the declared
// frame rate.
func WriteStartOfVideo(w io.Writer, gopPCount uint16, fps byte) error {
	if err := jpeg.WriteMarker(w, markerStartOfVideo); err != nil {
		return err
	}
	buf := bitio.PutShort(nil, gopPCount)
	buf = append(buf, fps)
	_, err := w.Write(buf)
	return err
}

// WriteEndOfVideo writes the FFBF trailer.
func WriteEndOfVideo(w io.Writer) error { return jpeg.WriteMarker(w, markerEndOfVideo) }

// WriteStartOfGOP writes the FFB1 marker opening a GOP's frame payloads.
func WriteStartOfGOP(w io.Writer) error { return jpeg.WriteMarker(w, markerStartOfGOP) }

// WriteFrameMarker writes FFB2 for an I frame or FFB3 for a P frame.
func WriteFrameMarker(w io.Writer, t FrameType) error {
	if t == FrameP {
		return jpeg.WriteMarker(w, markerPFrame)
	}
	return jpeg.WriteMarker(w, markerIFrame)
}

// WriteMVTable writes the mv_table_len(2) | BITS(16) | HUFFVAL header
// preceding a GOP's DHT segment.
func WriteMVTable(w io.Writer, t huffman.Table) error {
	body := make([]byte, 0, 16+len(t.Vals))
	for _, b := range t.Bits {
		body = append(body, byte(b))
	}
	body = append(body, t.Vals...)
	out := bitio.PutShort(nil, uint16(len(body)))
	out = append(out, body...)
	_, err := w.Write(out)
	return err
}

// WriteMVSegment writes the FFB4 marker, a one-byte length, and field's
// motion vectors DC-category-and-magnitude coded with mvTable, blocks
// visited in column-major order (bx outer, by inner), dx then dy per
// block.
//
// mv_len is a single byte, so a GOP whose per-frame motion-vector
// payload exceeds 255 bytes cannot be represented; this mirrors an
// ambiguity already present in the format this container reproduces,
// and is preserved here rather than silently widened.
func WriteMVSegment(w io.Writer, field *motion.Field, mvCodes map[byte]huffman.Code) error {
	bw := bitio.NewWriter()
	for bx := 0; bx < field.BlocksW; bx++ {
		for by := 0; by < field.BlocksH; by++ {
			mv := field.At(bx, by)
			if err := entropy.EncodeDC(bw, mv.DX, mvCodes); err != nil {
				return err
			}
			if err := entropy.EncodeDC(bw, mv.DY, mvCodes); err != nil {
				return err
			}
		}
	}
	bw.PadToByte()
	payload := bw.Bytes()
	if len(payload) > 0xff {
		return fmt.Errorf("%w: motion-vector segment is %d bytes, exceeds the 255-byte mv_len field", ErrGeometry, len(payload))
	}

	if err := jpeg.WriteMarker(w, markerMVSegment); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(len(payload))}); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// WriteScans writes the Y, Cb, Cr entropy-coded scans of one coded
// frame using the GOP's shared Huffman tables, reusing the still
// encoder's per-channel SOS+ECS writer.
func WriteScans(w io.Writer, cf *jpeg.CodedFrame, dcLuma, acLuma, dcChroma, acChroma huffman.Table) error {
	const tableLuma, tableChroma = 0, 1
	channels := []struct {
		id      byte
		tableID int
		dc, ac  huffman.Table
	}{
		{jpeg.ChannelY, tableLuma, dcLuma, acLuma},
		{jpeg.ChannelCb, tableChroma, dcChroma, acChroma},
		{jpeg.ChannelCr, tableChroma, dcChroma, acChroma},
	}
	for i, ch := range channels {
		cc := cf.Channels[i]
		if err := jpeg.WriteScan(w, ch.id, ch.tableID, cc.DCDiff, cc.AC, ch.dc, ch.ac); err != nil {
			return err
		}
	}
	return nil
}

// mvTrainSymbols flattens the category of every dx and dy component of
// every field in fields into the byte alphabet huffman.Train expects,
// implementing §4.8 step 4 ("all motion-vector components, ... all
// frames of the GOP, as source symbols").
func mvTrainSymbols(fields []*motion.Field) []byte {
	var out []byte
	for _, f := range fields {
		for _, mv := range f.MVs {
			out = append(out, byte(bitio.Category(mv.DX)), byte(bitio.Category(mv.DY)))
		}
	}
	return out
}
