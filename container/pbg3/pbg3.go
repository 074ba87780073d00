// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package pbg3 implements the PBG3 packfile format: a varint bitstream
// header and TOC, LZSS-13 payloads, and entry names that may contain
// "/" directory separators.
package pbg3

import (
	"github.com/jwilins/pbgtk/bitio"
	"github.com/jwilins/pbgtk/container"
	"github.com/jwilins/pbgtk/internal/checksum"
	"github.com/jwilins/pbgtk/internal/varint"
	"github.com/jwilins/pbgtk/lzss"
)

const (
	magic    = "PBG3"
	dictBits = 13

	// maxHeaderBytes mirrors the source's fixed 9-byte read window for
	// the two header varints (numFiles, tocOffset): each varint is a
	// 2-bit size prefix plus at most 32 magnitude bits, so both together
	// take at most 68 bits and 9 bytes always holds them.
	maxHeaderBytes = 9
)

type tocEntry struct {
	name               []byte
	aux1, aux2         uint32
	compressedChecksum uint32
	offset             uint32
	uncompressedSize   uint32
}

// Extract parses a PBG3 archive. aux1/aux2 are opaque to this package
// (spec §9: their semantics are unknown to the source) and are carried
// through on the returned Entry unchanged.
func Extract(data []byte, sink container.Sink) ([]container.Entry, error) {
	const op = "pbg3.Extract"
	if len(data) < 4+maxHeaderBytes {
		return nil, container.NewError(op, container.Truncated, "header truncated")
	}
	if string(data[:4]) != magic {
		return nil, container.NewError(op, container.BadMagic, "got %q", data[:4])
	}

	hr := bitio.NewReader(data[4 : 4+maxHeaderBytes])
	numFiles := varint.Read(hr)
	tocOffset := varint.Read(hr)

	if int(tocOffset) > len(data) {
		return nil, container.NewError(op, container.Truncated, "toc offset past end of file")
	}
	tr := bitio.NewReader(data[tocOffset:])

	entries := make([]tocEntry, numFiles)
	for i := range entries {
		entries[i] = tocEntry{
			aux1:               varint.Read(tr),
			aux2:               varint.Read(tr),
			compressedChecksum: varint.Read(tr),
			offset:             varint.Read(tr),
			uncompressedSize:   varint.Read(tr),
			name:               varint.ReadString(tr),
		}
	}

	result := make([]container.Entry, numFiles)
	for i, te := range entries {
		var compressedSize uint32
		if i+1 < len(entries) {
			compressedSize = entries[i+1].offset - te.offset
		} else {
			compressedSize = tocOffset - te.offset
		}
		if te.offset > uint32(len(data)) || te.offset+compressedSize > uint32(len(data)) {
			return nil, container.NewError(op, container.Truncated, "entry %d payload out of bounds", i)
		}
		compressed := data[te.offset : te.offset+compressedSize]
		payload := lzss.Decompress(compressed, int(te.uncompressedSize), dictBits)

		result[i] = container.Entry{
			Name:    append([]byte(nil), te.name...),
			Payload: payload,
			Aux1:    te.aux1,
			Aux2:    te.aux2,
		}
		if err := sink.Emit(te.name, payload); err != nil {
			return nil, container.NewError(op, container.Io, "sink: %v", err)
		}
	}
	return result, nil
}

// Pack serializes entries into a PBG3 archive. It mirrors the source's
// own packer, which writes a 13-byte zero placeholder for the header,
// appends payload and TOC data while tracking offsets, then seeks back
// and overwrites the placeholder with the final header bitstream.
func Pack(entries []container.Entry) ([]byte, error) {
	out := make([]byte, 4+13)
	copy(out, magic)

	records := make([]tocEntry, len(entries))
	for i, e := range entries {
		offset := uint32(len(out))
		compressed := lzss.Compress(e.Payload, dictBits)
		out = append(out, compressed...)
		records[i] = tocEntry{
			name:               e.Name,
			aux1:               e.Aux1,
			aux2:               e.Aux2,
			compressedChecksum: checksum.ByteSum32(compressed),
			offset:             offset,
			uncompressedSize:   uint32(len(e.Payload)),
		}
	}

	tocOffset := uint32(len(out))
	tw := bitio.NewWriter()
	for _, r := range records {
		varint.Write(tw, r.aux1)
		varint.Write(tw, r.aux2)
		varint.Write(tw, r.compressedChecksum)
		varint.Write(tw, r.offset)
		varint.Write(tw, r.uncompressedSize)
		varint.WriteString(tw, r.name)
	}
	out = append(out, tw.Bytes()...)

	hw := bitio.NewWriter()
	varint.Write(hw, uint32(len(entries)))
	varint.Write(hw, tocOffset)
	headerBitstream := hw.Bytes()
	if len(headerBitstream) > 13 {
		return nil, container.NewError("pbg3.Pack", container.BadArgument, "header bitstream overflowed 13-byte placeholder (%d bytes)", len(headerBitstream))
	}
	copy(out[4:4+len(headerBitstream)], headerBitstream)

	return out, nil
}
