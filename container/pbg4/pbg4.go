// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package pbg4 implements the PBG4 packfile format: LZSS-13 payloads and
// an LZSS-13-compressed table of contents storing name, offset,
// uncompressed size, and a reserved "zeros" field.
package pbg4

import (
	"bytes"
	"encoding/binary"

	"github.com/jwilins/pbgtk/container"
	"github.com/jwilins/pbgtk/lzss"
)

const (
	magic     = "PBG4"
	dictBits  = 13
	headerLen = 4 + 4 + 4 + 4 // magic + numFiles + tocOffset + decompressedTOCSize
)

// Extract parses a PBG4 archive.
func Extract(data []byte, sink container.Sink) ([]container.Entry, error) {
	const op = "pbg4.Extract"
	if len(data) < headerLen {
		return nil, container.NewError(op, container.Truncated, "header truncated")
	}
	if string(data[:4]) != magic {
		return nil, container.NewError(op, container.BadMagic, "got %q", data[:4])
	}
	numFiles := binary.LittleEndian.Uint32(data[4:8])
	tocOffset := binary.LittleEndian.Uint32(data[8:12])
	decompressedTOCSize := binary.LittleEndian.Uint32(data[12:16])

	if int(tocOffset) > len(data) {
		return nil, container.NewError(op, container.Truncated, "toc offset past end of file")
	}
	toc := lzss.Decompress(data[tocOffset:], int(decompressedTOCSize), dictBits)

	type tocEntry struct {
		name             []byte
		offset           uint32
		uncompressedSize uint32
		zeros            uint32
	}
	entries := make([]tocEntry, numFiles)
	pos := 0
	for i := range entries {
		nameEnd := bytes.IndexByte(toc[pos:], 0)
		if nameEnd < 0 {
			return nil, container.NewError(op, container.CorruptCodec, "TOC entry %d: unterminated name", i)
		}
		name := toc[pos : pos+nameEnd]
		pos += nameEnd + 1
		if pos+12 > len(toc) {
			return nil, container.NewError(op, container.Truncated, "TOC entry %d truncated", i)
		}
		entries[i] = tocEntry{
			name:             name,
			offset:           binary.LittleEndian.Uint32(toc[pos : pos+4]),
			uncompressedSize: binary.LittleEndian.Uint32(toc[pos+4 : pos+8]),
			zeros:            binary.LittleEndian.Uint32(toc[pos+8 : pos+12]),
		}
		pos += 12
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
		payload := lzss.Decompress(data[te.offset:te.offset+compressedSize], int(te.uncompressedSize), dictBits)
		result[i] = container.Entry{
			Name:    append([]byte(nil), te.name...),
			Payload: payload,
			Zeros:   te.zeros,
		}
		if err := sink.Emit(te.name, payload); err != nil {
			return nil, container.NewError(op, container.Io, "sink: %v", err)
		}
	}
	return result, nil
}

// Pack serializes entries into a PBG4 archive, preserving input order.
func Pack(entries []container.Entry) ([]byte, error) {
	header := make([]byte, headerLen)
	copy(header, magic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(entries)))

	out := header
	type tocRecord struct {
		name             []byte
		offset           uint32
		uncompressedSize uint32
		zeros            uint32
	}
	records := make([]tocRecord, len(entries))
	for i, e := range entries {
		offset := uint32(len(out))
		compressed := lzss.Compress(e.Payload, dictBits)
		out = append(out, compressed...)
		records[i] = tocRecord{
			name:             e.Name,
			offset:           offset,
			uncompressedSize: uint32(len(e.Payload)),
			zeros:            e.Zeros,
		}
	}

	var toc []byte
	for _, r := range records {
		toc = append(toc, r.name...)
		toc = append(toc, 0)
		var field [12]byte
		binary.LittleEndian.PutUint32(field[0:4], r.offset)
		binary.LittleEndian.PutUint32(field[4:8], r.uncompressedSize)
		binary.LittleEndian.PutUint32(field[8:12], r.zeros)
		toc = append(toc, field[:]...)
	}

	tocOffset := uint32(len(out))
	compressedTOC := lzss.Compress(toc, dictBits)
	out = append(out, compressedTOC...)

	binary.LittleEndian.PutUint32(out[8:12], tocOffset)
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(toc)))
	return out, nil
}
