// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package pbg6 implements the PBG6 packfile format: range-coder-based
// payloads and TOC, a CRC32 per entry, and the format's leading-"/"
// filename convention.
package pbg6

import (
	"bytes"
	"encoding/binary"

	"github.com/jwilins/pbgtk/container"
	"github.com/jwilins/pbgtk/internal/checksum"
	"github.com/jwilins/pbgtk/rangecoder"
)

const (
	magic     = "PBG6"
	headerLen = 4 + 4 + 4 + 4 // magic + tocOffset + decompressedTOCSize + decompressedTOCChecksum
)

type tocEntry struct {
	name             []byte
	compressedSize   uint32
	decompressedSize uint32
	offset           uint32
	crc              uint32
}

// Extract parses a PBG6 archive. Both the TOC checksum and each entry's
// CRC32 are read but, per spec §4.4 and §7, their mismatch is reported
// only as a warning: the source tool never refuses to extract a
// checksum-mismatched archive.
func Extract(data []byte, sink container.Sink) ([]container.Entry, []*container.Warning, error) {
	const op = "pbg6.Extract"
	if len(data) < headerLen {
		return nil, nil, container.NewError(op, container.Truncated, "header truncated")
	}
	if string(data[:4]) != magic {
		return nil, nil, container.NewError(op, container.BadMagic, "got %q", data[:4])
	}
	tocOffset := binary.LittleEndian.Uint32(data[4:8])
	decompressedTOCSize := binary.LittleEndian.Uint32(data[8:12])
	decompressedTOCChecksum := binary.LittleEndian.Uint32(data[12:16])

	if int(tocOffset) > len(data) {
		return nil, nil, container.NewError(op, container.Truncated, "toc offset past end of file")
	}
	toc, err := rangecoder.Decode(data[tocOffset:], int(decompressedTOCSize))
	if err != nil {
		return nil, nil, container.NewError(op, container.CorruptCodec, "toc: %v", err)
	}

	var warnings []*container.Warning
	if got := checksum.CRC32IEEE(0, toc); got != decompressedTOCChecksum {
		warnings = append(warnings, &container.Warning{
			Code: container.ChecksumMismatch,
			Msg:  "TOC CRC32 mismatch",
		})
	}

	if len(toc) < 4 {
		return nil, warnings, container.NewError(op, container.Truncated, "toc header truncated")
	}
	numFiles := binary.LittleEndian.Uint32(toc[0:4])

	entries := make([]tocEntry, numFiles)
	pos := 4
	for i := range entries {
		nameEnd := bytes.IndexByte(toc[pos:], 0)
		if nameEnd < 0 {
			return nil, warnings, container.NewError(op, container.CorruptCodec, "TOC entry %d: unterminated name", i)
		}
		name := toc[pos : pos+nameEnd]
		name = bytes.TrimPrefix(name, []byte("/"))
		pos += nameEnd + 1
		if pos+16 > len(toc) {
			return nil, warnings, container.NewError(op, container.Truncated, "TOC entry %d truncated", i)
		}
		entries[i] = tocEntry{
			name:             name,
			compressedSize:   binary.LittleEndian.Uint32(toc[pos : pos+4]),
			decompressedSize: binary.LittleEndian.Uint32(toc[pos+4 : pos+8]),
			offset:           binary.LittleEndian.Uint32(toc[pos+8 : pos+12]),
			crc:              binary.LittleEndian.Uint32(toc[pos+12 : pos+16]),
		}
		pos += 16
	}

	result := make([]container.Entry, numFiles)
	for i, te := range entries {
		if te.offset > uint32(len(data)) || te.offset+te.compressedSize > uint32(len(data)) {
			return nil, warnings, container.NewError(op, container.Truncated, "entry %d payload out of bounds", i)
		}
		payload, err := rangecoder.Decode(data[te.offset:te.offset+te.compressedSize], int(te.decompressedSize))
		if err != nil {
			return nil, warnings, container.NewError(op, container.CorruptCodec, "entry %d: %v", i, err)
		}

		if got := checksum.CRC32IEEE(0, payload); got != te.crc {
			warnings = append(warnings, &container.Warning{
				Code: container.ChecksumMismatch,
				Name: append([]byte(nil), te.name...),
				Msg:  "CRC32 mismatch",
			})
		}

		result[i] = container.Entry{
			Name:    append([]byte(nil), te.name...),
			Payload: payload,
			CRC32:   te.crc,
		}
		if err := sink.Emit(te.name, payload); err != nil {
			return nil, warnings, container.NewError(op, container.Io, "sink: %v", err)
		}
	}
	return result, warnings, nil
}

// Pack serializes entries into a PBG6 archive, recomputing each entry's
// CRC32 and re-prepending the format's leading "/" to every name.
func Pack(entries []container.Entry) ([]byte, error) {
	header := make([]byte, headerLen)
	copy(header, magic)

	out := header
	records := make([]tocEntry, len(entries))
	for i, e := range entries {
		offset := uint32(len(out))
		compressed := rangecoder.Encode(e.Payload)
		out = append(out, compressed...)
		records[i] = tocEntry{
			name:             append([]byte("/"), e.Name...),
			compressedSize:   uint32(len(compressed)),
			decompressedSize: uint32(len(e.Payload)),
			offset:           offset,
			crc:              checksum.CRC32IEEE(0, e.Payload),
		}
	}

	toc := make([]byte, 4)
	binary.LittleEndian.PutUint32(toc[0:4], uint32(len(entries)))
	for _, r := range records {
		toc = append(toc, r.name...)
		toc = append(toc, 0)
		var field [16]byte
		binary.LittleEndian.PutUint32(field[0:4], r.compressedSize)
		binary.LittleEndian.PutUint32(field[4:8], r.decompressedSize)
		binary.LittleEndian.PutUint32(field[8:12], r.offset)
		binary.LittleEndian.PutUint32(field[12:16], r.crc)
		toc = append(toc, field[:]...)
	}

	tocOffset := uint32(len(out))
	compressedTOC := rangecoder.Encode(toc)
	out = append(out, compressedTOC...)

	binary.LittleEndian.PutUint32(out[4:8], tocOffset)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(toc)))
	binary.LittleEndian.PutUint32(out[12:16], checksum.CRC32IEEE(0, toc))
	return out, nil
}
