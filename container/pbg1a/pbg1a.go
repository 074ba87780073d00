// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package pbg1a implements the PBG1A packfile format used by Seihou 1
// (Shuusou Gyoku). Entries carry no stored name; consumers assign names
// by index, with renaming left to the cmd/pbgtk collaborator (spec §6).
package pbg1a

import (
	"encoding/binary"
	"fmt"

	"github.com/jwilins/pbgtk/container"
	"github.com/jwilins/pbgtk/internal/checksum"
	"github.com/jwilins/pbgtk/lzss"
)

const (
	magic    = "PBG\x1A"
	dictBits = 13

	headerSize    = 4 + 4 + 4  // magic + checksum + numFiles
	fileInfoSize  = 4 + 4 + 4  // uncompressedSize + offset + compressedChecksum
)

// Extract parses a PBG1A archive, streaming each entry to sink as it is
// decompressed and also returning the full entry list.
func Extract(data []byte, sink container.Sink) ([]container.Entry, []*container.Warning, error) {
	const op = "pbg1a.Extract"
	if len(data) < headerSize {
		return nil, nil, container.NewError(op, container.Truncated, "header truncated: %d bytes", len(data))
	}
	if string(data[:4]) != magic {
		return nil, nil, container.NewError(op, container.BadMagic, "got %q", data[:4])
	}
	storedChecksum := binary.LittleEndian.Uint32(data[4:8])
	numFiles := binary.LittleEndian.Uint32(data[8:12])

	type fileInfo struct {
		uncompressedSize uint32
		offset           uint32
		compressedSum    uint32
	}

	infos := make([]fileInfo, numFiles)
	pos := headerSize
	for i := range infos {
		if pos+fileInfoSize > len(data) {
			return nil, nil, container.NewError(op, container.Truncated, "TOC entry %d truncated", i)
		}
		infos[i] = fileInfo{
			uncompressedSize: binary.LittleEndian.Uint32(data[pos : pos+4]),
			offset:           binary.LittleEndian.Uint32(data[pos+4 : pos+8]),
			compressedSum:    binary.LittleEndian.Uint32(data[pos+8 : pos+12]),
		}
		pos += fileInfoSize
	}

	var computedChecksum uint32
	var warnings []*container.Warning
	entries := make([]container.Entry, numFiles)
	for i, info := range infos {
		var compressedSize uint32
		if i+1 < len(infos) {
			compressedSize = infos[i+1].offset - info.offset
		} else {
			compressedSize = uint32(len(data)) - info.offset
		}
		if info.offset > uint32(len(data)) || info.offset+compressedSize > uint32(len(data)) {
			return nil, nil, container.NewError(op, container.Truncated, "entry %d payload out of bounds", i)
		}
		compressed := data[info.offset : info.offset+compressedSize]

		gotSum := checksum.ByteSum32(compressed)
		if gotSum != info.compressedSum {
			warnings = append(warnings, &container.Warning{
				Code: container.ChecksumMismatch,
				Name: []byte(fmt.Sprintf("%04d", i)),
				Msg:  "compressed checksum mismatch",
			})
		}
		computedChecksum += info.compressedSum + info.uncompressedSize + info.offset

		payload := lzss.Decompress(compressed, int(info.uncompressedSize), dictBits)
		entries[i] = container.Entry{Payload: payload}
		if err := sink.Emit(nil, payload); err != nil {
			return nil, warnings, container.NewError(op, container.Io, "sink: %v", err)
		}
	}

	// PBG1A's header checksum is written on pack but never verified on
	// extract by the source tool (spec §9); surface a soft warning only.
	if storedChecksum != computedChecksum {
		warnings = append(warnings, &container.Warning{
			Code: container.ChecksumMismatch,
			Name: []byte("(header)"),
			Msg:  "header checksum does not match computed total",
		})
	}

	return entries, warnings, nil
}

// Pack serializes entries (in the order given; names are ignored since
// PBG1A stores no names) into a PBG1A archive.
func Pack(entries []container.Entry) ([]byte, error) {
	out := make([]byte, headerSize+len(entries)*fileInfoSize)
	copy(out, magic)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(entries)))

	var checksumTotal uint32
	offset := uint32(len(out))
	for i, e := range entries {
		compressed := lzss.Compress(e.Payload, dictBits)
		compressedSum := checksum.ByteSum32(compressed)

		pos := headerSize + i*fileInfoSize
		binary.LittleEndian.PutUint32(out[pos:pos+4], uint32(len(e.Payload)))
		binary.LittleEndian.PutUint32(out[pos+4:pos+8], offset)
		binary.LittleEndian.PutUint32(out[pos+8:pos+12], compressedSum)

		checksumTotal += compressedSum + uint32(len(e.Payload)) + offset

		out = append(out, compressed...)
		offset += uint32(len(compressed))
	}

	binary.LittleEndian.PutUint32(out[4:8], checksumTotal)
	return out, nil
}
