// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package container defines the shared vocabulary used by the five
// packfile format packages (pbg1a, pbg3, pbg4, pbg5, pbg6): the Entry and
// Sink types, the Format enum, and the error taxonomy from spec §7.
//
// The core treats names and payloads as opaque byte strings; host
// encoding conversion and directory traversal are collaborator concerns
// layered on top, in cmd/pbgtk.
package container

import "fmt"

// Format identifies one of the five packfile container variants.
type Format uint8

const (
	FormatPBG1A Format = iota + 1
	FormatPBG3
	FormatPBG4
	FormatPBG5
	FormatPBG6
)

func (f Format) String() string {
	switch f {
	case FormatPBG1A:
		return "PBG1A"
	case FormatPBG3:
		return "PBG3"
	case FormatPBG4:
		return "PBG4"
	case FormatPBG5:
		return "PBG5"
	case FormatPBG6:
		return "PBG6"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Entry is the in-memory representation of one file inside a container.
// Auxiliary fields are meaningful only for the formats that define them
// and are carried through unchanged on round-trip otherwise (spec §3, §9).
type Entry struct {
	Name    []byte
	Payload []byte

	Aux1, Aux2 uint32 // PBG3 only; semantics unknown to the source, carried verbatim
	Zeros      uint32 // PBG4 only; always 0 in observed archives, not assumed
	CRC32      uint32 // PBG5/PBG6: CRC32 of uncompressed Payload
}

// Sink receives entries as a container is extracted. Extract calls Emit
// once per entry in on-disk order and stops at the first error it returns.
type Sink interface {
	Emit(name, payload []byte) error
}

// SliceSink is a Sink that simply accumulates every entry it receives, in
// the order Emit was called.
type SliceSink struct {
	Entries []Entry
}

func (s *SliceSink) Emit(name, payload []byte) error {
	s.Entries = append(s.Entries, Entry{
		Name:    append([]byte(nil), name...),
		Payload: append([]byte(nil), payload...),
	})
	return nil
}

// DiscardSink implements Sink by dropping every entry; useful for callers
// that only want Extract's returned slice and warnings.
type DiscardSink struct{}

func (DiscardSink) Emit(name, payload []byte) error { return nil }
