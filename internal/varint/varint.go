// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package varint implements the PBG3 variable-width integer bitstream
// encoding: a 2-bit size prefix followed by size*8 bits of magnitude, all
// carried over the shared MSB-first bitio stream.
package varint

import "github.com/jwilins/pbgtk/bitio"

// Read decodes one variable-length integer from r.
func Read(r *bitio.Reader) uint32 {
	size := r.ReadBits(2) + 1
	return r.ReadBits(uint(size * 8))
}

// Write encodes v using the minimal size in {1,2,3,4} bytes that holds it.
func Write(w *bitio.Writer, v uint32) {
	size := uint32(1)
	switch {
	case v&0xFF000000 != 0:
		size = 4
	case v&0xFFFF0000 != 0:
		size = 3
	case v&0xFFFFFF00 != 0:
		size = 2
	}
	w.WriteBits(size-1, 2)
	w.WriteBits(v, uint(size*8))
}

// ReadString reads a zero-terminated byte string, one byte at a time via
// the bitstream (not byte-aligned access: PBG3 names are not guaranteed
// to start on a byte boundary).
func ReadString(r *bitio.Reader) []byte {
	var out []byte
	for {
		b := r.ReadBits(8)
		if b == 0 || b == bitio.BitsSentinel {
			break
		}
		out = append(out, byte(b))
	}
	return out
}

// WriteString writes name followed by a terminating zero byte.
func WriteString(w *bitio.Writer, name []byte) {
	for _, b := range name {
		w.WriteBits(uint32(b), 8)
	}
	w.WriteBits(0, 8)
}
