// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lzss implements the dictionary-LZSS codec used by the PBG1A,
// PBG3, PBG4, and PBG5 packfile formats.
//
// The dictionary width is parametric (13 or 15 bits, per format) rather
// than hardcoded, since the same match-finder and bitstream discipline is
// shared across all four formats; only the width and the trailing
// sentinel policy differ.
package lzss

import "github.com/jwilins/pbgtk/bitio"

const (
	SeqBits = 4
	SeqMin  = 3
	SeqMax  = SeqMin + 1<<SeqBits - 1 // 18
)

// Decompress produces exactly uncompressedSize bytes from src, using a
// dictionary of 1<<dictBits bytes. It never panics and never reads out of
// bounds on truncated input: a malformed stream simply yields a truncated
// (zero-padded) result, matching spec §4.2's failure-mode contract.
func Decompress(src []byte, uncompressedSize int, dictBits uint) []byte {
	dictSize := uint32(1) << dictBits
	mask := dictSize - 1

	r := bitio.NewReader(src)
	dict := make([]uint8, dictSize)
	out := make([]byte, 0, uncompressedSize)

	emit := func(b byte) {
		out = append(out, b)
		dict[uint32(len(out)-1)&mask] = b
	}

	for len(out) < uncompressedSize {
		bit := r.ReadBit()
		if bit == bitio.BitSentinel {
			break
		}
		if bit == 1 {
			emit(byte(r.ReadBits(8)))
			continue
		}

		offPlus1 := r.ReadBits(uint(dictBits))
		if offPlus1 == 0 || offPlus1 == bitio.BitsSentinel {
			break // sentinel: end of stream
		}
		off := offPlus1 - 1
		length := int(r.ReadBits(SeqBits)) + SeqMin
		for i := 0; i < length && len(out) < uncompressedSize; i++ {
			emit(dict[(off+uint32(i))&mask])
		}
	}

	if len(out) < uncompressedSize {
		out = append(out, make([]byte, uncompressedSize-len(out))...)
	}
	return out
}

// Compress performs a greedy longest-match search over a hash-chained
// sliding dictionary of 1<<dictBits bytes.
func Compress(src []byte, dictBits uint) []byte {
	dictSize := uint32(1) << dictBits
	mask := dictSize - 1

	w := newWindow(dictSize)
	out := bitio.NewWriter()

	var bytesRead, waiting uint32
	dictHead := uint32(1)

	for bytesRead < SeqMax && int(bytesRead) < len(src) {
		w.dict[dictHead+bytesRead] = src[bytesRead]
		bytesRead++
		waiting++
	}
	headKey := w.key(dictHead)

	for waiting > 0 {
		matchLen := uint32(SeqMin - 1)
		matchOffset := uint32(0)

		for off := w.hash[headKey]; off != 0 && waiting > matchLen; off = w.next[off] {
			if w.dict[(dictHead+matchLen)&mask] != w.dict[(off+matchLen)&mask] {
				continue
			}
			var i uint32
			for i = 0; i < matchLen && w.dict[(dictHead+i)&mask] == w.dict[(off+i)&mask]; i++ {
			}
			if i < matchLen {
				continue
			}
			for matchLen++; matchLen < waiting && w.dict[(dictHead+matchLen)&mask] == w.dict[(off+matchLen)&mask]; matchLen++ {
			}
			matchOffset = off
		}

		if matchLen < SeqMin {
			matchLen = 1
			out.WriteBit(1)
			out.WriteBits(uint32(w.dict[dictHead]), 8)
		} else {
			out.WriteBit(0)
			out.WriteBits(matchOffset, uint(dictBits))
			out.WriteBits(matchLen-SeqMin, SeqBits)
		}

		for i := uint32(0); i < matchLen; i++ {
			victim := (dictHead + SeqMax) & mask
			if victim != 0 {
				w.remove(w.key(victim), victim)
			}
			if dictHead != 0 {
				w.add(headKey, dictHead)
			}
			if bytesRead < uint32(len(src)) {
				w.dict[victim] = src[bytesRead]
				bytesRead++
			} else {
				waiting--
			}
			dictHead = (dictHead + 1) & mask
			headKey = w.key(dictHead)
		}
	}

	if dictBits == 13 {
		out.WriteBit(0)
		out.WriteBits(0, uint(dictBits))
	}

	return out.Bytes()
}
