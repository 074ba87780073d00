// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package checksum implements the two checksum disciplines used across
// the packfile formats: a table-driven CRC32 (IEEE polynomial
// 0xEDB88320, used by PBG5/PBG6) and PBG1A's plain wrapping byte sum.
//
// The IEEE table is declared and walked explicitly here, the way the
// teacher library rolls its own CRC32 variant in bzip2/common.go, rather
// than delegating to the standard library's hash/crc32 package: this
// codec's construction is itself part of the specified surface (see
// DESIGN.md).
package checksum

const polyIEEE = 0xEDB88320

var tableIEEE [256]uint32

func init() {
	for i := range tableIEEE {
		c := uint32(i)
		for range [8]struct{}{} {
			if c&1 != 0 {
				c = polyIEEE ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		tableIEEE[i] = c
	}
}

// CRC32IEEE extends seed over data using the standard CRC-32 (IEEE
// polynomial) algorithm. Passing a seed of 0 matches how the packfile
// tools seed their own per-call checksum, without the usual ~0/~0
// pre/post inversion convention.
func CRC32IEEE(seed uint32, data []byte) uint32 {
	crc := seed
	for _, b := range data {
		crc = tableIEEE[byte(crc)^b] ^ (crc >> 8)
	}
	return crc
}

// ByteSum32 returns the little-endian byte-sum of data, wrapping modulo
// 2^32. This is PBG1A's per-entry compressedChecksum discipline: a plain
// sum of the compressed bytes, not a CRC.
func ByteSum32(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}
