// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bitio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		writes []struct {
			val uint32
			n   uint
		}
		wantBuf []byte
	}{
		{
			name: "scenario from spec section 8",
			writes: []struct {
				val uint32
				n   uint
			}{
				{0b101, 3},
				{0xFF, 8},
				{0, 5},
			},
			wantBuf: []byte{0b10111111, 0b11100000},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWriter()
			for _, wr := range tc.writes {
				w.WriteBits(wr.val, wr.n)
			}
			if diff := cmp.Diff(tc.wantBuf, w.Bytes()); diff != "" {
				t.Fatalf("Bytes() mismatch (-want +got):\n%s", diff)
			}

			r := NewReader(w.Bytes())
			for _, wr := range tc.writes {
				got := r.ReadBits(wr.n)
				want := wr.val & (1<<wr.n - 1)
				if wr.n == 32 {
					want = wr.val
				}
				if got != want {
					t.Errorf("ReadBits(%d) = %#x, want %#x", wr.n, got, want)
				}
			}
		})
	}
}

func TestReadBitPastEndReturnsSentinel(t *testing.T) {
	r := NewReader([]byte{0xAB})
	for i := 0; i < 8; i++ {
		if b := r.ReadBit(); b != (0xAB>>(7-i))&1 {
			t.Fatalf("bit %d = %d, want %d", i, b, (0xAB>>(7-i))&1)
		}
	}
	if b := r.ReadBit(); b != BitSentinel {
		t.Fatalf("ReadBit() past end = %#x, want sentinel", b)
	}
}

func TestReadBitsPastEndZeroExtends(t *testing.T) {
	r := NewReader([]byte{0x80})
	got := r.ReadBits(16)
	want := uint32(0x8000)
	if got != want {
		t.Fatalf("ReadBits(16) = %#x, want %#x", got, want)
	}
}

func TestReadBitsEmptyBufferReturnsSentinel(t *testing.T) {
	r := NewReader(nil)
	if got := r.ReadBits(8); got != BitsSentinel {
		t.Fatalf("ReadBits(8) on empty buffer = %#x, want sentinel", got)
	}
}

func TestReadBitsOver25SplitsInto24PlusRemainder(t *testing.T) {
	w := NewWriter()
	w.WriteBits(0x01ABCDEF, 28)
	r := NewReader(w.Bytes())
	if got := r.ReadBits(28); got != 0x01ABCDEF {
		t.Fatalf("ReadBits(28) = %#x, want %#x", got, 0x01ABCDEF)
	}
}

func FuzzBitioRoundTrip(f *testing.F) {
	f.Add(uint32(0b101), uint(3))
	f.Add(uint32(0xFFFFFFFF), uint(32))
	f.Fuzz(func(t *testing.T, v uint32, n uint) {
		n = n%32 + 1
		v &= 1<<n - 1
		w := NewWriter()
		w.WriteBits(v, n)
		r := NewReader(w.Bytes())
		if got := r.ReadBits(n); got != v {
			t.Fatalf("round trip of (%#x, %d) = %#x", v, n, got)
		}
	})
}
