// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package varint

import (
	"testing"

	"github.com/jwilins/pbgtk/bitio"
)

func TestWriteReadRoundTripAtEachSizeBoundary(t *testing.T) {
	values := []uint32{0, 1, 0xFF, 0x100, 0xFFFF, 0x10000, 0xFFFFFF, 0x1000000, 0xFFFFFFFF}
	for _, v := range values {
		w := bitio.NewWriter()
		Write(w, v)
		r := bitio.NewReader(w.Bytes())
		if got := Read(r); got != v {
			t.Errorf("round trip of %#x = %#x", v, got)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	names := [][]byte{
		[]byte(""),
		[]byte("a.bin"),
		[]byte("SCRIPT/ENEMY01.ECL"),
	}
	for _, name := range names {
		w := bitio.NewWriter()
		WriteString(w, name)
		r := bitio.NewReader(w.Bytes())
		got := ReadString(r)
		if string(got) != string(name) {
			t.Errorf("round trip of %q = %q", name, got)
		}
	}
}

func TestMultipleValuesPackTogether(t *testing.T) {
	w := bitio.NewWriter()
	Write(w, 3)
	Write(w, 0x1234)
	WriteString(w, []byte("hi"))
	Write(w, 0xFFFFFFFF)

	r := bitio.NewReader(w.Bytes())
	if got := Read(r); got != 3 {
		t.Fatalf("first = %#x", got)
	}
	if got := Read(r); got != 0x1234 {
		t.Fatalf("second = %#x", got)
	}
	if got := string(ReadString(r)); got != "hi" {
		t.Fatalf("string = %q", got)
	}
	if got := Read(r); got != 0xFFFFFFFF {
		t.Fatalf("fourth = %#x", got)
	}
}
