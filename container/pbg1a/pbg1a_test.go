// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package pbg1a

import (
	"bytes"
	"testing"

	"github.com/jwilins/pbgtk/container"
)

func TestPackExtractRoundTrip(t *testing.T) {
	entries := []container.Entry{
		{Payload: []byte("hello")},
		{Payload: bytes.Repeat([]byte{0x00}, 1000)},
		{Payload: nil},
	}

	packed, err := Pack(entries)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	var sink container.SliceSink
	got, warnings, err := Extract(packed, &sink)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(got) != len(entries) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(entries))
	}
	for i, e := range entries {
		if !bytes.Equal(got[i].Payload, e.Payload) {
			t.Errorf("entry %d payload mismatch: got %q, want %q", i, got[i].Payload, e.Payload)
		}
	}
}

func TestExtractBadMagic(t *testing.T) {
	_, _, err := Extract([]byte("NOTV\x00\x00\x00\x00\x00\x00\x00\x00"), container.DiscardSink{})
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
	cerr, ok := err.(*container.Error)
	if !ok || cerr.Code != container.BadMagic {
		t.Fatalf("error = %v, want BadMagic", err)
	}
}
