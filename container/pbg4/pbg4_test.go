// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package pbg4

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jwilins/pbgtk/container"
)

func TestPackExtractRoundTrip(t *testing.T) {
	entries := []container.Entry{
		{Name: []byte("a.bin"), Payload: []byte{1, 2, 3, 4, 5}},
		{Name: []byte("b.bin"), Payload: bytes.Repeat([]byte{0}, 1000)},
		{Name: []byte("empty.bin"), Payload: nil},
	}

	packed, err := Pack(entries)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	var sink container.SliceSink
	got, err := Extract(packed, &sink)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(entries))
	}
	for i, e := range entries {
		if string(got[i].Name) != string(e.Name) {
			t.Errorf("entry %d name = %q, want %q", i, got[i].Name, e.Name)
		}
		if !bytes.Equal(got[i].Payload, e.Payload) {
			t.Errorf("entry %d payload mismatch", i)
		}
	}
}

func TestExtractBadMagic(t *testing.T) {
	_, err := Extract(bytes.Repeat([]byte{0}, 16), container.DiscardSink{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRepackExtractedArchiveRoundTrips(t *testing.T) {
	entries := []container.Entry{
		{Name: []byte("x"), Payload: []byte("some content here")},
	}
	packed, _ := Pack(entries)
	var sink container.SliceSink
	extracted, err := Extract(packed, &sink)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	repacked, err := Pack(extracted)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	var sink2 container.SliceSink
	reExtracted, err := Extract(repacked, &sink2)
	if err != nil {
		t.Fatalf("re-extract: %v", err)
	}
	if len(reExtracted) != 1 || string(reExtracted[0].Payload) != "some content here" {
		t.Fatalf("re-extracted mismatch: %+v", reExtracted)
	}
	if diff := cmp.Diff(extracted, reExtracted); diff != "" {
		t.Fatalf("repack-then-extract entries mismatch (-first +second):\n%s", diff)
	}
}
