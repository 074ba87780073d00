// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package pbg6

import (
	"bytes"
	"testing"

	"github.com/jwilins/pbgtk/container"
)

func TestPackExtractRoundTrip(t *testing.T) {
	entries := []container.Entry{
		{Name: []byte("enemy/a.bin"), Payload: []byte{1, 2, 3, 4, 5}},
		{Name: []byte("music/b.bin"), Payload: bytes.Repeat([]byte{7}, 2000)},
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
	_, _, err := Extract(bytes.Repeat([]byte{0}, 16), container.DiscardSink{})
	if err == nil {
		t.Fatal("expected error")
	}
	cerr, ok := err.(*container.Error)
	if !ok || cerr.Code != container.BadMagic {
		t.Fatalf("error = %v, want BadMagic", err)
	}
}

func TestExtractStripsLeadingSlashFromNames(t *testing.T) {
	entries := []container.Entry{{Name: []byte("graph/tex.bin"), Payload: []byte("data")}}
	packed, err := Pack(entries)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	var sink container.SliceSink
	got, _, err := Extract(packed, &sink)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if string(got[0].Name) != "graph/tex.bin" {
		t.Fatalf("name = %q, want no leading slash", got[0].Name)
	}
	if bytes.HasPrefix(sink.Entries[0].Name, []byte("/")) {
		t.Fatalf("sink saw leading slash: %q", sink.Entries[0].Name)
	}
}
