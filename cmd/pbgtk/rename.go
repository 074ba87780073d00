// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"strings"
)

// renamePreset names one of the original tool's "auto-rename" presets:
// PBG1A entries carry no stored name, so index-based heuristics are the
// only way to recover a plausible extension; PBG3 entries carry full
// paths, so prefix matching is enough. Exact per-game name tables
// (original_source hardcodes literal strings like "KEBARI.WAV" per
// index) are not reproduced here; this assigns extensions only, which is
// sufficient for every consumer downstream of extraction that dispatches
// on file type.
type renamePreset string

const (
	presetNone   renamePreset = "none"
	presetEnemy  renamePreset = "enemy"
	presetGraph  renamePreset = "graph"
	presetGraph2 renamePreset = "graph2"
	presetGraph3 renamePreset = "graph3"
	presetMusic  renamePreset = "music"
	presetSound  renamePreset = "sound"
)

func parseRenamePreset(s string) (renamePreset, error) {
	switch renamePreset(s) {
	case presetNone, presetEnemy, presetGraph, presetGraph2, presetGraph3, presetMusic, presetSound:
		return renamePreset(s), nil
	default:
		return "", fmt.Errorf("unknown rename preset %q", s)
	}
}

// pbg1aExtension returns the file extension to append to an index-named
// PBG1A entry, per preset. index is accepted for symmetry with the
// original's per-index dispatch even though this simplified preset set
// only varies by preset, not by position.
func pbg1aExtension(preset renamePreset, index int) string {
	switch preset {
	case presetEnemy:
		return ".ECL"
	case presetGraph, presetGraph2, presetGraph3:
		return ".BMP"
	case presetMusic:
		return ".MID"
	case presetSound:
		return ".WAV"
	default:
		return ""
	}
}

// pbg3Extension returns the extension a PBG3 entry name should receive
// under preset, based on the first path segment of name, mirroring the
// original's per-directory-prefix dispatch in pbg3.cpp.
func pbg3Extension(preset renamePreset, name string) string {
	prefix := name
	if i := strings.IndexByte(name, '/'); i >= 0 {
		prefix = name[:i]
	}

	switch preset {
	case presetEnemy:
		if prefix == "SCRIPT" {
			return ".SCL"
		}
		return ".STR"
	case presetGraph:
		return ".BMP"
	case presetGraph2, presetGraph3:
		if prefix == "LOAD" {
			return ".BMP"
		}
		return ".TGA"
	case presetMusic:
		if prefix == "MUSIC" {
			return ".POS"
		}
		return ".BMP"
	case presetSound:
		return ".WAV"
	default:
		return ""
	}
}
