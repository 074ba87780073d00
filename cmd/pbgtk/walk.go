// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/jwilins/pbgtk/container"
)

// writeEntries materializes every extracted entry under destDir on fs,
// converting each on-disk Shift-JIS name to a host path and creating
// intermediate directories for names containing "/" (PBG3's only
// directory-bearing format, per spec §4.5).
func writeEntries(fs afero.Fs, destDir string, entries []container.Entry, preset renamePreset) error {
	for i, e := range entries {
		hostName, err := fromShiftJIS(e.Name)
		if err != nil {
			return fmt.Errorf("transcoding entry %d name: %w", i, err)
		}
		if hostName == "" {
			hostName = fmt.Sprintf("%04d", i)
		}
		hostName += pbg1aOrPbg3Extension(preset, hostName, i)

		fullPath := path.Join(destDir, hostName)
		if dir := path.Dir(fullPath); dir != "." {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating directory for entry %d: %w", i, err)
			}
		}
		if err := afero.WriteFile(fs, fullPath, e.Payload, 0o644); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return nil
}

// pbg1aOrPbg3Extension picks the right preset dispatcher: PBG1A entries
// have no on-disk name (hostName is a synthesized index), PBG3 entries
// carry a real path that may contain "/".
func pbg1aOrPbg3Extension(preset renamePreset, hostName string, index int) string {
	if strings.Contains(hostName, "/") {
		return pbg3Extension(preset, hostName)
	}
	if len(hostName) == 4 {
		if _, err := fmt.Sscanf(hostName, "%04d", new(int)); err == nil {
			return pbg1aExtension(preset, index)
		}
	}
	return ""
}

// readTree walks srcDir on fs in lexical order, Shift-JIS-encoding each
// relative path, and returns one container.Entry per file. Traversal
// order is sorted for determinism; spec §5 only requires pack to
// preserve whatever order it is handed, so sorting here is this
// collaborator's own choice, not a core requirement.
func readTree(fs afero.Fs, srcDir string) ([]container.Entry, error) {
	var paths []string
	err := afero.Walk(fs, srcDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", srcDir, err)
	}
	sort.Strings(paths)

	entries := make([]container.Entry, 0, len(paths))
	for _, p := range paths {
		rel := strings.TrimPrefix(p, srcDir)
		rel = strings.TrimPrefix(rel, "/")
		rel = strings.ReplaceAll(rel, string(filepath.Separator), "/")

		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		name, err := toShiftJIS(rel)
		if err != nil {
			return nil, fmt.Errorf("transcoding %s: %w", rel, err)
		}
		entries = append(entries, container.Entry{Name: name, Payload: data})
	}
	return entries, nil
}
