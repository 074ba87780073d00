// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command pbgtk extracts, lists, and repacks PBG1A/PBG3/PBG4/PBG5/PBG6
// packfiles. It is a thin collaborator over the container/* packages:
// directory traversal, Shift-JIS transcoding, and presentation live here;
// the binary codec/container logic does not.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz/lzma"

	"github.com/jwilins/pbgtk/container"
	"github.com/jwilins/pbgtk/container/pbg1a"
	"github.com/jwilins/pbgtk/container/pbg3"
	"github.com/jwilins/pbgtk/container/pbg4"
	"github.com/jwilins/pbgtk/container/pbg5"
	"github.com/jwilins/pbgtk/container/pbg6"
)

var log = logrus.StandardLogger()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	fs := afero.NewOsFs()
	var err error
	switch cmd {
	case "extract":
		err = runExtract(fs, args)
	case "pack":
		err = runPack(fs, args)
	case "list":
		err = runList(fs, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Error("pbgtk failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pbgtk <extract|pack|list> -format <pbg1a|pbg3|pbg4|pbg5|pbg6> ...")
}

// extractAny dispatches Extract across the five container formats,
// normalizing their differing return shapes (some report soft
// checksum-mismatch warnings, some do not) to a single signature.
func extractAny(format string, data []byte, sink container.Sink) ([]container.Entry, []*container.Warning, error) {
	switch format {
	case "pbg1a":
		return pbg1a.Extract(data, sink)
	case "pbg3":
		entries, err := pbg3.Extract(data, sink)
		return entries, nil, err
	case "pbg4":
		entries, err := pbg4.Extract(data, sink)
		return entries, nil, err
	case "pbg5":
		return pbg5.Extract(data, sink)
	case "pbg6":
		return pbg6.Extract(data, sink)
	default:
		return nil, nil, container.NewError("pbgtk", container.BadArgument, "unknown format %q", format)
	}
}

func packAny(format string, entries []container.Entry) ([]byte, error) {
	switch format {
	case "pbg1a":
		return pbg1a.Pack(entries)
	case "pbg3":
		return pbg3.Pack(entries)
	case "pbg4":
		return pbg4.Pack(entries)
	case "pbg5":
		return pbg5.Pack(entries)
	case "pbg6":
		return pbg6.Pack(entries)
	default:
		return nil, container.NewError("pbgtk", container.BadArgument, "unknown format %q", format)
	}
}

func runExtract(fs afero.Fs, args []string) error {
	fset := flag.NewFlagSet("extract", flag.ExitOnError)
	format := fset.String("format", "", "container format: pbg1a, pbg3, pbg4, pbg5, pbg6")
	in := fset.String("in", "", "path to the packfile to extract")
	out := fset.String("out", "", "destination directory")
	presetFlag := fset.String("preset", "none", "auto-rename preset: none, enemy, graph, graph2, graph3, music, sound")
	reexportZstd := fset.String("reexport-zstd", "", "optional: also write a zstd-compressed sidecar archive to this path")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *format == "" || *in == "" || *out == "" {
		return fmt.Errorf("extract requires -format, -in, and -out")
	}
	preset, err := parseRenamePreset(*presetFlag)
	if err != nil {
		return err
	}

	data, err := afero.ReadFile(fs, *in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *in, err)
	}

	var sink container.SliceSink
	entries, warnings, err := extractAny(*format, data, &sink)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.WithFields(logrus.Fields{"entry": string(w.Name), "code": w.Code}).Warn(w.Msg)
	}
	log.WithFields(logrus.Fields{"format": *format, "count": len(entries)}).Info("extracted entries")

	if err := writeEntries(fs, *out, entries, preset); err != nil {
		return err
	}

	if *reexportZstd != "" {
		if err := writeZstdSidecar(fs, *reexportZstd, entries); err != nil {
			return fmt.Errorf("writing zstd sidecar: %w", err)
		}
		log.WithField("path", *reexportZstd).Info("wrote zstd sidecar")
	}
	return nil
}

func runPack(fs afero.Fs, args []string) error {
	fset := flag.NewFlagSet("pack", flag.ExitOnError)
	format := fset.String("format", "", "container format: pbg1a, pbg3, pbg4, pbg5, pbg6")
	in := fset.String("in", "", "source directory to pack")
	out := fset.String("out", "", "path to write the packed archive")
	xzSidecar := fset.String("xz-sidecar", "", "optional: also write an LZMA-compressed copy of the packed archive (PBG3 only)")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *format == "" || *in == "" || *out == "" {
		return fmt.Errorf("pack requires -format, -in, and -out")
	}

	entries, err := readTree(fs, *in)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"format": *format, "count": len(entries)}).Info("packing entries")

	packed, err := packAny(*format, entries)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, *out, packed, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}

	if *xzSidecar != "" {
		if *format != "pbg3" {
			return fmt.Errorf("-xz-sidecar is only supported for -format pbg3")
		}
		if err := writeXZSidecar(fs, *xzSidecar, packed); err != nil {
			return fmt.Errorf("writing xz sidecar: %w", err)
		}
		log.WithField("path", *xzSidecar).Info("wrote xz sidecar")
	}
	return nil
}

func runList(fs afero.Fs, args []string) error {
	fset := flag.NewFlagSet("list", flag.ExitOnError)
	format := fset.String("format", "", "container format: pbg1a, pbg3, pbg4, pbg5, pbg6")
	in := fset.String("in", "", "path to the packfile to list")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *format == "" || *in == "" {
		return fmt.Errorf("list requires -format and -in")
	}

	data, err := afero.ReadFile(fs, *in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *in, err)
	}

	entries, warnings, err := extractAny(*format, data, container.DiscardSink{})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.WithFields(logrus.Fields{"entry": string(w.Name), "code": w.Code}).Warn(w.Msg)
	}
	for i, e := range entries {
		name, err := fromShiftJIS(e.Name)
		if err != nil {
			name = string(e.Name)
		}
		fmt.Printf("%4d  %8d  %s\n", i, len(e.Payload), name)
	}
	return nil
}

// writeZstdSidecar concatenates every entry's name and payload into a
// single stream and compresses it with zstd, for archival outside the
// original format family; it is not a container format of its own and
// cannot be re-extracted by this tool.
func writeZstdSidecar(fs afero.Fs, path string, entries []container.Entry) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%d\x00%s\x00", len(e.Name), e.Name); err != nil {
			return err
		}
		if _, err := w.Write(e.Payload); err != nil {
			return err
		}
	}
	return nil
}

// writeXZSidecar writes an LZMA-compressed copy of a packed archive next
// to the primary output, for distribution alongside the original LZSS
// payload.
func writeXZSidecar(fs afero.Fs, path string, packed []byte) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := lzma.NewWriter(f)
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(packed)
	return err
}
