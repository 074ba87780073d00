// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package main

import (
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// toShiftJIS transcodes a host-native (UTF-8) name into the Shift-JIS
// bytes the packfile formats store on disk.
func toShiftJIS(name string) ([]byte, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(name))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// fromShiftJIS transcodes an on-disk Shift-JIS name into a UTF-8 string
// usable as a host filesystem path.
func fromShiftJIS(name []byte) (string, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), name)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
