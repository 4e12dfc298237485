// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package geotag derives and writes the sidecar files that pair a
// screenshot with the aircraft position at capture time.
package geotag

import (
	"errors"
	"fmt"
	"os"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

// DefaultExtension is the extension given to sidecar files.
const DefaultExtension = "geo"

// ImageExtensions are the screenshot extensions that get a sidecar.
// Matching is case-sensitive.
var ImageExtensions = []string{"png", "jpg", "jpeg"}

var ErrNoExtension = errors.New("file name has no extension")

// SidecarRecord is the derived artifact written next to an image.
type SidecarRecord struct {
	SourcePath  string  `json:"source_path"`
	SidecarPath string  `json:"sidecar_path"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
}

// NewRecord pairs an image path with a position snapshot.
func NewRecord(sourcePath, sidecarExt string, pos gps.Position) (SidecarRecord, error) {
	target, err := SidecarPath(sourcePath, sidecarExt)
	if err != nil {
		return SidecarRecord{}, err
	}
	return SidecarRecord{
		SourcePath:  sourcePath,
		SidecarPath: target,
		Latitude:    pos.Latitude,
		Longitude:   pos.Longitude,
	}, nil
}

// Extension returns the part of the base name after the final dot.
// A base name without a dot, or whose only dot is the leading one
// (".png"), has no extension.
func Extension(path string) (string, bool) {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return "", false
	}
	return base[i+1:], true
}

// IsImage reports whether path carries one of ImageExtensions.
func IsImage(path string) bool {
	ext, ok := Extension(path)
	if !ok {
		return false
	}
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// SidecarPath replaces the extension of path with ext, leaving the rest
// of the path untouched.
func SidecarPath(path, ext string) (string, error) {
	cur, ok := Extension(path)
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrNoExtension)
	}
	return strings.TrimSuffix(path, cur) + ext, nil
}

// FormatCoordinates renders "<lat>,<lon>" with the shortest decimal
// representation of each value and no trailing newline.
func FormatCoordinates(lat, lon float64) string {
	return formatDegrees(lat) + "," + formatDegrees(lon)
}

func formatDegrees(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Write creates or truncates the sidecar file and writes the record.
func (r SidecarRecord) Write() error {
	data := []byte(FormatCoordinates(r.Latitude, r.Longitude))
	if err := os.WriteFile(r.SidecarPath, data, 0o644); err != nil {
		return fmt.Errorf("write sidecar %s: %w", r.SidecarPath, err)
	}
	return nil
}
