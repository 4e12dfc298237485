// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geotag

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

func TestExtension(t *testing.T) {
	cases := []struct {
		path string
		ext  string
		ok   bool
	}{
		{"a.png", "png", true},
		{"/shots/IMG_01.jpg", "jpg", true},
		{"archive.tar.jpeg", "jpeg", true},
		{"a.PNG", "PNG", true},
		{"noext", "", false},
		{".png", "", false},
		{"/shots/.hidden", "", false},
		{"trailing.", "", true},
	}
	for _, c := range cases {
		ext, ok := Extension(c.path)
		assert.Equal(t, c.ok, ok, c.path)
		assert.Equal(t, c.ext, ext, c.path)
	}
}

func TestIsImageIsCaseSensitive(t *testing.T) {
	assert.True(t, IsImage("a.png"))
	assert.True(t, IsImage("a.jpg"))
	assert.True(t, IsImage("a.jpeg"))
	assert.False(t, IsImage("a.PNG"))
	assert.False(t, IsImage("a.Jpg"))
	assert.False(t, IsImage("notes.txt"))
	assert.False(t, IsImage("README"))
	assert.False(t, IsImage(".png"))
}

func TestSidecarPath(t *testing.T) {
	p, err := SidecarPath("/shots/IMG_01.jpg", DefaultExtension)
	require.NoError(t, err)
	assert.Equal(t, "/shots/IMG_01.geo", p)

	p, err = SidecarPath("/shots/v1.2/a.b.png", DefaultExtension)
	require.NoError(t, err)
	assert.Equal(t, "/shots/v1.2/a.b.geo", p)

	_, err = SidecarPath("/shots/README", DefaultExtension)
	assert.ErrorIs(t, err, ErrNoExtension)
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "47.449,-122.309", FormatCoordinates(47.449, -122.309))
	assert.Equal(t, "0,0", FormatCoordinates(0, 0))
	assert.Equal(t, "91.5,-200", FormatCoordinates(91.5, -200))
	assert.Equal(t, "inf,-inf", FormatCoordinates(math.Inf(1), math.Inf(-1)))
}

func TestRecordWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")

	rec, err := NewRecord(img, DefaultExtension, gps.Position{Latitude: 1.5, Longitude: 2.5})
	require.NoError(t, err)
	require.NoError(t, rec.Write())

	rec, err = NewRecord(img, DefaultExtension, gps.Position{Latitude: 47.449, Longitude: -122.309})
	require.NoError(t, err)
	require.NoError(t, rec.Write())

	data, err := os.ReadFile(filepath.Join(dir, "a.geo"))
	require.NoError(t, err)
	assert.Equal(t, "47.449,-122.309", string(data))
}

func TestRecordWriteMissingDirectory(t *testing.T) {
	rec, err := NewRecord(filepath.Join(t.TempDir(), "gone", "a.png"), DefaultExtension, gps.Position{})
	require.NoError(t, err)
	assert.Error(t, rec.Write())
}
