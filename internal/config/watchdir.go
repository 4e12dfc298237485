// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"errors"
	"os"
)

// WatchDirEnv names the environment variable consulted when no directory
// is given on the command line.
const WatchDirEnv = "MSFS_SCREENSHOT_FOLDER"

var (
	ErrNoWatchDir      = errors.New("no screenshot folder given")
	ErrInvalidWatchDir = errors.New("screenshot folder does not exist or is not a directory")
)

// ResolveWatchDir picks the screenshot directory: a sole positional
// argument wins over the environment. The result must be an existing
// directory.
func ResolveWatchDir(args []string, getenv func(string) string) (string, error) {
	var dir string
	switch {
	case len(args) == 1 && args[0] != "":
		dir = args[0]
	case getenv(WatchDirEnv) != "":
		dir = getenv(WatchDirEnv)
	default:
		return "", ErrNoWatchDir
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", ErrInvalidWatchDir
	}
	return dir, nil
}
