// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging mirrors the standard logger to a size-rotated file when
// logFile is set. The returned closer must be called on exit.
func SetupLogging(logFile string) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if logFile == "" {
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	log.Printf("logging to %s", logFile)
	return rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
