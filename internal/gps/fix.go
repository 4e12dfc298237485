// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import "fmt"

// Position is a point sample of the aircraft location, in decimal degrees.
// Values are carried exactly as the feed reported them; no range checks.
type Position struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

func (p Position) String() string {
	return fmt.Sprintf("lat=%.6f lon=%.6f", p.Latitude, p.Longitude)
}

// Fix represents a single combined GPS fix decoded from NMEA.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56"
	Date       string  `json:"date"`        // e.g. "06/12/25"
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void), etc.
}

// Position drops everything but the coordinates.
func (f Fix) Position() Position {
	return Position{Latitude: f.Latitude, Longitude: f.Longitude}
}
