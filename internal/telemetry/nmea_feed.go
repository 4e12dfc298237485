// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/sim_geotagger/internal/gps"
)

// NMEAFeed reads the simulator's GPS-out NMEA stream from a serial port
// (usually a virtual COM pair fed by the sim's GPS output).
type NMEAFeed struct {
	Options serial.OpenOptions

	open func(serial.OpenOptions) (io.ReadWriteCloser, error)
}

func NewNMEAFeed(portName string, baudRate int) *NMEAFeed {
	return &NMEAFeed{
		Options: serial.OpenOptions{
			PortName:              portName,
			BaudRate:              uint(baudRate),
			DataBits:              8,
			StopBits:              1,
			MinimumReadSize:       1,
			ParityMode:            serial.PARITY_NONE,
			InterCharacterTimeout: 0,
		},
		open: serial.Open,
	}
}

func (f *NMEAFeed) Connect(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	port, err := f.open(f.Options)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Options.PortName, err)
	}
	c := &nmeaConn{
		port:  port,
		lines: make(chan string, 256),
		errc:  make(chan error, 1),
		done:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

type nmeaConn struct {
	port  io.ReadWriteCloser
	lines chan string
	errc  chan error
	done  chan struct{}

	onReceive func(gps.Position)
	readErr   error
	closeOnce sync.Once
}

func (c *nmeaConn) readLoop() {
	reader := bufio.NewReader(c.port)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			select {
			case c.lines <- line:
			case <-c.done:
				return
			}
		}
		if err != nil {
			c.errc <- err
			return
		}
	}
}

// Subscribe only records the callback: a GPS-out stream reports position
// on its own cadence and takes no requests.
func (c *nmeaConn) Subscribe(_ Request, onReceive func(gps.Position)) error {
	c.onReceive = onReceive
	return nil
}

func (c *nmeaConn) DispatchOnce() error {
	if c.onReceive == nil {
		return ErrNotSubscribed
	}
	// Check for a read error first: anything read before it is already
	// queued in lines and still gets delivered below.
	if c.readErr == nil {
		select {
		case err := <-c.errc:
			c.readErr = err
		default:
		}
	}
	for {
		select {
		case line := <-c.lines:
			if p, ok := parseSentence(line); ok {
				c.onReceive(p)
			}
			continue
		default:
		}
		break
	}
	if c.readErr != nil {
		return fmt.Errorf("%w: %v", ErrDisconnected, c.readErr)
	}
	return nil
}

func (c *nmeaConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.port.Close()
	})
	return err
}

// parseSentence extracts a position from RMC and GGA sentences that carry a
// valid fix. Everything else, including noise and partial lines, is skipped.
func parseSentence(line string) (gps.Position, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return gps.Position{}, false
	}
	sentence, err := nmea.Parse(line)
	if err != nil {
		return gps.Position{}, false
	}

	switch m := sentence.(type) {
	case nmea.RMC:
		if m.Validity != nmea.ValidRMC {
			return gps.Position{}, false
		}
		fix := gps.Fix{
			Time:       m.Time.String(),
			Date:       m.Date.String(),
			Latitude:   m.Latitude,
			Longitude:  m.Longitude,
			SpeedKnots: m.Speed,
			CourseDeg:  m.Course,
			Validity:   m.Validity,
		}
		return fix.Position(), true
	case nmea.GGA:
		if m.FixQuality == nmea.Invalid {
			return gps.Position{}, false
		}
		return gps.Position{Latitude: m.Latitude, Longitude: m.Longitude}, true
	default:
		return gps.Position{}, false
	}
}
