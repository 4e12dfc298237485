// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/relabs-tech/sim_geotagger/internal/position"
	"github.com/relabs-tech/sim_geotagger/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, any origin
	},
}

// positionStatus is what /api/position and /ws/position report.
type positionStatus struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	HaveFix   bool      `json:"have_fix"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	Updates   uint64    `json:"updates"`
	Telemetry string    `json:"telemetry"`
}

func currentStatus(store *position.Store, src *telemetry.Source) positionStatus {
	pos := store.Snapshot()
	at, updates, ok := store.LastUpdate()
	return positionStatus{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		HaveFix:   ok,
		UpdatedAt: at,
		Updates:   updates,
		Telemetry: src.Stats().State.String(),
	}
}

func newWebMux(ctx context.Context, store *position.Store, src *telemetry.Source, interval time.Duration) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/position", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(currentStatus(store, src)); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	mux.HandleFunc("/ws/position", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if err := conn.WriteJSON(currentStatus(store, src)); err != nil {
				log.Printf("web: websocket write error: %v", err)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-r.Context().Done():
				return
			case <-ticker.C:
			}
		}
	})

	return mux
}

// runWeb serves the position endpoints until ctx is done.
func runWeb(ctx context.Context, port int, store *position.Store, src *telemetry.Source) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newWebMux(ctx, store, src, time.Second),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("web: shutdown error: %v", err)
		}
	}()

	log.Printf("web: server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
