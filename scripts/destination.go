// Destination is a fake redirect target for exercising the monitor locally.
// It answers every path with a configurable status and latency, and can flip
// between healthy and failing on a fixed period. It also accepts health
// alerts on /webhook and prints them.
//
// Usage:
//
//	go run ./scripts -port 8090 -status 200 -fail-status 503 -flip 2m -delay 0s
//
// Point a registry entry at http://localhost:8090/form and set
// alerting.webhook_url to http://localhost:8090/webhook.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type alertPayload struct {
	Route       string    `json:"route"`
	Destination string    `json:"destination"`
	WasHealthy  bool      `json:"wasHealthy"`
	IsHealthy   bool      `json:"isHealthy"`
	Status      *int      `json:"status"`
	Error       string    `json:"error"`
	At          time.Time `json:"at"`
}

func main() {
	port := flag.Int("port", 8090, "port to listen on")
	status := flag.Int("status", http.StatusOK, "status returned while healthy")
	failStatus := flag.Int("fail-status", http.StatusServiceUnavailable, "status returned while failing")
	flip := flag.Duration("flip", 0, "toggle between healthy and failing on this period (0 disables)")
	delay := flag.Duration("delay", 0, "latency added to every response")
	flag.Parse()

	var failing atomic.Bool
	if *flip > 0 {
		go func() {
			ticker := time.NewTicker(*flip)
			defer ticker.Stop()
			for range ticker.C {
				now := !failing.Load()
				failing.Store(now)
				log.Printf("destination failing=%t", now)
			}
		}()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /webhook", func(w http.ResponseWriter, r *http.Request) {
		var p alertPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		log.Printf("alert: route=%s healthy=%t->%t error=%q", p.Route, p.WasHealthy, p.IsHealthy, p.Error)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if *delay > 0 {
			time.Sleep(*delay)
		}

		code := *status
		if failing.Load() {
			code = *failStatus
		}

		requestID := uuid.NewString()
		log.Printf("request: id=%s method=%s path=%s ua=%q status=%d", requestID, r.Method, r.URL.Path, r.UserAgent(), code)

		w.Header().Set("X-Request-Id", requestID)
		w.WriteHeader(code)
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("starting destination on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
