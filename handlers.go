package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/314clay/cubelab-ml-sub001/cube"
)

// maxFrameBytes caps uploaded photograph size on /detect.
const maxFrameBytes = 16 << 20

// newHTTPServer creates an HTTP server with all endpoints
func newHTTPServer(tracker *cube.ResultTracker, rz *cube.Recognizer) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] /health request from %s", r.RemoteAddr)
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status    string            `json:"status"`
			Timestamp time.Time         `json:"timestamp"`
			States    int               `json:"states"`
			HasResult bool              `json:"hasResult"`
			Stats     cube.TrackerStats `json:"stats"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			States:    rz.Table.Len(),
			HasResult: tracker.HasResult(),
			Stats:     tracker.Stats(),
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	// One-shot recognition endpoint: POST an encoded photograph, get the
	// structured result back
	mux.HandleFunc("/detect", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST an image to this endpoint", http.StatusMethodNotAllowed)
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxFrameBytes))
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		if !cube.IsPNG(payload) && !cube.IsJPEG(payload) {
			http.Error(w, "Body must be a PNG or JPEG image", http.StatusUnsupportedMediaType)
			return
		}

		img, err := cube.DecodeImage(payload)
		if err != nil {
			http.Error(w, "Failed to decode image", http.StatusBadRequest)
			return
		}

		result, _ := rz.Recognize(img)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Printf("Error encoding detect result: %v", err)
		}
	})

	// Resolver-only endpoint: skip vision, match a reading string
	mux.HandleFunc("/resolve", func(w http.ResponseWriter, r *http.Request) {
		s := r.URL.Query().Get("reading")
		if s == "" {
			http.Error(w, "Missing ?reading= parameter", http.StatusBadRequest)
			return
		}

		reading, err := cube.ParseReading(s)
		if err != nil {
			http.Error(w, "Invalid reading: "+err.Error(), http.StatusBadRequest)
			return
		}

		result := rz.RecognizeReading(reading)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			log.Printf("Error encoding resolve result: %v", err)
		}
	})

	// Most recent recognition result from the frame stream
	mux.HandleFunc("/result", func(w http.ResponseWriter, r *http.Request) {
		last := tracker.Last()
		if last == nil {
			http.Error(w, "No frames processed yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		if err := json.NewEncoder(w).Encode(last); err != nil {
			log.Printf("Error encoding last result: %v", err)
		}
	})

	// Most recent annotated frame
	mux.HandleFunc("/annotated.png", func(w http.ResponseWriter, r *http.Request) {
		frame := tracker.LastFrame()
		if frame == nil {
			http.Error(w, "No annotated frame available", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		if _, err := w.Write(frame); err != nil {
			log.Printf("Error writing annotated frame: %v", err)
		}
	})

	// State table summary
	mux.HandleFunc("/table", func(w http.ResponseWriter, r *http.Request) {
		summary := struct {
			States       int `json:"states"`
			Orientations int `json:"orientations"`
			Permutations int `json:"permutations"`
		}{
			States:       rz.Table.Len(),
			Orientations: len(rz.DB.Orientation),
			Permutations: len(rz.DB.Permutation),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			log.Printf("Error encoding table summary: %v", err)
		}
	})

	return mux
}
