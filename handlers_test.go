package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/314clay/cubelab-ml-sub001/cube"
)

func testServer(t *testing.T) (http.Handler, *cube.ResultTracker) {
	t.Helper()
	rz, err := cube.NewRecognizer(cube.DefaultContourFilter())
	if err != nil {
		t.Fatalf("NewRecognizer: %v", err)
	}
	tracker := cube.NewResultTracker()
	return newHTTPServer(tracker, rz), tracker
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var status struct {
		Status    string            `json:"status"`
		States    int               `json:"states"`
		HasResult bool              `json:"hasResult"`
		Stats     cube.TrackerStats `json:"stats"`
	}
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("status = %q, want ok", status.Status)
	}
	if status.States < 3000 {
		t.Errorf("states = %d, want the generated table size", status.States)
	}
	if status.HasResult {
		t.Error("fresh service reports a result")
	}
}

func TestResolveEndpoint(t *testing.T) {
	server, _ := testServer(t)

	t.Run("exact", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/resolve?reading=WWWWWWWWW.RRR.BBB", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var res cube.RecognizeResult
		if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
			t.Fatalf("decoding result: %v", err)
		}
		if !res.Success || res.Confidence != 1.0 {
			t.Errorf("result = %+v, want exact success", res)
		}
	})

	t.Run("missing param", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/resolve", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("invalid reading", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/resolve?reading=XYZ", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestTableEndpoint(t *testing.T) {
	server, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/table", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var summary struct {
		States       int `json:"states"`
		Orientations int `json:"orientations"`
		Permutations int `json:"permutations"`
	}
	if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.Orientations != 58 || summary.Permutations != 22 {
		t.Errorf("summary = %+v, want 58 orientations and 22 permutations", summary)
	}
}

func TestDetectEndpoint(t *testing.T) {
	server, _ := testServer(t)

	t.Run("rejects GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/detect", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", w.Code)
		}
	})

	t.Run("rejects non-image body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/detect", strings.NewReader("not an image"))
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		if w.Code != http.StatusUnsupportedMediaType {
			t.Errorf("status = %d, want 415", w.Code)
		}
	})

	t.Run("blank image reports failure", func(t *testing.T) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 50, 50))); err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodPost, "/detect", &buf)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var res cube.RecognizeResult
		if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
			t.Fatalf("decoding result: %v", err)
		}
		if res.Success || res.ErrorReason != "outline_not_found" {
			t.Errorf("result = %+v, want outline_not_found failure", res)
		}
	})
}

func TestResultEndpoints(t *testing.T) {
	server, tracker := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/result", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("/result before frames: status = %d, want 503", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/annotated.png", nil)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("/annotated.png before frames: status = %d, want 503", w.Code)
	}

	tracker.Update(&cube.RecognizeResult{Success: true, Confidence: 1.0}, []byte("fake-png"))

	req = httptest.NewRequest(http.MethodGet, "/result", nil)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/result after update: status = %d, want 200", w.Code)
	}
	var tracked cube.TrackedResult
	if err := json.NewDecoder(w.Body).Decode(&tracked); err != nil {
		t.Fatalf("decoding tracked result: %v", err)
	}
	if tracked.Result == nil || !tracked.Result.Success {
		t.Errorf("tracked result = %+v", tracked)
	}

	req = httptest.NewRequest(http.MethodGet, "/annotated.png", nil)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "fake-png" {
		t.Errorf("/annotated.png = %d %q", w.Code, w.Body.String())
	}
}
