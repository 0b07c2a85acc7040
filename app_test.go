package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/314clay/cubelab-ml-sub001/cube"
)

func TestApplyOptions(t *testing.T) {
	app := NewApp()
	app.ApplyOptions(AppOptions{
		ConfigFile: "custom.yaml",
		OutputFile: "out.png",
		SVGOutput:  "out.svg",
		TableCache: "cache.json",
		TopK:       7,
		HttpPort:   9090,
		MqttMode:   true,
		HttpMode:   true,
	})

	if app.ConfigFile != "custom.yaml" || app.OutputFile != "out.png" || app.SVGOutput != "out.svg" {
		t.Errorf("file options not applied: %+v", app)
	}
	if app.TableCache != "cache.json" || app.TopK != 7 || app.HttpPort != 9090 {
		t.Errorf("numeric options not applied: %+v", app)
	}
	if !app.MqttMode || !app.HttpMode {
		t.Errorf("mode flags not applied: %+v", app)
	}
	if app.Tracker == nil {
		t.Error("NewApp left the tracker nil")
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	app := NewApp()
	app.ConfigFile = filepath.Join(t.TempDir(), "absent.yaml")

	config := app.loadConfig()
	if config == nil {
		t.Fatal("loadConfig returned nil")
	}
	if *config != (cube.Config{}) {
		t.Errorf("missing file produced non-default config: %+v", config)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "vision:\n  closestMatches: 9\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	app := NewApp()
	app.ConfigFile = path

	config := app.loadConfig()
	if config.Vision.ClosestMatches != 9 {
		t.Errorf("closestMatches = %d, want 9", config.Vision.ClosestMatches)
	}
}

func TestBuildRecognizer(t *testing.T) {
	app := NewApp()
	app.ConfigFile = filepath.Join(t.TempDir(), "absent.yaml")
	app.TopK = 2

	rz := app.buildRecognizer()
	if rz == nil {
		t.Fatal("buildRecognizer returned nil")
	}
	if rz.TopK != 2 {
		t.Errorf("TopK = %d, want the flag value 2", rz.TopK)
	}
	if rz.Table.Len() < 3000 {
		t.Errorf("table has %d states", rz.Table.Len())
	}

	// The recognizer is cached on the app.
	if again := app.buildRecognizer(); again != rz {
		t.Error("buildRecognizer rebuilt an existing recognizer")
	}
}

func TestBuildRecognizerWritesCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "states.json")

	app := NewApp()
	app.ConfigFile = filepath.Join(t.TempDir(), "absent.yaml")
	app.TableCache = cachePath

	rz := app.buildRecognizer()
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}

	// A second app loads the cache instead of regenerating.
	app2 := NewApp()
	app2.ConfigFile = app.ConfigFile
	app2.TableCache = cachePath
	rz2 := app2.buildRecognizer()
	if rz2.Table.Len() != rz.Table.Len() {
		t.Errorf("cached table has %d states, want %d", rz2.Table.Len(), rz.Table.Len())
	}
}
