package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/314clay/cubelab-ml-sub001/cube"
)

// App encapsulates the application state and dependencies
type App struct {
	Config     *cube.Config
	Recognizer *cube.Recognizer
	Tracker    *cube.ResultTracker
	MQTTClient *cube.FrameClient
	Publisher  *cube.ResultPublisher

	// CLI Flags (effectively dependencies)
	ConfigFile string
	OutputFile string
	SVGOutput  string
	TableCache string
	TopK       int
	HttpPort   int
	MqttMode   bool
	HttpMode   bool
}

// AppOptions carries the parsed CLI flags into the App
type AppOptions struct {
	ConfigFile string
	OutputFile string
	SVGOutput  string
	TableCache string
	TopK       int
	HttpPort   int
	MqttMode   bool
	HttpMode   bool
}

// NewApp creates a new App instance
func NewApp() *App {
	return &App{
		Tracker: cube.NewResultTracker(),
	}
}

// ApplyOptions applies CLI options to the App instance
func (a *App) ApplyOptions(opts AppOptions) {
	a.ConfigFile = opts.ConfigFile
	a.OutputFile = opts.OutputFile
	a.SVGOutput = opts.SVGOutput
	a.TableCache = opts.TableCache
	a.TopK = opts.TopK
	a.HttpPort = opts.HttpPort
	a.MqttMode = opts.MqttMode
	a.HttpMode = opts.HttpMode
}

// loadConfig loads the YAML config when present and falls back to defaults.
// Only service mode hard-requires a config file.
func (a *App) loadConfig() *cube.Config {
	if a.Config != nil {
		return a.Config
	}
	if _, err := os.Stat(a.ConfigFile); err == nil {
		config, err := cube.LoadConfig(a.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", a.ConfigFile, err)
		}
		log.Printf("Loaded config from %s", a.ConfigFile)
		a.Config = config
	} else {
		a.Config = cube.DefaultConfig()
	}
	return a.Config
}

// buildRecognizer assembles the shared recognizer, preferring a cached state
// table over regenerating one.
func (a *App) buildRecognizer() *cube.Recognizer {
	if a.Recognizer != nil {
		return a.Recognizer
	}

	config := a.loadConfig()

	cachePath := a.TableCache
	if cachePath == "" {
		cachePath = config.TableCache
	}

	rz, err := cube.NewRecognizer(config.Filter())
	if err != nil {
		log.Fatalf("Failed to build recognizer: %v", err)
	}

	if cachePath != "" {
		if cached, err := cube.LoadCachedStateTable(cachePath); err != nil {
			log.Printf("Warning: ignoring state table cache %s: %v", cachePath, err)
		} else if cached != nil {
			log.Printf("Loaded state table cache from %s (%d states)", cachePath, cached.Len())
			rz.Table = cached
		} else {
			if err := cube.SaveStateTable(cachePath, rz.Table); err != nil {
				log.Printf("Warning: failed to save state table cache: %v", err)
			} else {
				log.Printf("Saved state table cache to %s", cachePath)
			}
		}
	}

	if a.TopK > 0 {
		rz.TopK = a.TopK
	} else if config.TopK() > 0 {
		rz.TopK = config.TopK()
	}

	a.Recognizer = rz
	return rz
}

// RunDetect recognizes a single photograph and prints the result as JSON
func (a *App) RunDetect(path string) {
	rz := a.buildRecognizer()

	img, err := cube.DecodeImageFile(path)
	if err != nil {
		log.Fatalf("Failed to decode %s: %v", path, err)
	}

	result, detection := rz.Recognize(img)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))

	if a.OutputFile != "" {
		renderer := cube.NewAnnotationRenderer(img, detection)
		if err := renderer.SavePNG(a.OutputFile); err != nil {
			log.Fatalf("Failed to write annotated PNG: %v", err)
		}
		fmt.Printf("Created annotated PNG: %s\n", a.OutputFile)
	}

	if a.SVGOutput != "" {
		if detection == nil {
			log.Printf("Warning: no detection to render, skipping %s", a.SVGOutput)
		} else {
			bounds := img.Bounds()
			vr := cube.NewVectorRenderer(detection, bounds.Dx(), bounds.Dy())
			f, err := os.Create(a.SVGOutput)
			if err != nil {
				log.Fatalf("Failed to create %s: %v", a.SVGOutput, err)
			}
			if err := vr.RenderToSVG(f); err != nil {
				_ = f.Close()
				log.Fatalf("Failed to render SVG: %v", err)
			}
			if err := f.Close(); err != nil {
				log.Printf("Warning: error closing %s: %v", a.SVGOutput, err)
			}
			fmt.Printf("Created vector SVG: %s\n", a.SVGOutput)
		}
	}

	if !result.Success {
		os.Exit(1)
	}
}

// RunReading resolves an already-classified reading string
func (a *App) RunReading(s string) {
	rz := a.buildRecognizer()

	r, err := cube.ParseReading(s)
	if err != nil {
		log.Fatalf("Invalid reading %q: %v", s, err)
	}

	result := rz.RecognizeReading(r)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))

	if !result.Success {
		os.Exit(1)
	}
}

// RunTableDump generates the state table and prints a summary
func (a *App) RunTableDump() {
	rz := a.buildRecognizer()
	table := rz.Table

	fmt.Printf("State table: %d unique readings\n", table.Len())

	maxCases, multi := 0, 0
	for _, s := range table.States {
		if len(s.Cases) > 1 {
			multi++
		}
		if len(s.Cases) > maxCases {
			maxCases = len(s.Cases)
		}
	}
	fmt.Printf("Readings shared by multiple cases: %d (largest group: %d)\n", multi, maxCases)

	db := rz.DB
	fmt.Printf("Algorithms: %d orientation, %d permutation\n", len(db.Orientation), len(db.Permutation))

	if a.TableCache != "" {
		if err := cube.SaveStateTable(a.TableCache, table); err != nil {
			log.Fatalf("Failed to save state table cache: %v", err)
		}
		fmt.Printf("Saved state table cache to %s\n", a.TableCache)
	}
}

// RunService starts the combined MQTT and/or HTTP service
func (a *App) RunService() {
	fmt.Println("Starting cubewatch service...")

	config := a.loadConfig()
	rz := a.buildRecognizer()

	// 1. Start MQTT if enabled
	if a.MqttMode {
		frameHandler := func(payload []byte) {
			a.handleFrame(payload)
		}

		mqttClient, err := cube.InitMQTT(config, frameHandler)
		if err != nil {
			log.Fatalf("Failed to initialize MQTT: %v", err)
		}
		a.MQTTClient = mqttClient

		if mqttClient == nil {
			log.Fatal("MQTT broker not configured in config.yaml")
		}

		a.Publisher = cube.NewResultPublisher(mqttClient.GetClient(), config.MQTT.ResultTopic)
		fmt.Println("MQTT result publisher initialized")
	}

	// 2. Start HTTP server if enabled
	if a.HttpMode {
		httpServer := newHTTPServer(a.Tracker, rz)
		go func() {
			addr := fmt.Sprintf("0.0.0.0:%d", a.HttpPort)
			log.Printf("[HTTP] Starting server on %s", addr)
			if err := http.ListenAndServe(addr, httpServer); err != nil {
				log.Fatalf("[HTTP] Server error: %v", err)
			}
		}()
	}

	// 3. Print service info
	fmt.Println("\nService Running")
	fmt.Println("===============")

	if a.MqttMode {
		fmt.Println("\nMQTT:")
		fmt.Printf("  Frame topic:  %s\n", config.MQTT.FrameTopic)
		resultTopic := config.MQTT.ResultTopic
		if resultTopic == "" {
			resultTopic = "cubewatch/result"
		}
		fmt.Printf("  Result topic: %s\n", resultTopic)
		fmt.Printf("  Annotated frames: %s/annotated\n", resultTopic)
	}

	if a.HttpMode {
		fmt.Printf("\nHTTP endpoints (port %d):\n", a.HttpPort)
		fmt.Println("  GET  /health        - Health check and counters")
		fmt.Println("  POST /detect        - Recognize an uploaded photograph")
		fmt.Println("  GET  /resolve       - Resolve ?reading=... without vision")
		fmt.Println("  GET  /result        - Most recent recognition result")
		fmt.Println("  GET  /annotated.png - Most recent annotated frame")
		fmt.Println("  GET  /table         - State table summary")
	}

	fmt.Println("\nPress Ctrl+C to stop")

	// 4. Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	fmt.Println("\nShutting down service...")
	if a.MQTTClient != nil {
		a.MQTTClient.Disconnect()
	}
	fmt.Println("Service stopped")
}

// handleFrame runs one camera frame through the pipeline, tracks the
// outcome, and publishes it when MQTT is up.
func (a *App) handleFrame(payload []byte) {
	img, err := cube.DecodeImage(payload)
	if err != nil {
		log.Printf("Error decoding frame: %v", err)
		a.Tracker.Update(nil, nil)
		return
	}

	result, detection := a.Recognizer.Recognize(img)

	var annotated []byte
	if detection != nil {
		renderer := cube.NewAnnotationRenderer(img, detection)
		var buf bytes.Buffer
		if err := png.Encode(&buf, renderer.Render()); err != nil {
			log.Printf("Error rendering annotated frame: %v", err)
		} else {
			annotated = buf.Bytes()
		}
	}

	a.Tracker.Update(result, annotated)

	if result.Success {
		log.Printf("Recognized: %d case(s), reading %s", len(result.Cases), result.DetectedColors)
	} else {
		log.Printf("Recognition failed: %s", result.ErrorReason)
	}

	if a.Publisher != nil {
		if err := a.Publisher.PublishResult(result); err != nil {
			log.Printf("Error publishing result: %v", err)
		}
		if annotated != nil {
			if err := a.Publisher.PublishAnnotated(annotated); err != nil {
				log.Printf("Error publishing annotated frame: %v", err)
			}
		}
	}
}
