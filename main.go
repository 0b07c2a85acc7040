package main

import (
	"flag"
	"fmt"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile = flag.String("config", "config.yaml", "Path to configuration file")
	detectFile = flag.String("detect", "", "Recognize a single photograph and exit")
	reading    = flag.String("reading", "", "Resolve a 15-letter reading (e.g. WWWWWWWWW.RRR.BBB) and exit")
	outputFile = flag.String("output", "", "Write annotated PNG here in --detect mode")
	svgOutput  = flag.String("svg", "", "Write vector diagram SVG here in --detect mode")
	tableDump  = flag.Bool("table-dump", false, "Generate the state table, print a summary, and exit")
	tableCache = flag.String("table-cache", "", "Path to the state table cache file (optional)")
	topK       = flag.Int("top-k", 0, "Closest matches to report when no exact match (0 = config default)")
	mqttMode   = flag.Bool("mqtt", false, "Run MQTT service mode: subscribe to camera frames, publish results")
	httpMode   = flag.Bool("http", false, "Enable HTTP server for recognition and status endpoints")
	httpPort   = flag.Int("http-port", 8080, "HTTP server port (default 8080)")
)

func main() {
	flag.Parse()
	fmt.Printf("cubewatch version: %s\n", Version)

	app := NewApp()
	app.ApplyOptions(AppOptions{
		ConfigFile: *configFile,
		OutputFile: *outputFile,
		SVGOutput:  *svgOutput,
		TableCache: *tableCache,
		TopK:       *topK,
		HttpPort:   *httpPort,
		MqttMode:   *mqttMode,
		HttpMode:   *httpMode,
	})

	if *tableDump {
		app.RunTableDump()
		return
	}

	if *reading != "" {
		app.RunReading(*reading)
		return
	}

	if *detectFile != "" {
		app.RunDetect(*detectFile)
		return
	}

	if *mqttMode || *httpMode {
		app.RunService()
		return
	}

	fmt.Println("cubewatch: last-layer recognition service")
	fmt.Println("Use --detect=photo.jpg to recognize a single photograph")
	fmt.Println("Use --reading=WWWWWWWWW.RRR.BBB to resolve a classified reading")
	fmt.Println("Use --table-dump to inspect the generated state table")
	fmt.Println("Use --mqtt to run MQTT service mode")
	fmt.Println("Use --http to run HTTP server mode")
	fmt.Println("Use --mqtt --http to run both together")
	fmt.Println("\nConfiguration:")
	fmt.Println("  config.yaml - MQTT settings and vision thresholds")
}
