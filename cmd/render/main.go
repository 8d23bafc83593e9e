// Command render writes the temperature heatmap to disk as a standalone HTML
// page and/or SVG documents.
//
// Usage:
//
//	go run ./cmd/render --out-dir dist
//	go run ./cmd/render --input global-temperature.json --format heatmap --width 1600 --height 800
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
