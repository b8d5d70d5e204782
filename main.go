// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Fintrack.
//
// Usage:
//
//	go run . [flags]
//	./fintrack [flags]
//
// This launches the Fintrack CLI. See --help for options.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/toeirei/fintrack/ui/cli"
)

// version is set at build time using -ldflags, e.g.:
// go build -ldflags "-X main.version=1.2.3"
var version = "dev"

// main is the entrypoint for the Fintrack CLI.
func main() {
	if os.Getenv("FINTRACK_SHOW_VERSION") == "1" {
		fmt.Fprintf(os.Stderr, "Fintrack version: %s\n", version)
	}

	if err := cli.Execute(); err != nil {
		log.Printf("Fintrack CLI error: %v", err)
		os.Exit(1)
	}
}
