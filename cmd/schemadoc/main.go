// Package main provides the schemadoc CLI.
package main

import (
	"log"
	"os"

	"github.com/example/schemadoc/internal/cli"
)

func main() {
	// stdout carries emitted documents and the MCP protocol
	log.SetOutput(os.Stderr)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
