// Package main provides the entry point for the Ikigai Copilot HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ikigai_server",
	Short: "Ikigai Copilot HTTP API Server",
	Long:  "Ikigai Copilot serves AI-driven career guidance: conversational coaching, career recommendations, personalized job search, and 90-day roadmaps via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
