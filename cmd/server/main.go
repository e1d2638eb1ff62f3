// Package main is the entry point for the caravan API server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "caravan-api",
	Short: "Caravan survival simulation API",
	Long:  `Caravan API runs the survival simulation engine behind a JSON HTTP interface, persisting game saves in Redis.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
