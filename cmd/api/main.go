package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmicodes/catalog/cmd/api/commands"
)

// @title Error Code Catalog API
// @version 1.0
// @description Browse and maintain the device error code catalog
// @BasePath /api

func main() {
	rootCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Error Code Catalog",
		Long:  `Error Code Catalog serves a browsable list of device error codes and lets an administrator maintain it.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewHashPasswordCommand())
	rootCmd.AddCommand(commands.NewRecordsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
