package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "festreg",
	Short:         "Festival event registration service",
	Long:          `festreg serves the festival registration API: solo and team registrations, chest numbers, and admin reports.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}
