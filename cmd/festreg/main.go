package main

import (
	"os"
)

// @title Festival Registration API
// @version 1.0
// @description Solo and team registrations with chest number allocation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
