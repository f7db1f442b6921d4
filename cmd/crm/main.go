package main

import (
	"os"

	"github.com/SscSPs/class_credits_crm/internal/cli"
)

// @title Class Credits CRM API
// @version 1.0
// @description Credit ledger and attendance reconciliation for a kids' class studio.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
