package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roivaz/erpnext-mcp/internal/config"
	"github.com/roivaz/erpnext-mcp/internal/erpnext"
	"github.com/roivaz/erpnext-mcp/internal/logging"
	"github.com/roivaz/erpnext-mcp/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:          "erpnext-status",
		Short:        "Check connectivity and credentials against the configured ERPNext site",
		SilenceUsage: true,
		RunE:         run,
	}

	config.AddRemoteFlags(root)
	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Printf("erpnext-status: %v", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	fmt.Println("ERPNext Connection Status:")
	fmt.Println("==========================")
	fmt.Printf("📍 URL: %s\n", config.ERPNextURL())
	switch {
	case config.ERPNextAPIKey() != "" && config.ERPNextAPISecret() != "":
		fmt.Println("🔑 Auth: API key pair")
	case config.HasLoginCredentials():
		fmt.Printf("🔑 Auth: session login as %s\n", config.ERPNextUsername())
	default:
		fmt.Println("⚠️  Auth: no credentials configured")
	}
	fmt.Println()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	logger := logging.New(logging.NewZap(config.Verbose())).WithName("erpnext-status")
	client, err := mcp.Connect(ctx, logger)
	if err != nil {
		fmt.Printf("❌ Connection failed: %v\n", err)
		return err
	}

	user, err := client.LoggedUser(ctx)
	if err != nil {
		fmt.Printf("❌ Connection failed: %v\n", err)
		if erpnext.IsStatus(err, http.StatusUnauthorized) || erpnext.IsStatus(err, http.StatusForbidden) {
			fmt.Println("   Check ERPNEXT_API_KEY/ERPNEXT_API_SECRET or ERPNEXT_USERNAME/ERPNEXT_PASSWORD")
		}
		return err
	}
	fmt.Printf("✅ Connected as %s\n", user)
	return nil
}
