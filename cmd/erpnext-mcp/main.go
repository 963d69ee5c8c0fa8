package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/roivaz/erpnext-mcp/internal/config"
	"github.com/roivaz/erpnext-mcp/internal/logging"
	"github.com/roivaz/erpnext-mcp/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:          "erpnext-mcp",
		Short:        "ERPNext MCP server",
		SilenceUsage: true,
		RunE:         run,
	}

	config.AddRemoteFlags(root)
	config.AddServerFlags(root)
	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.NewZap(config.Verbose())).WithName("erpnext-mcp")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mcp.Connect(ctx, logger)
	if err != nil {
		return err
	}
	srv := mcp.New(mcp.DefaultConfig(client))

	switch transport := config.MCPTransport(); transport {
	case "stdio":
		logger.Info("serving MCP over stdio", "erpnext_url", client.BaseURL())
		return server.ServeStdio(srv.MCP)
	case "http":
		return serveHTTP(ctx, srv, logger)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or http)", transport)
	}
}

func serveHTTP(ctx context.Context, srv *mcp.Server, logger logging.Logger) error {
	addr := config.MCPHost() + ":" + strconv.Itoa(config.MCPPort())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("MCP server listening", "addr", addr, "endpoint", config.MCPEndpoint())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
