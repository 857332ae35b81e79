package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jkaninda/swapzo/internal/config"
	mcpgw "github.com/jkaninda/swapzo/internal/gateway/mcp"
	goutils "github.com/jkaninda/go-utils"
)

var mcpConfigPath string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the marketplace over MCP on stdio",
	Long: `Runs an MCP (Model Context Protocol) server on stdin/stdout, exposing
find_matches, list_offers, and list_needs tools to assistant clients.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpConfigPath, "config", config.DefaultConfigPath(), "path to config file")
}

func runMCP(_ *cobra.Command, _ []string) error {
	// Stdout carries the MCP protocol; all logging goes to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg, err := loadConfig(goutils.Env("SWAPZO_CONFIG", mcpConfigPath))
	if err != nil {
		return err
	}
	if cfg.MCP == nil || !cfg.MCP.Enabled {
		return fmt.Errorf("mcp gateway is disabled (set mcp.enabled in config)")
	}

	sc, err := initShared(cfg, logger)
	if err != nil {
		return err
	}
	defer sc.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mcpgw.NewServer(sc.Service, logger).Serve(ctx)
}
