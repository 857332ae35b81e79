package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jkaninda/swapzo/internal/config"
	goutils "github.com/jkaninda/go-utils"
)

var (
	matchConfigPath string
	matchVerbose    bool
)

var matchCmd = &cobra.Command{
	Use:   "match <user-id>",
	Short: "Compute matches for a user and print them as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchConfigPath, "config", config.DefaultConfigPath(), "path to config file")
	matchCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "enable verbose logging")
}

// runMatch is the one-shot CLI mode: compute matches for a single user and
// print the result to stdout.
func runMatch(_ *cobra.Command, args []string) error {
	logHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	if !matchVerbose {
		logHandler = slog.NewJSONHandler(io.Discard, nil)
	}
	logger := slog.New(logHandler)

	userID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid user ID %q: %w", args[0], err)
	}

	cfg, err := loadConfig(goutils.Env("SWAPZO_CONFIG", matchConfigPath))
	if err != nil {
		return err
	}

	sc, err := initShared(cfg, logger)
	if err != nil {
		return err
	}
	defer sc.Cleanup()

	res, err := sc.Service.FindMatches(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("computing matches: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
