// Package mcp exposes the Swapzo marketplace over the Model Context
// Protocol. It runs an MCP server on stdio so assistant clients can query
// listings and compute matches through the same listing service the HTTP
// gateway uses.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jkaninda/swapzo/internal/listing"
)

// Server wraps an MCP stdio server around the listing service.
type Server struct {
	svc    *listing.Service
	logger *slog.Logger
}

// NewServer creates an MCP server for the given listing service.
func NewServer(svc *listing.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

// Serve runs the MCP server on stdin/stdout until ctx is canceled or the
// client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	srv := server.NewMCPServer("swapzo", "0.1.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	srv.AddTool(mcp.NewTool("find_matches",
		mcp.WithDescription("Compute barter matches for a user: direct two-party swaps and multi-party chain cycles, ranked by confidence."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("UUID of the user to match"),
		),
	), s.handleFindMatches)

	srv.AddTool(mcp.NewTool("list_offers",
		mcp.WithDescription("List offers in the marketplace, optionally filtered by owner."),
		mcp.WithString("user_id",
			mcp.Description("Optional owner UUID to filter by"),
		),
	), s.handleListOffers)

	srv.AddTool(mcp.NewTool("list_needs",
		mcp.WithDescription("List needs in the marketplace, optionally filtered by owner."),
		mcp.WithString("user_id",
			mcp.Description("Optional owner UUID to filter by"),
		),
	), s.handleListNeeds)

	s.logger.InfoContext(ctx, "mcp gateway started", slog.String("transport", "stdio"))

	stdio := server.NewStdioServer(srv)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) handleFindMatches(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid user_id: must be a UUID"), nil
	}

	res, err := s.svc.FindMatches(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "mcp match computation failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return mcp.NewToolResultError(fmt.Sprintf("match computation failed: %v", err)), nil
	}

	return jsonResult(res)
}

func (s *Server) handleListOffers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := req.GetString("user_id", "")
	if filter == "" {
		offers, err := s.svc.Offers().ListAll(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing offers failed: %v", err)), nil
		}
		return jsonResult(offers)
	}

	userID, err := uuid.Parse(filter)
	if err != nil {
		return mcp.NewToolResultError("invalid user_id: must be a UUID"), nil
	}
	offers, err := s.svc.Offers().ListByUser(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing offers failed: %v", err)), nil
	}
	return jsonResult(offers)
}

func (s *Server) handleListNeeds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := req.GetString("user_id", "")
	if filter == "" {
		needs, err := s.svc.Needs().ListAll(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing needs failed: %v", err)), nil
		}
		return jsonResult(needs)
	}

	userID, err := uuid.Parse(filter)
	if err != nil {
		return mcp.NewToolResultError("invalid user_id: must be a UUID"), nil
	}
	needs, err := s.svc.Needs().ListByUser(ctx, userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing needs failed: %v", err)), nil
	}
	return jsonResult(needs)
}

// jsonResult serializes v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("serializing result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
