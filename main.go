package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidarchive/mcp-server/tools"
)

const (
	version     = "0.3.1"
	serverName  = "vidarchive-mcp-server"
	description = "MCP server exposing a markdown video archive: search, structure, stats, validation"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	// Set up logging to stderr (MCP uses stdout for protocol)
	log.SetOutput(os.Stderr)
	log.Printf("%s v%s starting...", serverName, version)

	server := createMCPServer()

	if err := registerTools(server); err != nil {
		log.Fatalf("Failed to register tools: %v", err)
	}

	log.Printf("✓ Server ready and waiting for connections")

	// Set up cleanup on shutdown
	defer func() {
		if err := tools.CloseSearch(); err != nil {
			log.Printf("Error closing archive search: %v", err)
		}
	}()

	// Run server with stdio transport
	ctx := context.Background()
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// createMCPServer initializes the MCP server
func createMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		nil, // Default options
	)

	log.Printf("Server initialized: %s v%s", serverName, version)
	return server
}

// registerTools registers all MCP tools
func registerTools(server *mcp.Server) error {
	toolCount := 0

	// Archive browsing tools (3 tools)
	if err := tools.RegisterArchiveTools(server); err != nil {
		return fmt.Errorf("failed to register archive tools: %w", err)
	}
	toolCount += 3

	// Search tools (2 tools) - degraded, not fatal, when the index
	// cannot be opened
	if err := tools.RegisterSearchTools(server); err != nil {
		log.Printf("Warning: Failed to register search tools: %v", err)
		log.Printf("Archive search will be unavailable")
	} else {
		toolCount += 2
	}

	// Validation tool (1 tool)
	if err := tools.RegisterValidationTools(server); err != nil {
		return fmt.Errorf("failed to register validation tools: %w", err)
	}
	toolCount++

	// Generation tool (1 tool)
	if err := tools.RegisterGenerationTools(server); err != nil {
		return fmt.Errorf("failed to register generation tools: %w", err)
	}
	toolCount++

	// Site diagnostics tool (1 tool)
	tools.RegisterSiteTools(server)
	toolCount++

	log.Printf("✓ All tools registered: %d tools (archive + search + validation + generation + site)", toolCount)
	return nil
}
