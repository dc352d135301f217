// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/harperreed/callcoach/coach"
	"github.com/harperreed/callcoach/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(ctx context.Context, c *coach.Coach, version string) error {
	log.Info("starting callcoach MCP server", "version", version, "llm", c.Generator != nil)

	server := handlers.NewServer(c, version)
	return server.Run(ctx, &mcp.StdioTransport{})
}
