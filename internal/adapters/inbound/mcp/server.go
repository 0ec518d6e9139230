package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewMinvoiceMCPServer creates an MCP server exposing quoting, generation and
// the client directory. Data file and output paths are resolved against
// projectPath, which is also where .minvoice.yaml and client_data.yml live.
func NewMinvoiceMCPServer(projectPath, version string, log *zap.Logger) *server.MCPServer {
	if log == nil {
		log = zap.NewNop()
	}
	s := server.NewMCPServer(
		"minvoice",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, log)
	registerResources(s, projectPath, log)

	return s
}
