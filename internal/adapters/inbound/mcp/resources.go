package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// registerResources registers all minvoice MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string, log *zap.Logger) {
	// 1. minvoice://clients - saved client directory
	s.AddResource(
		mcplib.NewResource(
			"minvoice://clients",
			"Clients",
			mcplib.WithResourceDescription("Saved clients in selection order"),
			mcplib.WithMIMEType("application/json"),
		),
		handleClientsResource(projectPath, log),
	)

	// 2. minvoice://config - effective render settings
	s.AddResource(
		mcplib.NewResource(
			"minvoice://config",
			"Config",
			mcplib.WithResourceDescription("Effective render settings after merging .minvoice.yaml over the defaults"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(projectPath, log),
	)
}

func handleClientsResource(projectPath string, log *zap.Logger) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		svc, err := newServices(projectPath, log)
		if err != nil {
			return nil, err
		}
		dir, err := svc.clients.List()
		if err != nil {
			return nil, err
		}
		return jsonResource("minvoice://clients", dir)
	}
}

func handleConfigResource(projectPath string, log *zap.Logger) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		svc, err := newServices(projectPath, log)
		if err != nil {
			return nil, err
		}
		return jsonResource("minvoice://config", svc.cfg)
	}
}

func jsonResource(uri string, v interface{}) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
