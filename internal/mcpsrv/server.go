// Package mcpsrv exposes annotation extraction and schema generation as MCP
// tools over stdio.
package mcpsrv

import (
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName is the MCP server name
	ServerName = "schemadoc"
	// ServerVersion is the current server version
	ServerVersion = "0.1.0"
)

// Server wraps the MCP server around the extraction pipeline. The pipeline
// is stateless: every tool call parses its source tree fresh.
type Server struct {
	mcp *server.MCPServer
}

// NewServer creates a new MCP server instance with all tools registered.
func NewServer() *Server {
	s := &Server{mcp: server.NewMCPServer(ServerName, ServerVersion)}
	s.mcp.AddTool(extractAnnotationsTool(), s.handleExtractAnnotations)
	s.mcp.AddTool(generateSchemasTool(), s.handleGenerateSchemas)
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
