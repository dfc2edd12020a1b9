package mcpsrv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/example/schemadoc/internal/annotations"
	"github.com/example/schemadoc/internal/resolver"
	"github.com/example/schemadoc/internal/schema"
)

// extractAnnotationsTool returns the tool definition for extract_annotations
func extractAnnotationsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "extract_annotations",
		Description: "Extract doc-comment schema annotations from a Go source tree",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the Go source directory to analyze",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Restrict extraction to one declared type name",
				},
				"markdown": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include markdownDescription fields",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// generateSchemasTool returns the tool definition for generate_schemas
func generateSchemasTool() mcp.Tool {
	return mcp.Tool{
		Name:        "generate_schemas",
		Description: "Generate annotated JSON Schema definitions for every type in a Go source tree",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the Go source directory to analyze",
				},
				"markdown": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include markdownDescription fields",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// handleExtractAnnotations handles the extract_annotations tool invocation
func (s *Server) handleExtractAnnotations(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid arguments")
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("path parameter is required")
	}
	if err := validatePath(path); err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	typeName, _ := args["type"].(string)
	markdown, _ := args["markdown"].(bool)

	reader, prog, err := newPipeline(path, markdown)
	if err != nil {
		return nil, err
	}

	if typeName != "" {
		node := prog.TypeNode(typeName)
		rec := reader.GetAnnotations(node)
		response := map[string]interface{}{
			"type":      typeName,
			"annotated": rec != nil,
			"nullable":  reader.IsNullable(node),
		}
		if rec != nil {
			response["annotations"] = rec
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	records := map[string]annotations.Record{}
	for _, td := range prog.TypeDecls() {
		if rec := reader.GetAnnotations(td.Spec); rec != nil {
			records[td.Name] = rec
		}
	}
	response := map[string]interface{}{
		"annotated":   len(records) > 0,
		"annotations": records,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGenerateSchemas handles the generate_schemas tool invocation
func (s *Server) handleGenerateSchemas(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid arguments")
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("path parameter is required")
	}
	if err := validatePath(path); err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	markdown, _ := args["markdown"].(bool)

	reader, prog, err := newPipeline(path, markdown)
	if err != nil {
		return nil, err
	}

	doc := schema.NewBuilder(prog, reader).Build()
	return mcp.NewToolResultText(formatJSON(doc)), nil
}

func newPipeline(path string, markdown bool) (*annotations.ExtendedReader, *resolver.Program, error) {
	prog := resolver.NewProgram()
	if err := prog.ParseDirectory(path); err != nil {
		return nil, nil, fmt.Errorf("parse source: %w", err)
	}
	base := annotations.NewReader(prog)
	return annotations.NewExtendedReader(prog, base, markdown), prog, nil
}

// validatePath checks that a path exists and is a directory.
func validatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func formatJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}
