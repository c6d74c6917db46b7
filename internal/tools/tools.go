package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/TheCaptain1810/neo4j-ogm/internal/apperror"
)

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// toolFailure reports err as an error result whose text starts with the error code.
func toolFailure(err error) (*mcp.CallToolResult, any, error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return toolError("%s: %v", apperror.ErrStore.Code, err), nil, nil
	}
	text := err.Error()
	if !strings.HasPrefix(text, appErr.Code+":") {
		return toolError("%s: %s", appErr.Code, text), nil, nil
	}
	return toolError("%s", text), nil, nil
}

// missing reports an absent required argument.
func missing(field string) (*mcp.CallToolResult, any, error) {
	return toolFailure(apperror.NewValidation("%s is required", field))
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
