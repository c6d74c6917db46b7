package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/TheCaptain1810/neo4j-ogm/internal/apperror"
	"github.com/TheCaptain1810/neo4j-ogm/internal/graph"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/seed"
)

// DocumentTools holds references needed by document graph tool handlers.
type DocumentTools struct {
	Engine *graph.Engine
}

// --- Input types ---

type InsertSampleDataInput struct {
	Path string `json:"path,omitempty" jsonschema:"Optional .yaml, .yml or .json seed bundle; the built-in sample set is used when empty"`
}

type CreateDocumentGraphInput struct {
	Graph models.DocumentGraph `json:"graph" jsonschema:"Document with its users, folder, session, metadata, versions, classifications and edits"`
}

type DocumentIDInput struct {
	DocumentID string `json:"document_id" jsonschema:"Document key"`
}

type DeleteAllDataInput struct {
	Confirm bool `json:"confirm" jsonschema:"Must be true. Removes every node and relationship"`
}

// --- Handlers ---

func (t *DocumentTools) InsertSampleData(ctx context.Context, _ *mcp.CallToolRequest, input InsertSampleDataInput) (*mcp.CallToolResult, any, error) {
	var (
		bundle *seed.Bundle
		err    error
	)
	if input.Path == "" {
		bundle, err = seed.Default()
	} else {
		bundle, err = seed.Load(input.Path)
	}
	if err != nil {
		return toolFailure(apperror.ErrValidation.WithMessage("Failed to load seed bundle").WithInternal(err))
	}

	report, err := seed.Apply(ctx, t.Engine, bundle)
	if err != nil {
		return toolFailure(err)
	}

	documents := make([]string, 0, len(report.Documents))
	for _, d := range report.Documents {
		documents = append(documents, d.DocumentID)
	}
	return toolJSON(map[string]any{
		"documents":     documents,
		"nodes_created": report.Created(),
	})
}

func (t *DocumentTools) CreateDocumentGraph(ctx context.Context, _ *mcp.CallToolRequest, input CreateDocumentGraphInput) (*mcp.CallToolResult, any, error) {
	res, err := t.Engine.CreateDocumentGraph(ctx, input.Graph)
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(res)
}

func (t *DocumentTools) ExportDocument(ctx context.Context, _ *mcp.CallToolRequest, input DocumentIDInput) (*mcp.CallToolResult, any, error) {
	if input.DocumentID == "" {
		return missing("document_id")
	}
	out, err := t.Engine.ExportDocument(ctx, input.DocumentID)
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(out)
}

func (t *DocumentTools) ExportDocumentMetadata(ctx context.Context, _ *mcp.CallToolRequest, input DocumentIDInput) (*mcp.CallToolResult, any, error) {
	if input.DocumentID == "" {
		return missing("document_id")
	}
	out, err := t.Engine.ExportDocumentMetadata(ctx, input.DocumentID)
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(out)
}

func (t *DocumentTools) ExportUserEdits(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	edits, err := t.Engine.ExportUserEdits(ctx)
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(edits)
}

func (t *DocumentTools) DeleteDocument(ctx context.Context, _ *mcp.CallToolRequest, input DocumentIDInput) (*mcp.CallToolResult, any, error) {
	if input.DocumentID == "" {
		return missing("document_id")
	}
	report, err := t.Engine.DeleteDocument(ctx, input.DocumentID)
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(report)
}

func (t *DocumentTools) DeleteAllData(ctx context.Context, _ *mcp.CallToolRequest, input DeleteAllDataInput) (*mcp.CallToolResult, any, error) {
	if !input.Confirm {
		return toolFailure(apperror.NewValidation("confirm must be true to delete all data"))
	}
	report, err := t.Engine.DeleteAllData(ctx)
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(report)
}

func (t *DocumentTools) GraphStats(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	stats, err := t.Engine.GraphStats(ctx)
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(stats)
}
