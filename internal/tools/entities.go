package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/TheCaptain1810/neo4j-ogm/internal/graph"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
)

// EntityTools holds references needed by handlers for entities that live
// independently of any single document.
type EntityTools struct {
	Engine *graph.Engine
}

// --- Input types ---

type UpsertUsersInput struct {
	Users []models.User `json:"users" jsonschema:"Users to store, keyed by id"`
}

type UpsertFoldersInput struct {
	Folders []models.Folder `json:"folders" jsonschema:"Folders to store, keyed by id"`
}

type UpsertSessionsInput struct {
	Sessions []models.Session `json:"sessions" jsonschema:"Processing sessions to store, keyed by session_id"`
}

type UpsertClassifiersInput struct {
	Classifiers []models.ClassifierBundle `json:"classifiers" jsonschema:"Classifiers with their codes; parent_id must name a stored classifier or one in this call"`
}

type UpsertEnrichersInput struct {
	Enrichers []models.Enricher `json:"enrichers" jsonschema:"Enrichers to store, keyed by name"`
}

type ExportSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"Session key"`
}

// --- Handlers ---

func (t *EntityTools) UpsertUsers(ctx context.Context, _ *mcp.CallToolRequest, input UpsertUsersInput) (*mcp.CallToolResult, any, error) {
	return upserted(t.Engine.UpsertUsers(ctx, input.Users))
}

func (t *EntityTools) UpsertFolders(ctx context.Context, _ *mcp.CallToolRequest, input UpsertFoldersInput) (*mcp.CallToolResult, any, error) {
	return upserted(t.Engine.UpsertFolders(ctx, input.Folders))
}

func (t *EntityTools) UpsertSessions(ctx context.Context, _ *mcp.CallToolRequest, input UpsertSessionsInput) (*mcp.CallToolResult, any, error) {
	return upserted(t.Engine.UpsertSessions(ctx, input.Sessions))
}

func (t *EntityTools) UpsertClassifiers(ctx context.Context, _ *mcp.CallToolRequest, input UpsertClassifiersInput) (*mcp.CallToolResult, any, error) {
	return upserted(t.Engine.UpsertClassifiers(ctx, input.Classifiers))
}

func (t *EntityTools) UpsertEnrichers(ctx context.Context, _ *mcp.CallToolRequest, input UpsertEnrichersInput) (*mcp.CallToolResult, any, error) {
	return upserted(t.Engine.UpsertEnrichers(ctx, input.Enrichers))
}

func upserted(results []models.UpsertResult, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(results)
}

func (t *EntityTools) ExportSession(ctx context.Context, _ *mcp.CallToolRequest, input ExportSessionInput) (*mcp.CallToolResult, any, error) {
	if input.SessionID == "" {
		return missing("session_id")
	}
	s, err := t.Engine.ExportSession(ctx, input.SessionID)
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(s)
}

func (t *EntityTools) ExportSessionStandard(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	out, err := t.Engine.ExportSessionStandard(ctx)
	if err != nil {
		return toolFailure(err)
	}
	return toolJSON(out)
}
