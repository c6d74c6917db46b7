package server

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/graph"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

// setupIntegration creates a real MCP server with in-memory transport and returns a connected client session.
func setupIntegration(t *testing.T) *mcp.ClientSession {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "docgraph.db"), 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := New(graph.NewEngine(store, zap.NewNop()))

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	_, err = srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err, "server connect")

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err, "client connect")
	t.Cleanup(func() { session.Close() })

	return session
}

func call(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool(%s)", name)
	require.NotEmpty(t, result.Content, "CallTool(%s): empty content", name)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

// callTool calls a tool, fails on an error result and decodes the JSON text into out.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args any, out any) {
	t.Helper()
	result := call(t, session, name, args)
	body := text(t, result)
	require.False(t, result.IsError, "CallTool(%s) returned error: %s", name, body)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(body), out), "parse %s", name)
	}
}

// callToolExpectError calls a tool and expects an error response (IsError=true).
func callToolExpectError(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result := call(t, session, name, args)
	body := text(t, result)
	require.True(t, result.IsError, "CallTool(%s): expected error but got success: %s", name, body)
	return body
}

func documentGraph(docID string) models.DocumentGraph {
	return models.DocumentGraph{
		Document: models.Document{
			ID:                   docID,
			Name:                 "Site survey.pdf",
			Label:                "Site survey.pdf",
			Size:                 2048,
			Source:               "sharepoint",
			Type:                 "application/pdf",
			CreatedDateTime:      "2024-12-17T10:31:25Z",
			LastModifiedDateTime: "2024-12-18T09:00:00Z",
			WebURL:               "https://example.sharepoint.com/Reports/Site%20survey.pdf",
			DownloadURL:          "https://example.sharepoint.com/download/" + docID,
			DriveID:              "drive-1",
			SiteID:               "site-1",
			Status:               "N/A",
		},
		CreatedBy:      "U1",
		LastModifiedBy: "U1",
		FolderID:       "F1",
		Users:          []models.User{{ID: "U1", Email: "u1@example.com", DisplayName: "User One"}},
		Folder: &models.Folder{
			ID:        "F1",
			Name:      "Reports",
			Path:      "/drives/drive-1/root:/Reports",
			DriveType: "documentLibrary",
			DriveID:   "drive-1",
			SiteID:    "site-1",
		},
		Metadata: &models.FileMetadata{
			MimeType:             "application/pdf",
			QuickXorHash:         "yXrJBwDlOIJTPw9eEQO6o2UT8NE=",
			SharedScope:          "users",
			CreatedDateTime:      "2024-12-17T10:31:25Z",
			LastModifiedDateTime: "2024-12-18T09:00:00Z",
		},
		Versions: []models.Version{
			{VersionNumber: 1, ETag: `"{E1},1"`, CTag: `"c:{E1},1"`, Timestamp: "2024-12-17T10:31:25Z"},
		},
	}
}

func TestIntegration_ListTools(t *testing.T) {
	session := setupIntegration(t)

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	expectedTools := []string{
		"insert_sample_data", "create_document_graph", "export_document",
		"export_document_metadata", "export_user_edits", "delete_document",
		"delete_all_data", "graph_stats",
		"upsert_users", "upsert_folders", "upsert_sessions",
		"upsert_classifiers", "upsert_enrichers",
		"export_session", "export_session_standard",
	}

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, expectedTools, names)
}

func TestIntegration_FullWorkflow(t *testing.T) {
	session := setupIntegration(t)

	// Step 1: the store starts empty
	var stats models.GraphStats
	callTool(t, session, "graph_stats", nil, &stats)
	assert.True(t, stats.Empty())

	// Step 2: create a document graph
	var created models.CreateResult
	callTool(t, session, "create_document_graph", map[string]any{"graph": documentGraph("D1")}, &created)
	assert.Equal(t, "D1", created.DocumentID)
	assert.Equal(t, 5, created.RelationshipsCreated)

	// Step 3: resubmitting creates nothing
	callTool(t, session, "create_document_graph", map[string]any{"graph": documentGraph("D1")}, &created)
	assert.Zero(t, created.RelationshipsCreated)
	assert.Equal(t, 5, created.RelationshipsExisted)

	// Step 4: export
	var out models.DocumentExport
	callTool(t, session, "export_document", map[string]any{"document_id": "D1"}, &out)
	assert.Equal(t, "D1", out.ID)
	require.NotNil(t, out.CreatedBy)
	assert.Equal(t, "User One", out.CreatedBy.DisplayName)
	require.NotNil(t, out.ParentReference)
	assert.Equal(t, "Reports", out.ParentReference.Name)
	assert.Len(t, out.Versions, 1)
	assert.Equal(t, `"c:{E1},1"`, out.CTag)

	var meta models.FileMetadata
	callTool(t, session, "export_document_metadata", map[string]any{"document_id": "D1"}, &meta)
	assert.Equal(t, "application/pdf", meta.MimeType)

	// Step 5: classifiers, parent supplied after the child
	var upserts []models.UpsertResult
	callTool(t, session, "upsert_classifiers", map[string]any{
		"classifiers": []models.ClassifierBundle{
			{
				Classifier: models.Classifier{ID: "ISO2", Name: "Originator", ParentID: "ISO1", Prompt: "p", Description: "d"},
				Data:       []models.ClassifierData{{Code: "HOP", Description: "Hoppa"}},
			},
			{Classifier: models.Classifier{ID: "ISO1", Name: "Project", Prompt: "p", Description: "d"}},
		},
	}, &upserts)
	assert.Len(t, upserts, 3)

	var standard models.SessionStandardExport
	callTool(t, session, "export_session_standard", nil, &standard)
	require.Len(t, standard.Classifiers, 2)
	assert.Equal(t, "ISO1", standard.Classifiers[0].ID)
	assert.Len(t, standard.Classifiers[1].Data, 1)

	// Step 6: scoped delete keeps the user and folder
	var report models.DeleteReport
	callTool(t, session, "delete_document", map[string]any{"document_id": "D1"}, &report)
	assert.Equal(t, int64(1), report.Nodes[models.LabelDocument])

	errText := callToolExpectError(t, session, "export_document", map[string]any{"document_id": "D1"})
	assert.True(t, strings.HasPrefix(errText, "not_found:"), errText)

	callTool(t, session, "graph_stats", nil, &stats)
	assert.Equal(t, int64(1), stats.Nodes[models.LabelUser])
	assert.Equal(t, int64(1), stats.Nodes[models.LabelFolder])

	// Step 7: wipe
	errText = callToolExpectError(t, session, "delete_all_data", map[string]any{"confirm": false})
	assert.True(t, strings.HasPrefix(errText, "validation_error:"), errText)

	callTool(t, session, "delete_all_data", map[string]any{"confirm": true}, &report)
	callTool(t, session, "graph_stats", nil, &stats)
	assert.True(t, stats.Empty())
}

func TestIntegration_SampleData(t *testing.T) {
	session := setupIntegration(t)

	var summary struct {
		Documents    []string `json:"documents"`
		NodesCreated int      `json:"nodes_created"`
	}
	callTool(t, session, "insert_sample_data", nil, &summary)
	assert.Len(t, summary.Documents, 4)
	assert.Positive(t, summary.NodesCreated)

	callTool(t, session, "insert_sample_data", nil, &summary)
	assert.Zero(t, summary.NodesCreated)

	var s models.Session
	callTool(t, session, "export_session", map[string]any{"session_id": "soft-mails-cry"}, &s)
	assert.Equal(t, 52, s.FileCount)

	var edits []models.UserEdit
	callTool(t, session, "export_user_edits", nil, &edits)
	assert.Len(t, edits, 5)
}

func TestIntegration_ErrorCases(t *testing.T) {
	session := setupIntegration(t)

	// Unresolved user reference
	g := documentGraph("D1")
	g.Users = nil
	errText := callToolExpectError(t, session, "create_document_graph", map[string]any{"graph": g})
	assert.True(t, strings.HasPrefix(errText, "referential_integrity:"), errText)

	var stats models.GraphStats
	callTool(t, session, "graph_stats", nil, &stats)
	assert.True(t, stats.Empty(), "failed creation must leave the store unchanged")

	errText = callToolExpectError(t, session, "export_document", map[string]any{"document_id": ""})
	assert.True(t, strings.HasPrefix(errText, "validation_error:"), errText)

	errText = callToolExpectError(t, session, "export_session", map[string]any{"session_id": "missing"})
	assert.True(t, strings.HasPrefix(errText, "not_found:"), errText)

	errText = callToolExpectError(t, session, "delete_document", map[string]any{"document_id": "missing"})
	assert.True(t, strings.HasPrefix(errText, "not_found:"), errText)

	errText = callToolExpectError(t, session, "upsert_classifiers", map[string]any{
		"classifiers": []models.ClassifierBundle{
			{Classifier: models.Classifier{ID: "C1", Name: "Loop", ParentID: "C1", Prompt: "p", Description: "d"}},
		},
	})
	assert.True(t, strings.HasPrefix(errText, "hierarchy_cycle:"), errText)

	errText = callToolExpectError(t, session, "insert_sample_data", map[string]any{
		"path": filepath.Join(t.TempDir(), "missing.yaml"),
	})
	assert.True(t, strings.HasPrefix(errText, "validation_error:"), errText)
}
