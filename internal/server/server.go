package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/TheCaptain1810/neo4j-ogm/internal/graph"
	"github.com/TheCaptain1810/neo4j-ogm/internal/tools"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

// New creates a fully configured MCP server with all tools registered.
func New(engine *graph.Engine) *mcp.Server {
	dt := &tools.DocumentTools{Engine: engine}
	et := &tools.EntityTools{Engine: engine}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "docgraph",
		Version: Version,
	}, nil)

	// Document graph tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "insert_sample_data",
		Description: "Load the built-in sample data set, or a YAML/JSON bundle from path. Safe to repeat",
	}, dt.InsertSampleData)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_document_graph",
		Description: "Atomically create a document with its users, folder, session, metadata, versions, classifications and edits",
	}, dt.CreateDocumentGraph)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "export_document",
		Description: "Export a document and everything reachable from it as one JSON object",
	}, dt.ExportDocument)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "export_document_metadata",
		Description: "Export the file metadata of a document",
	}, dt.ExportDocumentMetadata)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "export_user_edits",
		Description: "List every user edit, ordered by document then edit time",
	}, dt.ExportUserEdits)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document with its metadata, versions, classifications and edits. Users, folders and sessions stay",
	}, dt.DeleteDocument)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_all_data",
		Description: "Delete every node and relationship, dependents first (irreversible, requires confirm=true)",
	}, dt.DeleteAllData)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Count stored nodes per label and relationships overall",
	}, dt.GraphStats)

	// Independent entity tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "upsert_users",
		Description: "Create users that do not exist yet; existing users are left unchanged",
	}, et.UpsertUsers)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "upsert_folders",
		Description: "Create folders that do not exist yet; existing folders are left unchanged",
	}, et.UpsertFolders)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "upsert_sessions",
		Description: "Create processing sessions that do not exist yet",
	}, et.UpsertSessions)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "upsert_classifiers",
		Description: "Create classifiers with their codes and parent links. Rejects hierarchy cycles",
	}, et.UpsertClassifiers)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "upsert_enrichers",
		Description: "Create enrichers keyed by name",
	}, et.UpsertEnrichers)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "export_session",
		Description: "Export a processing session by id",
	}, et.ExportSession)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "export_session_standard",
		Description: "Export the classifier and enricher configuration shared by all sessions",
	}, et.ExportSessionStandard)

	return srv
}
