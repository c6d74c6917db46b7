package graph

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

// setupEngine returns an engine over a fresh SQLite graph in a temp directory.
func setupEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "graph.db"), 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewEngine(store, zap.NewNop())
}

func testUser(id string) models.User {
	return models.User{ID: id, Email: id + "@example.com", DisplayName: "User " + id}
}

func testFolder(id string) *models.Folder {
	return &models.Folder{
		ID:        id,
		Name:      "Reports",
		Path:      "/drives/b!drive/root:/Reports",
		DriveType: "documentLibrary",
		DriveID:   "drive-1",
		SiteID:    "site-1",
	}
}

func testDocument(id string) models.Document {
	return models.Document{
		ID:                   id,
		Name:                 "survey.pdf",
		Label:                "Survey",
		Size:                 2048,
		Source:               "sharepoint",
		Type:                 "file",
		CreatedDateTime:      "2024-03-01T09:00:00Z",
		LastModifiedDateTime: "2024-03-02T09:00:00Z",
		WebURL:               "https://example.sharepoint.com/survey.pdf",
		DownloadURL:          "https://example.sharepoint.com/download/survey.pdf",
		DriveID:              "drive-1",
		SiteID:               "site-1",
		Status:               "processed",
	}
}

// fullGraph is a document with a creator, a folder, metadata and one version,
// all defined inline.
func fullGraph(docID string) models.DocumentGraph {
	return models.DocumentGraph{
		Document:       testDocument(docID),
		CreatedBy:      "U1",
		LastModifiedBy: "U1",
		Users:          []models.User{testUser("U1")},
		Folder:         testFolder("F1"),
		Metadata: &models.FileMetadata{
			MimeType:             "application/pdf",
			QuickXorHash:         "abc",
			SharedScope:          "users",
			CreatedDateTime:      "2024-03-01T09:00:00Z",
			LastModifiedDateTime: "2024-03-02T09:00:00Z",
		},
		Versions: []models.Version{
			{VersionNumber: 1, ETag: "e1", CTag: "c1", Timestamp: "2024-03-01T09:00:00Z"},
		},
	}
}

func stats(t *testing.T, e *Engine) *models.GraphStats {
	t.Helper()
	s, err := e.GraphStats(context.Background())
	require.NoError(t, err)
	return s
}
