package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/apperror"
	"github.com/TheCaptain1810/neo4j-ogm/internal/graph"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

const sampleDocumentID = "01FCBACZIFWRL22JSIMJAYZJ5UAYIDY36K"

func setupEngine(t *testing.T) *graph.Engine {
	t.Helper()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "graph.db"), 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return graph.NewEngine(store, zap.NewNop())
}

func TestDefault(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	assert.Len(t, b.Users, 1)
	assert.Len(t, b.Folders, 1)
	assert.Len(t, b.Sessions, 1)
	assert.Len(t, b.Classifiers, 6)
	assert.Len(t, b.Enrichers, 7)
	require.Len(t, b.Documents, 4)

	doc := b.Documents[0]
	assert.Equal(t, sampleDocumentID, doc.Document.ID)
	assert.Equal(t, int64(3040), doc.Document.Size)
	require.NotNil(t, doc.Metadata)
	assert.Equal(t, "yXrJBwDlOIJTPw9eEQO6o2UT8NE=", doc.Metadata.QuickXorHash)
	require.Len(t, doc.Versions, 1)
	assert.Equal(t, `"{AD57B405-4826-4162-8CA7-B406103C6FCA},1"`, doc.Versions[0].ETag)
	assert.Equal(t, "426100", doc.Classifications[0].Code)
}

func TestParse_JSON(t *testing.T) {
	b, err := Parse([]byte(`{"users":[{"id":"U1","email":"u1@example.com","display_name":"One"}]}`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, b.Users, 1)
	assert.Equal(t, "One", b.Users[0].DisplayName)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("users:\n  - id: U1\n    displayName: One\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(`{}`), Format("toml"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "users.yml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  - id: U1\n    email: u1@example.com\n"), 0o644))
	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", b.Users[0].Email)

	_, err = Load(filepath.Join(dir, "users.txt"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	b, err := Default()
	require.NoError(t, err)

	report, err := Apply(ctx, e, b)
	require.NoError(t, err)
	assert.Len(t, report.Documents, 4)
	assert.Positive(t, report.Created())

	out, err := e.ExportDocument(ctx, sampleDocumentID)
	require.NoError(t, err)
	assert.Equal(t, "Tom Goldsmith", out.CreatedBy.DisplayName)
	assert.Equal(t, "Borehole Records - Petersfield", out.ParentReference.Name)
	assert.Equal(t, "application/pdf", out.File.MimeType)
	assert.Equal(t, `"c:{AD57B405-4826-4162-8CA7-B406103C6FCA},1"`, out.CTag)

	standard, err := e.ExportSessionStandard(ctx)
	require.NoError(t, err)
	assert.Len(t, standard.Classifiers, 6)
	assert.Len(t, standard.Enrichers, 7)

	edits, err := e.ExportUserEdits(ctx)
	require.NoError(t, err)
	assert.Len(t, edits, 5)

	session, err := e.ExportSession(ctx, "soft-mails-cry")
	require.NoError(t, err)
	assert.Equal(t, 52, session.FileCount)
}

func TestApply_Idempotent(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	b, err := Default()
	require.NoError(t, err)

	_, err = Apply(ctx, e, b)
	require.NoError(t, err)
	before, err := e.GraphStats(ctx)
	require.NoError(t, err)

	report, err := Apply(ctx, e, b)
	require.NoError(t, err)
	assert.Zero(t, report.Created())

	after, err := e.GraphStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, int64(4), after.Nodes[models.LabelDocument])
}

func TestApply_StopsOnFailure(t *testing.T) {
	e := setupEngine(t)
	b := &Bundle{
		Users: []models.User{{ID: "U1"}},
		Documents: []models.DocumentGraph{
			{Document: models.Document{ID: "D1"}, CreatedBy: "U1"},
			{Document: models.Document{ID: "D2"}, FolderID: "missing"},
		},
	}

	report, err := Apply(context.Background(), e, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrReferentialIntegrity)
	assert.Len(t, report.Documents, 1)
}
