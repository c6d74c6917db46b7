package graph

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCaptain1810/neo4j-ogm/internal/apperror"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

func TestDeletionOrder(t *testing.T) {
	order := deletionOrder()
	assert.ElementsMatch(t, models.AllLabels, order)

	for _, r := range cascadeRules {
		assert.Less(t, slices.Index(order, r.Dependent), slices.Index(order, r.Parent),
			"%s must be deleted before %s", r.Dependent, r.Parent)
	}
}

// populate stores one of everything.
func populate(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()

	g := fullGraph("D1")
	g.Session = &models.Session{SessionID: "S1", SessionName: "soft-mails-cry"}
	g.Versions = append(g.Versions, models.Version{VersionNumber: 2, ETag: "e2", CTag: "c2"})
	g.Classifications = []models.BGSClassification{{Code: "GEO"}}
	g.Edits = []models.UserEdit{{Field: "label", EditedBy: "U1", EditedAt: "2024-03-04T10:00:00Z"}}
	_, err := e.CreateDocumentGraph(ctx, g)
	require.NoError(t, err)

	_, err = e.UpsertClassifiers(ctx, []models.ClassifierBundle{
		{Classifier: models.Classifier{ID: "ISO1"}, Data: []models.ClassifierData{{Code: "P1"}}},
		{Classifier: models.Classifier{ID: "ISO2", ParentID: "ISO1"}, Data: []models.ClassifierData{{Code: "GE"}}},
	})
	require.NoError(t, err)
	_, err = e.UpsertEnrichers(ctx, []models.Enricher{{Name: "Site name"}})
	require.NoError(t, err)

	s := stats(t, e)
	for _, label := range models.AllLabels {
		require.NotZero(t, s.Nodes[label], label)
	}
}

func TestDeleteAllData(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	populate(t, e)
	before := stats(t, e)

	report, err := e.DeleteAllData(ctx)
	require.NoError(t, err)

	assert.Equal(t, before.Nodes, report.Nodes)
	assert.Equal(t, before.Relationships, report.Relationships)
	assert.True(t, stats(t, e).Empty())

	_, err = e.ExportDocument(ctx, "D1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = e.ExportSession(ctx, "S1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = e.store.View(ctx, func(tx storage.Tx) error {
		for _, label := range models.AllLabels {
			nodes, err := tx.ListNodes(ctx, label)
			require.NoError(t, err)
			assert.Empty(t, nodes, label)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteAllData_EmptyStore(t *testing.T) {
	e := setupEngine(t)

	for i := 0; i < 2; i++ {
		report, err := e.DeleteAllData(context.Background())
		require.NoError(t, err)
		assert.Zero(t, report.Relationships)
		for _, n := range report.Nodes {
			assert.Zero(t, n)
		}
	}
}

func TestEndToEndScenario(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	_, err := e.UpsertUsers(ctx, []models.User{testUser("U1")})
	require.NoError(t, err)
	_, err = e.UpsertFolders(ctx, []models.Folder{*testFolder("F1")})
	require.NoError(t, err)
	_, err = e.CreateDocumentGraph(ctx, models.DocumentGraph{
		Document:       testDocument("D1"),
		CreatedBy:      "U1",
		LastModifiedBy: "U1",
		FolderID:       "F1",
		Metadata:       &models.FileMetadata{MimeType: "application/pdf", QuickXorHash: "abc"},
		Versions:       []models.Version{{VersionNumber: 1, ETag: "e1", CTag: "c1"}},
	})
	require.NoError(t, err)

	out, err := e.ExportDocument(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, "U1", out.CreatedBy.ID)
	assert.Equal(t, "F1", out.ParentReference.ID)
	assert.Equal(t, "application/pdf", out.File.MimeType)
	assert.Equal(t, "e1", out.ETag)

	_, err = e.DeleteAllData(ctx)
	require.NoError(t, err)

	_, err = e.ExportDocument(ctx, "D1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteDocument(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	populate(t, e)
	_, err := e.CreateDocumentGraph(ctx, fullGraph("D2"))
	require.NoError(t, err)

	report, err := e.DeleteDocument(ctx, "D1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Nodes[models.LabelDocument])
	assert.Equal(t, int64(1), report.Nodes[models.LabelFileMetadata])
	assert.Equal(t, int64(2), report.Nodes[models.LabelVersion])
	assert.Equal(t, int64(1), report.Nodes[models.LabelBGSClassification])
	assert.Equal(t, int64(1), report.Nodes[models.LabelUserEdit])

	_, err = e.ExportDocument(ctx, "D1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	s := stats(t, e)
	assert.Equal(t, int64(1), s.Nodes[models.LabelDocument])
	assert.Equal(t, int64(1), s.Nodes[models.LabelVersion])
	assert.Equal(t, int64(1), s.Nodes[models.LabelUser])
	assert.Equal(t, int64(1), s.Nodes[models.LabelFolder])
	assert.Equal(t, int64(1), s.Nodes[models.LabelSession])
	assert.Zero(t, s.Nodes[models.LabelUserEdit])

	out, err := e.ExportDocument(ctx, "D2")
	require.NoError(t, err)
	assert.Equal(t, "U1", out.CreatedBy.ID)
	assert.Equal(t, "e1", out.ETag)
}

func TestDeleteDocument_NotFound(t *testing.T) {
	e := setupEngine(t)

	_, err := e.DeleteDocument(context.Background(), "nope")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
