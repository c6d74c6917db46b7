package graph

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/apperror"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

// CreateDocumentGraph materializes a document and the entities around it in
// one transaction. Every node is upserted: existing nodes keep their
// properties. Users, folders and sessions referenced by key must be stored
// already or supplied inline, otherwise nothing is written.
func (e *Engine) CreateDocumentGraph(ctx context.Context, g models.DocumentGraph) (*models.CreateResult, error) {
	if err := normalizeDocumentGraph(&g); err != nil {
		return nil, err
	}

	doc := g.Document.Ref()
	result := &models.CreateResult{DocumentID: g.Document.ID}
	var stats linkStats

	err := e.store.Update(ctx, func(tx storage.Tx) error {
		upsert := func(n models.Node) error {
			res, err := merge(ctx, tx, n)
			if err != nil {
				return err
			}
			result.Nodes = append(result.Nodes, res)
			return nil
		}

		// Independent entities first so inline definitions satisfy references.
		for _, u := range g.Users {
			if err := upsert(u); err != nil {
				return err
			}
		}
		if g.Folder != nil {
			if err := upsert(*g.Folder); err != nil {
				return err
			}
		}
		if g.Session != nil {
			if err := upsert(*g.Session); err != nil {
				return err
			}
		}

		var edges []models.Edge
		ref := func(rel models.RelType, from, to models.NodeRef) error {
			if err := requireNode(ctx, tx, to); err != nil {
				return err
			}
			edges = append(edges, models.Edge{Type: rel, From: from, To: to})
			return nil
		}
		if g.CreatedBy != "" {
			if err := ref(models.RelCreatedBy, doc, models.User{ID: g.CreatedBy}.Ref()); err != nil {
				return err
			}
		}
		if g.LastModifiedBy != "" {
			if err := ref(models.RelLastModifiedBy, doc, models.User{ID: g.LastModifiedBy}.Ref()); err != nil {
				return err
			}
		}
		if g.FolderID != "" {
			if err := ref(models.RelStoredIn, doc, models.Folder{ID: g.FolderID}.Ref()); err != nil {
				return err
			}
		}
		if g.SessionID != "" {
			if err := ref(models.RelInSession, doc, models.Session{SessionID: g.SessionID}.Ref()); err != nil {
				return err
			}
		}
		for _, ed := range g.Edits {
			if err := ref(models.RelEditedBy, ed.Ref(), models.User{ID: ed.EditedBy}.Ref()); err != nil {
				return err
			}
		}

		if err := upsert(g.Document); err != nil {
			return err
		}

		if g.Metadata != nil {
			if err := upsert(*g.Metadata); err != nil {
				return err
			}
			edges = append(edges, models.Edge{Type: models.RelHasMetadata, From: doc, To: g.Metadata.Ref()})
		}
		for _, v := range g.Versions {
			if err := upsert(v); err != nil {
				return err
			}
			edges = append(edges, models.Edge{Type: models.RelHasVersion, From: doc, To: v.Ref()})
		}
		for _, c := range g.Classifications {
			if err := upsert(c); err != nil {
				return err
			}
			edges = append(edges, models.Edge{Type: models.RelHasClassification, From: doc, To: c.Ref()})
		}
		for _, ed := range g.Edits {
			if err := upsert(ed); err != nil {
				return err
			}
			edges = append(edges, models.Edge{Type: models.RelHasUserEdit, From: doc, To: ed.Ref()})
		}

		for _, edge := range edges {
			if err := e.link(ctx, tx, edge, &stats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		e.log.Debug("document graph rejected", zap.String("document_id", g.Document.ID), zap.Error(err))
		return nil, asAppError(err, apperror.ErrStore)
	}

	result.RelationshipsCreated = stats.created
	result.RelationshipsExisted = stats.existed

	created := 0
	for _, n := range result.Nodes {
		if n.Created() {
			created++
		}
	}
	e.log.Info("document graph created",
		zap.String("document_id", result.DocumentID),
		zap.Int("nodes_created", created),
		zap.Int("nodes_existing", len(result.Nodes)-created),
		zap.Int("relationships_created", stats.created),
		zap.Int("relationships_kept", stats.skipped),
	)
	return result, nil
}

// normalizeDocumentGraph validates a creation request and fills in keys that
// are derived from the document: inline folder and session keys, dependent
// document ids and generated keys.
func normalizeDocumentGraph(g *models.DocumentGraph) error {
	g.Versions = slices.Clone(g.Versions)
	g.Classifications = slices.Clone(g.Classifications)
	g.Edits = slices.Clone(g.Edits)
	if g.Metadata != nil {
		m := *g.Metadata
		g.Metadata = &m
	}

	docID := g.Document.ID
	if docID == "" {
		return apperror.NewValidation("document id is required")
	}

	for _, u := range g.Users {
		if u.ID == "" {
			return apperror.NewValidation("user id is required")
		}
	}

	if g.Folder != nil {
		if g.Folder.ID == "" {
			return apperror.NewValidation("folder id is required")
		}
		if g.FolderID == "" {
			g.FolderID = g.Folder.ID
		} else if g.FolderID != g.Folder.ID {
			return apperror.NewValidation("folder_id %q does not match inline folder %q", g.FolderID, g.Folder.ID)
		}
	}

	if g.Session != nil {
		if g.Session.SessionID == "" {
			return apperror.NewValidation("session_id is required on inline session")
		}
		if g.SessionID == "" {
			g.SessionID = g.Session.SessionID
		} else if g.SessionID != g.Session.SessionID {
			return apperror.NewValidation("session_id %q does not match inline session %q", g.SessionID, g.Session.SessionID)
		}
	}

	if g.Metadata != nil {
		if err := ownedBy("metadata", &g.Metadata.DocumentID, docID); err != nil {
			return err
		}
	}

	seen := make(map[int]bool, len(g.Versions))
	for i := range g.Versions {
		v := &g.Versions[i]
		if err := ownedBy("version", &v.DocumentID, docID); err != nil {
			return err
		}
		if v.VersionNumber <= 0 {
			return apperror.NewValidation("version_number must be positive, got %d", v.VersionNumber)
		}
		if seen[v.VersionNumber] {
			return apperror.NewValidation("duplicate version_number %d", v.VersionNumber)
		}
		seen[v.VersionNumber] = true
		if v.ID == "" {
			v.ID = models.VersionKey(docID, v.VersionNumber)
		}
	}

	for i := range g.Classifications {
		c := &g.Classifications[i]
		if err := ownedBy("classification", &c.DocumentID, docID); err != nil {
			return err
		}
		if c.Code == "" {
			return apperror.NewValidation("classification code is required")
		}
		if c.ID == "" {
			c.ID = models.ClassificationKey(docID, c.Code)
		}
	}

	for i := range g.Edits {
		ed := &g.Edits[i]
		if err := ownedBy("user edit", &ed.DocumentID, docID); err != nil {
			return err
		}
		if ed.Field == "" {
			return apperror.NewValidation("user edit field is required")
		}
		if ed.EditedBy == "" {
			return apperror.NewValidation("user edit edited_by is required")
		}
		if ed.ID == "" {
			ed.ID = models.UserEditKey(docID, *ed)
		}
	}
	return nil
}

// ownedBy defaults *field to docID and rejects a different document.
func ownedBy(what string, field *string, docID string) error {
	switch *field {
	case "":
		*field = docID
	case docID:
	default:
		return apperror.NewValidation("%s belongs to document %q, not %q", what, *field, docID)
	}
	return nil
}
