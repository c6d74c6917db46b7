package graph

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/apperror"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

func decode[T any](n storage.Node) (T, error) {
	var v T
	if err := json.Unmarshal(n.Props, &v); err != nil {
		return v, fmt.Errorf("decode %s %q: %w", n.Ref.Label, n.Ref.Key, err)
	}
	return v, nil
}

// get loads and decodes one node, reporting a coded not found error.
func get[T any](ctx context.Context, tx storage.Tx, ref models.NodeRef) (T, error) {
	n, err := tx.GetNode(ctx, ref)
	if errors.Is(err, storage.ErrNodeNotFound) {
		var zero T
		return zero, apperror.NewNotFound(string(ref.Label), ref.Key)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](n)
}

// follow decodes the targets of from's outgoing rel relationships.
func follow[T any](ctx context.Context, tx storage.Tx, from models.NodeRef, rel models.RelType) ([]T, error) {
	refs, err := tx.Neighbors(ctx, from, rel)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(refs))
	for _, ref := range refs {
		v, err := get[T](ctx, tx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// list decodes every node carrying label, ordered by key.
func list[T any](ctx context.Context, tx storage.Tx, label models.Label) ([]T, error) {
	nodes, err := tx.ListNodes(ctx, label)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		v, err := decode[T](n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ExportDocument assembles a document and everything reachable from it into
// one nested structure. Missing relationships leave their section out. The
// version with the highest number supplies the top-level eTag and cTag.
func (e *Engine) ExportDocument(ctx context.Context, documentID string) (*models.DocumentExport, error) {
	var out *models.DocumentExport
	err := e.store.View(ctx, func(tx storage.Tx) error {
		ref := models.Document{ID: documentID}.Ref()
		doc, err := get[models.Document](ctx, tx, ref)
		if err != nil {
			return err
		}

		x := &models.DocumentExport{
			Name:                 doc.Name,
			Source:               doc.Source,
			FileName:             doc.FileName,
			LastModifiedDate:     doc.LastModifiedDateTime,
			Size:                 doc.Size,
			ID:                   doc.ID,
			SiteID:               doc.SiteID,
			DriveID:              doc.DriveID,
			Label:                doc.Label,
			Type:                 doc.Type,
			DownloadURL:          doc.DownloadURL,
			CreatedDateTime:      doc.CreatedDateTime,
			LastModifiedDateTime: doc.LastModifiedDateTime,
			WebURL:               doc.WebURL,
			Status:               doc.Status,
			Description:          doc.Description,
			Versions:             []models.VersionExport{},
		}

		creators, err := follow[models.User](ctx, tx, ref, models.RelCreatedBy)
		if err != nil {
			return err
		}
		if len(creators) > 0 {
			x.CreatedBy = identity(creators[0])
		}

		modifiers, err := follow[models.User](ctx, tx, ref, models.RelLastModifiedBy)
		if err != nil {
			return err
		}
		if len(modifiers) > 0 {
			x.LastModifiedBy = identity(modifiers[0])
		}

		folders, err := follow[models.Folder](ctx, tx, ref, models.RelStoredIn)
		if err != nil {
			return err
		}
		if len(folders) > 0 {
			f := folders[0]
			x.ParentReference = &models.ParentReference{
				ID:        f.ID,
				Name:      f.Name,
				Path:      f.Path,
				DriveType: f.DriveType,
				DriveID:   f.DriveID,
				SiteID:    f.SiteID,
			}
		}

		metadata, err := follow[models.FileMetadata](ctx, tx, ref, models.RelHasMetadata)
		if err != nil {
			return err
		}
		if len(metadata) > 0 {
			m := metadata[0]
			x.File = &models.FileFacet{
				Hashes:   models.FileHashes{QuickXorHash: m.QuickXorHash},
				MimeType: m.MimeType,
			}
			x.FileSystemInfo = &models.FileSystemInfo{
				CreatedDateTime:      m.CreatedDateTime,
				LastModifiedDateTime: m.LastModifiedDateTime,
			}
			x.Shared = &models.SharedFacet{Scope: m.SharedScope}
		}

		versions, err := follow[models.Version](ctx, tx, ref, models.RelHasVersion)
		if err != nil {
			return err
		}
		slices.SortFunc(versions, func(a, b models.Version) int {
			return cmp.Compare(a.VersionNumber, b.VersionNumber)
		})
		for _, v := range versions {
			x.Versions = append(x.Versions, models.VersionExport{
				VersionNumber: v.VersionNumber,
				ETag:          v.ETag,
				CTag:          v.CTag,
				Timestamp:     v.Timestamp,
			})
		}
		if n := len(versions); n > 0 {
			x.ETag = versions[n-1].ETag
			x.CTag = versions[n-1].CTag
		}

		classifications, err := follow[models.BGSClassification](ctx, tx, ref, models.RelHasClassification)
		if err != nil {
			return err
		}
		slices.SortFunc(classifications, func(a, b models.BGSClassification) int {
			return cmp.Compare(a.Code, b.Code)
		})
		for _, c := range classifications {
			x.Classifications = append(x.Classifications, models.ClassificationExport{
				Code:        c.Code,
				Explanation: c.Explanation,
				Tooltip:     c.Tooltip,
				AppliedAt:   c.AppliedAt,
			})
		}

		out = x
		return nil
	})
	if err != nil {
		return nil, asAppError(err, apperror.ErrStore)
	}
	e.log.Debug("document exported", zap.String("document_id", documentID), zap.Int("versions", len(out.Versions)))
	return out, nil
}

func identity(u models.User) *models.IdentityExport {
	return &models.IdentityExport{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

// ExportDocumentMetadata returns the file metadata of a document.
func (e *Engine) ExportDocumentMetadata(ctx context.Context, documentID string) (*models.FileMetadata, error) {
	var out *models.FileMetadata
	err := e.store.View(ctx, func(tx storage.Tx) error {
		ref := models.Document{ID: documentID}.Ref()
		if _, err := get[models.Document](ctx, tx, ref); err != nil {
			return err
		}
		metadata, err := follow[models.FileMetadata](ctx, tx, ref, models.RelHasMetadata)
		if err != nil {
			return err
		}
		if len(metadata) == 0 {
			return apperror.NewNotFound(string(models.LabelFileMetadata), documentID)
		}
		out = &metadata[0]
		return nil
	})
	if err != nil {
		return nil, asAppError(err, apperror.ErrStore)
	}
	return out, nil
}

// ExportSession returns a stored processing session.
func (e *Engine) ExportSession(ctx context.Context, sessionID string) (*models.Session, error) {
	var out models.Session
	err := e.store.View(ctx, func(tx storage.Tx) error {
		s, err := get[models.Session](ctx, tx, models.Session{SessionID: sessionID}.Ref())
		out = s
		return err
	})
	if err != nil {
		return nil, asAppError(err, apperror.ErrStore)
	}
	return &out, nil
}

// ExportSessionStandard returns the classifier and enricher configuration:
// classifiers by id with their codes by code, enrichers by name.
func (e *Engine) ExportSessionStandard(ctx context.Context) (*models.SessionStandardExport, error) {
	out := &models.SessionStandardExport{
		Classifiers: []models.ClassifierExport{},
		Enrichers:   []models.Enricher{},
	}
	err := e.store.View(ctx, func(tx storage.Tx) error {
		classifiers, err := list[models.Classifier](ctx, tx, models.LabelClassifier)
		if err != nil {
			return err
		}
		for _, c := range classifiers {
			data, err := follow[models.ClassifierData](ctx, tx, c.Ref(), models.RelHasData)
			if err != nil {
				return err
			}
			slices.SortFunc(data, func(a, b models.ClassifierData) int {
				return cmp.Compare(a.Code, b.Code)
			})
			// The PARENT edge is authoritative; stored properties keep the
			// first submission.
			parents, err := tx.Neighbors(ctx, c.Ref(), models.RelParent)
			if err != nil {
				return err
			}
			c.ParentID = ""
			if len(parents) > 0 {
				c.ParentID = parents[0].Key
			}
			out.Classifiers = append(out.Classifiers, models.ClassifierExport{Classifier: c, Data: data})
		}

		enrichers, err := list[models.Enricher](ctx, tx, models.LabelEnricher)
		if err != nil {
			return err
		}
		slices.SortFunc(enrichers, func(a, b models.Enricher) int {
			return cmp.Compare(a.Name, b.Name)
		})
		out.Enrichers = append(out.Enrichers, enrichers...)
		return nil
	})
	if err != nil {
		return nil, asAppError(err, apperror.ErrStore)
	}
	return out, nil
}

// ExportUserEdits returns every user edit attached to a document, ordered by
// document, then edit time.
func (e *Engine) ExportUserEdits(ctx context.Context) ([]models.UserEdit, error) {
	out := []models.UserEdit{}
	err := e.store.View(ctx, func(tx storage.Tx) error {
		edges, err := tx.Edges(ctx, models.RelHasUserEdit)
		if err != nil {
			return err
		}
		for _, edge := range edges {
			ed, err := get[models.UserEdit](ctx, tx, edge.To)
			if err != nil {
				return err
			}
			out = append(out, ed)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, apperror.ErrStore)
	}
	slices.SortStableFunc(out, func(a, b models.UserEdit) int {
		return cmp.Or(
			cmp.Compare(a.DocumentID, b.DocumentID),
			cmp.Compare(a.EditedAt, b.EditedAt),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out, nil
}

// GraphStats counts stored nodes per label and relationships overall.
func (e *Engine) GraphStats(ctx context.Context) (*models.GraphStats, error) {
	stats := &models.GraphStats{Nodes: make(map[models.Label]int64, len(models.AllLabels))}
	err := e.store.View(ctx, func(tx storage.Tx) error {
		for _, label := range models.AllLabels {
			n, err := tx.CountNodes(ctx, label)
			if err != nil {
				return err
			}
			stats.Nodes[label] = n
		}
		n, err := tx.CountEdges(ctx)
		if err != nil {
			return err
		}
		stats.Relationships = n
		return nil
	})
	if err != nil {
		return nil, asAppError(err, apperror.ErrStore)
	}
	return stats, nil
}
