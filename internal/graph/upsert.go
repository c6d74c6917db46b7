package graph

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/apperror"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

// upsertNodes validates items and upserts them in one transaction.
func upsertNodes[T models.Node](ctx context.Context, e *Engine, items []T, validate func(*T) error) ([]models.UpsertResult, error) {
	if len(items) == 0 {
		return []models.UpsertResult{}, nil
	}
	items = slices.Clone(items)
	for i := range items {
		if err := validate(&items[i]); err != nil {
			return nil, err
		}
	}

	results := make([]models.UpsertResult, 0, len(items))
	err := e.store.Update(ctx, func(tx storage.Tx) error {
		for _, item := range items {
			res, err := merge(ctx, tx, item)
			if err != nil {
				return err
			}
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, apperror.ErrStore)
	}
	e.logUpserts(results)
	return results, nil
}

func (e *Engine) logUpserts(results []models.UpsertResult) {
	if len(results) == 0 {
		return
	}
	created := 0
	for _, r := range results {
		if r.Created() {
			created++
		}
	}
	e.log.Info("nodes upserted",
		zap.String("label", string(results[0].Label)),
		zap.Int("created", created),
		zap.Int("existing", len(results)-created),
	)
}

// UpsertUsers stores users that are not stored yet.
func (e *Engine) UpsertUsers(ctx context.Context, users []models.User) ([]models.UpsertResult, error) {
	return upsertNodes(ctx, e, users, func(u *models.User) error {
		if u.ID == "" {
			return apperror.NewValidation("user id is required")
		}
		return nil
	})
}

// UpsertFolders stores folders that are not stored yet.
func (e *Engine) UpsertFolders(ctx context.Context, folders []models.Folder) ([]models.UpsertResult, error) {
	return upsertNodes(ctx, e, folders, func(f *models.Folder) error {
		if f.ID == "" {
			return apperror.NewValidation("folder id is required")
		}
		return nil
	})
}

// UpsertSessions stores processing sessions that are not stored yet.
func (e *Engine) UpsertSessions(ctx context.Context, sessions []models.Session) ([]models.UpsertResult, error) {
	return upsertNodes(ctx, e, sessions, func(s *models.Session) error {
		if s.SessionID == "" {
			return apperror.NewValidation("session_id is required")
		}
		return nil
	})
}

// UpsertEnrichers stores enrichers keyed by name.
func (e *Engine) UpsertEnrichers(ctx context.Context, enrichers []models.Enricher) ([]models.UpsertResult, error) {
	return upsertNodes(ctx, e, enrichers, func(en *models.Enricher) error {
		if en.Name == "" {
			return apperror.NewValidation("enricher name is required")
		}
		if en.ID == "" {
			en.ID = models.EnricherKey(en.Name)
		}
		return nil
	})
}

// UpsertClassifiers stores classifiers with their codes and links each to its
// parent. A parent must be stored already or be part of the same call, and a
// link that would close a loop in the hierarchy is rejected.
func (e *Engine) UpsertClassifiers(ctx context.Context, bundles []models.ClassifierBundle) ([]models.UpsertResult, error) {
	if len(bundles) == 0 {
		return []models.UpsertResult{}, nil
	}
	bundles = slices.Clone(bundles)
	for i := range bundles {
		bundles[i].Data = slices.Clone(bundles[i].Data)
		if err := normalizeClassifier(&bundles[i]); err != nil {
			return nil, err
		}
	}

	var results []models.UpsertResult
	var stats linkStats
	err := e.store.Update(ctx, func(tx storage.Tx) error {
		for _, b := range bundles {
			res, err := merge(ctx, tx, b.Classifier)
			if err != nil {
				return err
			}
			results = append(results, res)
			for _, d := range b.Data {
				res, err := merge(ctx, tx, d)
				if err != nil {
					return err
				}
				results = append(results, res)
				edge := models.Edge{Type: models.RelHasData, From: b.Classifier.Ref(), To: d.Ref()}
				if err := e.link(ctx, tx, edge, &stats); err != nil {
					return err
				}
			}
		}

		for _, b := range bundles {
			if b.Classifier.ParentID == "" {
				continue
			}
			child := b.Classifier.Ref()
			parent := models.Classifier{ID: b.Classifier.ParentID}.Ref()
			if err := requireNode(ctx, tx, parent); err != nil {
				return err
			}
			if err := checkHierarchy(ctx, tx, child, parent); err != nil {
				return err
			}
			if err := e.link(ctx, tx, models.Edge{Type: models.RelParent, From: child, To: parent}, &stats); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, apperror.ErrStore)
	}
	e.logUpserts(results)
	return results, nil
}

func normalizeClassifier(b *models.ClassifierBundle) error {
	c := &b.Classifier
	if c.ID == "" {
		return apperror.NewValidation("classifier id is required")
	}
	if c.ParentID == c.ID {
		return apperror.ErrCycle.WithMessage("classifier " + c.ID + " cannot be its own parent")
	}
	for i := range b.Data {
		d := &b.Data[i]
		switch d.ClassifierID {
		case "":
			d.ClassifierID = c.ID
		case c.ID:
		default:
			return apperror.NewValidation("classifier data %q belongs to classifier %q, not %q", d.Code, d.ClassifierID, c.ID)
		}
		if d.Code == "" {
			return apperror.NewValidation("classifier data code is required")
		}
		if d.ID == "" {
			d.ID = models.ClassifierDataKey(c.ID, d.Code)
		}
	}
	return nil
}

// checkHierarchy walks the ancestors of parent and fails if child is among
// them. The walk stops at nodes already visited so a corrupt store cannot
// make it loop.
func checkHierarchy(ctx context.Context, tx storage.Tx, child, parent models.NodeRef) error {
	visited := map[models.NodeRef]bool{}
	next := []models.NodeRef{parent}
	for len(next) > 0 {
		cur := next[0]
		next = next[1:]
		if cur == child {
			return apperror.ErrCycle.
				WithMessage("classifier " + child.Key + " would become its own ancestor through " + parent.Key)
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		ancestors, err := tx.Neighbors(ctx, cur, models.RelParent)
		if err != nil {
			return err
		}
		next = append(next, ancestors...)
	}
	return nil
}
