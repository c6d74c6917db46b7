package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/apperror"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

// cascadeRule declares that Dependent nodes reached from Parent via Rel live
// and die with their parent.
type cascadeRule struct {
	Parent    models.Label
	Rel       models.RelType
	Dependent models.Label
}

var cascadeRules = []cascadeRule{
	{Parent: models.LabelDocument, Rel: models.RelHasMetadata, Dependent: models.LabelFileMetadata},
	{Parent: models.LabelDocument, Rel: models.RelHasVersion, Dependent: models.LabelVersion},
	{Parent: models.LabelDocument, Rel: models.RelHasClassification, Dependent: models.LabelBGSClassification},
	{Parent: models.LabelDocument, Rel: models.RelHasUserEdit, Dependent: models.LabelUserEdit},
	{Parent: models.LabelClassifier, Rel: models.RelHasData, Dependent: models.LabelClassifierData},
}

// deletionOrder lists every label with dependents ahead of their parents and
// the independent labels last.
func deletionOrder() []models.Label {
	var order []models.Label
	add := func(l models.Label) {
		if !slices.Contains(order, l) {
			order = append(order, l)
		}
	}
	for _, r := range cascadeRules {
		add(r.Dependent)
	}
	for _, r := range cascadeRules {
		add(r.Parent)
	}
	for _, l := range models.AllLabels {
		add(l)
	}
	return order
}

// DeleteAllData removes every node and relationship in one transaction.
// Relationships touching a label are removed before its nodes. Deleting an
// empty store succeeds.
func (e *Engine) DeleteAllData(ctx context.Context) (*models.DeleteReport, error) {
	report := &models.DeleteReport{Nodes: make(map[models.Label]int64)}

	err := e.store.Update(ctx, func(tx storage.Tx) error {
		for _, label := range deletionOrder() {
			n, err := tx.DeleteEdgesByLabel(ctx, label)
			if err != nil {
				return err
			}
			report.Relationships += n

			n, err = tx.DeleteNodesByLabel(ctx, label)
			if err != nil {
				return err
			}
			report.Nodes[label] = n
		}

		left, err := tx.CountEdges(ctx)
		if err != nil {
			return err
		}
		if left != 0 {
			return fmt.Errorf("%d relationships left after deleting all labels", left)
		}
		return nil
	})
	if err != nil {
		e.log.Error("delete all data failed", zap.Error(err))
		return nil, apperror.ErrCascadeDeletion.WithInternal(err)
	}

	var total int64
	for _, n := range report.Nodes {
		total += n
	}
	e.log.Info("all data deleted",
		zap.Int64("nodes", total),
		zap.Int64("relationships", report.Relationships),
	)
	return report, nil
}

// DeleteDocument removes a document together with its dependents and every
// relationship touching them. Users, folders and sessions are kept.
func (e *Engine) DeleteDocument(ctx context.Context, documentID string) (*models.DeleteReport, error) {
	doc := models.Document{ID: documentID}.Ref()
	report := &models.DeleteReport{Nodes: make(map[models.Label]int64)}

	err := e.store.Update(ctx, func(tx storage.Tx) error {
		ok, err := tx.NodeExists(ctx, doc)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound(string(models.LabelDocument), documentID)
		}

		remove := func(ref models.NodeRef) error {
			n, err := tx.DeleteEdgesOf(ctx, ref)
			if err != nil {
				return err
			}
			report.Relationships += n
			n, err = tx.DeleteNode(ctx, ref)
			if err != nil {
				return err
			}
			report.Nodes[ref.Label] += n
			return nil
		}

		for _, rule := range cascadeRules {
			if rule.Parent != models.LabelDocument {
				continue
			}
			deps, err := tx.Neighbors(ctx, doc, rule.Rel)
			if err != nil {
				return err
			}
			for _, dep := range deps {
				if err := remove(dep); err != nil {
					return err
				}
			}
		}
		return remove(doc)
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		e.log.Error("delete document failed", zap.String("document_id", documentID), zap.Error(err))
		return nil, apperror.ErrCascadeDeletion.WithInternal(err)
	}

	e.log.Info("document deleted",
		zap.String("document_id", documentID),
		zap.Int64("relationships", report.Relationships),
	)
	return report, nil
}
