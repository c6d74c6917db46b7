// Package graph implements atomic creation, cascade deletion and
// denormalized export over a labeled-property graph store.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/apperror"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
	"github.com/TheCaptain1810/neo4j-ogm/internal/storage"
)

// Engine runs document graph operations against a Store. Every operation is
// one store transaction; the engine keeps no state of its own.
type Engine struct {
	store storage.Store
	log   *zap.Logger
}

// NewEngine creates an engine over store.
func NewEngine(store storage.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: store, log: log}
}

// asAppError passes coded errors through and reports anything else as fallback.
func asAppError(err error, fallback *apperror.Error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return fallback.WithInternal(err)
}

// merge upserts a node and reports the outcome.
func merge(ctx context.Context, tx storage.Tx, n models.Node) (models.UpsertResult, error) {
	ref := n.Ref()
	props, err := json.Marshal(n)
	if err != nil {
		return models.UpsertResult{}, fmt.Errorf("encode %s %q: %w", ref.Label, ref.Key, err)
	}
	created, err := tx.MergeNode(ctx, ref, props)
	if err != nil {
		return models.UpsertResult{}, err
	}
	res := models.UpsertResult{Label: ref.Label, Key: ref.Key, Outcome: models.OutcomeAlreadyExisted}
	if created {
		res.Outcome = models.OutcomeCreated
	}
	return res, nil
}

// requireNode fails with a referential integrity error when ref is not stored.
func requireNode(ctx context.Context, tx storage.Tx, ref models.NodeRef) error {
	ok, err := tx.NodeExists(ctx, ref)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewMissingReference(string(ref.Label), ref.Key)
	}
	return nil
}

type linkStats struct {
	created int
	existed int
	skipped int
}

// link creates edge after checking it against the relationship schema.
// A single-cardinality source that already points elsewhere keeps its
// existing target. An exclusive target owned by another source is rejected.
func (e *Engine) link(ctx context.Context, tx storage.Tx, edge models.Edge, stats *linkStats) error {
	schema, ok := models.SchemaFor(edge.Type)
	if !ok {
		return apperror.NewValidation("unknown relationship type %q", edge.Type)
	}
	if edge.From.Label != schema.From || edge.To.Label != schema.To {
		return apperror.NewValidation("%s links %s to %s, got %s to %s",
			edge.Type, schema.From, schema.To, edge.From.Label, edge.To.Label)
	}

	if schema.Cardinality == models.One {
		current, err := tx.Neighbors(ctx, edge.From, edge.Type)
		if err != nil {
			return err
		}
		for _, target := range current {
			if target != edge.To {
				e.log.Warn("keeping existing relationship",
					zap.String("type", string(edge.Type)),
					zap.String("from", edge.From.Key),
					zap.String("existing", target.Key),
					zap.String("requested", edge.To.Key),
				)
				stats.skipped++
				return nil
			}
		}
	}

	if schema.Exclusive {
		owners, err := tx.Sources(ctx, edge.To, edge.Type)
		if err != nil {
			return err
		}
		for _, owner := range owners {
			if owner != edge.From {
				return apperror.ErrCardinality.
					WithMessage(fmt.Sprintf("%s %q already belongs to %s %q via %s",
						edge.To.Label, edge.To.Key, owner.Label, owner.Key, edge.Type))
			}
		}
	}

	created, err := tx.CreateEdge(ctx, edge)
	if err != nil {
		return err
	}
	if created {
		stats.created++
	} else {
		stats.existed++
	}
	return nil
}
