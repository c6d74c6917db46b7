package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
)

// ErrNodeNotFound is returned by GetNode when no node has the given label and key.
var ErrNodeNotFound = errors.New("node not found")

// Node is a stored node with its properties as a JSON document.
type Node struct {
	Ref   models.NodeRef
	Props json.RawMessage
}

// Store is a transactional labeled-property graph.
type Store interface {
	// Update runs fn in a read-write transaction. The transaction commits
	// when fn returns nil and rolls back otherwise.
	Update(ctx context.Context, fn func(Tx) error) error
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Tx is the set of graph primitives available inside a transaction.
type Tx interface {
	// MergeNode inserts a node unless one with the same label and key exists.
	// It reports whether the node was created. Existing properties are kept.
	MergeNode(ctx context.Context, ref models.NodeRef, props []byte) (bool, error)
	GetNode(ctx context.Context, ref models.NodeRef) (Node, error)
	NodeExists(ctx context.Context, ref models.NodeRef) (bool, error)
	ListNodes(ctx context.Context, label models.Label) ([]Node, error)
	DeleteNode(ctx context.Context, ref models.NodeRef) (int64, error)
	DeleteNodesByLabel(ctx context.Context, label models.Label) (int64, error)
	CountNodes(ctx context.Context, label models.Label) (int64, error)

	// CreateEdge inserts a relationship unless the identical one exists.
	// Both endpoints must already be stored.
	CreateEdge(ctx context.Context, e models.Edge) (bool, error)
	// Neighbors returns the targets of from's outgoing rel edges, ordered by key.
	Neighbors(ctx context.Context, from models.NodeRef, rel models.RelType) ([]models.NodeRef, error)
	// Sources returns the origins of to's incoming rel edges, ordered by key.
	Sources(ctx context.Context, to models.NodeRef, rel models.RelType) ([]models.NodeRef, error)
	Edges(ctx context.Context, rel models.RelType) ([]models.Edge, error)
	DeleteEdgesOf(ctx context.Context, ref models.NodeRef) (int64, error)
	DeleteEdgesByLabel(ctx context.Context, label models.Label) (int64, error)
	CountEdges(ctx context.Context) (int64, error)
}
