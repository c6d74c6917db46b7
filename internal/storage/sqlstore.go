package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.uber.org/zap"

	"github.com/TheCaptain1810/neo4j-ogm/internal/config"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// rebind rewrites ? placeholders into the dialect's bind syntax.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// SQLStore is a Store backed by database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	log     *zap.Logger
}

// Open opens the graph store selected by cfg and applies the schema.
func Open(cfg config.StoreConfig, log *zap.Logger) (*SQLStore, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.DSN, cfg.BusyTimeout, log)
	case config.DriverPostgres:
		return OpenPostgres(cfg.DSN, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// OpenSQLite opens (or creates) a SQLite graph file.
func OpenSQLite(path string, busyTimeout time.Duration, log *zap.Logger) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", sqliteDSN(path, busyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open graph db: %w", err)
	}
	s, err := initStore(db, dialectSQLite, log)
	if err != nil {
		return nil, err
	}
	log.Info("graph store opened", zap.String("driver", config.DriverSQLite), zap.String("path", path))
	return s, nil
}

// OpenPostgres connects to a PostgreSQL graph database.
func OpenPostgres(dsn string, log *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open graph db: %w", err)
	}
	s, err := initStore(db, dialectPostgres, log)
	if err != nil {
		return nil, err
	}
	log.Info("graph store opened", zap.String("driver", config.DriverPostgres))
	return s, nil
}

func initStore(db *sql.DB, d dialect, log *zap.Logger) (*SQLStore, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping graph db: %w", err)
	}
	if _, err := db.Exec(GraphSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate graph db: %w", err)
	}
	return &SQLStore{db: db, dialect: d, log: log}, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Update runs fn in a read-write transaction.
func (s *SQLStore) Update(ctx context.Context, fn func(Tx) error) error {
	return s.run(ctx, nil, fn)
}

// View runs fn in a read-only transaction.
func (s *SQLStore) View(ctx context.Context, fn func(Tx) error) error {
	return s.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (s *SQLStore) run(ctx context.Context, opts *sql.TxOptions, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx, dialect: s.dialect}); err != nil {
		s.log.Debug("transaction rolled back", zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type sqlTx struct {
	tx      *sql.Tx
	dialect dialect
}

func (t *sqlTx) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, t.dialect.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *sqlTx) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := t.tx.QueryRowContext(ctx, t.dialect.rebind(query), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (t *sqlTx) MergeNode(ctx context.Context, ref models.NodeRef, props []byte) (bool, error) {
	n, err := t.exec(ctx,
		`INSERT INTO nodes (label, node_key, props) VALUES (?, ?, ?) ON CONFLICT (label, node_key) DO NOTHING`,
		string(ref.Label), ref.Key, string(props),
	)
	if err != nil {
		return false, fmt.Errorf("merge %s %q: %w", ref.Label, ref.Key, err)
	}
	return n > 0, nil
}

func (t *sqlTx) GetNode(ctx context.Context, ref models.NodeRef) (Node, error) {
	var props string
	err := t.tx.QueryRowContext(ctx,
		t.dialect.rebind(`SELECT props FROM nodes WHERE label = ? AND node_key = ?`),
		string(ref.Label), ref.Key,
	).Scan(&props)
	if errors.Is(err, sql.ErrNoRows) {
		return Node{}, fmt.Errorf("%s %q: %w", ref.Label, ref.Key, ErrNodeNotFound)
	}
	if err != nil {
		return Node{}, fmt.Errorf("get %s %q: %w", ref.Label, ref.Key, err)
	}
	return Node{Ref: ref, Props: []byte(props)}, nil
}

func (t *sqlTx) NodeExists(ctx context.Context, ref models.NodeRef) (bool, error) {
	n, err := t.count(ctx,
		`SELECT COUNT(*) FROM nodes WHERE label = ? AND node_key = ?`,
		string(ref.Label), ref.Key,
	)
	if err != nil {
		return false, fmt.Errorf("lookup %s %q: %w", ref.Label, ref.Key, err)
	}
	return n > 0, nil
}

func (t *sqlTx) ListNodes(ctx context.Context, label models.Label) ([]Node, error) {
	rows, err := t.tx.QueryContext(ctx,
		t.dialect.rebind(`SELECT node_key, props FROM nodes WHERE label = ? ORDER BY node_key`),
		string(label),
	)
	if err != nil {
		return nil, fmt.Errorf("query %s nodes: %w", label, err)
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		var key, props string
		if err := rows.Scan(&key, &props); err != nil {
			return nil, fmt.Errorf("scan %s node: %w", label, err)
		}
		nodes = append(nodes, Node{Ref: models.NodeRef{Label: label, Key: key}, Props: []byte(props)})
	}
	return nodes, rows.Err()
}

func (t *sqlTx) DeleteNode(ctx context.Context, ref models.NodeRef) (int64, error) {
	n, err := t.exec(ctx, `DELETE FROM nodes WHERE label = ? AND node_key = ?`, string(ref.Label), ref.Key)
	if err != nil {
		return 0, fmt.Errorf("delete %s %q: %w", ref.Label, ref.Key, err)
	}
	return n, nil
}

func (t *sqlTx) DeleteNodesByLabel(ctx context.Context, label models.Label) (int64, error) {
	n, err := t.exec(ctx, `DELETE FROM nodes WHERE label = ?`, string(label))
	if err != nil {
		return 0, fmt.Errorf("delete %s nodes: %w", label, err)
	}
	return n, nil
}

func (t *sqlTx) CountNodes(ctx context.Context, label models.Label) (int64, error) {
	n, err := t.count(ctx, `SELECT COUNT(*) FROM nodes WHERE label = ?`, string(label))
	if err != nil {
		return 0, fmt.Errorf("count %s nodes: %w", label, err)
	}
	return n, nil
}

func (t *sqlTx) CreateEdge(ctx context.Context, e models.Edge) (bool, error) {
	n, err := t.exec(ctx,
		`INSERT INTO relationships (rel_type, from_label, from_key, to_label, to_key) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (rel_type, from_label, from_key, to_label, to_key) DO NOTHING`,
		string(e.Type), string(e.From.Label), e.From.Key, string(e.To.Label), e.To.Key,
	)
	if err != nil {
		return false, fmt.Errorf("create %s edge %s %q -> %s %q: %w",
			e.Type, e.From.Label, e.From.Key, e.To.Label, e.To.Key, err)
	}
	return n > 0, nil
}

func (t *sqlTx) Neighbors(ctx context.Context, from models.NodeRef, rel models.RelType) ([]models.NodeRef, error) {
	return t.refs(ctx,
		`SELECT to_label, to_key FROM relationships
		 WHERE from_label = ? AND from_key = ? AND rel_type = ?
		 ORDER BY to_key`,
		string(from.Label), from.Key, string(rel),
	)
}

func (t *sqlTx) Sources(ctx context.Context, to models.NodeRef, rel models.RelType) ([]models.NodeRef, error) {
	return t.refs(ctx,
		`SELECT from_label, from_key FROM relationships
		 WHERE to_label = ? AND to_key = ? AND rel_type = ?
		 ORDER BY from_key`,
		string(to.Label), to.Key, string(rel),
	)
}

func (t *sqlTx) refs(ctx context.Context, query string, args ...any) ([]models.NodeRef, error) {
	rows, err := t.tx.QueryContext(ctx, t.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query relationships: %w", err)
	}
	defer rows.Close()

	var refs []models.NodeRef
	for rows.Next() {
		var label, key string
		if err := rows.Scan(&label, &key); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		refs = append(refs, models.NodeRef{Label: models.Label(label), Key: key})
	}
	return refs, rows.Err()
}

func (t *sqlTx) Edges(ctx context.Context, rel models.RelType) ([]models.Edge, error) {
	rows, err := t.tx.QueryContext(ctx,
		t.dialect.rebind(`SELECT from_label, from_key, to_label, to_key FROM relationships
		 WHERE rel_type = ?
		 ORDER BY from_key, to_key`),
		string(rel),
	)
	if err != nil {
		return nil, fmt.Errorf("query %s relationships: %w", rel, err)
	}
	defer rows.Close()

	var edges []models.Edge
	for rows.Next() {
		var fromLabel, fromKey, toLabel, toKey string
		if err := rows.Scan(&fromLabel, &fromKey, &toLabel, &toKey); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		edges = append(edges, models.Edge{
			Type: rel,
			From: models.NodeRef{Label: models.Label(fromLabel), Key: fromKey},
			To:   models.NodeRef{Label: models.Label(toLabel), Key: toKey},
		})
	}
	return edges, rows.Err()
}

func (t *sqlTx) DeleteEdgesOf(ctx context.Context, ref models.NodeRef) (int64, error) {
	n, err := t.exec(ctx,
		`DELETE FROM relationships WHERE (from_label = ? AND from_key = ?) OR (to_label = ? AND to_key = ?)`,
		string(ref.Label), ref.Key, string(ref.Label), ref.Key,
	)
	if err != nil {
		return 0, fmt.Errorf("delete relationships of %s %q: %w", ref.Label, ref.Key, err)
	}
	return n, nil
}

func (t *sqlTx) DeleteEdgesByLabel(ctx context.Context, label models.Label) (int64, error) {
	n, err := t.exec(ctx,
		`DELETE FROM relationships WHERE from_label = ? OR to_label = ?`,
		string(label), string(label),
	)
	if err != nil {
		return 0, fmt.Errorf("delete relationships of %s nodes: %w", label, err)
	}
	return n, nil
}

func (t *sqlTx) CountEdges(ctx context.Context) (int64, error) {
	n, err := t.count(ctx, `SELECT COUNT(*) FROM relationships`)
	if err != nil {
		return 0, fmt.Errorf("count relationships: %w", err)
	}
	return n, nil
}
