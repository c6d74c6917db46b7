package storage

import (
	"fmt"
	"net/url"
	"time"
)

// GraphSchema is the SQL schema of the graph store. It is valid for both
// SQLite and PostgreSQL.
//
// Relationship endpoints reference nodes without ON DELETE actions, so a node
// can only be removed once every relationship touching it is gone.
const GraphSchema = `
CREATE TABLE IF NOT EXISTS nodes (
    label       TEXT NOT NULL,
    node_key    TEXT NOT NULL,
    props       TEXT NOT NULL,
    PRIMARY KEY (label, node_key)
);

CREATE TABLE IF NOT EXISTS relationships (
    rel_type    TEXT NOT NULL,
    from_label  TEXT NOT NULL,
    from_key    TEXT NOT NULL,
    to_label    TEXT NOT NULL,
    to_key      TEXT NOT NULL,
    PRIMARY KEY (rel_type, from_label, from_key, to_label, to_key),
    FOREIGN KEY (from_label, from_key) REFERENCES nodes (label, node_key),
    FOREIGN KEY (to_label, to_key) REFERENCES nodes (label, node_key)
);

CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships (from_label, from_key, rel_type);
CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships (to_label, to_key, rel_type);
`

// sqliteDSN builds the connection string for a SQLite graph file. Writers take
// the database lock at BEGIN so concurrent writers queue on busy_timeout
// instead of failing on lock upgrade.
func sqliteDSN(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", "foreign_keys(ON)")
	q.Add("_pragma", "cache_size(-64000)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}
