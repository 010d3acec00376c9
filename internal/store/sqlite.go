package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// SQLiteStore implements TreeStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS provinces (
	id        INTEGER PRIMARY KEY,
	code      TEXT NOT NULL,
	name      TEXT NOT NULL,
	synthetic INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS municipalities (
	id          INTEGER PRIMARY KEY,
	province_id INTEGER NOT NULL REFERENCES provinces(id),
	code        TEXT NOT NULL,
	name        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS barangays (
	id              INTEGER PRIMARY KEY,
	municipality_id INTEGER NOT NULL REFERENCES municipalities(id),
	code            TEXT NOT NULL,
	name            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS build_info (
	id             TEXT PRIMARY KEY,
	source         TEXT NOT NULL DEFAULT '',
	provinces      INTEGER NOT NULL,
	municipalities INTEGER NOT NULL,
	barangays      INTEGER NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_provinces_code ON provinces(code);
CREATE INDEX IF NOT EXISTS idx_municipalities_code ON municipalities(code);
CREATE INDEX IF NOT EXISTS idx_municipalities_province ON municipalities(province_id);
CREATE INDEX IF NOT EXISTS idx_barangays_municipality ON barangays(municipality_id);
`

// Migrate creates the schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveTree replaces the stored tree and records a build row. Empty info fields
// are filled in (ID, timestamp, counts).
func (s *SQLiteStore) SaveTree(ctx context.Context, tree *psgc.Tree, info BuildInfo) (*BuildInfo, error) {
	if info.ID == "" {
		info.ID = uuid.New().String()
	}
	if info.CreatedAt.IsZero() {
		info.CreatedAt = time.Now().UTC()
	}
	counts := tree.Counts()
	info.Provinces = counts.Provinces
	info.Municipalities = counts.Municipalities
	info.Barangays = counts.Barangays

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{
		`DELETE FROM barangays`,
		`DELETE FROM municipalities`,
		`DELETE FROM provinces`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, eris.Wrapf(err, "sqlite: %s", stmt)
		}
	}

	insProv, err := tx.PrepareContext(ctx, `INSERT INTO provinces (id, code, name, synthetic) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: prepare province insert")
	}
	defer insProv.Close() //nolint:errcheck
	insMuni, err := tx.PrepareContext(ctx, `INSERT INTO municipalities (id, province_id, code, name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: prepare municipality insert")
	}
	defer insMuni.Close() //nolint:errcheck
	insBgy, err := tx.PrepareContext(ctx, `INSERT INTO barangays (id, municipality_id, code, name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: prepare barangay insert")
	}
	defer insBgy.Close() //nolint:errcheck

	// Row ids follow tree order.
	var muniID, bgyID int64
	for i, p := range tree.Provinces {
		provID := int64(i + 1)
		if _, err := insProv.ExecContext(ctx, provID, p.Code, p.Name, p.Synthetic); err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert province %s", p.Code)
		}
		for _, m := range p.Municipalities {
			muniID++
			if _, err := insMuni.ExecContext(ctx, muniID, provID, m.Code, m.Name); err != nil {
				return nil, eris.Wrapf(err, "sqlite: insert municipality %s", m.Code)
			}
			for _, b := range m.Barangays {
				bgyID++
				if _, err := insBgy.ExecContext(ctx, bgyID, muniID, b.Code, b.Name); err != nil {
					return nil, eris.Wrapf(err, "sqlite: insert barangay %s", b.Code)
				}
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO build_info (id, source, provinces, municipalities, barangays, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		info.ID, info.Source, info.Provinces, info.Municipalities, info.Barangays, info.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert build info")
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit")
	}
	return &info, nil
}

// LoadTree reads the stored tree in stored order.
func (s *SQLiteStore) LoadTree(ctx context.Context) (*psgc.Tree, error) {
	tree := &psgc.Tree{Provinces: []psgc.Province{}}
	provIdx := make(map[int64]int)
	muniIdx := make(map[int64][2]int)

	rows, err := s.db.QueryContext(ctx, `SELECT id, code, name, synthetic FROM provinces ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query provinces")
	}
	for rows.Next() {
		var (
			id int64
			p  psgc.Province
		)
		if err := rows.Scan(&id, &p.Code, &p.Name, &p.Synthetic); err != nil {
			rows.Close() //nolint:errcheck
			return nil, eris.Wrap(err, "sqlite: scan province")
		}
		p.Municipalities = []psgc.Municipality{}
		provIdx[id] = len(tree.Provinces)
		tree.Provinces = append(tree.Provinces, p)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, province_id, code, name FROM municipalities ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query municipalities")
	}
	for rows.Next() {
		var (
			id, provID int64
			m          psgc.Municipality
		)
		if err := rows.Scan(&id, &provID, &m.Code, &m.Name); err != nil {
			rows.Close() //nolint:errcheck
			return nil, eris.Wrap(err, "sqlite: scan municipality")
		}
		pi, ok := provIdx[provID]
		if !ok {
			continue
		}
		m.Barangays = []psgc.Barangay{}
		p := &tree.Provinces[pi]
		muniIdx[id] = [2]int{pi, len(p.Municipalities)}
		p.Municipalities = append(p.Municipalities, m)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT municipality_id, code, name FROM barangays ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query barangays")
	}
	for rows.Next() {
		var (
			muniID int64
			b      psgc.Barangay
		)
		if err := rows.Scan(&muniID, &b.Code, &b.Name); err != nil {
			rows.Close() //nolint:errcheck
			return nil, eris.Wrap(err, "sqlite: scan barangay")
		}
		idx, ok := muniIdx[muniID]
		if !ok {
			continue
		}
		m := &tree.Provinces[idx[0]].Municipalities[idx[1]]
		m.Barangays = append(m.Barangays, b)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	tree.Sort()
	return tree, nil
}

// LatestBuild returns the most recent build row.
func (s *SQLiteStore) LatestBuild(ctx context.Context) (*BuildInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, provinces, municipalities, barangays, created_at FROM build_info ORDER BY created_at DESC LIMIT 1`,
	)
	var info BuildInfo
	err := row.Scan(&info.ID, &info.Source, &info.Provinces, &info.Municipalities, &info.Barangays, &info.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("build info not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan build info")
	}
	return &info, nil
}

// helpers

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close() //nolint:errcheck
		return eris.Wrap(err, "sqlite: iterate rows")
	}
	return eris.Wrap(rows.Close(), "sqlite: close rows")
}
