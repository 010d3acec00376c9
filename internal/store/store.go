// Package store saves and loads built PSGC trees as JSON or SQLite artifacts.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// BuildInfo describes the run that produced a stored tree.
type BuildInfo struct {
	ID             string    `json:"id"`
	Source         string    `json:"source"`
	CreatedAt      time.Time `json:"created_at"`
	Provinces      int       `json:"provinces"`
	Municipalities int       `json:"municipalities"`
	Barangays      int       `json:"barangays"`
}

// TreeStore persists a tree artifact.
type TreeStore interface {
	SaveTree(ctx context.Context, tree *psgc.Tree, info BuildInfo) (*BuildInfo, error)
	LoadTree(ctx context.Context) (*psgc.Tree, error)
	LatestBuild(ctx context.Context) (*BuildInfo, error)

	Migrate(ctx context.Context) error
	Close() error
}

// IsSQLitePath reports whether path names a SQLite artifact by extension.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// ReadTree loads a tree from a JSON artifact or, by extension, a SQLite one.
// The result is sorted.
func ReadTree(ctx context.Context, path string) (*psgc.Tree, error) {
	if IsSQLitePath(path) {
		if _, err := os.Stat(path); err != nil {
			return nil, eris.Wrapf(err, "store: open %s", path)
		}
		st, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		defer st.Close() //nolint:errcheck
		return st.LoadTree(ctx)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var tree psgc.Tree
	if err := json.NewDecoder(f).Decode(&tree); err != nil {
		return nil, eris.Wrapf(err, "store: decode tree %s", path)
	}
	for i := range tree.Provinces {
		for j := range tree.Provinces[i].Municipalities {
			m := &tree.Provinces[i].Municipalities[j]
			if m.Barangays == nil {
				m.Barangays = []psgc.Barangay{}
			}
		}
	}
	tree.Sort()
	return &tree, nil
}
