package emit

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/psgc-cli/internal/psgc"
	"github.com/sells-group/psgc-cli/internal/store"
)

// SQLiteEmitter writes the tree as a SQLite database. The database is built in
// a scratch directory and then copied to w.
type SQLiteEmitter struct {
	Source string
}

// Emit implements Emitter.
func (e SQLiteEmitter) Emit(ctx context.Context, tree *psgc.Tree, w io.Writer) error {
	dir, err := os.MkdirTemp("", "psgc-sqlite-*")
	if err != nil {
		return eris.Wrap(err, "emit: sqlite scratch dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	path := filepath.Join(dir, "psgc.db")
	if _, err := WriteSQLite(ctx, tree, path, e.Source); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return eris.Wrap(err, "emit: open sqlite")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(w, f); err != nil {
		return eris.Wrap(err, "emit: copy sqlite")
	}
	return nil
}

// WriteSQLite creates (or replaces the contents of) a database at path.
func WriteSQLite(ctx context.Context, tree *psgc.Tree, path, source string) (*store.BuildInfo, error) {
	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return nil, err
	}
	info, err := st.SaveTree(ctx, tree, store.BuildInfo{Source: source})
	if err != nil {
		return nil, err
	}
	return info, nil
}
