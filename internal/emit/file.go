package emit

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// Stdout is the output path that writes to standard output.
const Stdout = "-"

// WriteFile writes to a temp file next to path and renames it into place once
// fn succeeds, so a failed run leaves any previous file untouched.
func WriteFile(path string, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "emit: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "emit: create temp file")
	}
	defer func() {
		if err != nil {
			tmp.Close()           //nolint:errcheck
			os.Remove(tmp.Name()) //nolint:errcheck
		}
	}()

	if err := fn(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "emit: close temp file")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return eris.Wrap(err, "emit: chmod temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "emit: rename to %s", path)
	}
	return nil
}

// Render emits tree in format to path, or to stdout when path is Stdout.
func Render(ctx context.Context, tree *psgc.Tree, format string, opts Options, path string) error {
	e, err := New(format, opts)
	if err != nil {
		return err
	}
	if path == Stdout {
		return e.Emit(ctx, tree, os.Stdout)
	}
	return WriteFile(path, func(w io.Writer) error {
		return e.Emit(ctx, tree, w)
	})
}
