package source

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractPackage extracts the single JSON or CSV data file from a ZIP archive
// into destDir and returns its path. Directories and archiver metadata are ignored.
func ExtractPackage(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var candidates []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".json", ".csv":
			candidates = append(candidates, f)
		}
	}

	if len(candidates) != 1 {
		return "", eris.Errorf("zip: expected exactly 1 .json or .csv file, got %d", len(candidates))
	}
	return extractEntry(candidates[0], destDir)
}

func extractEntry(f *zip.File, destDir string) (string, error) {
	destPath := filepath.Join(destDir, filepath.Base(f.Name))
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("zip: illegal path %q", f.Name)
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "zip: write file")
	}
	return destPath, nil
}
