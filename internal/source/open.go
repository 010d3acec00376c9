package source

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

// FlatOptions configures OpenFlat.
type FlatOptions struct {
	// Charset of CSV packages. Empty means UTF-8.
	Charset string
	// Fetcher downloads remote packages. Defaults to a Downloader built from HTTP.
	Fetcher Fetcher
	HTTP    HTTPOptions
	// TempDir holds downloads and extracted archives. Defaults to os.TempDir.
	TempDir string
}

// FlatResult is a decoded flat package.
type FlatResult struct {
	Records []psgc.Record
	Skipped int
	// Path is the local file the records were decoded from.
	Path string
}

// OpenFlat resolves a package location (local path or http(s) URL, optionally
// a .zip archive) and decodes its records.
func OpenFlat(ctx context.Context, location string, opts FlatOptions) (*FlatResult, error) {
	work, err := os.MkdirTemp(opts.TempDir, "psgc-pkg-*")
	if err != nil {
		return nil, eris.Wrap(err, "source: create work dir")
	}
	defer os.RemoveAll(work) //nolint:errcheck

	local := location
	if isRemote(location) {
		local, err = fetchRemote(ctx, location, work, opts)
		if err != nil {
			return nil, err
		}
	}

	if strings.EqualFold(filepath.Ext(local), ".zip") {
		extracted, err := ExtractPackage(local, work)
		if err != nil {
			return nil, eris.Wrapf(err, "source: unpack %s", location)
		}
		zap.L().Debug("source: extracted package",
			zap.String("archive", local),
			zap.String("file", extracted),
		)
		local = extracted
	}

	f, err := os.Open(local)
	if err != nil {
		return nil, eris.Wrapf(err, "source: open %s", local)
	}
	defer f.Close() //nolint:errcheck

	res := &FlatResult{Path: local}
	switch strings.ToLower(filepath.Ext(local)) {
	case ".json":
		res.Records, res.Skipped, err = DecodeFlat(ctx, f)
	case ".csv":
		res.Records, res.Skipped, err = DecodeFlatCSV(ctx, f, CSVOptions{Charset: opts.Charset})
	default:
		return nil, eris.Errorf("source: unsupported package type %q", filepath.Ext(local))
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fetchRemote(ctx context.Context, location, dir string, opts FlatOptions) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", eris.Wrapf(err, "source: parse url %q", location)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "package.json"
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewDownloader(opts.HTTP)
	}

	dest := filepath.Join(dir, name)
	n, err := fetcher.DownloadToFile(ctx, location, dest)
	if err != nil {
		return "", eris.Wrapf(err, "source: fetch %s", location)
	}
	zap.L().Info("source: downloaded package",
		zap.String("url", location),
		zap.Int64("bytes", n),
	)
	return dest, nil
}
