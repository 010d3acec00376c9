package source

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

const utf8BOM = "\ufeff"

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter rune // default ','
	// Charset names the input encoding (e.g. "windows-1252"). Empty means UTF-8.
	Charset string
}

// decodeCharset wraps r so that it yields UTF-8.
func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	cs := strings.ToLower(strings.TrimSpace(charset))
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		return r, nil
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(r), nil
}

// StreamCSV reads CSV rows and sends them to a channel, header included.
// A leading UTF-8 byte order mark is dropped. Both channels are closed when
// processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		decoded, err := decodeCharset(r, opts.Charset)
		if err != nil {
			errCh <- err
			return
		}

		reader := csv.NewReader(decoded)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		first := true
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if first && len(record) > 0 {
				record[0] = strings.TrimPrefix(record[0], utf8BOM)
			}
			first = false

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}
