package source

import (
	"context"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fetcher retrieves a remote package into a local file.
type Fetcher interface {
	// DownloadToFile fetches the URL and writes it to path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// HTTPOptions configures the package downloader.
type HTTPOptions struct {
	UserAgent   string
	Timeout     time.Duration
	MaxRetries  int
	RatePerSec  float64
	BackoffBase time.Duration
}

// Downloader implements Fetcher over HTTP(S) with rate limiting and retries on
// transport errors, 429 and 5xx responses.
type Downloader struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *rate.Limiter
}

// NewDownloader creates a Downloader, filling unset options with defaults.
func NewDownloader(opts HTTPOptions) *Downloader {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "psgc-cli/1.0"
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	if opts.BackoffBase == 0 {
		opts.BackoffBase = time.Second
	}
	burst := int(math.Max(1, opts.RatePerSec))
	return &Downloader{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), burst),
	}
}

func (d *Downloader) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < d.opts.MaxRetries; attempt++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}

		resp, err := d.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			zap.L().Warn("http request failed, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			d.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http %d from %s", resp.StatusCode, req.URL.String())
			zap.L().Warn("server refused request, retrying",
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			d.backoff(ctx, attempt)
			continue
		}

		return resp, nil
	}

	return nil, eris.Wrap(lastErr, "all retries exhausted")
}

func (d *Downloader) backoff(ctx context.Context, attempt int) {
	maxBackoff := 30 * time.Second
	wait := time.Duration(float64(d.opts.BackoffBase) * math.Pow(2, float64(attempt)))
	if wait > maxBackoff {
		wait = maxBackoff
	}
	if half := int64(wait) / 2; half > 0 {
		wait += time.Duration(rand.Int63n(half))
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Download fetches the URL and returns the response body.
func (d *Downloader) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", d.opts.UserAgent)

	resp, err := d.doWithRetry(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "download")
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, eris.Errorf("download: unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return resp.Body, nil
}

// DownloadToFile fetches the URL and writes it to the given path.
func (d *Downloader) DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error) {
	body, err := d.Download(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "create file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, body)
	if err != nil {
		return n, eris.Wrap(err, "write file")
	}
	return n, nil
}
