package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"launchpad/internal/errs"
	"launchpad/internal/logging"
)

// ProgressFunc is called as bytes are received. Throttled to one call per
// 100ms by Fetch.
type ProgressFunc func(received, total int64)

// Client fetches package archives, consulting the cache first and then
// trying formats in order over HTTP.
type Client struct {
	BaseURL string
	Cache   *Cache
	http    *retryablehttp.Client
}

// NewClient builds a Client with a 30s connect/response timeout and silent
// retry logging (launchpad logs its own progress/summary lines).
func NewClient(baseURL string, cache *Cache) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil // launchpad's own logging.* calls cover this
	return &Client{BaseURL: baseURL, Cache: cache, http: rc}
}

// Fetch resolves {domain, version} to a local archive path, trying the
// cache first, then each format in priority order over HTTP. Returns the
// format that succeeded along with the local path.
func (c *Client) Fetch(ctx context.Context, domain, osName, arch, version string, progress ProgressFunc) (path string, format Format, err error) {
	for _, f := range Formats {
		if p, ok := c.Cache.Get(domain, version, string(f)); ok {
			return p, f, nil
		}
	}

	var lastErr error
	for _, f := range Formats {
		p, err := c.fetchOne(ctx, domain, osName, arch, version, f, progress)
		if err == nil {
			return p, f, nil
		}
		lastErr = err
		logging.Warn("download", "fetch %s %s failed, trying next format: %v", domain, f, err)
	}

	return "", "", errs.Network(fmt.Sprintf("download %s@%s", domain, version), fmt.Errorf("failed to download package: %w", lastErr))
}

func (c *Client) fetchOne(ctx context.Context, domain, osName, arch, version string, format Format, progress ProgressFunc) (string, error) {
	url := BuildURL(c.BaseURL, domain, osName, arch, version, format)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s: HTTP %d", url, resp.StatusCode)
	}

	tmp := filepath.Join(os.TempDir(), "launchpad-"+uuid.NewString())
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	var received int64
	total := resp.ContentLength
	lastReport := time.Now()

	buf := make([]byte, 64*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				f.Close()
				return "", werr
			}
			received += int64(n)
			if progress != nil && time.Since(lastReport) >= 100*time.Millisecond {
				progress(received, total)
				lastReport = time.Now()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			f.Close()
			return "", rerr
		}
	}
	if progress != nil {
		progress(received, total)
	}
	f.Close()

	data, err := os.ReadFile(tmp)
	if err != nil {
		return "", err
	}
	return c.Cache.Save(domain, version, string(format), data)
}

// FetchResumable performs a Range-based resumable download into destPath,
// retrying up to 3 times with exponential backoff. On final failure the
// partial file is deleted.
func (c *Client) FetchResumable(ctx context.Context, url, destPath string, expectedSize int64) error {
	op := func() error {
		return c.resumeOnce(ctx, url, destPath)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	err := backoff.Retry(op, b)
	if err != nil {
		os.Remove(destPath)
		return errs.Network("resumable download "+url, err)
	}

	if expectedSize > 0 {
		if st, serr := os.Stat(destPath); serr == nil && st.Size() != expectedSize {
			os.Remove(destPath)
			return errs.Integrity("resumable download "+url, fmt.Errorf("size mismatch: got %d want %d", st.Size(), expectedSize))
		}
	}
	return nil
}

func (c *Client) resumeOnce(ctx context.Context, url, destPath string) error {
	var existing int64
	if st, err := os.Stat(destPath); err == nil {
		existing = st.Size()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if existing > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", existing))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var flags int
	switch resp.StatusCode {
	case http.StatusPartialContent:
		flags = os.O_APPEND | os.O_WRONLY | os.O_CREATE
	case http.StatusOK:
		flags = os.O_TRUNC | os.O_WRONLY | os.O_CREATE
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	f, err := os.OpenFile(destPath, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, resp.Body)
	return err
}
