package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	"github.com/suraj-yadav-aiml/ctpipe/internal/ports"
)

// Fetcher downloads the dataset archive and extracts it. It is the built-in
// data_ingestion stage.
type Fetcher struct {
	client *http.Client
	token  string
}

type Option func(*Fetcher)

// WithToken sets a bearer token for authenticated dataset hosts.
func WithToken(token string) Option {
	return func(f *Fetcher) { f.token = token }
}

func NewFetcher(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ ports.DatasetFetcher = (*Fetcher)(nil)

func (f *Fetcher) Fetch(ctx context.Context, cfg domain.DataIngestionConfig) error {
	if cfg.RootDir != "" {
		if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
			return execErr("fetch.mkdir", cfg.RootDir, err)
		}
	}

	if err := f.download(ctx, cfg.SourceURL, cfg.LocalDataFile); err != nil {
		return err
	}

	return Unzip(cfg.LocalDataFile, cfg.UnzipDir)
}

// download writes url's body to dst unless dst already holds the full
// archive. The existing-size check uses a HEAD request; when the host does
// not answer HEAD, any non-empty local file is trusted.
func (f *Fetcher) download(ctx context.Context, url, dst string) error {
	if info, err := os.Stat(dst); err == nil && info.Size() > 0 {
		remote, headErr := f.remoteSize(ctx, url)
		if headErr != nil || remote <= 0 || remote == info.Size() {
			return nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return execErr("fetch.request", url, err)
	}
	f.authorize(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return &domain.OpError{
			Op:   "fetch.download",
			Kind: domain.KindExecution,
			Path: url,
			Err:  err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.OpError{
			Op:   "fetch.download",
			Kind: domain.KindExecution,
			Path: url,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return execErr("fetch.mkdir", filepath.Dir(dst), err)
	}

	// Atomic-ish write: tmp then rename.
	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return execErr("fetch.create", tmp, err)
	}

	_, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp)
		return execErr("fetch.write", tmp, errors.Join(copyErr, closeErr))
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return execErr("fetch.rename", dst, err)
	}
	return nil
}

func (f *Fetcher) remoteSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	f.authorize(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.ContentLength, nil
}

func (f *Fetcher) authorize(req *http.Request) {
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
}

func execErr(op, path string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindExecution,
		Path: path,
		Err:  err,
	}
}
