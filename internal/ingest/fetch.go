package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/wonny/proptier/pkg/httputil"
	"github.com/wonny/proptier/pkg/logger"
)

// Downloader fetches a URL into a local file
type Downloader interface {
	Download(ctx context.Context, url, dest string) (int64, error)
}

var _ Downloader = (*httputil.Client)(nil)

// Fetcher turns input references into local paths
// Local paths pass through. URLs are downloaded once into dir and reused.
type Fetcher struct {
	client Downloader
	dir    string
	logger *logger.Logger
}

// NewFetcher creates a fetcher that caches downloads in dir
func NewFetcher(client Downloader, dir string, log *logger.Logger) *Fetcher {
	return &Fetcher{client: client, dir: dir, logger: log}
}

// Resolve returns a local path for ref
func (f *Fetcher) Resolve(ctx context.Context, ref string) (string, error) {
	if !httputil.IsURL(ref) {
		return ref, nil
	}

	dest := filepath.Join(f.dir, CacheName(ref))
	if _, err := os.Stat(dest); err == nil {
		f.logger.WithField("path", dest).Debug("Reusing downloaded input")
		return dest, nil
	}

	n, err := f.client.Download(ctx, ref, dest)
	if err != nil {
		return "", fmt.Errorf("fetch input: %w", err)
	}

	f.logger.WithFields(map[string]interface{}{
		"url":   ref,
		"path":  dest,
		"bytes": n,
	}).Info("Input downloaded")
	return dest, nil
}

// ResolveAll resolves refs in order
func (f *Fetcher) ResolveAll(ctx context.Context, refs ...string) ([]string, error) {
	out := make([]string, len(refs))
	for i, ref := range refs {
		p, err := f.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// CacheName is the file name a URL is downloaded to
// The URL hash prefix keeps equal base names apart; the base name keeps
// the extension, which selects the reader.
func CacheName(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	prefix := hex.EncodeToString(sum[:])[:12]

	base := "download"
	if u, err := url.Parse(ref); err == nil {
		if b := path.Base(u.Path); b != "/" && b != "." && b != "" {
			base = b
		}
	}
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)

	return prefix + "-" + base
}
