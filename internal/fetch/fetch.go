// Package fetch obtains the raw byte buffers of a sparse model and feeds
// them through the decoders in internal/colmap. Sources are a local model
// directory or an HTTP base URL; either way the decoders only ever see
// fully fetched buffers.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ProgressFunc receives incremental (bytesLoaded, bytesTotal) updates for a
// single file. total is -1 while unknown (e.g. a response without a
// Content-Length header).
type ProgressFunc func(loaded, total int64)

// Fetcher obtains one named file of a model as a raw byte buffer. progress
// may be nil.
type Fetcher interface {
	Fetch(ctx context.Context, name string, progress ProgressFunc) ([]byte, error)
}

// NewFetcher returns an HTTPFetcher for http(s) base URLs and a FileFetcher
// for anything else.
func NewFetcher(base string) Fetcher {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return &HTTPFetcher{Base: base}
	}
	return &FileFetcher{Base: base}
}

const readChunk = 64 * 1024

// FileFetcher reads model files from a local directory.
type FileFetcher struct {
	Base string
}

func (f *FileFetcher) Fetch(ctx context.Context, name string, progress ProgressFunc) ([]byte, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("fetch %s: name must not contain path separators", name)
	}

	fh, err := os.Open(filepath.Join(f.Base, name))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	data, err := readAll(ctx, fh, info.Size(), progress)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return data, nil
}

// HTTPFetcher reads model files from an HTTP base URL. A nil Client falls
// back to http.DefaultClient.
type HTTPFetcher struct {
	Base   string
	Client *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, name string, progress ProgressFunc) ([]byte, error) {
	url := strings.TrimRight(f.Base, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", name, resp.Status)
	}

	data, err := readAll(ctx, resp.Body, resp.ContentLength, progress)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return data, nil
}

// maxPreallocBytes caps the capacity hint taken from a declared size. The
// declared total can come from a remote Content-Length header, so it must
// never size an allocation on its own; larger files still load, growing
// chunk by chunk.
const maxPreallocBytes = 256 << 20

// readAll drains r in chunks so progress can be reported incrementally.
// total is passed through to the callback and may be -1.
func readAll(ctx context.Context, r io.Reader, total int64, progress ProgressFunc) ([]byte, error) {
	var data []byte
	if total > 0 && total <= maxPreallocBytes {
		data = make([]byte, 0, total)
	}

	buf := make([]byte, readChunk)
	var loaded int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			loaded += int64(n)
			if progress != nil {
				progress(loaded, total)
			}
		}
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
