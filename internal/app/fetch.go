package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FetchMode tells the fetcher how the payload is consumed
type FetchMode int

const (
	// ModeBinary returns the bytes unchanged
	ModeBinary FetchMode = iota
	// ModeText returns the payload as UTF-8 text without a byte order mark
	ModeText
)

func (m FetchMode) String() string {
	if m == ModeText {
		return "text"
	}
	return "binary"
}

// ModeFor returns the fetch mode a kind is decoded from
func ModeFor(kind Kind) FetchMode {
	if kind == KindOBJ {
		return ModeText
	}
	return ModeBinary
}

// Fetcher retrieves the payload of a file entry
type Fetcher interface {
	Fetch(ctx context.Context, location string, mode FetchMode) ([]byte, error)
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

func applyMode(data []byte, mode FetchMode) []byte {
	if mode == ModeText {
		return bytes.TrimPrefix(data, utf8BOM)
	}
	return data
}

// FileFetcher reads entries from the local file system. Relative locations
// are resolved against Root when it is set.
type FileFetcher struct {
	Root string
}

// Fetch reads the whole file
func (f FileFetcher) Fetch(ctx context.Context, location string, mode FetchMode) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := location
	if f.Root != "" && !filepath.IsAbs(p) {
		p = filepath.Join(f.Root, p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return applyMode(data, mode), nil
}

// HTTPFetcher downloads entries with GET requests. Relative locations are
// resolved against BaseURL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// Fetch downloads the payload and fails on non-2xx responses
func (f HTTPFetcher) Fetch(ctx context.Context, location string, mode FetchMode) ([]byte, error) {
	target, err := f.resolve(location)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: %s", target, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", target, err)
	}
	return applyMode(data, mode), nil
}

func (f HTTPFetcher) resolve(location string) (string, error) {
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid location %q: %w", location, err)
	}
	if f.BaseURL == "" || ref.IsAbs() {
		return ref.String(), nil
	}

	base := f.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", f.BaseURL, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
