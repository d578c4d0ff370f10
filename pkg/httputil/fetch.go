package httputil

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher defaults.
const (
	DefaultAttempts = 3
	DefaultDelay    = 500 * time.Millisecond
	DefaultMaxBytes = 8 << 20
)

// ErrTooLarge is returned for resources larger than the fetcher's limit.
var ErrTooLarge = errors.New("resource too large")

// Resource is fetched content with its media type.
type Resource struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

// DataURI returns the resource as a base64 data URI.
func (r Resource) DataURI() string {
	return "data:" + r.Type + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Fetcher resolves resource references. The zero value uses
// http.DefaultClient, no cache and the default limits.
type Fetcher struct {
	Client   *http.Client
	Cache    *Cache
	Attempts int
	Delay    time.Duration
	MaxBytes int64
}

// Fetch resolves ref, which may be a data: URI, a file: URL, a local path,
// or an http(s) URL. Remote resources are cached when a Cache is set.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (Resource, error) {
	if strings.HasPrefix(ref, "data:") {
		return parseDataURI(ref)
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		path := ref
		if err == nil && u.Scheme == "file" {
			path = u.Path
		}
		return f.readFile(path)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Resource{}, fmt.Errorf("fetch %s: unsupported scheme %q", ref, u.Scheme)
	}

	if f.Cache != nil {
		var r Resource
		if ok, _ := f.Cache.Get(ref, &r); ok {
			return r, nil
		}
	}

	attempts, delay := f.Attempts, f.Delay
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	var res Resource
	err = Retry(ctx, attempts, delay, func() error {
		var err error
		res, err = f.get(ctx, ref)
		return err
	})
	if err != nil {
		return Resource{}, fmt.Errorf("fetch %s: %w", ref, err)
	}
	if f.Cache != nil {
		_ = f.Cache.Set(ref, res)
	}
	return res, nil
}

func (f *Fetcher) get(ctx context.Context, ref string) (Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return Resource{}, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Resource{}, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return Resource{}, &RetryableError{Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return Resource{}, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := f.readLimited(resp.Body)
	if err != nil {
		return Resource{}, err
	}
	typ := resp.Header.Get("Content-Type")
	if typ == "" {
		typ = http.DetectContentType(data)
	}
	return Resource{Type: typ, Data: data}, nil
}

func (f *Fetcher) readFile(path string) (Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return Resource{}, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer file.Close()
	data, err := f.readLimited(file)
	if err != nil {
		return Resource{}, fmt.Errorf("fetch %s: %w", path, err)
	}
	typ := mime.TypeByExtension(filepath.Ext(path))
	if typ == "" {
		typ = http.DetectContentType(data)
	}
	return Resource{Type: typ, Data: data}, nil
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

// parseDataURI decodes "data:[<type>][;base64],<payload>".
func parseDataURI(ref string) (Resource, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return Resource{}, fmt.Errorf("fetch data URI: missing payload")
	}
	typ, isBase64 := strings.CutSuffix(meta, ";base64")
	if typ == "" {
		typ = "text/plain;charset=US-ASCII"
	}
	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return Resource{}, fmt.Errorf("fetch data URI: %w", err)
		}
		return Resource{Type: typ, Data: data}, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return Resource{}, fmt.Errorf("fetch data URI: %w", err)
	}
	return Resource{Type: typ, Data: []byte(data)}, nil
}
