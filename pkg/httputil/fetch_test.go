package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetch_DataURI(t *testing.T) {
	tests := []struct {
		ref      string
		wantType string
		wantData string
	}{
		{"data:image/svg+xml;base64,PHN2Zy8+", "image/svg+xml", "<svg/>"},
		{"data:text/plain,hello%20world", "text/plain", "hello world"},
		{"data:,x", "text/plain;charset=US-ASCII", "x"},
	}
	var f Fetcher
	for _, tt := range tests {
		got, err := f.Fetch(context.Background(), tt.ref)
		if err != nil {
			t.Fatalf("Fetch(%q) error: %v", tt.ref, err)
		}
		if got.Type != tt.wantType || string(got.Data) != tt.wantData {
			t.Errorf("Fetch(%q) = %q %q, want %q %q", tt.ref, got.Type, got.Data, tt.wantType, tt.wantData)
		}
	}

	if _, err := f.Fetch(context.Background(), "data:image/png;base64"); err == nil {
		t.Error("Fetch() without payload succeeded, want error")
	}
}

func TestFetch_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.svg")
	if err := os.WriteFile(path, []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	var f Fetcher
	for _, ref := range []string{path, "file://" + path} {
		got, err := f.Fetch(context.Background(), ref)
		if err != nil {
			t.Fatalf("Fetch(%q) error: %v", ref, err)
		}
		if !strings.HasPrefix(got.Type, "image/svg+xml") || string(got.Data) != "<svg/>" {
			t.Errorf("Fetch(%q) = %q %q", ref, got.Type, got.Data)
		}
	}
}

func TestFetch_HTTPRetriesAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	cache, _ := NewCache(t.TempDir(), time.Hour)
	f := &Fetcher{Client: srv.Client(), Cache: cache, Delay: time.Millisecond}

	for range 2 {
		got, err := f.Fetch(context.Background(), srv.URL+"/logo.png")
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if got.Type != "image/png" || string(got.Data) != "png-bytes" {
			t.Errorf("Fetch() = %q %q", got.Type, got.Data)
		}
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server calls = %d, want 2 (one retry, then cached)", n)
	}
}

func TestFetch_HTTPClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := &Fetcher{Client: srv.Client(), Delay: time.Millisecond}
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("Fetch() succeeded, want error")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server calls = %d, want 1", n)
	}
}

func TestFetch_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.bin")
	_ = os.WriteFile(path, make([]byte, 64), 0o644)
	f := &Fetcher{MaxBytes: 16}
	if _, err := f.Fetch(context.Background(), path); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Fetch() error = %v, want ErrTooLarge", err)
	}
}

func TestFetch_UnsupportedScheme(t *testing.T) {
	var f Fetcher
	if _, err := f.Fetch(context.Background(), "ftp://example.com/x.png"); err == nil {
		t.Error("Fetch() succeeded, want error")
	}
}

func TestResource_DataURI(t *testing.T) {
	r := Resource{Type: "image/svg+xml", Data: []byte("<svg/>")}
	if got, want := r.DataURI(), "data:image/svg+xml;base64,PHN2Zy8+"; got != want {
		t.Errorf("DataURI() = %q, want %q", got, want)
	}
}
