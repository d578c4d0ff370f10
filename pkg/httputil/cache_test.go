package httputil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}

	want := Resource{Type: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	if err := c.Set("https://example.com/logo.png", want); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	var got Resource
	ok, err := c.Get("https://example.com/logo.png", &got)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, want true, nil", ok, err)
	}
	if got.Type != want.Type || string(got.Data) != string(want.Data) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var v string
	ok, err := c.Get("absent", &v)
	if ok || err != nil {
		t.Errorf("Get() = %v, %v, want false, nil", ok, err)
	}
}

func TestCache_Expired(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewCache(dir, time.Minute)
	if err := c.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(c.keyPath("k"), old, old); err != nil {
		t.Fatal(err)
	}

	var v string
	if _, err := c.Get("k", &v); !errors.Is(err, ErrExpired) {
		t.Errorf("Get() error = %v, want ErrExpired", err)
	}
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	_ = c.Set("k", "v")
	old := time.Now().Add(-24 * 365 * time.Hour)
	_ = os.Chtimes(c.keyPath("k"), old, old)

	var v string
	if ok, err := c.Get("k", &v); !ok || err != nil {
		t.Errorf("Get() = %v, %v, want true, nil", ok, err)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	images := c.Namespace("images:")
	_ = images.Set("k", "image")
	_ = c.Set("k", "plain")

	var v string
	images.Get("k", &v)
	if v != "image" {
		t.Errorf("namespaced Get() = %q, want %q", v, "image")
	}
	c.Get("images:k", &v)
	if v != "image" {
		t.Errorf("prefixed Get() = %q, want %q", v, "image")
	}
	if got := c.Namespace("a:").Namespace("b:").prefix; got != "a:b:" {
		t.Errorf("nested prefix = %q, want %q", got, "a:b:")
	}
}

func TestNewCache_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	want := filepath.Join(home, ".cache", "supplychain")
	if c.Dir() != want {
		t.Errorf("Dir() = %q, want %q", c.Dir(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("cache dir not created: %v", err)
	}
}
