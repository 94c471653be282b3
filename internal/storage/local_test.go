package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestSaveAndRemovePNG(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir, "uploads", 1024)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	url, err := store.Save(context.Background(), Upload{Filename: "wallet.PNG", ContentType: "image/png", Reader: bytes.NewReader(pngHeader)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, path.Base(url))); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	if err := store.Remove(context.Background(), url); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, path.Base(url))); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file removed, got %v", err)
	}
}

func TestSaveRejectsNonImages(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir(), "/uploads", 1024)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	tests := []struct {
		name   string
		upload Upload
	}{
		{"bad extension", Upload{Filename: "notes.gif", ContentType: "image/gif", Reader: bytes.NewReader(pngHeader)}},
		{"declared mime mismatch", Upload{Filename: "a.png", ContentType: "text/plain", Reader: bytes.NewReader(pngHeader)}},
		{"content is text", Upload{Filename: "a.jpg", ContentType: "image/jpeg", Reader: strings.NewReader("hello world")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := store.Save(context.Background(), tc.upload); !errors.Is(err, ErrUnsupportedImage) {
				t.Fatalf("expected ErrUnsupportedImage, got %v", err)
			}
		})
	}
}

func TestSaveEnforcesSizeLimit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir, "/uploads", 32)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)

	if _, err := store.Save(context.Background(), Upload{Filename: "big.png", Reader: bytes.NewReader(big)}); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected oversized file cleaned up, found %d entries", len(entries))
	}
}
