package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnsupportedImage is returned for anything other than JPEG or PNG.
var ErrUnsupportedImage = errors.New("only jpeg and png images are allowed")

// ErrImageTooLarge is returned when an upload exceeds the configured limit.
var ErrImageTooLarge = errors.New("image exceeds size limit")

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Upload describes an incoming image.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// LocalImageStore writes images under a directory served at URLPrefix.
type LocalImageStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	now       func() time.Time
}

// NewLocalImageStore creates dir if needed.
func NewLocalImageStore(dir, urlPrefix string, maxBytes int64) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxBytes:  maxBytes,
		now:       time.Now,
	}, nil
}

// Dir returns the directory images are written to.
func (s *LocalImageStore) Dir() string { return s.dir }

// URLPrefix returns the public path prefix for stored images.
func (s *LocalImageStore) URLPrefix() string { return s.urlPrefix }

// Save validates the declared extension, declared MIME type and sniffed
// content, then writes the file under a time-based name and returns its URL.
func (s *LocalImageStore) Save(_ context.Context, upload Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	wantMIME, ok := allowedExtensions[ext]
	if !ok {
		return "", ErrUnsupportedImage
	}
	if declared := normalizeMIME(upload.ContentType); declared != "" && declared != wantMIME {
		return "", ErrUnsupportedImage
	}

	br := bufio.NewReaderSize(upload.Reader, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if http.DetectContentType(head) != wantMIME {
		return "", ErrUnsupportedImage
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], ext)
	dst := filepath.Join(s.dir, name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}

	var src io.Reader = br
	if s.maxBytes > 0 {
		src = io.LimitReader(br, s.maxBytes+1)
	}
	written, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(dst)
		return "", fmt.Errorf("write image: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(dst)
		return "", fmt.Errorf("close image: %w", closeErr)
	case s.maxBytes > 0 && written > s.maxBytes:
		_ = os.Remove(dst)
		return "", ErrImageTooLarge
	}

	return path.Join(s.urlPrefix, name), nil
}

// Remove deletes a previously saved image by URL. Unknown URLs are ignored.
func (s *LocalImageStore) Remove(_ context.Context, url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return nil
	}
	name := path.Base(url)
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func normalizeMIME(contentType string) string {
	mime, _, _ := strings.Cut(contentType, ";")
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime == "image/jpg" {
		return "image/jpeg"
	}
	return mime
}
