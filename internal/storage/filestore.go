// Package storage persists uploaded product images to a local directory and
// derives the servable reference path for each stored file.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dkravtsov/shop-backend/internal/logger"
)

// ErrFileTypeNotAllowed is returned for uploads whose extension is not an
// accepted image format. Nothing is written in that case.
var ErrFileTypeNotAllowed = errors.New("file type not allowed")

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/static/uploads"

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileStore writes uploads under a single directory. Stored names carry a
// `<unix-timestamp>_<ownerID>_` prefix, so concurrent uploads never collide
// and each file records who uploaded it.
type FileStore struct {
	dir string
}

// NewFileStore creates the upload directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save validates the upload by extension, stores it under a sanitized unique
// name, and returns the servable reference path.
func (s *FileStore) Save(ownerID int64, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		logger.Log.Infow("upload rejected",
			"filename", filename,
			"owner_id", ownerID,
			"error", ErrFileTypeNotAllowed,
		)
		return "", ErrFileTypeNotAllowed
	}

	name := fmt.Sprintf("%d_%d_%s", time.Now().Unix(), ownerID, sanitize(filename))
	dest := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("write %s: %w", dest, err)
	}

	logger.Log.Infow("upload stored",
		"filename", name,
		"owner_id", ownerID,
	)

	return path.Join(URLPrefix, name), nil
}

// Dir returns the directory files are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// sanitize strips path components and replaces characters that are unsafe in
// filenames or URLs.
func sanitize(filename string) string {
	base := filepath.Base(filepath.Clean(filename))
	base = strings.ReplaceAll(base, " ", "_")
	base = unsafeChars.ReplaceAllString(base, "")
	if base == "" || base == "." || base == ".." {
		base = "file"
	}
	return base
}
