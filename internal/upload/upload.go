// Package upload stores item photos on disk under collision-free names.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/foundit-unsri/foundit/internal/imaging"
)

// FieldName is the multipart field carrying the photo.
const FieldName = "photo"

// URLPrefix is the public path under which stored photos are served.
const URLPrefix = "/uploads/"

var (
	// ErrUnsupportedImage is returned when the upload is not an accepted image.
	ErrUnsupportedImage = imaging.ErrUnsupported
	// ErrTooManyFiles is returned when more than one photo is submitted.
	ErrTooManyFiles = errors.New("only one photo may be uploaded")
	// ErrInvalidPath is returned for stored paths outside the upload directory.
	ErrInvalidPath = errors.New("invalid photo path")
)

// extAliases lists extensions kept as uploaded for each detected type.
var extAliases = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg", ".jfif"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// Store writes photos into Dir and refers to them by URLPrefix paths.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// FromRequest stores the photo of an already parsed multipart request and
// returns its relative path. It returns "" when no photo was submitted.
func (s *Store) FromRequest(r *http.Request) (string, error) {
	if r.MultipartForm != nil && len(r.MultipartForm.File[FieldName]) > 1 {
		return "", ErrTooManyFiles
	}

	file, header, err := r.FormFile(FieldName)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}
	defer file.Close()

	// Browsers send an empty part when the file input is left blank.
	if header.Size == 0 && header.Filename == "" {
		return "", nil
	}

	return s.Save(file, header.Filename)
}

// Save validates the image, writes it under a random name that keeps the
// original extension, and returns its relative path.
func (s *Store) Save(r io.Reader, originalName string) (string, error) {
	result, err := imaging.Process(r)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + chooseExt(originalName, result)
	dst := filepath.Join(s.Dir, name)

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating photo file: %w", err)
	}
	if _, err := f.Write(result.Data); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("writing photo file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("closing photo file: %w", err)
	}

	return URLPrefix + name, nil
}

// Remove deletes the file referenced by a stored relative path.
func (s *Store) Remove(rel string) error {
	p, err := s.Path(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("removing photo: %w", err)
	}
	return nil
}

// Path resolves a stored relative path to its file on disk. Only plain file
// names directly under URLPrefix are accepted.
func (s *Store) Path(rel string) (string, error) {
	name, ok := strings.CutPrefix(rel, URLPrefix)
	if !ok || name == "" || name != path.Base(name) || name == "." || name == ".." || strings.ContainsRune(name, '\\') {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	return filepath.Join(s.Dir, name), nil
}

// chooseExt keeps the original extension when it matches the detected type.
func chooseExt(originalName string, result *imaging.Result) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	for _, alias := range extAliases[result.MIME] {
		if ext == alias {
			return ext
		}
	}
	return result.Ext()
}
