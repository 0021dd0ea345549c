// Package media stores optional post images on local disk. Files are kept
// under opaque generated names; the post record only holds the name.
package media

import (
	"bytes"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	// Raster formats accepted as post images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrNotImage means the uploaded content is not a decodable raster image.
var ErrNotImage = errors.New("content is not a decodable image")

// Store writes validated images under a base directory.
type Store struct {
	basePath string
}

// NewStore creates a media store rooted at basePath, creating it if needed.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, err
	}
	return &Store{basePath: basePath}, nil
}

// Save validates that r holds a decodable image and writes it under a
// generated name, returning the name. Undecodable content yields
// ErrNotImage and nothing is written.
func (s *Store) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}

	name := uuid.New().String() + "." + format
	if err := os.WriteFile(filepath.Join(s.basePath, name), data, 0644); err != nil {
		return "", err
	}
	return name, nil
}

// Open returns the stored file for serving.
func (s *Store) Open(name string) (*os.File, error) {
	return os.Open(filepath.Join(s.basePath, filepath.Base(name)))
}
