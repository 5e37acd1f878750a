// Package storage keeps uploaded images. Files are addressed by a flat name and
// served back under URLPrefix.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the public path images are served from.
const URLPrefix = "/uploads/"

// ErrNotFound is returned when an image does not exist.
var ErrNotFound = errors.New("image not found")

// ImageStore persists image bytes by name.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// NewName generates a unique object name like "image-<uuid>.png".
func NewName(field, original string) string {
	return field + "-" + uuid.NewString() + strings.ToLower(filepath.Ext(original))
}

// URL returns the public path of a stored image.
func URL(name string) string {
	return URLPrefix + name
}

// NameFromURL reverses URL. It returns "" for anything that is not one of ours.
func NameFromURL(u string) string {
	if !strings.HasPrefix(u, URLPrefix) {
		return ""
	}
	return ValidName(strings.TrimPrefix(u, URLPrefix))
}

// ValidName returns name if it is a plain file name, "" otherwise.
func ValidName(name string) string {
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return ""
	}
	return name
}
