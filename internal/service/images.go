package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"auction_system/internal/storage"

	"github.com/sirupsen/logrus"
)

// DefaultMaxUpload is the image size limit when none is configured (5 MiB).
const DefaultMaxUpload int64 = 5 << 20

// Upload is an image received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// checkImage accepts jpeg and png files no larger than maxSize.
func checkImage(up *Upload, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	want, ok := imageTypes[ext]
	if !ok {
		return ErrInvalidImage
	}
	ct := strings.ToLower(strings.TrimSpace(up.ContentType))
	if ct != "" && ct != want && !(ct == "image/jpg" && want == "image/jpeg") {
		return ErrInvalidImage
	}
	if maxSize > 0 && up.Size > maxSize {
		return ErrImageTooLarge
	}
	return nil
}

// saveImage stores up under a generated name and returns its public URL.
func saveImage(ctx context.Context, images storage.ImageStore, field string, up *Upload, maxSize int64) (string, error) {
	if err := checkImage(up, maxSize); err != nil {
		return "", err
	}
	name := storage.NewName(field, up.Filename)
	body := up.Body
	if maxSize > 0 {
		body = io.LimitReader(up.Body, maxSize+1)
	}
	ct := imageTypes[strings.ToLower(filepath.Ext(up.Filename))]
	if err := images.Save(ctx, name, body, up.Size, ct); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return storage.URL(name), nil
}

// removeImage deletes a stored image by its public URL. A failure only leaves
// an orphaned file behind, so it is logged.
func removeImage(ctx context.Context, images storage.ImageStore, url string) {
	name := storage.NameFromURL(url)
	if name == "" || images == nil {
		return
	}
	if err := images.Delete(ctx, name); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logrus.WithFields(logrus.Fields{"image": name, "error": err.Error()}).Warn("Failed to remove image")
	}
}
