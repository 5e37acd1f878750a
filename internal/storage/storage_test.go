package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	name := NewName("image", "Photo.PNG")
	assert.True(t, strings.HasPrefix(name, "image-"))
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.Equal(t, name, NameFromURL(URL(name)))

	assert.Equal(t, "", NameFromURL("/static/x.png"))
	assert.Equal(t, "", NameFromURL("/uploads/../secret"))
	assert.Equal(t, "", NameFromURL("/uploads/a/b.png"))
	assert.Equal(t, "", ValidName(".env"))
}

func TestDisk(t *testing.T) {
	ctx := context.Background()
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, d.Save(ctx, "a.png", strings.NewReader("png-bytes"), 9, "image/png"))
	assert.Error(t, d.Save(ctx, "a.png", strings.NewReader("again"), 5, "image/png"), "names are never overwritten")

	rc, err := d.Open(ctx, "a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, d.Delete(ctx, "a.png"))
	_, err = d.Open(ctx, "a.png")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, d.Delete(ctx, "a.png"), ErrNotFound)
	_, err = d.Open(ctx, "../a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

type fakeMinio struct {
	buckets map[string]bool
	objects map[string][]byte
	putErr  error
}

func (f *fakeMinio) BucketExists(_ context.Context, b string) (bool, error) { return f.buckets[b], nil }
func (f *fakeMinio) MakeBucket(_ context.Context, b string, _ minio.MakeBucketOptions) error {
	f.buckets[b] = true
	return nil
}
func (f *fakeMinio) PutObject(_ context.Context, _, name string, r io.Reader, _ int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	b, _ := io.ReadAll(r)
	f.objects[name] = b
	return minio.UploadInfo{Key: name}, nil
}
func (f *fakeMinio) GetObject(_ context.Context, _, name string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.objects[name])), nil
}
func (f *fakeMinio) RemoveObject(_ context.Context, _, name string, _ minio.RemoveObjectOptions) error {
	delete(f.objects, name)
	return nil
}
func (f *fakeMinio) StatObject(_ context.Context, _, name string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if _, ok := f.objects[name]; !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
	}
	return minio.ObjectInfo{Key: name}, nil
}

func TestMinIO(t *testing.T) {
	ctx := context.Background()
	api := &fakeMinio{buckets: map[string]bool{}, objects: map[string][]byte{}}

	m, err := newMinIO(ctx, api, "uploads")
	require.NoError(t, err)
	assert.True(t, api.buckets["uploads"])

	require.NoError(t, m.Save(ctx, "b.jpg", strings.NewReader("jpg"), 3, "image/jpeg"))
	rc, err := m.Open(ctx, "b.jpg")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "jpg", string(data))

	require.NoError(t, m.Delete(ctx, "b.jpg"))
	_, err = m.Open(ctx, "b.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	api.putErr = errors.New("quota")
	assert.ErrorContains(t, m.Save(ctx, "c.jpg", strings.NewReader("x"), 1, "image/jpeg"), "quota")
}
