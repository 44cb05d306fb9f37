package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidTube/domain"
	"vidTube/errs"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	mp4Bytes = []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isomiso2\x00\x00\x00\x08free")
)

func src(kind domain.AssetKind, name string, data []byte) *domain.AssetSource {
	return &domain.AssetSource{
		Kind:     kind,
		Filename: name,
		File:     bytes.NewReader(data),
	}
}

func TestLocalStoreUpload(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "http://localhost:1111/assets/")
	ctx := context.Background()

	up, err := store.Upload(ctx, src(domain.AssetImage, "thumb.png", pngBytes))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.PublicID, "image/"))
	assert.True(t, strings.HasSuffix(up.PublicID, ".png"))
	assert.Equal(t, "http://localhost:1111/assets/"+up.PublicID, up.URL)
	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(up.PublicID)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	video, err := store.Upload(ctx, src(domain.AssetVideo, "clip", mp4Bytes))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(video.PublicID, ".mp4"))

	require.NoError(t, store.Delete(ctx, up.PublicID, domain.AssetImage))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(up.PublicID)))
	assert.True(t, os.IsNotExist(err))
	// Deleting twice is fine.
	assert.NoError(t, store.Delete(ctx, up.PublicID, domain.AssetImage))
}

func TestLocalStoreRejects(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost/assets")
	ctx := context.Background()

	tests := map[string]*domain.AssetSource{
		"no file":           {Kind: domain.AssetImage, Filename: "a.png"},
		"empty file":        src(domain.AssetImage, "a.png", nil),
		"unknown kind":      src("audio", "a.png", pngBytes),
		"text as image":     src(domain.AssetImage, "a.png", []byte("just some text")),
		"image as video":    src(domain.AssetVideo, "a.png", pngBytes),
		"wrong extension":   src(domain.AssetImage, "a.jpg", pngBytes),
		"video as image":    src(domain.AssetImage, "a.mp4", mp4Bytes),
	}
	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := store.Upload(ctx, s)
			require.Error(t, err)
			assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
		})
	}
}

func TestLocalStoreDeleteStaysInside(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(filepath.Join(root, "assets"), "http://localhost/assets")
	secret := filepath.Join(root, "secret.png")
	require.NoError(t, os.WriteFile(secret, pngBytes, 0644))
	ctx := context.Background()

	for _, id := range []string{"../secret.png", "image/../../secret.png", "/secret.png", "video/a.mp4"} {
		err := store.Delete(ctx, id, domain.AssetImage)
		assert.Equal(t, errs.EINVALID, errs.ErrorCode(err), id)
	}
	_, err := os.Stat(secret)
	assert.NoError(t, err)
}

func TestObjectURL(t *testing.T) {
	key := objectKey(domain.AssetImage, "a b.png")
	assert.Equal(t, "image/a b.png", key)
	assert.Equal(t, "https://cdn.test/bucket/image/a%20b.png", objectURL("https://cdn.test/bucket", key))
}
