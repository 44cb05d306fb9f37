package domain

import (
	"context"
	"io"
)

// AssetKind tells the asset storage what kind of file it is dealing with.
type AssetKind string

const (
	AssetVideo AssetKind = "video"
	AssetImage AssetKind = "image"
)

// MaxVideoSize and MaxImageSize bound the size of uploaded files.
const (
	MaxVideoSize int64 = 500 << 20 // 500 Megabyte
	MaxImageSize int64 = 5 << 20   // 5 Megabyte
)

// Asset is a reference to a file kept by the asset storage. PublicID is the
// storage's own key for the file, used to delete it again.
type Asset struct {
	PublicID string
	URL      string
}

// AssetSource is a file that is about to be uploaded.
type AssetSource struct {
	Kind        AssetKind
	Filename    string
	ContentType string
	Size        int64
	File        io.ReadSeeker
}

// UploadedAsset is what the asset storage returns after a successful upload.
// Duration is only set for videos, and only if the storage can determine it.
type UploadedAsset struct {
	Asset
	Duration float64
}

// AssetStore uploads and deletes media files.
type AssetStore interface {
	Upload(ctx context.Context, src *AssetSource) (*UploadedAsset, error)
	Delete(ctx context.Context, publicID string, kind AssetKind) error
}
