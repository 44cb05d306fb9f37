package storage

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"vidTube/domain"
	"vidTube/logger"
)

// MinioConfig holds the connection details of an S3 compatible object storage.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PathStyle bool   `mapstructure:"path_style"`
	// PublicURL is the address objects are served from. It defaults to
	// the endpoint followed by the bucket.
	PublicURL string `mapstructure:"public_url"`
}

// MinioStore keeps assets as objects in an S3 compatible bucket. A file's
// public ID is its object key.
type MinioStore struct {
	cl        *minio.Client
	bucket    string
	publicURL string
}

var _ domain.AssetStore = &MinioStore{}

// NewMinioStore connects to the object storage and creates the bucket if it
// doesn't exist yet.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	cl, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}
	exists, err := cl.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = cl.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, err
		}
		logger.Info("created asset bucket", zap.String("bucket", cfg.Bucket))
	}
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = cl.EndpointURL().String() + "/" + cfg.Bucket
	}
	return &MinioStore{
		cl:        cl,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

// Upload validates the file and puts it into the bucket under a fresh unique key.
func (ms *MinioStore) Upload(ctx context.Context, src *domain.AssetSource) (*domain.UploadedAsset, error) {
	a, err := validate(src)
	if err != nil {
		return nil, err
	}
	key := objectKey(a.Kind, uuid.NewString()+a.ext)
	_, err = ms.cl.PutObject(ctx, ms.bucket, key, a.File, a.Size, minio.PutObjectOptions{
		ContentType: a.ContentType,
	})
	if err != nil {
		return nil, err
	}
	return &domain.UploadedAsset{
		Asset: domain.Asset{
			PublicID: key,
			URL:      objectURL(ms.publicURL, key),
		},
	}, nil
}

// Delete removes an object from the bucket.
func (ms *MinioStore) Delete(ctx context.Context, publicID string, kind domain.AssetKind) error {
	return ms.cl.RemoveObject(ctx, ms.bucket, publicID, minio.RemoveObjectOptions{})
}

func objectKey(kind domain.AssetKind, name string) string {
	return path.Join(string(kind), name)
}

// objectURL returns the address of the object with the given key.
func objectURL(base, key string) string {
	return base + "/" + (&url.URL{Path: key}).EscapedPath()
}
