package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vidTube/domain"
	"vidTube/errs"
)

// LocalStore keeps assets as files below a root directory. A file's public
// ID is its path relative to the root, e.g. "video/<uuid>.mp4", and its URL
// is that path below BaseURL.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore returns a LocalStore writing below root. The http server
// serves root under baseURL.
func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

var _ domain.AssetStore = &LocalStore{}

// Root returns the directory the files are stored in.
func (ls *LocalStore) Root() string {
	return ls.root
}

// Upload validates the file and copies it below the root directory under a
// fresh unique name.
func (ls *LocalStore) Upload(ctx context.Context, src *domain.AssetSource) (*domain.UploadedAsset, error) {
	a, err := validate(src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	publicID := path.Join(string(a.Kind), uuid.NewString()+a.ext)
	dir := filepath.Join(ls.root, string(a.Kind))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	dst, err := os.Create(filepath.Join(ls.root, filepath.FromSlash(publicID)))
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, a.File); err != nil {
		_ = os.Remove(dst.Name())
		return nil, err
	}
	return &domain.UploadedAsset{
		Asset: domain.Asset{
			PublicID: publicID,
			URL:      ls.baseURL + "/" + publicID,
		},
	}, nil
}

// Delete removes a stored file. Deleting a file that is already gone is not an error.
func (ls *LocalStore) Delete(ctx context.Context, publicID string, kind domain.AssetKind) error {
	p, err := ls.path(publicID, kind)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// path resolves a public ID to a file path, refusing IDs that point outside
// the directory of their kind.
func (ls *LocalStore) path(publicID string, kind domain.AssetKind) (string, error) {
	clean := path.Clean("/" + publicID)[1:]
	if clean != publicID || path.Dir(clean) != string(kind) {
		return "", errs.Errorf(errs.EINVALID, "Invalid asset id %q.", publicID)
	}
	return filepath.Join(ls.root, filepath.FromSlash(clean)), nil
}
