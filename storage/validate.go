package storage

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"vidTube/domain"
	"vidTube/errs"
)

// allowed lists the content types accepted per asset kind, with the file
// extension each one is stored under.
var allowed = map[domain.AssetKind]map[string]string{
	domain.AssetVideo: {
		"video/mp4":       ".mp4",
		"video/webm":      ".webm",
		"video/quicktime": ".mov",
	},
	domain.AssetImage: {
		"image/jpeg": ".jpeg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
}

// maxSize holds the upload size limit per asset kind.
var maxSize = map[domain.AssetKind]int64{
	domain.AssetVideo: domain.MaxVideoSize,
	domain.AssetImage: domain.MaxImageSize,
}

// asset is an AssetSource that passed validation, together with the
// extension it is stored under.
type asset struct {
	*domain.AssetSource
	ext string
}

// validate runs all checks an upload has to pass before it is stored,
// no matter where it is stored.
func validate(src *domain.AssetSource) (*asset, error) {
	a := &asset{AssetSource: src}
	err := runAssetValFns(a,
		fileRequired,
		kindValid,
		belowMaxSize,
		contentTypeValid,
		extensionMatches)
	if err != nil {
		return nil, err
	}
	return a, nil
}

type assetValFn func(a *asset) error

func runAssetValFns(a *asset, fns ...assetValFn) error {
	for _, fn := range fns {
		if err := fn(a); err != nil {
			return err
		}
	}
	return nil
}

func fileRequired(a *asset) error {
	if a.AssetSource == nil || a.File == nil {
		return errs.Errorf(errs.EINVALID, "A file is required.")
	}
	return nil
}

func kindValid(a *asset) error {
	if _, ok := allowed[a.Kind]; !ok {
		return errs.Errorf(errs.EINVALID, "Unknown asset kind %q.", a.Kind)
	}
	return nil
}

// belowMaxSize measures the file and makes sure it is not empty and not too large.
func belowMaxSize(a *asset) error {
	size, err := a.File.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err = rewind(a); err != nil {
		return err
	}
	if size == 0 {
		return errs.Errorf(errs.EINVALID, "File %s is empty.", a.Filename)
	}
	if limit := maxSize[a.Kind]; size > limit {
		return errs.Errorf(errs.EINVALID, "File %s exceeds upload size limit of %dMB.", a.Filename, limit>>20)
	}
	a.Size = size
	return nil
}

// contentTypeValid sniffs the content type from the file's first bytes.
// The content type the client claims is ignored.
func contentTypeValid(a *asset) error {
	mime, err := mimetype.DetectReader(a.File)
	if err != nil {
		return err
	}
	if err = rewind(a); err != nil {
		return err
	}
	contentType := mime.String()
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := allowed[a.Kind][contentType]
	if !ok {
		return errs.Errorf(errs.EINVALID, "File %s has unsupported content type %s for a %s.", a.Filename, contentType, a.Kind)
	}
	a.ContentType = contentType
	a.ext = ext
	return nil
}

// extensionMatches makes sure that the file name's extension, if there is
// one, agrees with the sniffed content type.
func extensionMatches(a *asset) error {
	ext := strings.ToLower(filepath.Ext(a.Filename))
	if ext == "" {
		return nil
	}
	if ext == ".jpg" {
		ext = ".jpeg"
	}
	if ext != a.ext {
		return errs.Errorf(errs.EINVALID, "File %s content type %s does not match its extension.", a.Filename, a.ContentType)
	}
	return nil
}

// rewind moves back to the beginning of the file, so that subsequent reads will work.
func rewind(a *asset) error {
	_, err := a.File.Seek(0, io.SeekStart)
	return err
}
