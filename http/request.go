package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"vidTube/crud"
	"vidTube/domain"
	"vidTube/errs"
)

// maxJSONBody bounds the size of json request bodies.
const maxJSONBody = 1 << 20

// maxMemory is the part of a multipart form kept in memory, the rest goes to
// temporary files.
const maxMemory = 32 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their json names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads the json body of r into dst and validates it against the
// struct tags of dst.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Wrap(err, errs.EINVALID, "Request body must be valid json.")
	}
	return validateStruct(dst)
}

// validateStruct turns the first failing validation of s into an EINVALID
// error with a readable message.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.Wrap(err, errs.EINVALID, "Invalid request.")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return errs.Errorf(errs.EINVALID, "%s is required.", fe.Field())
	case "max":
		return errs.Errorf(errs.EINVALID, "%s must be at most %s characters long.", fe.Field(), fe.Param())
	case "min":
		return errs.Errorf(errs.EINVALID, "%s must be at least %s characters long.", fe.Field(), fe.Param())
	case "gt":
		return errs.Errorf(errs.EINVALID, "%s must be greater than %s.", fe.Field(), fe.Param())
	default:
		return errs.Errorf(errs.EINVALID, "%s is invalid.", fe.Field())
	}
}

// pathParam returns a route variable of r.
func pathParam(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// pageRequest reads the pagination parameters page, limit, sortBy and
// sortType from the query string. Missing page and limit default to 1 and
// defaultLimit.
func pageRequest(r *http.Request, defaultLimit int) (domain.PageRequest, error) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), 1, "page")
	if err != nil {
		return domain.PageRequest{}, err
	}
	limit, err := intParam(q.Get("limit"), defaultLimit, "limit")
	if err != nil {
		return domain.PageRequest{}, err
	}
	return domain.PageRequest{
		Page:          page,
		Limit:         limit,
		SortField:     q.Get("sortBy"),
		SortDirection: strings.ToLower(q.Get("sortType")),
	}, nil
}

func intParam(raw string, def int, name string) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Errorf(errs.EINVALID, "Query parameter %s must be a number.", name)
	}
	return n, nil
}

// parseMultipart parses a multipart form whose total size may not exceed max.
func parseMultipart(w http.ResponseWriter, r *http.Request, max int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, max)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.Errorf(errs.EINVALID, "Request body is too large.")
		}
		return errs.Wrap(err, errs.EINVALID, "Request must be a multipart form.")
	}
	return nil
}

// formFile returns the file uploaded under field as an asset source. It
// returns nil if no such file was uploaded. The returned func closes the file.
func formFile(r *http.Request, field string, kind domain.AssetKind) (*domain.AssetSource, func(), error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, func() {}, nil
	}
	fh := r.MultipartForm.File[field][0]
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, errs.Wrap(err, errs.EINVALID, fmt.Sprintf("Could not read %s.", field))
	}
	return assetSource(fh, f, kind), func() { f.Close() }, nil
}

func assetSource(fh *multipart.FileHeader, f multipart.File, kind domain.AssetKind) *domain.AssetSource {
	return &domain.AssetSource{
		Kind:        kind,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		File:        f,
	}
}

// formValue returns a pointer to the trimmed value of a form field, or nil if
// the field was not sent at all.
func formValue(r *http.Request, field string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	return &v
}

// Default page sizes of the listing routes.
const (
	videoPageLimit   = crud.DefaultVideoLimit
	commentPageLimit = crud.DefaultCommentLimit
	pageLimit        = crud.DefaultLimit
)
