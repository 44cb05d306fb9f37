package crud

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"vidTube/domain"
	"vidTube/errs"
)

// storeErr classifies an error returned by gorm. Application errors pass
// through untouched, a missing record becomes errs.ENOTFOUND, and anything
// else means the database failed to answer.
func storeErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Wrap(err, errs.ENOTFOUND, notFoundMsg)
	}
	return errs.Wrap(err, errs.EUNAVAILABLE, "The database is currently unavailable. Please try again.")
}

// isDuplicate reports whether err is a unique constraint violation.
// TranslateError maps these to gorm.ErrDuplicatedKey, the string checks cover
// drivers that don't translate.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// checkID makes sure that id is a well-formed identifier.
// It runs before any database lookup.
func checkID(id, name string) error {
	if !domain.ValidID(id) {
		return errs.Errorf(errs.EINVALIDID, "Invalid %s.", name)
	}
	return nil
}

// requireActor makes sure that a mutating operation has an authenticated actor.
func requireActor(actorID string) error {
	if actorID == "" {
		return errs.Errorf(errs.EUNAUTHENTICATED, "You need to be logged in to do that.")
	}
	return nil
}
