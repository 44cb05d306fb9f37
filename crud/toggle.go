package crud

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vidTube/errs"
	"vidTube/logger"
)

// toggleAttempts bounds how often toggle re-checks the current state after
// losing a race against a concurrent toggle of the same relation.
const toggleAttempts = 3

// relationKey identifies one relation record by its unique key.
// record returns a new record carrying the key, match restricts a query to
// the records with that key.
type relationKey[R any] struct {
	record func() *R
	match  func(tx *gorm.DB) *gorm.DB
}

// toggle flips the existence of the relation record identified by key. If the
// record exists it is deleted and toggle returns false, otherwise it is created
// and toggle returns true.
//
// The unique index on the relation table is what keeps concurrent toggles from
// creating two records. When the create runs into it, or the delete finds
// nothing left to delete, another request flipped the relation in the
// meantime, so toggle looks again and flips the state it finds. Every
// successful toggle thus changes the relation exactly once.
func toggle[R any](ctx context.Context, db *gorm.DB, key relationKey[R]) (bool, error) {
	for attempt := 1; attempt <= toggleAttempts; attempt++ {
		var found []R
		err := key.match(db.WithContext(ctx).Model(key.record())).
			Limit(1).
			Find(&found).Error
		if err != nil {
			return false, storeErr(err, "")
		}

		if len(found) > 0 {
			res := key.match(db.WithContext(ctx)).Delete(key.record())
			if res.Error != nil {
				return false, storeErr(res.Error, "")
			}
			if res.RowsAffected > 0 {
				return false, nil
			}
			// A concurrent toggle deleted it first.
			logger.Debug("relation deleted concurrently, checking again", zap.Int("attempt", attempt))
			continue
		}

		err = db.WithContext(ctx).Create(key.record()).Error
		if err == nil {
			return true, nil
		}
		if !isDuplicate(err) {
			return false, storeErr(err, "")
		}
		logger.Debug("relation created concurrently, checking again", zap.Int("attempt", attempt))
	}
	return false, errs.Errorf(errs.EUNAVAILABLE, "The relation is being changed by another request. Please try again.")
}
