package crud

import (
	"vidTube/domain"
	"vidTube/errs"
)

// AssertOwner makes sure that the actor owns the content item. It runs before
// every update or delete of a video, comment, tweet or playlist, and never on
// reads.
func AssertOwner(actorID string, item domain.Owned) error {
	if actorID == "" || item == nil || item.OwnerKey() != actorID {
		return errs.Errorf(errs.EFORBIDDEN, "You are not allowed to change this content.")
	}
	return nil
}
