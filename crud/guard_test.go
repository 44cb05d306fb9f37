package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vidTube/domain"
	"vidTube/errs"
)

func TestAssertOwner(t *testing.T) {
	owner := "3f1c8a52-6f6e-4a4b-9d51-0c1a2b3c4d5e"
	video := &domain.Video{OwnerID: owner}

	assert.NoError(t, AssertOwner(owner, video))
	assert.NoError(t, AssertOwner(owner, &domain.Tweet{OwnerID: owner}))
	assert.NoError(t, AssertOwner(owner, &domain.Comment{OwnerID: owner}))
	assert.NoError(t, AssertOwner(owner, &domain.Playlist{OwnerID: owner}))

	assert.True(t, errs.Is(AssertOwner("someone-else", video), errs.EFORBIDDEN))
	assert.True(t, errs.Is(AssertOwner("", video), errs.EFORBIDDEN))
	assert.True(t, errs.Is(AssertOwner("", &domain.Video{}), errs.EFORBIDDEN))
	assert.True(t, errs.Is(AssertOwner(owner, nil), errs.EFORBIDDEN))
}
