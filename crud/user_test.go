package crud

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidTube/domain"
	"vidTube/errs"
)

func TestUpsertUser(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, services.User.Upsert(ctx, &domain.User{
		Model:    domain.Model{ID: id},
		Username: " Alice ",
		FullName: "Alice A.",
	}))
	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, "Alice A.", stored.FullName)

	// A second login refreshes the profile.
	require.NoError(t, services.User.Upsert(ctx, &domain.User{
		Model:     domain.Model{ID: id},
		Username:  "alice",
		FullName:  "Alice B.",
		AvatarURL: "https://img.test/a",
	}))
	require.NoError(t, db.First(&stored, "id = ?", id).Error)
	assert.Equal(t, "Alice B.", stored.FullName)
	assert.Equal(t, "https://img.test/a", stored.AvatarURL)
	var n int64
	require.NoError(t, db.Model(&domain.User{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	err := services.User.Upsert(ctx, &domain.User{Model: domain.Model{ID: uuid.NewString()}, Username: "ALICE"})
	requireCode(t, err, errs.EINVALID)
	err = services.User.Upsert(ctx, &domain.User{Model: domain.Model{ID: "1"}, Username: "bob"})
	requireCode(t, err, errs.EINVALIDID)
	err = services.User.Upsert(ctx, &domain.User{Model: domain.Model{ID: uuid.NewString()}, Username: " "})
	requireCode(t, err, errs.EINVALID)
}
