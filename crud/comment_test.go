package crud

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidTube/domain"
	"vidTube/errs"
)

func TestComments(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	video := createVideo(t, db, owner, "v", true)

	for _, content := range []string{"one", "two", "three", "four", "five", "six"} {
		_, err := services.Comment.Create(ctx, fan.ID, video.ID, content)
		require.NoError(t, err)
		require.NoError(t, db.Model(&domain.Comment{}).Where("content = ?", content).Update("created_at", nextTime()).Error)
	}

	page, err := services.Comment.ByVideo(ctx, "", video.ID, firstPage(DefaultCommentLimit))
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "six", page.Items[0].Content)
	assert.Equal(t, "fan", page.Items[0].Owner.Username)
	assert.EqualValues(t, 6, page.TotalItems)
	assert.True(t, page.HasNextPage)

	_, err = services.Comment.Create(ctx, fan.ID, video.ID, "  ")
	requireCode(t, err, errs.EINVALID)
	_, err = services.Comment.Create(ctx, fan.ID, video.ID, strings.Repeat("x", maxCommentLength+1))
	requireCode(t, err, errs.EINVALID)
	_, err = services.Comment.Create(ctx, "", video.ID, "hi")
	requireCode(t, err, errs.EUNAUTHENTICATED)
}

func TestCommentsOnUnpublishedVideo(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	draft := createVideo(t, db, owner, "draft", false)

	_, err := services.Comment.Create(ctx, fan.ID, draft.ID, "hi")
	requireCode(t, err, errs.ENOTFOUND)
	_, err = services.Comment.ByVideo(ctx, fan.ID, draft.ID, firstPage(5))
	requireCode(t, err, errs.ENOTFOUND)

	_, err = services.Comment.Create(ctx, owner.ID, draft.ID, "note to self")
	require.NoError(t, err)
	page, err := services.Comment.ByVideo(ctx, owner.ID, draft.ID, firstPage(5))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestUpdateAndDeleteComment(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	video := createVideo(t, db, owner, "v", true)
	comment, err := services.Comment.Create(ctx, fan.ID, video.ID, "typo")
	require.NoError(t, err)
	_, err = services.Like.ToggleCommentLike(ctx, owner.ID, comment.ID)
	require.NoError(t, err)

	// The video owner does not own the comment.
	_, err = services.Comment.Update(ctx, owner.ID, comment.ID, "edited")
	requireCode(t, err, errs.EFORBIDDEN)

	view, err := services.Comment.Update(ctx, fan.ID, comment.ID, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", view.Content)
	assert.EqualValues(t, 1, view.LikesCount)
	assert.False(t, view.IsLiked)

	err = services.Comment.Delete(ctx, owner.ID, comment.ID)
	requireCode(t, err, errs.EFORBIDDEN)
	require.NoError(t, services.Comment.Delete(ctx, fan.ID, comment.ID))

	var n int64
	require.NoError(t, db.Model(&domain.Like{}).Where("target_id = ?", comment.ID).Count(&n).Error)
	assert.Zero(t, n)
	err = services.Comment.Delete(ctx, fan.ID, comment.ID)
	requireCode(t, err, errs.ENOTFOUND)
}
