package crud

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidTube/domain"
	"vidTube/errs"
)

func TestCreateTweet(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")

	view, err := services.Tweet.Create(ctx, owner.ID, "  hello world  ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", view.Content)
	assert.Equal(t, "owner", view.Owner.Username)
	assert.Zero(t, view.LikesCount)

	// Length is counted in characters, not bytes.
	_, err = services.Tweet.Create(ctx, owner.ID, strings.Repeat("ü", domain.MaxTweetLength))
	require.NoError(t, err)
	_, err = services.Tweet.Create(ctx, owner.ID, strings.Repeat("ü", domain.MaxTweetLength+1))
	requireCode(t, err, errs.EINVALID)
	_, err = services.Tweet.Create(ctx, owner.ID, " ")
	requireCode(t, err, errs.EINVALID)
	_, err = services.Tweet.Create(ctx, "", "hi")
	requireCode(t, err, errs.EUNAUTHENTICATED)
}

func TestTweetsByUser(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	var ids []string
	for _, content := range []string{"a", "b", "c"} {
		view, err := services.Tweet.Create(ctx, owner.ID, content)
		require.NoError(t, err)
		require.NoError(t, db.Model(&domain.Tweet{}).Where("id = ?", view.ID).Update("created_at", nextTime()).Error)
		ids = append(ids, view.ID)
	}
	_, err := services.Like.ToggleTweetLike(ctx, fan.ID, ids[1])
	require.NoError(t, err)

	view, err := services.Tweet.ByUser(ctx, fan.ID, owner.ID, firstPage(2))
	require.NoError(t, err)
	assert.Equal(t, "owner", view.Owner.Username)
	require.Len(t, view.Tweets.Items, 2)
	assert.Equal(t, "c", view.Tweets.Items[0].Content)
	assert.Equal(t, "b", view.Tweets.Items[1].Content)
	assert.EqualValues(t, 1, view.Tweets.Items[1].TweetLikesCount)
	assert.True(t, view.Tweets.Items[1].IsLiked)
	assert.Equal(t, 2, view.Tweets.TotalPages)

	_, err = services.Tweet.ByUser(ctx, fan.ID, uuid.NewString(), firstPage(2))
	requireCode(t, err, errs.ENOTFOUND)
}

func TestUpdateAndDeleteTweet(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	tweet, err := services.Tweet.Create(ctx, owner.ID, "draft")
	require.NoError(t, err)
	_, err = services.Like.ToggleTweetLike(ctx, other.ID, tweet.ID)
	require.NoError(t, err)

	_, err = services.Tweet.Update(ctx, other.ID, tweet.ID, "hijacked")
	requireCode(t, err, errs.EFORBIDDEN)
	view, err := services.Tweet.Update(ctx, owner.ID, tweet.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", view.Content)

	err = services.Tweet.Delete(ctx, other.ID, tweet.ID)
	requireCode(t, err, errs.EFORBIDDEN)
	require.NoError(t, services.Tweet.Delete(ctx, owner.ID, tweet.ID))

	var n int64
	require.NoError(t, db.Model(&domain.Like{}).Where("target_id = ?", tweet.ID).Count(&n).Error)
	assert.Zero(t, n)
	_, err = services.Tweet.Update(ctx, owner.ID, tweet.ID, "again")
	requireCode(t, err, errs.ENOTFOUND)
}
