package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidTube/domain"
	"vidTube/errs"
)

// U1 owns V1. U2 likes V1, comments on it and subscribes to U1.
func TestVideoViewPerViewer(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	u1 := createUser(t, db, "u1")
	u2 := createUser(t, db, "u2")
	v1 := createVideo(t, db, u1, "v1", true)

	_, err := services.Like.ToggleVideoLike(ctx, u2.ID, v1.ID)
	require.NoError(t, err)
	_, err = services.Comment.Create(ctx, u2.ID, v1.ID, "first!")
	require.NoError(t, err)
	_, err = services.Subscription.Toggle(ctx, u2.ID, u1.ID)
	require.NoError(t, err)

	asU2, err := services.Video.ByID(ctx, u2.ID, v1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, asU2.LikesCount)
	assert.EqualValues(t, 1, asU2.CommentsCount)
	assert.True(t, asU2.IsLiked)
	assert.Equal(t, u1.ID, asU2.Owner.ID)
	assert.Equal(t, "u1", asU2.Owner.Username)
	assert.EqualValues(t, 1, asU2.Owner.SubscribersCount)
	assert.True(t, asU2.Owner.IsSubscribed)

	anonymous, err := services.Video.ByID(ctx, "", v1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, anonymous.LikesCount)
	assert.False(t, anonymous.IsLiked)
	assert.False(t, anonymous.Owner.IsSubscribed)

	asU1, err := services.Video.ByID(ctx, u1.ID, v1.ID)
	require.NoError(t, err)
	assert.False(t, asU1.IsLiked)
	assert.False(t, asU1.Owner.IsSubscribed)

	// Every read counts one view, after composing the view.
	assert.EqualValues(t, 0, asU2.Views)
	assert.EqualValues(t, 1, anonymous.Views)
	assert.EqualValues(t, 2, asU1.Views)
}

func TestVideoViewsBatch(t *testing.T) {
	_, db, _ := newTestServices(t)
	ctx := context.Background()
	u1 := createUser(t, db, "u1")
	u2 := createUser(t, db, "u2")
	a := createVideo(t, db, u1, "a", true)
	b := createVideo(t, db, u2, "b", true)
	require.NoError(t, db.Create(domain.NewLike(u2.ID, domain.Target{Kind: domain.TargetVideo, ID: a.ID})).Error)
	require.NoError(t, db.Create(domain.NewLike(u1.ID, domain.Target{Kind: domain.TargetVideo, ID: a.ID})).Error)
	// A like on a comment with the same id must not count for the video.
	require.NoError(t, db.Create(domain.NewLike(u1.ID, domain.Target{Kind: domain.TargetComment, ID: b.ID})).Error)

	views, err := composer{db: db}.videoViews(ctx, u1.ID, []domain.Video{*a, *b})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, a.ID, views[0].ID)
	assert.EqualValues(t, 2, views[0].LikesCount)
	assert.True(t, views[0].IsLiked)
	assert.Equal(t, "u1", views[0].Owner.Username)
	assert.Equal(t, b.ID, views[1].ID)
	assert.EqualValues(t, 0, views[1].LikesCount)
	assert.False(t, views[1].IsLiked)
	assert.Equal(t, "u2", views[1].Owner.Username)
}

func TestComposeMissingOwner(t *testing.T) {
	_, db, _ := newTestServices(t)
	ctx := context.Background()
	u1 := createUser(t, db, "u1")
	v := createVideo(t, db, u1, "orphan", true)
	require.NoError(t, db.Delete(&domain.User{}, "id = ?", u1.ID).Error)

	_, err := composer{db: db}.videoViews(ctx, "", []domain.Video{*v})
	requireCode(t, err, errs.EINTEGRITY)
}

func TestChannelProfile(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	u1 := createUser(t, db, "u1")
	u2 := createUser(t, db, "u2")
	u3 := createUser(t, db, "u3")
	createVideo(t, db, u1, "public", true)
	createVideo(t, db, u1, "draft", false)

	_, err := services.Subscription.Toggle(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	_, err = services.Subscription.Toggle(ctx, u3.ID, u1.ID)
	require.NoError(t, err)
	_, err = services.Subscription.Toggle(ctx, u1.ID, u3.ID)
	require.NoError(t, err)

	profile, err := services.User.ChannelProfile(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.Username)
	assert.EqualValues(t, 2, profile.SubscribersCount)
	assert.True(t, profile.IsSubscribed)
	assert.EqualValues(t, 1, profile.ChannelsSubscribedToCount)
	assert.EqualValues(t, 1, profile.VideosCount)

	own, err := services.User.ChannelProfile(ctx, u1.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, own.IsSubscribed)
	assert.EqualValues(t, 2, own.VideosCount)

	_, err = services.User.ChannelProfile(ctx, "", "nope")
	requireCode(t, err, errs.EINVALIDID)
}
