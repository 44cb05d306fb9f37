package crud

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vidTube/domain"
	"vidTube/errs"
)

func TestToggleVideoLikeRoundTrip(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	video := createVideo(t, db, owner, "first", true)

	status, err := services.Like.ToggleVideoLike(ctx, fan.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, status.IsLiked)

	status, err = services.Like.ToggleVideoLike(ctx, fan.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, status.IsLiked)

	var n int64
	require.NoError(t, db.Model(&domain.Like{}).Count(&n).Error)
	assert.Zero(t, n)

	status, err = services.Like.ToggleVideoLike(ctx, fan.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, status.IsLiked)
}

func TestToggleLikeKeepsTargetsApart(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	tweet, err := services.Tweet.Create(ctx, owner.ID, "hello")
	require.NoError(t, err)
	video := createVideo(t, db, owner, "first", true)
	comment, err := services.Comment.Create(ctx, owner.ID, video.ID, "nice")
	require.NoError(t, err)

	for _, toggle := range []func() (*domain.LikeStatus, error){
		func() (*domain.LikeStatus, error) { return services.Like.ToggleVideoLike(ctx, owner.ID, video.ID) },
		func() (*domain.LikeStatus, error) { return services.Like.ToggleCommentLike(ctx, owner.ID, comment.ID) },
		func() (*domain.LikeStatus, error) { return services.Like.ToggleTweetLike(ctx, owner.ID, tweet.ID) },
	} {
		status, err := toggle()
		require.NoError(t, err)
		assert.True(t, status.IsLiked)
	}

	var likes []domain.Like
	require.NoError(t, db.Find(&likes).Error)
	require.Len(t, likes, 3)
	kinds := map[domain.TargetKind]string{}
	for _, l := range likes {
		kinds[l.TargetKind] = l.TargetID
	}
	assert.Equal(t, video.ID, kinds[domain.TargetVideo])
	assert.Equal(t, comment.ID, kinds[domain.TargetComment])
	assert.Equal(t, tweet.ID, kinds[domain.TargetTweet])
}

func TestToggleLikeErrors(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	hidden := createVideo(t, db, owner, "draft", false)

	_, err := services.Like.ToggleVideoLike(ctx, other.ID, "not-a-uuid")
	requireCode(t, err, errs.EINVALIDID)

	_, err = services.Like.ToggleVideoLike(ctx, "", hidden.ID)
	requireCode(t, err, errs.EUNAUTHENTICATED)

	_, err = services.Like.ToggleTweetLike(ctx, other.ID, uuid.NewString())
	requireCode(t, err, errs.ENOTFOUND)

	// Unpublished videos don't exist for anyone but their owner.
	_, err = services.Like.ToggleVideoLike(ctx, other.ID, hidden.ID)
	requireCode(t, err, errs.ENOTFOUND)

	status, err := services.Like.ToggleVideoLike(ctx, owner.ID, hidden.ID)
	require.NoError(t, err)
	assert.True(t, status.IsLiked)

	// So are the comments on them.
	comment := &domain.Comment{OwnerID: owner.ID, VideoID: hidden.ID, Content: "draft note"}
	require.NoError(t, db.Create(comment).Error)
	_, err = services.Like.ToggleCommentLike(ctx, other.ID, comment.ID)
	requireCode(t, err, errs.ENOTFOUND)

	status, err = services.Like.ToggleCommentLike(ctx, owner.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, status.IsLiked)
}

func TestToggleConcurrent(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	video := createVideo(t, db, owner, "first", true)

	const n = 8
	var wg sync.WaitGroup
	type result struct {
		status *domain.LikeStatus
		err    error
	}
	results := make(chan result, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := services.Like.ToggleVideoLike(ctx, fan.ID, video.ID)
			results <- result{status, err}
		}()
	}
	wg.Wait()
	close(results)

	// Every toggle that succeeded flipped the like exactly once, and the
	// ones that gave up left it alone.
	var net int64
	for r := range results {
		if r.err != nil {
			requireCode(t, r.err, errs.EUNAVAILABLE)
			continue
		}
		if r.status.IsLiked {
			net++
		} else {
			net--
		}
	}

	var count int64
	require.NoError(t, db.Model(&domain.Like{}).
		Where("liked_by_id = ? AND target_id = ?", fan.ID, video.ID).
		Count(&count).Error)
	assert.LessOrEqual(t, count, int64(1))
	assert.Equal(t, count, net)
}

func TestToggleReportsDuplicateAsRetry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := uuid.NewString()
	b := uuid.NewString()
	require.NoError(t, db.Create(&domain.Subscription{SubscriberID: a, ChannelID: b}).Error)

	// A key whose lookup never matches runs into the unique index on every
	// create, until the attempts are used up.
	_, err := toggle(ctx, db, relationKey[domain.Subscription]{
		record: func() *domain.Subscription {
			return &domain.Subscription{SubscriberID: a, ChannelID: b}
		},
		match: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("1 = 0")
		},
	})
	requireCode(t, err, errs.EUNAVAILABLE)
}

func TestLikedVideos(t *testing.T) {
	services, db, _ := newTestServices(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	fan := createUser(t, db, "fan")
	first := createVideo(t, db, owner, "first", true)
	second := createVideo(t, db, owner, "second", true)
	hidden := createVideo(t, db, owner, "hidden", true)

	for _, v := range []*domain.Video{first, second, hidden} {
		_, err := services.Like.ToggleVideoLike(ctx, fan.ID, v.ID)
		require.NoError(t, err)
		require.NoError(t, db.Model(&domain.Like{}).Where("target_id = ?", v.ID).Update("created_at", nextTime()).Error)
	}
	// A liked video that gets unpublished drops out of the list.
	_, err := services.Video.TogglePublish(ctx, owner.ID, hidden.ID)
	require.NoError(t, err)

	page, err := services.Like.LikedVideos(ctx, fan.ID, domain.PageRequest{Page: 1, Limit: 10, SortDirection: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.EqualValues(t, 2, page.TotalItems)
	assert.Equal(t, first.ID, page.Items[0].ID)
	assert.Equal(t, second.ID, page.Items[1].ID)
	assert.Equal(t, owner.Username, page.Items[0].Owner.Username)

	_, err = services.Like.LikedVideos(ctx, "", firstPage(10))
	requireCode(t, err, errs.EUNAUTHENTICATED)
}
