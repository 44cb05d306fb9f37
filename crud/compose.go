package crud

import (
	"context"

	"gorm.io/gorm"

	"vidTube/domain"
	"vidTube/errs"
)

// composer builds the views of stored records. Every join runs once per
// batch of records, never once per record: owners are loaded with one IN
// query, counts with one GROUP BY query and viewer flags with one IN query
// restricted to the viewer.
type composer struct {
	db *gorm.DB
}

// countRow is one row of a grouped count.
type countRow struct {
	GroupKey string
	N        int64
}

// distinct returns the non-empty ids in order of first appearance.
func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// owners loads the users with the given ids. Content whose owner is missing
// violates the delete cascade, so a missing user is an integrity error.
func (c composer) owners(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	ids = distinct(ids)
	out := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []domain.User
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, storeErr(err, "")
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, errs.Errorf(errs.EINTEGRITY, "The owner of this content no longer exists.")
		}
	}
	return out, nil
}

// count runs a grouped count over model, keyed by the column key.
func (c composer) count(ctx context.Context, model interface{}, key string, ids []string, where ...interface{}) (map[string]int64, error) {
	ids = distinct(ids)
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	tx := c.db.WithContext(ctx).Model(model).
		Select(key+" AS group_key, COUNT(*) AS n").
		Where(key+" IN ?", ids)
	if len(where) > 0 {
		tx = tx.Where(where[0], where[1:]...)
	}
	var rows []countRow
	if err := tx.Group(key).Scan(&rows).Error; err != nil {
		return nil, storeErr(err, "")
	}
	for _, r := range rows {
		out[r.GroupKey] = r.N
	}
	return out, nil
}

func (c composer) likeCounts(ctx context.Context, kind domain.TargetKind, ids []string) (map[string]int64, error) {
	return c.count(ctx, &domain.Like{}, "target_id", ids, "target_kind = ?", kind)
}

func (c composer) commentCounts(ctx context.Context, videoIDs []string) (map[string]int64, error) {
	return c.count(ctx, &domain.Comment{}, "video_id", videoIDs)
}

func (c composer) subscriberCounts(ctx context.Context, channelIDs []string) (map[string]int64, error) {
	return c.count(ctx, &domain.Subscription{}, "channel_id", channelIDs)
}

func (c composer) subscribedToCounts(ctx context.Context, subscriberIDs []string) (map[string]int64, error) {
	return c.count(ctx, &domain.Subscription{}, "subscriber_id", subscriberIDs)
}

func (c composer) playlistVideoCounts(ctx context.Context, playlistIDs []string) (map[string]int64, error) {
	return c.count(ctx, &domain.PlaylistVideo{}, "playlist_id", playlistIDs)
}

// viewerFlags returns the subset of ids that the viewer is related to through
// model, where column holds the related id and viewerColumn the viewer.
// Anonymous viewers are never related to anything.
func (c composer) viewerFlags(ctx context.Context, viewerID string, model interface{}, viewerColumn, column string, ids []string, where ...interface{}) (map[string]bool, error) {
	ids = distinct(ids)
	out := make(map[string]bool, len(ids))
	if viewerID == "" || len(ids) == 0 {
		return out, nil
	}
	tx := c.db.WithContext(ctx).Model(model).
		Where(viewerColumn+" = ?", viewerID).
		Where(column+" IN ?", ids)
	if len(where) > 0 {
		tx = tx.Where(where[0], where[1:]...)
	}
	var related []string
	if err := tx.Pluck(column, &related).Error; err != nil {
		return nil, storeErr(err, "")
	}
	for _, id := range related {
		out[id] = true
	}
	return out, nil
}

func (c composer) likedBy(ctx context.Context, viewerID string, kind domain.TargetKind, ids []string) (map[string]bool, error) {
	return c.viewerFlags(ctx, viewerID, &domain.Like{}, "liked_by_id", "target_id", ids, "target_kind = ?", kind)
}

func (c composer) subscribedBy(ctx context.Context, viewerID string, channelIDs []string) (map[string]bool, error) {
	return c.viewerFlags(ctx, viewerID, &domain.Subscription{}, "subscriber_id", "channel_id", channelIDs)
}

func ownerSummary(u *domain.User) domain.OwnerSummary {
	return domain.OwnerSummary{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

func videoFields(v *domain.Video) domain.VideoFields {
	return domain.VideoFields{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoFile.URL,
		ThumbnailURL: v.Thumbnail.URL,
		Duration:     v.Duration,
		Views:        v.Views,
		IsPublished:  v.IsPublished,
		CreatedAt:    v.CreatedAt,
	}
}

// channelViews composes the channel views of users, in the order given.
func (c composer) channelViews(ctx context.Context, viewerID string, users []*domain.User) ([]domain.ChannelView, error) {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	subscribers, err := c.subscriberCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := c.subscribedBy(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ChannelView, len(users))
	for i, u := range users {
		out[i] = domain.ChannelView{
			OwnerSummary:     ownerSummary(u),
			SubscribersCount: subscribers[u.ID],
			IsSubscribed:     subscribed[u.ID],
		}
	}
	return out, nil
}

// channelView composes the channel view of a single user.
func (c composer) channelView(ctx context.Context, viewerID string, user *domain.User) (*domain.ChannelView, error) {
	views, err := c.channelViews(ctx, viewerID, []*domain.User{user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// channelsByID loads users and composes their channel views, keyed by id.
func (c composer) channelsByID(ctx context.Context, viewerID string, ids []string) (map[string]domain.ChannelView, error) {
	users, err := c.owners(ctx, ids)
	if err != nil {
		return nil, err
	}
	list := make([]*domain.User, 0, len(users))
	for _, u := range users {
		list = append(list, u)
	}
	views, err := c.channelViews(ctx, viewerID, list)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ChannelView, len(views))
	for _, v := range views {
		out[v.ID] = v
	}
	return out, nil
}

// videoViews composes the full views of videos.
func (c composer) videoViews(ctx context.Context, viewerID string, videos []domain.Video) ([]domain.VideoView, error) {
	ids := make([]string, len(videos))
	ownerIDs := make([]string, len(videos))
	for i := range videos {
		ids[i] = videos[i].ID
		ownerIDs[i] = videos[i].OwnerID
	}
	channels, err := c.channelsByID(ctx, viewerID, ownerIDs)
	if err != nil {
		return nil, err
	}
	likes, err := c.likeCounts(ctx, domain.TargetVideo, ids)
	if err != nil {
		return nil, err
	}
	comments, err := c.commentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := c.likedBy(ctx, viewerID, domain.TargetVideo, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.VideoView, len(videos))
	for i := range videos {
		v := &videos[i]
		out[i] = domain.VideoView{
			VideoFields:   videoFields(v),
			LikesCount:    likes[v.ID],
			CommentsCount: comments[v.ID],
			IsLiked:       liked[v.ID],
			Owner:         channels[v.OwnerID],
		}
	}
	return out, nil
}

// videoView composes the full view of a single video.
func (c composer) videoView(ctx context.Context, viewerID string, video *domain.Video) (*domain.VideoView, error) {
	views, err := c.videoViews(ctx, viewerID, []domain.Video{*video})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// videoSummaries composes the summary views of videos.
func (c composer) videoSummaries(ctx context.Context, videos []domain.Video) ([]domain.VideoSummaryView, error) {
	ownerIDs := make([]string, len(videos))
	for i := range videos {
		ownerIDs[i] = videos[i].OwnerID
	}
	owners, err := c.owners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	out := make([]domain.VideoSummaryView, len(videos))
	for i := range videos {
		v := &videos[i]
		out[i] = domain.VideoSummaryView{
			VideoFields: videoFields(v),
			Owner:       ownerSummary(owners[v.OwnerID]),
		}
	}
	return out, nil
}

// commentViews composes the views of comments.
func (c composer) commentViews(ctx context.Context, viewerID string, comments []domain.Comment) ([]domain.CommentView, error) {
	ids := make([]string, len(comments))
	ownerIDs := make([]string, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
		ownerIDs[i] = comments[i].OwnerID
	}
	owners, err := c.owners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	likes, err := c.likeCounts(ctx, domain.TargetComment, ids)
	if err != nil {
		return nil, err
	}
	liked, err := c.likedBy(ctx, viewerID, domain.TargetComment, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CommentView, len(comments))
	for i := range comments {
		cm := &comments[i]
		out[i] = domain.CommentView{
			ID:         cm.ID,
			Content:    cm.Content,
			CreatedAt:  cm.CreatedAt,
			LikesCount: likes[cm.ID],
			IsLiked:    liked[cm.ID],
			Owner:      ownerSummary(owners[cm.OwnerID]),
		}
	}
	return out, nil
}

// tweetView composes the view of a single tweet.
func (c composer) tweetView(ctx context.Context, viewerID string, tweet *domain.Tweet) (*domain.TweetView, error) {
	owners, err := c.owners(ctx, []string{tweet.OwnerID})
	if err != nil {
		return nil, err
	}
	ids := []string{tweet.ID}
	likes, err := c.likeCounts(ctx, domain.TargetTweet, ids)
	if err != nil {
		return nil, err
	}
	liked, err := c.likedBy(ctx, viewerID, domain.TargetTweet, ids)
	if err != nil {
		return nil, err
	}
	return &domain.TweetView{
		ID:         tweet.ID,
		Content:    tweet.Content,
		CreatedAt:  tweet.CreatedAt,
		UpdatedAt:  tweet.UpdatedAt,
		LikesCount: likes[tweet.ID],
		IsLiked:    liked[tweet.ID],
		Owner:      ownerSummary(owners[tweet.OwnerID]),
	}, nil
}

// userTweetViews composes the views of tweets listed under their owner.
func (c composer) userTweetViews(ctx context.Context, viewerID string, tweets []domain.Tweet) ([]domain.UserTweetView, error) {
	ids := make([]string, len(tweets))
	for i := range tweets {
		ids[i] = tweets[i].ID
	}
	likes, err := c.likeCounts(ctx, domain.TargetTweet, ids)
	if err != nil {
		return nil, err
	}
	liked, err := c.likedBy(ctx, viewerID, domain.TargetTweet, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserTweetView, len(tweets))
	for i := range tweets {
		t := &tweets[i]
		out[i] = domain.UserTweetView{
			ID:              t.ID,
			Content:         t.Content,
			CreatedAt:       t.CreatedAt,
			TweetLikesCount: likes[t.ID],
			IsLiked:         liked[t.ID],
		}
	}
	return out, nil
}

// playlistSummaries composes the views of playlists listed under their owner.
func (c composer) playlistSummaries(ctx context.Context, playlists []domain.Playlist) ([]domain.PlaylistSummaryView, error) {
	ids := make([]string, len(playlists))
	for i := range playlists {
		ids[i] = playlists[i].ID
	}
	totals, err := c.playlistVideoCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PlaylistSummaryView, len(playlists))
	for i := range playlists {
		p := &playlists[i]
		out[i] = domain.PlaylistSummaryView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			TotalVideos: totals[p.ID],
		}
	}
	return out, nil
}

// playlistView composes the full view of a playlist. Only the videos the
// viewer may see are listed, in playlist order.
func (c composer) playlistView(ctx context.Context, viewerID string, playlist *domain.Playlist) (*domain.PlaylistView, error) {
	var videos []domain.Video
	tx := c.db.WithContext(ctx).
		Model(&domain.Video{}).
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.id").
		Where("playlist_videos.playlist_id = ?", playlist.ID)
	err := visibleTo(viewerID)(tx).
		Order("playlist_videos.position ASC").
		Order("playlist_videos.created_at ASC").
		Find(&videos).Error
	if err != nil {
		return nil, storeErr(err, "")
	}
	summaries, err := c.videoSummaries(ctx, videos)
	if err != nil {
		return nil, err
	}
	owners, err := c.owners(ctx, []string{playlist.OwnerID})
	if err != nil {
		return nil, err
	}
	owner, err := c.channelView(ctx, viewerID, owners[playlist.OwnerID])
	if err != nil {
		return nil, err
	}
	return &domain.PlaylistView{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		CreatedAt:   playlist.CreatedAt,
		UpdatedAt:   playlist.UpdatedAt,
		TotalVideos: int64(len(summaries)),
		Owner:       *owner,
		Videos:      summaries,
	}, nil
}

// visibleTo restricts a video query to the videos the viewer may see:
// published ones and the viewer's own.
func visibleTo(viewerID string) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if viewerID == "" {
			return tx.Where("videos.is_published = ?", true)
		}
		return tx.Where("(videos.is_published = ? OR videos.owner_id = ?)", true, viewerID)
	}
}
