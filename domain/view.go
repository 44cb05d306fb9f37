package domain

import "time"

// The views below are the only shapes that leave the app. They are composed
// per request and never stored. Stored records never leave the app directly.

// OwnerSummary is the public profile of a content owner.
type OwnerSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}

// ChannelView is a user seen as a channel, including its subscriber count and
// whether the viewer is subscribed to it.
type ChannelView struct {
	OwnerSummary
	SubscribersCount int64 `json:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribed"`
}

// ChannelProfileView is the profile page of a channel.
type ChannelProfileView struct {
	ChannelView
	ChannelsSubscribedToCount int64 `json:"channelsSubscribedToCount"`
	VideosCount               int64 `json:"videosCount"`
}

// VideoFields are the fields of a video that every video view shows.
type VideoFields struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Duration     float64   `json:"duration"`
	Views        uint      `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
}

// VideoView is the full view of a video.
type VideoView struct {
	VideoFields
	LikesCount    int64       `json:"likesCount"`
	CommentsCount int64       `json:"commentsCount"`
	IsLiked       bool        `json:"isLiked"`
	Owner         ChannelView `json:"owner"`
}

// VideoSummaryView is a video as shown inside lists of liked videos and playlists.
type VideoSummaryView struct {
	VideoFields
	Owner OwnerSummary `json:"owner"`
}

// CommentView is a comment on a video.
type CommentView struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	Owner      OwnerSummary `json:"owner"`
}

// TweetView is a single tweet.
type TweetView struct {
	ID         string       `json:"id"`
	Content    string       `json:"content"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
	LikesCount int64        `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
	Owner      OwnerSummary `json:"owner"`
}

// UserTweetView is a tweet listed under its owner.
type UserTweetView struct {
	ID              string    `json:"id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
	TweetLikesCount int64     `json:"tweetLikesCount"`
	IsLiked         bool      `json:"isLiked"`
}

// UserTweetsView is a user together with one page of their tweets.
type UserTweetsView struct {
	Owner  OwnerSummary         `json:"owner"`
	Tweets *Page[UserTweetView] `json:"tweets"`
}

// PlaylistSummaryView is a playlist as listed under its owner.
type PlaylistSummaryView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	TotalVideos int64     `json:"totalVideos"`
}

// PlaylistView is the full view of a playlist with its videos in order.
type PlaylistView struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	TotalVideos int64              `json:"totalVideos"`
	Owner       ChannelView        `json:"owner"`
	Videos      []VideoSummaryView `json:"videos"`
}

// UserPlaylistsView is a channel together with one page of its playlists.
type UserPlaylistsView struct {
	Channel   ChannelView                `json:"channel"`
	Playlists *Page[PlaylistSummaryView] `json:"playlists"`
}

// SubscriberView is a user on the other side of a subscription.
type SubscriberView struct {
	ChannelView
	SubscribedAt time.Time `json:"subscribedAt"`
}
