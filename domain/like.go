package domain

import (
	"context"
)

// TargetKind names the kind of content a Like points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// Valid reports whether k is one of the known target kinds.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet:
		return true
	}
	return false
}

// Target identifies exactly one likeable content item.
type Target struct {
	Kind TargetKind
	ID   string
}

// Like represents a relation between a User and one video, comment or tweet.
// A Like is created when a user likes the target, and destroyed when the user
// unlikes it again or when the target gets deleted. There is at most one Like
// per user and target, which the unique index enforces.
type Like struct {
	Model
	LikedByID  string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_like_unique,priority:1"`
	TargetKind TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_like_unique,priority:2;index:idx_like_target,priority:1"`
	TargetID   string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_like_unique,priority:3;index:idx_like_target,priority:2"`
}

// NewLike returns the Like of the given user on the given target.
func NewLike(likedByID string, target Target) *Like {
	return &Like{
		LikedByID:  likedByID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
	}
}

// Target returns the liked content item.
func (l *Like) Target() Target {
	return Target{Kind: l.TargetKind, ID: l.TargetID}
}

// LikeStatus is the outcome of toggling a like.
type LikeStatus struct {
	IsLiked bool `json:"isLiked"`
}

// LikeService is a set of methods to work with the Like model.
type LikeService interface {
	ToggleVideoLike(ctx context.Context, actorID, videoID string) (*LikeStatus, error)
	ToggleCommentLike(ctx context.Context, actorID, commentID string) (*LikeStatus, error)
	ToggleTweetLike(ctx context.Context, actorID, tweetID string) (*LikeStatus, error)
	LikedVideos(ctx context.Context, actorID string, req PageRequest) (*Page[VideoSummaryView], error)
}
