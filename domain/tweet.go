package domain

import (
	"context"
)

// MaxTweetLength is the maximum number of characters in a tweet.
const MaxTweetLength = 280

// Tweet is a short text post on a user's channel.
type Tweet struct {
	Model
	OwnerID string `gorm:"type:varchar(36);not null;index"`
	Content string `gorm:"not null"`
}

func (t *Tweet) OwnerKey() string { return t.OwnerID }

// TweetService is a set of methods to manipulate and work with the Tweet model.
type TweetService interface {
	Create(ctx context.Context, actorID, content string) (*TweetView, error)
	ByUser(ctx context.Context, actorID, userID string, req PageRequest) (*UserTweetsView, error)
	Update(ctx context.Context, actorID, tweetID, content string) (*TweetView, error)
	Delete(ctx context.Context, actorID, tweetID string) error
}
