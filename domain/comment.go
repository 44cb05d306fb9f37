package domain

import "context"

// Comment is a text comment on a video.
type Comment struct {
	Model
	OwnerID string `gorm:"type:varchar(36);not null;index"`
	VideoID string `gorm:"type:varchar(36);not null;index"`
	Content string `gorm:"not null"`
}

func (c *Comment) OwnerKey() string { return c.OwnerID }

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	ByVideo(ctx context.Context, actorID, videoID string, req PageRequest) (*Page[CommentView], error)
	Create(ctx context.Context, actorID, videoID, content string) (*CommentView, error)
	Update(ctx context.Context, actorID, commentID, content string) (*CommentView, error)
	Delete(ctx context.Context, actorID, commentID string) error
}
