package domain

import (
	"context"
)

// Video is an uploaded video together with its thumbnail. New videos are
// unpublished; only published videos show up for anyone but their owner.
type Video struct {
	Model
	OwnerID     string `gorm:"type:varchar(36);not null;index"`
	Title       string `gorm:"not null"`
	Description string
	VideoFile   Asset `gorm:"embedded;embeddedPrefix:video_file_"`
	Thumbnail   Asset `gorm:"embedded;embeddedPrefix:thumbnail_"`
	Duration    float64
	Views       uint `gorm:"not null"`
	IsPublished bool `gorm:"not null;index"`
}

func (v *Video) OwnerKey() string { return v.OwnerID }

// VisibleTo reports whether the given actor may see the video.
func (v *Video) VisibleTo(actorID string) bool {
	return v.IsPublished || (actorID != "" && v.OwnerID == actorID)
}

// VideoFilter narrows down a video listing.
type VideoFilter struct {
	// Query is matched case-insensitively against title and description.
	Query   string
	OwnerID string
}

// VideoUpload carries the data of a video to publish.
type VideoUpload struct {
	Title       string
	Description string
	// Duration is used when the asset storage does not report one.
	Duration  float64
	Video     *AssetSource
	Thumbnail *AssetSource
}

// VideoUpdate carries the changes to an existing video. Nil fields stay untouched.
type VideoUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *AssetSource
}

// PublishStatus is the outcome of toggling a video's publish flag.
type PublishStatus struct {
	IsPublished bool `json:"isPublished"`
}

// VideoService is a set of methods to manipulate and work with the Video model.
type VideoService interface {
	List(ctx context.Context, actorID string, filter VideoFilter, req PageRequest) (*Page[VideoView], error)
	Publish(ctx context.Context, actorID string, upload *VideoUpload) (*VideoView, error)
	ByID(ctx context.Context, actorID, videoID string) (*VideoView, error)
	Update(ctx context.Context, actorID, videoID string, upd *VideoUpdate) (*VideoView, error)
	Delete(ctx context.Context, actorID, videoID string) error
	TogglePublish(ctx context.Context, actorID, videoID string) (*PublishStatus, error)
}
