package crud

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vidTube/domain"
	"vidTube/errs"
	"vidTube/logger"
)

// LikeService manages Likes on videos, comments and tweets.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated.
type likeGorm struct {
	db    *gorm.DB
	views composer
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db:    db,
				views: composer{db: db},
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// ToggleVideoLike likes the video, or unlikes it if the actor already likes it.
func (lv *likeValidator) ToggleVideoLike(ctx context.Context, actorID, videoID string) (*domain.LikeStatus, error) {
	return lv.toggle(ctx, actorID, domain.Target{Kind: domain.TargetVideo, ID: videoID})
}

// ToggleCommentLike likes the comment, or unlikes it if the actor already likes it.
func (lv *likeValidator) ToggleCommentLike(ctx context.Context, actorID, commentID string) (*domain.LikeStatus, error) {
	return lv.toggle(ctx, actorID, domain.Target{Kind: domain.TargetComment, ID: commentID})
}

// ToggleTweetLike likes the tweet, or unlikes it if the actor already likes it.
func (lv *likeValidator) ToggleTweetLike(ctx context.Context, actorID, tweetID string) (*domain.LikeStatus, error) {
	return lv.toggle(ctx, actorID, domain.Target{Kind: domain.TargetTweet, ID: tweetID})
}

// LikedVideos makes sure that there is an actor whose liked videos to list.
func (lv *likeValidator) LikedVideos(ctx context.Context, actorID string, req domain.PageRequest) (*domain.Page[domain.VideoSummaryView], error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	pq, err := newPageQuery(req, "likes", createdAtOnly)
	if err != nil {
		return nil, err
	}
	return lv.likeGorm.LikedVideos(ctx, actorID, pq)
}

// toggle runs the validations shared by all like toggles before flipping the like.
func (lv *likeValidator) toggle(ctx context.Context, actorID string, target domain.Target) (*domain.LikeStatus, error) {
	like := domain.NewLike(actorID, target)
	err := runLikeValFns(ctx, like,
		lv.targetIdValid,
		lv.actorPresent,
		lv.targetExists)
	if err != nil {
		return nil, err
	}
	return lv.likeGorm.Toggle(ctx, like)
}

// runLikeValFns runs any number of functions of type likeValFn on the passed in Like object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runLikeValFns(ctx context.Context, like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a pointer to a domain.Like object and returns an error.
type likeValFn func(ctx context.Context, like *domain.Like) error

// targetIdValid makes sure that the Like points at a well-formed target.
func (lv *likeValidator) targetIdValid(_ context.Context, like *domain.Like) error {
	if !like.TargetKind.Valid() {
		return errs.Errorf(errs.EINVALID, "Unknown like target %q.", like.TargetKind)
	}
	return checkID(like.TargetID, string(like.TargetKind)+" id")
}

// actorPresent makes sure that there is an authenticated user to like the target.
func (lv *likeValidator) actorPresent(_ context.Context, like *domain.Like) error {
	return requireActor(like.LikedByID)
}

// targetExists makes sure that the liked content actually exists.
// Unpublished videos, and the comments on them, only exist for the video's owner.
func (lv *likeValidator) targetExists(ctx context.Context, like *domain.Like) error {
	_, err := withRetry(ctx, func() (struct{}, error) {
		var err error
		switch like.TargetKind {
		case domain.TargetVideo:
			var video domain.Video
			err = lv.db.WithContext(ctx).First(&video, "id = ?", like.TargetID).Error
			if err == nil && !video.VisibleTo(like.LikedByID) {
				err = gorm.ErrRecordNotFound
			}
		case domain.TargetComment:
			var video domain.Video
			err = lv.db.WithContext(ctx).
				Joins("JOIN comments ON comments.video_id = videos.id").
				Where("comments.id = ?", like.TargetID).
				First(&video).Error
			if err == nil && !video.VisibleTo(like.LikedByID) {
				err = gorm.ErrRecordNotFound
			}
		case domain.TargetTweet:
			err = lv.db.WithContext(ctx).First(&domain.Tweet{}, "id = ?", like.TargetID).Error
		}
		return struct{}{}, storeErr(err, "The liked "+string(like.TargetKind)+" does not exist.")
	})
	return err
}

// Toggle flips the Like of its user on its target.
func (lg *likeGorm) Toggle(ctx context.Context, like *domain.Like) (*domain.LikeStatus, error) {
	target := like.Target()
	liked, err := toggle(ctx, lg.db, relationKey[domain.Like]{
		record: func() *domain.Like {
			return domain.NewLike(like.LikedByID, target)
		},
		match: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("liked_by_id = ? AND target_kind = ? AND target_id = ?",
				like.LikedByID, target.Kind, target.ID)
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("like toggled",
		zap.String("user_id", like.LikedByID),
		zap.String("target_kind", string(target.Kind)),
		zap.String("target_id", target.ID),
		zap.Bool("liked", liked))
	return &domain.LikeStatus{IsLiked: liked}, nil
}

// LikedVideos retrieves one page of the videos a user likes, most recently
// liked first. Videos the user may no longer see are left out.
func (lg *likeGorm) LikedVideos(ctx context.Context, actorID string, pq *pageQuery) (*domain.Page[domain.VideoSummaryView], error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Model(&domain.Like{}).
			Joins("JOIN videos ON videos.id = likes.target_id").
			Where("likes.liked_by_id = ? AND likes.target_kind = ?", actorID, domain.TargetVideo)
		return visibleTo(actorID)(tx)
	}
	return paginate(ctx, lg.db, scope, pq, func(likes []domain.Like) ([]domain.VideoSummaryView, error) {
		ids := make([]string, len(likes))
		for i := range likes {
			ids[i] = likes[i].TargetID
		}
		var videos []domain.Video
		if err := lg.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
			return nil, storeErr(err, "")
		}
		byID := make(map[string]domain.Video, len(videos))
		for _, v := range videos {
			byID[v.ID] = v
		}
		ordered := make([]domain.Video, 0, len(likes))
		for _, id := range ids {
			if v, ok := byID[id]; ok {
				ordered = append(ordered, v)
			}
		}
		return lg.views.videoSummaries(ctx, ordered)
	})
}
