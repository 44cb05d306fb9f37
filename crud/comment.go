package crud

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"vidTube/domain"
	"vidTube/errs"
)

const maxCommentLength = 1000

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated.
type commentGorm struct {
	db    *gorm.DB
	views composer
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db:    db,
				views: composer{db: db},
			},
		},
	}
}

// Ensure the CommentService struct properly implements the domain.CommentService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// ByVideo makes sure that the video exists and that the actor may see it.
func (cv *commentValidator) ByVideo(ctx context.Context, actorID, videoID string, req domain.PageRequest) (*domain.Page[domain.CommentView], error) {
	if err := checkID(videoID, "video id"); err != nil {
		return nil, err
	}
	pq, err := newPageQuery(req, "comments", createdAtOnly)
	if err != nil {
		return nil, err
	}
	if _, err := cv.visibleVideo(ctx, actorID, videoID); err != nil {
		return nil, err
	}
	return cv.commentGorm.ByVideo(ctx, actorID, videoID, pq)
}

// Create runs validations needed for creating new Comment database records.
func (cv *commentValidator) Create(ctx context.Context, actorID, videoID, content string) (*domain.CommentView, error) {
	if err := checkID(videoID, "video id"); err != nil {
		return nil, err
	}
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		OwnerID: actorID,
		VideoID: videoID,
		Content: strings.TrimSpace(content),
	}
	err := runCommentValFns(comment,
		cv.contentRequired,
		cv.contentMaxLength)
	if err != nil {
		return nil, err
	}
	if _, err := cv.visibleVideo(ctx, actorID, videoID); err != nil {
		return nil, err
	}
	return cv.commentGorm.Create(ctx, comment)
}

// Update runs validations needed for updating existing Comment database records.
func (cv *commentValidator) Update(ctx context.Context, actorID, commentID, content string) (*domain.CommentView, error) {
	if err := checkID(commentID, "comment id"); err != nil {
		return nil, err
	}
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	comment, err := cv.byID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(actorID, comment); err != nil {
		return nil, err
	}
	comment.Content = strings.TrimSpace(content)
	err = runCommentValFns(comment,
		cv.contentRequired,
		cv.contentMaxLength)
	if err != nil {
		return nil, err
	}
	return cv.commentGorm.Update(ctx, actorID, comment)
}

// Delete runs validations needed for deleting existing Comment database records.
func (cv *commentValidator) Delete(ctx context.Context, actorID, commentID string) error {
	if err := checkID(commentID, "comment id"); err != nil {
		return err
	}
	if err := requireActor(actorID); err != nil {
		return err
	}
	comment, err := cv.byID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := AssertOwner(actorID, comment); err != nil {
		return err
	}
	return cv.commentGorm.Delete(ctx, comment)
}

// runCommentValFns runs any number of functions of type commentValFn on the passed in Comment object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment object and returns an error.
type commentValFn func(comment *domain.Comment) error

// contentRequired makes sure that the Comment's content is not empty.
func (cv *commentValidator) contentRequired(comment *domain.Comment) error {
	if comment.Content == "" {
		return errs.Errorf(errs.EINVALID, "Comment content must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure that the Comment's content does not exceed the maximum content length.
func (cv *commentValidator) contentMaxLength(comment *domain.Comment) error {
	if utf8.RuneCountInString(comment.Content) > maxCommentLength {
		return errs.Errorf(errs.EINVALID, "Comment content max length is %d characters.", maxCommentLength)
	}
	return nil
}

// visibleVideo retrieves the commented Video. Unpublished videos only exist for their owner.
func (cv *commentValidator) visibleVideo(ctx context.Context, actorID, videoID string) (*domain.Video, error) {
	video, err := withRetry(ctx, func() (*domain.Video, error) {
		var video domain.Video
		if err := cv.db.WithContext(ctx).First(&video, "id = ?", videoID).Error; err != nil {
			return nil, storeErr(err, "The video does not exist.")
		}
		return &video, nil
	})
	if err != nil {
		return nil, err
	}
	if !video.VisibleTo(actorID) {
		return nil, errs.Errorf(errs.ENOTFOUND, "The video does not exist.")
	}
	return video, nil
}

// byID retrieves a single Comment by ID.
func (cg *commentGorm) byID(ctx context.Context, id string) (*domain.Comment, error) {
	return withRetry(ctx, func() (*domain.Comment, error) {
		var comment domain.Comment
		if err := cg.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
			return nil, storeErr(err, "The comment does not exist.")
		}
		return &comment, nil
	})
}

// ByVideo retrieves one page of the comments on a video, newest first by default.
func (cg *commentGorm) ByVideo(ctx context.Context, actorID, videoID string, pq *pageQuery) (*domain.Page[domain.CommentView], error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&domain.Comment{}).Where("comments.video_id = ?", videoID)
	}
	return paginate(ctx, cg.db, scope, pq, func(comments []domain.Comment) ([]domain.CommentView, error) {
		return cg.views.commentViews(ctx, actorID, comments)
	})
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(ctx context.Context, comment *domain.Comment) (*domain.CommentView, error) {
	if err := cg.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, storeErr(err, "")
	}
	return cg.view(ctx, comment.OwnerID, comment)
}

// Update stores the changed content of a Comment.
func (cg *commentGorm) Update(ctx context.Context, actorID string, comment *domain.Comment) (*domain.CommentView, error) {
	err := cg.db.WithContext(ctx).Model(comment).Update("content", comment.Content).Error
	if err != nil {
		return nil, storeErr(err, "The comment does not exist.")
	}
	return cg.view(ctx, actorID, comment)
}

// Delete permanently deletes a Comment and the likes on it.
func (cg *commentGorm) Delete(ctx context.Context, comment *domain.Comment) error {
	err := cg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("target_kind = ? AND target_id = ?", domain.TargetComment, comment.ID).
			Delete(&domain.Like{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&domain.Comment{}, "id = ?", comment.ID).Error
	})
	return storeErr(err, "The comment does not exist.")
}

func (cg *commentGorm) view(ctx context.Context, actorID string, comment *domain.Comment) (*domain.CommentView, error) {
	views, err := cg.views.commentViews(ctx, actorID, []domain.Comment{*comment})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
