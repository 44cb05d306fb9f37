package crud

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vidTube/domain"
	"vidTube/errs"
	"vidTube/logger"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 5000
)

// VideoService manages Videos.
// It implements the domain.VideoService interface.
type VideoService struct {
	videoValidator
}

// videoValidator runs validations on incoming Video data.
// On success, it passes the data on to videoGorm.
// Otherwise, it returns the error of the validation that has failed.
type videoValidator struct {
	videoGorm
}

// videoGorm runs CRUD operations on the database using incoming Video data.
// It assumes that data has been validated. Media files go to the asset store.
type videoGorm struct {
	db     *gorm.DB
	assets domain.AssetStore
	views  composer
}

// NewVideoService returns an instance of VideoService.
func NewVideoService(db *gorm.DB, assets domain.AssetStore) *VideoService {
	return &VideoService{
		videoValidator{
			videoGorm{
				db:     db,
				assets: assets,
				views:  composer{db: db},
			},
		},
	}
}

// Ensure the VideoService struct properly implements the domain.VideoService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.VideoService = &VideoService{}

// List validates the filter and the page request. A free-text search by an
// anonymous actor yields an empty page.
func (vv *videoValidator) List(ctx context.Context, actorID string, filter domain.VideoFilter, req domain.PageRequest) (*domain.Page[domain.VideoView], error) {
	if filter.OwnerID != "" {
		if err := checkID(filter.OwnerID, "user id"); err != nil {
			return nil, err
		}
	}
	pq, err := newPageQuery(req, "videos", videoSortColumns)
	if err != nil {
		return nil, err
	}
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Query != "" && actorID == "" {
		return &domain.Page[domain.VideoView]{
			Items: []domain.VideoView{},
			Page:  pq.page,
			Limit: pq.limit,
		}, nil
	}
	return vv.videoGorm.List(ctx, actorID, filter, pq)
}

// Publish runs validations needed for creating new Video database records.
func (vv *videoValidator) Publish(ctx context.Context, actorID string, upload *domain.VideoUpload) (*domain.VideoView, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if upload == nil || upload.Video == nil {
		return nil, errs.Errorf(errs.EINVALID, "A video file is required.")
	}
	if upload.Thumbnail == nil {
		return nil, errs.Errorf(errs.EINVALID, "A thumbnail is required.")
	}
	video := &domain.Video{
		OwnerID:     actorID,
		Title:       strings.TrimSpace(upload.Title),
		Description: strings.TrimSpace(upload.Description),
		Duration:    upload.Duration,
	}
	err := runVideoValFns(video,
		vv.titleRequired,
		vv.titleMaxLength,
		vv.descriptionRequired,
		vv.descriptionMaxLength,
		vv.durationValid)
	if err != nil {
		return nil, err
	}
	return vv.videoGorm.Publish(ctx, video, upload)
}

// ByID makes sure that the video ID is well-formed.
func (vv *videoValidator) ByID(ctx context.Context, actorID, videoID string) (*domain.VideoView, error) {
	if err := checkID(videoID, "video id"); err != nil {
		return nil, err
	}
	return vv.videoGorm.ByID(ctx, actorID, videoID)
}

// Update runs validations needed for updating existing Video database records.
// It loads the video, checks ownership and validates the video as it would
// look after the update.
func (vv *videoValidator) Update(ctx context.Context, actorID, videoID string, upd *domain.VideoUpdate) (*domain.VideoView, error) {
	if err := checkID(videoID, "video id"); err != nil {
		return nil, err
	}
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if upd == nil || (upd.Title == nil && upd.Description == nil && upd.Thumbnail == nil) {
		return nil, errs.Errorf(errs.EINVALID, "Nothing to update.")
	}
	video, err := vv.byID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(actorID, video); err != nil {
		return nil, err
	}
	if upd.Title != nil {
		video.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		video.Description = strings.TrimSpace(*upd.Description)
	}
	err = runVideoValFns(video,
		vv.titleRequired,
		vv.titleMaxLength,
		vv.descriptionRequired,
		vv.descriptionMaxLength)
	if err != nil {
		return nil, err
	}
	return vv.videoGorm.Update(ctx, actorID, video, upd.Thumbnail)
}

// Delete runs validations needed for deleting existing Video database records.
func (vv *videoValidator) Delete(ctx context.Context, actorID, videoID string) error {
	if err := checkID(videoID, "video id"); err != nil {
		return err
	}
	if err := requireActor(actorID); err != nil {
		return err
	}
	video, err := vv.byID(ctx, videoID)
	if err != nil {
		return err
	}
	if err := AssertOwner(actorID, video); err != nil {
		return err
	}
	return vv.videoGorm.Delete(ctx, video)
}

// TogglePublish makes sure that only the owner flips the publish status.
func (vv *videoValidator) TogglePublish(ctx context.Context, actorID, videoID string) (*domain.PublishStatus, error) {
	if err := checkID(videoID, "video id"); err != nil {
		return nil, err
	}
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	video, err := vv.byID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(actorID, video); err != nil {
		return nil, err
	}
	return vv.videoGorm.TogglePublish(ctx, video)
}

// runVideoValFns runs any number of functions of type videoValFn on the passed in Video object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runVideoValFns(video *domain.Video, fns ...videoValFn) error {
	for _, fn := range fns {
		if err := fn(video); err != nil {
			return err
		}
	}
	return nil
}

// A videoValFn is any function that takes in a pointer to a domain.Video object and returns an error.
type videoValFn func(video *domain.Video) error

// titleRequired makes sure that the Video has a title.
func (vv *videoValidator) titleRequired(video *domain.Video) error {
	if video.Title == "" {
		return errs.Errorf(errs.EINVALID, "Video title must not be empty.")
	}
	return nil
}

// titleMaxLength makes sure that the Video's title does not exceed the maximum title length.
func (vv *videoValidator) titleMaxLength(video *domain.Video) error {
	if utf8.RuneCountInString(video.Title) > maxTitleLength {
		return errs.Errorf(errs.EINVALID, "Video title max length is %d characters.", maxTitleLength)
	}
	return nil
}

// descriptionRequired makes sure that the Video has a description.
func (vv *videoValidator) descriptionRequired(video *domain.Video) error {
	if video.Description == "" {
		return errs.Errorf(errs.EINVALID, "Video description must not be empty.")
	}
	return nil
}

// descriptionMaxLength makes sure that the Video's description does not exceed the maximum length.
func (vv *videoValidator) descriptionMaxLength(video *domain.Video) error {
	if utf8.RuneCountInString(video.Description) > maxDescriptionLength {
		return errs.Errorf(errs.EINVALID, "Video description max length is %d characters.", maxDescriptionLength)
	}
	return nil
}

func (vv *videoValidator) durationValid(video *domain.Video) error {
	if video.Duration < 0 {
		return errs.Errorf(errs.EINVALID, "Video duration must not be negative.")
	}
	return nil
}

// byID retrieves a single Video by ID, regardless of who may see it.
func (vg *videoGorm) byID(ctx context.Context, id string) (*domain.Video, error) {
	return withRetry(ctx, func() (*domain.Video, error) {
		var video domain.Video
		if err := vg.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
			return nil, storeErr(err, "The video does not exist.")
		}
		return &video, nil
	})
}

// List retrieves one page of videos matching the filter. Unless the listing
// is restricted to the actor's own videos, only published videos are listed.
func (vg *videoGorm) List(ctx context.Context, actorID string, filter domain.VideoFilter, pq *pageQuery) (*domain.Page[domain.VideoView], error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Model(&domain.Video{})
		if filter.Query != "" {
			pattern := "%" + escapeLike(strings.ToLower(filter.Query)) + "%"
			tx = tx.Where(`(LOWER(videos.title) LIKE ? ESCAPE '\' OR LOWER(videos.description) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		if filter.OwnerID != "" {
			tx = tx.Where("videos.owner_id = ?", filter.OwnerID)
		}
		if filter.OwnerID == "" || filter.OwnerID != actorID {
			tx = tx.Where("videos.is_published = ?", true)
		}
		return tx
	}
	return paginate(ctx, vg.db, scope, pq, func(videos []domain.Video) ([]domain.VideoView, error) {
		return vg.views.videoViews(ctx, actorID, videos)
	})
}

// Publish uploads the video file and the thumbnail and stores the new, still
// unpublished Video. If any step fails, assets uploaded so far are removed again.
func (vg *videoGorm) Publish(ctx context.Context, video *domain.Video, upload *domain.VideoUpload) (*domain.VideoView, error) {
	upload.Video.Kind = domain.AssetVideo
	file, err := vg.assets.Upload(ctx, upload.Video)
	if err != nil {
		return nil, uploadErr(err, "The video file could not be uploaded.")
	}
	upload.Thumbnail.Kind = domain.AssetImage
	thumbnail, err := vg.assets.Upload(ctx, upload.Thumbnail)
	if err != nil {
		vg.discardAsset(ctx, file.Asset, domain.AssetVideo)
		return nil, uploadErr(err, "The thumbnail could not be uploaded.")
	}

	video.VideoFile = file.Asset
	video.Thumbnail = thumbnail.Asset
	if file.Duration > 0 {
		video.Duration = file.Duration
	}
	video.IsPublished = false
	if err := vg.db.WithContext(ctx).Create(video).Error; err != nil {
		vg.discardAsset(ctx, file.Asset, domain.AssetVideo)
		vg.discardAsset(ctx, thumbnail.Asset, domain.AssetImage)
		return nil, storeErr(err, "")
	}
	logger.Info("video published", zap.String("video_id", video.ID), zap.String("owner_id", video.OwnerID))
	return vg.views.videoView(ctx, video.OwnerID, video)
}

// ByID retrieves a single Video and counts the view. Unpublished videos
// only exist for their owner.
func (vg *videoGorm) ByID(ctx context.Context, actorID, videoID string) (*domain.VideoView, error) {
	video, err := vg.byID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.VisibleTo(actorID) {
		return nil, errs.Errorf(errs.ENOTFOUND, "The video does not exist.")
	}
	view, err := withRetry(ctx, func() (*domain.VideoView, error) {
		return vg.views.videoView(ctx, actorID, video)
	})
	if err != nil {
		return nil, err
	}
	err = vg.db.WithContext(ctx).
		Model(&domain.Video{}).
		Where("id = ?", video.ID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		logger.Warn("counting video view failed", zap.String("video_id", video.ID), zap.Error(err))
	}
	return view, nil
}

// Update stores the changed title and description of a Video. A new thumbnail
// is uploaded first and stored in place of the old one, which is deleted last.
func (vg *videoGorm) Update(ctx context.Context, actorID string, video *domain.Video, thumbnail *domain.AssetSource) (*domain.VideoView, error) {
	updates := map[string]interface{}{
		"title":       video.Title,
		"description": video.Description,
	}
	old := video.Thumbnail
	var uploaded *domain.UploadedAsset
	if thumbnail != nil {
		thumbnail.Kind = domain.AssetImage
		var err error
		uploaded, err = vg.assets.Upload(ctx, thumbnail)
		if err != nil {
			return nil, uploadErr(err, "The thumbnail could not be uploaded.")
		}
		updates["thumbnail_public_id"] = uploaded.PublicID
		updates["thumbnail_url"] = uploaded.URL
	}

	err := vg.db.WithContext(ctx).Model(video).Updates(updates).Error
	if err != nil {
		if uploaded != nil {
			vg.discardAsset(ctx, uploaded.Asset, domain.AssetImage)
		}
		return nil, storeErr(err, "The video does not exist.")
	}
	if uploaded != nil {
		video.Thumbnail = uploaded.Asset
		vg.discardAsset(ctx, old, domain.AssetImage)
	}
	return vg.views.videoView(ctx, actorID, video)
}

// Delete permanently deletes a Video together with everything that refers to
// it: its likes, its comments, the likes on those comments and its playlist
// entries. The media files are deleted after the records are gone.
func (vg *videoGorm) Delete(ctx context.Context, video *domain.Video) error {
	err := vg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []string
		err := tx.Model(&domain.Comment{}).Where("video_id = ?", video.ID).Pluck("id", &commentIDs).Error
		if err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			err = tx.Where("target_kind = ? AND target_id IN ?", domain.TargetComment, commentIDs).
				Delete(&domain.Like{}).Error
			if err != nil {
				return err
			}
		}
		if err := tx.Where("video_id = ?", video.ID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		err = tx.Where("target_kind = ? AND target_id = ?", domain.TargetVideo, video.ID).
			Delete(&domain.Like{}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", video.ID).Delete(&domain.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Video{}, "id = ?", video.ID).Error
	})
	if err != nil {
		return storeErr(err, "The video does not exist.")
	}
	vg.discardAsset(ctx, video.VideoFile, domain.AssetVideo)
	vg.discardAsset(ctx, video.Thumbnail, domain.AssetImage)
	logger.Info("video deleted", zap.String("video_id", video.ID))
	return nil
}

// TogglePublish flips the publish status of a Video.
func (vg *videoGorm) TogglePublish(ctx context.Context, video *domain.Video) (*domain.PublishStatus, error) {
	published := !video.IsPublished
	err := vg.db.WithContext(ctx).
		Model(&domain.Video{}).
		Where("id = ?", video.ID).
		Update("is_published", published).Error
	if err != nil {
		return nil, storeErr(err, "The video does not exist.")
	}
	return &domain.PublishStatus{IsPublished: published}, nil
}

// discardAsset deletes a media file. Failures are logged and otherwise ignored.
func (vg *videoGorm) discardAsset(ctx context.Context, asset domain.Asset, kind domain.AssetKind) {
	if asset.PublicID == "" {
		return
	}
	if err := vg.assets.Delete(ctx, asset.PublicID, kind); err != nil {
		logger.Warn("deleting asset failed",
			zap.String("public_id", asset.PublicID),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

// uploadErr turns an asset store failure into errs.EUPLOADFAILED, unless the
// store already rejected the file as invalid.
func uploadErr(err error, msg string) error {
	if errs.Is(err, errs.EINVALID) {
		return err
	}
	return errs.Wrap(err, errs.EUPLOADFAILED, msg)
}

// escapeLike escapes the LIKE wildcards in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
