package crud

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidTube/domain"
	"vidTube/errs"
	"vidTube/logger"
)

const (
	maxPlaylistNameLength        = 100
	maxPlaylistDescriptionLength = 1000
)

// PlaylistService manages Playlists and the videos in them.
// It implements the domain.PlaylistService interface.
type PlaylistService struct {
	playlistValidator
}

// playlistValidator runs validations on incoming Playlist data.
// On success, it passes the data on to playlistGorm.
// Otherwise, it returns the error of the validation that has failed.
type playlistValidator struct {
	playlistGorm
}

// playlistGorm runs CRUD operations on the database using incoming Playlist data.
// It assumes that data has been validated.
type playlistGorm struct {
	db    *gorm.DB
	views composer
}

// NewPlaylistService returns an instance of PlaylistService.
func NewPlaylistService(db *gorm.DB) *PlaylistService {
	return &PlaylistService{
		playlistValidator{
			playlistGorm{
				db:    db,
				views: composer{db: db},
			},
		},
	}
}

// Ensure the PlaylistService struct properly implements the domain.PlaylistService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.PlaylistService = &PlaylistService{}

// Create runs validations needed for creating new Playlist database records.
func (pv *playlistValidator) Create(ctx context.Context, actorID string, in *domain.PlaylistInput) (*domain.PlaylistView, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, errs.Errorf(errs.EINVALID, "Playlist data is required.")
	}
	playlist := &domain.Playlist{
		OwnerID:     actorID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	err := runPlaylistValFns(playlist,
		pv.nameRequired,
		pv.nameMaxLength,
		pv.descriptionRequired,
		pv.descriptionMaxLength)
	if err != nil {
		return nil, err
	}
	return pv.playlistGorm.Create(ctx, playlist)
}

// ByID makes sure that the playlist ID is well-formed.
func (pv *playlistValidator) ByID(ctx context.Context, actorID, playlistID string) (*domain.PlaylistView, error) {
	if err := checkID(playlistID, "playlist id"); err != nil {
		return nil, err
	}
	playlist, err := pv.byID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	return pv.view(ctx, actorID, playlist)
}

// ByUser makes sure that the user ID is well-formed and the page request valid.
func (pv *playlistValidator) ByUser(ctx context.Context, actorID, userID string, req domain.PageRequest) (*domain.UserPlaylistsView, error) {
	if err := checkID(userID, "user id"); err != nil {
		return nil, err
	}
	pq, err := newPageQuery(req, "playlists", createdAtOnly)
	if err != nil {
		return nil, err
	}
	return pv.playlistGorm.ByUser(ctx, actorID, userID, pq)
}

// Update runs validations needed for updating existing Playlist database records.
func (pv *playlistValidator) Update(ctx context.Context, actorID, playlistID string, upd *domain.PlaylistUpdate) (*domain.PlaylistView, error) {
	if err := checkID(playlistID, "playlist id"); err != nil {
		return nil, err
	}
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if upd == nil || (upd.Name == nil && upd.Description == nil) {
		return nil, errs.Errorf(errs.EINVALID, "Nothing to update.")
	}
	playlist, err := pv.byID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(actorID, playlist); err != nil {
		return nil, err
	}
	if upd.Name != nil {
		playlist.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		playlist.Description = strings.TrimSpace(*upd.Description)
	}
	err = runPlaylistValFns(playlist,
		pv.nameRequired,
		pv.nameMaxLength,
		pv.descriptionRequired,
		pv.descriptionMaxLength)
	if err != nil {
		return nil, err
	}
	return pv.playlistGorm.Update(ctx, actorID, playlist)
}

// Delete runs validations needed for deleting existing Playlist database records.
func (pv *playlistValidator) Delete(ctx context.Context, actorID, playlistID string) error {
	if err := checkID(playlistID, "playlist id"); err != nil {
		return err
	}
	if err := requireActor(actorID); err != nil {
		return err
	}
	playlist, err := pv.byID(ctx, playlistID)
	if err != nil {
		return err
	}
	if err := AssertOwner(actorID, playlist); err != nil {
		return err
	}
	return pv.playlistGorm.Delete(ctx, playlist)
}

// AddVideo makes sure that the actor owns both the playlist and the video.
func (pv *playlistValidator) AddVideo(ctx context.Context, actorID, videoID, playlistID string) (*domain.PlaylistView, error) {
	playlist, video, err := pv.entryOwned(ctx, actorID, videoID, playlistID)
	if err != nil {
		return nil, err
	}
	return pv.playlistGorm.AddVideo(ctx, actorID, video, playlist)
}

// RemoveVideo makes sure that the actor owns both the playlist and the video.
func (pv *playlistValidator) RemoveVideo(ctx context.Context, actorID, videoID, playlistID string) (*domain.PlaylistView, error) {
	playlist, video, err := pv.entryOwned(ctx, actorID, videoID, playlistID)
	if err != nil {
		return nil, err
	}
	return pv.playlistGorm.RemoveVideo(ctx, actorID, video, playlist)
}

// entryOwned loads the playlist and the video of a playlist entry and checks
// that the actor owns each of them.
func (pv *playlistValidator) entryOwned(ctx context.Context, actorID, videoID, playlistID string) (*domain.Playlist, *domain.Video, error) {
	if err := checkID(videoID, "video id"); err != nil {
		return nil, nil, err
	}
	if err := checkID(playlistID, "playlist id"); err != nil {
		return nil, nil, err
	}
	if err := requireActor(actorID); err != nil {
		return nil, nil, err
	}
	video, err := withRetry(ctx, func() (*domain.Video, error) {
		var video domain.Video
		if err := pv.db.WithContext(ctx).First(&video, "id = ?", videoID).Error; err != nil {
			return nil, storeErr(err, "The video does not exist.")
		}
		return &video, nil
	})
	if err != nil {
		return nil, nil, err
	}
	playlist, err := pv.byID(ctx, playlistID)
	if err != nil {
		return nil, nil, err
	}
	if err := AssertOwner(actorID, playlist); err != nil {
		return nil, nil, err
	}
	if err := AssertOwner(actorID, video); err != nil {
		return nil, nil, err
	}
	return playlist, video, nil
}

// runPlaylistValFns runs any number of functions of type playlistValFn on the passed in Playlist object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runPlaylistValFns(playlist *domain.Playlist, fns ...playlistValFn) error {
	for _, fn := range fns {
		if err := fn(playlist); err != nil {
			return err
		}
	}
	return nil
}

// A playlistValFn is any function that takes in a pointer to a domain.Playlist object and returns an error.
type playlistValFn func(playlist *domain.Playlist) error

func (pv *playlistValidator) nameRequired(playlist *domain.Playlist) error {
	if playlist.Name == "" {
		return errs.Errorf(errs.EINVALID, "Playlist name must not be empty.")
	}
	return nil
}

func (pv *playlistValidator) nameMaxLength(playlist *domain.Playlist) error {
	if utf8.RuneCountInString(playlist.Name) > maxPlaylistNameLength {
		return errs.Errorf(errs.EINVALID, "Playlist name max length is %d characters.", maxPlaylistNameLength)
	}
	return nil
}

func (pv *playlistValidator) descriptionRequired(playlist *domain.Playlist) error {
	if playlist.Description == "" {
		return errs.Errorf(errs.EINVALID, "Playlist description must not be empty.")
	}
	return nil
}

func (pv *playlistValidator) descriptionMaxLength(playlist *domain.Playlist) error {
	if utf8.RuneCountInString(playlist.Description) > maxPlaylistDescriptionLength {
		return errs.Errorf(errs.EINVALID, "Playlist description max length is %d characters.", maxPlaylistDescriptionLength)
	}
	return nil
}

// byID retrieves a single Playlist by ID.
func (pg *playlistGorm) byID(ctx context.Context, id string) (*domain.Playlist, error) {
	return withRetry(ctx, func() (*domain.Playlist, error) {
		var playlist domain.Playlist
		if err := pg.db.WithContext(ctx).First(&playlist, "id = ?", id).Error; err != nil {
			return nil, storeErr(err, "The playlist does not exist.")
		}
		return &playlist, nil
	})
}

func (pg *playlistGorm) view(ctx context.Context, actorID string, playlist *domain.Playlist) (*domain.PlaylistView, error) {
	return withRetry(ctx, func() (*domain.PlaylistView, error) {
		return pg.views.playlistView(ctx, actorID, playlist)
	})
}

// ByUser retrieves a channel together with one page of its playlists.
func (pg *playlistGorm) ByUser(ctx context.Context, actorID, userID string, pq *pageQuery) (*domain.UserPlaylistsView, error) {
	channel, err := withRetry(ctx, func() (*domain.ChannelView, error) {
		var user domain.User
		if err := pg.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
			return nil, storeErr(err, "The user does not exist.")
		}
		return pg.views.channelView(ctx, actorID, &user)
	})
	if err != nil {
		return nil, err
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&domain.Playlist{}).Where("playlists.owner_id = ?", userID)
	}
	playlists, err := paginate(ctx, pg.db, scope, pq, func(playlists []domain.Playlist) ([]domain.PlaylistSummaryView, error) {
		return pg.views.playlistSummaries(ctx, playlists)
	})
	if err != nil {
		return nil, err
	}
	return &domain.UserPlaylistsView{
		Channel:   *channel,
		Playlists: playlists,
	}, nil
}

// Create stores the data from the Playlist object in a new database record.
func (pg *playlistGorm) Create(ctx context.Context, playlist *domain.Playlist) (*domain.PlaylistView, error) {
	if err := pg.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return nil, storeErr(err, "")
	}
	return pg.views.playlistView(ctx, playlist.OwnerID, playlist)
}

// Update stores the changed name and description of a Playlist.
func (pg *playlistGorm) Update(ctx context.Context, actorID string, playlist *domain.Playlist) (*domain.PlaylistView, error) {
	err := pg.db.WithContext(ctx).Model(playlist).Updates(map[string]interface{}{
		"name":        playlist.Name,
		"description": playlist.Description,
	}).Error
	if err != nil {
		return nil, storeErr(err, "The playlist does not exist.")
	}
	return pg.views.playlistView(ctx, actorID, playlist)
}

// Delete permanently deletes a Playlist and its entries. The videos stay.
func (pg *playlistGorm) Delete(ctx context.Context, playlist *domain.Playlist) error {
	err := pg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlist.ID).Delete(&domain.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Playlist{}, "id = ?", playlist.ID).Error
	})
	return storeErr(err, "The playlist does not exist.")
}

// AddVideo appends a video to the end of a playlist. Adding a video that is
// already in the playlist changes nothing.
func (pg *playlistGorm) AddVideo(ctx context.Context, actorID string, video *domain.Video, playlist *domain.Playlist) (*domain.PlaylistView, error) {
	var last int
	err := pg.db.WithContext(ctx).
		Model(&domain.PlaylistVideo{}).
		Select("COALESCE(MAX(position), 0)").
		Where("playlist_id = ?", playlist.ID).
		Scan(&last).Error
	if err != nil {
		return nil, storeErr(err, "")
	}
	entry := &domain.PlaylistVideo{
		PlaylistID: playlist.ID,
		VideoID:    video.ID,
		Position:   last + 1,
	}
	res := pg.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	if res.Error != nil && !isDuplicate(res.Error) {
		return nil, storeErr(res.Error, "")
	}
	if res.Error == nil && res.RowsAffected > 0 {
		logger.Debug("video added to playlist", zap.String("playlist_id", playlist.ID), zap.String("video_id", video.ID))
	}
	return pg.views.playlistView(ctx, actorID, playlist)
}

// RemoveVideo takes a video out of a playlist. Removing a video that is not
// in the playlist changes nothing.
func (pg *playlistGorm) RemoveVideo(ctx context.Context, actorID string, video *domain.Video, playlist *domain.Playlist) (*domain.PlaylistView, error) {
	err := pg.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlist.ID, video.ID).
		Delete(&domain.PlaylistVideo{}).Error
	if err != nil {
		return nil, storeErr(err, "")
	}
	return pg.views.playlistView(ctx, actorID, playlist)
}
