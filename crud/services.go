package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vidTube/domain"
	"vidTube/errs"
)

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection provided by Services.
type Services struct {
	db           *gorm.DB
	User         *UserService
	Video        *VideoService
	Comment      *CommentService
	Tweet        *TweetService
	Like         *LikeService
	Subscription *SubscriptionService
	Playlist     *PlaylistService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db: db,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser() ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.db)
		return nil
	}
}

// WithVideo wraps the constructor of VideoService, NewVideoService.
// The video service needs an asset store for the media files.
func WithVideo(assets domain.AssetStore) ServicesConfig {
	return func(s *Services) error {
		if assets == nil {
			return errors.New("crud: video service needs an asset store")
		}
		s.Video = NewVideoService(s.db, assets)
		return nil
	}
}

// WithComment wraps the constructor of CommentService, NewCommentService.
func WithComment() ServicesConfig {
	return func(s *Services) error {
		s.Comment = NewCommentService(s.db)
		return nil
	}
}

// WithTweet wraps the constructor of TweetService, NewTweetService.
func WithTweet() ServicesConfig {
	return func(s *Services) error {
		s.Tweet = NewTweetService(s.db)
		return nil
	}
}

// WithLike wraps the constructor of LikeService, NewLikeService.
func WithLike() ServicesConfig {
	return func(s *Services) error {
		s.Like = NewLikeService(s.db)
		return nil
	}
}

// WithSubscription wraps the constructor of SubscriptionService, NewSubscriptionService.
func WithSubscription() ServicesConfig {
	return func(s *Services) error {
		s.Subscription = NewSubscriptionService(s.db)
		return nil
	}
}

// WithPlaylist wraps the constructor of PlaylistService, NewPlaylistService.
func WithPlaylist() ServicesConfig {
	return func(s *Services) error {
		s.Playlist = NewPlaylistService(s.db)
		return nil
	}
}

// Ping checks that the database connection is alive.
func (s *Services) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errs.Wrap(err, errs.EUNAVAILABLE, "The database is currently unavailable.")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.Wrap(err, errs.EUNAVAILABLE, "The database is currently unavailable.")
	}
	return nil
}

// Models lists every model the services store, in an order in which their
// tables can be created.
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Video{},
		&domain.Comment{},
		&domain.Tweet{},
		&domain.Playlist{},
		&domain.PlaylistVideo{},
		&domain.Like{},
		&domain.Subscription{},
	}
}

// AutoMigrate creates or updates the tables of all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
