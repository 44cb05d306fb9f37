package crud

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidTube/domain"
	"vidTube/errs"
)

// UserService manages the local copies of user profiles.
// It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated.
type userGorm struct {
	db    *gorm.DB
	views composer
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		userValidator{
			userGorm{
				db:    db,
				views: composer{db: db},
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Upsert runs validations needed for storing a User profile.
func (uv *userValidator) Upsert(ctx context.Context, user *domain.User) error {
	err := runUserValFns(user,
		uv.idValid,
		uv.normalizeUsername,
		uv.usernameRequired)
	if err != nil {
		return err
	}
	return uv.userGorm.Upsert(ctx, user)
}

// ChannelProfile makes sure that the requested user ID is well-formed.
func (uv *userValidator) ChannelProfile(ctx context.Context, actorID, userID string) (*domain.ChannelProfileView, error) {
	if err := checkID(userID, "user id"); err != nil {
		return nil, err
	}
	return uv.userGorm.ChannelProfile(ctx, actorID, userID)
}

// runUserValFns runs any number of functions of type userValFn on the passed in User object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runUserValFns(user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User object and returns an error.
type userValFn func(user *domain.User) error

// idValid makes sure that the user ID is a well-formed identifier.
func (uv *userValidator) idValid(user *domain.User) error {
	return checkID(user.ID, "user id")
}

// normalizeUsername trims the username and lowercases it.
func (uv *userValidator) normalizeUsername(user *domain.User) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	return nil
}

// usernameRequired ensures that the username is not empty.
func (uv *userValidator) usernameRequired(user *domain.User) error {
	if user.Username == "" {
		return errs.Errorf(errs.EINVALID, "Username is required.")
	}
	return nil
}

// Upsert creates the user's record or refreshes its profile fields.
func (ug *userGorm) Upsert(ctx context.Context, user *domain.User) error {
	err := ug.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "full_name", "avatar_url", "updated_at"}),
		}).
		Create(user).Error
	if isDuplicate(err) {
		return errs.Wrap(err, errs.EINVALID, "That username is taken by another account.")
	}
	return storeErr(err, "")
}

// ByID retrieves a single User by ID.
func (ug *userGorm) ByID(ctx context.Context, id string) (*domain.User, error) {
	return withRetry(ctx, func() (*domain.User, error) {
		var user domain.User
		err := ug.db.WithContext(ctx).First(&user, "id = ?", id).Error
		if err != nil {
			return nil, storeErr(err, "The user does not exist.")
		}
		return &user, nil
	})
}

// ChannelProfile composes the profile view of a channel: its subscribers,
// the channels it subscribes to and its number of published videos.
func (ug *userGorm) ChannelProfile(ctx context.Context, actorID, userID string) (*domain.ChannelProfileView, error) {
	user, err := ug.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withRetry(ctx, func() (*domain.ChannelProfileView, error) {
		channel, err := ug.views.channelView(ctx, actorID, user)
		if err != nil {
			return nil, err
		}
		subscribedTo, err := ug.views.subscribedToCounts(ctx, []string{user.ID})
		if err != nil {
			return nil, err
		}
		var videos int64
		tx := ug.db.WithContext(ctx).
			Model(&domain.Video{}).
			Where("videos.owner_id = ?", user.ID)
		err = visibleTo(actorID)(tx).Count(&videos).Error
		if err != nil {
			return nil, storeErr(err, "")
		}
		return &domain.ChannelProfileView{
			ChannelView:               *channel,
			ChannelsSubscribedToCount: subscribedTo[user.ID],
			VideosCount:               videos,
		}, nil
	})
}
