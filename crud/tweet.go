package crud

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"vidTube/domain"
	"vidTube/errs"
)

// TweetService manages Tweets.
// It implements the domain.TweetService interface.
type TweetService struct {
	tweetValidator
}

// tweetValidator runs validations on incoming Tweet data.
// On success, it passes the data on to tweetGorm.
// Otherwise, it returns the error of the validation that has failed.
type tweetValidator struct {
	tweetGorm
}

// tweetGorm runs CRUD operations on the database using incoming Tweet data.
// It assumes that data has been validated.
type tweetGorm struct {
	db    *gorm.DB
	views composer
}

// NewTweetService returns an instance of TweetService.
func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db:    db,
				views: composer{db: db},
			},
		},
	}
}

// Ensure the TweetService struct properly implements the domain.TweetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TweetService = &TweetService{}

// Create runs validations needed for creating new Tweet database records.
func (tv *tweetValidator) Create(ctx context.Context, actorID, content string) (*domain.TweetView, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	tweet := &domain.Tweet{
		OwnerID: actorID,
		Content: content,
	}
	err := runTweetValFns(tweet,
		tv.contentMinLength,
		tv.contentMaxLength)
	if err != nil {
		return nil, err
	}
	return tv.tweetGorm.Create(ctx, tweet)
}

// ByUser makes sure that the user ID is well-formed and the page request valid.
func (tv *tweetValidator) ByUser(ctx context.Context, actorID, userID string, req domain.PageRequest) (*domain.UserTweetsView, error) {
	if err := checkID(userID, "user id"); err != nil {
		return nil, err
	}
	pq, err := newPageQuery(req, "tweets", createdAtOnly)
	if err != nil {
		return nil, err
	}
	return tv.tweetGorm.ByUser(ctx, actorID, userID, pq)
}

// Update runs validations needed for updating existing Tweet database records.
func (tv *tweetValidator) Update(ctx context.Context, actorID, tweetID, content string) (*domain.TweetView, error) {
	if err := checkID(tweetID, "tweet id"); err != nil {
		return nil, err
	}
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	tweet, err := tv.byID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if err := AssertOwner(actorID, tweet); err != nil {
		return nil, err
	}
	tweet.Content = content
	err = runTweetValFns(tweet,
		tv.contentMinLength,
		tv.contentMaxLength)
	if err != nil {
		return nil, err
	}
	return tv.tweetGorm.Update(ctx, actorID, tweet)
}

// Delete runs validations needed for deleting existing Tweet database records.
func (tv *tweetValidator) Delete(ctx context.Context, actorID, tweetID string) error {
	if err := checkID(tweetID, "tweet id"); err != nil {
		return err
	}
	if err := requireActor(actorID); err != nil {
		return err
	}
	tweet, err := tv.byID(ctx, tweetID)
	if err != nil {
		return err
	}
	if err := AssertOwner(actorID, tweet); err != nil {
		return err
	}
	return tv.tweetGorm.Delete(ctx, tweet)
}

// runTweetValFns runs any number of functions of type tweetValFn on the passed in Tweet object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runTweetValFns(tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tweet); err != nil {
			return err
		}
	}
	return nil
}

// A tweetValFn is any function that takes in a pointer to a domain.Tweet object and returns an error.
type tweetValFn = func(tweet *domain.Tweet) error

// contentMinLength makes sure that the Tweet's content is not empty.
func (tv *tweetValidator) contentMinLength(tweet *domain.Tweet) error {
	tweet.Content = strings.TrimSpace(tweet.Content)
	if tweet.Content == "" {
		return errs.Errorf(errs.EINVALID, "Tweet content must not be empty.")
	}
	return nil
}

// contentMaxLength makes sure that the Tweet's content does not exceed the maximum content length.
func (tv *tweetValidator) contentMaxLength(tweet *domain.Tweet) error {
	if utf8.RuneCountInString(tweet.Content) > domain.MaxTweetLength {
		return errs.Errorf(errs.EINVALID, "Tweet content max length is %d characters.", domain.MaxTweetLength)
	}
	return nil
}

// byID retrieves a single Tweet by ID.
func (tg *tweetGorm) byID(ctx context.Context, id string) (*domain.Tweet, error) {
	return withRetry(ctx, func() (*domain.Tweet, error) {
		var tweet domain.Tweet
		if err := tg.db.WithContext(ctx).First(&tweet, "id = ?", id).Error; err != nil {
			return nil, storeErr(err, "The tweet does not exist.")
		}
		return &tweet, nil
	})
}

// ByUser retrieves a user together with one page of their tweets.
func (tg *tweetGorm) ByUser(ctx context.Context, actorID, userID string, pq *pageQuery) (*domain.UserTweetsView, error) {
	user, err := withRetry(ctx, func() (*domain.User, error) {
		var user domain.User
		if err := tg.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
			return nil, storeErr(err, "The user does not exist.")
		}
		return &user, nil
	})
	if err != nil {
		return nil, err
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&domain.Tweet{}).Where("tweets.owner_id = ?", userID)
	}
	tweets, err := paginate(ctx, tg.db, scope, pq, func(tweets []domain.Tweet) ([]domain.UserTweetView, error) {
		return tg.views.userTweetViews(ctx, actorID, tweets)
	})
	if err != nil {
		return nil, err
	}
	return &domain.UserTweetsView{
		Owner:  ownerSummary(user),
		Tweets: tweets,
	}, nil
}

// Create stores the data from the Tweet object in a new database record.
func (tg *tweetGorm) Create(ctx context.Context, tweet *domain.Tweet) (*domain.TweetView, error) {
	if err := tg.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return nil, storeErr(err, "")
	}
	return tg.views.tweetView(ctx, tweet.OwnerID, tweet)
}

// Update stores the changed content of a Tweet.
func (tg *tweetGorm) Update(ctx context.Context, actorID string, tweet *domain.Tweet) (*domain.TweetView, error) {
	err := tg.db.WithContext(ctx).Model(tweet).Update("content", tweet.Content).Error
	if err != nil {
		return nil, storeErr(err, "The tweet does not exist.")
	}
	return tg.views.tweetView(ctx, actorID, tweet)
}

// Delete permanently deletes a Tweet and the likes on it.
func (tg *tweetGorm) Delete(ctx context.Context, tweet *domain.Tweet) error {
	err := tg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("target_kind = ? AND target_id = ?", domain.TargetTweet, tweet.ID).
			Delete(&domain.Like{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&domain.Tweet{}, "id = ?", tweet.ID).Error
	})
	return storeErr(err, "The tweet does not exist.")
}
