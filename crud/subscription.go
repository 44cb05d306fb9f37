package crud

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vidTube/domain"
	"vidTube/errs"
	"vidTube/logger"
)

// SubscriptionService manages Subscriptions between users and channels.
// It implements the domain.SubscriptionService interface.
type SubscriptionService struct {
	subscriptionValidator
}

// subscriptionValidator runs validations on incoming Subscription data.
// On success, it passes the data on to subscriptionGorm.
// Otherwise, it returns the error of the validation that has failed.
type subscriptionValidator struct {
	subscriptionGorm
}

// subscriptionGorm runs CRUD operations on the database using incoming Subscription data.
// It assumes that data has been validated.
type subscriptionGorm struct {
	db    *gorm.DB
	views composer
}

// NewSubscriptionService returns an instance of SubscriptionService.
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{
		subscriptionValidator{
			subscriptionGorm{
				db:    db,
				views: composer{db: db},
			},
		},
	}
}

// Ensure the SubscriptionService struct properly implements the domain.SubscriptionService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.SubscriptionService = &SubscriptionService{}

// Toggle runs validations needed for subscribing to or unsubscribing from a channel.
func (sv *subscriptionValidator) Toggle(ctx context.Context, actorID, channelID string) (*domain.SubscriptionStatus, error) {
	sub := &domain.Subscription{
		SubscriberID: actorID,
		ChannelID:    channelID,
	}
	err := runSubscriptionValFns(ctx, sub,
		sv.channelIdValid,
		sv.subscriberPresent,
		sv.notOwnChannel,
		sv.channelExists)
	if err != nil {
		return nil, err
	}
	return sv.subscriptionGorm.Toggle(ctx, sub)
}

// Subscribers makes sure that the channel exists before listing its subscribers.
func (sv *subscriptionValidator) Subscribers(ctx context.Context, actorID, channelID string, req domain.PageRequest) (*domain.Page[domain.SubscriberView], error) {
	if err := checkID(channelID, "channel id"); err != nil {
		return nil, err
	}
	pq, err := newPageQuery(req, "subscriptions", createdAtOnly)
	if err != nil {
		return nil, err
	}
	if err := sv.userExists(ctx, channelID, "The channel does not exist."); err != nil {
		return nil, err
	}
	return sv.subscriptionGorm.Subscribers(ctx, actorID, channelID, pq)
}

// Channels makes sure that the subscriber exists before listing their channels.
func (sv *subscriptionValidator) Channels(ctx context.Context, actorID, subscriberID string, req domain.PageRequest) (*domain.Page[domain.SubscriberView], error) {
	if err := checkID(subscriberID, "subscriber id"); err != nil {
		return nil, err
	}
	pq, err := newPageQuery(req, "subscriptions", createdAtOnly)
	if err != nil {
		return nil, err
	}
	if err := sv.userExists(ctx, subscriberID, "The subscriber does not exist."); err != nil {
		return nil, err
	}
	return sv.subscriptionGorm.Channels(ctx, actorID, subscriberID, pq)
}

// runSubscriptionValFns runs any number of functions of type subscriptionValFn on the passed in
// Subscription object. If none of them returns an error, it returns nil. Otherwise, it returns the
// respective error.
func runSubscriptionValFns(ctx context.Context, sub *domain.Subscription, fns ...subscriptionValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// A subscriptionValFn is any function that takes in a pointer to a domain.Subscription object and returns an error.
type subscriptionValFn func(ctx context.Context, sub *domain.Subscription) error

func (sv *subscriptionValidator) channelIdValid(_ context.Context, sub *domain.Subscription) error {
	return checkID(sub.ChannelID, "channel id")
}

func (sv *subscriptionValidator) subscriberPresent(_ context.Context, sub *domain.Subscription) error {
	return requireActor(sub.SubscriberID)
}

// notOwnChannel makes sure that users don't subscribe to themselves.
func (sv *subscriptionValidator) notOwnChannel(_ context.Context, sub *domain.Subscription) error {
	if sub.SubscriberID == sub.ChannelID {
		return errs.Errorf(errs.EINVALID, "You cannot subscribe to your own channel.")
	}
	return nil
}

// channelExists makes sure that the channel to subscribe to actually exists.
func (sv *subscriptionValidator) channelExists(ctx context.Context, sub *domain.Subscription) error {
	return sv.userExists(ctx, sub.ChannelID, "The channel does not exist.")
}

func (sv *subscriptionValidator) userExists(ctx context.Context, userID, notFoundMsg string) error {
	_, err := withRetry(ctx, func() (struct{}, error) {
		err := sv.db.WithContext(ctx).First(&domain.User{}, "id = ?", userID).Error
		return struct{}{}, storeErr(err, notFoundMsg)
	})
	return err
}

// Toggle flips the Subscription of its subscriber to its channel.
func (sg *subscriptionGorm) Toggle(ctx context.Context, sub *domain.Subscription) (*domain.SubscriptionStatus, error) {
	subscribed, err := toggle(ctx, sg.db, relationKey[domain.Subscription]{
		record: func() *domain.Subscription {
			return &domain.Subscription{SubscriberID: sub.SubscriberID, ChannelID: sub.ChannelID}
		},
		match: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("subscriber_id = ? AND channel_id = ?", sub.SubscriberID, sub.ChannelID)
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("subscription toggled",
		zap.String("subscriber_id", sub.SubscriberID),
		zap.String("channel_id", sub.ChannelID),
		zap.Bool("subscribed", subscribed))
	return &domain.SubscriptionStatus{IsSubscribed: subscribed}, nil
}

// Subscribers retrieves one page of the users subscribed to a channel,
// most recent subscriptions first.
func (sg *subscriptionGorm) Subscribers(ctx context.Context, actorID, channelID string, pq *pageQuery) (*domain.Page[domain.SubscriberView], error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&domain.Subscription{}).Where("subscriptions.channel_id = ?", channelID)
	}
	return paginate(ctx, sg.db, scope, pq, func(subs []domain.Subscription) ([]domain.SubscriberView, error) {
		return sg.subscriberViews(ctx, actorID, subs, func(s *domain.Subscription) string { return s.SubscriberID })
	})
}

// Channels retrieves one page of the channels a user is subscribed to,
// most recent subscriptions first.
func (sg *subscriptionGorm) Channels(ctx context.Context, actorID, subscriberID string, pq *pageQuery) (*domain.Page[domain.SubscriberView], error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&domain.Subscription{}).Where("subscriptions.subscriber_id = ?", subscriberID)
	}
	return paginate(ctx, sg.db, scope, pq, func(subs []domain.Subscription) ([]domain.SubscriberView, error) {
		return sg.subscriberViews(ctx, actorID, subs, func(s *domain.Subscription) string { return s.ChannelID })
	})
}

// subscriberViews composes the channel views of the users on the other side
// of the subscriptions, as picked by other.
func (sg *subscriptionGorm) subscriberViews(ctx context.Context, actorID string, subs []domain.Subscription, other func(*domain.Subscription) string) ([]domain.SubscriberView, error) {
	ids := make([]string, len(subs))
	for i := range subs {
		ids[i] = other(&subs[i])
	}
	channels, err := sg.views.channelsByID(ctx, actorID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SubscriberView, len(subs))
	for i := range subs {
		out[i] = domain.SubscriberView{
			ChannelView:  channels[ids[i]],
			SubscribedAt: subs[i].CreatedAt,
		}
	}
	return out, nil
}
