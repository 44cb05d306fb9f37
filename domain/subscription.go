package domain

import "context"

// Subscription represents a self-referential relation between two users.
// The SubscriberID is the user that subscribes, the ChannelID is the user
// whose channel is subscribed to. There is at most one Subscription per pair.
type Subscription struct {
	Model
	SubscriberID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair,priority:1"`
	ChannelID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair,priority:2;index"`
}

// SubscriptionStatus is the outcome of toggling a subscription.
type SubscriptionStatus struct {
	IsSubscribed bool `json:"isSubscribed"`
}

// SubscriptionService is a set of methods to work with the Subscription model.
type SubscriptionService interface {
	Toggle(ctx context.Context, actorID, channelID string) (*SubscriptionStatus, error)
	// Subscribers lists the users subscribed to a channel.
	Subscribers(ctx context.Context, actorID, channelID string, req PageRequest) (*Page[SubscriberView], error)
	// Channels lists the channels a user is subscribed to.
	Channels(ctx context.Context, actorID, subscriberID string, req PageRequest) (*Page[SubscriberView], error)
}
