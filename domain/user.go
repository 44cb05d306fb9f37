package domain

import (
	"context"
)

// User mirrors the profile of an authenticated account. Accounts are owned by
// the external auth provider; this app only copies the public profile fields
// out of verified tokens so that it can join them into views.
type User struct {
	Model
	Username  string `gorm:"not null;uniqueIndex"`
	FullName  string
	AvatarURL string
}

// UserService is a set of methods to work with the User model.
type UserService interface {
	// Upsert stores the profile of an authenticated user, creating or
	// refreshing the local copy.
	Upsert(ctx context.Context, user *User) error
	ChannelProfile(ctx context.Context, actorID, userID string) (*ChannelProfileView, error)
}
