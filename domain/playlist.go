package domain

import "context"

// Playlist is a named, ordered collection of videos. The videos themselves are
// kept in PlaylistVideo records.
type Playlist struct {
	Model
	OwnerID     string `gorm:"type:varchar(36);not null;index"`
	Name        string `gorm:"not null"`
	Description string
}

func (p *Playlist) OwnerKey() string { return p.OwnerID }

// PlaylistVideo is an entry of a playlist. A video appears at most once per
// playlist; entries are ordered by Position.
type PlaylistVideo struct {
	Model
	PlaylistID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_playlist_video,priority:1"`
	VideoID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_playlist_video,priority:2;index"`
	Position   int    `gorm:"not null"`
}

// PlaylistInput carries the data of a new playlist.
type PlaylistInput struct {
	Name        string
	Description string
}

// PlaylistUpdate carries the changes to an existing playlist. Nil fields stay untouched.
type PlaylistUpdate struct {
	Name        *string
	Description *string
}

// PlaylistService is a set of methods to manipulate and work with the Playlist model.
type PlaylistService interface {
	Create(ctx context.Context, actorID string, in *PlaylistInput) (*PlaylistView, error)
	ByID(ctx context.Context, actorID, playlistID string) (*PlaylistView, error)
	ByUser(ctx context.Context, actorID, userID string, req PageRequest) (*UserPlaylistsView, error)
	Update(ctx context.Context, actorID, playlistID string, upd *PlaylistUpdate) (*PlaylistView, error)
	Delete(ctx context.Context, actorID, playlistID string) error
	AddVideo(ctx context.Context, actorID, videoID, playlistID string) (*PlaylistView, error)
	RemoveVideo(ctx context.Context, actorID, videoID, playlistID string) (*PlaylistView, error)
}
