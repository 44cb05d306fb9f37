package crud

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vidTube/domain"
	"vidTube/errs"
)

// newTestDB opens a fresh in-memory database with all tables migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, AutoMigrate(db))
	return db
}

// newTestServices returns all services on a fresh database.
func newTestServices(t *testing.T) (*Services, *gorm.DB, *fakeAssets) {
	t.Helper()
	db := newTestDB(t)
	assets := newFakeAssets()
	services, err := NewServices(db,
		WithUser(),
		WithVideo(assets),
		WithComment(),
		WithTweet(),
		WithLike(),
		WithSubscription(),
		WithPlaylist(),
	)
	require.NoError(t, err)
	return services, db, assets
}

// fakeAssets is an in-memory asset store.
type fakeAssets struct {
	mu       sync.Mutex
	stored   map[string]domain.AssetKind
	deleted  []string
	failKind domain.AssetKind
	duration float64
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{stored: map[string]domain.AssetKind{}}
}

func (f *fakeAssets) Upload(_ context.Context, src *domain.AssetSource) (*domain.UploadedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKind != "" && src.Kind == f.failKind {
		return nil, errors.New("storage is down")
	}
	id := string(src.Kind) + "/" + uuid.NewString()
	f.stored[id] = src.Kind
	up := &domain.UploadedAsset{Asset: domain.Asset{PublicID: id, URL: "https://cdn.test/" + id}}
	if src.Kind == domain.AssetVideo {
		up.Duration = f.duration
	}
	return up, nil
}

func (f *fakeAssets) Delete(_ context.Context, publicID string, _ domain.AssetKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, publicID)
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeAssets) has(publicID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.stored[publicID]
	return ok
}

func (f *fakeAssets) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

func createUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, FullName: username + " full", AvatarURL: "https://img.test/" + username}
	require.NoError(t, db.Create(u).Error)
	return u
}

// createVideo stores a video directly. Videos created one after another get
// increasing creation times.
func createVideo(t *testing.T, db *gorm.DB, owner *domain.User, title string, published bool) *domain.Video {
	t.Helper()
	v := &domain.Video{
		OwnerID:     owner.ID,
		Title:       title,
		Description: "about " + title,
		VideoFile:   domain.Asset{PublicID: "video/" + uuid.NewString(), URL: "https://cdn.test/v"},
		Thumbnail:   domain.Asset{PublicID: "image/" + uuid.NewString(), URL: "https://cdn.test/t"},
		Duration:    60,
		IsPublished: published,
	}
	v.CreatedAt = nextTime()
	require.NoError(t, db.Create(v).Error)
	return v
}

var (
	clockMu sync.Mutex
	clock   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func nextTime() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()
	clock = clock.Add(time.Second)
	return clock
}

func source(kind domain.AssetKind) *domain.AssetSource {
	return &domain.AssetSource{Kind: kind, Filename: "file", Size: 1}
}

func firstPage(limit int) domain.PageRequest {
	return domain.PageRequest{Page: 1, Limit: limit}
}

// requireCode asserts that err is an application error with the given code.
func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, errs.ErrorCode(err), "error: %v", err)
}
