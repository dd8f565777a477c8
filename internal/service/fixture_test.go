package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"socialnet/backend/internal/cache"
	"socialnet/backend/internal/events"
	"socialnet/backend/internal/models"
	"socialnet/backend/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2020, time.November, 23, 14, 34, 0, 0, time.UTC)

// tickingClock advances one minute per call.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type countingObserver struct {
	outcomes map[string][]string
}

func (o *countingObserver) ObserveAction(action, outcome string) {
	o.outcomes[action] = append(o.outcomes[action], outcome)
}

type memoryStatsCache struct {
	entries     map[uint]cache.ProfileStats
	hits        int
	invalidated []uint
}

func (c *memoryStatsCache) Get(_ context.Context, id uint) (cache.ProfileStats, bool, error) {
	s, ok := c.entries[id]
	if ok {
		c.hits++
	}
	return s, ok, nil
}

func (c *memoryStatsCache) Set(_ context.Context, id uint, s cache.ProfileStats) error {
	c.entries[id] = s
	return nil
}

func (c *memoryStatsCache) Invalidate(_ context.Context, ids ...uint) error {
	for _, id := range ids {
		delete(c.entries, id)
	}
	c.invalidated = append(c.invalidated, ids...)
	return nil
}

type fixture struct {
	ctx      context.Context
	repo     *repository.MockRepository
	feed     *FeedService
	social   *SocialService
	recorder *events.Recorder
	observer *countingObserver
	stats    *memoryStatsCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := repository.NewMock()
	clock := &tickingClock{now: baseTime}
	repo.Now = clock.Now

	f := &fixture{
		ctx:      context.Background(),
		repo:     repo,
		recorder: &events.Recorder{},
		observer: &countingObserver{outcomes: map[string][]string{}},
		stats:    &memoryStatsCache{entries: map[uint]cache.ProfileStats{}},
	}
	f.feed = NewFeedService(repo.Users(), repo.Posts())
	f.social = NewSocialService(repo.Users(), repo.Posts(), repo.Followers(), repo.Likes(),
		WithPublisher(f.recorder),
		WithObserver(f.observer),
		WithStatsCache(f.stats),
	)
	f.social.now = clock.Now
	return f
}

func (f *fixture) user(t *testing.T, username string) Viewer {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, f.repo.Users().Create(f.ctx, u))
	return Viewer{UserID: u.ID}
}

func (f *fixture) postAt(t *testing.T, author Viewer, content string, at time.Time) uint {
	t.Helper()
	p := &models.Post{Model: gorm.Model{CreatedAt: at}, PosterID: author.UserID, Content: content}
	require.NoError(t, f.repo.Posts().Create(f.ctx, p))
	return p.ID
}

func (f *fixture) post(t *testing.T, author Viewer, content string) uint {
	t.Helper()
	return f.postAt(t, author, content, time.Time{})
}

func (f *fixture) follow(t *testing.T, viewer, profile Viewer) {
	t.Helper()
	require.NoError(t, f.social.ToggleFollow(f.ctx, viewer, profile.UserID, true))
}
