package service

import (
	"context"
	"testing"
	"time"

	"socialnet/backend/internal/cache"
	"socialnet/backend/internal/events"
	"socialnet/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFollow_RoundTrip(t *testing.T) {
	f := newFixture(t)
	v := f.user(t, "viewer")
	p := f.user(t, "profile")

	require.NoError(t, f.social.ToggleFollow(f.ctx, v, p.UserID, true))
	assert.ErrorIs(t, f.social.ToggleFollow(f.ctx, v, p.UserID, true), ErrAlreadyFollowing)

	require.NoError(t, f.social.ToggleFollow(f.ctx, v, p.UserID, false))
	assert.ErrorIs(t, f.social.ToggleFollow(f.ctx, v, p.UserID, false), ErrNotFollowing)

	assert.Equal(t, []events.Type{events.UserFollowed, events.UserUnfollowed}, f.recorder.Types())
	assert.Equal(t, v.UserID, f.recorder.Events[0].ActorID)
	assert.Equal(t, p.UserID, f.recorder.Events[0].SubjectID)
	assert.Equal(t, []string{"ok", "conflict", "ok", "conflict"}, f.observer.outcomes["follow"])
}

func TestToggleFollow_Rejections(t *testing.T) {
	f := newFixture(t)
	v := f.user(t, "viewer")
	p := f.user(t, "profile")

	assert.ErrorIs(t, f.social.ToggleFollow(f.ctx, Anonymous, p.UserID, true), ErrUnauthorized)
	assert.ErrorIs(t, f.social.ToggleFollow(f.ctx, v, 999, true), ErrUserNotFound)
	assert.ErrorIs(t, f.social.ToggleFollow(f.ctx, v, v.UserID, true), ErrFollowSelf)
	assert.Empty(t, f.recorder.Events)
}

func TestToggleFollow_RaceBecomesConflict(t *testing.T) {
	f := newFixture(t)
	v := f.user(t, "viewer")
	p := f.user(t, "profile")
	f.follow(t, v, p)

	// the existence check misses, so the insert hits the unique key
	f.repo.StaleReads = true
	err := f.social.ToggleFollow(f.ctx, v, p.UserID, true)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestToggleLike_RoundTrip(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	v := f.user(t, "viewer")
	postID := f.post(t, author, "hello")

	view, err := f.social.ToggleLike(f.ctx, v, postID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, view.NumberLikes)
	assert.True(t, view.DoesCurrentVisitorLikeThisPost)

	_, err = f.social.ToggleLike(f.ctx, v, postID, true)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	view, err = f.social.ToggleLike(f.ctx, v, postID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, view.NumberLikes)
	assert.False(t, view.DoesCurrentVisitorLikeThisPost)
	assert.Empty(t, view.Likes)

	_, err = f.social.ToggleLike(f.ctx, v, postID, false)
	assert.ErrorIs(t, err, ErrNotLiked)

	assert.Equal(t, []events.Type{events.PostLiked, events.PostUnliked}, f.recorder.Types())
	assert.Equal(t, author.UserID, f.recorder.Events[0].SubjectID)
	assert.Equal(t, postID, f.recorder.Events[0].PostID)
}

func TestToggleLike_LikesKeepInsertionOrder(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	first := f.user(t, "first")
	second := f.user(t, "second")
	postID := f.post(t, author, "hello")

	_, err := f.social.ToggleLike(f.ctx, second, postID, true)
	require.NoError(t, err)
	view, err := f.social.ToggleLike(f.ctx, first, postID, true)
	require.NoError(t, err)

	assert.Equal(t, []LikeView{
		{LikerID: second.UserID, PostID: postID},
		{LikerID: first.UserID, PostID: postID},
	}, view.Likes)
	assert.Equal(t, len(view.Likes), view.NumberLikes)
}

func TestToggleLike_Rejections(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	postID := f.post(t, author, "hello")

	_, err := f.social.ToggleLike(f.ctx, Anonymous, postID, true)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.social.ToggleLike(f.ctx, author, 999, true)
	assert.ErrorIs(t, err, ErrPostNotFound)

	f.repo.StaleReads = true
	_, err = f.social.ToggleLike(f.ctx, author, postID, true)
	require.NoError(t, err)
	_, err = f.social.ToggleLike(f.ctx, author, postID, true)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")

	view, err := f.social.CreatePost(f.ctx, author, "first post")
	require.NoError(t, err)
	assert.Equal(t, "first post", view.Content)
	assert.Equal(t, "author", view.Poster.Username)
	assert.Zero(t, view.NumberLikes)
	assert.NotNil(t, view.Likes)

	_, err = f.social.CreatePost(f.ctx, author, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = f.social.CreatePost(f.ctx, Anonymous, "hello")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.social.CreatePost(f.ctx, Viewer{UserID: 999}, "hello")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Equal(t, []events.Type{events.PostCreated}, f.recorder.Types())
}

func TestEditPostContent(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	other := f.user(t, "other")
	postID := f.postAt(t, author, "before", baseTime)
	f.postAt(t, other, "later", baseTime.Add(time.Hour))

	view, err := f.social.EditPostContent(f.ctx, author, postID, "after")
	require.NoError(t, err)
	assert.Equal(t, "after", view.Content)
	assert.Equal(t, "Nov 23 2020, 02:34 PM", view.Timestamp)

	page, err := f.feed.GetPage(f.ctx, Anonymous, AllPosts(), 1)
	require.NoError(t, err)
	require.Len(t, page.CurrentPagePosts, 2)
	assert.Equal(t, postID, page.CurrentPagePosts[1].ID)
	assert.Equal(t, "after", page.CurrentPagePosts[1].Content)

	assert.Equal(t, []events.Type{events.PostEdited}, f.recorder.Types())
}

func TestEditPostContent_Rejections(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")
	other := f.user(t, "other")
	postID := f.post(t, author, "before")

	_, err := f.social.EditPostContent(f.ctx, author, postID, "")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Equal(t, KindBadRequest, KindOf(err))

	_, err = f.social.EditPostContent(f.ctx, other, postID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.social.EditPostContent(f.ctx, author, 999, "x")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = f.social.EditPostContent(f.ctx, Anonymous, postID, "x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	stored, err := f.repo.Posts().GetByID(f.ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, "before", stored.Content)
	assert.Equal(t, []string{"bad_request", "forbidden", "not_found", "unauthorized"}, f.observer.outcomes["edit"])
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")

	f.follow(t, alice, bob)
	f.follow(t, carol, bob)
	f.follow(t, bob, alice)

	profile, err := f.social.GetProfile(f.ctx, alice, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, &Profile{
		ID:                 bob.UserID,
		Username:           "bob",
		Followers:          2,
		Following:          1,
		VisitorIsFollowing: true,
	}, profile)

	anon, err := f.social.GetProfile(f.ctx, Anonymous, bob.UserID)
	require.NoError(t, err)
	assert.False(t, anon.VisitorIsFollowing)

	self, err := f.social.GetProfile(f.ctx, bob, bob.UserID)
	require.NoError(t, err)
	assert.False(t, self.VisitorIsFollowing)

	_, err = f.social.GetProfile(f.ctx, alice, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetProfile_UsesStatsCache(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	_, err := f.social.GetProfile(f.ctx, alice, bob.UserID)
	require.NoError(t, err)
	assert.Contains(t, f.stats.entries, bob.UserID)
	assert.Equal(t, cache.ProfileStats{}, f.stats.entries[bob.UserID])

	_, err = f.social.GetProfile(f.ctx, alice, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.stats.hits)

	f.follow(t, alice, bob)
	assert.ElementsMatch(t, []uint{alice.UserID, bob.UserID}, f.stats.invalidated)

	profile, err := f.social.GetProfile(f.ctx, alice, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.Followers)
	assert.True(t, profile.VisitorIsFollowing)
}

// followDuringCount commits a follow right after the followers count was taken.
type followDuringCount struct {
	repository.FollowerRepo
	during func()
}

func (r *followDuringCount) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	n, err := r.FollowerRepo.CountFollowers(ctx, userID)
	if r.during != nil {
		during := r.during
		r.during = nil
		during()
	}
	return n, err
}

func TestGetProfile_StaleCountIsNotCached(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	followers := &followDuringCount{FollowerRepo: f.repo.Followers()}
	social := NewSocialService(f.repo.Users(), f.repo.Posts(), followers, f.repo.Likes(), WithStatsCache(f.stats))
	followers.during = func() {
		assert.NoError(t, social.ToggleFollow(f.ctx, alice, bob.UserID, true))
	}

	profile, err := social.GetProfile(f.ctx, Anonymous, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.Followers)
	assert.NotContains(t, f.stats.entries, bob.UserID)

	profile, err = social.GetProfile(f.ctx, Anonymous, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.Followers)
	assert.Equal(t, cache.ProfileStats{Followers: 1}, f.stats.entries[bob.UserID])
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrPageNotFound))
	assert.Equal(t, KindConflict, KindOf(ErrNotLiked))
	assert.Equal(t, KindBadRequest, KindOf(ErrFollowSelf))
	assert.Equal(t, KindUnauthorized, KindOf(ErrInvalidCredentials))
	assert.Equal(t, KindForbidden, KindOf(ErrForbidden))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
	assert.Equal(t, "error", KindInternal.String())
}
