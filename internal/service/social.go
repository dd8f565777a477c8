package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"socialnet/backend/internal/cache"
	"socialnet/backend/internal/events"
	"socialnet/backend/internal/logger"
	"socialnet/backend/internal/models"
	"socialnet/backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ActionObserver is told the outcome of every social action.
type ActionObserver interface {
	ObserveAction(action, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveAction(string, string) {}

// SocialService implements the state-changing actions: follow, like, post and edit.
// Follow and like are toggles with a precondition: the caller states the state it
// wants and the call fails with a conflict if that state already holds.
type SocialService struct {
	users     repository.UserRepo
	posts     repository.PostRepo
	followers repository.FollowerRepo
	likes     repository.LikeRepo

	stats     cache.StatsCache
	publisher events.Publisher
	observer  ActionObserver
	now       func() time.Time

	// statsGen counts invalidations per user; a count taken across one is not cached.
	genMu    sync.Mutex
	statsGen map[uint]uint64
}

type Option func(*SocialService)

func WithStatsCache(c cache.StatsCache) Option {
	return func(s *SocialService) { s.stats = c }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *SocialService) { s.publisher = p }
}

func WithObserver(o ActionObserver) Option {
	return func(s *SocialService) { s.observer = o }
}

func NewSocialService(
	users repository.UserRepo,
	posts repository.PostRepo,
	followers repository.FollowerRepo,
	likes repository.LikeRepo,
	opts ...Option,
) *SocialService {
	s := &SocialService{
		users:     users,
		posts:     posts,
		followers: followers,
		likes:     likes,
		stats:     cache.NopStatsCache{},
		publisher: events.NopPublisher{},
		observer:  nopObserver{},
		now:       time.Now,
		statsGen:  make(map[uint]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SocialService) observe(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	s.observer.ObserveAction(action, outcome)
}

func (s *SocialService) publish(ctx context.Context, ev events.Event) {
	ev.At = s.now()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		lg := logger.For("service")
		lg.Warn().Err(err).Str("event", string(ev.Type)).Msg("event not delivered")
	}
}

// ToggleFollow makes viewer follow (follow=true) or unfollow profileID.
func (s *SocialService) ToggleFollow(ctx context.Context, viewer Viewer, profileID uint, follow bool) (err error) {
	defer func() { s.observe("follow", err) }()

	if !viewer.Authenticated() {
		return ErrUnauthorized
	}
	profile, err := s.users.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrUserNotFound
	}
	if profile.ID == viewer.UserID {
		return ErrFollowSelf
	}

	existing, err := s.followers.Get(ctx, viewer.UserID, profile.ID)
	if err != nil {
		return err
	}

	evType := events.UserFollowed
	if follow {
		if existing != nil {
			return ErrAlreadyFollowing
		}
		err = s.followers.Create(ctx, &models.Follower{FollowerID: viewer.UserID, FollowedID: profile.ID})
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyFollowing
		}
		if err != nil {
			return err
		}
	} else {
		evType = events.UserUnfollowed
		if existing == nil {
			return ErrNotFollowing
		}
		n, err := s.followers.Delete(ctx, viewer.UserID, profile.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFollowing
		}
	}

	s.invalidateStats(ctx, viewer.UserID, profile.ID)
	s.publish(ctx, events.Event{Type: evType, ActorID: viewer.UserID, SubjectID: profile.ID})
	return nil
}

// ToggleLike likes (like=true) or dislikes postID for viewer and returns the updated post.
func (s *SocialService) ToggleLike(ctx context.Context, viewer Viewer, postID uint, like bool) (view *PostView, err error) {
	defer func() { s.observe("like", err) }()

	if !viewer.Authenticated() {
		return nil, ErrUnauthorized
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	existing, err := s.likes.Get(ctx, viewer.UserID, post.ID)
	if err != nil {
		return nil, err
	}

	evType := events.PostLiked
	if like {
		if existing != nil {
			return nil, ErrAlreadyLiked
		}
		err = s.likes.Create(ctx, &models.Like{LikerID: viewer.UserID, PostID: post.ID})
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyLiked
		}
		if err != nil {
			return nil, err
		}
	} else {
		evType = events.PostUnliked
		if existing == nil {
			return nil, ErrNotLiked
		}
		n, err := s.likes.Delete(ctx, viewer.UserID, post.ID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrNotLiked
		}
	}

	view, err = s.reload(ctx, viewer, post.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:      evType,
		ActorID:   viewer.UserID,
		SubjectID: post.PosterID,
		PostID:    post.ID,
		Payload:   map[string]int{"number_likes": view.NumberLikes},
	})
	return view, nil
}

// CreatePost publishes a new post authored by viewer.
func (s *SocialService) CreatePost(ctx context.Context, viewer Viewer, content string) (view *PostView, err error) {
	defer func() { s.observe("post", err) }()

	if !viewer.Authenticated() {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	author, err := s.users.GetByID(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, ErrUnauthorized
	}

	post := &models.Post{PosterID: author.ID, Content: content}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Poster = *author

	v := NewPostView(*post, viewer)
	s.publish(ctx, events.Event{Type: events.PostCreated, ActorID: author.ID, SubjectID: author.ID, PostID: post.ID, Payload: v})
	return &v, nil
}

// EditPostContent replaces the content of one of viewer's posts.
// The post keeps its timestamp, so editing does not move it in any feed.
func (s *SocialService) EditPostContent(ctx context.Context, viewer Viewer, postID uint, content string) (view *PostView, err error) {
	defer func() { s.observe("edit", err) }()

	if !viewer.Authenticated() {
		return nil, ErrUnauthorized
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if post.PosterID != viewer.UserID {
		return nil, ErrForbidden
	}

	if err := s.posts.UpdateContent(ctx, post.ID, content); err != nil {
		return nil, err
	}
	view, err = s.reload(ctx, viewer, post.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{Type: events.PostEdited, ActorID: viewer.UserID, SubjectID: post.PosterID, PostID: post.ID, Payload: view})
	return view, nil
}

// GetProfile returns a user's public profile as seen by viewer.
func (s *SocialService) GetProfile(ctx context.Context, viewer Viewer, profileID uint) (*Profile, error) {
	user, err := s.users.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	stats, err := s.profileStats(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	following := false
	if viewer.Authenticated() && viewer.UserID != user.ID {
		edge, err := s.followers.Get(ctx, viewer.UserID, user.ID)
		if err != nil {
			return nil, err
		}
		following = edge != nil
	}

	return &Profile{
		ID:                 user.ID,
		Username:           user.Username,
		Followers:          stats.Followers,
		Following:          stats.Following,
		VisitorIsFollowing: following,
	}, nil
}

func (s *SocialService) profileStats(ctx context.Context, userID uint) (cache.ProfileStats, error) {
	lg := logger.For("service")

	stats, ok, err := s.stats.Get(ctx, userID)
	if err != nil {
		lg.Warn().Err(err).Msg("profile stats cache read failed")
	}
	if ok {
		return stats, nil
	}

	gen := s.statsGeneration(userID)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Followers, err = s.followers.CountFollowers(gCtx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.Following, err = s.followers.CountFollowing(gCtx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return cache.ProfileStats{}, err
	}
	if s.statsGeneration(userID) != gen {
		return stats, nil
	}
	if err := s.stats.Set(ctx, userID, stats); err != nil {
		lg.Warn().Err(err).Msg("profile stats cache write failed")
	}
	return stats, nil
}

func (s *SocialService) statsGeneration(userID uint) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.statsGen[userID]
}

func (s *SocialService) invalidateStats(ctx context.Context, userIDs ...uint) {
	s.genMu.Lock()
	for _, id := range userIDs {
		s.statsGen[id]++
	}
	s.genMu.Unlock()

	if err := s.stats.Invalidate(ctx, userIDs...); err != nil {
		lg := logger.For("service")
		lg.Warn().Err(err).Msg("profile stats not invalidated")
	}
}

func (s *SocialService) reload(ctx context.Context, viewer Viewer, postID uint) (*PostView, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	v := NewPostView(*post, viewer)
	return &v, nil
}
