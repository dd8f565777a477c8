package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"socialnet/backend/internal/models"

	"gorm.io/gorm"
)

type edgeKey struct{ a, b uint }

// MockRepository is an in-memory UserRepo, PostRepo, FollowerRepo and LikeRepo
// with the same ordering and uniqueness rules as the gorm implementations.
type MockRepository struct {
	mu sync.Mutex

	users     map[uint]models.User
	posts     map[uint]models.Post
	followers map[edgeKey]models.Follower
	likes     []models.Like
	nextUser  uint
	nextPost  uint

	// Now stamps CreatedAt when the caller leaves it zero.
	Now func() time.Time
	// StaleReads makes edge lookups miss, as a request racing another one would.
	StaleReads bool
	// ShouldFail makes every call return an error.
	ShouldFail bool
}

var errMockFailure = errors.New("mock: repository failure")

// NewMock initializes an empty in-memory repository.
func NewMock() *MockRepository {
	return &MockRepository{
		users:     make(map[uint]models.User),
		posts:     make(map[uint]models.Post),
		followers: make(map[edgeKey]models.Follower),
		Now:       time.Now,
	}
}

// Users, Posts, Followers and Likes expose the mock under each interface.
func (m *MockRepository) Users() UserRepo         { return mockUsers{m} }
func (m *MockRepository) Posts() PostRepo         { return mockPosts{m} }
func (m *MockRepository) Followers() FollowerRepo { return mockFollowers{m} }
func (m *MockRepository) Likes() LikeRepo         { return mockLikes{m} }

func (m *MockRepository) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return m.Now()
	}
	return t
}

// --- users ---

type mockUsers struct{ m *MockRepository }

func (r mockUsers) Create(_ context.Context, user *models.User) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMockFailure
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrDuplicate
		}
	}
	m.nextUser++
	user.ID = m.nextUser
	user.CreatedAt = m.stamp(user.CreatedAt)
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (r mockUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMockFailure
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r mockUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMockFailure
	}
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// --- posts ---

type mockPosts struct{ m *MockRepository }

func (r mockPosts) Create(_ context.Context, post *models.Post) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMockFailure
	}
	if _, ok := m.users[post.PosterID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	m.nextPost++
	post.ID = m.nextPost
	post.CreatedAt = m.stamp(post.CreatedAt)
	post.UpdatedAt = post.CreatedAt
	stored := *post
	stored.Poster = models.User{}
	stored.Likes = nil
	m.posts[post.ID] = stored
	return nil
}

// hydrate fills Poster and Likes the way the gorm preloads do. Caller holds mu.
func (m *MockRepository) hydrate(p models.Post) models.Post {
	p.Poster = m.users[p.PosterID]
	p.Likes = nil
	for _, l := range m.likes {
		if l.PostID == p.ID {
			p.Likes = append(p.Likes, l)
		}
	}
	return p
}

func (r mockPosts) GetByID(_ context.Context, id uint) (*models.Post, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMockFailure
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	p = m.hydrate(p)
	return &p, nil
}

func (r mockPosts) UpdateContent(_ context.Context, id uint, content string) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMockFailure
	}
	p, ok := m.posts[id]
	if !ok {
		return nil
	}
	p.Content = content
	p.UpdatedAt = m.Now()
	m.posts[id] = p
	return nil
}

func (r mockPosts) List(_ context.Context, scope PostScope, limit, offset int) ([]models.Post, int64, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, 0, errMockFailure
	}

	var matched []models.Post
	for _, p := range m.posts {
		if scope.AuthorID != 0 && p.PosterID != scope.AuthorID {
			continue
		}
		if scope.FollowedBy != 0 {
			if _, ok := m.followers[edgeKey{scope.FollowedBy, p.PosterID}]; !ok {
				continue
			}
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Post{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	window := make([]models.Post, 0, end-offset)
	for _, p := range matched[offset:end] {
		window = append(window, m.hydrate(p))
	}
	return window, total, nil
}

// --- followers ---

type mockFollowers struct{ m *MockRepository }

func (r mockFollowers) Get(_ context.Context, followerID, followedID uint) (*models.Follower, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMockFailure
	}
	if m.StaleReads {
		return nil, nil
	}
	edge, ok := m.followers[edgeKey{followerID, followedID}]
	if !ok {
		return nil, nil
	}
	return &edge, nil
}

func (r mockFollowers) Create(_ context.Context, edge *models.Follower) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMockFailure
	}
	key := edgeKey{edge.FollowerID, edge.FollowedID}
	if _, ok := m.followers[key]; ok {
		return ErrDuplicate
	}
	edge.CreatedAt = m.stamp(edge.CreatedAt)
	m.followers[key] = *edge
	return nil
}

func (r mockFollowers) Delete(_ context.Context, followerID, followedID uint) (int64, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return 0, errMockFailure
	}
	key := edgeKey{followerID, followedID}
	if _, ok := m.followers[key]; !ok {
		return 0, nil
	}
	delete(m.followers, key)
	return 1, nil
}

func (r mockFollowers) CountFollowers(_ context.Context, userID uint) (int64, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return 0, errMockFailure
	}
	var n int64
	for k := range m.followers {
		if k.b == userID {
			n++
		}
	}
	return n, nil
}

func (r mockFollowers) CountFollowing(_ context.Context, userID uint) (int64, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return 0, errMockFailure
	}
	var n int64
	for k := range m.followers {
		if k.a == userID {
			n++
		}
	}
	return n, nil
}

// --- likes ---

type mockLikes struct{ m *MockRepository }

func (m *MockRepository) likeIndex(likerID, postID uint) int {
	for i, l := range m.likes {
		if l.LikerID == likerID && l.PostID == postID {
			return i
		}
	}
	return -1
}

func (r mockLikes) Get(_ context.Context, likerID, postID uint) (*models.Like, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return nil, errMockFailure
	}
	if m.StaleReads {
		return nil, nil
	}
	i := m.likeIndex(likerID, postID)
	if i < 0 {
		return nil, nil
	}
	like := m.likes[i]
	return &like, nil
}

func (r mockLikes) Create(_ context.Context, like *models.Like) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return errMockFailure
	}
	if m.likeIndex(like.LikerID, like.PostID) >= 0 {
		return ErrDuplicate
	}
	like.CreatedAt = m.stamp(like.CreatedAt)
	m.likes = append(m.likes, *like)
	return nil
}

func (r mockLikes) Delete(_ context.Context, likerID, postID uint) (int64, error) {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldFail {
		return 0, errMockFailure
	}
	i := m.likeIndex(likerID, postID)
	if i < 0 {
		return 0, nil
	}
	m.likes = append(m.likes[:i], m.likes[i+1:]...)
	return 1, nil
}
