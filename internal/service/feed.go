package service

import (
	"context"
	"math"

	"socialnet/backend/internal/repository"
)

type FilterKind int

const (
	Unfiltered FilterKind = iota
	FollowingOnly
	ByAuthor
)

// Filter selects which posts a feed shows.
type Filter struct {
	Kind     FilterKind
	AuthorID uint
}

func AllPosts() Filter           { return Filter{Kind: Unfiltered} }
func Following() Filter          { return Filter{Kind: FollowingOnly} }
func Author(userID uint) Filter { return Filter{Kind: ByAuthor, AuthorID: userID} }

// FeedService answers paginated, viewer-annotated feed queries.
type FeedService struct {
	users repository.UserRepo
	posts repository.PostRepo
}

func NewFeedService(users repository.UserRepo, posts repository.PostRepo) *FeedService {
	return &FeedService{users: users, posts: posts}
}

// GetPage returns page number page (1-indexed) of the filtered feed, newest first.
// Page 1 always exists, even when empty; any page past the last is ErrPageNotFound.
func (s *FeedService) GetPage(ctx context.Context, viewer Viewer, filter Filter, page int) (*PageResult, error) {
	var scope repository.PostScope
	switch filter.Kind {
	case FollowingOnly:
		if !viewer.Authenticated() {
			return nil, ErrUnauthorized
		}
		scope.FollowedBy = viewer.UserID
	case ByAuthor:
		author, err := s.users.GetByID(ctx, filter.AuthorID)
		if err != nil {
			return nil, err
		}
		if author == nil {
			return nil, ErrUserNotFound
		}
		scope.AuthorID = author.ID
	}

	// pages this large cannot exist and would overflow the offset
	if page < 1 || page > math.MaxInt/PageSize {
		return nil, ErrPageNotFound
	}

	posts, total, err := s.posts.List(ctx, scope, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, err
	}

	numPages := NumPages(total, PageSize)
	if page > numPages {
		return nil, ErrPageNotFound
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewPostView(p, viewer))
	}

	return &PageResult{
		HasNext:          page < numPages,
		HasPrevious:      page > 1,
		Page:             page,
		NumPages:         numPages,
		CurrentPagePosts: views,
	}, nil
}

// NumPages is the page count for total items; an empty list still has one page.
func NumPages(total int64, size int) int {
	if size <= 0 {
		size = 1
	}
	n := int((total + int64(size) - 1) / int64(size))
	if n < 1 {
		return 1
	}
	return n
}
