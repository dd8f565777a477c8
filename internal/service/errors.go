package service

import "errors"

var (
	ErrUserNotFound       = errors.New("this user doesn't exist")
	ErrPostNotFound       = errors.New("no post found with this id")
	ErrPageNotFound       = errors.New("this page doesn't exist")
	ErrAlreadyFollowing   = errors.New("this visitor is already following this profile")
	ErrNotFollowing       = errors.New("this visitor is not following this profile and cannot unfollow it")
	ErrFollowSelf         = errors.New("users cannot follow themselves")
	ErrAlreadyLiked       = errors.New("you can't like the same post two times")
	ErrNotLiked           = errors.New("you can't dislike a post you don't like")
	ErrEmptyContent       = errors.New("post content must not be empty")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("only the author can edit this post")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrPasswordMismatch   = errors.New("passwords must match")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
)

// Kind groups errors by how a caller should react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindBadRequest
	KindUnauthorized
	KindForbidden
)

var errorKinds = map[error]Kind{
	ErrUserNotFound:       KindNotFound,
	ErrPostNotFound:       KindNotFound,
	ErrPageNotFound:       KindNotFound,
	ErrAlreadyFollowing:   KindConflict,
	ErrNotFollowing:       KindConflict,
	ErrAlreadyLiked:       KindConflict,
	ErrNotLiked:           KindConflict,
	ErrUsernameTaken:      KindConflict,
	ErrFollowSelf:         KindBadRequest,
	ErrEmptyContent:       KindBadRequest,
	ErrPasswordMismatch:   KindBadRequest,
	ErrUnauthorized:       KindUnauthorized,
	ErrInvalidCredentials: KindUnauthorized,
	ErrForbidden:          KindForbidden,
}

// KindOf classifies err; unknown errors are KindInternal.
func KindOf(err error) Kind {
	for sentinel, kind := range errorKinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "error"
	}
}
