package service

import (
	"socialnet/backend/internal/models"
)

// PageSize is the number of posts on one feed page.
const PageSize = 10

// TimestampLayout renders post timestamps, e.g. "Nov 23 2020, 02:34 PM".
const TimestampLayout = "Jan 02 2006, 03:04 PM"

// Viewer is the principal a request acts for. The zero value is anonymous.
type Viewer struct {
	UserID uint
}

var Anonymous = Viewer{}

func (v Viewer) Authenticated() bool {
	return v.UserID != 0
}

type PosterView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type LikeView struct {
	LikerID uint `json:"liker_id"`
	PostID  uint `json:"post_id"`
}

type PostView struct {
	ID                             uint       `json:"id"`
	Poster                         PosterView `json:"poster"`
	Content                        string     `json:"content"`
	Timestamp                      string     `json:"timestamp"`
	NumberLikes                    int        `json:"number_likes"`
	Likes                          []LikeView `json:"likes"`
	DoesCurrentVisitorLikeThisPost bool       `json:"does_current_visitor_like_this_post"`
}

type PageResult struct {
	HasNext          bool       `json:"hasNext"`
	HasPrevious      bool       `json:"hasPrevious"`
	Page             int        `json:"page"`
	NumPages         int        `json:"numPages"`
	CurrentPagePosts []PostView `json:"currentPagePosts"`
}

type Profile struct {
	ID                 uint   `json:"id"`
	Username           string `json:"username"`
	Followers          int64  `json:"n_of_followers"`
	Following          int64  `json:"n_following"`
	VisitorIsFollowing bool   `json:"visitor_is_following"`
}

// NewPostView serializes a post (with Poster and Likes loaded) for viewer.
func NewPostView(post models.Post, viewer Viewer) PostView {
	likes := make([]LikeView, 0, len(post.Likes))
	liked := false
	for _, l := range post.Likes {
		likes = append(likes, LikeView{LikerID: l.LikerID, PostID: l.PostID})
		if viewer.Authenticated() && l.LikerID == viewer.UserID {
			liked = true
		}
	}

	return PostView{
		ID:                             post.ID,
		Poster:                         PosterView{ID: post.Poster.ID, Username: post.Poster.Username},
		Content:                        post.Content,
		Timestamp:                      post.CreatedAt.Format(TimestampLayout),
		NumberLikes:                    len(likes),
		Likes:                          likes,
		DoesCurrentVisitorLikeThisPost: liked,
	}
}
