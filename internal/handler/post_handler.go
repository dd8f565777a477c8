package handler

import (
	"net/http"

	"socialnet/backend/internal/auth"
	"socialnet/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// CreatePostInput is the payload for composing a post.
type CreatePostInput struct {
	Content string `json:"content" binding:"required" example:"Hello world"`
}

// EditPostInput is the payload for replacing a post's content.
type EditPostInput struct {
	NewContent string `json:"newContent" binding:"required" example:"Hello again"`
}

// LikeInput states whether the visitor wants to like the post.
type LikeInput struct {
	DoesCurrentVisitorLikeThisPost *bool `json:"does_current_visitor_like_this_post" binding:"required" example:"true"`
}

// endregion

func (h *Handler) respondPage(c *gin.Context, filter service.Filter) {
	page, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.feed.GetPage(c.Request.Context(), auth.ViewerFrom(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPosts godoc
// @Summary      List all posts
// @Description  Returns one page of every post, newest first.
// @Tags         posts
// @Produce      json
// @Param        page  query     int  false  "Page number (1-indexed)"
// @Success      200   {object}  service.PageResult
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /posts [get]
func (h *Handler) GetPosts(c *gin.Context) {
	h.respondPage(c, service.AllPosts())
}

// GetFollowingPosts godoc
// @Summary      List posts from followed users
// @Description  Returns one page of posts written by users the visitor follows, newest first.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number (1-indexed)"
// @Success      200   {object}  service.PageResult
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /posts/following [get]
func (h *Handler) GetFollowingPosts(c *gin.Context) {
	h.respondPage(c, service.Following())
}

// CreatePost godoc
// @Summary      Compose a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      CreatePostInput  true  "Post content"
// @Success      201    {object}  service.PostView
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Router       /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.social.CreatePost(c.Request.Context(), auth.ViewerFrom(c), input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// EditPost godoc
// @Summary      Edit a post
// @Description  Replaces the content of one of the visitor's posts. The post keeps its timestamp.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int            true  "Post ID"
// @Param        input  body      EditPostInput  true  "New content"
// @Success      200    {object}  service.PostView
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Router       /posts/{id} [put]
func (h *Handler) EditPost(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var input EditPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.social.EditPostContent(c.Request.Context(), auth.ViewerFrom(c), postID, input.NewContent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleLike godoc
// @Summary      Like or dislike a post
// @Description  Sets whether the visitor likes the post. Asking for the current state is a conflict.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int        true  "Post ID"
// @Param        input  body      LikeInput  true  "Intended like state"
// @Success      200    {object}  service.PostView
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      409    {object}  ErrorResponse
// @Router       /posts/{id}/like [put]
func (h *Handler) ToggleLike(c *gin.Context) {
	postID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var input LikeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.social.ToggleLike(c.Request.Context(), auth.ViewerFrom(c), postID, *input.DoesCurrentVisitorLikeThisPost)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
