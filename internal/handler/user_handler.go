package handler

import (
	"io"
	"net/http"

	"socialnet/backend/internal/auth"
	"socialnet/backend/internal/hub"
	"socialnet/backend/internal/models"
	"socialnet/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username     string `json:"username" binding:"required" example:"alice"`
	Email        string `json:"email" binding:"omitempty,email" example:"alice@example.com"`
	Password     string `json:"password" binding:"required" example:"password123"`
	Confirmation string `json:"confirmation" binding:"required" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// AuthResponse carries a bearer token and the user it belongs to.
type AuthResponse struct {
	Token string             `json:"token"`
	User  service.PosterView `json:"user"`
}

// FollowInput states whether the visitor wants to follow the profile.
type FollowInput struct {
	VisitorIsFollowing *bool `json:"visitor_is_following" binding:"required" example:"true"`
}

// endregion

func newAuthResponse(token string, user *models.User) AuthResponse {
	return AuthResponse{Token: token, User: service.PosterView{ID: user.ID, Username: user.Username}}
}

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      RegisterInput  true  "Registration Info"
// @Success      201    {object}  AuthResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      409    {object}  ErrorResponse
// @Failure      500    {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	token, user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Username:     input.Username,
		Email:        input.Email,
		Password:     input.Password,
		Confirmation: input.Confirmation,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAuthResponse(token, user))
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      LoginInput  true  "Login Info"
// @Success      200    {object}  AuthResponse
// @Failure      400    {object}  ErrorResponse "Invalid input"
// @Failure      401    {object}  ErrorResponse "Invalid credentials"
// @Failure      500    {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAuthResponse(token, user))
}

// endregion

// region --- Profile Handlers ---

// GetProfile godoc
// @Summary      Get a user's profile
// @Description  Returns follower counts and whether the visitor follows the user.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  service.Profile
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	profile, err := h.social.GetProfile(c.Request.Context(), auth.ViewerFrom(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetUserPosts godoc
// @Summary      List a user's posts
// @Description  Returns one page of the user's posts, newest first.
// @Tags         users
// @Produce      json
// @Param        id    path      int  true   "User ID"
// @Param        page  query     int  false  "Page number (1-indexed)"
// @Success      200   {object}  service.PageResult
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /users/{id}/posts [get]
func (h *Handler) GetUserPosts(c *gin.Context) {
	userID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	h.respondPage(c, service.Author(userID))
}

// ToggleFollow godoc
// @Summary      Follow or unfollow a user
// @Description  Sets whether the visitor follows the user and returns the updated profile.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int          true  "User ID"
// @Param        input  body      FollowInput  true  "Intended follow state"
// @Success      200    {object}  service.Profile
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Failure      409    {object}  ErrorResponse
// @Router       /users/{id}/follow [put]
func (h *Handler) ToggleFollow(c *gin.Context) {
	userID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var input FollowInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	viewer := auth.ViewerFrom(c)
	if err := h.social.ToggleFollow(ctx, viewer, userID, *input.VisitorIsFollowing); err != nil {
		respondError(c, err)
		return
	}

	profile, err := h.social.GetProfile(ctx, viewer, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// StreamProfileEvents godoc
// @Summary      Stream a user's activity
// @Description  Server-sent events for new, edited and liked posts of the user and for follows of the user.
// @Tags         users
// @Produce      text/event-stream
// @Param        id   path  int  true  "User ID"
// @Success      200
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/events [get]
func (h *Handler) StreamProfileEvents(c *gin.Context) {
	userID, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.social.GetProfile(ctx, service.Anonymous, userID); err != nil {
		respondError(c, err)
		return
	}

	client := make(hub.Client, 16)
	h.hub.Subscribe(userID, client)
	defer h.hub.Unsubscribe(userID, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("activity", string(msg))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// endregion
