package handler

import (
	"socialnet/backend/internal/auth"
	"socialnet/backend/internal/hub"
	"socialnet/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler serves the JSON API on top of the services.
type Handler struct {
	feed   *service.FeedService
	social *service.SocialService
	users  *service.UserService
	hub    *hub.Hub
	secret []byte
}

func New(feed *service.FeedService, social *service.SocialService, users *service.UserService, h *hub.Hub, jwtSecret []byte) *Handler {
	return &Handler{feed: feed, social: social, users: users, hub: h, secret: jwtSecret}
}

// RegisterRoutes mounts the API under api, normally the /api/v1 group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	required := auth.AuthMiddleware(h.secret)
	optional := auth.OptionalAuthMiddleware(h.secret)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.LoginUser)
	}

	postRoutes := api.Group("/posts")
	{
		postRoutes.GET("", optional, h.GetPosts)
		postRoutes.GET("/following", required, h.GetFollowingPosts)
		postRoutes.POST("", required, h.CreatePost)
		postRoutes.PUT("/:id", required, h.EditPost)
		postRoutes.PUT("/:id/like", required, h.ToggleLike)
	}

	userRoutes := api.Group("/users")
	{
		userRoutes.GET("/:id", optional, h.GetProfile)
		userRoutes.GET("/:id/posts", optional, h.GetUserPosts)
		userRoutes.PUT("/:id/follow", required, h.ToggleFollow)
		userRoutes.GET("/:id/events", h.StreamProfileEvents)
	}
}
