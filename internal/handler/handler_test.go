package handler

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"socialnet/backend/internal/hub"
	"socialnet/backend/internal/models"
	"socialnet/backend/internal/repository"
	"socialnet/backend/internal/service"
	"socialnet/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("handler-secret")

type testServer struct {
	router *gin.Engine
	repo   *repository.MockRepository
	hub    *hub.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMock()
	h := hub.NewHub()
	feed := service.NewFeedService(repo.Users(), repo.Posts())
	social := service.NewSocialService(repo.Users(), repo.Posts(), repo.Followers(), repo.Likes(),
		service.WithPublisher(h))
	users := service.NewUserService(repo.Users(), testSecret, time.Hour)

	r := gin.New()
	New(feed, social, users, h, testSecret).RegisterRoutes(r.Group("/api/v1"))
	return &testServer{router: r, repo: repo, hub: h}
}

// user creates a user directly in the store and returns its id and a bearer token.
func (s *testServer) user(t *testing.T, username string) (uint, string) {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, s.repo.Users().Create(context.Background(), u))
	token, err := jwt.GenerateToken(u.ID, testSecret, time.Hour)
	require.NoError(t, err)
	return u.ID, token
}

func (s *testServer) post(t *testing.T, authorID uint, content string) uint {
	t.Helper()
	p := &models.Post{PosterID: authorID, Content: content}
	require.NoError(t, s.repo.Posts().Create(context.Background(), p))
	return p.ID
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, w).Error
}
