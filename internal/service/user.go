package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialnet/backend/internal/models"
	"socialnet/backend/internal/repository"
	"socialnet/backend/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	Confirmation string
}

// UserService registers and authenticates users and issues their tokens.
type UserService struct {
	users    repository.UserRepo
	secret   []byte
	tokenTTL time.Duration
	hashCost int
}

func NewUserService(users repository.UserRepo, secret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:    users,
		secret:   secret,
		tokenTTL: tokenTTL,
		hashCost: bcrypt.DefaultCost,
	}
}

// Register creates the user and returns a token for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, *models.User, error) {
	username := strings.TrimSpace(in.Username)
	if in.Password != in.Confirmation {
		return "", nil, ErrPasswordMismatch
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if existing != nil {
		return "", nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, ErrUsernameTaken
		}
		return "", nil, err
	}

	token, err := jwt.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login checks the credentials and returns a fresh token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
