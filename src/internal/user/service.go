package user

import (
	"context"
	"errors"
	"fmt"
	"pomodoro-api-svc/src/internal/auth"
	"pomodoro-api-svc/src/internal/cache"
	"pomodoro-api-svc/src/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*Profile, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type userService struct {
	userRepository Repository
	tokens         *auth.TokenManager
	cacheService   cache.Service
	now            func() time.Time
}

func NewUserService(userRepository Repository, tokens *auth.TokenManager, cacheService cache.Service) Service {
	return &userService{
		userRepository: userRepository,
		tokens:         tokens,
		cacheService:   cacheService,
		now:            time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*Profile, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", models.ErrInvalidParams)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateRecord) {
			logrus.WithField("username", username).Warn("Registration rejected, user already exists")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")

	return user.ToProfile(), nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	login := strings.TrimSpace(req.Login)

	user, err := s.userRepository.GetByUsernameOrEmail(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// unknown users and wrong passwords look the same to the caller
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logrus.WithField("user_id", user.ID).Warn("Invalid password")
		return nil, models.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to issue token")
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("User logged in")

	return &LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToProfile(), nil
}

// Logout revokes the token id until the token would have expired anyway.
func (s *userService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return models.ErrUnauthenticated
	}

	ttl := s.tokens.RemainingLifetime(claims)
	err := s.cacheService.RevokeToken(ctx, claims.ID, ttl)
	switch {
	case errors.Is(err, models.ErrRevocationUnavailable):
		logrus.WithFields(logrus.Fields{
			"user_id":    claims.UserID,
			"expires_in": ttl,
		}).Warn("Token revocation unavailable, token stays valid until it expires")
	case err != nil:
		logrus.WithError(err).WithField("user_id", claims.UserID).Error("Failed to revoke token")
		return err
	}

	logrus.WithField("user_id", claims.UserID).Info("User logged out")
	return nil
}
