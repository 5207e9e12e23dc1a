package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/sayidabyan/s-drive-server/config"
	"github.com/sayidabyan/s-drive-server/logger"
	"github.com/sayidabyan/s-drive-server/models"
	"github.com/sayidabyan/s-drive-server/repositories"
	"github.com/sayidabyan/s-drive-server/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (LoginOutput, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type authService struct {
	users    repositories.UserRepository
	throttle repositories.LoginThrottleRepository
}

func NewAuthService(users repositories.UserRepository, throttle repositories.LoginThrottleRepository) AuthService {
	return &authService{users: users, throttle: throttle}
}

func (s *authService) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	user, err := s.users.GetByUsername(ctx, nil, in.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginOutput{}, s.registerFailure(ctx, in.Username)
		}
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	if !utils.CheckPassword(in.Password, user.Password) {
		return LoginOutput{}, s.registerFailure(ctx, in.Username)
	}

	cfg := config.AppConfig.LoginThrottle
	if cfg.Enabled {
		if err := s.throttle.Reset(ctx, in.Username); err != nil {
			logger.Warnf("failed to reset login failures for %s: %v", in.Username, err)
		}
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to generate token", err)
	}

	return LoginOutput{Token: token, TokenType: "bearer"}, nil
}

// registerFailure records a failed attempt and decides whether the caller
// sees 401 or, once over the window limit, 429. Unknown usernames and wrong
// passwords take the same path so the response does not reveal which it was.
func (s *authService) registerFailure(ctx context.Context, username string) error {
	cfg := config.AppConfig.LoginThrottle
	if !cfg.Enabled {
		return newAppError(http.StatusUnauthorized, "incorrect username or password", nil)
	}

	count, err := s.throttle.RegisterFailure(ctx, username, cfg.WindowSeconds)
	if err != nil {
		logger.Warnf("failed to record login failure for %s: %v", username, err)
		return newAppError(http.StatusUnauthorized, "incorrect username or password", nil)
	}
	if count > int64(cfg.MaxAttempts) {
		return newAppError(http.StatusTooManyRequests, "too many failed login attempts", nil)
	}
	return newAppError(http.StatusUnauthorized, "incorrect username or password", nil)
}

func (s *authService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, newAppError(http.StatusUnauthorized, "could not validate credentials", nil)
		}
		return models.User{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}
	return user, nil
}
