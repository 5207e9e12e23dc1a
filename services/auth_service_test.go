package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/sayidabyan/s-drive-server/models"
	"github.com/sayidabyan/s-drive-server/utils"

	"github.com/google/uuid"
)

func seedCredential(t *testing.T, users *fakeUserRepo, username string, password string) models.User {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{ID: uuid.New(), Username: username, Password: hashed}
	users.users[user.ID] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserRepo()
	throttle := newFakeThrottleRepo()
	user := seedCredential(t, users, "alice", "secret")
	throttle.failures["alice"] = 2

	svc := NewAuthService(users, throttle)
	out, err := svc.Login(context.Background(), LoginInput{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.TokenType != "bearer" {
		t.Fatalf("unexpected token type %q", out.TokenType)
	}
	claims, err := utils.ParseToken(out.Token)
	if err != nil {
		t.Fatalf("token must parse: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token subject mismatch")
	}
	if len(throttle.resets) != 1 || throttle.resets[0] != "alice" {
		t.Fatalf("expected failure counter reset on success, got %v", throttle.resets)
	}
}

func TestLoginWrongPasswordLooksLikeUnknownUser(t *testing.T) {
	users := newFakeUserRepo()
	seedCredential(t, users, "alice", "secret")

	svc := NewAuthService(users, newFakeThrottleRepo())

	wrongPass := asAppError(t, errOf(svc.Login(context.Background(), LoginInput{Username: "alice", Password: "nope"})))
	unknown := asAppError(t, errOf(svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "nope"})))

	if wrongPass.HTTPCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", wrongPass.HTTPCode)
	}
	if wrongPass.HTTPCode != unknown.HTTPCode || wrongPass.Message != unknown.Message {
		t.Fatalf("wrong password must be indistinguishable from unknown user: %v vs %v", wrongPass, unknown)
	}
}

func TestLoginThrottledAfterRepeatedFailures(t *testing.T) {
	users := newFakeUserRepo()
	throttle := newFakeThrottleRepo()
	seedCredential(t, users, "alice", "secret")

	svc := NewAuthService(users, throttle)
	var last *AppError
	for i := 0; i < 4; i++ {
		last = asAppError(t, errOf(svc.Login(context.Background(), LoginInput{Username: "alice", Password: "nope"})))
	}
	if last.HTTPCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after exceeding the limit, got %d", last.HTTPCode)
	}
}

func TestGetCurrentUserGone(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), newFakeThrottleRepo())
	_, err := svc.GetCurrentUser(context.Background(), uuid.New())
	appErr := asAppError(t, err)
	if appErr.HTTPCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for vanished user, got %d", appErr.HTTPCode)
	}
}
