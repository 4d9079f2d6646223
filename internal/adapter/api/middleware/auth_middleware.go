package middleware

import (
	"net/http"
	"strings"
	"sync"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"bazaarflow/internal/domain/entity"
	"bazaarflow/internal/domain/repository"
	"bazaarflow/pkg/logger"
)

type AuthMiddleware struct {
	authClient *auth.Client
	userRepo   repository.UserRepository

	// uids already synced to the profile store this process lifetime;
	// keeps the per-request upsert from hammering the store.
	synced sync.Map
}

func NewAuthMiddleware(authClient *auth.Client, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authClient: authClient,
		userRepo:   userRepo,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		token, err := m.authClient.VerifyIDToken(c.Request().Context(), parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		name, _ := token.Claims["name"].(string)
		email, _ := token.Claims["email"].(string)

		c.Set("uid", token.UID)
		c.Set("name", name)
		c.Set("email", email)

		m.syncProfile(c, token.UID, name, email)

		return next(c)
	}
}

// syncProfile refreshes the local profile snapshot the first time a uid
// is seen. Denormalized participant/bidder details are taken from these
// snapshots, so they need to exist before the user shows up in anyone
// else's conversation.
func (m *AuthMiddleware) syncProfile(c echo.Context, uid, name, email string) {
	if _, seen := m.synced.LoadOrStore(uid, true); seen {
		return
	}

	user := &entity.User{
		ID:    uid,
		Name:  name,
		Email: email,
	}
	if user.Name == "" {
		user.Name = "User"
	}

	if err := m.userRepo.Upsert(c.Request().Context(), user); err != nil {
		logger.Warn("Failed to sync profile for %s: %v", uid, err)
		m.synced.Delete(uid)
	}
}
