package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/cloudkitchen/backend/internal/repository"
	"github.com/labstack/echo/v4"
)

type AuthMiddleware struct {
	authClient  *auth.Client
	profileRepo repository.ProfileRepository
}

func NewAuthMiddleware(ctx context.Context, projectID string, profileRepo repository.ProfileRepository) (*AuthMiddleware, error) {
	if projectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is not set")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthMiddleware{authClient: client, profileRepo: profileRepo}, nil
}

// RequireAuth verifies the Firebase ID token and stores the uid in the echo
// context. Websocket clients cannot set headers, so a token query parameter
// is accepted as a fallback.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := ""
		authz := c.Request().Header.Get("Authorization")
		if strings.HasPrefix(authz, "Bearer ") {
			tokenStr = strings.TrimPrefix(authz, "Bearer ")
		} else if q := c.QueryParam("token"); q != "" {
			tokenStr = q
		}
		if tokenStr == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		token, err := m.authClient.VerifyIDToken(c.Request().Context(), tokenStr)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
		c.Set("uid", token.UID)
		c.Set("email", emailClaim(token))
		c.Set("admin", m.isAdmin(c.Request().Context(), token.UID))
		return next(c)
	}
}

// RequireAdmin must be chained after RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin, _ := c.Get("admin").(bool)
		if !admin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return next(c)
	}
}

func (m *AuthMiddleware) isAdmin(ctx context.Context, uid string) bool {
	if m.profileRepo == nil {
		return false
	}
	p, err := m.profileRepo.FindByUID(ctx, uid)
	if err != nil {
		return false
	}
	return p.IsAdmin()
}

func emailClaim(token *auth.Token) string {
	if v, ok := token.Claims["email"].(string); ok {
		return v
	}
	return ""
}

func (m *AuthMiddleware) Client() *auth.Client {
	return m.authClient
}
