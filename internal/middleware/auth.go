package middleware

import (
	"context"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2/google"
)

// StaffChecker reports whether a uid carries a staff or admin role.
type StaffChecker interface {
	IsStaff(ctx context.Context, uid string) (bool, error)
}

type AuthMiddleware struct {
	authClient *auth.Client
}

// NewAuthMiddleware verifies Firebase ID tokens. The project id comes from
// projectID, falling back to the application default credentials when empty.
func NewAuthMiddleware(ctx context.Context, projectID string) (*AuthMiddleware, error) {
	if projectID == "" {
		if creds, err := google.FindDefaultCredentials(ctx); err == nil {
			projectID = creds.ProjectID
		}
	}
	if projectID == "" {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "FIREBASE_PROJECT_ID is not set and no default credentials found")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &AuthMiddleware{authClient: client}, nil
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := m.authClient.VerifyIDToken(c.Request().Context(), tokenStr)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		}
		c.Set("uid", token.UID)
		return next(c)
	}
}

// RequireStaff resolves the role once at view entry; non-staff callers get a
// terminal 403 and no further interaction.
func (m *AuthMiddleware) RequireStaff(check StaffChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get("uid").(string)
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			ok, err := check.IsStaff(c.Request().Context(), uid)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "role_check_failed"})
			}
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "staff_only"})
			}
			c.Set("staff", true)
			return next(c)
		}
	}
}

func (m *AuthMiddleware) Client() *auth.Client {
	return m.authClient
}
