package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/middleware"
	"github.com/talentlink-app/talentlink_be/internal/utils"
)

const testSecret = "middleware-secret"

func signAccess(t *testing.T, roles []string, expertID string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := utils.AccessClaims{
		Email:     "u@example.com",
		Username:  "u",
		Roles:     roles,
		ExpertID:  expertID,
		TokenType: utils.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := utils.SignClaims(testSecret, claims)
	if err != nil {
		t.Fatalf("SignClaims: %v", err)
	}
	return s
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append([]fiber.Handler{}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/protected", chain...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, token, via string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	switch via {
	case "cookie":
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestAuthenticateAcceptsCookieAndBearer(t *testing.T) {
	app := newApp(middleware.Authenticate(testSecret))
	token := signAccess(t, []string{"User"}, "", time.Hour)

	for _, via := range []string{"cookie", "bearer"} {
		resp := doRequest(t, app, token, via)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", via, resp.StatusCode)
		}
	}
}

func TestAuthenticateRejections(t *testing.T) {
	app := newApp(middleware.Authenticate(testSecret))

	cases := map[string]string{
		"missing": "",
		"garbage": "not-a-token",
		"expired": signAccess(t, []string{"User"}, "", -time.Minute),
	}
	for name, token := range cases {
		via := "bearer"
		if token == "" {
			via = "none"
		}
		resp := doRequest(t, app, token, via)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, resp.StatusCode)
		}
	}
}

func TestAttachJWTLocals(t *testing.T) {
	expertID := uuid.New()
	app := fiber.New()
	app.Get("/protected",
		middleware.Authenticate(testSecret),
		middleware.AttachJWTLocals(),
		func(c *fiber.Ctx) error {
			if _, ok := c.Locals("userId").(uuid.UUID); !ok {
				return fiber.NewError(fiber.StatusInternalServerError, "userId missing")
			}
			got, ok := c.Locals("expertId").(uuid.UUID)
			if !ok || got != expertID {
				return fiber.NewError(fiber.StatusInternalServerError, "expertId missing")
			}
			return c.SendStatus(fiber.StatusOK)
		})

	token := signAccess(t, []string{"User", "Expert"}, expertID.String(), time.Hour)
	resp := doRequest(t, app, token, "bearer")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequireRoles(t *testing.T) {
	app := newApp(
		middleware.Authenticate(testSecret),
		middleware.AttachJWTLocals(),
		middleware.RequireRoles("Administrator"),
	)

	admin := signAccess(t, []string{"Administrator"}, "", time.Hour)
	if resp := doRequest(t, app, admin, "bearer"); resp.StatusCode != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", resp.StatusCode)
	}

	user := signAccess(t, []string{"User"}, "", time.Hour)
	if resp := doRequest(t, app, user, "bearer"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user status = %d, want 403", resp.StatusCode)
	}
}
