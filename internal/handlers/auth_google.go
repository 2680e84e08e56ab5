package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/internal/services/token"
	"github.com/talentlink-app/talentlink_be/internal/utils"
)

type GoogleOAuthHandler struct {
	Users           repository.UserRepository
	Tokens          *token.Service
	Auth            *AuthHandler
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// GoogleStart redirects to Google's consent screen, keeping the CSRF state
// and post-login destination in short-lived cookies.
func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	next := c.Query("next", "/")
	st := randomState(32)

	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    st,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   10 * 60,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_next",
		Value:    next,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   10 * 60,
	})

	authURL := h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline)
	return c.Redirect(authURL, http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleCallback exchanges the code, upserts the user by email and signs
// them in with the same token pair as a password login.
func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	oauthCode := c.Query("code")
	state := c.Query("state")
	if oauthCode == "" || state == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing code/state")
	}

	stCookie := c.Cookies("oauth_state")
	next := c.Cookies("oauth_next")
	if next == "" {
		next = "/"
	}
	if stCookie == "" || stCookie != state {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state")
	}

	tok, err := h.oauthCfg().Exchange(c.Context(), oauthCode)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Failed to exchange code")
	}

	client := h.oauthCfg().Client(c.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Failed to fetch userinfo")
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Failed to decode userinfo")
	}

	email := strings.ToLower(strings.TrimSpace(gu.Email))
	if email == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Email not found from Google")
	}

	u, err := h.Users.GetByEmail(c.Context(), email)
	if err != nil && err != repository.ErrNotFound {
		return c.Status(fiber.StatusInternalServerError).SendString("DB error")
	}

	if err == repository.ErrNotFound {
		// Password is required by the schema; generate one that is never
		// used for manual login.
		hashed, _ := utils.HashPassword(randomState(24))
		u = &models.User{
			ID:             uuid.New(),
			Username:       usernameFromEmail(email),
			Email:          email,
			Password:       hashed,
			FirstName:      strings.TrimSpace(gu.GivenName),
			LastName:       strings.TrimSpace(gu.FamilyName),
			IsActive:       true,
			EmailConfirmed: gu.VerifiedEmail,
		}
		if err := h.Users.Create(c.Context(), u); err != nil {
			log.Println("google: create user:", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Failed to create account")
		}
	} else if gu.VerifiedEmail && !u.EmailConfirmed {
		u.EmailConfirmed = true
		_ = h.Users.Update(c.Context(), u)
	}

	if !u.IsActive {
		dest := h.FrontendBaseURL + "/auth/login?err=" + url.QueryEscape("Account is not active")
		return c.Redirect(dest, http.StatusTemporaryRedirect)
	}

	pair, err := h.Tokens.IssueUserTokens(c.Context(), u)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to sign tokens")
	}
	h.Auth.setAuthCookies(c, pair)

	c.Cookie(&fiber.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})
	c.Cookie(&fiber.Cookie{Name: "oauth_next", Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})

	if !strings.HasPrefix(next, "/") {
		next = "/"
	}
	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}

func usernameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	// suffix keeps generated usernames clear of the unique index
	return local + "_" + randomState(4)
}
