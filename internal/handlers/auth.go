package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/middleware"
	"github.com/talentlink-app/talentlink_be/internal/models"
	"github.com/talentlink-app/talentlink_be/internal/repository"
	"github.com/talentlink-app/talentlink_be/internal/services/code"
	"github.com/talentlink-app/talentlink_be/internal/services/token"
	"github.com/talentlink-app/talentlink_be/internal/utils"
)

const refreshCookie = "tl_refresh"

type AuthHandler struct {
	Users           repository.UserRepository
	Tokens          *token.Service
	Codes           *code.Service
	AccessTokenMin  int
	RefreshTokenDay int
}

type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func validationFail(c *fiber.Ctx, errs FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

type RegisterReq struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"` // expert / recruiter
	CompanyName string `json:"company_name"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	role := strings.ToLower(strings.TrimSpace(req.Role))

	errors := FieldErrors{}
	if username == "" {
		errors.Add("username", "Username is required")
	}
	if email == "" {
		errors.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") {
		errors.Add("email", "Email format is invalid")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	} else if len(password) < 8 {
		errors.Add("password", "Password must be at least 8 characters")
	}
	if role != "expert" && role != "recruiter" {
		errors.Add("role", "Role must be expert or recruiter")
	}
	if role == "recruiter" && strings.TrimSpace(req.CompanyName) == "" {
		errors.Add("company_name", "Company name is required for recruiters")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	if taken, err := h.Users.EmailExists(c.Context(), email); err != nil {
		return serverError(c)
	} else if taken {
		errs := FieldErrors{}
		errs.Add("email", "Email is already registered")
		return validationFail(c, errs)
	}
	if taken, err := h.Users.UsernameExists(c.Context(), username); err != nil {
		return serverError(c)
	} else if taken {
		errs := FieldErrors{}
		errs.Add("username", "Username is already taken")
		return validationFail(c, errs)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return serverError(c)
	}

	u := models.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		IsActive:  true,
	}
	if err := h.Users.Create(c.Context(), &u); err != nil {
		log.Println("register: create user:", err)
		return serverError(c)
	}

	switch role {
	case "expert":
		err = h.Users.CreateExpert(c.Context(), &models.Expert{
			ID: uuid.New(), UserID: u.ID, Available: true,
		})
	case "recruiter":
		err = h.Users.CreateRecruiter(c.Context(), &models.Recruiter{
			ID: uuid.New(), UserID: u.ID, CompanyName: strings.TrimSpace(req.CompanyName),
		})
	}
	if err != nil {
		log.Println("register: create profile:", err)
		return serverError(c)
	}

	if _, err := h.Codes.Generate(c.Context(), u.ID, models.CodeTypeEmailConfirmation); err != nil {
		// the user can request a new code later
		log.Println("register: issue confirmation code:", err)
	}

	pair, err := h.Tokens.IssueUserTokens(c.Context(), &u)
	if err != nil {
		return serverError(c)
	}
	h.setAuthCookies(c, pair)

	return success(c, fiber.StatusCreated, "Registration successful", fiber.Map{
		"user":   u,
		"tokens": pair,
	})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if email == "" {
		errors.Add("email", "Email is required")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	u, err := h.Users.GetByEmail(c.Context(), email)
	if err != nil {
		if err == repository.ErrNotFound {
			return h.invalidCredentials(c)
		}
		return serverError(c)
	}
	if !u.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Account is not active",
		})
	}
	if !utils.CheckPassword(u.Password, password) {
		return h.invalidCredentials(c)
	}

	pair, err := h.Tokens.IssueUserTokens(c.Context(), u)
	if err != nil {
		return serverError(c)
	}
	h.setAuthCookies(c, pair)

	return success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":   u,
		"tokens": pair,
	})
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	admin, err := h.Users.AdminByEmail(c.Context(), email)
	if err != nil {
		if err == repository.ErrNotFound {
			return h.invalidCredentials(c)
		}
		return serverError(c)
	}
	if !utils.CheckPassword(admin.Password, strings.TrimSpace(req.Password)) {
		return h.invalidCredentials(c)
	}

	pair, err := h.Tokens.IssueAdminTokens(c.Context(), admin)
	if err != nil {
		return serverError(c)
	}
	h.setAuthCookies(c, pair)

	return success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"administrator": admin,
		"tokens":        pair,
	})
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshCookie)
	if refreshToken == "" {
		var req RefreshReq
		if err := c.BodyParser(&req); err == nil {
			refreshToken = strings.TrimSpace(req.RefreshToken)
		}
	}
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Refresh token is missing",
		})
	}

	res, err := h.Tokens.Refresh(c.Context(), refreshToken)
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}

	pair := res.Value()
	h.setAuthCookies(c, pair)
	return success(c, fiber.StatusOK, "Token refreshed", fiber.Map{"tokens": pair})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	for _, name := range []string{middleware.TokenCookie, refreshCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}
	return success(c, fiber.StatusOK, "Logout successful", nil)
}

type ConfirmEmailReq struct {
	Code string `json:"code"`
}

func (h *AuthHandler) ConfirmEmail(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}

	var req ConfirmEmailReq
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		return badRequest(c, "Code is required")
	}

	res, err := h.Codes.ValidateAndConsume(c.Context(), userID,
		models.CodeTypeEmailConfirmation, strings.TrimSpace(req.Code))
	if err != nil {
		return serverError(c)
	}
	if !res.IsSuccess() {
		return failResult(c, res.Err())
	}

	u, err := h.Users.GetByID(c.Context(), userID)
	if err != nil {
		return serverError(c)
	}
	if !u.EmailConfirmed {
		u.EmailConfirmed = true
		if err := h.Users.Update(c.Context(), u); err != nil {
			return serverError(c)
		}
	}

	return success(c, fiber.StatusOK, "Email confirmed", nil)
}

// ResendConfirmation issues a fresh confirmation code, revoking the old one.
func (h *AuthHandler) ResendConfirmation(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}

	u, err := h.Users.GetByID(c.Context(), userID)
	if err != nil {
		return serverError(c)
	}
	if u.EmailConfirmed {
		return success(c, fiber.StatusOK, "Email is already confirmed", nil)
	}

	if _, err := h.Codes.Generate(c.Context(), userID, models.CodeTypeEmailConfirmation); err != nil {
		return serverError(c)
	}
	return success(c, fiber.StatusOK, "Confirmation code sent", nil)
}

// Me returns the authenticated user with both role profiles loaded.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := getUserUUID(c)
	if err != nil {
		return err
	}

	u, err := h.Users.GetByID(c.Context(), userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		return serverError(c)
	}
	return success(c, fiber.StatusOK, "OK", u)
}

func (h *AuthHandler) invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Email or password is incorrect",
	})
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, pair token.Pair) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   h.AccessTokenMin * 60,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   h.RefreshTokenDay * 24 * 60 * 60,
	})
}
