package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/hostaluna/room-rental/internal/repository"
    "github.com/hostaluna/room-rental/internal/utils"
)

// AuthHandler implements back-office account management: registration,
// login and the current-user endpoint.  Tokens are short-lived HS256
// JWTs; there is no session storage.
type AuthHandler struct {
    Users        *repository.UserRepo
    JWTSecret    string
    AccessTTLMin int
    BcryptCost   int
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *repository.UserRepo, secret string, accessTTLMin, bcryptCost int) *AuthHandler {
    if users == nil {
        panic("nil repository passed to NewAuthHandler")
    }
    return &AuthHandler{Users: users, JWTSecret: secret, AccessTTLMin: accessTTLMin, BcryptCost: bcryptCost}
}

// Register handles POST /v1/auth/register.  Accounts default to the
// RECEPTION role; only an explicit ADMIN is privileged.
func (h *AuthHandler) Register(c echo.Context) error {
    var body struct {
        Name     string `json:"name"`
        Email    string `json:"email"`
        Password string `json:"password"`
        Role     string `json:"role"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Email = strings.ToLower(strings.TrimSpace(body.Email))
    if body.Name == "" || body.Email == "" || len(body.Password) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and a password of at least 8 characters are required"})
    }
    role := body.Role
    if role == "" {
        role = repository.RoleReception
    }
    if role != repository.RoleAdmin && role != repository.RoleReception {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
    }

    ctx := c.Request().Context()
    if _, err := h.Users.GetByEmail(ctx, body.Email); err == nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
    } else if err != repository.ErrUserNotFound {
        return fail(c, err)
    }

    hash, err := utils.HashPassword(body.Password, h.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
    }
    u := &repository.User{Name: body.Name, Email: body.Email, PasswordHash: hash, Role: role}
    if err := h.Users.Create(ctx, u); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":    u.ID,
        "name":  u.Name,
        "email": u.Email,
        "role":  u.Role,
    })
}

// Login handles POST /v1/auth/login and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
    var body struct {
        Email    string `json:"email"`
        Password string `json:"password"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Email = strings.ToLower(strings.TrimSpace(body.Email))

    u, err := h.Users.GetByEmail(c.Request().Context(), body.Email)
    if err == repository.ErrUserNotFound || (err == nil && !utils.VerifyPassword(u.PasswordHash, body.Password)) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }
    if err != nil {
        return fail(c, err)
    }

    tok, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.Role, h.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "access_token": tok.Token,
        "expires_at":   tok.Exp,
        "role":         u.Role,
    })
}

// Me handles GET /v1/me, returning the authenticated account.
func (h *AuthHandler) Me(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    u, err := h.Users.GetByID(c.Request().Context(), userID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":    u.ID,
        "name":  u.Name,
        "email": u.Email,
        "role":  u.Role,
    })
}

// getUserID extracts the authenticated user ID stored by the JWT
// middleware.  JWT numeric claims decode as float64.
func getUserID(c echo.Context) (uint64, error) {
    switch v := c.Get("user_id").(type) {
    case float64:
        return uint64(v), nil
    case uint64:
        return v, nil
    }
    return 0, echo.ErrUnauthorized
}
