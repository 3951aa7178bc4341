package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ivanildsdev/myrecipebook/internal/usecase/user"
	apperrors "github.com/Ivanildsdev/myrecipebook/pkg/errors"
	"github.com/Ivanildsdev/myrecipebook/pkg/i18n"
)

// UserHandler handles the HTTP surface of the account operations. Structural
// and business validation live in the use cases; the handler only binds,
// normalizes and translates failures into responses.
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// RegisterRequest is the HTTP request body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the HTTP request body for authenticating.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateRequest is the HTTP request body for changing name and email.
type UpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChangePasswordRequest is the HTTP request body for replacing the password.
type ChangePasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

// RegisteredUserResponse is returned on registration.
type RegisteredUserResponse struct {
	Name string `json:"name"`
}

// LoggedUserResponse is returned on login.
type LoggedUserResponse struct {
	Name        string `json:"name"`
	AccessToken string `json:"accessToken"`
}

// ProfileResponse is returned on profile retrieval.
type ProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrorResponse carries the ordered list of failure messages so a client can
// render every problem at once.
type ErrorResponse struct {
	Errors         []string `json:"errors"`
	TokenIsExpired bool     `json:"tokenIsExpired,omitempty"`
}

// Register handles POST /v1/user
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequestBody(c, err)
		return
	}

	resp, err := h.uc.Register(c.Request.Context(), user.RegisterRequest{
		Name:     normalizeName(req.Name),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, RegisteredUserResponse{Name: resp.Name})
}

// Login handles POST /v1/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequestBody(c, err)
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), user.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoggedUserResponse{Name: resp.Name, AccessToken: resp.AccessToken})
}

// Profile handles GET /v1/user
func (h *UserHandler) Profile(c *gin.Context) {
	resp, err := h.uc.Profile(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Name: resp.Name, Email: resp.Email})
}

// Update handles PUT /v1/user
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequestBody(c, err)
		return
	}

	err := h.uc.Update(c.Request.Context(), user.UpdateRequest{
		Name:  normalizeName(req.Name),
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ChangePassword handles PUT /v1/user/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequestBody(c, err)
		return
	}

	err := h.uc.ChangePassword(c.Request.Context(), user.ChangePasswordRequest{
		CurrentPassword: req.Password,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// normalizeName trims the name and collapses internal whitespace runs.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func (h *UserHandler) badRequestBody(c *gin.Context, err error) {
	h.log.Warn("malformed request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{Errors: []string{"invalid request body"}})
}

// handleError translates a use-case failure into a response, resolving the
// locale from the Accept-Language header. Unclassified errors become a
// generic 500, nothing internal leaks.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	locale := i18n.MatchLocale(c.GetHeader("Accept-Language"))

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Errors: i18n.Messages(locale, validationErr.Codes),
		})
		return
	}

	var credentialsErr *apperrors.InvalidCredentialsError
	if errors.As(err, &credentialsErr) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Errors: []string{i18n.Message(locale, credentialsErr.ErrorCode())},
		})
		return
	}

	var authErr *apperrors.AuthorizationError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Errors:         []string{i18n.Message(locale, authErr.Code)},
			TokenIsExpired: authErr.Expired(),
		})
		return
	}

	h.log.Error("unclassified error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Errors: []string{i18n.Message(locale, apperrors.CodeUnknown)},
	})
}
