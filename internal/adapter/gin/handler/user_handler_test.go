package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Ivanildsdev/myrecipebook/internal/usecase/user"
	apperrors "github.com/Ivanildsdev/myrecipebook/pkg/errors"
)

// MockUsecase is a mock implementation of user.Usecase
type MockUsecase struct {
	mock.Mock
}

func (m *MockUsecase) Register(ctx context.Context, in user.RegisterRequest) (*user.RegisterResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.RegisterResponse), args.Error(1)
}

func (m *MockUsecase) Login(ctx context.Context, in user.LoginRequest) (*user.LoginResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.LoginResponse), args.Error(1)
}

func (m *MockUsecase) Profile(ctx context.Context) (*user.ProfileResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.ProfileResponse), args.Error(1)
}

func (m *MockUsecase) Update(ctx context.Context, in user.UpdateRequest) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockUsecase) ChangePassword(ctx context.Context, in user.ChangePasswordRequest) error {
	return m.Called(ctx, in).Error(0)
}

func setupHandler(t *testing.T) (*gin.Engine, *MockUsecase) {
	gin.SetMode(gin.TestMode)

	uc := new(MockUsecase)
	h := NewUserHandler(uc, zaptest.NewLogger(t))

	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/user", h.Register)
	r.GET("/user", h.Profile)
	r.PUT("/user", h.Update)
	r.PUT("/user/change-password", h.ChangePassword)
	return r, uc
}

func doJSON(r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegister_Created(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Register", mock.Anything, user.RegisterRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "password123",
	}).Return(&user.RegisterResponse{Name: "John Doe"}, nil)

	w := doJSON(r, http.MethodPost, "/user", RegisterRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "password123",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp RegisteredUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "John Doe", resp.Name)
	uc.AssertExpectations(t)
}

func TestRegister_NameIsNormalized(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Register", mock.Anything, mock.MatchedBy(func(in user.RegisterRequest) bool {
		return in.Name == "John Doe"
	})).Return(&user.RegisterResponse{Name: "John Doe"}, nil)

	w := doJSON(r, http.MethodPost, "/user", RegisterRequest{
		Name:     "  John   Doe  ",
		Email:    "john@example.com",
		Password: "password123",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	uc.AssertExpectations(t)
}

func TestRegister_ValidationErrorsLocalized(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError(
			apperrors.CodeNameEmpty,
			apperrors.CodeEmailAlreadyRegistered,
		))

	t.Run("default locale", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/user", RegisterRequest{Email: "taken@example.com"}, nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeErrors(t, w)
		assert.Equal(t, []string{
			"The name cannot be empty",
			"The email is already registered",
		}, resp.Errors)
		assert.False(t, resp.TokenIsExpired)
	})

	t.Run("pt-BR via Accept-Language", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/user", RegisterRequest{Email: "taken@example.com"},
			map[string]string{"Accept-Language": "pt-BR,pt;q=0.9"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeErrors(t, w)
		assert.Equal(t, []string{
			"O nome não pode estar vazio",
			"O email já está registrado",
		}, resp.Errors)
	})
}

func TestRegister_MalformedBody(t *testing.T) {
	r, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeErrors(t, w)
	assert.Equal(t, []string{"invalid request body"}, resp.Errors)
}

func TestRegister_UnclassifiedErrorIsOpaque(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Register", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := doJSON(r, http.MethodPost, "/user", RegisterRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "password123",
	}, nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeErrors(t, w)
	assert.Equal(t, []string{"An unknown error occurred"}, resp.Errors)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestLogin_OK(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Login", mock.Anything, user.LoginRequest{
		Email:    "john@example.com",
		Password: "password123",
	}).Return(&user.LoginResponse{Name: "John Doe", AccessToken: "signed-token"}, nil)

	w := doJSON(r, http.MethodPost, "/login", LoginRequest{
		Email:    "john@example.com",
		Password: "password123",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp LoggedUserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "John Doe", resp.Name)
	assert.Equal(t, "signed-token", resp.AccessToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Login", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidCredentials)

	w := doJSON(r, http.MethodPost, "/login", LoginRequest{
		Email:    "john@example.com",
		Password: "wrong",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeErrors(t, w)
	assert.Equal(t, []string{"Email or password invalid"}, resp.Errors)
	assert.False(t, resp.TokenIsExpired)
}

func TestProfile_OK(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Profile", mock.Anything).
		Return(&user.ProfileResponse{Name: "John Doe", Email: "john@example.com"}, nil)

	w := doJSON(r, http.MethodGet, "/user", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "John Doe", resp.Name)
	assert.Equal(t, "john@example.com", resp.Email)
}

func TestProfile_AccessDenied(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Profile", mock.Anything).Return(nil, apperrors.ErrAccessDenied)

	w := doJSON(r, http.MethodGet, "/user", nil, nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeErrors(t, w)
	assert.Equal(t, []string{"User has no permission to access this resource"}, resp.Errors)
	assert.False(t, resp.TokenIsExpired)
}

func TestUpdate_NoContent(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Update", mock.Anything, user.UpdateRequest{
		Name:  "John Updated",
		Email: "new@example.com",
	}).Return(nil)

	w := doJSON(r, http.MethodPut, "/user", UpdateRequest{
		Name:  "John  Updated ",
		Email: "new@example.com",
	}, nil)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	uc.AssertExpectations(t)
}

func TestChangePassword_NoContent(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("ChangePassword", mock.Anything, user.ChangePasswordRequest{
		CurrentPassword: "current-password",
		NewPassword:     "new-password",
	}).Return(nil)

	w := doJSON(r, http.MethodPut, "/user/change-password", ChangePasswordRequest{
		Password:    "current-password",
		NewPassword: "new-password",
	}, nil)

	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestChangePassword_Mismatch(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("ChangePassword", mock.Anything, mock.Anything).
		Return(apperrors.NewValidationError(apperrors.CodePasswordMismatch))

	w := doJSON(r, http.MethodPut, "/user/change-password", ChangePasswordRequest{
		Password:    "wrong",
		NewPassword: "new-password",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeErrors(t, w)
	assert.Equal(t, []string{"The password is different from the current password"}, resp.Errors)
}

func TestExpiredTokenFlag(t *testing.T) {
	r, uc := setupHandler(t)

	uc.On("Profile", mock.Anything).Return(nil, apperrors.ErrTokenExpired)

	w := doJSON(r, http.MethodGet, "/user", nil, nil)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeErrors(t, w)
	assert.Equal(t, []string{"Token is expired"}, resp.Errors)
	assert.True(t, resp.TokenIsExpired)
}
