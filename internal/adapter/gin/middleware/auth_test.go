package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Ivanildsdev/myrecipebook/internal/auth"
	domain "github.com/Ivanildsdev/myrecipebook/internal/domain/user"
	"github.com/Ivanildsdev/myrecipebook/pkg/security"
)

// MockReadRepository is a mock implementation of user.ReadRepository
type MockReadRepository struct {
	mock.Mock
}

func (m *MockReadRepository) ExistsActiveWithEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockReadRepository) FindActiveByIdentifier(ctx context.Context, identifier uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockReadRepository) FindByEmailAndPasswordHash(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	args := m.Called(ctx, email, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockReadRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

const testSigningKey = "tttttttttttttttttttttttttttttttt"

func setupGate(t *testing.T, repo *MockReadRepository) (*gin.Engine, *security.TokenCodec) {
	gin.SetMode(gin.TestMode)
	codec := security.NewTokenCodec(testSigningKey, 5)
	log := zaptest.NewLogger(t)

	r := gin.New()
	r.GET("/protected", AuthenticatedUser(codec, repo, log), func(c *gin.Context) {
		logged, ok := auth.FromContext(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"name": logged.Name})
	})
	return r, codec
}

func doRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeUnauthorized(t *testing.T, w *httptest.ResponseRecorder) unauthorizedResponse {
	t.Helper()
	var body unauthorizedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthenticatedUser_Success(t *testing.T) {
	repo := new(MockReadRepository)
	r, codec := setupGate(t, repo)

	identifier := uuid.New()
	token, err := codec.Issue(identifier)
	require.NoError(t, err)

	repo.On("FindActiveByIdentifier", mock.Anything, identifier).Return(&domain.User{
		ID:             1,
		UserIdentifier: identifier,
		Name:           "John Doe",
		Active:         true,
	}, nil)

	w := doRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "John Doe")
	repo.AssertExpectations(t)
}

func TestAuthenticatedUser_NoToken(t *testing.T) {
	repo := new(MockReadRepository)
	r, _ := setupGate(t, repo)

	for _, header := range []string{"", "Basic abc"} {
		w := doRequest(r, header)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeUnauthorized(t, w)
		assert.False(t, body.TokenIsExpired)
		require.Len(t, body.Errors, 1)
	}
	repo.AssertNotCalled(t, "FindActiveByIdentifier", mock.Anything, mock.Anything)
}

func TestAuthenticatedUser_ExpiredToken(t *testing.T) {
	repo := new(MockReadRepository)
	r, _ := setupGate(t, repo)

	// A codec with a zero lifetime issues tokens that are already expired.
	expiredCodec := security.NewTokenCodec(testSigningKey, 0)
	token, err := expiredCodec.Issue(uuid.New())
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeUnauthorized(t, w)
	assert.True(t, body.TokenIsExpired)
}

func TestAuthenticatedUser_InvalidToken(t *testing.T) {
	repo := new(MockReadRepository)
	r, _ := setupGate(t, repo)

	w := doRequest(r, "Bearer not.a.jwt")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeUnauthorized(t, w)
	assert.False(t, body.TokenIsExpired)
}

func TestAuthenticatedUser_UserNoLongerActive(t *testing.T) {
	repo := new(MockReadRepository)
	r, codec := setupGate(t, repo)

	identifier := uuid.New()
	token, err := codec.Issue(identifier)
	require.NoError(t, err)

	repo.On("FindActiveByIdentifier", mock.Anything, identifier).Return(nil, nil)

	w := doRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeUnauthorized(t, w)
	assert.False(t, body.TokenIsExpired)
}

func TestAuthenticatedUser_StoreErrorFailsClosed(t *testing.T) {
	repo := new(MockReadRepository)
	r, codec := setupGate(t, repo)

	identifier := uuid.New()
	token, err := codec.Issue(identifier)
	require.NoError(t, err)

	repo.On("FindActiveByIdentifier", mock.Anything, identifier).Return(nil, assert.AnError)

	w := doRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// The raw store error never reaches the client.
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
