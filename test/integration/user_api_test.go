package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Ivanildsdev/myrecipebook/internal/adapter/cache"
	"github.com/Ivanildsdev/myrecipebook/internal/adapter/db/postgres"
	"github.com/Ivanildsdev/myrecipebook/internal/adapter/gin/handler"
	"github.com/Ivanildsdev/myrecipebook/internal/adapter/gin/router"
	cachedrepo "github.com/Ivanildsdev/myrecipebook/internal/adapter/repository/cached"
	"github.com/Ivanildsdev/myrecipebook/internal/usecase/user"
	"github.com/Ivanildsdev/myrecipebook/pkg/security"
)

// UserAPITestSuite drives the whole stack over HTTP: gin router, use cases,
// the cached repository backed by miniredis and a gorm store on in-memory
// SQLite. Only the Postgres server itself is substituted.
type UserAPITestSuite struct {
	suite.Suite
	server *httptest.Server
	redis  *miniredis.Miniredis
	db     *gorm.DB
}

func (s *UserAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(s.T())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&postgres.UserSchema{}))
	s.db = db

	s.redis = miniredis.RunT(s.T())
	redisClient := redis.NewClient(&redis.Options{Addr: s.redis.Addr()})

	store := postgres.NewUserStore(db, log)
	userCache := cache.NewRedisUserCache(redisClient, 0, log)
	repo := cachedrepo.NewCachedUserRepository(store, userCache, log)
	uowFactory := postgres.NewUnitOfWorkFactory(db, log)

	hasher := security.NewSha512Hasher("integration-additional-key")
	codec := security.NewTokenCodec("integration-signing-key-32-bytes", 5)

	uc := user.New(repo, uowFactory, userCache, hasher, codec, log)
	h := handler.NewUserHandler(uc, log)

	s.server = httptest.NewServer(router.SetupRouter(h, codec, repo, log))
}

func (s *UserAPITestSuite) TearDownTest() {
	s.server.Close()
}

func (s *UserAPITestSuite) postJSON(path string, body map[string]any) *http.Response {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(payload))
	s.Require().NoError(err)
	return resp
}

func (s *UserAPITestSuite) doAuthed(method, path, token string, body map[string]any) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *UserAPITestSuite) decode(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	var out map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *UserAPITestSuite) register(name, email, password string) {
	resp := s.postJSON("/v1/user", map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func (s *UserAPITestSuite) login(email, password string) string {
	resp := s.postJSON("/v1/login", map[string]any{
		"email":    email,
		"password": password,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	body := s.decode(resp)
	token, _ := body["accessToken"].(string)
	s.Require().NotEmpty(token)
	return token
}

func (s *UserAPITestSuite) TestRegisterLoginAndProfile() {
	s.register("John Doe", "john@example.com", "password123")
	token := s.login("john@example.com", "password123")

	resp := s.doAuthed(http.MethodGet, "/v1/user", token, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	body := s.decode(resp)
	s.Equal("John Doe", body["name"])
	s.Equal("john@example.com", body["email"])
}

func (s *UserAPITestSuite) TestRegisterDuplicateEmail() {
	s.register("John Doe", "john@example.com", "password123")

	resp := s.postJSON("/v1/user", map[string]any{
		"name":     "Other John",
		"email":    "john@example.com",
		"password": "password456",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	body := s.decode(resp)
	s.Equal([]any{"The email is already registered"}, body["errors"])
}

func (s *UserAPITestSuite) TestLoginWrongPassword() {
	s.register("John Doe", "john@example.com", "password123")

	resp := s.postJSON("/v1/login", map[string]any{
		"email":    "john@example.com",
		"password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	body := s.decode(resp)
	s.Equal([]any{"Email or password invalid"}, body["errors"])
}

func (s *UserAPITestSuite) TestProfileWithoutToken() {
	resp := s.doAuthed(http.MethodGet, "/v1/user", "", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	body := s.decode(resp)
	s.Equal([]any{"No token was provided"}, body["errors"])
}

func (s *UserAPITestSuite) TestUpdateProfile() {
	s.register("John Doe", "john@example.com", "password123")
	token := s.login("john@example.com", "password123")

	resp := s.doAuthed(http.MethodPut, "/v1/user", token, map[string]any{
		"name":  "John Updated",
		"email": "updated@example.com",
	})
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// The old email no longer works; the profile reflects the new data.
	loginResp := s.postJSON("/v1/login", map[string]any{
		"email":    "john@example.com",
		"password": "password123",
	})
	s.Equal(http.StatusUnauthorized, loginResp.StatusCode)
	loginResp.Body.Close()

	profile := s.doAuthed(http.MethodGet, "/v1/user", s.login("updated@example.com", "password123"), nil)
	s.Equal(http.StatusOK, profile.StatusCode)
	body := s.decode(profile)
	s.Equal("John Updated", body["name"])
	s.Equal("updated@example.com", body["email"])
}

func (s *UserAPITestSuite) TestChangePassword() {
	s.register("John Doe", "john@example.com", "password123")
	token := s.login("john@example.com", "password123")

	resp := s.doAuthed(http.MethodPut, "/v1/user/change-password", token, map[string]any{
		"password":    "password123",
		"newPassword": "new-password-456",
	})
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Old password rejected, new one accepted.
	old := s.postJSON("/v1/login", map[string]any{
		"email":    "john@example.com",
		"password": "password123",
	})
	s.Equal(http.StatusUnauthorized, old.StatusCode)
	old.Body.Close()

	s.login("john@example.com", "new-password-456")
}

func (s *UserAPITestSuite) TestReRegisterAfterDeactivation() {
	s.register("John Doe", "john@example.com", "password123")

	// Deactivated accounts stop counting towards email uniqueness.
	s.Require().NoError(s.db.Model(&postgres.UserSchema{}).
		Where("email = ?", "john@example.com").
		Update("active", false).Error)

	s.register("John Again", "john@example.com", "password456")
}

func (s *UserAPITestSuite) TestHealthEndpoint() {
	resp, err := http.Get(s.server.URL + "/health")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestUserAPITestSuite(t *testing.T) {
	suite.Run(t, new(UserAPITestSuite))
}
