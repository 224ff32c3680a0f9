package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/auth"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

type stubUserRepo struct {
	users map[int]domain.User
}

func (s *stubUserRepo) CreateUser(user *domain.User) (*domain.User, error) { return user, nil }
func (s *stubUserRepo) GetUserByEmail(email string) (*domain.User, error) {
	return nil, fmt.Errorf("user with email '%s' not found", email)
}
func (s *stubUserRepo) GetUserByID(id int) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d not found", id)
	}
	return &u, nil
}
func (s *stubUserRepo) UpdateUser(id int, updates map[string]interface{}) (*domain.User, error) {
	return nil, fmt.Errorf("user with id %d not found", id)
}
func (s *stubUserRepo) ListUsers() ([]domain.User, error) { return nil, nil }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRouter(t *testing.T, repo *stubUserRepo) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", Identify(tokens, quietLogger()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt(UserIDKey)})
	})
	router.GET("/admin", Identify(tokens, quietLogger()), RequireAdmin(repo, quietLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, tokens
}

func doRequest(router *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdentifyRejectsMissingHeader(t *testing.T) {
	router, _ := newTestRouter(t, &stubUserRepo{})

	w := doRequest(router, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentifyRejectsMalformedHeader(t *testing.T) {
	router, _ := newTestRouter(t, &stubUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "not-a-bearer-header")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentifyRejectsInvalidToken(t *testing.T) {
	router, _ := newTestRouter(t, &stubUserRepo{})

	w := doRequest(router, "/me", "garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIdentifyStoresUserID(t *testing.T) {
	router, tokens := newTestRouter(t, &stubUserRepo{})

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	w := doRequest(router, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
}

func TestRequireAdminDeniesBuyer(t *testing.T) {
	repo := &stubUserRepo{users: map[int]domain.User{
		7: {ID: 7, Role: domain.RoleBuyer},
	}}
	router, tokens := newTestRouter(t, repo)

	token, err := tokens.Issue(7)
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminDeniesUnknownUser(t *testing.T) {
	router, tokens := newTestRouter(t, &stubUserRepo{users: map[int]domain.User{}})

	token, err := tokens.Issue(99)
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	repo := &stubUserRepo{users: map[int]domain.User{
		1: {ID: 1, Role: domain.RoleAdmin},
	}}
	router, tokens := newTestRouter(t, repo)

	token, err := tokens.Issue(1)
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)
}
