package delivery

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/auth"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/middleware"
)

type stubOrderUseCase struct {
	statusUpdates int
}

func (s *stubOrderUseCase) Checkout(buyerID int, cart []domain.CartEntry, paymentNonce string) (*domain.Order, error) {
	return &domain.Order{ID: 1, BuyerID: buyerID, Status: domain.StatusNotProcess}, nil
}

func (s *stubOrderUseCase) ClientToken() (string, error) { return "client-token", nil }

func (s *stubOrderUseCase) SetStatus(orderID int, status domain.OrderStatus) (*domain.Order, error) {
	s.statusUpdates++
	return &domain.Order{ID: orderID, Status: status}, nil
}

func (s *stubOrderUseCase) ListOrdersForBuyer(buyerID int) ([]domain.Order, error) {
	return []domain.Order{}, nil
}

func (s *stubOrderUseCase) ListAllOrders() ([]domain.Order, error) {
	return []domain.Order{}, nil
}

func newGatedOrderRouter(t *testing.T, role int) (*gin.Engine, *stubOrderUseCase, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	token, err := tokens.Issue(7)
	require.NoError(t, err)

	uc := &stubOrderUseCase{}
	handler := NewOrderHandler(uc, logger)

	router := gin.New()
	identify := middleware.Identify(tokens, logger)
	admin := middleware.RequireAdmin(&roleUserRepo{role: role}, logger)
	handler.RegisterRoutes(router, identify, admin)

	return router, uc, token
}

func putOrderStatus(router *gin.Engine, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/orders/1/status", strings.NewReader(`{"status":"Shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderStatusUpdateRequiresCredential(t *testing.T) {
	router, uc, _ := newGatedOrderRouter(t, domain.RoleAdmin)

	w := putOrderStatus(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, uc.statusUpdates)
}

func TestOrderStatusUpdateDeniedForBuyer(t *testing.T) {
	router, uc, token := newGatedOrderRouter(t, domain.RoleBuyer)

	w := putOrderStatus(router, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	// The gate aborts before the handler, so the status never changed.
	assert.Zero(t, uc.statusUpdates)
}

func TestOrderStatusUpdateAllowedForAdmin(t *testing.T) {
	router, uc, token := newGatedOrderRouter(t, domain.RoleAdmin)

	w := putOrderStatus(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, uc.statusUpdates)
}

func TestAllOrdersListingDeniedForBuyer(t *testing.T) {
	router, _, token := newGatedOrderRouter(t, domain.RoleBuyer)

	req := httptest.NewRequest(http.MethodGet, "/orders/all", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOwnOrdersListingAllowedForBuyer(t *testing.T) {
	router, _, token := newGatedOrderRouter(t, domain.RoleBuyer)

	req := httptest.NewRequest(http.MethodGet, "/orders/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
