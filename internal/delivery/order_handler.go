package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/middleware"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/usecase"
)

type OrderHandler struct {
	useCase usecase.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc usecase.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter, identify, admin gin.HandlerFunc) {
	router.GET("/checkout/token", identify, h.ClientToken)
	router.POST("/checkout", identify, h.Checkout)

	orders := router.Group("/orders")
	{
		orders.GET("/mine", identify, h.ListMyOrders)
		orders.GET("/all", identify, admin, h.ListAllOrders)
		orders.PUT("/:id/status", identify, admin, h.UpdateOrderStatus)
	}
}

func (h *OrderHandler) ClientToken(c *gin.Context) {
	token, err := h.useCase.ClientToken()
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to obtain payment client token: %v", err)
		ErrorResponse(c, statusCode, "Failed to obtain payment client token: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Client token retrieved successfully", gin.H{"client_token": token})
}

type checkoutRequest struct {
	Cart         []domain.CartEntry `json:"cart"`
	PaymentNonce string             `json:"payment_nonce"`
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	buyerID := c.GetInt(middleware.UserIDKey)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for checkout (buyer ID %d): %v", buyerID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.useCase.Checkout(buyerID, req.Cart, req.PaymentNonce)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Checkout failed for buyer ID %d: %v", buyerID, err)
		ErrorResponse(c, statusCode, "Checkout failed: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Order placed successfully", order)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	buyerID := c.GetInt(middleware.UserIDKey)

	orders, err := h.useCase.ListOrdersForBuyer(buyerID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to list orders for buyer ID %d: %v", buyerID, err)
		ErrorResponse(c, statusCode, "Failed to retrieve orders: "+err.Error())
		return
	}

	if len(orders) == 0 {
		SuccessResponse(c, http.StatusOK, "No orders found", []domain.Order{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	orders, err := h.useCase.ListAllOrders()
	if err != nil {
		h.log.Errorf("Failed to list all orders: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	if len(orders) == 0 {
		SuccessResponse(c, http.StatusOK, "No orders found", []domain.Order{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for status update of order ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.useCase.SetStatus(id, domain.OrderStatus(req.Status))
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to update status of order ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to update order status: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Order status updated successfully", updated)
}
