package usecase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/clients"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

type OrderUseCase interface {
	Checkout(buyerID int, cart []domain.CartEntry, paymentNonce string) (*domain.Order, error)
	ClientToken() (string, error)
	SetStatus(orderID int, status domain.OrderStatus) (*domain.Order, error)
	ListOrdersForBuyer(buyerID int) ([]domain.Order, error)
	ListAllOrders() ([]domain.Order, error)
}

type orderUseCase struct {
	orderRepo     domain.OrderRepository
	paymentClient clients.PaymentClient
	log           *logrus.Logger
}

func NewOrderUseCase(repo domain.OrderRepository, payment clients.PaymentClient, logger *logrus.Logger) OrderUseCase {
	return &orderUseCase{
		orderRepo:     repo,
		paymentClient: payment,
		log:           logger,
	}
}

// Checkout authorizes the payment first and persists the order only on
// authorizer success. Any decline or transport failure leaves the ledger
// untouched; the client keeps its cart and may retry. Duplicate
// submissions are not deduplicated.
func (uc *orderUseCase) Checkout(buyerID int, cart []domain.CartEntry, paymentNonce string) (*domain.Order, error) {
	if buyerID <= 0 {
		return nil, errors.New("invalid buyer ID")
	}
	if len(cart) == 0 {
		return nil, errors.New("cart cannot be empty")
	}
	if paymentNonce == "" {
		return nil, errors.New("payment nonce cannot be empty")
	}
	for i, entry := range cart {
		if entry.ProductID <= 0 {
			return nil, fmt.Errorf("cart entry %d: invalid product ID", i)
		}
		if entry.Price < 0 {
			return nil, fmt.Errorf("cart entry %d (product %d): price cannot be negative", i, entry.ProductID)
		}
	}

	var total float64
	for _, entry := range cart {
		total += entry.Price
	}
	uc.log.Infof("Use Case: Checkout for buyer %d, %d cart entries, total %.2f", buyerID, len(cart), total)

	result, err := uc.paymentClient.Authorize(paymentNonce, total)
	if err != nil {
		uc.log.Errorf("Use Case: Payment authorization failed for buyer %d: %v", buyerID, err)
		return nil, fmt.Errorf("payment authorization failed: %w", err)
	}
	if !result.Success {
		uc.log.Warnf("Use Case: Payment declined for buyer %d (transaction %s)", buyerID, result.TransactionID)
		return nil, errors.New("payment declined by authorizer")
	}

	products := make([]domain.OrderProduct, 0, len(cart))
	for _, entry := range cart {
		products = append(products, domain.OrderProduct{
			ProductID: entry.ProductID,
			Name:      entry.Name,
			Price:     entry.Price,
		})
	}

	order := &domain.Order{
		Reference: uuid.NewString(),
		BuyerID:   buyerID,
		Products:  products,
		Payment:   *result,
		Status:    domain.StatusNotProcess,
	}

	created, err := uc.orderRepo.CreateOrder(order)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create order for buyer %d after successful payment %s: %v", buyerID, result.TransactionID, err)
		return nil, fmt.Errorf("failed to save order after payment: %w", err)
	}

	uc.log.Infof("Use Case: Order %d (ref %s) created for buyer %d", created.ID, created.Reference, created.BuyerID)
	return created, nil
}

func (uc *orderUseCase) ClientToken() (string, error) {
	token, err := uc.paymentClient.ClientToken()
	if err != nil {
		uc.log.Errorf("Use Case: Failed to obtain payment client token: %v", err)
		return "", fmt.Errorf("payment client token unavailable: %w", err)
	}
	return token, nil
}

// SetStatus overwrites the order status with any valid status value.
// There is no transition table: the admin may move an order backwards or
// cancel a delivered one.
func (uc *orderUseCase) SetStatus(orderID int, status domain.OrderStatus) (*domain.Order, error) {
	if orderID <= 0 {
		return nil, errors.New("invalid order ID")
	}
	if !domain.IsValidStatus(status) {
		uc.log.Warnf("Use Case: Rejected invalid order status '%s' for order %d", status, orderID)
		return nil, fmt.Errorf("invalid order status: %s", status)
	}

	updated, err := uc.orderRepo.UpdateOrderStatus(orderID, status)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update status for order ID %d: %v", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d status set to '%s'", updated.ID, updated.Status)
	return updated, nil
}

func (uc *orderUseCase) ListOrdersForBuyer(buyerID int) ([]domain.Order, error) {
	if buyerID <= 0 {
		return nil, errors.New("invalid buyer ID")
	}

	orders, err := uc.orderRepo.ListOrdersByBuyer(buyerID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders for buyer %d: %v", buyerID, err)
		return nil, fmt.Errorf("could not retrieve orders for buyer %d: %w", buyerID, err)
	}
	return orders, nil
}

func (uc *orderUseCase) ListAllOrders() ([]domain.Order, error) {
	orders, err := uc.orderRepo.ListAllOrders()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list all orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	return orders, nil
}
