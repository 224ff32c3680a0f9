package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

// CreateOrder persists the order row and one order_products row per cart
// entry inside a single transaction; a checkout either lands completely
// or not at all.
func (r *postgresOrderRepository) CreateOrder(order *domain.Order) (*domain.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin transaction for order creation: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	// Rollback after a successful commit is a no-op (ErrTxDone).
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.log.Errorf("Failed to rollback order creation transaction: %v (original error: %v)", rbErr, err)
			}
		}
	}()

	orderQuery := `
        INSERT INTO orders (reference, buyer_id, payment_success, payment_raw, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	var rawPayment interface{}
	if len(order.Payment.Raw) > 0 {
		rawPayment = []byte(order.Payment.Raw)
	}

	err = tx.QueryRow(orderQuery,
		order.Reference,
		order.BuyerID,
		order.Payment.Success,
		rawPayment,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.log.Errorf("Failed to insert order for buyer %d: %v", order.BuyerID, err)
		return nil, fmt.Errorf("could not create order entry: %w", err)
	}

	itemQuery := `
        INSERT INTO order_products (order_id, position, product_id)
        VALUES ($1, $2, $3)`
	stmt, err := tx.Prepare(itemQuery)
	if err != nil {
		r.log.Errorf("Failed to prepare order product statement: %v", err)
		return nil, fmt.Errorf("could not prepare order product statement: %w", err)
	}
	defer stmt.Close()

	// The cart snapshot is flat and duplicate-tolerant; position keeps the
	// client's ordering.
	for i, item := range order.Products {
		if _, err = stmt.Exec(order.ID, i, item.ProductID); err != nil {
			r.log.Errorf("Failed to insert order product (product_id: %d) for order %d: %v", item.ProductID, order.ID, err)
			return nil, fmt.Errorf("could not create order product (product_id: %d): %w", item.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit order creation for buyer %d: %v", order.BuyerID, err)
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	r.log.Infof("Order %d (ref %s) created with %d products for buyer %d", order.ID, order.Reference, len(order.Products), order.BuyerID)
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(id int) (*domain.Order, error) {
	query := `
        SELECT o.id, o.reference, COALESCE(o.buyer_id, 0), COALESCE(u.name, ''), o.payment_success, COALESCE(o.payment_raw, '{}'), o.status, o.created_at, o.updated_at
        FROM orders o
        LEFT JOIN users u ON u.id = o.buyer_id
        WHERE o.id = $1`

	order := &domain.Order{}
	var raw []byte
	err := r.db.QueryRow(query, id).Scan(
		&order.ID,
		&order.Reference,
		&order.BuyerID,
		&order.BuyerName,
		&order.Payment.Success,
		&raw,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %d not found", id)
			return nil, fmt.Errorf("order with id %d not found", id)
		}
		r.log.Errorf("Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}
	order.Payment.Raw = raw

	productsByOrder, err := r.getOrderProducts([]int{order.ID})
	if err != nil {
		return nil, err
	}
	order.Products = productsByOrder[order.ID]
	if order.Products == nil {
		order.Products = []domain.OrderProduct{}
	}
	return order, nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(id int, status domain.OrderStatus) (*domain.Order, error) {
	query := `
        UPDATE orders
        SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING id`

	var updatedID int
	err := r.db.QueryRow(query, status, id).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Order with ID %d not found for status update", id)
			return nil, fmt.Errorf("order with id %d not found for update", id)
		}
		r.log.Errorf("Failed to update status for order ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	r.log.Infof("Order %d status set to '%s'", id, status)
	return r.GetOrderByID(id)
}

func (r *postgresOrderRepository) ListOrdersByBuyer(buyerID int) ([]domain.Order, error) {
	return r.listOrders(`WHERE o.buyer_id = $1`, buyerID)
}

func (r *postgresOrderRepository) ListAllOrders() ([]domain.Order, error) {
	return r.listOrders(``)
}

func (r *postgresOrderRepository) listOrders(where string, args ...interface{}) ([]domain.Order, error) {
	// LEFT JOIN on users: a buyer deleted since the order was placed
	// renders with an empty name rather than failing the listing.
	query := `
        SELECT o.id, o.reference, COALESCE(o.buyer_id, 0), COALESCE(u.name, ''), o.payment_success, o.status, o.created_at, o.updated_at
        FROM orders o
        LEFT JOIN users u ON u.id = o.buyer_id
        ` + where + `
        ORDER BY o.created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	orderIDs := []int{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Reference,
			&order.BuyerID,
			&order.BuyerName,
			&order.Payment.Success,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			r.log.Errorf("Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during orders iteration: %v", err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	productsByOrder, err := r.getOrderProducts(orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if products, ok := productsByOrder[orders[i].ID]; ok {
			orders[i].Products = products
		} else {
			orders[i].Products = []domain.OrderProduct{}
		}
	}

	r.log.Infof("Retrieved %d orders", len(orders))
	return orders, nil
}

// getOrderProducts loads display summaries for a batch of orders in one
// query. Products deleted since purchase survive as bare product ids.
func (r *postgresOrderRepository) getOrderProducts(orderIDs []int) (map[int][]domain.OrderProduct, error) {
	query := `
        SELECT op.order_id, op.product_id, COALESCE(p.name, ''), COALESCE(p.price, 0)
        FROM order_products op
        LEFT JOIN products p ON p.id = op.product_id
        WHERE op.order_id = ANY($1::int[])
        ORDER BY op.order_id, op.position`

	rows, err := r.db.Query(query, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Failed to query products for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order products: %w", err)
	}
	defer rows.Close()

	productsByOrder := make(map[int][]domain.OrderProduct)
	for rows.Next() {
		var orderID int
		var product domain.OrderProduct
		if err := rows.Scan(&orderID, &product.ProductID, &product.Name, &product.Price); err != nil {
			r.log.Errorf("Failed to scan order product row: %v", err)
			return nil, fmt.Errorf("error scanning order product data: %w", err)
		}
		productsByOrder[orderID] = append(productsByOrder[orderID], product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during order products iteration: %v", err)
		return nil, fmt.Errorf("error iterating order products: %w", err)
	}
	return productsByOrder, nil
}
