package domain

type OrderStatus string

const (
	StatusNotProcess OrderStatus = "Not Process"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// IsValidStatus checks membership in the status set. Transition ordering
// is deliberately not enforced: any status may be overwritten with any
// other valid status.
func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusNotProcess, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

type OrderRepository interface {
	CreateOrder(order *Order) (*Order, error)
	GetOrderByID(id int) (*Order, error)

	// UpdateOrderStatus overwrites the status unconditionally, whatever
	// the current value.
	UpdateOrderStatus(id int, status OrderStatus) (*Order, error)

	// Listings populate buyer name and product summaries and must
	// tolerate buyers or products deleted since the order was placed.
	ListOrdersByBuyer(buyerID int) ([]Order, error)
	ListAllOrders() ([]Order, error)
}
