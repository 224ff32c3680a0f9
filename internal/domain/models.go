package domain

import (
	"encoding/json"
	"time"
)

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CategoryID  int       `json:"category_id"`
	Quantity    int       `json:"quantity"`
	Shipping    bool      `json:"shipping"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Photo payload is excluded from listings and only loaded for
	// detail views and the photo endpoint.
	Photo            []byte `json:"-"`
	PhotoContentType string `json:"-"`
}

// CartEntry is one line of the client-held cart: a denormalized snapshot
// of a product at the moment it was added, not a live reference. The cart
// is a flat sequence, duplicates allowed.
type CartEntry struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

type PaymentResult struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transaction_id"`
	Raw           json.RawMessage `json:"raw,omitempty"`
}

type Order struct {
	ID        int            `json:"id"`
	Reference string         `json:"reference"`
	BuyerID   int            `json:"buyer_id"`
	BuyerName string         `json:"buyer_name,omitempty"`
	Products  []OrderProduct `json:"products"`
	Payment   PaymentResult  `json:"payment"`
	Status    OrderStatus    `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// OrderProduct is a display summary of an ordered product. Name and Price
// are zero-valued when the product no longer exists; the order itself
// always keeps the original product id.
type OrderProduct struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
}

const (
	RoleBuyer = 0
	RoleAdmin = 1
)

type User struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Phone              string    `json:"phone"`
	Address            string    `json:"address"`
	SecurityAnswerHash string    `json:"-"`
	Role               int       `json:"role"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UserProfile is the public projection of a User, without credential
// material.
type UserProfile struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Role    int    `json:"role"`
}
