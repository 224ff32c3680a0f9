package domain

// PageSize is the fixed catalog page size. The client pairs List with
// Count to decide whether a further page exists.
const PageSize = 6

// PriceRange is an inclusive [Min, Max] bound on product price.
type PriceRange struct {
	Min float64
	Max float64
}

// ProductFilter combines the optional, independent catalog filters.
// An empty CategoryIDs set and a nil PriceRange mean "unfiltered".
type ProductFilter struct {
	CategoryIDs []int
	PriceRange  *PriceRange
}

type ProductRepository interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id int) (*Product, error)
	GetProductBySlug(slug string) (*Product, error)
	UpdateProduct(id int, updates map[string]interface{}) (*Product, error)
	DeleteProduct(id int) error

	// ListProducts returns one fixed-size page, newest created first,
	// photo payload excluded.
	ListProducts(page int) ([]Product, error)
	CountProducts() (int, error)

	// FilterProducts resolves the composed filter in a single query so
	// result counts stay authoritative.
	FilterProducts(filter ProductFilter) ([]Product, error)

	// SearchProducts matches term case-insensitively against name OR
	// description as a substring.
	SearchProducts(term string) ([]Product, error)

	ListRelatedProducts(productID, categoryID, limit int) ([]Product, error)
	GetProductPhoto(id int) ([]byte, string, error)
}
