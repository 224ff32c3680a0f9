package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

// listColumns deliberately excludes the photo payload; listings, filters
// and search all advertise the same projection.
const listColumns = `id, name, slug, description, price, category_id, quantity, shipping, created_at, updated_at`

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresProductRepository) CreateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, slug, description, price, category_id, quantity, shipping, photo, photo_content_type)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	var photo interface{}
	var contentType interface{}
	if len(product.Photo) > 0 {
		photo = product.Photo
		contentType = product.PhotoContentType
	}

	err := r.db.QueryRow(query,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		nullableCategoryID(product.CategoryID),
		product.Quantity,
		product.Shipping,
		photo,
		contentType,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			r.log.Warnf("Attempted to create product with non-existent category ID: %d", product.CategoryID)
			return nil, fmt.Errorf("category with id %d does not exist", product.CategoryID)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Check constraint violation for product '%s': %s", product.Name, pqErr.Message)
			return nil, fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}

	r.log.Infof("Product created with ID: %d, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(id int) (*domain.Product, error) {
	query := `SELECT ` + listColumns + ` FROM products WHERE id = $1`
	product, err := r.scanProductRow(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found", id)
			return nil, fmt.Errorf("product with id %d not found", id)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) GetProductBySlug(slug string) (*domain.Product, error) {
	// Detail view carries the photo; slug lookup is an exact match.
	// Product names are not unique, so several products may share a
	// slug; the earliest one keeps it.
	query := `
        SELECT id, name, slug, description, price, category_id, quantity, shipping, created_at, updated_at,
               photo, photo_content_type
        FROM products
        WHERE slug = $1
        ORDER BY id ASC
        LIMIT 1`

	product := &domain.Product{}
	var categoryID sql.NullInt64
	var photo []byte
	var contentType sql.NullString

	err := r.db.QueryRow(query, slug).Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&categoryID,
		&product.Quantity,
		&product.Shipping,
		&product.CreatedAt,
		&product.UpdatedAt,
		&photo,
		&contentType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with slug '%s' not found", slug)
			return nil, fmt.Errorf("product with slug '%s' not found", slug)
		}
		r.log.Errorf("Failed to get product by slug '%s': %v", slug, err)
		return nil, fmt.Errorf("could not get product by slug: %w", err)
	}

	if categoryID.Valid {
		product.CategoryID = int(categoryID.Int64)
	}
	product.Photo = photo
	if contentType.Valid {
		product.PhotoContentType = contentType.String
	}
	return product, nil
}

func (r *postgresProductRepository) UpdateProduct(id int, updates map[string]interface{}) (*domain.Product, error) {
	if len(updates) == 0 {
		return r.GetProductByID(id)
	}

	setClauses := []string{}
	args := []interface{}{}
	argCounter := 1

	for key, value := range updates {
		switch key {
		case "name", "slug", "description", "price", "quantity", "shipping", "photo", "photo_content_type":
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", key, argCounter))
			args = append(args, value)
			argCounter++
		case "category_id":
			catID, ok := value.(int)
			if !ok {
				r.log.Errorf("Invalid type received for category_id for product ID %d: %T", id, value)
				return nil, fmt.Errorf("internal error: invalid type for category_id in repository")
			}
			setClauses = append(setClauses, fmt.Sprintf("category_id = $%d", argCounter))
			args = append(args, nullableCategoryID(catID))
			argCounter++
		default:
			r.log.Warnf("Skipping unknown field '%s' in product update for ID %d", key, id)
		}
	}

	if len(setClauses) == 0 {
		return r.GetProductByID(id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := "UPDATE products SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", argCounter)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			catID, _ := updates["category_id"].(int)
			r.log.Warnf("Attempted to update product ID %d with non-existent category ID: %d", id, catID)
			return nil, fmt.Errorf("category with id %d does not exist", catID)
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Check constraint violation for product update ID %d: %s", id, pqErr.Message)
			return nil, fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to update product ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after updating product ID %d: %v", id, err)
		return nil, fmt.Errorf("could not confirm product update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Product with ID %d not found for update", id)
		return nil, fmt.Errorf("product with id %d not found for update", id)
	}

	r.log.Infof("Product updated with ID: %d", id)
	return r.GetProductByID(id)
}

func (r *postgresProductRepository) DeleteProduct(id int) error {
	query := `DELETE FROM products WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		r.log.Errorf("Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting product ID %d: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent product ID %d", id)
		return fmt.Errorf("product with id %d not found for deletion", id)
	}
	r.log.Infof("Product deleted with ID: %d", id)
	return nil
}

func (r *postgresProductRepository) ListProducts(page int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * domain.PageSize

	query := `
        SELECT ` + listColumns + `
        FROM products
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, domain.PageSize, offset)
	if err != nil {
		r.log.Errorf("Failed to list products for page %d: %v", page, err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	return r.collectProducts(rows)
}

func (r *postgresProductRepository) CountProducts() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.log.Errorf("Failed to count products: %v", err)
		return 0, fmt.Errorf("could not count products: %w", err)
	}
	return count, nil
}

// FilterProducts conjoins a clause per present parameter onto an empty
// predicate and resolves the whole filter in one query, so the result set
// is exactly what any advertised count refers to.
func (r *postgresProductRepository) FilterProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + listColumns + ` FROM products`
	clauses := []string{}
	args := []interface{}{}
	argCounter := 1

	if len(filter.CategoryIDs) > 0 {
		clauses = append(clauses, fmt.Sprintf("category_id = ANY($%d)", argCounter))
		args = append(args, pq.Array(filter.CategoryIDs))
		argCounter++
	}
	if filter.PriceRange != nil {
		clauses = append(clauses, fmt.Sprintf("price BETWEEN $%d AND $%d", argCounter, argCounter+1))
		args = append(args, filter.PriceRange.Min, filter.PriceRange.Max)
		argCounter += 2
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.log.Errorf("Failed to filter products (categories: %v, range: %v): %v", filter.CategoryIDs, filter.PriceRange, err)
		return nil, fmt.Errorf("could not filter products: %w", err)
	}
	defer rows.Close()

	return r.collectProducts(rows)
}

func (r *postgresProductRepository) SearchProducts(term string) ([]domain.Product, error) {
	// LIKE metacharacters in the term match themselves, not wildcards.
	query := `
        SELECT ` + listColumns + `
        FROM products
        WHERE name ILIKE '%' || $1 || '%' ESCAPE '\'
           OR description ILIKE '%' || $1 || '%' ESCAPE '\'
        ORDER BY created_at DESC`
	rows, err := r.db.Query(query, escapeLikePattern(term))
	if err != nil {
		r.log.Errorf("Failed to search products for term '%s': %v", term, err)
		return nil, fmt.Errorf("could not search products: %w", err)
	}
	defer rows.Close()

	return r.collectProducts(rows)
}

func (r *postgresProductRepository) ListRelatedProducts(productID, categoryID, limit int) ([]domain.Product, error) {
	query := `
        SELECT ` + listColumns + `
        FROM products
        WHERE category_id = $1 AND id <> $2
        LIMIT $3`
	rows, err := r.db.Query(query, categoryID, productID, limit)
	if err != nil {
		r.log.Errorf("Failed to list related products for product %d in category %d: %v", productID, categoryID, err)
		return nil, fmt.Errorf("could not list related products: %w", err)
	}
	defer rows.Close()

	return r.collectProducts(rows)
}

func (r *postgresProductRepository) GetProductPhoto(id int) ([]byte, string, error) {
	query := `SELECT photo, photo_content_type FROM products WHERE id = $1`
	var photo []byte
	var contentType sql.NullString

	err := r.db.QueryRow(query, id).Scan(&photo, &contentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found for photo retrieval", id)
			return nil, "", fmt.Errorf("product with id %d not found", id)
		}
		r.log.Errorf("Failed to get photo for product ID %d: %v", id, err)
		return nil, "", fmt.Errorf("could not get product photo: %w", err)
	}

	if len(photo) == 0 {
		return nil, "", fmt.Errorf("product with id %d has no photo", id)
	}
	return photo, contentType.String, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresProductRepository) scanProductRow(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var categoryID sql.NullInt64

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&categoryID,
		&product.Quantity,
		&product.Shipping,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		product.CategoryID = int(categoryID.Int64)
	}
	return product, nil
}

func (r *postgresProductRepository) collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		product, err := r.scanProductRow(rows)
		if err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Error during products iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// escapeLikePattern neutralizes LIKE metacharacters so a search term is
// matched as a literal substring.
func escapeLikePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

func nullableCategoryID(categoryID int) sql.NullInt64 {
	if categoryID == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(categoryID), Valid: true}
}
