package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/pkg/cache"
)

// MaxPhotoSize caps uploaded product photos at 1MB.
const MaxPhotoSize = 1 << 20

// RelatedLimit is the fixed cap on related-product lookups.
const RelatedLimit = 3

// ProductInput carries the writable product fields plus an optional
// photo. Updates replace every field; the photo is only replaced when
// one is supplied.
type ProductInput struct {
	Name             string
	Description      string
	Price            float64
	CategoryID       int
	Quantity         int
	Shipping         bool
	Photo            []byte
	PhotoContentType string
}

type ProductUseCase interface {
	CreateProduct(in ProductInput) (*domain.Product, error)
	UpdateProduct(id int, in ProductInput) (*domain.Product, error)
	DeleteProduct(id int) error
	ListProducts(page int) ([]domain.Product, error)
	CountProducts() (int, error)
	FilterProducts(categoryIDs []int, priceRange []float64) ([]domain.Product, error)
	SearchProducts(term string) ([]domain.Product, error)
	GetProductBySlug(slug string) (*domain.Product, error)
	GetRelatedProducts(productID, categoryID int) ([]domain.Product, error)
	GetProductPhoto(id int) ([]byte, string, error)
}

type productUseCase struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	catalogCache *cache.CatalogCache
	log          *logrus.Logger
}

// NewProductUseCase wires the catalog engine. catalogCache may be nil;
// listing then always hits the repository.
func NewProductUseCase(pRepo domain.ProductRepository, cRepo domain.CategoryRepository, catalogCache *cache.CatalogCache, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		catalogCache: catalogCache,
		log:          logger,
	}
}

func (uc *productUseCase) validateInput(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return errors.New("product name cannot be empty")
	}
	if in.Price < 0 {
		return errors.New("product price cannot be negative")
	}
	if in.Quantity < 0 {
		return errors.New("product quantity cannot be negative")
	}
	if in.CategoryID <= 0 {
		return errors.New("product category is required")
	}
	if len(in.Photo) > MaxPhotoSize {
		return errors.New("product photo must be less than 1MB")
	}
	if len(in.Photo) > 0 && in.PhotoContentType == "" {
		return errors.New("product photo content type is required")
	}

	if _, err := uc.categoryRepo.GetCategoryByID(in.CategoryID); err != nil {
		uc.log.Warnf("Use Case: Category ID %d not found during product validation: %v", in.CategoryID, err)
		return fmt.Errorf("category with id %d does not exist", in.CategoryID)
	}
	return nil
}

func (uc *productUseCase) CreateProduct(in ProductInput) (*domain.Product, error) {
	if err := uc.validateInput(&in); err != nil {
		uc.log.Warnf("Use Case: Product creation rejected: %v", err)
		return nil, err
	}

	product := &domain.Product{
		Name:             in.Name,
		Slug:             slug.Make(in.Name),
		Description:      in.Description,
		Price:            in.Price,
		CategoryID:       in.CategoryID,
		Quantity:         in.Quantity,
		Shipping:         in.Shipping,
		Photo:            in.Photo,
		PhotoContentType: in.PhotoContentType,
	}

	created, err := uc.productRepo.CreateProduct(product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", in.Name, err)
		return nil, err
	}

	uc.invalidateCatalogCache()
	uc.log.Infof("Use Case: Product '%s' created with ID %d", created.Name, created.ID)
	return created, nil
}

func (uc *productUseCase) UpdateProduct(id int, in ProductInput) (*domain.Product, error) {
	if id <= 0 {
		return nil, errors.New("invalid product ID")
	}
	if err := uc.validateInput(&in); err != nil {
		uc.log.Warnf("Use Case: Product update rejected for ID %d: %v", id, err)
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        in.Name,
		"slug":        slug.Make(in.Name),
		"description": in.Description,
		"price":       in.Price,
		"category_id": in.CategoryID,
		"quantity":    in.Quantity,
		"shipping":    in.Shipping,
	}
	// Absence of a new photo keeps the stored one.
	if len(in.Photo) > 0 {
		updates["photo"] = in.Photo
		updates["photo_content_type"] = in.PhotoContentType
	}

	updated, err := uc.productRepo.UpdateProduct(id, updates)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update product ID %d: %v", id, err)
		return nil, err
	}

	uc.invalidateCatalogCache()
	uc.log.Infof("Use Case: Product updated with ID %d", updated.ID)
	return updated, nil
}

func (uc *productUseCase) DeleteProduct(id int) error {
	if id <= 0 {
		return errors.New("invalid product ID")
	}
	if err := uc.productRepo.DeleteProduct(id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %d: %v", id, err)
		return err
	}

	uc.invalidateCatalogCache()
	uc.log.Infof("Use Case: Product deleted with ID %d", id)
	return nil
}

func (uc *productUseCase) ListProducts(page int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}

	if products, ok := uc.catalogCache.GetPage(page); ok {
		uc.log.Debugf("Use Case: Catalog page %d served from cache", page)
		return products, nil
	}

	products, err := uc.productRepo.ListProducts(page)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products for page %d: %v", page, err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}

	uc.catalogCache.SetPage(page, products)
	return products, nil
}

func (uc *productUseCase) CountProducts() (int, error) {
	if count, ok := uc.catalogCache.GetCount(); ok {
		return count, nil
	}

	count, err := uc.productRepo.CountProducts()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to count products: %v", err)
		return 0, fmt.Errorf("could not count products: %w", err)
	}

	uc.catalogCache.SetCount(count)
	return count, nil
}

// FilterProducts validates the optional parameters and hands the
// composed filter to the repository as one query. Both filters absent is
// legal and yields the unfiltered set.
func (uc *productUseCase) FilterProducts(categoryIDs []int, priceRange []float64) ([]domain.Product, error) {
	for _, id := range categoryIDs {
		if id <= 0 {
			return nil, fmt.Errorf("invalid category ID in filter: %d", id)
		}
	}

	filter := domain.ProductFilter{CategoryIDs: categoryIDs}
	switch len(priceRange) {
	case 0:
		// No price bound.
	case 2:
		if priceRange[0] < 0 || priceRange[1] < priceRange[0] {
			return nil, fmt.Errorf("invalid price range [%v, %v]", priceRange[0], priceRange[1])
		}
		filter.PriceRange = &domain.PriceRange{Min: priceRange[0], Max: priceRange[1]}
	default:
		return nil, errors.New("price range must be empty or [min, max]")
	}

	products, err := uc.productRepo.FilterProducts(filter)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to filter products: %v", err)
		return nil, fmt.Errorf("could not filter products: %w", err)
	}

	uc.log.Infof("Use Case: Filter matched %d products (categories: %v, range: %v)", len(products), categoryIDs, priceRange)
	return products, nil
}

func (uc *productUseCase) SearchProducts(term string) ([]domain.Product, error) {
	if strings.TrimSpace(term) == "" {
		return nil, errors.New("search term cannot be empty")
	}

	products, err := uc.productRepo.SearchProducts(term)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to search products for '%s': %v", term, err)
		return nil, fmt.Errorf("could not search products: %w", err)
	}
	return products, nil
}

func (uc *productUseCase) GetProductBySlug(productSlug string) (*domain.Product, error) {
	if productSlug == "" {
		return nil, errors.New("product slug cannot be empty")
	}

	product, err := uc.productRepo.GetProductBySlug(productSlug)
	if err != nil {
		// Browsing to a deleted or renamed product is a normal outcome.
		uc.log.Warnf("Use Case: Product with slug '%s' not found: %v", productSlug, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) GetRelatedProducts(productID, categoryID int) ([]domain.Product, error) {
	if productID <= 0 {
		return nil, errors.New("invalid product ID")
	}
	if categoryID <= 0 {
		return nil, errors.New("invalid category ID")
	}

	products, err := uc.productRepo.ListRelatedProducts(productID, categoryID, RelatedLimit)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list related products for %d/%d: %v", productID, categoryID, err)
		return nil, fmt.Errorf("could not retrieve related products: %w", err)
	}
	return products, nil
}

func (uc *productUseCase) GetProductPhoto(id int) ([]byte, string, error) {
	if id <= 0 {
		return nil, "", errors.New("invalid product ID")
	}

	photo, contentType, err := uc.productRepo.GetProductPhoto(id)
	if err != nil {
		uc.log.Warnf("Use Case: Photo retrieval failed for product ID %d: %v", id, err)
		return nil, "", err
	}
	return photo, contentType, nil
}

func (uc *productUseCase) invalidateCatalogCache() {
	if err := uc.catalogCache.Invalidate(); err != nil {
		// Best-effort: stale pages expire on their own TTL.
		uc.log.Warnf("Use Case: Failed to invalidate catalog cache: %v", err)
	}
}
