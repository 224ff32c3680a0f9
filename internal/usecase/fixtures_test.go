package usecase

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeCategoryRepo is an in-memory CategoryRepository backing the
// usecase tests. Name matching is case-insensitive, like the real one.
type fakeCategoryRepo struct {
	categories map[int]domain.Category
	nextID     int
	failWith   error
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[int]domain.Category{}, nextID: 1}
}

func (f *fakeCategoryRepo) seed(name, slug string) domain.Category {
	c := domain.Category{ID: f.nextID, Name: name, Slug: slug}
	f.categories[c.ID] = c
	f.nextID++
	return c
}

func (f *fakeCategoryRepo) CreateCategory(category *domain.Category) (*domain.Category, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	c := *category
	c.ID = f.nextID
	f.categories[c.ID] = c
	f.nextID++
	return &c, nil
}

func (f *fakeCategoryRepo) GetCategoryByID(id int) (*domain.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, fmt.Errorf("category with id %d not found", id)
	}
	return &c, nil
}

func (f *fakeCategoryRepo) GetCategoryBySlug(slug string) (*domain.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			out := c
			return &out, nil
		}
	}
	return nil, fmt.Errorf("category with slug '%s' not found", slug)
}

func (f *fakeCategoryRepo) FindCategoryByName(name string) (*domain.Category, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) UpdateCategory(category *domain.Category) (*domain.Category, error) {
	if _, ok := f.categories[category.ID]; !ok {
		return nil, fmt.Errorf("category with id %d not found", category.ID)
	}
	f.categories[category.ID] = *category
	out := *category
	return &out, nil
}

func (f *fakeCategoryRepo) DeleteCategory(id int) error {
	if _, ok := f.categories[id]; !ok {
		return fmt.Errorf("category with id %d not found", id)
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryRepo) ListCategories() ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeProductRepo keeps products in insertion order; later inserts are
// newer, so listings page over the reversed slice.
type fakeProductRepo struct {
	products []domain.Product
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{nextID: 1}
}

func (f *fakeProductRepo) seed(name string, categoryID int, price float64) domain.Product {
	p := domain.Product{
		ID:         f.nextID,
		Name:       name,
		Slug:       strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Price:      price,
		CategoryID: categoryID,
		CreatedAt:  time.Now().Add(time.Duration(f.nextID) * time.Second),
	}
	f.products = append(f.products, p)
	f.nextID++
	return p
}

func (f *fakeProductRepo) CreateProduct(product *domain.Product) (*domain.Product, error) {
	p := *product
	p.ID = f.nextID
	p.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Second)
	f.products = append(f.products, p)
	f.nextID++
	out := p
	return &out, nil
}

func (f *fakeProductRepo) find(id int) (int, bool) {
	for i, p := range f.products {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (f *fakeProductRepo) GetProductByID(id int) (*domain.Product, error) {
	i, ok := f.find(id)
	if !ok {
		return nil, fmt.Errorf("product with id %d not found", id)
	}
	out := f.products[i]
	return &out, nil
}

func (f *fakeProductRepo) GetProductBySlug(slug string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("product with slug '%s' not found", slug)
}

func (f *fakeProductRepo) UpdateProduct(id int, updates map[string]interface{}) (*domain.Product, error) {
	i, ok := f.find(id)
	if !ok {
		return nil, fmt.Errorf("product with id %d not found", id)
	}
	p := f.products[i]
	for key, value := range updates {
		switch key {
		case "name":
			p.Name = value.(string)
		case "slug":
			p.Slug = value.(string)
		case "description":
			p.Description = value.(string)
		case "price":
			p.Price = value.(float64)
		case "category_id":
			p.CategoryID = value.(int)
		case "quantity":
			p.Quantity = value.(int)
		case "shipping":
			p.Shipping = value.(bool)
		case "photo":
			p.Photo = value.([]byte)
		case "photo_content_type":
			p.PhotoContentType = value.(string)
		}
	}
	f.products[i] = p
	out := p
	return &out, nil
}

func (f *fakeProductRepo) DeleteProduct(id int) error {
	i, ok := f.find(id)
	if !ok {
		return fmt.Errorf("product with id %d not found", id)
	}
	f.products = append(f.products[:i], f.products[i+1:]...)
	return nil
}

func (f *fakeProductRepo) newestFirst() []domain.Product {
	out := make([]domain.Product, len(f.products))
	copy(out, f.products)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeProductRepo) ListProducts(page int) ([]domain.Product, error) {
	all := f.newestFirst()
	start := (page - 1) * domain.PageSize
	if start >= len(all) {
		return []domain.Product{}, nil
	}
	end := start + domain.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeProductRepo) CountProducts() (int, error) {
	return len(f.products), nil
}

func (f *fakeProductRepo) FilterProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, p := range f.newestFirst() {
		if len(filter.CategoryIDs) > 0 {
			match := false
			for _, id := range filter.CategoryIDs {
				if p.CategoryID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.PriceRange != nil && (p.Price < filter.PriceRange.Min || p.Price > filter.PriceRange.Max) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) SearchProducts(term string) ([]domain.Product, error) {
	term = strings.ToLower(term)
	out := []domain.Product{}
	for _, p := range f.newestFirst() {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListRelatedProducts(productID, categoryID, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, p := range f.newestFirst() {
		if p.ID == productID || p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetProductPhoto(id int) ([]byte, string, error) {
	i, ok := f.find(id)
	if !ok {
		return nil, "", fmt.Errorf("product with id %d not found", id)
	}
	p := f.products[i]
	if len(p.Photo) == 0 {
		return nil, "", fmt.Errorf("product with id %d has no photo", id)
	}
	return p.Photo, p.PhotoContentType, nil
}

type fakeOrderRepo struct {
	orders    map[int]domain.Order
	nextID    int
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int]domain.Order{}, nextID: 1}
}

func (f *fakeOrderRepo) CreateOrder(order *domain.Order) (*domain.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	o := *order
	o.ID = f.nextID
	o.CreatedAt = time.Now()
	f.orders[o.ID] = o
	f.nextID++
	out := o
	return &out, nil
}

func (f *fakeOrderRepo) GetOrderByID(id int) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with id %d not found", id)
	}
	return &o, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(id int, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with id %d not found", id)
	}
	o.Status = status
	f.orders[id] = o
	out := o
	return &out, nil
}

func (f *fakeOrderRepo) ListOrdersByBuyer(buyerID int) ([]domain.Order, error) {
	out := []domain.Order{}
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrderRepo) ListAllOrders() ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakePaymentClient scripts the authorizer outcome and records what was
// sent to it.
type fakePaymentClient struct {
	token        string
	tokenErr     error
	result       *domain.PaymentResult
	authorizeErr error

	lastNonce  string
	lastAmount float64
	calls      int
}

func (f *fakePaymentClient) ClientToken() (string, error) {
	return f.token, f.tokenErr
}

func (f *fakePaymentClient) Authorize(nonce string, amount float64) (*domain.PaymentResult, error) {
	f.calls++
	f.lastNonce = nonce
	f.lastAmount = amount
	if f.authorizeErr != nil {
		return nil, f.authorizeErr
	}
	return f.result, nil
}

type fakeUserRepo struct {
	users  map[int]domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) seed(user domain.User) domain.User {
	user.ID = f.nextID
	f.users[user.ID] = user
	f.nextID++
	return user
}

func (f *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, fmt.Errorf("user with email '%s' already exists", user.Email)
		}
	}
	u := *user
	u.ID = f.nextID
	f.users[u.ID] = u
	f.nextID++
	out := u
	return &out, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user with email '%s' not found", email)
}

func (f *fakeUserRepo) GetUserByID(id int) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d not found", id)
	}
	return &u, nil
}

func (f *fakeUserRepo) UpdateUser(id int, updates map[string]interface{}) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %d not found", id)
	}
	for key, value := range updates {
		switch key {
		case "name":
			u.Name = value.(string)
		case "password_hash":
			u.PasswordHash = value.(string)
		case "phone":
			u.Phone = value.(string)
		case "address":
			u.Address = value.(string)
		}
	}
	f.users[id] = u
	out := u
	return &out, nil
}

func (f *fakeUserRepo) ListUsers() ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var errRepoDown = errors.New("repository unavailable")
