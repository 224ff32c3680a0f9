package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

type postgresCategoryRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCategoryRepository(db *sql.DB, logger *logrus.Logger) domain.CategoryRepository {
	return &postgresCategoryRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresCategoryRepository) CreateCategory(category *domain.Category) (*domain.Category, error) {
	query := `INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`
	err := r.db.QueryRow(query, category.Name, category.Slug).Scan(&category.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to create category with duplicate name: %s", category.Name)
			return nil, fmt.Errorf("category with name '%s' already exists", category.Name)
		}
		r.log.Errorf("Failed to create category '%s': %v", category.Name, err)
		return nil, fmt.Errorf("could not create category: %w", err)
	}
	r.log.Infof("Category created with ID: %d, Name: %s", category.ID, category.Name)
	return category, nil
}

func (r *postgresCategoryRepository) GetCategoryByID(id int) (*domain.Category, error) {
	query := `SELECT id, name, slug FROM categories WHERE id = $1`
	category := &domain.Category{}
	err := r.db.QueryRow(query, id).Scan(&category.ID, &category.Name, &category.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Category with ID %d not found", id)
			return nil, fmt.Errorf("category with id %d not found", id)
		}
		r.log.Errorf("Failed to get category by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get category by id: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) GetCategoryBySlug(slug string) (*domain.Category, error) {
	// Exact match; slugs are not case-normalized on lookup.
	query := `SELECT id, name, slug FROM categories WHERE slug = $1`
	category := &domain.Category{}
	err := r.db.QueryRow(query, slug).Scan(&category.ID, &category.Name, &category.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Category with slug '%s' not found", slug)
			return nil, fmt.Errorf("category with slug '%s' not found", slug)
		}
		r.log.Errorf("Failed to get category by slug '%s': %v", slug, err)
		return nil, fmt.Errorf("could not get category by slug: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) FindCategoryByName(name string) (*domain.Category, error) {
	query := `SELECT id, name, slug FROM categories WHERE LOWER(name) = LOWER($1)`
	category := &domain.Category{}
	err := r.db.QueryRow(query, name).Scan(&category.ID, &category.Name, &category.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.log.Errorf("Failed to look up category by name '%s': %v", name, err)
		return nil, fmt.Errorf("could not look up category by name: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) UpdateCategory(category *domain.Category) (*domain.Category, error) {
	query := `UPDATE categories SET name = $1, slug = $2 WHERE id = $3 RETURNING id, name, slug`
	err := r.db.QueryRow(query, category.Name, category.Slug, category.ID).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			r.log.Warnf("Attempted to update category ID %d with duplicate name: %s", category.ID, category.Name)
			return nil, fmt.Errorf("category with name '%s' already exists", category.Name)
		}
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Category with ID %d not found for update", category.ID)
			return nil, fmt.Errorf("category with id %d not found for update", category.ID)
		}
		r.log.Errorf("Failed to update category ID %d: %v", category.ID, err)
		return nil, fmt.Errorf("could not update category: %w", err)
	}
	r.log.Infof("Category updated with ID: %d", category.ID)
	return category, nil
}

func (r *postgresCategoryRepository) DeleteCategory(id int) error {
	query := `DELETE FROM categories WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		r.log.Errorf("Failed to delete category ID %d: %v", id, err)
		return fmt.Errorf("could not delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting category ID %d: %v", id, err)
		return fmt.Errorf("could not confirm category deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent category ID %d", id)
		return fmt.Errorf("category with id %d not found for deletion", id)
	}

	r.log.Infof("Category deleted with ID: %d", id)
	return nil
}

func (r *postgresCategoryRepository) ListCategories() ([]domain.Category, error) {
	query := `SELECT id, name, slug FROM categories ORDER BY name ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			r.log.Errorf("Failed to scan category row: %v", err)
			return nil, fmt.Errorf("error scanning category data: %w", err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during categories list iteration: %v", err)
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
