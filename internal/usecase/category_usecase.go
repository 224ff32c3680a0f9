package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

type CategoryUseCase interface {
	CreateCategory(name string) (*domain.Category, error)
	RenameCategory(id int, name string) (*domain.Category, error)
	DeleteCategory(id int) error
	ListCategories() ([]domain.Category, error)
	GetCategoryBySlug(slug string) (*domain.Category, error)
}

type categoryUseCase struct {
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

func NewCategoryUseCase(repo domain.CategoryRepository, logger *logrus.Logger) CategoryUseCase {
	return &categoryUseCase{
		categoryRepo: repo,
		log:          logger,
	}
}

func (uc *categoryUseCase) CreateCategory(name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		uc.log.Warn("Use Case: Attempted to create category with empty name")
		return nil, errors.New("category name cannot be empty")
	}

	existing, err := uc.categoryRepo.FindCategoryByName(name)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to check name uniqueness for '%s': %v", name, err)
		return nil, err
	}
	if existing != nil {
		uc.log.Warnf("Use Case: Category name '%s' collides with existing '%s' (ID %d)", name, existing.Name, existing.ID)
		return nil, fmt.Errorf("category with name '%s' already exists", name)
	}

	category := &domain.Category{
		Name: name,
		Slug: slug.Make(name),
	}
	created, err := uc.categoryRepo.CreateCategory(category)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create category '%s': %v", name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category '%s' created with ID %d", created.Name, created.ID)
	return created, nil
}

// RenameCategory allows a case-only change of the current name without
// tripping the uniqueness check; any other rename collides only against
// other categories.
func (uc *categoryUseCase) RenameCategory(id int, name string) (*domain.Category, error) {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted rename with invalid category ID: %d", id)
		return nil, errors.New("invalid category ID")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		uc.log.Warnf("Use Case: Attempted rename of category ID %d with empty name", id)
		return nil, errors.New("category name cannot be empty")
	}

	current, err := uc.categoryRepo.GetCategoryByID(id)
	if err != nil {
		uc.log.Warnf("Use Case: Category ID %d not found for rename: %v", id, err)
		return nil, err
	}

	if !strings.EqualFold(name, current.Name) {
		existing, err := uc.categoryRepo.FindCategoryByName(name)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to check name uniqueness for '%s': %v", name, err)
			return nil, err
		}
		if existing != nil && existing.ID != id {
			uc.log.Warnf("Use Case: Rename of category ID %d to '%s' collides with ID %d", id, name, existing.ID)
			return nil, fmt.Errorf("category with name '%s' already exists", name)
		}
	}

	current.Name = name
	current.Slug = slug.Make(name)
	updated, err := uc.categoryRepo.UpdateCategory(current)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to rename category ID %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category ID %d renamed to '%s'", updated.ID, updated.Name)
	return updated, nil
}

func (uc *categoryUseCase) DeleteCategory(id int) error {
	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid category ID: %d", id)
		return errors.New("invalid category ID")
	}

	// No cascade: products referencing the category keep running with a
	// dangling (nulled) reference.
	if err := uc.categoryRepo.DeleteCategory(id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete category ID %d: %v", id, err)
		return err
	}

	uc.log.Infof("Use Case: Category deleted with ID %d", id)
	return nil
}

func (uc *categoryUseCase) ListCategories() ([]domain.Category, error) {
	categories, err := uc.categoryRepo.ListCategories()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list categories: %v", err)
		return nil, fmt.Errorf("could not retrieve categories: %w", err)
	}
	return categories, nil
}

func (uc *categoryUseCase) GetCategoryBySlug(categorySlug string) (*domain.Category, error) {
	if categorySlug == "" {
		return nil, errors.New("category slug cannot be empty")
	}

	category, err := uc.categoryRepo.GetCategoryBySlug(categorySlug)
	if err != nil {
		uc.log.Warnf("Use Case: Category with slug '%s' not found: %v", categorySlug, err)
		return nil, err
	}
	return category, nil
}
