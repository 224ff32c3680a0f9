package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	uc := NewCategoryUseCase(repo, testLogger())

	created, err := uc.CreateCategory("  Home Appliances ")
	require.NoError(t, err)
	assert.Equal(t, "Home Appliances", created.Name)
	assert.Equal(t, "home-appliances", created.Slug)
	assert.NotZero(t, created.ID)
}

func TestCreateCategoryEmptyName(t *testing.T) {
	repo := newFakeCategoryRepo()
	uc := NewCategoryUseCase(repo, testLogger())

	_, err := uc.CreateCategory("   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
	assert.Empty(t, repo.categories)
}

func TestCreateCategoryCaseInsensitiveConflict(t *testing.T) {
	repo := newFakeCategoryRepo()
	repo.seed("Electronics", "electronics")
	uc := NewCategoryUseCase(repo, testLogger())

	_, err := uc.CreateCategory("ELECTRONICS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Len(t, repo.categories, 1)
}

func TestRenameCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	seeded := repo.seed("Books", "books")
	uc := NewCategoryUseCase(repo, testLogger())

	updated, err := uc.RenameCategory(seeded.ID, "Used Books")
	require.NoError(t, err)
	assert.Equal(t, "Used Books", updated.Name)
	assert.Equal(t, "used-books", updated.Slug)
}

func TestRenameCategoryCaseOnlyChange(t *testing.T) {
	repo := newFakeCategoryRepo()
	seeded := repo.seed("books", "books")
	uc := NewCategoryUseCase(repo, testLogger())

	// Recasing the category's own name must not trip the uniqueness
	// check against itself.
	updated, err := uc.RenameCategory(seeded.ID, "Books")
	require.NoError(t, err)
	assert.Equal(t, "Books", updated.Name)
}

func TestRenameCategoryCollision(t *testing.T) {
	repo := newFakeCategoryRepo()
	repo.seed("Electronics", "electronics")
	books := repo.seed("Books", "books")
	uc := NewCategoryUseCase(repo, testLogger())

	_, err := uc.RenameCategory(books.ID, "electronics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, "Books", repo.categories[books.ID].Name)
}

func TestRenameCategoryNotFound(t *testing.T) {
	repo := newFakeCategoryRepo()
	uc := NewCategoryUseCase(repo, testLogger())

	_, err := uc.RenameCategory(42, "Anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDeleteCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	seeded := repo.seed("Clearance", "clearance")
	uc := NewCategoryUseCase(repo, testLogger())

	require.NoError(t, uc.DeleteCategory(seeded.ID))
	assert.Empty(t, repo.categories)

	err := uc.DeleteCategory(seeded.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetCategoryBySlug(t *testing.T) {
	repo := newFakeCategoryRepo()
	repo.seed("Electronics", "electronics")
	uc := NewCategoryUseCase(repo, testLogger())

	found, err := uc.GetCategoryBySlug("electronics")
	require.NoError(t, err)
	assert.Equal(t, "Electronics", found.Name)

	_, err = uc.GetCategoryBySlug("missing")
	assert.Error(t, err)

	_, err = uc.GetCategoryBySlug("")
	assert.Error(t, err)
}

func TestCreateCategoryRepoError(t *testing.T) {
	repo := newFakeCategoryRepo()
	repo.failWith = errRepoDown
	uc := NewCategoryUseCase(repo, testLogger())

	_, err := uc.CreateCategory("Electronics")
	require.Error(t, err)
	assert.ErrorIs(t, err, errRepoDown)
}

func TestListCategories(t *testing.T) {
	repo := newFakeCategoryRepo()
	repo.seed("Electronics", "electronics")
	repo.seed("Books", "books")
	uc := NewCategoryUseCase(repo, testLogger())

	categories, err := uc.ListCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
