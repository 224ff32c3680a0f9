package domain

type CategoryRepository interface {
	CreateCategory(category *Category) (*Category, error)
	GetCategoryByID(id int) (*Category, error)
	GetCategoryBySlug(slug string) (*Category, error)

	// FindCategoryByName matches the trimmed name case-insensitively.
	// Returns (nil, nil) when no category matches.
	FindCategoryByName(name string) (*Category, error)

	UpdateCategory(category *Category) (*Category, error)
	DeleteCategory(id int) error
	ListCategories() ([]Category, error)
}
