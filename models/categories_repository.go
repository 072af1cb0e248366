package models

import (
	"strings"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

// FindByNames returns the existing categories whose names match any of the
// given names case-insensitively. Unmatched names are ignored; nothing is
// auto-created.
func (r *CategoriesRepository) FindByNames(names []string) ([]Category, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			lowered = append(lowered, strings.ToLower(n))
		}
	}
	if len(lowered) == 0 {
		return nil, nil
	}

	var categories []Category
	if err := r.db.Where("LOWER(name) IN ?", lowered).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ReplaceForProduct sets the product's category links to exactly the given
// set.
func (r *CategoriesRepository) ReplaceForProduct(product *Product, categories []Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(product).Association("Categories").Replace(categories)
	})
}
