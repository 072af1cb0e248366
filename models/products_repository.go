package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{db: db}
}

// ExistsBySlug reports whether a product with the slug already exists,
// matched case-insensitively.
func (r *ProductsRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&Product{}).
		Where("LOWER(slug) = ?", strings.ToLower(slug)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithImage inserts the product and its single image row in one
// transaction. Slug collisions that slip past the pre-check surface as
// ErrProductExists via the unique index.
func (r *ProductsRepository) CreateWithImage(product *Product, imageURL string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Image", "Categories").Create(product).Error; err != nil {
			return err
		}
		image := ProductImage{ImageURL: imageURL, ProductID: product.ID}
		if err := tx.Create(&image).Error; err != nil {
			return err
		}
		product.Image = image
		return nil
	})
	if err != nil {
		if isUniqueViolation(err, "slug") {
			return ErrProductExists
		}
		return err
	}
	return nil
}

func (r *ProductsRepository) GetBySlug(slug string) (*Product, error) {
	var product Product
	err := r.db.
		Preload("Image").
		Preload("Categories").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List returns a page of products ordered by price together with the total
// count before pagination.
func (r *ProductsRepository) List(offset, limit int) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.db.Model(&Product{}).Preload("Image").Preload("Categories")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("price asc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListAll returns every product ordered by price.
func (r *ProductsRepository) ListAll() ([]Product, error) {
	var products []Product
	err := r.db.
		Preload("Image").
		Preload("Categories").
		Order("price asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Update persists field changes on an already-loaded product, leaving its
// image row and category links untouched.
func (r *ProductsRepository) Update(product *Product) error {
	if err := r.db.Omit("Image", "Categories").Save(product).Error; err != nil {
		if isUniqueViolation(err, "slug") {
			return ErrProductExists
		}
		return err
	}
	return nil
}

// DeleteWithImage removes the product, its image row and its category links
// in one transaction. Callers must have confirmed remote asset destruction
// before invoking it.
func (r *ProductsRepository) DeleteWithImage(product *Product) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(product).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
}
