package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Slug is the unique human-readable key used in
// URLs; uniqueness is checked case-insensitively before creation and backed
// by the database index.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:190;not null"`
	Description string          `gorm:"size:255;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(11,2);not null"`
	Stock       uint            `gorm:"not null"`
	Discount    uint            `gorm:"not null;default:0"`
	Slug        string          `gorm:"size:250;uniqueIndex;not null"`
	Image       ProductImage    `gorm:"foreignKey:ProductID"`
	Categories  []Category      `gorm:"many2many:product_categories"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) TableName() string {
	return "products"
}

// ProductImage holds the remote URL of a product's single image. Exactly one
// row exists per product; it is created with the product and removed with it.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey"`
	ImageURL  string `gorm:"not null"`
	ProductID uint   `gorm:"uniqueIndex;not null"`
}

func (i *ProductImage) TableName() string {
	return "product_images"
}

// Category groups products; assignment is by case-insensitive name match
// against existing categories only.
type Category struct {
	ID       uint      `gorm:"primaryKey"`
	Name     string    `gorm:"size:100;not null"`
	Products []Product `gorm:"many2many:product_categories"`
}

func (c *Category) TableName() string {
	return "categories"
}
