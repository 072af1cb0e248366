package models

import (
	"errors"

	"gorm.io/gorm"
)

type ImagesRepository struct {
	db *gorm.DB
}

func NewImagesRepository(db *gorm.DB) *ImagesRepository {
	return &ImagesRepository{db: db}
}

func (r *ImagesRepository) GetByProductID(productID uint) (*ProductImage, error) {
	var image ProductImage
	if err := r.db.Where("product_id = ?", productID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

// SetURL points an existing image row at a new remote asset.
func (r *ImagesRepository) SetURL(image *ProductImage, url string) error {
	image.ImageURL = url
	return r.db.Model(image).Update("image_url", url).Error
}
