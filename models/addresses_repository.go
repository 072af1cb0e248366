package models

import (
	"errors"

	"gorm.io/gorm"
)

type AddressesRepository struct {
	db *gorm.DB
}

func NewAddressesRepository(db *gorm.DB) *AddressesRepository {
	return &AddressesRepository{db: db}
}

// Create inserts the address. A second address for the same user fails with
// ErrAddressExists whether caught by the pre-check or by the unique index.
func (r *AddressesRepository) Create(address *Address) error {
	var count int64
	if err := r.db.Model(&Address{}).Where("user_id = ?", address.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAddressExists
	}
	if err := r.db.Create(address).Error; err != nil {
		if isUniqueViolation(err, "user_id") {
			return ErrAddressExists
		}
		return err
	}
	return nil
}

func (r *AddressesRepository) GetByUserID(userID uint) (*Address, error) {
	var address Address
	if err := r.db.Where("user_id = ?", userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return &address, nil
}

func (r *AddressesRepository) Update(address *Address) error {
	return r.db.Save(address).Error
}

func (r *AddressesRepository) Delete(address *Address) error {
	return r.db.Delete(address).Error
}
