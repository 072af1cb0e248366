package models

import (
	"errors"

	"gorm.io/gorm"
)

type UsersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create inserts the user, mapping unique-constraint violations on username
// or email to the matching sentinel error.
func (r *UsersRepository) Create(user *User) error {
	if err := r.db.Create(user).Error; err != nil {
		switch {
		case isUniqueViolation(err, "username"):
			return ErrUsernameTaken
		case isUniqueViolation(err, "email"):
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UsersRepository) GetByID(id uint) (*User, error) {
	var user User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepository) GetByUsername(username string) (*User, error) {
	var user User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepository) List() ([]User, error) {
	var users []User
	if err := r.db.Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists field changes on an already-loaded user.
func (r *UsersRepository) Update(user *User) error {
	if err := r.db.Save(user).Error; err != nil {
		switch {
		case isUniqueViolation(err, "username"):
			return ErrUsernameTaken
		case isUniqueViolation(err, "email"):
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Delete removes the user and any address owned by it.
func (r *UsersRepository) Delete(user *User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&Address{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
