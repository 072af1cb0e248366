package models

import "time"

// User is an account holder. Password always stores the bcrypt hash and is
// never serialized.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:150;not null" json:"first_name"`
	LastName    string    `gorm:"size:150;not null" json:"last_name"`
	Username    string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"is_superuser"`
	IsStaff     bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (u *User) TableName() string {
	return "users"
}

// FullName joins first and last name the way profile responses present it.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
