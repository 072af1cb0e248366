package models

import "time"

// Address is a user's shipping address. The unique index on UserID enforces
// the one-address-per-user invariant at the storage layer; application-level
// checks are a fast path only.
type Address struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	State         string    `gorm:"size:2;not null" json:"state"`
	City          string    `gorm:"size:100;not null" json:"city"`
	Neighbourhood string    `gorm:"size:180;not null" json:"neighbourhood"`
	Street        string    `gorm:"size:170;not null" json:"street"`
	ZipCode       string    `gorm:"size:8;not null" json:"zip_code"`
	Number        int       `gorm:"not null" json:"number"`
	Complement    string    `gorm:"size:170" json:"complement"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (a *Address) TableName() string {
	return "addresses"
}

// BrazilianStates is the accepted set of two-letter state codes.
var BrazilianStates = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO",
	"MA", "MT", "MS", "MG", "PA", "PB", "PR", "PE", "PI",
	"RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

// IsValidState reports whether code is one of the accepted state codes.
func IsValidState(code string) bool {
	for _, s := range BrazilianStates {
		if s == code {
			return true
		}
	}
	return false
}
