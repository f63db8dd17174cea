// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// AdminNationalID is the reserved identifier of the sole administrator account.
// The account carrying it can never be blocked or deleted.
const AdminNationalID = "admin"

// AccountStatus defines whether an account may log in and act.
type AccountStatus string

const (
	// AccountStatusActive indicates the account may log in and act on its own data.
	AccountStatusActive AccountStatus = "active"
	// AccountStatusBlocked indicates the account is locked out; any live session
	// bound to it is invalidated on first use.
	AccountStatusBlocked AccountStatus = "blocked"
)

// Account represents a registered citizen or the administrator.
type Account struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	FullName         string        `gorm:"size:100;not null" json:"full_name"`
	NationalID       string        `gorm:"size:20;uniqueIndex;not null" json:"national_id"`
	Email            string        `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Phone            string        `gorm:"size:20;not null" json:"phone"`
	PasswordHash     string        `gorm:"size:255" json:"-"`
	Status           AccountStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	RegistrationDate time.Time     `gorm:"autoCreateTime" json:"registration_date"`
	LastLogin        *time.Time    `json:"last_login"`
	Requests         []Request     `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"requests,omitempty"`
}

// TableName specifies the table name for GORM.
func (Account) TableName() string {
	return "accounts"
}

// IsAdmin reports whether the account is the reserved administrator.
func (a *Account) IsAdmin() bool {
	return a.NationalID == AdminNationalID
}

// IsBlocked reports whether the account is locked out.
func (a *Account) IsBlocked() bool {
	return a.Status == AccountStatusBlocked
}

// AccountSummary is the subset of account fields safe for public display.
type AccountSummary struct {
	ID               uint          `json:"id"`
	FullName         string        `json:"full_name"`
	Status           AccountStatus `json:"status"`
	RegistrationDate time.Time     `json:"registration_date"`
}

// Summary returns the publicly displayable fields of the account.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:               a.ID,
		FullName:         a.FullName,
		Status:           a.Status,
		RegistrationDate: a.RegistrationDate,
	}
}
