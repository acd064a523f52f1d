// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// The auth feature is the only writer of this record.
type User struct {
	// Username is the unique, immutable identifier for the user.
	Username string `gorm:"primaryKey;size:64"`

	// Password is the bcrypt hash of the user's password.
	// It never stores plaintext and is never serialized.
	Password string `gorm:"size:255;not null" json:"-"`

	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:32;not null"`

	// JoinAt is the timestamp when the user registered.
	JoinAt time.Time `gorm:"not null"`

	// LastLoginAt is updated on every successful authentication; nil until the first one.
	LastLoginAt *time.Time
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
