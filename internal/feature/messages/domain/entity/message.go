// Package entity defines the domain entities for the messages feature.
package entity

import "time"

// UserSummary is the public projection of a user attached to a message.
type UserSummary struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

// Message is a text message sent from one user to another.
type Message struct {
	ID           int64
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	// ReadAt is nil until the recipient marks the message as read. It never reverts.
	ReadAt *time.Time

	// FromUser and ToUser are resolved by reads that join users; nil otherwise.
	FromUser *UserSummary
	ToUser   *UserSummary
}

// Involves reports whether username is the sender or the recipient.
func (m *Message) Involves(username string) bool {
	return username != "" && (m.FromUsername == username || m.ToUsername == username)
}
