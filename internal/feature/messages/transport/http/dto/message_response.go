package dto

import (
	"time"

	"messagely/internal/feature/messages/domain/entity"
)

// UserSummary は from_user / to_user として返すユーザー情報です。
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// MessageDetail は GET /messages/:id で返すメッセージです。
type MessageDetail struct {
	ID       int64        `json:"id"`
	Body     string       `json:"body"`
	SentAt   time.Time    `json:"sent_at"`
	ReadAt   *time.Time   `json:"read_at"`
	FromUser *UserSummary `json:"from_user"`
	ToUser   *UserSummary `json:"to_user"`
}

// CreatedMessage は POST /messages で返すメッセージです。
type CreatedMessage struct {
	ID           int64     `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

// ReadReceipt は POST /messages/:id/read で返す既読情報です。
type ReadReceipt struct {
	ID     int64      `json:"id"`
	ReadAt *time.Time `json:"read_at"`
}

// MessageResponse はメッセージ1件を {"message": ...} で包みます。
type MessageResponse[T any] struct {
	Message T `json:"message"`
}

// NewUserSummary はエンティティをDTOへ変換します。nil はそのまま nil になります。
func NewUserSummary(u *entity.UserSummary) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// NewMessageDetail converts a message with resolved users.
func NewMessageDetail(m *entity.Message) MessageDetail {
	return MessageDetail{
		ID:       m.ID,
		Body:     m.Body,
		SentAt:   m.SentAt,
		ReadAt:   m.ReadAt,
		FromUser: NewUserSummary(m.FromUser),
		ToUser:   NewUserSummary(m.ToUser),
	}
}

// NewCreatedMessage converts a freshly stored message.
func NewCreatedMessage(m *entity.Message) CreatedMessage {
	return CreatedMessage{
		ID:           m.ID,
		FromUsername: m.FromUsername,
		ToUsername:   m.ToUsername,
		Body:         m.Body,
		SentAt:       m.SentAt,
	}
}
