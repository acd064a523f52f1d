// Package dto はusersフィーチャーのレスポンスDTOを定義します。
package dto

import (
	"time"

	authentity "messagely/internal/feature/auth/domain/entity"
	msgentity "messagely/internal/feature/messages/domain/entity"
	msgdto "messagely/internal/feature/messages/transport/http/dto"
)

// UserDetail は GET /users/:username で返すユーザー情報です。
type UserDetail struct {
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	JoinAt      time.Time  `json:"join_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// ReceivedMessage は受信一覧の1件です。
type ReceivedMessage struct {
	ID       int64               `json:"id"`
	Body     string              `json:"body"`
	SentAt   time.Time           `json:"sent_at"`
	ReadAt   *time.Time          `json:"read_at"`
	FromUser *msgdto.UserSummary `json:"from_user"`
}

// SentMessage は送信一覧の1件です。
type SentMessage struct {
	ID     int64               `json:"id"`
	Body   string              `json:"body"`
	SentAt time.Time           `json:"sent_at"`
	ReadAt *time.Time          `json:"read_at"`
	ToUser *msgdto.UserSummary `json:"to_user"`
}

// UsersResponse wraps GET /users.
type UsersResponse struct {
	Users []msgdto.UserSummary `json:"users"`
}

// UserResponse wraps GET /users/:username.
type UserResponse struct {
	User UserDetail `json:"user"`
}

// MessagesResponse wraps the per-user message lists.
type MessagesResponse[T any] struct {
	Messages []T `json:"messages"`
}

// NewUserDetail converts a user entity. The password hash is never copied.
func NewUserDetail(u *authentity.User) UserDetail {
	return UserDetail{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinAt:      u.JoinAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// NewUserSummaries converts a user list.
func NewUserSummaries(users []authentity.User) []msgdto.UserSummary {
	out := make([]msgdto.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, msgdto.UserSummary{
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Phone:     u.Phone,
		})
	}
	return out
}

// NewReceivedMessages converts messages received by one user.
func NewReceivedMessages(ms []msgentity.Message) []ReceivedMessage {
	out := make([]ReceivedMessage, 0, len(ms))
	for i := range ms {
		out = append(out, ReceivedMessage{
			ID:       ms[i].ID,
			Body:     ms[i].Body,
			SentAt:   ms[i].SentAt,
			ReadAt:   ms[i].ReadAt,
			FromUser: msgdto.NewUserSummary(ms[i].FromUser),
		})
	}
	return out
}

// NewSentMessages converts messages sent by one user.
func NewSentMessages(ms []msgentity.Message) []SentMessage {
	out := make([]SentMessage, 0, len(ms))
	for i := range ms {
		out = append(out, SentMessage{
			ID:     ms[i].ID,
			Body:   ms[i].Body,
			SentAt: ms[i].SentAt,
			ReadAt: ms[i].ReadAt,
			ToUser: msgdto.NewUserSummary(ms[i].ToUser),
		})
	}
	return out
}
