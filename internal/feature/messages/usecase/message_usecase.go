// Package usecase はメッセージの保存と閲覧制御のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"messagely/internal/feature/messages/domain"
	"messagely/internal/feature/messages/domain/entity"
)

// MessageRepository はメッセージの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MessageRepository interface {
	// Create は受信者の存在を確認してメッセージを保存し、IDとSentAtを設定します。
	// 受信者が存在しない場合は domain.ErrUnknownRecipient を返します。
	Create(ctx context.Context, m *entity.Message) error
	// FindByID は送信者・受信者の情報を含めてメッセージを取得します。
	FindByID(ctx context.Context, id int64) (*entity.Message, error)
	// MarkRead は未読の場合のみ read_at を設定し、更新後のメッセージを返します。
	MarkRead(ctx context.Context, id int64, at time.Time) (*entity.Message, error)
	// ListFrom は username が送信したメッセージを新しい順に返します。
	ListFrom(ctx context.Context, username string) ([]entity.Message, error)
	// ListTo は username が受信したメッセージを新しい順に返します。
	ListTo(ctx context.Context, username string) ([]entity.Message, error)
}

// messageUsecase はメッセージ操作のユースケースです。
type messageUsecase struct {
	messages MessageRepository
	now      func() time.Time
}

// NewMessageUsecase はmessageUsecaseの新しいインスタンスを生成します。
func NewMessageUsecase(messages MessageRepository) *messageUsecase {
	return &messageUsecase{messages: messages, now: time.Now}
}

// Create は from から to へのメッセージを保存します。
func (u *messageUsecase) Create(ctx context.Context, from, to, body string) (*entity.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrEmptyBody
	}
	if to == "" {
		return nil, domain.ErrUnknownRecipient
	}
	m := &entity.Message{
		FromUsername: from,
		ToUsername:   to,
		Body:         body,
		SentAt:       u.now().UTC(),
	}
	if err := u.messages.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrUnknownRecipient) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return m, nil
}

// Get はIDでメッセージを取得します。閲覧権限は確認しません。
func (u *messageUsecase) Get(ctx context.Context, id int64) (*entity.Message, error) {
	m, err := u.messages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return m, nil
}

// GetVisible は requester が送信者または受信者である場合のみメッセージを返します。
// 存在しないIDも権限なしと同じ domain.ErrMessageForbidden になります。
func (u *messageUsecase) GetVisible(ctx context.Context, id int64, requester string) (*entity.Message, error) {
	m, err := u.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return nil, domain.ErrMessageForbidden
		}
		return nil, err
	}
	if !m.Involves(requester) {
		return nil, domain.ErrMessageForbidden
	}
	return m, nil
}

// MarkRead は受信者本人によるメッセージの既読化を行います。
// 既読のメッセージに対しては何も変更せず、最初の read_at を返します。
func (u *messageUsecase) MarkRead(ctx context.Context, id int64, actor string) (*entity.Message, error) {
	m, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.ToUsername != actor {
		return nil, domain.ErrNotRecipient
	}
	if m.ReadAt != nil {
		return m, nil
	}
	updated, err := u.messages.MarkRead(ctx, id, u.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	return updated, nil
}

// ListSent は username が送信したメッセージを受信者情報付きで返します。
func (u *messageUsecase) ListSent(ctx context.Context, username string) ([]entity.Message, error) {
	ms, err := u.messages.ListFrom(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent messages: %w", err)
	}
	return ms, nil
}

// ListReceived は username が受信したメッセージを送信者情報付きで返します。
func (u *messageUsecase) ListReceived(ctx context.Context, username string) ([]entity.Message, error) {
	ms, err := u.messages.ListTo(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list received messages: %w", err)
	}
	return ms, nil
}
