// Package adapters はmessagesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userentity "messagely/internal/feature/auth/domain/entity"
	"messagely/internal/feature/messages/domain"
	"messagely/internal/feature/messages/domain/entity"
	"messagely/internal/feature/messages/usecase"
	"messagely/internal/platform/db"
)

// MessageModel はmessagesテーブルのGORMモデルです。
// from_username と to_username はusersテーブルへの外部キーです。
type MessageModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	FromUsername string    `gorm:"size:64;not null;index"`
	ToUsername   string    `gorm:"size:64;not null;index"`
	Body         string    `gorm:"type:text;not null"`
	SentAt       time.Time `gorm:"not null"`
	ReadAt       *time.Time

	FromUser userentity.User `gorm:"foreignKey:FromUsername;references:Username;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ToUser   userentity.User `gorm:"foreignKey:ToUsername;references:Username;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM.
func (MessageModel) TableName() string {
	return "messages"
}

func summary(u userentity.User) *entity.UserSummary {
	if u.Username == "" {
		return nil
	}
	return &entity.UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

// ToEntity converts the row into a domain message. Associations that were not
// preloaded are left nil.
func (m MessageModel) ToEntity() entity.Message {
	return entity.Message{
		ID:           m.ID,
		FromUsername: m.FromUsername,
		ToUsername:   m.ToUsername,
		Body:         m.Body,
		SentAt:       m.SentAt,
		ReadAt:       m.ReadAt,
		FromUser:     summary(m.FromUser),
		ToUser:       summary(m.ToUser),
	}
}

type messageGorm struct {
	db *gorm.DB
}

var _ usecase.MessageRepository = (*messageGorm)(nil)

// NewMessageRepository は指定されたgorm.DB接続でmessageGormの新しいインスタンスを生成します。
func NewMessageRepository(db *gorm.DB) *messageGorm {
	return &messageGorm{db: db}
}

// Create は受信者の存在確認と挿入を1つのトランザクションで行います。
// 確認後に受信者が消えた場合も外部キー制約で domain.ErrUnknownRecipient になります。
func (r *messageGorm) Create(ctx context.Context, m *entity.Message) error {
	if m == nil {
		return errors.New("message is nil")
	}
	row := MessageModel{
		FromUsername: m.FromUsername,
		ToUsername:   m.ToUsername,
		Body:         m.Body,
		SentAt:       m.SentAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&userentity.User{}).Where("username = ?", m.ToUsername).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrUnknownRecipient
		}
		return tx.Omit(clause.Associations).Create(&row).Error
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return domain.ErrUnknownRecipient
		}
		return err
	}
	m.ID = row.ID
	return nil
}

// FindByID は送信者と受信者をプリロードしてメッセージを取得します。
func (r *messageGorm) FindByID(ctx context.Context, id int64) (*entity.Message, error) {
	var row MessageModel
	err := r.db.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	m := row.ToEntity()
	return &m, nil
}

// MarkRead は read_at が未設定の場合のみ更新します。既読のメッセージは変更しません。
func (r *messageGorm) MarkRead(ctx context.Context, id int64, at time.Time) (*entity.Message, error) {
	err := r.db.WithContext(ctx).
		Model(&MessageModel{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// ListFrom は送信済みメッセージを受信者付きで新しい順に返します。
func (r *messageGorm) ListFrom(ctx context.Context, username string) ([]entity.Message, error) {
	return r.list(ctx, "ToUser", "from_username = ?", username)
}

// ListTo は受信メッセージを送信者付きで新しい順に返します。
func (r *messageGorm) ListTo(ctx context.Context, username string) ([]entity.Message, error) {
	return r.list(ctx, "FromUser", "to_username = ?", username)
}

func (r *messageGorm) list(ctx context.Context, preload, where, username string) ([]entity.Message, error) {
	var rows []MessageModel
	err := r.db.WithContext(ctx).
		Preload(preload).
		Where(where, username).
		Order("sent_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToEntity())
	}
	return out, nil
}
