// Package handler はmessagesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messagely/internal/feature/messages/domain/entity"
	"messagely/internal/feature/messages/transport/http/dto"
	jwtmw "messagely/internal/platform/jwt"
	"messagely/internal/platform/http/respond"
	"messagely/internal/shared/apperr"
)

// ErrInvalidID is returned for a non-numeric or non-positive :id.
var ErrInvalidID = apperr.New(apperr.Validation, "invalid message id")

// MessageUsecase はメッセージ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type MessageUsecase interface {
	Create(ctx context.Context, from, to, body string) (*entity.Message, error)
	GetVisible(ctx context.Context, id int64, requester string) (*entity.Message, error)
	MarkRead(ctx context.Context, id int64, actor string) (*entity.Message, error)
}

// MessageHandler はメッセージのHTTPリクエストを処理します。
// すべてのルートは EnsureLoggedIn の後ろにマウントされる前提です。
type MessageHandler struct {
	uc MessageUsecase
}

// NewMessageHandler は指定されたusecaseでMessageHandlerの新しいインスタンスを生成します。
func NewMessageHandler(uc MessageUsecase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

// principal は認証済みユーザーを返します。未認証の場合は401で中断します。
func principal(c *gin.Context) (*jwtmw.Principal, bool) {
	p, _ := jwtmw.PrincipalFrom(c)
	p, err := jwtmw.RequireLoggedIn(p)
	if err != nil {
		respond.Error(c, err)
		return nil, false
	}
	return p, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, ErrInvalidID)
		return 0, false
	}
	return id, true
}

// Get は送信者または受信者にのみメッセージを返します。
//
// エンドポイント例:
// GET /messages/:id
func (h *MessageHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.uc.GetVisible(c.Request.Context(), id, p.Username)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse[dto.MessageDetail]{Message: dto.NewMessageDetail(m)})
}

// Create はログイン中のユーザーからメッセージを送信します。
//
// エンドポイント例:
// POST /messages {"to_username": "bob", "body": "hi"}
func (h *MessageHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CreateMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, err)
		return
	}
	m, err := h.uc.Create(c.Request.Context(), p.Username, req.ToUsername, req.Body)
	if err != nil {
		respond.Error(c, err)
		return
	}
	slog.Info("message sent", "id", m.ID, "from", m.FromUsername, "to", m.ToUsername)
	c.JSON(http.StatusOK, dto.MessageResponse[dto.CreatedMessage]{Message: dto.NewCreatedMessage(m)})
}

// MarkRead は受信者本人によるメッセージの既読化を処理します。
//
// エンドポイント例:
// POST /messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.uc.MarkRead(c.Request.Context(), id, p.Username)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse[dto.ReadReceipt]{Message: dto.ReadReceipt{ID: m.ID, ReadAt: m.ReadAt}})
}
