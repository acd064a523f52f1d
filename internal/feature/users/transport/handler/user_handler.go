// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
// ユーザー情報はauthフィーチャー、メッセージ一覧はmessagesフィーチャーから取得します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	authentity "messagely/internal/feature/auth/domain/entity"
	msgentity "messagely/internal/feature/messages/domain/entity"
	"messagely/internal/feature/users/transport/http/dto"
	"messagely/internal/platform/http/respond"
)

// UserReader はユーザー情報の読み取りを定義します。
type UserReader interface {
	Get(ctx context.Context, username string) (*authentity.User, error)
	All(ctx context.Context) ([]authentity.User, error)
}

// MessageLister はユーザーごとのメッセージ一覧を定義します。
type MessageLister interface {
	ListSent(ctx context.Context, username string) ([]msgentity.Message, error)
	ListReceived(ctx context.Context, username string) ([]msgentity.Message, error)
}

// UserHandler は /users 配下のHTTPリクエストを処理します。
// :username を含むルートは EnsureCorrectUser("username") の後ろにマウントされる前提です。
type UserHandler struct {
	users    UserReader
	messages MessageLister
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserReader, messages MessageLister) *UserHandler {
	return &UserHandler{users: users, messages: messages}
}

// List はすべてのユーザーの概要を返します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.All(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UsersResponse{Users: dto.NewUserSummaries(users)})
}

// Get はユーザーの詳細を返します。
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{User: dto.NewUserDetail(user)})
}

// MessagesTo はユーザーが受信したメッセージを返します。
func (h *UserHandler) MessagesTo(c *gin.Context) {
	ms, err := h.messages.ListReceived(c.Request.Context(), c.Param("username"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessagesResponse[dto.ReceivedMessage]{Messages: dto.NewReceivedMessages(ms)})
}

// MessagesFrom はユーザーが送信したメッセージを返します。
func (h *UserHandler) MessagesFrom(c *gin.Context) {
	ms, err := h.messages.ListSent(c.Request.Context(), c.Param("username"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessagesResponse[dto.SentMessage]{Messages: dto.NewSentMessages(ms)})
}
