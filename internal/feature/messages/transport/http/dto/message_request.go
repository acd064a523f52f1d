// Package dto はmessagesフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// CreateMessageReq は POST /messages のリクエストボディです。
type CreateMessageReq struct {
	ToUsername string `json:"to_username" binding:"required,max=64"`
	Body       string `json:"body" binding:"required"`
}
