package http

import (
	"context"

	"github.com/avan-studio/avan-backend/internal/projects/service"
)

// LanguageSource resolves the stored UI language of a user.
type LanguageSource interface {
	Language(ctx context.Context, userID string) string
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	chat  *service.ChatService
	langs LanguageSource
}

func New(chat *service.ChatService, langs LanguageSource) *Handler {
	return &Handler{chat: chat, langs: langs}
}

type createReq struct {
	Input string `json:"input"`
}

type startReq struct {
	Language string `json:"language,omitempty"`
}

type postMsgReq struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
}

type saveReq struct {
	Name *string `json:"name"`
}
