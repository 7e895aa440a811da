package handler

import (
	"context"
	"log/slog"
	"net/http"

	"healthchain/internal/config"
	"healthchain/internal/httputil"
	"healthchain/internal/service/chat"
)

// ChatHandler handles the general health chat endpoint
type ChatHandler struct {
	chatService *chat.Service
	logger      *slog.Logger
}

func NewChatHandler(chatService *chat.Service, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat handles one chat turn
// POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// An authenticated caller's identity wins over whatever user_id the
	// body claims.
	if userID := httputil.GetUserID(r); userID != "" {
		req.UserID = userID
	}

	// Bound the whole turn so a stuck upstream ends in a fallback, not
	// a hung request.
	ctx, cancel := context.WithTimeout(r.Context(), config.RequestTimeout)
	defer cancel()

	resp, err := h.chatService.Chat(ctx, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
