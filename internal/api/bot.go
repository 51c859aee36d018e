package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mmopane/sitechat/internal/auth"
	"github.com/mmopane/sitechat/internal/bot"
)

// BotHandler serves the classification endpoint consumed by the chat
// widget.
type BotHandler struct {
	engine *bot.Engine
	isDev  bool
}

// NewBotHandler creates the chat endpoint handler.
func NewBotHandler(engine *bot.Engine, isDev bool) *BotHandler {
	return &BotHandler{engine: engine, isDev: isDev}
}

// RegisterRoutes mounts the bot endpoint.
func (h *BotHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/bot", h.handleMessage)
}

type botRequest struct {
	Message string `json:"message"`
}

// handleMessage classifies one user message. Bad chat content is never an
// HTTP error: a malformed or empty body is treated as empty input, which
// the engine resolves to the greeting+menu reply. The only failure
// surface is the transport itself.
func (h *BotHandler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req botRequest
	// Decode failures fall through with an empty message on purpose.
	_ = decodeJSON(w, r, &req)

	conversationID := auth.EnsureConversation(w, r, h.isDev)
	JSON(w, http.StatusOK, h.engine.Respond(conversationID, req.Message))
}
