package auth

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// ConversationCookieName identifies one anonymous chat conversation
	// so the responder's session memory is scoped per conversation
	// rather than shared process-wide.
	ConversationCookieName = "sitechat_conv"

	conversationMaxAge = 30 * 24 * time.Hour
)

// EnsureConversation returns the request's conversation ID, issuing a
// fresh one (and cookie) when absent or malformed. It never fails; chat
// must work for every visitor.
func EnsureConversation(w http.ResponseWriter, r *http.Request, isDev bool) string {
	if c, err := r.Cookie(ConversationCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			setConversationCookie(w, c.Value, isDev)
			return c.Value
		}
	}

	id := uuid.NewString()
	setConversationCookie(w, id, isDev)
	return id
}

func setConversationCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     ConversationCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(conversationMaxAge.Seconds()),
		Expires:  time.Now().Add(conversationMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}
