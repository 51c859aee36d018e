// Package auth provides the admin session gate and anonymous
// per-conversation identity cookies.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// AdminCookieName carries the signed admin session token.
	AdminCookieName = "sitechat_admin"

	adminSessionMaxAge = 12 * time.Hour
)

// Gate checks the admin password and issues HMAC-signed session cookies.
// Presence of a valid cookie grants access to admin routes; there are no
// user accounts.
type Gate struct {
	password string
	secret   []byte
	isDev    bool
}

// NewGate creates a gate. An empty password disables admin access
// entirely (Middleware rejects everything).
func NewGate(password, secret string, isDev bool) *Gate {
	return &Gate{
		password: password,
		secret:   []byte(secret),
		isDev:    isDev,
	}
}

// Enabled reports whether admin login is configured.
func (g *Gate) Enabled() bool {
	return g.password != "" && len(g.secret) > 0
}

// Login verifies the password and, on success, sets the session cookie.
func (g *Gate) Login(w http.ResponseWriter, password string) bool {
	if !g.Enabled() {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		return false
	}

	expires := time.Now().Add(adminSessionMaxAge)
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    g.token(expires.Unix()),
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(adminSessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !g.isDev,
	})
	return true
}

// Logout clears the session cookie.
func (g *Gate) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !g.isDev,
	})
}

// Verify reports whether the request carries a valid, unexpired session.
func (g *Gate) Verify(r *http.Request) bool {
	if !g.Enabled() {
		return false
	}
	c, err := r.Cookie(AdminCookieName)
	if err != nil {
		return false
	}

	expStr, sig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return false
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil || time.Now().Unix() >= exp {
		return false
	}

	want := g.sign(expStr)
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(want, got)
}

// Middleware guards admin routes with the session cookie.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Verify(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"admin session required"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gate) token(expiresUnix int64) string {
	expStr := strconv.FormatInt(expiresUnix, 10)
	return expStr + "." + hex.EncodeToString(g.sign(expStr))
}

func (g *Gate) sign(payload string) []byte {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
