// Package wa builds WhatsApp deep links. Handing off to a human via a
// wa.me link is the only way the system delivers a message anywhere.
package wa

import (
	"net/url"
	"strings"
)

// Digits strips every non-digit character from a phone number, which is
// the format wa.me expects ("+267 77 807 112" -> "26777807112").
func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Link returns a https://wa.me/<digits>?text=<encoded message> URL that
// opens WhatsApp pre-filled with the message.
func Link(phone, message string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + Digits(phone),
		RawQuery: url.Values{"text": {message}}.Encode(),
	}
	return u.String()
}
