package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"turismo/internal/adapters/observability"
	"turismo/internal/app"
)

const flashCookie = "flash"

// setFlash stores a message for the next rendered page.
func setFlash(w http.ResponseWriter, f app.Flash) {
	b, err := json.Marshal([]app.Flash{f})
	if err != nil {
		return
	}
	observeFlash(f)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func observeFlash(f app.Flash) { observability.ObserveFlash(string(f.Category)) }

// takeFlashes reads and clears pending messages.
func takeFlashes(w http.ResponseWriter, r *http.Request) []app.Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var out []app.Flash
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
