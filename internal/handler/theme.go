package handler

import (
	"encoding/json"
	"net/http"
)

const themeCookieMaxAge = 365 * 24 * 60 * 60

// ThemeHandler persists the visitor's color scheme choice.
type ThemeHandler struct{}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

type themeBody struct {
	Theme string `json:"theme"`
}

// Toggle handles POST /theme. It stores the requested theme in a cookie and
// echoes the accepted value, which app.js applies to <html data-theme>.
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	theme := r.FormValue("theme")
	if !validTheme(theme) {
		http.Error(w, "invalid theme", http.StatusBadRequest)
		return
	}

	// Readable from JS: base.html picks the theme before first paint.
	http.SetCookie(w, &http.Cookie{
		Name:     "theme",
		Value:    theme,
		Path:     "/",
		MaxAge:   themeCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(themeBody{Theme: theme})
}
