package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"turismo/internal/app"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"index.html",
	"hoteles_lista.html",
	"hotel_form.html",
	"hotel_ver.html",
	"paquetes_lista.html",
	"paquete_form.html",
	"paquete_ver.html",
	"not_found.html",
	"error.html",
}

var funcs = template.FuncMap{
	"price": func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) },
	"date":  func(t time.Time) string { return t.Format("02/01/2006") },
	"itoa":  strconv.Itoa,
	"id":    func(n int64) string { return strconv.FormatInt(n, 10) },
	"stars": func() []int { return []int{1, 2, 3, 4, 5} },
}

// Views holds one parsed template set per page, each wrapped in the layout.
type Views struct {
	sets map[string]*template.Template
}

func NewViews() (*Views, error) {
	v := &Views{sets: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := template.New(p).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+p)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		v.sets[p] = t
	}
	return v, nil
}

// pageData is what every template receives.
type pageData struct {
	Title   string
	Flashes []app.Flash
	Data    any
}

func (v *Views) Render(w http.ResponseWriter, status int, page string, data pageData) {
	t, ok := v.sets[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Str("page", page).Msg("write page failed")
	}
}
