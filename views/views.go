// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/danielhkuo/formguard-web/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page is the data every template receives
type Page struct {
	Title  string
	Active string // navigation section
	User   *models.User
	Flash  *models.Flash
	Data   any
}

// Renderer executes the embedded page templates
type Renderer struct {
	pages map[string]*template.Template
	now   func() time.Time
}

// New parses every page template against the shared layout
func New() (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		now:   time.Now,
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(path.Base(layoutFile)).Funcs(r.funcs()).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}

	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"formatNumber":  FormatNumber,
		"relativeDate":  func(t time.Time) string { return RelativeDate(t, r.now()) },
		"shortDate":     ShortDate,
		"longDate":      LongDate,
		"scoreColor":    ScoreColor,
		"truncateEmail": TruncateEmail,
		"maskAPIKey":    MaskAPIKey,
		"percentOf":     PercentOf,
		"add":           func(a, b int) int { return a + b },
	}
}

// Has reports whether a page template named name exists
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render writes page name with status. Templates execute into a buffer so a
// failure never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	t, ok := r.pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		slog.Error("failed to render template", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "name", name, "error", err)
	}
}
