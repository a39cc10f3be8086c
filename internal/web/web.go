// Package web serves the embedded inventory page: the filtered item list
// with low-stock highlighting and the stock-adjustment form, both driven by
// the JSON API.
package web

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

type Handler struct {
	templates *template.Template
}

func New() (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.gohtml")
	if err != nil {
		return nil, err
	}
	return &Handler{templates: tmpl}, nil
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.ExecuteTemplate(w, "index.gohtml", nil); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Static serves the embedded assets; mount it at /static/ so request paths
// line up with the embedded directory layout.
func (h *Handler) Static() http.Handler {
	return http.FileServer(http.FS(staticFS))
}
