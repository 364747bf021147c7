package browser

import (
	"bytes"
	"log/slog"
	"net/http"
)

type Handler struct {
	browser *Browser
}

// NewHandler returns the handler serving the browser page and its form actions.
func NewHandler(b *Browser) *Handler {
	return &Handler{browser: b}
}

func (s *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /recipes", s.handleRecipes)
	mux.HandleFunc("POST /recipes", s.handleCreate)
	mux.HandleFunc("POST /recipes/delete", s.handleDelete)
}

// handleHome serves the start page. It is also the target of the hide button,
// which keeps the selected category.
func (s *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	p := s.browser.StartUp(r.Context())
	p.Selected = r.URL.Query().Get("category")
	p.HideAllRecipes()
	s.render(w, r, p)
}

func (s *Handler) handleRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("category") {
		s.render(w, r, s.browser.GetFilteredRecipes(r.Context(), q.Get("category")))
		return
	}
	p := s.browser.GetAllRecipes(r.Context())
	p.Selected = q.Get("selected")
	s.render(w, r, p)
}

func (s *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	p := s.browser.PostRecipe(r.Context(), NewRecipe{
		Title:    r.PostFormValue("title"),
		Link:     r.PostFormValue("link"),
		Author:   r.PostFormValue("author"),
		Category: r.PostFormValue("category"),
	})
	p.Selected = r.PostFormValue("selected")
	s.render(w, r, p)
}

func (s *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	p := s.browser.DeleteRecipe(r.Context(), r.PostFormValue("id"))
	p.Selected = r.PostFormValue("selected")
	s.render(w, r, p)
}

func (s *Handler) render(w http.ResponseWriter, r *http.Request, p *Page) {
	// buffer so a template failure can still become a clean 500
	var buf bytes.Buffer
	if err := RenderPage(&buf, p); err != nil {
		slog.ErrorContext(r.Context(), "page template execute error", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.ErrorContext(r.Context(), "failed to write page", "error", err)
	}
}
