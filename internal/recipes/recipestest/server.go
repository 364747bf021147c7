// Package recipestest provides an in-memory stand-in for the recipe REST API.
package recipestest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"recipebrowser/internal/recipes"

	"github.com/gorilla/mux"
)

// Server behaves like a conventional JSON resource collection mounted at /recipes.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	items   []recipes.Recipe
	fail    map[string]int // "METHOD" -> status to answer with
	created []recipes.Recipe
	deleted []string
}

// NewServer starts a fake API seeded with list. Close it when done.
func NewServer(list ...recipes.Recipe) *Server {
	s := &Server{
		items: append([]recipes.Recipe(nil), list...),
		fail:  map[string]int{},
	}
	r := mux.NewRouter()
	r.HandleFunc("/recipes", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/recipes", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/recipes/{id}", s.handleDelete).Methods(http.MethodDelete)
	s.Server = httptest.NewServer(r)
	return s
}

// CollectionURL is the address of the /recipes collection.
func (s *Server) CollectionURL() string {
	return s.URL + "/recipes"
}

// Fail makes every request with method answer with status until cleared with status 0.
func (s *Server) Fail(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, method)
		return
	}
	s.fail[method] = status
}

// Items returns a copy of the current collection.
func (s *Server) Items() []recipes.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recipes.Recipe, len(s.items))
	copy(out, s.items)
	return out
}

// Created lists the recipes received through POST, in arrival order.
func (s *Server) Created() []recipes.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recipes.Recipe(nil), s.created...)
}

// Deleted lists the ids removed through DELETE, in arrival order.
func (s *Server) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func (s *Server) failed(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	status, ok := s.fail[r.Method]
	s.mu.Unlock()
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte("{}"))
	return true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.Items())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, r) {
		return
	}
	var recipe recipes.Recipe
	if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.items = append(s.items, recipe)
	s.created = append(s.created, recipe)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, recipe)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.failed(w, r) {
		return
	}
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.deleted = append(s.deleted, id)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{}"))
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("{}"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
