// Package notastest provides an in-memory stand-in for the remote notes API.
package notastest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/beka-birhanu/wired/domain"
	"github.com/gin-gonic/gin"
)

// Server serves /api/notas from memory and records every call as "METHOD /path".
type Server struct {
	*httptest.Server
	notes  []domain.Note
	nextID int
	calls  []string
	fail   map[string]int // HTTP method -> status to answer with.
	mu     sync.Mutex
}

// NewServer starts a Server holding notes. Close it when done.
func NewServer(notes ...domain.Note) *Server {
	s := &Server{
		notes: append([]domain.Note(nil), notes...),
		fail:  make(map[string]int),
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// Calls returns the recorded calls.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// ResetCalls forgets the recorded calls.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Notes returns the stored notes.
func (s *Server) Notes() []domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Note(nil), s.notes...)
}

// Fail makes every request with the given method answer with status. Zero clears it.
func (s *Server) Fail(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, method)
		return
	}
	s.fail[method] = status
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(s.record)

	api := r.Group("/api/notas")
	{
		api.GET("", s.list)
		api.POST("", s.create)
		api.PUT("/:id", s.update)
		api.DELETE("/:id", s.delete)
	}
	return r
}

func (s *Server) record(ctx *gin.Context) {
	s.mu.Lock()
	s.calls = append(s.calls, ctx.Request.Method+" "+ctx.Request.URL.Path)
	status, failing := s.fail[ctx.Request.Method]
	s.mu.Unlock()

	if failing {
		ctx.AbortWithStatusJSON(status, gin.H{"error": "falha simulada"})
		return
	}
	ctx.Next()
}

func (s *Server) list(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notes := s.notes
	if notes == nil {
		notes = []domain.Note{}
	}
	ctx.JSON(http.StatusOK, notes)
}

func (s *Server) create(ctx *gin.Context) {
	var in domain.NoteInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	note := domain.Note{ID: fmt.Sprintf("65f0c0ffee%014d", s.nextID), Title: in.Title, Description: in.Description}
	s.notes = append(s.notes, note)
	ctx.JSON(http.StatusCreated, note)
}

func (s *Server) update(ctx *gin.Context) {
	var in domain.NoteInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.notes {
		if s.notes[idx].ID == ctx.Param("id") {
			s.notes[idx].Title = in.Title
			s.notes[idx].Description = in.Description
			ctx.JSON(http.StatusOK, s.notes[idx])
			return
		}
	}
	ctx.JSON(http.StatusNotFound, gin.H{"error": "nota não encontrada"})
}

func (s *Server) delete(ctx *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.notes {
		if s.notes[idx].ID == ctx.Param("id") {
			s.notes = append(s.notes[:idx], s.notes[idx+1:]...)
			ctx.JSON(http.StatusOK, gin.H{"message": "nota deletada"})
			return
		}
	}
	ctx.JSON(http.StatusNotFound, gin.H{"error": "nota não encontrada"})
}
