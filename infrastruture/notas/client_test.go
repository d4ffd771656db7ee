package notas

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beka-birhanu/wired/domain"
	"github.com/beka-birhanu/wired/infrastruture/notas/notastest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, notes ...domain.Note) (*Client, *notastest.Server) {
	t.Helper()
	srv := notastest.NewServer(notes...)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/", Timeout: time.Second})
	require.NoError(t, err)
	return c, srv
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "  "})
	assert.ErrorIs(t, err, ErrEmptyBaseURL)
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("List empty collection", func(t *testing.T) {
		c, _ := newTestClient(t)

		notes, err := c.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("List decodes mongo ids", func(t *testing.T) {
		note := domain.Note{ID: "65a1b2c3d4e5f6a7b8c9d0e1", Title: "t", Description: "d"}
		c, _ := newTestClient(t, note)

		notes, err := c.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Note{note}, notes)
	})

	t.Run("Create, update and delete", func(t *testing.T) {
		c, srv := newTestClient(t)

		require.NoError(t, c.Create(ctx, domain.NoteInput{Title: "Olá", Description: "rede"}))
		notes, err := c.List(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		id := notes[0].ID
		assert.Equal(t, "Olá", notes[0].Title)

		require.NoError(t, c.Update(ctx, id, domain.NoteInput{Title: "Oi", Description: "neural"}))
		notes, err = c.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Oi", notes[0].Title)
		assert.Equal(t, "neural", notes[0].Description)

		require.NoError(t, c.Delete(ctx, id))
		notes, err = c.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)

		assert.Equal(t, []string{
			"POST /api/notas",
			"GET /api/notas",
			"PUT /api/notas/" + id,
			"GET /api/notas",
			"DELETE /api/notas/" + id,
			"GET /api/notas",
		}, srv.Calls())
	})

	t.Run("Error status becomes APIError", func(t *testing.T) {
		c, _ := newTestClient(t)

		err := c.Update(ctx, "missing", domain.NoteInput{Title: "a", Description: "b"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Contains(t, apiErr.Body, "nota não encontrada")
	})

	t.Run("Server failure on list", func(t *testing.T) {
		c, srv := newTestClient(t)
		srv.Fail(http.MethodGet, http.StatusServiceUnavailable)

		_, err := c.List(ctx)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	})

	t.Run("Empty id is rejected locally", func(t *testing.T) {
		c, srv := newTestClient(t)

		assert.ErrorIs(t, c.Delete(ctx, ""), ErrEmptyID)
		assert.ErrorIs(t, c.Update(ctx, "", domain.NoteInput{}), ErrEmptyID)
		assert.Empty(t, srv.Calls())
	})

	t.Run("Transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := NewClient(Config{BaseURL: url, Timeout: 200 * time.Millisecond})
		require.NoError(t, err)

		_, err = c.List(ctx)
		assert.Error(t, err)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}
