// Package board serves the note board pages.
package board

import (
	"github.com/beka-birhanu/wired/domain"
	"github.com/beka-birhanu/wired/service"
)

// NoteResponse is a note as sent to the browser.
type NoteResponse struct {
	ID          string `json:"id"`
	ShortID     string `json:"shortId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StateResponse is the JSON view of a board.
type StateResponse struct {
	Notes     []NoteResponse   `json:"notes"`
	Loading   bool             `json:"loading"`
	ShowForm  bool             `json:"showForm"`
	EditingID string           `json:"editingId,omitempty"`
	Form      domain.NoteInput `json:"form"`
	Notice    string           `json:"notice,omitempty"`
}

func newNoteResponses(notes []domain.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, NoteResponse{
			ID:          note.ID,
			ShortID:     note.ShortID(),
			Title:       note.Title,
			Description: note.Description,
		})
	}
	return out
}

func newStateResponse(s service.BoardState) StateResponse {
	resp := StateResponse{
		Notes:    newNoteResponses(s.Notes),
		Loading:  s.Loading,
		ShowForm: s.ShowForm,
		Form:     s.Form,
		Notice:   s.Notice,
	}
	if s.Editing != nil {
		resp.EditingID = s.Editing.ID
	}
	return resp
}
