// Package domain holds the note shape shared by the remote API, the board and the frontends.
package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 500

	shortIDLength = 6
)

var (
	ErrEmptyTitle       = errors.New("title is empty")
	ErrEmptyDescription = errors.New("description is empty")
)

// Note is a transmission stored by the remote API.
type Note struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts both "_id" and "id" as the identity field.
func (n *Note) UnmarshalJSON(data []byte) error {
	var raw struct {
		MongoID     string `json:"_id"`
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.ID = raw.MongoID
	if n.ID == "" {
		n.ID = raw.ID
	}
	n.Title = raw.Title
	n.Description = raw.Description
	return nil
}

// ShortID returns the label shown in a note header: the last six characters of the id, upper-cased.
func (n Note) ShortID() string {
	id := []rune(n.ID)
	if len(id) > shortIDLength {
		id = id[len(id)-shortIDLength:]
	}
	return strings.ToUpper(string(id))
}

// Input returns the editable fields of the note.
func (n Note) Input() NoteInput {
	return NoteInput{Title: n.Title, Description: n.Description}
}

// NoteInput is the body of a create or update request.
type NoteInput struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// Validate reports whether the input may be submitted.
// Whitespace-only fields count as empty.
func (in NoteInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// Clip truncates the fields to the form limits.
func (in NoteInput) Clip() NoteInput {
	return NoteInput{
		Title:       clip(in.Title, MaxTitleLength),
		Description: clip(in.Description, MaxDescriptionLength),
	}
}

func clip(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
