package i

import (
	"context"

	"github.com/beka-birhanu/wired/domain"
)

// NotesAPI is the remote collection of notes. It owns storage and id assignment.
type NotesAPI interface {
	// List returns the whole collection.
	List(ctx context.Context) ([]domain.Note, error)

	// Create stores a new note. The server assigns its id.
	Create(ctx context.Context, in domain.NoteInput) error

	// Update replaces the title and description of the note with the given id.
	Update(ctx context.Context, id string, in domain.NoteInput) error

	// Delete removes the note with the given id.
	Delete(ctx context.Context, id string) error
}
