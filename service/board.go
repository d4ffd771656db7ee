package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/wired/domain"
	"github.com/beka-birhanu/wired/service/i"
)

const (
	DefaultLoadingDelay = 2 * time.Second

	noticeLoadFailed   = "ERRO AO CARREGAR NOTAS"
	noticeSaveFailed   = "ERRO AO SALVAR NOTA"
	noticeDeleteFailed = "ERRO AO DELETAR NOTA"

	minVisitors = 1000
	visitorSpan = 9999
)

var (
	ErrNilNotesAPI  = errors.New("notes api is nil")
	ErrNilLogger    = errors.New("logger is nil")
	ErrNoteNotFound = errors.New("note not found")
)

// BoardState is everything a view needs to render the board.
type BoardState struct {
	Notes    []domain.Note
	Loading  bool
	ShowForm bool
	Editing  *domain.Note // Nil when the form creates a new note.
	Form     domain.NoteInput
	Notice   string // Transient failure message; empty when there is none.
}

// BoardConfig holds the dependencies of a Board.
type BoardConfig struct {
	API          i.NotesAPI
	Logger       i.Logger
	LoadingDelay time.Duration // Zero means DefaultLoadingDelay; negative means no delay.
}

// Board keeps one viewer's copy of the remote note collection and its form state.
// Every successful mutation is followed by a full refetch; failures leave the list untouched.
type Board struct {
	api          i.NotesAPI
	logger       i.Logger
	loadingDelay time.Duration
	state        BoardState
	loaded       chan struct{}
	loadedOnce   sync.Once
	sync.RWMutex
}

// NewBoard creates a Board in the loading state.
func NewBoard(c BoardConfig) (*Board, error) {
	if c.API == nil {
		return nil, ErrNilNotesAPI
	}
	if c.Logger == nil {
		return nil, ErrNilLogger
	}

	delay := c.LoadingDelay
	if delay == 0 {
		delay = DefaultLoadingDelay
	}
	if delay < 0 {
		delay = 0
	}

	return &Board{
		api:          c.API,
		logger:       c.Logger,
		loadingDelay: delay,
		state:        BoardState{Loading: true},
		loaded:       make(chan struct{}),
	}, nil
}

// Load fetches the collection and then keeps the board in the loading state for the loading
// delay, even when the fetch failed. It returns the fetch error, or ctx.Err() if ctx ends
// during the delay, in which case the board stays loading.
func (b *Board) Load(ctx context.Context) error {
	fetchErr := b.Refresh(ctx)

	timer := time.NewTimer(b.loadingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	b.Lock()
	b.state.Loading = false
	b.Unlock()
	b.loadedOnce.Do(func() { close(b.loaded) })
	b.logger.Info("loading finished")

	return fetchErr
}

// Loaded is closed when the loading phase ends.
func (b *Board) Loaded() <-chan struct{} {
	return b.loaded
}

// Loading reports whether the board is still in the loading phase.
func (b *Board) Loading() bool {
	b.RLock()
	defer b.RUnlock()
	return b.state.Loading
}

// Refresh replaces the local list with the remote collection.
func (b *Board) Refresh(ctx context.Context) error {
	notes, err := b.api.List(ctx)
	if err != nil {
		b.fail(noticeLoadFailed, fmt.Sprintf("fetching notes: %s", err))
		return fmt.Errorf("refresh board: %w", err)
	}

	b.Lock()
	b.state.Notes = notes
	b.Unlock()
	b.logger.Info(fmt.Sprintf("fetched %d notes", len(notes)))
	return nil
}

// ToggleForm shows or hides the form. While editing it cancels the edit instead.
func (b *Board) ToggleForm() {
	b.Lock()
	defer b.Unlock()
	if b.state.Editing != nil {
		b.resetFormLocked()
		return
	}
	b.state.ShowForm = !b.state.ShowForm
}

// StartEdit opens the form filled with the note that has the given id.
func (b *Board) StartEdit(id string) error {
	b.Lock()
	defer b.Unlock()
	for _, note := range b.state.Notes {
		if note.ID == id {
			editing := note
			b.state.Editing = &editing
			b.state.Form = note.Input()
			b.state.ShowForm = true
			return nil
		}
	}
	return ErrNoteNotFound
}

// CancelEdit clears and hides the form.
func (b *Board) CancelEdit() {
	b.Lock()
	defer b.Unlock()
	b.resetFormLocked()
}

// SetForm stores a draft without submitting it.
func (b *Board) SetForm(in domain.NoteInput) {
	b.Lock()
	defer b.Unlock()
	b.state.Form = in.Clip()
}

// Submit creates a note, or updates the note being edited, and refetches the collection.
// A blank title or description is ignored silently: no request is sent and no notice is set,
// but the validation error is returned so callers can tell nothing happened.
func (b *Board) Submit(ctx context.Context, in domain.NoteInput) error {
	in = in.Clip()

	b.Lock()
	b.state.Form = in
	var editing *domain.Note
	if b.state.Editing != nil {
		note := *b.state.Editing
		editing = &note
	}
	b.Unlock()

	if err := in.Validate(); err != nil {
		return err
	}

	var err error
	if editing != nil {
		err = b.api.Update(ctx, editing.ID, in)
	} else {
		err = b.api.Create(ctx, in)
	}
	if err != nil {
		b.fail(noticeSaveFailed, fmt.Sprintf("saving note: %s", err))
		return fmt.Errorf("save note: %w", err)
	}

	b.Lock()
	b.resetFormLocked()
	b.Unlock()

	return b.Refresh(ctx)
}

// Delete removes the note with the given id and refetches the collection.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.api.Delete(ctx, id); err != nil {
		b.fail(noticeDeleteFailed, fmt.Sprintf("deleting note %s: %s", id, err))
		return fmt.Errorf("delete note: %w", err)
	}
	return b.Refresh(ctx)
}

// State returns a copy of the board state.
func (b *Board) State() BoardState {
	b.RLock()
	defer b.RUnlock()

	s := b.state
	s.Notes = make([]domain.Note, len(b.state.Notes))
	copy(s.Notes, b.state.Notes)
	if b.state.Editing != nil {
		editing := *b.state.Editing
		s.Editing = &editing
	}
	return s
}

// ConsumeNotice returns the pending notice and clears it.
func (b *Board) ConsumeNotice() string {
	b.Lock()
	defer b.Unlock()
	notice := b.state.Notice
	b.state.Notice = ""
	return notice
}

// Visitors returns the decorative visitor counter shown in the header.
func (b *Board) Visitors() int {
	return rand.Intn(visitorSpan) + minVisitors
}

func (b *Board) fail(notice, msg string) {
	b.logger.Error(msg)
	b.Lock()
	b.state.Notice = notice
	b.Unlock()
}

func (b *Board) resetFormLocked() {
	b.state.Form = domain.NoteInput{}
	b.state.Editing = nil
	b.state.ShowForm = false
}
