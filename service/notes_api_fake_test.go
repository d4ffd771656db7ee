package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/beka-birhanu/wired/domain"
)

var errNetwork = errors.New("network unreachable")

// fakeNotesAPI is an in-memory i.NotesAPI that records calls and can fail on demand.
type fakeNotesAPI struct {
	notes  []domain.Note
	nextID int
	calls  []string
	fail   map[string]bool // Operation name -> fail next calls.
	sync.Mutex
}

func newFakeNotesAPI(notes ...domain.Note) *fakeNotesAPI {
	return &fakeNotesAPI{notes: notes, fail: map[string]bool{}}
}

func (f *fakeNotesAPI) record(op string) error {
	f.calls = append(f.calls, op)
	if f.fail[op] {
		return errNetwork
	}
	return nil
}

func (f *fakeNotesAPI) setFail(op string, fail bool) {
	f.Lock()
	defer f.Unlock()
	f.fail[op] = fail
}

func (f *fakeNotesAPI) Calls() []string {
	f.Lock()
	defer f.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeNotesAPI) List(ctx context.Context) ([]domain.Note, error) {
	f.Lock()
	defer f.Unlock()
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return append([]domain.Note(nil), f.notes...), nil
}

func (f *fakeNotesAPI) Create(ctx context.Context, in domain.NoteInput) error {
	f.Lock()
	defer f.Unlock()
	if err := f.record("create"); err != nil {
		return err
	}
	f.nextID++
	f.notes = append(f.notes, domain.Note{ID: fmt.Sprintf("n%d", f.nextID), Title: in.Title, Description: in.Description})
	return nil
}

func (f *fakeNotesAPI) Update(ctx context.Context, id string, in domain.NoteInput) error {
	f.Lock()
	defer f.Unlock()
	if err := f.record("update"); err != nil {
		return err
	}
	for idx := range f.notes {
		if f.notes[idx].ID == id {
			f.notes[idx].Title = in.Title
			f.notes[idx].Description = in.Description
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeNotesAPI) Delete(ctx context.Context, id string) error {
	f.Lock()
	defer f.Unlock()
	if err := f.record("delete"); err != nil {
		return err
	}
	for idx := range f.notes {
		if f.notes[idx].ID == id {
			f.notes = append(f.notes[:idx], f.notes[idx+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}
