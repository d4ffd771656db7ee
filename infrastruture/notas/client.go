// Package notas talks to the remote notes API over HTTP.
package notas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/beka-birhanu/wired/domain"
	"github.com/beka-birhanu/wired/logger"
	"github.com/beka-birhanu/wired/service/i"
	"github.com/go-resty/resty/v2"
)

const (
	collectionPath = "/api/notas"
	notePath       = "/api/notas/{id}"

	defaultTimeout = 10 * time.Second
)

var (
	ErrEmptyBaseURL = errors.New("notes api base url is empty")
	ErrEmptyID      = errors.New("note id is empty")
)

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notes api responded %d %s: %s", e.Status, http.StatusText(e.Status), e.Body)
}

// Config holds the settings of a Client.
type Config struct {
	BaseURL string        // Scheme and host of the API, e.g. https://notas-compartilhadas.onrender.com
	Timeout time.Duration // Per-request timeout. Zero means 10s.
	Logger  i.Logger
}

// Client implements i.NotesAPI.
type Client struct {
	http   *resty.Client
	logger i.Logger
}

var _ i.NotesAPI = &Client{}

// NewClient creates a Client for the API at c.BaseURL.
func NewClient(c Config) (*Client, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, ErrEmptyBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Logger == nil {
		c.Logger = logger.Discard()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(c.BaseURL, "/")).
		SetTimeout(c.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		logger: c.Logger,
	}, nil
}

// List implements i.NotesAPI.
func (c *Client) List(ctx context.Context) ([]domain.Note, error) {
	var notes []domain.Note

	c.logger.Info("sending list request")
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&notes).
		Get(collectionPath)
	if err := c.check("list", resp, err); err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("list request success: %d notes", len(notes)))
	return notes, nil
}

// Create implements i.NotesAPI.
func (c *Client) Create(ctx context.Context, in domain.NoteInput) error {
	c.logger.Info(fmt.Sprintf("sending create request: %q", in.Title))
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(in).
		Post(collectionPath)
	if err := c.check("create", resp, err); err != nil {
		return err
	}

	c.logger.Info(fmt.Sprintf("create request success: %q", in.Title))
	return nil
}

// Update implements i.NotesAPI.
func (c *Client) Update(ctx context.Context, id string, in domain.NoteInput) error {
	if id == "" {
		return ErrEmptyID
	}

	c.logger.Info(fmt.Sprintf("sending update request for note %s", id))
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetBody(in).
		Put(notePath)
	if err := c.check("update", resp, err); err != nil {
		return err
	}

	c.logger.Info(fmt.Sprintf("update request success for note %s", id))
	return nil
}

// Delete implements i.NotesAPI.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	c.logger.Info(fmt.Sprintf("sending delete request for note %s", id))
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Delete(notePath)
	if err := c.check("delete", resp, err); err != nil {
		return err
	}

	c.logger.Info(fmt.Sprintf("delete request success for note %s", id))
	return nil
}

// check turns transport failures and error statuses into errors and logs them.
func (c *Client) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Error(fmt.Sprintf("%s request failed: %s", op, err))
		return fmt.Errorf("%s notes: %w", op, err)
	}

	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
		c.logger.Error(fmt.Sprintf("%s request failed: %s", op, apiErr))
		return fmt.Errorf("%s notes: %w", op, apiErr)
	}

	return nil
}
