package board

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	snakeapi "github.com/beka-birhanu/wired/api/snake"
	"github.com/beka-birhanu/wired/api/viewer"
	"github.com/beka-birhanu/wired/domain"
	"github.com/beka-birhanu/wired/game/snake"
	"github.com/beka-birhanu/wired/service"
	"github.com/beka-birhanu/wired/service/i"
	"github.com/gin-gonic/gin"
)

const (
	requestTimeout = 15 * time.Second
	dateLayout     = "02/01/06"
)

// Controller serves the loading page and the board pages.
type Controller struct {
	viewers *service.ViewerManager
	tokens  i.ViewerTokenizer
	logger  i.Logger
	base    string // Path of the router group, without a trailing slash.
}

// NewController creates a board Controller.
func NewController(vm *service.ViewerManager, tokens i.ViewerTokenizer, logger i.Logger) (*Controller, error) {
	if vm == nil {
		return nil, errors.New("viewer manager is nil")
	}
	if tokens == nil {
		return nil, errors.New("viewer tokenizer is nil")
	}
	if logger == nil {
		return nil, service.ErrNilLogger
	}
	return &Controller{viewers: vm, tokens: tokens, logger: logger}, nil
}

// Register registers the board routes.
func (c *Controller) Register(route *gin.RouterGroup) {
	c.base = strings.TrimSuffix(route.BasePath(), "/")
	route.GET("/", c.loading)

	board := route.Group("/board")
	{
		board.GET("", c.board)
		board.GET("/state", c.state)
		board.POST("/form/toggle", c.toggleForm)
		board.POST("/form/cancel", c.cancelEdit)
		board.POST("/notes", c.submit)
		board.GET("/notes/:id/edit", c.startEdit)
		board.POST("/notes/:id/delete", c.delete)
	}
}

// loading starts a fresh viewer and renders the loading screen.
// A previous viewer of the same browser is discarded.
func (c *Controller) loading(ctx *gin.Context) {
	if id, err := viewer.ID(ctx); err == nil {
		c.viewers.Close(id)
	}

	v, err := c.viewers.NewViewer()
	if err != nil {
		c.logger.Error(fmt.Sprintf("creating viewer: %s", err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not start viewer"})
		return
	}
	if err := viewer.SetID(ctx, c.tokens, v.ID()); err != nil {
		c.viewers.Close(v.ID())
		c.logger.Error(fmt.Sprintf("issuing viewer token: %s", err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not start viewer"})
		return
	}

	frame := v.Snake().Snapshot()
	ctx.HTML(http.StatusOK, "loading.tmpl", gin.H{
		"Base":     c.base,
		"GridSize": snake.GridSize,
		"Cells":    snakeapi.CellClasses(frame),
		"Score":    frame.Score,
		"Running":  frame.Running,
	})
}

// board renders the note list. Viewers still loading are sent back to the loading screen.
func (c *Controller) board(ctx *gin.Context) {
	v, ok := c.viewer(ctx)
	if !ok {
		return
	}

	b := v.Board()
	if b.Loading() {
		ctx.Redirect(http.StatusSeeOther, c.path("/"))
		return
	}

	notice := b.ConsumeNotice()
	s := b.State()
	editingID := ""
	if s.Editing != nil {
		editingID = s.Editing.ID
	}

	ctx.HTML(http.StatusOK, "board.tmpl", gin.H{
		"Base":      c.base,
		"Notes":     newNoteResponses(s.Notes),
		"ShowForm":  s.ShowForm,
		"EditingID": editingID,
		"Form":      s.Form,
		"Notice":    notice,
		"Visitors":  b.Visitors(),
		"Date":      time.Now().Format(dateLayout),
		"TitleMax":  domain.MaxTitleLength,
		"DescMax":   domain.MaxDescriptionLength,
	})
}

func (c *Controller) state(ctx *gin.Context) {
	v, err := c.lookup(ctx)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, newStateResponse(v.Board().State()))
}

func (c *Controller) toggleForm(ctx *gin.Context) {
	v, ok := c.viewer(ctx)
	if !ok {
		return
	}
	v.Board().ToggleForm()
	ctx.Redirect(http.StatusSeeOther, c.path("/board"))
}

func (c *Controller) cancelEdit(ctx *gin.Context) {
	v, ok := c.viewer(ctx)
	if !ok {
		return
	}
	v.Board().CancelEdit()
	ctx.Redirect(http.StatusSeeOther, c.path("/board"))
}

func (c *Controller) startEdit(ctx *gin.Context) {
	v, ok := c.viewer(ctx)
	if !ok {
		return
	}
	if err := v.Board().StartEdit(ctx.Param("id")); err != nil {
		c.logger.Warning(fmt.Sprintf("edit of unknown note %s", ctx.Param("id")))
	}
	ctx.Redirect(http.StatusSeeOther, c.path("/board"))
}

// submit creates or updates a note. Blank fields are dropped without a message.
func (c *Controller) submit(ctx *gin.Context) {
	v, ok := c.viewer(ctx)
	if !ok {
		return
	}

	var request domain.NoteInput
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()
	if err := v.Board().Submit(reqCtx, request); err != nil && !isValidationError(err) {
		c.logger.Error(fmt.Sprintf("viewer %s: %s", v.ID(), err))
	}
	ctx.Redirect(http.StatusSeeOther, c.path("/board"))
}

func (c *Controller) delete(ctx *gin.Context) {
	v, ok := c.viewer(ctx)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), requestTimeout)
	defer cancel()
	if err := v.Board().Delete(reqCtx, ctx.Param("id")); err != nil {
		c.logger.Error(fmt.Sprintf("viewer %s: %s", v.ID(), err))
	}
	ctx.Redirect(http.StatusSeeOther, c.path("/board"))
}

// viewer resolves the viewer of the request or redirects to the loading screen.
func (c *Controller) viewer(ctx *gin.Context) (*service.Viewer, bool) {
	v, err := c.lookup(ctx)
	if err != nil {
		ctx.Redirect(http.StatusSeeOther, c.path("/"))
		return nil, false
	}
	return v, true
}

// path prefixes p with the group base path.
func (c *Controller) path(p string) string {
	return c.base + p
}

func (c *Controller) lookup(ctx *gin.Context) (*service.Viewer, error) {
	id, err := viewer.ID(ctx)
	if err != nil {
		return nil, err
	}
	return c.viewers.Viewer(id)
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrEmptyTitle) || errors.Is(err, domain.ErrEmptyDescription)
}
