package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/beka-birhanu/wired/api/i"
	"github.com/beka-birhanu/wired/api/web"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Router manages the HTTP server and its controllers,
// including the middleware that identifies viewers.
type Router struct {
	addr             string
	baseURL          string
	ginMode          string
	controllers      []i.Controller
	viewerMiddleware gin.HandlerFunc
}

// Config holds configuration settings for creating a new Router instance.
type Config struct {
	Addr             string // Address to listen on
	BaseURL          string // Base URL for all routes
	GinMode          string // gin.ReleaseMode, gin.DebugMode or gin.TestMode; empty keeps gin's default
	Controllers      []i.Controller
	ViewerMiddleware gin.HandlerFunc // Runs before every controller route; optional
}

// NewRouter creates a new Router instance with the given configuration.
func NewRouter(config Config) *Router {
	return &Router{
		addr:             config.Addr,
		baseURL:          config.BaseURL,
		ginMode:          config.GinMode,
		controllers:      config.Controllers,
		viewerMiddleware: config.ViewerMiddleware,
	}
}

// Engine builds the gin engine: templates, static assets and every controller's routes.
func (r *Router) Engine() (*gin.Engine, error) {
	if r.ginMode != "" {
		gin.SetMode(r.ginMode)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	static, err := web.Static()
	if err != nil {
		return nil, err
	}

	router := gin.Default()
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", static)

	group := router.Group(r.baseURL)
	if r.viewerMiddleware != nil {
		group.Use(r.viewerMiddleware)
	}
	{
		for _, c := range r.controllers {
			c.Register(group)
		}
	}

	return router, nil
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (r *Router) Run(ctx context.Context) error {
	engine, err := r.Engine()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    r.addr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
