package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/beka-birhanu/wired/api"
	"github.com/beka-birhanu/wired/api/board"
	api_i "github.com/beka-birhanu/wired/api/i"
	snakeapi "github.com/beka-birhanu/wired/api/snake"
	"github.com/beka-birhanu/wired/api/viewer"
	"github.com/beka-birhanu/wired/config"
	"github.com/beka-birhanu/wired/infrastruture/notas"
	"github.com/beka-birhanu/wired/infrastruture/token"
	"github.com/beka-birhanu/wired/logger"
	"github.com/beka-birhanu/wired/service"
	"github.com/beka-birhanu/wired/service/i"
	"github.com/gin-gonic/gin"
)

// Global variables for dependencies
var (
	notesAPI        i.NotesAPI
	viewerManager   *service.ViewerManager
	viewerTokenizer i.ViewerTokenizer
	boardController api_i.Controller
	snakeController api_i.Controller
	router          *api.Router
	appLogger       *logger.Logger
)

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initNotesAPI() {
	var err error
	notesAPI, err = notas.NewClient(notas.Config{
		BaseURL: config.Envs.NotesAPIURL,
		Timeout: config.Envs.NotesAPITimeout,
		Logger:  newLogger("NOTAS", config.ColorPurple),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating notes api client: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Notes api client initialized for %s", config.Envs.NotesAPIURL))
}

func initViewerManager() {
	var err error
	viewerManager, err = service.NewViewerManager(&service.ViewerManagerConfig{
		API:          notesAPI,
		Logger:       newLogger("VIEWERS", config.ColorCyan),
		LoadingDelay: config.Envs.LoadingDelay,
		TickInterval: config.Envs.SnakeTick,
		TTL:          config.Envs.ViewerTTL,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating viewer manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Viewer manager initialized")
}

func initViewerTokenizer() {
	secret := config.Envs.ViewerSecret
	if secret == "" {
		bytes := make([]byte, 32)
		if _, err := rand.Read(bytes); err != nil {
			appLogger.Error(fmt.Sprintf("Generating viewer secret: %v", err))
			os.Exit(1)
		}
		secret = base64.URLEncoding.EncodeToString(bytes)
		appLogger.Warning("VIEWER_SECRET not set; viewer cookies will not survive a restart")
	}

	var err error
	viewerTokenizer, err = token.NewJwtService(secret, "wired", viewer.TokenTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating viewer tokenizer: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Viewer tokenizer initialized")
}

func initControllers() {
	var err error
	boardController, err = board.NewController(viewerManager, viewerTokenizer, newLogger("BOARD", config.ColorBlue))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating board controller: %v", err))
		os.Exit(1)
	}

	snakeController, err = snakeapi.NewController(viewerManager, newLogger("SNAKE", config.ColorMagenta))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating snake controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Controllers initialized")
}

func initRouter() {
	router = api.NewRouter(api.Config{
		Addr:             fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.HTTPPort),
		BaseURL:          "/",
		GinMode:          config.Envs.GinMode,
		Controllers:      []api_i.Controller{boardController, snakeController},
		ViewerMiddleware: viewer.Identify(viewerTokenizer),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	initNotesAPI()
	initViewerManager()
	defer viewerManager.StopAll()
	go viewerManager.Run(ctx)

	initViewerTokenizer()
	initControllers()
	gin.ForceConsoleColor()
	initRouter()

	appLogger.Info(fmt.Sprintf("Serving on %s:%v", config.Envs.HostIP, config.Envs.HTTPPort))
	if err := router.Run(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Running server: %v", err))
		viewerManager.StopAll()
		os.Exit(1)
	}
	appLogger.Info("Server stopped")
}
