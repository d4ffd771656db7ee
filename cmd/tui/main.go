package main

import (
	"fmt"
	"os"

	"github.com/beka-birhanu/wired/config"
	"github.com/beka-birhanu/wired/infrastruture/notas"
	"github.com/beka-birhanu/wired/logger"
	"github.com/beka-birhanu/wired/service"
	"github.com/beka-birhanu/wired/tui"
	tea "github.com/charmbracelet/bubbletea"
)

const logFile = "wired-tui.log"

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	// The terminal belongs to the UI; log lines go to a file.
	f, err := tea.LogToFile(logFile, "")
	if err != nil {
		fail("Opening log file: %v", err)
	}
	defer f.Close()

	notesLogger, err := logger.New("NOTAS", config.ColorPurple, f)
	if err != nil {
		fail("Creating notes logger: %v", err)
	}
	viewerLogger, err := logger.New("VIEWERS", config.ColorCyan, f)
	if err != nil {
		fail("Creating viewer logger: %v", err)
	}

	client, err := notas.NewClient(notas.Config{
		BaseURL: config.Envs.NotesAPIURL,
		Timeout: config.Envs.NotesAPITimeout,
		Logger:  notesLogger,
	})
	if err != nil {
		fail("Creating notes api client: %v", err)
	}

	vm, err := service.NewViewerManager(&service.ViewerManagerConfig{
		API:          client,
		Logger:       viewerLogger,
		LoadingDelay: config.Envs.LoadingDelay,
		TickInterval: config.Envs.SnakeTick,
	})
	if err != nil {
		fail("Creating viewer manager: %v", err)
	}
	defer vm.StopAll()

	v, err := vm.NewViewer()
	if err != nil {
		fail("Creating viewer: %v", err)
	}

	model, err := tui.New(tui.Config{
		Board:          v.Board(),
		Session:        v.Snake(),
		RequestTimeout: config.Envs.NotesAPITimeout,
	})
	if err != nil {
		fail("Creating terminal ui: %v", err)
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		vm.StopAll()
		fail("Running terminal ui: %v", err)
	}
}
