// Package snakeapi streams a viewer's snake session over a websocket.
package snakeapi

import "github.com/beka-birhanu/wired/game/snake"

const (
	messageTypeKey    = "key"
	messageTypeFrame  = "frame"
	messageTypeLoaded = "loaded"
)

// clientMessage is sent by the browser on every key-down event.
type clientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// frameMessage carries one frame and its render grid.
type frameMessage struct {
	Type     string   `json:"type"`
	GridSize int      `json:"gridSize"`
	Cells    []string `json:"cells"`
	snake.Frame
}

// loadedMessage tells the browser that the board is ready.
type loadedMessage struct {
	Type string `json:"type"`
}

func newFrameMessage(f snake.Frame) frameMessage {
	return frameMessage{
		Type:     messageTypeFrame,
		GridSize: snake.GridSize,
		Cells:    CellClasses(f),
		Frame:    f,
	}
}

// CellClasses returns the CSS class of every grid cell in row-major order:
// "snake", "food" or "" for an empty cell.
func CellClasses(f snake.Frame) []string {
	cells := f.Cells()
	classes := make([]string, len(cells))
	for idx, cell := range cells {
		classes[idx] = cell.String()
	}
	return classes
}
