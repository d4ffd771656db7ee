package snakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/beka-birhanu/wired/api/viewer"
	"github.com/beka-birhanu/wired/game/snake"
	"github.com/beka-birhanu/wired/service"
	"github.com/beka-birhanu/wired/service/i"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

// Controller upgrades /ws/snake and bridges a viewer's snake session to the browser.
type Controller struct {
	viewers  *service.ViewerManager
	logger   i.Logger
	upgrader websocket.Upgrader
}

// NewController creates a snake Controller.
func NewController(vm *service.ViewerManager, logger i.Logger) (*Controller, error) {
	if vm == nil {
		return nil, errors.New("viewer manager is nil")
	}
	if logger == nil {
		return nil, service.ErrNilLogger
	}
	return &Controller{
		viewers: vm,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}, nil
}

// Register registers the websocket route.
func (c *Controller) Register(route *gin.RouterGroup) {
	route.GET("/ws/snake", c.serve)
}

// conn serializes writes on a websocket.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *conn) close(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// serve runs for as long as the socket is open. Key events are only read while it runs,
// and the socket is closed as soon as the board has loaded.
func (c *Controller) serve(ctx *gin.Context) {
	id, err := viewer.ID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	v, err := c.viewers.Viewer(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ws, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error(fmt.Sprintf("upgrading snake socket for viewer %s: %s", id, err))
		return
	}
	defer ws.Close()
	ws.SetReadLimit(maxMessageSize)
	out := &conn{ws: ws}

	session := v.Snake()
	board := v.Board()

	readDone := make(chan struct{})
	go c.readKeys(ws, v, readDone)

	if err := out.writeJSON(newFrameMessage(session.Snapshot())); err != nil {
		return
	}

	frames := session.Frames()
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				// Session stopped; wait for the loaded signal or the client to leave.
				frames = nil
				continue
			}
			if err := out.writeJSON(newFrameMessage(f)); err != nil {
				c.logger.Warning(fmt.Sprintf("writing frame to viewer %s: %s", id, err))
				return
			}
		case <-board.Loaded():
			if err := out.writeJSON(loadedMessage{Type: messageTypeLoaded}); err != nil {
				return
			}
			out.close(websocket.CloseNormalClosure, "loaded")
			c.logger.Info(fmt.Sprintf("snake socket for viewer %s closed after loading", id))
			return
		case <-readDone:
			return
		}
	}
}

// readKeys forwards key events to the session until the socket fails.
func (c *Controller) readKeys(ws *websocket.Conn, v *service.Viewer, done chan<- struct{}) {
	defer close(done)
	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.logger.Warning(fmt.Sprintf("discarding malformed message from viewer %s: %s", v.ID(), err))
			continue
		}
		if msg.Type != messageTypeKey {
			continue
		}

		if k := snake.ParseKey(msg.Key); k != snake.KeyUnknown {
			v.Snake().Input(k)
		}
	}
}
