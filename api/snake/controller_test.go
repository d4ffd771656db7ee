package snakeapi_test

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/beka-birhanu/wired/api"
	"github.com/beka-birhanu/wired/api/board"
	"github.com/beka-birhanu/wired/api/i"
	snakeapi "github.com/beka-birhanu/wired/api/snake"
	"github.com/beka-birhanu/wired/api/viewer"
	"github.com/beka-birhanu/wired/infrastruture/notas"
	"github.com/beka-birhanu/wired/infrastruture/notas/notastest"
	"github.com/beka-birhanu/wired/infrastruture/token"
	"github.com/beka-birhanu/wired/logger"
	"github.com/beka-birhanu/wired/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	Type     string   `json:"type"`
	GridSize int      `json:"gridSize"`
	Cells    []string `json:"cells"`
	Score    int      `json:"score"`
	Running  bool     `json:"running"`
}

const testSecret = "snake-test-secret"

// newTestServer serves the board and snake routes against an in-memory notes API.
func newTestServer(t *testing.T, loadingDelay time.Duration) *httptest.Server {
	t.Helper()

	remote := notastest.NewServer()
	t.Cleanup(remote.Close)

	apiClient, err := notas.NewClient(notas.Config{BaseURL: remote.URL, Timeout: time.Second})
	require.NoError(t, err)

	vm, err := service.NewViewerManager(&service.ViewerManagerConfig{
		API:          apiClient,
		Logger:       logger.Discard(),
		LoadingDelay: loadingDelay,
		TickInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(vm.StopAll)

	tokens, err := token.NewJwtService(testSecret, "wired", 0)
	require.NoError(t, err)

	boardCtrl, err := board.NewController(vm, tokens, logger.Discard())
	require.NoError(t, err)
	snakeCtrl, err := snakeapi.NewController(vm, logger.Discard())
	require.NoError(t, err)

	engine, err := api.NewRouter(api.Config{
		GinMode:          gin.TestMode,
		Controllers:      []i.Controller{boardCtrl, snakeCtrl},
		ViewerMiddleware: viewer.Identify(tokens),
	}).Engine()
	require.NoError(t, err)

	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)
	return server
}

// visit opens the loading page and returns the viewer cookie it set.
func visit(t *testing.T, server *httptest.Server) *http.Cookie {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp, err := client.Get(server.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	for _, c := range jar.Cookies(u) {
		if c.Name == viewer.CookieName {
			return c
		}
	}
	t.Fatal("viewer cookie not set")
	return nil
}

func dial(t *testing.T, server *httptest.Server, cookie *http.Cookie) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/snake"
	header := http.Header{}
	if cookie != nil {
		header.Set("Cookie", cookie.String())
	}
	return websocket.DefaultDialer.Dial(wsURL, header)
}

func read(t *testing.T, ws *websocket.Conn) message {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg message
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func TestSnakeSocketRejectsUnknownViewers(t *testing.T) {
	server := newTestServer(t, time.Hour)

	t.Run("No cookie", func(t *testing.T) {
		_, resp, err := dial(t, server, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Forged cookie", func(t *testing.T) {
		cookie := &http.Cookie{Name: viewer.CookieName, Value: "8f14e45f-ceea-467f-a0e6-3b1b7c1b2f31"}
		_, resp, err := dial(t, server, cookie)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Unknown viewer", func(t *testing.T) {
		tokens, err := token.NewJwtService(testSecret, "wired", 0)
		require.NoError(t, err)
		value, err := tokens.Issue(uuid.New())
		require.NoError(t, err)

		_, resp, err := dial(t, server, &http.Cookie{Name: viewer.CookieName, Value: value})
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSnakeSocketStreamsFrames(t *testing.T) {
	server := newTestServer(t, time.Hour)
	cookie := visit(t, server)

	ws, _, err := dial(t, server, cookie)
	require.NoError(t, err)
	defer ws.Close()

	first := read(t, ws)
	assert.Equal(t, "frame", first.Type)
	assert.Equal(t, 15, first.GridSize)
	assert.Len(t, first.Cells, 15*15)
	assert.Equal(t, "snake", first.Cells[7*15+7])
	assert.Equal(t, "food", first.Cells[5*15+5])
	assert.False(t, first.Running)

	t.Run("Malformed messages are ignored", func(t *testing.T) {
		require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	})

	t.Run("Space starts the game", func(t *testing.T) {
		require.NoError(t, ws.WriteJSON(map[string]string{"type": "key", "key": " "}))

		msg := read(t, ws)
		for !msg.Running {
			msg = read(t, ws)
		}
		assert.Equal(t, "frame", msg.Type)
	})
}

func TestSnakeSocketClosesAfterLoading(t *testing.T) {
	server := newTestServer(t, 100*time.Millisecond)
	cookie := visit(t, server)

	ws, _, err := dial(t, server, cookie)
	require.NoError(t, err)
	defer ws.Close()

	msg := read(t, ws)
	for msg.Type == "frame" {
		msg = read(t, ws)
	}
	assert.Equal(t, "loaded", msg.Type)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = ws.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
