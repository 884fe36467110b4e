package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/hackz-valentine-back/internal/model"
	"github.com/kyiku/hackz-valentine-back/internal/session"
)

func newWSServer(t *testing.T, f *fixture) *httptest.Server {
	t.Helper()
	e := echo.New()
	h := NewWebSocketHandler(f.sessions, f.catalog, nil, nil)
	e.GET("/ws", h.Connect)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

// readUntil reads messages until one has the wanted type.
func readUntil(t *testing.T, conn *gws.Conn, msgType string) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg["type"] == msgType {
			return msg
		}
	}
}

func TestWebSocketHandler_Connect(t *testing.T) {
	f := newFixture()
	v, id := f.visitorAt(model.StageQuestion)
	srv := newWSServer(t, f)

	header := http.Header{}
	header.Set("Cookie", session.CookieName+"="+id)
	conn, resp, err := gws.DefaultDialer.Dial(wsURL(srv), header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	heart := readUntil(t, conn, "heart")
	assert.NotEmpty(t, heart["id"])

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	readUntil(t, conn, "pong")

	require.NoError(t, conn.WriteJSON(evadeBody("render")))
	placement := readUntil(t, conn, "evade")
	assert.Equal(t, 34.0, placement["left"])
	assert.Equal(t, 34.0, placement["top"])
	assert.Equal(t, 1, v.Placer.Attempts())
}

func TestWebSocketHandler_Connect_NoSession(t *testing.T) {
	f := newFixture()
	srv := newWSServer(t, f)

	_, resp, err := gws.DefaultDialer.Dial(wsURL(srv), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
