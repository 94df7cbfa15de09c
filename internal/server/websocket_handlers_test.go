package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestSocket(t *testing.T) *websocket.Conn {
	t.Helper()

	s := newTestServer(t)
	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scan"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readResponse(t *testing.T, conn *websocket.Conn) WebSocketScanResponse {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp WebSocketScanResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestWebSocketScan_Image(t *testing.T) {
	conn := dialTestSocket(t)

	req := WebSocketScanRequest{Type: "image", Image: symbolPNG(t)}
	require.NoError(t, conn.WriteJSON(req))

	first := readResponse(t, conn)
	assert.Equal(t, "processing", first.Status)
	assert.NotEmpty(t, first.RequestID)

	second := readResponse(t, conn)
	require.Equal(t, "completed", second.Status)
	require.NotNil(t, second.Result)
	assert.Equal(t, 34, second.Result.Dimension)
	assert.Equal(t, first.RequestID, second.RequestID)
}

func TestWebSocketScan_InvalidType(t *testing.T) {
	conn := dialTestSocket(t)

	require.NoError(t, conn.WriteJSON(WebSocketScanRequest{Type: "pdf"}))

	first := readResponse(t, conn)
	assert.Equal(t, "processing", first.Status)

	second := readResponse(t, conn)
	assert.Equal(t, "error", second.Status)
	assert.Equal(t, "invalid_request", second.ErrorType)
}

func TestWebSocketScan_BadJSON(t *testing.T) {
	conn := dialTestSocket(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	resp := readResponse(t, conn)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "invalid_request", resp.ErrorType)
}
