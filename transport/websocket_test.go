package transport_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/broyeztony/sheets/sheets"
	"github.com/broyeztony/sheets/transport"
)

func dialHub(t *testing.T, hub *transport.Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestHandleWebSocketSendsInitialSnapshot(t *testing.T) {
	wb := sheets.NewWorkbook()
	wb.NewSheet("Sheet1")
	require.NoError(t, wb.SetCellContents("Sheet1", "A1", strPtr("5")))

	hub, cancel := transport.NewHub(wb)
	defer cancel()

	conn, done := dialHub(t, hub)
	defer done()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Sheet, Addr, Display string
	}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "Sheet1", msg.Sheet)
	require.Equal(t, "A1", msg.Addr)
	require.Equal(t, "5", msg.Display)
}

func TestHandleWebSocketEditBroadcasts(t *testing.T) {
	wb := sheets.NewWorkbook()
	wb.NewSheet("Sheet1")

	hub, cancel := transport.NewHub(wb)
	defer cancel()

	conn, done := dialHub(t, hub)
	defer done()

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type": "edit", "sheet": "Sheet1", "addr": "A1", "value": "42",
	}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Sheet, Addr, Display string
	}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "Sheet1", msg.Sheet)
	require.Equal(t, "A1", msg.Addr)
	require.Equal(t, "42", msg.Display)
}

func strPtr(s string) *string { return &s }
