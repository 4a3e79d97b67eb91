// Package transport carries workbook change notifications to the
// outside world: a websocket broadcaster for browser clients and a zmq
// PUB socket for anything that wants a language-agnostic feed. Both
// register as ordinary observers via (*sheets.Workbook).NotifyCellsChanged
// rather than being special-cased by the workbook itself.
package transport

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/broyeztony/sheets/sheets"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// cellUpdate is the wire shape pushed to every websocket client, for
// both the initial snapshot and incremental change batches.
type cellUpdate struct {
	Type    string `json:"type"`
	Sheet   string `json:"sheet"`
	Addr    string `json:"addr"`
	Raw     string `json:"raw"`
	Display string `json:"display"`
	Error   string `json:"error,omitempty"`
}

// editRequest is what a browser client sends to mutate a cell.
type editRequest struct {
	Type  string `json:"type"`
	Sheet string `json:"sheet"`
	Addr  string `json:"addr"`
	Value string `json:"value"`
}

// Hub broadcasts a workbook's changes to every connected websocket
// client, addressed by sheet name rather than one implicit sheet per
// request. Mu guards every call into Workbook: the workbook itself is
// not safe for concurrent use, so every exported method here, and
// any other mutating caller sharing this Hub's Workbook, must hold Mu.
type Hub struct {
	Workbook *sheets.Workbook
	Mu       sync.Mutex

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool
}

// NewHub wires a Hub to wb's change notifications and returns it ready
// to serve. The returned cancel func deregisters the observer.
func NewHub(wb *sheets.Workbook) (*Hub, func()) {
	h := &Hub{
		Workbook: wb,
		clients:  make(map[*websocket.Conn]bool),
	}
	cancel := wb.NotifyCellsChanged(h.broadcast)
	return h, cancel
}

func (h *Hub) addClient(conn *websocket.Conn) {
	h.clientsMu.Lock()
	h.clients[conn] = true
	h.clientsMu.Unlock()
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.clientsMu.Lock()
	delete(h.clients, conn)
	h.clientsMu.Unlock()
	conn.Close()
}

func (h *Hub) writeAll(msg cellUpdate) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients {
		if err := client.WriteJSON(msg); err != nil {
			log.Printf("transport: websocket write failed: %v", err)
			client.Close()
			delete(h.clients, client)
		}
	}
}

// broadcast is the observer callback, registered via NotifyCellsChanged.
// It runs synchronously inside whatever call produced the change, with
// Mu already held by that caller (HandleWebSocket's read loop, or any
// other mutator sharing this Hub).
func (h *Hub) broadcast(wb *sheets.Workbook, changed []sheets.ChangedCell) {
	for _, c := range changed {
		h.writeAll(h.updateFor(wb, c.Sheet, c.Addr))
	}
}

func (h *Hub) updateFor(wb *sheets.Workbook, sheetName, addr string) cellUpdate {
	raw, _, _ := wb.CellContents(sheetName, addr)
	msg := cellUpdate{Type: "cell_updated", Sheet: sheetName, Addr: addr, Raw: raw}
	v, err := wb.CellValue(sheetName, addr)
	if err != nil {
		msg.Error = err.Error()
		return msg
	}
	if v.IsError() {
		msg.Error = v.Display()
	}
	msg.Display = v.Display()
	return msg
}

// HandleWebSocket upgrades r and serves one client's connection: an
// initial full snapshot of every sheet, then a read loop applying
// "edit" requests and relying on the registered broadcast observer to
// push the resulting changes back out to every connected client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("transport: upgrade error: %v", err)
		return
	}
	h.addClient(conn)
	defer h.removeClient(conn)

	h.Mu.Lock()
	h.sendSnapshot(conn)
	h.Mu.Unlock()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req editRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			log.Printf("transport: bad request: %v", err)
			continue
		}
		if req.Type != "edit" {
			continue
		}
		h.Mu.Lock()
		newText := req.Value
		if err := h.Workbook.SetCellContents(req.Sheet, req.Addr, &newText); err != nil {
			log.Printf("transport: set %s!%s failed: %v", req.Sheet, req.Addr, err)
		}
		h.Mu.Unlock()
	}
}

// sendSnapshot pushes every non-empty cell of every sheet to conn.
// Callers must hold Mu.
func (h *Hub) sendSnapshot(conn *websocket.Conn) {
	for _, name := range h.Workbook.ListSheets() {
		contents, err := h.Workbook.CellContentsMap(name)
		if err != nil {
			continue
		}
		for addr := range contents {
			msg := h.updateFor(h.Workbook, name, addr)
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("transport: snapshot write failed: %v", err)
				return
			}
		}
	}
}
