package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-zeromq/zmq4"

	"github.com/broyeztony/sheets/sheets"
)

// changeEvent is the payload published on the PUB socket for one
// changed cell, mirroring cellUpdate's websocket shape so both feeds
// agree on wire format.
type changeEvent struct {
	Sheet   string `json:"sheet"`
	Addr    string `json:"addr"`
	Raw     string `json:"raw"`
	Display string `json:"display"`
	Error   string `json:"error,omitempty"`
}

// Publisher republishes workbook changes on a zmq PUB socket: a
// []byte(topic), JSON-body two-frame message per changed cell, without
// the framing or HMAC signing a Jupyter-style wire protocol needs.
type Publisher struct {
	sock  zmq4.Socket
	topic string
}

// NewPublisher binds a PUB socket at addr (e.g. "tcp://127.0.0.1:5556")
// and registers it as an observer on wb. The returned cancel function
// deregisters the observer; callers are still responsible for closing
// the returned Publisher's socket via Close.
func NewPublisher(ctx context.Context, wb *sheets.Workbook, addr, topic string) (*Publisher, func(), error) {
	sock := zmq4.NewPub(ctx)
	if err := sock.Listen(addr); err != nil {
		return nil, nil, fmt.Errorf("transport: zmq listen %s: %w", addr, err)
	}
	p := &Publisher{sock: sock, topic: topic}
	cancel := wb.NotifyCellsChanged(p.publish)
	return p, cancel, nil
}

// Close releases the underlying socket.
func (p *Publisher) Close() error {
	return p.sock.Close()
}

func (p *Publisher) publish(wb *sheets.Workbook, changed []sheets.ChangedCell) {
	for _, c := range changed {
		evt := changeEvent{Sheet: c.Sheet, Addr: c.Addr}
		raw, _, _ := wb.CellContents(c.Sheet, c.Addr)
		evt.Raw = raw
		if v, err := wb.CellValue(c.Sheet, c.Addr); err == nil {
			evt.Display = v.Display()
			if v.IsError() {
				evt.Error = v.Display()
			}
		}
		body, err := json.Marshal(evt)
		if err != nil {
			log.Printf("transport: marshal change event: %v", err)
			continue
		}
		msg := zmq4.NewMsgFrom([]byte(p.topic), body)
		if err := p.sock.Send(msg); err != nil {
			log.Printf("transport: zmq publish failed: %v", err)
		}
	}
}
