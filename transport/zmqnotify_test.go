package transport_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/stretchr/testify/require"

	"github.com/broyeztony/sheets/sheets"
	"github.com/broyeztony/sheets/transport"
)

func text(s string) *string { return &s }

func TestPublisherPublishesChangedCells(t *testing.T) {
	ctx, cancelCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelCtx()

	wb := sheets.NewWorkbook()
	_, _, err := wb.NewSheet("Sheet1")
	require.NoError(t, err)

	const addr = "tcp://127.0.0.1:55671"
	pub, cancel, err := transport.NewPublisher(ctx, wb, addr, "sheets")
	require.NoError(t, err)
	defer pub.Close()
	defer cancel()

	sub := zmq4.NewSub(ctx)
	defer sub.Close()
	require.NoError(t, sub.Dial(addr))
	require.NoError(t, sub.SetOption(zmq4.OptionSubscribe, ""))
	time.Sleep(200 * time.Millisecond) // let the subscription take effect

	require.NoError(t, wb.SetCellContents("Sheet1", "A1", text("5")))

	msg, err := sub.Recv()
	require.NoError(t, err)
	require.Len(t, msg.Frames, 2)

	var evt struct {
		Sheet   string `json:"sheet"`
		Addr    string `json:"addr"`
		Raw     string `json:"raw"`
		Display string `json:"display"`
	}
	require.NoError(t, json.Unmarshal(msg.Frames[1], &evt))
	require.Equal(t, "Sheet1", evt.Sheet)
	require.Equal(t, "A1", evt.Addr)
	require.Equal(t, "5", evt.Display)
}
