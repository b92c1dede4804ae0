package ui

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SergeyKa2021/rtl-433/internal/device"
)

const dialTimeout = 10 * time.Second

// Feed reads decoded records from a stream server's WebSocket.
type Feed struct {
	url  string
	conn *websocket.Conn
}

// NewFeed prepares a feed for the given ws:// URL. No connection is
// made until Connect.
func NewFeed(url string) *Feed {
	return &Feed{url: url}
}

// Connect dials the stream server.
func (f *Feed) Connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(f.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", f.url, err)
	}
	f.conn = conn
	return nil
}

// Next blocks until the server sends the next record.
func (f *Feed) Next() (*device.Record, error) {
	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("stream read failed: %w", err)
		}

		var rec device.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			// Tolerate unknown message shapes from newer servers.
			continue
		}
		return &rec, nil
	}
}

// Close shuts the connection down.
func (f *Feed) Close() error {
	if f.conn == nil {
		return nil
	}
	return f.conn.Close()
}
