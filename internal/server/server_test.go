package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SergeyKa2021/rtl-433/internal/config"
	"github.com/SergeyKa2021/rtl-433/internal/device"
)

func testRecord() *device.Record {
	return &device.Record{
		Time:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Model:        "RST-Temperature",
		ID:           5,
		Channel:      3,
		BatteryOK:    1,
		TemperatureC: 24.8,
		MIC:          "CRC",
	}
}

func TestHubBroadcastReachesClient(t *testing.T) {
	h := newHub()
	go h.run()
	defer h.stop()

	srv := httptest.NewServer(http.HandlerFunc(h.serveWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Client registration is asynchronous; keep offering the message
	// until the client sees it.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		payload, _ := json.Marshal(testRecord())
		for {
			select {
			case h.broadcast <- payload:
			case <-stop:
				return
			}
			select {
			case <-time.After(10 * time.Millisecond):
			case <-stop:
				return
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Errorf("message type = %d, want text", msgType)
	}

	var rec device.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("broadcast is not a record: %v", err)
	}
	if rec.Model != "RST-Temperature" || rec.TemperatureC != 24.8 {
		t.Errorf("record = %+v", rec)
	}
}

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	s := New(config.ServerConfig{Addr: "127.0.0.1:0"})

	// The hub is not running; streaming stays best effort and Publish
	// must return immediately regardless.
	done := make(chan error, 1)
	go func() {
		var err error
		for i := 0; i < 100 && err == nil; i++ {
			err = s.Publish(testRecord())
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Publish: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked with no stream clients")
	}
}
