// Package ui implements the interactive terminal monitor.
//
// The monitor subscribes to a stream server's WebSocket feed and shows
// decoded sensor records in a live table. It is a Bubble Tea program:
// the WebSocket reader feeds records to the model as messages, and the
// model keeps a bounded history of the most recent readings.
package ui
