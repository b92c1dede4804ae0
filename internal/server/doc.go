// Package server exposes decoded records over HTTP.
//
// The server is an output sink: every record it receives is broadcast
// as a JSON text message to all connected WebSocket clients on /ws.
// It also serves Prometheus metrics on /metrics and a liveness check
// on /healthz, and can advertise itself over mDNS so monitors on the
// local network find it without configuration.
//
// Slow WebSocket clients are disconnected rather than allowed to stall
// the broadcast path.
package server
