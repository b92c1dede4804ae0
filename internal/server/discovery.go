package server

import (
	"context"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"
)

// DefaultDiscoverTimeout bounds how long Discover browses for stream
// servers on the local network.
const DefaultDiscoverTimeout = 5 * time.Second

// Discover browses mDNS for advertised stream servers and returns
// their WebSocket URLs. An empty slice means none answered within the
// timeout.
func Discover(ctx context.Context, timeout time.Duration) ([]string, error) {
	if timeout <= 0 {
		timeout = DefaultDiscoverTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var urls []string
	collected := make(chan struct{})

	go func() {
		defer close(collected)
		for entry := range entries {
			if len(entry.AddrIPv4) == 0 {
				continue
			}
			urls = append(urls, fmt.Sprintf("ws://%s:%d/ws", entry.AddrIPv4[0], entry.Port))
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-collected

	return urls, nil
}
