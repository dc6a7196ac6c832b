package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/connection"
	"github.com/t1s-tools/lan865x-go/pkg/control"
	"github.com/t1s-tools/lan865x-go/pkg/discovery"
	"github.com/t1s-tools/lan865x-go/pkg/regio"
)

type connectOptions struct {
	Address  string
	Attempts int
	Backoff  *connection.Backoff
	Indirect regio.IndirectConfig
}

// connect dials the device, retrying transport failures with backoff. An
// identity mismatch is not retried.
func connect(ctx context.Context, opts connectOptions) (*control.Client, error) {
	var client *control.Client
	err := connection.Retry(ctx, connection.RetryConfig{
		Attempts: opts.Attempts,
		Backoff:  opts.Backoff,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			log.Printf("Connect attempt %d failed: %v (retrying in %s)", attempt, err, delay)
		},
	}, func(ctx context.Context) error {
		c, err := control.Dial(ctx, opts.Address, opts.Indirect)
		if err != nil {
			if errors.Is(err, regio.ErrIdentityMismatch) {
				return connection.Permanent(err)
			}
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// browse finds a control channel over mDNS. With an empty deviceID the
// first one found is used.
func browse(ctx context.Context, deviceID, iface string, timeout time.Duration) (*discovery.ControlService, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browser := discovery.NewMDNSBrowser(discovery.BrowserConfig{Interface: iface})
	svc, err := browser.FindByDeviceID(ctx, deviceID)
	if err != nil {
		if deviceID == "" {
			return nil, fmt.Errorf("no device found: %w", err)
		}
		return nil, fmt.Errorf("device %s not found: %w", deviceID, err)
	}
	return svc, nil
}
