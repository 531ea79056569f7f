package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// GatewayConfig is one agent's bridge device binding. Each agent talks to
// their own claimed device; there is no shared gateway.
type GatewayConfig struct {
	URL      string
	Username string
	Password string
}

// Bridge sends one message through the external SMS device. Implementations
// must respect the context deadline; the device is best-effort and slow.
type Bridge interface {
	Send(ctx context.Context, gw GatewayConfig, destination, message string) error
}

var errBridgeStatus = errors.New("sms: bridge rejected message")

// HTTPBridge talks to the gateway device over its JSON HTTP API with basic
// auth. Any non-2xx response counts as failure.
type HTTPBridge struct {
	client *http.Client
}

func NewHTTPBridge(timeout time.Duration) *HTTPBridge {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPBridge{client: &http.Client{Timeout: timeout}}
}

type bridgePayload struct {
	DestinationPhones []string `json:"destinationPhones"`
	Message           string   `json:"message"`
}

func (b *HTTPBridge) Send(ctx context.Context, gw GatewayConfig, destination, message string) error {
	if gw.URL == "" {
		return errors.New("sms: gateway url not configured")
	}

	body, err := json.Marshal(bridgePayload{
		DestinationPhones: []string{destination},
		Message:           message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gw.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if gw.Username != "" {
		req.SetBasicAuth(gw.Username, gw.Password)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", errBridgeStatus, resp.StatusCode)
	}
	return nil
}
