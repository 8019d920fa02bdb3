// Package socketiosink is the host's built-in streaming logger extension. It
// forwards host and test-run events to a socket.io collector so dashboards
// can follow a run live.
package socketiosink

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	eiotypes "github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/pluginhost/internal/ctxlog"
	"github.com/vk/pluginhost/internal/extension"
)

// ID is the extension identity of the socket.io event sink.
const ID = "io.vk.logger.socketio"

// EventName is the socket.io event carrying host events to the collector.
const EventName = "host_event"

// defaultConnectTimeout bounds the initial connection attempt.
const defaultConnectTimeout = 10 * time.Second

// Module implements extension.Builtin and extension.LogSink.
type Module struct {
	// URL is the collector endpoint, e.g. "wss://collector.local/socket.io".
	URL string
	// Namespace is the socket.io namespace to join.
	Namespace string
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
	// ConnectTimeout overrides defaultConnectTimeout when positive.
	ConnectTimeout time.Duration

	connected atomic.Bool
	io        *socket.Socket
}

// New creates a sink targeting the given collector endpoint.
func New(rawURL, namespace string) *Module {
	return &Module{URL: rawURL, Namespace: namespace}
}

// Describe implements extension.Builtin.
func (m *Module) Describe() extension.Metadata {
	return extension.Metadata{
		Kind:        extension.KindLogger,
		ID:          ID,
		Description: "Streams host and test-run events to a socket.io collector.",
		Source:      "builtin:socketiosink",
		WellKnown:   true,
		Settings: map[string]cty.Value{
			"url":       cty.StringVal(m.URL),
			"namespace": cty.StringVal(m.Namespace),
		},
	}
}

// Open connects to the collector and blocks until the connection is
// established or the timeout elapses.
func (m *Module) Open(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("extension", ID, "url", m.URL)
	logger.Debug("Connecting event sink.")

	parsedURL, err := url.Parse(m.URL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	timeout := m.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if m.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(eiotypes.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	m.io = manager.Socket(m.Namespace, opts)

	done := make(chan error, 1)
	m.io.On(eiotypes.EventName("connect"), func(...any) {
		m.connected.Store(true)
		logger.Info("Event sink connected.", "namespace", m.Namespace, "sid", m.io.Id())
		done <- nil
	})
	m.io.On(eiotypes.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				done <- e
				return
			}
		}
		done <- fmt.Errorf("connect_error")
	})

	m.io.Connect()

	select {
	case <-opCtx.Done():
		return fmt.Errorf("timed out while waiting for initial connection")
	case err := <-done:
		return err
	}
}

// Emit implements extension.LogSink. The sink must be open.
func (m *Module) Emit(ctx context.Context, e extension.Event) error {
	if !m.connected.Load() {
		return fmt.Errorf("event sink not connected")
	}

	payload := map[string]any{
		"time":    e.Time.Format(time.RFC3339Nano),
		"level":   e.Level,
		"message": e.Message,
	}
	for k, v := range e.Fields {
		payload["field_"+k] = v
	}

	m.io.Emit(EventName, payload)
	return nil
}

// Close disconnects from the collector.
func (m *Module) Close(ctx context.Context) {
	if m.io != nil {
		ctxlog.FromContext(ctx).Debug("Disconnecting event sink.", "extension", ID)
		m.io.Disconnect()
		m.connected.Store(false)
	}
}
