package clipboard

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/gridedit/internal/ctxlog"
)

// Events exchanged with the host editor.
const (
	EventContent = "clipboard"
	EventSet     = "clipboard:set"
)

// ErrNotConnected is returned when publishing while the socket is down.
var ErrNotConnected = errors.New("clipboard host is not connected")

// SocketIOOptions configures the connection to the host editor.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// ConnectTimeout defaults to 15s.
	ConnectTimeout time.Duration
}

// SocketIO mirrors the clipboard of a host editor reached over socket.io.
// The host pushes its content with "clipboard" events; SetContent publishes
// with a "clipboard:set" event. Content returns the last known text.
type SocketIO struct {
	mu      sync.Mutex
	text    string
	logger  *slog.Logger
	io      *socket.Socket
	publish func(text string) error
}

// DialSocketIO connects to the host editor and waits for the connection to
// be established.
func DialSocketIO(ctx context.Context, opts SocketIOOptions) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("clipboard", "socketio", "url", opts.URL)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	sopts := socket.DefaultOptions()
	sopts.SetPath(parsedURL.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	c := &SocketIO{logger: logger, io: io}
	c.publish = c.emit

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to clipboard host", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", errs[0])
			}
		}
		connectChan <- err
	})
	io.On(types.EventName(EventContent), c.receive)

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return c, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}
}

// receive handles a content push from the host. Strings are taken as is;
// any other payload is stored as its JSON encoding.
func (c *SocketIO) receive(args ...any) {
	if len(args) == 0 {
		return
	}
	var text string
	switch v := args[0].(type) {
	case string:
		text = v
	case []byte:
		text = string(v)
	case nil:
	default:
		data, err := json.Marshal(v)
		if err != nil {
			c.logger.Warn("Ignoring clipboard payload that is not JSON encodable.", "error", err)
			return
		}
		text = string(data)
	}
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
	c.logger.Debug("Clipboard content received.", "bytes", len(text))
}

func (c *SocketIO) emit(text string) error {
	if !c.io.Connected() {
		return ErrNotConnected
	}
	c.io.Emit(EventSet, text)
	return nil
}

// SetContent publishes text to the host and remembers it locally.
func (c *SocketIO) SetContent(text string) error {
	if err := c.publish(text); err != nil {
		return err
	}
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
	c.logger.Debug("Clipboard content published.", "bytes", len(text))
	return nil
}

// Content returns the last content pushed by the host or set locally.
func (c *SocketIO) Content() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

// Close disconnects from the host.
func (c *SocketIO) Close() error {
	if c.io != nil {
		c.logger.Info("Closing clipboard connection", "sid", c.io.Id())
		c.io.Disconnect()
	}
	return nil
}
