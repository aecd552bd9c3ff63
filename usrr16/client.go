package usrr16

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/arloliu/go-usrr16/internal/util"
	"github.com/arloliu/go-usrr16/logger"
)

var authOK = []byte("OK")

// Client is an authenticated connection to a USR-R16 relay board.
//
// The protocol carries no request identifiers, so a Client serializes its commands:
// each send and its matching receive run as one unit while holding a mutex.
// A Client is safe for concurrent use.
type Client struct {
	cfg     *ClientConfig
	logger  logger.Logger
	opState AtomicOpState

	// conn is set once in Connect and never reassigned.
	conn net.Conn

	// mu serializes request/response pairs and guards rbuf.
	mu   sync.Mutex
	rbuf []byte

	metrics ClientMetrics
}

// Connect dials the relay board described by cfg and authenticates with its password.
//
// The password is sent followed by CR LF and the device must answer exactly "OK".
// Any other answer returns ErrAuthentication and the socket is closed.
// Transport failures return errors matching ErrConnection.
//
// ctx bounds the dial and the handshake together with the configured connect timeout.
func Connect(ctx context.Context, cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	c := &Client{
		cfg:    cfg,
		logger: cfg.logger.With("addr", cfg.Addr()),
		rbuf:   make([]byte, cfg.responseSize),
	}
	c.opState.ToAuthenticating()

	dialCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout)
	defer cancel()

	c.logger.Debug("dial relay board")
	conn, err := cfg.dialer.DialContext(dialCtx, "tcp", cfg.Addr())
	if err != nil {
		c.opState.Set(ClosedState)
		return nil, fmt.Errorf("%w: dial %s: %w", ErrConnection, cfg.Addr(), err)
	}
	c.conn = conn

	if err := c.authenticate(dialCtx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.opState.ToReady()
	c.logger.Debug("relay board authenticated")

	return c, nil
}

func (c *Client) authenticate(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetDeadline(deadline)
		defer func() { _ = c.conn.SetDeadline(time.Time{}) }()
	}

	req := make([]byte, 0, len(c.cfg.password)+2)
	req = append(req, c.cfg.password...)
	req = append(req, '\r', '\n')
	if _, err := c.conn.Write(req); err != nil {
		return fmt.Errorf("%w: send password: %w", ErrConnection, err)
	}

	reply := make([]byte, authReplySize)
	n, err := c.conn.Read(reply)
	if err != nil {
		return fmt.Errorf("%w: read auth reply: %w", ErrConnection, err)
	}

	if !bytes.Equal(reply[:n], authOK) {
		c.logger.Debug("authentication rejected", "reply", hex.EncodeToString(reply[:n]))
		return ErrAuthentication
	}

	return nil
}

// Config returns the configuration of the client.
func (c *Client) Config() *ClientConfig {
	return c.cfg
}

// Metrics returns the metrics of the client.
func (c *Client) Metrics() *ClientMetrics {
	return &c.metrics
}

// OpState returns the lifecycle state of the client.
func (c *Client) OpState() OpState {
	return c.opState.Get()
}

// Close closes the connection. The client is also closed by any transport failure of a command,
// including a command timeout. It is safe to call Close multiple times and concurrently with a command;
// a command waiting for its response fails with an error matching ErrConnection.
func (c *Client) Close() error {
	if !c.opState.ToClosing() {
		return nil
	}
	defer c.opState.ToClosed()

	c.logger.Debug("close relay board connection")
	if c.conn == nil {
		return nil
	}

	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrConnection, err)
	}

	return nil
}

// TurnOn turns relay on. relay must be in range [1, 16].
func (c *Client) TurnOn(relay int) error {
	_, err := c.sendCommand(relay, CmdOn)
	return err
}

// TurnOff turns relay off. relay must be in range [1, 16].
func (c *Client) TurnOff(relay int) error {
	_, err := c.sendCommand(relay, CmdOff)
	return err
}

// Invert toggles relay. relay must be in range [1, 16].
func (c *Client) Invert(relay int) error {
	_, err := c.sendCommand(relay, CmdInvert)
	return err
}

// TurnOffAll turns every relay off with a single command.
func (c *Client) TurnOffAll() error {
	_, err := c.sendCommand(AllRelays, CmdAllOff)
	return err
}

// State reports whether relay is on. relay must be in range [1, 16].
//
// A response shorter than 8 bytes returns an error matching ErrShortResponse and ErrConnection.
func (c *Client) State(relay int) (bool, error) {
	resp, err := c.sendCommand(relay, CmdQueryState)
	if err != nil {
		return false, err
	}

	on, err := DecodeState(resp, relay)
	if err != nil {
		return false, err
	}
	c.metrics.incStateQueryCount()

	return on, nil
}

// States queries the board once and returns the state of all relays.
func (c *Client) States() (States, error) {
	resp, err := c.sendCommand(MinRelay, CmdQueryState)
	if err != nil {
		return 0, err
	}

	states, err := DecodeStates(resp)
	if err != nil {
		return 0, err
	}
	c.metrics.incStateQueryCount()

	return states, nil
}

// sendCommand transmits the frame of cmd for relay and returns the device response.
//
// The response is always read, even for commands whose acknowledgement is ignored,
// otherwise it would be taken as the answer of the next command. For the same reason
// a failed send or receive closes the client.
func (c *Client) sendCommand(relay int, cmd Command) ([]byte, error) {
	frame, err := EncodeFrame(relay, cmd)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opState.IsReady() {
		return nil, ErrClientClosed
	}

	if timeout := c.cfg.commandTimeout; timeout > 0 {
		_ = c.conn.SetDeadline(time.Now().Add(timeout))
	}

	c.logger.Debug("send frame", "cmd", cmd, "relay", relay, "frame", hex.EncodeToString(frame[:]))

	n, err := c.conn.Write(frame[:])
	c.metrics.addBytesWritten(n)
	if err != nil {
		return nil, c.transportErr(fmt.Sprintf("send %s frame", cmd), err)
	}
	c.metrics.incCommandSendCount()

	n, err = c.conn.Read(c.rbuf)
	c.metrics.addBytesRead(n)
	if err != nil {
		return nil, c.transportErr(fmt.Sprintf("read %s response", cmd), err)
	}

	c.logger.Debug("receive response", "cmd", cmd, "relay", relay, "data", hex.EncodeToString(c.rbuf[:n]))

	return util.CloneSlice(c.rbuf[:n], 0), nil
}

// transportErr closes the connection after a failed send or receive, since a late
// response to the failed command would be read as the answer of the next one.
// It must be called while holding mu.
func (c *Client) transportErr(op string, err error) error {
	c.metrics.incCommandErrCount()

	if !c.opState.ToClosing() {
		return fmt.Errorf("%w: %s: %w", ErrClientClosed, op, err)
	}

	c.logger.Debug("close connection after transport failure", "op", op, "error", err)
	_ = c.conn.Close()
	c.opState.ToClosed()

	return fmt.Errorf("%w: %s: %w", ErrConnection, op, err)
}
