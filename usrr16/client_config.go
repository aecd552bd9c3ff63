package usrr16

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/go-usrr16/logger"
)

// Default values of a ClientConfig.
const (
	DefaultPort           = 8899
	DefaultPassword       = "admin"
	DefaultConnectTimeout = 3 * time.Second
	DefaultCommandTimeout = time.Duration(0) // no deadline
	DefaultResponseSize   = 256
)

// Option range limits.
const (
	MinConnectTimeout = 100 * time.Millisecond
	MaxConnectTimeout = 30 * time.Second

	MaxCommandTimeout = 60 * time.Second

	MinResponseSize = MinStateResponseSize
	MaxResponseSize = 4096
)

// authReplySize is the read size of the authentication reply.
const authReplySize = 1024

// Dialer opens the transport connection to the device. *net.Dialer implements it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// ClientConfig represents the configuration of a USR-R16 client.
//
// A ClientConfig is immutable once created and may be shared by several clients.
type ClientConfig struct {
	// host specifies the host of the relay board.
	host string

	// port specifies the TCP port of the relay board. Defaults to 8899.
	port int

	// password is sent in clear text during authentication. Defaults to "admin".
	password string

	// connectTimeout bounds the TCP dial and the authentication handshake.
	// Defaults to 3 seconds.
	connectTimeout time.Duration

	// commandTimeout bounds each send/receive pair of a command.
	// Zero means commands wait until the device answers or the client is closed.
	commandTimeout time.Duration

	// responseSize is the maximum number of bytes read for each command response.
	// Defaults to 256.
	responseSize int

	dialer Dialer
	logger logger.Logger
}

// NewClientConfig creates a new client configuration for the board at host with the given functional options.
//
// It initializes a ClientConfig with default values and then applies opts in order.
// See the WithXXX functions for the available options.
func NewClientConfig(host string, opts ...ClientOption) (*ClientConfig, error) {
	cfg := &ClientConfig{
		port:           DefaultPort,
		password:       DefaultPassword,
		connectTimeout: DefaultConnectTimeout,
		commandTimeout: DefaultCommandTimeout,
		responseSize:   DefaultResponseSize,
		dialer:         &net.Dialer{},
		logger:         logger.GetLogger(),
	}

	if err := withHost(host).apply(cfg); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Host returns the host of the relay board.
func (cfg *ClientConfig) Host() string { return cfg.host }

// Port returns the TCP port of the relay board.
func (cfg *ClientConfig) Port() int { return cfg.port }

// Addr returns the host:port address dialed by Connect.
func (cfg *ClientConfig) Addr() string {
	return net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

// ConnectTimeout returns the dial and handshake timeout.
func (cfg *ClientConfig) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// CommandTimeout returns the per-command timeout, zero if commands are unbounded.
func (cfg *ClientConfig) CommandTimeout() time.Duration { return cfg.commandTimeout }

// ResponseSize returns the maximum number of bytes read per command response.
func (cfg *ClientConfig) ResponseSize() int { return cfg.responseSize }

// ClientOption represents a functional option for configuring a ClientConfig.
type ClientOption interface {
	apply(*ClientConfig) error
}

type clientOptFunc struct {
	name      string
	applyFunc func(*ClientConfig) error
}

func (o *clientOptFunc) apply(cfg *ClientConfig) error {
	if cfg == nil {
		return ErrConfigNil
	}

	return o.applyFunc(cfg)
}

func (o *clientOptFunc) String() string { return o.name }

func newClientOptFunc(name string, f func(*ClientConfig) error) *clientOptFunc {
	return &clientOptFunc{name: name, applyFunc: f}
}

func withHost(host string) ClientOption {
	return newClientOptFunc("withHost", func(cfg *ClientConfig) error {
		host = strings.TrimSpace(host)
		if host == "" || strings.ContainsAny(host, " \t/") {
			return errors.New("invalid host")
		}
		cfg.host = host

		return nil
	})
}

// WithPort sets the TCP port of the relay board. The port must be in range [1, 65535].
//
// The default port is 8899.
func WithPort(port int) ClientOption {
	return newClientOptFunc("WithPort", func(cfg *ClientConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port is out of range [1, 65535]")
		}
		cfg.port = port

		return nil
	})
}

// WithPassword sets the authentication password. The password must not contain CR or LF,
// since CR LF terminates the authentication request.
//
// The default password is "admin".
func WithPassword(password string) ClientOption {
	return newClientOptFunc("WithPassword", func(cfg *ClientConfig) error {
		if strings.ContainsAny(password, "\r\n") {
			return errors.New("password must not contain CR or LF")
		}
		cfg.password = password

		return nil
	})
}

// WithConnectTimeout sets the timeout of the TCP dial and the authentication handshake.
// It should be between 100 milliseconds and 30 seconds.
//
// The default value is 3 seconds.
func WithConnectTimeout(val time.Duration) ClientOption {
	return newClientOptFunc("WithConnectTimeout", func(cfg *ClientConfig) error {
		if val < MinConnectTimeout || val > MaxConnectTimeout {
			return fmt.Errorf("connect timeout out of range [%s, %s]", MinConnectTimeout, MaxConnectTimeout)
		}
		cfg.connectTimeout = val

		return nil
	})
}

// WithCommandTimeout sets the deadline applied to each command's send and receive.
// It should be between 0 and 60 seconds, 0 disables the deadline.
//
// The default value is 0.
func WithCommandTimeout(val time.Duration) ClientOption {
	return newClientOptFunc("WithCommandTimeout", func(cfg *ClientConfig) error {
		if val < 0 || val > MaxCommandTimeout {
			return fmt.Errorf("command timeout out of range [0s, %s]", MaxCommandTimeout)
		}
		cfg.commandTimeout = val

		return nil
	})
}

// WithResponseSize sets the maximum number of bytes read for each command response.
// It should be between 8 and 4096.
//
// The default value is 256.
func WithResponseSize(size int) ClientOption {
	return newClientOptFunc("WithResponseSize", func(cfg *ClientConfig) error {
		if size < MinResponseSize || size > MaxResponseSize {
			return fmt.Errorf("response size out of range [%d, %d]", MinResponseSize, MaxResponseSize)
		}
		cfg.responseSize = size

		return nil
	})
}

// WithDialer sets the dialer used by Connect to open the transport connection.
func WithDialer(dialer Dialer) ClientOption {
	return newClientOptFunc("WithDialer", func(cfg *ClientConfig) error {
		if dialer == nil {
			return errors.New("dialer is nil")
		}
		cfg.dialer = dialer

		return nil
	})
}

// WithLogger sets the logger. The client logs protocol traces at debug level only.
func WithLogger(l logger.Logger) ClientOption {
	return newClientOptFunc("WithLogger", func(cfg *ClientConfig) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
