// Package usrr16test provides an in-process USR-R16 relay board for tests and demos.
//
// The stub listens on a loopback TCP port, authenticates clients with a password and keeps the
// state of 16 relays. Every request frame is answered with
//
//	AA 55 00 04 00 <0x80|cmd> <relays 1-8> <relays 9-16> <checksum>
//
// where checksum is the low byte of the sum of bytes 2 to 7.
package usrr16test

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/arloliu/go-usrr16/logger"
	"github.com/arloliu/go-usrr16/usrr16"
	"github.com/puzpuzpuz/xsync/v3"
)

// ResponseSize is the length of every response sent by the stub.
const ResponseSize = 9

// Device is a stub USR-R16 relay board.
type Device struct {
	password string
	logger   logger.Logger
	listener net.Listener

	mu     sync.Mutex
	relays uint16
	frames [][usrr16.FrameSize]byte

	sessionID  atomic.Uint64
	sessions   *xsync.MapOf[uint64, net.Conn]
	frameCount *xsync.Counter

	wg     sync.WaitGroup
	closed atomic.Bool
}

// Option configures a Device.
type Option func(*Device)

// WithPassword sets the password accepted by the device. Defaults to "admin".
func WithPassword(password string) Option {
	return func(d *Device) { d.password = password }
}

// WithLogger sets the logger of the device.
func WithLogger(l logger.Logger) Option {
	return func(d *Device) { d.logger = l }
}

// NewDevice starts a stub device listening on 127.0.0.1 with a random port.
func NewDevice(opts ...Option) (*Device, error) {
	d := &Device{
		password:   usrr16.DefaultPassword,
		logger:     logger.GetLogger(),
		sessions:   xsync.NewMapOf[uint64, net.Conn](),
		frameCount: xsync.NewCounter(),
	}
	for _, opt := range opts {
		opt(d)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	d.listener = ln
	d.logger = d.logger.With("component", "usrr16test", "addr", ln.Addr().String())

	d.wg.Add(1)
	go d.acceptLoop()

	return d, nil
}

// Addr returns the host:port the device listens on.
func (d *Device) Addr() string {
	return d.listener.Addr().String()
}

// Host returns the host the device listens on.
func (d *Device) Host() string {
	host, _, _ := net.SplitHostPort(d.Addr())
	return host
}

// Port returns the port the device listens on.
func (d *Device) Port() int {
	_, port, _ := net.SplitHostPort(d.Addr())
	n, _ := strconv.Atoi(port)

	return n
}

// Relays returns the relay bitmask, bit n holding relay n+1.
func (d *Device) Relays() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.relays
}

// SetRelays replaces the relay bitmask.
func (d *Device) SetRelays(mask uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.relays = mask
}

// Frames returns a copy of the request frames received so far.
func (d *Device) Frames() [][usrr16.FrameSize]byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	frames := make([][usrr16.FrameSize]byte, len(d.frames))
	copy(frames, d.frames)

	return frames
}

// FrameCount returns the number of request frames received.
func (d *Device) FrameCount() int64 {
	return d.frameCount.Value()
}

// SessionCount returns the number of open client connections.
func (d *Device) SessionCount() int {
	return d.sessions.Size()
}

// Close stops the device and closes every client connection.
func (d *Device) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := d.listener.Close()
	d.sessions.Range(func(_ uint64, conn net.Conn) bool {
		_ = conn.Close()
		return true
	})
	d.wg.Wait()

	return err
}

func (d *Device) acceptLoop() {
	defer d.wg.Done()

	for {
		conn, err := d.listener.Accept()
		if err != nil {
			if !d.closed.Load() {
				d.logger.Error("accept failed", "error", err)
			}
			return
		}

		id := d.sessionID.Add(1)
		d.sessions.Store(id, conn)
		if d.closed.Load() {
			_ = conn.Close()
		}

		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			defer d.sessions.Delete(id)
			defer conn.Close()

			d.serve(id, conn)
		}()
	}
}

func (d *Device) serve(id uint64, conn net.Conn) {
	log := d.logger.With("session", id)

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}

	if !bytes.Equal(buf[:n], []byte(d.password+"\r\n")) {
		log.Debug("reject password")
		_, _ = conn.Write([]byte("NO"))
		return
	}
	if _, err := conn.Write([]byte("OK")); err != nil {
		return
	}
	log.Debug("session authenticated")

	var frame [usrr16.FrameSize]byte
	for {
		if _, err := io.ReadFull(conn, frame[:]); err != nil {
			if !errors.Is(err, io.EOF) && !d.closed.Load() {
				log.Debug("read frame failed", "error", err)
			}
			return
		}

		resp, ok := d.handle(frame)
		if !ok {
			log.Warn("drop malformed frame", "frame", frame)
			return
		}
		if _, err := conn.Write(resp); err != nil {
			return
		}
	}
}

func (d *Device) handle(frame [usrr16.FrameSize]byte) ([]byte, bool) {
	if frame[0] != 0x55 || frame[1] != 0xaa || frame[3] != 0x03 || frame[7] != 0x03 {
		return nil, false
	}

	cmd := usrr16.Command(frame[5])
	relay := int(frame[6])

	d.frameCount.Inc()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.frames = append(d.frames, frame)

	var bit uint16
	if relay >= usrr16.MinRelay && relay <= usrr16.MaxRelay {
		bit = 1 << (relay - 1)
	}

	switch cmd {
	case usrr16.CmdOn:
		d.relays |= bit
	case usrr16.CmdOff:
		d.relays &^= bit
	case usrr16.CmdInvert:
		d.relays ^= bit
	case usrr16.CmdAllOff:
		d.relays = 0
	case usrr16.CmdQueryState:
	default:
		return nil, false
	}

	return Response(cmd, d.relays), true
}

// Response builds the answer of the stub device to cmd with the given relay bitmask.
func Response(cmd usrr16.Command, relays uint16) []byte {
	resp := []byte{0xaa, 0x55, 0x00, 0x04, 0x00, 0x80 | byte(cmd), byte(relays), byte(relays >> 8), 0x00}

	var sum byte
	for _, b := range resp[2:8] {
		sum += b
	}
	resp[8] = sum

	return resp
}
