package usrr16

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRelay indicates that a relay number is outside the legal range of a command.
	// Errors returned for this reason are of type *InvalidRelayError and match ErrInvalidRelay with errors.Is.
	ErrInvalidRelay = errors.New("usrr16: relay out of range")

	// ErrInvalidCommand indicates that a command byte is not one of the supported commands.
	ErrInvalidCommand = errors.New("usrr16: invalid command")

	// ErrAuthentication indicates that the device rejected the password during Connect.
	ErrAuthentication = errors.New("usrr16: authentication failed, password incorrect")

	// ErrConnection indicates that the socket is closed, reset, or returned an unusable response.
	ErrConnection = errors.New("usrr16: connection error")
)

var (
	// ErrClientClosed indicates that a command was issued after Close. It matches ErrConnection.
	ErrClientClosed = fmt.Errorf("%w: client closed", ErrConnection)

	// ErrShortResponse indicates that a state response is shorter than 8 bytes. It matches ErrConnection.
	ErrShortResponse = fmt.Errorf("%w: state response too short", ErrConnection)
)

var (
	// ErrConfigNil indicates that a nil ClientConfig was provided.
	ErrConfigNil = errors.New("usrr16: client config is nil")
)

// InvalidRelayError reports a relay argument outside the legal range of a command.
// It is detected before any I/O takes place.
type InvalidRelayError struct {
	Relay   int
	Command Command
}

func (e *InvalidRelayError) Error() string {
	lo, hi := relayRange(e.Command)
	return fmt.Sprintf("usrr16: relay value out of range for %s, expected %d-%d, got %d", e.Command, lo, hi, e.Relay)
}

// Is reports whether target is ErrInvalidRelay.
func (e *InvalidRelayError) Is(target error) bool {
	return target == ErrInvalidRelay
}
