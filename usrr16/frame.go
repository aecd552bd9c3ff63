package usrr16

import (
	"fmt"
	"strings"
)

// Command is the command byte carried at offset 5 of a request frame.
type Command byte

const (
	CmdOff        Command = 0x01
	CmdOn         Command = 0x02
	CmdInvert     Command = 0x03
	CmdAllOff     Command = 0x05
	CmdQueryState Command = 0x0a
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdOff:
		return "off"
	case CmdOn:
		return "on"
	case CmdInvert:
		return "invert"
	case CmdAllOff:
		return "all-off"
	case CmdQueryState:
		return "query-state"
	default:
		return fmt.Sprintf("command(0x%02x)", byte(c))
	}
}

// IsValid reports whether c is one of the supported commands.
func (c Command) IsValid() bool {
	switch c {
	case CmdOff, CmdOn, CmdInvert, CmdAllOff, CmdQueryState:
		return true
	default:
		return false
	}
}

const (
	// AllRelays is the relay number addressing every relay. It is only legal with CmdAllOff.
	AllRelays = 0
	// MinRelay is the lowest device-numbered relay.
	MinRelay = 1
	// MaxRelay is the highest device-numbered relay.
	MaxRelay = 16
	// RelayCount is the number of relays on the board.
	RelayCount = MaxRelay
)

// FrameSize is the length of every request frame.
const FrameSize = 8

const (
	stateLowOffset  = 6 // bitmask of relays 1-8
	stateHighOffset = 7 // bitmask of relays 9-16

	// MinStateResponseSize is the shortest response a state query can be decoded from.
	MinStateResponseSize = stateHighOffset + 1
)

// relayMask holds the bit of each relay within its bitmask byte. Index 0 is unused.
var relayMask = [RelayCount + 1]byte{
	0x00,
	0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80,
	0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80,
}

// relayRange returns the inclusive relay range accepted by cmd.
func relayRange(cmd Command) (int, int) {
	if cmd == CmdAllOff {
		return AllRelays, AllRelays
	}

	return MinRelay, MaxRelay
}

// EncodeFrame returns the request frame
//
//	55 AA 00 03 00 <cmd> <relay> 03
//
// It is a pure function. Relay 0 is accepted only with CmdAllOff, and CmdAllOff accepts only relay 0.
func EncodeFrame(relay int, cmd Command) ([FrameSize]byte, error) {
	var frame [FrameSize]byte

	if !cmd.IsValid() {
		return frame, fmt.Errorf("%w: 0x%02x", ErrInvalidCommand, byte(cmd))
	}

	if lo, hi := relayRange(cmd); relay < lo || relay > hi {
		return frame, &InvalidRelayError{Relay: relay, Command: cmd}
	}

	frame = [FrameSize]byte{0x55, 0xaa, 0x00, 0x03, 0x00, byte(cmd), byte(relay), 0x03}

	return frame, nil
}

// DecodeState reports whether relay is on according to a state query response.
//
// Byte 6 of the response carries relays 1-8 and byte 7 relays 9-16.
func DecodeState(resp []byte, relay int) (bool, error) {
	if relay < MinRelay || relay > MaxRelay {
		return false, &InvalidRelayError{Relay: relay, Command: CmdQueryState}
	}

	if len(resp) < MinStateResponseSize {
		return false, fmt.Errorf("%w: got %d bytes", ErrShortResponse, len(resp))
	}

	maskByte := resp[stateLowOffset]
	if relay >= 9 {
		maskByte = resp[stateHighOffset]
	}

	return maskByte&relayMask[relay] == relayMask[relay], nil
}

// States is the on/off state of all relays. Bit n holds relay n+1.
type States uint16

// DecodeStates decodes the state of every relay from a state query response.
func DecodeStates(resp []byte) (States, error) {
	if len(resp) < MinStateResponseSize {
		return 0, fmt.Errorf("%w: got %d bytes", ErrShortResponse, len(resp))
	}

	return States(resp[stateLowOffset]) | States(resp[stateHighOffset])<<8, nil
}

// IsOn reports whether relay is on. It returns false for relays outside [1, 16].
func (s States) IsOn(relay int) bool {
	if relay < MinRelay || relay > MaxRelay {
		return false
	}

	return s&(1<<(relay-1)) != 0
}

// On returns the relays that are on, in ascending order.
func (s States) On() []int {
	relays := make([]int, 0, RelayCount)
	for r := MinRelay; r <= MaxRelay; r++ {
		if s.IsOn(r) {
			relays = append(relays, r)
		}
	}

	return relays
}

// String renders the states as 16 characters, '1' for on and '0' for off, relay 1 first.
func (s States) String() string {
	var sb strings.Builder
	sb.Grow(RelayCount)
	for r := MinRelay; r <= MaxRelay; r++ {
		if s.IsOn(r) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}
