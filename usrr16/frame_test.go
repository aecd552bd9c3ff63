package usrr16

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeFrame(t *testing.T) {
	require := require.New(t)

	for _, cmd := range []Command{CmdOff, CmdOn, CmdInvert, CmdQueryState} {
		for relay := MinRelay; relay <= MaxRelay; relay++ {
			frame, err := EncodeFrame(relay, cmd)
			require.NoError(err)
			require.Equal([FrameSize]byte{0x55, 0xaa, 0x00, 0x03, 0x00, byte(cmd), byte(relay), 0x03}, frame)
		}
	}

	frame, err := EncodeFrame(AllRelays, CmdAllOff)
	require.NoError(err)
	require.Equal([FrameSize]byte{0x55, 0xaa, 0x00, 0x03, 0x00, 0x05, 0x00, 0x03}, frame)
}

func TestEncodeFrame_InvalidRelay(t *testing.T) {
	tests := []struct {
		name  string
		relay int
		cmd   Command
	}{
		{"negative", -1, CmdOn},
		{"above range", 17, CmdOff},
		{"far above range", 256, CmdInvert},
		{"zero with off", 0, CmdOff},
		{"zero with query", 0, CmdQueryState},
		{"all-off with relay", 5, CmdAllOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, err := EncodeFrame(tt.relay, tt.cmd)
			require.ErrorIs(err, ErrInvalidRelay)

			var relayErr *InvalidRelayError
			require.True(errors.As(err, &relayErr))
			require.Equal(tt.relay, relayErr.Relay)
			require.Equal(tt.cmd, relayErr.Command)
		})
	}
}

func TestEncodeFrame_InvalidCommand(t *testing.T) {
	_, err := EncodeFrame(1, Command(0x04))
	require.ErrorIs(t, err, ErrInvalidCommand)
	require.NotErrorIs(t, err, ErrInvalidRelay)
}

func TestInvalidRelayError_Message(t *testing.T) {
	require := require.New(t)

	err := &InvalidRelayError{Relay: 17, Command: CmdOn}
	require.Equal("usrr16: relay value out of range for on, expected 1-16, got 17", err.Error())

	err = &InvalidRelayError{Relay: 3, Command: CmdAllOff}
	require.Equal("usrr16: relay value out of range for all-off, expected 0-0, got 3", err.Error())
}

func stateResponse(low, high byte) []byte {
	return []byte{0xaa, 0x55, 0x00, 0x04, 0x00, 0x8a, low, high, 0x00}
}

func TestDecodeState(t *testing.T) {
	require := require.New(t)

	resp := stateResponse(0x81, 0x08)
	expected := map[int]bool{1: true, 2: false, 8: true, 9: false, 12: true, 16: false}
	for relay, on := range expected {
		got, err := DecodeState(resp, relay)
		require.NoError(err)
		require.Equal(on, got, "relay %d", relay)
	}

	for relay := MinRelay; relay <= MaxRelay; relay++ {
		on, err := DecodeState(stateResponse(0xff, 0xff), relay)
		require.NoError(err)
		require.True(on)

		on, err = DecodeState(stateResponse(0x00, 0x00), relay)
		require.NoError(err)
		require.False(on)

		// bit (relay-1) mod 8 of the selected byte
		var low, high byte
		if relay < 9 {
			low = 1 << ((relay - 1) % 8)
		} else {
			high = 1 << ((relay - 1) % 8)
		}
		on, err = DecodeState(stateResponse(low, high), relay)
		require.NoError(err)
		require.True(on)
	}
}

func TestDecodeState_Errors(t *testing.T) {
	require := require.New(t)

	_, err := DecodeState([]byte{0xaa, 0x55, 0x00, 0x04, 0x00, 0x8a, 0x01}, 1)
	require.ErrorIs(err, ErrShortResponse)
	require.ErrorIs(err, ErrConnection)

	_, err = DecodeState(stateResponse(0, 0), 0)
	require.ErrorIs(err, ErrInvalidRelay)

	_, err = DecodeState(stateResponse(0, 0), 17)
	require.ErrorIs(err, ErrInvalidRelay)
}

func TestDecodeStates(t *testing.T) {
	require := require.New(t)

	states, err := DecodeStates(stateResponse(0x81, 0x08))
	require.NoError(err)
	require.Equal([]int{1, 8, 12}, states.On())
	require.Equal("1000000100010000", states.String())
	require.True(states.IsOn(12))
	require.False(states.IsOn(9))
	require.False(states.IsOn(0))
	require.False(states.IsOn(17))

	_, err = DecodeStates(nil)
	require.ErrorIs(err, ErrShortResponse)
}

func TestCommand_String(t *testing.T) {
	require := require.New(t)

	require.Equal("off", CmdOff.String())
	require.Equal("on", CmdOn.String())
	require.Equal("invert", CmdInvert.String())
	require.Equal("all-off", CmdAllOff.String())
	require.Equal("query-state", CmdQueryState.String())
	require.Equal("command(0x42)", Command(0x42).String())
	require.False(Command(0x42).IsValid())
}
