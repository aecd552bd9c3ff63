// Package usrr16 provides a client for the USR-R16 and USR-R16-T relay boards.
//
// The board exposes a proprietary binary protocol over TCP (default port 8899):
//
//  1. The client sends the password followed by CR LF and the board answers "OK".
//  2. Every command is an 8-byte frame 55 AA 00 03 00 <cmd> <relay> 03.
//  3. The board answers every frame. For a state query, byte 6 of the answer is the
//     bitmask of relays 1-8 and byte 7 the bitmask of relays 9-16.
//
// Commands:
//   - CmdOff (0x01), CmdOn (0x02), CmdInvert (0x03): relay in [1, 16].
//   - CmdAllOff (0x05): relay 0, the only command addressing every relay.
//   - CmdQueryState (0x0A): relay in [1, 16].
//
// The answer to a mutating command is read and discarded. The read keeps requests and responses
// paired on the connection; its content is not checked.
//
// Quick start:
//
//	cfg, err := usrr16.NewClientConfig("192.168.0.23", usrr16.WithPassword("admin"))
//	if err != nil {
//	    return err
//	}
//	client, err := usrr16.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.TurnOn(1); err != nil {
//	    return err
//	}
//	on, err := client.State(1)
//
// Errors:
//   - *InvalidRelayError (matches ErrInvalidRelay): relay argument out of range, detected before any I/O.
//   - ErrAuthentication: the board rejected the password.
//   - ErrConnection: the socket is closed, reset, or the response is too short (ErrShortResponse).
//
// A Client serializes its commands and is safe for concurrent use. Closing the client is the only way
// to abort a command waiting for its response, unless a command timeout is configured.
// A failed send or receive, a command timeout included, closes the client.
package usrr16
