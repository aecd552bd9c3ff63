package usrr16test

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/arloliu/go-usrr16/usrr16"
	"github.com/stretchr/testify/require"
)

func dialAndAuth(t *testing.T, d *Device, password string) (net.Conn, []byte) {
	t.Helper()

	conn, err := net.DialTimeout("tcp", d.Addr(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))

	_, err = conn.Write([]byte(password + "\r\n"))
	require.NoError(t, err)

	reply := make([]byte, 1024)
	n, err := conn.Read(reply)
	require.NoError(t, err)

	return conn, reply[:n]
}

func roundTrip(t *testing.T, conn net.Conn, relay int, cmd usrr16.Command) []byte {
	t.Helper()

	frame, err := usrr16.EncodeFrame(relay, cmd)
	require.NoError(t, err)
	_, err = conn.Write(frame[:])
	require.NoError(t, err)

	resp := make([]byte, ResponseSize)
	_, err = io.ReadFull(conn, resp)
	require.NoError(t, err)

	return resp
}

func TestDevice_Auth(t *testing.T) {
	require := require.New(t)

	d, err := NewDevice(WithPassword("secret"))
	require.NoError(err)
	defer d.Close()

	_, reply := dialAndAuth(t, d, "secret")
	require.Equal([]byte("OK"), reply)

	conn, reply := dialAndAuth(t, d, "admin")
	require.NotEqual([]byte("OK"), reply)

	// rejected sessions are closed by the device
	_, err = conn.Read(make([]byte, 1))
	require.Error(err)
}

func TestDevice_Commands(t *testing.T) {
	require := require.New(t)

	d, err := NewDevice()
	require.NoError(err)
	defer d.Close()

	conn, reply := dialAndAuth(t, d, usrr16.DefaultPassword)
	require.Equal([]byte("OK"), reply)

	roundTrip(t, conn, 1, usrr16.CmdOn)
	roundTrip(t, conn, 8, usrr16.CmdOn)
	resp := roundTrip(t, conn, 12, usrr16.CmdInvert)
	require.Equal([]byte{0xaa, 0x55, 0x00, 0x04, 0x00, 0x83, 0x81, 0x08, 0x10}, resp)
	require.Equal(uint16(0x0881), d.Relays())

	resp = roundTrip(t, conn, 1, usrr16.CmdQueryState)
	require.Equal(byte(0x81), resp[6])
	require.Equal(byte(0x08), resp[7])

	roundTrip(t, conn, 8, usrr16.CmdOff)
	require.Equal(uint16(0x0801), d.Relays())

	roundTrip(t, conn, usrr16.AllRelays, usrr16.CmdAllOff)
	require.Zero(d.Relays())

	require.EqualValues(6, d.FrameCount())
	require.Len(d.Frames(), 6)
	require.Equal([usrr16.FrameSize]byte{0x55, 0xaa, 0x00, 0x03, 0x00, 0x05, 0x00, 0x03}, d.Frames()[5])
}

func TestDevice_Close(t *testing.T) {
	require := require.New(t)

	d, err := NewDevice()
	require.NoError(err)

	conn, reply := dialAndAuth(t, d, usrr16.DefaultPassword)
	require.Equal([]byte("OK"), reply)
	require.Eventually(func() bool { return d.SessionCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(d.Close())
	require.NoError(d.Close())
	require.Zero(d.SessionCount())

	_, err = conn.Read(make([]byte, 1))
	require.Error(err)
}

func TestResponse(t *testing.T) {
	// sample answer captured from a real board
	require.Equal(t,
		[]byte{0xaa, 0x55, 0x00, 0x04, 0x00, 0x81, 0x08, 0x00, 0x8d},
		Response(usrr16.CmdOff, 0x0008),
	)
}
