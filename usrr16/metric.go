package usrr16

import (
	"sync/atomic"
)

// ClientMetrics contains atomic metrics for a client.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ClientMetrics struct {
	// CommandSendCount indicates the number of command frames sent.
	CommandSendCount atomic.Uint64
	// CommandErrCount indicates the number of commands that failed on the transport.
	CommandErrCount atomic.Uint64
	// StateQueryCount indicates the number of state queries answered.
	StateQueryCount atomic.Uint64

	// BytesWritten indicates the number of bytes written to the device.
	BytesWritten atomic.Uint64
	// BytesRead indicates the number of bytes read from the device.
	BytesRead atomic.Uint64
}

func (m *ClientMetrics) incCommandSendCount() {
	m.CommandSendCount.Add(1)
}

func (m *ClientMetrics) incCommandErrCount() {
	m.CommandErrCount.Add(1)
}

func (m *ClientMetrics) incStateQueryCount() {
	m.StateQueryCount.Add(1)
}

func (m *ClientMetrics) addBytesWritten(n int) {
	m.BytesWritten.Add(uint64(n)) //nolint:gosec
}

func (m *ClientMetrics) addBytesRead(n int) {
	m.BytesRead.Add(uint64(n)) //nolint:gosec
}
