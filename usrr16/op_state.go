package usrr16

import "sync/atomic"

// OpState is the lifecycle state of a Client.
type OpState uint32

const (
	ClosedState OpState = iota
	AuthenticatingState
	ReadyState
	ClosingState
)

func (s OpState) String() string {
	switch s {
	case ClosedState:
		return "Closed"
	case AuthenticatingState:
		return "Authenticating"
	case ReadyState:
		return "Ready"
	case ClosingState:
		return "Closing"
	default:
		return "Unknown"
	}
}

// AtomicOpState holds an OpState and guards its transitions.
type AtomicOpState struct {
	state atomic.Uint32
}

func (st *AtomicOpState) String() string {
	return st.Get().String()
}

// Get returns the current state.
func (st *AtomicOpState) Get() OpState {
	return OpState(st.state.Load())
}

// Set sets the state unconditionally.
func (st *AtomicOpState) Set(state OpState) {
	st.state.Store(uint32(state))
}

func (st *AtomicOpState) IsClosed() bool {
	return st.Get() == ClosedState
}

func (st *AtomicOpState) IsReady() bool {
	return st.Get() == ReadyState
}

// ToAuthenticating moves Closed to Authenticating.
func (st *AtomicOpState) ToAuthenticating() bool {
	return st.state.CompareAndSwap(uint32(ClosedState), uint32(AuthenticatingState))
}

// ToReady moves Authenticating to Ready.
func (st *AtomicOpState) ToReady() bool {
	if st.IsReady() {
		return true
	}

	return st.state.CompareAndSwap(uint32(AuthenticatingState), uint32(ReadyState))
}

// ToClosing moves Ready or Authenticating to Closing.
func (st *AtomicOpState) ToClosing() bool {
	if st.state.CompareAndSwap(uint32(ReadyState), uint32(ClosingState)) {
		return true
	}

	return st.state.CompareAndSwap(uint32(AuthenticatingState), uint32(ClosingState))
}

// ToClosed moves Closing to Closed.
func (st *AtomicOpState) ToClosed() bool {
	if st.IsClosed() {
		return true
	}

	return st.state.CompareAndSwap(uint32(ClosingState), uint32(ClosedState))
}
