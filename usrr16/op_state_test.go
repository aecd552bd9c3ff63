package usrr16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicOpState_String(t *testing.T) {
	tests := []struct {
		state    OpState
		expected string
	}{
		{ClosedState, "Closed"},
		{AuthenticatingState, "Authenticating"},
		{ReadyState, "Ready"},
		{ClosingState, "Closing"},
		{OpState(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			st := &AtomicOpState{}
			st.Set(tt.state)
			assert.Equal(t, tt.expected, st.String())
		})
	}
}

func TestAtomicOpState_Lifecycle(t *testing.T) {
	assert := assert.New(t)

	st := &AtomicOpState{}
	assert.True(st.IsClosed())

	assert.False(st.ToReady(), "closed state can't become ready without authentication")
	assert.False(st.ToClosing())

	assert.True(st.ToAuthenticating())
	assert.False(st.ToAuthenticating())

	assert.True(st.ToReady())
	assert.True(st.ToReady())
	assert.True(st.IsReady())

	assert.True(st.ToClosing())
	assert.False(st.ToClosing())
	assert.False(st.IsReady())

	assert.True(st.ToClosed())
	assert.True(st.ToClosed())
	assert.True(st.IsClosed())
}

func TestAtomicOpState_CloseWhileAuthenticating(t *testing.T) {
	assert := assert.New(t)

	st := &AtomicOpState{}
	assert.True(st.ToAuthenticating())
	assert.True(st.ToClosing())
	assert.False(st.ToReady())
	assert.True(st.ToClosed())
}
