package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinNames(t *testing.T) {
	cases := map[string]EventType{
		"INIT":                   EventInit,
		"TIMEOUT":                EventTimeout,
		"DUCKY_CLICKED":          EventDuckyClicked,
		"API_START":              EventAPIStart,
		"API_END":                EventAPIEnd,
		"API_ERROR":              EventAPIError,
		"REDIRECT_TIMER_EXPIRED": EventRedirectTimerExpired,
		"RESIZE":                 EventResize,
	}
	for name, want := range cases {
		got, ok := GetEventType(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got)
		assert.Equal(t, name, want.String())
		assert.True(t, IsBuiltin(want))
	}
	_, ok := GetEventType("NOPE")
	assert.False(t, ok)
	assert.Equal(t, "EventType(9999)", EventType(9999).String())
}

func TestRegisterCustomType(t *testing.T) {
	et, err := RegisterType("WAVE")
	require.NoError(t, err)
	assert.False(t, IsBuiltin(et))

	again, err := RegisterType("WAVE")
	require.NoError(t, err)
	assert.Equal(t, et, again)

	p := NewPayload(et)
	assert.Equal(t, et, p.EventType())

	_, err = RegisterType("")
	assert.Error(t, err)
}

func TestPayloadParams(t *testing.T) {
	assert.Nil(t, ParamsOf(&ClickPayload{}))
	assert.Equal(t, map[string]any{"operation": "chat", "text": "boom"},
		ParamsOf(&APIErrorPayload{Operation: "chat", Message: "boom"}))
	assert.Equal(t, EventTimeout, (&TimeoutPayload{}).EventType())
	assert.Equal(t, EventRedirectTimerExpired, NewPayload(EventRedirectTimerExpired).EventType())
}
