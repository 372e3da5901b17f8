package event

import "strconv"

// EventType represents the kind of an agent event
type EventType int

const (
	// EventNone is the zero value, never emitted
	EventNone EventType = iota

	// EventInit signals agent construction
	// Trigger: agent.New | Consumer: FSM (routes to initial active state) | Payload: *InitPayload
	EventInit

	// EventTimeout signals expiry of the current state's timer
	// Trigger: FSM timeout scheduling | Consumer: FSM | Payload: *TimeoutPayload
	EventTimeout

	// EventDuckyClicked signals the user clicked the agent
	// Trigger: host input | Consumer: FSM | Payload: *ClickPayload
	EventDuckyClicked

	// EventAPIStart signals a remote operation started in the host application
	// Trigger: host lifecycle | Consumer: FSM | Payload: *APIStartPayload
	EventAPIStart

	// EventAPIEnd signals a remote operation completed
	// Trigger: host lifecycle | Consumer: FSM | Payload: *APIEndPayload
	EventAPIEnd

	// EventAPIError signals a remote operation failed
	// Trigger: host lifecycle | Consumer: FSM | Payload: *APIErrorPayload
	EventAPIError

	// EventRedirectTimerExpired signals the redirect countdown finished
	// Trigger: FSM timeout of the waiting state | Consumer: FSM | Payload: *TimeoutPayload
	EventRedirectTimerExpired

	// EventResize signals the container changed size
	// Trigger: host resize | Consumer: listeners | Payload: *ResizePayload
	EventResize

	// eventBuiltinEnd marks the first id available to custom events
	eventBuiltinEnd
)

// String returns the registered name, or a numeric fallback
func (et EventType) String() string {
	if name, ok := GetEventName(et); ok {
		return name
	}
	return "EventType(" + strconv.Itoa(int(et)) + ")"
}
