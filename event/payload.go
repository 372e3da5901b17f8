package event

import "time"

// Payload is the typed data attached to an event
// Each event kind has its own payload type; EventType reports the kind it belongs to
type Payload interface {
	EventType() EventType
}

// Parameterized payloads expose transition parameters to state entry actions
type Parameterized interface {
	Params() map[string]any
}

// ParamsOf returns the transition parameters carried by a payload, or nil
func ParamsOf(p Payload) map[string]any {
	if pp, ok := p.(Parameterized); ok {
		return pp.Params()
	}
	return nil
}

// Event is a single queued occurrence
type Event struct {
	Type    EventType
	Payload Payload
	Seq     uint64 // Emission order, assigned by the bus
}

// InitPayload is attached to EventInit
type InitPayload struct{}

func (*InitPayload) EventType() EventType { return EventInit }

// TimeoutPayload is attached to timer-driven events
// Type defaults to EventTimeout; states may configure a different expiry event
type TimeoutPayload struct {
	Type  EventType
	State string        // State whose timer expired
	After time.Duration // Drawn duration that elapsed
}

func (p *TimeoutPayload) EventType() EventType {
	if p.Type == EventNone {
		return EventTimeout
	}
	return p.Type
}

func (p *TimeoutPayload) Params() map[string]any {
	return map[string]any{"state": p.State, "after": p.After}
}

// ClickPayload is attached to EventDuckyClicked
// Coordinates are container-relative host units
type ClickPayload struct {
	X, Y float64
}

func (*ClickPayload) EventType() EventType { return EventDuckyClicked }

// APIStartPayload is attached to EventAPIStart
type APIStartPayload struct {
	Operation string
}

func (*APIStartPayload) EventType() EventType { return EventAPIStart }

func (p *APIStartPayload) Params() map[string]any {
	return map[string]any{"operation": p.Operation}
}

// APIEndPayload is attached to EventAPIEnd
type APIEndPayload struct {
	Operation string
}

func (*APIEndPayload) EventType() EventType { return EventAPIEnd }

func (p *APIEndPayload) Params() map[string]any {
	return map[string]any{"operation": p.Operation}
}

// APIErrorPayload is attached to EventAPIError
// Message, when set, overrides the speech text of the entered state
type APIErrorPayload struct {
	Operation string
	Message   string
}

func (*APIErrorPayload) EventType() EventType { return EventAPIError }

func (p *APIErrorPayload) Params() map[string]any {
	params := map[string]any{"operation": p.Operation}
	if p.Message != "" {
		params["text"] = p.Message
	}
	return params
}

// ResizePayload is attached to EventResize
type ResizePayload struct {
	Width, Height float64
}

func (*ResizePayload) EventType() EventType { return EventResize }

// CustomPayload carries data for event types registered at runtime
type CustomPayload struct {
	Type EventType
	Data map[string]any
}

func (p *CustomPayload) EventType() EventType { return p.Type }

func (p *CustomPayload) Params() map[string]any { return p.Data }

// NewPayload returns a zero-value payload for the event type
// Custom and unknown types receive a *CustomPayload
func NewPayload(et EventType) Payload {
	switch et {
	case EventInit:
		return &InitPayload{}
	case EventTimeout, EventRedirectTimerExpired:
		return &TimeoutPayload{Type: et}
	case EventDuckyClicked:
		return &ClickPayload{}
	case EventAPIStart:
		return &APIStartPayload{}
	case EventAPIEnd:
		return &APIEndPayload{}
	case EventAPIError:
		return &APIErrorPayload{}
	case EventResize:
		return &ResizePayload{}
	default:
		return &CustomPayload{Type: et}
	}
}
