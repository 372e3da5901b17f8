package event

import (
	"fmt"
	"sync"
)

var (
	registryMu sync.RWMutex
	nameToType = make(map[string]EventType)
	typeToName = make(map[EventType]string)
	nextCustom = eventBuiltinEnd
)

func init() {
	registerBuiltin("INIT", EventInit)
	registerBuiltin("TIMEOUT", EventTimeout)
	registerBuiltin("DUCKY_CLICKED", EventDuckyClicked)
	registerBuiltin("API_START", EventAPIStart)
	registerBuiltin("API_END", EventAPIEnd)
	registerBuiltin("API_ERROR", EventAPIError)
	registerBuiltin("REDIRECT_TIMER_EXPIRED", EventRedirectTimerExpired)
	registerBuiltin("RESIZE", EventResize)
}

func registerBuiltin(name string, et EventType) {
	nameToType[name] = et
	typeToName[et] = name
}

// RegisterType maps a deployment-defined event name to a new EventType
// Registering an existing name returns its current type
func RegisterType(name string) (EventType, error) {
	if name == "" {
		return EventNone, fmt.Errorf("event name must not be empty")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if et, ok := nameToType[name]; ok {
		return et, nil
	}
	et := nextCustom
	nextCustom++
	nameToType[name] = et
	typeToName[et] = name
	return et, nil
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the registered name for an EventType
func GetEventName(et EventType) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	name, ok := typeToName[et]
	return name, ok
}

// IsBuiltin reports whether the type is one of the fixed agent events
func IsBuiltin(et EventType) bool {
	return et > EventNone && et < eventBuiltinEnd
}
