package parameter

import "time"

// Layout & Margins
const (
	// BottomMargin reserves the status line below the container
	BottomMargin = 1

	// MinContainerWidth is the narrowest track the host lays out
	MinContainerWidth = 12

	// MinContainerHeight is the shortest container the host lays out (bubble plus sprite)
	MinContainerHeight = 8
)

// Status Line
const (
	// HintText is shown on the status line outside debug mode
	// Must fit 80 columns after StatusPrefixReduced
	HintText = " click the duck | s/e/x api | r still | d debug | q quit"

	// StatusPrefixReduced marks the status line while reduced motion is active
	StatusPrefixReduced = "[still] "

	// NoticeDuration is how long reload notices stay on the status line
	NoticeDuration = 3 * time.Second
)

// Speech Tail
const (
	// TailChar points from the bubble at the agent
	TailChar = 'v'
)

// Hand-off
const (
	// HandoffDelay keeps the redirect pose on screen before the host hands over to the prompt
	HandoffDelay = 800 * time.Millisecond

	// PromptPlaceholder is the hint text of the hand-off prompt
	PromptPlaceholder = "ask the chatbot anything"

	// PromptCharLimit bounds the opening message length
	PromptCharLimit = 280

	// PromptWidth is the visible width of the prompt input
	PromptWidth = 48

	// DemoOperation is the operation name used by the API demo keys
	DemoOperation = "demo"

	// DemoErrorMessage is the speech text of the demo API error key
	DemoErrorMessage = "request failed, try again"
)
