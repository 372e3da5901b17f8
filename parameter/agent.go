package parameter

import "time"

// Agent Motion Defaults
// Speeds are host units per frame tick
const (
	// MotionSpeedMin is the lower bound of the randomized walking speed
	MotionSpeedMin = 0.2

	// MotionSpeedMax is the upper (exclusive) bound of the randomized walking speed
	MotionSpeedMax = 0.6

	// MotionPauseChance is the per-tick probability of a mid-walk pause
	MotionPauseChance = 0.002

	// MotionPauseMin is the shortest mid-walk pause
	MotionPauseMin = 500 * time.Millisecond

	// MotionPauseMax is the longest (exclusive) mid-walk pause
	MotionPauseMax = 1500 * time.Millisecond
)

// Speech Overlay Defaults
const (
	// SpeechGap is the vertical distance between bubble bottom and agent top
	SpeechGap = 1

	// SpeechDefaultWidth is used when the host cannot measure the bubble
	SpeechDefaultWidth = 15

	// SpeechDefaultHeight is used when the host cannot measure the bubble
	SpeechDefaultHeight = 3

	// SpeechMinWidth is the narrowest bubble, border and padding included
	SpeechMinWidth = 8

	// SpeechMaxWidth bounds the bubble in terminal cells, border and padding included
	SpeechMaxWidth = 36
)

// Config Paths
const (
	// DefaultConfigDir is the external config directory checked before the embedded manifest
	DefaultConfigDir = "config"

	// DefaultConfigFile is the manifest file name inside DefaultConfigDir
	DefaultConfigFile = "ducky.yaml"

	// WatchDebounce is the quiet period after the last file event before a reload is reported
	WatchDebounce = 100 * time.Millisecond
)

// Element Accessibility
const (
	ElementRole  = "img"
	ElementLabel = "Ducky - Interactive Character"
	ElementTitle = "Interactive Ducky Character - Click to interact"
	ElementAlt   = "Ducky"
)
