package parameter

import "time"

// Loop & Scheduling
const (
	// FrameUpdateInterval is the motion/render frame cadence (~30 FPS, terminal friendly)
	FrameUpdateInterval = 33 * time.Millisecond

	// LoopQueueSize is the buffered capacity of the cooperative loop task channel
	LoopQueueSize = 256

	// EventQueueSize is the initial capacity of the bus pending-event queue
	EventQueueSize = 16
)

// Logging
const (
	// LogDir is the directory debug logs are written to
	LogDir = "logs"

	// LogFileName is the debug log file inside LogDir
	LogFileName = "ducky.log"
)

// Environment
const (
	// EnvFile is loaded, when present, before flags are parsed
	EnvFile = ".env"

	// Environment variables providing flag defaults
	EnvConfig        = "DUCKY_CONFIG"
	EnvReducedMotion = "DUCKY_REDUCED_MOTION"
	EnvMute          = "DUCKY_MUTE"
	EnvSeed          = "DUCKY_SEED"
)
