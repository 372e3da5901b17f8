package parameter

import "time"

// Audio
const (
	// AudioSampleRate is the speaker sample rate in Hz
	AudioSampleRate = 44100

	// AudioBufferDuration sizes the speaker buffer, trading latency for underrun safety
	AudioBufferDuration = 100 * time.Millisecond

	// AudioVolume is the default linear gain for cues
	AudioVolume = 0.4
)
