package render

import (
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/ducky/core"
	"github.com/lixenwraith/ducky/parameter"
)

// MotionConfig tunes the wandering behaviour
// Speeds are host units per frame tick; ranges are [min, max)
type MotionConfig struct {
	SpeedMin    float64
	SpeedMax    float64
	PauseChance float64 // Per-tick probability of a mid-walk pause
	PauseMin    time.Duration
	PauseMax    time.Duration
}

// DefaultMotionConfig returns the compile-time defaults
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		SpeedMin:    parameter.MotionSpeedMin,
		SpeedMax:    parameter.MotionSpeedMax,
		PauseChance: parameter.MotionPauseChance,
		PauseMin:    parameter.MotionPauseMin,
		PauseMax:    parameter.MotionPauseMax,
	}
}

// Motion is the renderer-owned kinematic state
// X is the offset along the track, Y the offset from the container top
type Motion struct {
	X, Y     float64
	Velocity float64
	Walking  bool
	Paused   bool
}

// Mirrored reports the orientation implied by the travel direction
func (m Motion) Mirrored() bool {
	return m.Velocity < 0
}

// drawVelocity returns a signed speed: direction uniform in {-1,+1}, magnitude uniform in [min, max)
func (c MotionConfig) drawVelocity(r *rand.Rand) float64 {
	speed := c.SpeedMin
	if c.SpeedMax > c.SpeedMin {
		speed += r.Float64() * (c.SpeedMax - c.SpeedMin)
	}
	if r.IntN(2) == 0 {
		return -speed
	}
	return speed
}

func (c MotionConfig) drawPause(r *rand.Rand) time.Duration {
	if c.PauseMax <= c.PauseMin {
		return c.PauseMin
	}
	return c.PauseMin + time.Duration(r.Int64N(int64(c.PauseMax-c.PauseMin)))
}

// step advances x by v inside [0, maxX]
// Reaching or crossing a bound flips the velocity and clamps the position
func step(x, v, maxX float64) (float64, float64, bool) {
	x += v
	if x <= 0 || x >= maxX {
		return core.Clamp(x, 0, maxX), -v, true
	}
	return x, v, false
}
