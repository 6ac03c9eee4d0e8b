// ABOUTME: Per-instance gain envelope with exponential ramps
// ABOUTME: Implements fade-in and fade-out value automation
package engine

import "math"

// GainFloor is the smallest ramp endpoint. Exponential ramps cannot start
// at or target zero, so fades begin and end here instead.
const GainFloor = 1e-4

// envelope automates a gain value over time, one step per frame.
type envelope struct {
	value     float64
	target    float64
	factor    float64
	remaining int
}

func newEnvelope(value float64) envelope {
	return envelope{value: value}
}

// set jumps the gain immediately, cancelling any ramp
func (e *envelope) set(value float64) {
	e.value = value
	e.remaining = 0
}

// rampTo schedules an exponential ramp from the current value to target
// over the given number of frames. Endpoints are clamped to GainFloor.
func (e *envelope) rampTo(target float64, frames int) {
	if frames <= 0 {
		e.set(target)
		return
	}

	from := math.Max(e.value, GainFloor)
	to := math.Max(target, GainFloor)

	e.value = from
	e.target = to
	e.factor = math.Pow(to/from, 1.0/float64(frames))
	e.remaining = frames
}

// step returns the gain for the current frame and advances the ramp
func (e *envelope) step() float64 {
	g := e.value
	if e.remaining > 0 {
		e.value *= e.factor
		e.remaining--
		if e.remaining == 0 {
			e.value = e.target
		}
	}
	return g
}
