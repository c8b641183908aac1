package rigkit

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// VectorSmoothing selects a smoothing technique for translation and
// scale series.
type VectorSmoothing int

const (
	SmoothLerp VectorSmoothing = iota
	SmoothLoopLerp
)

// RotationSmoothing selects a smoothing technique for rotation series.
type RotationSmoothing int

const (
	SmoothNlerp RotationSmoothing = iota
	SmoothLoopNlerp
)

// SmoothTransforms bundles one smoothing technique per transform channel.
type SmoothTransforms struct {
	Translations VectorSmoothing
	Rotations    RotationSmoothing
	Scales       VectorSmoothing
}

// Smooth convolves a vector series with a triangular kernel of the
// given width. Width 0 returns the samples unchanged. Loop smoothing
// measures time distance around the cycle; a series whose last time
// equals the cycle time smooths without its final sample, then closes
// the loop by copying the smoothed first sample over it.
func (vs VectorSmoothing) Smooth(times []float32, cycleTime float32, samples []mgl32.Vec3,
	width float32) []mgl32.Vec3 {

	last := len(times) - 1
	switch vs {
	case SmoothLerp:
		return smoothVectors(times, samples, width)
	case SmoothLoopLerp:
		if times[last] == cycleTime {
			if last > 1 {
				result := loopSmoothVectors(times, last-1, cycleTime, samples, width)
				result[last] = result[0]
				return result
			}
			return smoothVectors(times, samples, width)
		}
		return loopSmoothVectors(times, last, cycleTime, samples, width)
	default:
		panic(fmt.Sprintf("unknown vector smoothing technique: %d", vs))
	}
}

// Smooth convolves a rotation series with a triangular kernel of the
// given width, accumulating in a consistent hemisphere and
// renormalizing each sum.
func (rs RotationSmoothing) Smooth(times []float32, cycleTime float32, samples []mgl32.Quat,
	width float32) []mgl32.Quat {

	last := len(times) - 1
	switch rs {
	case SmoothNlerp:
		return smoothRotations(times, samples, width)
	case SmoothLoopNlerp:
		if times[last] == cycleTime {
			if last > 1 {
				result := loopSmoothRotations(times, last-1, cycleTime, samples, width)
				result[last] = result[0]
				return result
			}
			return smoothRotations(times, samples, width)
		}
		return loopSmoothRotations(times, last, cycleTime, samples, width)
	default:
		panic(fmt.Sprintf("unknown rotation smoothing technique: %d", rs))
	}
}

// kernelWeight is the triangular kernel: 1 at distance 0 falling to 0
// at halfWidth. Distance 0 weighs 1 even when halfWidth is 0, so that
// a zero-width window passes samples through unchanged.
func kernelWeight(dt, halfWidth float32) (float32, bool) {
	if dt == 0 {
		return 1, true
	}
	if dt >= halfWidth {
		return 0, false
	}
	return 1 - dt/halfWidth, true
}

// cyclicDistance is the shorter way around the cycle between two times.
func cyclicDistance(iTime, jTime, cycleTime float32) float32 {
	dt := floorMod(iTime-jTime, cycleTime)
	if dt > cycleTime/2 {
		dt -= cycleTime
	}
	return math32.Abs(dt)
}

func floorMod(x, y float32) float32 {
	m := math32.Mod(x, y)
	if m < 0 {
		m += y
	}
	return m
}

func smoothVectors(times []float32, samples []mgl32.Vec3, width float32) []mgl32.Vec3 {
	result := make([]mgl32.Vec3, len(samples))
	halfWidth := width / 2
	for i, iTime := range times {
		var sum mgl32.Vec3
		var sumWeight float32
		for j, jTime := range times {
			dt := math32.Abs(iTime - jTime)
			if weight, ok := kernelWeight(dt, halfWidth); ok {
				sum = sum.Add(samples[j].Mul(weight))
				sumWeight += weight
			}
		}
		result[i] = sum.Mul(1 / sumWeight)
	}
	return result
}

func loopSmoothVectors(times []float32, last int, cycleTime float32, samples []mgl32.Vec3,
	width float32) []mgl32.Vec3 {

	result := make([]mgl32.Vec3, len(samples))
	halfWidth := width / 2
	for i := 0; i <= last; i++ {
		var sum mgl32.Vec3
		var sumWeight float32
		for j := 0; j <= last; j++ {
			dt := cyclicDistance(times[i], times[j], cycleTime)
			if weight, ok := kernelWeight(dt, halfWidth); ok {
				sum = sum.Add(samples[j].Mul(weight))
				sumWeight += weight
			}
		}
		result[i] = sum.Mul(1 / sumWeight)
	}
	return result
}

func smoothRotations(times []float32, samples []mgl32.Quat, width float32) []mgl32.Quat {
	result := make([]mgl32.Quat, len(samples))
	halfWidth := width / 2
	for i, iTime := range times {
		var sum mgl32.Quat
		for j, jTime := range times {
			dt := math32.Abs(iTime - jTime)
			if weight, ok := kernelWeight(dt, halfWidth); ok {
				sum = accumulateScaled(sum, samples[j], weight)
			}
		}
		result[i] = sum.Normalize()
	}
	return result
}

func loopSmoothRotations(times []float32, last int, cycleTime float32, samples []mgl32.Quat,
	width float32) []mgl32.Quat {

	result := make([]mgl32.Quat, len(samples))
	halfWidth := width / 2
	for i := 0; i <= last; i++ {
		var sum mgl32.Quat
		for j := 0; j <= last; j++ {
			dt := cyclicDistance(times[i], times[j], cycleTime)
			if weight, ok := kernelWeight(dt, halfWidth); ok {
				sum = accumulateScaled(sum, samples[j], weight)
			}
		}
		result[i] = sum.Normalize()
	}
	return result
}
