package rigkit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TweenVectors selects an interpolation technique for translation and
// scale channels.
type TweenVectors int

const (
	TweenLerp TweenVectors = iota
	TweenLoopLerp
)

// TweenRotations selects an interpolation technique for the rotation
// channel.
type TweenRotations int

const (
	TweenNlerp TweenRotations = iota
	TweenLoopNlerp
	TweenSlerp
	TweenLoopSlerp
)

// TweenTransforms bundles one technique per transform channel.
type TweenTransforms struct {
	Translations TweenVectors
	Rotations    TweenRotations
	Scales       TweenVectors
}

func DefaultTweens() TweenTransforms {
	return TweenTransforms{
		Translations: TweenLerp,
		Rotations:    TweenNlerp,
		Scales:       TweenLerp,
	}
}

// BoneTransform samples a track at the given time. At or before the
// first keyframe, or on a single-keyframe track, the first keyframe is
// returned verbatim; otherwise each channel interpolates per its
// technique, with duration as the cycle time for loop techniques.
func (tw TweenTransforms) BoneTransform(track *Track, time, duration float32) Transform {
	times := track.Times
	if time <= times[0] || len(times) == 1 {
		return track.TransformAt(0)
	}

	var result Transform
	result.Translation = tw.Translations.Interpolate(time, times, duration, track.Translations)
	result.Rotation = tw.Rotations.Interpolate(time, times, duration, track.Rotations)
	if track.Scales == nil {
		result.Scale = mgl32.Vec3{1, 1, 1}
	} else {
		result.Scale = tw.Scales.Interpolate(time, times, duration, track.Scales)
	}
	return result
}

// InterpolateTransforms blends two transforms: linear for translation
// and scale, shortest-arc Nlerp for rotation.
func InterpolateTransforms(t0, t1 Transform, t float32) Transform {
	return Transform{
		Translation: lerpVec3(t0.Translation, t1.Translation, t),
		Rotation:    nlerpQuat(t0.Rotation, t1.Rotation, t),
		Scale:       lerpVec3(t0.Scale, t1.Scale, t),
	}
}

// Interpolate samples a vector series at the given time. Loop
// techniques wrap the final interval back to sample 0; a series whose
// last time equals the cycle time treats its final sample as a
// duplicate of the first, unless it is too short to spare one.
func (tv TweenVectors) Interpolate(time float32, times []float32, cycleTime float32,
	samples []mgl32.Vec3) mgl32.Vec3 {

	last := len(times) - 1
	switch tv {
	case TweenLerp:
		return lerpVectors(time, times, samples)
	case TweenLoopLerp:
		if times[last] == cycleTime {
			if last > 1 {
				return loopLerpVectors(time, last-1, times, cycleTime, samples)
			}
			return lerpVectors(time, times, samples)
		}
		return loopLerpVectors(time, last, times, cycleTime, samples)
	default:
		panic(fmt.Sprintf("unknown vector tween technique: %d", tv))
	}
}

// Interpolate samples a rotation series at the given time.
func (tr TweenRotations) Interpolate(time float32, times []float32, cycleTime float32,
	samples []mgl32.Quat) mgl32.Quat {

	var blend func(q0, q1 mgl32.Quat, t float32) mgl32.Quat
	switch tr {
	case TweenNlerp, TweenLoopNlerp:
		blend = nlerpQuat
	case TweenSlerp, TweenLoopSlerp:
		blend = slerpQuat
	default:
		panic(fmt.Sprintf("unknown rotation tween technique: %d", tr))
	}

	if tr == TweenNlerp || tr == TweenSlerp {
		return lerpRotations(time, times, samples, blend)
	}
	last := len(times) - 1
	if times[last] == cycleTime {
		if last > 1 {
			return loopLerpRotations(time, last-1, times, cycleTime, samples, blend)
		}
		return lerpRotations(time, times, samples, blend)
	}
	return loopLerpRotations(time, last, times, cycleTime, samples, blend)
}

func lerpVec3(v1, v2 mgl32.Vec3, t float32) mgl32.Vec3 {
	return v1.Add(v2.Sub(v1).Mul(t))
}

func lerpVectors(time float32, times []float32, samples []mgl32.Vec3) mgl32.Vec3 {
	index1 := findPreviousIndex(times, time)
	v1 := samples[index1]
	if index1 >= len(times)-1 {
		return v1
	}
	index2 := index1 + 1
	interval := times[index2] - times[index1]
	t := (time - times[index1]) / interval
	return lerpVec3(v1, samples[index2], t)
}

// loopLerpVectors interpolates cyclically among samples 0..last; the
// interval from times[last] back to sample 0 spans cycleTime.
func loopLerpVectors(time float32, last int, times []float32, cycleTime float32,
	samples []mgl32.Vec3) mgl32.Vec3 {

	index1 := findPreviousIndex(times, time)
	if index1 > last {
		index1 = last
	}
	var index2 int
	var interval float32
	if index1 < last {
		index2 = index1 + 1
		interval = times[index2] - times[index1]
	} else {
		index2 = 0
		interval = cycleTime - times[index1]
	}
	t := (time - times[index1]) / interval
	return lerpVec3(samples[index1], samples[index2], t)
}

func lerpRotations(time float32, times []float32, samples []mgl32.Quat,
	blend func(q0, q1 mgl32.Quat, t float32) mgl32.Quat) mgl32.Quat {

	index1 := findPreviousIndex(times, time)
	q1 := samples[index1]
	if index1 >= len(times)-1 {
		return q1
	}
	index2 := index1 + 1
	interval := times[index2] - times[index1]
	t := (time - times[index1]) / interval
	return blend(q1, samples[index2], t)
}

func loopLerpRotations(time float32, last int, times []float32, cycleTime float32,
	samples []mgl32.Quat, blend func(q0, q1 mgl32.Quat, t float32) mgl32.Quat) mgl32.Quat {

	index1 := findPreviousIndex(times, time)
	if index1 > last {
		index1 = last
	}
	var index2 int
	var interval float32
	if index1 < last {
		index2 = index1 + 1
		interval = times[index2] - times[index1]
	} else {
		index2 = 0
		interval = cycleTime - times[index1]
	}
	t := (time - times[index1]) / interval
	return blend(samples[index1], samples[index2], t)
}
