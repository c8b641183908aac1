package rigkit

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Track edits are value operations: each returns a new track built from
// freshly allocated arrays, leaving the input unchanged. Tracks without
// scales stay without scales unless noted.

// Reduce keeps every factor-th keyframe starting with the first. The
// new count is 1+(n-1)/factor, truncating, so the final keyframe may be
// dropped.
func Reduce(oldTrack *Track, factor int) *Track {
	if factor < 2 {
		panic(fmt.Sprintf("reduction factor must be at least 2: %d", factor))
	}

	oldCount := len(oldTrack.Times)
	newCount := 1 + (oldCount-1)/factor
	times := make([]float32, newCount)
	translations := make([]mgl32.Vec3, newCount)
	rotations := make([]mgl32.Quat, newCount)
	var scales []mgl32.Vec3
	if oldTrack.Scales != nil {
		scales = make([]mgl32.Vec3, newCount)
	}

	for newIndex := 0; newIndex < newCount; newIndex++ {
		oldIndex := newIndex * factor
		times[newIndex] = oldTrack.Times[oldIndex]
		translations[newIndex] = oldTrack.Translations[oldIndex]
		rotations[newIndex] = oldTrack.Rotations[oldIndex]
		if scales != nil {
			scales[newIndex] = oldTrack.Scales[oldIndex]
		}
	}

	return mustTrack(oldTrack.BoneIndex, times, translations, rotations, scales)
}

// SetDuration rescales every keyframe time by newDuration/oldDuration,
// where the old duration is the track's last keyframe time. A
// zero-duration track (single keyframe at t=0) is returned unchanged.
func SetDuration(oldTrack *Track, newDuration float32) *Track {
	if newDuration < 0 {
		panic(fmt.Sprintf("negative duration: %g", newDuration))
	}

	result := oldTrack.Clone()
	oldDuration := oldTrack.LastTime()
	for i, oldTime := range oldTrack.Times {
		if oldDuration == 0 {
			result.Times[i] = 0
		} else {
			newTime := newDuration * oldTime / oldDuration
			result.Times[i] = mgl32.Clamp(newTime, 0, newDuration)
		}
	}
	return result
}

// Smooth filters every channel with the given techniques and window
// width. Keyframe times are unchanged.
func Smooth(oldTrack *Track, width, duration float32, techniques SmoothTransforms) *Track {
	if width < 0 || width > duration {
		panic(fmt.Sprintf("smoothing width %g outside [0, %g]", width, duration))
	}

	times := make([]float32, len(oldTrack.Times))
	copy(times, oldTrack.Times)

	translations := techniques.Translations.Smooth(times, duration, oldTrack.Translations, width)
	rotations := techniques.Rotations.Smooth(times, duration, oldTrack.Rotations, width)
	var scales []mgl32.Vec3
	if oldTrack.Scales != nil {
		scales = techniques.Scales.Smooth(times, duration, oldTrack.Scales, width)
	}

	return mustTrack(oldTrack.BoneIndex, times, translations, rotations, scales)
}

// Behead deletes everything before neckTime and re-origins the track at
// t=0, with neckTransform (normally the track sampled at neckTime) as
// the new first keyframe.
func Behead(oldTrack *Track, neckTime float32, neckTransform Transform) *Track {
	if neckTime <= 0 {
		panic(fmt.Sprintf("neck time must be positive: %g", neckTime))
	}

	oldCount := len(oldTrack.Times)
	neckIndex := oldTrack.FindPreviousKeyframe(neckTime)
	newCount := oldCount - neckIndex

	times := make([]float32, newCount)
	translations := make([]mgl32.Vec3, newCount)
	rotations := make([]mgl32.Quat, newCount)
	var scales []mgl32.Vec3
	times[0] = 0
	translations[0] = neckTransform.Translation
	rotations[0] = neckTransform.Rotation
	if oldTrack.Scales != nil {
		scales = make([]mgl32.Vec3, newCount)
		scales[0] = neckTransform.Scale
	}

	for newIndex := 1; newIndex < newCount; newIndex++ {
		oldIndex := newIndex + neckIndex
		times[newIndex] = oldTrack.Times[oldIndex] - neckTime
		translations[newIndex] = oldTrack.Translations[oldIndex]
		rotations[newIndex] = oldTrack.Rotations[oldIndex]
		if scales != nil {
			scales[newIndex] = oldTrack.Scales[oldIndex]
		}
	}

	return mustTrack(oldTrack.BoneIndex, times, translations, rotations, scales)
}

// Truncate drops every keyframe after endTime.
func Truncate(oldTrack *Track, endTime float32) *Track {
	if endTime <= 0 {
		panic(fmt.Sprintf("end time must be positive: %g", endTime))
	}

	newCount := 1 + oldTrack.FindPreviousKeyframe(endTime)
	times := make([]float32, newCount)
	translations := make([]mgl32.Vec3, newCount)
	rotations := make([]mgl32.Quat, newCount)
	var scales []mgl32.Vec3
	if oldTrack.Scales != nil {
		scales = make([]mgl32.Vec3, newCount)
	}

	copy(times, oldTrack.Times)
	copy(translations, oldTrack.Translations)
	copy(rotations, oldTrack.Rotations)
	if scales != nil {
		copy(scales, oldTrack.Scales)
	}

	return mustTrack(oldTrack.BoneIndex, times, translations, rotations, scales)
}

// Wrap makes a track loop-ready: its first keyframe and a keyframe at
// the animation duration end up identical. An existing end-time
// keyframe is blended into the first with the given weight; if the
// track doesn't end with a keyframe, one is appended (endWeight
// ignored). The track must not extend beyond the duration.
func Wrap(oldTrack *Track, duration, endWeight float32) *Track {
	if duration <= 0 {
		panic(fmt.Sprintf("duration must be positive: %g", duration))
	}
	if endWeight < 0 || endWeight > 1 {
		panic(fmt.Sprintf("end weight %g outside [0, 1]", endWeight))
	}

	oldCount := len(oldTrack.Times)
	var newCount int
	var wrapTranslation, wrapScale mgl32.Vec3
	var wrapRotation mgl32.Quat
	endIndex := oldTrack.FindKeyframe(duration)
	if endIndex == -1 {
		endIndex = oldCount
		newCount = oldCount + 1
		wrapTranslation = oldTrack.Translations[0]
		wrapRotation = oldTrack.Rotations[0]
		if oldTrack.Scales != nil {
			wrapScale = oldTrack.Scales[0]
		}
	} else {
		newCount = oldCount
		wrapTranslation = lerpVec3(oldTrack.Translations[0], oldTrack.Translations[endIndex], endWeight)
		wrapRotation = slerpQuat(oldTrack.Rotations[0], oldTrack.Rotations[endIndex], endWeight)
		if oldTrack.Scales != nil {
			wrapScale = lerpVec3(oldTrack.Scales[0], oldTrack.Scales[endIndex], endWeight)
		}
	}
	if endIndex != newCount-1 {
		panic(fmt.Sprintf("track extends beyond duration %g", duration))
	}

	times := make([]float32, newCount)
	translations := make([]mgl32.Vec3, newCount)
	rotations := make([]mgl32.Quat, newCount)
	var scales []mgl32.Vec3
	if oldTrack.Scales != nil {
		scales = make([]mgl32.Vec3, newCount)
		scales[0] = wrapScale
		scales[endIndex] = wrapScale
	}
	times[0] = 0
	times[endIndex] = duration
	translations[0] = wrapTranslation
	translations[endIndex] = wrapTranslation
	rotations[0] = wrapRotation
	rotations[endIndex] = wrapRotation

	for frameIndex := 1; frameIndex < endIndex; frameIndex++ {
		times[frameIndex] = oldTrack.Times[frameIndex]
		translations[frameIndex] = oldTrack.Translations[frameIndex]
		rotations[frameIndex] = oldTrack.Rotations[frameIndex]
		if scales != nil {
			scales[frameIndex] = oldTrack.Scales[frameIndex]
		}
	}

	return mustTrack(oldTrack.BoneIndex, times, translations, rotations, scales)
}

// DeleteRange removes deleteCount keyframes starting at startIndex.
// The first keyframe cannot be deleted.
func DeleteRange(oldTrack *Track, startIndex, deleteCount int) *Track {
	lastIndex := len(oldTrack.Times) - 1
	if startIndex < 1 || startIndex > lastIndex {
		panic(fmt.Sprintf("start index %d outside [1, %d]", startIndex, lastIndex))
	}
	if deleteCount < 1 || deleteCount > lastIndex {
		panic(fmt.Sprintf("delete count %d outside [1, %d]", deleteCount, lastIndex))
	}
	if startIndex+deleteCount-1 > lastIndex {
		panic(fmt.Sprintf("cannot delete %d keyframes starting at %d: track has %d",
			deleteCount, startIndex, lastIndex+1))
	}

	newCount := lastIndex + 1 - deleteCount
	times := make([]float32, newCount)
	translations := make([]mgl32.Vec3, newCount)
	rotations := make([]mgl32.Quat, newCount)
	var scales []mgl32.Vec3
	if oldTrack.Scales != nil {
		scales = make([]mgl32.Vec3, newCount)
	}

	for newIndex := 0; newIndex < newCount; newIndex++ {
		oldIndex := newIndex
		if newIndex >= startIndex {
			oldIndex = newIndex + deleteCount
		}
		times[newIndex] = oldTrack.Times[oldIndex]
		translations[newIndex] = oldTrack.Translations[oldIndex]
		rotations[newIndex] = oldTrack.Rotations[oldIndex]
		if scales != nil {
			scales[newIndex] = oldTrack.Scales[oldIndex]
		}
	}

	return mustTrack(oldTrack.BoneIndex, times, translations, rotations, scales)
}

// InsertKeyframe adds a keyframe at a time the track doesn't already
// have one. The result always carries scales, identity where the input
// had none.
func InsertKeyframe(oldTrack *Track, frameTime float32, transform Transform) *Track {
	if frameTime <= 0 {
		panic(fmt.Sprintf("keyframe time must be positive: %g", frameTime))
	}
	if oldTrack.FindKeyframe(frameTime) != -1 {
		panic(fmt.Sprintf("keyframe already exists at time %g", frameTime))
	}

	oldCount := len(oldTrack.Times)
	newCount := oldCount + 1
	times := make([]float32, newCount)
	translations := make([]mgl32.Vec3, newCount)
	rotations := make([]mgl32.Quat, newCount)
	scales := make([]mgl32.Vec3, newCount)

	added := false
	for oldIndex := 0; oldIndex < oldCount; oldIndex++ {
		newIndex := oldIndex
		if oldTrack.Times[oldIndex] > frameTime {
			if !added {
				times[newIndex] = frameTime
				translations[newIndex] = transform.Translation
				rotations[newIndex] = transform.Rotation
				scales[newIndex] = transform.Scale
				added = true
			}
			newIndex++
		}
		times[newIndex] = oldTrack.Times[oldIndex]
		translations[newIndex] = oldTrack.Translations[oldIndex]
		rotations[newIndex] = oldTrack.Rotations[oldIndex]
		scales[newIndex] = oldTrack.ScaleAt(oldIndex)
	}
	if !added {
		times[oldCount] = frameTime
		translations[oldCount] = transform.Translation
		rotations[oldCount] = transform.Rotation
		scales[oldCount] = transform.Scale
	}

	return mustTrack(oldTrack.BoneIndex, times, translations, rotations, scales)
}

// ReplaceKeyframe swaps the indexed keyframe's transform. The result
// always carries scales, identity where the input had none.
func ReplaceKeyframe(oldTrack *Track, frameIndex int, transform Transform) *Track {
	frameCount := len(oldTrack.Times)
	if frameIndex < 0 || frameIndex >= frameCount {
		panic(fmt.Sprintf("keyframe index out of range: %d (track has %d)", frameIndex, frameCount))
	}

	times := make([]float32, frameCount)
	translations := make([]mgl32.Vec3, frameCount)
	rotations := make([]mgl32.Quat, frameCount)
	scales := make([]mgl32.Vec3, frameCount)

	copy(times, oldTrack.Times)
	for i := 0; i < frameCount; i++ {
		if i == frameIndex {
			translations[i] = transform.Translation
			rotations[i] = transform.Rotation
			scales[i] = transform.Scale
		} else {
			translations[i] = oldTrack.Translations[i]
			rotations[i] = oldTrack.Rotations[i]
			scales[i] = oldTrack.ScaleAt(i)
		}
	}

	return mustTrack(oldTrack.BoneIndex, times, translations, rotations, scales)
}

// RemoveRepeats drops keyframes whose time repeats the previous one,
// keeping the first of each run. It edits the track in place and
// reports whether anything was removed.
func RemoveRepeats(track *Track) bool {
	oldCount := len(track.Times)
	prevTime := math32.Inf(-1)
	newCount := 0
	for _, time := range track.Times {
		if time != prevTime {
			newCount++
		}
		prevTime = time
	}
	if newCount == oldCount {
		return false
	}

	times := make([]float32, 0, newCount)
	translations := make([]mgl32.Vec3, 0, newCount)
	rotations := make([]mgl32.Quat, 0, newCount)
	var scales []mgl32.Vec3
	if track.Scales != nil {
		scales = make([]mgl32.Vec3, 0, newCount)
	}

	prevTime = math32.Inf(-1)
	for oldIndex, time := range track.Times {
		if time != prevTime {
			times = append(times, time)
			translations = append(translations, track.Translations[oldIndex])
			rotations = append(rotations, track.Rotations[oldIndex])
			if scales != nil {
				scales = append(scales, track.Scales[oldIndex])
			}
		}
		prevTime = time
	}

	track.Times = times
	track.Translations = translations
	track.Rotations = rotations
	track.Scales = scales
	return true
}

// Resample rebuilds the track by sampling it at the given times.
func Resample(oldTrack *Track, newTimes []float32, duration float32,
	techniques TweenTransforms) *Track {

	if duration < 0 {
		panic(fmt.Sprintf("negative duration: %g", duration))
	}

	numSamples := len(newTimes)
	translations := make([]mgl32.Vec3, numSamples)
	rotations := make([]mgl32.Quat, numSamples)
	var scales []mgl32.Vec3
	if oldTrack.Scales != nil {
		scales = make([]mgl32.Vec3, numSamples)
	}

	for frameIndex, time := range newTimes {
		transform := techniques.BoneTransform(oldTrack, time, duration)
		translations[frameIndex] = transform.Translation
		rotations[frameIndex] = transform.Rotation
		if scales != nil {
			scales[frameIndex] = transform.Scale
		}
	}

	return mustTrack(oldTrack.BoneIndex, newTimes, translations, rotations, scales)
}

// ResampleAtRate resamples at a fixed rate in frames per second. The
// final sample lands at min(duration, the last whole frame).
func ResampleAtRate(oldTrack *Track, sampleRate, duration float32,
	techniques TweenTransforms) *Track {

	if sampleRate <= 0 {
		panic(fmt.Sprintf("sample rate must be positive: %g", sampleRate))
	}
	if duration < 0 {
		panic(fmt.Sprintf("negative duration: %g", duration))
	}

	numSamples := 1 + int(math32.Floor(duration*sampleRate))
	newTimes := make([]float32, numSamples)
	for frameIndex := range newTimes {
		time := float32(frameIndex) / sampleRate
		if time > duration {
			time = duration
		}
		newTimes[frameIndex] = time
	}
	return Resample(oldTrack, newTimes, duration, techniques)
}

// ResampleToNumber resamples to a fixed number of uniformly spaced
// keyframes, the last exactly at the duration.
func ResampleToNumber(oldTrack *Track, numSamples int, duration float32,
	techniques TweenTransforms) *Track {

	if numSamples < 2 {
		panic(fmt.Sprintf("need at least 2 samples: %d", numSamples))
	}
	if duration <= 0 {
		panic(fmt.Sprintf("duration must be positive: %g", duration))
	}

	newTimes := make([]float32, numSamples)
	for frameIndex := range newTimes {
		if frameIndex == numSamples-1 {
			newTimes[frameIndex] = duration
		} else {
			newTimes[frameIndex] = float32(frameIndex) * duration / float32(numSamples-1)
		}
	}
	return Resample(oldTrack, newTimes, duration, techniques)
}

// ZeroFirst repairs every track whose first keyframe isn't at time
// zero, editing the animation in place. Returns the number of tracks
// edited.
func ZeroFirst(animation *Animation) int {
	edited := 0
	for _, track := range animation.tracks {
		if track.Times[0] != 0 {
			track.Times[0] = 0
			edited++
		}
	}
	return edited
}

func mustTrack(boneIndex int, times []float32, translations []mgl32.Vec3,
	rotations []mgl32.Quat, scales []mgl32.Vec3) *Track {

	track, err := NewTrack(boneIndex, times, translations, rotations, scales)
	if err != nil {
		panic(err)
	}
	return track
}
