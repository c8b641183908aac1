package rigkit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Track holds the keyframes animating a single bone: parallel arrays of
// times, translations, rotations and (optionally) scales. A nil Scales
// array means identity scale throughout.
type Track struct {
	BoneIndex    int
	Times        []float32
	Translations []mgl32.Vec3
	Rotations    []mgl32.Quat
	Scales       []mgl32.Vec3
}

// NewTrack copies the keyframe arrays into a new track. It fails on
// structurally unusable input: no keyframes, mismatched array lengths
// or a negative bone index. Monotonic times, unit rotations and the
// like are the Validator's concern.
func NewTrack(boneIndex int, times []float32, translations []mgl32.Vec3,
	rotations []mgl32.Quat, scales []mgl32.Vec3) (*Track, error) {

	count := len(times)
	if count == 0 {
		return nil, fmt.Errorf("track for bone %d has no keyframes", boneIndex)
	}
	if len(translations) != count || len(rotations) != count {
		return nil, fmt.Errorf("track for bone %d: array lengths differ: %d times, %d translations, %d rotations",
			boneIndex, count, len(translations), len(rotations))
	}
	if scales != nil && len(scales) != count {
		return nil, fmt.Errorf("track for bone %d: %d scales for %d keyframes",
			boneIndex, len(scales), count)
	}
	if boneIndex < 0 {
		return nil, fmt.Errorf("negative bone index: %d", boneIndex)
	}

	t := &Track{
		BoneIndex:    boneIndex,
		Times:        make([]float32, count),
		Translations: make([]mgl32.Vec3, count),
		Rotations:    make([]mgl32.Quat, count),
	}
	copy(t.Times, times)
	copy(t.Translations, translations)
	copy(t.Rotations, rotations)
	if scales != nil {
		t.Scales = make([]mgl32.Vec3, count)
		copy(t.Scales, scales)
	}
	return t, nil
}

// LastTime is the time of the final keyframe.
func (t *Track) LastTime() float32 {
	return t.Times[len(t.Times)-1]
}

// ScaleAt substitutes identity when the track carries no scales.
func (t *Track) ScaleAt(index int) mgl32.Vec3 {
	t.checkFrame(index)
	if t.Scales == nil {
		return mgl32.Vec3{1, 1, 1}
	}
	return t.Scales[index]
}

// TransformAt returns the indexed keyframe verbatim.
func (t *Track) TransformAt(index int) Transform {
	t.checkFrame(index)
	return Transform{
		Translation: t.Translations[index],
		Rotation:    t.Rotations[index],
		Scale:       t.ScaleAt(index),
	}
}

// FindKeyframe finds the keyframe at exactly the given time, -1 if none.
func (t *Track) FindKeyframe(time float32) int {
	for i, kt := range t.Times {
		if kt == time {
			return i
		}
	}
	return -1
}

// FindPreviousKeyframe finds the latest keyframe at or before the given
// time, -1 if the time precedes the whole track.
func (t *Track) FindPreviousKeyframe(time float32) int {
	return findPreviousIndex(t.Times, time)
}

func (t *Track) Clone() *Track {
	clone := &Track{
		BoneIndex:    t.BoneIndex,
		Times:        make([]float32, len(t.Times)),
		Translations: make([]mgl32.Vec3, len(t.Translations)),
		Rotations:    make([]mgl32.Quat, len(t.Rotations)),
	}
	copy(clone.Times, t.Times)
	copy(clone.Translations, t.Translations)
	copy(clone.Rotations, t.Rotations)
	if t.Scales != nil {
		clone.Scales = make([]mgl32.Vec3, len(t.Scales))
		copy(clone.Scales, t.Scales)
	}
	return clone
}

func (t *Track) checkFrame(index int) {
	if index < 0 || index >= len(t.Times) {
		panic(fmt.Sprintf("keyframe index out of range: %d (track has %d)", index, len(t.Times)))
	}
}

func findPreviousIndex(times []float32, time float32) int {
	for i := len(times) - 1; i >= 0; i-- {
		if times[i] <= time {
			return i
		}
	}
	return -1
}
