package rigkit

import (
	"github.com/chewxy/math32"
)

// unitTolerance is how far a keyframe rotation's squared norm may
// stray from 1 before the track is considered corrupt.
const unitTolerance = 1e-4

// Validator checks loaded data for the anomalies the core operations
// assume away: bad names, out-of-order keyframes, denormalized
// rotations and the like. Each check returns a single verdict and logs
// the first problem found; lesser oddities log a warning but pass.
// A nil Log is silent.
type Validator struct {
	Log Logger
}

// Skeleton checks bone count and names. Duplicate names degrade
// lookups but don't corrupt anything, so they warn and pass.
func (v *Validator) Skeleton(skeleton *Skeleton) bool {
	count := skeleton.BoneCount()
	if count > MaxBones {
		v.warnf("too many bones: %d (limit %d)", count, MaxBones)
		return false
	}

	seen := make(map[string]bool, count)
	for i := 0; i < count; i++ {
		name := skeleton.Bone(i).Name
		if name == "" {
			v.warnf("bone %d has an empty name", i)
			return false
		}
		if name == NoBone {
			v.warnf("bone %d has the reserved name %q", i, name)
			return false
		}
		if seen[name] {
			v.warnf("duplicate bone name: %q", name)
		}
		seen[name] = true
	}

	return true
}

// Animations checks a set of animations against a skeleton: usable,
// distinct names, then each animation in turn.
func (v *Validator) Animations(animations []*Animation, skeleton *Skeleton) bool {
	if len(animations) == 0 {
		v.warnf("no animations")
		return false
	}

	seen := make(map[string]bool, len(animations))
	for _, anim := range animations {
		if IsReservedName(anim.Name) {
			v.warnf("animation has a reserved name: %q", anim.Name)
			return false
		}
		if seen[anim.Name] {
			v.warnf("duplicate animation name: %q", anim.Name)
			return false
		}
		seen[anim.Name] = true
		if !v.Animation(anim, skeleton) {
			return false
		}
	}

	return true
}

// Animation checks one animation's duration and tracks against a
// skeleton. A repeated keyframe time warns and passes; a decreasing
// one fails.
func (v *Validator) Animation(animation *Animation, skeleton *Skeleton) bool {
	if animation.Duration < 0 {
		v.warnf("animation %q has negative duration: %g", animation.Name, animation.Duration)
		return false
	}
	if animation.TrackCount() == 0 {
		v.warnf("animation %q has no tracks", animation.Name)
		return false
	}

	tracked := make(map[int]bool)
	for _, track := range animation.Tracks() {
		if !v.track(animation, track, skeleton.BoneCount(), tracked) {
			return false
		}
	}

	return true
}

func (v *Validator) track(animation *Animation, track *Track, boneCount int,
	tracked map[int]bool) bool {

	name := animation.Name
	if track.BoneIndex < 0 || track.BoneIndex >= boneCount {
		v.warnf("animation %q has a track for nonexistent bone %d", name, track.BoneIndex)
		return false
	}
	if tracked[track.BoneIndex] {
		v.warnf("animation %q has multiple tracks for bone %d", name, track.BoneIndex)
		return false
	}
	tracked[track.BoneIndex] = true

	numFrames := len(track.Times)
	if numFrames == 0 {
		v.warnf("animation %q has a track with no keyframes", name)
		return false
	}
	if track.Times[0] != 0 {
		v.warnf("animation %q: first keyframe at t=%g, not 0", name, track.Times[0])
		return false
	}
	prev := float32(-1)
	for _, time := range track.Times {
		switch {
		case time < prev:
			v.warnf("animation %q has keyframes out of order", name)
			return false
		case time == prev:
			v.warnf("animation %q has multiple keyframes for t=%g", name, time)
		case time > animation.Duration:
			v.warnf("animation %q has a keyframe past its end", name)
			return false
		}
		prev = time
	}

	if len(track.Translations) != numFrames {
		v.warnf("animation %q: translation data have wrong length", name)
		return false
	}
	if len(track.Rotations) != numFrames {
		v.warnf("animation %q: rotation data have wrong length", name)
		return false
	}
	for _, rotation := range track.Rotations {
		if math32.Abs(rotation.Dot(rotation)-1) > unitTolerance {
			v.warnf("animation %q: rotation data not normalized", name)
			return false
		}
	}
	if track.Scales != nil && len(track.Scales) != numFrames {
		v.warnf("animation %q: scale data have wrong length", name)
		return false
	}

	return true
}

// Mapping checks that every bone a mapping names exists in the paired
// skeletons.
func (v *Validator) Mapping(mapping *SkeletonMapping, sourceSkeleton, targetSkeleton *Skeleton) bool {
	for _, target := range mapping.TargetBoneNames() {
		bm := mapping.Get(target)
		if targetSkeleton.BoneIndex(target) == -1 {
			v.warnf("mapped target bone %q not in target skeleton", target)
			return false
		}
		if sourceSkeleton.BoneIndex(bm.Source) == -1 {
			v.warnf("mapped source bone %q not in source skeleton", bm.Source)
			return false
		}
	}
	return true
}

func (v *Validator) warnf(format string, args ...any) {
	if v.Log != nil {
		v.Log.Warnf(format, args...)
	}
}
