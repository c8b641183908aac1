package rigkit

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RetargetAnimation re-targets an animation from one skeleton to
// another using a bone mapping. The result keeps the source duration
// and gains one track per mapped target bone, in bone-index order;
// unmapped target bones get no track. A pose cache keyed by keyframe
// time is shared across tracks, so tracks with identical time axes
// cost one pose evaluation per distinct time.
func RetargetAnimation(sourceAnimation *Animation, sourceSkeleton, targetSkeleton *Skeleton,
	mapping *SkeletonMapping, animationName string, techniques TweenTransforms) *Animation {

	if sourceAnimation == nil {
		panic("nil source animation")
	}
	if mapping == nil {
		panic("nil skeleton mapping")
	}

	result := NewAnimation(animationName, sourceAnimation.Duration)
	cache := make(map[float32]*Pose)

	for iTarget := 0; iTarget < targetSkeleton.BoneCount(); iTarget++ {
		targetName := targetSkeleton.Bone(iTarget).Name
		bm := mapping.Get(targetName)
		if bm == nil {
			continue
		}
		iSource := sourceSkeleton.BoneIndex(bm.Source)
		sourceTrack := sourceAnimation.FindTrack(iSource)
		track := RetargetTrack(sourceAnimation, sourceTrack, sourceSkeleton, targetSkeleton,
			mapping, iTarget, techniques, cache)
		result.AddTrack(track)
	}

	return result
}

// RetargetTrack computes one target bone's track: at each source
// keyframe time, pose the source skeleton from the animation, solve
// the target pose against it, and record the target bone's user
// transform. A nil sourceTrack yields a single keyframe at t=0 (a
// static pose sampled from whatever the animation does at time zero).
// Computed target poses are shared through cache; a nil cache disables
// sharing.
func RetargetTrack(sourceAnimation *Animation, sourceTrack *Track,
	sourceSkeleton, targetSkeleton *Skeleton, mapping *SkeletonMapping,
	targetBoneIndex int, techniques TweenTransforms, cache map[float32]*Pose) *Track {

	var times []float32
	if sourceTrack == nil {
		times = []float32{0}
	} else {
		times = sourceTrack.Times
	}
	count := len(times)
	translations := make([]mgl32.Vec3, count)
	rotations := make([]mgl32.Quat, count)
	scales := make([]mgl32.Vec3, count)
	sourcePose := NewPose(sourceSkeleton)

	for frameIndex, trackTime := range times {
		targetPose := cache[trackTime]
		if targetPose == nil {
			targetPose = NewPose(targetSkeleton)
			sourcePose.SetToAnimation(sourceAnimation, trackTime, techniques)
			targetPose.SetToRetarget(sourcePose, mapping)
			if cache != nil {
				cache[trackTime] = targetPose
			}
		}
		user := targetPose.UserTransform(targetBoneIndex)
		translations[frameIndex] = user.Translation
		rotations[frameIndex] = user.Rotation
		scales[frameIndex] = user.Scale
	}

	track, err := NewTrack(targetBoneIndex, times, translations, rotations, scales)
	if err != nil {
		panic(err)
	}
	return track
}
