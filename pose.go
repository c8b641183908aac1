package rigkit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Pose is the user pose of a skeleton: one user transform per bone,
// identity by default, applied on top of the bind pose. The skeleton is
// borrowed and never mutated; a nil skeleton behaves as zero bones.
//
// A Pose is one evaluation context. It is not safe for concurrent
// mutation.
type Pose struct {
	skeleton   *Skeleton
	transforms []Transform
}

func NewPose(skeleton *Skeleton) *Pose {
	p := &Pose{}
	p.Rebind(skeleton)
	return p
}

// Rebind points the pose at a different skeleton and reinitializes
// every user transform to identity.
func (p *Pose) Rebind(skeleton *Skeleton) {
	p.skeleton = skeleton
	p.transforms = make([]Transform, skeleton.BoneCount())
	for i := range p.transforms {
		p.transforms[i] = TransformIdent()
	}
}

func (p *Pose) Skeleton() *Skeleton {
	return p.skeleton
}

func (p *Pose) BoneCount() int {
	return len(p.transforms)
}

// FindBone finds a bone by name, -1 if absent.
func (p *Pose) FindBone(name string) int {
	return p.skeleton.BoneIndex(name)
}

func (p *Pose) RootIndices() []int {
	return p.skeleton.RootIndices()
}

func (p *Pose) PreOrderIndices() []int {
	return p.skeleton.PreOrderIndices()
}

// Set replaces the bone's whole user transform.
func (p *Pose) Set(boneIndex int, transform Transform) {
	p.checkBone(boneIndex)
	p.transforms[boneIndex] = transform
}

func (p *Pose) SetRotation(boneIndex int, rotation mgl32.Quat) {
	p.checkBone(boneIndex)
	p.transforms[boneIndex].Rotation = rotation
}

// SetScale requires all components positive.
func (p *Pose) SetScale(boneIndex int, scale mgl32.Vec3) {
	p.checkBone(boneIndex)
	if scale.X() <= 0 || scale.Y() <= 0 || scale.Z() <= 0 {
		panic(fmt.Sprintf("non-positive scale: %v", scale))
	}
	p.transforms[boneIndex].Scale = scale
}

func (p *Pose) SetTranslation(boneIndex int, translation mgl32.Vec3) {
	p.checkBone(boneIndex)
	p.transforms[boneIndex].Translation = translation
}

// UserTransform returns a copy of the bone's user transform.
func (p *Pose) UserTransform(boneIndex int) Transform {
	p.checkBone(boneIndex)
	return p.transforms[boneIndex]
}

func (p *Pose) UserRotation(boneIndex int) mgl32.Quat {
	p.checkBone(boneIndex)
	return p.transforms[boneIndex].Rotation
}

func (p *Pose) UserScale(boneIndex int) mgl32.Vec3 {
	p.checkBone(boneIndex)
	return p.transforms[boneIndex].Scale
}

func (p *Pose) UserTranslation(boneIndex int) mgl32.Vec3 {
	p.checkBone(boneIndex)
	return p.transforms[boneIndex].Translation
}

func (p *Pose) ResetRotation(boneIndex int) {
	p.checkBone(boneIndex)
	p.transforms[boneIndex].Rotation = mgl32.QuatIdent()
}

func (p *Pose) ResetScale(boneIndex int) {
	p.checkBone(boneIndex)
	p.transforms[boneIndex].Scale = mgl32.Vec3{1, 1, 1}
}

func (p *Pose) ResetTranslation(boneIndex int) {
	p.checkBone(boneIndex)
	p.transforms[boneIndex].Translation = mgl32.Vec3{0, 0, 0}
}

// SetToBind resets every bone to its bind pose.
func (p *Pose) SetToBind() {
	for i := range p.transforms {
		p.transforms[i] = TransformIdent()
	}
}

// LocalTransform is the bone's transform relative to its parent: the
// bind transform with the user transform applied.
func (p *Pose) LocalTransform(boneIndex int) Transform {
	p.checkBone(boneIndex)
	return LocalFromBind(p.skeleton.BindTransform(boneIndex), p.transforms[boneIndex])
}

func (p *Pose) LocalRotation(boneIndex int) mgl32.Quat {
	p.checkBone(boneIndex)
	bind := p.skeleton.BindTransform(boneIndex)
	return bind.Rotation.Mul(p.transforms[boneIndex].Rotation)
}

// ModelTransform is the bone's transform in model space, composed
// recursively from the root down. For a root bone it equals the local
// transform.
func (p *Pose) ModelTransform(boneIndex int) Transform {
	p.checkBone(boneIndex)
	local := p.LocalTransform(boneIndex)
	parent := p.skeleton.Bone(boneIndex).Parent
	if parent == -1 {
		return local
	}
	return p.ModelTransform(parent).Compose(local)
}

// ModelOrientation is the bone's orientation in model space: the
// product of local rotations from the root down, not renormalized.
func (p *Pose) ModelOrientation(boneIndex int) mgl32.Quat {
	p.checkBone(boneIndex)
	local := p.LocalRotation(boneIndex)
	parent := p.skeleton.Bone(boneIndex).Parent
	if parent == -1 {
		return local
	}
	return p.ModelOrientation(parent).Mul(local)
}

func (p *Pose) ModelLocation(boneIndex int) mgl32.Vec3 {
	return p.ModelTransform(boneIndex).Translation
}

// Capture records the pose as a zero-duration animation: one
// single-keyframe track per bone whose user transform is not identity.
func (p *Pose) Capture(animationName string) *Animation {
	result := NewAnimation(animationName, 0)
	for boneIndex, transform := range p.transforms {
		if transform.IsIdentity() {
			continue
		}
		track, err := NewTrack(boneIndex,
			[]float32{0},
			[]mgl32.Vec3{transform.Translation},
			[]mgl32.Quat{transform.Rotation},
			[]mgl32.Vec3{transform.Scale})
		if err != nil {
			panic(err)
		}
		result.AddTrack(track)
	}
	return result
}

// UserForModel solves for the user rotation that would give the bone
// the desired model-space orientation, holding its ancestors fixed.
func (p *Pose) UserForModel(boneIndex int, modelOrientation mgl32.Quat) mgl32.Quat {
	p.checkBone(boneIndex)
	local := p.localForModel(boneIndex, modelOrientation)
	bind := p.skeleton.BindTransform(boneIndex)
	return bind.Rotation.Inverse().Mul(local)
}

// localForModel strips the parent's model orientation; for a root the
// model orientation already is the local rotation.
func (p *Pose) localForModel(boneIndex int, modelOrientation mgl32.Quat) mgl32.Quat {
	parent := p.skeleton.Bone(boneIndex).Parent
	if parent == -1 {
		return modelOrientation
	}
	return p.ModelOrientation(parent).Inverse().Mul(modelOrientation)
}

// SetToAnimation poses the skeleton exactly as the animation would at
// the given time. Bones without a track reset to identity.
func (p *Pose) SetToAnimation(animation *Animation, time float32, techniques TweenTransforms) {
	if animation == nil {
		panic("nil animation")
	}
	for boneIndex := range p.transforms {
		track := animation.FindTrack(boneIndex)
		if track == nil {
			p.transforms[boneIndex] = TransformIdent()
		} else {
			p.transforms[boneIndex] = techniques.BoneTransform(track, time, animation.Duration)
		}
	}
}

// SetToRetarget configures the pose to mimic a pose of a different
// skeleton: every bone resets to identity, then each mapped bone's
// user rotation is solved so its model orientation matches the mapped
// source bone's, twist-corrected. Translations and scales are left
// identity. Parents are posed before their children, so each solve
// sees final ancestor orientations.
func (p *Pose) SetToRetarget(sourcePose *Pose, mapping *SkeletonMapping) {
	if sourcePose == nil {
		panic("nil source pose")
	}
	if mapping == nil {
		panic("nil skeleton mapping")
	}
	for _, root := range p.skeleton.RootIndices() {
		p.retargetBones(root, sourcePose, mapping)
	}
}

func (p *Pose) retargetBones(targetIndex int, sourcePose *Pose, mapping *SkeletonMapping) {
	p.transforms[targetIndex] = TransformIdent()

	targetName := p.skeleton.Bone(targetIndex).Name
	if bm := mapping.Get(targetName); bm != nil {
		sourceIndex := sourcePose.FindBone(bm.Source)
		if sourceIndex == -1 {
			panic(fmt.Sprintf("mapped source bone %q not in source skeleton", bm.Source))
		}
		orientation := sourcePose.ModelOrientation(sourceIndex)
		userRotation := p.UserForModel(targetIndex, orientation)
		p.transforms[targetIndex].Rotation = userRotation.Mul(bm.Twist).Normalize()
	}

	for _, child := range p.skeleton.ChildIndices(targetIndex) {
		p.retargetBones(child, sourcePose, mapping)
	}
}

// SkinningMatrices computes the matrix palette for mesh skinning: each
// bone's model transform times its inverse bind matrix, in one pass
// with parents evaluated first.
func (p *Pose) SkinningMatrices() []mgl32.Mat4 {
	count := p.BoneCount()
	result := make([]mgl32.Mat4, count)
	model := make([]Transform, count)
	for _, boneIndex := range p.skeleton.PreOrderIndices() {
		local := p.LocalTransform(boneIndex)
		parent := p.skeleton.Bone(boneIndex).Parent
		if parent == -1 {
			model[boneIndex] = local
		} else {
			model[boneIndex] = model[parent].Compose(local)
		}
		result[boneIndex] = model[boneIndex].Mat4().Mul4(p.skeleton.InverseBindMatrix(boneIndex))
	}
	return result
}

// Clone copies the user transforms; the skeleton is shared.
func (p *Pose) Clone() *Pose {
	clone := &Pose{
		skeleton:   p.skeleton,
		transforms: make([]Transform, len(p.transforms)),
	}
	copy(clone.transforms, p.transforms)
	return clone
}

func (p *Pose) checkBone(index int) {
	if index < 0 || index >= len(p.transforms) {
		panic(fmt.Sprintf("bone index out of range: %d (pose has %d)", index, len(p.transforms)))
	}
}
