package rigkit

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// BoneMapping links one target bone to the source bone it mimics, plus
// a twist rotation correcting for different bone-axis conventions.
type BoneMapping struct {
	Target string
	Source string
	Twist  mgl32.Quat
}

// CardinalizeTwist snaps the twist to the nearest cardinal rotation.
func (bm *BoneMapping) CardinalizeTwist() {
	bm.Twist = Cardinalize(bm.Twist)
}

// SnapTwist snaps one per-axis angle of the twist to the nearest
// multiple of 90 degrees. axis is 0=x, 1=y, 2=z.
func (bm *BoneMapping) SnapTwist(axis int) {
	bm.Twist = SnapAxis(bm.Twist, axis)
}

// SkeletonMapping maps target bone names to source bones for
// retargeting. Lookups are by target name; a source bone may serve any
// number of targets. Log, when set, receives warnings about replaced
// mappings; a nil Log is silent.
type SkeletonMapping struct {
	Log      Logger
	mappings map[string]*BoneMapping
}

func NewSkeletonMapping() *SkeletonMapping {
	return &SkeletonMapping{mappings: make(map[string]*BoneMapping)}
}

// IdentityMapping maps every bone of the skeleton to its own name with
// an identity twist.
func IdentityMapping(skeleton *Skeleton) *SkeletonMapping {
	m := NewSkeletonMapping()
	for i := 0; i < skeleton.BoneCount(); i++ {
		name := skeleton.Bone(i).Name
		m.Map(name, name, mgl32.QuatIdent())
	}
	return m
}

// Map adds a bone mapping. Mapping a target that is already mapped
// logs a warning and replaces the old entry.
func (m *SkeletonMapping) Map(targetName, sourceName string, twist mgl32.Quat) *BoneMapping {
	if old, ok := m.mappings[targetName]; ok {
		m.warnf("replacing mapping for target bone %q (source %q -> %q)",
			targetName, old.Source, sourceName)
	}
	bm := &BoneMapping{Target: targetName, Source: sourceName, Twist: twist}
	m.mappings[targetName] = bm
	return bm
}

// Get returns the live mapping for a target bone, nil if unmapped.
// Mutating the result (twist edits) alters the skeleton mapping.
func (m *SkeletonMapping) Get(targetName string) *BoneMapping {
	return m.mappings[targetName]
}

// GetForSource returns the first mapping (in target-name order) whose
// source is the given bone, nil if none.
func (m *SkeletonMapping) GetForSource(sourceName string) *BoneMapping {
	for _, target := range m.TargetBoneNames() {
		bm := m.mappings[target]
		if bm.Source == sourceName {
			return bm
		}
	}
	return nil
}

// Unmap removes the mapping for a target bone, if any.
func (m *SkeletonMapping) Unmap(targetName string) {
	delete(m.mappings, targetName)
}

func (m *SkeletonMapping) Count() int {
	return len(m.mappings)
}

// TargetBoneNames lists the mapped target bones, sorted.
func (m *SkeletonMapping) TargetBoneNames() []string {
	names := make([]string, 0, len(m.mappings))
	for name := range m.mappings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SourceBoneNames lists the distinct mapped source bones, sorted.
func (m *SkeletonMapping) SourceBoneNames() []string {
	var names []string
	for _, bm := range m.mappings {
		if !slices.Contains(names, bm.Source) {
			names = append(names, bm.Source)
		}
	}
	slices.Sort(names)
	return names
}

// Inverse builds the reverse mapping: source names become targets and
// twists invert. Targets sharing a source collapse to one entry, with
// a warning per collision.
func (m *SkeletonMapping) Inverse() *SkeletonMapping {
	inverse := NewSkeletonMapping()
	inverse.Log = m.Log
	for _, target := range m.TargetBoneNames() {
		bm := m.mappings[target]
		inverse.Map(bm.Source, bm.Target, bm.Twist.Inverse())
	}
	return inverse
}

func (m *SkeletonMapping) Clone() *SkeletonMapping {
	clone := NewSkeletonMapping()
	clone.Log = m.Log
	for target, bm := range m.mappings {
		copied := *bm
		clone.mappings[target] = &copied
	}
	return clone
}

// MatchesSource reports whether every mapped source bone exists in the
// skeleton.
func (m *SkeletonMapping) MatchesSource(skeleton *Skeleton) bool {
	for _, bm := range m.mappings {
		if skeleton.BoneIndex(bm.Source) == -1 {
			return false
		}
	}
	return true
}

// MatchesTarget reports whether every mapped target bone exists in the
// skeleton.
func (m *SkeletonMapping) MatchesTarget(skeleton *Skeleton) bool {
	for target := range m.mappings {
		if skeleton.BoneIndex(target) == -1 {
			return false
		}
	}
	return true
}

func (m *SkeletonMapping) warnf(format string, args ...any) {
	if m.Log != nil {
		m.Log.Warnf(format, args...)
	}
}

// EstimateTwist derives the twist for a bone pair from the current
// poses: the rotation carrying the source bone's model orientation to
// the target's, snapped to the nearest cardinal rotation.
func EstimateTwist(sourcePose *Pose, sourceBone int, targetPose *Pose, targetBone int) mgl32.Quat {
	sourceMo := sourcePose.ModelOrientation(sourceBone)
	targetMo := targetPose.ModelOrientation(targetBone)
	return Cardinalize(sourceMo.Inverse().Mul(targetMo))
}
