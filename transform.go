package rigkit

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a translate-rotate-scale triple in float32, the unit of
// currency for bind poses, user poses and animation keyframes.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

func TransformIdent() Transform {
	return Transform{
		Translation: mgl32.Vec3{0, 0, 0},
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// Compose combines a child transform into this (parent) one:
//
//	Rot   = ParentRot * ChildRot
//	Scale = ParentScale * ChildScale          (componentwise)
//	Trans = ParentScale * (ParentRot * ChildTrans) + ParentTrans
//
// Note the child translation is rotated before it is scaled.
func (parent Transform) Compose(child Transform) Transform {
	var result Transform

	result.Rotation = parent.Rotation.Mul(child.Rotation)

	result.Scale = mgl32.Vec3{
		parent.Scale.X() * child.Scale.X(),
		parent.Scale.Y() * child.Scale.Y(),
		parent.Scale.Z() * child.Scale.Z(),
	}

	rotated := parent.Rotation.Rotate(child.Translation)
	result.Translation = mgl32.Vec3{
		rotated.X()*parent.Scale.X() + parent.Translation.X(),
		rotated.Y()*parent.Scale.Y() + parent.Translation.Y(),
		rotated.Z()*parent.Scale.Z() + parent.Translation.Z(),
	}

	return result
}

// LocalFromBind applies a user transform on top of a bind transform to
// produce a bone's local transform. Translations add, rotations multiply
// (bind first), scales multiply componentwise.
func LocalFromBind(bind, user Transform) Transform {
	return Transform{
		Translation: bind.Translation.Add(user.Translation),
		Rotation:    bind.Rotation.Mul(user.Rotation),
		Scale: mgl32.Vec3{
			bind.Scale.X() * user.Scale.X(),
			bind.Scale.Y() * user.Scale.Y(),
			bind.Scale.Z() * user.Scale.Z(),
		},
	}
}

// ApproxEqualThreshold compares componentwise with the given tolerance.
// Rotations compare as orientations, so q and -q are equal.
func (t Transform) ApproxEqualThreshold(other Transform, epsilon float32) bool {
	if !t.Translation.ApproxEqualThreshold(other.Translation, epsilon) {
		return false
	}
	if !t.Scale.ApproxEqualThreshold(other.Scale, epsilon) {
		return false
	}
	return t.Rotation.OrientationEqualThreshold(other.Rotation, epsilon)
}

// IsIdentity reports whether the transform is (numerically) the identity.
func (t Transform) IsIdentity() bool {
	return t.ApproxEqualThreshold(TransformIdent(), 1e-6)
}

// Mat4 expands the transform into a 4x4 matrix (translate * rotate * scale).
func (t Transform) Mat4() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	rotate := t.Rotation.Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}
