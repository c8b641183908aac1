package rigkit

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const halfPi = math32.Pi / 2

// quatFromAngles builds a rotation from per-axis angles (radians),
// applied in y-z-x order: Ry * Rz * Rx.
func quatFromAngles(x, y, z float32) mgl32.Quat {
	qx := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1})
	return qy.Mul(qz).Mul(qx)
}

// anglesFromQuat decomposes a rotation into the per-axis angles that
// quatFromAngles would recompose from, guarding the gimbal poles.
func anglesFromQuat(q mgl32.Quat) (x, y, z float32) {
	sqw := q.W * q.W
	sqx := q.X() * q.X()
	sqy := q.Y() * q.Y()
	sqz := q.Z() * q.Z()
	unit := sqx + sqy + sqz + sqw
	test := q.X()*q.Y() + q.Z()*q.W
	switch {
	case test > 0.499*unit: // north pole
		y = 2 * math32.Atan2(q.X(), q.W)
		z = halfPi
		x = 0
	case test < -0.499*unit: // south pole
		y = -2 * math32.Atan2(q.X(), q.W)
		z = -halfPi
		x = 0
	default:
		y = math32.Atan2(2*q.Y()*q.W-2*q.X()*q.Z(), sqx-sqy-sqz+sqw)
		z = math32.Asin(2 * test / unit)
		x = math32.Atan2(2*q.X()*q.W-2*q.Y()*q.Z(), -sqx+sqy-sqz+sqw)
	}
	return x, y, z
}

// SnapAxis rounds one per-axis angle of a rotation to the nearest
// multiple of 90 degrees. axis is 0=x, 1=y, 2=z.
func SnapAxis(q mgl32.Quat, axis int) mgl32.Quat {
	if axis < 0 || axis > 2 {
		panic(fmt.Sprintf("snap axis out of range: %d", axis))
	}
	x, y, z := anglesFromQuat(q)
	angles := [3]float32{x, y, z}
	angles[axis] = halfPi * math32.Round(angles[axis]/halfPi)
	return quatFromAngles(angles[0], angles[1], angles[2])
}

// Cardinalize snaps a rotation to the nearest cardinal orientation,
// one axis at a time.
func Cardinalize(q mgl32.Quat) mgl32.Quat {
	q = q.Normalize()
	q = SnapAxis(q, 0)
	q = SnapAxis(q, 1)
	q = SnapAxis(q, 2)
	return q
}

// nlerpQuat blends two unit quaternions linearly along the shorter arc
// and renormalizes. Exactly equal inputs short-circuit.
func nlerpQuat(q0, q1 mgl32.Quat, t float32) mgl32.Quat {
	if q0 == q1 {
		return q0
	}
	if q0.Dot(q1) < 0 {
		q1 = q1.Scale(-1)
	}
	return mgl32.QuatNlerp(q0, q1, t)
}

// slerpQuat blends two unit quaternions spherically along the shorter arc.
func slerpQuat(q0, q1 mgl32.Quat, t float32) mgl32.Quat {
	if q0 == q1 {
		return q0
	}
	if q0.Dot(q1) < 0 {
		q1 = q1.Scale(-1)
	}
	return mgl32.QuatSlerp(q0, q1, t)
}

// accumulateScaled adds weight*sample into sum, negating the sample
// first when it lies in the opposite hemisphere from the running sum.
func accumulateScaled(sum, sample mgl32.Quat, weight float32) mgl32.Quat {
	if sum.Dot(sample) < 0 {
		weight = -weight
	}
	return sum.Add(sample.Scale(weight))
}
