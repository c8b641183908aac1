package rigkit

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestAnglesRoundTrip(t *testing.T) {
	x, y, z := float32(0.3), float32(-0.7), float32(0.8)
	q := quatFromAngles(x, y, z)
	gx, gy, gz := anglesFromQuat(q)
	if math32.Abs(gx-x) > 1e-4 || math32.Abs(gy-y) > 1e-4 || math32.Abs(gz-z) > 1e-4 {
		t.Errorf("anglesFromQuat(quatFromAngles(%g, %g, %g)) = (%g, %g, %g)", x, y, z, gx, gy, gz)
	}
}

func TestQuatFromAnglesSingleAxis(t *testing.T) {
	q := quatFromAngles(0, halfPi, 0)
	want := mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 1, 0})
	if !q.OrientationEqualThreshold(want, 1e-4) {
		t.Errorf("quatFromAngles(0, pi/2, 0) = %v, want %v", q, want)
	}
}

func TestSnapAxis(t *testing.T) {
	// 80 degrees about Y snaps to 90 degrees.
	q := mgl32.QuatRotate(mgl32.DegToRad(80), mgl32.Vec3{0, 1, 0})
	snapped := SnapAxis(q, 1)
	want := mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 1, 0})
	if !snapped.OrientationEqualThreshold(want, 1e-4) {
		t.Errorf("SnapAxis(80deg Y, 1) = %v, want 90deg Y", snapped)
	}

	// A small angle snaps to zero.
	q = mgl32.QuatRotate(0.2, mgl32.Vec3{1, 0, 0})
	snapped = SnapAxis(q, 0)
	if !snapped.OrientationEqualThreshold(mgl32.QuatIdent(), 1e-4) {
		t.Errorf("SnapAxis(0.2rad X, 0) = %v, want identity", snapped)
	}
}

func TestSnapAxisBadAxis(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("SnapAxis with axis 3 should panic")
		}
	}()
	SnapAxis(mgl32.QuatIdent(), 3)
}

func TestCardinalize(t *testing.T) {
	// Near-cardinal rotations land exactly on the cardinal.
	q := mgl32.QuatRotate(mgl32.DegToRad(87), mgl32.Vec3{0, 1, 0})
	got := Cardinalize(q)
	want := mgl32.QuatRotate(halfPi, mgl32.Vec3{0, 1, 0})
	if !got.OrientationEqualThreshold(want, 1e-4) {
		t.Errorf("Cardinalize(87deg Y) = %v, want 90deg Y", got)
	}

	got = Cardinalize(mgl32.QuatRotate(0.05, mgl32.Vec3{0, 0, 1}))
	if !got.OrientationEqualThreshold(mgl32.QuatIdent(), 1e-4) {
		t.Errorf("Cardinalize(3deg Z) = %v, want identity", got)
	}
}

func TestBlendHemisphereCorrection(t *testing.T) {
	// q1 encodes the same family of orientations with the opposite sign.
	// Blending must flip it rather than pass through zero.
	q0 := mgl32.QuatRotate(0.1, mgl32.Vec3{0, 0, 1})
	q1 := mgl32.QuatRotate(0.3, mgl32.Vec3{0, 0, 1}).Scale(-1)
	want := mgl32.QuatRotate(0.2, mgl32.Vec3{0, 0, 1})

	got := nlerpQuat(q0, q1, 0.5)
	if !got.OrientationEqualThreshold(want, 1e-4) {
		t.Errorf("nlerpQuat across hemispheres = %v, want %v", got, want)
	}
	got = slerpQuat(q0, q1, 0.5)
	if !got.OrientationEqualThreshold(want, 1e-4) {
		t.Errorf("slerpQuat across hemispheres = %v, want %v", got, want)
	}
}

func TestBlendEqualOperands(t *testing.T) {
	q := mgl32.QuatRotate(0.9, mgl32.Vec3{1, 0, 0})
	if got := nlerpQuat(q, q, 0.37); got != q {
		t.Errorf("nlerpQuat(q, q, t) = %v, want %v unchanged", got, q)
	}
	if got := slerpQuat(q, q, 0.37); got != q {
		t.Errorf("slerpQuat(q, q, t) = %v, want %v unchanged", got, q)
	}
}

func TestAccumulateScaledFlipsSign(t *testing.T) {
	sum := mgl32.QuatRotate(0.1, mgl32.Vec3{0, 1, 0})
	sample := sum.Scale(-1)
	got := accumulateScaled(sum, sample, 1)
	// The sample is flipped into sum's hemisphere, so the result doubles
	// sum instead of cancelling it.
	want := sum.Scale(2)
	if math32.Abs(got.W-want.W) > 1e-5 || got.V.Sub(want.V).Len() > 1e-5 {
		t.Errorf("accumulateScaled with flipped sample = %v, want %v", got, want)
	}
}
