package rigkit

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestReduce(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8)

	got := Reduce(track, 3)
	wantTimes := []float32{0, 3, 6}
	if len(got.Times) != len(wantTimes) {
		t.Fatalf("reduced to %d keyframes, want %d", len(got.Times), len(wantTimes))
	}
	for i, want := range wantTimes {
		if got.Times[i] != want {
			t.Errorf("Times[%d] = %g, want %g", i, got.Times[i], want)
		}
		if got.Translations[i].X() != want {
			t.Errorf("Translations[%d].X = %g, want %g", i, got.Translations[i].X(), want)
		}
	}

	// The input track is untouched.
	if len(track.Times) != 9 || track.Times[8] != 8 {
		t.Errorf("Reduce modified its input")
	}
}

func TestReduceFactorTooSmall(t *testing.T) {
	track := linearTrack(t, 0, 0, 1)
	defer func() {
		if recover() == nil {
			t.Errorf("factor 1 should panic")
		}
	}()
	Reduce(track, 1)
}

func TestSetDuration(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2)

	stretched := SetDuration(track, 4)
	wantTimes := []float32{0, 2, 4}
	for i, want := range wantTimes {
		if math32.Abs(stretched.Times[i]-want) > 1e-5 {
			t.Errorf("stretched Times[%d] = %g, want %g", i, stretched.Times[i], want)
		}
	}

	shrunk := SetDuration(track, 1)
	wantTimes = []float32{0, 0.5, 1}
	for i, want := range wantTimes {
		if math32.Abs(shrunk.Times[i]-want) > 1e-5 {
			t.Errorf("shrunk Times[%d] = %g, want %g", i, shrunk.Times[i], want)
		}
	}
}

func TestSetDurationZeroDurationTrack(t *testing.T) {
	track := linearTrack(t, 0, 0)
	got := SetDuration(track, 5)
	if len(got.Times) != 1 || got.Times[0] != 0 {
		t.Errorf("zero-duration track times = %v, want [0]", got.Times)
	}
}

func TestSmoothTrack(t *testing.T) {
	times := []float32{0, 0.25, 0.5, 0.75, 1}
	translations := make([]mgl32.Vec3, len(times))
	rotations := make([]mgl32.Quat, len(times))
	for i := range times {
		translations[i] = mgl32.Vec3{float32(i), 0, 0}
		rotations[i] = mgl32.QuatIdent()
	}
	track := mustNewTrack(t, 0, times, translations, rotations, nil)

	techniques := SmoothTransforms{
		Translations: SmoothLerp,
		Rotations:    SmoothNlerp,
		Scales:       SmoothLerp,
	}
	got := Smooth(track, 1, 1, techniques)

	for i := range times {
		if got.Times[i] != times[i] {
			t.Errorf("smoothing changed Times[%d] to %g", i, got.Times[i])
		}
	}
	wantX := []float32{1.0 / 3.0, 1, 2, 3, 11.0 / 3.0}
	for i, want := range wantX {
		if math32.Abs(got.Translations[i].X()-want) > 1e-3 {
			t.Errorf("smoothed X[%d] = %g, want %g", i, got.Translations[i].X(), want)
		}
	}
}

func TestSmoothWidthOutOfRange(t *testing.T) {
	track := linearTrack(t, 0, 0, 1)
	defer func() {
		if recover() == nil {
			t.Errorf("width beyond the duration should panic")
		}
	}()
	Smooth(track, 2, 1, SmoothTransforms{})
}

func TestBehead(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2, 3)
	neck := DefaultTweens().BoneTransform(track, 1.5, 3)

	got := Behead(track, 1.5, neck)

	wantTimes := []float32{0, 0.5, 1.5}
	if len(got.Times) != len(wantTimes) {
		t.Fatalf("beheaded to %d keyframes, want %d", len(got.Times), len(wantTimes))
	}
	for i, want := range wantTimes {
		if math32.Abs(got.Times[i]-want) > 1e-5 {
			t.Errorf("Times[%d] = %g, want %g", i, got.Times[i], want)
		}
	}
	// The new first keyframe is the supplied neck transform; the rest
	// shift left by the neck time.
	if math32.Abs(got.Translations[0].X()-1.5) > 1e-3 {
		t.Errorf("Translations[0].X = %g, want 1.5", got.Translations[0].X())
	}
	if got.Translations[1].X() != 2 || got.Translations[2].X() != 3 {
		t.Errorf("kept translations = %v, %v, want x=2, x=3", got.Translations[1], got.Translations[2])
	}
}

func TestBeheadNonPositiveTime(t *testing.T) {
	track := linearTrack(t, 0, 0, 1)
	defer func() {
		if recover() == nil {
			t.Errorf("neck time 0 should panic")
		}
	}()
	Behead(track, 0, TransformIdent())
}

func TestTruncate(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2, 3)

	// Ending exactly on a keyframe keeps it.
	got := Truncate(track, 2)
	if len(got.Times) != 3 || got.LastTime() != 2 {
		t.Errorf("truncated times = %v, want [0 1 2]", got.Times)
	}

	// Ending between keyframes drops the tail without retiming.
	got = Truncate(track, 1.5)
	if len(got.Times) != 2 || got.LastTime() != 1 {
		t.Errorf("truncated times = %v, want [0 1]", got.Times)
	}
}

func TestWrapAppendsEndKeyframe(t *testing.T) {
	track := linearTrack(t, 0, 0, 1)

	got := Wrap(track, 2, 0.5)
	wantTimes := []float32{0, 1, 2}
	if len(got.Times) != 3 {
		t.Fatalf("wrapped to %d keyframes, want 3", len(got.Times))
	}
	for i, want := range wantTimes {
		if got.Times[i] != want {
			t.Errorf("Times[%d] = %g, want %g", i, got.Times[i], want)
		}
	}
	// With no keyframe at the duration, the first keyframe is replayed
	// at the end; the weight is irrelevant.
	if got.Translations[0] != got.Translations[2] {
		t.Errorf("wrap endpoints differ: %v vs %v", got.Translations[0], got.Translations[2])
	}
	if got.Translations[0].X() != 0 {
		t.Errorf("wrap value = %g, want the original first keyframe", got.Translations[0].X())
	}
}

func TestWrapBlendsExistingEndKeyframe(t *testing.T) {
	track := mustNewTrack(t, 0,
		[]float32{0, 1, 2},
		[]mgl32.Vec3{{0, 0, 0}, {5, 0, 0}, {2, 0, 0}},
		[]mgl32.Quat{mgl32.QuatIdent(), mgl32.QuatIdent(), mgl32.QuatIdent()},
		nil,
	)

	got := Wrap(track, 2, 0.5)
	if len(got.Times) != 3 {
		t.Fatalf("wrapped to %d keyframes, want 3", len(got.Times))
	}
	// Both endpoints blend halfway between the old first and last values.
	if math32.Abs(got.Translations[0].X()-1) > 1e-5 || math32.Abs(got.Translations[2].X()-1) > 1e-5 {
		t.Errorf("blended endpoints = %g, %g, want 1, 1",
			got.Translations[0].X(), got.Translations[2].X())
	}
	if got.Translations[1].X() != 5 {
		t.Errorf("interior keyframe = %g, want 5 untouched", got.Translations[1].X())
	}

	// Weight 0 keeps the first keyframe's value at both ends.
	got = Wrap(track, 2, 0)
	if got.Translations[0].X() != 0 || got.Translations[2].X() != 0 {
		t.Errorf("weight-0 endpoints = %g, %g, want 0, 0",
			got.Translations[0].X(), got.Translations[2].X())
	}
}

func TestWrapTrackPastDuration(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2, 3)
	defer func() {
		if recover() == nil {
			t.Errorf("wrapping a track that extends beyond the duration should panic")
		}
	}()
	Wrap(track, 2, 0.5)
}

func TestDeleteRange(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2, 3)

	got := DeleteRange(track, 1, 2)
	if len(got.Times) != 2 {
		t.Fatalf("deleted to %d keyframes, want 2", len(got.Times))
	}
	if got.Times[0] != 0 || got.Times[1] != 3 {
		t.Errorf("remaining times = %v, want [0 3]", got.Times)
	}
	if got.Translations[1].X() != 3 {
		t.Errorf("remaining translation = %g, want 3", got.Translations[1].X())
	}
}

func TestDeleteRangeGuards(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2, 3)
	for name, call := range map[string]func(){
		"first keyframe":     func() { DeleteRange(track, 0, 1) },
		"window past end":    func() { DeleteRange(track, 2, 3) },
		"zero delete count":  func() { DeleteRange(track, 1, 0) },
		"start out of range": func() { DeleteRange(track, 4, 1) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("deleting %s should panic", name)
				}
			}()
			call()
		}()
	}
}

func TestInsertKeyframe(t *testing.T) {
	track := linearTrack(t, 0, 0, 1)
	inserted := Transform{
		Translation: mgl32.Vec3{7, 0, 0},
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{2, 2, 2},
	}

	got := InsertKeyframe(track, 0.5, inserted)
	if len(got.Times) != 3 {
		t.Fatalf("inserted to %d keyframes, want 3", len(got.Times))
	}
	if got.Times[1] != 0.5 || got.Translations[1].X() != 7 {
		t.Errorf("inserted keyframe at %g with x=%g, want 0.5 with x=7",
			got.Times[1], got.Translations[1].X())
	}
	// Insertion always materializes scales, identity on copied frames.
	if got.Scales == nil {
		t.Fatalf("inserted track should carry scales")
	}
	if got.Scales[0] != (mgl32.Vec3{1, 1, 1}) || got.Scales[1] != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("scales = %v, want identity then (2,2,2)", got.Scales[:2])
	}

	// Inserting past the last keyframe appends.
	got = InsertKeyframe(track, 2, inserted)
	if got.LastTime() != 2 || got.Translations[2].X() != 7 {
		t.Errorf("appended keyframe at %g with x=%g, want 2 with x=7",
			got.LastTime(), got.Translations[2].X())
	}
}

func TestInsertKeyframeGuards(t *testing.T) {
	track := linearTrack(t, 0, 0, 1)
	for name, call := range map[string]func(){
		"non-positive time": func() { InsertKeyframe(track, 0, TransformIdent()) },
		"existing keyframe": func() { InsertKeyframe(track, 1, TransformIdent()) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("inserting at %s should panic", name)
				}
			}()
			call()
		}()
	}
}

func TestReplaceKeyframe(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2)
	replacement := Transform{
		Translation: mgl32.Vec3{9, 0, 0},
		Rotation:    mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0}),
		Scale:       mgl32.Vec3{3, 3, 3},
	}

	got := ReplaceKeyframe(track, 1, replacement)
	if got.Translations[1].X() != 9 {
		t.Errorf("replaced translation = %g, want 9", got.Translations[1].X())
	}
	if got.Translations[0].X() != 0 || got.Translations[2].X() != 2 {
		t.Errorf("neighbors changed: %v, %v", got.Translations[0], got.Translations[2])
	}
	if got.Scales == nil || got.Scales[1] != (mgl32.Vec3{3, 3, 3}) {
		t.Errorf("replaced scale missing: %v", got.Scales)
	}
	if got.Scales[0] != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("untouched frames should have identity scale, got %v", got.Scales[0])
	}
}

func TestReplaceKeyframeOutOfRange(t *testing.T) {
	track := linearTrack(t, 0, 0, 1)
	defer func() {
		if recover() == nil {
			t.Errorf("replacing keyframe 5 should panic")
		}
	}()
	ReplaceKeyframe(track, 5, TransformIdent())
}

func TestRemoveRepeats(t *testing.T) {
	track := mustNewTrack(t, 0,
		[]float32{0, 1, 1, 2},
		[]mgl32.Vec3{{0, 0, 0}, {10, 0, 0}, {20, 0, 0}, {30, 0, 0}},
		[]mgl32.Quat{mgl32.QuatIdent(), mgl32.QuatIdent(), mgl32.QuatIdent(), mgl32.QuatIdent()},
		nil,
	)

	if !RemoveRepeats(track) {
		t.Fatalf("RemoveRepeats reported no change")
	}
	if len(track.Times) != 3 {
		t.Fatalf("deduplicated to %d keyframes, want 3", len(track.Times))
	}
	// The first keyframe of each run survives.
	if track.Translations[1].X() != 10 {
		t.Errorf("kept repeat = %g, want 10 (the first of the run)", track.Translations[1].X())
	}
	if track.Translations[2].X() != 30 {
		t.Errorf("final keyframe = %g, want 30", track.Translations[2].X())
	}
}

func TestRemoveRepeatsCleanTrack(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2)
	if RemoveRepeats(track) {
		t.Errorf("clean track reported repeats")
	}
	if len(track.Times) != 3 {
		t.Errorf("clean track was modified")
	}
}

func TestResampleToNumber(t *testing.T) {
	track := linearTrack(t, 0, 0, 1, 2)

	got := ResampleToNumber(track, 5, 2, DefaultTweens())
	wantTimes := []float32{0, 0.5, 1, 1.5, 2}
	if len(got.Times) != len(wantTimes) {
		t.Fatalf("resampled to %d keyframes, want %d", len(got.Times), len(wantTimes))
	}
	for i, want := range wantTimes {
		if math32.Abs(got.Times[i]-want) > 1e-5 {
			t.Errorf("Times[%d] = %g, want %g", i, got.Times[i], want)
		}
		// The source ramps linearly, so resampling reproduces the ramp.
		if math32.Abs(got.Translations[i].X()-want) > 1e-3 {
			t.Errorf("Translations[%d].X = %g, want %g", i, got.Translations[i].X(), want)
		}
	}
	if got.LastTime() != 2 {
		t.Errorf("last sample at %g, want exactly the duration", got.LastTime())
	}
}

func TestResampleAtRate(t *testing.T) {
	track := linearTrack(t, 0, 0, 1)

	got := ResampleAtRate(track, 2, 1, DefaultTweens())
	wantTimes := []float32{0, 0.5, 1}
	if len(got.Times) != len(wantTimes) {
		t.Fatalf("resampled to %d keyframes, want %d", len(got.Times), len(wantTimes))
	}
	for i, want := range wantTimes {
		if math32.Abs(got.Times[i]-want) > 1e-5 {
			t.Errorf("Times[%d] = %g, want %g", i, got.Times[i], want)
		}
	}
}

func TestResampleGuards(t *testing.T) {
	track := linearTrack(t, 0, 0, 1)
	for name, call := range map[string]func(){
		"one sample":    func() { ResampleToNumber(track, 1, 1, DefaultTweens()) },
		"zero rate":     func() { ResampleAtRate(track, 0, 1, DefaultTweens()) },
		"negative time": func() { Resample(track, []float32{0}, -1, DefaultTweens()) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("resampling with %s should panic", name)
				}
			}()
			call()
		}()
	}
}

func TestZeroFirst(t *testing.T) {
	anim := NewAnimation("walk", 2)
	anim.AddTrack(linearTrack(t, 0, 0.1, 1, 2))
	anim.AddTrack(linearTrack(t, 1, 0, 1, 2))

	edited := ZeroFirst(anim)
	if edited != 1 {
		t.Errorf("ZeroFirst edited %d tracks, want 1", edited)
	}
	if anim.FindTrack(0).Times[0] != 0 {
		t.Errorf("first keyframe still at %g", anim.FindTrack(0).Times[0])
	}
	if ZeroFirst(anim) != 0 {
		t.Errorf("second pass should edit nothing")
	}
}
