package rigkit

import (
	"fmt"
)

// Reserved pseudo-animation names displayed by editors for states that
// are not real animations. Real animations may not use them.
const (
	BindPoseName       = "( bind pose )"
	RetargetedPoseName = "( retargeted pose )"
)

// IsReservedName reports whether an animation name is unusable: empty
// or one of the reserved pseudo-animation names.
func IsReservedName(name string) bool {
	return name == "" || name == BindPoseName || name == RetargetedPoseName
}

// Animation is a named, fixed-duration collection of bone tracks, at
// most one per bone.
type Animation struct {
	Name     string
	Duration float32
	tracks   []*Track
}

func NewAnimation(name string, duration float32) *Animation {
	if duration < 0 {
		panic(fmt.Sprintf("negative animation duration: %g", duration))
	}
	return &Animation{Name: name, Duration: duration}
}

// AddTrack appends a track. Keeping at most one track per bone is the
// caller's job; the Validator reports violations.
func (a *Animation) AddTrack(t *Track) {
	if t == nil {
		panic("nil track")
	}
	a.tracks = append(a.tracks, t)
}

// FindTrack finds the track targeting the given bone, nil if none.
func (a *Animation) FindTrack(boneIndex int) *Track {
	for _, t := range a.tracks {
		if t.BoneIndex == boneIndex {
			return t
		}
	}
	return nil
}

// Tracks returns the track list; callers must not modify it.
func (a *Animation) Tracks() []*Track {
	return a.tracks
}

func (a *Animation) TrackCount() int {
	return len(a.tracks)
}

func (a *Animation) Clone() *Animation {
	clone := &Animation{Name: a.Name, Duration: a.Duration}
	for _, t := range a.tracks {
		clone.tracks = append(clone.tracks, t.Clone())
	}
	return clone
}
