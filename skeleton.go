package rigkit

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxBones is the most bones a skeleton intended for skinning may have.
	MaxBones = 255
	// NoBone is the reserved display name meaning "no bone selected".
	NoBone = "( no bone )"
)

// Bone is one joint of a skeleton: a display name, the index of its
// parent (-1 for a root) and its bind transform relative to the parent.
type Bone struct {
	Name   string
	Parent int
	Bind   Transform
}

// Skeleton is an immutable forest of bones in a fixed index order.
// Structural impossibilities are rejected at construction; data-quality
// problems (bad names, too many bones) are the Validator's concern.
type Skeleton struct {
	bones    []Bone
	byName   map[string]int
	children [][]int
	roots    []int
	preOrder []int
	invBind  []mgl32.Mat4
}

// NewSkeleton copies the bone list and derives the hierarchy. It fails
// if a parent index is out of range or the parent links contain a cycle.
func NewSkeleton(bones []Bone) (*Skeleton, error) {
	count := len(bones)
	s := &Skeleton{
		bones:  make([]Bone, count),
		byName: make(map[string]int, count),
	}
	copy(s.bones, bones)

	s.children = make([][]int, count)
	for i, b := range s.bones {
		if b.Parent < -1 || b.Parent >= count {
			return nil, fmt.Errorf("bone %d (%q): parent index %d out of range", i, b.Name, b.Parent)
		}
		if b.Parent == -1 {
			s.roots = append(s.roots, i)
		} else {
			s.children[b.Parent] = append(s.children[b.Parent], i)
		}
		if _, ok := s.byName[b.Name]; !ok {
			s.byName[b.Name] = i
		}
	}

	s.preOrder = make([]int, 0, count)
	var walk func(int)
	walk = func(i int) {
		s.preOrder = append(s.preOrder, i)
		for _, c := range s.children[i] {
			walk(c)
		}
	}
	for _, r := range s.roots {
		walk(r)
	}
	if len(s.preOrder) != count {
		return nil, fmt.Errorf("skeleton parent links contain a cycle: %d of %d bones reachable",
			len(s.preOrder), count)
	}

	// Bind-pose model transforms, parents before children.
	model := make([]Transform, count)
	for _, i := range s.preOrder {
		b := s.bones[i]
		if b.Parent == -1 {
			model[i] = b.Bind
		} else {
			model[i] = model[b.Parent].Compose(b.Bind)
		}
	}
	s.invBind = make([]mgl32.Mat4, count)
	for i := range s.bones {
		s.invBind[i] = model[i].Mat4().Inv()
	}

	return s, nil
}

// BoneCount is nil-safe; a nil skeleton has no bones.
func (s *Skeleton) BoneCount() int {
	if s == nil {
		return 0
	}
	return len(s.bones)
}

func (s *Skeleton) Bone(index int) Bone {
	s.checkBone(index)
	return s.bones[index]
}

// BoneIndex finds a bone by name, -1 if absent. With duplicate names
// the lowest index wins.
func (s *Skeleton) BoneIndex(name string) int {
	if s == nil {
		return -1
	}
	if i, ok := s.byName[name]; ok {
		return i
	}
	return -1
}

func (s *Skeleton) BindTransform(index int) Transform {
	s.checkBone(index)
	return s.bones[index].Bind
}

// InverseBindMatrix returns the inverse of the bone's bind-pose model
// transform, the fixed half of a skinning matrix.
func (s *Skeleton) InverseBindMatrix(index int) mgl32.Mat4 {
	s.checkBone(index)
	return s.invBind[index]
}

func (s *Skeleton) ChildIndices(index int) []int {
	s.checkBone(index)
	out := make([]int, len(s.children[index]))
	copy(out, s.children[index])
	return out
}

// RootIndices lists the parentless bones in index order.
func (s *Skeleton) RootIndices() []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s.roots))
	copy(out, s.roots)
	return out
}

// PreOrderIndices lists every bone with parents before children.
func (s *Skeleton) PreOrderIndices() []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s.preOrder))
	copy(out, s.preOrder)
	return out
}

func (s *Skeleton) checkBone(index int) {
	if index < 0 || index >= s.BoneCount() {
		panic(fmt.Sprintf("bone index out of range: %d (skeleton has %d)", index, s.BoneCount()))
	}
}
