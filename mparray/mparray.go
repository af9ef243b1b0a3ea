// Package mparray implements matrix product arrays.
//
// A matrix product array (MPA) is a chain of local tensors, where each
// local tensor carries a left bond leg, zero or more physical legs, and a
// right bond leg. Adjacent tensors share a bond dimension, and the two
// outer bonds have dimension 1.
//
// References:
//   - The density-matrix renormalization group in the age of matrix product states, Ulrich Schollwock
package mparray

import (
	"github.com/fumin/tensor"
	"github.com/pkg/errors"
)

// bondLeftAxis is the axis of the left bond leg of a local tensor.
// The right bond leg is always the last axis.
const bondLeftAxis = 0

// MPArray is a matrix product array.
type MPArray struct {
	ltens []*tensor.Dense
}

// New creates a matrix product array from an ordered list of local tensors.
// The first tensor must have left bond dimension 1, the last tensor right
// bond dimension 1, and adjacent tensors must agree on their shared bond.
func New(ltens []*tensor.Dense) (*MPArray, error) {
	if len(ltens) == 0 {
		return nil, errors.Errorf("no local tensors")
	}
	for i, lt := range ltens {
		if len(lt.Shape()) < 2 {
			return nil, errors.Errorf("site %d rank %d", i, len(lt.Shape()))
		}
	}

	first := ltens[0].Shape()
	if first[bondLeftAxis] != 1 {
		return nil, errors.Errorf("left bond %d", first[bondLeftAxis])
	}
	last := ltens[len(ltens)-1].Shape()
	if last[len(last)-1] != 1 {
		return nil, errors.Errorf("right bond %d", last[len(last)-1])
	}
	for i := 0; i+1 < len(ltens); i++ {
		s := ltens[i].Shape()
		right := s[len(s)-1]
		left := ltens[i+1].Shape()[bondLeftAxis]
		if right != left {
			return nil, errors.Errorf("site %d bond %d %d", i, right, left)
		}
	}

	return &MPArray{ltens: ltens}, nil
}

// FromKron creates a matrix product array from independent per-site tensors.
// Every factor receives trivial bond legs of dimension 1 on both sides, so
// the result represents the tensor product of the factors.
func FromKron(factors []*tensor.Dense) (*MPArray, error) {
	ltens := make([]*tensor.Dense, 0, len(factors))
	for _, f := range factors {
		shape := make([]int, 0, len(f.Shape())+2)
		shape = append(shape, 1)
		shape = append(shape, f.Shape()...)
		shape = append(shape, 1)
		ltens = append(ltens, f.Reshape(shape...))
	}
	return New(ltens)
}

// Len returns the number of sites.
func (a *MPArray) Len() int { return len(a.ltens) }

// LocalTensor returns the local tensor at site i.
func (a *MPArray) LocalTensor(i int) *tensor.Dense { return a.ltens[i] }

// BondDims returns the bond dimensions between adjacent sites.
func (a *MPArray) BondDims() []int {
	bdims := make([]int, 0, len(a.ltens)-1)
	for _, lt := range a.ltens[:len(a.ltens)-1] {
		s := lt.Shape()
		bdims = append(bdims, s[len(s)-1])
	}
	return bdims
}

// PhysShape returns the physical dimensions of site i.
func (a *MPArray) PhysShape(i int) []int {
	s := a.ltens[i].Shape()
	return append([]int{}, s[1:len(s)-1]...)
}

// ToArray contracts all bonds and returns the dense tensor represented by a.
// The resulting axes are the physical legs in site order, with the two
// trivial outer bond legs removed.
func (a *MPArray) ToArray() *tensor.Dense {
	// ai is the contraction of sites 0 to i.
	ai := resetCopy(tensor.Zeros(1), a.ltens[0])
	for _, lt := range a.ltens[1:] {
		axes := [][2]int{{len(ai.Shape()) - 1, bondLeftAxis}}
		ai = tensor.Contract(tensor.Zeros(1), ai, lt, axes)
	}

	s := ai.Shape()
	return ai.Reshape(s[1 : len(s)-1]...)
}

func resetCopy(dst, src *tensor.Dense) *tensor.Dense {
	shape := src.Shape()
	zeroDigit := make([]int, len(shape))
	dst.Reset(shape...).Set(zeroDigit, src)
	return dst
}
