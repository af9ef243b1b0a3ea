package mparray

import (
	"fmt"
	"testing"

	"github.com/fumin/tensor"
)

func TestNew(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shapes [][]int
		ok     bool
	}{
		{shapes: [][]int{{1, 2, 3}, {3, 2, 3}, {3, 2, 1}}, ok: true},
		{shapes: [][]int{{1, 2, 2, 1}}, ok: true},
		// Empty chain.
		{shapes: [][]int{}, ok: false},
		// Left boundary bond not 1.
		{shapes: [][]int{{2, 2, 3}, {3, 2, 1}}, ok: false},
		// Right boundary bond not 1.
		{shapes: [][]int{{1, 2, 3}, {3, 2, 2}}, ok: false},
		// Mismatched inner bond.
		{shapes: [][]int{{1, 2, 3}, {4, 2, 1}}, ok: false},
		// Missing bond legs.
		{shapes: [][]int{{1}, {1, 2, 1}}, ok: false},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v", test.shapes), func(t *testing.T) {
			t.Parallel()
			ltens := make([]*tensor.Dense, 0, len(test.shapes))
			for _, shape := range test.shapes {
				ltens = append(ltens, tensor.Zeros(shape...))
			}
			a, err := New(ltens)
			if test.ok && err != nil {
				t.Fatalf("%+v", err)
			}
			if !test.ok && err == nil {
				t.Fatalf("expected error")
			}
			if test.ok && a.Len() != len(test.shapes) {
				t.Fatalf("%d, expected %d", a.Len(), len(test.shapes))
			}
		})
	}
}

func TestToArray(t *testing.T) {
	t.Parallel()
	// Two sites with bond dimension 2. The contraction over the shared bond
	// is an ordinary matrix product of the two local matrices.
	l0 := tensor.T2([][]complex64{
		{1, 2},
		{3, 4},
	}).Reshape(1, 2, 2)
	l1 := tensor.T2([][]complex64{
		{5, 6},
		{7, 8},
	}).Reshape(2, 2, 1)
	a, err := New([]*tensor.Dense{l0, l1})
	if err != nil {
		t.Fatalf("%+v", err)
	}

	want := [][]complex64{
		{19, 22},
		{43, 50},
	}
	got := a.ToArray()
	for i := range 2 {
		for j := range 2 {
			if got.At(i, j) != want[i][j] {
				t.Fatalf("%d %d %v, expected %v", i, j, got.At(i, j), want[i][j])
			}
		}
	}
}

func TestFromKron(t *testing.T) {
	t.Parallel()
	x := [][]complex64{
		{1, 2},
		{3, 4},
	}
	y := [][]complex64{
		{5, 6},
		{7, 8},
	}
	a, err := FromKron([]*tensor.Dense{tensor.T2(x), tensor.T2(y)})
	if err != nil {
		t.Fatalf("%+v", err)
	}

	for _, bdim := range a.BondDims() {
		if bdim != 1 {
			t.Fatalf("%#v", a.BondDims())
		}
	}

	// The dense form of a Kronecker chain is the elementwise product of the
	// factors on their own legs.
	dense := a.ToArray()
	for i := range 2 {
		for j := range 2 {
			for k := range 2 {
				for l := range 2 {
					want := x[i][j] * y[k][l]
					if got := dense.At(i, j, k, l); got != want {
						t.Fatalf("%d %d %d %d %v, expected %v", i, j, k, l, got, want)
					}
				}
			}
		}
	}
}
