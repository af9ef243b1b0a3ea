package mparray

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/fumin/tensor"
)

func TestDiskRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shapes [][]int
		ltens  [][]complex64
	}{
		{
			shapes: [][]int{{1, 2, 2}, {2, 2, 1}},
			ltens: [][]complex64{
				{1, 0, 3 + 2i, 4},
				{0, -6i, 7, 8},
			},
		},
		{
			shapes: [][]int{{1, 2, 3, 2}, {2, 2, 3, 2}, {2, 2, 3, 1}},
			ltens:  nil,
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v", test.shapes), func(t *testing.T) {
			t.Parallel()
			ltens := make([]*tensor.Dense, 0, len(test.shapes))
			for site, shape := range test.shapes {
				lt := tensor.Zeros(shape...)
				if test.ltens != nil {
					i := 0
					for ijk := range lt.All() {
						lt.SetAt(ijk, test.ltens[site][i])
						i++
					}
				}
				ltens = append(ltens, lt)
			}
			a, err := New(ltens)
			if err != nil {
				t.Fatalf("%+v", err)
			}

			dir, err := os.MkdirTemp("", "")
			if err != nil {
				t.Fatalf("%+v", err)
			}
			defer os.RemoveAll(dir)

			dbPath := filepath.Join(dir, "a.db")
			if err := Save(dbPath, a); err != nil {
				t.Fatalf("%+v", err)
			}
			b, err := Load(dbPath)
			if err != nil {
				t.Fatalf("%+v", err)
			}

			if b.Len() != a.Len() {
				t.Fatalf("%d, expected %d", b.Len(), a.Len())
			}
			for site := range a.Len() {
				al, bl := a.LocalTensor(site), b.LocalTensor(site)
				if !slices.Equal(bl.Shape(), al.Shape()) {
					t.Fatalf("site %d: %#v, expected %#v", site, bl.Shape(), al.Shape())
				}
				for ijk, v := range al.All() {
					if bl.At(ijk...) != v {
						t.Fatalf("site %d %#v: %v, expected %v", site, ijk, bl.At(ijk...), v)
					}
				}
			}
		})
	}
}

func TestDiskLoadMissing(t *testing.T) {
	t.Parallel()
	dir, err := os.MkdirTemp("", "")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer os.RemoveAll(dir)

	if _, err := Load(filepath.Join(dir, "missing.db")); err == nil {
		t.Fatalf("expected error")
	}
}
