// Package factory creates random and structured matrix product array test
// fixtures.
//
// All random factories draw from an explicitly supplied *rand.Rand, so
// deterministic fixtures only need a seeded source. Callers running
// concurrently must supply independent sources.
package factory

import (
	"math"
	"math/rand/v2"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"

	"github.com/totonac/mpnum/mparray"
)

// ZRandn returns a tensor of the given shape whose entries are independent
// standard complex Gaussians, with real and imaginary parts each drawn from
// a standard normal distribution.
func ZRandn(rng *rand.Rand, shape ...int) *tensor.Dense {
	t := tensor.Zeros(shape...)
	for ijk := range t.All() {
		v := complex(float32(rng.NormFloat64()), float32(rng.NormFloat64()))
		t.SetAt(ijk, v)
	}
	return t
}

// RandomVec returns a random complex vector of shape (ldim,)*sites,
// normalized to unit Euclidean norm. It represents a pure state with local
// dimension ldim living on sites sites.
func RandomVec(rng *rand.Rand, sites, ldim int) *tensor.Dense {
	shape := repeatDims(sites, ldim)
	psi := ZRandn(rng, shape...)
	norm := math.Sqrt(norm2(psi))
	return psi.Mul(complex(float32(1/norm), 0))
}

// RandomOp returns a random unnormalized operator of shape (ldim,ldim)*sites
// with local dimension ldim living on sites sites.
func RandomOp(rng *rand.Rand, sites, ldim int) *tensor.Dense {
	shape := make([]int, 0, 2*sites)
	for range sites {
		shape = append(shape, ldim, ldim)
	}
	return ZRandn(rng, shape...)
}

// RandomState returns a random positive semidefinite operator normalized to
// trace 1, i.e. a mixed state with local dimension ldim living on sites
// sites. The returned tensor has shape (ldim,)*2*sites and is positive
// semidefinite only when interpreted in global form, that is, after
// reshaping to an ldim**sites square matrix.
func RandomState(rng *rand.Rand, sites, ldim int) *tensor.Dense {
	dim := 1
	for range sites {
		dim *= ldim
	}
	m := ZRandn(rng, dim, dim)

	// rho = m.H @ m is positive semidefinite.
	rho := tensor.Contract(tensor.Zeros(1), m.H(), m, [][2]int{{1, 0}})
	var tr complex64
	for i := range dim {
		tr += rho.At(i, i)
	}
	rho = rho.Mul(1 / tr)

	return rho.Reshape(repeatDims(2*sites, ldim)...)
}

// generate assembles a matrix product array with identical physical legs on
// every site. The first site has left bond 1, the last site right bond 1,
// and all other bonds have dimension bdim. Local tensors are created by
// fill, which must return a tensor of the shape it is given.
func generate(sites int, physDims []int, bdim int, fill func(shape ...int) *tensor.Dense) (*mparray.MPArray, error) {
	if sites < 2 {
		return nil, errors.Errorf("sites %d < 2", sites)
	}

	ltens := make([]*tensor.Dense, 0, sites)
	ltens = append(ltens, fill(localShape(1, physDims, bdim)...))
	for range sites - 2 {
		ltens = append(ltens, fill(localShape(bdim, physDims, bdim)...))
	}
	ltens = append(ltens, fill(localShape(bdim, physDims, 1)...))

	a, err := mparray.New(ltens)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return a, nil
}

// RandomMPA returns a matrix product array with randomly chosen local
// tensors, physical legs physDims on every site, and bond dimension bdim.
func RandomMPA(rng *rand.Rand, sites int, physDims []int, bdim int) (*mparray.MPArray, error) {
	fill := func(shape ...int) *tensor.Dense {
		return ZRandn(rng, shape...)
	}
	return generate(sites, physDims, bdim, fill)
}

// Zero returns a matrix product array whose local tensors are all zero but
// of the same shapes as a random one. The bond dimension stays bdim and is
// not simplified away, even though the represented array is identically
// zero.
func Zero(sites int, physDims []int, bdim int) (*mparray.MPArray, error) {
	return generate(sites, physDims, bdim, tensor.Zeros)
}

// Eye returns a matrix product array representing the identity operator on
// sites sites of local dimension ldim, built from per-site identity
// matrices with trivial bonds.
func Eye(sites, ldim int) (*mparray.MPArray, error) {
	if sites < 1 {
		return nil, errors.Errorf("sites %d < 1", sites)
	}

	factors := make([]*tensor.Dense, 0, sites)
	for range sites {
		factors = append(factors, identity(ldim))
	}
	a, err := mparray.FromKron(factors)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return a, nil
}

// localShape builds the shape of a local tensor from its left bond, its
// physical dimensions and its right bond.
func localShape(leftD int, physDims []int, rightD int) []int {
	shape := make([]int, 0, len(physDims)+2)
	shape = append(shape, leftD)
	shape = append(shape, physDims...)
	return append(shape, rightD)
}

func repeatDims(n, d int) []int {
	dims := make([]int, n)
	for i := range dims {
		dims[i] = d
	}
	return dims
}

func identity(d int) *tensor.Dense {
	t := tensor.Zeros(d, d)
	for i := range d {
		t.SetAt([]int{i, i}, 1)
	}
	return t
}

// norm2 returns the squared Euclidean norm of t.
func norm2(t *tensor.Dense) float64 {
	var n float64
	for _, v := range t.All() {
		n += float64(real(v))*float64(real(v)) + float64(imag(v))*float64(imag(v))
	}
	return n
}
