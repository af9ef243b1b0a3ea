// Command run generates matrix product array test fixtures and saves them
// under a run directory.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/totonac/mpnum/factory"
	"github.com/totonac/mpnum/mparray"
)

const (
	fnameRandom  = "random.db"
	fnameZero    = "zero.db"
	fnameEye     = "eye.db"
	fnameSummary = "summary.json"
)

var (
	runDir = flag.String("d", filepath.Join("runs", "fixtures"), "run directory")
	sites  = flag.Int("sites", 4, "number of sites")
	ldim   = flag.Int("ldim", 2, "local dimension")
	bdim   = flag.Int("bdim", 3, "bond dimension")
	seed   = flag.Uint64("seed", 0, "random seed")
)

type summary struct {
	Sites    int
	Ldim     int
	Bdim     int
	Seed     uint64
	BondDims []int
	VecNorm  float64
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	if err := os.MkdirAll(*runDir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	rng := rand.New(rand.NewPCG(*seed, 0))
	physDims := []int{*ldim}

	random, err := factory.RandomMPA(rng, *sites, physDims, *bdim)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := mparray.Save(filepath.Join(*runDir, fnameRandom), random); err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("random %v", random.BondDims())

	zero, err := factory.Zero(*sites, physDims, *bdim)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := mparray.Save(filepath.Join(*runDir, fnameZero), zero); err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("zero %v", zero.BondDims())

	eye, err := factory.Eye(*sites, *ldim)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := mparray.Save(filepath.Join(*runDir, fnameEye), eye); err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("eye %v", eye.BondDims())

	psi := factory.RandomVec(rng, *sites, *ldim)
	var norm2 float64
	for _, v := range psi.All() {
		norm2 += float64(real(v))*float64(real(v)) + float64(imag(v))*float64(imag(v))
	}

	s := summary{
		Sites:    *sites,
		Ldim:     *ldim,
		Bdim:     *bdim,
		Seed:     *seed,
		BondDims: random.BondDims(),
		VecNorm:  norm2,
	}
	b, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := os.WriteFile(filepath.Join(*runDir, fnameSummary), b, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
