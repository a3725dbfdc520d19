package numerics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Backend provides the three standard-normal special functions the engine
// needs. Anything beyond correctness at working precision is configuration;
// callers with hard-to-separate matchups can swap in a more precise backend.
type Backend interface {
	// CDF is the standard normal cumulative distribution function.
	CDF(x float64) float64
	// PDF is the standard normal density.
	PDF(x float64) float64
	// Quantile is the inverse CDF.
	Quantile(p float64) float64
}

// Internal returns the built-in backend, implemented on math.Erfc/Erfinv.
func Internal() Backend { return internalBackend{} }

// Gonum returns a backend on gonum's unit normal distribution.
func Gonum() Backend { return gonumBackend{dist: distuv.UnitNormal} }

type internalBackend struct{}

func (internalBackend) CDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func (internalBackend) PDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func (internalBackend) Quantile(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

type gonumBackend struct {
	dist distuv.Normal
}

func (b gonumBackend) CDF(x float64) float64      { return b.dist.CDF(x) }
func (b gonumBackend) PDF(x float64) float64      { return b.dist.Prob(x) }
func (b gonumBackend) Quantile(p float64) float64 { return b.dist.Quantile(p) }
