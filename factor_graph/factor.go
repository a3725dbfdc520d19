package factorgraph

import (
	"math"

	"podiumpe.com/skill_rating/numerics"
)

// PriorFactor anchors a skill variable to the player's pre-match rating,
// with the between-match dynamics noise folded into the variance.
type PriorFactor struct {
	variable *Variable
	val      numerics.Gaussian
	dynamics float64
}

func NewPriorFactor(v *Variable, val numerics.Gaussian, dynamics float64) *PriorFactor {
	f := &PriorFactor{variable: v, val: val, dynamics: dynamics}
	v.register(f)
	return f
}

func (f *PriorFactor) attach() {}

// Down pushes the (dynamics-inflated) prior onto the variable.
func (f *PriorFactor) Down() float64 {
	sigma := math.Sqrt(f.val.Variance() + f.dynamics*f.dynamics)
	val, _ := numerics.NewGaussian(f.val.Mu(), sigma)
	return f.variable.UpdateValue(f, val)
}

// LikelihoodFactor relates a mean variable to a noisy observation of it:
// value = mean + N(0, variance). It carries skill to performance and back.
type LikelihoodFactor struct {
	mean     *Variable
	value    *Variable
	variance float64
}

func NewLikelihoodFactor(mean, value *Variable, variance float64) *LikelihoodFactor {
	f := &LikelihoodFactor{mean: mean, value: value, variance: variance}
	mean.register(f)
	value.register(f)
	return f
}

func (f *LikelihoodFactor) attach() {}

// calcA is the smoothing coefficient applied to a cavity when it is pushed
// through the noise edge.
func (f *LikelihoodFactor) calcA(cavity numerics.Gaussian) float64 {
	return 1 / (1 + f.variance*cavity.Pi)
}

// Down sends mean -> value.
func (f *LikelihoodFactor) Down() float64 {
	cavity := f.mean.Value.Div(f.mean.Message(f))
	a := f.calcA(cavity)
	return f.value.UpdateMessage(f, numerics.GaussianFromPrecision(a*cavity.Pi, a*cavity.Tau))
}

// Up sends value -> mean.
func (f *LikelihoodFactor) Up() float64 {
	cavity := f.value.Value.Div(f.value.Message(f))
	a := f.calcA(cavity)
	return f.mean.UpdateMessage(f, numerics.GaussianFromPrecision(a*cavity.Pi, a*cavity.Tau))
}

// SumFactor enforces sum = coeffs . terms, the linear-Gaussian relation used
// for team performance (partial-play weights) and team difference (+1, -1).
type SumFactor struct {
	sum    *Variable
	terms  []*Variable
	coeffs []float64
}

func NewSumFactor(sum *Variable, terms []*Variable, coeffs []float64) *SumFactor {
	f := &SumFactor{sum: sum, terms: terms, coeffs: coeffs}
	sum.register(f)
	for _, t := range terms {
		t.register(f)
	}
	return f
}

func (f *SumFactor) attach() {}

// Terms reports how many parent variables feed the sum.
func (f *SumFactor) Terms() int { return len(f.terms) }

// Down sends terms -> sum.
func (f *SumFactor) Down() float64 {
	msgs := make([]numerics.Gaussian, len(f.terms))
	for i, t := range f.terms {
		msgs[i] = t.Message(f)
	}
	return f.update(f.sum, f.terms, msgs, f.coeffs)
}

// Up sends sum and the other terms -> terms[index], inverting the linear
// relation around that term.
func (f *SumFactor) Up(index int) float64 {
	coeff := f.coeffs[index]
	if coeff == 0 {
		// The term is disconnected from the sum; it learns nothing here and
		// keeps its cavity marginal.
		return f.terms[index].UpdateMessage(f, numerics.Gaussian{})
	}
	coeffs := make([]float64, len(f.coeffs))
	for i, c := range f.coeffs {
		if i == index {
			coeffs[i] = 1 / coeff
		} else {
			coeffs[i] = -c / coeff
		}
	}
	vals := make([]*Variable, len(f.terms))
	copy(vals, f.terms)
	vals[index] = f.sum
	msgs := make([]numerics.Gaussian, len(vals))
	for i, v := range vals {
		msgs[i] = v.Message(f)
	}
	return f.update(f.terms[index], vals, msgs, coeffs)
}

func (f *SumFactor) update(target *Variable, vals []*Variable, msgs []numerics.Gaussian, coeffs []float64) float64 {
	piInv := 0.0
	mu := 0.0
	for i, val := range vals {
		if coeffs[i] == 0 {
			continue
		}
		cavity := val.Value.Div(msgs[i])
		mu += coeffs[i] * cavity.Mu()
		if math.IsInf(piInv, 1) {
			continue
		}
		if cavity.Pi == 0 {
			piInv = math.Inf(1)
			continue
		}
		piInv += coeffs[i] * coeffs[i] / cavity.Pi
	}
	pi := 1 / piInv
	return target.UpdateMessage(f, numerics.GaussianFromPrecision(pi, pi*mu))
}

// TruncateFactor moment-matches the team-difference marginal against the
// observed outcome region: diff > margin for a win, |diff| <= margin for a
// draw. The V/W pair decides which.
type TruncateFactor struct {
	variable   *Variable
	v          CorrectionFunc
	w          CorrectionFunc
	drawMargin float64
}

// CorrectionFunc is one of the truncation corrections from the numerics
// package, closed over a backend.
type CorrectionFunc func(diff, drawMargin float64) (float64, error)

func NewTruncateFactor(v *Variable, vFunc, wFunc CorrectionFunc, drawMargin float64) *TruncateFactor {
	f := &TruncateFactor{variable: v, v: vFunc, w: wFunc, drawMargin: drawMargin}
	v.register(f)
	return f
}

func (f *TruncateFactor) attach() {}

// Up replaces the marginal with the moment-matched Gaussian for the outcome
// region. A precision failure in the corrections aborts the inference.
func (f *TruncateFactor) Up() (float64, error) {
	cavity := f.variable.Value.Div(f.variable.Message(f))
	sqrtPi := math.Sqrt(cavity.Pi)
	diff := cavity.Tau / sqrtPi
	margin := f.drawMargin * sqrtPi

	v, err := f.v(diff, margin)
	if err != nil {
		return 0, err
	}
	w, err := f.w(diff, margin)
	if err != nil {
		return 0, err
	}
	denom := 1 - w
	if denom == 0 {
		return 0, numerics.ErrFloatingPoint
	}
	pi := cavity.Pi / denom
	tau := (cavity.Tau + sqrtPi*v) / denom
	return f.variable.UpdateValue(f, numerics.GaussianFromPrecision(pi, tau)), nil
}
