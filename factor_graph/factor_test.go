package factorgraph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podiumpe.com/skill_rating/numerics"
)

func mustGaussian(t *testing.T, mu, sigma float64) numerics.Gaussian {
	t.Helper()
	g, err := numerics.NewGaussian(mu, sigma)
	require.NoError(t, err)
	return g
}

func TestPriorFactorInflatesByDynamics(t *testing.T) {
	v := NewVariable()
	f := NewPriorFactor(v, mustGaussian(t, 25, 8), 2)

	delta := f.Down()
	assert.Greater(t, delta, 0.0)
	assert.InDelta(t, 25, v.Value.Mu(), 1e-9)
	assert.InDelta(t, math.Sqrt(64+4), v.Value.Sigma(), 1e-9)

	// Pushing the same prior again changes nothing.
	assert.InDelta(t, 0, f.Down(), 1e-12)
}

func TestLikelihoodFactorAddsNoiseDownward(t *testing.T) {
	skill := NewVariable()
	perf := NewVariable()
	NewPriorFactor(skill, mustGaussian(t, 25, 3), 0).Down()

	f := NewLikelihoodFactor(skill, perf, 16)
	f.Down()
	assert.InDelta(t, 25, perf.Value.Mu(), 1e-9)
	assert.InDelta(t, math.Sqrt(9+16), perf.Value.Sigma(), 1e-9)
}

func TestLikelihoodFactorUpTightensMean(t *testing.T) {
	skill := NewVariable()
	perf := NewVariable()
	NewPriorFactor(skill, mustGaussian(t, 25, 3), 0).Down()

	f := NewLikelihoodFactor(skill, perf, 16)
	f.Down()

	// An outside observation of the performance pulls the skill up.
	observation := NewVariable()
	obs := NewSumFactor(perf, []*Variable{observation}, []float64{1})
	NewPriorFactor(observation, mustGaussian(t, 35, 1), 0).Down()
	obs.Down()

	f.Up()
	assert.Greater(t, skill.Value.Mu(), 25.0)
	assert.Less(t, skill.Value.Sigma(), 3.0)
}

func TestSumFactorDown(t *testing.T) {
	a, b, sum := NewVariable(), NewVariable(), NewVariable()
	NewPriorFactor(a, mustGaussian(t, 20, 1), 0).Down()
	NewPriorFactor(b, mustGaussian(t, 30, 2), 0).Down()

	f := NewSumFactor(sum, []*Variable{a, b}, []float64{1, 1})
	f.Down()
	assert.InDelta(t, 50, sum.Value.Mu(), 1e-9)
	assert.InDelta(t, math.Sqrt(1+4), sum.Value.Sigma(), 1e-9)
}

func TestSumFactorDownWeighted(t *testing.T) {
	a, b, diff := NewVariable(), NewVariable(), NewVariable()
	NewPriorFactor(a, mustGaussian(t, 20, 1), 0).Down()
	NewPriorFactor(b, mustGaussian(t, 30, 2), 0).Down()

	f := NewSumFactor(diff, []*Variable{a, b}, []float64{1, -1})
	f.Down()
	assert.InDelta(t, -10, diff.Value.Mu(), 1e-9)
	assert.InDelta(t, math.Sqrt(5), diff.Value.Sigma(), 1e-9)
}

func TestSumFactorUpInvertsRelation(t *testing.T) {
	a, b, sum := NewVariable(), NewVariable(), NewVariable()
	NewPriorFactor(a, mustGaussian(t, 20, 1), 0).Down()
	NewPriorFactor(b, mustGaussian(t, 30, 2), 0).Down()

	f := NewSumFactor(sum, []*Variable{a, b}, []float64{1, 1})
	f.Down()

	// Pin the sum well above its expectation and propagate back.
	pin := NewPriorFactor(sum, mustGaussian(t, 60, 0.5), 0)
	pin.Down()

	before := a.Value.Mu()
	f.Up(0)
	assert.Greater(t, a.Value.Mu(), before)
}

func TestSumFactorZeroCoefficient(t *testing.T) {
	active, benched, sum := NewVariable(), NewVariable(), NewVariable()
	NewPriorFactor(active, mustGaussian(t, 20, 1), 0).Down()
	NewPriorFactor(benched, mustGaussian(t, 30, 2), 0).Down()

	f := NewSumFactor(sum, []*Variable{active, benched}, []float64{1, 0})
	f.Down()
	assert.InDelta(t, 20, sum.Value.Mu(), 1e-9)
	assert.InDelta(t, 1, sum.Value.Sigma(), 1e-9)

	// Pin the sum elsewhere; the benched term must stay put and finite.
	NewPriorFactor(sum, mustGaussian(t, 40, 0.5), 0).Down()
	f.Up(1)
	assert.InDelta(t, 30, benched.Value.Mu(), 1e-12)
	assert.InDelta(t, 2, benched.Value.Sigma(), 1e-12)

	f.Up(0)
	assert.False(t, math.IsNaN(active.Value.Mu()))
	assert.Greater(t, active.Value.Mu(), 20.0)
}

func TestTruncateFactorWinPullsAboveMargin(t *testing.T) {
	backend := numerics.Internal()
	d := NewVariable()
	NewPriorFactor(d, mustGaussian(t, 0, 2), 0).Down()

	f := NewTruncateFactor(d,
		func(diff, margin float64) (float64, error) { return numerics.VWin(backend, diff, margin) },
		func(diff, margin float64) (float64, error) { return numerics.WWin(backend, diff, margin) },
		0.5)

	delta, err := f.Up()
	require.NoError(t, err)
	assert.Greater(t, delta, 0.0)
	assert.Greater(t, d.Value.Mu(), 0.5)
	assert.Less(t, d.Value.Sigma(), 2.0)
}

func TestTruncateFactorDrawPullsTowardMargin(t *testing.T) {
	backend := numerics.Internal()
	d := NewVariable()
	NewPriorFactor(d, mustGaussian(t, 4, 2), 0).Down()

	f := NewTruncateFactor(d,
		func(diff, margin float64) (float64, error) { return numerics.VDraw(backend, diff, margin) },
		func(diff, margin float64) (float64, error) { return numerics.WDraw(backend, diff, margin) },
		0.5)

	_, err := f.Up()
	require.NoError(t, err)
	assert.Less(t, d.Value.Mu(), 4.0)
	assert.Less(t, d.Value.Sigma(), 2.0)
}

func TestTruncateFactorSurfacesPrecisionLoss(t *testing.T) {
	backend := numerics.Internal()
	d := NewVariable()
	NewPriorFactor(d, mustGaussian(t, -100, 1), 0).Down()

	f := NewTruncateFactor(d,
		func(diff, margin float64) (float64, error) { return numerics.VWin(backend, diff, margin) },
		func(diff, margin float64) (float64, error) { return numerics.WWin(backend, diff, margin) },
		0)

	_, err := f.Up()
	assert.ErrorIs(t, err, numerics.ErrFloatingPoint)
}

func TestVariableMessageBookkeeping(t *testing.T) {
	v := NewVariable()
	f := NewPriorFactor(v, mustGaussian(t, 0, 1), 0)
	assert.Equal(t, numerics.Gaussian{}, v.Message(f))

	f.Down()
	assert.InDelta(t, v.Value.Pi, v.Message(f).Pi, 1e-12)
	assert.InDelta(t, v.Value.Tau, v.Message(f).Tau, 1e-12)
}
