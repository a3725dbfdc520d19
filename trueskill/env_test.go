package trueskill

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podiumpe.com/skill_rating/numerics"
)

func TestNewValidatesParameters(t *testing.T) {
	cases := map[string][5]float64{
		"zero sigma":         {25, 0, 25.0 / 6, 25.0 / 300, 0.1},
		"negative beta":      {25, 25.0 / 3, -1, 25.0 / 300, 0.1},
		"negative tau":       {25, 25.0 / 3, 25.0 / 6, -0.1, 0.1},
		"draw prob too big":  {25, 25.0 / 3, 25.0 / 6, 25.0 / 300, 1},
		"draw prob negative": {25, 25.0 / 3, 25.0 / 6, 25.0 / 300, -0.1},
	}
	for name, p := range cases {
		_, err := New(p[0], p[1], p[2], p[3], p[4], nil)
		assert.ErrorIs(t, err, ErrValue, name)
	}
}

func TestNewDefaultParameters(t *testing.T) {
	env := NewDefault()
	assert.Equal(t, 25.0, env.Mu)
	assert.InDelta(t, 25.0/3, env.Sigma, 1e-12)
	assert.InDelta(t, 25.0/6, env.Beta, 1e-12)
	assert.InDelta(t, 25.0/300, env.Tau, 1e-12)
	assert.Equal(t, 0.10, env.DrawProbability)
	assert.NotNil(t, env.Backend())
}

func TestNewRatingUsesEnvDefaults(t *testing.T) {
	env, err := New(1200, 400, 200, 4, 0.05, nil)
	require.NoError(t, err)
	r := env.NewRating()
	assert.Equal(t, 1200.0, r.Mu)
	assert.Equal(t, 400.0, r.Sigma)
}

func TestExpose(t *testing.T) {
	env := NewDefault()
	// k = mu0/sigma0 = 3 under defaults.
	assert.InDelta(t, 0.0, env.Expose(env.NewRating()), 1e-9)
	assert.InDelta(t, 24.0, env.Expose(Rating{Mu: 30, Sigma: 2}), 1e-9)

	// A fresh rating is worth zero until proven otherwise.
	custom, err := New(30, 10, 5, 0.1, 0.1, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, custom.Expose(custom.NewRating()), 1e-9)
}

func TestWinProbability(t *testing.T) {
	env := NewDefault()
	even := env.WinProbability(Team{env.NewRating()}, Team{env.NewRating()})
	assert.InDelta(t, 0.5, even, 1e-9)

	strong := env.WinProbability(Team{Rating{Mu: 35, Sigma: 3}}, Team{Rating{Mu: 20, Sigma: 3}})
	assert.Greater(t, strong, 0.9)
	weak := env.WinProbability(Team{Rating{Mu: 20, Sigma: 3}}, Team{Rating{Mu: 35, Sigma: 3}})
	assert.InDelta(t, 1.0, strong+weak, 1e-9)
}

func TestRateAgreesAcrossBackends(t *testing.T) {
	internal, err := New(DefaultMu, DefaultSigma, DefaultBeta, DefaultTau, DefaultDrawProb, numerics.Internal())
	require.NoError(t, err)
	gonum, err := New(DefaultMu, DefaultSigma, DefaultBeta, DefaultTau, DefaultDrawProb, numerics.Gonum())
	require.NoError(t, err)

	w1, l1, err := internal.Rate1vs1(internal.NewRating(), internal.NewRating(), false)
	require.NoError(t, err)
	w2, l2, err := gonum.Rate1vs1(gonum.NewRating(), gonum.NewRating(), false)
	require.NoError(t, err)

	assert.InDelta(t, w1.Mu, w2.Mu, 1e-6)
	assert.InDelta(t, w1.Sigma, w2.Sigma, 1e-6)
	assert.InDelta(t, l1.Mu, l2.Mu, 1e-6)
	assert.InDelta(t, l1.Sigma, l2.Sigma, 1e-6)
}

func TestGlobalEnvInstall(t *testing.T) {
	snapshot := Default()
	defer snapshot.MakeAsGlobal()

	custom, err := New(30, 10, 5, 0.1, 0, nil)
	require.NoError(t, err)
	custom.MakeAsGlobal()

	assert.Same(t, custom, Default())
	r := DefaultRating()
	assert.Equal(t, 30.0, r.Mu)
	assert.Equal(t, 10.0, r.Sigma)
}

func TestGlobalEnvConcurrentReads(t *testing.T) {
	snapshot := Default()
	defer snapshot.MakeAsGlobal()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				env := Default()
				assert.NotNil(t, env)
				env.MakeAsGlobal()
			}
		}()
	}
	wg.Wait()
}

func TestPackageLevelWrappers(t *testing.T) {
	snapshot := Default()
	defer snapshot.MakeAsGlobal()
	NewDefault().MakeAsGlobal()

	winner, loser, err := Rate1vs1(DefaultRating(), DefaultRating(), false)
	require.NoError(t, err)
	assert.Greater(t, winner.Mu, loser.Mu)

	q, err := Quality1vs1(DefaultRating(), DefaultRating())
	require.NoError(t, err)
	assert.InDelta(t, 0.4472, q, 1e-4)

	assert.InDelta(t, 0.0, Expose(DefaultRating()), 1e-9)

	rated, err := Rate([]Team{{DefaultRating()}, {DefaultRating()}}, nil, nil, 0)
	require.NoError(t, err)
	assert.Len(t, rated, 2)
}
