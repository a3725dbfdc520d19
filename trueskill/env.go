package trueskill

import (
	"fmt"
	"math"

	"podiumpe.com/skill_rating/numerics"
)

// Default configuration values for the TrueSkill ranking system.
const (
	DefaultMu       = 25.0
	DefaultSigma    = DefaultMu / 3.0
	DefaultBeta     = DefaultSigma / 2.0
	DefaultTau      = DefaultSigma / 100.0
	DefaultDrawProb = 0.10

	// DefaultMinDelta is the convergence tolerance of the inference loop.
	DefaultMinDelta = 1e-4
)

// Env is an immutable bundle of the rating-model parameters plus the
// special-function backend. All graph weights are derived from it.
type Env struct {
	Mu              float64 // default mean of a fresh rating
	Sigma           float64 // default deviation of a fresh rating
	Beta            float64 // performance noise
	Tau             float64 // between-match dynamics noise
	DrawProbability float64 // chance of a draw in the underlying match model

	backend numerics.Backend
}

// New builds an environment from the five model parameters. A nil backend
// selects the built-in one; numerics.Gonum() is the gonum-based alternative.
func New(mu, sigma, beta, tau, drawProb float64, backend numerics.Backend) (*Env, error) {
	switch {
	case sigma <= 0:
		return nil, fmt.Errorf("%w: sigma must be positive, got %v", ErrValue, sigma)
	case beta <= 0:
		return nil, fmt.Errorf("%w: beta must be positive, got %v", ErrValue, beta)
	case tau < 0:
		return nil, fmt.Errorf("%w: tau must be non-negative, got %v", ErrValue, tau)
	case drawProb < 0 || drawProb >= 1:
		return nil, fmt.Errorf("%w: draw probability must be in [0, 1), got %v", ErrValue, drawProb)
	}
	if backend == nil {
		backend = numerics.Internal()
	}
	return &Env{
		Mu:              mu,
		Sigma:           sigma,
		Beta:            beta,
		Tau:             tau,
		DrawProbability: drawProb,
		backend:         backend,
	}, nil
}

// NewDefault returns an environment with the standard TrueSkill parameters
// and the built-in backend.
func NewDefault() *Env {
	env, err := New(DefaultMu, DefaultSigma, DefaultBeta, DefaultTau, DefaultDrawProb, nil)
	if err != nil {
		panic(err)
	}
	return env
}

// Backend returns the special-function backend in use.
func (e *Env) Backend() numerics.Backend { return e.backend }

// NewRating returns a fresh rating with the environment's defaults.
func (e *Env) NewRating() Rating {
	return Rating{Mu: e.Mu, Sigma: e.Sigma}
}

// Expose collapses a rating into a single conservative skill scalar,
// mu - k*sigma with k = mu0/sigma0 (3 under the default configuration).
// Leaderboards sorted by it rank uncertain players pessimistically.
func (e *Env) Expose(r Rating) float64 {
	k := e.Mu / e.Sigma
	return r.Mu - k*r.Sigma
}

// WinProbability returns the chance of team a beating team b, ignoring the
// possibility of a draw.
func (e *Env) WinProbability(a, b Team) float64 {
	var deltaMu, sumSigma float64
	for _, r := range a {
		deltaMu += r.Mu
		sumSigma += r.Sigma * r.Sigma
	}
	for _, r := range b {
		deltaMu -= r.Mu
		sumSigma += r.Sigma * r.Sigma
	}
	playerCount := float64(len(a) + len(b))
	denom := math.Sqrt(playerCount*e.Beta*e.Beta + sumSigma)
	return e.backend.CDF(deltaMu / denom)
}
