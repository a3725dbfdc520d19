// Package trueskill implements the TrueSkill ranking system: Bayesian skill
// ratings updated from match outcomes between arbitrarily shaped teams.
//
// A player's skill is a Gaussian belief N(mu, sigma^2). Rating a match builds
// a factor graph over skills, per-match performances, team performances and
// adjacent-team differences, runs expectation propagation over it and returns
// the posterior skill for every participant. Quality gives the draw
// probability of a matchup before it is played.
//
// Variables follow the conventions of the TrueSkill papers:
//   - **mu**: the skill estimate.
//   - **sigma**: the uncertainty of the estimate.
//   - **beta**: the performance noise; the distance in skill points that
//     gives the better player an ~76% win chance.
//   - **tau**: the additive dynamics noise applied once per match.
//
// Acknowledgements:
//   - https://www.microsoft.com/en-us/research/project/trueskill-ranking-system/
//   - https://www.moserware.com/2010/03/computing-your-skill.html
package trueskill

import (
	"fmt"

	"podiumpe.com/skill_rating/numerics"
)

// Rating is a Gaussian belief over one player's skill. Ratings are value
// objects; rating a match returns new ones and never mutates the inputs.
type Rating struct {
	Mu    float64
	Sigma float64
}

// NewRating builds a rating from an explicit mean and standard deviation.
func NewRating(mu, sigma float64) Rating {
	return Rating{Mu: mu, Sigma: sigma}
}

func (r Rating) String() string {
	return fmt.Sprintf("Rating(mu=%.3f, sigma=%.3f)", r.Mu, r.Sigma)
}

func (r Rating) gaussian() (numerics.Gaussian, error) {
	return numerics.NewGaussian(r.Mu, r.Sigma)
}

// Team is an ordered collection of the ratings playing together.
type Team []Rating

// KeyedTeam is a team whose players are addressed by key instead of
// position, for callers that track players by name or id.
type KeyedTeam map[string]Rating

// WeightKey addresses one player's partial-play weight in a keyed match:
// the team index paired with the player's key within it.
type WeightKey struct {
	Team   int
	Player string
}
