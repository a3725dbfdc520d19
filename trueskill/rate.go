package trueskill

import (
	"fmt"
	"math"
)

// Rate runs inference on a finished match and returns posterior ratings in
// the same team shape as the input.
//
// Teams are given in finishing order unless ranks says otherwise (lower rank
// is better; equal ranks tie). Weights, when non-nil, mirror the team shape
// and express partial play in [0, 1]. minDelta is the convergence tolerance;
// zero selects DefaultMinDelta.
//
// The inputs are never mutated; on any error no update is returned at all.
func (e *Env) Rate(teams []Team, ranks []int, weights [][]float64, minDelta float64) ([]Team, error) {
	if minDelta < 0 {
		return nil, fmt.Errorf("%w: minDelta must be non-negative, got %v", ErrValue, minDelta)
	}
	if minDelta == 0 {
		minDelta = DefaultMinDelta
	}
	m, err := normalizeMatch(teams, ranks, weights)
	if err != nil {
		return nil, err
	}
	g, err := e.buildGraph(m)
	if err != nil {
		return nil, err
	}
	if err := g.run(minDelta); err != nil {
		return nil, err
	}

	sorted := make([]Team, len(m.teams))
	flat := 0
	for t, team := range m.teams {
		posterior := make(Team, len(team))
		for j := range team {
			v := g.skillVars[flat].Value
			r := Rating{Mu: v.Mu(), Sigma: v.Sigma()}
			if math.IsNaN(r.Mu) || math.IsInf(r.Mu, 0) || !(r.Sigma > 0) || math.IsInf(r.Sigma, 1) {
				return nil, fmt.Errorf("%w: posterior %v for team %d player %d", ErrInternal, r, t, j)
			}
			posterior[j] = r
			flat++
		}
		sorted[t] = posterior
	}
	return m.unsort(sorted), nil
}

// RateKeyed is Rate for keyed teams. Weights, when non-nil, address players
// by (team index, key); missing entries default to full play. The returned
// maps mirror the input keys.
func (e *Env) RateKeyed(teams []KeyedTeam, ranks []int, weights map[WeightKey]float64, minDelta float64) ([]KeyedTeam, error) {
	positional, weightTable, keys, err := flattenKeyed(teams, weights)
	if err != nil {
		return nil, err
	}
	rated, err := e.Rate(positional, ranks, weightTable, minDelta)
	if err != nil {
		return nil, err
	}
	out := make([]KeyedTeam, len(rated))
	for i, team := range rated {
		out[i] = make(KeyedTeam, len(team))
		for j, r := range team {
			out[i][keys[i][j]] = r
		}
	}
	return out, nil
}

// Rate1vs1 rates a head-to-head match won by a, or drawn.
func (e *Env) Rate1vs1(a, b Rating, drawn bool) (Rating, Rating, error) {
	ranks := []int{0, 1}
	if drawn {
		ranks = []int{0, 0}
	}
	rated, err := e.Rate([]Team{{a}, {b}}, ranks, nil, 0)
	if err != nil {
		return Rating{}, Rating{}, err
	}
	return rated[0][0], rated[1][0], nil
}

// run executes the message-passing schedule: one downward pass from the
// priors, the iterated sweep over the team-difference chain, then one upward
// pass back to the skills.
func (g *matchGraph) run(minDelta float64) error {
	for _, f := range g.ratingLayer {
		f.Down()
	}
	for _, f := range g.perfLayer {
		f.Down()
	}
	for _, f := range g.teamPerfLayer {
		f.Down()
	}

	chain := len(g.teamDiffLayer)
	maxSweeps := 10 * (chain + 1)
	converged := false
	for sweep := 0; sweep < maxSweeps; sweep++ {
		var delta float64
		if chain == 1 {
			g.teamDiffLayer[0].Down()
			d, err := g.truncLayer[0].Up()
			if err != nil {
				return err
			}
			delta = d
		} else {
			// Sweep the chain left to right, then right to left, so
			// information from every outcome reaches every team.
			for z := 0; z < chain-1; z++ {
				g.teamDiffLayer[z].Down()
				d, err := g.truncLayer[z].Up()
				if err != nil {
					return err
				}
				delta = math.Max(delta, d)
				g.teamDiffLayer[z].Up(1)
			}
			for z := chain - 1; z > 0; z-- {
				g.teamDiffLayer[z].Down()
				d, err := g.truncLayer[z].Up()
				if err != nil {
					return err
				}
				delta = math.Max(delta, d)
				g.teamDiffLayer[z].Up(0)
			}
		}
		if delta <= minDelta {
			converged = true
			break
		}
	}
	if !converged {
		return fmt.Errorf("%w: no convergence within %d sweeps", ErrFloatingPoint, maxSweeps)
	}

	g.teamDiffLayer[0].Up(0)
	g.teamDiffLayer[chain-1].Up(1)
	for _, f := range g.teamPerfLayer {
		for x := 0; x < f.Terms(); x++ {
			f.Up(x)
		}
	}
	for _, f := range g.perfLayer {
		f.Up()
	}
	return nil
}
