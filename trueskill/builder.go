package trueskill

import (
	factorgraph "podiumpe.com/skill_rating/factor_graph"
	"podiumpe.com/skill_rating/numerics"
)

// matchGraph is the factor graph for one rating call, layered the way the
// schedule walks it. It is built per call and discarded with it.
type matchGraph struct {
	skillVars []*factorgraph.Variable
	teamSizes []int // cumulative player counts per sorted team

	ratingLayer   []*factorgraph.PriorFactor
	perfLayer     []*factorgraph.LikelihoodFactor
	teamPerfLayer []*factorgraph.SumFactor
	teamDiffLayer []*factorgraph.SumFactor
	truncLayer    []*factorgraph.TruncateFactor
}

// buildGraph wires a normalized match into its factor graph: per player a
// skill and a performance variable joined by prior and likelihood factors,
// per team a weighted-sum performance, and per adjacent sorted pair a
// difference variable capped by the outcome factor.
func (e *Env) buildGraph(m *match) (*matchGraph, error) {
	g := &matchGraph{teamSizes: make([]int, len(m.teams))}
	total := 0
	for i, team := range m.teams {
		total += len(team)
		g.teamSizes[i] = total
	}

	g.skillVars = make([]*factorgraph.Variable, m.players)
	perfVars := make([]*factorgraph.Variable, m.players)
	for i := range g.skillVars {
		g.skillVars[i] = factorgraph.NewVariable()
		perfVars[i] = factorgraph.NewVariable()
	}
	teamPerfVars := make([]*factorgraph.Variable, len(m.teams))
	for i := range teamPerfVars {
		teamPerfVars[i] = factorgraph.NewVariable()
	}
	teamDiffVars := make([]*factorgraph.Variable, len(m.teams)-1)
	for i := range teamDiffVars {
		teamDiffVars[i] = factorgraph.NewVariable()
	}

	flat := 0
	for _, team := range m.teams {
		for _, r := range team {
			prior, err := r.gaussian()
			if err != nil {
				return nil, err
			}
			g.ratingLayer = append(g.ratingLayer,
				factorgraph.NewPriorFactor(g.skillVars[flat], prior, e.Tau))
			g.perfLayer = append(g.perfLayer,
				factorgraph.NewLikelihoodFactor(g.skillVars[flat], perfVars[flat], e.Beta*e.Beta))
			flat++
		}
	}

	for t := range m.teams {
		start := 0
		if t > 0 {
			start = g.teamSizes[t-1]
		}
		end := g.teamSizes[t]
		g.teamPerfLayer = append(g.teamPerfLayer,
			factorgraph.NewSumFactor(teamPerfVars[t], perfVars[start:end], m.weights[t]))
	}

	drawMargin := numerics.DrawMargin(e.backend, e.DrawProbability, m.players, e.Beta)
	for t := range teamDiffVars {
		g.teamDiffLayer = append(g.teamDiffLayer,
			factorgraph.NewSumFactor(teamDiffVars[t], teamPerfVars[t:t+2], []float64{1, -1}))

		var vFn, wFn factorgraph.CorrectionFunc
		if m.ranks[t] == m.ranks[t+1] {
			vFn = func(diff, margin float64) (float64, error) { return numerics.VDraw(e.backend, diff, margin) }
			wFn = func(diff, margin float64) (float64, error) { return numerics.WDraw(e.backend, diff, margin) }
		} else {
			vFn = func(diff, margin float64) (float64, error) { return numerics.VWin(e.backend, diff, margin) }
			wFn = func(diff, margin float64) (float64, error) { return numerics.WWin(e.backend, diff, margin) }
		}
		g.truncLayer = append(g.truncLayer,
			factorgraph.NewTruncateFactor(teamDiffVars[t], vFn, wFn, drawMargin))
	}
	return g, nil
}
