package trueskill

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Quality returns the draw probability of the matchup under the pre-match
// ratings — the closed-form mass of the draw region of the performance
// difference distribution. 1.0 means a perfectly even match. Weights, when
// non-nil, mirror the team shape like in Rate.
func (e *Env) Quality(teams []Team, weights [][]float64) (float64, error) {
	players, err := validateTeams(teams)
	if err != nil {
		return 0, err
	}
	weights, err = validateWeights(weights, teams)
	if err != nil {
		return 0, err
	}

	mus := make([]float64, 0, players)
	variances := make([]float64, 0, players)
	for _, team := range teams {
		for _, r := range team {
			mus = append(mus, r.Mu)
			variances = append(variances, r.Sigma*r.Sigma)
		}
	}
	mean := mat.NewVecDense(players, mus)
	variance := mat.NewDiagDense(players, variances)

	// One row per adjacent team pair: +weight over the first team's players,
	// -weight over the second's.
	pairs := len(teams) - 1
	a := mat.NewDense(pairs, players, nil)
	offset := 0
	for t := 0; t < pairs; t++ {
		for j, w := range weights[t] {
			a.Set(t, offset+j, w)
		}
		for j, w := range weights[t+1] {
			a.Set(t, offset+len(teams[t])+j, -w)
		}
		offset += len(teams[t])
	}

	beta2 := e.Beta * e.Beta
	var ata, asa, middle mat.Dense
	ata.Mul(a, a.T())
	ata.Scale(beta2, &ata)
	var sa mat.Dense
	sa.Mul(variance, a.T())
	asa.Mul(a, &sa)
	middle.Add(&ata, &asa)

	var am mat.VecDense
	am.MulVec(a, mean)
	var solved mat.VecDense
	if err := solved.SolveVec(&middle, &am); err != nil {
		return 0, ErrFloatingPoint
	}
	eArg := -0.5 * mat.Dot(&am, &solved)
	sArg := mat.Det(&ata) / mat.Det(&middle)
	return math.Exp(eArg) * math.Sqrt(sArg), nil
}

// QualityKeyed is Quality for keyed teams.
func (e *Env) QualityKeyed(teams []KeyedTeam, weights map[WeightKey]float64) (float64, error) {
	positional, weightTable, _, err := flattenKeyed(teams, weights)
	if err != nil {
		return 0, err
	}
	return e.Quality(positional, weightTable)
}

// Quality1vs1 is Quality for a head-to-head matchup.
func (e *Env) Quality1vs1(a, b Rating) (float64, error) {
	return e.Quality([]Team{{a}, {b}}, nil)
}
