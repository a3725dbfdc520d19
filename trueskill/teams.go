package trueskill

import (
	"fmt"
	"sort"
)

// match is a rank-sorted, fully positional view of a rating call. order[i]
// remembers which input team sits at sorted position i so results can be
// put back in input order.
type match struct {
	teams   []Team
	ranks   []int
	weights [][]float64
	order   []int
	players int
}

// validateTeams checks the raw team structure and every rating in it.
func validateTeams(teams []Team) (players int, err error) {
	if len(teams) < 2 {
		return 0, fmt.Errorf("%w: need at least two teams, got %d", ErrShape, len(teams))
	}
	for i, team := range teams {
		if len(team) == 0 {
			return 0, fmt.Errorf("%w: team %d has no players", ErrShape, i)
		}
		for j, r := range team {
			if r.Sigma <= 0 {
				return 0, fmt.Errorf("%w: team %d player %d: sigma must be positive, got %v",
					ErrValue, i, j, r.Sigma)
			}
		}
		players += len(team)
	}
	return players, nil
}

// validateWeights resolves the optional weight table to the exact shape of
// teams, defaulting missing entries to full play.
func validateWeights(weights [][]float64, teams []Team) ([][]float64, error) {
	if weights == nil {
		weights = make([][]float64, len(teams))
	}
	if len(weights) != len(teams) {
		return nil, fmt.Errorf("%w: %d weight groups for %d teams", ErrShape, len(weights), len(teams))
	}
	resolved := make([][]float64, len(teams))
	for i, team := range teams {
		if weights[i] == nil {
			resolved[i] = make([]float64, len(team))
			for j := range resolved[i] {
				resolved[i][j] = 1
			}
			continue
		}
		if len(weights[i]) != len(team) {
			return nil, fmt.Errorf("%w: team %d has %d players but %d weights",
				ErrShape, i, len(team), len(weights[i]))
		}
		for j, w := range weights[i] {
			if w < 0 || w > 1 {
				return nil, fmt.Errorf("%w: team %d player %d: weight must be in [0, 1], got %v",
					ErrValue, i, j, w)
			}
		}
		resolved[i] = append([]float64(nil), weights[i]...)
	}
	return resolved, nil
}

// weightFloor is the fixed floor for tiny partial-play weights. It keeps
// team-performance propagation from dividing by zero while staying small
// enough that a floored player's posterior equals the prior. It is
// independent of the caller-adjustable convergence tolerance.
const weightFloor = 1e-6

// normalizeMatch validates the whole call and sorts teams by rank ascending,
// recording the permutation. Tiny weights are clamped to weightFloor.
func normalizeMatch(teams []Team, ranks []int, weights [][]float64) (*match, error) {
	players, err := validateTeams(teams)
	if err != nil {
		return nil, err
	}
	if ranks == nil {
		ranks = make([]int, len(teams))
		for i := range ranks {
			ranks[i] = i
		}
	} else if len(ranks) != len(teams) {
		return nil, fmt.Errorf("%w: %d ranks for %d teams", ErrShape, len(ranks), len(teams))
	}
	weights, err = validateWeights(weights, teams)
	if err != nil {
		return nil, err
	}

	m := &match{
		teams:   make([]Team, len(teams)),
		ranks:   make([]int, len(teams)),
		weights: make([][]float64, len(teams)),
		order:   make([]int, len(teams)),
		players: players,
	}
	for i := range m.order {
		m.order[i] = i
	}
	sort.SliceStable(m.order, func(a, b int) bool {
		return ranks[m.order[a]] < ranks[m.order[b]]
	})
	for pos, src := range m.order {
		m.teams[pos] = teams[src]
		m.ranks[pos] = ranks[src]
		clamped := make([]float64, len(weights[src]))
		for j, w := range weights[src] {
			if w < weightFloor {
				w = weightFloor
			}
			clamped[j] = w
		}
		m.weights[pos] = clamped
	}
	return m, nil
}

// unsort maps result teams from sorted positions back to input positions.
func (m *match) unsort(sorted []Team) []Team {
	out := make([]Team, len(sorted))
	for pos, src := range m.order {
		out[src] = sorted[pos]
	}
	return out
}

// flattenKeyed lowers keyed teams to positional form with a deterministic
// key order per team, so both container styles build the same graph.
func flattenKeyed(teams []KeyedTeam, weights map[WeightKey]float64) ([]Team, [][]float64, [][]string, error) {
	positional := make([]Team, len(teams))
	keys := make([][]string, len(teams))
	var table [][]float64
	if weights != nil {
		table = make([][]float64, len(teams))
	}
	for i, team := range teams {
		teamKeys := make([]string, 0, len(team))
		for k := range team {
			teamKeys = append(teamKeys, k)
		}
		sort.Strings(teamKeys)
		keys[i] = teamKeys
		positional[i] = make(Team, len(teamKeys))
		for j, k := range teamKeys {
			positional[i][j] = team[k]
		}
		if weights == nil {
			continue
		}
		table[i] = make([]float64, len(teamKeys))
		for j, k := range teamKeys {
			if w, ok := weights[WeightKey{Team: i, Player: k}]; ok {
				table[i][j] = w
			} else {
				table[i][j] = 1
			}
		}
	}
	if weights != nil {
		for wk := range weights {
			if wk.Team < 0 || wk.Team >= len(teams) {
				return nil, nil, nil, fmt.Errorf("%w: weight key for team %d out of range", ErrShape, wk.Team)
			}
			if _, ok := teams[wk.Team][wk.Player]; !ok {
				return nil, nil, nil, fmt.Errorf("%w: weight key for unknown player %q in team %d",
					ErrShape, wk.Player, wk.Team)
			}
		}
	}
	return positional, table, keys, nil
}
