// Package leaderboard turns a pool of rated players into printable
// standings: conservative-skill ranking with population z-scores.
package leaderboard

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"podiumpe.com/skill_rating/trueskill"
)

// Standing is one player's row in the standings.
type Standing struct {
	Name     string
	Rating   trueskill.Rating
	Exposure float64
	// NormalizedSkill is the exposure expressed as a z-score over the whole
	// pool, so pools of different strength read on a common scale.
	NormalizedSkill float64
}

// Build computes standings for a pool of players, best first.
func Build(env *trueskill.Env, players map[string]trueskill.Rating) []Standing {
	standings := make([]Standing, 0, len(players))
	exposures := make([]float64, 0, len(players))
	for name, r := range players {
		exposure := env.Expose(r)
		standings = append(standings, Standing{Name: name, Rating: r, Exposure: exposure})
		exposures = append(exposures, exposure)
	}

	mean := stat.Mean(exposures, nil)
	stdDev := stat.StdDev(exposures, nil)
	for i := range standings {
		if stdDev > 0 {
			standings[i].NormalizedSkill = (standings[i].Exposure - mean) / stdDev
		}
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Exposure != standings[j].Exposure {
			return standings[i].Exposure > standings[j].Exposure
		}
		return standings[i].Name < standings[j].Name
	})
	return standings
}

// PrintStandings prints a formatted standings table.
func PrintStandings(standings []Standing) {
	fmt.Println("\n=== STANDINGS ===")
	fmt.Println(strings.Repeat("-", 75))
	fmt.Printf("%-6s %-20s %-10s %-10s %-12s %s\n",
		"RANK", "PLAYER", "MU", "SIGMA", "SKILL", "Z-SCORE")
	fmt.Println(strings.Repeat("-", 75))

	for i, s := range standings {
		fmt.Printf("%-6d %-20s %-10.3f %-10.3f %-12.3f %+.2f\n",
			i+1, s.Name, s.Rating.Mu, s.Rating.Sigma, s.Exposure, s.NormalizedSkill)
	}

	fmt.Println(strings.Repeat("-", 75))
}
