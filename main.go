package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"podiumpe.com/skill_rating/config"
	"podiumpe.com/skill_rating/leaderboard"
	"podiumpe.com/skill_rating/telemetry"
	"podiumpe.com/skill_rating/trueskill"
)

type ratingJSON struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

type matchJSON struct {
	Teams   []map[string]ratingJSON `json:"teams"`
	Ranks   []int                   `json:"ranks"`
	Weights []map[string]float64    `json:"weights"`
}

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	env, err := cfg.Env()
	if err != nil {
		telemetry.Errorf("invalid rating configuration: %v", err)
		return
	}
	env.MakeAsGlobal()
	telemetry.Debugf("environment: mu=%.2f sigma=%.3f beta=%.3f tau=%.3f drawProb=%.2f backend=%s",
		env.Mu, env.Sigma, env.Beta, env.Tau, env.DrawProbability, cfg.Backend)

	fmt.Println("\n=== TrueSkill ===")
	fmt.Println("1. Rate a match")
	fmt.Println("2. Match quality")
	fmt.Println("3. Win probability (two teams)")
	fmt.Println("4. Exit")
	fmt.Print("Enter your choice (1-4): ")

	choice := GetUserChoice()
	if choice == 4 {
		fmt.Println("Exiting...")
		return
	}

	if choice < 1 || choice > 3 {
		fmt.Println("Invalid choice. Please enter a number between 1 and 3.")
		return
	}

	matchPath := GetInput("Match Json file path: ")
	teams, ranks, weights, err := readMatchFromJSON(matchPath)
	if err != nil {
		fmt.Println("Error reading match from JSON:", err)
		return
	}

	switch choice {
	case 1:
		rated, err := env.RateKeyed(teams, ranks, weights, 0)
		if err != nil {
			fmt.Println("Error rating match:", err)
			return
		}
		printPosteriors(teams, rated)

		players := map[string]trueskill.Rating{}
		for _, team := range rated {
			for name, r := range team {
				players[name] = r
			}
		}
		leaderboard.PrintStandings(leaderboard.Build(env, players))

	case 2:
		quality, err := env.QualityKeyed(teams, weights)
		if err != nil {
			fmt.Println("Error computing match quality:", err)
			return
		}
		fmt.Printf("\nMatch quality (draw probability): %.4f\n", quality)

	case 3:
		if len(teams) != 2 {
			fmt.Println("Win probability needs exactly two teams.")
			return
		}
		a, b := flattenTeam(teams[0]), flattenTeam(teams[1])
		fmt.Printf("\nP(first team wins): %.4f\n", env.WinProbability(a, b))
	}
}

func printPosteriors(before, after []trueskill.KeyedTeam) {
	fmt.Println("\n=== POSTERIOR RATINGS ===")
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%-6s %-20s %-12s %-12s %-12s %-12s\n",
		"TEAM", "PLAYER", "MU BEFORE", "MU AFTER", "SIG BEFORE", "SIG AFTER")
	fmt.Println(strings.Repeat("-", 80))

	for t := range after {
		names := make([]string, 0, len(after[t]))
		for name := range after[t] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			prior := before[t][name]
			posterior := after[t][name]
			fmt.Printf("%-6d %-20s %-12.3f %-12.3f %-12.3f %-12.3f\n",
				t+1, name, prior.Mu, posterior.Mu, prior.Sigma, posterior.Sigma)
		}
	}
	fmt.Println(strings.Repeat("-", 80))
}

func flattenTeam(team trueskill.KeyedTeam) trueskill.Team {
	out := make(trueskill.Team, 0, len(team))
	for _, r := range team {
		out = append(out, r)
	}
	return out
}

func readMatchFromJSON(filePath string) ([]trueskill.KeyedTeam, []int, map[trueskill.WeightKey]float64, error) {
	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error reading JSON file: %v", err)
	}

	var m matchJSON
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, nil, nil, fmt.Errorf("error unmarshaling JSON data: %v", err)
	}

	teams := make([]trueskill.KeyedTeam, len(m.Teams))
	for i, team := range m.Teams {
		teams[i] = make(trueskill.KeyedTeam, len(team))
		for name, r := range team {
			teams[i][name] = trueskill.NewRating(r.Mu, r.Sigma)
		}
	}

	var weights map[trueskill.WeightKey]float64
	if m.Weights != nil {
		weights = map[trueskill.WeightKey]float64{}
		for i, team := range m.Weights {
			for name, w := range team {
				weights[trueskill.WeightKey{Team: i, Player: name}] = w
			}
		}
	}

	fmt.Printf("Successfully read %d teams from JSON file\n", len(teams))
	return teams, m.Ranks, weights, nil
}

func GetUserChoice() int {
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	choice, err := strconv.Atoi(input)
	if err != nil {
		return 0
	}
	return choice
}

func GetInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
