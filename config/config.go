package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"podiumpe.com/skill_rating/numerics"
	"podiumpe.com/skill_rating/trueskill"
)

type Config struct {
	// Rating model
	Mu       float64
	Sigma    float64
	Beta     float64
	Tau      float64
	DrawProb float64

	// Special-function backend: "internal" or "gonum"
	Backend string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Mu:       envFloat("TRUESKILL_MU", trueskill.DefaultMu),
		Sigma:    envFloat("TRUESKILL_SIGMA", trueskill.DefaultSigma),
		Beta:     envFloat("TRUESKILL_BETA", trueskill.DefaultBeta),
		Tau:      envFloat("TRUESKILL_TAU", trueskill.DefaultTau),
		DrawProb: envFloat("TRUESKILL_DRAW_PROB", trueskill.DefaultDrawProb),
		Backend:  envStr("TRUESKILL_BACKEND", "internal"),
		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

// Env builds the rating environment the config describes.
func (c *Config) Env() (*trueskill.Env, error) {
	var backend numerics.Backend
	if c.Backend == "gonum" {
		backend = numerics.Gonum()
	} else {
		backend = numerics.Internal()
	}
	return trueskill.New(c.Mu, c.Sigma, c.Beta, c.Tau, c.DrawProb, backend)
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
