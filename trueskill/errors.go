package trueskill

import (
	"errors"

	"podiumpe.com/skill_rating/numerics"
)

var (
	// ErrShape reports a malformed match description: too few teams, an
	// empty team, or ranks/weights that do not mirror the team structure.
	ErrShape = errors.New("team structure mismatch")

	// ErrValue reports an out-of-range input: a non-positive sigma, a weight
	// outside [0, 1], or invalid environment parameters.
	ErrValue = errors.New("invalid value")

	// ErrFloatingPoint reports lost numerical precision during inference.
	// It happens on extremely lopsided matchups; re-rate with a
	// higher-precision backend.
	ErrFloatingPoint = numerics.ErrFloatingPoint

	// ErrInternal reports a non-finite or non-positive-sigma posterior.
	// This is a bug in the engine, not a user error.
	ErrInternal = errors.New("internal invariant violation")
)
