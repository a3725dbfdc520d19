package numerics

import (
	"errors"
	"math"
)

// ErrFloatingPoint reports that a truncation correction lost all precision:
// the denominator collapsed to zero, so the moment-matched update would be
// NaN or Inf. Re-running with a higher-precision backend is the remedy;
// clamping here would silently produce wrong posteriors.
var ErrFloatingPoint = errors.New("floating-point precision lost in truncation")

// VWin is the additive correction to the mean of a Gaussian truncated to the
// win region (diff > drawMargin).
func VWin(b Backend, diff, drawMargin float64) (float64, error) {
	x := diff - drawMargin
	denom := b.CDF(x)
	if denom == 0 {
		return -x, nil
	}
	return b.PDF(x) / denom, nil
}

// WWin is the multiplicative correction to the variance for the win region.
func WWin(b Backend, diff, drawMargin float64) (float64, error) {
	x := diff - drawMargin
	v, err := VWin(b, diff, drawMargin)
	if err != nil {
		return 0, err
	}
	w := v * (v + x)
	if 0 < w && w < 1 {
		return w, nil
	}
	return 0, ErrFloatingPoint
}

// VDraw is the mean correction for the draw region (|diff| <= drawMargin).
func VDraw(b Backend, diff, drawMargin float64) (float64, error) {
	absDiff := math.Abs(diff)
	a, bb := drawMargin-absDiff, -drawMargin-absDiff
	denom := b.CDF(a) - b.CDF(bb)
	if denom == 0 {
		return 0, ErrFloatingPoint
	}
	v := (b.PDF(bb) - b.PDF(a)) / denom
	if diff < 0 {
		return -v, nil
	}
	return v, nil
}

// WDraw is the variance correction for the draw region.
func WDraw(b Backend, diff, drawMargin float64) (float64, error) {
	absDiff := math.Abs(diff)
	a, bb := drawMargin-absDiff, -drawMargin-absDiff
	denom := b.CDF(a) - b.CDF(bb)
	if denom == 0 {
		return 0, ErrFloatingPoint
	}
	v, err := VDraw(b, absDiff, drawMargin)
	if err != nil {
		return 0, err
	}
	return v*v + (a*b.PDF(a)-bb*b.PDF(bb))/denom, nil
}

// DrawMargin converts a draw probability into the margin epsilon such that a
// performance difference within it counts as a draw, for a match with n
// total players and performance noise beta.
func DrawMargin(b Backend, drawProbability float64, n int, beta float64) float64 {
	return b.Quantile((drawProbability+1)/2) * math.Sqrt(float64(n)) * beta
}
