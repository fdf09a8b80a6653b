package pricing

import "errors"

// Every error below reports invalid caller input, never an internal fault.
// The HTTP layer maps each of them to a client-facing failure.
var (
	// ErrInvalidDemandSlope is returned when beta <= 0 and demand would not
	// fall as price rises.
	ErrInvalidDemandSlope = errors.New("pricing: beta must be > 0 (demand must fall when price rises)")

	// ErrInvalidPriceBounds is returned when pMin > pMax.
	ErrInvalidPriceBounds = errors.New("pricing: pMax must be >= pMin")

	// ErrInsufficientData is returned when fewer than two observations are
	// supplied to Fit.
	ErrInsufficientData = errors.New("pricing: provide at least 2 (price, quantity) pairs")

	// ErrDegeneratePriceVariance is returned when all observed prices are
	// effectively identical and the regression slope is undefined.
	ErrDegeneratePriceVariance = errors.New("pricing: price variance ~ 0 (all prices are equal)")

	// ErrNonDecreasingFit is returned when the fitted slope does not show
	// demand falling with price. This is a data-quality rejection, not a
	// numerical one.
	ErrNonDecreasingFit = errors.New("pricing: non-negative slope (demand does not fall with price); check the (price, quantity) data")
)
