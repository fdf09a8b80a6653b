package pricing

import (
	"math"

	"github.com/demandlab/price-optimizer/pkg/constants"
	"go.uber.org/zap"
)

// Observation is a single observed (price, quantity) data point.
type Observation struct {
	Price    float64 `json:"price" mapstructure:"price"`
	Quantity float64 `json:"quantity" mapstructure:"quantity"`
}

// FitResult holds the raw OLS coefficients of
// quantity = intercept + slope*price and their conversion to the demand
// model q(p) = alpha - beta*p.
type FitResult struct {
	Alpha     float64 `json:"alpha"`
	Beta      float64 `json:"beta"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// Fit runs a closed-form single-predictor least-squares regression over
// observations and converts the coefficients into demand-model parameters.
// The fitted relationship must show demand falling with price (beta > 0).
func Fit(logger *zap.Logger, observations []Observation) (*FitResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	n := len(observations)
	if n < 2 {
		return nil, ErrInsufficientData
	}

	var sumP, sumQ, sumPP, sumPQ float64
	for _, obs := range observations {
		sumP += obs.Price
		sumQ += obs.Quantity
		sumPP += obs.Price * obs.Price
		sumPQ += obs.Price * obs.Quantity
	}

	meanP := sumP / float64(n)
	meanQ := sumQ / float64(n)

	sxx := sumPP - float64(n)*meanP*meanP
	sxy := sumPQ - float64(n)*meanP*meanQ

	if math.Abs(sxx) < constants.PriceVarianceTolerance {
		return nil, ErrDegeneratePriceVariance
	}

	slope := sxy / sxx
	intercept := meanQ - slope*meanP

	var ssTot, ssRes float64
	for _, obs := range observations {
		ssTot += (obs.Quantity - meanQ) * (obs.Quantity - meanQ)
		residual := obs.Quantity - (intercept + slope*obs.Price)
		ssRes += residual * residual
	}

	// All quantities identical leaves r2 undefined; report 0 by convention.
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	alpha := intercept
	beta := -slope
	if beta <= 0 {
		return nil, ErrNonDecreasingFit
	}

	logger.Debug("demand fit computed",
		zap.String("op", "pricing.Fit"),
		zap.Int("observations", n),
		zap.Float64("alpha", alpha),
		zap.Float64("beta", beta),
		zap.Float64("r2", r2),
	)

	return &FitResult{
		Alpha:     alpha,
		Beta:      beta,
		Slope:     slope,
		Intercept: intercept,
		R2:        r2,
	}, nil
}
