// Package pricing implements the analytic core: the closed-form profit
// maximizer for a linear demand law and the least-squares demand fitter.
// Both operations are pure and reentrant; they read the immutable symbolic
// model and caller-local inputs only.
package pricing

import (
	"math"

	"github.com/demandlab/price-optimizer/internal/symbolic"
	"github.com/demandlab/price-optimizer/pkg/constants"
	"github.com/demandlab/price-optimizer/pkg/mathutil"
	"go.uber.org/zap"
)

// Parameters is the full input to Optimize: the demand model, the cost
// structure, and the feasible price interval. Values are consumed within a
// single call and never persisted.
type Parameters struct {
	Alpha float64 `json:"alpha" mapstructure:"alpha"` // potential demand as price approaches 0; >= 0
	Beta  float64 `json:"beta" mapstructure:"beta"`   // demand sensitivity to price; > 0
	C     float64 `json:"c" mapstructure:"c"`         // variable cost per unit sold; >= 0
	F     float64 `json:"F" mapstructure:"f"`         // fixed cost per period; >= 0
	PMin  float64 `json:"pMin" mapstructure:"pmin"`   // lowest allowed price; >= 0
	PMax  float64 `json:"pMax" mapstructure:"pmax"`   // highest allowed price; >= 0
}

// Result is the numeric outcome of an optimization together with the
// pre-rendered symbolic derivation.
type Result struct {
	POpt         float64             `json:"pOpt"`
	QOpt         float64             `json:"qOpt"`
	ProfitOpt    float64             `json:"profitOpt"`
	Revenue      float64             `json:"revenue"`
	Margin       float64             `json:"margin"`
	Elasticity   float64             `json:"elasticity"`
	UsedBoundary bool                `json:"usedBoundary"`
	Derivation   symbolic.Derivation `json:"derivation"`
}

// Optimize evaluates the closed-form optimal price for params, clamps it to
// [PMin, PMax], and derives the associated business metrics. Violated
// preconditions are reported before any partial result is produced.
func Optimize(logger *zap.Logger, model *symbolic.Model, params Parameters) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if params.Beta <= 0 {
		return nil, ErrInvalidDemandSlope
	}
	if params.PMin > params.PMax {
		return nil, ErrInvalidPriceBounds
	}

	// F is irrelevant to the location of the optimum, only to its value.
	pStar, err := model.OptimalPrice(params.Alpha, params.Beta, params.C)
	if err != nil {
		return nil, err
	}

	pOpt := mathutil.Clamp(pStar, params.PMin, params.PMax)
	usedBoundary := !mathutil.WithinTolerance(pOpt, pStar, constants.BoundaryTolerance)

	demand, err := model.DemandAt(params.Alpha, params.Beta, pOpt)
	if err != nil {
		return nil, err
	}

	// The linear law extrapolates below zero outside its valid domain;
	// quantity sold never does.
	qOpt := math.Max(0, demand)

	revenue := pOpt * qOpt
	profitOpt := revenue - (params.F + params.C*qOpt)

	// Average contribution margin ratio; fixed cost excluded.
	margin := 0.0
	if revenue > 0 {
		margin = (revenue - params.C*qOpt) / revenue
	}

	// Point price elasticity of demand at the optimum. The denominator is
	// the unclamped demand, which coincides with qOpt whenever the guard
	// passes.
	elasticity := 0.0
	if qOpt > 0 {
		elasticity = (-params.Beta * pOpt) / (params.Alpha - params.Beta*pOpt)
	}

	logger.Debug("price optimization computed",
		zap.String("op", "pricing.Optimize"),
		zap.Float64("pStar", pStar),
		zap.Float64("pOpt", pOpt),
		zap.Float64("qOpt", qOpt),
		zap.Bool("usedBoundary", usedBoundary),
	)

	return &Result{
		POpt:         pOpt,
		QOpt:         qOpt,
		ProfitOpt:    profitOpt,
		Revenue:      revenue,
		Margin:       margin,
		Elasticity:   elasticity,
		UsedBoundary: usedBoundary,
		Derivation:   model.Derivation(),
	}, nil
}
