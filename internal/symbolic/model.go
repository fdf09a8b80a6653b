// Package symbolic builds the parametric profit model for a business with
// linear demand and derives, in closed form, its profit-maximizing price.
//
// The model encodes
//
//	q(p)  = alpha - beta*p
//	pi(p) = p*q(p) - (F + c*q(p))
//
// with p, alpha, beta, c, and F all treated as symbols. Construction
// differentiates pi with respect to p, solves pi'(p) = 0 for p, and renders
// every expression as plain text and LaTeX. None of this depends on a
// numeric parameter instance, so the model is built once per process and
// shared read-only afterwards.
package symbolic

import (
	"errors"
	"fmt"
	"sync"

	"github.com/njchilds90/gosymbol"
)

// ErrUnsolvableModel indicates the closed-form optimal price could not be
// derived from the profit function's first derivative. For this
// linear-quadratic form the solve always succeeds; an empty solution set is
// an unrecoverable configuration error, never something to compute past.
var ErrUnsolvableModel = errors.New("symbolic: could not determine the optimal price in closed form")

// Symbol names used throughout the model.
const (
	SymbolPrice = "p"
	SymbolAlpha = "alpha"
	SymbolBeta  = "beta"
	SymbolCost  = "c"
	SymbolFixed = "F"
)

// Derivation holds the pre-rendered formulas describing how the optimal
// price is obtained. The wire field names match the original report schema.
type Derivation struct {
	Objective    string `json:"objective"`    // pi(p)
	D1           string `json:"d1"`           // pi'(p)
	D2           string `json:"d2"`           // pi''(p)
	PStarFormula string `json:"pStarFormula"` // closed-form p*

	ObjectiveLatex    string `json:"objective_latex"`
	D1Latex           string `json:"d1_latex"`
	D2Latex           string `json:"d2_latex"`
	PStarFormulaLatex string `json:"pStarFormula_latex"`
}

// Model is the immutable symbolic profit model.
type Model struct {
	demand     gosymbol.Expr // q(p)
	profit     gosymbol.Expr // pi(p)
	d1         gosymbol.Expr // pi'(p)
	d2         gosymbol.Expr // pi''(p)
	pStar      gosymbol.Expr // solution of pi'(p) = 0, in alpha, beta, c
	derivation Derivation
}

// New constructs the symbolic model. It is deterministic and side-effect
// free; callers normally use Shared instead so the derivation work happens
// once per process.
func New() (*Model, error) {
	p := gosymbol.S(SymbolPrice)
	alpha := gosymbol.S(SymbolAlpha)
	beta := gosymbol.S(SymbolBeta)
	c := gosymbol.S(SymbolCost)
	fixed := gosymbol.S(SymbolFixed)

	demand := gosymbol.Simplify(gosymbol.AddOf(alpha, gosymbol.MulOf(gosymbol.N(-1), beta, p)))

	// pi(p) = p*q(p) - (F + c*q(p)), expanded to canonical form.
	profit := gosymbol.Canonicalize(gosymbol.AddOf(
		gosymbol.MulOf(p, demand),
		gosymbol.MulOf(gosymbol.N(-1), gosymbol.AddOf(fixed, gosymbol.MulOf(c, demand))),
	))

	d1 := gosymbol.Diff(profit, SymbolPrice)
	d2 := gosymbol.Diff2(profit, SymbolPrice)

	pStar, err := solveStationaryPoint(d1)
	if err != nil {
		return nil, err
	}

	return &Model{
		demand: demand,
		profit: profit,
		d1:     d1,
		d2:     d2,
		pStar:  pStar,
		derivation: Derivation{
			Objective:    gosymbol.String(profit),
			D1:           gosymbol.String(d1),
			D2:           gosymbol.String(d2),
			PStarFormula: gosymbol.String(pStar),

			ObjectiveLatex:    gosymbol.LaTeX(profit),
			D1Latex:           gosymbol.LaTeX(d1),
			D2Latex:           gosymbol.LaTeX(d2),
			PStarFormulaLatex: gosymbol.LaTeX(pStar),
		},
	}, nil
}

// solveStationaryPoint solves d1 = 0 for the price symbol. The first
// derivative of this functional form is linear in p with leading
// coefficient -2*beta; the negated equation has the same root and keeps the
// rendered formula's denominator positive.
func solveStationaryPoint(d1 gosymbol.Expr) (gosymbol.Expr, error) {
	coeffs := gosymbol.PolyCoeffs(d1, SymbolPrice)

	a, ok := coeffs[1]
	if !ok {
		return nil, fmt.Errorf("%w: first derivative is constant in %s", ErrUnsolvableModel, SymbolPrice)
	}
	b, ok := coeffs[0]
	if !ok {
		b = gosymbol.N(0)
	}

	negA := gosymbol.Simplify(gosymbol.MulOf(gosymbol.N(-1), a))
	negB := gosymbol.Simplify(gosymbol.MulOf(gosymbol.N(-1), b))

	solved := gosymbol.SolveLinear(negA, negB)
	if solved.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsolvableModel, solved.Error)
	}
	if len(solved.Solutions) == 0 {
		return nil, fmt.Errorf("%w: empty solution set", ErrUnsolvableModel)
	}
	return gosymbol.Simplify(solved.Solutions[0]), nil
}

// Demand returns q(p).
func (m *Model) Demand() gosymbol.Expr { return m.demand }

// Profit returns pi(p).
func (m *Model) Profit() gosymbol.Expr { return m.profit }

// FirstDerivative returns pi'(p).
func (m *Model) FirstDerivative() gosymbol.Expr { return m.d1 }

// SecondDerivative returns pi''(p).
func (m *Model) SecondDerivative() gosymbol.Expr { return m.d2 }

// PStar returns the closed-form stationary point of pi, in alpha, beta, c.
// F has zero partial derivative with respect to p and does not appear.
func (m *Model) PStar() gosymbol.Expr { return m.pStar }

// Derivation returns the pre-rendered formula strings. The same value is
// reused verbatim for every optimization.
func (m *Model) Derivation() Derivation { return m.derivation }

// OptimalPrice substitutes a concrete parameter set into the closed-form
// p* expression and evaluates it numerically.
func (m *Model) OptimalPrice(alpha, beta, c float64) (float64, error) {
	expr := gosymbol.Sub(m.pStar, SymbolAlpha, gosymbol.NFloat(alpha))
	expr = gosymbol.Sub(expr, SymbolBeta, gosymbol.NFloat(beta))
	expr = gosymbol.Sub(expr, SymbolCost, gosymbol.NFloat(c))

	num, ok := expr.Eval()
	if !ok {
		return 0, fmt.Errorf("%w: p* did not reduce to a number after substitution", ErrUnsolvableModel)
	}
	return num.Float64(), nil
}

// DemandAt substitutes a concrete parameter set and price into q(p) and
// evaluates it numerically. The result may be negative; clamping to the
// model's valid domain is the caller's concern.
func (m *Model) DemandAt(alpha, beta, price float64) (float64, error) {
	expr := gosymbol.Sub(m.demand, SymbolAlpha, gosymbol.NFloat(alpha))
	expr = gosymbol.Sub(expr, SymbolBeta, gosymbol.NFloat(beta))
	expr = gosymbol.Sub(expr, SymbolPrice, gosymbol.NFloat(price))

	num, ok := expr.Eval()
	if !ok {
		return 0, fmt.Errorf("%w: q(p) did not reduce to a number after substitution", ErrUnsolvableModel)
	}
	return num.Float64(), nil
}

var (
	sharedOnce  sync.Once
	sharedModel *Model
	sharedErr   error
)

// Shared returns the process-wide model, constructing it on first use.
// Symbolic differentiation and solving is the most expensive step in the
// system and is input-independent, so it must never run per request.
func Shared() (*Model, error) {
	sharedOnce.Do(func() {
		sharedModel, sharedErr = New()
	})
	return sharedModel, sharedErr
}
