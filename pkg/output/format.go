// Package output provides utilities for formatting and displaying
// optimization and fit results.
package output

import (
	"encoding/json"
	"fmt"

	"github.com/demandlab/price-optimizer/internal/pricing"
	"github.com/demandlab/price-optimizer/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
// Either result may be nil when the corresponding input was not configured.
func PrettyFormat(result *pricing.Result, fit *pricing.FitResult) {
	p := message.NewPrinter(language.English)

	if fit != nil {
		fmt.Printf("--- Fitted demand model ---\n")
		_, _ = p.Printf("q(p) = %.4f - %.4f*p\n", fit.Alpha, fit.Beta)
		_, _ = p.Printf("slope     | %.6f\n", fit.Slope)
		_, _ = p.Printf("intercept | %.6f\n", fit.Intercept)
		_, _ = p.Printf("r2        | %.6f\n", fit.R2)
		if result != nil {
			fmt.Printf("\n")
		}
	}

	if result != nil {
		fmt.Printf("--- Optimal price ---\n")
		boundary := "no"
		if result.UsedBoundary {
			boundary = "yes"
		}
		fmt.Printf("optimal price   | %s\n", format.Currency(result.POpt))
		_, _ = p.Printf("quantity sold   | %.2f\n", result.QOpt)
		fmt.Printf("revenue         | %s\n", format.Currency(result.Revenue))
		fmt.Printf("profit          | %s\n", format.Currency(result.ProfitOpt))
		fmt.Printf("margin          | %s\n", format.Percent(result.Margin))
		_, _ = p.Printf("elasticity      | %.4f\n", result.Elasticity)
		fmt.Printf("used boundary   | %s\n", boundary)
		fmt.Printf("\n--- Derivation ---\n")
		fmt.Printf("pi(p)   = %s\n", result.Derivation.Objective)
		fmt.Printf("pi'(p)  = %s\n", result.Derivation.D1)
		fmt.Printf("pi''(p) = %s\n", result.Derivation.D2)
		fmt.Printf("p*      = %s\n", result.Derivation.PStarFormula)
	}
}

// CsvFormat outputs in comma-separated value format, one header row and one
// value row per section.
func CsvFormat(result *pricing.Result, fit *pricing.FitResult) {
	if fit != nil {
		fmt.Printf("\"alpha\",\"beta\",\"slope\",\"intercept\",\"r2\"\n")
		fmt.Printf("\"%.6f\",\"%.6f\",\"%.6f\",\"%.6f\",\"%.6f\"\n",
			fit.Alpha, fit.Beta, fit.Slope, fit.Intercept, fit.R2)
	}
	if result != nil {
		fmt.Printf("\"pOpt\",\"qOpt\",\"profitOpt\",\"revenue\",\"margin\",\"elasticity\",\"usedBoundary\"\n")
		fmt.Printf("\"%.6f\",\"%.6f\",\"%.6f\",\"%.6f\",\"%.6f\",\"%.6f\",\"%t\"\n",
			result.POpt, result.QOpt, result.ProfitOpt, result.Revenue,
			result.Margin, result.Elasticity, result.UsedBoundary)
	}
}

type report struct {
	Optimization *pricing.Result    `json:"optimization,omitempty"`
	Fit          *pricing.FitResult `json:"fit,omitempty"`
}

// JSONString renders both results as a single JSON document.
func JSONString(result *pricing.Result, fit *pricing.FitResult) (string, error) {
	data, err := json.MarshalIndent(report{Optimization: result, Fit: fit}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
