// Package server exposes the price-optimization and demand-fitting API
// over HTTP. It decodes and validates wire payloads, invokes the pricing
// core, and maps every domain rejection to a client-facing failure.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/demandlab/price-optimizer/internal/pricing"
	"github.com/demandlab/price-optimizer/internal/symbolic"
	"github.com/demandlab/price-optimizer/pkg/constants"
	"go.uber.org/zap"
)

type handler struct {
	logger         *zap.Logger
	model          *symbolic.Model
	maxBodySize    int64
	allowedOrigins []string
}

// NewHandler constructs the HTTP handler that serves the optimization API.
// The symbolic model must already be constructed; no request pays for the
// derivation work.
func NewHandler(logger *zap.Logger, model *symbolic.Model, maxBodySize int64, allowedOrigins []string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	h := &handler{
		logger:         logger,
		model:          model,
		maxBodySize:    maxBodySize,
		allowedOrigins: allowedOrigins,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/optimize", h.handleOptimize)
	mux.HandleFunc("/fit", h.handleFit)
	mux.HandleFunc("/ping", h.handlePing)

	return h.withCORS(mux)
}

// withCORS sets the CORS headers on every response, including errors, and
// answers preflight requests directly.
func (h *handler) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := h.resolveOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// resolveOrigin returns the Allow-Origin value for a request origin. An
// empty whitelist allows any origin.
func (h *handler) resolveOrigin(origin string) string {
	if len(h.allowedOrigins) == 0 {
		return "*"
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == origin {
			return origin
		}
	}
	return ""
}

type optimizeRequest struct {
	Alpha *float64 `json:"alpha"`
	Beta  *float64 `json:"beta"`
	C     *float64 `json:"c"`
	F     *float64 `json:"F"`
	PMin  *float64 `json:"pMin"`
	PMax  *float64 `json:"pMax"`
}

// validate enforces the request schema: every field present, monetary
// fields non-negative. Domain preconditions (beta > 0, pMin <= pMax) are
// the pricing core's responsibility.
func (req *optimizeRequest) validate() error {
	fields := map[string]*float64{
		"alpha": req.Alpha,
		"beta":  req.Beta,
		"c":     req.C,
		"F":     req.F,
		"pMin":  req.PMin,
		"pMax":  req.PMax,
	}
	for _, name := range []string{"alpha", "beta", "c", "F", "pMin", "pMax"} {
		if fields[name] == nil {
			return fmt.Errorf("missing field %q", name)
		}
	}
	for _, name := range []string{"alpha", "c", "F", "pMin", "pMax"} {
		if *fields[name] < 0 {
			return fmt.Errorf("field %q must be >= 0", name)
		}
	}
	return nil
}

type fitRequest struct {
	Data []pricing.Observation `json:"data"`
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("missing or invalid JSON body: %v", err), "server.handleOptimize")
		return
	}
	if err := req.validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), "server.handleOptimize")
		return
	}

	result, err := pricing.Optimize(h.logger, h.model, pricing.Parameters{
		Alpha: *req.Alpha,
		Beta:  *req.Beta,
		C:     *req.C,
		F:     *req.F,
		PMin:  *req.PMin,
		PMax:  *req.PMax,
	})
	if err != nil {
		h.respondErrorWithOp(w, statusForError(err), err.Error(), "server.handleOptimize")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleFit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req fitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("missing or invalid JSON body: %v", err), "server.handleFit")
		return
	}
	if req.Data == nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, `missing field "data"`, "server.handleFit")
		return
	}

	result, err := pricing.Fit(h.logger, req.Data)
	if err != nil {
		h.respondErrorWithOp(w, statusForError(err), err.Error(), "server.handleFit")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForError maps domain rejections to 422; anything else is an
// internal fault.
func statusForError(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidDemandSlope),
		errors.Is(err, pricing.ErrInvalidPriceBounds),
		errors.Is(err, pricing.ErrInsufficientData),
		errors.Is(err, pricing.ErrDegeneratePriceVariance),
		errors.Is(err, pricing.ErrNonDecreasingFit),
		errors.Is(err, symbolic.ErrUnsolvableModel):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
