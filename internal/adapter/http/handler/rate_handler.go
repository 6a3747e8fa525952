package handler

import (
	"context"
	"net/http"

	"github.com/iho/tripcost/internal/adapter/http/dto"
	"github.com/iho/tripcost/internal/domain"
)

// RateService defines the behavior needed by RateHandler.
type RateService interface {
	GetRates(ctx context.Context, base string, targets []string) (*domain.RateSnapshot, error)
}

// RateHandler exposes exchange rate snapshots.
type RateHandler struct {
	rateUC      RateService
	defaultBase string
}

// NewRateHandler creates a new RateHandler. defaultBase is used when no base is given.
func NewRateHandler(rateUC RateService, defaultBase string) *RateHandler {
	return &RateHandler{rateUC: rateUC, defaultBase: defaultBase}
}

// Get handles GET /rates?base=USD&symbols=EUR,JPY.
func (h *RateHandler) Get(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if base == "" {
		base = h.defaultBase
	}

	symbols := parseListQuery(r, "symbols")
	if len(symbols) == 0 {
		writeError(w, http.StatusBadRequest, "missing symbols", "symbols query parameter is required")
		return
	}

	snapshot, err := h.rateUC.GetRates(r.Context(), base, symbols)
	if err != nil {
		writeDomainError(w, r, "failed to get exchange rates", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RatesFromDomain(snapshot))
}
