package handler

import (
	"context"
	"net/http"

	"github.com/iho/tripcost/internal/adapter/http/dto"
	"github.com/iho/tripcost/internal/domain"
)

// ForecastService defines the behavior needed by ForecastHandler.
type ForecastService interface {
	CollectCosts(ctx context.Context, tripID string, statuses []domain.Status) (*domain.CostForecastReport, error)
	GetCostForecastReport(ctx context.Context, tripID string) (*domain.CostForecastReport, error)
}

// ForecastHandler handles cost forecast requests.
type ForecastHandler struct {
	forecastUC ForecastService
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecastUC ForecastService) *ForecastHandler {
	return &ForecastHandler{forecastUC: forecastUC}
}

// Collect aggregates the trip's planned costs and returns the new report.
// The body is optional; {"statuses":[...]} narrows the lifecycle filter.
func (h *ForecastHandler) Collect(w http.ResponseWriter, r *http.Request) {
	var req dto.CollectCostsRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	statuses, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid statuses", err.Error())
		return
	}

	report, err := h.forecastUC.CollectCosts(r.Context(), tripID(r), statuses)
	if err != nil {
		writeDomainError(w, r, "failed to collect costs", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Get returns the most recently collected report.
func (h *ForecastHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.forecastUC.GetCostForecastReport(r.Context(), tripID(r))
	if err != nil {
		writeDomainError(w, r, "failed to get cost forecast", err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
