package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/tripcost/internal/adapter/http/dto"
	"github.com/iho/tripcost/internal/domain"
)

// ActualService defines the behavior needed by ActualHandler.
type ActualService interface {
	TransferForecastToActuals(ctx context.Context, tripID string) (int, error)
	ResetActuals(ctx context.Context, tripID string) (int, error)
	UpdateActual(ctx context.Context, id string, update domain.ActualUpdate) (*domain.ExpenseActual, error)
	GetActual(ctx context.Context, id string) (*domain.ExpenseActual, error)
	GetActualsByTrip(ctx context.Context, tripID string) ([]*domain.ExpenseActual, error)
}

// ActualHandler handles expense actual requests.
type ActualHandler struct {
	actualUC ActualService
}

// NewActualHandler creates a new ActualHandler.
func NewActualHandler(actualUC ActualService) *ActualHandler {
	return &ActualHandler{actualUC: actualUC}
}

// Transfer creates the missing first-installment actuals of a trip.
func (h *ActualHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	created, err := h.actualUC.TransferForecastToActuals(r.Context(), tripID(r))
	if err != nil {
		writeDomainError(w, r, "failed to transfer forecast to actuals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferResponse{TransferredCount: created})
}

// Reset deletes every actual of a trip.
func (h *ActualHandler) Reset(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.actualUC.ResetActuals(r.Context(), tripID(r))
	if err != nil {
		writeDomainError(w, r, "failed to reset actuals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ResetResponse{DeletedCount: deleted})
}

// ListByTrip lists the actuals of a trip.
func (h *ActualHandler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	actuals, err := h.actualUC.GetActualsByTrip(r.Context(), tripID(r))
	if err != nil {
		writeDomainError(w, r, "failed to list actuals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListActualsResponse{
		Actuals: dto.ActualsFromDomain(actuals),
		Total:   len(actuals),
	})
}

// Get retrieves an actual by ID.
func (h *ActualHandler) Get(w http.ResponseWriter, r *http.Request) {
	actual, err := h.actualUC.GetActual(r.Context(), chi.URLParam(r, "actualID"))
	if err != nil {
		writeDomainError(w, r, "failed to get actual", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ActualFromDomain(actual))
}

// Update applies a partial update to an actual.
func (h *ActualHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateActualRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	update, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid update", err.Error())
		return
	}

	actual, err := h.actualUC.UpdateActual(r.Context(), chi.URLParam(r, "actualID"), update)
	if err != nil {
		writeDomainError(w, r, "failed to update actual", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ActualFromDomain(actual))
}
