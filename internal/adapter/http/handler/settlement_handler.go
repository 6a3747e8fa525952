package handler

import (
	"context"
	"net/http"

	"github.com/iho/tripcost/internal/adapter/http/dto"
	"github.com/iho/tripcost/internal/domain"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	GetSettlementSummary(ctx context.Context, tripID string) (*domain.SettlementSummary, error)
}

// SettlementHandler handles settlement requests.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Get returns the settlement summary of a trip.
func (h *SettlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.settlementUC.GetSettlementSummary(r.Context(), tripID(r))
	if err != nil {
		writeDomainError(w, r, "failed to compute settlement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(summary))
}
