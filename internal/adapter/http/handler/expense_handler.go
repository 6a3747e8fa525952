package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/tripcost/internal/adapter/http/dto"
	"github.com/iho/tripcost/internal/domain"
	"github.com/iho/tripcost/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*usecase.CreateExpenseResult, error)
	GetExpense(ctx context.Context, id string) (*domain.Expense, error)
	ListSplitsByTrip(ctx context.Context, tripID string) ([]domain.ExpenseSplit, error)
}

// ExpenseHandler handles ad-hoc expense requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

// Create stores an expense and its splits.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(tripID(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense", err.Error())
		return
	}

	result, err := h.expenseUC.CreateExpense(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(result.Expense, result.Splits))
}

// Get retrieves an expense by ID.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.expenseUC.GetExpense(r.Context(), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeDomainError(w, r, "failed to get expense", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense, nil))
}

// ListSplits lists the splits of every expense of a trip.
func (h *ExpenseHandler) ListSplits(w http.ResponseWriter, r *http.Request) {
	splits, err := h.expenseUC.ListSplitsByTrip(r.Context(), tripID(r))
	if err != nil {
		writeDomainError(w, r, "failed to list splits", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SplitsFromDomain(splits))
}
