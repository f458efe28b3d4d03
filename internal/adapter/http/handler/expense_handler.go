package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/splitclear/internal/adapter/http/dto"
	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/usecase"
)

// ExpenseHandler serves the expense views and the clearing endpoint.
type ExpenseHandler struct {
	expenses *usecase.ExpenseUseCase
	clearing *usecase.ClearingUseCase
	logger   zerolog.Logger
}

func NewExpenseHandler(expenses *usecase.ExpenseUseCase, clearing *usecase.ClearingUseCase, logger zerolog.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, clearing: clearing, logger: logger}
}

func (h *ExpenseHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Put("/clear/{id}", h.clear)
	r.Get("/{id}/payments", h.payments)
}

func (h *ExpenseHandler) list(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.ListExpenses(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromExpenses(expenses))
}

func (h *ExpenseHandler) get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.expenses.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromExpense(expense))
}

func (h *ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, domain.ErrInvalidDescription)
		return
	}

	draft, err := req.ToDraft()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	created, err := h.expenses.CreateExpense(r.Context(), draft)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.FromExpense(created))
}

func (h *ExpenseHandler) update(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, domain.ErrInvalidDescription)
		return
	}

	draft, err := req.ToDraft()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	updated, err := h.expenses.UpdateExpense(r.Context(), chi.URLParam(r, "id"), draft)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromExpense(updated))
}

func (h *ExpenseHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.expenses.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// clear drives a full clearing workflow for one payment: begin against the
// current expense state, submit the caller's input, and return the refetched
// expense. An overpayment or an already-cleared expense answers 409.
func (h *ExpenseHandler) clear(w http.ResponseWriter, r *http.Request) {
	var req dto.ClearExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, domain.ErrInvalidAmount)
		return
	}

	amount, err := req.ParseAmount()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	wf, err := h.clearing.Begin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	updated, err := h.clearing.Submit(r.Context(), wf, usecase.SubmitPaymentInput{
		PayerMemberID: req.MemberID,
		Amount:        amount,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromExpense(updated))
}

func (h *ExpenseHandler) payments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.expenses.PaymentHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromPayments(payments))
}
