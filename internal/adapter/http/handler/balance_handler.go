package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/splitclear/internal/adapter/http/dto"
	"github.com/iho/splitclear/internal/usecase"
)

// BalanceHandler serves the per-member settlement summary.
type BalanceHandler struct {
	balances *usecase.BalanceUseCase
	logger   zerolog.Logger
}

func NewBalanceHandler(balances *usecase.BalanceUseCase, logger zerolog.Logger) *BalanceHandler {
	return &BalanceHandler{balances: balances, logger: logger}
}

func (h *BalanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	balances, err := h.balances.MemberBalances(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromBalances(balances))
}
