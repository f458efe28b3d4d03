package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/splitclear/internal/adapter/http/dto"
	"github.com/iho/splitclear/internal/usecase"
)

type DashboardHandler struct {
	dashboard *usecase.DashboardUseCase
	logger    zerolog.Logger
}

func NewDashboardHandler(dashboard *usecase.DashboardUseCase, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromOverview(overview))
}
