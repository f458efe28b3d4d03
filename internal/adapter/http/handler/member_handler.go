package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/splitclear/internal/adapter/http/dto"
	"github.com/iho/splitclear/internal/domain"
	"github.com/iho/splitclear/internal/usecase"
)

type MemberHandler struct {
	members *usecase.MemberUseCase
	logger  zerolog.Logger
}

func NewMemberHandler(members *usecase.MemberUseCase, logger zerolog.Logger) *MemberHandler {
	return &MemberHandler{members: members, logger: logger}
}

func (h *MemberHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

func (h *MemberHandler) list(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.ListMembers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromMembers(members))
}

func (h *MemberHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMemberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, domain.ErrInvalidMemberName)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.logger, err)
		return
	}

	member, err := h.members.CreateMember(r.Context(), req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.FromMember(member))
}
