package handlers

import (
	"net/http"

	"github.com/mituwo-320/asket-entry/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func (h *ScheduleHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.scheduleService.ListMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Generate перезаписывает все матчи турнира.
// @Summary   Сгенерировать круговое расписание (заменяет текущее)
// @Tags      schedule
// @Produce   json
// @Param     tournamentID path string true "ID турнира"
// @Success   200 {object} services.GenerateOutput
// @Security  BearerAuth
// @Router    /api/admin/tournaments/{tournamentID}/schedule/generate [post]
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GenerateInput
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	out, err := h.scheduleService.Generate(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, out, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Allocate godoc
// @Summary   Распределить матчи по времени и площадкам
// @Tags      schedule
// @Accept    json
// @Produce   json
// @Param     tournamentID path string true "ID турнира"
// @Success   200 {object} services.AllocateOutput
// @Security  BearerAuth
// @Router    /api/admin/tournaments/{tournamentID}/schedule/allocate [post]
func (h *ScheduleHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AllocateInput
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	out, err := h.scheduleService.Allocate(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, out, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var patch services.MatchPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.scheduleService.UpdateMatch(r.Context(), matchID, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
