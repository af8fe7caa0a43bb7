package handlers

import (
	"errors"
	"net/http"

	"github.com/mituwo-320/asket-entry/schedule"
	"github.com/mituwo-320/asket-entry/services"
)

// AdminHandler обслуживает административную панель: сводку, жеребьёвку и группы.
type AdminHandler struct {
	dashboardService services.DashboardService
	lotteryService   services.LotteryService
	groupService     services.GroupService
}

func NewAdminHandler(
	dashboardService services.DashboardService,
	lotteryService services.LotteryService,
	groupService services.GroupService,
) *AdminHandler {
	return &AdminHandler{
		dashboardService: dashboardService,
		lotteryService:   lotteryService,
		groupService:     groupService,
	}
}

func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	overview, err := h.dashboardService.Overview(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"overview": overview}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdminHandler) Lottery(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.lotteryService.Assignments(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"assignments": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type saveGroupsRequest struct {
	TournamentID string                     `json:"tournament_id"`
	Assignments  []schedule.GroupAssignment `json:"assignments"`
}

func (h *AdminHandler) SaveGroups(w http.ResponseWriter, r *http.Request) {
	var input saveGroupsRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.groupService.SaveGroups(r.Context(), input.TournamentID, input.Assignments)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type autoGroupsRequest struct {
	GroupCount int    `json:"group_count"`
	Seed       *int64 `json:"seed,omitempty"`
}

func (h *AdminHandler) AutoAssignGroups(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input autoGroupsRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.GroupCount == 0 {
		badRequestResponse(w, r, errors.New("group_count is required"))
		return
	}

	entries, err := h.groupService.AutoAssign(r.Context(), tournamentID, input.GroupCount, input.Seed)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entries": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
