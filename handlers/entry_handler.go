package handlers

import (
	"errors"
	"net/http"

	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/services"
)

type EntryHandler struct {
	entryService services.EntryService
}

func NewEntryHandler(entryService services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// CreateEntry godoc
// @Summary  Регистрация команды
// @Tags     entries
// @Accept   json
// @Produce  json
// @Param    entry body services.EntryInput true "Заявка"
// @Success  201 {object} models.Entry
// @Router   /api/entries [post]
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var input services.EntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.entryService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.entryService.Get(r.Context(), entryID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EntryInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.entryService.Update(r.Context(), entryID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entry": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTournamentEntries поддерживает фильтр ?status=draft|submitted.
func (h *EntryHandler) ListTournamentEntries(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var statusFilter *models.EntryStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.EntryStatus(raw)
		statusFilter = &status
	}

	entries, err := h.entryService.ListByTournament(r.Context(), tournamentID, statusFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entries": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type paymentRequest struct {
	IsPaid *bool `json:"is_paid"`
}

func (h *EntryHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input paymentRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.IsPaid == nil {
		badRequestResponse(w, r, errors.New("is_paid is required"))
		return
	}

	if err := h.entryService.SetPaid(r.Context(), entryID, *input.IsPaid); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entry_id": entryID, "is_paid": *input.IsPaid}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type preliminaryNumberRequest struct {
	PreliminaryNumber *int `json:"preliminary_number"`
}

// SetPreliminaryNumber: null снимает запрошенный номер.
func (h *EntryHandler) SetPreliminaryNumber(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input preliminaryNumberRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.entryService.SetPreliminaryNumber(r.Context(), entryID, input.PreliminaryNumber); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entry_id": entryID, "preliminary_number": input.PreliminaryNumber}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
