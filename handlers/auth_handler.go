package handlers

import (
	"errors"
	"net/http"

	"github.com/mituwo-320/asket-entry/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login godoc
// @Summary  Вход администратора по общему паролю
// @Tags     admin
// @Accept   json
// @Produce  json
// @Router   /api/admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": session.Token, "expires_at": session.ExpiresAt}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
