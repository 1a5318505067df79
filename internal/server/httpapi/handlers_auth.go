package httpapi

import (
	"encoding/json"
	"net/http"
)

type credentialsRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request"})
		return
	}

	user, err := h.users.Register(r.Context(), req.UserName, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.UsersCreated.Inc()
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request"})
		return
	}

	token, user, err := h.users.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.users.Logout(r.Context(), userID(r.Context()))
	writeJSON(w, http.StatusNoContent, nil)
}
