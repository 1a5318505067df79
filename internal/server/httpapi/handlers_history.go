package httpapi

import (
	"encoding/json"
	"net/http"

	"passvault/internal/passgen"
)

func (h *Handler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	owner := userID(r.Context())

	events, err := h.history.Search(r.Context(), owner, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryResponses(events))
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	n, err := h.history.Clear(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}

type generateRequest struct {
	Length  *int  `json:"length"`
	Upper   *bool `json:"upper"`
	Lower   *bool `json:"lower"`
	Digits  *bool `json:"digits"`
	Symbols *bool `json:"symbols"`
}

// handleGenerate produces a random password. Absent fields keep the
// defaults (16 characters, all classes).
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	opts := passgen.DefaultOptions()

	if r.Body != nil && r.ContentLength != 0 {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request"})
			return
		}
		if req.Length != nil {
			opts.Length = *req.Length
		}
		if req.Upper != nil {
			opts.Upper = *req.Upper
		}
		if req.Lower != nil {
			opts.Lower = *req.Lower
		}
		if req.Digits != nil {
			opts.Digits = *req.Digits
		}
		if req.Symbols != nil {
			opts.Symbols = *req.Symbols
		}
	}

	password, err := passgen.Generate(opts)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"password": password})
}
