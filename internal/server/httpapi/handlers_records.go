package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"passvault/internal/query"
	"passvault/internal/server/services"
)

type createRecordRequest struct {
	Email       string `json:"email"`
	Secret      string `json:"secret"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Starred     bool   `json:"starred"`
}

type updateRecordRequest struct {
	Email       *string `json:"email"`
	Secret      *string `json:"secret"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// handleListRecords returns the active set filtered and ordered by the
// query string. With no parameters the whole active set comes back in its
// stored order.
func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	owner := userID(r.Context())

	records, err := h.records.ListActive(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_query"})
		return
	}

	writeJSON(w, http.StatusOK, toRecordResponses(query.View(records, criteria)))
}

// criteriaFromQuery decodes the filter parameters. Timestamps accept
// RFC 3339 or a bare date.
func criteriaFromQuery(r *http.Request) (query.Criteria, error) {
	q := r.URL.Query()

	c := query.Criteria{
		FreeText:       q.Get("q"),
		Domains:        q["domain"],
		Categories:     q["category"],
		HasDescription: q.Get("has_description") == "true",
		StarredOnly:    q.Get("starred") == "true",
	}
	if s := q.Get("sort"); s != "" {
		c.SortBy = query.ParseSort(s)
	}

	var err error
	if c.CreatedFrom, err = parseTimeParam(q.Get("created_from")); err != nil {
		return c, err
	}
	if c.CreatedTo, err = parseTimeParam(q.Get("created_to")); err != nil {
		return c, err
	}
	return c, nil
}

func parseTimeParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, strconv.ErrSyntax
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.Get(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request"})
		return
	}

	rec, err := h.records.Create(r.Context(), userID(r.Context()), services.CreateRecordInput{
		Email:       req.Email,
		Secret:      req.Secret,
		Description: req.Description,
		Category:    req.Category,
		Starred:     req.Starred,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.metrics.RecordsCreated.Inc()
	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

func (h *Handler) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request"})
		return
	}

	rec, err := h.records.Update(r.Context(), userID(r.Context()), chi.URLParam(r, "id"),
		services.UpdateRecordInput{
			Email:       req.Email,
			Secret:      req.Secret,
			Description: req.Description,
			Category:    req.Category,
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *Handler) handleTrashRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.SoftDelete(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.RecordsTrashed.Inc()
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *Handler) handleToggleStar(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.ToggleStar(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}
