package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListTrash triggers the retention sweep as a side effect: records
// past their 30 days are purged before the listing is built.
func (h *Handler) handleListTrash(w http.ResponseWriter, r *http.Request) {
	trashed, err := h.records.ListTrash(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrashedResponses(trashed))
}

func (h *Handler) handleRestoreRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.records.Restore(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (h *Handler) handlePurgeRecord(w http.ResponseWriter, r *http.Request) {
	removed, err := h.records.Purge(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if removed {
		h.metrics.RecordsPurged.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *Handler) handleEmptyTrash(w http.ResponseWriter, r *http.Request) {
	n, err := h.records.EmptyTrash(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.RecordsPurged.Add(float64(n))
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (h *Handler) handleRestoreAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.records.RestoreAll(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"restored": n})
}
