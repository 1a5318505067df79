package httpapi

import (
	"time"

	"passvault/internal/server/models"
	"passvault/internal/server/services"
)

type recordResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Secret      string     `json:"secret"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Starred     bool       `json:"starred"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

type trashedRecordResponse struct {
	recordResponse
	DaysLeft int `json:"daysLeft"`
}

type historyEventResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Summary   string            `json:"summary"`
	Details   map[string]string `json:"details,omitempty"`
}

type userResponse struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
}

func toRecordResponse(r *models.Record) recordResponse {
	return recordResponse{
		ID:          r.ID,
		Email:       r.Email,
		Secret:      r.Secret,
		Description: r.Description,
		Category:    r.Category,
		Starred:     r.Starred,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		DeletedAt:   r.DeletedAt,
	}
}

func toRecordResponses(records []*models.Record) []recordResponse {
	out := make([]recordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordResponse(r))
	}
	return out
}

func toTrashedResponses(records []*services.TrashedRecord) []trashedRecordResponse {
	out := make([]trashedRecordResponse, 0, len(records))
	for _, tr := range records {
		out = append(out, trashedRecordResponse{
			recordResponse: toRecordResponse(tr.Record),
			DaysLeft:       tr.DaysLeft,
		})
	}
	return out
}

func toHistoryResponses(events []*models.HistoryEvent) []historyEventResponse {
	out := make([]historyEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, historyEventResponse{
			ID:        e.ID,
			Type:      string(e.Type),
			Timestamp: e.Timestamp,
			Summary:   e.Summary,
			Details:   e.Details,
		})
	}
	return out
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, UserName: u.UserName}
}
