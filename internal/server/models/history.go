package models

import "time"

// EventType enumerates every action the activity log records.
type EventType string

const (
	EventLogin           EventType = "login"
	EventLogout          EventType = "logout"
	EventRegister        EventType = "register"
	EventRecordCreate    EventType = "record:create"
	EventRecordUpdate    EventType = "record:update"
	EventRecordDelete    EventType = "record:delete"
	EventRecordRestore   EventType = "record:restore"
	EventRecordStar      EventType = "record:toggleStar"
	EventTrashEmpty      EventType = "trash:empty"
	EventTrashAutoDelete EventType = "trash:autoDelete"
)

// HistoryEvent is one append-only journal entry. Events are never mutated
// after append; the journal as a whole is truncated to the newest entries
// when it overflows.
type HistoryEvent struct {
	ID        string
	OwnerID   string
	Type      EventType
	Timestamp time.Time
	Summary   string
	Details   map[string]string
}
