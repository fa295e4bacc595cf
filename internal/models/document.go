package models

import (
	"time"

	"gorm.io/datatypes"
)

// Status is the lifecycle stage of a tracked document.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid document status.
var Statuses = []Status{StatusPending, StatusProcessing, StatusCompleted, StatusCancelled}

// allowedTransitions is the status state machine. Re-marking a document as
// processing is permitted (repeat receipt scans happen); the terminal
// statuses completed and cancelled accept nothing.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusProcessing: true,
	},
	StatusProcessing: {
		StatusProcessing: true,
		StatusCompleted:  true,
		StatusCancelled:  true,
	},
}

// CanTransition reports whether a document may move between the two statuses.
func CanTransition(from, to Status) bool {
	return allowedTransitions[from][to]
}

// History actions recorded in the audit trail.
const (
	ActionCreated   = "created"
	ActionReceived  = "received"
	ActionCompleted = "completed"
	ActionCancelled = "cancelled"
	ActionUpdated   = "updated"
	ActionNoteAdded = "note_added"
)

// HistoryEntry is one immutable audit record on a document.
// Entries are append-only and ordered by timestamp.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	StaffName string `json:"staffName,omitempty"`
	OldValue  string `json:"oldValue,omitempty"`
	NewValue  string `json:"newValue,omitempty"`
	Note      string `json:"note,omitempty"`
}

// Document is a tracked work paper moving through departments.
// Date fields are ISO-8601 strings so the persisted shape round-trips
// identically between storage backends.
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (camelCase)
type Document struct {
	ID            string `gorm:"column:document_id;primaryKey" json:"id"`
	SenderName    string `gorm:"column:sender_name;not null" json:"senderName"`
	Department    string `gorm:"column:department;not null;index" json:"department"`
	DocumentType  string `gorm:"column:document_type;not null" json:"documentType"`
	WeekRange     string `gorm:"column:week_range" json:"weekRange"`
	Details       string `gorm:"column:details" json:"details"`
	Status        Status `gorm:"column:status;default:'pending';index" json:"status"`
	SubmittedDate string `gorm:"column:submitted_date;index" json:"submittedDate"`
	ReceivedDate  string `gorm:"column:received_date" json:"receivedDate,omitempty"`
	CompletedDate string `gorm:"column:completed_date" json:"completedDate,omitempty"`
	CancelledDate string `gorm:"column:cancelled_date" json:"cancelledDate,omitempty"`
	CancelReason  string `gorm:"column:cancel_reason" json:"cancelReason,omitempty"`
	StaffNote     string `gorm:"column:staff_note" json:"staffNote,omitempty"`

	History datatypes.JSONSlice[HistoryEntry] `gorm:"column:history;type:jsonb" json:"history"`

	// Version is the optimistic-concurrency token checked on every write.
	// Storage metadata, not part of the wire shape.
	Version int `gorm:"column:version;default:1" json:"-"`
}

// TableName specifies the table name
func (Document) TableName() string {
	return "documents"
}

// CreateDocumentDto carries the fields a submitter provides for a new document.
type CreateDocumentDto struct {
	SenderName   string `json:"senderName"`
	Department   string `json:"department"`
	DocumentType string `json:"documentType"`
	WeekRange    string `json:"weekRange"`
	Details      string `json:"details"`
}

// UpdateStatusDto carries a requested status transition.
type UpdateStatusDto struct {
	Status       Status `json:"status"`
	StaffName    string `json:"staffName,omitempty"`
	Note         string `json:"note,omitempty"`
	CancelReason string `json:"cancelReason,omitempty"`
}

// Timestamp returns the current time in the ISO-8601 form stored on documents.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseTimestamp parses an ISO-8601 document timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
