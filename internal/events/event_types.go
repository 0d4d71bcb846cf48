package events

import (
	"time"

	"github.com/gramseva/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered           EventType = "user_registered"
	EventComplaintCreated         EventType = "complaint_created"
	EventComplaintStatusChanged   EventType = "complaint_status_changed"
	EventComplaintApprovalChanged EventType = "complaint_approval_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	ComplaintID string                   `json:"complaint_id"`
	Category    domain.ComplaintCategory `json:"category"`
	Address     string                   `json:"address"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	ComplaintID string                 `json:"complaint_id"`
	OldStatus   domain.ComplaintStatus `json:"old_status"`
	NewStatus   domain.ComplaintStatus `json:"new_status"`
	Comment     string                 `json:"comment,omitempty"`
}

// ComplaintApprovalChangedPayload payload.
type ComplaintApprovalChangedPayload struct {
	ComplaintID string `json:"complaint_id"`
	IsApproved  bool   `json:"is_approved"`
}
