package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gramseva/grievance-service/internal/domain"
	"github.com/gramseva/grievance-service/internal/events"
	"github.com/gramseva/grievance-service/internal/repository"
	apperrors "github.com/gramseva/grievance-service/pkg/util"
)

// FeedLimit caps the public feed size.
const FeedLimit = 20

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	Category    domain.ComplaintCategory
	Description string
	ImageURL    string
	Address     string
	Latitude    float64
	Longitude   float64
}

// ComplaintUpdateInput is a partial admin update; nil fields stay unchanged.
type ComplaintUpdateInput struct {
	Status       *domain.ComplaintStatus
	AdminComment *string
	IsApproved   *bool
}

// ComplaintService coordinates the complaint lifecycle and the approval-gated
// public feed.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// NewComplaintService constructs the service.
func NewComplaintService(complaints repository.ComplaintRepository, dispatcher events.Dispatcher) *ComplaintService {
	return &ComplaintService{complaints: complaints, dispatcher: dispatcher}
}

// Create files a new complaint for the reporting user. Location defaults to
// (0,0) when the client could not provide one.
func (s *ComplaintService) Create(ctx context.Context, reporter *domain.User, input ComplaintCreateInput) (*domain.Complaint, error) {
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	description := strings.TrimSpace(input.Description)
	address := strings.TrimSpace(input.Address)
	imageURL := strings.TrimSpace(input.ImageURL)
	if description == "" || address == "" || imageURL == "" {
		return nil, apperrors.NewValidationError("description, address and image required", nil)
	}

	complaint := &domain.Complaint{
		UserID:      reporter.ID,
		Category:    input.Category,
		Description: description,
		ImageURL:    imageURL,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Address:     address,
		Status:      domain.ComplaintStatusPending,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventComplaintCreated,
		UserID: reporter.ID,
		Payload: events.ComplaintCreatedPayload{
			ComplaintID: complaint.ID,
			Category:    complaint.Category,
			Address:     complaint.Address,
		},
	})
	return complaint, nil
}

// ListMine returns the caller's complaints, newest first.
func (s *ComplaintService) ListMine(ctx context.Context, reporter *domain.User) ([]domain.Complaint, error) {
	return s.complaints.ListByUser(ctx, reporter.ID)
}

// ListAll returns every complaint with reporter name and mobile joined in,
// newest first. Admin only.
func (s *ComplaintService) ListAll(ctx context.Context, actor *domain.User) ([]domain.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	return s.complaints.ListAllWithReporter(ctx)
}

// Update applies a partial status/comment/approval change. Status moves are
// deliberately unconstrained so admins can correct mistakes; a forward-only
// policy would slot in here as a single transition check. Concurrent updates
// are last-write-wins.
func (s *ComplaintService) Update(ctx context.Context, actor *domain.User, id string, input ComplaintUpdateInput) (*domain.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, err
	}

	oldStatus := complaint.Status
	oldApproved := complaint.IsApproved

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		complaint.Status = *input.Status
	}
	if input.AdminComment != nil {
		complaint.AdminComment = *input.AdminComment
	}
	if input.IsApproved != nil {
		complaint.IsApproved = *input.IsApproved
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
		}
		return nil, err
	}

	if complaint.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:   events.EventComplaintStatusChanged,
			UserID: actor.ID,
			Payload: events.ComplaintStatusChangedPayload{
				ComplaintID: complaint.ID,
				OldStatus:   oldStatus,
				NewStatus:   complaint.Status,
				Comment:     complaint.AdminComment,
			},
		})
	}
	if complaint.IsApproved != oldApproved {
		s.publish(ctx, events.Event{
			Type:   events.EventComplaintApprovalChanged,
			UserID: actor.ID,
			Payload: events.ComplaintApprovalChangedPayload{
				ComplaintID: complaint.ID,
				IsApproved:  complaint.IsApproved,
			},
		})
	}
	return complaint, nil
}

// PublicFeed returns approved complaints, newest first, projected through the
// privacy boundary: no reporter identity, no ownership reference.
func (s *ComplaintService) PublicFeed(ctx context.Context, limit int) ([]domain.ComplaintSummary, error) {
	if limit <= 0 || limit > FeedLimit {
		limit = FeedLimit
	}
	complaints, err := s.complaints.ListApproved(ctx, limit)
	if err != nil {
		return nil, err
	}
	feed := make([]domain.ComplaintSummary, 0, len(complaints))
	for i := range complaints {
		feed = append(feed, complaints[i].Summary())
	}
	return feed, nil
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
