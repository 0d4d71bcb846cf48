package dto

import (
	"time"

	"github.com/gramseva/grievance-service/internal/domain"
)

// CreateComplaintRequest payload. Some clients send the address label as
// location_text; address wins when both are present.
type CreateComplaintRequest struct {
	Category     domain.ComplaintCategory `json:"category"`
	Description  string                   `json:"description"`
	Image        string                   `json:"image"`
	Latitude     float64                  `json:"latitude"`
	Longitude    float64                  `json:"longitude"`
	Address      string                   `json:"address"`
	LocationText string                   `json:"location_text"`
}

// ResolvedAddress returns the address, falling back to the location label.
func (r CreateComplaintRequest) ResolvedAddress() string {
	if r.Address != "" {
		return r.Address
	}
	return r.LocationText
}

// UpdateComplaintRequest is a partial admin update; absent fields stay unchanged.
type UpdateComplaintRequest struct {
	Status       *domain.ComplaintStatus `json:"status"`
	AdminComment *string                 `json:"admin_comment"`
	IsApproved   *bool                   `json:"is_approved"`
}

// ComplaintResponse is the owner/admin view of a complaint.
type ComplaintResponse struct {
	ID             string                   `json:"id"`
	UserID         string                   `json:"user_id"`
	Category       domain.ComplaintCategory `json:"category"`
	Description    string                   `json:"description"`
	Image          string                   `json:"image"`
	Latitude       float64                  `json:"latitude"`
	Longitude      float64                  `json:"longitude"`
	Address        string                   `json:"address"`
	Status         domain.ComplaintStatus   `json:"status"`
	AdminComment   string                   `json:"admin_comment"`
	IsApproved     bool                     `json:"is_approved"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
	ReporterName   string                   `json:"reporter_name,omitempty"`
	ReporterMobile string                   `json:"reporter_mobile,omitempty"`
}

// NewComplaintResponse projects a complaint for its owner or an admin.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:             c.ID,
		UserID:         c.UserID,
		Category:       c.Category,
		Description:    c.Description,
		Image:          c.ImageURL,
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		Address:        c.Address,
		Status:         c.Status,
		AdminComment:   c.AdminComment,
		IsApproved:     c.IsApproved,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		ReporterName:   c.ReporterName,
		ReporterMobile: c.ReporterMobile,
	}
}
