package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

// Valid reports whether the status is a known value.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// ComplaintCategory is the closed set of reportable issue types.
type ComplaintCategory string

const (
	CategoryRoad        ComplaintCategory = "Road"
	CategoryWater       ComplaintCategory = "Water"
	CategoryElectricity ComplaintCategory = "Electricity"
	CategorySanitation  ComplaintCategory = "Sanitation"
	CategoryOther       ComplaintCategory = "Other"
)

// Valid reports whether the category is a known value.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryRoad, CategoryWater, CategoryElectricity, CategorySanitation, CategoryOther:
		return true
	}
	return false
}

// Complaint is the aggregate for reported civic issues. Status and IsApproved
// are orthogonal: approval alone decides public-feed visibility.
type Complaint struct {
	ID           string
	UserID       string
	Category     ComplaintCategory
	Description  string
	ImageURL     string
	Latitude     float64
	Longitude    float64
	Address      string
	Status       ComplaintStatus
	AdminComment string
	IsApproved   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined in for admin listings only.
	ReporterName   string
	ReporterMobile string
}

// ComplaintSummary is the privacy-filtered public-feed projection. It must
// never carry reporter identity or the owning user reference.
type ComplaintSummary struct {
	ID          string            `json:"id"`
	Category    ComplaintCategory `json:"category"`
	Description string            `json:"description"`
	ImageURL    string            `json:"image"`
	Address     string            `json:"address"`
	Status      ComplaintStatus   `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Summary projects the complaint onto its public representation.
func (c *Complaint) Summary() ComplaintSummary {
	return ComplaintSummary{
		ID:          c.ID,
		Category:    c.Category,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Address:     c.Address,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
