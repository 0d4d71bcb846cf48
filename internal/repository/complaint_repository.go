package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gramseva/grievance-service/internal/domain"
)

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error)
	ListAllWithReporter(ctx context.Context) ([]domain.Complaint, error)
	ListApproved(ctx context.Context, limit int) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, user_id, category, description, image_url, latitude, longitude,
               address, status, admin_comment, is_approved, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (user_id, category, description, image_url, latitude, longitude, address, status, admin_comment, is_approved)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.UserID,
		complaint.Category,
		complaint.Description,
		complaint.ImageURL,
		complaint.Latitude,
		complaint.Longitude,
		complaint.Address,
		complaint.Status,
		complaint.AdminComment,
		complaint.IsApproved,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

// Update persists the full record; concurrent admin updates are
// last-write-wins, with no optimistic locking.
func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET status=$1, admin_comment=$2, is_approved=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		complaint.Status,
		complaint.AdminComment,
		complaint.IsApproved,
		complaint.ID,
	).Scan(&complaint.UpdatedAt)
	return err
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(complaintFields(&complaint)...); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows, false)
}

func (r *complaintRepository) ListAllWithReporter(ctx context.Context) ([]domain.Complaint, error) {
	const query = `
        SELECT c.id, c.user_id, c.category, c.description, c.image_url, c.latitude, c.longitude,
               c.address, c.status, c.admin_comment, c.is_approved, c.created_at, c.updated_at,
               u.name, u.mobile
        FROM complaints c
        JOIN users u ON u.id = c.user_id
        ORDER BY c.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows, true)
}

func (r *complaintRepository) ListApproved(ctx context.Context, limit int) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE is_approved ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows, false)
}

func complaintFields(c *domain.Complaint) []any {
	return []any{
		&c.ID,
		&c.UserID,
		&c.Category,
		&c.Description,
		&c.ImageURL,
		&c.Latitude,
		&c.Longitude,
		&c.Address,
		&c.Status,
		&c.AdminComment,
		&c.IsApproved,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
}

func scanComplaints(rows pgx.Rows, withReporter bool) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		fields := complaintFields(&complaint)
		if withReporter {
			fields = append(fields, &complaint.ReporterName, &complaint.ReporterMobile)
		}
		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
