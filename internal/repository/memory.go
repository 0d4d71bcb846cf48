package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gramseva/grievance-service/internal/domain"
)

// MemoryUserRepository is an in-process UserRepository for tests and
// database-less development runs.
type MemoryUserRepository struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewMemoryUserRepository builds an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := NormalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return ErrDuplicateEmail
	}
	user.ID = uuid.NewString()
	user.Email = email
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = *user
	r.byEmail[email] = user.ID
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.byEmail, stored.Email)
	user.Email = NormalizeEmail(user.Email)
	user.UpdatedAt = time.Now()
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := r.byID[id]
	return &user, nil
}

// MemoryComplaintRepository is an in-process ComplaintRepository.
type MemoryComplaintRepository struct {
	mu         sync.Mutex
	complaints map[string]domain.Complaint
	users      *MemoryUserRepository
	seq        int
}

// NewMemoryComplaintRepository builds an empty repository. The user
// repository is consulted for reporter joins; it may be nil when admin
// listings are not exercised.
func NewMemoryComplaintRepository(users *MemoryUserRepository) *MemoryComplaintRepository {
	return &MemoryComplaintRepository{
		complaints: make(map[string]domain.Complaint),
		users:      users,
	}
}

func (r *MemoryComplaintRepository) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint.ID = uuid.NewString()
	r.seq++
	// Monotonic timestamps so newest-first ordering is deterministic even
	// within the same wall-clock tick.
	now := time.Now().Add(time.Duration(r.seq) * time.Microsecond)
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	r.complaints[complaint.ID] = *complaint
	return nil
}

func (r *MemoryComplaintRepository) Update(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.complaints[complaint.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = complaint.Status
	stored.AdminComment = complaint.AdminComment
	stored.IsApproved = complaint.IsApproved
	stored.UpdatedAt = time.Now()
	r.complaints[complaint.ID] = stored
	*complaint = stored
	return nil
}

func (r *MemoryComplaintRepository) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &complaint, nil
}

func (r *MemoryComplaintRepository) ListByUser(_ context.Context, userID string) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for _, c := range r.complaints {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *MemoryComplaintRepository) ListAllWithReporter(ctx context.Context) ([]domain.Complaint, error) {
	r.mu.Lock()
	var result []domain.Complaint
	for _, c := range r.complaints {
		result = append(result, c)
	}
	r.mu.Unlock()

	sortNewestFirst(result)
	if r.users != nil {
		for i := range result {
			if user, err := r.users.GetByID(ctx, result[i].UserID); err == nil {
				result[i].ReporterName = user.Name
				result[i].ReporterMobile = user.Mobile
			}
		}
	}
	return result, nil
}

func (r *MemoryComplaintRepository) ListApproved(_ context.Context, limit int) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for _, c := range r.complaints {
		if c.IsApproved {
			result = append(result, c)
		}
	}
	sortNewestFirst(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func sortNewestFirst(complaints []domain.Complaint) {
	sort.Slice(complaints, func(i, j int) bool {
		return complaints[i].CreatedAt.After(complaints[j].CreatedAt)
	})
}
