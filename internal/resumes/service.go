package resumes

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resumeforge/internal/database"
)

var (
	// ErrUnknownAccount is returned when the owner username has no account.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrNotFound is returned when no resume has the requested id.
	ErrNotFound = errors.New("resume not found")
	// ErrNotFoundOrForbidden is returned when the resume is absent or owned
	// by someone else. Callers must not distinguish the two cases.
	ErrNotFoundOrForbidden = errors.New("resume not found or not yours")
)

// Fields carries the user-authored content of a resume.
type Fields struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	Education  string
	Experience string
	Skills     string
	Template   string
	About      string
}

// Service implements resume CRUD with ownership checks.
type Service struct {
	db *gorm.DB
}

// NewService constructs a resume service over the given store.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create inserts a resume owned by ownerUsername and returns its id.
func (s *Service) Create(ctx context.Context, ownerUsername string, fields Fields) (uint, error) {
	owner, err := s.resolveOwner(ctx, ownerUsername)
	if err != nil {
		return 0, err
	}

	resume := database.Resume{
		UserID:     owner.ID,
		Name:       fields.Name,
		Email:      fields.Email,
		Phone:      fields.Phone,
		Address:    fields.Address,
		Education:  fields.Education,
		Experience: fields.Experience,
		Skills:     fields.Skills,
		Template:   fields.Template,
		About:      fields.About,
	}
	if err := s.db.WithContext(ctx).Create(&resume).Error; err != nil {
		return 0, fmt.Errorf("create resume: %w", err)
	}

	return resume.ID, nil
}

// ListByOwner returns all resumes owned by ownerUsername in insertion order.
func (s *Service) ListByOwner(ctx context.Context, ownerUsername string) ([]database.Resume, error) {
	owner, err := s.resolveOwner(ctx, ownerUsername)
	if err != nil {
		return nil, err
	}

	var resumes []database.Resume
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", owner.ID).
		Order("id ASC").
		Find(&resumes).Error; err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	return resumes, nil
}

// FetchByID looks a resume up by primary key. No ownership check: direct
// view and export links are shareable.
func (s *Service) FetchByID(ctx context.Context, id uint) (*database.Resume, error) {
	var resume database.Resume
	if err := s.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch resume: %w", err)
	}
	return &resume, nil
}

// Delete removes a resume after verifying it belongs to ownerUsername.
func (s *Service) Delete(ctx context.Context, ownerUsername string, id uint) error {
	owner, err := s.resolveOwner(ctx, ownerUsername)
	if err != nil {
		return err
	}

	var resume database.Resume
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner.ID).
		First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFoundOrForbidden
		}
		return fmt.Errorf("fetch resume: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&database.Resume{}, resume.ID).Error; err != nil {
		return fmt.Errorf("delete resume: %w", err)
	}

	return nil
}

func (s *Service) resolveOwner(ctx context.Context, username string) (*database.User, error) {
	var owner database.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, fmt.Errorf("resolve owner: %w", err)
	}
	return &owner, nil
}
