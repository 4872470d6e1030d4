package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type mentorDirectoryRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Mentor, error)
	ListByVendor(ctx context.Context, vendorID string) ([]models.MentorDetail, error)
}

type mentorStudentRepository interface {
	ListByMentor(ctx context.Context, mentorID string) ([]models.StudentDetail, error)
	ListByVendor(ctx context.Context, vendorID string) ([]models.StudentDetail, error)
}

// MentorService serves mentor listings and the student rosters hanging off
// the mentor hierarchy.
type MentorService struct {
	mentors  mentorDirectoryRepository
	students mentorStudentRepository
	logger   *zap.Logger
}

// NewMentorService constructs a MentorService instance.
func NewMentorService(mentors mentorDirectoryRepository, students mentorStudentRepository, logger *zap.Logger) *MentorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorService{mentors: mentors, students: students, logger: logger}
}

// Profile returns the mentor bound to the acting identity.
func (s *MentorService) Profile(ctx context.Context, userID string) (*models.Mentor, error) {
	mentor, err := s.mentors.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	return mentor, nil
}

// ListByVendor returns a vendor's mentors with rollup counts.
func (s *MentorService) ListByVendor(ctx context.Context, vendorID string) ([]models.MentorDetail, error) {
	mentors, err := s.mentors.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentors")
	}
	return mentors, nil
}

// StudentsOfMentor returns the acting mentor's student roster.
func (s *MentorService) StudentsOfMentor(ctx context.Context, userID string) ([]models.StudentDetail, error) {
	mentor, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListByMentor(ctx, mentor.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// StudentsOfVendor returns every student under a vendor's mentors.
func (s *MentorService) StudentsOfVendor(ctx context.Context, vendorID string) ([]models.StudentDetail, error) {
	students, err := s.students.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}
