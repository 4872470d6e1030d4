package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type studentDirectoryRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	EnrolledCourses(ctx context.Context, studentID string) ([]models.StudentCourse, error)
}

// StudentProfile is the acting student's profile with their course list.
type StudentProfile struct {
	Student *models.Student        `json:"student"`
	Courses []models.StudentCourse `json:"courses"`
}

// StudentService serves the student-facing profile view.
type StudentService struct {
	students studentDirectoryRepository
	logger   *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students studentDirectoryRepository, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, logger: logger}
}

// Profile returns the student bound to the acting identity with the
// courses they are enrolled in.
func (s *StudentService) Profile(ctx context.Context, userID string) (*StudentProfile, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	courses, err := s.students.EnrolledCourses(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled courses")
	}
	return &StudentProfile{Student: student, Courses: courses}, nil
}
