package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type courseCatalogRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	ListAvailable(ctx context.Context, vendorID, studentID string) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

type courseStudentRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type courseMentorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
}

// CourseService manages the catalog. Mutations are admin-only; students
// see the availability view scoped to their tenant.
type CourseService struct {
	courses   courseCatalogRepository
	students  courseStudentRepository
	mentors   courseMentorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courses courseCatalogRepository, students courseStudentRepository, mentors courseMentorRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{courses: courses, students: students, mentors: mentors, validator: validate, logger: logger}
}

// Create adds a catalog entry.
func (s *CourseService) Create(ctx context.Context, req models.CourseRequest) (*models.Course, error) {
	if err := s.validateCourse(req); err != nil {
		return nil, err
	}
	course := courseFromRequest(req)
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("title", course.Title))
	return course, nil
}

// Get returns one course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// List returns the full catalog for admin review.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Available returns the active courses the acting student can enroll in:
// the tenant's catalog plus platform-wide courses, minus those already
// taken.
func (s *CourseService) Available(ctx context.Context, userID string) ([]models.Course, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	mentor, err := s.mentors.FindByID(ctx, student.MentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	courses, err := s.courses.ListAvailable(ctx, mentor.VendorID, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Update replaces a course's mutable fields.
func (s *CourseService) Update(ctx context.Context, id string, req models.CourseRequest) (*models.Course, error) {
	if err := s.validateCourse(req); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	course := courseFromRequest(req)
	course.ID = existing.ID
	course.CreatedAt = existing.CreatedAt
	if err := s.courses.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a catalog entry.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}

func (s *CourseService) validateCourse(req models.CourseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}
	if req.DiscountPrice != nil && *req.DiscountPrice > req.Price {
		return appErrors.Clone(appErrors.ErrValidation, "discount exceeds list price")
	}
	return nil
}

func courseFromRequest(req models.CourseRequest) *models.Course {
	return &models.Course{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Level:         req.Level,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Duration:      req.Duration,
		MaxStudents:   req.MaxStudents,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		VendorID:      req.VendorID,
		Active:        req.Active,
		UpdatedAt:     time.Now().UTC(),
	}
}
