package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/repository"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/keygen"
)

type enroller interface {
	Enroll(ctx context.Context, params repository.EnrollParams) (*models.Enrollment, *models.Payment, error)
	List(ctx context.Context) ([]models.EnrollmentDetail, error)
	ListByMentor(ctx context.Context, mentorID string) ([]models.EnrollmentDetail, error)
	Delete(ctx context.Context, id string) error
}

type enrollmentStudentRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type enrollmentMentorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
}

type enrollmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type enrollmentMetrics interface {
	ObserveEnrollment()
	ObserveReferralConsumption(outcome string)
}

// EnrollmentReceipt bundles the committed enrollment with its payment.
type EnrollmentReceipt struct {
	Enrollment *models.Enrollment `json:"enrollment"`
	Payment    *models.Payment    `json:"payment,omitempty"`
}

// EnrollmentService orchestrates course enrollment. The price is
// snapshotted from the course before the transaction; the repository
// commits the enrollment, the payment and any referral consumption as one
// unit.
type EnrollmentService struct {
	enrollments enroller
	students    enrollmentStudentRepository
	mentors     enrollmentMentorRepository
	courses     enrollmentCourseRepository
	referrals   referralFinder
	metrics     enrollmentMetrics
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(
	enrollments enroller,
	students enrollmentStudentRepository,
	mentors enrollmentMentorRepository,
	courses enrollmentCourseRepository,
	referrals referralFinder,
	metrics enrollmentMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		mentors:     mentors,
		courses:     courses,
		referrals:   referrals,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Enroll admits the acting student into a course with a simulated payment
// capture. The charged amount is the course's effective price at this
// moment and is never recomputed afterwards.
func (s *EnrollmentService) Enroll(ctx context.Context, userID string, req models.EnrollRequest) (*EnrollmentReceipt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

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

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if !course.Active {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	price := course.EffectivePrice()
	payment := buildPaymentParams(req, price)

	enrollment, paid, err := s.enrollments.Enroll(ctx, repository.EnrollParams{
		StudentID:    student.ID,
		CourseID:     course.ID,
		MentorID:     mentor.ID,
		VendorID:     mentor.VendorID,
		PricePaid:    price,
		ReferralCode: req.ReferralCode,
		Payment:      payment,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEnrollment):
			return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
		case errors.Is(err, repository.ErrReferralNotUsable):
			classified := classifyReferral(ctx, s.referrals, req.ReferralCode)
			s.observeReferralFailure(classified)
			return nil, classified
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveEnrollment()
		if req.ReferralCode != "" {
			s.metrics.ObserveReferralConsumption(ReferralOutcomeOK)
		}
	}

	s.logger.Info("student enrolled",
		zap.String("student_id", student.ID),
		zap.String("course_id", course.ID),
		zap.Float64("price_paid", price))
	return &EnrollmentReceipt{Enrollment: enrollment, Payment: paid}, nil
}

// List returns all enrollments for admin review.
func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.enrollments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// ListByMentor returns the acting mentor's enrollments.
func (s *EnrollmentService) ListByMentor(ctx context.Context, mentorID string) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.enrollments.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// Delete removes an enrollment. Admin-only corrective action.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if err := s.enrollments.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}

func (s *EnrollmentService) observeReferralFailure(err error) {
	if s.metrics == nil {
		return
	}
	switch appErrors.FromError(err).Code {
	case appErrors.ErrInactiveCode.Code:
		s.metrics.ObserveReferralConsumption(ReferralOutcomeInactive)
	case appErrors.ErrExpiredCode.Code:
		s.metrics.ObserveReferralConsumption(ReferralOutcomeExpired)
	case appErrors.ErrExhaustedCode.Code:
		s.metrics.ObserveReferralConsumption(ReferralOutcomeExhausted)
	default:
		s.metrics.ObserveReferralConsumption(ReferralOutcomeInvalid)
	}
}

// buildPaymentParams assembles the simulated capture: a generated
// transaction id and masked instrument details. Full card numbers are
// never stored.
func buildPaymentParams(req models.EnrollRequest, amount float64) *repository.PaymentParams {
	params := &repository.PaymentParams{
		Amount:        amount,
		Method:        req.PaymentMethod,
		TransactionID: keygen.TransactionID(),
	}
	switch req.PaymentMethod {
	case models.PaymentMethodCard:
		if n := len(req.CardNumber); n >= 4 {
			last4 := req.CardNumber[n-4:]
			params.CardLast4 = &last4
		}
		if req.CardHolderName != "" {
			holder := req.CardHolderName
			params.CardHolderName = &holder
		}
	case models.PaymentMethodUPI:
		if req.UPIID != "" {
			upi := req.UPIID
			params.UPIID = &upi
		}
	case models.PaymentMethodWallet:
		if req.WalletName != "" {
			wallet := req.WalletName
			params.WalletName = &wallet
		}
	case models.PaymentMethodNetbanking:
		if req.BankName != "" {
			bank := req.BankName
			params.BankName = &bank
		}
	}
	return params
}
