package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/repository"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/keygen"
)

type referralCodeRepository interface {
	Create(ctx context.Context, code *models.ReferralCode, maxActive int) error
	CodeExists(ctx context.Context, code string) (bool, error)
	FindByCode(ctx context.Context, code string) (*models.ReferralCode, error)
	ListByMentor(ctx context.Context, mentorID string) ([]models.ReferralCode, error)
	Deactivate(ctx context.Context, id, mentorID string) error
}

type referralMentorRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Mentor, error)
}

type referralUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type referralVendorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Vendor, error)
}

// ReferralService manages mentor referral codes: creation under the
// active-code cap, listing, one-way deactivation and public usability
// checks.
type ReferralService struct {
	referrals referralCodeRepository
	mentors   referralMentorRepository
	users     referralUserRepository
	vendors   referralVendorRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    OnboardingConfig
}

// NewReferralService constructs a ReferralService instance.
func NewReferralService(referrals referralCodeRepository, mentors referralMentorRepository, users referralUserRepository, vendors referralVendorRepository, validate *validator.Validate, logger *zap.Logger, config OnboardingConfig) *ReferralService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReferralService{
		referrals: referrals,
		mentors:   mentors,
		users:     users,
		vendors:   vendors,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// CreateCode opens a new referral code for the acting mentor. Only
// approved mentors may create codes, and the store enforces the
// active-code cap atomically, so concurrent creations cannot exceed it.
func (s *ReferralService) CreateCode(ctx context.Context, userID string, req models.CreateReferralCodeRequest) (*models.ReferralCode, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid referral code payload")
	}

	mentor, err := s.resolveMentor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if mentor.Status != models.StatusApproved {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "mentor is not approved")
	}

	name := ""
	if user, err := s.users.FindByID(ctx, userID); err == nil {
		name = user.FullName
	}

	codeStr, err := keygen.Unique(ctx, s.config.KeygenMaxAttempts, func() string {
		return keygen.ReferralCode(name, mentor.ID)
	}, s.referrals.CodeExists)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	code := &models.ReferralCode{
		Code:     codeStr,
		VendorID: mentor.VendorID,
		MentorID: &mentor.ID,
		Active:   true,
	}
	if req.MaxUsage > 0 {
		maxUsage := req.MaxUsage
		code.MaxUsage = &maxUsage
	}
	if req.ExpiresAt != nil {
		if req.ExpiresAt.Before(time.Now().UTC()) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "expiry must be in the future")
		}
		code.ExpiresAt = req.ExpiresAt
	}

	if err := s.referrals.Create(ctx, code, s.config.MaxActiveCodes); err != nil {
		if errors.Is(err, repository.ErrActiveCodeLimit) {
			return nil, appErrors.Clone(appErrors.ErrLimitReached, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create referral code")
	}

	s.logger.Info("referral code created",
		zap.String("mentor_id", mentor.ID),
		zap.String("code", code.Code))
	return code, nil
}

// CreateVendorCode opens a vendor-scoped code for an admin. These codes
// have no referring mentor and are not counted against any mentor's
// active-code cap.
func (s *ReferralService) CreateVendorCode(ctx context.Context, req models.CreateVendorCodeRequest) (*models.ReferralCode, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid referral code payload")
	}

	vendor, err := s.vendors.FindByID(ctx, req.VendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "vendor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vendor")
	}

	codeStr, err := keygen.Unique(ctx, s.config.KeygenMaxAttempts, func() string {
		return keygen.ReferralCode(vendor.CompanyName, vendor.ID)
	}, s.referrals.CodeExists)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	code := &models.ReferralCode{
		Code:     codeStr,
		VendorID: vendor.ID,
		Active:   true,
	}
	if req.MaxUsage > 0 {
		maxUsage := req.MaxUsage
		code.MaxUsage = &maxUsage
	}
	if req.ExpiresAt != nil {
		if req.ExpiresAt.Before(time.Now().UTC()) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "expiry must be in the future")
		}
		code.ExpiresAt = req.ExpiresAt
	}

	if err := s.referrals.Create(ctx, code, 0); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create referral code")
	}

	s.logger.Info("vendor referral code created",
		zap.String("vendor_id", vendor.ID),
		zap.String("code", code.Code))
	return code, nil
}

// ListCodes returns the acting mentor's codes, newest first.
func (s *ReferralService) ListCodes(ctx context.Context, userID string) ([]models.ReferralCode, error) {
	mentor, err := s.resolveMentor(ctx, userID)
	if err != nil {
		return nil, err
	}
	codes, err := s.referrals.ListByMentor(ctx, mentor.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list referral codes")
	}
	return codes, nil
}

// DeactivateCode flips one of the acting mentor's codes inactive. The
// flip is permanent; a deactivated code is never reactivated.
func (s *ReferralService) DeactivateCode(ctx context.Context, userID, codeID string) error {
	mentor, err := s.resolveMentor(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.referrals.Deactivate(ctx, codeID, mentor.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "referral code not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate referral code")
	}
	s.logger.Info("referral code deactivated",
		zap.String("mentor_id", mentor.ID),
		zap.String("code_id", codeID))
	return nil
}

// Check reports whether a code is currently usable, returning the code on
// success and the precise failure kind otherwise. Checking does not
// consume a use.
func (s *ReferralService) Check(ctx context.Context, code string) (*models.ReferralCode, error) {
	rc, err := s.referrals.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCode, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect referral code")
	}
	if err := referralUsabilityError(rc); err != nil {
		return nil, err
	}
	return rc, nil
}

func (s *ReferralService) resolveMentor(ctx context.Context, userID string) (*models.Mentor, error) {
	mentor, err := s.mentors.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	return mentor, nil
}
