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
)

type approvalVendorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Vendor, error)
	SetStatus(ctx context.Context, id string, change repository.StatusChange) error
}

type approvalMentorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
	SetStatus(ctx context.Context, id, vendorID string, change repository.StatusChange) error
}

// ApprovalService applies approval state transitions. Vendor transitions
// are admin-only; mentor transitions are scoped to the owning vendor, and
// a mentor under another vendor is reported as not found.
type ApprovalService struct {
	vendors   approvalVendorRepository
	mentors   approvalMentorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApprovalService constructs an ApprovalService instance.
func NewApprovalService(vendors approvalVendorRepository, mentors approvalMentorRepository, validate *validator.Validate, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApprovalService{vendors: vendors, mentors: mentors, validator: validate, logger: logger}
}

// TransitionVendor moves a vendor to the requested status, recording the
// acting admin and, for rejections and suspensions, the reason. Any
// status can be re-entered; no state is terminal.
func (s *ApprovalService) TransitionVendor(ctx context.Context, vendorID, actorID string, status models.ApprovalStatus, req models.ApprovalRequest) (*models.Vendor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval payload")
	}
	change, err := buildStatusChange(status, actorID, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.vendors.SetStatus(ctx, vendorID, change); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "vendor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update vendor status")
	}

	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload vendor")
	}

	s.logger.Info("vendor status changed",
		zap.String("vendor_id", vendorID),
		zap.String("status", string(status)),
		zap.String("actor", actorID))
	return vendor, nil
}

// TransitionMentor moves a mentor to the requested status on behalf of
// its vendor. Cross-tenant ids answer not found, hiding the mentor's
// existence from other vendors.
func (s *ApprovalService) TransitionMentor(ctx context.Context, mentorID, vendorID, actorID string, status models.ApprovalStatus, req models.ApprovalRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval payload")
	}
	change, err := buildStatusChange(status, actorID, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.mentors.SetStatus(ctx, mentorID, vendorID, change); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update mentor status")
	}

	mentor, err := s.mentors.FindByID(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload mentor")
	}

	s.logger.Info("mentor status changed",
		zap.String("mentor_id", mentorID),
		zap.String("vendor_id", vendorID),
		zap.String("status", string(status)),
		zap.String("actor", actorID))
	return mentor, nil
}

func buildStatusChange(status models.ApprovalStatus, actorID, reason string) (repository.StatusChange, error) {
	change := repository.StatusChange{
		Status: status,
		Actor:  actorID,
		At:     time.Now().UTC(),
	}
	switch status {
	case models.StatusApproved:
	case models.StatusRejected, models.StatusSuspended:
		// A reason is always recorded so the transition is auditable even
		// when the actor gave none.
		if reason == "" {
			reason = defaultTransitionReason
		}
		change.Reason = &reason
	default:
		return repository.StatusChange{}, appErrors.Clone(appErrors.ErrValidation, "unsupported status transition")
	}
	return change, nil
}

const defaultTransitionReason = "no reason provided"
