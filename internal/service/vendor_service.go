package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type vendorDirectoryRepository interface {
	List(ctx context.Context) ([]models.VendorDetail, error)
	FindByID(ctx context.Context, id string) (*models.Vendor, error)
	FindByUserID(ctx context.Context, userID string) (*models.Vendor, error)
	Update(ctx context.Context, id, companyName, description string) error
	Delete(ctx context.Context, id string) error
}

// VendorService serves the admin vendor directory and the acting vendor's
// own profile.
type VendorService struct {
	vendors   vendorDirectoryRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVendorService constructs a VendorService instance.
func NewVendorService(vendors vendorDirectoryRepository, validate *validator.Validate, logger *zap.Logger) *VendorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &VendorService{vendors: vendors, validator: validate, logger: logger}
}

// List returns all vendors with rollup counts.
func (s *VendorService) List(ctx context.Context) ([]models.VendorDetail, error) {
	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vendors")
	}
	return vendors, nil
}

// Get returns one vendor by id.
func (s *VendorService) Get(ctx context.Context, id string) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "vendor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vendor")
	}
	return vendor, nil
}

// Profile returns the vendor bound to the acting identity.
func (s *VendorService) Profile(ctx context.Context, userID string) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "vendor profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vendor")
	}
	return vendor, nil
}

// Update edits a vendor's descriptive fields.
func (s *VendorService) Update(ctx context.Context, id string, req models.UpdateVendorRequest) (*models.Vendor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vendor payload")
	}
	if err := s.vendors.Update(ctx, id, req.CompanyName, req.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "vendor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update vendor")
	}
	return s.Get(ctx, id)
}

// Delete removes a vendor slot.
func (s *VendorService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.vendors.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete vendor")
	}
	s.logger.Info("vendor deleted", zap.String("vendor_id", id))
	return nil
}
