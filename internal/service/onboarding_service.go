package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/repository"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/keygen"
)

type onboardingUserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type onboardingVendorRepository interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	FindByKey(ctx context.Context, vendorKey string) (*models.Vendor, error)
	KeyExists(ctx context.Context, vendorKey string) (bool, error)
	Claim(ctx context.Context, id, userID string) error
	SetStatus(ctx context.Context, id string, change repository.StatusChange) error
}

type onboardingMentorRepository interface {
	Create(ctx context.Context, mentor *models.Mentor) error
	FindByKey(ctx context.Context, mentorKey string) (*models.Mentor, error)
	KeyExists(ctx context.Context, mentorKey string) (bool, error)
	Claim(ctx context.Context, id, userID, specialization, bio string) error
	SetStatus(ctx context.Context, id, vendorID string, change repository.StatusChange) error
}

type onboardingReferralRepository interface {
	Create(ctx context.Context, code *models.ReferralCode, maxActive int) error
	CodeExists(ctx context.Context, code string) (bool, error)
	FindByCode(ctx context.Context, code string) (*models.ReferralCode, error)
}

type studentRegistrar interface {
	Register(ctx context.Context, user *models.User, student *models.Student) error
}

type otpIssuer interface {
	IssueOTP(ctx context.Context, email string) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
}

// DefaultVendorResolver picks the tenant for a keyless mentor
// registration. The production resolver returns the oldest approved
// vendor; deployments with different routing rules plug in their own.
type DefaultVendorResolver interface {
	DefaultVendor(ctx context.Context) (*models.Vendor, error)
}

// FirstApprovedResolver resolves the default tenant to the oldest
// APPROVED vendor, creating a system-owned one on first use so keyless
// mentor registration works on a fresh deployment.
type FirstApprovedResolver struct {
	Vendors interface {
		FirstApproved(ctx context.Context) (*models.Vendor, error)
		Create(ctx context.Context, vendor *models.Vendor) error
		KeyExists(ctx context.Context, vendorKey string) (bool, error)
	}
	MaxAttempts int
}

// SystemVendorName is the company name of the bootstrapped default tenant.
const SystemVendorName = "Mentora Platform"

// DefaultVendor implements DefaultVendorResolver.
func (r FirstApprovedResolver) DefaultVendor(ctx context.Context) (*models.Vendor, error) {
	vendor, err := r.Vendors.FirstApproved(ctx)
	if err == nil {
		return vendor, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	key, err := keygen.Unique(ctx, r.MaxAttempts, keygen.VendorKey, r.Vendors.KeyExists)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	actor := models.SystemActor
	vendor = &models.Vendor{
		ID:          uuid.NewString(),
		VendorKey:   key,
		CompanyName: SystemVendorName,
		Status:      models.StatusApproved,
		CreatedBy:   actor,
		ApprovedBy:  &actor,
		ApprovedAt:  &now,
		CreatedAt:   now,
	}
	if err := r.Vendors.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

// OnboardingConfig tunes slot creation and registration.
type OnboardingConfig struct {
	VendorKeyTTL          time.Duration
	KeygenMaxAttempts     int
	VendorReferralMaxUses int
	MaxActiveCodes        int
}

// OnboardingService implements the key and referral onboarding flows:
// admins open vendor slots, vendors open mentor slots, and the three
// registration endpoints claim slots or consume referral codes.
type OnboardingService struct {
	users     onboardingUserRepository
	vendors   onboardingVendorRepository
	mentors   onboardingMentorRepository
	referrals onboardingReferralRepository
	students  studentRegistrar
	resolver  DefaultVendorResolver
	otps      otpIssuer
	hasher    passwordHasher
	validator *validator.Validate
	logger    *zap.Logger
	config    OnboardingConfig
}

// NewOnboardingService constructs an OnboardingService instance.
func NewOnboardingService(
	users onboardingUserRepository,
	vendors onboardingVendorRepository,
	mentors onboardingMentorRepository,
	referrals onboardingReferralRepository,
	students studentRegistrar,
	resolver DefaultVendorResolver,
	otps otpIssuer,
	hasher passwordHasher,
	validate *validator.Validate,
	logger *zap.Logger,
	config OnboardingConfig,
) *OnboardingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &OnboardingService{
		users:     users,
		vendors:   vendors,
		mentors:   mentors,
		referrals: referrals,
		students:  students,
		resolver:  resolver,
		otps:      otps,
		hasher:    hasher,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// CreatedVendor bundles the new slot with its default referral code.
type CreatedVendor struct {
	Vendor       *models.Vendor       `json:"vendor"`
	ReferralCode *models.ReferralCode `json:"referral_code"`
}

// CreateVendor opens a vendor slot: a unique registration key with a
// validity window, plus a vendor-scoped default referral code.
func (s *OnboardingService) CreateVendor(ctx context.Context, actorID string, req models.CreateVendorRequest) (*CreatedVendor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vendor payload")
	}

	key, err := keygen.Unique(ctx, s.config.KeygenMaxAttempts, keygen.VendorKey, s.vendors.KeyExists)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.config.VendorKeyTTL)
	vendor := &models.Vendor{
		ID:          uuid.NewString(),
		VendorKey:   key,
		CompanyName: req.CompanyName,
		Description: req.Description,
		Status:      models.StatusPending,
		CreatedBy:   actorID,
		ExpiresAt:   &expiresAt,
		CreatedAt:   now,
	}
	if err := s.vendors.Create(ctx, vendor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create vendor")
	}

	codeStr, err := keygen.Unique(ctx, s.config.KeygenMaxAttempts, func() string {
		return keygen.ReferralCode(req.CompanyName, vendor.ID)
	}, s.referrals.CodeExists)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	maxUsage := s.config.VendorReferralMaxUses
	referral := &models.ReferralCode{
		Code:       codeStr,
		VendorID:   vendor.ID,
		Active:     true,
		UsageCount: 0,
		MaxUsage:   &maxUsage,
	}
	if err := s.referrals.Create(ctx, referral, 0); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create default referral code")
	}

	s.logger.Info("vendor slot opened",
		zap.String("vendor_id", vendor.ID),
		zap.String("company", vendor.CompanyName),
		zap.Time("key_expires_at", expiresAt))
	return &CreatedVendor{Vendor: vendor, ReferralCode: referral}, nil
}

// CreateMentor opens a mentor slot under the acting vendor. Mentor keys
// carry no expiry window.
func (s *OnboardingService) CreateMentor(ctx context.Context, vendorID, actorID string, req models.CreateMentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor payload")
	}

	key, err := keygen.Unique(ctx, s.config.KeygenMaxAttempts, keygen.MentorKey, s.mentors.KeyExists)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	mentor := &models.Mentor{
		ID:             uuid.NewString(),
		MentorKey:      key,
		VendorID:       vendorID,
		Specialization: req.Specialization,
		Bio:            req.Bio,
		Status:         models.StatusPending,
		CreatedBy:      actorID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.mentors.Create(ctx, mentor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mentor")
	}

	s.logger.Info("mentor slot opened",
		zap.String("mentor_id", mentor.ID),
		zap.String("vendor_id", vendorID))
	return mentor, nil
}

// RegisterVendor registers a vendor. With a key, the slot is claimed and
// auto-approved: the key must be unclaimed and inside its validity window.
// Without one, a brand-new PENDING slot is opened owned by the registrant
// and waits for admin review.
func (s *OnboardingService) RegisterVendor(ctx context.Context, req models.RegisterVendorRequest) (*models.Vendor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	if req.VendorKey != "" {
		return s.registerVendorWithKey(ctx, req)
	}
	return s.registerVendorKeyless(ctx, req)
}

func (s *OnboardingService) registerVendorWithKey(ctx context.Context, req models.RegisterVendorRequest) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByKey(ctx, req.VendorKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invalid vendor key")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch vendor")
	}
	if vendor.Claimed() {
		return nil, appErrors.Clone(appErrors.ErrAlreadyClaimed, "")
	}
	if vendor.KeyExpired(time.Now().UTC()) {
		return nil, appErrors.Clone(appErrors.ErrKeyExpired, "vendor key has expired")
	}

	user, err := s.createIdentity(ctx, req.Email, req.Password, req.FullName, req.Phone, models.RoleVendor)
	if err != nil {
		return nil, err
	}

	if err := s.vendors.Claim(ctx, vendor.ID, user.ID); err != nil {
		s.cleanupIdentity(ctx, user.ID)
		if errors.Is(err, repository.ErrSlotClaimed) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyClaimed, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to claim vendor slot")
	}

	change := repository.StatusChange{
		Status: models.StatusApproved,
		Actor:  models.SystemActor,
		At:     time.Now().UTC(),
	}
	if err := s.vendors.SetStatus(ctx, vendor.ID, change); err != nil {
		s.logger.Warn("vendor auto-approval failed", zap.String("vendor_id", vendor.ID), zap.Error(err))
	} else {
		vendor.Status = models.StatusApproved
		vendor.ApprovedBy = &change.Actor
		vendor.ApprovedAt = &change.At
	}
	vendor.UserID = &user.ID

	if err := s.otps.IssueOTP(ctx, user.Email); err != nil {
		s.logger.Warn("otp issuance failed", zap.String("email", user.Email), zap.Error(err))
	}

	s.logger.Info("vendor registered",
		zap.String("vendor_id", vendor.ID),
		zap.String("user_id", user.ID))
	return vendor, nil
}

func (s *OnboardingService) registerVendorKeyless(ctx context.Context, req models.RegisterVendorRequest) (*models.Vendor, error) {
	key, err := keygen.Unique(ctx, s.config.KeygenMaxAttempts, keygen.VendorKey, s.vendors.KeyExists)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	user, err := s.createIdentity(ctx, req.Email, req.Password, req.FullName, req.Phone, models.RoleVendor)
	if err != nil {
		return nil, err
	}

	companyName := req.CompanyName
	if companyName == "" {
		companyName = req.FullName + "'s organization"
	}
	vendor := &models.Vendor{
		ID:          uuid.NewString(),
		VendorKey:   key,
		CompanyName: companyName,
		Description: req.Description,
		UserID:      &user.ID,
		Status:      models.StatusPending,
		CreatedBy:   user.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.vendors.Create(ctx, vendor); err != nil {
		s.cleanupIdentity(ctx, user.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create vendor")
	}

	if err := s.otps.IssueOTP(ctx, user.Email); err != nil {
		s.logger.Warn("otp issuance failed", zap.String("email", user.Email), zap.Error(err))
	}

	s.logger.Info("vendor self-registered pending review",
		zap.String("vendor_id", vendor.ID),
		zap.String("user_id", user.ID))
	return vendor, nil
}

// RegisterMentor claims a mentor slot. With a key, the slot is claimed and
// auto-approved; without one, a new PENDING slot is opened under the
// default tenant and waits for vendor review.
func (s *OnboardingService) RegisterMentor(ctx context.Context, req models.RegisterMentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	if req.MentorKey != "" {
		return s.registerMentorWithKey(ctx, req)
	}
	return s.registerMentorKeyless(ctx, req)
}

func (s *OnboardingService) registerMentorWithKey(ctx context.Context, req models.RegisterMentorRequest) (*models.Mentor, error) {
	mentor, err := s.mentors.FindByKey(ctx, req.MentorKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invalid mentor key")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch mentor")
	}
	if mentor.Claimed() {
		return nil, appErrors.Clone(appErrors.ErrAlreadyClaimed, "")
	}

	user, err := s.createIdentity(ctx, req.Email, req.Password, req.FullName, req.Phone, models.RoleMentor)
	if err != nil {
		return nil, err
	}

	if err := s.mentors.Claim(ctx, mentor.ID, user.ID, req.Specialization, req.Bio); err != nil {
		s.cleanupIdentity(ctx, user.ID)
		if errors.Is(err, repository.ErrSlotClaimed) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyClaimed, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to claim mentor slot")
	}

	change := repository.StatusChange{
		Status: models.StatusApproved,
		Actor:  models.SystemActor,
		At:     time.Now().UTC(),
	}
	if err := s.mentors.SetStatus(ctx, mentor.ID, mentor.VendorID, change); err != nil {
		s.logger.Warn("mentor auto-approval failed", zap.String("mentor_id", mentor.ID), zap.Error(err))
	} else {
		mentor.Status = models.StatusApproved
		mentor.ApprovedBy = &change.Actor
		mentor.ApprovedAt = &change.At
	}
	mentor.UserID = &user.ID
	mentor.Specialization = req.Specialization
	mentor.Bio = req.Bio

	if err := s.otps.IssueOTP(ctx, user.Email); err != nil {
		s.logger.Warn("otp issuance failed", zap.String("email", user.Email), zap.Error(err))
	}

	s.logger.Info("mentor registered",
		zap.String("mentor_id", mentor.ID),
		zap.String("user_id", user.ID))
	return mentor, nil
}

func (s *OnboardingService) registerMentorKeyless(ctx context.Context, req models.RegisterMentorRequest) (*models.Mentor, error) {
	vendor, err := s.resolver.DefaultVendor(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no vendor is accepting registrations")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve default vendor")
	}

	key, err := keygen.Unique(ctx, s.config.KeygenMaxAttempts, keygen.MentorKey, s.mentors.KeyExists)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	user, err := s.createIdentity(ctx, req.Email, req.Password, req.FullName, req.Phone, models.RoleMentor)
	if err != nil {
		return nil, err
	}

	mentor := &models.Mentor{
		ID:             uuid.NewString(),
		MentorKey:      key,
		VendorID:       vendor.ID,
		UserID:         &user.ID,
		Specialization: req.Specialization,
		Bio:            req.Bio,
		Status:         models.StatusPending,
		CreatedBy:      models.SystemActor,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.mentors.Create(ctx, mentor); err != nil {
		s.cleanupIdentity(ctx, user.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mentor")
	}

	if err := s.otps.IssueOTP(ctx, user.Email); err != nil {
		s.logger.Warn("otp issuance failed", zap.String("email", user.Email), zap.Error(err))
	}

	s.logger.Info("mentor self-registered pending review",
		zap.String("mentor_id", mentor.ID),
		zap.String("vendor_id", vendor.ID))
	return mentor, nil
}

// RegisterStudent admits a student through a referral code. The identity
// row and the ledger increment commit in one transaction, so a failed
// admission never burns a use.
func (s *OnboardingService) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         models.RoleStudent,
	}
	student := &models.Student{
		ReferralCode: req.ReferralCode,
	}
	if err := s.students.Register(ctx, user, student); err != nil {
		if errors.Is(err, repository.ErrReferralNotUsable) {
			return nil, classifyReferral(ctx, s.referrals, req.ReferralCode)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register student")
	}

	if err := s.otps.IssueOTP(ctx, user.Email); err != nil {
		s.logger.Warn("otp issuance failed", zap.String("email", user.Email), zap.Error(err))
	}

	s.logger.Info("student registered",
		zap.String("student_id", student.ID),
		zap.String("mentor_id", student.MentorID),
		zap.String("referral_code", student.ReferralCode))
	return student, nil
}

type referralFinder interface {
	FindByCode(ctx context.Context, code string) (*models.ReferralCode, error)
}

// classifyReferral re-reads a code that failed its conditional consume and
// maps the failure to a precise error kind. The consume transaction is
// already rolled back, so the read is outside any tx.
func classifyReferral(ctx context.Context, finder referralFinder, code string) error {
	rc, err := finder.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidCode, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect referral code")
	}
	if usabilityErr := referralUsabilityError(rc); usabilityErr != nil {
		return usabilityErr
	}
	// The consume failed but the re-read looks usable; report the generic
	// kind rather than inventing a cause.
	return appErrors.Clone(appErrors.ErrInvalidCode, "")
}

// referralUsabilityError maps a code's state to the matching error kind,
// or nil when the code is usable. Order matters: an inactive code reports
// INACTIVE even when also expired.
func referralUsabilityError(rc *models.ReferralCode) error {
	switch {
	case !rc.Active:
		return appErrors.Clone(appErrors.ErrInactiveCode, "")
	case rc.Expired(time.Now().UTC()):
		return appErrors.Clone(appErrors.ErrExpiredCode, "")
	case rc.Exhausted():
		return appErrors.Clone(appErrors.ErrExhaustedCode, "")
	case rc.MentorID == nil:
		// Vendor-scoped codes cannot admit students; a student always
		// needs a referring mentor.
		return appErrors.Clone(appErrors.ErrInvalidCode, "referral code cannot be used for registration")
	default:
		return nil
	}
}

func (s *OnboardingService) createIdentity(ctx context.Context, email, password, fullName, phone string, role models.UserRole) (*models.User, error) {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        phone,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, nil
}

// cleanupIdentity removes an identity whose slot claim lost the race. The
// claim is the atomic arbiter; the identity row is the only leftover.
func (s *OnboardingService) cleanupIdentity(ctx context.Context, userID string) {
	if err := s.users.Delete(ctx, userID); err != nil {
		s.logger.Warn("failed to clean up unclaimed identity", zap.String("user_id", userID), zap.Error(err))
	}
}
