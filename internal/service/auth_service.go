package service

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/repository"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Activate(ctx context.Context, id string) error
}

type authOTPRepository interface {
	Store(ctx context.Context, purpose, email, code string, ttl time.Duration) error
	Verify(ctx context.Context, purpose, email, code string) (bool, error)
}

type authStudentRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret        string
	Expiry        time.Duration
	Issuer        string
	AdminEmail    string
	AdminPassword string
	OTPTTL        time.Duration
}

// AuthService provides login, token validation and email verification.
type AuthService struct {
	users     authUserRepository
	students  authStudentRepository
	otps      authOTPRepository
	mailer    Mailer
	otpGen    func() string
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, students authStudentRepository, otps authOTPRepository, mailer Mailer, otpGen func() string, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}
	return &AuthService{
		users:     users,
		students:  students,
		otps:      otps,
		mailer:    mailer,
		otpGen:    otpGen,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// Login authenticates a user and returns an issued token. The platform
// admin account is bootstrapped lazily on first login with the configured
// credentials, so a fresh deployment needs no seed script.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if user, err = s.bootstrapAdmin(ctx, req); err != nil {
				return nil, err
			}
		} else {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "")
	}

	return s.buildLoginResponse(ctx, user)
}

// buildLoginResponse issues a token and assembles the session payload.
func (s *AuthService) buildLoginResponse(ctx context.Context, user *models.User) (*models.LoginResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create token")
	}

	info := models.UserInfo{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
	if user.Role == models.RoleStudent && s.students != nil {
		if student, err := s.students.FindByUserID(ctx, user.ID); err == nil {
			enrolled := student.Enrolled
			info.Enrolled = &enrolled
		}
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
		IssuedAt:  time.Now().UTC(),
		User:      info,
	}, nil
}

// VerifyEmail checks the emailed OTP, activates the account and opens a
// session so the user does not have to log in right after verifying. The
// code is single-use; a second verify with the same code fails.
func (s *AuthService) VerifyEmail(ctx context.Context, req models.VerifyEmailRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid verification payload")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if user.EmailVerified {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already verified")
	}

	ok, err := s.otps.Verify(ctx, repository.OTPPurposeVerifyEmail, req.Email, req.OTP)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify otp")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid or expired otp")
	}

	if err := s.users.Activate(ctx, user.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate account")
	}
	user.Active = true
	user.EmailVerified = true

	return s.buildLoginResponse(ctx, user)
}

// ResendOTP issues a fresh verification code, replacing any previous one.
func (s *AuthService) ResendOTP(ctx context.Context, req models.ResendOTPRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resend payload")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if user.EmailVerified {
		return appErrors.Clone(appErrors.ErrConflict, "email already verified")
	}

	return s.issueOTP(ctx, user.Email)
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// issueOTP generates, stores and mails a verification code. Shared with
// the onboarding service through the auth service so OTP policy lives in
// one place.
func (s *AuthService) issueOTP(ctx context.Context, email string) error {
	otp := s.otpGen()
	if err := s.otps.Store(ctx, repository.OTPPurposeVerifyEmail, email, otp, s.config.OTPTTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store otp")
	}
	if err := s.mailer.SendOTP(ctx, email, otp); err != nil {
		s.logger.Warn("failed to send otp", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// IssueOTP exposes OTP issuance for registration flows.
func (s *AuthService) IssueOTP(ctx context.Context, email string) error {
	return s.issueOTP(ctx, email)
}

func (s *AuthService) bootstrapAdmin(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if s.config.AdminEmail == "" || req.Email != s.config.AdminEmail ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.config.AdminPassword)) != 1 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.config.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	admin := &models.User{
		ID:            uuid.NewString(),
		Email:         s.config.AdminEmail,
		PasswordHash:  string(hash),
		FullName:      "Platform Admin",
		Role:          models.RoleAdmin,
		Active:        true,
		EmailVerified: true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bootstrap admin")
	}
	s.logger.Info("admin account bootstrapped", zap.String("email", admin.Email))
	return admin, nil
}

func (s *AuthService) generateToken(user *models.User) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiry)
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
