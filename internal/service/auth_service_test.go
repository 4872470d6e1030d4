package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type mockAuthUsers struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newMockAuthUsers() *mockAuthUsers {
	return &mockAuthUsers{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (m *mockAuthUsers) add(user *models.User) {
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
}

func (m *mockAuthUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *mockAuthUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *mockAuthUsers) Create(ctx context.Context, user *models.User) error {
	m.add(user)
	return nil
}

func (m *mockAuthUsers) Activate(ctx context.Context, id string) error {
	user, ok := m.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	user.Active = true
	user.EmailVerified = true
	return nil
}

type mockAuthStudents struct {
	byUserID map[string]*models.Student
}

func (m *mockAuthStudents) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	student, ok := m.byUserID[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *student
	return &clone, nil
}

// mockOTPStore mimics the single-use redis store.
type mockOTPStore struct {
	codes map[string]string
}

func newMockOTPStore() *mockOTPStore {
	return &mockOTPStore{codes: map[string]string{}}
}

func (m *mockOTPStore) Store(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	m.codes[purpose+":"+email] = code
	return nil
}

func (m *mockOTPStore) Verify(ctx context.Context, purpose, email, code string) (bool, error) {
	stored, ok := m.codes[purpose+":"+email]
	if !ok || stored != code {
		return false, nil
	}
	delete(m.codes, purpose+":"+email)
	return true, nil
}

type recordingMailer struct {
	otps map[string]string
}

func (m *recordingMailer) SendOTP(ctx context.Context, email, otp string) error {
	if m.otps == nil {
		m.otps = map[string]string{}
	}
	m.otps[email] = otp
	return nil
}

func (m *recordingMailer) SendRegistrationKey(ctx context.Context, email, key string) error {
	return nil
}

type authFixture struct {
	users    *mockAuthUsers
	students *mockAuthStudents
	otps     *mockOTPStore
	mailer   *recordingMailer
	svc      *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newMockAuthUsers(),
		students: &mockAuthStudents{byUserID: map[string]*models.Student{}},
		otps:     newMockOTPStore(),
		mailer:   &recordingMailer{},
	}
	f.svc = NewAuthService(f.users, f.students, f.otps, f.mailer, func() string { return "424242" }, validator.New(), zap.NewNop(), AuthConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		Issuer:        "mentora-test",
		AdminEmail:    "admin@mentora.test",
		AdminPassword: "rootpassword",
		OTPTTL:        10 * time.Minute,
	})
	return f
}

func (f *authFixture) addUser(t *testing.T, id, email, password string, role models.UserRole, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         role,
		Active:       active,
	}
	f.users.add(user)
	return user
}

func TestAuthServiceLogin(t *testing.T) {
	f := newAuthFixture()
	f.addUser(t, "user-1", "mentor@acme.test", "supersecret", models.RoleMentor, true)

	resp, err := f.svc.Login(context.Background(), models.LoginRequest{
		Email:    "mentor@acme.test",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleMentor, resp.User.Role)
	assert.Nil(t, resp.User.Enrolled)
	assert.Greater(t, resp.ExpiresIn, int64(0))

	claims, err := f.svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleMentor, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	f := newAuthFixture()
	f.addUser(t, "user-1", "mentor@acme.test", "supersecret", models.RoleMentor, true)

	_, err := f.svc.Login(context.Background(), models.LoginRequest{
		Email:    "mentor@acme.test",
		Password: "wrong",
	})
	assertErrorCode(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@acme.test",
		Password: "whatever",
	})
	assertErrorCode(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	f := newAuthFixture()
	f.addUser(t, "user-1", "mentor@acme.test", "supersecret", models.RoleMentor, false)

	_, err := f.svc.Login(context.Background(), models.LoginRequest{
		Email:    "mentor@acme.test",
		Password: "supersecret",
	})
	assertErrorCode(t, err, appErrors.ErrInactiveAccount.Code)
}

func TestAuthServiceLoginBootstrapsAdmin(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@mentora.test",
		Password: "rootpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	admin, ok := f.users.byEmail["admin@mentora.test"]
	require.True(t, ok)
	assert.True(t, admin.Active)
	assert.True(t, admin.EmailVerified)

	// A second login reuses the bootstrapped row.
	resp2, err := f.svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@mentora.test",
		Password: "rootpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, resp2.User.ID)
}

func TestAuthServiceLoginBootstrapRejectsWrongPassword(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@mentora.test",
		Password: "guess",
	})
	assertErrorCode(t, err, appErrors.ErrInvalidCredentials.Code)
	_, created := f.users.byEmail["admin@mentora.test"]
	assert.False(t, created)
}

func TestAuthServiceLoginStudentEnrolledFlag(t *testing.T) {
	f := newAuthFixture()
	f.addUser(t, "user-s", "student@acme.test", "supersecret", models.RoleStudent, true)
	f.students.byUserID["user-s"] = &models.Student{ID: "student-1", UserID: "user-s", Enrolled: true}

	resp, err := f.svc.Login(context.Background(), models.LoginRequest{
		Email:    "student@acme.test",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User.Enrolled)
	assert.True(t, *resp.User.Enrolled)
}

func TestAuthServiceVerifyEmail(t *testing.T) {
	f := newAuthFixture()
	f.addUser(t, "user-1", "mentor@acme.test", "supersecret", models.RoleMentor, false)
	require.NoError(t, f.svc.IssueOTP(context.Background(), "mentor@acme.test"))
	assert.Equal(t, "424242", f.mailer.otps["mentor@acme.test"])

	res, err := f.svc.VerifyEmail(context.Background(), models.VerifyEmailRequest{
		Email: "mentor@acme.test",
		OTP:   "424242",
	})
	require.NoError(t, err)
	assert.True(t, f.users.byEmail["mentor@acme.test"].Active)

	// Verification logs the user straight in.
	require.NotEmpty(t, res.Token)
	claims, err := f.svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "mentor@acme.test", res.User.Email)

	// Codes are single-use.
	f.users.byEmail["mentor@acme.test"].EmailVerified = false
	_, err = f.svc.VerifyEmail(context.Background(), models.VerifyEmailRequest{
		Email: "mentor@acme.test",
		OTP:   "424242",
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestAuthServiceVerifyEmailWrongOTP(t *testing.T) {
	f := newAuthFixture()
	f.addUser(t, "user-1", "mentor@acme.test", "supersecret", models.RoleMentor, false)
	require.NoError(t, f.svc.IssueOTP(context.Background(), "mentor@acme.test"))

	_, err := f.svc.VerifyEmail(context.Background(), models.VerifyEmailRequest{
		Email: "mentor@acme.test",
		OTP:   "000000",
	})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
	assert.False(t, f.users.byEmail["mentor@acme.test"].Active)
}

func TestAuthServiceVerifyEmailAlreadyVerified(t *testing.T) {
	f := newAuthFixture()
	user := f.addUser(t, "user-1", "mentor@acme.test", "supersecret", models.RoleMentor, true)
	user.EmailVerified = true

	_, err := f.svc.VerifyEmail(context.Background(), models.VerifyEmailRequest{
		Email: "mentor@acme.test",
		OTP:   "424242",
	})
	assertErrorCode(t, err, appErrors.ErrConflict.Code)
}

func TestAuthServiceResendOTP(t *testing.T) {
	f := newAuthFixture()
	f.addUser(t, "user-1", "mentor@acme.test", "supersecret", models.RoleMentor, false)

	require.NoError(t, f.svc.ResendOTP(context.Background(), models.ResendOTPRequest{Email: "mentor@acme.test"}))
	assert.Equal(t, "424242", f.mailer.otps["mentor@acme.test"])
}

func TestAuthServiceResendOTPUnknownAccount(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.ResendOTP(context.Background(), models.ResendOTPRequest{Email: "nobody@acme.test"})
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
}

func TestAuthServiceValidateTokenGarbage(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.ValidateToken("not-a-token")
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	f := newAuthFixture()
	f.addUser(t, "user-1", "mentor@acme.test", "supersecret", models.RoleMentor, true)
	resp, err := f.svc.Login(context.Background(), models.LoginRequest{
		Email:    "mentor@acme.test",
		Password: "supersecret",
	})
	require.NoError(t, err)

	other := newAuthFixture()
	other.svc.config.Secret = "different-secret"
	_, err = other.svc.ValidateToken(resp.Token)
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}
