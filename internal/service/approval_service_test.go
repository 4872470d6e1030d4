package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/repository"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type mockApprovalVendors struct {
	byID map[string]*models.Vendor
}

func (m *mockApprovalVendors) FindByID(ctx context.Context, id string) (*models.Vendor, error) {
	vendor, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *vendor
	return &clone, nil
}

func (m *mockApprovalVendors) SetStatus(ctx context.Context, id string, change repository.StatusChange) error {
	vendor, ok := m.byID[id]
	if !ok {
		return sql.ErrNoRows
	}
	applyVendorChange(vendor, change)
	return nil
}

type mockApprovalMentors struct {
	byID map[string]*models.Mentor
}

func (m *mockApprovalMentors) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *mentor
	return &clone, nil
}

func (m *mockApprovalMentors) SetStatus(ctx context.Context, id, vendorID string, change repository.StatusChange) error {
	mentor, ok := m.byID[id]
	if !ok || mentor.VendorID != vendorID {
		return sql.ErrNoRows
	}
	mentor.Status = change.Status
	switch change.Status {
	case models.StatusApproved:
		mentor.ApprovedBy = &change.Actor
		mentor.ApprovedAt = &change.At
	case models.StatusRejected, models.StatusSuspended:
		mentor.RejectedBy = &change.Actor
		mentor.RejectedAt = &change.At
		mentor.RejectionReason = change.Reason
	}
	return nil
}

func applyVendorChange(vendor *models.Vendor, change repository.StatusChange) {
	vendor.Status = change.Status
	switch change.Status {
	case models.StatusApproved:
		vendor.ApprovedBy = &change.Actor
		vendor.ApprovedAt = &change.At
	case models.StatusRejected, models.StatusSuspended:
		vendor.RejectedBy = &change.Actor
		vendor.RejectedAt = &change.At
		vendor.RejectionReason = change.Reason
	}
}

func newApprovalService(vendors *mockApprovalVendors, mentors *mockApprovalMentors) *ApprovalService {
	return NewApprovalService(vendors, mentors, validator.New(), zap.NewNop())
}

func TestApprovalServiceApproveVendor(t *testing.T) {
	vendors := &mockApprovalVendors{byID: map[string]*models.Vendor{
		"vendor-1": {ID: "vendor-1", Status: models.StatusPending},
	}}
	svc := newApprovalService(vendors, &mockApprovalMentors{byID: map[string]*models.Mentor{}})

	vendor, err := svc.TransitionVendor(context.Background(), "vendor-1", "admin-1", models.StatusApproved, models.ApprovalRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, vendor.Status)
	require.NotNil(t, vendor.ApprovedBy)
	assert.Equal(t, "admin-1", *vendor.ApprovedBy)
	assert.NotNil(t, vendor.ApprovedAt)
}

func TestApprovalServiceRejectVendorWithReason(t *testing.T) {
	vendors := &mockApprovalVendors{byID: map[string]*models.Vendor{
		"vendor-1": {ID: "vendor-1", Status: models.StatusPending},
	}}
	svc := newApprovalService(vendors, &mockApprovalMentors{byID: map[string]*models.Mentor{}})

	vendor, err := svc.TransitionVendor(context.Background(), "vendor-1", "admin-1", models.StatusRejected, models.ApprovalRequest{Reason: "incomplete paperwork"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, vendor.Status)
	require.NotNil(t, vendor.RejectionReason)
	assert.Equal(t, "incomplete paperwork", *vendor.RejectionReason)
	require.NotNil(t, vendor.RejectedBy)
	assert.Equal(t, "admin-1", *vendor.RejectedBy)
}

func TestApprovalServiceSuspendApprovedVendor(t *testing.T) {
	vendors := &mockApprovalVendors{byID: map[string]*models.Vendor{
		"vendor-1": {ID: "vendor-1", Status: models.StatusApproved},
	}}
	svc := newApprovalService(vendors, &mockApprovalMentors{byID: map[string]*models.Mentor{}})

	// No state is terminal: approved vendors can be suspended.
	vendor, err := svc.TransitionVendor(context.Background(), "vendor-1", "admin-1", models.StatusSuspended, models.ApprovalRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, vendor.Status)
	require.NotNil(t, vendor.RejectionReason)
	assert.Equal(t, "no reason provided", *vendor.RejectionReason)
}

func TestApprovalServiceRejectVendorDefaultReason(t *testing.T) {
	vendors := &mockApprovalVendors{byID: map[string]*models.Vendor{
		"vendor-1": {ID: "vendor-1", Status: models.StatusPending},
	}}
	svc := newApprovalService(vendors, &mockApprovalMentors{byID: map[string]*models.Mentor{}})

	// A reason-less rejection still records an auditable reason.
	vendor, err := svc.TransitionVendor(context.Background(), "vendor-1", "admin-1", models.StatusRejected, models.ApprovalRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, vendor.Status)
	require.NotNil(t, vendor.RejectionReason)
	assert.Equal(t, "no reason provided", *vendor.RejectionReason)
}

func TestApprovalServiceVendorNotFound(t *testing.T) {
	svc := newApprovalService(&mockApprovalVendors{byID: map[string]*models.Vendor{}}, &mockApprovalMentors{byID: map[string]*models.Mentor{}})

	_, err := svc.TransitionVendor(context.Background(), "missing", "admin-1", models.StatusApproved, models.ApprovalRequest{})
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
}

func TestApprovalServiceUnsupportedTransition(t *testing.T) {
	vendors := &mockApprovalVendors{byID: map[string]*models.Vendor{
		"vendor-1": {ID: "vendor-1", Status: models.StatusPending},
	}}
	svc := newApprovalService(vendors, &mockApprovalMentors{byID: map[string]*models.Mentor{}})

	_, err := svc.TransitionVendor(context.Background(), "vendor-1", "admin-1", models.StatusPending, models.ApprovalRequest{})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestApprovalServiceApproveMentor(t *testing.T) {
	mentors := &mockApprovalMentors{byID: map[string]*models.Mentor{
		"mentor-1": {ID: "mentor-1", VendorID: "vendor-1", Status: models.StatusPending},
	}}
	svc := newApprovalService(&mockApprovalVendors{byID: map[string]*models.Vendor{}}, mentors)

	mentor, err := svc.TransitionMentor(context.Background(), "mentor-1", "vendor-1", "user-v", models.StatusApproved, models.ApprovalRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, mentor.Status)
	require.NotNil(t, mentor.ApprovedBy)
	assert.Equal(t, "user-v", *mentor.ApprovedBy)
}

func TestApprovalServiceMentorCrossTenant(t *testing.T) {
	mentors := &mockApprovalMentors{byID: map[string]*models.Mentor{
		"mentor-1": {ID: "mentor-1", VendorID: "vendor-1", Status: models.StatusPending},
	}}
	svc := newApprovalService(&mockApprovalVendors{byID: map[string]*models.Vendor{}}, mentors)

	// Another vendor's mentor answers not found, never forbidden.
	_, err := svc.TransitionMentor(context.Background(), "mentor-1", "vendor-2", "user-v", models.StatusApproved, models.ApprovalRequest{})
	assertErrorCode(t, err, appErrors.ErrNotFound.Code)
	assert.Equal(t, models.StatusPending, mentors.byID["mentor-1"].Status)
}

func TestApprovalServiceRejectMentorWithReason(t *testing.T) {
	mentors := &mockApprovalMentors{byID: map[string]*models.Mentor{
		"mentor-1": {ID: "mentor-1", VendorID: "vendor-1", Status: models.StatusPending},
	}}
	svc := newApprovalService(&mockApprovalVendors{byID: map[string]*models.Vendor{}}, mentors)

	mentor, err := svc.TransitionMentor(context.Background(), "mentor-1", "vendor-1", "user-v", models.StatusRejected, models.ApprovalRequest{Reason: "profile mismatch"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, mentor.Status)
	require.NotNil(t, mentor.RejectionReason)
	assert.Equal(t, "profile mismatch", *mentor.RejectionReason)
}
