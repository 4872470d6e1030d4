package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentora-api/internal/models"
)

var vendorRows = []string{
	"id", "vendor_key", "company_name", "description", "user_id", "status", "created_by",
	"approved_by", "approved_at", "rejected_by", "rejected_at", "rejection_reason", "expires_at", "created_at",
}

func TestVendorRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vendors`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	vendor := &models.Vendor{
		VendorKey:   "VND_ABCDEF0123456789",
		CompanyName: "Acme Learning",
		CreatedBy:   "admin-1",
	}
	require.NoError(t, repo.Create(context.Background(), vendor))
	assert.NotEmpty(t, vendor.ID)
	assert.Equal(t, models.StatusPending, vendor.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepositoryFindByKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	expires := time.Now().Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM vendors WHERE vendor_key = $1`)).
		WithArgs("VND_ABCDEF0123456789").
		WillReturnRows(sqlmock.NewRows(vendorRows).
			AddRow("vendor-1", "VND_ABCDEF0123456789", "Acme Learning", "", nil, "PENDING", "admin-1",
				nil, nil, nil, nil, nil, expires, time.Now()))

	vendor, err := repo.FindByKey(context.Background(), "VND_ABCDEF0123456789")
	require.NoError(t, err)
	assert.Equal(t, "vendor-1", vendor.ID)
	assert.False(t, vendor.Claimed())
	assert.False(t, vendor.KeyExpired(time.Now().UTC()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepositoryKeyExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM vendors WHERE vendor_key = $1 LIMIT 1`)).
		WithArgs("VND_TAKEN").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.KeyExists(context.Background(), "VND_TAKEN")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM vendors WHERE vendor_key = $1 LIMIT 1`)).
		WithArgs("VND_FRESH").
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.KeyExists(context.Background(), "VND_FRESH")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepositoryClaim(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vendors SET user_id = $2 WHERE id = $1 AND user_id IS NULL`)).
		WithArgs("vendor-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Claim(context.Background(), "vendor-1", "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepositoryClaimLosesRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	// Another registration already bound the slot; the conditional
	// update matches nothing.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vendors SET user_id = $2 WHERE id = $1 AND user_id IS NULL`)).
		WithArgs("vendor-1", "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Claim(context.Background(), "vendor-1", "user-2")
	assert.ErrorIs(t, err, ErrSlotClaimed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepositorySetStatusApproved(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vendors SET status = $2, approved_by = $3, approved_at = $4`)).
		WithArgs("vendor-1", "APPROVED", "admin-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetStatus(context.Background(), "vendor-1", StatusChange{
		Status: models.StatusApproved,
		Actor:  "admin-1",
		At:     time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepositorySetStatusRejectedWithReason(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	reason := "incomplete paperwork"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vendors SET status = $2, rejected_by = $3, rejected_at = $4, rejection_reason = $5`)).
		WithArgs("vendor-1", "REJECTED", "admin-1", sqlmock.AnyArg(), &reason).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetStatus(context.Background(), "vendor-1", StatusChange{
		Status: models.StatusRejected,
		Actor:  "admin-1",
		Reason: &reason,
		At:     time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepositorySetStatusNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vendors SET status = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), "missing", StatusChange{
		Status: models.StatusApproved,
		Actor:  "admin-1",
		At:     time.Now().UTC(),
	})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepositorySetStatusUnsupported(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	err := repo.SetStatus(context.Background(), "vendor-1", StatusChange{Status: models.StatusPending})
	require.Error(t, err)
}

func TestVendorRepositoryFirstApproved(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	userID := "user-1"
	mock.ExpectQuery(regexp.QuoteMeta(`FROM vendors WHERE status = $1 ORDER BY created_at ASC LIMIT 1`)).
		WithArgs(models.StatusApproved).
		WillReturnRows(sqlmock.NewRows(vendorRows).
			AddRow("vendor-1", "VND_ABCDEF0123456789", "Acme Learning", "", userID, "APPROVED", "admin-1",
				"SYSTEM", time.Now(), nil, nil, nil, nil, time.Now()))

	vendor, err := repo.FirstApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, vendor.Status)
	assert.True(t, vendor.Claimed())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVendorRepository(db)

	columns := append(append([]string{}, vendorRows...), "mentor_count", "student_count")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM vendors v ORDER BY v.created_at DESC`)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("vendor-1", "VND_A", "Acme Learning", "", nil, "APPROVED", "admin-1",
				nil, nil, nil, nil, nil, nil, time.Now(), 3, 12))

	vendors, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, 3, vendors[0].MentorCount)
	assert.Equal(t, 12, vendors[0].StudentCount)
	require.NoError(t, mock.ExpectationsWereMet())
}
