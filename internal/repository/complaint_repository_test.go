package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/univdesk/helpdesk-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func testComplaint(version uint64) *models.Complaint {
	return &models.Complaint{
		ID:            "TCKT1700000000000",
		StudentID:     "S1700000000000",
		StudentName:   "Alice",
		Department:    "IT",
		ComplaintText: "wifi not working",
		Status:        models.ComplaintStatusOpen,
		Priority:      models.PriorityMedium,
		CreatedAt:     time.Now(),
		Version:       version,
	}
}

func TestComplaintUpdate_GuardsOnStoredVersion(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewComplaintRepository(db)

	complaint := testComplaint(3)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `complaints` SET .+ WHERE id = \\? AND version = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(complaint, 3)
	require.NoError(t, err)
	require.EqualValues(t, 4, complaint.Version)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintUpdate_VersionMismatch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewComplaintRepository(db)

	complaint := testComplaint(3)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `complaints` SET .+ WHERE id = \\? AND version = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(complaint, 3)
	require.ErrorIs(t, err, ErrVersionMismatch)
	// The in-memory version must roll back so the caller can retry from a
	// fresh read.
	require.EqualValues(t, 3, complaint.Version)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintFindByIdempotencyKey(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewComplaintRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "department", "status", "priority", "version"}).
		AddRow("TCKT1700000000000", "S1700000000000", "IT", "Open", "Medium", 1)

	mock.ExpectQuery("SELECT \\* FROM `complaints` WHERE idempotency_key = \\?").
		WillReturnRows(rows)

	complaint, err := repo.FindByIdempotencyKey("key-123")
	require.NoError(t, err)
	require.Equal(t, "TCKT1700000000000", complaint.ID)
	require.EqualValues(t, 1, complaint.Version)

	require.NoError(t, mock.ExpectationsWereMet())
}
