package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudrakalshethra/academy-api/internal/models"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func ledgerRows(unpaid int, feePerClass int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "branch", "fee_per_class", "total_classes_attended", "unpaid_classes", "pending_amount", "total_paid", "active", "created_at", "updated_at"}).
		AddRow("led-1", "usr-1", "kothavara", feePerClass, unpaid, unpaid, int64(unpaid)*feePerClass, 0, true, now, now)
}

func TestLedgerFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLedgerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, branch, fee_per_class, total_classes_attended, unpaid_classes, pending_amount, total_paid, active, created_at, updated_at FROM student_ledgers WHERE id = $1")).
		WithArgs("led-1").
		WillReturnRows(ledgerRows(3, 400))

	ledger, err := repo.FindByID(context.Background(), "led-1")
	require.NoError(t, err)
	assert.Equal(t, "led-1", ledger.ID)
	assert.Equal(t, 3, ledger.UnpaidClasses)
	assert.Equal(t, int64(1200), ledger.PendingAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentSettlesAndLogs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE student_ledgers").
		WithArgs("led-1", 2, sqlmock.AnyArg()).
		WillReturnRows(ledgerRows(1, 400))
	mock.ExpectExec("INSERT INTO payment_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	event := &models.PaymentEvent{LedgerID: "led-1", ClassesCount: 2, Method: models.PaymentCash, RecordedBy: "admin-1"}
	ledger, err := repo.RecordPayment(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, 1, ledger.UnpaidClasses)
	assert.Equal(t, int64(800), event.Amount)
	assert.Equal(t, models.BranchKothavara, event.Branch)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.PaidAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentInsufficientCredit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLedgerRepository(db)

	emptyRows := sqlmock.NewRows([]string{"id", "user_id", "branch", "fee_per_class", "total_classes_attended", "unpaid_classes", "pending_amount", "total_paid", "active", "created_at", "updated_at"})

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE student_ledgers").
		WithArgs("led-1", 5, sqlmock.AnyArg()).
		WillReturnRows(emptyRows)
	mock.ExpectRollback()

	event := &models.PaymentEvent{LedgerID: "led-1", ClassesCount: 5, Method: models.PaymentOnline, RecordedBy: "admin-1"}
	_, err := repo.RecordPayment(context.Background(), event)

	assert.ErrorIs(t, err, appErrors.ErrInsufficientUnpaid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAttendancePresent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendance_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("UPDATE student_ledgers").
		WithArgs("led-1", sqlmock.AnyArg()).
		WillReturnRows(ledgerRows(4, 400))
	mock.ExpectCommit()

	event := &models.AttendanceEvent{
		LedgerID:   "led-1",
		AttendedOn: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Present:    true,
		Branch:     models.BranchKothavara,
		RecordedBy: "admin-1",
	}
	ledger, err := repo.RecordAttendance(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, 4, ledger.UnpaidClasses)
	assert.Equal(t, int64(1600), ledger.PendingAmount)
	assert.NotEmpty(t, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAttendanceDuplicateDay(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendance_events").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	event := &models.AttendanceEvent{
		LedgerID:   "led-1",
		AttendedOn: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Present:    true,
		Branch:     models.BranchKothavara,
		RecordedBy: "admin-1",
	}
	_, err := repo.RecordAttendance(context.Background(), event)

	assert.ErrorIs(t, err, appErrors.ErrDuplicateAttendance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAttendanceAbsentLeavesCounters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendance_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, branch, fee_per_class, total_classes_attended, unpaid_classes, pending_amount, total_paid, active, created_at, updated_at FROM student_ledgers WHERE id = $1")).
		WithArgs("led-1").
		WillReturnRows(ledgerRows(2, 400))
	mock.ExpectCommit()

	event := &models.AttendanceEvent{
		LedgerID:   "led-1",
		AttendedOn: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		Present:    false,
		Branch:     models.BranchKothavara,
		RecordedBy: "admin-1",
	}
	ledger, err := repo.RecordAttendance(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, 2, ledger.UnpaidClasses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentTransactional(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLedgerRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO student_ledgers").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &models.User{Name: "Meera", Email: "meera@example.com", Role: models.RoleStudent, Branch: models.BranchKothavara, Active: true}
	ledger := &models.StudentLedger{Branch: models.BranchKothavara, FeePerClass: models.DefaultFeePerClass, Active: true}

	require.NoError(t, repo.CreateStudent(context.Background(), user, ledger))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, user.ID, ledger.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchStatsScoped(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLedgerRepository(db)

	rows := sqlmock.NewRows([]string{"total_students", "active_students", "students_payable", "total_pending"}).
		AddRow(10, 8, 2, 3200)
	mock.ExpectQuery("SELECT").
		WithArgs("kothavara").
		WillReturnRows(rows)

	stats, err := repo.BranchStats(context.Background(), models.BranchKothavara)
	require.NoError(t, err)

	assert.Equal(t, 10, stats.TotalStudents)
	assert.Equal(t, 8, stats.ActiveStudents)
	assert.Equal(t, 2, stats.StudentsPayable)
	assert.Equal(t, int64(3200), stats.TotalPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}
