package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rudrakalshethra/academy-api/internal/models"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

const ledgerColumns = "id, user_id, branch, fee_per_class, total_classes_attended, unpaid_classes, pending_amount, total_paid, active, created_at, updated_at"

const ledgerDetailColumns = `l.id, l.user_id, l.branch, l.fee_per_class, l.total_classes_attended, l.unpaid_classes, l.pending_amount, l.total_paid, l.active, l.created_at, l.updated_at,
        u.name AS student_name, u.email AS student_email, u.phone AS student_phone`

// LedgerRepository manages persistence for student ledgers and owns the
// transactional event-plus-counter mutations.
type LedgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository constructs a LedgerRepository.
func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// FindByID fetches a ledger by its identifier.
func (r *LedgerRepository) FindByID(ctx context.Context, id string) (*models.StudentLedger, error) {
	query := fmt.Sprintf("SELECT %s FROM student_ledgers WHERE id = $1", ledgerColumns)
	var ledger models.StudentLedger
	if err := r.db.GetContext(ctx, &ledger, query, id); err != nil {
		return nil, err
	}
	return &ledger, nil
}

// FindDetailByUserID fetches the ledger owned by the given account.
func (r *LedgerRepository) FindDetailByUserID(ctx context.Context, userID string) (*models.LedgerDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_ledgers l JOIN users u ON u.id = l.user_id WHERE l.user_id = $1`, ledgerDetailColumns)
	var detail models.LedgerDetail
	if err := r.db.GetContext(ctx, &detail, query, userID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns ledgers matching the provided filters joined with account info.
func (r *LedgerRepository) List(ctx context.Context, filter models.LedgerFilter) ([]models.LedgerDetail, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Branch != "" && filter.Branch != models.BranchAll {
		conditions = append(conditions, fmt.Sprintf("l.branch = $%d", len(args)+1))
		args = append(args, filter.Branch)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("l.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	query := fmt.Sprintf(`SELECT %s FROM student_ledgers l JOIN users u ON u.id = l.user_id WHERE %s ORDER BY u.name ASC`,
		ledgerDetailColumns, strings.Join(conditions, " AND "))

	var details []models.LedgerDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	return details, nil
}

// CreateStudent inserts a student account together with its ledger in one
// transaction. Exactly one ledger exists per student account.
func (r *LedgerRepository) CreateStudent(ctx context.Context, user *models.User, ledger *models.StudentLedger) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	const userQuery = `INSERT INTO users (id, name, email, password_hash, role, branch, phone, active, created_at, updated_at)
        VALUES (:id, :name, :email, :password_hash, :role, :branch, :phone, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create student account: %w", err)
	}

	if ledger.ID == "" {
		ledger.ID = uuid.NewString()
	}
	ledger.UserID = user.ID
	ledger.CreatedAt = now
	ledger.UpdatedAt = now
	const ledgerQuery = `INSERT INTO student_ledgers (id, user_id, branch, fee_per_class, total_classes_attended, unpaid_classes, pending_amount, total_paid, active, created_at, updated_at)
        VALUES (:id, :user_id, :branch, :fee_per_class, :total_classes_attended, :unpaid_classes, :pending_amount, :total_paid, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, ledgerQuery, ledger); err != nil {
		return fmt.Errorf("create student ledger: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create student: %w", err)
	}
	return nil
}

// RecordAttendance inserts the event and advances the ledger counters as one
// transaction. A second marking for the same (ledger, day) hits the unique
// index and aborts before any counter changes.
func (r *LedgerRepository) RecordAttendance(ctx context.Context, event *models.AttendanceEvent) (*models.StudentLedger, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin record attendance: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = now

	const insertQuery = `INSERT INTO attendance_events (id, ledger_id, attended_on, present, branch, recorded_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (ledger_id, attended_on) DO NOTHING`
	res, err := tx.ExecContext(ctx, insertQuery, event.ID, event.LedgerID, event.AttendedOn, event.Present, event.Branch, event.RecordedBy, event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert attendance event: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("attendance rows affected: %w", err)
	}
	if inserted == 0 {
		return nil, appErrors.ErrDuplicateAttendance
	}

	var ledger models.StudentLedger
	if event.Present {
		updateQuery := fmt.Sprintf(`UPDATE student_ledgers
            SET total_classes_attended = total_classes_attended + 1,
                unpaid_classes = unpaid_classes + 1,
                pending_amount = (unpaid_classes + 1) * fee_per_class,
                updated_at = $2
            WHERE id = $1
            RETURNING %s`, ledgerColumns)
		if err := tx.GetContext(ctx, &ledger, updateQuery, event.LedgerID, now); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return nil, fmt.Errorf("apply attendance to ledger: %w", err)
		}
	} else {
		selectQuery := fmt.Sprintf("SELECT %s FROM student_ledgers WHERE id = $1", ledgerColumns)
		if err := tx.GetContext(ctx, &ledger, selectQuery, event.LedgerID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return nil, fmt.Errorf("load ledger: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record attendance: %w", err)
	}
	return &ledger, nil
}

// RecordPayment settles unpaid classes and writes the payment event in one
// transaction. The decrement is guarded by unpaid_classes >= count so that
// concurrent payments against the same ledger cannot both succeed on the
// same credit; losers observe zero updated rows.
func (r *LedgerRepository) RecordPayment(ctx context.Context, event *models.PaymentEvent) (*models.StudentLedger, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin record payment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()

	updateQuery := fmt.Sprintf(`UPDATE student_ledgers
        SET unpaid_classes = unpaid_classes - $2,
            pending_amount = (unpaid_classes - $2) * fee_per_class,
            total_paid = total_paid + $2 * fee_per_class,
            updated_at = $3
        WHERE id = $1 AND unpaid_classes >= $2
        RETURNING %s`, ledgerColumns)

	var ledger models.StudentLedger
	if err := tx.GetContext(ctx, &ledger, updateQuery, event.LedgerID, event.ClassesCount, now); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrInsufficientUnpaid
		}
		return nil, fmt.Errorf("apply payment to ledger: %w", err)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.PaidAt.IsZero() {
		event.PaidAt = now
	}
	event.Amount = int64(event.ClassesCount) * ledger.FeePerClass
	event.Branch = ledger.Branch

	const insertQuery = `INSERT INTO payment_events (id, ledger_id, paid_at, classes_count, amount, method, branch, recorded_by)
        VALUES (:id, :ledger_id, :paid_at, :classes_count, :amount, :method, :branch, :recorded_by)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, event); err != nil {
		return nil, fmt.Errorf("insert payment event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record payment: %w", err)
	}
	return &ledger, nil
}

// BranchStats aggregates ledger state, optionally scoped to one branch.
func (r *LedgerRepository) BranchStats(ctx context.Context, branch models.Branch) (*models.BranchStats, error) {
	query := fmt.Sprintf(`SELECT
            COUNT(*) AS total_students,
            COUNT(*) FILTER (WHERE active) AS active_students,
            COUNT(*) FILTER (WHERE unpaid_classes >= %d) AS students_payable,
            COALESCE(SUM(pending_amount), 0) AS total_pending
        FROM student_ledgers`, models.PayableThreshold)
	args := []interface{}{}
	if branch != "" && branch != models.BranchAll {
		query += " WHERE branch = $1"
		args = append(args, branch)
	}

	var stats models.BranchStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("branch stats: %w", err)
	}
	return &stats, nil
}
