package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rudrakalshethra/academy-api/internal/models"
)

// AttendanceRepository serves read access to the append-only attendance log.
// Writes go through LedgerRepository.RecordAttendance so the event and the
// counter update share a transaction.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance events matching the filters, newest first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Branch != "" && filter.Branch != models.BranchAll {
		conditions = append(conditions, fmt.Sprintf("a.branch = $%d", len(args)+1))
		args = append(args, filter.Branch)
	}
	if filter.LedgerID != "" {
		conditions = append(conditions, fmt.Sprintf("a.ledger_id = $%d", len(args)+1))
		args = append(args, filter.LedgerID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("a.attended_on >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("a.attended_on <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := fmt.Sprintf(`SELECT a.id, a.ledger_id, a.attended_on, a.present, a.branch, a.recorded_by, a.created_at,
        su.name AS student_name, COALESCE(ru.name, '') AS recorded_by_name
        FROM attendance_events a
        JOIN student_ledgers l ON l.id = a.ledger_id
        JOIN users su ON su.id = l.user_id
        LEFT JOIN users ru ON ru.id = a.recorded_by
        WHERE %s ORDER BY a.attended_on DESC, a.created_at DESC LIMIT %d`,
		strings.Join(conditions, " AND "), limit)

	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}
