package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rudrakalshethra/academy-api/internal/models"
)

// PaymentRepository serves read access to the append-only payment log.
// Writes go through LedgerRepository.RecordPayment.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns payment events matching the filters, newest first.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Branch != "" && filter.Branch != models.BranchAll {
		conditions = append(conditions, fmt.Sprintf("p.branch = $%d", len(args)+1))
		args = append(args, filter.Branch)
	}
	if filter.LedgerID != "" {
		conditions = append(conditions, fmt.Sprintf("p.ledger_id = $%d", len(args)+1))
		args = append(args, filter.LedgerID)
	}
	if filter.Since != nil {
		conditions = append(conditions, fmt.Sprintf("p.paid_at >= $%d", len(args)+1))
		args = append(args, *filter.Since)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := fmt.Sprintf(`SELECT p.id, p.ledger_id, p.paid_at, p.classes_count, p.amount, p.method, p.branch, p.recorded_by,
        su.name AS student_name, COALESCE(ru.name, '') AS recorded_by_name
        FROM payment_events p
        JOIN student_ledgers l ON l.id = p.ledger_id
        JOIN users su ON su.id = l.user_id
        LEFT JOIN users ru ON ru.id = p.recorded_by
        WHERE %s ORDER BY p.paid_at DESC LIMIT %d`,
		strings.Join(conditions, " AND "), limit)

	var records []models.PaymentRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return records, nil
}

// RevenueSince sums payment amounts recorded after the given instant,
// optionally scoped to one branch.
func (r *PaymentRepository) RevenueSince(ctx context.Context, branch models.Branch, since time.Time) (int64, error) {
	query := "SELECT COALESCE(SUM(amount), 0) FROM payment_events WHERE paid_at >= $1"
	args := []interface{}{since}
	if branch != "" && branch != models.BranchAll {
		query += " AND branch = $2"
		args = append(args, branch)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("revenue since: %w", err)
	}
	return total, nil
}
