package models

import (
	"time"

	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

// DefaultFeePerClass is applied when a student is created without an
// explicit per-class rate. Amounts are whole rupees.
const DefaultFeePerClass int64 = 400

// PayableThreshold is the number of unpaid classes after which a student
// counts as payment-due on the dashboard.
const PayableThreshold = 4

// StudentLedger is the authoritative unpaid-classes/pending-balance state for
// one student. It is mutated only through the attendance and payment
// recorders; pending_amount == unpaid_classes * fee_per_class holds after
// every mutation.
type StudentLedger struct {
	ID                   string    `db:"id" json:"id"`
	UserID               string    `db:"user_id" json:"user_id"`
	Branch               Branch    `db:"branch" json:"branch"`
	FeePerClass          int64     `db:"fee_per_class" json:"fee_per_class"`
	TotalClassesAttended int       `db:"total_classes_attended" json:"total_classes_attended"`
	UnpaidClasses        int       `db:"unpaid_classes" json:"unpaid_classes"`
	PendingAmount        int64     `db:"pending_amount" json:"pending_amount"`
	TotalPaid            int64     `db:"total_paid" json:"total_paid"`
	Active               bool      `db:"active" json:"active"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// ApplyAttendance advances the counters for a present marking. Absences
// record an event but consume no class credit, so counters stay untouched.
func (l *StudentLedger) ApplyAttendance(present bool) {
	if !present {
		return
	}
	l.TotalClassesAttended++
	l.UnpaidClasses++
	l.PendingAmount = int64(l.UnpaidClasses) * l.FeePerClass
}

// ApplyPayment settles classesCount unpaid classes at the ledger's current
// rate and returns the amount charged. The rate is read at payment time, so
// fee changes apply prospectively only.
func (l *StudentLedger) ApplyPayment(classesCount int) (int64, error) {
	if classesCount <= 0 {
		return 0, appErrors.ErrInvalidQuantity
	}
	if classesCount > l.UnpaidClasses {
		return 0, appErrors.ErrInsufficientUnpaid
	}
	amount := int64(classesCount) * l.FeePerClass
	l.UnpaidClasses -= classesCount
	l.PendingAmount = int64(l.UnpaidClasses) * l.FeePerClass
	l.TotalPaid += amount
	return amount, nil
}

// LedgerDetail joins the ledger with its owning account for listings.
type LedgerDetail struct {
	StudentLedger
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
	StudentPhone string `db:"student_phone" json:"student_phone,omitempty"`
}

// LedgerFilter scopes ledger listings.
type LedgerFilter struct {
	Branch Branch
	Active *bool
}

// BranchStats aggregates ledger state for one branch (or all branches).
type BranchStats struct {
	TotalStudents   int   `db:"total_students" json:"total_students"`
	ActiveStudents  int   `db:"active_students" json:"active_students"`
	StudentsPayable int   `db:"students_payable" json:"students_payable"`
	TotalPending    int64 `db:"total_pending" json:"total_pending"`
}
