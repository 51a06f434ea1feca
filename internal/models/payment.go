package models

import "time"

// PaymentMethod enumerates how a payment was collected.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
	PaymentCard   PaymentMethod = "card"
)

// Valid reports whether the method is one of the accepted values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentOnline, PaymentCard:
		return true
	}
	return false
}

// PaymentEvent is an immutable record of one settlement. The amount always
// equals classes_count times the ledger's fee at the moment of payment.
type PaymentEvent struct {
	ID           string        `db:"id" json:"id"`
	LedgerID     string        `db:"ledger_id" json:"ledger_id"`
	PaidAt       time.Time     `db:"paid_at" json:"paid_at"`
	ClassesCount int           `db:"classes_count" json:"classes_count"`
	Amount       int64         `db:"amount" json:"amount"`
	Method       PaymentMethod `db:"method" json:"method"`
	Branch       Branch        `db:"branch" json:"branch"`
	RecordedBy   string        `db:"recorded_by" json:"recorded_by"`
}

// PaymentRecord joins an event with display names for listings.
type PaymentRecord struct {
	PaymentEvent
	StudentName    string `db:"student_name" json:"student_name"`
	RecordedByName string `db:"recorded_by_name" json:"recorded_by_name"`
}

// PaymentFilter scopes payment listings.
type PaymentFilter struct {
	Branch   Branch
	LedgerID string
	Since    *time.Time
	Limit    int
}
