package models

import "time"

// AttendanceEvent is an immutable record of one marking. At most one event
// exists per (ledger, calendar day); duplicates are rejected at write time.
type AttendanceEvent struct {
	ID         string    `db:"id" json:"id"`
	LedgerID   string    `db:"ledger_id" json:"ledger_id"`
	AttendedOn time.Time `db:"attended_on" json:"attended_on"`
	Present    bool      `db:"present" json:"present"`
	Branch     Branch    `db:"branch" json:"branch"`
	RecordedBy string    `db:"recorded_by" json:"recorded_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AttendanceRecord joins an event with display names for listings.
type AttendanceRecord struct {
	AttendanceEvent
	StudentName    string `db:"student_name" json:"student_name"`
	RecordedByName string `db:"recorded_by_name" json:"recorded_by_name"`
}

// AttendanceFilter scopes attendance listings.
type AttendanceFilter struct {
	Branch   Branch
	LedgerID string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
}
