package dto

import "github.com/rudrakalshethra/academy-api/internal/models"

// BranchStatsResponse is the dashboard aggregate for one branch scope.
type BranchStatsResponse struct {
	Branch          models.Branch `json:"branch"`
	TotalStudents   int           `json:"total_students"`
	ActiveStudents  int           `json:"active_students"`
	StudentsPayable int           `json:"students_payable"`
	TotalPending    int64         `json:"total_pending"`
	RecentRevenue   int64         `json:"recent_revenue"`
}

// StudentSelfResponse bundles a student's ledger with recent history.
type StudentSelfResponse struct {
	Student           *models.LedgerDetail      `json:"student"`
	AttendanceRecords []models.AttendanceRecord `json:"attendance_records"`
	PaymentRecords    []models.PaymentRecord    `json:"payment_records"`
}
