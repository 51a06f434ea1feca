package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

func TestApplyAttendancePresent(t *testing.T) {
	ledger := StudentLedger{FeePerClass: DefaultFeePerClass}

	for i := 0; i < 3; i++ {
		ledger.ApplyAttendance(true)
	}

	assert.Equal(t, 3, ledger.TotalClassesAttended)
	assert.Equal(t, 3, ledger.UnpaidClasses)
	assert.Equal(t, int64(1200), ledger.PendingAmount)
}

func TestApplyAttendanceAbsent(t *testing.T) {
	ledger := StudentLedger{FeePerClass: DefaultFeePerClass, UnpaidClasses: 2, PendingAmount: 800, TotalClassesAttended: 2}

	ledger.ApplyAttendance(false)

	assert.Equal(t, 2, ledger.TotalClassesAttended)
	assert.Equal(t, 2, ledger.UnpaidClasses)
	assert.Equal(t, int64(800), ledger.PendingAmount)
}

func TestApplyPayment(t *testing.T) {
	ledger := StudentLedger{FeePerClass: DefaultFeePerClass, UnpaidClasses: 3, PendingAmount: 1200, TotalClassesAttended: 3}

	amount, err := ledger.ApplyPayment(2)
	require.NoError(t, err)

	assert.Equal(t, int64(800), amount)
	assert.Equal(t, 1, ledger.UnpaidClasses)
	assert.Equal(t, int64(400), ledger.PendingAmount)
	assert.Equal(t, int64(800), ledger.TotalPaid)
	assert.Equal(t, 3, ledger.TotalClassesAttended)
}

func TestApplyPaymentInsufficient(t *testing.T) {
	ledger := StudentLedger{FeePerClass: DefaultFeePerClass, UnpaidClasses: 1, PendingAmount: 400}

	amount, err := ledger.ApplyPayment(5)

	assert.ErrorIs(t, err, appErrors.ErrInsufficientUnpaid)
	assert.Zero(t, amount)
	assert.Equal(t, 1, ledger.UnpaidClasses)
	assert.Equal(t, int64(400), ledger.PendingAmount)
	assert.Zero(t, ledger.TotalPaid)
}

func TestApplyPaymentInvalidQuantity(t *testing.T) {
	ledger := StudentLedger{FeePerClass: DefaultFeePerClass, UnpaidClasses: 4, PendingAmount: 1600}

	for _, count := range []int{0, -1} {
		amount, err := ledger.ApplyPayment(count)
		assert.ErrorIs(t, err, appErrors.ErrInvalidQuantity)
		assert.Zero(t, amount)
	}
	assert.Equal(t, 4, ledger.UnpaidClasses)
}

func TestPendingAmountInvariantAcrossMutations(t *testing.T) {
	ledger := StudentLedger{FeePerClass: 250}

	check := func() {
		assert.Equal(t, int64(ledger.UnpaidClasses)*ledger.FeePerClass, ledger.PendingAmount)
	}

	for i := 0; i < 6; i++ {
		ledger.ApplyAttendance(true)
		check()
	}
	_, err := ledger.ApplyPayment(4)
	require.NoError(t, err)
	check()
	_, err = ledger.ApplyPayment(2)
	require.NoError(t, err)
	check()
	assert.Zero(t, ledger.UnpaidClasses)
	assert.Zero(t, ledger.PendingAmount)
}
