package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatewayPayment(t *testing.T) PaymentInfo {
	t.Helper()
	payment, err := NewPaymentInfo(PaymentMethodGateway, mustMoney(t, 5940, CurrencyARS))
	require.NoError(t, err)
	return payment
}

func TestNewPaymentInfo(t *testing.T) {
	payment := newGatewayPayment(t)

	assert.Equal(t, PaymentMethodGateway, payment.Method)
	assert.Equal(t, PaymentStatePending, payment.State)
	assert.Equal(t, 5940.0, payment.Amount.Float64())
}

func TestNewPaymentInfo_UnknownMethod(t *testing.T) {
	_, err := NewPaymentInfo(PaymentMethod("CHECK"), mustMoney(t, 100, CurrencyARS))

	assert.True(t, IsValidation(err))
}

func TestPaymentInfo_TransitionsReturnCopies(t *testing.T) {
	payment := newGatewayPayment(t)

	processing, err := payment.StartProcessing()

	require.NoError(t, err)
	assert.Equal(t, PaymentStateProcessing, processing.State)
	assert.Equal(t, PaymentStatePending, payment.State)
}

func TestPaymentInfo_WithPreference(t *testing.T) {
	payment := newGatewayPayment(t)

	updated := payment.WithPreference("pref-123", "PED-ABC12345")

	assert.Equal(t, "pref-123", updated.PreferenceID)
	assert.Equal(t, "PED-ABC12345", updated.ExternalReference)
	assert.Empty(t, payment.PreferenceID)
}

func TestPaymentInfo_Approve_FromProcessing(t *testing.T) {
	payment := newGatewayPayment(t)
	processing, err := payment.StartProcessing()
	require.NoError(t, err)

	approved, err := processing.Approve("mp-777")

	require.NoError(t, err)
	assert.Equal(t, PaymentStateApproved, approved.State)
	assert.Equal(t, "mp-777", approved.PaymentID)
}

func TestPaymentInfo_Approve_FromPendingStepsThroughProcessing(t *testing.T) {
	payment := newGatewayPayment(t)

	approved, err := payment.Approve("mp-777")

	require.NoError(t, err)
	assert.Equal(t, PaymentStateApproved, approved.State)
}

func TestPaymentInfo_Approve_AlreadyApproved(t *testing.T) {
	payment := newGatewayPayment(t)
	approved, err := payment.Approve("mp-777")
	require.NoError(t, err)

	_, err = approved.Approve("mp-888")

	require.True(t, IsAlreadyPaid(err))
	de, _ := AsError(err)
	assert.Equal(t, "PAYMENT_ALREADY_APPROVED", de.Code)
}

func TestPaymentInfo_Approve_NonGatewayMethod(t *testing.T) {
	payment, err := NewPaymentInfo(PaymentMethodCash, mustMoney(t, 100, CurrencyARS))
	require.NoError(t, err)

	_, err = payment.Approve("mp-777")

	require.True(t, IsInvalidState(err))
	de, _ := AsError(err)
	assert.Equal(t, "PAYMENT_METHOD_NOT_GATEWAY", de.Code)
}

func TestPaymentInfo_Reject(t *testing.T) {
	payment := newGatewayPayment(t)

	rejected, err := payment.Reject("cc_rejected_insufficient_amount")

	require.NoError(t, err)
	assert.Equal(t, PaymentStateRejected, rejected.State)
	assert.Equal(t, "cc_rejected_insufficient_amount", rejected.RejectionReason)
	assert.True(t, rejected.State.IsTerminal())
}

func TestPaymentInfo_Reject_AfterApproval(t *testing.T) {
	payment := newGatewayPayment(t)
	approved, err := payment.Approve("mp-777")
	require.NoError(t, err)

	_, err = approved.Reject("too late")

	assert.True(t, IsInvalidState(err))
}

func TestPaymentInfo_Cancel(t *testing.T) {
	payment := newGatewayPayment(t)

	cancelled, err := payment.Cancel()

	require.NoError(t, err)
	assert.Equal(t, PaymentStateCancelled, cancelled.State)
	assert.True(t, cancelled.State.IsTerminal())
}

func TestPaymentInfo_Cancel_AfterApproval(t *testing.T) {
	payment := newGatewayPayment(t)
	approved, err := payment.Approve("mp-777")
	require.NoError(t, err)

	_, err = approved.Cancel()

	assert.True(t, IsInvalidState(err))
}

func TestPaymentInfo_Refund_OnlyFromApproved(t *testing.T) {
	payment := newGatewayPayment(t)

	_, err := payment.Refund()
	assert.True(t, IsInvalidState(err))

	approved, err := payment.Approve("mp-777")
	require.NoError(t, err)

	refunded, err := approved.Refund()
	require.NoError(t, err)
	assert.Equal(t, PaymentStateRefunded, refunded.State)
	assert.True(t, refunded.State.IsTerminal())
}

func TestParsePaymentMethod(t *testing.T) {
	for _, valid := range []string{"GATEWAY", "CASH", "TRANSFER"} {
		method, err := ParsePaymentMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, PaymentMethod(valid), method)
	}

	_, err := ParsePaymentMethod("BITCOIN")
	assert.True(t, IsValidation(err))
}

func TestParsePaymentState(t *testing.T) {
	state, err := ParsePaymentState("PROCESSING")
	require.NoError(t, err)
	assert.Equal(t, PaymentStateProcessing, state)

	_, err = ParsePaymentState("UNKNOWN")
	assert.True(t, IsValidation(err))
}
