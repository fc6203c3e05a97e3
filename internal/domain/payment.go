package domain

import "fmt"

type PaymentMethod string

const (
	PaymentMethodGateway  PaymentMethod = "GATEWAY"
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

type PaymentState string

const (
	PaymentStatePending    PaymentState = "PENDING"
	PaymentStateProcessing PaymentState = "PROCESSING"
	PaymentStateApproved   PaymentState = "APPROVED"
	PaymentStateRejected   PaymentState = "REJECTED"
	PaymentStateCancelled  PaymentState = "CANCELLED"
	PaymentStateRefunded   PaymentState = "REFUNDED"
)

var paymentTransitions = map[PaymentState][]PaymentState{
	PaymentStatePending:    {PaymentStateProcessing, PaymentStateCancelled},
	PaymentStateProcessing: {PaymentStateApproved, PaymentStateRejected, PaymentStateCancelled},
	PaymentStateApproved:   {PaymentStateRefunded},
	PaymentStateRejected:   {},
	PaymentStateCancelled:  {},
	PaymentStateRefunded:   {},
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodGateway, PaymentMethodCash, PaymentMethodTransfer:
		return m, nil
	}
	return "", NewError(KindValidation, "PAYMENT_METHOD_UNKNOWN", fmt.Sprintf("unknown payment method %q", s)).
		With("method", s)
}

func ParsePaymentState(s string) (PaymentState, error) {
	state := PaymentState(s)
	if _, ok := paymentTransitions[state]; !ok {
		return "", NewError(KindValidation, "PAYMENT_STATE_UNKNOWN", fmt.Sprintf("unknown payment state %q", s)).
			With("state", s)
	}
	return state, nil
}

func (s PaymentState) canTransitionTo(target PaymentState) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s PaymentState) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

// PaymentInfo is an immutable value: every transition returns a new copy.
type PaymentInfo struct {
	Method            PaymentMethod
	State             PaymentState
	Amount            Money
	PreferenceID      string
	PaymentID         string
	ExternalReference string
	RejectionReason   string
}

func NewPaymentInfo(method PaymentMethod, amount Money) (PaymentInfo, error) {
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return PaymentInfo{}, err
	}
	return PaymentInfo{
		Method: method,
		State:  PaymentStatePending,
		Amount: amount,
	}, nil
}

func (p PaymentInfo) invalidTransition(target PaymentState) *Error {
	return NewError(KindInvalidState, "PAYMENT_INVALID_TRANSITION",
		fmt.Sprintf("cannot transition payment from %s to %s", p.State, target)).
		With("current", string(p.State)).
		With("requested", string(target))
}

func (p PaymentInfo) WithPreference(preferenceID, externalReference string) PaymentInfo {
	p.PreferenceID = preferenceID
	p.ExternalReference = externalReference
	return p
}

func (p PaymentInfo) StartProcessing() (PaymentInfo, error) {
	if !p.State.canTransitionTo(PaymentStateProcessing) {
		return PaymentInfo{}, p.invalidTransition(PaymentStateProcessing)
	}
	p.State = PaymentStateProcessing
	return p, nil
}

// Approve confirms a gateway payment. Pending payments step through
// PROCESSING so a webhook can approve in one call.
func (p PaymentInfo) Approve(paymentID string) (PaymentInfo, error) {
	if p.State == PaymentStateApproved {
		return PaymentInfo{}, NewError(KindAlreadyPaid, "PAYMENT_ALREADY_APPROVED", "payment is already approved").
			With("paymentId", p.PaymentID)
	}
	if p.Method != PaymentMethodGateway {
		return PaymentInfo{}, NewError(KindInvalidState, "PAYMENT_METHOD_NOT_GATEWAY", "only gateway payments can be confirmed").
			With("method", string(p.Method))
	}
	if p.State == PaymentStatePending {
		var err error
		if p, err = p.StartProcessing(); err != nil {
			return PaymentInfo{}, err
		}
	}
	if !p.State.canTransitionTo(PaymentStateApproved) {
		return PaymentInfo{}, p.invalidTransition(PaymentStateApproved)
	}
	p.State = PaymentStateApproved
	p.PaymentID = paymentID
	return p, nil
}

// Reject records a provider rejection regardless of stored correlation
// data. Pending payments step through PROCESSING.
func (p PaymentInfo) Reject(reason string) (PaymentInfo, error) {
	if p.State == PaymentStatePending {
		var err error
		if p, err = p.StartProcessing(); err != nil {
			return PaymentInfo{}, err
		}
	}
	if !p.State.canTransitionTo(PaymentStateRejected) {
		return PaymentInfo{}, p.invalidTransition(PaymentStateRejected)
	}
	p.State = PaymentStateRejected
	p.RejectionReason = reason
	return p, nil
}

func (p PaymentInfo) Cancel() (PaymentInfo, error) {
	if !p.State.canTransitionTo(PaymentStateCancelled) {
		return PaymentInfo{}, p.invalidTransition(PaymentStateCancelled)
	}
	p.State = PaymentStateCancelled
	return p, nil
}

func (p PaymentInfo) Refund() (PaymentInfo, error) {
	if !p.State.canTransitionTo(PaymentStateRefunded) {
		return PaymentInfo{}, p.invalidTransition(PaymentStateRefunded)
	}
	p.State = PaymentStateRefunded
	return p, nil
}
