package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPendingPayment    OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaymentProcessing OrderStatus = "PAYMENT_PROCESSING"
	OrderStatusPaymentConfirmed  OrderStatus = "PAYMENT_CONFIRMED"
	OrderStatusPaymentRejected   OrderStatus = "PAYMENT_REJECTED"
	OrderStatusPreparing         OrderStatus = "PREPARING"
	OrderStatusReadyForDelivery  OrderStatus = "READY_FOR_DELIVERY"
	OrderStatusInTransit         OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered         OrderStatus = "DELIVERED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingPayment:    {OrderStatusPaymentProcessing, OrderStatusCancelled},
	OrderStatusPaymentProcessing: {OrderStatusPaymentConfirmed, OrderStatusPaymentRejected, OrderStatusCancelled},
	OrderStatusPaymentConfirmed:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPaymentRejected:   {},
	OrderStatusPreparing:         {OrderStatusReadyForDelivery, OrderStatusCancelled},
	OrderStatusReadyForDelivery:  {OrderStatusInTransit, OrderStatusDelivered},
	OrderStatusInTransit:         {OrderStatusDelivered},
	OrderStatusDelivered:         {},
	OrderStatusCancelled:         {},
}

var cancellableStatuses = map[OrderStatus]bool{
	OrderStatusPendingPayment:    true,
	OrderStatusPaymentProcessing: true,
	OrderStatusPaymentConfirmed:  true,
	OrderStatusPreparing:         true,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderTransitions[status]; !ok {
		return "", NewError(KindValidation, "ORDER_STATUS_UNKNOWN", fmt.Sprintf("unknown order status %q", s)).
			With("status", s)
	}
	return status, nil
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) CanBeCancelled() bool {
	return cancellableStatuses[s]
}

// StatusChange records one applied transition. The initial entry has an
// empty From.
type StatusChange struct {
	From   OrderStatus
	To     OrderStatus
	At     time.Time
	Reason string
}

func invalidTransition(from, to OrderStatus) *Error {
	return NewError(KindInvalidState, "ORDER_INVALID_TRANSITION",
		fmt.Sprintf("cannot transition order from %s to %s", from, to)).
		With("current", string(from)).
		With("requested", string(to))
}
