package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinOrderItems = 1
	MaxOrderItems = 50
)

type DeliveryType string

const (
	DeliveryTypePickup   DeliveryType = "PICKUP"
	DeliveryTypeDelivery DeliveryType = "DELIVERY"
)

var (
	orderIDPattern = regexp.MustCompile(`(?i)^PED-[A-Z0-9]{6,}$`)
	emailPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NewOrderID generates an id in the PED-XXXXXXXX format. Explicitly
// supplied ids (imports, fixtures) may use any non-empty string.
func NewOrderID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "PED-" + suffix[:8]
}

func IsGeneratedOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}

// Customer is the buyer snapshot frozen into the order at checkout.
type Customer struct {
	ID    string
	Name  string
	Email string
	Phone string
}

type DeliveryInfo struct {
	Type    DeliveryType
	Address string
	Fee     Money
}

// Order is the aggregate root: items, payment info and status are owned
// by it and only change through its methods.
type Order struct {
	ID                 string
	Customer           Customer
	Items              []OrderItem
	Status             OrderStatus
	History            []StatusChange
	Payment            *PaymentInfo
	Delivery           DeliveryInfo
	Discount           Money
	Tax                Money
	CancellationReason string
	Notes              string
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewOrder(customer Customer, items []OrderItem, delivery DeliveryInfo, method PaymentMethod, notes string) (*Order, error) {
	if customer.ID == "" {
		return nil, NewError(KindValidation, "ORDER_CUSTOMER_ID_REQUIRED", "customer id is required")
	}
	if customer.Name == "" {
		return nil, NewError(KindValidation, "ORDER_CUSTOMER_NAME_REQUIRED", "customer name is required").
			With("customerId", customer.ID)
	}
	if !emailPattern.MatchString(customer.Email) {
		return nil, NewError(KindValidation, "ORDER_CUSTOMER_EMAIL_INVALID", "customer email is missing or malformed").
			With("customerId", customer.ID).
			With("email", customer.Email)
	}
	if len(items) < MinOrderItems {
		return nil, NewError(KindValidation, "ORDER_ITEMS_EMPTY", "order must contain at least one item")
	}
	if len(items) > MaxOrderItems {
		return nil, NewError(KindLimitExceeded, "ORDER_ITEMS_LIMIT", "order exceeds the maximum number of items").
			With("items", len(items)).
			With("max", MaxOrderItems)
	}

	currency := items[0].UnitPrice.Currency()
	for _, item := range items {
		if item.UnitPrice.Currency() != currency {
			return nil, NewError(KindValidation, "ORDER_MIXED_CURRENCIES", "all order items must share one currency").
				With("productId", item.ProductID)
		}
	}

	switch delivery.Type {
	case DeliveryTypePickup, DeliveryTypeDelivery:
	default:
		return nil, NewError(KindValidation, "ORDER_DELIVERY_TYPE_INVALID", "delivery type must be PICKUP or DELIVERY").
			With("type", string(delivery.Type))
	}
	if delivery.Type == DeliveryTypeDelivery && strings.TrimSpace(delivery.Address) == "" {
		return nil, NewError(KindValidation, "ORDER_DELIVERY_ADDRESS_REQUIRED", "delivery orders require an address")
	}

	zero, err := ZeroMoney(currency)
	if err != nil {
		return nil, err
	}
	if delivery.Fee.currency == "" {
		delivery.Fee = zero
	} else if delivery.Fee.Currency() != currency {
		return nil, NewError(KindValidation, "ORDER_FEE_CURRENCY_MISMATCH", "delivery fee currency must match item currency")
	}

	now := time.Now().UTC()
	order := &Order{
		ID:       NewOrderID(),
		Customer: customer,
		Items:    append([]OrderItem(nil), items...),
		Status:   OrderStatusPendingPayment,
		History: []StatusChange{
			{To: OrderStatusPendingPayment, At: now},
		},
		Delivery:  delivery,
		Discount:  zero,
		Tax:       zero,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	total, err := order.Total()
	if err != nil {
		return nil, err
	}
	payment, err := NewPaymentInfo(method, total)
	if err != nil {
		return nil, err
	}
	order.Payment = &payment

	return order, nil
}

func (o *Order) transition(to OrderStatus, reason string) error {
	if !o.Status.CanTransitionTo(to) {
		return invalidTransition(o.Status, to)
	}
	now := time.Now().UTC()
	o.History = append(o.History, StatusChange{From: o.Status, To: to, At: now, Reason: reason})
	o.Status = to
	o.UpdatedAt = now
	return nil
}

// Confirm moves the order into payment processing.
func (o *Order) Confirm() error {
	if err := o.transition(OrderStatusPaymentProcessing, ""); err != nil {
		return err
	}
	if o.Payment != nil && o.Payment.State == PaymentStatePending {
		payment, err := o.Payment.StartProcessing()
		if err != nil {
			return err
		}
		o.Payment = &payment
	}
	return nil
}

// AttachPreference stores the gateway correlation created for this order.
func (o *Order) AttachPreference(preferenceID, externalReference string) error {
	if o.Payment == nil {
		return NewError(KindInvalidState, "ORDER_PAYMENT_NOT_CONFIGURED", "order has no payment info configured").
			With("orderId", o.ID)
	}
	payment := o.Payment.WithPreference(preferenceID, externalReference)
	o.Payment = &payment
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkAsPaid drives the payment and order state machines together. The
// payment transition is computed first so a failure leaves the order
// untouched.
func (o *Order) MarkAsPaid(paymentID string) error {
	if o.Payment == nil {
		return NewError(KindInvalidState, "ORDER_PAYMENT_NOT_CONFIGURED", "order has no payment info configured").
			With("orderId", o.ID)
	}
	payment, err := o.Payment.Approve(paymentID)
	if err != nil {
		return err
	}
	if o.Status == OrderStatusPendingPayment {
		if err := o.transition(OrderStatusPaymentProcessing, ""); err != nil {
			return err
		}
	}
	if err := o.transition(OrderStatusPaymentConfirmed, ""); err != nil {
		return err
	}
	o.Payment = &payment
	return nil
}

// RejectPayment records a provider rejection. PAYMENT_REJECTED is terminal.
func (o *Order) RejectPayment(reason string) error {
	if o.Payment == nil {
		return NewError(KindInvalidState, "ORDER_PAYMENT_NOT_CONFIGURED", "order has no payment info configured").
			With("orderId", o.ID)
	}
	payment, err := o.Payment.Reject(reason)
	if err != nil {
		return err
	}
	if o.Status == OrderStatusPendingPayment {
		if err := o.transition(OrderStatusPaymentProcessing, ""); err != nil {
			return err
		}
	}
	if err := o.transition(OrderStatusPaymentRejected, reason); err != nil {
		return err
	}
	o.Payment = &payment
	return nil
}

func (o *Order) StartPreparation() error {
	return o.transition(OrderStatusPreparing, "")
}

func (o *Order) MarkAsReady() error {
	return o.transition(OrderStatusReadyForDelivery, "")
}

// Dispatch is only meaningful for delivery orders; pickup orders go
// straight from READY_FOR_DELIVERY to DELIVERED.
func (o *Order) Dispatch() error {
	if o.Delivery.Type != DeliveryTypeDelivery {
		return NewError(KindInvalidState, "ORDER_NOT_DELIVERABLE", "only delivery orders can be dispatched").
			With("orderId", o.ID).
			With("deliveryType", string(o.Delivery.Type))
	}
	return o.transition(OrderStatusInTransit, "")
}

func (o *Order) MarkAsDelivered() error {
	return o.transition(OrderStatusDelivered, "")
}

func (o *Order) Cancel(reason string) error {
	if !o.Status.CanBeCancelled() {
		return NewError(KindCannotCancel, "ORDER_CANNOT_BE_CANCELLED", "order can no longer be cancelled").
			With("orderId", o.ID).
			With("status", string(o.Status))
	}
	if err := o.transition(OrderStatusCancelled, reason); err != nil {
		return err
	}
	o.CancellationReason = reason
	if o.Payment != nil && o.Payment.State.canTransitionTo(PaymentStateCancelled) {
		payment, err := o.Payment.Cancel()
		if err != nil {
			return err
		}
		o.Payment = &payment
	}
	return nil
}

// MarkRefunded records a gateway refund for an approved payment. Cancelling
// a paid order is a two-step flow: refund, then cancel.
func (o *Order) MarkRefunded() error {
	if o.Payment == nil {
		return NewError(KindInvalidState, "ORDER_PAYMENT_NOT_CONFIGURED", "order has no payment info configured").
			With("orderId", o.ID)
	}
	payment, err := o.Payment.Refund()
	if err != nil {
		return err
	}
	o.Payment = &payment
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (o *Order) Subtotal() (Money, error) {
	subtotal, err := ZeroMoney(o.currency())
	if err != nil {
		return Money{}, err
	}
	for _, item := range o.Items {
		line, err := item.Subtotal()
		if err != nil {
			return Money{}, err
		}
		if subtotal, err = subtotal.Add(line); err != nil {
			return Money{}, err
		}
	}
	return subtotal, nil
}

// Total is subtotal + delivery fee + tax - discount. Applying a discount
// that would push it negative is rejected up front, never floored.
func (o *Order) Total() (Money, error) {
	total, err := o.Subtotal()
	if err != nil {
		return Money{}, err
	}
	if !o.Delivery.Fee.IsZero() {
		if total, err = total.Add(o.Delivery.Fee); err != nil {
			return Money{}, err
		}
	}
	if !o.Tax.IsZero() {
		if total, err = total.Add(o.Tax); err != nil {
			return Money{}, err
		}
	}
	if !o.Discount.IsZero() {
		if total, err = total.Subtract(o.Discount); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

func (o *Order) ApplyDiscount(discount Money) error {
	if !o.CanBeModified() {
		return NewError(KindInvalidState, "ORDER_NOT_MODIFIABLE", "order can no longer be modified").
			With("orderId", o.ID).
			With("status", string(o.Status))
	}
	if discount.Currency() != o.currency() {
		return NewError(KindValidation, "ORDER_DISCOUNT_CURRENCY_MISMATCH", "discount currency must match order currency")
	}
	previous := o.Discount
	o.Discount = discount
	if _, err := o.Total(); err != nil {
		o.Discount = previous
		return NewError(KindValidation, "ORDER_DISCOUNT_EXCEEDS_TOTAL", "discount exceeds the order total").
			With("orderId", o.ID).
			With("discount", discount.Float64())
	}
	o.refreshPaymentAmount()
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (o *Order) ApplyTax(tax Money) error {
	if !o.CanBeModified() {
		return NewError(KindInvalidState, "ORDER_NOT_MODIFIABLE", "order can no longer be modified").
			With("orderId", o.ID).
			With("status", string(o.Status))
	}
	if tax.Currency() != o.currency() {
		return NewError(KindValidation, "ORDER_TAX_CURRENCY_MISMATCH", "tax currency must match order currency")
	}
	o.Tax = tax
	o.refreshPaymentAmount()
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// refreshPaymentAmount keeps an unsettled payment in sync with the total
// after discount or tax changes. The order stays modifiable through
// PAYMENT_PROCESSING, so the processing amount must track the total too.
func (o *Order) refreshPaymentAmount() {
	if o.Payment == nil {
		return
	}
	if o.Payment.State != PaymentStatePending && o.Payment.State != PaymentStateProcessing {
		return
	}
	total, err := o.Total()
	if err != nil {
		return
	}
	payment := *o.Payment
	payment.Amount = total
	o.Payment = &payment
}

func (o *Order) TotalItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (o *Order) CanBeCancelled() bool {
	return o.Status.CanBeCancelled()
}

// CanBeModified reports whether totals may still change: true until the
// payment is confirmed.
func (o *Order) CanBeModified() bool {
	return o.Status == OrderStatusPendingPayment || o.Status == OrderStatusPaymentProcessing
}

func (o *Order) currency() Currency {
	if len(o.Items) == 0 {
		return DefaultCurrency
	}
	return o.Items[0].UnitPrice.Currency()
}
