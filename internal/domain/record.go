package domain

import "time"

// OrderRecord is the flat persistence shape of an order. Money fields are
// plain numbers; the currency is carried once at order level.
type OrderRecord struct {
	ID                 string               `json:"id"`
	CustomerID         string               `json:"customerId"`
	CustomerName       string               `json:"customerName"`
	CustomerEmail      string               `json:"customerEmail"`
	CustomerPhone      string               `json:"customerPhone,omitempty"`
	DeliveryType       string               `json:"deliveryType"`
	DeliveryAddress    string               `json:"deliveryAddress,omitempty"`
	DeliveryFee        float64              `json:"deliveryFee,omitempty"`
	Currency           string               `json:"currency"`
	Status             string               `json:"status"`
	StatusHistory      []StatusChangeRecord `json:"statusHistory"`
	PaymentMethod      string               `json:"paymentMethod,omitempty"`
	PaymentState       string               `json:"paymentState,omitempty"`
	PaymentAmount      float64              `json:"paymentAmount,omitempty"`
	PaymentID          string               `json:"paymentId,omitempty"`
	PreferenceID       string               `json:"preferenceId,omitempty"`
	ExternalReference  string               `json:"externalReference,omitempty"`
	RejectionReason    string               `json:"rejectionReason,omitempty"`
	Items              []OrderItemRecord    `json:"items"`
	Discount           float64              `json:"discount,omitempty"`
	Tax                float64              `json:"tax,omitempty"`
	CancellationReason string               `json:"cancellationReason,omitempty"`
	Notes              string               `json:"notes,omitempty"`
	Version            int                  `json:"version"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

type OrderItemRecord struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type StatusChangeRecord struct {
	From   string    `json:"from,omitempty"`
	To     string    `json:"to"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason,omitempty"`
}

// moneyFromRecord rebuilds a stored amount; zero is legal here because
// persisted discounts, taxes and fees default to zero.
func moneyFromRecord(value float64, currency Currency) (Money, error) {
	if value == 0 {
		return ZeroMoney(currency)
	}
	return NewMoney(value, currency)
}

func (o *Order) ToRecord() OrderRecord {
	items := make([]OrderItemRecord, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemRecord{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.UnitPrice.Float64(),
			Quantity:    item.Quantity,
		}
	}

	history := make([]StatusChangeRecord, len(o.History))
	for i, change := range o.History {
		history[i] = StatusChangeRecord{
			From:   string(change.From),
			To:     string(change.To),
			At:     change.At,
			Reason: change.Reason,
		}
	}

	rec := OrderRecord{
		ID:                 o.ID,
		CustomerID:         o.Customer.ID,
		CustomerName:       o.Customer.Name,
		CustomerEmail:      o.Customer.Email,
		CustomerPhone:      o.Customer.Phone,
		DeliveryType:       string(o.Delivery.Type),
		DeliveryAddress:    o.Delivery.Address,
		DeliveryFee:        o.Delivery.Fee.Float64(),
		Currency:           string(o.currency()),
		Status:             string(o.Status),
		StatusHistory:      history,
		Items:              items,
		Discount:           o.Discount.Float64(),
		Tax:                o.Tax.Float64(),
		CancellationReason: o.CancellationReason,
		Notes:              o.Notes,
		Version:            o.Version,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}

	if o.Payment != nil {
		rec.PaymentMethod = string(o.Payment.Method)
		rec.PaymentState = string(o.Payment.State)
		rec.PaymentAmount = o.Payment.Amount.Float64()
		rec.PaymentID = o.Payment.PaymentID
		rec.PreferenceID = o.Payment.PreferenceID
		rec.ExternalReference = o.Payment.ExternalReference
		rec.RejectionReason = o.Payment.RejectionReason
	}

	return rec
}

// OrderFromRecord rebuilds the aggregate, validating enums and amounts but
// preserving ids, timestamps and history exactly.
func OrderFromRecord(rec OrderRecord) (*Order, error) {
	if rec.ID == "" {
		return nil, NewError(KindValidation, "ORDER_ID_REQUIRED", "order record is missing an id")
	}

	status, err := ParseOrderStatus(rec.Status)
	if err != nil {
		return nil, err
	}

	currency := Currency(rec.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	items := make([]OrderItem, len(rec.Items))
	for i, ir := range rec.Items {
		price, err := NewMoney(ir.Price, currency)
		if err != nil {
			return nil, err
		}
		item, err := NewOrderItem(ir.ProductID, ir.ProductName, price, ir.Quantity)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}

	history := make([]StatusChange, len(rec.StatusHistory))
	for i, hr := range rec.StatusHistory {
		history[i] = StatusChange{
			From:   OrderStatus(hr.From),
			To:     OrderStatus(hr.To),
			At:     hr.At,
			Reason: hr.Reason,
		}
	}

	fee, err := moneyFromRecord(rec.DeliveryFee, currency)
	if err != nil {
		return nil, err
	}
	discount, err := moneyFromRecord(rec.Discount, currency)
	if err != nil {
		return nil, err
	}
	tax, err := moneyFromRecord(rec.Tax, currency)
	if err != nil {
		return nil, err
	}

	order := &Order{
		ID: rec.ID,
		Customer: Customer{
			ID:    rec.CustomerID,
			Name:  rec.CustomerName,
			Email: rec.CustomerEmail,
			Phone: rec.CustomerPhone,
		},
		Items:   items,
		Status:  status,
		History: history,
		Delivery: DeliveryInfo{
			Type:    DeliveryType(rec.DeliveryType),
			Address: rec.DeliveryAddress,
			Fee:     fee,
		},
		Discount:           discount,
		Tax:                tax,
		CancellationReason: rec.CancellationReason,
		Notes:              rec.Notes,
		Version:            rec.Version,
		CreatedAt:          rec.CreatedAt,
		UpdatedAt:          rec.UpdatedAt,
	}

	if rec.PaymentMethod != "" {
		method, err := ParsePaymentMethod(rec.PaymentMethod)
		if err != nil {
			return nil, err
		}
		state, err := ParsePaymentState(rec.PaymentState)
		if err != nil {
			return nil, err
		}
		amount, err := moneyFromRecord(rec.PaymentAmount, currency)
		if err != nil {
			return nil, err
		}
		order.Payment = &PaymentInfo{
			Method:            method,
			State:             state,
			Amount:            amount,
			PaymentID:         rec.PaymentID,
			PreferenceID:      rec.PreferenceID,
			ExternalReference: rec.ExternalReference,
			RejectionReason:   rec.RejectionReason,
		}
	}

	return order, nil
}
