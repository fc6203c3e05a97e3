package dto

// PreferenceItem is one line of a gateway checkout preference.
type PreferenceItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency_id"`
}

type PreferenceConfig struct {
	ExternalReference string
	Items             []PreferenceItem
	PayerName         string
	PayerEmail        string
	SuccessURL        string
	FailureURL        string
	NotificationURL   string
}

// Preference is the provider's created checkout session.
type Preference struct {
	ID                string
	InitPoint         string
	ExternalReference string
}

// PaymentData is the provider's view of a payment, normalized for the
// order layer.
type PaymentData struct {
	PaymentID         string
	Status            string
	StatusDetail      string
	ExternalReference string
	TransactionAmount float64
	Currency          string
}

// PaymentWebhookRequest is the raw notification body posted by the
// provider; only payment topics carry a usable data id.
type PaymentWebhookRequest struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
