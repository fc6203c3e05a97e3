package mercadopago

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"hornero/internal/config"
	"hornero/internal/dto"
	apperrors "hornero/internal/errors"

	"go.uber.org/zap"
)

const provider = "mercadopago"

// Client talks to the Mercado Pago REST API. It implements the payment
// gateway contract consumed by the order layer.
type Client struct {
	baseURL       string
	accessToken   string
	webhookSecret string
	httpClient    *http.Client
	logger        *zap.Logger
}

func NewClient(cfg config.PaymentConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		accessToken:   cfg.AccessToken,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		logger:        logger,
	}
}

type preferenceRequest struct {
	Items             []dto.PreferenceItem `json:"items"`
	Payer             preferencePayer      `json:"payer"`
	ExternalReference string               `json:"external_reference"`
	BackURLs          preferenceBackURLs   `json:"back_urls"`
	NotificationURL   string               `json:"notification_url,omitempty"`
	AutoReturn        string               `json:"auto_return,omitempty"`
}

type preferencePayer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type preferenceBackURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
}

type preferenceResponse struct {
	ID                string `json:"id"`
	InitPoint         string `json:"init_point"`
	ExternalReference string `json:"external_reference"`
}

type paymentResponse struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	StatusDetail      string      `json:"status_detail"`
	ExternalReference string      `json:"external_reference"`
	TransactionAmount float64     `json:"transaction_amount"`
	CurrencyID        string      `json:"currency_id"`
}

func (c *Client) CreatePreference(ctx context.Context, cfg dto.PreferenceConfig) (*dto.Preference, error) {
	req := preferenceRequest{
		Items:             cfg.Items,
		Payer:             preferencePayer{Name: cfg.PayerName, Email: cfg.PayerEmail},
		ExternalReference: cfg.ExternalReference,
		BackURLs:          preferenceBackURLs{Success: cfg.SuccessURL, Failure: cfg.FailureURL},
		NotificationURL:   cfg.NotificationURL,
	}
	if cfg.SuccessURL != "" {
		req.AutoReturn = "approved"
	}

	var resp preferenceResponse
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", req, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("payment preference created",
		zap.String("preferenceId", resp.ID),
		zap.String("externalReference", resp.ExternalReference),
	)
	return &dto.Preference{
		ID:                resp.ID,
		InitPoint:         resp.InitPoint,
		ExternalReference: resp.ExternalReference,
	}, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*dto.PaymentData, error) {
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &resp); err != nil {
		return nil, err
	}
	return &dto.PaymentData{
		PaymentID:         resp.ID.String(),
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
		TransactionAmount: resp.TransactionAmount,
		Currency:          resp.CurrencyID,
	}, nil
}

// ProcessNotification resolves a webhook body to payment data. Topics
// other than payments return nil so callers can acknowledge and move on.
func (c *Client) ProcessNotification(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
	var notification dto.PaymentWebhookRequest
	if err := json.Unmarshal(payload, &notification); err != nil {
		return nil, apperrors.NewValidationError("invalid webhook payload", apperrors.ValidationDetail{
			Field:   "body",
			Message: "webhook body must be valid JSON",
		})
	}
	if notification.Type != "payment" || notification.Data.ID == "" {
		return nil, nil
	}
	return c.GetPayment(ctx, notification.Data.ID)
}

func (c *Client) Refund(ctx context.Context, paymentID string, amount *float64) error {
	var body any
	if amount != nil {
		body = map[string]float64{"amount": *amount}
	}
	if err := c.do(ctx, http.MethodPost, "/v1/payments/"+paymentID+"/refunds", body, nil); err != nil {
		return err
	}
	c.logger.Info("payment refunded", zap.String("paymentId", paymentID))
	return nil
}

// ValidateSignature checks the x-signature header (ts=...,v1=...) against
// an HMAC-SHA256 of the documented manifest. An unset secret disables the
// check for local development.
func (c *Client) ValidateSignature(payload []byte, signature, requestID string) bool {
	if c.webhookSecret == "" {
		return true
	}

	var ts, v1 string
	for _, part := range strings.Split(signature, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			v1 = value
		}
	}
	if ts == "" || v1 == "" {
		return false
	}

	var notification dto.PaymentWebhookRequest
	if err := json.Unmarshal(payload, &notification); err != nil {
		return false
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", notification.Data.ID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(v1))
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewPaymentError("payment provider request failed", provider, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.NewPaymentError(
			"payment provider returned "+strconv.Itoa(resp.StatusCode)+": "+string(snippet),
			provider, "", nil,
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.NewPaymentError("decoding payment provider response", provider, "", err)
		}
	}
	return nil
}
