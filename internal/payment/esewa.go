package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/Priyanka-Kadel/Cookbook-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	StatusComplete   = "COMPLETE"
	SignedFieldNames = "total_amount,transaction_uuid,product_code"
)

// requiredSignedFields must appear in a callback's signed_field_names.
var requiredSignedFields = []string{"status", "total_amount", "transaction_uuid", "product_code"}

var (
	ErrMalformedPayload = domain.KindError(domain.ErrUpstream, "payment confirmation payload is malformed")
	ErrNotComplete      = domain.KindError(domain.ErrInvalidState, "payment was not completed")
	ErrBadSignature     = domain.KindError(domain.ErrUnauthorized, "payment confirmation signature mismatch")
)

type Config struct {
	SecretKey   string
	ProductCode string
	FormURL     string
	SuccessURL  string
	FailureURL  string
}

// Form is what the client posts to the eSewa form URL to start a payment.
type Form struct {
	Action                string `json:"action"`
	Amount                string `json:"amount"`
	TaxAmount             string `json:"tax_amount"`
	ProductServiceCharge  string `json:"product_service_charge"`
	ProductDeliveryCharge string `json:"product_delivery_charge"`
	TotalAmount           string `json:"total_amount"`
	TransactionUUID       string `json:"transaction_uuid"`
	ProductCode           string `json:"product_code"`
	SuccessURL            string `json:"success_url"`
	FailureURL            string `json:"failure_url"`
	SignedFieldNames      string `json:"signed_field_names"`
	Signature             string `json:"signature"`
}

// Confirmation is a verified success callback.
type Confirmation struct {
	TransactionUUID string
	TransactionCode string
	ProductCode     string
	Status          string
	TotalAmount     decimal.Decimal
}

type EsewaGateway struct {
	cfg Config
}

func NewEsewaGateway(cfg Config) *EsewaGateway {
	return &EsewaGateway{cfg: cfg}
}

// Initiate builds the signed form for paying amount under txID.
func (g *EsewaGateway) Initiate(amount float64, txID string) *Form {
	total := FormatAmount(amount)
	return &Form{
		Action:                g.cfg.FormURL,
		Amount:                total,
		TaxAmount:             "0",
		ProductServiceCharge:  "0",
		ProductDeliveryCharge: "0",
		TotalAmount:           total,
		TransactionUUID:       txID,
		ProductCode:           g.cfg.ProductCode,
		SuccessURL:            g.cfg.SuccessURL,
		FailureURL:            g.cfg.FailureURL,
		SignedFieldNames:      SignedFieldNames,
		Signature: g.Signature(fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
			total, txID, g.cfg.ProductCode)),
	}
}

// Signature is the base64 HMAC-SHA256 of message under the merchant secret.
func (g *EsewaGateway) Signature(message string) string {
	mac := hmac.New(sha256.New, []byte(g.cfg.SecretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ParseConfirmation decodes the base64 JSON callback and accepts it only when
// the status is COMPLETE and the signature over signed_field_names matches.
// The status, amount, transaction and product fields must all be signed.
func (g *EsewaGateway) ParseConfirmation(data string) (*Confirmation, error) {
	raw, err := decodeBase64(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if field(fields, "status") != StatusComplete {
		return nil, ErrNotComplete
	}

	names := field(fields, "signed_field_names")
	signature := field(fields, "signature")
	if names == "" || signature == "" {
		return nil, ErrBadSignature
	}

	parts := strings.Split(names, ",")
	for _, required := range requiredSignedFields {
		if !slices.Contains(parts, required) {
			return nil, fmt.Errorf("%w: %s is not signed", ErrBadSignature, required)
		}
	}
	for i, name := range parts {
		parts[i] = name + "=" + field(fields, name)
	}
	expected := g.Signature(strings.Join(parts, ","))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrBadSignature
	}

	conf := &Confirmation{
		TransactionUUID: field(fields, "transaction_uuid"),
		TransactionCode: field(fields, "transaction_code"),
		ProductCode:     field(fields, "product_code"),
		Status:          StatusComplete,
	}
	if conf.TransactionUUID == "" {
		return nil, fmt.Errorf("%w: missing transaction_uuid", ErrMalformedPayload)
	}
	if conf.ProductCode != g.cfg.ProductCode {
		return nil, fmt.Errorf("%w: unexpected product code %q", ErrMalformedPayload, conf.ProductCode)
	}
	conf.TotalAmount, err = ParseAmount(field(fields, "total_amount"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return conf, nil
}

// FormatAmount renders amount rounded to paisa, without trailing zeros.
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).Round(2).String()
}

// ParseAmount accepts provider amounts such as "1,000.0".
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

// AmountMatches compares a reported amount with an order total at paisa
// precision.
func AmountMatches(reported decimal.Decimal, total float64) bool {
	return reported.Round(2).Equal(decimal.NewFromFloat(total).Round(2))
}

func field(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(s)
}
