package webtopay

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Protocol constants. The gateway posts the callback as two fields: "data"
// carries the websafe-base64 payload, "ss1" carries its MD5 signature.
const (
	ParamData      = "data"
	ParamSignature = "ss1"

	StatusSuccess = "1"
)

var (
	ErrConfigInvalid    = errors.New("webtopay config invalid")
	ErrDataInvalid      = errors.New("webtopay data invalid")
	ErrSignatureInvalid = errors.New("webtopay signature invalid")
)

// Config gateway credentials
type Config struct {
	GatewayURL   string
	ProjectID    string
	SignPassword string
	Test         bool
}

// Validate checks the config is complete
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.GatewayURL) == "" {
		return fmt.Errorf("%w: gateway_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.ProjectID) == "" {
		return fmt.Errorf("%w: project_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.SignPassword) == "" {
		return fmt.Errorf("%w: sign_password is required", ErrConfigInvalid)
	}
	return nil
}

// PaymentRequest outbound payment request fields
type PaymentRequest struct {
	OrderID     string
	AmountCents int64 // minor currency units
	Currency    string
	Country     string
	Language    string
	PayText     string
	AcceptURL   string
	CancelURL   string
	CallbackURL string
	PayerEmail  string
}

// Callback parsed asynchronous payment notification
type Callback struct {
	ProjectID      string
	OrderID        string
	Status         string
	Payment        string // payment method chosen at the gateway
	PayAmountCents int64
	PayCurrency    string
	PayerEmail     string
	PayerName      string
	PayerSurname   string
	Test           bool
}

// Paid reports whether the notification confirms a completed payment
func (c *Callback) Paid() bool {
	return c.Status == StatusSuccess
}

// Encode packs a payment request into the signed data/signature pair the
// gateway expects. The payload is a websafe-base64 query string; the
// signature is the MD5 of the payload concatenated with the sign password.
func Encode(cfg *Config, req PaymentRequest) (data string, sign string, err error) {
	if err := cfg.Validate(); err != nil {
		return "", "", err
	}
	if strings.TrimSpace(req.OrderID) == "" {
		return "", "", fmt.Errorf("%w: orderid is required", ErrDataInvalid)
	}

	values := url.Values{}
	values.Set("projectid", cfg.ProjectID)
	values.Set("orderid", req.OrderID)
	values.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	values.Set("currency", req.Currency)
	values.Set("country", req.Country)
	values.Set("lang", req.Language)
	values.Set("paytext", req.PayText)
	values.Set("accepturl", req.AcceptURL)
	values.Set("cancelurl", req.CancelURL)
	values.Set("callbackurl", req.CallbackURL)
	values.Set("p_email", req.PayerEmail)
	if cfg.Test {
		values.Set("test", "1")
	}

	data = encodeWebsafe(values.Encode())
	sign = signMD5(data + cfg.SignPassword)
	return data, sign, nil
}

// BuildRedirectURL builds the gateway URL the buyer is redirected to
func BuildRedirectURL(cfg *Config, req PaymentRequest) (string, error) {
	data, sign, err := Encode(cfg, req)
	if err != nil {
		return "", err
	}
	redirect := url.Values{}
	redirect.Set(ParamData, data)
	redirect.Set("sign", sign)

	base := strings.TrimRight(strings.TrimSpace(cfg.GatewayURL), "/") + "/"
	return base + "?" + redirect.Encode(), nil
}

// DecodeAndVerify checks the signature against the raw data blob and only
// then decodes it. A tampered payload is rejected before any parsing.
func DecodeAndVerify(data, sign, password string) (url.Values, error) {
	expected := signMD5(data + password)
	provided := strings.ToLower(strings.TrimSpace(sign))
	if !hmac.Equal([]byte(expected), []byte(provided)) {
		return nil, ErrSignatureInvalid
	}

	decoded, err := decodeWebsafe(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataInvalid, err)
	}
	values, err := url.ParseQuery(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataInvalid, err)
	}
	return values, nil
}

// VerifyCallback verifies and parses a callback form
func VerifyCallback(cfg *Config, form map[string][]string) (*Callback, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	data := strings.TrimSpace(firstValue(form, ParamData))
	sign := strings.TrimSpace(firstValue(form, ParamSignature))
	if data == "" || sign == "" {
		return nil, ErrSignatureInvalid
	}

	values, err := DecodeAndVerify(data, sign, cfg.SignPassword)
	if err != nil {
		return nil, err
	}
	return ParseCallback(values)
}

// ParseCallback maps decoded form values onto the typed callback
func ParseCallback(values url.Values) (*Callback, error) {
	callback := &Callback{
		ProjectID:    values.Get("projectid"),
		OrderID:      values.Get("orderid"),
		Status:       values.Get("status"),
		Payment:      values.Get("payment"),
		PayCurrency:  values.Get("paycurrency"),
		PayerEmail:   values.Get("p_email"),
		PayerName:    values.Get("name"),
		PayerSurname: values.Get("surename"), // the gateway's own spelling
		Test:         values.Get("test") == "1",
	}
	if callback.OrderID == "" {
		return nil, fmt.Errorf("%w: orderid missing", ErrDataInvalid)
	}
	if raw := values.Get("payamount"); raw != "" {
		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: payamount %q", ErrDataInvalid, raw)
		}
		callback.PayAmountCents = cents
	}
	return callback, nil
}

func encodeWebsafe(content string) string {
	return base64.URLEncoding.EncodeToString([]byte(content))
}

func decodeWebsafe(content string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(content)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func signMD5(content string) string {
	sum := md5.Sum([]byte(content))
	return strings.ToLower(hex.EncodeToString(sum[:]))
}

func firstValue(form map[string][]string, key string) string {
	if values, ok := form[key]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}
