// internal/payment/razorpay.go
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/crewbase/crewbase/internal/domain"
	razorpay "github.com/razorpay/razorpay-go"
)

// OrderClient is the slice of the Razorpay SDK we actually call. Tests swap
// it for a stub.
type OrderClient interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Gateway creates gateway orders and verifies checkout signatures.
type Gateway struct {
	orders    OrderClient
	keyID     string
	keySecret string
}

func NewGateway(keyID, keySecret string) *Gateway {
	client := razorpay.NewClient(keyID, keySecret)
	return &Gateway{
		orders:    client.Order,
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// NewGatewayWithClient wires an explicit order client, used in tests.
func NewGatewayWithClient(orders OrderClient, keyID, keySecret string) *Gateway {
	return &Gateway{orders: orders, keyID: keyID, keySecret: keySecret}
}

// KeyID is exposed so the frontend checkout widget can be initialized.
func (g *Gateway) KeyID() string { return g.keyID }

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// CreateOrder opens a gateway order for the given amount in the currency's
// smallest unit (paise for INR).
func (g *Gateway) CreateOrder(amount int64, currency, receipt string) (*Order, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if currency == "" {
		currency = "INR"
	}

	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	resp, err := g.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("creating razorpay order: %w", err)
	}

	id, _ := resp["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	order := &Order{
		ID:       id,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}
	if c, ok := resp["currency"].(string); ok && c != "" {
		order.Currency = c
	}

	return order, nil
}

// VerifySignature recomputes HMAC-SHA256(keySecret, orderID|paymentID) and
// compares it to the signature the checkout widget handed to the client.
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrSignatureMismatch
	}
	return nil
}
