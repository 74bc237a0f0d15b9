package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"
)

const razorpayOrdersURL = "https://api.razorpay.com/v1/orders"

// RazorpayService creates payment orders and verifies capture signatures
// against the shared key secret.
type RazorpayService struct {
	keyID     string
	keySecret string
	client    *http.Client
}

// NewRazorpayService creates a RazorpayService.
func NewRazorpayService(keyID, keySecret string) *RazorpayService {
	return &RazorpayService{
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// PaymentOrder is the subset of the gateway's order object exposed to the
// frontend. Credentials never leave the server.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type createOrderPayload struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

// CreateOrder registers a payment order with the gateway. The amount is in
// rupees and converted to paise on the wire.
func (s *RazorpayService) CreateOrder(amount float64) (*PaymentOrder, error) {
	if s.keyID == "" || s.keySecret == "" {
		return nil, fmt.Errorf("razorpay credentials not configured")
	}

	payload := createOrderPayload{
		Amount:         int64(math.Round(amount * 100)),
		Currency:       "INR",
		Receipt:        fmt.Sprintf("receipt_%d", time.Now().UnixMilli()),
		PaymentCapture: 1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, razorpayOrdersURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.keyID, s.keySecret)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[Razorpay] order request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("[Razorpay] unexpected status %d: %s", resp.StatusCode, raw)
		return nil, fmt.Errorf("razorpay returned status %d", resp.StatusCode)
	}

	var order PaymentOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifySignature recomputes the HMAC-SHA256 over "orderID|paymentID" with
// the key secret and compares it to the presented signature in constant time.
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
