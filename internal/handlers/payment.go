package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/shopweve/internal/services"
)

// PaymentHandler fronts the payment gateway: order creation and capture
// signature verification.
type PaymentHandler struct {
	razorpay *services.RazorpayService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(razorpay *services.RazorpayService) *PaymentHandler {
	return &PaymentHandler{razorpay: razorpay}
}

type createPaymentRequest struct {
	Amount float64 `json:"amount"`
}

// CreatePaymentOrder registers a gateway order for the given rupee amount.
func (h *PaymentHandler) CreatePaymentOrder(c *fiber.Ctx) error {
	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
	}

	order, err := h.razorpay.CreateOrder(req.Amount)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Failed to create payment order")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyPayment checks the capture signature returned by the gateway.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing payment verification fields")
	}

	if !h.razorpay.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return fiber.NewError(fiber.StatusBadRequest, "Payment verification failed")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment verified successfully",
	})
}
