package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/brritto/internal/config"
	"github.com/example/brritto/internal/services"
	"github.com/example/brritto/internal/session"
	"github.com/example/brritto/internal/utils"
)

// PaymentHandler brokers course checkouts and payment history.
type PaymentHandler struct {
	cfg      *config.Config
	payments *services.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(cfg *config.Config, payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{cfg: cfg, payments: payments}
}

func (h *PaymentHandler) sessionStore(c *fiber.Ctx) session.Store {
	return session.NewCookieStore(c, h.cfg.SessionCookieName, h.cfg.SessionMaxAge, h.cfg.IsProduction())
}

type checkoutRequest struct {
	Gateway string `json:"gateway"`
}

// Checkout initiates a payment for a course and returns the gateway handoff
// URL.
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result := h.payments.InitiatePayment(h.sessionStore(c), c.Params("courseId"), req.Gateway)
	if !result.Success {
		status := result.StatusCode
		if status < 400 {
			status = fiber.StatusBadGateway
		}
		return fiber.NewError(status, result.Message)
	}

	return c.JSON(fiber.Map{"success": true, "data": result.Data})
}

// History returns the student's payment history.
func (h *PaymentHandler) History(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c, 10)

	result := h.payments.GetPaymentHistory(h.sessionStore(c), pg.Page, pg.Limit)
	if !result.Success {
		status := result.StatusCode
		if status < 400 {
			status = fiber.StatusBadGateway
		}
		return fiber.NewError(status, result.Message)
	}

	return c.JSON(fiber.Map{"success": true, "data": result.Payments})
}
