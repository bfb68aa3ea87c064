package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/brritto/internal/models"
	"github.com/example/brritto/internal/services"
	"github.com/example/brritto/internal/validators"
)

// ContactHandler accepts contact form submissions and relays them to the
// admin Telegram chat.
type ContactHandler struct {
	telegram *services.TelegramService
	log      *zap.SugaredLogger
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(telegram *services.TelegramService, log *zap.SugaredLogger) *ContactHandler {
	return &ContactHandler{telegram: telegram, log: log}
}

// GetInfo returns the static contact information block.
func (h *ContactHandler) GetInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": models.ContactInfo{
			Location: "Dhaka, Bangladesh",
			Email:    "support@brritto.com",
			Phone:    "+880 1700-000000",
			SocialMedia: map[string]string{
				"facebook": "https://facebook.com/brritto",
				"youtube":  "https://youtube.com/@brritto",
			},
		},
	})
}

// Submit validates and forwards a contact form submission.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var form models.ContactFormData
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Subject = strings.TrimSpace(form.Subject)
	form.Message = strings.TrimSpace(form.Message)

	errs := models.FormErrors{}
	if form.Name == "" {
		errs["name"] = "Name is required"
	}
	if form.Email == "" {
		errs["email"] = "Email is required"
	} else if !validators.IsValidEmail(form.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	if form.Subject == "" {
		errs["subject"] = "Subject is required"
	}
	if form.Message == "" {
		errs["message"] = "Message is required"
	}
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errors": errs})
	}

	if err := h.telegram.NotifyContactMessage(form); err != nil {
		h.log.Errorw("relay contact message", "error", err)
		return fiber.NewError(fiber.StatusBadGateway, "Failed to send message. Please try again later.")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Message sent successfully. We will get back to you soon."})
}
