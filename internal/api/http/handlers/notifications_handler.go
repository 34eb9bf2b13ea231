package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/service"
)

// NotificationsHandler exposes the per-user notification feed.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs the handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	pageSize := parseInt(c.Query("page_size"), 20)
	offset := (parseInt(c.Query("page"), 1) - 1) * pageSize

	notifications, err := h.service.ListForUser(c.Context(), user.ID, c.QueryBool("unread_only"), pageSize, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": notifications})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.Context(), user.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}
