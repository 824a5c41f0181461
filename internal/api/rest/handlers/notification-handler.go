package handlers

import (
	"github.com/gofiber/fiber/v2"

	"exam_portal/internal/api/rest/middleware"
	"exam_portal/internal/dto"
	"exam_portal/internal/helper"
	"exam_portal/internal/helper/utils"
	"exam_portal/internal/services"
)

type NotificationHandler struct {
	svc  services.NotificationService
	auth helper.Auth
}

func NewNotificationHandler(svc services.NotificationService, auth helper.Auth) *NotificationHandler {
	return &NotificationHandler{svc: svc, auth: auth}
}

func (h *NotificationHandler) SetupRoutes(api fiber.Router) {
	student := api.Group("/student/notifications",
		middleware.AuthMiddleware(h.auth), middleware.StudentOnly())
	student.Get("/", h.List)
	student.Post("/read", h.MarkRead)
}

func (h *NotificationHandler) List(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	limit, offset := paging(ctx)
	list, err := h.svc.List(user.UserID, limit, offset)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	var requestBody dto.MarkReadRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}

	if err := h.svc.MarkRead(user.UserID, requestBody); err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "notifications marked as read")
}
