package handlers

import (
	"github.com/gofiber/fiber/v2"

	"exam_portal/internal/api/rest/middleware"
	"exam_portal/internal/dto"
	"exam_portal/internal/helper"
	"exam_portal/internal/helper/utils"
	"exam_portal/internal/services"
)

type AuthHandler struct {
	svc  services.AccountService
	auth helper.Auth
}

func NewAuthHandler(svc services.AccountService, auth helper.Auth) *AuthHandler {
	return &AuthHandler{svc: svc, auth: auth}
}

func (h *AuthHandler) SetupRoutes(api fiber.Router) {
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Login)
	authGroup.Get("/me", middleware.AuthMiddleware(h.auth), h.Me)
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}
	if err := helper.Validate.Struct(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	res, err := h.svc.Login(requestBody)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    res.Token,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return utils.ResponseSuccess(ctx, fiber.StatusOK, res)
}

func (h *AuthHandler) Me(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	profile, err := h.svc.Me(user)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, profile)
}
