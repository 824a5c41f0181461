package handlers

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"exam_portal/internal/api/rest/middleware"
	"exam_portal/internal/domain"
	"exam_portal/internal/dto"
	"exam_portal/internal/helper"
	"exam_portal/internal/helper/utils"
	"exam_portal/internal/repository"
	"exam_portal/internal/services"
)

type ApplicationHandler struct {
	svc  services.ApplicationService
	auth helper.Auth
}

func NewApplicationHandler(svc services.ApplicationService, auth helper.Auth) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, auth: auth}
}

func (h *ApplicationHandler) SetupRoutes(api fiber.Router) {
	authMw := middleware.AuthMiddleware(h.auth)

	// shared read, scoped per role inside the service
	api.Get("/applications/:appID", authMw, h.Get)

	student := api.Group("/student", authMw, middleware.StudentOnly())
	student.Post("/applications", h.Submit)
	student.Get("/applications", h.ListMine)

	officer := api.Group("/officer", authMw, middleware.OfficerOnly())
	officer.Get("/applications", h.Queue)
	officer.Post("/applications/:appID/review", h.Review)

	lecturer := api.Group("/lecturer", authMw, middleware.LecturerOnly())
	lecturer.Get("/applications", h.Assigned)
	lecturer.Post("/applications/:appID/marks", h.Mark)
}

func toApplicationResponse(app domain.ExamApplication) dto.ApplicationResponse {
	res := dto.ApplicationResponse{
		ApplicationID: app.ApplicationID,
		Status:        string(app.Status),
		YearOfStudy:   app.YearOfStudy,
		ExamType:      string(app.ExamType),
		UnitName:      app.UnitName,
		UnitCode:      app.UnitCode,
		YearTaken:     app.YearTaken,
		SemesterTaken: app.SemesterTaken,
		DocumentURL:   app.DocumentURL,
		AutoVerified:  app.AutoVerified,
		SubmittedAt:   app.SubmittedAt,
		UpdatedAt:     app.UpdatedAt,
	}
	if app.AssignedLecturer != nil {
		name := app.AssignedLecturer.FullName()
		res.AssignedLecturer = &name
	}
	return res
}

func toApplicationList(apps []domain.ExamApplication, total int64) dto.ApplicationList {
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		items = append(items, toApplicationResponse(app))
	}
	return dto.ApplicationList{Items: items, Total: total}
}

func parseApplicationQuery(ctx *fiber.Ctx) repository.ApplicationQuery {
	q := repository.ApplicationQuery{
		ExamType: ctx.Query("exam_type"),
		Search:   ctx.Query("search"),
		Limit:    ctx.QueryInt("limit", 20),
		Offset:   ctx.QueryInt("offset", 0),
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	if raw := ctx.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := domain.ApplicationStatus(strings.TrimSpace(s))
			if status.Valid() {
				q.Statuses = append(q.Statuses, status)
			}
		}
	}
	return q
}

func (h *ApplicationHandler) Submit(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	var requestBody dto.ApplicationSubmit
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid form inputs")
	}
	if err := helper.Validate.Struct(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	file, err := ctx.FormFile("document")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "a supporting document is required")
	}

	f, err := file.Open()
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "cannot open uploaded file")
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "cannot read uploaded file")
	}

	doc := dto.DocumentUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Bytes:       b,
	}

	app, err := h.svc.Submit(ctx.Context(), user.UserID, requestBody, doc)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, toApplicationResponse(*app))
}

func (h *ApplicationHandler) ListMine(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	apps, total, err := h.svc.ListForStudent(user.UserID, parseApplicationQuery(ctx))
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, toApplicationList(apps, total))
}

func (h *ApplicationHandler) Get(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	app, err := h.svc.Get(user, ctx.Params("appID"))
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}

	// full record for the detail view, relations included
	return utils.ResponseSuccess(ctx, fiber.StatusOK, app)
}

func (h *ApplicationHandler) Queue(ctx *fiber.Ctx) error {
	q := parseApplicationQuery(ctx)
	if len(q.Statuses) == 0 {
		q.Statuses = []domain.ApplicationStatus{domain.StatusSubmitted, domain.StatusUnderReview}
	}

	apps, total, err := h.svc.List(q)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, toApplicationList(apps, total))
}

func (h *ApplicationHandler) Review(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	var requestBody dto.ReviewRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide a valid decision")
	}
	if err := helper.Validate.Struct(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	result, err := h.svc.Review(user.UserID, ctx.Params("appID"), requestBody)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, result)
}

func (h *ApplicationHandler) Assigned(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	apps, total, err := h.svc.ListForLecturer(user.UserID, parseApplicationQuery(ctx))
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, toApplicationList(apps, total))
}

func (h *ApplicationHandler) Mark(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	var requestBody dto.MarkingRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid marks")
	}

	result, err := h.svc.Mark(user.UserID, ctx.Params("appID"), requestBody)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, result)
}
