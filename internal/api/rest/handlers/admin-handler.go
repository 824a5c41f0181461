package handlers

import (
	"github.com/gofiber/fiber/v2"

	"exam_portal/internal/api/rest/middleware"
	"exam_portal/internal/domain"
	"exam_portal/internal/dto"
	"exam_portal/internal/helper"
	"exam_portal/internal/helper/utils"
	"exam_portal/internal/repository"
	"exam_portal/internal/services"
)

type AdminHandler struct {
	accounts     services.AccountService
	applications services.ApplicationService
	auth         helper.Auth
}

func NewAdminHandler(accounts services.AccountService, applications services.ApplicationService, auth helper.Auth) *AdminHandler {
	return &AdminHandler{accounts: accounts, applications: applications, auth: auth}
}

func (h *AdminHandler) SetupRoutes(api fiber.Router) {
	authMw := middleware.AuthMiddleware(h.auth)

	admin := api.Group("/admin", authMw, middleware.AdminOnly())

	admin.Post("/students", h.CreateStudent)
	admin.Get("/students", h.ListStudents)
	admin.Patch("/students/:id", h.UpdateStudent)
	admin.Delete("/students/:id", h.DeleteStudent)
	admin.Post("/officers", h.CreateOfficer)
	admin.Get("/officers", h.ListOfficers)
	admin.Post("/lecturers", h.CreateLecturer)
	admin.Get("/lecturers", h.ListLecturers)

	admin.Post("/unit-assignments", h.CreateUnitAssignment)
	admin.Get("/applications", h.ListApplications)
	admin.Patch("/applications/:appID/status", h.AdvanceStatus)
	admin.Get("/dashboard", h.Dashboard)

	// lecturers read their own unit assignments
	lecturer := api.Group("/lecturer", authMw, middleware.LecturerOnly())
	lecturer.Get("/assignments", h.LecturerAssignments)
}

func paging(ctx *fiber.Ctx) (int, int) {
	limit := ctx.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := ctx.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *AdminHandler) CreateStudent(ctx *fiber.Ctx) error {
	var requestBody dto.StudentCreate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if err := helper.Validate.Struct(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	student, err := h.accounts.ProvisionStudent(requestBody)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, student)
}

func (h *AdminHandler) ListStudents(ctx *fiber.Ctx) error {
	limit, offset := paging(ctx)
	students, total, err := h.accounts.ListStudents(repository.StudentQuery{
		Search:  ctx.Query("search"),
		School:  ctx.Query("school"),
		Program: ctx.Query("program"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"items": students, "total": total})
}

func (h *AdminHandler) UpdateStudent(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide a valid student id")
	}

	var requestBody dto.StudentUpdate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if err := helper.Validate.Struct(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	student, err := h.accounts.UpdateStudent(uint(id), requestBody)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, student)
}

func (h *AdminHandler) DeleteStudent(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide a valid student id")
	}

	if err := h.accounts.DeleteStudent(uint(id)); err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"deleted": true})
}

func (h *AdminHandler) CreateOfficer(ctx *fiber.Ctx) error {
	var requestBody dto.OfficerCreate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if err := helper.Validate.Struct(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	officer, err := h.accounts.ProvisionOfficer(requestBody)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, officer)
}

func (h *AdminHandler) ListOfficers(ctx *fiber.Ctx) error {
	limit, offset := paging(ctx)
	officers, total, err := h.accounts.ListOfficers(repository.OfficerQuery{
		Search:     ctx.Query("search"),
		Department: ctx.Query("department"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"items": officers, "total": total})
}

func (h *AdminHandler) CreateLecturer(ctx *fiber.Ctx) error {
	var requestBody dto.LecturerCreate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if err := helper.Validate.Struct(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	lecturer, err := h.accounts.ProvisionLecturer(requestBody)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, lecturer)
}

func (h *AdminHandler) ListLecturers(ctx *fiber.Ctx) error {
	limit, offset := paging(ctx)
	lecturers, total, err := h.accounts.ListLecturers(repository.LecturerQuery{
		Search:     ctx.Query("search"),
		Department: ctx.Query("department"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{"items": lecturers, "total": total})
}

func (h *AdminHandler) CreateUnitAssignment(ctx *fiber.Ctx) error {
	var requestBody dto.UnitAssignmentCreate
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide valid inputs")
	}
	if err := helper.Validate.Struct(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	assignment, err := h.accounts.CreateUnitAssignment(requestBody)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, assignment)
}

func (h *AdminHandler) ListApplications(ctx *fiber.Ctx) error {
	apps, total, err := h.applications.List(parseApplicationQuery(ctx))
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, toApplicationList(apps, total))
}

func (h *AdminHandler) AdvanceStatus(ctx *fiber.Ctx) error {
	var requestBody dto.StatusPatchRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "please provide a valid action")
	}
	if err := helper.Validate.Struct(requestBody); err != nil {
		return utils.ResponseValidation(ctx, err)
	}

	app, err := h.applications.Advance(ctx.Params("appID"), domain.StatusAction(requestBody.Action))
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, toApplicationResponse(*app))
}

func (h *AdminHandler) Dashboard(ctx *fiber.Ctx) error {
	stats, err := h.accounts.Dashboard()
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, stats)
}

func (h *AdminHandler) LecturerAssignments(ctx *fiber.Ctx) error {
	user, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
	}

	assignments, err := h.accounts.LecturerAssignments(user.UserID)
	if err != nil {
		return utils.ResponseDomainError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, assignments)
}
