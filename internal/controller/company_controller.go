package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICompanyController interface {
	RegisterRoutes(r fiber.Router)
	AddDocuments(ctx *fiber.Ctx) error
	QueryDocuments(ctx *fiber.Ctx) error
	DeleteDocument(ctx *fiber.Ctx) error
	ListCollections(ctx *fiber.Ctx) error
	DeleteCollections(ctx *fiber.Ctx) error
	AddFeedback(ctx *fiber.Ctx) error
	QueryFeedback(ctx *fiber.Ctx) error
}

type companyController struct {
	service service.ICompanyService
}

func NewCompanyController(service service.ICompanyService) ICompanyController {
	return &companyController{service: service}
}

func (c *companyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/company/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/documents", c.AddDocuments)
	h.Post("/query", c.QueryDocuments)
	h.Delete("/documents", c.DeleteDocument)
	h.Get("/collections", c.ListCollections)
	h.Delete("/collections/:company_id", c.DeleteCollections)
	h.Post("/feedback", c.AddFeedback)
	h.Post("/feedback/user", c.QueryFeedback)
}

func (c *companyController) AddDocuments(ctx *fiber.Ctx) error {
	var req dto.AddDocumentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddDocuments(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add documents", res))
}

func (c *companyController) QueryDocuments(ctx *fiber.Ctx) error {
	var req dto.QueryDocumentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.QueryDocuments(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success query documents", res))
}

func (c *companyController) DeleteDocument(ctx *fiber.Ctx) error {
	var req dto.DeleteDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.DeleteDocument(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete document", res))
}

func (c *companyController) ListCollections(ctx *fiber.Ctx) error {
	res, err := c.service.ListCollections(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list collections", res))
}

func (c *companyController) DeleteCollections(ctx *fiber.Ctx) error {
	companyId := ctx.Params("company_id")
	if companyId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "company_id is required")
	}

	res, err := c.service.DeleteCompanyCollections(ctx.Context(), companyId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete collections", res))
}

func (c *companyController) AddFeedback(ctx *fiber.Ctx) error {
	var req dto.AddFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddFeedback(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add feedback", res))
}

func (c *companyController) QueryFeedback(ctx *fiber.Ctx) error {
	var req dto.QueryFeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.QueryFeedback(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success query feedback", res))
}
