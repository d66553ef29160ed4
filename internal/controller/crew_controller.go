package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICrewController interface {
	RegisterRoutes(r fiber.Router)
	CreateAgent(ctx *fiber.Ctx) error
	CreateTask(ctx *fiber.Ctx) error
	CreateCrew(ctx *fiber.Ctx) error
	Kickoff(ctx *fiber.Ctx) error
}

type crewController struct {
	service service.ICrewService
}

func NewCrewController(service service.ICrewService) ICrewController {
	return &crewController{service: service}
}

func (c *crewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/crew/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/agents", c.CreateAgent)
	h.Post("/tasks", c.CreateTask)
	h.Post("/crews", c.CreateCrew)
	h.Post("/crews/:id/kickoff", c.Kickoff)
}

func (c *crewController) CreateAgent(ctx *fiber.Ctx) error {
	var req dto.CreateAgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateAgent(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create agent", res))
}

func (c *crewController) CreateTask(ctx *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateTask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create task", res))
}

func (c *crewController) CreateCrew(ctx *fiber.Ctx) error {
	var req dto.CreateCrewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateCrew(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create crew", res))
}

func (c *crewController) Kickoff(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid crew id")
	}

	res, err := c.service.Kickoff(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success kickoff crew", res))
}
