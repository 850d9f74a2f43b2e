package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/SankarSubbayya/Finnie/internal/dto"
	"github.com/SankarSubbayya/Finnie/internal/pkg/serverutils"
	"github.com/SankarSubbayya/Finnie/internal/service"
)

type IAdvisorController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type advisorController struct {
	service service.IAdvisorService
}

func NewAdvisorController(service service.IAdvisorService) IAdvisorController {
	return &advisorController{service: service}
}

func (c *advisorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/advisor/v1")
	h.Post("/query", c.Query)
	h.Post("/session", c.CreateSession)
	h.Get("/session/:id/history", c.GetHistory)
}

func (c *advisorController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ProcessQuery(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process query", res))
}

func (c *advisorController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.Context(), req.UserID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *advisorController) GetHistory(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.GetHistory(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session history", res))
}
