package controller

import (
	"ai-workflow-be/internal/dto"
	"ai-workflow-be/internal/pkg/serverutils"
	"ai-workflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILabController interface {
	RegisterRoutes(r fiber.Router)
	StartExperiment(ctx *fiber.Ctx) error
	SelectEquipment(ctx *fiber.Ctx) error
	NextStep(ctx *fiber.Ctx) error
	PerformAction(ctx *fiber.Ctx) error
	AskQuestion(ctx *fiber.Ctx) error
	CompleteExperiment(ctx *fiber.Ctx) error
}

type labController struct {
	service service.ILabService
}

func NewLabController(service service.ILabService) ILabController {
	return &labController{service: service}
}

func (c *labController) RegisterRoutes(r fiber.Router) {
	r.Post("/start-experiment", c.StartExperiment)
	r.Post("/select-equipment", c.SelectEquipment)
	r.Post("/next-step", c.NextStep)
	r.Post("/perform-action", c.PerformAction)
	r.Post("/ask-question", c.AskQuestion)
	r.Post("/complete-experiment", c.CompleteExperiment)
}

func (c *labController) StartExperiment(ctx *fiber.Ctx) error {
	var req dto.StartExperimentRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.StartExperiment(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *labController) SelectEquipment(ctx *fiber.Ctx) error {
	var req dto.SelectEquipmentRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SelectEquipment(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *labController) NextStep(ctx *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.NextStep(ctx.UserContext(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *labController) PerformAction(ctx *fiber.Ctx) error {
	var req dto.PerformActionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.PerformAction(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *labController) AskQuestion(ctx *fiber.Ctx) error {
	var req dto.AskQuestionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.AskQuestion(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *labController) CompleteExperiment(ctx *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CompleteExperiment(ctx.UserContext(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
