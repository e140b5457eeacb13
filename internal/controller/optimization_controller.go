package controller

import (
	"ai-workflow-be/internal/dto"
	"ai-workflow-be/internal/pkg/serverutils"
	"ai-workflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOptimizationController interface {
	RegisterRoutes(r fiber.Router)
	Optimize(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	GetResult(ctx *fiber.Ctx) error
	DeleteResult(ctx *fiber.Ctx) error
}

type optimizationController struct {
	service service.IOptimizationService
}

func NewOptimizationController(service service.IOptimizationService) IOptimizationController {
	return &optimizationController{service: service}
}

func (c *optimizationController) RegisterRoutes(r fiber.Router) {
	r.Post("/optimize", c.Optimize)
	r.Get("/history", c.History)
	r.Get("/result/:id", c.GetResult)
	r.Delete("/result/:id", c.DeleteResult)
}

func (c *optimizationController) Optimize(ctx *fiber.Ctx) error {
	var req dto.OptimizeRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Optimize(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *optimizationController) History(ctx *fiber.Ctx) error {
	res, err := c.service.History(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *optimizationController) GetResult(ctx *fiber.Ctx) error {
	res, err := c.service.GetResult(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *optimizationController) DeleteResult(ctx *fiber.Ctx) error {
	if err := c.service.DeleteResult(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.MessageResponse{Message: "Result deleted"})
}
