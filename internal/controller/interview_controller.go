package controller

import (
	"ai-workflow-be/internal/dto"
	"ai-workflow-be/internal/pkg/serverutils"
	"ai-workflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IInterviewController interface {
	RegisterRoutes(r fiber.Router)
	StartInterview(ctx *fiber.Ctx) error
	Question(ctx *fiber.Ctx) error
	Feedback(ctx *fiber.Ctx) error
	Summary(ctx *fiber.Ctx) error
}

type interviewController struct {
	service service.IInterviewService
}

func NewInterviewController(service service.IInterviewService) IInterviewController {
	return &interviewController{service: service}
}

func (c *interviewController) RegisterRoutes(r fiber.Router) {
	r.Post("/start-interview", c.StartInterview)
	r.Post("/question", c.Question)
	r.Post("/feedback", c.Feedback)
	r.Get("/interview-summary/:sessionId", c.Summary)
}

func (c *interviewController) StartInterview(ctx *fiber.Ctx) error {
	var req dto.StartInterviewRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.StartInterview(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *interviewController) Question(ctx *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.NextQuestion(ctx.UserContext(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *interviewController) Feedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Feedback(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *interviewController) Summary(ctx *fiber.Ctx) error {
	res, err := c.service.Summary(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
