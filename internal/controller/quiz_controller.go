package controller

import (
	"ai-workflow-be/internal/dto"
	"ai-workflow-be/internal/pkg/serverutils"
	"ai-workflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQuizController interface {
	RegisterRoutes(r fiber.Router)
	StartQuiz(ctx *fiber.Ctx) error
	Pregenerate(ctx *fiber.Ctx) error
	GenerateQuestion(ctx *fiber.Ctx) error
	CheckAnswer(ctx *fiber.Ctx) error
	CompleteQuiz(ctx *fiber.Ctx) error
}

type quizController struct {
	service service.IQuizService
}

func NewQuizController(service service.IQuizService) IQuizController {
	return &quizController{service: service}
}

func (c *quizController) RegisterRoutes(r fiber.Router) {
	r.Post("/start-quiz", c.StartQuiz)
	r.Post("/pregenerate-questions", c.Pregenerate)
	r.Post("/generate-question", c.GenerateQuestion)
	r.Post("/check-answer", c.CheckAnswer)
	r.Post("/complete-quiz", c.CompleteQuiz)
}

func (c *quizController) StartQuiz(ctx *fiber.Ctx) error {
	var req dto.StartQuizRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.StartQuiz(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *quizController) Pregenerate(ctx *fiber.Ctx) error {
	var req dto.PregenerateRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Pregenerate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *quizController) GenerateQuestion(ctx *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.GenerateQuestion(ctx.UserContext(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *quizController) CheckAnswer(ctx *fiber.Ctx) error {
	var req dto.CheckAnswerRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CheckAnswer(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *quizController) CompleteQuiz(ctx *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CompleteQuiz(ctx.UserContext(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
