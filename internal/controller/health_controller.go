package controller

import (
	"ai-workflow-be/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// SessionCounter reports live sessions for one workflow family.
type SessionCounter interface {
	ActiveSessions() int
}

// EventCounter reports consumed workflow events by type.
type EventCounter interface {
	Stats() map[string]int
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	counters map[string]SessionCounter
	events   EventCounter
}

func NewHealthController(counters map[string]SessionCounter, events EventCounter) IHealthController {
	return &healthController{counters: counters, events: events}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	sessions := make(map[string]int, len(c.counters))
	for name, counter := range c.counters {
		sessions[name] = counter.ActiveSessions()
	}
	events := map[string]int{}
	if c.events != nil {
		events = c.events.Stats()
	}
	return ctx.JSON(dto.HealthResponse{Status: "ok", Sessions: sessions, Events: events})
}
