package serverutils

import (
	"errors"

	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

const errorModule = "HTTP"

// StatusOf maps an error onto its HTTP status and response body.
func StatusOf(err error) (int, ErrorBody) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperror.KindNotFound:
			return fiber.StatusNotFound, ErrorResponse(appErr.Message, nil)
		case apperror.KindValidation:
			return fiber.StatusBadRequest, ErrorResponse(appErr.Message, appErr.Details)
		case apperror.KindConflict:
			return fiber.StatusConflict, ErrorResponse(appErr.Message, nil)
		case apperror.KindMalformedResponse, apperror.KindInvalidResponseShape:
			return fiber.StatusInternalServerError, ErrorResponse("Failed to process model response", fiber.Map{
				"kind":    appErr.Kind,
				"message": appErr.Error(),
				"raw":     appErr.Raw,
			})
		case apperror.KindGateway:
			return fiber.StatusInternalServerError, ErrorResponse("Failed to generate content", fiber.Map{
				"kind":    appErr.Kind,
				"message": appErr.Error(),
			})
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, ErrorResponse(fiberErr.Message, nil)
	}

	return fiber.StatusInternalServerError, ErrorResponse("Internal server error", err.Error())
}

// ErrorHandler is the fiber ErrorHandler: every error a handler returns is
// rendered as JSON and server-side failures are logged.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status, body := StatusOf(err)
		details := map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": status,
			"error":  err.Error(),
		}
		if status >= fiber.StatusInternalServerError {
			log.Error(errorModule, "Request failed", details)
		} else {
			log.Debug(errorModule, "Request rejected", details)
		}
		return ctx.Status(status).JSON(body)
	}
}

// ErrorHandlerMiddleware applies ErrorHandler to errors returned further down
// the chain so that middleware registered before it sees the final status.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	handle := ErrorHandler(log)
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return handle(ctx, err)
		}
		return nil
	}
}
