package serverutils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/repository/session"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into
// the JSON error envelope. Pipeline errors keep their code; unknown
// errors become opaque 500s.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var httpErr *HttpError
		if errors.As(err, &httpErr) {
			return ctx.Status(httpErr.Status).JSON(ErrorBody{
				Message: httpErr.Message,
				Code:    httpErr.Code,
				Details: httpErr.Details,
			})
		}

		var pipelineErr *dto.PipelineError
		if errors.As(err, &pipelineErr) {
			return ctx.Status(statusForPipelineError(pipelineErr)).JSON(ErrorBody{
				Message: pipelineErr.Message,
				Code:    pipelineErr.Code,
				Details: pipelineErr.Details,
			})
		}

		if errors.Is(err, session.ErrNotFound) {
			return ctx.Status(http.StatusNotFound).JSON(ErrorResponse("Session not found or expired", "session_not_found", nil))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message, "", nil))
		}

		return ctx.Status(http.StatusInternalServerError).JSON(ErrorResponse("Internal server error", "internal_error", nil))
	}
}

func statusForPipelineError(err *dto.PipelineError) int {
	switch err.Code {
	case constant.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case constant.ErrCodeWeather, constant.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
