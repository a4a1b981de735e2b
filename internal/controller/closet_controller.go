package controller

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/pkg/serverutils"
	"ai-outfit-planner-be/internal/service"
)

type IClosetController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type closetController struct {
	closetService service.IClosetService
	jwtSecret     string
}

func NewClosetController(closetService service.IClosetService, jwtSecret string) IClosetController {
	return &closetController{
		closetService: closetService,
		jwtSecret:     jwtSecret,
	}
}

func (c *closetController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/closet/v1")
	h.Use(serverutils.SessionTokenMiddleware(c.jwtSecret))
	h.Post("", c.Save)
	h.Get("", c.List)
	h.Delete("all", c.Clear)
	h.Delete(":id", c.Delete)
}

func (c *closetController) Save(ctx *fiber.Ctx) error {
	sessionId := sessionIdFrom(ctx)
	if sessionId == "" {
		return serverutils.NewHttpError(http.StatusBadRequest, "validation_error", "session id is required")
	}

	var req dto.SaveClosetItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.closetService.SaveItem(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Closet item saved", res))
}

func (c *closetController) List(ctx *fiber.Ctx) error {
	sessionId := sessionIdFrom(ctx)
	if sessionId == "" {
		return serverutils.NewHttpError(http.StatusBadRequest, "validation_error", "session id is required")
	}

	items, err := c.closetService.GetItems(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Closet items", items))
}

func (c *closetController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewHttpError(http.StatusBadRequest, "validation_error", "invalid item id")
	}

	if err := c.closetService.DeleteItem(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Closet item deleted", nil))
}

func (c *closetController) Clear(ctx *fiber.Ctx) error {
	sessionId := sessionIdFrom(ctx)
	if sessionId == "" {
		return serverutils.NewHttpError(http.StatusBadRequest, "validation_error", "session id is required")
	}

	if err := c.closetService.ClearCloset(ctx.Context(), sessionId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Closet cleared", nil))
}
