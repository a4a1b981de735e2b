package controller

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/pkg/serverutils"
	"ai-outfit-planner-be/internal/service"
)

type IPlannerController interface {
	RegisterRoutes(r fiber.Router)
	InitSession(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	ProcessInput(ctx *fiber.Ctx) error
	ConfirmDetails(ctx *fiber.Ctx) error
	GatherWeather(ctx *fiber.Ctx) error
	CompleteContext(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	ListPlans(ctx *fiber.Ctx) error
	ShowPlan(ctx *fiber.Ctx) error
}

type plannerController struct {
	plannerService  service.IPlannerService
	tripPlanService service.ITripPlanService
	jwtSecret       string
}

func NewPlannerController(plannerService service.IPlannerService, tripPlanService service.ITripPlanService, jwtSecret string) IPlannerController {
	return &plannerController{
		plannerService:  plannerService,
		tripPlanService: tripPlanService,
		jwtSecret:       jwtSecret,
	}
}

func (c *plannerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/planner/v1")
	h.Post("session", c.InitSession)
	h.Get("session/:id", c.ShowSession)
	h.Post("input", c.ProcessInput)
	h.Post("confirm", c.ConfirmDetails)
	h.Post("context/weather", c.GatherWeather)
	h.Post("context/complete", c.CompleteContext)
	h.Post("generate", c.Generate)
	h.Post("reset", c.Reset)

	plans := h.Group("plans", serverutils.SessionTokenMiddleware(c.jwtSecret))
	plans.Get("", c.ListPlans)
	plans.Get(":id", c.ShowPlan)
}

// sessionStateResponse pairs the raw state with its user-facing view.
type sessionStateResponse struct {
	State        *dto.PipelineState `json:"state"`
	StageView    dto.StageView      `json:"stage_view"`
	SessionToken string             `json:"session_token,omitempty"`
}

func stateResponse(state *dto.PipelineState) sessionStateResponse {
	return sessionStateResponse{State: state, StageView: service.StageViewFor(state.Stage)}
}

func (c *plannerController) InitSession(ctx *fiber.Ctx) error {
	var req dto.InitSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	state, err := c.plannerService.InitializeSession(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}

	response := stateResponse(state)
	if c.jwtSecret != "" {
		token, err := serverutils.IssueSessionToken(c.jwtSecret, state.SessionId)
		if err != nil {
			return err
		}
		response.SessionToken = token
	}
	return ctx.JSON(serverutils.SuccessResponse("Session initialized", response))
}

func (c *plannerController) ShowSession(ctx *fiber.Ctx) error {
	state, err := c.plannerService.GetState(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session state", stateResponse(state)))
}

func (c *plannerController) ProcessInput(ctx *fiber.Ctx) error {
	var req dto.ProcessInputRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.plannerService.ProcessUserInput(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Input processed", stateResponse(res.State)))
}

func (c *plannerController) ConfirmDetails(ctx *fiber.Ctx) error {
	var req dto.ConfirmDetailsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.plannerService.ConfirmEventDetails(ctx.Context(), &req)
	if err != nil {
		return err
	}

	response := stateResponse(res.State)
	return ctx.JSON(serverutils.SuccessResponse("Details confirmed", fiber.Map{
		"state":          response.State,
		"stage_view":     response.StageView,
		"weather_result": res.WeatherResult,
	}))
}

func (c *plannerController) GatherWeather(ctx *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result, err := c.plannerService.GatherWeatherContext(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Weather gathered", result))
}

func (c *plannerController) CompleteContext(ctx *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	state, err := c.plannerService.CompleteContextGathering(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Context gathering complete", stateResponse(state)))
}

func (c *plannerController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateOutfitsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	envelope, err := c.plannerService.GenerateOutfits(ctx.Context(), &req)
	if err != nil {
		return err
	}
	// The envelope carries its own success flag; failed generations are
	// valid HTTP responses, not transport errors.
	return ctx.JSON(envelope)
}

func (c *plannerController) Reset(ctx *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	state, err := c.plannerService.ResetPipeline(ctx.Context(), req.SessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pipeline reset", stateResponse(state)))
}

func (c *plannerController) ListPlans(ctx *fiber.Ctx) error {
	sessionId := sessionIdFrom(ctx)
	if sessionId == "" {
		return serverutils.NewHttpError(http.StatusBadRequest, "validation_error", "session id is required")
	}

	plans, err := c.tripPlanService.GetPlans(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Trip plans", plans))
}

func (c *plannerController) ShowPlan(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewHttpError(http.StatusBadRequest, "validation_error", "invalid plan id")
	}

	plan, err := c.tripPlanService.GetPlanById(ctx.Context(), id)
	if err != nil {
		return err
	}
	if plan == nil {
		return serverutils.NewHttpError(http.StatusNotFound, "plan_not_found", "Trip plan not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Trip plan", plan))
}

// sessionIdFrom resolves the session from the verified token when auth
// is on, falling back to an explicit query parameter otherwise.
func sessionIdFrom(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals("session_id").(string); ok && v != "" {
		return v
	}
	return ctx.Query("session_id")
}
