package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/pkg/logger"
	"ai-outfit-planner-be/internal/repository/contract"
	"ai-outfit-planner-be/internal/repository/session"
	"ai-outfit-planner-be/pkg/catalog"
	"ai-outfit-planner-be/pkg/planner/contextfile"
	"ai-outfit-planner-be/pkg/planner/generator"
	"ai-outfit-planner-be/pkg/weather"
)

// IPlannerService is the session state machine orchestrating the outfit
// pipeline. Only this service sets pipeline stages; everything below it
// returns envelopes or errors and never touches the stage.
type IPlannerService interface {
	InitializeSession(ctx context.Context, sessionId string) (*dto.PipelineState, error)
	GetState(ctx context.Context, sessionId string) (*dto.PipelineState, error)
	ProcessUserInput(ctx context.Context, req *dto.ProcessInputRequest) (*dto.ProcessInputResponse, error)
	ConfirmEventDetails(ctx context.Context, req *dto.ConfirmDetailsRequest) (*dto.ConfirmDetailsResponse, error)
	GatherWeatherContext(ctx context.Context, sessionId string) (*dto.WeatherResult, error)
	CompleteContextGathering(ctx context.Context, sessionId string) (*dto.PipelineState, error)
	GenerateOutfits(ctx context.Context, req *dto.GenerateOutfitsRequest) (*dto.GenerateEnvelope, error)
	ResetPipeline(ctx context.Context, sessionId string) (*dto.PipelineState, error)
}

// legalTransitions is the directed stage graph. Edges listed here are
// the only moves Save will accept.
var legalTransitions = map[string][]string{
	constant.StageInputProcessing:     {constant.StageConfirmationPending, constant.StageError},
	constant.StageConfirmationPending: {constant.StageContextGathering, constant.StageInputProcessing, constant.StageError},
	constant.StageContextGathering:    {constant.StageGenerating, constant.StageError},
	constant.StageGenerating:          {constant.StageComplete, constant.StageError},
	constant.StageComplete:            {constant.StageInputProcessing},
	constant.StageError:               {constant.StageInputProcessing},
}

type plannerService struct {
	states      *session.StateRepository
	accumulator *contextfile.Accumulator
	weather     weather.Provider
	generator   *generator.Generator
	closetRepo  contract.ClosetRepository
	publisher   IPublisherService
	validate    *validator.Validate
	log         logger.ILogger
}

func NewPlannerService(
	states *session.StateRepository,
	accumulator *contextfile.Accumulator,
	weatherProvider weather.Provider,
	outfitGenerator *generator.Generator,
	closetRepo contract.ClosetRepository,
	publisher IPublisherService,
	log logger.ILogger,
) IPlannerService {
	return &plannerService{
		states:      states,
		accumulator: accumulator,
		weather:     weatherProvider,
		generator:   outfitGenerator,
		closetRepo:  closetRepo,
		publisher:   publisher,
		validate:    validator.New(),
		log:         log,
	}
}

// InitializeSession returns the existing non-expired state for the id,
// or creates a fresh one in INPUT_PROCESSING together with its context
// file. An empty id gets a generated one.
func (s *plannerService) InitializeSession(ctx context.Context, sessionId string) (*dto.PipelineState, error) {
	if sessionId != "" {
		if state, err := s.states.Get(ctx, sessionId); err == nil {
			return state, nil
		}
	}
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	state := &dto.PipelineState{
		SessionId: sessionId,
		Stage:     constant.StageInputProcessing,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.states.Save(ctx, state); err != nil {
		return nil, err
	}
	if _, err := s.accumulator.Initialize(ctx, sessionId, ""); err != nil {
		return nil, err
	}

	s.logInfo(sessionId, "Session initialized", nil)
	return state, nil
}

func (s *plannerService) GetState(ctx context.Context, sessionId string) (*dto.PipelineState, error) {
	return s.states.Get(ctx, sessionId)
}

// ProcessUserInput is legal only from INPUT_PROCESSING. It records the
// original message on the context file, merges any extracted details
// and moves to CONFIRMATION_PENDING.
func (s *plannerService) ProcessUserInput(ctx context.Context, req *dto.ProcessInputRequest) (*dto.ProcessInputResponse, error) {
	state, err := s.requireStage(ctx, req.SessionId, constant.StageInputProcessing, "processUserInput")
	if err != nil {
		return nil, err
	}

	// Fresh input resets the accumulated context.
	if _, err := s.accumulator.Initialize(ctx, req.SessionId, req.Message); err != nil {
		return nil, s.fail(ctx, state, constant.ErrCodeExtraction, "could not initialize context", err)
	}
	if req.ExtractedDetails != nil {
		if _, err := s.accumulator.AddExtractedDetails(ctx, req.SessionId, req.ExtractedDetails); err != nil {
			return nil, s.fail(ctx, state, constant.ErrCodeExtraction, "could not merge extracted details", err)
		}
		state.EventDetails = req.ExtractedDetails
	}

	if err := s.transition(ctx, state, constant.StageConfirmationPending); err != nil {
		return nil, err
	}
	return &dto.ProcessInputResponse{State: state}, nil
}

// ConfirmEventDetails validates the confirmed details and moves to
// CONTEXT_GATHERING. When a location is known it gathers weather
// immediately; a weather failure never fails the transition.
func (s *plannerService) ConfirmEventDetails(ctx context.Context, req *dto.ConfirmDetailsRequest) (*dto.ConfirmDetailsResponse, error) {
	state, err := s.requireStage(ctx, req.SessionId, constant.StageConfirmationPending, "confirmEventDetails")
	if err != nil {
		return nil, err
	}

	details := req.EventDetails
	if details.Duration < 1 {
		details.Duration = constant.DefaultTripDuration
	}
	if details.Duration > constant.MaxTripDuration {
		details.Duration = constant.MaxTripDuration
	}
	if err := s.validate.Struct(&details); err != nil {
		return nil, s.fail(ctx, state, constant.ErrCodeValidation, fmt.Sprintf("invalid event details: %v", err), err)
	}

	if _, err := s.accumulator.AddConfirmedDetails(ctx, req.SessionId, &details); err != nil {
		return nil, s.fail(ctx, state, constant.ErrCodeGeneration, "could not merge confirmed details", err)
	}
	state.EventDetails = &details

	if err := s.transition(ctx, state, constant.StageContextGathering); err != nil {
		return nil, err
	}

	response := &dto.ConfirmDetailsResponse{State: state}
	if details.Location != "" {
		// Best effort: weather errors are recoverable by design.
		if result, err := s.GatherWeatherContext(ctx, req.SessionId); err == nil {
			response.WeatherResult = result
			response.State, _ = s.states.Get(ctx, req.SessionId)
		} else {
			s.logWarn(req.SessionId, "Weather gathering failed after confirmation", err)
		}
	}
	return response, nil
}

// GatherWeatherContext is legal only during CONTEXT_GATHERING. It never
// fails the pipeline: an unavailable provider marks weatherFailed and
// the pipeline continues without weather.
func (s *plannerService) GatherWeatherContext(ctx context.Context, sessionId string) (*dto.WeatherResult, error) {
	state, err := s.states.Get(ctx, sessionId)
	if err != nil {
		return nil, dto.NewPipelineError(constant.ErrCodeValidation, "no active session")
	}
	if state.Stage != constant.StageContextGathering {
		return nil, dto.NewPipelineError(constant.ErrCodeValidation,
			fmt.Sprintf("weather can only be gathered during %s, current stage is %s", constant.StageContextGathering, state.Stage))
	}
	if state.EventDetails == nil || state.EventDetails.Location == "" {
		return nil, dto.NewPipelineError(constant.ErrCodeWeather, "no location available for weather lookup")
	}

	result := s.weather.Fetch(ctx, dto.WeatherQuery{
		Location:  state.EventDetails.Location,
		StartDate: state.EventDetails.StartDate,
		Duration:  state.EventDetails.Duration,
	})

	if state.ContextData == nil {
		state.ContextData = &dto.ContextData{}
	}
	if result.WeatherContext != nil {
		if _, err := s.accumulator.AddWeatherContext(ctx, sessionId, result.WeatherContext, result.FallbackUsed); err != nil {
			s.logWarn(sessionId, "Could not merge weather context", err)
		}
		state.ContextData.Weather = result.WeatherContext
	} else {
		state.ContextData.WeatherFailed = true
	}
	if err := s.states.Save(ctx, state); err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteContextGathering validates completeness (warnings only) and
// moves to GENERATING.
func (s *plannerService) CompleteContextGathering(ctx context.Context, sessionId string) (*dto.PipelineState, error) {
	state, err := s.requireStage(ctx, sessionId, constant.StageContextGathering, "completeContextGathering")
	if err != nil {
		return nil, err
	}

	if state.ContextData == nil {
		state.ContextData = &dto.ContextData{}
	}
	hasLocation := state.EventDetails != nil && state.EventDetails.Location != ""
	if hasLocation && state.ContextData.Weather == nil {
		warning := "Weather context missing despite location being provided"
		state.ContextData.Warnings = append(state.ContextData.Warnings, warning)
		if _, err := s.accumulator.AddWarning(ctx, sessionId, warning); err != nil {
			s.logWarn(sessionId, "Could not record completeness warning", err)
		}
	}

	if err := s.transition(ctx, state, constant.StageGenerating); err != nil {
		return nil, err
	}
	return state, nil
}

// GenerateOutfits is legal from GENERATING only. It delegates to the
// generation procedure and moves to COMPLETE or ERROR.
func (s *plannerService) GenerateOutfits(ctx context.Context, req *dto.GenerateOutfitsRequest) (*dto.GenerateEnvelope, error) {
	state, err := s.requireStage(ctx, req.SessionId, constant.StageGenerating, "generateOutfits")
	if err != nil {
		return nil, err
	}

	confirmed := req.ConfirmedDetails
	if confirmed == nil {
		confirmed = state.EventDetails
	}

	var closetItems []catalog.Item
	if req.UseCloset && s.closetRepo != nil {
		entities, err := s.closetRepo.FindAllBySessionId(ctx, req.SessionId)
		if err != nil {
			s.logWarn(req.SessionId, "Closet lookup failed, generating without closet items", err)
		}
		for _, e := range entities {
			closetItems = append(closetItems, catalog.Item{
				Sku:                e.Sku,
				Name:               e.Name,
				Category:           catalog.NormalizeCategory(e.Category),
				Price:              e.Price,
				Colors:             e.Colors,
				WeatherSuitability: e.WeatherSuitability,
				Formality:          e.Formality,
				Layering:           e.Layering,
				Tags:               e.Tags,
				Notes:              e.Notes,
			})
		}
	}

	envelope := s.generator.Generate(ctx, generator.Request{
		SessionId:        req.SessionId,
		ConfirmedDetails: confirmed,
		ClosetItems:      closetItems,
		AllowFallback:    req.AllowFallback,
	})

	if !envelope.Success {
		code := constant.ErrCodeGeneration
		if envelope.Error != nil && envelope.Error.Code == constant.EnvelopeParseError {
			code = constant.ErrCodeExtraction
		}
		state.Error = &dto.PipelineError{Code: code, Message: envelope.Error.Message, Details: envelope.Error.Details}
		if err := s.transition(ctx, state, constant.StageError); err != nil {
			return nil, err
		}
		return envelope, nil
	}

	state.OutfitRecommendations = envelope.Data
	state.Fallback = envelope.Data.Fallback
	state.Error = nil
	if err := s.transition(ctx, state, constant.StageComplete); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPlanCompleted(ctx, req.SessionId, confirmed, envelope.Data); err != nil {
			s.logWarn(req.SessionId, "Could not publish plan completion", err)
		}
	}
	return envelope, nil
}

// ResetPipeline returns the session to INPUT_PROCESSING preserving its
// identifier. Accumulated recommendations and errors are dropped.
func (s *plannerService) ResetPipeline(ctx context.Context, sessionId string) (*dto.PipelineState, error) {
	state, err := s.states.Get(ctx, sessionId)
	if err != nil {
		return s.InitializeSession(ctx, sessionId)
	}

	state.EventDetails = nil
	state.ContextData = nil
	state.OutfitRecommendations = nil
	state.Error = nil
	state.Fallback = false
	if err := s.transition(ctx, state, constant.StageInputProcessing); err != nil {
		return nil, err
	}
	return state, nil
}

// --- transition machinery ---

// requireStage loads the state and checks the operation is invoked from
// its legal stage. An illegal call records a validation error and moves
// the pipeline to ERROR.
func (s *plannerService) requireStage(ctx context.Context, sessionId, wantStage, operation string) (*dto.PipelineState, error) {
	state, err := s.states.Get(ctx, sessionId)
	if err != nil {
		return nil, dto.NewPipelineError(constant.ErrCodeValidation, "no active session; initialize one first")
	}
	if state.Stage != wantStage {
		pErr := dto.NewPipelineError(constant.ErrCodeValidation,
			fmt.Sprintf("%s is not legal from stage %s (requires %s)", operation, state.Stage, wantStage))
		state.Error = pErr
		if terr := s.transition(ctx, state, constant.StageError); terr != nil {
			s.logWarn(sessionId, "Could not record error stage", terr)
		}
		return nil, pErr
	}
	return state, nil
}

// transition validates the edge, persists the state and announces the
// change.
func (s *plannerService) transition(ctx context.Context, state *dto.PipelineState, toStage string) error {
	from := state.Stage
	if from != toStage && !edgeExists(from, toStage) {
		return dto.NewPipelineError(constant.ErrCodeValidation,
			fmt.Sprintf("illegal transition from %s to %s", from, toStage))
	}

	state.Stage = toStage
	if err := s.states.Save(ctx, state); err != nil {
		state.Stage = from
		return err
	}

	if s.publisher != nil && from != toStage {
		if err := s.publisher.PublishStageChanged(ctx, state.SessionId, from, toStage); err != nil {
			s.logWarn(state.SessionId, "Could not publish stage change", err)
		}
	}
	s.logInfo(state.SessionId, "Stage transition", map[string]interface{}{"from": from, "to": toStage})
	return nil
}

func edgeExists(from, to string) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// fail records a pipeline error, moves to ERROR and returns the error.
func (s *plannerService) fail(ctx context.Context, state *dto.PipelineState, code, message string, cause error) error {
	pErr := dto.NewPipelineError(code, message)
	if cause != nil {
		pErr.Details = cause.Error()
	}
	state.Error = pErr
	if err := s.transition(ctx, state, constant.StageError); err != nil {
		s.logWarn(state.SessionId, "Could not record error stage", err)
	}
	return pErr
}

// StageViewFor is the user-facing description of a stage.
func StageViewFor(stage string) dto.StageView {
	switch stage {
	case constant.StageInputProcessing:
		return dto.StageView{Title: "Tell us about your trip", Description: "Describe your trip in your own words."}
	case constant.StageConfirmationPending:
		return dto.StageView{Title: "Confirm the details", Description: "Check the extracted trip details and confirm or edit them."}
	case constant.StageContextGathering:
		return dto.StageView{Title: "Gathering context", Description: "Collecting weather and trip context."}
	case constant.StageGenerating:
		return dto.StageView{Title: "Creating your outfits", Description: "Your day-by-day outfit plan is being generated."}
	case constant.StageComplete:
		return dto.StageView{Title: "Your plan is ready", Description: "Review your outfit plan for each day."}
	default:
		return dto.StageView{Title: "Error", Description: "Something went wrong. Please try again."}
	}
}

func (s *plannerService) logInfo(sessionId, msg string, details map[string]interface{}) {
	if s.log == nil {
		return
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	details["session_id"] = sessionId
	s.log.Info("PlannerService", msg, details)
}

func (s *plannerService) logWarn(sessionId string, msg string, err error) {
	if s.log == nil {
		return
	}
	s.log.Warn("PlannerService", msg, map[string]interface{}{
		"session_id": sessionId, "error": err.Error(),
	})
}
