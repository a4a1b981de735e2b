package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/repository/session"
	"ai-outfit-planner-be/pkg/catalog"
	"ai-outfit-planner-be/pkg/llm"
	"ai-outfit-planner-be/pkg/planner/contextfile"
	"ai-outfit-planner-be/pkg/planner/demo"
	"ai-outfit-planner-be/pkg/planner/generator"
	"ai-outfit-planner-be/pkg/store"
)

const plannerTestCatalog = `sku,name,category,price,colors,weatherSuitability,formality,layering,tags,notes
001,White Oxford Shirt,topwear,49.90,white,mild,business,base,,
002,Navy Chinos,bottomwear,59.00,navy,all,smart-casual,base,,
003,Black Loafers,footwear,85.00,black,all,business,none,,
004,Wool Blazer,outerwear,120.00,charcoal,cool,business,outer,,
005,Leather Belt,accessories,25.00,brown,all,business,none,,
`

const plannerAgentReply = `{
	"tripId": "trip-1", "sessionId": "sess", "generatedAt": "2024-01-14T10:00:00Z",
	"tripDetails": {"duration": 3},
	"dailyOutfits": [
		{"day": 1, "occasion": "conference", "outfit": {
			"topwear": {"sku":"001","name":"White Oxford Shirt","category":"topwear","price":49.9},
			"bottomwear": {"sku":"002","name":"Navy Chinos","category":"bottomwear","price":59},
			"footwear": {"sku":"003","name":"Black Loafers","category":"footwear","price":85},
			"accessories": [{"sku":"005","name":"Leather Belt","category":"accessories","price":25}]
		}, "styling": {"rationale":"r","weatherConsiderations":"w","dresscodeCompliance":"d"}},
		{"day": 2, "occasion": "conference", "outfit": {
			"topwear": {"sku":"001","name":"White Oxford Shirt","category":"topwear","price":49.9},
			"bottomwear": {"sku":"002","name":"Navy Chinos","category":"bottomwear","price":59},
			"footwear": {"sku":"003","name":"Black Loafers","category":"footwear","price":85},
			"accessories": []
		}, "styling": {"rationale":"r","weatherConsiderations":"w","dresscodeCompliance":"d"}},
		{"day": 3, "occasion": "conference", "outfit": {
			"topwear": {"sku":"001","name":"White Oxford Shirt","category":"topwear","price":49.9},
			"bottomwear": {"sku":"002","name":"Navy Chinos","category":"bottomwear","price":59},
			"footwear": {"sku":"003","name":"Black Loafers","category":"footwear","price":85},
			"accessories": []
		}, "styling": {"rationale":"r","weatherConsiderations":"w","dresscodeCompliance":"d"}}
	],
	"reusabilityAnalysis": {}
}`

type fakeWeather struct {
	result *dto.WeatherResult
	calls  int
}

func (f *fakeWeather) Fetch(ctx context.Context, query dto.WeatherQuery) *dto.WeatherResult {
	f.calls++
	return f.result
}

type fakeAgent struct {
	reply string
	err   error
	calls int
}

func (a *fakeAgent) InvokeAgent(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	a.calls++
	if a.err != nil {
		return "", a.err
	}
	return a.reply, nil
}
func (a *fakeAgent) Chat(ctx context.Context, h []llm.Message, o ...llm.Option) (string, error) {
	return a.InvokeAgent(ctx, "", o...)
}
func (a *fakeAgent) Generate(ctx context.Context, p string, o ...llm.Option) (string, error) {
	return a.InvokeAgent(ctx, p, o...)
}

type recordingPublisher struct {
	stageChanges []StageChangedMessage
	completions  []PlanCompletedMessage
}

func (r *recordingPublisher) PublishStageChanged(ctx context.Context, sessionId, from, to string) error {
	r.stageChanges = append(r.stageChanges, StageChangedMessage{SessionId: sessionId, FromStage: from, ToStage: to})
	return nil
}

func (r *recordingPublisher) PublishPlanCompleted(ctx context.Context, sessionId string, details *dto.EventDetails, data *dto.GenerationData) error {
	r.completions = append(r.completions, PlanCompletedMessage{SessionId: sessionId, EventDetails: details, Plan: data})
	return nil
}

type plannerFixture struct {
	svc       IPlannerService
	agent     *fakeAgent
	weather   *fakeWeather
	publisher *recordingPublisher
}

func goodWeather() *dto.WeatherResult {
	return &dto.WeatherResult{
		Success: true,
		WeatherContext: &dto.WeatherContext{
			WeatherData:      dto.WeatherData{Temperature: dto.Temperature{Min: -5, Max: 2, Unit: "celsius"}, Conditions: "snow"},
			Location:         "Chicago",
			TemperatureRange: "-5-2°C (very cold)",
			LayeringNeeds:    "heavy layering",
		},
	}
}

func newPlannerFixture(t *testing.T, agent *fakeAgent, weatherResult *dto.WeatherResult) *plannerFixture {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte(plannerTestCatalog), 0o644))

	kv := store.NewMemoryStore()
	states := session.NewStateRepository(kv, time.Minute)
	accumulator := contextfile.NewAccumulator(kv, time.Minute, nil)
	loader := catalog.NewLoader(time.Minute, nil)
	demoGen := demo.NewGenerator(loader, "../../assets/demo_catalog.csv", nil)
	demoGen.Sleep = func(ctx context.Context, d time.Duration) {}
	gen := generator.NewGenerator(accumulator, loader, catalogPath, demoGen, agent, nil)

	fw := &fakeWeather{result: weatherResult}
	pub := &recordingPublisher{}
	return &plannerFixture{
		svc:       NewPlannerService(states, accumulator, fw, gen, nil, pub, nil),
		agent:     agent,
		weather:   fw,
		publisher: pub,
	}
}

func confirmedConference() dto.EventDetails {
	return dto.EventDetails{
		Occasion:  "business conference",
		Location:  "Chicago",
		StartDate: "2024-01-15",
		Duration:  3,
		DressCode: "business",
	}
}

func TestHappyPathTraversesAllStages(t *testing.T) {
	f := newPlannerFixture(t, &fakeAgent{reply: plannerAgentReply}, goodWeather())
	ctx := context.Background()

	state, err := f.svc.InitializeSession(ctx, "")
	require.NoError(t, err)
	sessionId := state.SessionId
	assert.Equal(t, constant.StageInputProcessing, state.Stage)

	resp, err := f.svc.ProcessUserInput(ctx, &dto.ProcessInputRequest{
		SessionId: sessionId,
		Message:   "I need outfits for a 3-day business conference in Chicago starting 2024-01-15",
	})
	require.NoError(t, err)
	assert.Equal(t, constant.StageConfirmationPending, resp.State.Stage)

	details := confirmedConference()
	confirmResp, err := f.svc.ConfirmEventDetails(ctx, &dto.ConfirmDetailsRequest{
		SessionId: sessionId, EventDetails: details,
	})
	require.NoError(t, err)
	assert.Equal(t, constant.StageContextGathering, confirmResp.State.Stage)
	require.NotNil(t, confirmResp.WeatherResult, "location present: weather gathered immediately")
	assert.Equal(t, 1, f.weather.calls)

	state, err = f.svc.CompleteContextGathering(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, constant.StageGenerating, state.Stage)
	assert.Empty(t, state.ContextData.Warnings)

	envelope, err := f.svc.GenerateOutfits(ctx, &dto.GenerateOutfitsRequest{SessionId: sessionId})
	require.NoError(t, err)
	require.True(t, envelope.Success, "error: %+v", envelope.Error)
	assert.Len(t, envelope.Data.Outfits, 3)
	assert.GreaterOrEqual(t, envelope.Data.ReusabilityAnalysis.ReusabilityPercentage, 40)

	final, err := f.svc.GetState(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, constant.StageComplete, final.Stage)

	// Stage events cover the whole traversal, in order.
	var stages []string
	for _, sc := range f.publisher.stageChanges {
		stages = append(stages, sc.ToStage)
	}
	assert.Equal(t, []string{
		constant.StageConfirmationPending,
		constant.StageContextGathering,
		constant.StageGenerating,
		constant.StageComplete,
	}, stages)
	require.Len(t, f.publisher.completions, 1)
}

func TestWeatherFailureIsRecoverable(t *testing.T) {
	f := newPlannerFixture(t, &fakeAgent{reply: plannerAgentReply}, &dto.WeatherResult{Success: false})
	ctx := context.Background()

	state, err := f.svc.InitializeSession(ctx, "")
	require.NoError(t, err)
	sessionId := state.SessionId

	_, err = f.svc.ProcessUserInput(ctx, &dto.ProcessInputRequest{SessionId: sessionId, Message: "conference trip"})
	require.NoError(t, err)

	confirmResp, err := f.svc.ConfirmEventDetails(ctx, &dto.ConfirmDetailsRequest{
		SessionId: sessionId, EventDetails: confirmedConference(),
	})
	require.NoError(t, err, "weather failure must not fail the transition")
	assert.Equal(t, constant.StageContextGathering, confirmResp.State.Stage)
	assert.True(t, confirmResp.State.ContextData.WeatherFailed)
	assert.Nil(t, confirmResp.State.ContextData.Weather)

	state, err = f.svc.CompleteContextGathering(ctx, sessionId)
	require.NoError(t, err)
	require.NotEmpty(t, state.ContextData.Warnings)
	assert.Equal(t, "Weather context missing despite location being provided", state.ContextData.Warnings[0])

	envelope, err := f.svc.GenerateOutfits(ctx, &dto.GenerateOutfitsRequest{SessionId: sessionId})
	require.NoError(t, err)
	assert.True(t, envelope.Success)
}

func TestGenerateWithoutConfirmationIsRejected(t *testing.T) {
	f := newPlannerFixture(t, &fakeAgent{reply: plannerAgentReply}, goodWeather())
	ctx := context.Background()

	state, err := f.svc.InitializeSession(ctx, "")
	require.NoError(t, err)
	sessionId := state.SessionId

	_, err = f.svc.GenerateOutfits(ctx, &dto.GenerateOutfitsRequest{SessionId: sessionId})
	require.Error(t, err)
	pErr, ok := err.(*dto.PipelineError)
	require.True(t, ok)
	assert.Equal(t, constant.ErrCodeValidation, pErr.Code)
	assert.Contains(t, pErr.Message, constant.StageInputProcessing)
	assert.Zero(t, f.agent.calls)

	errored, err := f.svc.GetState(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, constant.StageError, errored.Stage)

	reset, err := f.svc.ResetPipeline(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, constant.StageInputProcessing, reset.Stage)
	assert.Nil(t, reset.Error)
}

func TestWeatherGatheringIsStageGated(t *testing.T) {
	f := newPlannerFixture(t, &fakeAgent{reply: plannerAgentReply}, goodWeather())
	ctx := context.Background()

	state, err := f.svc.InitializeSession(ctx, "")
	require.NoError(t, err)

	_, err = f.svc.GatherWeatherContext(ctx, state.SessionId)
	require.Error(t, err)
	pErr, ok := err.(*dto.PipelineError)
	require.True(t, ok)
	assert.Equal(t, constant.ErrCodeValidation, pErr.Code)
	assert.Zero(t, f.weather.calls, "provider must not be called outside CONTEXT_GATHERING")
}

func TestAgentFailureMovesToError(t *testing.T) {
	f := newPlannerFixture(t, &fakeAgent{err: &llm.AgentError{Kind: llm.ErrKindNetwork, Message: "unreachable"}}, goodWeather())
	ctx := context.Background()

	state, err := f.svc.InitializeSession(ctx, "")
	require.NoError(t, err)
	sessionId := state.SessionId

	_, err = f.svc.ProcessUserInput(ctx, &dto.ProcessInputRequest{SessionId: sessionId, Message: "conference trip"})
	require.NoError(t, err)
	_, err = f.svc.ConfirmEventDetails(ctx, &dto.ConfirmDetailsRequest{SessionId: sessionId, EventDetails: confirmedConference()})
	require.NoError(t, err)
	_, err = f.svc.CompleteContextGathering(ctx, sessionId)
	require.NoError(t, err)

	envelope, err := f.svc.GenerateOutfits(ctx, &dto.GenerateOutfitsRequest{SessionId: sessionId})
	require.NoError(t, err)
	require.False(t, envelope.Success)

	errored, err := f.svc.GetState(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, constant.StageError, errored.Stage)
	require.NotNil(t, errored.Error)
	assert.Equal(t, constant.ErrCodeGeneration, errored.Error.Code)
}

func TestConfirmRejectsInvalidDetails(t *testing.T) {
	f := newPlannerFixture(t, &fakeAgent{reply: plannerAgentReply}, goodWeather())
	ctx := context.Background()

	state, err := f.svc.InitializeSession(ctx, "")
	require.NoError(t, err)
	sessionId := state.SessionId

	_, err = f.svc.ProcessUserInput(ctx, &dto.ProcessInputRequest{SessionId: sessionId, Message: "trip"})
	require.NoError(t, err)

	bad := confirmedConference()
	bad.DressCode = "pyjamas"
	_, err = f.svc.ConfirmEventDetails(ctx, &dto.ConfirmDetailsRequest{SessionId: sessionId, EventDetails: bad})
	require.Error(t, err)

	errored, err := f.svc.GetState(ctx, sessionId)
	require.NoError(t, err)
	assert.Equal(t, constant.StageError, errored.Stage)
	assert.Equal(t, constant.ErrCodeValidation, errored.Error.Code)
}

func TestDurationIsClampedToCap(t *testing.T) {
	f := newPlannerFixture(t, &fakeAgent{reply: plannerAgentReply}, goodWeather())
	ctx := context.Background()

	state, err := f.svc.InitializeSession(ctx, "")
	require.NoError(t, err)
	sessionId := state.SessionId

	_, err = f.svc.ProcessUserInput(ctx, &dto.ProcessInputRequest{SessionId: sessionId, Message: "trip"})
	require.NoError(t, err)

	long := confirmedConference()
	long.Duration = 30
	resp, err := f.svc.ConfirmEventDetails(ctx, &dto.ConfirmDetailsRequest{SessionId: sessionId, EventDetails: long})
	require.NoError(t, err)
	assert.Equal(t, constant.MaxTripDuration, resp.State.EventDetails.Duration)
}

func TestInitializeSessionIsIdempotentForLiveSessions(t *testing.T) {
	f := newPlannerFixture(t, &fakeAgent{reply: plannerAgentReply}, goodWeather())
	ctx := context.Background()

	first, err := f.svc.InitializeSession(ctx, "")
	require.NoError(t, err)
	_, err = f.svc.ProcessUserInput(ctx, &dto.ProcessInputRequest{SessionId: first.SessionId, Message: "trip"})
	require.NoError(t, err)

	again, err := f.svc.InitializeSession(ctx, first.SessionId)
	require.NoError(t, err)
	assert.Equal(t, first.SessionId, again.SessionId)
	assert.Equal(t, constant.StageConfirmationPending, again.Stage, "existing live session is returned, not replaced")
}
