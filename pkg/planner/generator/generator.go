package generator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ai-outfit-planner-be/internal/constant"
	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/pkg/logger"
	"ai-outfit-planner-be/pkg/catalog"
	"ai-outfit-planner-be/pkg/llm"
	"ai-outfit-planner-be/pkg/planner/contextfile"
	"ai-outfit-planner-be/pkg/planner/demo"
	"ai-outfit-planner-be/pkg/planner/prompt"
	"ai-outfit-planner-be/pkg/planner/respparse"
	"ai-outfit-planner-be/pkg/planner/reuse"
)

// Request carries one generation run.
type Request struct {
	SessionId        string
	ConfirmedDetails *dto.EventDetails
	ClosetItems      []catalog.Item
	AllowFallback    bool
}

// Generator runs the full outfit-generation procedure: context lookup,
// demo short-circuit, catalog merge, prompt construction, agent
// invocation, response validation and reusability analysis. It never
// returns a Go error across its public API; outcomes are envelopes.
type Generator struct {
	accumulator *contextfile.Accumulator
	loader      *catalog.Loader
	catalogPath string
	demoGen     *demo.Generator
	agent       llm.AgentInvoker
	builder     *prompt.Builder
	log         logger.ILogger
}

func NewGenerator(
	accumulator *contextfile.Accumulator,
	loader *catalog.Loader,
	catalogPath string,
	demoGen *demo.Generator,
	agent llm.AgentInvoker,
	log logger.ILogger,
) *Generator {
	return &Generator{
		accumulator: accumulator,
		loader:      loader,
		catalogPath: catalogPath,
		demoGen:     demoGen,
		agent:       agent,
		builder:     prompt.NewBuilder(),
		log:         log,
	}
}

// Generate executes the procedure for one session.
func (g *Generator) Generate(ctx context.Context, req Request) *dto.GenerateEnvelope {
	cf, err := g.accumulator.Get(ctx, req.SessionId)
	if err != nil {
		return errEnvelope(constant.EnvelopeGenerationError, "no context file exists for this session", nil)
	}

	if demo.Matches(cf.UserInput.OriginalMessage) {
		data, err := g.demoGen.Generate(ctx, req.SessionId)
		if err != nil {
			g.logError(req.SessionId, "Demo generation failed", err)
			return errEnvelope(constant.EnvelopeDemoGenerationError, "demo plan could not be generated", err.Error())
		}
		return &dto.GenerateEnvelope{Success: true, Data: data}
	}

	cat, err := g.loader.Load(ctx, g.catalogPath)
	if err != nil {
		g.logError(req.SessionId, "Catalog load failed", err)
		return errEnvelope(constant.EnvelopeGenerationError, "clothing catalog is unavailable", err.Error())
	}
	merged := catalog.Merge(req.ClosetItems, cat)

	summary := contextfile.GenerateSummary(cf)
	duration := summary.Duration
	if req.ConfirmedDetails != nil && req.ConfirmedDetails.Duration > 0 {
		duration = req.ConfirmedDetails.Duration
	}

	promptText := g.builder.Build(summary, merged.CSVText(), duration)

	raw, err := g.agent.InvokeAgent(ctx, promptText, llm.WithSessionId(req.SessionId))
	if err != nil {
		g.logError(req.SessionId, "Agent invocation failed", err)
		envelope := agentErrEnvelope(err)
		if req.AllowFallback {
			return g.fallbackEnvelope(merged, duration, summary, envelope.Error)
		}
		return envelope
	}

	result, err := respparse.NewParser(merged).Parse(raw, duration)
	if err != nil {
		g.logError(req.SessionId, "Response validation failed", err)
		parseErr := &dto.PipelineError{
			Code:    constant.EnvelopeParseError,
			Message: "agent response failed validation",
			Details: raw,
		}
		if req.AllowFallback {
			return g.fallbackEnvelope(merged, duration, summary, parseErr)
		}
		return &dto.GenerateEnvelope{Success: false, Error: parseErr}
	}

	analysis := result.Reusability
	if analysis == nil {
		analysis = reuse.Analyze(result.Outfits)
	}

	warnings := result.Warnings
	if target := prompt.ReuseTarget(duration); analysis.ReusabilityPercentage < target {
		warnings = append(warnings, fmt.Sprintf(
			"reusability %d%% is below the %d%% target", analysis.ReusabilityPercentage, target))
	}

	return &dto.GenerateEnvelope{
		Success: true,
		Data: &dto.GenerationData{
			Outfits:             result.Outfits,
			ReusabilityAnalysis: analysis,
			ContextSummary:      contextfile.FormatForAI(cf),
			RawAiData:           raw,
			GeneratedAt:         time.Now().UTC(),
			Warnings:            warnings,
			Recovered:           result.Recovered,
		},
	}
}

// fallbackEnvelope installs a deterministic plan built from neutral
// catalog items. The run still completes; the underlying failure is
// preserved on the payload.
func (g *Generator) fallbackEnvelope(cat *catalog.Catalog, duration int, summary *contextfile.Summary, cause *dto.PipelineError) *dto.GenerateEnvelope {
	outfits, err := FallbackPlan(cat, duration)
	if err != nil {
		return &dto.GenerateEnvelope{Success: false, Error: cause}
	}
	return &dto.GenerateEnvelope{
		Success: true,
		Data: &dto.GenerationData{
			Outfits:             outfits,
			ReusabilityAnalysis: reuse.Analyze(outfits),
			ContextSummary:      fmt.Sprintf("Fallback plan for a %d-day %s trip.", duration, summary.Occasion),
			GeneratedAt:         time.Now().UTC(),
			Fallback:            true,
			FallbackError:       cause,
		},
	}
}

// FallbackPlan builds one identical neutral outfit per day: the
// lowest-SKU item of each required category, plus outerwear when the
// catalog has any.
func FallbackPlan(cat *catalog.Catalog, duration int) (map[int]dto.DailyOutfit, error) {
	if duration < 1 {
		duration = 1
	}

	topwear := lowestByCategory(cat, "topwear")
	bottomwear := lowestByCategory(cat, "bottomwear")
	footwear := lowestByCategory(cat, "footwear")
	if topwear == nil || bottomwear == nil || footwear == nil {
		return nil, fmt.Errorf("catalog lacks items for the required outfit slots")
	}
	outerwear := lowestByCategory(cat, "outerwear")

	styling := dto.Styling{
		Rationale:             "Neutral versatile pieces selected automatically because the personalized plan was unavailable.",
		WeatherConsiderations: "Items chosen to tolerate a broad range of conditions.",
		DresscodeCompliance:   "Neutral styling suitable for most occasions.",
	}

	now := time.Now().UTC()
	outfits := make(map[int]dto.DailyOutfit, duration)
	for day := 1; day <= duration; day++ {
		outfits[day] = dto.DailyOutfit{
			Day: day,
			Outfit: dto.OutfitSlots{
				Topwear:    topwear,
				Bottomwear: bottomwear,
				Footwear:   footwear,
				Outerwear:  outerwear,
			},
			Styling:   styling,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return outfits, nil
}

func lowestByCategory(cat *catalog.Catalog, category string) *dto.OutfitItem {
	var candidates []catalog.Item
	for _, it := range cat.Items {
		if it.Category == category {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Sku < candidates[j].Sku })
	chosen := candidates[0]
	return &dto.OutfitItem{
		Sku:                chosen.Sku,
		Name:               chosen.Name,
		Category:           chosen.Category,
		Price:              chosen.Price,
		Colors:             chosen.Colors,
		WeatherSuitability: chosen.WeatherSuitability,
		Formality:          chosen.Formality,
		Notes:              chosen.Notes,
	}
}

func agentErrEnvelope(err error) *dto.GenerateEnvelope {
	var code, message string
	switch llm.ErrKind(err) {
	case llm.ErrKindResourceNotFound:
		code, message = constant.EnvelopeAgentNotFound, "the planning agent could not be found"
	case llm.ErrKindAccessDenied:
		code, message = constant.EnvelopeAccessDenied, "access to the planning agent was denied"
	case llm.ErrKindThrottled:
		code, message = constant.EnvelopeAgentError, "the planning agent is throttling requests"
	case llm.ErrKindNetwork:
		code, message = constant.EnvelopeAgentError, "the planning agent is unreachable"
	default:
		code, message = constant.EnvelopeAgentError, "the planning agent failed"
	}
	return errEnvelope(code, message, err.Error())
}

func errEnvelope(code, message string, details any) *dto.GenerateEnvelope {
	return &dto.GenerateEnvelope{
		Success: false,
		Error:   &dto.PipelineError{Code: code, Message: message, Details: details},
	}
}

func (g *Generator) logError(sessionId, msg string, err error) {
	if g.log != nil {
		g.log.Error("OutfitGenerator", msg, map[string]interface{}{
			"session_id": sessionId, "error": err.Error(),
		})
	}
}
