package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"ai-outfit-planner-be/internal/config"
	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/repository/session"
	"ai-outfit-planner-be/internal/service"
	"ai-outfit-planner-be/pkg/catalog"
	"ai-outfit-planner-be/pkg/llm/factory"
	"ai-outfit-planner-be/pkg/planner/contextfile"
	"ai-outfit-planner-be/pkg/planner/demo"
	"ai-outfit-planner-be/pkg/planner/generator"
	"ai-outfit-planner-be/pkg/store"
	"ai-outfit-planner-be/pkg/weather"
)

// The message that triggers the curated demo plan.
const demoMessage = "2 day trip to Spain. Want to walk around the city and go for a nice dinner, casual outfit."

func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// main walks the whole pipeline in-process against the demo catalog.
// No database, NATS or agent backend is needed.
func main() {
	color.Cyan("🚀 Outfit planner demo walkthrough\n")

	cfg := config.Load()

	kv := store.NewMemoryStore()
	states := session.NewStateRepository(kv, session.DefaultTTL)
	accumulator := contextfile.NewAccumulator(kv, contextfile.DefaultTTL, nil)
	loader := catalog.NewLoader(5*time.Minute, nil)
	demoGen := demo.NewGenerator(loader, cfg.Catalog.DemoPath, nil)

	// The demo message short-circuits before the agent, so any provider
	// will do here.
	agent, err := factory.NewAgentInvoker(factory.Config{Provider: "ollama", ModelName: cfg.Ai.ModelName})
	if err != nil {
		color.Red("Failed to build agent: %v", err)
		os.Exit(1)
	}

	outfitGenerator := generator.NewGenerator(accumulator, loader, cfg.Catalog.Path, demoGen, agent, nil)
	weatherProvider := weather.NewClient(cfg.Weather.GeocodeURL, cfg.Weather.ForecastURL, nil)

	planner := service.NewPlannerService(states, accumulator, weatherProvider, outfitGenerator, nil, nil, nil)
	ctx := context.Background()

	color.Yellow("\n[1] Initialize session")
	state, err := planner.InitializeSession(ctx, "")
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	sessionId := state.SessionId
	color.Green("Session: %s (stage %s)", sessionId, state.Stage)

	color.Yellow("\n[2] Process user input")
	color.White("  %q", demoMessage)
	inputRes, err := planner.ProcessUserInput(ctx, &dto.ProcessInputRequest{
		SessionId: sessionId,
		Message:   demoMessage,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Stage: %s", inputRes.State.Stage)

	color.Yellow("\n[3] Confirm event details")
	confirmRes, err := planner.ConfirmEventDetails(ctx, &dto.ConfirmDetailsRequest{
		SessionId: sessionId,
		EventDetails: dto.EventDetails{
			Occasion:  "city walk and dinner",
			Location:  "Barcelona, Spain",
			StartDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
			Duration:  2,
			DressCode: "casual",
		},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Stage: %s", confirmRes.State.Stage)
	if confirmRes.WeatherResult != nil && confirmRes.WeatherResult.WeatherContext != nil {
		wc := confirmRes.WeatherResult.WeatherContext
		color.White("  Weather: %s, %s", wc.TemperatureRange, wc.WeatherData.Conditions)
		if confirmRes.WeatherResult.FallbackUsed {
			color.White("  (seasonal estimate; live forecast unavailable)")
		}
	}

	color.Yellow("\n[4] Complete context gathering")
	state, err = planner.CompleteContextGathering(ctx, sessionId)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Stage: %s", state.Stage)

	color.Yellow("\n[5] Generate outfits (demo plan, 2-4s)")
	envelope, err := planner.GenerateOutfits(ctx, &dto.GenerateOutfitsRequest{SessionId: sessionId})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if !envelope.Success {
		color.Red("Generation failed:")
		prettyPrint(envelope.Error)
		os.Exit(1)
	}

	color.Green("Generated %d daily outfits (demo mode: %v)", len(envelope.Data.Outfits), envelope.Data.IsDemoMode)
	for day := 1; day <= len(envelope.Data.Outfits); day++ {
		outfit, ok := envelope.Data.Outfits[day]
		if !ok {
			continue
		}
		color.Cyan("\n— Day %d (%s)", day, outfit.Occasion)
		prettyPrint(outfit.Outfit)
		color.White("  %s", outfit.Styling.Rationale)
	}

	if analysis := envelope.Data.ReusabilityAnalysis; analysis != nil {
		color.Cyan("\nReusability: %d%% (%d of %d items reused)",
			analysis.ReusabilityPercentage, analysis.ReusedItems, analysis.TotalItems)
	}
}
