package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-outfit-planner-be/internal/dto"
	"ai-outfit-planner-be/internal/entity"
	"ai-outfit-planner-be/internal/repository/implementation"
	"ai-outfit-planner-be/pkg/database"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, database.Migrate(gormDB))

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	ctx := context.Background()
	closetRepo := implementation.NewClosetRepository(gormDB)
	tripPlanRepo := implementation.NewTripPlanRepository(gormDB)
	sessionId := "integration-" + uuid.NewString()

	t.Run("Closet round trip", func(t *testing.T) {
		item := &entity.ClosetItem{
			SessionId: sessionId,
			Sku:       "IT001",
			Name:      "Integration Tee",
			Category:  "topwear",
			Price:     19.90,
			Tags:      []string{"test"},
		}
		require.NoError(t, closetRepo.Save(ctx, item))
		assert.NotEqual(t, uuid.Nil, item.Id)

		// Upsert on (session, sku): same row, new name
		item.Name = "Integration Tee v2"
		require.NoError(t, closetRepo.Save(ctx, item))

		items, err := closetRepo.FindAllBySessionId(ctx, sessionId)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Integration Tee v2", items[0].Name)
		assert.Equal(t, []string{"test"}, items[0].Tags)

		require.NoError(t, closetRepo.DeleteAllBySessionId(ctx, sessionId))
		items, err = closetRepo.FindAllBySessionId(ctx, sessionId)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Trip plan round trip", func(t *testing.T) {
		plan := &entity.TripPlan{
			SessionId:             sessionId,
			TripId:                uuid.NewString(),
			Occasion:              "integration test",
			Duration:              2,
			ReusabilityPercentage: 44,
			Plan: &dto.GenerationData{
				Outfits: map[int]dto.DailyOutfit{
					1: {Day: 1, Occasion: "integration test"},
				},
			},
		}
		require.NoError(t, tripPlanRepo.Create(ctx, plan))
		assert.NotEqual(t, uuid.Nil, plan.Id)

		loaded, err := tripPlanRepo.FindById(ctx, plan.Id)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, 44, loaded.ReusabilityPercentage)
		require.NotNil(t, loaded.Plan)
		assert.Equal(t, 1, loaded.Plan.Outfits[1].Day)

		all, err := tripPlanRepo.FindAllBySessionId(ctx, sessionId)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
