package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"mealcompanion"
	"mealcompanion/console"
	"mealcompanion/coordinator"
	"mealcompanion/llm"
	"mealcompanion/llm/bedrock"
	"mealcompanion/llm/mock"
	"mealcompanion/profile"
	"mealcompanion/tools"
)

// Params answers the two session questions up front.
type Params struct {
	UserID      string `json:"user_id"`
	GroceryList bool   `json:"grocery_list"`
}

type Results struct {
	SessionID   string   `json:"session_id"`
	Stage       string   `json:"stage"`
	MealPlan    string   `json:"meal_plan,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	GroceryList string   `json:"grocery_list,omitempty"`
	Transcript  string   `json:"transcript"`
	Error       string   `json:"error,omitempty"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var modelConfig mealcompanion.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			return Results{}, fmt.Errorf("failed to decode model config: %w", err)
		}

		var agentConfig mealcompanion.AgentConfig
		if err := envdecode.Decode(&agentConfig); err != nil {
			return Results{}, fmt.Errorf("failed to decode agent config: %w", err)
		}

		if agentConfig.ProfilesS3Bucket == "" {
			return Results{}, fmt.Errorf("missing S3 config: PROFILES_S3_BUCKET must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		store := profile.NewS3Store(s3.NewFromConfig(awsCfg), agentConfig.ProfilesS3Bucket, agentConfig.ProfilesS3Prefix)
		slog.Info("SETUP: S3 profile store initialized", "bucket", agentConfig.ProfilesS3Bucket)

		var client llm.Client
		switch agentConfig.Gateway {
		case mealcompanion.GatewayMock:
			client = mock.NewLLMClient("")
		default:
			client = bedrock.NewLLMClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.LLMOptions{
				ModelID:     modelConfig.ModelID,
				MaxTokens:   modelConfig.MaxTokens,
				Temperature: modelConfig.Temperature,
				TopP:        modelConfig.TopP,
			})
		}

		var opts []coordinator.Option
		if agentConfig.OtelEnabled {
			tracerProvider, meterProvider, otelShutdown, err := mealcompanion.InitOtel(ctx)
			if err != nil {
				slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
				return Results{}, err
			}
			defer func() {
				if err := otelShutdown(ctx); err != nil {
					slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
				}
			}()
			opts = append(opts,
				coordinator.WithTracer(tracerProvider.Tracer(mealcompanion.TracerNameCoordinator)),
				coordinator.WithMeter(meterProvider.Meter(mealcompanion.MeterName)),
			)
		}

		consent := "no"
		if params.GroceryList {
			consent = "yes"
		}
		transcript := console.NewScripted(params.UserID, consent)

		state, err := coordinator.NewOrchestrator(
			store,
			client,
			tools.NewRegistry(),
			transcript,
			coordinator.NewFixedPacer(agentConfig.PacingDelay),
			mealcompanion.NewStdoutStepLogger(),
			opts...,
		).StartSession(ctx)

		results := Results{
			SessionID:   state.ID,
			Stage:       state.Stage.String(),
			MealPlan:    state.LastMealPlan,
			Ingredients: state.Ingredients,
			GroceryList: state.GroceryList,
			Transcript:  transcript.Output(),
		}
		if err != nil {
			slog.Error("RESULT: Session aborted", "session_id", state.ID, "error", err)
			results.Error = err.Error()
		}
		return results, nil
	}

	lambda.Start(fn)
}
