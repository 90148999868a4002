package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/generative-ai-go/genai"
	"github.com/joeshaw/envdecode"
	"google.golang.org/api/option"

	"mealcompanion"
	"mealcompanion/console"
	"mealcompanion/coordinator"
	"mealcompanion/llm"
	"mealcompanion/llm/bedrock"
	"mealcompanion/llm/gemini"
	"mealcompanion/llm/mock"
	"mealcompanion/llm/ollama"
	"mealcompanion/profile"
	"mealcompanion/slack"
	"mealcompanion/tools"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var modelConfig mealcompanion.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var agentConfig mealcompanion.AgentConfig
	if err := envdecode.Decode(&agentConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	store, err := newProfileStore(ctx, agentConfig)
	if err != nil {
		slog.Error("SETUP: Failed to create profile store", "error", err)
		return
	}

	client, closeClient, err := newGateway(ctx, agentConfig, modelConfig)
	if err != nil {
		slog.Error("SETUP: Failed to create model gateway", "gateway", agentConfig.Gateway, "error", err)
		return
	}
	defer closeClient()
	slog.Info("SETUP: Model gateway ready", "gateway", agentConfig.Gateway, "model_id", modelConfig.ModelID)

	logger, cleanup, err := newStepLogger(agentConfig.Gateway + "." + modelConfig.ModelID)
	if err != nil {
		slog.Error("SETUP: Failed to create step logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("Failed to flush step log", "error", err)
		}
	}()

	var opts []coordinator.Option

	if agentConfig.OtelEnabled {
		tracerProvider, meterProvider, otelShutdown, err := mealcompanion.InitOtel(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
			return
		}
		defer func() {
			if err := otelShutdown(context.Background()); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()
		opts = append(opts,
			coordinator.WithTracer(tracerProvider.Tracer(mealcompanion.TracerNameCoordinator)),
			coordinator.WithMeter(meterProvider.Meter(mealcompanion.MeterName)),
		)
	}

	if agentConfig.SlackWebhookURL != "" {
		opts = append(opts, coordinator.WithNotifier(slack.NewClient(agentConfig.SlackWebhookURL, http.DefaultClient), agentConfig.SlackChannel))
		slog.Info("SETUP: Grocery lists will be posted to Slack", "channel", agentConfig.SlackChannel)
	}

	if agentConfig.DebugDump {
		opts = append(opts, coordinator.WithDump(os.Stderr))
	}

	orchestrator := coordinator.NewOrchestrator(
		store,
		client,
		tools.NewRegistry(),
		console.NewTerminal(os.Stdin, os.Stdout),
		coordinator.NewFixedPacer(agentConfig.PacingDelay),
		logger,
		opts...,
	)

	if err := orchestrator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("RESULT: Session loop failed", "error", err)
	}
}

func newProfileStore(ctx context.Context, cfg mealcompanion.AgentConfig) (profile.Store, error) {
	if cfg.ProfilesS3Bucket == "" {
		slog.Info("SETUP: Loading profiles from directory", "path", cfg.ProfilesPath)
		return profile.NewFileStore(cfg.ProfilesPath), nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	slog.Info("SETUP: Loading profiles from S3", "bucket", cfg.ProfilesS3Bucket, "prefix", cfg.ProfilesS3Prefix)
	return profile.NewS3Store(s3.NewFromConfig(awsCfg), cfg.ProfilesS3Bucket, cfg.ProfilesS3Prefix), nil
}

// newGateway builds the configured model gateway and a function releasing it.
func newGateway(ctx context.Context, cfg mealcompanion.AgentConfig, modelCfg mealcompanion.ModelConfig) (llm.Client, func(), error) {
	noop := func() {}

	switch cfg.Gateway {
	case mealcompanion.GatewayBedrock:
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return nil, noop, err
		}
		return bedrock.NewLLMClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.LLMOptions{
			ModelID:     modelCfg.ModelID,
			MaxTokens:   modelCfg.MaxTokens,
			Temperature: modelCfg.Temperature,
			TopP:        modelCfg.TopP,
		}), noop, nil

	case mealcompanion.GatewayGemini:
		if cfg.GoogleAPIKey == "" {
			return nil, noop, errors.New("GOOGLE_API_KEY is required for the gemini gateway")
		}
		gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GoogleAPIKey))
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := gc.Close(); err != nil {
				slog.Error("Failed to close Gemini client", "error", err)
			}
		}
		return gemini.NewLLMClient(gc, gemini.LLMOptions{
			ModelID:     modelCfg.ModelID,
			MaxTokens:   modelCfg.MaxTokens,
			Temperature: modelCfg.Temperature,
			TopP:        modelCfg.TopP,
		}), closeFn, nil

	case mealcompanion.GatewayOllama:
		c, err := ollama.NewClient(ollama.ClientOpts{
			BaseEndpoint: cfg.BaseOllamaEndpoint,
			ModelID:      modelCfg.ModelID,
			MaxTokens:    int(modelCfg.MaxTokens),
		})
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil

	case mealcompanion.GatewayMock:
		return mock.NewLLMClient(""), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown gateway %q", cfg.Gateway)
	}
}

func newStepLogger(model string) (mealcompanion.StepLogger, func() error, error) {
	logFilePath := mealcompanion.NewStepLogFilePath(model)
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := mealcompanion.NewFileStepLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
